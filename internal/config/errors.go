package config

import (
	"errors"
	"fmt"

	"github.com/dshills/markpad/internal/config/loader"
)

// Errors returned by Config.
var (
	// ErrSettingNotFound means no layer sets the path.
	ErrSettingNotFound = errors.New("setting not found")

	// ErrTypeMismatch is matched by every *TypeError.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrInvalidValue means a value has the right type but is out of range.
	ErrInvalidValue = errors.New("invalid value")
)

// ParseError reports a malformed settings file.
type ParseError = loader.ParseError

// TypeError is returned when a setting holds the wrong type.
type TypeError struct {
	Path     string
	Expected string
	Actual   string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("type error for %s: expected %s, got %s", e.Path, e.Expected, e.Actual)
}

// Is matches ErrTypeMismatch.
func (e *TypeError) Is(target error) bool {
	return target == ErrTypeMismatch
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "nil"
	case string:
		return "string"
	case bool:
		return "bool"
	case int, int64:
		return "int"
	case float64:
		return "float64"
	case []any, []string:
		return "array"
	case map[string]any:
		return "table"
	default:
		return fmt.Sprintf("%T", v)
	}
}
