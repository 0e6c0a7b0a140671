// Package layer stacks markpad configuration sources by priority.
//
// Each Layer holds a nested map decoded from one source. The Manager merges
// them lowest priority first, so a setting in a higher layer replaces the
// same path below it while untouched siblings survive.
package layer

import "time"

// Source identifies where a layer's values came from.
type Source uint8

const (
	// SourceBuiltin holds the compiled-in defaults.
	SourceBuiltin Source = iota
	// SourceUser is the user's config.toml.
	SourceUser
	// SourceEnv holds MARKPAD_* environment overrides.
	SourceEnv
	// SourceArgs holds command-line flag overrides.
	SourceArgs
	// SourceSession holds values set while the editor is running.
	SourceSession
)

// Layer priorities. Higher values win.
const (
	PriorityBuiltin = 0
	PriorityUser    = 100
	PriorityEnv     = 500
	PriorityArgs    = 600
	PrioritySession = 1000
)

var sourceNames = [...]string{
	SourceBuiltin: "defaults",
	SourceUser:    "user",
	SourceEnv:     "environment",
	SourceArgs:    "arguments",
	SourceSession: "session",
}

// String returns the standard layer name for the source.
func (s Source) String() string {
	if int(s) < len(sourceNames) {
		return sourceNames[s]
	}
	return "unknown"
}

// Priority returns the default priority for the source.
func (s Source) Priority() int {
	switch s {
	case SourceUser:
		return PriorityUser
	case SourceEnv:
		return PriorityEnv
	case SourceArgs:
		return PriorityArgs
	case SourceSession:
		return PrioritySession
	default:
		return PriorityBuiltin
	}
}

// Layer is one configuration source.
type Layer struct {
	Name     string
	Priority int
	Source   Source

	// Path is set for file-backed layers.
	Path string

	Data     map[string]any
	ModTime  time.Time
	ReadOnly bool
}

// New creates an empty layer named after its source with the source's
// default priority.
func New(source Source) *Layer {
	return NewWithData(source, nil)
}

// NewWithData creates a layer holding data. The map is not copied.
func NewWithData(source Source, data map[string]any) *Layer {
	if data == nil {
		data = make(map[string]any)
	}
	return &Layer{
		Name:     source.String(),
		Priority: source.Priority(),
		Source:   source,
		Data:     data,
		ModTime:  time.Now(),
	}
}

// Clone returns a deep copy.
func (l *Layer) Clone() *Layer {
	c := *l
	c.Data = cloneMap(l.Data)
	return &c
}

func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = cloneValue(v)
	}
	return dst
}

func cloneValue(val any) any {
	switch v := val.(type) {
	case map[string]any:
		return cloneMap(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return val
	}
}
