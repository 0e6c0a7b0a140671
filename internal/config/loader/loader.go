// Package loader decodes markpad configuration sources into nested maps.
//
// Loaders never merge or validate. They return the raw map for one source,
// and the config package stacks the results as layers.
package loader

import "fmt"

// Loader reads one configuration source. A missing source is not an error:
// Load returns nil, nil.
type Loader interface {
	Load() (map[string]any, error)
}

// ParseError reports a malformed configuration file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Column > 0:
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	default:
		return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
	}
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
