package engine

import (
	"github.com/dshills/markpad/internal/engine/history"
	"github.com/dshills/markpad/internal/markup"
)

// Default configuration values.
const (
	DefaultHistoryCapacity = history.DefaultCapacity
)

// Option configures a Session during creation.
type Option func(*Session)

// WithContent sets the initial buffer content.
func WithContent(content string) Option {
	return func(s *Session) {
		s.initContent = content
	}
}

// WithHistoryCapacity sets the maximum number of undo snapshots.
func WithHistoryCapacity(capacity int) Option {
	return func(s *Session) {
		if capacity > 0 {
			s.capacity = capacity
		}
	}
}

// WithPipeline sets the render pipeline used for the preview.
func WithPipeline(p Previewer) Option {
	return func(s *Session) {
		if p != nil {
			s.pipeline = p
		}
	}
}

// WithPreview registers fn to receive every rendered document. It is
// called after the session lock is released.
func WithPreview(fn func(markup.Document)) Option {
	return func(s *Session) {
		s.onPreview = fn
	}
}

// WithLogger sets the session logger.
func WithLogger(l Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}
