package lua

import "errors"

// Errors for Lua plugin operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when a call runs past its deadline.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrNoDecorate is returned when a script does not define decorate.
	ErrNoDecorate = errors.New("plugin does not define decorate(html)")
)
