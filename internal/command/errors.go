package command

import (
	"errors"
	"fmt"
)

// ErrUnknownCommand indicates a name outside the command set.
var ErrUnknownCommand = errors.New("unknown command")

// ValidationError reports a rejected command argument. The buffer is not
// touched when a command returns one.
type ValidationError struct {
	Command string
	Arg     string
	Reason  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid argument %q: %s", e.Command, e.Arg, e.Reason)
}
