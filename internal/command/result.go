package command

import (
	"fmt"

	"github.com/dshills/markpad/internal/engine/buffer"
)

// ResultStatus indicates the outcome of a command.
type ResultStatus uint8

const (
	// StatusOK indicates the command changed the buffer.
	StatusOK ResultStatus = iota
	// StatusNoOp indicates the command had no effect.
	StatusNoOp
	// StatusError indicates the command was rejected.
	StatusError
)

// String returns a string representation of the status.
func (s ResultStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoOp:
		return "no-op"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Result represents the outcome of executing a command.
type Result struct {
	// Status indicates the result status.
	Status ResultStatus

	// Error contains the rejection reason for StatusError.
	Error error

	// Message is an optional status message for display.
	Message string

	// Edit is the mutation that was applied, for StatusOK.
	Edit buffer.Result
}

// IsOK returns true if the result indicates success.
func (r Result) IsOK() bool {
	return r.Status == StatusOK
}

// IsError returns true if the result indicates an error.
func (r Result) IsError() bool {
	return r.Status == StatusError
}

// Success creates a successful result carrying the applied edit.
func Success(edit buffer.Result) Result {
	return Result{Status: StatusOK, Edit: edit}
}

// NoOpWithMessage creates a no-operation result with a message.
func NoOpWithMessage(msg string) Result {
	return Result{Status: StatusNoOp, Message: msg}
}

// Error creates an error result.
func Error(err error) Result {
	return Result{Status: StatusError, Error: err, Message: err.Error()}
}

// Errorf creates an error result with a formatted message.
func Errorf(format string, args ...any) Result {
	return Error(fmt.Errorf(format, args...))
}
