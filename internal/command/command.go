package command

import (
	"github.com/dshills/markpad/internal/engine/buffer"
	"github.com/dshills/markpad/internal/engine/cursor"
)

// Primitive is the buffer operation a command is bound to.
type Primitive uint8

const (
	// PrimitiveWrap surrounds the selection or a placeholder.
	PrimitiveWrap Primitive = iota
	// PrimitiveLinePrefix inserts text at the start of the caret's line.
	PrimitiveLinePrefix
	// PrimitiveStructured replaces a captured range with built text.
	PrimitiveStructured
)

// String returns the primitive name.
func (p Primitive) String() string {
	switch p {
	case PrimitiveWrap:
		return "wrap"
	case PrimitiveLinePrefix:
		return "line-prefix"
	case PrimitiveStructured:
		return "structured"
	default:
		return "unknown"
	}
}

// Target is the editing session a command runs against.
type Target interface {
	Selection() cursor.Selection
	Wrap(before, after, placeholder string) buffer.Result
	PrefixLine(prefix string) buffer.Result
	InsertStructured(captured buffer.Range, replacement string) buffer.Result
}

// Op is a fully resolved command ready to apply.
type Op struct {
	Before      string
	After       string
	Placeholder string
	Prefix      string
	Replacement string
}

// Command is one entry of the command set.
type Command struct {
	// Name is the namespaced command name, e.g. "format.bold".
	Name string

	// Label is the short toolbar label.
	Label string

	// Tooltip describes the command.
	Tooltip string

	// Primitive is the buffer operation the command uses.
	Primitive Primitive

	// RequiresSelection makes the command a no-op on an empty selection.
	RequiresSelection bool

	// resolve validates arg and returns the operation to apply.
	resolve func(arg string) (Op, error)
}

// Available reports whether the command can run on sel. When it cannot,
// the result carries the message to show.
func (c *Command) Available(sel cursor.Selection) (Result, bool) {
	if c.RequiresSelection && !sel.HasSelection() {
		return NoOpWithMessage(c.Label + ": select text first"), false
	}
	return Result{}, true
}

// Apply runs the command against t. Arguments are validated before the
// buffer is touched.
func (c *Command) Apply(t Target, arg string) Result {
	sel := t.Selection()
	if res, ok := c.Available(sel); !ok {
		return res
	}

	op, err := c.resolve(arg)
	if err != nil {
		return Error(err)
	}

	switch c.Primitive {
	case PrimitiveWrap:
		return Success(t.Wrap(op.Before, op.After, op.Placeholder))
	case PrimitiveLinePrefix:
		return Success(t.PrefixLine(op.Prefix))
	case PrimitiveStructured:
		return Success(t.InsertStructured(sel.Range(), op.Replacement))
	default:
		return Errorf("%s: unknown primitive %s", c.Name, c.Primitive)
	}
}

func wrap(before, after, placeholder string) func(string) (Op, error) {
	return func(string) (Op, error) {
		return Op{Before: before, After: after, Placeholder: placeholder}, nil
	}
}

func prefix(p string) func(string) (Op, error) {
	return func(string) (Op, error) {
		return Op{Prefix: p}, nil
	}
}
