package command

import (
	"fmt"

	"github.com/dshills/markpad/internal/engine/cursor"
)

// Command names.
const (
	CmdBold          = "format.bold"
	CmdItalic        = "format.italic"
	CmdUnderline     = "format.underline"
	CmdStrikethrough = "format.strikethrough"
	CmdCode          = "format.code"
	CmdComment       = "format.comment"
	CmdColor         = "format.color"
	CmdLink          = "insert.link"
	CmdImage         = "insert.image"
	CmdCodeBlock     = "insert.codeblock"
	CmdRule          = "insert.hr"
	CmdTable         = "insert.table"
	CmdQuote         = "line.quote"
	CmdBulletList    = "line.ul"
	CmdOrderedList   = "line.ol"
	CmdTask          = "line.task"
	CmdHeading       = "line.heading"
)

// selectFirstSuffix is appended to the tooltip of a disabled command.
const selectFirstSuffix = " (Select text first)"

// Registry is the fixed set of editing commands. It is built once and is
// read-only afterwards, so it is safe for concurrent use.
type Registry struct {
	commands map[string]*Command
	order    []string
}

// NewRegistry creates the registry holding the full command set.
func NewRegistry() *Registry {
	r := &Registry{commands: make(map[string]*Command)}
	for _, c := range builtins() {
		c := c
		r.commands[c.Name] = &c
		r.order = append(r.order, c.Name)
	}
	return r
}

func builtins() []Command {
	return []Command{
		{Name: CmdBold, Label: "Bold", Tooltip: "Bold (Ctrl+B)", Primitive: PrimitiveWrap,
			resolve: wrap("**", "**", "bold text")},
		{Name: CmdItalic, Label: "Italic", Tooltip: "Italic (Alt+I)", Primitive: PrimitiveWrap,
			resolve: wrap("*", "*", "italic text")},
		{Name: CmdUnderline, Label: "Underline", Tooltip: "Underline", Primitive: PrimitiveWrap,
			resolve: wrap("<u>", "</u>", "underlined text")},
		{Name: CmdStrikethrough, Label: "Strikethrough", Tooltip: "Strikethrough", Primitive: PrimitiveWrap,
			RequiresSelection: true, resolve: wrap("~~", "~~", "")},
		{Name: CmdCode, Label: "Code", Tooltip: "Inline code", Primitive: PrimitiveWrap,
			resolve: wrap("`", "`", "code")},
		{Name: CmdComment, Label: "Comment", Tooltip: "Comment", Primitive: PrimitiveWrap,
			RequiresSelection: true, resolve: wrap("<!-- ", " -->", "")},
		{Name: CmdColor, Label: "Color", Tooltip: "Font color", Primitive: PrimitiveWrap,
			resolve: colorOp},
		{Name: CmdLink, Label: "Link", Tooltip: "Link", Primitive: PrimitiveWrap,
			RequiresSelection: true, resolve: linkOp},
		{Name: CmdImage, Label: "Image", Tooltip: "Image", Primitive: PrimitiveWrap,
			resolve: imageOp},
		{Name: CmdCodeBlock, Label: "Code block", Tooltip: "Code block", Primitive: PrimitiveWrap,
			resolve: codeBlockOp},
		{Name: CmdRule, Label: "Rule", Tooltip: "Horizontal rule", Primitive: PrimitiveWrap,
			resolve: wrap("\n---\n", "", "")},
		{Name: CmdTable, Label: "Table", Tooltip: "Table (Ctrl+T)", Primitive: PrimitiveStructured,
			resolve: tableOp},
		{Name: CmdQuote, Label: "Quote", Tooltip: "Quote", Primitive: PrimitiveLinePrefix,
			resolve: prefix("> ")},
		{Name: CmdBulletList, Label: "List", Tooltip: "Bullet list", Primitive: PrimitiveLinePrefix,
			resolve: prefix("- ")},
		{Name: CmdOrderedList, Label: "Numbered", Tooltip: "Numbered list", Primitive: PrimitiveLinePrefix,
			resolve: prefix("1. ")},
		{Name: CmdTask, Label: "Task", Tooltip: "Task list", Primitive: PrimitiveLinePrefix,
			resolve: prefix("- [ ] ")},
		{Name: CmdHeading, Label: "Heading", Tooltip: "Heading", Primitive: PrimitiveLinePrefix,
			resolve: headingOp},
	}
}

// Get returns the named command.
func (r *Registry) Get(name string) (*Command, bool) {
	c, ok := r.commands[name]
	return c, ok
}

// Names returns all command names in toolbar order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of commands.
func (r *Registry) Len() int {
	return len(r.order)
}

// Execute runs the named command against t.
func (r *Registry) Execute(t Target, name, arg string) Result {
	c, ok := r.commands[name]
	if !ok {
		return Error(fmt.Errorf("%w: %s", ErrUnknownCommand, name))
	}
	return c.Apply(t, arg)
}

// State is the toolbar state of one command for a given selection.
type State struct {
	Name    string
	Label   string
	Enabled bool
	Tooltip string
}

// States reports whether each command is enabled for sel, in toolbar
// order. Disabled commands carry a hint in their tooltip.
func (r *Registry) States(sel cursor.Selection) []State {
	states := make([]State, 0, len(r.order))
	for _, name := range r.order {
		c := r.commands[name]
		st := State{Name: c.Name, Label: c.Label, Enabled: true, Tooltip: c.Tooltip}
		if _, ok := c.Available(sel); !ok {
			st.Enabled = false
			st.Tooltip += selectFirstSuffix
		}
		states = append(states, st)
	}
	return states
}
