// Package structured builds the replacement text for dialog-driven
// inserts: tables, links, images and fenced code blocks.
//
// A dialog flow starts with Capture, which records the selection range at
// the moment the user asked for the dialog. Confirm validates the filled-in
// builder and returns a Request whose Target is that captured range, so the
// insert lands where the user was, not where the selection drifted while
// the dialog was open.
package structured

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/markpad/internal/engine/buffer"
	"github.com/dshills/markpad/internal/engine/cursor"
)

// ValidationError reports a bad dialog field. Message is shown to the user.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Builder produces the replacement text for a structured insert.
type Builder interface {
	// Validate reports the first invalid field, if any.
	Validate() error
	// Build returns the Markdown to insert. It assumes Validate passed.
	Build() string
}

// Request is a validated insert ready for the session.
type Request struct {
	Target      buffer.Range
	Replacement string
}

// Pending is an open dialog flow.
type Pending struct {
	target buffer.Range
}

// Capture starts a dialog flow at the current selection.
func Capture(sel cursor.Selection) Pending {
	return Pending{target: sel.Range()}
}

// Target returns the captured range.
func (p Pending) Target() buffer.Range {
	return p.target
}

// Confirm validates b and returns the insert request. On a validation error
// nothing should be applied and the dialog may stay open.
func (p Pending) Confirm(b Builder) (Request, error) {
	if err := b.Validate(); err != nil {
		return Request{}, err
	}
	return Request{Target: p.target, Replacement: b.Build()}, nil
}

// Alignment is a table column alignment.
type Alignment string

// Column alignments.
const (
	AlignNone   Alignment = "none"
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// ParseAlignment parses an alignment name. The empty string is AlignNone.
func ParseAlignment(s string) (Alignment, error) {
	switch a := Alignment(strings.ToLower(strings.TrimSpace(s))); a {
	case "":
		return AlignNone, nil
	case AlignNone, AlignLeft, AlignCenter, AlignRight:
		return a, nil
	default:
		return "", &ValidationError{Field: "align", Message: fmt.Sprintf("unknown alignment %q", s)}
	}
}

// MaxTableSize bounds rows and columns so a typo cannot produce a huge insert.
const MaxTableSize = 50

// Table is a GFM table with placeholder header and cells.
type Table struct {
	Rows  int
	Cols  int
	Align Alignment
}

// ParseTableSize parses "RxC", e.g. "3x4". The empty string is 2x2.
func ParseTableSize(s string) (rows, cols int, err error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 2, 2, nil
	}
	r, c, ok := strings.Cut(s, "x")
	if !ok {
		return 0, 0, &ValidationError{Field: "size", Message: "use ROWSxCOLS, e.g. 3x2"}
	}
	rows, err = strconv.Atoi(strings.TrimSpace(r))
	if err != nil {
		return 0, 0, &ValidationError{Field: "rows", Message: "must be a number"}
	}
	cols, err = strconv.Atoi(strings.TrimSpace(c))
	if err != nil {
		return 0, 0, &ValidationError{Field: "cols", Message: "must be a number"}
	}
	return rows, cols, nil
}

// Validate checks the table dimensions and alignment.
func (t Table) Validate() error {
	if t.Rows < 1 || t.Rows > MaxTableSize {
		return &ValidationError{Field: "rows", Message: fmt.Sprintf("must be between 1 and %d", MaxTableSize)}
	}
	if t.Cols < 1 || t.Cols > MaxTableSize {
		return &ValidationError{Field: "cols", Message: fmt.Sprintf("must be between 1 and %d", MaxTableSize)}
	}
	if _, err := ParseAlignment(string(t.Align)); err != nil {
		return err
	}
	return nil
}

// Build returns the table wrapped in newlines.
func (t Table) Build() string {
	align, _ := ParseAlignment(string(t.Align))

	var sb strings.Builder
	sb.WriteString("\n|")
	for c := 1; c <= t.Cols; c++ {
		fmt.Fprintf(&sb, " Header %d |", c)
	}
	sb.WriteString("\n|")
	for c := 0; c < t.Cols; c++ {
		sb.WriteString(separator(align))
		sb.WriteString("|")
	}
	sb.WriteString("\n")
	for r := 1; r <= t.Rows; r++ {
		sb.WriteString("|")
		for c := 1; c <= t.Cols; c++ {
			fmt.Fprintf(&sb, " Cell %d-%d |", r, c)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func separator(a Alignment) string {
	switch a {
	case AlignLeft:
		return ":----------"
	case AlignCenter:
		return ":---------:"
	case AlignRight:
		return "----------:"
	default:
		return "-----------"
	}
}

// Link is an inline hyperlink.
type Link struct {
	Text string
	URL  string
}

// Validate requires a URL.
func (l Link) Validate() error {
	if strings.TrimSpace(l.URL) == "" {
		return &ValidationError{Field: "url", Message: "is required"}
	}
	return nil
}

// Build returns [text](url). Empty text falls back to the URL.
func (l Link) Build() string {
	url := strings.TrimSpace(l.URL)
	text := l.Text
	if text == "" {
		text = url
	}
	return "[" + text + "](" + url + ")"
}

// Image is an inline image.
type Image struct {
	Alt    string
	Source string
}

// Validate requires a source.
func (i Image) Validate() error {
	if strings.TrimSpace(i.Source) == "" {
		return &ValidationError{Field: "source", Message: "is required"}
	}
	return nil
}

// Build returns ![alt](source).
func (i Image) Build() string {
	return "![" + i.Alt + "](" + strings.TrimSpace(i.Source) + ")"
}

// CodeBlock is a fenced code block.
type CodeBlock struct {
	Language string
	Content  string
}

// Validate requires content and a single-word language.
func (c CodeBlock) Validate() error {
	if c.Content == "" {
		return &ValidationError{Field: "content", Message: "is required"}
	}
	if strings.ContainsAny(c.Language, " \t\n`") {
		return &ValidationError{Field: "language", Message: "must be a single word"}
	}
	return nil
}

// Build returns the fenced block wrapped in newlines.
func (c CodeBlock) Build() string {
	return "\n```" + c.Language + "\n" + c.Content + "\n```\n"
}
