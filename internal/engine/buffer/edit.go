package buffer

import (
	"fmt"
	"strings"
)

// Edit represents a text edit operation.
// It specifies a range to replace and the new text.
type Edit struct {
	Range   Range  // The range to replace
	NewText string // The replacement text
}

// NewEdit creates a new Edit.
func NewEdit(r Range, newText string) Edit {
	return Edit{Range: r, NewText: newText}
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	if e.Range.IsEmpty() {
		return fmt.Sprintf("Insert(%d, %q)", e.Range.Start, e.NewText)
	}
	if e.NewText == "" {
		return fmt.Sprintf("Delete%s", e.Range.String())
	}
	return fmt.Sprintf("Replace%s with %q", e.Range.String(), e.NewText)
}

// Delta returns the change in buffer length caused by this edit.
func (e Edit) Delta() ByteOffset {
	return ByteOffset(len(e.NewText)) - e.Range.Len()
}

// Result is the outcome of a mutation: the new text plus the selection
// the caller should apply afterwards.
type Result struct {
	Text      string
	Selection Range
	Edit      Edit
}

// ReplaceRange returns text with [start, end) replaced by replacement and the
// range the replacement now occupies. The caller clamps start and end first;
// out-of-range offsets panic like any slice expression.
func ReplaceRange(text string, start, end ByteOffset, replacement string) (string, Range) {
	var sb strings.Builder
	sb.Grow(len(text) - int(end-start) + len(replacement))
	sb.WriteString(text[:start])
	sb.WriteString(replacement)
	sb.WriteString(text[end:])
	return sb.String(), Range{Start: start, End: start + ByteOffset(len(replacement))}
}

// Wrap surrounds the selection with before and after. When the selection is
// empty the placeholder is wrapped instead.
//
// With a non-empty selection the resulting selection spans the whole
// replacement; with an empty one it spans only the placeholder.
func Wrap(text string, sel Range, before, after, placeholder string) Result {
	sel = sel.Clamp(ByteOffset(len(text)))
	selected := text[sel.Start:sel.End]
	inner := selected
	if inner == "" {
		inner = placeholder
	}

	replacement := before + inner + after
	out, span := ReplaceRange(text, sel.Start, sel.End, replacement)

	next := span
	if selected == "" {
		start := sel.Start + ByteOffset(len(before))
		next = Range{Start: start, End: start + ByteOffset(len(inner))}
	}

	return Result{
		Text:      out,
		Selection: next,
		Edit:      NewEdit(sel, replacement),
	}
}

// LineStart returns the offset of the first byte of the line containing
// offset: one past the nearest preceding newline, or 0.
func LineStart(text string, offset ByteOffset) ByteOffset {
	offset = clampOffset(offset, ByteOffset(len(text)))
	return ByteOffset(strings.LastIndexByte(text[:offset], '\n') + 1)
}

// PrefixLine inserts prefix at the start of the line containing caret and
// collapses the selection to just after the inserted text. An existing
// prefix is not detected, so re-applying doubles it.
func PrefixLine(text string, caret ByteOffset, prefix string) Result {
	lineStart := LineStart(text, caret)
	out, span := ReplaceRange(text, lineStart, lineStart, prefix)
	return Result{
		Text:      out,
		Selection: Range{Start: span.End, End: span.End},
		Edit:      NewEdit(Range{Start: lineStart, End: lineStart}, prefix),
	}
}

// Structured replaces the captured target range with replacement, ignoring
// wherever the selection has moved since the target was captured. The caret
// lands just after the inserted text.
func Structured(text string, target Range, replacement string) Result {
	target = target.Clamp(ByteOffset(len(text)))
	out, span := ReplaceRange(text, target.Start, target.End, replacement)
	return Result{
		Text:      out,
		Selection: Range{Start: span.End, End: span.End},
		Edit:      NewEdit(target, replacement),
	}
}

// Splice replaces the selection with s and puts the caret after it.
// This is the plain typing and paste path.
func Splice(text string, sel Range, s string) Result {
	sel = sel.Clamp(ByteOffset(len(text)))
	out, span := ReplaceRange(text, sel.Start, sel.End, s)
	return Result{
		Text:      out,
		Selection: Range{Start: span.End, End: span.End},
		Edit:      NewEdit(sel, s),
	}
}
