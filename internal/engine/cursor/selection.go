package cursor

import (
	"fmt"

	"github.com/dshills/markpad/internal/engine/buffer"
)

// ByteOffset is an alias for buffer.ByteOffset for convenience.
type ByteOffset = buffer.ByteOffset

// Range is an alias for buffer.Range for convenience.
type Range = buffer.Range

// Selection represents the caret or selected range over the buffer.
// Anchor is where the selection started; Head is the current cursor position.
// When Anchor == Head, this represents a caret with no selection.
// Selection is an immutable value type.
type Selection struct {
	Anchor ByteOffset // Where selection started
	Head   ByteOffset // Current cursor position (where typing occurs)
}

// NewSelection creates a selection from anchor to head.
func NewSelection(anchor, head ByteOffset) Selection {
	return Selection{Anchor: anchor, Head: head}
}

// NewCursorSelection creates a selection representing just a caret.
func NewCursorSelection(offset ByteOffset) Selection {
	return Selection{Anchor: offset, Head: offset}
}

// NewRangeSelection creates a forward selection covering the given range.
func NewRangeSelection(r Range) Selection {
	return Selection{Anchor: r.Start, Head: r.End}
}

// Caret returns a caret at pos clamped to text and snapped to a
// grapheme boundary.
func Caret(text string, pos ByteOffset) Selection {
	pos = buffer.SnapOffset(text, pos)
	return Selection{Anchor: pos, Head: pos}
}

// Span returns the selection [start, end) clamped to text. The pair is
// ordered so that Start() <= End(); out-of-range input is clamped, never
// rejected.
func Span(text string, start, end ByteOffset) Selection {
	if start > end {
		start, end = end, start
	}
	return Selection{
		Anchor: buffer.SnapOffset(text, start),
		Head:   buffer.SnapOffset(text, end),
	}
}

// IsEmpty returns true if the selection has no extent (just a caret).
func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Head
}

// HasSelection reports whether any text is selected.
func (s Selection) HasSelection() bool {
	return s.Anchor != s.Head
}

// SelectedText returns the selected substring of text, or "" for a caret.
// Offsets beyond text are clamped.
func (s Selection) SelectedText(text string) string {
	r := s.Range().Clamp(ByteOffset(len(text)))
	return text[r.Start:r.End]
}

// Len returns the length of the selection in bytes.
func (s Selection) Len() ByteOffset {
	if s.Anchor <= s.Head {
		return s.Head - s.Anchor
	}
	return s.Anchor - s.Head
}

// Range returns the selection as a range (always Start <= End).
func (s Selection) Range() Range {
	if s.Anchor <= s.Head {
		return Range{Start: s.Anchor, End: s.Head}
	}
	return Range{Start: s.Head, End: s.Anchor}
}

// Start returns the lower bound of the selection.
func (s Selection) Start() ByteOffset {
	if s.Anchor <= s.Head {
		return s.Anchor
	}
	return s.Head
}

// End returns the upper bound of the selection.
func (s Selection) End() ByteOffset {
	if s.Anchor >= s.Head {
		return s.Anchor
	}
	return s.Head
}

// Cursor returns the head position (where typing would occur).
func (s Selection) Cursor() ByteOffset {
	return s.Head
}

// IsBackward returns true if the selection extends backward (head < anchor).
func (s Selection) IsBackward() bool {
	return s.Head < s.Anchor
}

// Extend returns a new selection extended to include the given offset.
// The anchor remains fixed; only the head moves.
func (s Selection) Extend(offset ByteOffset) Selection {
	return Selection{Anchor: s.Anchor, Head: offset}
}

// Collapse collapses the selection to a caret at the head.
func (s Selection) Collapse() Selection {
	return Selection{Anchor: s.Head, Head: s.Head}
}

// CollapseToStart collapses the selection to its start position.
func (s Selection) CollapseToStart() Selection {
	start := s.Start()
	return Selection{Anchor: start, Head: start}
}

// CollapseToEnd collapses the selection to its end position.
func (s Selection) CollapseToEnd() Selection {
	end := s.End()
	return Selection{Anchor: end, Head: end}
}

// Contains returns true if the given offset is within the selection.
// For empty selections (carets), this always returns false.
func (s Selection) Contains(offset ByteOffset) bool {
	return offset >= s.Start() && offset < s.End()
}

// Clamp returns the selection bounded to text and snapped to grapheme
// boundaries, keeping its direction.
func (s Selection) Clamp(text string) Selection {
	return Selection{
		Anchor: buffer.SnapOffset(text, s.Anchor),
		Head:   buffer.SnapOffset(text, s.Head),
	}
}

// String returns a string representation of the selection.
func (s Selection) String() string {
	if s.IsEmpty() {
		return fmt.Sprintf("Cursor(%d)", s.Head)
	}
	dir := "→"
	if s.IsBackward() {
		dir = "←"
	}
	return fmt.Sprintf("Selection(%d%s%d)", s.Anchor, dir, s.Head)
}

// SameRange returns true if two selections cover the same range,
// regardless of direction.
func (s Selection) SameRange(other Selection) bool {
	return s.Start() == other.Start() && s.End() == other.End()
}
