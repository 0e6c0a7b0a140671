// Package cursor provides the selection model for the editing session.
//
// Selections use an anchor/head model where:
//   - Anchor: The position where the selection started
//   - Head: The current cursor position (where typing would occur)
//
// When Anchor == Head, the selection represents just a caret with no
// selected text. Start and End give the ordered pair regardless of
// direction.
//
// Offsets that come from arithmetic are never rejected. Caret, Span and
// Selection.Clamp bound them to the text and snap them to grapheme
// cluster boundaries:
//
//	sel := cursor.Span(text, 10, 999) // clamped to len(text)
//	if sel.HasSelection() {
//	    word := sel.SelectedText(text)
//	}
//
// Selection is an immutable value type and safe for concurrent use.
package cursor
