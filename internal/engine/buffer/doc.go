// Package buffer provides the document text and the mutation primitives
// every edit funnels through.
//
// The buffer is a flat UTF-8 string. Offsets are byte offsets; SnapOffset
// moves an offset to a grapheme cluster boundary so an edit never splits a
// user-perceived character.
//
// The primitives are pure functions returning a Result with the new text
// and the selection to apply:
//
//	res := buffer.Wrap(text, sel, "**", "**", "bold text")
//	res = buffer.PrefixLine(res.Text, res.Selection.Start, "> ")
//	res = buffer.Structured(res.Text, captured, table)
//
// Buffer wraps the current text with a mutex and a revision counter.
package buffer
