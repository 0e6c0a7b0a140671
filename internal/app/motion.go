package app

import (
	"strings"

	"github.com/dshills/markpad/internal/engine/buffer"
	"github.com/dshills/markpad/internal/renderer/backend"
)

// moveCaret handles the navigation keys. With extend the selection head
// moves and the anchor stays; without it a selection collapses first for
// Left and Right, as text fields do.
func (app *Application) moveCaret(k backend.Key, extend, ctrl bool) {
	text := app.session.Text()
	sel := app.session.Selection()
	head := sel.Cursor()

	var pos buffer.ByteOffset
	switch k {
	case backend.KeyLeft:
		if sel.HasSelection() && !extend {
			app.session.SetCaret(sel.Start())
			return
		}
		pos = buffer.PrevBoundary(text, head)
	case backend.KeyRight:
		if sel.HasSelection() && !extend {
			app.session.SetCaret(sel.End())
			return
		}
		pos = buffer.NextBoundary(text, head)
	case backend.KeyUp:
		pos = verticalMove(text, head, -1)
	case backend.KeyDown:
		pos = verticalMove(text, head, 1)
	case backend.KeyPageUp:
		pos = verticalMove(text, head, -app.pageLines())
	case backend.KeyPageDown:
		pos = verticalMove(text, head, app.pageLines())
	case backend.KeyHome:
		pos = buffer.LineStart(text, head)
		if ctrl {
			pos = 0
		}
	case backend.KeyEnd:
		pos = lineEnd(text, head)
		if ctrl {
			pos = buffer.ByteOffset(len(text))
		}
	default:
		return
	}

	if extend {
		app.session.ExtendSelection(pos)
	} else {
		app.session.SetCaret(pos)
	}
}

// pageLines is the number of lines a page key moves.
func (app *Application) pageLines() int {
	n := 10
	if app.backend != nil {
		if _, h := app.backend.Size(); h > 3 {
			n = h - 3
		}
	}
	return n
}

// lineEnd returns the offset of the newline ending the line holding
// offset, or the end of text.
func lineEnd(text string, offset buffer.ByteOffset) buffer.ByteOffset {
	if i := strings.IndexByte(text[offset:], '\n'); i >= 0 {
		return offset + buffer.ByteOffset(i)
	}
	return buffer.ByteOffset(len(text))
}

// verticalMove moves offset by lines logical lines, keeping its column in
// grapheme clusters. Moving past the first or last line stops at the
// start or end of the text.
func verticalMove(text string, offset buffer.ByteOffset, lines int) buffer.ByteOffset {
	start := buffer.LineStart(text, offset)
	col := buffer.GraphemeCount(text[start:offset])

	for ; lines < 0; lines++ {
		if start == 0 {
			return 0
		}
		start = buffer.LineStart(text, start-1)
	}
	for ; lines > 0; lines-- {
		end := lineEnd(text, start)
		if int(end) == len(text) {
			return end
		}
		start = end + 1
	}

	end := lineEnd(text, start)
	pos := start
	for i := 0; i < col && pos < end; i++ {
		pos = buffer.NextBoundary(text, pos)
	}
	return pos
}

// column returns the 1-based grapheme column of offset.
func column(text string, offset buffer.ByteOffset) int {
	return buffer.GraphemeCount(text[buffer.LineStart(text, offset):offset]) + 1
}
