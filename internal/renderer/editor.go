package renderer

import (
	"github.com/rivo/uniseg"

	"github.com/dshills/markpad/internal/engine/buffer"
	"github.com/dshills/markpad/internal/engine/cursor"
	"github.com/dshills/markpad/internal/renderer/core"
)

// TabWidth is the number of cells a tab occupies in the editor pane.
const TabWidth = 4

// visualRow is one soft-wrapped row of the source text. End is exclusive
// and never includes the newline.
type visualRow struct {
	start, end buffer.ByteOffset
}

// layoutRows soft-wraps text at width cells. Every logical line yields at
// least one row, so an empty buffer has one empty row.
func layoutRows(text string, width int) []visualRow {
	if width < 1 {
		width = 1
	}
	var rows []visualRow
	lineStart := 0
	col := 0
	state := -1
	rest := text
	pos := 0
	for len(rest) > 0 {
		var cluster string
		var w int
		cluster, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)
		switch {
		case cluster == "\n" || cluster == "\r\n":
			rows = append(rows, visualRow{start: buffer.ByteOffset(lineStart), end: buffer.ByteOffset(pos)})
			pos += len(cluster)
			lineStart = pos
			col = 0
			continue
		case cluster == "\t":
			w = TabWidth
		}
		if col+w > width && col > 0 {
			rows = append(rows, visualRow{start: buffer.ByteOffset(lineStart), end: buffer.ByteOffset(pos)})
			lineStart = pos
			col = 0
		}
		col += w
		pos += len(cluster)
	}
	return append(rows, visualRow{start: buffer.ByteOffset(lineStart), end: buffer.ByteOffset(pos)})
}

// rowOf returns the index of the row holding offset. An offset at a soft
// wrap belongs to the following row.
func rowOf(rows []visualRow, offset buffer.ByteOffset) int {
	idx := 0
	for i, r := range rows {
		if r.start > offset {
			break
		}
		idx = i
	}
	return idx
}

// columnOf returns the display column of offset within its row.
func columnOf(text string, r visualRow, offset buffer.ByteOffset) int {
	if offset > r.end {
		offset = r.end
	}
	col := 0
	state := -1
	rest := text[r.start:offset]
	for len(rest) > 0 {
		var cluster string
		var w int
		cluster, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if cluster == "\t" {
			w = TabWidth
		}
		col += w
	}
	return col
}

// EditorPane draws the Markdown source with the selection highlighted
// and keeps the caret in view.
type EditorPane struct {
	top int
}

// Scroll returns the index of the first visible row.
func (p *EditorPane) Scroll() int {
	return p.top
}

// Draw renders text into area and returns the caret's screen position.
// It also returns the caret row and the total row count so the preview
// can follow.
func (p *EditorPane) Draw(b cellSetter, area core.Rect, text string, sel cursor.Selection, theme Theme) (x, y, caretRow, rows int) {
	width, height := area.Width(), area.Height()
	fill(b, area, theme.Text)
	if width == 0 || height == 0 {
		return area.Left, area.Top, 0, 0
	}

	visual := layoutRows(text, width)
	caret := rowOf(visual, sel.Cursor())
	if caret < p.top {
		p.top = caret
	}
	if caret >= p.top+height {
		p.top = caret - height + 1
	}
	if last := len(visual) - height; p.top > last && last >= 0 {
		p.top = last
	}
	if p.top < 0 {
		p.top = 0
	}

	selStart, selEnd := sel.Start(), sel.End()
	for i := 0; i < height && p.top+i < len(visual); i++ {
		r := visual[p.top+i]
		col := 0
		state := -1
		rest := text[r.start:r.end]
		off := r.start
		for len(rest) > 0 {
			var cluster string
			var w int
			cluster, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)
			style := theme.Text
			if off >= selStart && off < selEnd {
				style = theme.Selection
			}
			if cluster == "\t" {
				for j := 0; j < TabWidth && col < width; j++ {
					b.SetCell(area.Left+col, area.Top+i, core.Cell{Text: " ", Width: 1, Style: style})
					col++
				}
			} else if w > 0 && col+w <= width {
				b.SetCell(area.Left+col, area.Top+i, core.Cell{Text: cluster, Width: w, Style: style})
				col += w
			}
			off += buffer.ByteOffset(len(cluster))
		}
		// Show a selected line break as one highlighted cell.
		if r.end < buffer.ByteOffset(len(text)) && r.end >= selStart && r.end < selEnd && col < width {
			b.SetCell(area.Left+col, area.Top+i, core.Cell{Text: " ", Width: 1, Style: theme.Selection})
		}
	}

	cx := columnOf(text, visual[caret], sel.Cursor())
	if cx >= width {
		cx = width - 1
	}
	return area.Left + cx, area.Top + caret - p.top, caret, len(visual)
}

// cellSetter is the part of a backend the panes draw on.
type cellSetter interface {
	SetCell(x, y int, cell core.Cell)
}

func fill(b cellSetter, area core.Rect, style core.Style) {
	blank := core.Cell{Text: " ", Width: 1, Style: style}
	for y := area.Top; y < area.Bottom; y++ {
		for x := area.Left; x < area.Right; x++ {
			b.SetCell(x, y, blank)
		}
	}
}

// drawLine draws cells starting at x, clipped to right. It returns the
// column after the last cell drawn.
func drawLine(b cellSetter, x, y, right int, cells []core.Cell) int {
	for _, c := range cells {
		if c.IsContinuation() {
			continue
		}
		if x+c.Width > right {
			break
		}
		b.SetCell(x, y, c)
		x += c.Width
	}
	return x
}
