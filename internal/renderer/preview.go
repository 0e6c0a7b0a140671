package renderer

import (
	"io"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/dshills/markpad/internal/renderer/core"
)

// Line is one row of laid-out cells.
type Line []core.Cell

var (
	whitespaceRE = regexp.MustCompile(`\s+`)
	spanColorRE  = regexp.MustCompile(`(?:^|;)\s*color:\s*(#[0-9a-fA-F]{3,6})\b`)
)

// LayoutPreview turns the rendered preview HTML into terminal lines no
// wider than width. Block elements start new lines, inline elements map
// to text styles and unknown tags are ignored, so any HTML a decorator
// produces can be shown.
func LayoutPreview(src string, width int, theme Theme) []Line {
	if width < 1 {
		width = 1
	}
	b := &previewBuilder{theme: theme, width: width}
	b.run(html.NewTokenizer(strings.NewReader(src)))
	b.flush()
	for len(b.lines) > 0 && len(b.lines[len(b.lines)-1]) == 0 {
		b.lines = b.lines[:len(b.lines)-1]
	}
	return b.lines
}

type span struct {
	text  string
	style core.Style
}

type styleFrame struct {
	tag   string
	style core.Style
}

type listState struct {
	ordered bool
	next    int
}

type previewBuilder struct {
	theme Theme
	width int

	lines     []Line
	spans     []span
	needBlank bool

	styles []styleFrame
	item   string
	lists  []listState
	quote  int
	pre    int
	cell   int
	skip   int
}

func (b *previewBuilder) run(z *html.Tokenizer) {
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() != io.EOF {
				b.text(string(z.Raw()))
			}
			return
		case html.TextToken:
			b.text(string(z.Text()))
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			attrs := map[string]string{}
			for hasAttr {
				var k, v []byte
				k, v, hasAttr = z.TagAttr()
				attrs[string(k)] = string(v)
			}
			b.start(string(name), attrs)
		case html.EndTagToken:
			name, _ := z.TagName()
			b.end(string(name))
		}
	}
}

func (b *previewBuilder) current() core.Style {
	if n := len(b.styles); n > 0 {
		return b.styles[n-1].style
	}
	return b.theme.Text
}

func (b *previewBuilder) push(tag string, s core.Style) {
	b.styles = append(b.styles, styleFrame{tag: tag, style: b.current().Merge(s)})
}

func (b *previewBuilder) pop(tag string) {
	for i := len(b.styles) - 1; i >= 0; i-- {
		if b.styles[i].tag == tag {
			b.styles = b.styles[:i]
			return
		}
	}
}

func (b *previewBuilder) start(tag string, attrs map[string]string) {
	base := core.DefaultStyle()
	switch tag {
	case "p", "div", "details", "summary":
		b.blockBreak()
	case "h1", "h2", "h3", "h4", "h5", "h6":
		b.blockBreak()
		b.push(tag, b.theme.Heading)
		level, _ := strconv.Atoi(tag[1:])
		b.emit(strings.Repeat("#", level)+" ", b.current())
	case "pre":
		b.blockBreak()
		b.pre++
		b.push(tag, b.theme.Code)
	case "code":
		b.push(tag, b.theme.Code)
	case "blockquote":
		b.blockBreak()
		b.quote++
	case "ul", "ol":
		b.flush()
		b.lists = append(b.lists, listState{ordered: tag == "ol", next: startNumber(attrs)})
	case "li":
		b.flush()
		b.item = "• "
		if n := len(b.lists); n > 0 && b.lists[n-1].ordered {
			b.item = strconv.Itoa(b.lists[n-1].next) + ". "
			b.lists[n-1].next++
		}
	case "input":
		if attrs["type"] == "checkbox" {
			box := "[ ]"
			if _, ok := attrs["checked"]; ok {
				box = "[x]"
			}
			b.emit(box, b.current())
		}
	case "br":
		if b.pre > 0 {
			b.emit("\n", b.current())
		} else {
			b.flush()
		}
	case "hr":
		b.flush()
		b.blankIfNeeded()
		b.lines = append(b.lines, Line(core.CellsFromString(strings.Repeat("─", b.width), b.theme.Rule)))
		b.needBlank = true
	case "a":
		b.push(tag, b.theme.Link)
	case "img":
		alt := attrs["alt"]
		if alt == "" {
			alt = "image"
		}
		b.emit("["+alt+"]", b.current().Merge(b.theme.Link))
	case "strong", "b":
		b.push(tag, base.Bold())
	case "em", "i":
		b.push(tag, base.Italic())
	case "del", "s":
		b.push(tag, base.Strikethrough())
	case "u", "ins":
		b.push(tag, base.Underline())
	case "span", "font":
		style := base
		if m := spanColorRE.FindStringSubmatch(attrs["style"]); m != nil {
			if c, err := core.ColorFromHex(m[1]); err == nil {
				style = style.WithForeground(c)
			}
		}
		b.push(tag, style)
	case "table":
		b.blockBreak()
	case "tr":
		b.flush()
		b.cell = 0
	case "th", "td":
		if b.cell > 0 {
			b.emit(" │ ", b.theme.Border)
		}
		b.cell++
		if tag == "th" {
			b.push(tag, base.Bold())
		}
	case "style", "script", "head", "title":
		b.skip++
	}
}

func (b *previewBuilder) end(tag string) {
	switch tag {
	case "p", "div", "details", "summary", "table":
		b.blockBreak()
	case "h1", "h2", "h3", "h4", "h5", "h6":
		b.pop(tag)
		b.blockBreak()
	case "pre":
		b.flush()
		b.pop(tag)
		if b.pre > 0 {
			b.pre--
		}
		b.needBlank = true
	case "blockquote":
		b.flush()
		if b.quote > 0 {
			b.quote--
		}
		b.needBlank = true
	case "ul", "ol":
		b.flush()
		if n := len(b.lists); n > 0 {
			b.lists = b.lists[:n-1]
		}
		if len(b.lists) == 0 {
			b.needBlank = true
		}
	case "li", "tr":
		b.flush()
	case "code", "a", "strong", "b", "em", "i", "del", "s", "u", "ins", "span", "font", "th":
		b.pop(tag)
	case "style", "script", "head", "title":
		if b.skip > 0 {
			b.skip--
		}
	}
}

func (b *previewBuilder) text(s string) {
	if b.skip > 0 || s == "" {
		return
	}
	if b.pre == 0 {
		s = whitespaceRE.ReplaceAllString(s, " ")
		if len(b.spans) == 0 {
			s = strings.TrimLeft(s, " ")
		}
		if s == "" {
			return
		}
	}
	b.emit(s, b.current())
}

func (b *previewBuilder) emit(s string, style core.Style) {
	b.spans = append(b.spans, span{text: s, style: style})
}

func (b *previewBuilder) blockBreak() {
	b.flush()
	if len(b.lines) > 0 {
		b.needBlank = true
	}
}

func (b *previewBuilder) blankIfNeeded() {
	if b.needBlank && len(b.lines) > 0 && len(b.lines[len(b.lines)-1]) > 0 {
		b.lines = append(b.lines, nil)
	}
	b.needBlank = false
}

// flush lays out the pending spans. A pending list marker without text
// waits for the text that follows it.
func (b *previewBuilder) flush() {
	if len(b.spans) == 0 {
		return
	}
	spans := b.spans
	b.spans = nil
	item := b.item
	b.item = ""

	b.blankIfNeeded()

	indent := strings.Repeat("│ ", b.quote)
	if n := len(b.lists); n > 1 {
		indent += strings.Repeat("  ", n-1)
	}
	lead := indent + item
	rest := indent + strings.Repeat(" ", core.StringWidth(item))
	avail := b.width - core.StringWidth(lead)
	if avail < 1 {
		avail = 1
	}

	var rows [][]core.Cell
	if b.pre > 0 {
		rows = splitRows(spans)
	} else {
		var cells []core.Cell
		for _, s := range spans {
			cells = append(cells, core.CellsFromString(s.text, s.style)...)
		}
		rows = wrapCells(trimSpaces(cells), avail)
	}

	for i, row := range rows {
		prefix := rest
		if i == 0 {
			prefix = lead
		}
		line := core.CellsFromString(prefix, b.theme.Quote)
		b.lines = append(b.lines, append(line, row...))
	}
}

// splitRows breaks preformatted spans at newlines without wrapping. A
// trailing newline does not produce an empty row.
func splitRows(spans []span) [][]core.Cell {
	rows := [][]core.Cell{nil}
	for _, s := range spans {
		parts := strings.Split(strings.ReplaceAll(s.text, "\t", "    "), "\n")
		for i, p := range parts {
			if i > 0 {
				rows = append(rows, nil)
			}
			rows[len(rows)-1] = append(rows[len(rows)-1], core.CellsFromString(p, s.style)...)
		}
	}
	if len(rows) > 1 && len(rows[len(rows)-1]) == 0 {
		rows = rows[:len(rows)-1]
	}
	return rows
}

// wrapCells breaks cells into rows of at most width, preferring to break
// at spaces.
func wrapCells(cells []core.Cell, width int) [][]core.Cell {
	var rows [][]core.Cell
	for len(cells) > width {
		brk := -1
		for i := width; i > 0; i-- {
			if cells[i].Text == " " {
				brk = i
				break
			}
		}
		if brk > 0 {
			rows = append(rows, trimSpaces(cells[:brk]))
			cells = cells[brk+1:]
			continue
		}
		cut := width
		for cut > 0 && cells[cut].IsContinuation() {
			cut--
		}
		if cut == 0 {
			cut = width
		}
		rows = append(rows, cells[:cut])
		cells = cells[cut:]
	}
	return append(rows, cells)
}

func trimSpaces(cells []core.Cell) []core.Cell {
	for len(cells) > 0 && cells[len(cells)-1].Text == " " {
		cells = cells[:len(cells)-1]
	}
	return cells
}

func startNumber(attrs map[string]string) int {
	if n, err := strconv.Atoi(attrs["start"]); err == nil {
		return n
	}
	return 1
}
