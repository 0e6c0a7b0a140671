package renderer

import (
	"sync"

	"github.com/dshills/markpad/internal/command"
	"github.com/dshills/markpad/internal/engine/cursor"
	"github.com/dshills/markpad/internal/markup"
	"github.com/dshills/markpad/internal/renderer/backend"
	"github.com/dshills/markpad/internal/renderer/core"
)

// minSplitWidth is the narrowest screen that still shows both panes.
const minSplitWidth = 20

// Frame is everything one redraw needs.
type Frame struct {
	Text      string
	Selection cursor.Selection
	Preview   markup.Document
	Commands  []command.State
}

// Options configures the renderer.
type Options struct {
	// Theme is the initial theme.
	Theme Theme

	// ShowToolbar draws the command row at the top.
	ShowToolbar bool

	// ShowPreview draws the preview pane beside the editor.
	ShowPreview bool
}

// DefaultOptions returns default renderer options.
func DefaultOptions() Options {
	return Options{
		Theme:       DefaultTheme(),
		ShowToolbar: true,
		ShowPreview: true,
	}
}

// Renderer lays out the toolbar, the editor and preview panes and the
// status line on a backend.
type Renderer struct {
	mu      sync.Mutex
	backend backend.Backend
	opts    Options
	theme   Theme

	editor EditorPane
	status *StatusLine

	// preview layout cache, keyed by the HTML and width it was built for
	previewHTML  string
	previewWidth int
	previewLines []Line
}

// New creates a renderer drawing on b.
func New(b backend.Backend, opts Options) *Renderer {
	return &Renderer{
		backend: b,
		opts:    opts,
		theme:   opts.Theme,
		status:  NewStatusLine(),
	}
}

// Status returns the status line.
func (r *Renderer) Status() *StatusLine {
	return r.status
}

// SetTheme replaces the theme. It takes effect on the next Render.
func (r *Renderer) SetTheme(t Theme) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.theme = t
	r.previewHTML = ""
	r.previewLines = nil
}

// TogglePreview shows or hides the preview pane and reports the new state.
func (r *Renderer) TogglePreview() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opts.ShowPreview = !r.opts.ShowPreview
	return r.opts.ShowPreview
}

// Render draws f and flushes the backend.
func (r *Renderer) Render(f Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()

	width, height := r.backend.Size()
	if width <= 0 || height <= 0 {
		return
	}

	top := 0
	if r.opts.ShowToolbar && height > 2 {
		r.drawToolbar(width, f.Commands)
		top = 1
	}
	statusRow := height - 1
	body := core.Rect{Top: top, Left: 0, Bottom: statusRow, Right: width}

	editorArea := body
	var previewArea core.Rect
	if r.opts.ShowPreview && width >= minSplitWidth {
		split := width / 2
		editorArea.Right = split
		previewArea = core.Rect{Top: body.Top, Left: split + 1, Bottom: body.Bottom, Right: width}
		for y := body.Top; y < body.Bottom; y++ {
			r.backend.SetCell(split, y, core.Cell{Text: "│", Width: 1, Style: r.theme.Border})
		}
	}

	cx, cy, caretRow, rows := r.editor.Draw(r.backend, editorArea, f.Text, f.Selection, r.theme)
	if !previewArea.IsEmpty() {
		r.drawPreview(previewArea, f.Preview.HTML, caretRow, rows)
	}

	r.status.SetTitle(f.Preview.Title)
	if px, ok := r.status.Render(r.backend, statusRow, width, r.theme); ok {
		r.backend.ShowCursor(px, statusRow)
	} else if !editorArea.IsEmpty() {
		r.backend.ShowCursor(cx, cy)
	} else {
		r.backend.HideCursor()
	}
	r.backend.Show()
}

// drawToolbar draws command labels on the top row. Commands that need a
// selection are dimmed while there is none.
func (r *Renderer) drawToolbar(width int, states []command.State) {
	fill(r.backend, core.Rect{Top: 0, Bottom: 1, Left: 0, Right: width}, r.theme.Toolbar)
	x := 1
	for _, st := range states {
		style := r.theme.Toolbar
		if !st.Enabled {
			style = r.theme.ToolbarDisabled
		}
		cells := core.CellsFromString(st.Label, style)
		if x+len(cells) > width {
			break
		}
		x = drawLine(r.backend, x, 0, width, cells) + 2
	}
}

// drawPreview draws the laid-out preview, scrolled in proportion to the
// caret's position in the editor.
func (r *Renderer) drawPreview(area core.Rect, html string, caretRow, rows int) {
	fill(r.backend, area, r.theme.Text)
	w, h := area.Width(), area.Height()
	if r.previewLines == nil || html != r.previewHTML || w != r.previewWidth {
		r.previewLines = LayoutPreview(html, w, r.theme)
		r.previewHTML = html
		r.previewWidth = w
	}

	lines := r.previewLines
	top := 0
	if len(lines) > h && rows > 1 {
		top = caretRow * (len(lines) - h) / (rows - 1)
		if top > len(lines)-h {
			top = len(lines) - h
		}
	}
	for i := 0; i < h && top+i < len(lines); i++ {
		drawLine(r.backend, area.Left, area.Top+i, area.Right, lines[top+i])
	}
}
