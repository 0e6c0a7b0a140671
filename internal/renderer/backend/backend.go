// Package backend provides the terminal abstraction the renderer draws on.
package backend

import (
	"strings"
	"sync"

	"github.com/dshills/markpad/internal/renderer/core"
)

// EventType identifies the type of terminal event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventResize
	EventPaste
	EventInterrupt
)

// Event represents a terminal event.
type Event struct {
	Type EventType

	// Key event fields
	Key  Key
	Rune rune
	Mod  ModMask

	// Resize event fields
	Width, Height int

	// PasteText holds the full text of a bracketed paste.
	PasteText string
}

// Key represents a keyboard key.
type Key int

// Key constants for special keys. Control chords are reported as KeyRune
// with ModCtrl set.
const (
	KeyNone Key = iota
	KeyRune     // Regular character (use Rune field)
	KeyEscape
	KeyEnter
	KeyTab
	KeyBacktab
	KeyBackspace
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
)

var keyNames = map[Key]string{
	KeyEscape:    "Esc",
	KeyEnter:     "Enter",
	KeyTab:       "Tab",
	KeyBacktab:   "Backtab",
	KeyBackspace: "Backspace",
	KeyDelete:    "Delete",
	KeyHome:      "Home",
	KeyEnd:       "End",
	KeyPageUp:    "PgUp",
	KeyPageDown:  "PgDn",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyLeft:      "Left",
	KeyRight:     "Right",
}

// ModMask represents modifier key state.
type ModMask int

const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
)

// Has returns true if the mask contains the given modifier.
func (m ModMask) Has(mod ModMask) bool {
	return m&mod != 0
}

// Name returns the key chord in keymap notation, e.g. "Ctrl+B",
// "Alt+I", "Shift+Left" or "Enter". Plain printable runes have no
// name and return "".
func (e Event) Name() string {
	if e.Type != EventKey {
		return ""
	}
	var base string
	switch {
	case e.Key == KeyRune:
		if e.Mod&(ModCtrl|ModAlt) == 0 {
			return ""
		}
		base = strings.ToUpper(string(e.Rune))
		if e.Rune == ' ' {
			base = "Space"
		}
	default:
		name, ok := keyNames[e.Key]
		if !ok {
			return ""
		}
		base = name
	}

	var b strings.Builder
	if e.Mod.Has(ModCtrl) {
		b.WriteString("Ctrl+")
	}
	if e.Mod.Has(ModAlt) {
		b.WriteString("Alt+")
	}
	if e.Mod.Has(ModShift) && e.Key != KeyRune {
		b.WriteString("Shift+")
	}
	b.WriteString(base)
	return b.String()
}

// Backend defines the interface for terminal/display backends.
type Backend interface {
	// Init initializes the backend for use.
	// Must be called before any other methods.
	Init() error

	// Shutdown releases backend resources and restores terminal state.
	Shutdown()

	// Size returns the current terminal dimensions.
	Size() (width, height int)

	// SetCell sets a single cell at the given position.
	// Positions outside the terminal are silently ignored.
	SetCell(x, y int, cell core.Cell)

	// Clear clears the entire screen with the default style.
	Clear()

	// Show synchronizes the internal buffer with the actual display.
	Show()

	// ShowCursor positions and displays the cursor.
	ShowCursor(x, y int)

	// HideCursor hides the cursor.
	HideCursor()

	// PollEvent waits for and returns the next terminal event. It returns
	// an EventNone event once the backend is shut down.
	PollEvent() Event

	// PostEvent posts a synthetic event to the event queue.
	PostEvent(event Event)
}

// NullBackend is an in-memory backend for tests and headless runs.
type NullBackend struct {
	mu            sync.Mutex
	width, height int
	cells         [][]core.Cell
	cursorX       int
	cursorY       int
	cursorVisible bool
	events        chan Event
	closed        chan struct{}
	closeOnce     sync.Once
}

// NewNullBackend creates a null backend with the given dimensions.
func NewNullBackend(width, height int) *NullBackend {
	return &NullBackend{
		width:  width,
		height: height,
		events: make(chan Event, 100),
		closed: make(chan struct{}),
	}
}

func (b *NullBackend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cells = newGrid(b.width, b.height)
	return nil
}

func (b *NullBackend) Shutdown() {
	b.closeOnce.Do(func() { close(b.closed) })
}

func (b *NullBackend) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

func (b *NullBackend) SetCell(x, y int, cell core.Cell) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if x >= 0 && x < b.width && y >= 0 && y < len(b.cells) {
		b.cells[y][x] = cell
	}
}

// Cell returns the cell at the given position.
func (b *NullBackend) Cell(x, y int) core.Cell {
	b.mu.Lock()
	defer b.mu.Unlock()
	if x >= 0 && x < b.width && y >= 0 && y < len(b.cells) {
		return b.cells[y][x]
	}
	return core.EmptyCell()
}

// Line returns row y as text with trailing spaces removed.
func (b *NullBackend) Line(y int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if y < 0 || y >= len(b.cells) {
		return ""
	}
	return strings.TrimRight(core.StringFromCells(b.cells[y]), " ")
}

// Contents returns every row joined by newlines.
func (b *NullBackend) Contents() string {
	_, h := b.Size()
	lines := make([]string, h)
	for y := range lines {
		lines[y] = b.Line(y)
	}
	return strings.Join(lines, "\n")
}

func (b *NullBackend) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cells = newGrid(b.width, b.height)
}

func (b *NullBackend) Show() {}

func (b *NullBackend) ShowCursor(x, y int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursorX = x
	b.cursorY = y
	b.cursorVisible = true
}

func (b *NullBackend) HideCursor() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursorVisible = false
}

func (b *NullBackend) PollEvent() Event {
	select {
	case ev := <-b.events:
		return ev
	case <-b.closed:
		return Event{Type: EventNone}
	}
}

func (b *NullBackend) PostEvent(event Event) {
	select {
	case b.events <- event:
	default:
		// Event dropped if queue is full (non-blocking for testing)
	}
}

// CursorPosition returns the current cursor position for testing.
func (b *NullBackend) CursorPosition() (x, y int, visible bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cursorX, b.cursorY, b.cursorVisible
}

// Resize simulates a terminal resize and queues the resize event.
func (b *NullBackend) Resize(width, height int) {
	b.mu.Lock()
	b.width = width
	b.height = height
	b.cells = newGrid(width, height)
	b.mu.Unlock()
	b.PostEvent(Event{Type: EventResize, Width: width, Height: height})
}

func newGrid(width, height int) [][]core.Cell {
	cells := make([][]core.Cell, height)
	for i := range cells {
		cells[i] = make([]core.Cell, width)
		for j := range cells[i] {
			cells[i][j] = core.EmptyCell()
		}
	}
	return cells
}
