package backend

import (
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/markpad/internal/renderer/core"
)

// Terminal implements Backend using tcell for terminal output.
type Terminal struct {
	screen tcell.Screen
	mu     sync.Mutex

	// Bracketed paste state, touched only by the PollEvent goroutine.
	pasting bool
	paste   strings.Builder
}

// NewTerminal creates a new terminal backend.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

// NewTerminalWithScreen wraps an existing screen, such as a
// tcell.SimulationScreen.
func NewTerminalWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}

	// Paste arrives as one event instead of a burst of keystrokes.
	t.screen.EnablePaste()
	t.screen.SetCursorStyle(tcell.CursorStyleSteadyBar)
	return nil
}

func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

func (t *Terminal) SetCell(x, y int, cell core.Cell) {
	if cell.IsContinuation() {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	runes := []rune(cell.Text)
	if len(runes) == 0 {
		runes = []rune{' '}
	}
	t.screen.SetContent(x, y, runes[0], runes[1:], convertStyle(cell.Style))
}

func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
}

func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Show()
}

func (t *Terminal) ShowCursor(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.ShowCursor(x, y)
}

func (t *Terminal) HideCursor() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.HideCursor()
}

// PollEvent blocks for the next event. Events the editor has no use for
// (mouse, focus) are skipped, and the keystrokes of a bracketed paste are
// collected into a single EventPaste.
func (t *Terminal) PollEvent() Event {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return Event{Type: EventNone}
		}
		if out, ok := t.convertEvent(ev); ok {
			return out
		}
	}
}

func (t *Terminal) PostEvent(event Event) {
	var ev tcell.Event
	switch event.Type {
	case EventKey:
		ev = tcell.NewEventKey(convertToTcellKey(event.Key), event.Rune, convertToTcellMod(event.Mod))
	case EventInterrupt:
		ev = tcell.NewEventInterrupt(nil)
	default:
		return
	}
	_ = t.screen.PostEvent(ev) // best-effort; event queue may be full
}

// convertStyle converts our Style to tcell.Style.
func convertStyle(s core.Style) tcell.Style {
	style := tcell.StyleDefault

	if !s.Foreground.IsDefault() {
		style = style.Foreground(tcell.NewRGBColor(int32(s.Foreground.R), int32(s.Foreground.G), int32(s.Foreground.B)))
	}
	if !s.Background.IsDefault() {
		style = style.Background(tcell.NewRGBColor(int32(s.Background.R), int32(s.Background.G), int32(s.Background.B)))
	}

	if s.Attributes.Has(core.AttrBold) {
		style = style.Bold(true)
	}
	if s.Attributes.Has(core.AttrDim) {
		style = style.Dim(true)
	}
	if s.Attributes.Has(core.AttrItalic) {
		style = style.Italic(true)
	}
	if s.Attributes.Has(core.AttrUnderline) {
		style = style.Underline(true)
	}
	if s.Attributes.Has(core.AttrReverse) {
		style = style.Reverse(true)
	}
	if s.Attributes.Has(core.AttrStrikethrough) {
		style = style.StrikeThrough(true)
	}
	return style
}

// convertEvent converts a tcell event. The bool is false for events that
// are consumed or ignored.
func (t *Terminal) convertEvent(ev tcell.Event) (Event, bool) {
	switch e := ev.(type) {
	case *tcell.EventPaste:
		if e.Start() {
			t.pasting = true
			t.paste.Reset()
			return Event{}, false
		}
		t.pasting = false
		text := t.paste.String()
		t.paste.Reset()
		return Event{Type: EventPaste, PasteText: text}, true

	case *tcell.EventKey:
		if t.pasting {
			t.appendPaste(e)
			return Event{}, false
		}
		key, r, mod := convertKey(e.Key(), e.Rune(), convertMod(e.Modifiers()))
		if key == KeyNone {
			return Event{}, false
		}
		return Event{Type: EventKey, Key: key, Rune: r, Mod: mod}, true

	case *tcell.EventResize:
		w, h := e.Size()
		return Event{Type: EventResize, Width: w, Height: h}, true

	case *tcell.EventInterrupt:
		return Event{Type: EventInterrupt}, true

	default:
		return Event{}, false
	}
}

func (t *Terminal) appendPaste(e *tcell.EventKey) {
	switch e.Key() {
	case tcell.KeyRune:
		t.paste.WriteRune(e.Rune())
	case tcell.KeyEnter, tcell.KeyLF:
		t.paste.WriteByte('\n')
	case tcell.KeyTab:
		t.paste.WriteByte('\t')
	}
}

// convertKey maps a tcell key to ours. Control chords become KeyRune with
// a lower-case rune and ModCtrl, so "Ctrl+B" is spelled the same way
// however the terminal reported it.
func convertKey(k tcell.Key, r rune, mod ModMask) (Key, rune, ModMask) {
	switch k {
	case tcell.KeyRune:
		return KeyRune, r, mod
	case tcell.KeyEscape:
		return KeyEscape, 0, mod
	case tcell.KeyEnter, tcell.KeyLF:
		return KeyEnter, 0, mod
	case tcell.KeyTab:
		return KeyTab, 0, mod
	case tcell.KeyBacktab:
		return KeyBacktab, 0, mod
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return KeyBackspace, 0, mod
	case tcell.KeyDelete:
		return KeyDelete, 0, mod
	case tcell.KeyHome:
		return KeyHome, 0, mod
	case tcell.KeyEnd:
		return KeyEnd, 0, mod
	case tcell.KeyPgUp:
		return KeyPageUp, 0, mod
	case tcell.KeyPgDn:
		return KeyPageDown, 0, mod
	case tcell.KeyUp:
		return KeyUp, 0, mod
	case tcell.KeyDown:
		return KeyDown, 0, mod
	case tcell.KeyLeft:
		return KeyLeft, 0, mod
	case tcell.KeyRight:
		return KeyRight, 0, mod
	}
	if c, ok := ctrlRune(k); ok {
		return KeyRune, c, mod | ModCtrl
	}
	return KeyNone, 0, mod
}

// ctrlRune returns the letter of a Ctrl+letter key. Both the named
// KeyCtrl constants and raw ASCII control codes are accepted.
func ctrlRune(k tcell.Key) (rune, bool) {
	switch {
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		return 'a' + rune(k-tcell.KeyCtrlA), true
	case k >= tcell.KeySOH && k <= tcell.KeySUB:
		return 'a' + rune(k-tcell.KeySOH), true
	}
	return 0, false
}

// convertToTcellKey converts our Key to tcell.Key.
func convertToTcellKey(k Key) tcell.Key {
	switch k {
	case KeyEscape:
		return tcell.KeyEscape
	case KeyEnter:
		return tcell.KeyEnter
	case KeyTab:
		return tcell.KeyTab
	case KeyBacktab:
		return tcell.KeyBacktab
	case KeyBackspace:
		return tcell.KeyBackspace2
	case KeyDelete:
		return tcell.KeyDelete
	case KeyHome:
		return tcell.KeyHome
	case KeyEnd:
		return tcell.KeyEnd
	case KeyPageUp:
		return tcell.KeyPgUp
	case KeyPageDown:
		return tcell.KeyPgDn
	case KeyUp:
		return tcell.KeyUp
	case KeyDown:
		return tcell.KeyDown
	case KeyLeft:
		return tcell.KeyLeft
	case KeyRight:
		return tcell.KeyRight
	default:
		return tcell.KeyRune
	}
}

// convertMod converts tcell modifier mask to our ModMask.
func convertMod(m tcell.ModMask) ModMask {
	var result ModMask
	if m&tcell.ModShift != 0 {
		result |= ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		result |= ModAlt
	}
	return result
}

// convertToTcellMod converts our ModMask to tcell.ModMask.
func convertToTcellMod(m ModMask) tcell.ModMask {
	var result tcell.ModMask
	if m&ModShift != 0 {
		result |= tcell.ModShift
	}
	if m&ModCtrl != 0 {
		result |= tcell.ModCtrl
	}
	if m&ModAlt != 0 {
		result |= tcell.ModAlt
	}
	return result
}
