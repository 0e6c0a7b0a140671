package backend

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/markpad/internal/renderer/core"
)

func TestNullBackendInit(t *testing.T) {
	b := NewNullBackend(80, 24)
	if err := b.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	w, h := b.Size()
	if w != 80 || h != 24 {
		t.Errorf("expected size (80, 24), got (%d, %d)", w, h)
	}
}

func TestNullBackendSetCellAndLine(t *testing.T) {
	b := NewNullBackend(10, 3)
	b.Init()

	for i, c := range core.CellsFromString("hi", core.DefaultStyle()) {
		b.SetCell(2+i, 1, c)
	}
	// Out of bounds is ignored.
	b.SetCell(-1, 0, core.EmptyCell())
	b.SetCell(100, 0, core.EmptyCell())

	if got := b.Line(1); got != "  hi" {
		t.Errorf("Line(1) = %q", got)
	}
	if got := b.Cell(3, 1).Text; got != "i" {
		t.Errorf("Cell(3,1) = %q", got)
	}

	b.Clear()
	if got := b.Contents(); got != "\n\n" {
		t.Errorf("Contents() after Clear = %q", got)
	}
}

func TestNullBackendCursor(t *testing.T) {
	b := NewNullBackend(80, 24)
	b.Init()

	b.ShowCursor(15, 10)
	x, y, visible := b.CursorPosition()
	if x != 15 || y != 10 || !visible {
		t.Errorf("cursor position: expected (15, 10, true), got (%d, %d, %v)", x, y, visible)
	}

	b.HideCursor()
	_, _, visible = b.CursorPosition()
	if visible {
		t.Error("cursor should be hidden")
	}
}

func TestNullBackendResize(t *testing.T) {
	b := NewNullBackend(80, 24)
	b.Init()

	b.Resize(100, 40)

	w, h := b.Size()
	if w != 100 || h != 40 {
		t.Errorf("expected size (100, 40), got (%d, %d)", w, h)
	}
	ev := b.PollEvent()
	if ev.Type != EventResize || ev.Width != 100 || ev.Height != 40 {
		t.Errorf("expected resize event, got %+v", ev)
	}
}

func TestNullBackendPollAfterShutdown(t *testing.T) {
	b := NewNullBackend(80, 24)
	b.Init()

	b.PostEvent(Event{Type: EventKey, Key: KeyEnter})
	if got := b.PollEvent(); got.Type != EventKey || got.Key != KeyEnter {
		t.Errorf("expected enter key event, got %+v", got)
	}

	done := make(chan Event)
	go func() { done <- b.PollEvent() }()
	b.Shutdown()
	b.Shutdown()

	select {
	case ev := <-done:
		if ev.Type != EventNone {
			t.Errorf("expected EventNone after shutdown, got %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("PollEvent did not return after Shutdown")
	}
}

func TestEventName(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		want string
	}{
		{"ctrl letter", Event{Type: EventKey, Key: KeyRune, Rune: 'b', Mod: ModCtrl}, "Ctrl+B"},
		{"alt letter", Event{Type: EventKey, Key: KeyRune, Rune: 'i', Mod: ModAlt}, "Alt+I"},
		{"ctrl alt", Event{Type: EventKey, Key: KeyRune, Rune: 'x', Mod: ModCtrl | ModAlt}, "Ctrl+Alt+X"},
		{"ctrl space", Event{Type: EventKey, Key: KeyRune, Rune: ' ', Mod: ModCtrl}, "Ctrl+Space"},
		{"plain rune", Event{Type: EventKey, Key: KeyRune, Rune: 'a'}, ""},
		{"shifted rune", Event{Type: EventKey, Key: KeyRune, Rune: 'A', Mod: ModShift}, ""},
		{"enter", Event{Type: EventKey, Key: KeyEnter}, "Enter"},
		{"escape", Event{Type: EventKey, Key: KeyEscape}, "Esc"},
		{"shift arrow", Event{Type: EventKey, Key: KeyLeft, Mod: ModShift}, "Shift+Left"},
		{"ctrl home", Event{Type: EventKey, Key: KeyHome, Mod: ModCtrl}, "Ctrl+Home"},
		{"not a key", Event{Type: EventResize}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ev.Name(); got != tt.want {
				t.Errorf("Name() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestModMaskHas(t *testing.T) {
	mod := ModShift | ModCtrl

	if !mod.Has(ModShift) {
		t.Error("should have shift")
	}
	if !mod.Has(ModCtrl) {
		t.Error("should have ctrl")
	}
	if mod.Has(ModAlt) {
		t.Error("should not have alt")
	}
}

func newSimTerminal(t *testing.T) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	term := NewTerminalWithScreen(sim)
	if err := term.Init(); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	sim.SetSize(20, 5)
	t.Cleanup(term.Shutdown)
	return term, sim
}

func TestTerminalDraw(t *testing.T) {
	term, sim := newSimTerminal(t)

	style := core.DefaultStyle().WithForeground(core.ColorRed).Bold()
	for i, c := range core.CellsFromString("md", style) {
		term.SetCell(i, 0, c)
	}
	term.ShowCursor(2, 0)
	term.Show()

	cells, w, _ := sim.GetContents()
	if got := string(cells[0].Runes) + string(cells[1].Runes); got != "md" {
		t.Errorf("screen = %q", got)
	}
	_, _, attrs := cells[0].Style.Decompose()
	if attrs&tcell.AttrBold == 0 {
		t.Error("bold attribute not applied")
	}
	if w != 20 {
		t.Errorf("width = %d", w)
	}
	if x, y, visible := sim.GetCursor(); x != 2 || y != 0 || !visible {
		t.Errorf("cursor = (%d,%d,%v)", x, y, visible)
	}
}

func TestTerminalKeyEvents(t *testing.T) {
	term, sim := newSimTerminal(t)

	sim.InjectKey(tcell.KeyCtrlB, 0, tcell.ModCtrl)
	sim.InjectKey(tcell.KeyRune, 'i', tcell.ModAlt)
	sim.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	sim.InjectKey(tcell.KeyBackspace2, 0, tcell.ModNone)

	want := []struct {
		key  Key
		name string
	}{
		{KeyRune, "Ctrl+B"},
		{KeyRune, "Alt+I"},
		{KeyRune, ""},
		{KeyBackspace, "Backspace"},
	}
	for i, w := range want {
		ev := term.PollEvent()
		if ev.Type != EventKey || ev.Key != w.key || ev.Name() != w.name {
			t.Errorf("event %d = %+v (%q), want key %d %q", i, ev, ev.Name(), w.key, w.name)
		}
	}
}

func TestTerminalBracketedPaste(t *testing.T) {
	term, sim := newSimTerminal(t)

	_ = sim.PostEvent(tcell.NewEventPaste(true))
	for _, r := range "a b" {
		sim.InjectKey(tcell.KeyRune, r, tcell.ModNone)
	}
	sim.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	sim.InjectKey(tcell.KeyRune, 'c', tcell.ModNone)
	_ = sim.PostEvent(tcell.NewEventPaste(false))

	ev := term.PollEvent()
	if ev.Type != EventPaste {
		t.Fatalf("event = %+v, want paste", ev)
	}
	if ev.PasteText != "a b\nc" {
		t.Errorf("PasteText = %q", ev.PasteText)
	}
}

func TestTerminalPostInterrupt(t *testing.T) {
	term, _ := newSimTerminal(t)

	term.PostEvent(Event{Type: EventInterrupt})
	if ev := term.PollEvent(); ev.Type != EventInterrupt {
		t.Errorf("event = %+v, want interrupt", ev)
	}
}
