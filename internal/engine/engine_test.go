package engine

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/dshills/markpad/internal/clipboard"
	"github.com/dshills/markpad/internal/markup"
)

// countingPreviewer records every render without running a real renderer.
type countingPreviewer struct {
	mu    sync.Mutex
	count int
	last  string
}

func (p *countingPreviewer) Render(src string) markup.Document {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count++
	p.last = src
	return markup.Document{HTML: "<p>" + src + "</p>"}
}

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) ReadText(context.Context) (string, error) {
	return c.text, c.err
}

func (c *fakeClipboard) WriteText(_ context.Context, text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

type recordingLogger struct {
	warns []string
}

func (l *recordingLogger) Debug(string, ...any) {}
func (l *recordingLogger) Warn(msg string, _ ...any) {
	l.warns = append(l.warns, msg)
}

func newTestSession(content string) (*Session, *countingPreviewer) {
	p := &countingPreviewer{}
	return New(WithContent(content), WithPipeline(p)), p
}

func TestNew(t *testing.T) {
	s, p := newTestSession("hello")
	if s.Text() != "hello" {
		t.Errorf("expected %q, got %q", "hello", s.Text())
	}
	if s.ID() == "" {
		t.Error("expected a session ID")
	}
	if s.History().Index() != 0 || s.History().Len() != 1 {
		t.Errorf("history index/len = %d/%d, want 0/1", s.History().Index(), s.History().Len())
	}
	if p.count != 1 {
		t.Errorf("expected one initial render, got %d", p.count)
	}
	if s.CanUndo() || s.CanRedo() {
		t.Error("fresh session should have nothing to undo or redo")
	}
}

func TestNewEmptyCommitsEntryZero(t *testing.T) {
	s, _ := newTestSession("")
	if s.History().Index() != 0 {
		t.Errorf("expected index 0, got %d", s.History().Index())
	}
}

func TestSetSelectionClamps(t *testing.T) {
	s, _ := newTestSession("abc")
	s.SetSelection(5, -3)
	sel := s.Selection()
	if sel.Start() != 0 || sel.End() != 3 {
		t.Errorf("selection = %v, want [0,3)", sel)
	}
	s.SetCaret(99)
	if s.Selection().Head != 3 {
		t.Errorf("caret = %v, want 3", s.Selection())
	}
}

func TestWrapToggleVisibility(t *testing.T) {
	s, _ := newTestSession("say hello")
	s.SetSelection(4, 9)
	s.Wrap("**", "**", "bold text")

	if s.Text() != "say **hello**" {
		t.Fatalf("text = %q", s.Text())
	}
	if got := s.SelectedText(); got != "**hello**" {
		t.Errorf("selected = %q, want delimited span", got)
	}
}

func TestWrapPlaceholderSelection(t *testing.T) {
	s, _ := newTestSession("ab")
	s.SetCaret(1)
	s.Wrap("*", "*", "italic text")

	if s.Text() != "a*italic text*b" {
		t.Fatalf("text = %q", s.Text())
	}
	if got := s.SelectedText(); got != "italic text" {
		t.Errorf("selected = %q, want placeholder", got)
	}
}

func TestPrefixLineDoubles(t *testing.T) {
	s, _ := newTestSession("one\ntwo")
	s.SetCaret(5)
	s.PrefixLine("> ")
	s.PrefixLine("> ")

	if s.Text() != "one\n> > two" {
		t.Errorf("text = %q", s.Text())
	}
	if s.Selection().Head != 6 {
		t.Errorf("caret = %d, want 6", s.Selection().Head)
	}
}

func TestInsertStructuredUsesCapturedRange(t *testing.T) {
	s, _ := newTestSession("hello world")
	s.SetSelection(6, 11)
	captured := s.Selection().Range()

	// The selection moves while the dialog is open.
	s.SetCaret(0)

	s.InsertStructured(captured, "[world](https://example.com)")
	if s.Text() != "hello [world](https://example.com)" {
		t.Fatalf("text = %q", s.Text())
	}
	if s.Selection().Head != s.Len() {
		t.Errorf("caret = %d, want end", s.Selection().Head)
	}
}

func TestUndoRedoRestoresSnapshots(t *testing.T) {
	s, _ := newTestSession("abc")
	s.SetCaret(3)
	s.InsertText("d")
	s.InsertText("e")

	if err := s.Undo(); err != nil {
		t.Fatalf("Undo() error: %v", err)
	}
	if s.Text() != "abcd" {
		t.Errorf("after undo = %q", s.Text())
	}
	if s.Selection().Head != 4 {
		t.Errorf("caret after undo = %d, want 4", s.Selection().Head)
	}
	if err := s.Undo(); err != nil {
		t.Fatalf("Undo() error: %v", err)
	}
	if err := s.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("expected ErrNothingToUndo, got %v", err)
	}

	if err := s.Redo(); err != nil {
		t.Fatalf("Redo() error: %v", err)
	}
	if s.Text() != "abcd" {
		t.Errorf("after redo = %q", s.Text())
	}
	if err := s.Redo(); err != nil {
		t.Fatalf("Redo() error: %v", err)
	}
	if err := s.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("expected ErrNothingToRedo, got %v", err)
	}
}

func TestUndoDoesNotSwallowNextEdit(t *testing.T) {
	s, _ := newTestSession("a")
	s.SetCaret(1)
	s.InsertText("b")
	if err := s.Undo(); err != nil {
		t.Fatal(err)
	}
	if s.History().Suppressed() {
		t.Fatal("suppression should be consumed inside Undo")
	}

	s.InsertText("x")
	if s.History().Index() != 1 {
		t.Errorf("edit after undo should be committed, index = %d", s.History().Index())
	}
	if s.CanRedo() {
		t.Error("edit after undo should discard the redo branch")
	}
	if err := s.Undo(); err != nil {
		t.Fatal(err)
	}
	if s.Text() != "a" {
		t.Errorf("text = %q, want %q", s.Text(), "a")
	}
}

func TestUndoRendersWithoutCommitting(t *testing.T) {
	s, p := newTestSession("a")
	s.SetCaret(1)
	s.InsertText("b")
	before := p.count
	lenBefore := s.History().Len()

	if err := s.Undo(); err != nil {
		t.Fatal(err)
	}
	if p.count != before+1 {
		t.Errorf("undo should render once, renders = %d", p.count-before)
	}
	if p.last != "a" {
		t.Errorf("rendered %q, want %q", p.last, "a")
	}
	if s.History().Len() != lenBefore {
		t.Error("undo should not add history entries")
	}
}

func TestDeleteBackwardAndForward(t *testing.T) {
	s, _ := newTestSession("ae\u0301b")
	s.SetCaret(4)
	s.DeleteBackward()
	if s.Text() != "ab" {
		t.Errorf("DeleteBackward removed part of a cluster: %q", s.Text())
	}

	s.SetCaret(0)
	s.DeleteForward()
	if s.Text() != "b" {
		t.Errorf("DeleteForward = %q", s.Text())
	}

	s.SetCaret(0)
	s.DeleteBackward()
	if s.Text() != "b" {
		t.Errorf("DeleteBackward at start changed text: %q", s.Text())
	}
}

func TestInputClampsSelection(t *testing.T) {
	s, _ := newTestSession("")
	s.Input("typed", Selection{Anchor: 50, Head: 50})
	if s.Text() != "typed" {
		t.Errorf("text = %q", s.Text())
	}
	if s.Selection().Head != 5 {
		t.Errorf("caret = %d, want 5", s.Selection().Head)
	}
	if s.History().Index() != 1 {
		t.Errorf("index = %d, want 1", s.History().Index())
	}
}

func TestPaste(t *testing.T) {
	s, _ := newTestSession("hello world")
	s.SetSelection(6, 11)
	if err := s.Paste(context.Background(), &fakeClipboard{text: "there"}); err != nil {
		t.Fatalf("Paste() error: %v", err)
	}
	if s.Text() != "hello there" {
		t.Errorf("text = %q", s.Text())
	}
	if s.Selection().Head != 11 || s.Selection().HasSelection() {
		t.Errorf("selection = %v, want caret at 11", s.Selection())
	}
}

func TestPasteFailureIsNoOp(t *testing.T) {
	log := &recordingLogger{}
	s := New(WithContent("keep"), WithPipeline(&countingPreviewer{}), WithLogger(log))
	boom := errors.New("denied")

	err := s.Paste(context.Background(), &fakeClipboard{err: boom})
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped error, got %v", err)
	}
	if s.Text() != "keep" {
		t.Errorf("text changed to %q", s.Text())
	}
	if len(log.warns) != 1 || !strings.Contains(log.warns[0], "paste") {
		t.Errorf("expected a paste warning, got %v", log.warns)
	}
	if err := s.Paste(context.Background(), nil); !errors.Is(err, ErrNoClipboard) {
		t.Errorf("expected ErrNoClipboard, got %v", err)
	}
}

func TestPasteKeepsSelectionWhenClipboardHasNothing(t *testing.T) {
	tests := []struct {
		name    string
		src     TextSource
		wantErr bool
	}{
		{"system fails, register empty", clipboard.NewFallback(&fakeClipboard{err: clipboard.ErrUnavailable}, clipboard.NewMemory()), true},
		{"empty text", &fakeClipboard{text: ""}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(WithContent("keep this text"), WithPipeline(&countingPreviewer{}))
			s.SetSelection(5, 9)

			err := s.Paste(context.Background(), tt.src)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Paste() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got := s.Text(); got != "keep this text" {
				t.Errorf("text = %q, want it unchanged", got)
			}
			if got := s.SelectedText(); got != "this" {
				t.Errorf("selection = %q, want %q", got, "this")
			}
			if s.History().Len() != 1 || s.CanUndo() {
				t.Errorf("history len = %d, want only the initial entry", s.History().Len())
			}
		})
	}
}

func TestCopyWritesWholeBuffer(t *testing.T) {
	s, _ := newTestSession("all of it")
	s.SetSelection(0, 3)
	clip := &fakeClipboard{}
	if err := s.Copy(context.Background(), clip); err != nil {
		t.Fatalf("Copy() error: %v", err)
	}
	if clip.text != "all of it" {
		t.Errorf("copied %q", clip.text)
	}
	if s.History().Len() != 1 {
		t.Error("copy should not touch history")
	}
}

func TestPreviewCallback(t *testing.T) {
	var got []string
	s := New(
		WithContent("x"),
		WithPipeline(&countingPreviewer{}),
		WithPreview(func(d markup.Document) { got = append(got, d.HTML) }),
	)
	s.SetCaret(1)
	s.InsertText("y")
	if len(got) != 1 || got[0] != "<p>xy</p>" {
		t.Errorf("preview callbacks = %v", got)
	}
	if s.Preview().HTML != "<p>xy</p>" {
		t.Errorf("Preview() = %q", s.Preview().HTML)
	}
}

func TestHistoryCapacityOption(t *testing.T) {
	s := New(WithHistoryCapacity(3), WithPipeline(&countingPreviewer{}))
	for _, c := range "abcdef" {
		s.InsertText(string(c))
	}
	if s.History().Len() != 3 {
		t.Errorf("expected 3 entries, got %d", s.History().Len())
	}
}

func TestChangedRegion(t *testing.T) {
	tests := []struct {
		name       string
		before     string
		after      string
		start, end ByteOffset
	}{
		{"append", "abc", "abcd", 3, 4},
		{"delete", "abcd", "abc", 3, 3},
		{"middle", "a**b**c", "abc", 1, 2},
		{"restore middle", "abc", "a**b**c", 1, 6},
		{"equal", "same", "same", 4, 4},
		{"empty to text", "", "hi", 0, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := changedRegion(tt.before, tt.after)
			if start != tt.start || end != tt.end {
				t.Errorf("changedRegion(%q, %q) = %d,%d want %d,%d",
					tt.before, tt.after, start, end, tt.start, tt.end)
			}
		})
	}
}

func TestConcurrentEdits(t *testing.T) {
	s, _ := newTestSession("")
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.InsertText("x")
			_ = s.Text()
		}()
	}
	wg.Wait()
	if s.Len() != 20 {
		t.Errorf("expected 20 bytes, got %d", s.Len())
	}
}
