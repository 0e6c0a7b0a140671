package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/markpad/internal/engine/buffer"
	"github.com/dshills/markpad/internal/engine/cursor"
	"github.com/dshills/markpad/internal/engine/history"
	"github.com/dshills/markpad/internal/markup"
)

// Re-export commonly used types for convenience.
type (
	// ByteOffset is a byte position in the buffer.
	ByteOffset = buffer.ByteOffset

	// Range represents a byte range in the buffer.
	Range = buffer.Range

	// Selection represents the caret or selected range.
	Selection = cursor.Selection

	// EditResult is the outcome of a mutation primitive.
	EditResult = buffer.Result
)

// Logger is the logging surface the session needs.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}

// Previewer turns buffer text into a rendered document.
type Previewer interface {
	Render(src string) markup.Document
}

// TextSource supplies text for Paste.
type TextSource interface {
	ReadText(ctx context.Context) (string, error)
}

// TextSink receives text from Copy.
type TextSink interface {
	WriteText(ctx context.Context, text string) error
}

// Session is one editing session: the buffer, its selection, the undo log
// and the rendered preview.
//
// Every mutation runs mutate, commit and render to completion under the
// session lock, so entry points never interleave. Preview callbacks run
// after the lock is released.
type Session struct {
	mu sync.Mutex

	id       string
	buf      *buffer.Buffer
	sel      cursor.Selection
	log      *history.Log
	pipeline Previewer
	preview  markup.Document

	onPreview func(markup.Document)
	logger    Logger

	initContent string
	capacity    int
}

// New creates a session with the given options. The initial content is
// committed as history entry 0 and rendered once.
func New(opts ...Option) *Session {
	s := &Session{
		id:       uuid.NewString(),
		capacity: DefaultHistoryCapacity,
		logger:   nopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.pipeline == nil {
		s.pipeline = markup.NewPipeline(markup.NewGoldmark())
	}

	s.buf = buffer.NewBufferFromString(s.initContent)
	s.log = history.NewLog(s.capacity)
	s.sel = cursor.Caret(s.buf.Text(), 0)
	s.log.Commit(s.buf.Text())
	s.preview = s.pipeline.Render(s.buf.Text())

	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Text returns the buffer content.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Text()
}

// Len returns the buffer length in bytes.
func (s *Session) Len() ByteOffset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Len()
}

// Selection returns the current selection.
func (s *Session) Selection() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel
}

// SelectedText returns the selected text, or "" for a caret.
func (s *Session) SelectedText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.TextRange(s.sel.Start(), s.sel.End())
}

// Preview returns the most recently rendered document.
func (s *Session) Preview() markup.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preview
}

// CanUndo reports whether Undo would change the buffer.
func (s *Session) CanUndo() bool {
	return s.log.CanUndo()
}

// CanRedo reports whether Redo would change the buffer.
func (s *Session) CanRedo() bool {
	return s.log.CanRedo()
}

// History returns the session's undo log.
func (s *Session) History() *history.Log {
	return s.log
}

// Point returns the line/column of the caret.
func (s *Session) Point() buffer.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.OffsetToPoint(s.sel.Head)
}

// SetSelection selects [start, end), clamped to the buffer.
func (s *Session) SetSelection(start, end ByteOffset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel = cursor.Span(s.buf.Text(), start, end)
}

// SetCaret moves the caret to pos, clamped to the buffer.
func (s *Session) SetCaret(pos ByteOffset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel = cursor.Caret(s.buf.Text(), pos)
}

// ExtendSelection moves the selection head to pos, keeping the anchor.
func (s *Session) ExtendSelection(pos ByteOffset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel = s.sel.Extend(pos).Clamp(s.buf.Text())
}

// SetPipeline swaps the render pipeline and re-renders the preview.
func (s *Session) SetPipeline(p Previewer) {
	if p == nil {
		return
	}
	s.mu.Lock()
	s.pipeline = p
	doc := s.renderLocked()
	s.mu.Unlock()
	s.publish(doc)
}

// Input records a whole-buffer change reported by the host, as happens on
// direct typing. The selection is clamped to the new text.
func (s *Session) Input(text string, sel Selection) {
	text = buffer.NormalizeLineEndings(text)
	s.mutate("input", func(string, Selection) EditResult {
		return EditResult{Text: text, Selection: sel.Clamp(text).Range()}
	})
}

// InsertText replaces the selection with text and puts the caret after it.
func (s *Session) InsertText(text string) EditResult {
	text = buffer.NormalizeLineEndings(text)
	return s.mutate("insert", func(cur string, sel Selection) EditResult {
		return buffer.Splice(cur, sel.Range(), text)
	})
}

// DeleteBackward removes the selection, or the grapheme before the caret.
func (s *Session) DeleteBackward() EditResult {
	return s.mutate("deleteBackward", func(cur string, sel Selection) EditResult {
		r := sel.Range()
		if r.IsEmpty() {
			r.Start = buffer.PrevBoundary(cur, r.Start)
		}
		return buffer.Splice(cur, r, "")
	})
}

// DeleteForward removes the selection, or the grapheme after the caret.
func (s *Session) DeleteForward() EditResult {
	return s.mutate("deleteForward", func(cur string, sel Selection) EditResult {
		r := sel.Range()
		if r.IsEmpty() {
			r.End = buffer.NextBoundary(cur, r.End)
		}
		return buffer.Splice(cur, r, "")
	})
}

// Wrap surrounds the selection, or the placeholder when nothing is
// selected, with before and after.
func (s *Session) Wrap(before, after, placeholder string) EditResult {
	return s.mutate("wrap", func(cur string, sel Selection) EditResult {
		return buffer.Wrap(cur, sel.Range(), before, after, placeholder)
	})
}

// PrefixLine inserts prefix at the start of the caret's line.
func (s *Session) PrefixLine(prefix string) EditResult {
	return s.mutate("prefixLine", func(cur string, sel Selection) EditResult {
		return buffer.PrefixLine(cur, sel.Head, prefix)
	})
}

// InsertStructured replaces the captured range with replacement. The
// current selection is ignored.
func (s *Session) InsertStructured(captured Range, replacement string) EditResult {
	replacement = buffer.NormalizeLineEndings(replacement)
	return s.mutate("structured", func(cur string, _ Selection) EditResult {
		return buffer.Structured(cur, captured, replacement)
	})
}

// Undo restores the previous snapshot and places the caret at the end of
// the region that changed.
func (s *Session) Undo() error {
	if !s.replay("undo", s.log.Undo) {
		return ErrNothingToUndo
	}
	return nil
}

// Redo restores the next snapshot and places the caret at the end of the
// region that changed.
func (s *Session) Redo() error {
	if !s.replay("redo", s.log.Redo) {
		return ErrNothingToRedo
	}
	return nil
}

// Paste reads text from src and replaces the selection with it. A read
// failure or empty clipboard text leaves the buffer and history unchanged.
func (s *Session) Paste(ctx context.Context, src TextSource) error {
	if src == nil {
		return ErrNoClipboard
	}
	text, err := src.ReadText(ctx)
	if err != nil {
		s.logger.Warn("paste from clipboard not available: %v", err)
		return fmt.Errorf("paste: %w", err)
	}
	if text == "" {
		s.logger.Debug("paste: clipboard text is empty")
		return nil
	}
	s.InsertText(text)
	return nil
}

// Copy writes the whole buffer to dst.
func (s *Session) Copy(ctx context.Context, dst TextSink) error {
	if dst == nil {
		return ErrNoClipboard
	}
	if err := dst.WriteText(ctx, s.Text()); err != nil {
		s.logger.Warn("copy to clipboard failed: %v", err)
		return fmt.Errorf("copy: %w", err)
	}
	return nil
}

// mutate runs one edit through the buffer, the history log and the
// renderer.
func (s *Session) mutate(op string, fn func(text string, sel Selection) EditResult) EditResult {
	s.mu.Lock()
	r := fn(s.buf.Text(), s.sel)
	s.buf.Apply(r)
	text := s.buf.Text()
	s.sel = cursor.NewRangeSelection(r.Selection).Clamp(text)
	committed := s.log.Commit(text)
	doc := s.renderLocked()
	s.mu.Unlock()

	s.logger.Debug("%s: sel=%s delta=%d committed=%v", op, r.Selection, r.Edit.Delta(), committed)
	s.publish(doc)
	return r
}

// replay restores a snapshot from step. The suppressed commit attempt is
// made before the lock is released, so the next user edit always commits.
func (s *Session) replay(op string, step func() (string, bool)) bool {
	s.mu.Lock()
	text, ok := step()
	if !ok {
		s.mu.Unlock()
		return false
	}

	before := s.buf.Text()
	s.buf.SetText(text)
	_, end := changedRegion(before, text)
	s.sel = cursor.Caret(text, end)
	s.log.Commit(text)
	doc := s.renderLocked()
	index := s.log.Index()
	s.mu.Unlock()

	s.logger.Debug("%s: index=%d caret=%d", op, index, end)
	s.publish(doc)
	return true
}

func (s *Session) renderLocked() markup.Document {
	s.preview = s.pipeline.Render(s.buf.Text())
	return s.preview
}

func (s *Session) publish(doc markup.Document) {
	if s.onPreview != nil {
		s.onPreview(doc)
	}
}
