package buffer

import (
	"errors"
	"strings"
	"sync"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
)

// Buffer holds the document text as a flat string.
// All methods are thread-safe.
type Buffer struct {
	mu         sync.RWMutex
	text       string
	revisionID RevisionID
}

// NewBuffer creates a new empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{revisionID: NewRevisionID()}
}

// NewBufferFromString creates a buffer with initial content.
// Line endings are normalized to LF.
func NewBufferFromString(s string) *Buffer {
	b := NewBuffer()
	b.text = NormalizeLineEndings(s)
	return b
}

// NormalizeLineEndings converts CRLF and lone CR to LF.
func NormalizeLineEndings(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Read Operations

// Text returns the entire buffer content.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text
}

// TextRange returns the text in [start, end), clamped to the buffer.
func (b *Buffer) TextRange(start, end ByteOffset) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	r := Range{Start: start, End: end}.Clamp(ByteOffset(len(b.text)))
	return b.text[r.Start:r.End]
}

// Len returns the total byte length.
func (b *Buffer) Len() ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return ByteOffset(len(b.text))
}

// IsEmpty returns true if the buffer has no content.
func (b *Buffer) IsEmpty() bool {
	return b.Len() == 0
}

// LineCount returns the number of lines. An empty buffer has one line.
func (b *Buffer) LineCount() uint32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return uint32(strings.Count(b.text, "\n")) + 1
}

// OffsetToPoint converts a byte offset to a line/column position.
func (b *Buffer) OffsetToPoint(offset ByteOffset) Point {
	b.mu.RLock()
	defer b.mu.RUnlock()
	offset = clampOffset(offset, ByteOffset(len(b.text)))
	head := b.text[:offset]
	line := strings.Count(head, "\n")
	col := offset - ByteOffset(strings.LastIndexByte(head, '\n')+1)
	return Point{Line: uint32(line), Column: uint32(col)}
}

// PointToOffset converts a line/column position to a byte offset.
// Columns past the end of the line clamp to the line end.
func (b *Buffer) PointToOffset(p Point) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var start ByteOffset
	for i := uint32(0); i < p.Line; i++ {
		idx := strings.IndexByte(b.text[start:], '\n')
		if idx < 0 {
			return ByteOffset(len(b.text))
		}
		start += ByteOffset(idx) + 1
	}

	end := ByteOffset(len(b.text))
	if idx := strings.IndexByte(b.text[start:], '\n'); idx >= 0 {
		end = start + ByteOffset(idx)
	}
	off := start + ByteOffset(p.Column)
	if off > end {
		off = end
	}
	return SnapOffset(b.text, off)
}

// RevisionID returns the current revision identifier.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revisionID
}

// Write Operations

// Replace replaces text in the given range with new text.
// Returns the end position of the replacement text.
func (b *Buffer) Replace(start, end ByteOffset, text string) (ByteOffset, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if start < 0 || end > ByteOffset(len(b.text)) {
		return 0, ErrOffsetOutOfRange
	}
	if start > end {
		return 0, ErrRangeInvalid
	}

	text = NormalizeLineEndings(text)
	b.text, _ = ReplaceRange(b.text, start, end, text)
	b.revisionID = NewRevisionID()

	return start + ByteOffset(len(text)), nil
}

// SetText replaces the whole buffer content.
func (b *Buffer) SetText(s string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s = NormalizeLineEndings(s)
	if s == b.text {
		return
	}
	b.text = s
	b.revisionID = NewRevisionID()
}

// Apply sets the text produced by a mutation primitive.
func (b *Buffer) Apply(r Result) {
	b.SetText(r.Text)
}
