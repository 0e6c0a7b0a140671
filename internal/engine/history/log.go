package history

import (
	"sync"
	"time"
)

// DefaultCapacity is the number of snapshots kept when no capacity is given.
const DefaultCapacity = 100

// Entry is one committed snapshot of the buffer text.
type Entry struct {
	Text      string
	Timestamp time.Time
}

// Log is a bounded, linear undo/redo log of buffer snapshots.
//
// index is -1 while the log is empty and otherwise points at the entry
// matching the current buffer. Entries after index form the redo branch,
// which the next accepted commit discards.
type Log struct {
	mu sync.Mutex

	entries  []Entry
	index    int
	capacity int

	// suppressed is set by Undo and Redo and consumed by the next Commit.
	suppressed bool
}

// NewLog creates an empty log. A capacity <= 0 selects DefaultCapacity.
func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{
		index:    -1,
		capacity: capacity,
	}
}

// Commit records text as a new entry and reports whether it was accepted.
//
// A pending suppression flag is cleared and the commit dropped. Text equal
// to the current entry is dropped. Otherwise the redo branch is discarded,
// text is appended, and the oldest entry is evicted once the log exceeds
// its capacity.
func (l *Log) Commit(text string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.suppressed {
		l.suppressed = false
		return false
	}

	if l.index >= 0 && l.entries[l.index].Text == text {
		return false
	}

	l.entries = append(l.entries[:l.index+1], Entry{Text: text, Timestamp: time.Now()})
	l.index++

	if len(l.entries) > l.capacity {
		excess := len(l.entries) - l.capacity
		l.entries = append([]Entry(nil), l.entries[excess:]...)
		l.index -= excess
	}

	return true
}

// Undo steps back one entry and returns its text. It sets the suppression
// flag so the restore is not recorded as a new edit. Returns false when
// there is nothing to undo.
func (l *Log) Undo() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.index <= 0 {
		return "", false
	}

	l.suppressed = true
	l.index--
	return l.entries[l.index].Text, true
}

// Redo steps forward one entry and returns its text. It sets the
// suppression flag like Undo. Returns false when there is nothing to redo.
func (l *Log) Redo() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.index >= len(l.entries)-1 {
		return "", false
	}

	l.suppressed = true
	l.index++
	return l.entries[l.index].Text, true
}

// CanUndo returns true if undo is available.
func (l *Log) CanUndo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.index > 0
}

// CanRedo returns true if redo is available.
func (l *Log) CanRedo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.index < len(l.entries)-1
}

// Index returns the position of the current entry, or -1 when empty.
func (l *Log) Index() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.index
}

// Len returns the number of stored entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Capacity returns the maximum number of entries.
func (l *Log) Capacity() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.capacity
}

// Suppressed reports whether the next commit will be dropped.
func (l *Log) Suppressed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.suppressed
}

// Current returns the text of the current entry.
func (l *Log) Current() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.index < 0 {
		return "", false
	}
	return l.entries[l.index].Text, true
}

// Entries returns a copy of all stored entries, oldest first.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Clear drops every entry and returns the log to its empty state.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
	l.index = -1
	l.suppressed = false
}
