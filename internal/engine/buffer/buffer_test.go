package buffer

import (
	"errors"
	"sync"
	"testing"
)

func TestNewBuffer(t *testing.T) {
	b := NewBuffer()

	if !b.IsEmpty() {
		t.Error("new buffer should be empty")
	}
	if b.Len() != 0 {
		t.Errorf("expected length 0, got %d", b.Len())
	}
	if b.LineCount() != 1 {
		t.Errorf("expected 1 line, got %d", b.LineCount())
	}
}

func TestNewBufferFromStringNormalizesLineEndings(t *testing.T) {
	b := NewBufferFromString("one\r\ntwo\rthree")

	if got, want := b.Text(), "one\ntwo\nthree"; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
	if b.LineCount() != 3 {
		t.Errorf("expected 3 lines, got %d", b.LineCount())
	}
	if got := b.TextRange(4, 7); got != "two" {
		t.Errorf("TextRange(4, 7) = %q, want two", got)
	}
}

func TestBufferReplace(t *testing.T) {
	b := NewBufferFromString("Hello World")
	rev := b.RevisionID()

	end, err := b.Replace(6, 11, "Go")
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if end != 8 {
		t.Errorf("expected end 8, got %d", end)
	}
	if b.Text() != "Hello Go" {
		t.Errorf("expected %q, got %q", "Hello Go", b.Text())
	}
	if b.RevisionID() == rev {
		t.Error("revision should change after replace")
	}
}

func TestBufferReplaceErrors(t *testing.T) {
	b := NewBufferFromString("abc")

	if _, err := b.Replace(-1, 1, "x"); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}
	if _, err := b.Replace(0, 4, "x"); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}
	if _, err := b.Replace(2, 1, "x"); !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("expected ErrRangeInvalid, got %v", err)
	}
	if b.Text() != "abc" {
		t.Errorf("failed replace must not mutate, got %q", b.Text())
	}
}

func TestBufferSetTextKeepsRevisionWhenUnchanged(t *testing.T) {
	b := NewBufferFromString("same")
	rev := b.RevisionID()
	b.SetText("same")
	if b.RevisionID() != rev {
		t.Error("revision should not change for identical text")
	}
	b.SetText("different")
	if b.RevisionID() == rev {
		t.Error("revision should change for new text")
	}
}

func TestBufferTextRangeClamps(t *testing.T) {
	b := NewBufferFromString("hello")
	if got := b.TextRange(3, 99); got != "lo" {
		t.Errorf("TextRange(3, 99) = %q, want %q", got, "lo")
	}
	if got := b.TextRange(4, 1); got != "ell" {
		t.Errorf("TextRange(4, 1) = %q, want %q", got, "ell")
	}
}

func TestBufferOffsetToPoint(t *testing.T) {
	b := NewBufferFromString("ab\ncd\n")
	tests := []struct {
		offset ByteOffset
		want   Point
	}{
		{0, Point{0, 0}},
		{2, Point{0, 2}},
		{3, Point{1, 0}},
		{4, Point{1, 1}},
		{6, Point{2, 0}},
		{42, Point{2, 0}},
	}
	for _, tt := range tests {
		if got := b.OffsetToPoint(tt.offset); got != tt.want {
			t.Errorf("OffsetToPoint(%d) = %v, want %v", tt.offset, got, tt.want)
		}
	}
}

func TestBufferPointToOffset(t *testing.T) {
	b := NewBufferFromString("ab\ncdef\ng")
	tests := []struct {
		p    Point
		want ByteOffset
	}{
		{Point{0, 0}, 0},
		{Point{0, 9}, 2},
		{Point{1, 2}, 5},
		{Point{2, 1}, 9},
		{Point{7, 0}, 9},
	}
	for _, tt := range tests {
		if got := b.PointToOffset(tt.p); got != tt.want {
			t.Errorf("PointToOffset(%v) = %d, want %d", tt.p, got, tt.want)
		}
	}
}

func TestBufferConcurrentReads(t *testing.T) {
	b := NewBufferFromString("concurrent")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = b.Text()
			_ = b.Len()
		}()
	}
	wg.Wait()
}

func TestRangeClamp(t *testing.T) {
	tests := []struct {
		name string
		in   Range
		len  ByteOffset
		want Range
	}{
		{"inside", Range{1, 3}, 5, Range{1, 3}},
		{"negative start", Range{-4, 2}, 5, Range{0, 2}},
		{"past end", Range{3, 9}, 5, Range{3, 5}},
		{"reversed", Range{4, 1}, 5, Range{1, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Clamp(tt.len); got != tt.want {
				t.Errorf("Clamp() = %v, want %v", got, tt.want)
			}
		})
	}
}
