package buffer

import (
	"strings"
	"testing"
)

func TestReplaceRange(t *testing.T) {
	out, span := ReplaceRange("hello world", 6, 11, "gophers")
	if out != "hello gophers" {
		t.Errorf("ReplaceRange text = %q", out)
	}
	if span != (Range{Start: 6, End: 13}) {
		t.Errorf("ReplaceRange span = %v", span)
	}

	out, span = ReplaceRange("abc", 1, 1, "")
	if out != "abc" || !span.IsEmpty() {
		t.Errorf("empty replace changed text: %q %v", out, span)
	}
}

func TestWrapSelection(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		sel           Range
		before, after string
		placeholder   string
		wantText      string
		wantSel       Range
	}{
		{
			name:        "selection spans replacement",
			text:        "hello world",
			sel:         Range{6, 11},
			before:      "**",
			after:       "**",
			placeholder: "bold text",
			wantText:    "hello **world**",
			wantSel:     Range{6, 15},
		},
		{
			name:        "placeholder is selected",
			text:        "hello",
			sel:         Range{5, 5},
			before:      "**",
			after:       "**",
			placeholder: "bold text",
			wantText:    "hello**bold text**",
			wantSel:     Range{7, 16},
		},
		{
			name:        "comment wraps selection",
			text:        "keep note here",
			sel:         Range{5, 9},
			before:      "<!-- ",
			after:       " -->",
			wantText:    "keep <!-- note --> here",
			wantSel:     Range{5, 18},
		},
		{
			name:     "empty placeholder leaves caret after before",
			text:     "ab",
			sel:      Range{1, 1},
			before:   "\n---\n",
			wantText: "a\n---\nb",
			wantSel:  Range{6, 6},
		},
		{
			name:        "out of range selection is clamped",
			text:        "abc",
			sel:         Range{2, 40},
			before:      "`",
			after:       "`",
			placeholder: "code",
			wantText:    "ab`c`",
			wantSel:     Range{2, 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Wrap(tt.text, tt.sel, tt.before, tt.after, tt.placeholder)
			if res.Text != tt.wantText {
				t.Errorf("text = %q, want %q", res.Text, tt.wantText)
			}
			if res.Selection != tt.wantSel {
				t.Errorf("selection = %v, want %v", res.Selection, tt.wantSel)
			}
		})
	}
}

func TestWrapSelectionCoversDelimitedSpan(t *testing.T) {
	text := "alpha beta gamma"
	sel := Range{6, 10}
	res := Wrap(text, sel, "~~", "~~", "")

	want := "~~beta~~"
	if got := res.Text[res.Selection.Start:res.Selection.End]; got != want {
		t.Errorf("selected span = %q, want %q", got, want)
	}
	if !strings.HasPrefix(res.Text[sel.Start:], want) {
		t.Errorf("wrap not at original offset: %q", res.Text)
	}
}

func TestLineStart(t *testing.T) {
	text := "first\nsecond\n\nfourth"
	tests := []struct {
		offset ByteOffset
		want   ByteOffset
	}{
		{0, 0},
		{3, 0},
		{5, 0},
		{6, 6},
		{9, 6},
		{13, 13},
		{14, 14},
		{18, 14},
		{100, 14},
	}
	for _, tt := range tests {
		if got := LineStart(text, tt.offset); got != tt.want {
			t.Errorf("LineStart(%d) = %d, want %d", tt.offset, got, tt.want)
		}
	}
}

func TestPrefixLine(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		caret    ByteOffset
		prefix   string
		wantText string
		wantSel  Range
	}{
		{"second line", "one\ntwo", 5, "> ", "one\n> two", Range{6, 6}},
		{"first line", "abc", 2, "- ", "- abc", Range{2, 2}},
		{"empty buffer", "", 0, "## ", "## ", Range{3, 3}},
		{"caret at line end", "x\nyz", 4, "1. ", "x\n1. yz", Range{5, 5}},
		{"task", "todo", 0, "- [ ] ", "- [ ] todo", Range{6, 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := PrefixLine(tt.text, tt.caret, tt.prefix)
			if res.Text != tt.wantText {
				t.Errorf("text = %q, want %q", res.Text, tt.wantText)
			}
			if res.Selection != tt.wantSel {
				t.Errorf("selection = %v, want %v", res.Selection, tt.wantSel)
			}
		})
	}
}

func TestPrefixLineDoublesExistingPrefix(t *testing.T) {
	res := PrefixLine("> quoted", 4, "> ")
	if res.Text != "> > quoted" {
		t.Errorf("expected doubled prefix, got %q", res.Text)
	}
	if res.Selection != (Range{2, 2}) {
		t.Errorf("selection = %v", res.Selection)
	}
}

func TestStructuredUsesCapturedRange(t *testing.T) {
	text := "0123456789abcdefghij"
	res := Structured(text, Range{10, 15}, "[X]")

	if res.Text != "0123456789[X]fghij" {
		t.Errorf("text = %q", res.Text)
	}
	if res.Selection != (Range{13, 13}) {
		t.Errorf("selection = %v", res.Selection)
	}
	if res.Edit.Range != (Range{10, 15}) {
		t.Errorf("edit range = %v", res.Edit.Range)
	}
}

func TestSplice(t *testing.T) {
	res := Splice("hello world", Range{0, 5}, "goodbye")
	if res.Text != "goodbye world" {
		t.Errorf("text = %q", res.Text)
	}
	if res.Selection != (Range{7, 7}) {
		t.Errorf("selection = %v", res.Selection)
	}
}

func TestEditDelta(t *testing.T) {
	if d := NewEdit(Range{0, 3}, "abcde").Delta(); d != 2 {
		t.Errorf("Delta = %d, want 2", d)
	}
	if d := NewEdit(Range{0, 3}, "").Delta(); d != -3 {
		t.Errorf("Delta = %d, want -3", d)
	}
}

func TestSnapOffset(t *testing.T) {
	// "e" + combining acute accent forms one cluster at bytes [1, 4).
	text := "ae\u0301b"
	tests := []struct {
		in, want ByteOffset
	}{
		{-3, 0},
		{0, 0},
		{1, 1},
		{2, 1},
		{3, 1},
		{4, 4},
		{5, 5},
		{99, 5},
	}
	for _, tt := range tests {
		if got := SnapOffset(text, tt.in); got != tt.want {
			t.Errorf("SnapOffset(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestGraphemeBoundaries(t *testing.T) {
	text := "ae\u0301b"
	if got := PrevBoundary(text, 4); got != 1 {
		t.Errorf("PrevBoundary(4) = %d, want 1", got)
	}
	if got := PrevBoundary(text, 0); got != 0 {
		t.Errorf("PrevBoundary(0) = %d, want 0", got)
	}
	if got := NextBoundary(text, 1); got != 4 {
		t.Errorf("NextBoundary(1) = %d, want 4", got)
	}
	if got := NextBoundary(text, 5); got != 5 {
		t.Errorf("NextBoundary(5) = %d, want 5", got)
	}
	if got := GraphemeCount(text); got != 3 {
		t.Errorf("GraphemeCount = %d, want 3", got)
	}
}
