package buffer

import (
	"github.com/rivo/uniseg"
)

// SnapOffset moves offset down to the nearest grapheme cluster boundary
// in text, after clamping it to [0, len(text)].
func SnapOffset(text string, offset ByteOffset) ByteOffset {
	offset = clampOffset(offset, ByteOffset(len(text)))
	if offset == 0 || offset == ByteOffset(len(text)) {
		return offset
	}

	var pos ByteOffset
	state := -1
	rest := text
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		next := pos + ByteOffset(len(cluster))
		if next > offset {
			return pos
		}
		pos = next
	}
	return pos
}

// PrevBoundary returns the start of the grapheme cluster that ends at or
// spans offset. It returns 0 at the start of text.
func PrevBoundary(text string, offset ByteOffset) ByteOffset {
	offset = SnapOffset(text, offset)
	if offset == 0 {
		return 0
	}

	var pos, prev ByteOffset
	state := -1
	rest := text
	for len(rest) > 0 && pos < offset {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		prev = pos
		pos += ByteOffset(len(cluster))
	}
	return prev
}

// NextBoundary returns the end of the grapheme cluster starting at offset.
// It returns len(text) at the end of text.
func NextBoundary(text string, offset ByteOffset) ByteOffset {
	offset = SnapOffset(text, offset)
	if offset >= ByteOffset(len(text)) {
		return ByteOffset(len(text))
	}
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(text[offset:], -1)
	return offset + ByteOffset(len(cluster))
}

// GraphemeCount returns the number of user-perceived characters in text.
func GraphemeCount(text string) int {
	return uniseg.GraphemeClusterCount(text)
}
