package engine

import (
	"github.com/dshills/markpad/internal/engine/buffer"
)

// changedRegion returns the span of after that differs from before, found by
// trimming the common prefix and suffix. The end offset is where the caret
// goes after an undo or redo. Both offsets sit on grapheme boundaries.
func changedRegion(before, after string) (start, end ByteOffset) {
	limit := len(before)
	if len(after) < limit {
		limit = len(after)
	}

	prefix := 0
	for prefix < limit && before[prefix] == after[prefix] {
		prefix++
	}

	suffix := 0
	for suffix < limit-prefix && before[len(before)-1-suffix] == after[len(after)-1-suffix] {
		suffix++
	}

	start = buffer.SnapOffset(after, ByteOffset(prefix))
	end = ByteOffset(len(after) - suffix)
	if end < start {
		end = start
	}
	// Round end up so a partially restored cluster stays whole.
	if snapped := buffer.SnapOffset(after, end); snapped != end {
		end = buffer.NextBoundary(after, snapped)
	}
	return start, end
}
