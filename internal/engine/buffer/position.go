package buffer

import (
	"fmt"
	"sync/atomic"
)

// ByteOffset indexes into the UTF-8 text. Offsets handed to the engine
// always fall on grapheme cluster boundaries.
type ByteOffset = int64

// Point is a 0-indexed line and byte column, as shown on the status line.
type Point struct {
	Line   uint32
	Column uint32
}

func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Column+1)
}

// RevisionID changes every time the buffer text does.
type RevisionID uint64

var lastRevision atomic.Uint64

// NewRevisionID returns a process-wide unique revision.
func NewRevisionID() RevisionID {
	return RevisionID(lastRevision.Add(1))
}

// clampOffset bounds offset to [0, length].
func clampOffset(offset, length ByteOffset) ByteOffset {
	return max(0, min(offset, length))
}
