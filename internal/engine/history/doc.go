// Package history provides undo/redo for the editing session.
//
// The Log keeps full-text snapshots in a bounded linear sequence with a
// cursor into it:
//
//	log := history.NewLog(100)
//	log.Commit(initial)      // index 0
//	log.Commit(edited)       // index 1
//	text, ok := log.Undo()   // back to initial, sets suppression
//
// # Linear history
//
// Committing after an undo abandons the redo branch; the log is never a
// tree. A commit equal to the current entry is ignored, and when the log
// exceeds its capacity the oldest entry is evicted.
//
// # Replay suppression
//
// Undo and Redo set a flag that makes the very next Commit a no-op, so the
// act of restoring a snapshot is not recorded as a fresh edit. Callers that
// restore a snapshot must make exactly one commit attempt before the next
// user edit; engine.Session does this inside Undo and Redo.
package history
