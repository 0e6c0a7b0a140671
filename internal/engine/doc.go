// Package engine provides the editing session for markpad.
//
// A Session owns the text buffer, the selection, the undo log and the
// rendered preview. Every entry point (typing, formatting commands,
// structured inserts, paste, undo and redo) runs the same sequence under
// the session lock:
//
//  1. compute the new text and selection with a buffer primitive
//  2. commit a snapshot to the history log
//  3. re-render the preview
//
// # Sub-packages
//
//   - buffer: flat string buffer and the pure mutation primitives
//   - cursor: the selection model
//   - history: the bounded snapshot log
//
// # Basic Usage
//
//	s := engine.New(engine.WithContent("hello world"))
//	s.SetSelection(0, 5)
//	s.Wrap("**", "**", "bold text") // "**hello** world"
//	s.Undo()                        // "hello world"
//
// # Undo and Redo
//
// The history log suppresses the commit that follows a restore. Session.Undo
// and Session.Redo make that commit attempt themselves before returning, so
// the flag is always consumed and never swallows the next user edit.
//
// # Thread Safety
//
// All Session methods are safe for concurrent use. Preview callbacks are
// invoked after the lock is released and may call back into the session.
package engine
