package engine

import "errors"

// Errors returned by session operations.
var (
	// ErrNothingToUndo indicates the history is at its oldest entry.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo indicates the history is at its newest entry.
	ErrNothingToRedo = errors.New("nothing to redo")

	// ErrNoClipboard indicates Paste or Copy was called without a collaborator.
	ErrNoClipboard = errors.New("no clipboard")
)
