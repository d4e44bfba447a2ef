package engine

import "errors"

// Errors reported by state checks. Transitions themselves never fail; they
// return the previous state unchanged instead.
var (
	// ErrNothingToUndo indicates the undo stack is empty.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo indicates the redo stack is empty.
	ErrNothingToRedo = errors.New("nothing to redo")

	// ErrDanglingSelection indicates a selection references a block key that
	// is not in the content.
	ErrDanglingSelection = errors.New("selection references a missing block")

	// ErrNilContent indicates a transition was given no content.
	ErrNilContent = errors.New("content is nil")
)
