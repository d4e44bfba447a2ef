package engine

import (
	"github.com/dshills/pagestorm/internal/engine/history"
	"github.com/dshills/pagestorm/internal/engine/selection"
)

// DefaultMaxUndoEntries bounds the undo and redo stacks.
const DefaultMaxUndoEntries = history.DefaultMaxEntries

// Option configures an EditorState during creation.
type Option func(*EditorState)

// WithMaxUndoEntries sets the maximum depth of the undo and redo stacks.
func WithMaxUndoEntries(max int) Option {
	return func(s *EditorState) {
		if max > 0 {
			s.undo = s.undo.WithMaxEntries(max)
			s.redo = s.redo.WithMaxEntries(max)
		}
	}
}

// WithSelection sets the initial selection. A selection that does not fit
// the content is ignored.
func WithSelection(sel selection.State) Option {
	return func(s *EditorState) {
		if clamped, ok := s.content.ClampSelection(sel); ok {
			s.selection = clamped
		}
	}
}

// WithFocus marks the initial selection as focused.
func WithFocus() Option {
	return func(s *EditorState) {
		s.selection.HasFocus = true
	}
}
