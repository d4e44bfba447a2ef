package engine

import (
	"fmt"

	"github.com/dshills/pagestorm/internal/engine/content"
	"github.com/dshills/pagestorm/internal/engine/history"
	"github.com/dshills/pagestorm/internal/engine/selection"
)

// Re-export commonly used types for convenience.
type (
	// Content is the document content at one point in time.
	Content = content.State

	// Block is a single unit of content.
	Block = content.Block

	// Selection is the model selection.
	Selection = selection.State
)

// EditorState composes content, selection and undo/redo history.
// EditorState is immutable: every transition returns a new value and the
// previous one stays valid.
type EditorState struct {
	content        *content.State
	selection      selection.State
	lastChangeType ChangeType
	forceSelection bool

	undo history.Stack
	redo history.Stack
}

// New creates an editor state for c. The initial selection is c's
// SelectionAfter, or a caret at the start of the first block when that does
// not fit the content.
func New(c *content.State, opts ...Option) *EditorState {
	if c == nil {
		c = content.NewEmpty()
	}
	s := &EditorState{
		content: c,
		undo:    history.New(DefaultMaxUndoEntries),
		redo:    history.New(DefaultMaxUndoEntries),
	}
	if sel, ok := c.ClampSelection(c.SelectionAfter()); ok {
		s.selection = sel
	} else if first, ok := c.FirstBlock(); ok {
		s.selection = selection.Collapsed(first.Key(), 0)
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// clone returns a shallow copy.
func (s *EditorState) clone() *EditorState {
	c := *s
	return &c
}

// Content returns the current content.
func (s *EditorState) Content() *content.State {
	return s.content
}

// Selection returns the current selection.
func (s *EditorState) Selection() selection.State {
	return s.selection
}

// LastChangeType returns the change type of the last content transition.
func (s *EditorState) LastChangeType() ChangeType {
	return s.lastChangeType
}

// MustForceSelection returns true if the host surface must be updated to
// match the model selection.
func (s *EditorState) MustForceSelection() bool {
	return s.forceSelection
}

// UndoStack returns the undo stack.
func (s *EditorState) UndoStack() history.Stack {
	return s.undo
}

// RedoStack returns the redo stack.
func (s *EditorState) RedoStack() history.Stack {
	return s.redo
}

// CanUndo returns true if undo is available.
func (s *EditorState) CanUndo() bool {
	return !s.undo.IsEmpty()
}

// CanRedo returns true if redo is available.
func (s *EditorState) CanRedo() bool {
	return !s.redo.IsEmpty()
}

// FocusBlock returns the block holding the selection focus.
func (s *EditorState) FocusBlock() (content.Block, bool) {
	return s.content.BlockForKey(s.selection.FocusKey)
}

// CheckSelection reports why sel cannot be applied to c, or nil.
func CheckSelection(c *content.State, sel selection.State) error {
	if c == nil {
		return ErrNilContent
	}
	if !c.HasBlock(sel.AnchorKey) {
		return fmt.Errorf("anchor %q: %w", sel.AnchorKey, ErrDanglingSelection)
	}
	if !c.HasBlock(sel.FocusKey) {
		return fmt.Errorf("focus %q: %w", sel.FocusKey, ErrDanglingSelection)
	}
	return nil
}

// Push commits next as the new content. The selection becomes next's
// SelectionAfter, the previous selection is recorded as next's
// SelectionBefore, and the previous content is pushed on the undo stack
// unless changeType is selection-only. The redo stack is cleared.
//
// Push returns prev unchanged when next is nil, identical to the current
// content, or carries a SelectionAfter referencing a missing block.
func Push(prev *EditorState, next *content.State, changeType ChangeType) *EditorState {
	if prev == nil || next == nil || next == prev.content {
		return prev
	}
	sel, ok := next.ClampSelection(next.SelectionAfter())
	if !ok {
		return prev
	}
	sel.HasFocus = prev.selection.HasFocus

	s := prev.clone()
	s.content = next.WithSelectionBefore(prev.selection).WithSelectionAfter(sel)
	s.selection = sel
	s.forceSelection = true
	s.lastChangeType = changeType

	if !changeType.IsSelectionOnly() {
		s.undo = prev.undo.Push(history.NewEntry(prev.content, string(changeType)))
		s.redo = prev.redo.Clear()
	}
	return s
}

// ForceSelection returns a state with sel applied and flagged for the host
// surface to update its native selection. History is untouched. A selection
// referencing a missing block returns prev unchanged.
func ForceSelection(prev *EditorState, sel selection.State) *EditorState {
	return updateSelection(prev, sel, true)
}

// AcceptSelection applies a selection that already matches the host
// surface, for example one resolved from a native selection change.
func AcceptSelection(prev *EditorState, sel selection.State) *EditorState {
	return updateSelection(prev, sel, false)
}

func updateSelection(prev *EditorState, sel selection.State, force bool) *EditorState {
	if prev == nil {
		return nil
	}
	clamped, ok := prev.content.ClampSelection(sel)
	if !ok {
		return prev
	}
	s := prev.clone()
	s.selection = clamped
	s.forceSelection = force
	return s
}

// Undo restores the content on top of the undo stack. The selection goes
// back to where it was before the undone change. Undo on an empty stack
// returns s unchanged.
func Undo(s *EditorState) *EditorState {
	if s == nil {
		return nil
	}
	entry, rest, ok := s.undo.Pop()
	if !ok {
		return s
	}

	n := s.clone()
	n.content = entry.Content
	n.undo = rest
	n.redo = s.redo.Push(history.NewEntry(s.content, entry.ChangeType))
	n.lastChangeType = ChangeUndo
	n.forceSelection = true
	n.selection = restoreSelection(entry.Content, s.content.SelectionBefore(), s.selection.HasFocus)
	return n
}

// Redo re-applies the content on top of the redo stack. Redo on an empty
// stack returns s unchanged.
func Redo(s *EditorState) *EditorState {
	if s == nil {
		return nil
	}
	entry, rest, ok := s.redo.Pop()
	if !ok {
		return s
	}

	n := s.clone()
	n.content = entry.Content
	n.redo = rest
	n.undo = s.undo.Push(history.NewEntry(s.content, entry.ChangeType))
	n.lastChangeType = ChangeRedo
	n.forceSelection = true
	n.selection = restoreSelection(entry.Content, entry.Content.SelectionAfter(), s.selection.HasFocus)
	return n
}

// CheckUndo returns ErrNothingToUndo when s has no undo entries.
func CheckUndo(s *EditorState) error {
	if s == nil || s.undo.IsEmpty() {
		return ErrNothingToUndo
	}
	return nil
}

// CheckRedo returns ErrNothingToRedo when s has no redo entries.
func CheckRedo(s *EditorState) error {
	if s == nil || s.redo.IsEmpty() {
		return ErrNothingToRedo
	}
	return nil
}

// NextUndo describes the change Undo would revert.
func NextUndo(s *EditorState) (history.OperationInfo, bool) {
	if s == nil {
		return history.OperationInfo{}, false
	}
	e, ok := s.undo.Peek()
	return e.Info(), ok
}

// NextRedo describes the change Redo would reapply.
func NextRedo(s *EditorState) (history.OperationInfo, bool) {
	if s == nil {
		return history.OperationInfo{}, false
	}
	e, ok := s.redo.Peek()
	return e.Info(), ok
}

// restoreSelection fits want to c, falling back to c's SelectionAfter and
// then to the start of the document.
func restoreSelection(c *content.State, want selection.State, hasFocus bool) selection.State {
	sel, ok := c.ClampSelection(want)
	if !ok {
		sel, ok = c.ClampSelection(c.SelectionAfter())
	}
	if !ok {
		if first, found := c.FirstBlock(); found {
			sel = selection.Collapsed(first.Key(), 0)
		}
	}
	sel.HasFocus = hasFocus
	return sel
}

// SetMaxUndoEntries returns a state whose history stacks use a new bound.
func SetMaxUndoEntries(s *EditorState, max int) *EditorState {
	n := s.clone()
	n.undo = s.undo.WithMaxEntries(max)
	n.redo = s.redo.WithMaxEntries(max)
	return n
}
