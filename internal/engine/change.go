package engine

// ChangeType names the intent behind a transition.
type ChangeType string

// Change types.
const (
	ChangeInsertCharacters   ChangeType = "insert-characters"
	ChangeBackspaceCharacter ChangeType = "backspace-character"
	ChangeDeleteCharacter    ChangeType = "delete-character"
	ChangeRemoveRange        ChangeType = "remove-range"
	ChangeInsertFragment     ChangeType = "insert-fragment"
	ChangeSplitBlock         ChangeType = "split-block"
	ChangeMergeBlocks        ChangeType = "merge-blocks"
	ChangeBlockData          ChangeType = "change-block-data"
	ChangeBlockType          ChangeType = "change-block-type"
	ChangeInlineStyle        ChangeType = "change-inline-style"
	ChangeApplyEntity        ChangeType = "apply-entity"
	ChangeMoveBlock          ChangeType = "move-block"
	ChangeAdjustDepth        ChangeType = "adjust-depth"
	ChangeSelection          ChangeType = "change-selection"
	ChangeUndo               ChangeType = "undo"
	ChangeRedo               ChangeType = "redo"
)

// IsSelectionOnly returns true for change types that never enter history.
func (c ChangeType) IsSelectionOnly() bool {
	return c == ChangeSelection
}

// String returns the tag.
func (c ChangeType) String() string {
	return string(c)
}
