package modifier

import (
	"maps"

	"github.com/dshills/pagestorm/internal/blocktype"
	"github.com/dshills/pagestorm/internal/engine"
	"github.com/dshills/pagestorm/internal/engine/content"
	"github.com/dshills/pagestorm/internal/engine/selection"
)

// BlockParams describes a block created by InsertEmptyBlockAfter.
type BlockParams struct {
	Type  content.BlockType
	Depth int
	Data  map[string]any
}

// newBlock builds an empty block for params with a key unused in c.
func newBlock(c *content.State, params BlockParams) content.Block {
	if params.Type == "" {
		params.Type = content.TypeUnstyled
	}
	data := blocktype.Lookup(params.Type).NewBlockData()
	if len(params.Data) > 0 {
		if data == nil {
			data = make(map[string]any, len(params.Data))
		}
		maps.Copy(data, params.Data)
	}
	return content.NewBlock(content.BlockConfig{
		Key:   c.GenerateKey(),
		Type:  params.Type,
		Depth: params.Depth,
		Data:  data,
	})
}

// SplitBlockContent splits block key at offset into text[0:offset], which
// keeps the key, type and data, and text[offset:], which gets a fresh key,
// the type's split successor and its default data. Ranges are partitioned
// and rebased; merging the halves back restores the original ranges. The
// caret moves to the start of the new block.
func SplitBlockContent(c *content.State, key string, offset int) (*content.State, string) {
	b, ok := c.BlockForKey(key)
	if !ok {
		return c, ""
	}
	offset = min(max(offset, 0), b.Len())

	st := blocktype.For(b)
	above, below := b.SplitAt(offset)
	below = below.WithKey(c.GenerateKey()).WithData(st.NewBlockData())
	if st.SplitInto != "" {
		below = below.WithType(st.SplitInto)
	}

	next := c.WithBlock(above).InsertBlocksAfter(key, below)
	return next.WithSelectionAfter(selection.Collapsed(below.Key(), 0)), below.Key()
}

// MergeBlocksContent appends the block following key to it and removes the
// follower. Both blocks must be text blocks. The caret lands at the join.
func MergeBlocksContent(c *content.State, key string) *content.State {
	first, ok := c.BlockForKey(key)
	if !ok {
		return c
	}
	second, ok := c.BlockAfter(key)
	if !ok {
		return c
	}
	if !blocktype.For(first).Mergeable || !blocktype.For(second).Mergeable {
		return c
	}
	joined := first.Append(second)
	return c.WithBlock(joined).
		RemoveBlocks(second.Key()).
		WithSelectionAfter(selection.Collapsed(key, first.Len()))
}

// InsertAtomicBlockContent replaces the selection with an atomic block of
// type t whose single character run is linked to entityKey. The block the
// caret was in is split around the new block and the caret moves to the
// start of the text after it.
func InsertAtomicBlockContent(c *content.State, sel selection.State, t content.BlockType, entityKey, char string) *content.State {
	sel, ok := c.ClampSelection(sel)
	if !ok || sel.IsZero() {
		return c
	}
	if t == "" {
		t = content.TypeAtomic
	}
	if char == "" {
		char = " "
	}
	afterRemoval := RemoveRange(c, sel)
	caret := afterRemoval.SelectionAfter()
	if sel.IsCollapsed() {
		caret = sel
	}

	split, belowKey := SplitBlockContent(afterRemoval, caret.FocusKey, caret.FocusOffset)
	if belowKey == "" {
		return c
	}
	below, _ := split.BlockForKey(belowKey)
	split = split.WithBlock(below.WithType(content.TypeUnstyled))

	atomic := content.NewBlock(content.BlockConfig{
		Key:  split.GenerateKey(),
		Type: t,
		Text: char,
	})
	if entityKey != "" {
		atomic = atomic.WithEntityRanges([]content.EntityRange{{Key: entityKey, Start: 0, End: atomic.Len()}})
	}
	return split.InsertBlocksAfter(caret.FocusKey, atomic).
		WithSelectionAfter(selection.Collapsed(belowKey, 0))
}

// commit pushes next unless the operation left the content untouched.
func commit(s *engine.EditorState, next *content.State, ct engine.ChangeType) *engine.EditorState {
	if next == s.Content() {
		return s
	}
	return engine.Push(s, next, ct)
}

// keepSelection marks next to keep the current selection.
func keepSelection(s *engine.EditorState, next *content.State) *content.State {
	return next.WithSelectionAfter(s.Selection())
}

// InsertEmptyBlockAfter creates an empty block with a fresh key right after
// afterKey, which may be the last block, and forces the caret to offset 0
// of the new block. An empty afterKey inserts at the top. An unknown
// afterKey returns s unchanged.
func InsertEmptyBlockAfter(s *engine.EditorState, afterKey string, params BlockParams) *engine.EditorState {
	c := s.Content()
	if afterKey != "" && !c.HasBlock(afterKey) {
		return s
	}
	b := newBlock(c, params)
	next := c.InsertBlocksAfter(afterKey, b).WithSelectionAfter(selection.Collapsed(b.Key(), 0))
	return commit(s, next, engine.ChangeInsertFragment)
}

// RemoveAtomicBlock deletes block key wholesale. The caret moves to the end
// of the preceding block, or the start of the following one when key was
// first. Removing the only block leaves an empty document; creating a
// replacement is up to the caller. An unknown key returns s unchanged.
func RemoveAtomicBlock(s *engine.EditorState, key string) *engine.EditorState {
	c := s.Content()
	if !c.HasBlock(key) {
		return s
	}
	var sel selection.State
	if prev, ok := c.BlockBefore(key); ok {
		sel = selection.Collapsed(prev.Key(), prev.Len())
	} else if nextBlock, ok := c.BlockAfter(key); ok {
		sel = selection.Collapsed(nextBlock.Key(), 0)
	}
	next := c.RemoveBlocks(key).WithSelectionAfter(sel)
	return commit(s, next, engine.ChangeRemoveRange)
}

// SplitBlock splits block key at offset. See SplitBlockContent.
func SplitBlock(s *engine.EditorState, key string, offset int) *engine.EditorState {
	next, newKey := SplitBlockContent(s.Content(), key, offset)
	if newKey == "" {
		return s
	}
	return commit(s, next, engine.ChangeSplitBlock)
}

// SplitAtSelection removes the selected text and splits at the caret, as
// the Enter key does.
func SplitAtSelection(s *engine.EditorState) *engine.EditorState {
	sel := s.Selection()
	c := s.Content()
	if !sel.IsCollapsed() {
		c = RemoveRange(c, sel)
		sel = c.SelectionAfter()
	}
	next, newKey := SplitBlockContent(c, sel.FocusKey, sel.FocusOffset)
	if newKey == "" {
		return s
	}
	return commit(s, next, engine.ChangeSplitBlock)
}

// MergeBlocks joins block key with the block after it. Non-text blocks and
// a last block are left alone.
func MergeBlocks(s *engine.EditorState, key string) *engine.EditorState {
	return commit(s, MergeBlocksContent(s.Content(), key), engine.ChangeMergeBlocks)
}

// MoveBlock relocates movedKey to sit immediately after targetKey, keeping
// its key. Nested children are not carried along; use MoveBlockRange with
// the block and GetNestedBlocks for a subtree. sel becomes the selection
// after the move.
func MoveBlock(s *engine.EditorState, sel selection.State, movedKey, targetKey string) *engine.EditorState {
	return MoveBlockRange(s, sel, []string{movedKey}, targetKey)
}

// MoveBlockRange relocates several blocks, kept in document order, to sit
// immediately after targetKey.
func MoveBlockRange(s *engine.EditorState, sel selection.State, keys []string, targetKey string) *engine.EditorState {
	c := s.Content()
	moved := c.MoveBlocksAfter(keys, targetKey)
	if moved == c {
		return s
	}
	if _, ok := moved.ClampSelection(sel); !ok {
		sel = s.Selection()
	}
	return commit(s, moved.WithSelectionAfter(sel), engine.ChangeMoveBlock)
}

// InsertAtomicBlock replaces the selection with an atomic block linked to
// entityKey. See InsertAtomicBlockContent.
func InsertAtomicBlock(s *engine.EditorState, t content.BlockType, entityKey, char string) *engine.EditorState {
	if entityKey != "" && !s.Content().HasEntity(entityKey) {
		return s
	}
	next := InsertAtomicBlockContent(s.Content(), s.Selection(), t, entityKey, char)
	return commit(s, next, engine.ChangeInsertFragment)
}

// SetBlockData replaces the data of block key.
func SetBlockData(s *engine.EditorState, key string, data map[string]any) *engine.EditorState {
	b, ok := s.Content().BlockForKey(key)
	if !ok {
		return s
	}
	next := keepSelection(s, s.Content().WithBlock(b.WithData(data)))
	return commit(s, next, engine.ChangeBlockData)
}

// MergeBlockData overlays partial on the data of block key.
func MergeBlockData(s *engine.EditorState, key string, partial map[string]any) *engine.EditorState {
	b, ok := s.Content().BlockForKey(key)
	if !ok {
		return s
	}
	next := keepSelection(s, s.Content().WithBlock(b.MergeData(partial)))
	return commit(s, next, engine.ChangeBlockData)
}

// SetBlockType changes the type of block key, seeding data defaults of the
// new type that the block does not already have.
func SetBlockType(s *engine.EditorState, key string, t content.BlockType) *engine.EditorState {
	b, ok := s.Content().BlockForKey(key)
	if !ok || b.Type() == t {
		return s
	}
	b = b.WithType(t)
	missing := map[string]any{}
	for k, v := range blocktype.Lookup(t).NewBlockData() {
		if _, has := b.DataValue(k); !has {
			missing[k] = v
		}
	}
	if len(missing) > 0 {
		b = b.MergeData(missing)
	}
	next := keepSelection(s, s.Content().WithBlock(b))
	return commit(s, next, engine.ChangeBlockType)
}

// AdjustDepth changes the depth of every block touched by the selection by
// delta, clamped to [0, maxDepth]. Only editable blocks are changed.
func AdjustDepth(s *engine.EditorState, delta, maxDepth int) *engine.EditorState {
	sps, ok := spans(s.Content(), s.Selection())
	if !ok {
		return s
	}
	var changed []content.Block
	for _, sp := range sps {
		if !blocktype.For(sp.block).IsEditable() {
			continue
		}
		d := min(max(sp.block.Depth()+delta, 0), maxDepth)
		if d != sp.block.Depth() {
			changed = append(changed, sp.block.WithDepth(d))
		}
	}
	if len(changed) == 0 {
		return s
	}
	next := keepSelection(s, s.Content().WithBlocks(changed...))
	return commit(s, next, engine.ChangeAdjustDepth)
}

// ToggleChecklist flips the toggle attribute of block key (the checkbox of
// a checklist item, the open state of a toggle). Other types are left alone.
func ToggleChecklist(s *engine.EditorState, key string) *engine.EditorState {
	b, ok := s.Content().BlockForKey(key)
	if !ok {
		return s
	}
	st := blocktype.For(b)
	if st.ToggleKey == "" {
		return s
	}
	next := keepSelection(s, s.Content().WithBlock(st.Toggle(b)))
	return commit(s, next, engine.ChangeBlockData)
}
