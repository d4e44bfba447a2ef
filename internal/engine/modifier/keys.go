package modifier

import (
	"github.com/rivo/uniseg"

	"github.com/dshills/pagestorm/internal/blocktype"
	"github.com/dshills/pagestorm/internal/engine"
	"github.com/dshills/pagestorm/internal/engine/selection"
)

// InsertText types text at the selection, replacing any selected text.
// The new run inherits the styles of the preceding character and joins a
// MUTABLE entity only when the caret is strictly inside it.
func InsertText(s *engine.EditorState, text string) *engine.EditorState {
	if text == "" {
		return s
	}
	c := s.Content()
	sel, ok := c.ClampSelection(s.Selection())
	if !ok {
		return s
	}
	if !sel.IsCollapsed() {
		c = RemoveRange(c, sel)
		sel = c.SelectionAfter()
	}
	b, ok := c.BlockForKey(sel.FocusKey)
	if !ok || !blocktype.For(b).IsEditable() {
		return s
	}
	off := sel.FocusOffset
	next := InsertTextAt(c, b.Key(), off, text, stylesForInsertion(b, off), entityForInsertion(c, b, off))
	return commit(s, next, engine.ChangeInsertCharacters)
}

// Backspace deletes the selection, or the grapheme cluster before the
// caret. A caret on a non-text block removes that block. At the start of a block the block is merged into the previous one,
// or the previous block is removed when it is not a text block.
func Backspace(s *engine.EditorState) *engine.EditorState {
	c := s.Content()
	sel, ok := c.ClampSelection(s.Selection())
	if !ok {
		return s
	}
	if !sel.IsCollapsed() {
		return commit(s, RemoveRange(c, sel), engine.ChangeRemoveRange)
	}

	b, _ := c.BlockForKey(sel.FocusKey)
	if !blocktype.For(b).IsEditable() {
		return RemoveAtomicBlock(s, b.Key())
	}
	if sel.FocusOffset == 0 {
		prev, ok := c.BlockBefore(b.Key())
		if !ok {
			return s
		}
		if !blocktype.For(prev).Mergeable {
			return keepCaret(RemoveAtomicBlock(s, prev.Key()), sel)
		}
		return commit(s, MergeBlocksContent(c, prev.Key()), engine.ChangeBackspaceCharacter)
	}

	start := prevBoundary(b.Text(), sel.FocusOffset)
	next := RemoveRange(c, selection.Range(b.Key(), start, b.Key(), sel.FocusOffset))
	return commit(s, next, engine.ChangeBackspaceCharacter)
}

// Delete deletes the selection, or the grapheme cluster after the caret.
// At the end of a block the next block is merged in, or removed when it is
// not a text block.
func Delete(s *engine.EditorState) *engine.EditorState {
	c := s.Content()
	sel, ok := c.ClampSelection(s.Selection())
	if !ok {
		return s
	}
	if !sel.IsCollapsed() {
		return commit(s, RemoveRange(c, sel), engine.ChangeRemoveRange)
	}

	b, _ := c.BlockForKey(sel.FocusKey)
	if !blocktype.For(b).IsEditable() {
		return RemoveAtomicBlock(s, b.Key())
	}
	if sel.FocusOffset == b.Len() {
		nextBlock, ok := c.BlockAfter(b.Key())
		if !ok {
			return s
		}
		if !blocktype.For(nextBlock).Mergeable {
			return keepCaret(RemoveAtomicBlock(s, nextBlock.Key()), sel)
		}
		return commit(s, MergeBlocksContent(c, b.Key()), engine.ChangeDeleteCharacter)
	}

	end := nextBoundary(b.Text(), sel.FocusOffset)
	next := RemoveRange(c, selection.Range(b.Key(), sel.FocusOffset, b.Key(), end))
	return commit(s, next, engine.ChangeDeleteCharacter)
}

// keepCaret puts the caret back where it was after removing a neighbouring
// atomic block, without recording another history entry.
func keepCaret(s *engine.EditorState, sel selection.State) *engine.EditorState {
	if !s.Content().HasBlock(sel.FocusKey) {
		return s
	}
	return engine.ForceSelection(s, sel)
}

// ToggleInlineStyle adds style to the selected text, or removes it when the
// whole selection already has it. A collapsed selection is left alone.
func ToggleInlineStyle(s *engine.EditorState, style string) *engine.EditorState {
	sel := s.Selection()
	if sel.IsCollapsed() {
		return s
	}
	on := !HasStyle(s.Content(), sel, style)
	return commit(s, ApplyStyle(s.Content(), sel, style, on), engine.ChangeInlineStyle)
}

// ApplyEntity links the selection to entityKey, or unlinks it when
// entityKey is empty. Unknown entity keys are rejected.
func ApplyEntity(s *engine.EditorState, entityKey string) *engine.EditorState {
	if entityKey != "" && !s.Content().HasEntity(entityKey) {
		return s
	}
	return commit(s, ApplyEntityToRange(s.Content(), s.Selection(), entityKey), engine.ChangeApplyEntity)
}

// prevBoundary returns the rune offset of the grapheme cluster boundary
// before offset in text.
func prevBoundary(text string, offset int) int {
	pos := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		n := len(g.Runes())
		if pos+n >= offset {
			return pos
		}
		pos += n
	}
	return pos
}

// nextBoundary returns the rune offset of the grapheme cluster boundary
// after offset in text.
func nextBoundary(text string, offset int) int {
	pos := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		pos += len(g.Runes())
		if pos > offset {
			return pos
		}
	}
	return pos
}
