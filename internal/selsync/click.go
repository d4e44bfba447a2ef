package selsync

import (
	"github.com/dshills/pagestorm/internal/blocktype"
	"github.com/dshills/pagestorm/internal/engine"
	"github.com/dshills/pagestorm/internal/engine/content"
	"github.com/dshills/pagestorm/internal/engine/modifier"
)

// NeedsTrailingBlock reports whether a click on the empty area below the
// last block of c should create a new block. It does when the last block
// is a board or embed type, has text, has been hidden (data isShow is
// false), or when force is set. An empty document always needs one.
func NeedsTrailingBlock(c *content.State, force bool) bool {
	if force {
		return true
	}
	last, ok := c.LastBlock()
	if !ok {
		return true
	}
	if blocktype.For(last).ForcesTrailingBlock {
		return true
	}
	if last.Len() > 0 {
		return true
	}
	if v, ok := last.DataValue(blocktype.DataIsShow); ok {
		if shown, isBool := v.(bool); isBool && !shown {
			return true
		}
	}
	return false
}

// HandleClickInEditor appends an empty unstyled block and moves the caret
// into it when NeedsTrailingBlock says so. Otherwise the click is a no-op:
// the last block is already an empty placeholder.
func HandleClickInEditor(state *engine.EditorState, force bool) *engine.EditorState {
	if state == nil {
		return nil
	}
	c := state.Content()
	if NeedsTrailingBlock(c, force) {
		afterKey := ""
		if last, ok := c.LastBlock(); ok {
			afterKey = last.Key()
		}
		return modifier.InsertEmptyBlockAfter(state, afterKey, modifier.BlockParams{})
	}
	return state
}
