package mention

import (
	"errors"
	"fmt"
	"maps"

	"github.com/dshills/pagestorm/internal/engine"
	"github.com/dshills/pagestorm/internal/engine/content"
	"github.com/dshills/pagestorm/internal/engine/modifier"
	"github.com/dshills/pagestorm/internal/engine/selection"
)

// DefaultTrailer follows every mention so the caret can leave the
// mention without typing into it: a zero-width space and a space.
const DefaultTrailer = "\u200B "

// Entity data keys written for mentions.
const (
	DataID   = "id"
	DataName = "name"
)

// Errors returned by insertion.
var (
	ErrStaleTrigger = errors.New("mention: trigger no longer fits the document")
	ErrEmptyLabel   = errors.New("mention: candidate has no label")
	ErrNotEmbed     = errors.New("mention: not an embed type")
)

// Options tunes an insertion.
type Options struct {
	// Trailer is plain text appended after the mention. Empty means
	// DefaultTrailer.
	Trailer string

	// Mutability of the created entity. Empty means IMMUTABLE.
	Mutability content.Mutability
}

func (o Options) withDefaults() Options {
	if o.Trailer == "" {
		o.Trailer = DefaultTrailer
	}
	if !o.Mutability.Valid() {
		o.Mutability = content.Immutable
	}
	return o
}

// Insert replaces the trigger text with cand's label linked to a new
// entity, followed by the trailer outside the entity, and places the caret
// after the trailer. The whole insertion is one undoable change.
func Insert(state *engine.EditorState, trig Trigger, cand Candidate, opts Options) (*engine.EditorState, error) {
	if cand.Label == "" {
		return state, ErrEmptyLabel
	}
	opts = opts.withDefaults()

	c := state.Content()
	c, caret, ok := removeTrigger(c, trig)
	if !ok {
		return state, fmt.Errorf("%w: %s", ErrStaleTrigger, trig.Selection)
	}

	c, key := c.CreateEntity(cand.entityType(), opts.Mutability, cand.entityData())
	c = modifier.InsertTextAt(c, caret.FocusKey, caret.FocusOffset, cand.Label, nil, key)
	after := c.SelectionAfter()
	c = modifier.InsertTextAt(c, after.FocusKey, after.FocusOffset, opts.Trailer, nil, "")

	return engine.Push(state, c, engine.ChangeApplyEntity), nil
}

// InsertEmbed replaces the trigger text with an atomic block of embed type
// t backed by a new IMMUTABLE entity holding data.
func InsertEmbed(state *engine.EditorState, trig Trigger, t content.BlockType, data map[string]any) (*engine.EditorState, error) {
	if !t.IsEmbed() {
		return state, fmt.Errorf("%w: %s", ErrNotEmbed, t)
	}
	c := state.Content()
	c, caret, ok := removeTrigger(c, trig)
	if !ok {
		return state, fmt.Errorf("%w: %s", ErrStaleTrigger, trig.Selection)
	}

	c, key := c.CreateEntity(content.EntityType(t), content.Immutable, maps.Clone(data))
	c = modifier.InsertAtomicBlockContent(c, caret, t, key, " ")
	return engine.Push(state, c, engine.ChangeInsertFragment), nil
}

// removeTrigger deletes the trigger text from c and returns the caret.
func removeTrigger(c *content.State, trig Trigger) (*content.State, selection.State, bool) {
	sel, ok := c.ClampSelection(trig.Selection)
	if !ok || sel.IsZero() || !sel.SingleBlock() {
		return c, selection.State{}, false
	}
	if sel.IsCollapsed() {
		return c, sel, true
	}
	c = modifier.RemoveRange(c, sel)
	return c, c.SelectionAfter(), true
}
