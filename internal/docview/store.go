package docview

import (
	"github.com/dshills/pagestorm/internal/engine"
	"github.com/dshills/pagestorm/internal/engine/content"
)

// Store item names.
const (
	ItemGetEditorState = "getEditorState"
	ItemSetEditorState = "setEditorState"
)

// Store is the renderer-facing handle of a view.
type Store struct {
	view *View
}

// Store returns the renderer store of v.
func (v *View) Store() Store { return Store{view: v} }

// GetItem returns the named item, or nil. "getEditorState" is a
// func() *engine.EditorState and "setEditorState" is a func(Update) error.
func (s Store) GetItem(name string) any {
	switch name {
	case ItemGetEditorState:
		return s.GetEditorState
	case ItemSetEditorState:
		return s.SetEditorState
	default:
		return nil
	}
}

// GetEditorState returns the latest state.
func (s Store) GetEditorState() *engine.EditorState { return s.view.State() }

// SetEditorState applies u to the view.
func (s Store) SetEditorState(u Update) error { return s.view.Apply(u) }

// RenderProps is what a block renderer receives. Block and Content are
// snapshots; mutations go through Store.
type RenderProps struct {
	Block   content.Block
	Content *content.State
	Store   Store
}

// RenderProps returns the props for every block of the latest content in
// document order.
func (v *View) RenderProps() []RenderProps {
	c := v.Content()
	store := v.Store()
	blocks := c.BlocksAsArray()
	out := make([]RenderProps, len(blocks))
	for i, b := range blocks {
		out[i] = RenderProps{Block: b, Content: c, Store: store}
	}
	return out
}
