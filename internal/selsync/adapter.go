package selsync

import (
	"errors"

	"github.com/dshills/pagestorm/internal/engine/content"
	"github.com/dshills/pagestorm/internal/engine/selection"
)

// ErrNoSurface is returned when an adapter has no surface to write to.
var ErrNoSurface = errors.New("selsync: no surface")

// SelectionAdapter converts between the host's native selection and the
// model selection.
type SelectionAdapter interface {
	// ResolveNativeToModel reads the native selection and maps it onto c.
	// ok is false when there is no native selection or it cannot be mapped.
	ResolveNativeToModel(c *content.State) (sel selection.State, ok bool)

	// ApplyModelToNative moves the native selection to sel.
	ApplyModelToNative(sel selection.State) error
}

// Marker ties a host node to a model position: the block it renders and
// the block offset at which the node's text starts.
type Marker struct {
	BlockKey string
	Offset   int
}

// Node is an element of the host's render tree.
type Node interface {
	// Parent returns the enclosing node, or nil at the root.
	Parent() Node

	// Marker returns the block-offset marker carried by the node, if any.
	Marker() (Marker, bool)
}

// Point is a position in the host tree: a node and an offset into its
// text in runes.
type Point struct {
	Node   Node
	Offset int
}

// NativeRange is the host's selection. A zero Focus node means there is no
// selection.
type NativeRange struct {
	Anchor Point
	Focus  Point
}

// IsEmpty returns true when the range has no focus node.
func (r NativeRange) IsEmpty() bool {
	return r.Focus.Node == nil
}

// Surface is a host surface whose selection lives in a tree of nodes.
type Surface interface {
	NativeSelection() NativeRange
	SetNativeSelection(sel selection.State) error
}

// TreeAdapter implements SelectionAdapter over a Surface.
type TreeAdapter struct {
	surface Surface
}

// NewTreeAdapter creates an adapter for surface.
func NewTreeAdapter(surface Surface) *TreeAdapter {
	return &TreeAdapter{surface: surface}
}

// ResolveNativeToModel walks up from each end of the native selection to
// the nearest node carrying a marker and converts it to a block offset.
// A missing anchor resolves to the focus.
func (a *TreeAdapter) ResolveNativeToModel(c *content.State) (selection.State, bool) {
	if a.surface == nil || c == nil {
		return selection.State{}, false
	}
	r := a.surface.NativeSelection()
	if r.IsEmpty() {
		return selection.State{}, false
	}
	focus, ok := resolvePoint(r.Focus)
	if !ok {
		return selection.State{}, false
	}
	anchor := focus
	if r.Anchor.Node != nil {
		if p, ok := resolvePoint(r.Anchor); ok {
			anchor = p
		}
	}
	return c.ClampSelection(selection.Range(anchor.BlockKey, anchor.Offset, focus.BlockKey, focus.Offset))
}

// ApplyModelToNative moves the surface selection to sel.
func (a *TreeAdapter) ApplyModelToNative(sel selection.State) error {
	if a.surface == nil {
		return ErrNoSurface
	}
	return a.surface.SetNativeSelection(sel)
}

// resolvePoint finds the nearest marker at or above p.Node.
func resolvePoint(p Point) (Marker, bool) {
	for n := p.Node; n != nil; n = n.Parent() {
		if m, ok := n.Marker(); ok {
			return Marker{BlockKey: m.BlockKey, Offset: m.Offset + max(p.Offset, 0)}, true
		}
	}
	return Marker{}, false
}
