// Package blocktype maps each block type to its editing behaviour.
//
// Block types form a closed set (see content.BlockType). Behaviour that
// differs per type, such as list markers, checkbox toggling or whether the
// selection synchronizer may resolve a caret inside the block, is looked
// up in a strategy table instead of being switched on at every call site.
package blocktype

import (
	"maps"
	"strconv"

	"github.com/dshills/pagestorm/internal/engine/content"
)

// Family groups block types with shared behaviour.
type Family uint8

const (
	// FamilyText is a plain editable text block.
	FamilyText Family = iota

	// FamilyList is a list item (bulleted, numbered, checklist, toggle).
	FamilyList

	// FamilyAtomic is a single non-text unit.
	FamilyAtomic

	// FamilyBoard is a data view (kanban, list view).
	FamilyBoard

	// FamilyEmbed is an embedded resource.
	FamilyEmbed
)

// String returns a human-readable family name.
func (f Family) String() string {
	switch f {
	case FamilyText:
		return "text"
	case FamilyList:
		return "list"
	case FamilyAtomic:
		return "atomic"
	case FamilyBoard:
		return "board"
	case FamilyEmbed:
		return "embed"
	default:
		return "unknown"
	}
}

// Data keys with per-type meaning.
const (
	DataChecked = "checked"
	DataIsShow  = "isShow"
	DataEmoji   = "emoji"
	DataCover   = "cover"
	DataOpen    = "open"
)

// DefaultBannerEmoji is shown by banners without an emoji.
const DefaultBannerEmoji = "💡"

// Strategy is the behaviour of one block type.
type Strategy struct {
	Type   content.BlockType
	Family Family

	// Synchronizable blocks are plain text surfaces whose caret the
	// selection synchronizer may resolve from the host surface.
	Synchronizable bool

	// Mergeable blocks can absorb the text of the following block.
	Mergeable bool

	// ForcesTrailingBlock makes a click below the last block append an
	// empty block when this type is last.
	ForcesTrailingBlock bool

	// SplitInto is the type given to the second half of a split. Empty
	// means the same type.
	SplitInto content.BlockType

	// ToggleKey names the boolean data attribute flipped by Toggle.
	ToggleKey string

	// DefaultData seeds new blocks of this type.
	DefaultData map[string]any

	// marker renders the list/checkbox/banner prefix.
	marker func(b content.Block, ordinal int) string
}

// Marker returns the prefix a renderer shows before the block text. ordinal
// is the 1-based list position and only matters for numbered items.
func (s Strategy) Marker(b content.Block, ordinal int) string {
	if s.marker == nil {
		return ""
	}
	return s.marker(b, ordinal)
}

// Toggle returns b with its toggle attribute flipped. Types without a
// toggle attribute are returned unchanged.
func (s Strategy) Toggle(b content.Block) content.Block {
	if s.ToggleKey == "" {
		return b
	}
	on, _ := b.DataValue(s.ToggleKey)
	checked, _ := on.(bool)
	return b.MergeData(map[string]any{s.ToggleKey: !checked})
}

// NewBlockData returns a fresh copy of the type's default data.
func (s Strategy) NewBlockData() map[string]any {
	if len(s.DefaultData) == 0 {
		return nil
	}
	return maps.Clone(s.DefaultData)
}

// IsEditable returns true for types whose text the user edits directly.
func (s Strategy) IsEditable() bool {
	return s.Family == FamilyText || s.Family == FamilyList
}

func checkedMarker(b content.Block, _ int) string {
	if v, _ := b.DataValue(DataChecked); v == true {
		return "[x] "
	}
	return "[ ] "
}

func toggleMarker(b content.Block, _ int) string {
	if v, _ := b.DataValue(DataOpen); v == true {
		return "▾ "
	}
	return "▸ "
}

func bannerMarker(b content.Block, _ int) string {
	if v, ok := b.DataValue(DataEmoji); ok {
		if s, ok := v.(string); ok && s != "" {
			return s + " "
		}
	}
	return DefaultBannerEmoji + " "
}

func staticMarker(m string) func(content.Block, int) string {
	return func(content.Block, int) string { return m }
}

var table = map[content.BlockType]Strategy{
	content.TypeUnstyled: {
		Type: content.TypeUnstyled, Family: FamilyText,
		Synchronizable: true, Mergeable: true,
	},
	content.TypeHeaderOne: {
		Type: content.TypeHeaderOne, Family: FamilyText,
		Synchronizable: true, Mergeable: true, SplitInto: content.TypeUnstyled,
		marker: staticMarker("# "),
	},
	content.TypeHeaderTwo: {
		Type: content.TypeHeaderTwo, Family: FamilyText,
		Synchronizable: true, Mergeable: true, SplitInto: content.TypeUnstyled,
		marker: staticMarker("## "),
	},
	content.TypeHeaderThree: {
		Type: content.TypeHeaderThree, Family: FamilyText,
		Synchronizable: true, Mergeable: true, SplitInto: content.TypeUnstyled,
		marker: staticMarker("### "),
	},
	content.TypeTitle: {
		Type: content.TypeTitle, Family: FamilyText,
		Synchronizable: true, Mergeable: true, SplitInto: content.TypeUnstyled,
		DefaultData: map[string]any{DataCover: ""},
	},
	content.TypeBlockquote: {
		Type: content.TypeBlockquote, Family: FamilyText,
		Synchronizable: true, Mergeable: true,
		marker: staticMarker("> "),
	},
	content.TypeCode: {
		Type: content.TypeCode, Family: FamilyText,
		Synchronizable: true, Mergeable: true,
	},
	content.TypeBanner: {
		Type: content.TypeBanner, Family: FamilyText,
		Synchronizable: true, Mergeable: true, SplitInto: content.TypeUnstyled,
		DefaultData: map[string]any{DataEmoji: DefaultBannerEmoji},
		marker:      bannerMarker,
	},
	content.TypeBulleted: {
		Type: content.TypeBulleted, Family: FamilyList,
		Synchronizable: true, Mergeable: true,
		marker: staticMarker("• "),
	},
	content.TypeNumbered: {
		Type: content.TypeNumbered, Family: FamilyList,
		Synchronizable: true, Mergeable: true,
		marker: func(_ content.Block, ordinal int) string {
			return strconv.Itoa(ordinal) + ". "
		},
	},
	content.TypeChecklist: {
		Type: content.TypeChecklist, Family: FamilyList,
		Synchronizable: true, Mergeable: true,
		ToggleKey:   DataChecked,
		DefaultData: map[string]any{DataChecked: false},
		marker:      checkedMarker,
	},
	content.TypeToggle: {
		Type: content.TypeToggle, Family: FamilyList,
		Synchronizable: true, Mergeable: true,
		ToggleKey:   DataOpen,
		DefaultData: map[string]any{DataOpen: false},
		marker:      toggleMarker,
	},
	content.TypeAtomic: {
		Type: content.TypeAtomic, Family: FamilyAtomic,
	},
	content.TypeKanban: {
		Type: content.TypeKanban, Family: FamilyBoard,
		ForcesTrailingBlock: true,
	},
	content.TypeListView: {
		Type: content.TypeListView, Family: FamilyBoard,
		ForcesTrailingBlock: true,
	},
}

// embedStrategy is shared by every embed-* type.
var embedStrategy = Strategy{
	Family:              FamilyEmbed,
	ForcesTrailingBlock: true,
}

// Lookup returns the strategy for t. Embed types share one strategy;
// unknown types behave as plain text.
func Lookup(t content.BlockType) Strategy {
	if s, ok := table[t]; ok {
		return s
	}
	if t.IsEmbed() {
		s := embedStrategy
		s.Type = t
		return s
	}
	s := table[content.TypeUnstyled]
	s.Type = t
	return s
}

// For returns the strategy of b's type.
func For(b content.Block) Strategy {
	return Lookup(b.Type())
}

// Known reports whether t has an explicit strategy.
func Known(t content.BlockType) bool {
	_, ok := table[t]
	return ok || t.IsEmbed()
}
