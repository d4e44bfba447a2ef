package content

import (
	"maps"
	"reflect"
	"slices"
	"unicode/utf8"
)

// Block is a single paragraph-like unit of content.
// Block is an immutable value type; every With* method returns a copy.
type Block struct {
	key      string
	typ      BlockType
	text     string
	length   int
	depth    int
	styles   []StyleRange
	entities []EntityRange
	data     map[string]any

	// seam is shared by the two halves of SplitAt until either is edited.
	seam *seam
}

// seam records, for each range of a split block in stored order, its index
// in the upper and lower half, or -1 where the half holds no piece of it.
type seam struct {
	styles   []seamRef
	entities []seamRef
}

type seamRef struct {
	above, below int
}

// BlockConfig describes a block to build with NewBlock.
type BlockConfig struct {
	Key               string
	Type              BlockType
	Text              string
	Depth             int
	InlineStyleRanges []StyleRange
	EntityRanges      []EntityRange
	Data              map[string]any
}

// NewBlock builds a block from cfg. An empty key is replaced by a generated
// one, an empty type becomes TypeUnstyled, and ranges are clamped to the text.
func NewBlock(cfg BlockConfig) Block {
	if cfg.Key == "" {
		cfg.Key = GenerateKey()
	}
	if cfg.Type == "" {
		cfg.Type = TypeUnstyled
	}
	if cfg.Depth < 0 {
		cfg.Depth = 0
	}
	b := Block{
		key:   cfg.Key,
		typ:   cfg.Type,
		depth: cfg.Depth,
		data:  maps.Clone(cfg.Data),
	}
	return b.withContent(cfg.Text, cfg.InlineStyleRanges, cfg.EntityRanges)
}

// Key returns the block's unique key.
func (b Block) Key() string { return b.key }

// Type returns the block type.
func (b Block) Type() BlockType { return b.typ }

// Text returns the block text.
func (b Block) Text() string { return b.text }

// Len returns the text length in runes.
func (b Block) Len() int { return b.length }

// Depth returns the nesting level.
func (b Block) Depth() int { return b.depth }

// IsZero returns true for the zero Block.
func (b Block) IsZero() bool { return b.key == "" }

// InlineStyleRanges returns a copy of the style ranges in stored order.
func (b Block) InlineStyleRanges() []StyleRange {
	return slices.Clone(b.styles)
}

// EntityRanges returns a copy of the entity ranges in stored order.
func (b Block) EntityRanges() []EntityRange {
	return slices.Clone(b.entities)
}

// Data returns a shallow copy of the block data.
func (b Block) Data() map[string]any {
	return maps.Clone(b.data)
}

// DataValue returns a single data attribute.
func (b Block) DataValue(name string) (any, bool) {
	v, ok := b.data[name]
	return v, ok
}

// EntityAt returns the key of the entity covering offset, if any.
// When ranges overlap the last one wins.
func (b Block) EntityAt(offset int) (string, bool) {
	for i := len(b.entities) - 1; i >= 0; i-- {
		if b.entities[i].Contains(offset) {
			return b.entities[i].Key, true
		}
	}
	return "", false
}

// StylesAt returns the styles applied at offset in stored order.
func (b Block) StylesAt(offset int) []string {
	var styles []string
	for _, r := range b.styles {
		if offset >= r.Start && offset < r.End && !slices.Contains(styles, r.Style) {
			styles = append(styles, r.Style)
		}
	}
	return styles
}

// WithKey returns a copy with a different key.
func (b Block) WithKey(key string) Block {
	b.key = key
	return b
}

// WithType returns a copy with a different type.
func (b Block) WithType(t BlockType) Block {
	b.typ = t
	return b
}

// WithDepth returns a copy with a different depth. Negative depths become zero.
func (b Block) WithDepth(depth int) Block {
	if depth < 0 {
		depth = 0
	}
	b.depth = depth
	return b
}

// WithData returns a copy whose data is replaced by data.
func (b Block) WithData(data map[string]any) Block {
	b.data = maps.Clone(data)
	return b
}

// MergeData returns a copy whose data is overlaid with partial.
func (b Block) MergeData(partial map[string]any) Block {
	merged := maps.Clone(b.data)
	if merged == nil {
		merged = make(map[string]any, len(partial))
	}
	maps.Copy(merged, partial)
	b.data = merged
	return b
}

// WithText returns a copy with new text and no ranges.
func (b Block) WithText(text string) Block {
	return b.withContent(text, nil, nil)
}

// WithContent returns a copy with new text and ranges.
func (b Block) WithContent(text string, styles []StyleRange, entities []EntityRange) Block {
	return b.withContent(text, styles, entities)
}

// WithInlineStyleRanges returns a copy with the style ranges replaced.
func (b Block) WithInlineStyleRanges(styles []StyleRange) Block {
	return b.withContent(b.text, styles, b.entities)
}

// WithEntityRanges returns a copy with the entity ranges replaced.
func (b Block) WithEntityRanges(entities []EntityRange) Block {
	return b.withContent(b.text, b.styles, entities)
}

func (b Block) withContent(text string, styles []StyleRange, entities []EntityRange) Block {
	b.seam = nil
	b.text = text
	b.length = utf8.RuneCountInString(text)

	b.styles = nil
	if len(styles) > 0 {
		b.styles = make([]StyleRange, 0, len(styles))
		for _, r := range styles {
			r.Start, r.End = clampSpan(r.Start, r.End, b.length)
			b.styles = append(b.styles, r)
		}
	}

	b.entities = nil
	if len(entities) > 0 {
		b.entities = make([]EntityRange, 0, len(entities))
		for _, r := range entities {
			r.Start, r.End = clampSpan(r.Start, r.End, b.length)
			b.entities = append(b.entities, r)
		}
	}
	return b
}

// Slice returns a copy holding the runes in [start, end) with ranges
// clipped and rebased to the new text. Ranges left empty are dropped.
func (b Block) Slice(start, end int) Block {
	start, end = clampSpan(start, end, b.length)
	runes := []rune(b.text)

	var styles []StyleRange
	for _, r := range b.styles {
		if s, e, ok := intersect(r.Start, r.End, start, end); ok {
			styles = append(styles, StyleRange{Style: r.Style, Start: s, End: e})
		}
	}
	var entities []EntityRange
	for _, r := range b.entities {
		if s, e, ok := intersect(r.Start, r.End, start, end); ok {
			entities = append(entities, EntityRange{Key: r.Key, Start: s, End: e})
		}
	}
	return b.withContent(string(runes[start:end]), styles, entities)
}

// SplitAt cuts b at offset into [0, offset) and [offset, len). Both halves
// keep b's key, type, depth and data. While neither half is edited,
// appending the lower half to the upper one restores b exactly, ranges cut
// at offset included.
func (b Block) SplitAt(offset int) (Block, Block) {
	offset = min(max(offset, 0), b.length)
	above, below := b.Slice(0, offset), b.Slice(offset, b.length)

	sm := &seam{
		styles:   make([]seamRef, len(b.styles)),
		entities: make([]seamRef, len(b.entities)),
	}
	na, nb := 0, 0
	for i, r := range b.styles {
		sm.styles[i] = seamRef{above: -1, below: -1}
		if r.Start < offset && r.End > r.Start {
			sm.styles[i].above = na
			na++
		}
		if r.End > offset && r.End > r.Start {
			sm.styles[i].below = nb
			nb++
		}
	}
	na, nb = 0, 0
	for i, r := range b.entities {
		sm.entities[i] = seamRef{above: -1, below: -1}
		if r.Start < offset && r.End > r.Start {
			sm.entities[i].above = na
			na++
		}
		if r.End > offset && r.End > r.Start {
			sm.entities[i].below = nb
			nb++
		}
	}
	above.seam, below.seam = sm, sm
	return above, below
}

// rejoin rebuilds the block other was split from, or reports false when
// the two are not untouched halves of one SplitAt.
func (b Block) rejoin(other Block) (Block, bool) {
	if b.seam == nil || b.seam != other.seam {
		return Block{}, false
	}
	join := b.length
	styles := make([]StyleRange, 0, len(b.seam.styles))
	for _, ref := range b.seam.styles {
		switch {
		case ref.above >= 0 && ref.below >= 0:
			r := b.styles[ref.above]
			r.End = join + other.styles[ref.below].End
			styles = append(styles, r)
		case ref.above >= 0:
			styles = append(styles, b.styles[ref.above])
		case ref.below >= 0:
			r := other.styles[ref.below]
			styles = append(styles, StyleRange{Style: r.Style, Start: r.Start + join, End: r.End + join})
		}
	}
	entities := make([]EntityRange, 0, len(b.seam.entities))
	for _, ref := range b.seam.entities {
		switch {
		case ref.above >= 0 && ref.below >= 0:
			r := b.entities[ref.above]
			r.End = join + other.entities[ref.below].End
			entities = append(entities, r)
		case ref.above >= 0:
			entities = append(entities, b.entities[ref.above])
		case ref.below >= 0:
			r := other.entities[ref.below]
			entities = append(entities, EntityRange{Key: r.Key, Start: r.Start + join, End: r.End + join})
		}
	}
	return b.withContent(b.text+other.text, styles, entities), true
}

// Append returns b with other's text and ranges appended. Halves of one
// SplitAt are rejoined exactly. Otherwise a range ending at the join that
// continues in other with the same style or entity key is coalesced into
// one range.
func (b Block) Append(other Block) Block {
	if joined, ok := b.rejoin(other); ok {
		return joined
	}
	join := b.length
	styles := slices.Clone(b.styles)
	entities := slices.Clone(b.entities)

	for _, r := range other.styles {
		if r.Start == 0 {
			if i := slices.IndexFunc(styles, func(x StyleRange) bool {
				return x.End == join && x.Style == r.Style
			}); i >= 0 {
				styles[i].End = join + r.End
				continue
			}
		}
		styles = append(styles, StyleRange{Style: r.Style, Start: r.Start + join, End: r.End + join})
	}
	for _, r := range other.entities {
		if r.Start == 0 {
			if i := slices.IndexFunc(entities, func(x EntityRange) bool {
				return x.End == join && x.Key == r.Key
			}); i >= 0 {
				entities[i].End = join + r.End
				continue
			}
		}
		entities = append(entities, EntityRange{Key: r.Key, Start: r.Start + join, End: r.End + join})
	}
	return b.withContent(b.text+other.text, styles, entities)
}

// EntityKeys returns the distinct entity keys referenced by the block.
func (b Block) EntityKeys() []string {
	var keys []string
	for _, r := range b.entities {
		if !slices.Contains(keys, r.Key) {
			keys = append(keys, r.Key)
		}
	}
	return keys
}

// Equal reports whether two blocks hold identical content.
func (b Block) Equal(other Block) bool {
	return b.key == other.key &&
		b.typ == other.typ &&
		b.text == other.text &&
		b.depth == other.depth &&
		slices.Equal(b.styles, other.styles) &&
		slices.Equal(b.entities, other.entities) &&
		dataEqual(b.data, other.data)
}

func dataEqual(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !reflect.DeepEqual(av, bv) {
			return false
		}
	}
	return true
}
