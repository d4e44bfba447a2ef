package modifier

import (
	"slices"
	"unicode/utf8"

	"github.com/dshills/pagestorm/internal/engine/content"
	"github.com/dshills/pagestorm/internal/engine/selection"
)

// span is the part [start, end) of one block covered by a selection.
type span struct {
	block content.Block
	start int
	end   int
	first bool
	last  bool
}

// spans returns the per-block spans of sel in document order. ok is false
// when sel does not fit c.
func spans(c *content.State, sel selection.State) ([]span, bool) {
	sel, ok := c.ClampSelection(sel)
	if !ok || sel.IsZero() {
		return nil, false
	}
	from, _ := c.IndexOf(sel.StartKey())
	to, _ := c.IndexOf(sel.EndKey())

	out := make([]span, 0, to-from+1)
	for i := from; i <= to; i++ {
		b, _ := c.BlockAt(i)
		sp := span{block: b, start: 0, end: b.Len(), first: i == from, last: i == to}
		if sp.first {
			sp.start = sel.StartOffset()
		}
		if sp.last {
			sp.end = sel.EndOffset()
		}
		out = append(out, sp)
	}
	return out, true
}

// InsertTextAt inserts text into block key at offset. The inserted run
// carries styles and, when entityKey is not empty, the entity. The caret is
// placed after the inserted text. An unknown key returns c unchanged.
func InsertTextAt(c *content.State, key string, offset int, text string, styles []string, entityKey string) *content.State {
	b, ok := c.BlockForKey(key)
	if !ok {
		return c
	}
	offset = min(max(offset, 0), b.Len())
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return c
	}

	chunk := content.NewBlock(content.BlockConfig{Key: key, Text: text})
	var sr []content.StyleRange
	for _, st := range styles {
		sr = append(sr, content.StyleRange{Style: st, Start: 0, End: n})
	}
	var er []content.EntityRange
	if entityKey != "" {
		er = []content.EntityRange{{Key: entityKey, Start: 0, End: n}}
	}
	chunk = chunk.WithContent(text, sr, er)

	next := b.Slice(0, offset).Append(chunk).Append(b.Slice(offset, b.Len()))
	return c.WithBlock(next).WithSelectionAfter(selection.Collapsed(key, offset+n))
}

// RemoveRange deletes the text covered by sel, joining the first and last
// blocks of a multi-block selection and dropping the blocks between.
//
// Entity mutability is honoured: an IMMUTABLE entity touched by the edges
// of the removal is removed whole, and a SEGMENTED entity that loses part
// of its text is unlinked from what remains. The caret ends at the start
// of the removed range. A selection that does not fit c returns c.
func RemoveRange(c *content.State, sel selection.State) *content.State {
	sps, ok := spans(c, sel)
	if !ok {
		return c
	}
	first, last := sps[0], sps[len(sps)-1]
	if len(sps) == 1 && first.start == first.end {
		return c
	}

	start := expandImmutableStart(c, first.block, first.start)
	end := expandImmutableEnd(c, last.block, last.end)
	if len(sps) == 1 && start == end {
		return c
	}

	var segmented []string
	if len(sps) == 1 {
		segmented = segmentedCut(c, first.block, start, end)
	} else {
		segmented = append(segmentedCut(c, first.block, start, first.block.Len()),
			segmentedCut(c, last.block, 0, end)...)
	}

	joined := first.block.Slice(0, start).Append(last.block.Slice(end, last.block.Len()))
	if len(segmented) > 0 {
		joined = joined.WithEntityRanges(slices.DeleteFunc(joined.EntityRanges(), func(r content.EntityRange) bool {
			return slices.Contains(segmented, r.Key)
		}))
	}

	next := c.WithBlock(joined)
	if len(sps) > 1 {
		drop := make([]string, 0, len(sps)-1)
		for _, sp := range sps[1:] {
			drop = append(drop, sp.block.Key())
		}
		next = next.RemoveBlocks(drop...)
	}
	return next.WithSelectionAfter(selection.Collapsed(first.block.Key(), start))
}

// ReplaceText removes the selected text and inserts text at the caret.
func ReplaceText(c *content.State, sel selection.State, text string, styles []string, entityKey string) *content.State {
	sel, ok := c.ClampSelection(sel)
	if !ok {
		return c
	}
	next := c
	if !sel.IsCollapsed() {
		next = RemoveRange(c, sel)
		sel = next.SelectionAfter()
	}
	if text == "" {
		return next
	}
	return InsertTextAt(next, sel.StartKey(), sel.StartOffset(), text, styles, entityKey)
}

// ApplyEntityToRange links the selected text to entityKey, replacing any
// entity already covering it. An empty key removes entities from the range.
func ApplyEntityToRange(c *content.State, sel selection.State, entityKey string) *content.State {
	sps, ok := spans(c, sel)
	if !ok {
		return c
	}
	var changed []content.Block
	for _, sp := range sps {
		if sp.start == sp.end {
			continue
		}
		var ranges []content.EntityRange
		for _, r := range sp.block.EntityRanges() {
			if !r.Overlaps(sp.start, sp.end) {
				ranges = append(ranges, r)
				continue
			}
			if r.Start < sp.start {
				ranges = append(ranges, content.EntityRange{Key: r.Key, Start: r.Start, End: sp.start})
			}
			if r.End > sp.end {
				ranges = append(ranges, content.EntityRange{Key: r.Key, Start: sp.end, End: r.End})
			}
		}
		if entityKey != "" {
			ranges = append(ranges, content.EntityRange{Key: entityKey, Start: sp.start, End: sp.end})
		}
		slices.SortStableFunc(ranges, func(a, b content.EntityRange) int { return a.Start - b.Start })
		changed = append(changed, sp.block.WithEntityRanges(ranges))
	}
	if len(changed) == 0 {
		return c
	}
	return c.WithBlocks(changed...).WithSelectionAfter(sel)
}

// ApplyStyle adds (on) or removes style over the selected text.
func ApplyStyle(c *content.State, sel selection.State, style string, on bool) *content.State {
	sps, ok := spans(c, sel)
	if !ok {
		return c
	}
	var changed []content.Block
	for _, sp := range sps {
		if sp.start == sp.end {
			continue
		}
		var ranges []content.StyleRange
		for _, r := range sp.block.InlineStyleRanges() {
			if r.Style != style || r.End <= sp.start || r.Start >= sp.end {
				ranges = append(ranges, r)
				continue
			}
			if r.Start < sp.start {
				ranges = append(ranges, content.StyleRange{Style: style, Start: r.Start, End: sp.start})
			}
			if r.End > sp.end {
				ranges = append(ranges, content.StyleRange{Style: style, Start: sp.end, End: r.End})
			}
		}
		if on {
			ranges = append(ranges, content.StyleRange{Style: style, Start: sp.start, End: sp.end})
			ranges = coalesceStyle(ranges, style)
		}
		changed = append(changed, sp.block.WithInlineStyleRanges(ranges))
	}
	if len(changed) == 0 {
		return c
	}
	return c.WithBlocks(changed...).WithSelectionAfter(sel)
}

// HasStyle reports whether every selected rune carries style.
func HasStyle(c *content.State, sel selection.State, style string) bool {
	sps, ok := spans(c, sel)
	if !ok {
		return false
	}
	covered := false
	for _, sp := range sps {
		for i := sp.start; i < sp.end; i++ {
			if !slices.Contains(sp.block.StylesAt(i), style) {
				return false
			}
			covered = true
		}
	}
	return covered
}

// coalesceStyle merges touching or overlapping ranges of style into one,
// keeping the position of the first.
func coalesceStyle(ranges []content.StyleRange, style string) []content.StyleRange {
	var same []content.StyleRange
	var out []content.StyleRange
	firstAt := -1
	for _, r := range ranges {
		if r.Style == style {
			if firstAt < 0 {
				firstAt = len(out)
			}
			same = append(same, r)
			continue
		}
		out = append(out, r)
	}
	if len(same) == 0 {
		return ranges
	}
	slices.SortFunc(same, func(a, b content.StyleRange) int { return a.Start - b.Start })
	merged := same[:1]
	for _, r := range same[1:] {
		top := &merged[len(merged)-1]
		if r.Start <= top.End {
			top.End = max(top.End, r.End)
			continue
		}
		merged = append(merged, r)
	}
	return slices.Insert(out, firstAt, merged...)
}

// expandImmutableStart moves offset back to the start of an IMMUTABLE
// entity it falls inside.
func expandImmutableStart(c *content.State, b content.Block, offset int) int {
	for _, r := range b.EntityRanges() {
		if r.Start < offset && offset < r.End && mutability(c, r.Key) == content.Immutable {
			offset = r.Start
		}
	}
	return offset
}

// expandImmutableEnd moves offset forward to the end of an IMMUTABLE
// entity it falls inside.
func expandImmutableEnd(c *content.State, b content.Block, offset int) int {
	for _, r := range b.EntityRanges() {
		if r.Start < offset && offset < r.End && mutability(c, r.Key) == content.Immutable {
			offset = r.End
		}
	}
	return offset
}

// segmentedCut returns SEGMENTED entity keys that lose part, but not all,
// of their text when [start, end) is removed from b.
func segmentedCut(c *content.State, b content.Block, start, end int) []string {
	var keys []string
	for _, r := range b.EntityRanges() {
		if !r.Overlaps(start, end) || (r.Start >= start && r.End <= end) {
			continue
		}
		if mutability(c, r.Key) == content.Segmented && !slices.Contains(keys, r.Key) {
			keys = append(keys, r.Key)
		}
	}
	return keys
}

func mutability(c *content.State, key string) content.Mutability {
	e, err := c.Entity(key)
	if err != nil {
		return content.Mutable
	}
	return e.Mutability()
}

// entityForInsertion returns the entity new text typed at offset should
// join: a MUTABLE entity that covers the runes on both sides of the caret.
func entityForInsertion(c *content.State, b content.Block, offset int) string {
	if offset <= 0 || offset >= b.Len() {
		return ""
	}
	before, ok := b.EntityAt(offset - 1)
	if !ok {
		return ""
	}
	after, ok := b.EntityAt(offset)
	if !ok || after != before || mutability(c, before) != content.Mutable {
		return ""
	}
	return before
}

// stylesForInsertion returns the styles text typed at offset inherits: the
// styles of the preceding rune, or of the first rune at the block start.
func stylesForInsertion(b content.Block, offset int) []string {
	if offset > 0 {
		return b.StylesAt(offset - 1)
	}
	return b.StylesAt(0)
}
