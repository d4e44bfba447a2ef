package modifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/pagestorm/internal/blocktype"
	"github.com/dshills/pagestorm/internal/engine"
	"github.com/dshills/pagestorm/internal/engine/content"
	"github.com/dshills/pagestorm/internal/engine/selection"
)

func textBlock(key, text string) content.Block {
	return content.NewBlock(content.BlockConfig{Key: key, Text: text})
}

func typed(key string, t content.BlockType, depth int) content.Block {
	return content.NewBlock(content.BlockConfig{Key: key, Type: t, Depth: depth})
}

func newState(t *testing.T, blocks ...content.Block) *engine.EditorState {
	t.Helper()
	c, err := content.NewState(blocks, nil)
	require.NoError(t, err)
	return engine.New(c)
}

func caret(s *engine.EditorState, key string, offset int) *engine.EditorState {
	return engine.ForceSelection(s, selection.Collapsed(key, offset))
}

func blockOf(t *testing.T, s *engine.EditorState, key string) content.Block {
	t.Helper()
	b, ok := s.Content().BlockForKey(key)
	require.True(t, ok, "block %q", key)
	return b
}

func keysOf(blocks []content.Block) []string {
	out := make([]string, len(blocks))
	for i, b := range blocks {
		out[i] = b.Key()
	}
	return out
}

func TestGetNestedBlocks(t *testing.T) {
	blocks := []content.Block{
		typed("a", content.TypeBulleted, 0),
		typed("b", content.TypeBulleted, 1),
		typed("c", content.TypeBulleted, 2),
		typed("d", content.TypeBulleted, 1),
		typed("e", content.TypeBulleted, 0),
	}
	tests := []struct {
		name  string
		block content.Block
		want  []string
	}{
		{"subtree", blocks[0], []string{"b", "c", "d"}},
		{"stops at sibling", blocks[1], []string{"c"}},
		{"no children", blocks[4], []string{}},
		{"missing", typed("zz", content.TypeBulleted, 0), []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, keysOf(GetNestedBlocks(tt.block, blocks)))
		})
	}
}

func TestGetBlocksBetween(t *testing.T) {
	blocks := []content.Block{textBlock("a", ""), textBlock("b", ""), textBlock("c", ""), textBlock("d", "")}
	assert.Equal(t, []string{"b", "c", "d"}, keysOf(GetBlocksBetween(blocks, "b", "d")))
	assert.Equal(t, []string{"b", "c", "d"}, keysOf(GetBlocksBetween(blocks, "d", "b")))
	assert.Equal(t, []string{"c"}, keysOf(GetBlocksBetween(blocks, "c", "c")))
	assert.Nil(t, GetBlocksBetween(blocks, "a", "zz"))
}

func TestGetPrevNumberedBlocksWithSameLevel(t *testing.T) {
	blocks := []content.Block{
		typed("A", content.TypeUnstyled, 0),
		typed("B", content.TypeNumbered, 0),
		typed("C", content.TypeNumbered, 0),
		typed("D", content.TypeNumbered, 1),
		typed("E", content.TypeNumbered, 0),
	}

	run := GetPrevNumberedBlocksWithSameLevel(blocks[4], blocks)
	assert.Equal(t, []string{"B", "C", "E"}, keysOf(run))
	assert.Equal(t, 3, Ordinal(blocks[4], blocks))
	assert.Equal(t, "3. ", blocktype.For(blocks[4]).Marker(blocks[4], Ordinal(blocks[4], blocks)))

	assert.Equal(t, []string{"D"}, keysOf(GetPrevNumberedBlocksWithSameLevel(blocks[3], blocks)))
	assert.Nil(t, GetPrevNumberedBlocksWithSameLevel(blocks[0], blocks))
	assert.Equal(t, 0, Ordinal(blocks[0], blocks))
}

func TestSplitMergeInverse(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		styles  []content.StyleRange
		ents    []content.EntityRange
		offsets []int
	}{
		{
			name:    "range across the cut",
			text:    "Hello world",
			styles:  []content.StyleRange{{Style: "BOLD", Start: 0, End: 8}},
			ents:    []content.EntityRange{{Key: "link", Start: 6, End: 11}},
			offsets: []int{0, 3, 5, 6, 8, 11},
		},
		{
			name: "order kept after the cut",
			text: "abcdefghij",
			styles: []content.StyleRange{
				{Style: "BOLD", Start: 0, End: 2},
				{Style: "BOLD", Start: 6, End: 8},
				{Style: "ITALIC", Start: 0, End: 10},
			},
			offsets: []int{0, 1, 5, 7, 10},
		},
		{
			name: "adjacent ranges stay separate",
			text: "abcdef",
			styles: []content.StyleRange{
				{Style: "BOLD", Start: 0, End: 3},
				{Style: "BOLD", Start: 3, End: 6},
			},
			ents: []content.EntityRange{
				{Key: "x", Start: 0, End: 3},
				{Key: "x", Start: 3, End: 6},
			},
			offsets: []int{2, 3, 4},
		},
	}
	for _, tt := range tests {
		orig := content.NewBlock(content.BlockConfig{
			Key:               "a",
			Text:              tt.text,
			InlineStyleRanges: tt.styles,
			EntityRanges:      tt.ents,
		})
		for _, offset := range tt.offsets {
			t.Run(tt.name, func(t *testing.T) {
				s := newState(t, orig, textBlock("z", "tail"))

				split := SplitBlock(s, "a", offset)
				require.Equal(t, 3, split.Content().BlockCount())
				assert.Equal(t, engine.ChangeSplitBlock, split.LastChangeType())

				newKey := split.Selection().FocusKey
				assert.NotEqual(t, "a", newKey)
				assert.Equal(t, 0, split.Selection().FocusOffset)
				assert.Equal(t, []rune(orig.Text())[:offset], []rune(blockOf(t, split, "a").Text()))
				assert.Equal(t, string([]rune(orig.Text())[offset:]), blockOf(t, split, newKey).Text())

				merged := MergeBlocks(split, "a")
				got := blockOf(t, merged, "a")
				assert.True(t, orig.Equal(got), "offset %d", offset)
				assert.Equal(t, orig.InlineStyleRanges(), got.InlineStyleRanges(), "offset %d", offset)
				assert.Equal(t, orig.EntityRanges(), got.EntityRanges(), "offset %d", offset)
				assert.Equal(t, []string{"a", "z"}, merged.Content().Keys())
				assert.Equal(t, selection.Collapsed("a", offset), merged.Selection())
			})
		}
	}
}

func TestSplitBlockType(t *testing.T) {
	h := content.NewBlock(content.BlockConfig{Key: "h", Type: content.TypeHeaderOne, Text: "Title"})
	check := content.NewBlock(content.BlockConfig{
		Key: "c", Type: content.TypeChecklist, Text: "todo",
		Data: map[string]any{blocktype.DataChecked: true},
	})
	s := newState(t, h, check)

	s1 := SplitBlock(s, "h", 5)
	assert.Equal(t, content.TypeUnstyled, blockOf(t, s1, s1.Selection().FocusKey).Type())

	s2 := SplitBlock(s, "c", 2)
	below := blockOf(t, s2, s2.Selection().FocusKey)
	assert.Equal(t, content.TypeChecklist, below.Type())
	v, _ := below.DataValue(blocktype.DataChecked)
	assert.Equal(t, false, v, "new item starts unchecked")
}

func TestSplitKeysUnique(t *testing.T) {
	s := newState(t, textBlock("a", "abcdefghijklmnop"))
	key := "a"
	for i := 0; i < 15; i++ {
		s = SplitBlock(s, key, 1)
		key = s.Selection().FocusKey
	}
	keys := s.Content().Keys()
	seen := map[string]bool{}
	for _, k := range keys {
		assert.False(t, seen[k], "duplicate key %q", k)
		seen[k] = true
	}
	assert.Len(t, keys, 16)
}

func TestSplitUndo(t *testing.T) {
	s := caret(newState(t, textBlock("a", "Hello world")), "a", 5)
	split := SplitAtSelection(s)
	require.Equal(t, 2, split.Content().BlockCount())

	undone := engine.Undo(split)
	assert.Equal(t, []string{"a"}, undone.Content().Keys())
	assert.Equal(t, selection.Collapsed("a", 5), undone.Selection())
}

func TestSplitAtSelectionRemovesRange(t *testing.T) {
	s := engine.ForceSelection(newState(t, textBlock("a", "Hello world")), selection.Range("a", 5, "a", 6))
	next := SplitAtSelection(s)
	assert.Equal(t, "Hello", blockOf(t, next, "a").Text())
	assert.Equal(t, "world", blockOf(t, next, next.Selection().FocusKey).Text())
}

func TestMissingKeyIsNoop(t *testing.T) {
	s := newState(t, textBlock("a", "one"), textBlock("b", "two"))
	ops := map[string]func(*engine.EditorState) *engine.EditorState{
		"split": func(s *engine.EditorState) *engine.EditorState { return SplitBlock(s, "zz", 1) },
		"merge": func(s *engine.EditorState) *engine.EditorState { return MergeBlocks(s, "zz") },
		"merge last": func(s *engine.EditorState) *engine.EditorState {
			return MergeBlocks(s, "b")
		},
		"remove": func(s *engine.EditorState) *engine.EditorState { return RemoveAtomicBlock(s, "zz") },
		"insert after": func(s *engine.EditorState) *engine.EditorState {
			return InsertEmptyBlockAfter(s, "zz", BlockParams{})
		},
		"move": func(s *engine.EditorState) *engine.EditorState {
			return MoveBlock(s, s.Selection(), "zz", "a")
		},
		"move target": func(s *engine.EditorState) *engine.EditorState {
			return MoveBlock(s, s.Selection(), "a", "zz")
		},
		"set data": func(s *engine.EditorState) *engine.EditorState {
			return SetBlockData(s, "zz", map[string]any{"x": 1})
		},
		"merge data": func(s *engine.EditorState) *engine.EditorState {
			return MergeBlockData(s, "zz", map[string]any{"x": 1})
		},
		"set type": func(s *engine.EditorState) *engine.EditorState {
			return SetBlockType(s, "zz", content.TypeHeaderOne)
		},
		"toggle": func(s *engine.EditorState) *engine.EditorState { return ToggleChecklist(s, "zz") },
		"entity": func(s *engine.EditorState) *engine.EditorState { return ApplyEntity(s, "zz") },
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			got := op(s)
			assert.Same(t, s, got)
			assert.True(t, s.Content().Equal(got.Content()))
		})
	}
}

func TestInsertEmptyBlockAfter(t *testing.T) {
	s := newState(t, textBlock("a", "one"), textBlock("b", "two"))

	next := InsertEmptyBlockAfter(s, "a", BlockParams{Type: content.TypeChecklist, Depth: 1})
	keys := next.Content().Keys()
	require.Len(t, keys, 3)
	assert.Equal(t, "a", keys[0])
	assert.Equal(t, "b", keys[2])

	b := blockOf(t, next, keys[1])
	assert.Equal(t, content.TypeChecklist, b.Type())
	assert.Equal(t, 1, b.Depth())
	assert.Equal(t, "", b.Text())
	v, _ := b.DataValue(blocktype.DataChecked)
	assert.Equal(t, false, v)

	assert.Equal(t, selection.Collapsed(keys[1], 0), next.Selection())
	assert.True(t, next.MustForceSelection())
	assert.Equal(t, 1, next.UndoStack().Len())

	last := InsertEmptyBlockAfter(s, "b", BlockParams{})
	assert.Equal(t, 3, last.Content().BlockCount())
	lb, _ := last.Content().LastBlock()
	assert.Equal(t, content.TypeUnstyled, lb.Type())
}

func TestInsertEmptyBlockAfterKeysUnique(t *testing.T) {
	s := newState(t, textBlock("a", "one"))
	for i := 0; i < 40; i++ {
		keys := s.Content().Keys()
		var after string
		switch i % 4 {
		case 0:
			after = keys[len(keys)-1]
		case 1:
			after = ""
		case 2:
			after = keys[len(keys)/2]
		case 3:
			after = s.Selection().FocusKey
		}
		next := InsertEmptyBlockAfter(s, after, BlockParams{})
		require.Equal(t, len(keys)+1, next.Content().BlockCount(), "insert %d after %q", i, after)
		s = next
	}

	keys := s.Content().Keys()
	require.Len(t, keys, 41)
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		assert.NotEmpty(t, k)
		assert.False(t, seen[k], "duplicate key %q", k)
		seen[k] = true
	}
	assert.Len(t, s.Content().BlocksAsArray(), len(keys))
}

func TestRemoveAtomicBlock(t *testing.T) {
	p := textBlock("p", "para")
	atom := content.NewBlock(content.BlockConfig{Key: "x", Type: content.TypeAtomic, Text: " "})
	q := textBlock("q", "after")

	t.Run("mid document", func(t *testing.T) {
		s := newState(t, p, atom, q)
		next := RemoveAtomicBlock(s, "x")
		assert.Equal(t, []string{"p", "q"}, next.Content().Keys())
		assert.Equal(t, selection.Collapsed("p", 4), next.Selection())
		assert.True(t, next.MustForceSelection())
		assert.Equal(t, engine.ChangeRemoveRange, next.LastChangeType())
	})

	t.Run("first block", func(t *testing.T) {
		s := newState(t, atom, q)
		next := RemoveAtomicBlock(s, "x")
		assert.Equal(t, []string{"q"}, next.Content().Keys())
		assert.Equal(t, selection.Collapsed("q", 0), next.Selection())
	})

	t.Run("only block", func(t *testing.T) {
		s := newState(t, atom)
		next := RemoveAtomicBlock(s, "x")
		assert.Equal(t, 0, next.Content().BlockCount())
		assert.True(t, next.Selection().IsZero())

		undone := engine.Undo(next)
		assert.Equal(t, []string{"x"}, undone.Content().Keys())
	})
}

func TestMoveBlock(t *testing.T) {
	s := newState(t, textBlock("a", "one"), textBlock("b", "two"), textBlock("c", "three"))

	next := MoveBlock(s, selection.Collapsed("a", 1), "a", "c")
	assert.Equal(t, []string{"b", "c", "a"}, next.Content().Keys())
	assert.Equal(t, "one", blockOf(t, next, "a").Text())
	assert.Equal(t, selection.Collapsed("a", 1), next.Selection())
	assert.Equal(t, engine.ChangeMoveBlock, next.LastChangeType())

	assert.Same(t, s, MoveBlock(s, s.Selection(), "a", "a"))
}

func TestMoveBlockRangeWithChildren(t *testing.T) {
	blocks := []content.Block{
		typed("a", content.TypeBulleted, 0),
		typed("b", content.TypeBulleted, 1),
		typed("c", content.TypeBulleted, 0),
	}
	s := newState(t, blocks...)
	keys := append([]string{"a"}, keysOf(GetNestedBlocks(blocks[0], blocks))...)

	next := MoveBlockRange(s, s.Selection(), keys, "c")
	assert.Equal(t, []string{"c", "a", "b"}, next.Content().Keys())
}

func TestInsertAtomicBlock(t *testing.T) {
	c, err := content.NewState([]content.Block{textBlock("a", "Hello world")}, nil)
	require.NoError(t, err)
	c, ek := c.CreateEntity(content.EntityEmbedImage, content.Immutable, map[string]any{"src": "cat.png"})
	s := caret(engine.New(c), "a", 5)

	next := InsertAtomicBlock(s, content.TypeAtomic, ek, "")
	keys := next.Content().Keys()
	require.Len(t, keys, 3)

	assert.Equal(t, "Hello", blockOf(t, next, "a").Text())

	atom := blockOf(t, next, keys[1])
	assert.Equal(t, content.TypeAtomic, atom.Type())
	assert.Equal(t, []content.EntityRange{{Key: ek, Start: 0, End: 1}}, atom.EntityRanges())

	assert.Equal(t, " world", blockOf(t, next, keys[2]).Text())
	assert.Equal(t, selection.Collapsed(keys[2], 0), next.Selection())
	assert.Equal(t, 1, next.UndoStack().Len())

	assert.Same(t, s, InsertAtomicBlock(s, content.TypeAtomic, "missing", ""))
}

func TestInsertText(t *testing.T) {
	c, err := content.NewState([]content.Block{content.NewBlock(content.BlockConfig{
		Key:               "a",
		Text:              "ab",
		InlineStyleRanges: []content.StyleRange{{Style: "BOLD", Start: 0, End: 2}},
	})}, nil)
	require.NoError(t, err)
	c, link := c.CreateEntity(content.EntityLink, content.Mutable, map[string]any{"url": "https://example.com"})
	c = ApplyEntityToRange(c, selection.Range("a", 0, "a", 2), link)
	s := engine.New(c)

	t.Run("inherits styles", func(t *testing.T) {
		next := InsertText(caret(s, "a", 2), "c")
		b := blockOf(t, next, "a")
		assert.Equal(t, "abc", b.Text())
		assert.Equal(t, []content.StyleRange{{Style: "BOLD", Start: 0, End: 3}}, b.InlineStyleRanges())
		assert.Equal(t, selection.Collapsed("a", 3), next.Selection())
		assert.Equal(t, engine.ChangeInsertCharacters, next.LastChangeType())
	})

	t.Run("joins mutable entity inside", func(t *testing.T) {
		next := InsertText(caret(s, "a", 1), "x")
		b := blockOf(t, next, "a")
		assert.Equal(t, "axb", b.Text())
		assert.Equal(t, []content.EntityRange{{Key: link, Start: 0, End: 3}}, b.EntityRanges())
	})

	t.Run("does not extend entity at edge", func(t *testing.T) {
		next := InsertText(caret(s, "a", 2), "!")
		b := blockOf(t, next, "a")
		_, ok := b.EntityAt(2)
		assert.False(t, ok)
	})

	t.Run("replaces selection", func(t *testing.T) {
		next := InsertText(engine.ForceSelection(s, selection.Range("a", 0, "a", 2)), "z")
		assert.Equal(t, "z", blockOf(t, next, "a").Text())
		assert.Equal(t, 1, next.UndoStack().Len())
	})
}

func TestBackspace(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		offset   int
		wantText string
		wantOff  int
	}{
		{"ascii", "abc", 3, "ab", 2},
		{"combining mark", "ae\u0301", 3, "a", 1},
		{"flag", "x🇯🇵", 3, "x", 1},
		{"middle", "abc", 2, "ac", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := caret(newState(t, textBlock("a", tt.text)), "a", tt.offset)
			next := Backspace(s)
			assert.Equal(t, tt.wantText, blockOf(t, next, "a").Text())
			assert.Equal(t, tt.wantOff, next.Selection().FocusOffset)
			assert.Equal(t, engine.ChangeBackspaceCharacter, next.LastChangeType())
		})
	}
}

func TestBackspaceAtBlockStart(t *testing.T) {
	t.Run("merges into previous", func(t *testing.T) {
		s := caret(newState(t, textBlock("a", "foo"), textBlock("b", "bar")), "b", 0)
		next := Backspace(s)
		assert.Equal(t, []string{"a"}, next.Content().Keys())
		assert.Equal(t, "foobar", blockOf(t, next, "a").Text())
		assert.Equal(t, selection.Collapsed("a", 3), next.Selection())
	})

	t.Run("removes atomic previous", func(t *testing.T) {
		atom := content.NewBlock(content.BlockConfig{Key: "x", Type: content.TypeAtomic, Text: " "})
		s := caret(newState(t, textBlock("p", "p"), atom, textBlock("q", "q")), "q", 0)
		next := Backspace(s)
		assert.Equal(t, []string{"p", "q"}, next.Content().Keys())
		assert.Equal(t, selection.Collapsed("q", 0), next.Selection())
	})

	t.Run("first block", func(t *testing.T) {
		s := caret(newState(t, textBlock("a", "foo")), "a", 0)
		assert.Same(t, s, Backspace(s))
	})
}

func TestDelete(t *testing.T) {
	t.Run("grapheme", func(t *testing.T) {
		s := caret(newState(t, textBlock("a", "ae\u0301b")), "a", 1)
		next := Delete(s)
		assert.Equal(t, "ab", blockOf(t, next, "a").Text())
		assert.Equal(t, 1, next.Selection().FocusOffset)
	})

	t.Run("merges next", func(t *testing.T) {
		s := caret(newState(t, textBlock("a", "foo"), textBlock("b", "bar")), "a", 3)
		next := Delete(s)
		assert.Equal(t, "foobar", blockOf(t, next, "a").Text())
		assert.Equal(t, engine.ChangeDeleteCharacter, next.LastChangeType())
	})

	t.Run("end of document", func(t *testing.T) {
		s := caret(newState(t, textBlock("a", "foo")), "a", 3)
		assert.Same(t, s, Delete(s))
	})
}

func TestRemoveRangeMutability(t *testing.T) {
	tests := []struct {
		name       string
		mutability content.Mutability
		text       string
		entity     [2]int
		remove     [2]int
		wantText   string
		wantRanges []content.EntityRange
		wantCaret  int
	}{
		{
			name: "immutable removed whole", mutability: content.Immutable,
			text: "Hi Ann!", entity: [2]int{3, 6}, remove: [2]int{5, 6},
			wantText: "Hi !", wantRanges: []content.EntityRange{}, wantCaret: 3,
		},
		{
			name: "immutable fully outside", mutability: content.Immutable,
			text: "Hi Ann!", entity: [2]int{3, 6}, remove: [2]int{6, 7},
			wantText: "Hi Ann", wantRanges: []content.EntityRange{{Key: "e", Start: 3, End: 6}}, wantCaret: 6,
		},
		{
			name: "segmented unlinked", mutability: content.Segmented,
			text: "one two", entity: [2]int{0, 7}, remove: [2]int{0, 1},
			wantText: "ne two", wantRanges: []content.EntityRange{}, wantCaret: 0,
		},
		{
			name: "mutable shrinks", mutability: content.Mutable,
			text: "one two", entity: [2]int{0, 7}, remove: [2]int{0, 1},
			wantText: "ne two", wantRanges: []content.EntityRange{{Key: "e", Start: 0, End: 6}}, wantCaret: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := content.NewBlock(content.BlockConfig{
				Key:          "a",
				Text:         tt.text,
				EntityRanges: []content.EntityRange{{Key: "e", Start: tt.entity[0], End: tt.entity[1]}},
			})
			c, err := content.NewState([]content.Block{b}, []content.Entity{
				content.NewEntity("e", content.EntityMentionPerson, tt.mutability, nil),
			})
			require.NoError(t, err)

			next := RemoveRange(c, selection.Range("a", tt.remove[0], "a", tt.remove[1]))
			got, _ := next.BlockForKey("a")
			assert.Equal(t, tt.wantText, got.Text())
			if len(tt.wantRanges) == 0 {
				assert.Empty(t, got.EntityRanges())
			} else {
				assert.Equal(t, tt.wantRanges, got.EntityRanges())
			}
			assert.Equal(t, selection.Collapsed("a", tt.wantCaret), next.SelectionAfter())
		})
	}
}

func TestRemoveRangeAcrossBlocks(t *testing.T) {
	c, err := content.NewState([]content.Block{
		textBlock("a", "Hello"),
		textBlock("b", "middle"),
		textBlock("c", "world"),
	}, nil)
	require.NoError(t, err)

	next := RemoveRange(c, selection.Range("c", 2, "a", 3))
	assert.Equal(t, []string{"a"}, next.Keys())
	got, _ := next.BlockForKey("a")
	assert.Equal(t, "Helrld", got.Text())
	assert.Equal(t, selection.Collapsed("a", 3), next.SelectionAfter())
}

func TestToggleInlineStyle(t *testing.T) {
	s := engine.ForceSelection(newState(t, textBlock("a", "hello")), selection.Range("a", 1, "a", 4))

	on := ToggleInlineStyle(s, "BOLD")
	assert.Equal(t, []content.StyleRange{{Style: "BOLD", Start: 1, End: 4}}, blockOf(t, on, "a").InlineStyleRanges())
	assert.True(t, HasStyle(on.Content(), on.Selection(), "BOLD"))
	assert.Equal(t, engine.ChangeInlineStyle, on.LastChangeType())

	off := ToggleInlineStyle(on, "BOLD")
	assert.Empty(t, blockOf(t, off, "a").InlineStyleRanges())

	collapsed := caret(s, "a", 1)
	assert.Same(t, collapsed, ToggleInlineStyle(collapsed, "BOLD"))
}

func TestBlockData(t *testing.T) {
	s := newState(t, textBlock("a", "task"), textBlock("b", "note"))

	checklist := SetBlockType(s, "a", content.TypeChecklist)
	b := blockOf(t, checklist, "a")
	assert.Equal(t, content.TypeChecklist, b.Type())
	v, _ := b.DataValue(blocktype.DataChecked)
	assert.Equal(t, false, v)
	assert.Equal(t, engine.ChangeBlockType, checklist.LastChangeType())
	assert.Same(t, checklist, SetBlockType(checklist, "a", content.TypeChecklist))

	checked := ToggleChecklist(checklist, "a")
	v, _ = blockOf(t, checked, "a").DataValue(blocktype.DataChecked)
	assert.Equal(t, true, v)
	assert.Equal(t, engine.ChangeBlockData, checked.LastChangeType())
	assert.Equal(t, checklist.Selection(), checked.Selection())

	unchecked := ToggleChecklist(checked, "a")
	v, _ = blockOf(t, unchecked, "a").DataValue(blocktype.DataChecked)
	assert.Equal(t, false, v)

	assert.Same(t, s, ToggleChecklist(s, "b"), "unstyled blocks have no toggle")

	hidden := MergeBlockData(s, "b", map[string]any{blocktype.DataIsShow: false})
	v, _ = blockOf(t, hidden, "b").DataValue(blocktype.DataIsShow)
	assert.Equal(t, false, v)

	replaced := SetBlockData(hidden, "b", map[string]any{"color": "red"})
	_, ok := blockOf(t, replaced, "b").DataValue(blocktype.DataIsShow)
	assert.False(t, ok)
}

func TestAdjustDepth(t *testing.T) {
	atom := content.NewBlock(content.BlockConfig{Key: "x", Type: content.TypeAtomic, Text: " "})
	s := newState(t, typed("a", content.TypeBulleted, 0), atom, typed("b", content.TypeBulleted, 3))
	s = engine.ForceSelection(s, selection.Range("a", 0, "b", 0))

	deeper := AdjustDepth(s, 1, 3)
	assert.Equal(t, 1, blockOf(t, deeper, "a").Depth())
	assert.Equal(t, 0, blockOf(t, deeper, "x").Depth())
	assert.Equal(t, 3, blockOf(t, deeper, "b").Depth(), "clamped to max")
	assert.Equal(t, engine.ChangeAdjustDepth, deeper.LastChangeType())

	shallower := AdjustDepth(caret(s, "a", 0), -1, 3)
	assert.Equal(t, 0, blockOf(t, shallower, "a").Depth())
	assert.Equal(t, 0, shallower.UndoStack().Len())
}

func TestMergeBlocksRejectsAtomic(t *testing.T) {
	atom := content.NewBlock(content.BlockConfig{Key: "x", Type: content.TypeAtomic, Text: " "})
	s := newState(t, textBlock("a", "one"), atom)
	assert.Same(t, s, MergeBlocks(s, "a"))
}
