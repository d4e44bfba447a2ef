package content

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/pagestorm/internal/engine/selection"
)

func mustState(t *testing.T, blocks ...Block) *State {
	t.Helper()
	s, err := NewState(blocks, nil)
	require.NoError(t, err)
	return s
}

func textBlock(key, text string) Block {
	return NewBlock(BlockConfig{Key: key, Text: text})
}

func TestNewBlockDefaults(t *testing.T) {
	b := NewBlock(BlockConfig{Text: "héllo", Depth: -2})
	assert.NotEmpty(t, b.Key())
	assert.Equal(t, TypeUnstyled, b.Type())
	assert.Equal(t, 5, b.Len())
	assert.Equal(t, 0, b.Depth())
}

func TestNewBlockClampsRanges(t *testing.T) {
	b := NewBlock(BlockConfig{
		Key:               "a",
		Text:              "abc",
		InlineStyleRanges: []StyleRange{{Style: "BOLD", Start: -1, End: 10}},
		EntityRanges:      []EntityRange{{Key: "e", Start: 5, End: 2}},
	})
	assert.Equal(t, []StyleRange{{Style: "BOLD", Start: 0, End: 3}}, b.InlineStyleRanges())
	assert.Equal(t, []EntityRange{{Key: "e", Start: 2, End: 3}}, b.EntityRanges())
}

func TestBlockIsImmutable(t *testing.T) {
	data := map[string]any{"checked": false}
	b := NewBlock(BlockConfig{Key: "a", Text: "x", Data: data})
	data["checked"] = true

	v, _ := b.DataValue("checked")
	assert.Equal(t, false, v)

	got := b.Data()
	got["checked"] = true
	v, _ = b.DataValue("checked")
	assert.Equal(t, false, v)

	b2 := b.MergeData(map[string]any{"isShow": false})
	_, ok := b.DataValue("isShow")
	assert.False(t, ok)
	v, _ = b2.DataValue("isShow")
	assert.Equal(t, false, v)
}

func TestBlockSliceAndAppend(t *testing.T) {
	b := NewBlock(BlockConfig{
		Key:  "a",
		Text: "Hello world",
		InlineStyleRanges: []StyleRange{
			{Style: "BOLD", Start: 0, End: 8},
			{Style: "ITALIC", Start: 1, End: 3},
		},
		EntityRanges: []EntityRange{{Key: "link", Start: 6, End: 11}},
	})

	left := b.Slice(0, 5)
	right := b.Slice(5, b.Len())
	assert.Equal(t, "Hello", left.Text())
	assert.Equal(t, " world", right.Text())
	assert.Equal(t, []StyleRange{{"BOLD", 0, 5}, {"ITALIC", 1, 3}}, left.InlineStyleRanges())
	assert.Equal(t, []StyleRange{{"BOLD", 0, 3}}, right.InlineStyleRanges())
	assert.Empty(t, left.EntityRanges())
	assert.Equal(t, []EntityRange{{"link", 1, 6}}, right.EntityRanges())

	joined := left.Append(right)
	assert.True(t, b.Equal(joined), "append should invert slice")
}

func TestBlockSplitAtRejoins(t *testing.T) {
	b := NewBlock(BlockConfig{
		Key:  "a",
		Text: "abcdefghij",
		InlineStyleRanges: []StyleRange{
			{Style: "BOLD", Start: 0, End: 3},
			{Style: "BOLD", Start: 3, End: 6},
			{Style: "ITALIC", Start: 0, End: 10},
		},
		EntityRanges: []EntityRange{{Key: "e", Start: 2, End: 8}},
	})

	above, below := b.SplitAt(3)
	assert.Equal(t, []StyleRange{{"BOLD", 0, 3}, {"ITALIC", 0, 3}}, above.InlineStyleRanges())
	assert.Equal(t, []StyleRange{{"BOLD", 0, 3}, {"ITALIC", 0, 7}}, below.InlineStyleRanges())

	joined := above.Append(below.WithKey("b"))
	assert.Equal(t, b.InlineStyleRanges(), joined.InlineStyleRanges())
	assert.Equal(t, b.EntityRanges(), joined.EntityRanges())
	assert.True(t, b.Equal(joined))

	// an edited half no longer rejoins exactly
	edited := above.Append(below.WithText("defghij"))
	assert.Equal(t, "abcdefghij", edited.Text())
	assert.Equal(t, []EntityRange{{"e", 2, 3}}, edited.EntityRanges())
}

func TestBlockSliceRunes(t *testing.T) {
	b := textBlock("a", "日本語テキスト")
	assert.Equal(t, "日本", b.Slice(0, 2).Text())
	assert.Equal(t, "テキスト", b.Slice(3, 99).Text())
}

func TestBlockEntityAt(t *testing.T) {
	b := NewBlock(BlockConfig{
		Key:          "a",
		Text:         "hi Ann",
		EntityRanges: []EntityRange{{Key: "e1", Start: 3, End: 6}},
	})
	k, ok := b.EntityAt(4)
	assert.True(t, ok)
	assert.Equal(t, "e1", k)
	_, ok = b.EntityAt(6)
	assert.False(t, ok)
}

func TestNewStateDuplicateKeys(t *testing.T) {
	_, err := NewState([]Block{textBlock("a", ""), textBlock("a", "")}, nil)
	assert.True(t, errors.Is(err, ErrDuplicateKey))

	_, err = NewState(nil, []Entity{
		NewEntity("e", EntityLink, Mutable, nil),
		NewEntity("e", EntityLink, Mutable, nil),
	})
	assert.True(t, errors.Is(err, ErrDuplicateKey))
}

func TestStateLookups(t *testing.T) {
	s := mustState(t, textBlock("a", "one"), textBlock("b", "two"), textBlock("c", "three"))

	b, ok := s.BlockForKey("b")
	require.True(t, ok)
	assert.Equal(t, "two", b.Text())

	_, ok = s.BlockForKey("zz")
	assert.False(t, ok)

	before, ok := s.BlockBefore("b")
	require.True(t, ok)
	assert.Equal(t, "a", before.Key())

	_, ok = s.BlockBefore("a")
	assert.False(t, ok)

	after, ok := s.BlockAfter("b")
	require.True(t, ok)
	assert.Equal(t, "c", after.Key())

	last, _ := s.LastBlock()
	assert.Equal(t, "c", last.Key())
	assert.Equal(t, []string{"a", "b", "c"}, s.Keys())
	assert.Equal(t, "one\ntwo\nthree", s.PlainText())
}

func TestBlocksAsArrayIsSnapshot(t *testing.T) {
	s := mustState(t, textBlock("a", "one"))
	arr := s.BlocksAsArray()
	arr[0] = textBlock("x", "changed")

	b, _ := s.BlockForKey("a")
	assert.Equal(t, "one", b.Text())
}

func TestWithBlockStructuralSharing(t *testing.T) {
	s := mustState(t, textBlock("a", "one"), textBlock("b", "two"))
	a, _ := s.BlockForKey("a")

	s2 := s.WithBlock(a.WithText("uno"))
	got, _ := s2.BlockForKey("a")
	assert.Equal(t, "uno", got.Text())

	orig, _ := s.BlockForKey("a")
	assert.Equal(t, "one", orig.Text())

	assert.Same(t, s.index, s2.index, "order unchanged so index is shared")
	assert.Same(t, s.arena, s2.arena)

	missing := s.WithBlock(textBlock("zz", ""))
	assert.Same(t, s, missing)
}

func TestInsertBlocksAfter(t *testing.T) {
	s := mustState(t, textBlock("a", "one"), textBlock("b", "two"))

	s2 := s.InsertBlocksAfter("a", textBlock("n", "new"))
	assert.Equal(t, []string{"a", "n", "b"}, s2.Keys())
	assert.Equal(t, []string{"a", "b"}, s.Keys())

	s3 := s.InsertBlocksAfter("b", textBlock("n", "new"))
	assert.Equal(t, []string{"a", "b", "n"}, s3.Keys())

	top := s.InsertBlocksAfter("", textBlock("n", "new"))
	assert.Equal(t, []string{"n", "a", "b"}, top.Keys())

	assert.Same(t, s, s.InsertBlocksAfter("zz", textBlock("n", "")))
}

func TestInsertBlocksAfterRekeysCollisions(t *testing.T) {
	s := mustState(t, textBlock("a", "one"))
	s2 := s.InsertBlocksAfter("a", textBlock("a", "dup"))

	keys := s2.Keys()
	require.Len(t, keys, 2)
	assert.NotEqual(t, keys[0], keys[1])
}

func TestRemoveBlocks(t *testing.T) {
	s := mustState(t, textBlock("a", ""), textBlock("b", ""), textBlock("c", ""))
	s2 := s.RemoveBlocks("b")
	assert.Equal(t, []string{"a", "c"}, s2.Keys())
	assert.False(t, s2.HasBlock("b"))
	assert.Same(t, s, s.RemoveBlocks("zz"))
}

func TestMoveBlocksAfter(t *testing.T) {
	s := mustState(t, textBlock("a", ""), textBlock("b", ""), textBlock("c", ""), textBlock("d", ""))

	tests := []struct {
		name   string
		keys   []string
		target string
		want   []string
	}{
		{"forward", []string{"a"}, "c", []string{"b", "c", "a", "d"}},
		{"backward", []string{"d"}, "a", []string{"a", "d", "b", "c"}},
		{"to top", []string{"c"}, "", []string{"c", "a", "b", "d"}},
		{"range keeps order", []string{"c", "b"}, "d", []string{"a", "d", "b", "c"}},
		{"target in set", []string{"a", "b"}, "b", []string{"a", "b", "c", "d"}},
		{"missing key", []string{"zz"}, "a", []string{"a", "b", "c", "d"}},
		{"missing target", []string{"a"}, "zz", []string{"a", "b", "c", "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.MoveBlocksAfter(tt.keys, tt.target).Keys())
		})
	}
}

func TestClampSelection(t *testing.T) {
	s := mustState(t, textBlock("a", "abc"), textBlock("b", "de"))

	sel, ok := s.ClampSelection(selection.Range("b", 9, "a", -1))
	require.True(t, ok)
	assert.Equal(t, 2, sel.AnchorOffset)
	assert.Equal(t, 0, sel.FocusOffset)
	assert.True(t, sel.IsBackward)
	assert.Equal(t, "a", sel.StartKey())

	_, ok = s.ClampSelection(selection.Collapsed("zz", 0))
	assert.False(t, ok)
}

func TestEntityRegistry(t *testing.T) {
	s := mustState(t, textBlock("a", ""))

	s1, k1 := s.CreateEntity(EntityMentionPerson, Immutable, map[string]any{"name": "Ann"})
	s2, k2 := s1.CreateEntity(EntityLink, Mutable, map[string]any{"url": "https://example.com"})
	assert.NotEqual(t, k1, k2)
	assert.False(t, s.HasEntity(k1), "original state untouched")

	s3 := s2.MergeEntityData(k1, map[string]any{"id": "u1"})
	e1, err := s3.Entity(k1)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "Ann", "id": "u1"}, e1.Data())
	assert.Equal(t, Immutable, e1.Mutability())

	e2, err := s3.Entity(k2)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"url": "https://example.com"}, e2.Data())

	old, err := s2.Entity(k1)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "Ann"}, old.Data())

	assert.Same(t, s3, s3.MergeEntityData("missing", map[string]any{"x": 1}))

	_, err = s3.Entity("missing")
	assert.True(t, errors.Is(err, ErrEntityNotFound))
}

func TestGenerateKeyUnique(t *testing.T) {
	s := mustState(t, textBlock("a", ""))
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		k := s.GenerateKey()
		assert.False(t, seen[k])
		seen[k] = true
		s = s.InsertBlocksAfter("a", textBlock(k, ""))
	}
	assert.Equal(t, 201, s.BlockCount())
}

func TestDanglingEntityKeys(t *testing.T) {
	b := NewBlock(BlockConfig{
		Key:          "a",
		Text:         "hello",
		EntityRanges: []EntityRange{{Key: "e1", Start: 0, End: 2}, {Key: "e2", Start: 2, End: 4}},
	})
	s, err := NewState([]Block{b}, []Entity{NewEntity("e1", EntityLink, Mutable, nil)})
	require.NoError(t, err)
	assert.Equal(t, []string{"e2"}, s.DanglingEntityKeys())
}

func TestStateEqual(t *testing.T) {
	s := mustState(t, textBlock("a", "x"))
	other := mustState(t, textBlock("a", "x"))
	assert.True(t, s.Equal(other))

	a, _ := s.BlockForKey("a")
	assert.False(t, s.Equal(s.WithBlock(a.WithText("y"))))
}
