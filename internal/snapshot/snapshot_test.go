package snapshot

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/dshills/pagestorm/internal/engine/content"
)

const sample = `{
  "blocks": [
    {"key": "t", "type": "title", "text": "Notes", "depth": 0,
     "inlineStyleRanges": [], "entityRanges": [], "data": {"cover": "sea.png"}},
    {"key": "a", "type": "unstyled", "text": "Hello Zoë and Ann",
     "inlineStyleRanges": [{"offset": 0, "length": 5, "style": "BOLD"}],
     "entityRanges": [{"offset": 14, "length": 3, "key": "e1"}]},
    {"key": "c", "type": "checklist", "text": "milk", "depth": "1",
     "data": {"checked": true}}
  ],
  "entityMap": {
    "e1": {"type": "mention-person", "mutability": "IMMUTABLE", "data": {"id": "u1", "name": "Ann"}}
  }
}`

func TestDecode(t *testing.T) {
	c, err := Decode([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, []string{"t", "a", "c"}, c.Keys())

	title, _ := c.BlockForKey("t")
	assert.Equal(t, content.TypeTitle, title.Type())
	cover, _ := title.DataValue("cover")
	assert.Equal(t, "sea.png", cover)

	a, _ := c.BlockForKey("a")
	assert.Equal(t, []content.StyleRange{{Style: "BOLD", Start: 0, End: 5}}, a.InlineStyleRanges())
	assert.Equal(t, []content.EntityRange{{Key: "e1", Start: 14, End: 17}}, a.EntityRanges())

	check, _ := c.BlockForKey("c")
	assert.Equal(t, 1, check.Depth())
	checked, _ := check.DataValue("checked")
	assert.Equal(t, true, checked)

	e, err := c.Entity("e1")
	require.NoError(t, err)
	assert.Equal(t, content.EntityMentionPerson, e.Type())
	assert.Equal(t, content.Immutable, e.Mutability())
	name, _ := e.DataValue("name")
	assert.Equal(t, "Ann", name)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed", `{"blocks": [`},
		{"not object", `[1, 2]`},
		{"blocks not array", `{"blocks": {}}`},
		{"block not object", `{"blocks": ["x"]}`},
		{"duplicate keys", `{"blocks": [{"key": "a"}, {"key": "a"}]}`},
		{"range without key", `{"blocks": [{"key": "a", "text": "x", "entityRanges": [{"offset": 0, "length": 1}]}]}`},
		{"entity without type", `{"blocks": [], "entityMap": {"e": {"mutability": "MUTABLE"}}}`},
		{"bad mutability", `{"blocks": [], "entityMap": {"e": {"type": "link", "mutability": "FROZEN"}}}`},
		{"newer version", `{"blocks": [], "meta": {"version": 99}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			assert.True(t, errors.Is(err, ErrInvalidSnapshot), "got %v", err)
		})
	}
}

func TestDecodeEmptyDocument(t *testing.T) {
	c, err := Decode([]byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, 1, c.BlockCount())
}

const canonical = `{
  "blocks": [
    {"key": "t", "type": "title", "text": "Notes", "depth": 0,
     "inlineStyleRanges": [], "entityRanges": [], "data": {}},
    {"key": "a", "type": "unstyled", "text": "Hello Zoë and Ann", "depth": 0,
     "inlineStyleRanges": [
       {"offset": 0, "length": 5, "style": "BOLD"},
       {"offset": 0, "length": 17, "style": "ITALIC"},
       {"offset": 5, "length": 3, "style": "BOLD"}
     ],
     "entityRanges": [{"offset": 14, "length": 3, "key": "e1"}, {"offset": 6, "length": 3, "key": "e2"}],
     "data": {}},
    {"key": "c", "type": "checklist", "text": "milk", "depth": 1,
     "inlineStyleRanges": [], "entityRanges": [], "data": {"checked": true}}
  ],
  "entityMap": {
    "e1": {"type": "mention-person", "mutability": "IMMUTABLE", "data": {"id": "u1", "name": "Ann"}},
    "e2": {"type": "link", "mutability": "MUTABLE", "data": {}}
  }
}`

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"canonical", canonical},
		{"empty data", `{"blocks": [{"key": "a", "type": "unstyled", "text": "", "depth": 0,
			"inlineStyleRanges": [], "entityRanges": [], "data": {}}], "entityMap": {}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Decode([]byte(tt.in))
			require.NoError(t, err)

			out, err := Encode(c)
			require.NoError(t, err)
			assert.JSONEq(t, tt.in, string(out))

			back, err := Decode(out)
			require.NoError(t, err)
			assert.True(t, c.Equal(back))
		})
	}
}

func TestEncodeNormalises(t *testing.T) {
	c, err := Decode([]byte(sample))
	require.NoError(t, err)
	out, err := Encode(c)
	require.NoError(t, err)

	// absent data and string depths come back in canonical form
	assert.True(t, gjson.GetBytes(out, "blocks.1.data").IsObject())
	assert.Equal(t, int64(1), gjson.GetBytes(out, "blocks.2.depth").Int())
	assert.Equal(t, gjson.Number, gjson.GetBytes(out, "blocks.2.depth").Type)

	noMut, err := Decode([]byte(`{"blocks": [{"key": "a"}], "entityMap": {"e": {"type": "link"}}}`))
	require.NoError(t, err)
	out, err = Encode(noMut)
	require.NoError(t, err)
	assert.Equal(t, "MUTABLE", gjson.GetBytes(out, "entityMap.e.mutability").String())
	assert.True(t, gjson.GetBytes(out, "entityMap.e.data").IsObject())
}

func TestEncodeLayout(t *testing.T) {
	c, err := Decode([]byte(sample))
	require.NoError(t, err)
	out, err := Encode(c)
	require.NoError(t, err)

	assert.Equal(t, "Hello Zoë and Ann", gjson.GetBytes(out, "blocks.1.text").String())
	assert.Equal(t, int64(14), gjson.GetBytes(out, "blocks.1.entityRanges.0.offset").Int())
	assert.Equal(t, int64(3), gjson.GetBytes(out, "blocks.1.entityRanges.0.length").Int())
	assert.True(t, gjson.GetBytes(out, "blocks.0.entityRanges").IsArray())
	assert.Equal(t, "IMMUTABLE", gjson.GetBytes(out, "entityMap.e1.mutability").String())
}

func TestStampAndReadMeta(t *testing.T) {
	c, err := Decode([]byte(sample))
	require.NoError(t, err)
	out, err := Encode(c)
	require.NoError(t, err)

	saved := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	stamped, err := Stamp(out, Meta{DocumentID: "doc-1", SavedAt: saved})
	require.NoError(t, err)

	meta := ReadMeta(stamped)
	assert.Equal(t, Version, meta.Version)
	assert.Equal(t, "doc-1", meta.DocumentID)
	assert.True(t, saved.Equal(meta.SavedAt))

	back, err := Decode(stamped)
	require.NoError(t, err)
	assert.True(t, c.Equal(back))

	assert.Equal(t, Meta{}, ReadMeta(out))
}
