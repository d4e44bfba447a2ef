package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/pagestorm/internal/engine/content"
)

// Version is the layout version written by Encode.
const Version = 1

// ErrInvalidSnapshot indicates data that is not a document.
var ErrInvalidSnapshot = errors.New("snapshot: invalid document")

// Meta is the bookkeeping stored next to the document.
type Meta struct {
	Version    int
	DocumentID string
	SavedAt    time.Time
}

// Decode parses data into a content.State.
func Decode(data []byte) (*content.State, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidSnapshot)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: top level is not an object", ErrInvalidSnapshot)
	}
	if v := root.Get("meta.version"); v.Exists() && v.Int() > Version {
		return nil, fmt.Errorf("%w: version %d is newer than %d", ErrInvalidSnapshot, v.Int(), Version)
	}

	rawBlocks := root.Get("blocks")
	if rawBlocks.Exists() && !rawBlocks.IsArray() {
		return nil, fmt.Errorf("%w: blocks is not an array", ErrInvalidSnapshot)
	}
	var blocks []content.Block
	for i, rb := range rawBlocks.Array() {
		b, err := decodeBlock(rb)
		if err != nil {
			return nil, fmt.Errorf("%w: block %d: %v", ErrInvalidSnapshot, i, err)
		}
		blocks = append(blocks, b)
	}

	var entities []content.Entity
	var entityErr error
	root.Get("entityMap").ForEach(func(k, v gjson.Result) bool {
		e, err := decodeEntity(k.String(), v)
		if err != nil {
			entityErr = fmt.Errorf("%w: entity %q: %v", ErrInvalidSnapshot, k.String(), err)
			return false
		}
		entities = append(entities, e)
		return true
	})
	if entityErr != nil {
		return nil, entityErr
	}

	if len(blocks) == 0 {
		blocks = []content.Block{content.NewBlock(content.BlockConfig{})}
	}
	c, err := content.NewState(blocks, entities)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	return c, nil
}

func decodeBlock(rb gjson.Result) (content.Block, error) {
	if !rb.IsObject() {
		return content.Block{}, errors.New("not an object")
	}
	cfg := content.BlockConfig{
		Key:   rb.Get("key").String(),
		Type:  content.BlockType(rb.Get("type").String()),
		Text:  rb.Get("text").String(),
		Depth: int(rb.Get("depth").Int()),
	}
	for _, r := range rb.Get("inlineStyleRanges").Array() {
		start := int(r.Get("offset").Int())
		cfg.InlineStyleRanges = append(cfg.InlineStyleRanges, content.StyleRange{
			Style: r.Get("style").String(),
			Start: start,
			End:   start + int(r.Get("length").Int()),
		})
	}
	for _, r := range rb.Get("entityRanges").Array() {
		key := r.Get("key").String()
		if key == "" {
			return content.Block{}, errors.New("entity range without key")
		}
		start := int(r.Get("offset").Int())
		cfg.EntityRanges = append(cfg.EntityRanges, content.EntityRange{
			Key:   key,
			Start: start,
			End:   start + int(r.Get("length").Int()),
		})
	}
	if d := rb.Get("data"); d.IsObject() {
		cfg.Data, _ = d.Value().(map[string]any)
	}
	return content.NewBlock(cfg), nil
}

func decodeEntity(key string, v gjson.Result) (content.Entity, error) {
	if !v.IsObject() {
		return content.Entity{}, errors.New("not an object")
	}
	typ := v.Get("type").String()
	if typ == "" {
		return content.Entity{}, errors.New("missing type")
	}
	mut := content.Mutability(v.Get("mutability").String())
	if mut != "" && !mut.Valid() {
		return content.Entity{}, fmt.Errorf("unknown mutability %q", mut)
	}
	var data map[string]any
	if d := v.Get("data"); d.IsObject() {
		data, _ = d.Value().(map[string]any)
	}
	return content.NewEntity(key, content.EntityType(typ), mut, data), nil
}

type rawDocument struct {
	Blocks    []rawBlock           `json:"blocks"`
	EntityMap map[string]rawEntity `json:"entityMap"`
}

type rawBlock struct {
	Key               string           `json:"key"`
	Type              string           `json:"type"`
	Text              string           `json:"text"`
	Depth             int              `json:"depth"`
	InlineStyleRanges []rawStyleRange  `json:"inlineStyleRanges"`
	EntityRanges      []rawEntityRange `json:"entityRanges"`
	Data              map[string]any   `json:"data"`
}

type rawStyleRange struct {
	Offset int    `json:"offset"`
	Length int    `json:"length"`
	Style  string `json:"style"`
}

type rawEntityRange struct {
	Offset int    `json:"offset"`
	Length int    `json:"length"`
	Key    string `json:"key"`
}

type rawEntity struct {
	Type       string         `json:"type"`
	Mutability string         `json:"mutability"`
	Data       map[string]any `json:"data"`
}

// Encode serialises c. Selections and history are not part of a snapshot.
// Every block and entity carries a data object, empty or not.
func Encode(c *content.State) ([]byte, error) {
	doc := rawDocument{EntityMap: map[string]rawEntity{}}
	for _, b := range c.BlocksAsArray() {
		rb := rawBlock{
			Key:               b.Key(),
			Type:              string(b.Type()),
			Text:              b.Text(),
			Depth:             b.Depth(),
			InlineStyleRanges: []rawStyleRange{},
			EntityRanges:      []rawEntityRange{},
			Data:              orEmpty(b.Data()),
		}
		for _, r := range b.InlineStyleRanges() {
			rb.InlineStyleRanges = append(rb.InlineStyleRanges, rawStyleRange{Offset: r.Start, Length: r.Len(), Style: r.Style})
		}
		for _, r := range b.EntityRanges() {
			rb.EntityRanges = append(rb.EntityRanges, rawEntityRange{Offset: r.Start, Length: r.Len(), Key: r.Key})
		}
		doc.Blocks = append(doc.Blocks, rb)
	}
	for _, e := range c.Entities() {
		doc.EntityMap[e.Key()] = rawEntity{
			Type:       string(e.Type()),
			Mutability: string(e.Mutability()),
			Data:       orEmpty(e.Data()),
		}
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("snapshot: encode: %w", err)
	}
	return out, nil
}

// orEmpty makes data serialise as {} rather than null.
func orEmpty(data map[string]any) map[string]any {
	if data == nil {
		return map[string]any{}
	}
	return data
}

// Stamp writes meta into the "meta" object of an encoded document without
// re-encoding the rest. A zero Version is written as the current Version.
func Stamp(data []byte, meta Meta) ([]byte, error) {
	if meta.Version == 0 {
		meta.Version = Version
	}
	out, err := sjson.SetBytes(data, "meta.version", meta.Version)
	if err != nil {
		return nil, fmt.Errorf("snapshot: stamp: %w", err)
	}
	if meta.DocumentID != "" {
		if out, err = sjson.SetBytes(out, "meta.documentId", meta.DocumentID); err != nil {
			return nil, fmt.Errorf("snapshot: stamp: %w", err)
		}
	}
	if !meta.SavedAt.IsZero() {
		if out, err = sjson.SetBytes(out, "meta.savedAt", meta.SavedAt.UTC().Format(time.RFC3339Nano)); err != nil {
			return nil, fmt.Errorf("snapshot: stamp: %w", err)
		}
	}
	return out, nil
}

// ReadMeta returns the meta object of an encoded document. Missing fields
// are left zero.
func ReadMeta(data []byte) Meta {
	m := gjson.GetManyBytes(data, "meta.version", "meta.documentId", "meta.savedAt")
	meta := Meta{
		Version:    int(m[0].Int()),
		DocumentID: m[1].String(),
	}
	if m[2].Exists() {
		meta.SavedAt = m[2].Time()
	}
	return meta
}
