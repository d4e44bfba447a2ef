package content

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/dshills/pagestorm/internal/engine/selection"
)

// arena is the append-only block store shared by all States derived from
// one document. Ids are never reused.
type arena struct {
	mu     sync.Mutex
	blocks []Block
}

func (a *arena) add(b Block) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.blocks = append(a.blocks, b)
	return len(a.blocks) - 1
}

func (a *arena) get(id int) Block {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.blocks[id]
}

// slot places one arena block in document order.
type slot struct {
	key string
	id  int
}

// keyIndex maps keys to positions in an order. It is built on first use and
// shared by every State whose order has the same keys in the same places.
type keyIndex struct {
	once sync.Once
	keys []string
	pos  map[string]int
}

func newKeyIndex(order []slot) *keyIndex {
	keys := make([]string, len(order))
	for i, sl := range order {
		keys[i] = sl.key
	}
	return &keyIndex{keys: keys}
}

func (ix *keyIndex) lookup(key string) (int, bool) {
	ix.once.Do(func() {
		ix.pos = make(map[string]int, len(ix.keys))
		for i, k := range ix.keys {
			ix.pos[k] = i
		}
	})
	p, ok := ix.pos[key]
	return p, ok
}

// State is the full content of a document at one point in time: blocks in
// document order plus the entity registry. State is immutable; every method
// that changes content returns a new State sharing unchanged parts.
type State struct {
	arena    *arena
	order    []slot
	index    *keyIndex
	entities map[string]Entity

	selectionBefore selection.State
	selectionAfter  selection.State
}

// NewState builds a State from blocks in document order and an entity list.
// Keys must be unique among blocks and among entities.
func NewState(blocks []Block, entities []Entity) (*State, error) {
	s := &State{
		arena:    &arena{blocks: make([]Block, 0, len(blocks))},
		order:    make([]slot, 0, len(blocks)),
		entities: make(map[string]Entity, len(entities)),
	}
	seen := make(map[string]struct{}, len(blocks))
	for _, b := range blocks {
		if b.IsZero() {
			b = b.WithKey(GenerateKey())
		}
		if _, dup := seen[b.key]; dup {
			return nil, fmt.Errorf("block %q: %w", b.key, ErrDuplicateKey)
		}
		seen[b.key] = struct{}{}
		s.order = append(s.order, slot{key: b.key, id: s.arena.add(b)})
	}
	for _, e := range entities {
		if _, dup := s.entities[e.key]; dup {
			return nil, fmt.Errorf("entity %q: %w", e.key, ErrDuplicateKey)
		}
		s.entities[e.key] = e
	}
	s.index = newKeyIndex(s.order)

	if len(s.order) > 0 {
		first := s.order[0].key
		s.selectionBefore = selection.Collapsed(first, 0)
		s.selectionAfter = s.selectionBefore
	}
	return s, nil
}

// NewEmpty returns a State holding one empty unstyled block.
func NewEmpty() *State {
	s, _ := NewState([]Block{NewBlock(BlockConfig{})}, nil)
	return s
}

// clone returns a shallow copy sharing every sub-structure.
func (s *State) clone() *State {
	c := *s
	return &c
}

// BlockCount returns the number of blocks.
func (s *State) BlockCount() int {
	return len(s.order)
}

// BlockForKey returns the block with the given key.
func (s *State) BlockForKey(key string) (Block, bool) {
	p, ok := s.index.lookup(key)
	if !ok {
		return Block{}, false
	}
	return s.arena.get(s.order[p].id), true
}

// HasBlock returns true if a block with the given key exists.
func (s *State) HasBlock(key string) bool {
	_, ok := s.index.lookup(key)
	return ok
}

// IndexOf returns the document position of key.
func (s *State) IndexOf(key string) (int, bool) {
	return s.index.lookup(key)
}

// BlockAt returns the block at a document position.
func (s *State) BlockAt(i int) (Block, bool) {
	if i < 0 || i >= len(s.order) {
		return Block{}, false
	}
	return s.arena.get(s.order[i].id), true
}

// BlocksAsArray returns the blocks in document order. The slice is a
// snapshot owned by the caller.
func (s *State) BlocksAsArray() []Block {
	blocks := make([]Block, len(s.order))
	for i, sl := range s.order {
		blocks[i] = s.arena.get(sl.id)
	}
	return blocks
}

// Keys returns the block keys in document order.
func (s *State) Keys() []string {
	keys := make([]string, len(s.order))
	for i, sl := range s.order {
		keys[i] = sl.key
	}
	return keys
}

// FirstBlock returns the first block in document order.
func (s *State) FirstBlock() (Block, bool) {
	return s.BlockAt(0)
}

// LastBlock returns the last block in document order.
func (s *State) LastBlock() (Block, bool) {
	return s.BlockAt(len(s.order) - 1)
}

// BlockBefore returns the block preceding key.
func (s *State) BlockBefore(key string) (Block, bool) {
	p, ok := s.index.lookup(key)
	if !ok {
		return Block{}, false
	}
	return s.BlockAt(p - 1)
}

// BlockAfter returns the block following key.
func (s *State) BlockAfter(key string) (Block, bool) {
	p, ok := s.index.lookup(key)
	if !ok {
		return Block{}, false
	}
	return s.BlockAt(p + 1)
}

// PlainText returns the block texts joined by newlines.
func (s *State) PlainText() string {
	var sb strings.Builder
	for i, sl := range s.order {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(s.arena.get(sl.id).text)
	}
	return sb.String()
}

// HasText returns true if any block holds text.
func (s *State) HasText() bool {
	for _, sl := range s.order {
		if s.arena.get(sl.id).length > 0 {
			return true
		}
	}
	return false
}

// SelectionBefore returns the selection recorded before the change that
// produced this State.
func (s *State) SelectionBefore() selection.State {
	return s.selectionBefore
}

// SelectionAfter returns the selection to apply after this State is committed.
func (s *State) SelectionAfter() selection.State {
	return s.selectionAfter
}

// WithSelectionBefore returns a copy with a different SelectionBefore.
func (s *State) WithSelectionBefore(sel selection.State) *State {
	c := s.clone()
	c.selectionBefore = sel
	return c
}

// WithSelectionAfter returns a copy with a different SelectionAfter.
func (s *State) WithSelectionAfter(sel selection.State) *State {
	c := s.clone()
	c.selectionAfter = sel
	return c
}

// GenerateKey returns a key used by no block and no entity in s.
func (s *State) GenerateKey() string {
	for {
		key := GenerateKey()
		if _, ok := s.index.lookup(key); ok {
			continue
		}
		if _, ok := s.entities[key]; ok {
			continue
		}
		return key
	}
}

// WithBlock returns a State with the block of the same key replaced by b.
// The document order is unchanged, so the key index is shared.
// A block whose key is not present leaves s unchanged.
func (s *State) WithBlock(b Block) *State {
	p, ok := s.index.lookup(b.key)
	if !ok {
		return s
	}
	c := s.clone()
	c.order = slices.Clone(s.order)
	c.order[p].id = s.arena.add(b)
	return c
}

// WithBlocks replaces several blocks at once. Unknown keys are ignored.
func (s *State) WithBlocks(blocks ...Block) *State {
	var c *State
	for _, b := range blocks {
		p, ok := s.index.lookup(b.key)
		if !ok {
			continue
		}
		if c == nil {
			c = s.clone()
			c.order = slices.Clone(s.order)
		}
		c.order[p].id = s.arena.add(b)
	}
	if c == nil {
		return s
	}
	return c
}

// InsertBlocksAfter returns a State with blocks inserted immediately after
// afterKey, or at the top of the document when afterKey is empty. Blocks
// whose key is empty or already in use receive a fresh key.
// An unknown afterKey leaves s unchanged.
func (s *State) InsertBlocksAfter(afterKey string, blocks ...Block) *State {
	at := 0
	if afterKey != "" {
		p, ok := s.index.lookup(afterKey)
		if !ok {
			return s
		}
		at = p + 1
	}
	if len(blocks) == 0 {
		return s
	}

	inserted := make([]slot, 0, len(blocks))
	used := make(map[string]struct{}, len(blocks))
	for _, b := range blocks {
		_, live := s.index.lookup(b.key)
		_, dup := used[b.key]
		if b.key == "" || live || dup {
			b = b.WithKey(s.GenerateKey())
		}
		used[b.key] = struct{}{}
		inserted = append(inserted, slot{key: b.key, id: s.arena.add(b)})
	}

	c := s.clone()
	c.order = slices.Concat(s.order[:at], inserted, s.order[at:])
	c.index = newKeyIndex(c.order)
	return c
}

// RemoveBlocks returns a State without the given blocks. Unknown keys are
// ignored; if none of the keys exist s is returned unchanged.
func (s *State) RemoveBlocks(keys ...string) *State {
	drop := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := s.index.lookup(k); ok {
			drop[k] = struct{}{}
		}
	}
	if len(drop) == 0 {
		return s
	}
	c := s.clone()
	c.order = make([]slot, 0, len(s.order)-len(drop))
	for _, sl := range s.order {
		if _, gone := drop[sl.key]; !gone {
			c.order = append(c.order, sl)
		}
	}
	c.index = newKeyIndex(c.order)
	return c
}

// MoveBlocksAfter returns a State where the given blocks, kept in their
// current relative order, sit immediately after targetKey. An empty target
// moves them to the top. Keys are preserved. Unknown keys, an unknown
// target or a target inside the moved set leave s unchanged.
func (s *State) MoveBlocksAfter(keys []string, targetKey string) *State {
	if len(keys) == 0 {
		return s
	}
	moving := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := s.index.lookup(k); !ok {
			return s
		}
		moving[k] = struct{}{}
	}
	if targetKey != "" {
		if _, ok := s.index.lookup(targetKey); !ok {
			return s
		}
		if _, self := moving[targetKey]; self {
			return s
		}
	}

	var moved, rest []slot
	for _, sl := range s.order {
		if _, ok := moving[sl.key]; ok {
			moved = append(moved, sl)
		} else {
			rest = append(rest, sl)
		}
	}
	at := 0
	if targetKey != "" {
		at = slices.IndexFunc(rest, func(sl slot) bool { return sl.key == targetKey }) + 1
	}

	c := s.clone()
	c.order = slices.Concat(rest[:at], moved, rest[at:])
	c.index = newKeyIndex(c.order)
	return c
}

// ClampSelection validates sel against s. Both keys must exist; offsets
// are clamped to the block lengths and IsBackward is recomputed from
// document order. ok is false for a dangling key. An empty document
// accepts only the zero selection.
func (s *State) ClampSelection(sel selection.State) (selection.State, bool) {
	if len(s.order) == 0 && sel.IsZero() {
		return selection.State{HasFocus: sel.HasFocus}, true
	}
	anchor, ok := s.BlockForKey(sel.AnchorKey)
	if !ok {
		return sel, false
	}
	focus, ok := s.BlockForKey(sel.FocusKey)
	if !ok {
		return sel, false
	}
	sel.AnchorOffset = clampOffset(sel.AnchorOffset, anchor.length)
	sel.FocusOffset = clampOffset(sel.FocusOffset, focus.length)

	ap, _ := s.index.lookup(sel.AnchorKey)
	fp, _ := s.index.lookup(sel.FocusKey)
	sel.IsBackward = fp < ap || (fp == ap && sel.FocusOffset < sel.AnchorOffset)
	return sel, true
}

// Entity returns the entity with the given key.
func (s *State) Entity(key string) (Entity, error) {
	e, ok := s.entities[key]
	if !ok {
		return Entity{}, fmt.Errorf("entity %q: %w", key, ErrEntityNotFound)
	}
	return e, nil
}

// HasEntity returns true if the registry holds key.
func (s *State) HasEntity(key string) bool {
	_, ok := s.entities[key]
	return ok
}

// EntityCount returns the number of registered entities.
func (s *State) EntityCount() int {
	return len(s.entities)
}

// Entities returns the registered entities sorted by key.
func (s *State) Entities() []Entity {
	keys := slices.Sorted(maps.Keys(s.entities))
	out := make([]Entity, len(keys))
	for i, k := range keys {
		out[i] = s.entities[k]
	}
	return out
}

// CreateEntity registers a new entity and returns the new State and the
// generated key.
func (s *State) CreateEntity(typ EntityType, mutability Mutability, data map[string]any) (*State, string) {
	key := s.GenerateKey()
	c := s.clone()
	c.entities = maps.Clone(s.entities)
	if c.entities == nil {
		c.entities = make(map[string]Entity, 1)
	}
	c.entities[key] = NewEntity(key, typ, mutability, data)
	return c, key
}

// MergeEntityData returns a State where the entity's data is overlaid with
// partial. Other entities are untouched. An unknown key leaves s unchanged.
func (s *State) MergeEntityData(key string, partial map[string]any) *State {
	e, ok := s.entities[key]
	if !ok {
		return s
	}
	c := s.clone()
	c.entities = maps.Clone(s.entities)
	c.entities[key] = e.mergeData(partial)
	return c
}

// DanglingEntityKeys returns entity keys referenced by ranges but missing
// from the registry, in document order.
func (s *State) DanglingEntityKeys() []string {
	var missing []string
	for _, sl := range s.order {
		for _, k := range s.arena.get(sl.id).EntityKeys() {
			if _, ok := s.entities[k]; !ok && !slices.Contains(missing, k) {
				missing = append(missing, k)
			}
		}
	}
	return missing
}

// Equal reports whether two States hold the same blocks, in the same order,
// and the same entities. Selections are not compared.
func (s *State) Equal(other *State) bool {
	if s == other {
		return true
	}
	if s == nil || other == nil || len(s.order) != len(other.order) || len(s.entities) != len(other.entities) {
		return false
	}
	for i := range s.order {
		if !s.arena.get(s.order[i].id).Equal(other.arena.get(other.order[i].id)) {
			return false
		}
	}
	for k, e := range s.entities {
		oe, ok := other.entities[k]
		if !ok || !e.Equal(oe) {
			return false
		}
	}
	return true
}
