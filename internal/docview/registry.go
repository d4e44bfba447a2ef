package docview

import (
	"maps"
	"slices"
	"sync"
)

// Registry holds sub-editor instances keyed by id. Each view owns one and
// clears it on Close.
type Registry struct {
	mu    sync.RWMutex
	items map[string]entry
	seq   uint64
}

type entry struct {
	inst any
	seq  uint64
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{items: make(map[string]entry)}
}

// Register stores inst under id, replacing any previous instance. The
// returned function removes it again if it is still the registered one.
func (r *Registry) Register(id string, inst any) (unregister func()) {
	r.mu.Lock()
	r.seq++
	seq := r.seq
	r.items[id] = entry{inst: inst, seq: seq}
	r.mu.Unlock()
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if cur, ok := r.items[id]; ok && cur.seq == seq {
			delete(r.items, id)
		}
	}
}

// Lookup returns the instance registered under id.
func (r *Registry) Lookup(id string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.items[id]
	return e.inst, ok
}

// IDs returns the registered ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.items))
}

// Len returns the number of instances.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// drain empties the registry and returns what it held, by id order.
func (r *Registry) drain() []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]any, 0, len(r.items))
	for _, id := range slices.Sorted(maps.Keys(r.items)) {
		out = append(out, r.items[id].inst)
	}
	clear(r.items)
	return out
}
