package content

import "maps"

// Entity is out-of-band metadata referenced by EntityRanges.
// Entity is an immutable value type.
type Entity struct {
	key        string
	typ        EntityType
	mutability Mutability
	data       map[string]any
}

// NewEntity builds an entity with an explicit key. It is used when loading
// persisted snapshots; new entities are created through State.CreateEntity.
func NewEntity(key string, typ EntityType, mutability Mutability, data map[string]any) Entity {
	if !mutability.Valid() {
		mutability = Mutable
	}
	return Entity{
		key:        key,
		typ:        typ,
		mutability: mutability,
		data:       maps.Clone(data),
	}
}

// Key returns the entity key.
func (e Entity) Key() string { return e.key }

// Type returns the entity type.
func (e Entity) Type() EntityType { return e.typ }

// Mutability returns the mutability hint.
func (e Entity) Mutability() Mutability { return e.mutability }

// Data returns a shallow copy of the entity data.
func (e Entity) Data() map[string]any {
	return maps.Clone(e.data)
}

// DataValue returns a single data attribute.
func (e Entity) DataValue(name string) (any, bool) {
	v, ok := e.data[name]
	return v, ok
}

// mergeData returns a copy whose data is overlaid with partial.
func (e Entity) mergeData(partial map[string]any) Entity {
	merged := maps.Clone(e.data)
	if merged == nil {
		merged = make(map[string]any, len(partial))
	}
	maps.Copy(merged, partial)
	e.data = merged
	return e
}

// Equal reports whether two entities hold identical metadata.
func (e Entity) Equal(other Entity) bool {
	return e.key == other.key &&
		e.typ == other.typ &&
		e.mutability == other.mutability &&
		dataEqual(e.data, other.data)
}
