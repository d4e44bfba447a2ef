package mention

import (
	"context"
	"maps"

	"github.com/dshills/pagestorm/internal/engine/content"
)

// Candidate is an item offered by a Source.
type Candidate struct {
	// ID identifies the referenced object (user, page, task...).
	ID string

	// Label is the text inserted into the document.
	Label string

	// Type is the entity type created for the mention. Empty means
	// mention-person.
	Type content.EntityType

	// Data is extra entity data.
	Data map[string]any
}

func (c Candidate) entityType() content.EntityType {
	if c.Type == "" {
		return content.EntityMentionPerson
	}
	return c.Type
}

func (c Candidate) entityData() map[string]any {
	data := make(map[string]any, len(c.Data)+2)
	maps.Copy(data, c.Data)
	if c.ID != "" {
		data[DataID] = c.ID
	}
	data[DataName] = c.Label
	return data
}

// Source supplies candidates for a search token.
type Source interface {
	Candidates(ctx context.Context, token string, limit int) ([]Candidate, error)
}

// StaticSource serves a fixed candidate list.
type StaticSource []Candidate

// Candidates returns the items matching token, best first.
func (s StaticSource) Candidates(ctx context.Context, token string, limit int) ([]Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	results := Rank(token, s, limit)
	out := make([]Candidate, len(results))
	for i, r := range results {
		out[i] = r.Candidate
	}
	return out, nil
}
