package docview

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/dshills/pagestorm/internal/engine/content"
	"github.com/dshills/pagestorm/internal/mention"
)

// PageSource offers the documents stored by a FilePersister as page
// mentions. The label of a page is the text of its first block, or its id
// when that is blank.
type PageSource struct {
	Dir string

	// Exclude is left out of the results, usually the open document.
	Exclude string
}

var _ mention.Source = PageSource{}

// Candidates implements mention.Source.
func (p PageSource) Candidates(ctx context.Context, token string, limit int) ([]mention.Candidate, error) {
	entries, err := os.ReadDir(p.Dir)
	if err != nil {
		return nil, err
	}
	var cands []mention.Candidate
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".json" || strings.HasPrefix(name, ".") {
			continue
		}
		id := strings.TrimSuffix(name, ".json")
		if id == p.Exclude || name == p.Exclude {
			continue
		}
		data, err := os.ReadFile(filepath.Join(p.Dir, name))
		if err != nil || !gjson.ValidBytes(data) {
			continue
		}
		label := strings.TrimSpace(gjson.GetBytes(data, "blocks.0.text").String())
		if label == "" {
			label = id
		}
		cands = append(cands, mention.Candidate{ID: id, Label: label, Type: content.EntityMentionDoc})
	}

	results := mention.Rank(token, cands, limit)
	out := make([]mention.Candidate, len(results))
	for i, r := range results {
		out[i] = r.Candidate
	}
	return out, nil
}
