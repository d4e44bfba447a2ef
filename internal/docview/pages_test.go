package docview

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/pagestorm/internal/engine/content"
)

func TestPageSource(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"roadmap.json": `{"blocks":[{"key":"a","text":"Roadmap 2026"}]}`,
		"notes.json":   `{"blocks":[{"key":"a","text":"  "}]}`,
		"current.json": `{"blocks":[{"key":"a","text":"Current"}]}`,
		"broken.json":  `{"blocks":`,
		".hidden.json": `{"blocks":[{"key":"a","text":"Hidden"}]}`,
		"readme.txt":   "not a page",
	}
	for name, data := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(data), 0o600))
	}

	src := PageSource{Dir: dir, Exclude: "current"}
	got, err := src.Candidates(context.Background(), "", 10)
	require.NoError(t, err)

	labels := map[string]string{}
	for _, c := range got {
		assert.Equal(t, content.EntityMentionDoc, c.Type)
		labels[c.ID] = c.Label
	}
	assert.Equal(t, map[string]string{"roadmap": "Roadmap 2026", "notes": "notes"}, labels)

	got, err = src.Candidates(context.Background(), "road", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "roadmap", got[0].ID)
}

func TestPageSourceErrors(t *testing.T) {
	_, err := PageSource{Dir: filepath.Join(t.TempDir(), "missing")}.Candidates(context.Background(), "", 10)
	assert.Error(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), []byte(`{"blocks":[]}`), 0o600))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = PageSource{Dir: dir}.Candidates(ctx, "", 10)
	assert.ErrorIs(t, err, context.Canceled)
}
