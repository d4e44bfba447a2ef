package mention

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingSource counts queries and can be made to fail.
type countingSource struct {
	StaticSource
	calls int
	err   error
}

func (s *countingSource) Candidates(ctx context.Context, token string, limit int) ([]Candidate, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.StaticSource.Candidates(ctx, token, limit)
}

func TestCachedSource(t *testing.T) {
	src := &countingSource{StaticSource: StaticSource{{Label: "Ann"}, {Label: "Bob"}}}
	c := NewCachedSource(src, 2)
	ctx := context.Background()

	got, err := c.Candidates(ctx, "an", 5)
	require.NoError(t, err)
	require.Len(t, got, 1)

	got[0].Label = "changed"
	again, err := c.Candidates(ctx, "AN", 5)
	require.NoError(t, err)
	assert.Equal(t, "Ann", again[0].Label)
	assert.Equal(t, 1, src.calls)

	_, _ = c.Candidates(ctx, "b", 5)
	_, _ = c.Candidates(ctx, "", 5)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 3, src.calls)

	_, _ = c.Candidates(ctx, "an", 5)
	assert.Equal(t, 4, src.calls, "oldest entry was evicted")

	c.Invalidate()
	assert.Equal(t, 0, c.Len())
}

func TestCachedSourceErrorsNotCached(t *testing.T) {
	boom := errors.New("boom")
	src := &countingSource{err: boom}
	c := NewCachedSource(src, 0)

	_, err := c.Candidates(context.Background(), "x", 5)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())

	src.err = nil
	_, err = c.Candidates(context.Background(), "x", 5)
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
	assert.Equal(t, 1, c.Len())
}
