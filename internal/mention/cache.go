package mention

import (
	"container/list"
	"context"
	"slices"
	"sync"
)

// DefaultCacheSize is the number of tokens a CachedSource remembers.
const DefaultCacheSize = 64

// CachedSource remembers the candidates of recent tokens so that typing
// back over a token does not query the underlying source again. It is
// safe for concurrent use.
type CachedSource struct {
	src Source

	mu      sync.Mutex
	maxSize int
	items   map[cacheKey]*list.Element
	lru     *list.List
}

type cacheKey struct {
	token string
	limit int
}

type cacheEntry struct {
	key   cacheKey
	cands []Candidate
}

var _ Source = (*CachedSource)(nil)

// NewCachedSource wraps src. A size of zero or less uses DefaultCacheSize.
func NewCachedSource(src Source, size int) *CachedSource {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &CachedSource{
		src:     src,
		maxSize: size,
		items:   make(map[cacheKey]*list.Element),
		lru:     list.New(),
	}
}

// Candidates implements Source. Errors are not cached.
func (c *CachedSource) Candidates(ctx context.Context, token string, limit int) ([]Candidate, error) {
	key := cacheKey{token: Fold(token), limit: limit}
	if cands, ok := c.get(key); ok {
		return cands, nil
	}
	cands, err := c.src.Candidates(ctx, token, limit)
	if err != nil {
		return nil, err
	}
	c.set(key, cands)
	return slices.Clone(cands), nil
}

// Invalidate forgets every cached token.
func (c *CachedSource) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.items)
	c.lru.Init()
}

// Len returns the number of cached tokens.
func (c *CachedSource) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

func (c *CachedSource) get(key cacheKey) ([]Candidate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.lru.MoveToFront(elem)
	return slices.Clone(elem.Value.(*cacheEntry).cands), true
}

func (c *CachedSource) set(key cacheKey, cands []Candidate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.items[key]; ok {
		c.lru.MoveToFront(elem)
		elem.Value.(*cacheEntry).cands = slices.Clone(cands)
		return
	}
	if c.lru.Len() >= c.maxSize {
		if oldest := c.lru.Back(); oldest != nil {
			c.lru.Remove(oldest)
			delete(c.items, oldest.Value.(*cacheEntry).key)
		}
	}
	c.items[key] = c.lru.PushFront(&cacheEntry{key: key, cands: slices.Clone(cands)})
}
