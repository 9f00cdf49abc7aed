package usecase

import (
	"context"
	"sync"

	"github.com/secmon-lab/stabdash/pkg/domain/model"
)

// LoadFunc produces a fresh dataset from the store
type LoadFunc func(ctx context.Context) (*model.Dataset, error)

// TableCache holds one loaded dataset until it is invalidated. Concurrent
// callers of Get share a single load; a failed load is not cached.
type TableCache struct {
	load LoadFunc

	mu   sync.Mutex
	data *model.Dataset
}

// NewTableCache creates an empty cache backed by load
func NewTableCache(load LoadFunc) *TableCache {
	return &TableCache{load: load}
}

// Get returns the cached dataset, loading it on first use
func (c *TableCache) Get(ctx context.Context) (*model.Dataset, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.data != nil {
		return c.data, nil
	}
	data, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	c.data = data
	return data, nil
}

// Peek returns the cached dataset without loading
func (c *TableCache) Peek() (*model.Dataset, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data, c.data != nil
}

// Invalidate drops the cached dataset; the next Get loads again
func (c *TableCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = nil
}

// Reload invalidates the cache and loads immediately
func (c *TableCache) Reload(ctx context.Context) (*model.Dataset, error) {
	c.Invalidate()
	return c.Get(ctx)
}
