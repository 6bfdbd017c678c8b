package baselinecache

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/bikeshare/internal/domain/baseline"
)

type cachedResolution struct {
	payload   baseline.Resolution
	expiresAt time.Time
}

// MemoryCache is an in-process baseline.Cache for tests/dev.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[baseline.Key]cachedResolution
	now     func() time.Time
}

// NewMemoryCache constructs a cache backed by process memory.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[baseline.Key]cachedResolution),
		now:     time.Now,
	}
}

// Get implements baseline.Cache.
func (c *MemoryCache) Get(_ context.Context, key baseline.Key) (baseline.Resolution, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return baseline.Resolution{}, false, nil
	}
	if !entry.expiresAt.IsZero() && entry.expiresAt.Before(c.now()) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return baseline.Resolution{}, false, nil
	}
	return entry.payload, true, nil
}

// Set implements baseline.Cache. A non-positive ttl keeps the entry forever.
func (c *MemoryCache) Set(_ context.Context, key baseline.Key, res baseline.Resolution, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	exp := time.Time{}
	if ttl > 0 {
		exp = c.now().Add(ttl)
	}
	c.entries[key] = cachedResolution{payload: res, expiresAt: exp}
	return nil
}

// Len reports the number of cached keys, expired or not.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

var _ baseline.Cache = (*MemoryCache)(nil)
