package rdx

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is a process-local Cache with per-key expiry.
type MemoryCache struct {
	mu    sync.Mutex
	items map[string]memItem
	now   func() time.Time
}

type memItem struct {
	val     string
	expires time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string]memItem), now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	it, ok := c.items[key]
	if !ok {
		return "", false, nil
	}
	if !it.expires.IsZero() && c.now().After(it.expires) {
		delete(c.items, key)
		return "", false, nil
	}
	return it.val, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key, val string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	it := memItem{val: val}
	if ttl > 0 {
		it.expires = c.now().Add(ttl)
	}
	c.items[key] = it
	return nil
}

func (c *MemoryCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.items, k)
	}
	return nil
}
