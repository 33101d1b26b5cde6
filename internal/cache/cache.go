// Package cache holds whole-collection reads keyed by collection name.
package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value    any
	loadedAt time.Time
}

// Collections is a read-through cache. Entries live for ttl or until the
// collection is invalidated by a write, whichever comes first. A ttl <= 0
// disables expiry (invalidation only).
type Collections struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry
}

// New creates an empty cache.
func New(ttl time.Duration) *Collections {
	return &Collections{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

// Invalidate drops the cached value for key. Call after every write to the
// collection.
func (c *Collections) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

func (c *Collections) get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && c.now().Sub(e.loadedAt) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

func (c *Collections) put(key string, v any) {
	c.mu.Lock()
	c.entries[key] = entry{value: v, loadedAt: c.now()}
	c.mu.Unlock()
}

// Fetch returns the cached value for key or calls load and caches its result.
// Load errors are returned and nothing is cached. Concurrent misses may both
// call load; the last result wins.
func Fetch[T any](ctx context.Context, c *Collections, key string, load func(context.Context) (T, error)) (T, error) {
	if v, ok := c.get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}
	v, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	c.put(key, v)
	return v, nil
}
