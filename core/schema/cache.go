package schema

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// LoadFunc produces a schema on a cache miss.
type LoadFunc func(ctx context.Context) (*Schema, error)

// cacheEntry is a parsed schema and when it was parsed.
type cacheEntry struct {
	schema *Schema
	built  time.Time
}

// Cache holds parsed schemas keyed by source name.
// Schemas are immutable, so one instance is shared by every caller.
type Cache struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]cacheEntry
	sf      singleflight.Group
	now     func() time.Time
}

// NewCache creates a cache whose entries live for ttl. A zero ttl disables caching.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func (c *Cache) expired(e cacheEntry) bool {
	if c.ttl <= 0 {
		return true
	}
	return c.now().Sub(e.built) > c.ttl
}

// GetOrLoad returns the cached schema for key, or calls load once for all
// concurrent callers asking for the same key.
func (c *Cache) GetOrLoad(ctx context.Context, key string, load LoadFunc) (*Schema, error) {
	if c == nil || c.ttl <= 0 {
		return load(ctx)
	}

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && !c.expired(e) {
		return e.schema, nil
	}

	v, err, _ := c.sf.Do(key, func() (any, error) {
		c.mu.RLock()
		e, ok := c.entries[key]
		c.mu.RUnlock()
		if ok && !c.expired(e) {
			return e.schema, nil
		}

		s, err := load(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = cacheEntry{schema: s, built: c.now()}
		c.mu.Unlock()
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Schema), nil
}

// Invalidate drops the entry for key.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len returns the number of cached entries, fresh or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
