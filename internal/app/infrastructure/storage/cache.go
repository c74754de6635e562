package storage

import (
	"github.com/maypok86/otter/v2"
	"time"
)

// Cache is a string-keyed in-memory cache. A zero capacity means unbounded and
// a zero ttl means entries never expire.
type Cache[T any] struct {
	outer *otter.Cache[string, T]
}

func NewCache[T any](capacity int, ttl time.Duration) *Cache[T] {
	opts := &otter.Options[string, T]{
		InitialCapacity: 64,
	}
	if capacity > 0 {
		opts.MaximumSize = capacity
	}
	if ttl > 0 {
		opts.ExpiryCalculator = otter.ExpiryWriting[string, T](ttl)
	}

	return &Cache[T]{outer: otter.Must(opts)}
}

func (c *Cache[T]) Set(key string, val T) {
	c.outer.Set(key, val)
}

func (c *Cache[T]) Get(key string) (T, bool) {
	return c.outer.GetIfPresent(key)
}

// SetIfAbsent stores val unless key is present and reports whether it was stored.
func (c *Cache[T]) SetIfAbsent(key string, val T) bool {
	_, stored := c.outer.SetIfAbsent(key, val)
	return stored
}

func (c *Cache[T]) Len() int {
	return c.outer.EstimatedSize()
}

func (c *Cache[T]) ClearKey(key string) {
	c.outer.Invalidate(key)
}

func (c *Cache[T]) ClearAll() {
	c.outer.InvalidateAll()
}
