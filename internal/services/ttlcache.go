package services

import (
	"sync"
	"time"
)

type ttlEntry[V any] struct {
	value   V
	expires time.Time
}

// TTLCache is a small concurrency-safe memo with per-entry expiry. When full,
// expired entries are dropped first, then the entry closest to expiry.
type TTLCache[K comparable, V any] struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
	entries    map[K]ttlEntry[V]
}

// NewTTLCache returns an empty cache. maxEntries <= 0 means unbounded.
func NewTTLCache[K comparable, V any](ttl time.Duration, maxEntries int, now func() time.Time) *TTLCache[K, V] {
	if now == nil {
		now = time.Now
	}
	return &TTLCache[K, V]{
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        now,
		entries:    make(map[K]ttlEntry[V]),
	}
}

// Get returns the live value for key.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if !c.now().Before(e.expires) {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value for key for the cache TTL.
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if _, exists := c.entries[key]; !exists && c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		c.evictLocked(now)
	}
	c.entries[key] = ttlEntry[V]{value: value, expires: now.Add(c.ttl)}
}

// Len returns the number of stored entries, live or not.
func (c *TTLCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *TTLCache[K, V]) evictLocked(now time.Time) {
	for k, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, k)
		}
	}
	if len(c.entries) < c.maxEntries {
		return
	}
	var oldest K
	var oldestAt time.Time
	first := true
	for k, e := range c.entries {
		if first || e.expires.Before(oldestAt) {
			oldest, oldestAt, first = k, e.expires, false
		}
	}
	delete(c.entries, oldest)
}
