// Package cache provides an in-process TTL cache with lazy expiry and
// per-entry hit counting.
package cache

import (
	"sync"
	"sync/atomic"
	"time"
)

// Stats reports cache performance counters.
type Stats struct {
	Entries int
	Hits    int64
	Misses  int64
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
	hits      int64
}

// Cache is a process-wide TTL cache keyed by string fingerprints. Entries are
// fully self-contained values: concurrent writers for the same key simply
// last-write-win, and expired entries are deleted on the first lookup that
// finds them. There is no proactive sweep.
type Cache[V any] struct {
	mu      sync.Mutex
	entries map[string]*entry[V]
	ttl     time.Duration
	now     func() time.Time
	hits    atomic.Int64
	misses  atomic.Int64
}

// New creates a cache whose entries live for ttl after Put.
func New[V any](ttl time.Duration) *Cache[V] {
	return NewWithClock[V](ttl, time.Now)
}

// NewWithClock creates a cache with an injected clock, so expiry behavior is
// testable without real waits.
func NewWithClock[V any](ttl time.Duration, now func() time.Time) *Cache[V] {
	return &Cache[V]{
		mu:      sync.Mutex{},
		entries: make(map[string]*entry[V]),
		ttl:     ttl,
		now:     now,
		hits:    atomic.Int64{},
		misses:  atomic.Int64{},
	}
}

// Get returns the live value for key. A found-but-expired entry is evicted
// and reported as a miss. A hit increments the entry's hit counter.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V

	ent, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)

		return zero, false
	}

	if c.now().After(ent.expiresAt) {
		delete(c.entries, key)
		c.misses.Add(1)

		return zero, false
	}

	ent.hits++
	c.hits.Add(1)

	return ent.value, true
}

// Put stores value under key with expiry = now + TTL and a fresh hit counter.
// An existing entry under the same key is replaced.
func (c *Cache[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &entry[V]{
		value:     value,
		expiresAt: c.now().Add(c.ttl),
		hits:      0,
	}
}

// Evict removes the entry under key, if present.
func (c *Cache[V]) Evict(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// Len returns the number of stored entries, including any not yet lazily
// expired.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// EntryHits returns the hit counter for key, or zero if the entry is absent.
func (c *Cache[V]) EntryHits(key string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	ent, ok := c.entries[key]
	if !ok {
		return 0
	}

	return ent.hits
}

// Stats returns the cache performance counters.
func (c *Cache[V]) Stats() Stats {
	return Stats{
		Entries: c.Len(),
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}
