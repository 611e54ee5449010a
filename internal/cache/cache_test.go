package cache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adforge/ad-voice-service/internal/cache"
)

func TestGetMissOnEmptyCache(t *testing.T) {
	t.Parallel()

	c := cache.New[string](time.Minute)

	_, ok := c.Get("absent")
	assert.False(t, ok)

	stats := c.Stats()
	assert.Equal(t, int64(0), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestPutThenGet(t *testing.T) {
	t.Parallel()

	c := cache.New[string](time.Minute)
	c.Put("k", "v")

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", got)
	assert.Equal(t, 1, c.Len())
}

func TestGetIncrementsEntryHits(t *testing.T) {
	t.Parallel()

	c := cache.New[int](time.Minute)
	c.Put("k", 7)

	assert.Equal(t, int64(0), c.EntryHits("k"))

	_, _ = c.Get("k")
	_, _ = c.Get("k")

	assert.Equal(t, int64(2), c.EntryHits("k"))

	stats := c.Stats()
	assert.Equal(t, int64(2), stats.Hits)
}

func TestExpiredEntryIsEvictedLazily(t *testing.T) {
	t.Parallel()

	current := time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC)
	c := cache.NewWithClock[string](time.Minute, func() time.Time { return current })

	c.Put("k", "v")

	// Still live exactly at the expiry boundary.
	current = current.Add(time.Minute)

	_, ok := c.Get("k")
	assert.True(t, ok)

	// One tick past expiry: the lookup misses and removes the entry.
	current = current.Add(time.Nanosecond)

	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestPutReplacesEntryAndResetsHits(t *testing.T) {
	t.Parallel()

	c := cache.New[string](time.Minute)
	c.Put("k", "old")

	_, _ = c.Get("k")
	require.Equal(t, int64(1), c.EntryHits("k"))

	c.Put("k", "new")

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "new", got)
	assert.Equal(t, int64(1), c.EntryHits("k"))
}

func TestEvict(t *testing.T) {
	t.Parallel()

	c := cache.New[string](time.Minute)
	c.Put("k", "v")
	c.Evict("k")

	_, ok := c.Get("k")
	assert.False(t, ok)
}
