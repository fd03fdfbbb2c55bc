// file: internals/helpers/cache/ttl_cache_test.go
package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTLCacheExpiryWithInjectedClock(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	c := New[string, int](time.Minute, clock)
	c.Set("a", 1)

	got, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, got)

	// maju melewati TTL
	now = now.Add(2 * time.Minute)
	_, ok = c.Get("a")
	assert.False(t, ok)

	// entry expired masih dihitung Len sampai Purge
	assert.Equal(t, 1, c.Len())
	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestTTLCacheInvalidate(t *testing.T) {
	c := New[string, string](time.Minute, nil)
	c.Set("k", "v")
	c.Invalidate("k")
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestTTLCacheSetRefreshesExpiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	c := New[string, int](time.Minute, clock)
	c.Set("a", 1)

	now = now.Add(50 * time.Second)
	c.Set("a", 2)

	now = now.Add(30 * time.Second) // 80s dari set pertama, 30s dari kedua
	got, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, got)
}
