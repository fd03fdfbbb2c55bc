// file: internals/helpers/cache/ttl_cache.go
package cache

import (
	"sync"
	"time"
)

// TTLCache: cache in-memory sederhana dengan TTL dan clock yang di-inject.
// Dibuat sekali saat bootstrap lalu dipass by reference — bukan singleton
// level package, supaya eviction & waktu bisa dikontrol dari test.
type TTLCache[K comparable, V any] struct {
	mu   sync.RWMutex
	ttl  time.Duration
	now  func() time.Time
	data map[K]entry[V]
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

func New[K comparable, V any](ttl time.Duration, now func() time.Time) *TTLCache[K, V] {
	if now == nil {
		now = time.Now
	}
	return &TTLCache[K, V]{
		ttl:  ttl,
		now:  now,
		data: make(map[K]entry[V]),
	}
}

func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	e, ok := c.data[key]
	c.mu.RUnlock()
	if !ok || c.now().After(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *TTLCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	c.data[key] = entry[V]{value: value, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// Invalidate menghapus satu key (dipakai saat fee structure berubah).
func (c *TTLCache[K, V]) Invalidate(key K) {
	c.mu.Lock()
	delete(c.data, key)
	c.mu.Unlock()
}

// Purge membuang semua entry yang sudah kedaluwarsa.
func (c *TTLCache[K, V]) Purge() {
	now := c.now()
	c.mu.Lock()
	for k, e := range c.data {
		if now.After(e.expiresAt) {
			delete(c.data, k)
		}
	}
	c.mu.Unlock()
}

func (c *TTLCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
