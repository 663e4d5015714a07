// Package cache: Generic in-memory TTL cache.
//
// TTLCache, son erişimden belirli bir süre sonra düşen kayıtları tutar.
// Oturum başına ekran durumu (liste/form) burada yaşar: kullanıcı ekranı
// terk ettiğinde veya oturum sessiz kaldığında durum kendiliğinden atılır.
//
// sync.RWMutex ile korunur; stale entry'ler periyodik olarak temizlenir.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache, generic in-memory TTL cache.
//
//	c := cache.New[string, *Session](30*time.Minute, time.Minute)
//	s := c.GetOrCreate(sid, newSession)
type TTLCache[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]entry[V]
	ttl     time.Duration
	now     func() time.Time

	// onEvict, süresi dolup temizlenen her kayıt için çağrılır (lock dışında).
	onEvict func(key K, value V)

	stopCleanup chan struct{}
	closeOnce   sync.Once
}

// New, yeni bir TTLCache oluşturur ve periyodik temizleme goroutine'ini başlatır.
// cleanupInterval < ttl olmalıdır.
func New[K comparable, V any](ttl, cleanupInterval time.Duration) *TTLCache[K, V] {
	c := &TTLCache[K, V]{
		entries:     make(map[K]entry[V]),
		ttl:         ttl,
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.evictExpired()
			case <-c.stopCleanup:
				return
			}
		}
	}()

	return c
}

// OnEvict, temizlenen kayıtlar için callback ayarlar. Kullanımdan önce çağrılmalı.
func (c *TTLCache[K, V]) OnEvict(fn func(key K, value V)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEvict = fn
}

// Get, (value, true) döner eğer key varsa ve süresi dolmamışsa.
// Okuma süreyi uzatmaz; uzatmak için GetOrCreate veya Set kullanılır.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || c.now().After(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// GetOrCreate, canlı kaydı döner veya create ile yenisini oluşturur.
// Her iki durumda da kaydın süresi yeniden başlar (kayan süre).
// create lock altında çağrılır, bloklamamalıdır.
func (c *TTLCache[K, V]) GetOrCreate(key K, create func() V) V {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	e, ok := c.entries[key]
	if !ok || now.After(e.expiresAt) {
		e.value = create()
	}
	e.expiresAt = now.Add(c.ttl)
	c.entries[key] = e
	return e.value
}

// Set, cache'e bir değer yazar (TTL ile).
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{
		value:     value,
		expiresAt: c.now().Add(c.ttl),
	}
}

// Delete, belirli bir key'i cache'ten siler.
func (c *TTLCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// Len, cache'teki toplam entry sayısını döner (süresi dolmuşlar dahil).
func (c *TTLCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Close, periyodik temizleme goroutine'ini durdurur. Birden fazla çağrılabilir.
func (c *TTLCache[K, V]) Close() {
	c.closeOnce.Do(func() { close(c.stopCleanup) })
}

// evictExpired, süresi dolan entry'leri map'ten fiziksel olarak siler.
func (c *TTLCache[K, V]) evictExpired() {
	type evicted struct {
		key   K
		value V
	}

	c.mu.Lock()
	now := c.now()
	var gone []evicted
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			gone = append(gone, evicted{key, e.value})
		}
	}
	onEvict := c.onEvict
	c.mu.Unlock()

	if onEvict == nil {
		return
	}
	for _, g := range gone {
		onEvict(g.key, g.value)
	}
}
