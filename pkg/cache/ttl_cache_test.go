package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestCache(t *testing.T, ttl time.Duration) (*TTLCache[string, int], *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Unix(1000, 0)}
	c := New[string, int](ttl, time.Hour)
	c.now = clock.Now
	t.Cleanup(c.Close)
	return c, clock
}

func TestTTLCache_SetGetExpire(t *testing.T) {
	c, clock := newTestCache(t, time.Minute)

	c.Set("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, 1, v)

	clock.Advance(61 * time.Second)
	_, ok = c.Get("a")
	require.False(t, ok)
	require.Equal(t, 1, c.Len(), "expired entries stay until cleanup")

	c.evictExpired()
	require.Zero(t, c.Len())
}

func TestTTLCache_GetOrCreateSlidesExpiry(t *testing.T) {
	c, clock := newTestCache(t, time.Minute)

	calls := 0
	create := func() int { calls++; return calls }

	require.Equal(t, 1, c.GetOrCreate("s", create))
	clock.Advance(50 * time.Second)
	require.Equal(t, 1, c.GetOrCreate("s", create))
	clock.Advance(50 * time.Second)
	require.Equal(t, 1, c.GetOrCreate("s", create), "access refreshed the entry")

	clock.Advance(2 * time.Minute)
	require.Equal(t, 2, c.GetOrCreate("s", create))
}

func TestTTLCache_OnEvict(t *testing.T) {
	c, clock := newTestCache(t, time.Minute)

	var evicted []string
	c.OnEvict(func(key string, _ int) { evicted = append(evicted, key) })

	c.Set("old", 1)
	clock.Advance(30 * time.Second)
	c.Set("new", 2)
	clock.Advance(45 * time.Second)

	c.evictExpired()
	require.Equal(t, []string{"old"}, evicted)
	_, ok := c.Get("new")
	require.True(t, ok)
}

func TestTTLCache_DeleteAndClose(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	c.Set("a", 1)
	c.Delete("a")
	_, ok := c.Get("a")
	require.False(t, ok)

	c.Close()
	c.Close()
}
