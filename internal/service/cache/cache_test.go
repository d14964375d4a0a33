package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
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
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func newTestCache(capacity int, ttl time.Duration) (*TTL[string, int], *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 11, 2, 9, 0, 0, 0, time.UTC)}
	return NewTTL[string, int](capacity, ttl, WithClock(clock.Now), WithCleanupInterval(0)), clock
}

func TestTTL_Get(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(*TTL[string, int], *fakeClock)
		key       string
		wantValue int
		wantFound bool
	}{
		{
			name:      "returns value when present",
			setup:     func(c *TTL[string, int], _ *fakeClock) { c.Set("packages", 3) },
			key:       "packages",
			wantValue: 3,
			wantFound: true,
		},
		{
			name:  "misses unknown key",
			setup: func(*TTL[string, int], *fakeClock) {},
			key:   "hours",
		},
		{
			name: "misses after expiry",
			setup: func(c *TTL[string, int], clock *fakeClock) {
				c.Set("pricing", 1)
				clock.Advance(2 * time.Minute)
			},
			key: "pricing",
		},
		{
			name: "set refreshes expiry",
			setup: func(c *TTL[string, int], clock *fakeClock) {
				c.Set("menu", 1)
				clock.Advance(50 * time.Second)
				c.Set("menu", 2)
				clock.Advance(50 * time.Second)
			},
			key:       "menu",
			wantValue: 2,
			wantFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, clock := newTestCache(10, time.Minute)
			defer c.Stop()
			tt.setup(c, clock)

			got, found := c.Get(tt.key)

			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.wantValue, got)
		})
	}
}

func TestTTL_EvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)
	defer c.Stop()

	c.Set("a", 1)
	c.Set("b", 2)
	_, _ = c.Get("a")
	c.Set("c", 3)

	_, foundB := c.Get("b")
	_, foundA := c.Get("a")
	_, foundC := c.Get("c")
	assert.False(t, foundB)
	assert.True(t, foundA)
	assert.True(t, foundC)
	assert.Equal(t, int64(1), c.Metrics().Evictions)
}

func TestTTL_InvalidateAndClear(t *testing.T) {
	c, _ := newTestCache(5, time.Minute)
	defer c.Stop()

	c.Set("a", 1)
	c.Set("b", 2)
	c.Invalidate("a")
	c.Invalidate("missing")

	_, found := c.Get("a")
	assert.False(t, found)
	assert.Equal(t, 1, c.Metrics().Size)

	c.Clear()
	m := c.Metrics()
	assert.Equal(t, 0, m.Size)
	assert.Zero(t, m.Hits)
	assert.Zero(t, m.Misses)
}

func TestTTL_CleanupRemovesExpired(t *testing.T) {
	c, clock := newTestCache(5, time.Minute)
	defer c.Stop()

	c.Set("old", 1)
	clock.Advance(30 * time.Second)
	c.Set("new", 2)
	clock.Advance(45 * time.Second)
	c.cleanup()

	assert.Equal(t, 1, c.Metrics().Size)
	v, ok := c.Get("new")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestTTL_ConcurrentAccess(t *testing.T) {
	c, _ := newTestCache(16, time.Minute)
	defer c.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := string(rune('a' + (n+j)%20))
				c.Set(key, j)
				_, _ = c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Metrics().Size, 16)
}

func TestTTL_StopIsIdempotent(t *testing.T) {
	c := NewTTL[string, int](4, time.Minute, WithCleanupInterval(10*time.Millisecond))
	c.Stop()
	assert.NotPanics(t, c.Stop)
}
