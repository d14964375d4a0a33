// Package cache provides a generic LRU cache with per-entry expiry, used for
// hot reads of menu and settings documents.
package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/guttosm/catering-service/internal/metrics"
)

// Cache defines the interface for cache operations.
type Cache[K comparable, V any] interface {
	Get(key K) (V, bool)
	Set(key K, value V)
	Invalidate(key K)
	Clear()
	Stop()
}

// Metrics provides cache performance metrics.
type Metrics struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
	Capacity  int
}

// TTL is a thread-safe LRU cache whose entries expire after a fixed TTL.
type TTL[K comparable, V any] struct {
	mu        sync.Mutex
	capacity  int
	ttl       time.Duration
	now       func() time.Time
	items     map[K]*entry[K, V]
	head      *entry[K, V]
	tail      *entry[K, V]
	stopCh    chan struct{}
	stopOnce  sync.Once
	hits      int64
	misses    int64
	evictions int64
}

type entry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time
	prev      *entry[K, V]
	next      *entry[K, V]
}

// Option configures a TTL cache.
type Option func(*options)

type options struct {
	now             func() time.Time
	cleanupInterval time.Duration
}

// WithClock overrides the time source used for expiry.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithCleanupInterval sets how often expired entries are swept. Zero
// disables the background sweeper.
func WithCleanupInterval(d time.Duration) Option {
	return func(o *options) { o.cleanupInterval = d }
}

// NewTTL creates a cache holding at most capacity entries for ttl each.
func NewTTL[K comparable, V any](capacity int, ttl time.Duration, opts ...Option) *TTL[K, V] {
	o := options{now: time.Now, cleanupInterval: time.Minute}
	for _, opt := range opts {
		opt(&o)
	}
	if capacity < 1 {
		capacity = 1
	}
	c := &TTL[K, V]{
		capacity: capacity,
		ttl:      ttl,
		now:      o.now,
		items:    make(map[K]*entry[K, V], capacity),
		stopCh:   make(chan struct{}),
	}
	if o.cleanupInterval > 0 {
		go c.startCleanup(o.cleanupInterval)
	}
	return c
}

// Get returns the value for key when present and not expired.
func (c *TTL[K, V]) Get(key K) (V, bool) {
	var zero V

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		atomic.AddInt64(&c.misses, 1)
		metrics.RecordCacheOperation("get", "miss")
		return zero, false
	}
	if c.now().After(e.expiresAt) {
		c.removeEntry(e)
		atomic.AddInt64(&c.misses, 1)
		metrics.RecordCacheOperation("get", "expired")
		return zero, false
	}

	c.moveToFront(e)
	atomic.AddInt64(&c.hits, 1)
	metrics.RecordCacheOperation("get", "hit")
	return e.value, true
}

// Set adds or refreshes key. The least recently used entry is evicted when
// the cache is full.
func (c *TTL[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expires := c.now().Add(c.ttl)
	if e, ok := c.items[key]; ok {
		e.value = value
		e.expiresAt = expires
		c.moveToFront(e)
		return
	}

	e := &entry[K, V]{key: key, value: value, expiresAt: expires}
	c.items[key] = e
	c.addToFront(e)

	if len(c.items) > c.capacity {
		c.removeEntry(c.tail)
		atomic.AddInt64(&c.evictions, 1)
		metrics.RecordCacheOperation("evict", "capacity")
	}
	metrics.RecordCacheOperation("set", "success")
	metrics.UpdateCacheMetrics(len(c.items), c.capacity)
}

// Invalidate removes key.
func (c *TTL[K, V]) Invalidate(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		c.removeEntry(e)
		metrics.RecordCacheOperation("invalidate", "success")
	}
}

// Clear removes every entry and resets counters.
func (c *TTL[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[K]*entry[K, V], c.capacity)
	c.head = nil
	c.tail = nil
	atomic.StoreInt64(&c.hits, 0)
	atomic.StoreInt64(&c.misses, 0)
	atomic.StoreInt64(&c.evictions, 0)
	metrics.RecordCacheOperation("clear", "success")
}

// Stop ends the background sweeper. It is safe to call more than once.
func (c *TTL[K, V]) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
}

// Metrics returns current counters.
func (c *TTL[K, V]) Metrics() Metrics {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Metrics{
		Hits:      atomic.LoadInt64(&c.hits),
		Misses:    atomic.LoadInt64(&c.misses),
		Evictions: atomic.LoadInt64(&c.evictions),
		Size:      len(c.items),
		Capacity:  c.capacity,
	}
}

func (c *TTL[K, V]) startCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stopCh:
			return
		}
	}
}

func (c *TTL[K, V]) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for _, e := range c.items {
		if now.After(e.expiresAt) {
			c.removeEntry(e)
		}
	}
}

func (c *TTL[K, V]) removeEntry(e *entry[K, V]) {
	delete(c.items, e.key)
	c.unlink(e)
}

func (c *TTL[K, V]) moveToFront(e *entry[K, V]) {
	if e == c.head {
		return
	}
	c.unlink(e)
	c.addToFront(e)
}

func (c *TTL[K, V]) addToFront(e *entry[K, V]) {
	e.prev = nil
	e.next = c.head
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *TTL[K, V]) unlink(e *entry[K, V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
	e.prev, e.next = nil, nil
}
