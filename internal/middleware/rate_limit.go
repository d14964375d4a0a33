package middleware

import (
	"context"
	"hash/fnv"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/catering-service/internal/domain/dto"
	"github.com/guttosm/catering-service/internal/logger"
	"github.com/redis/go-redis/v9"
)

const defaultNumShards = 16

// RateStore counts hits per key in fixed windows.
type RateStore interface {
	// Hit records one request for key and reports the hits so far in the
	// current window and the time until the window resets.
	Hit(ctx context.Context, key string, window time.Duration) (count int, resetIn time.Duration, err error)
}

// RateLimiter enforces a per-window request budget. The storefront limiter is
// keyed by client IP; the staff limiter by user.
type RateLimiter struct {
	store  RateStore
	limit  int
	window time.Duration
	local  *MemoryRateStore
}

// NewRateLimiter creates a limiter backed by an in-process store.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	local := NewMemoryRateStore(defaultNumShards)
	return &RateLimiter{store: local, limit: limit, window: window, local: local}
}

// NewRateLimiterWithStore creates a limiter on a shared store.
func NewRateLimiterWithStore(store RateStore, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{store: store, limit: limit, window: window}
}

// RateLimit limits requests per client IP.
func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return rl.handler(func(c *gin.Context) string { return "ip:" + c.ClientIP() })
}

// UserRateLimit limits requests per signed-in staff member, falling back to
// the client IP.
func (rl *RateLimiter) UserRateLimit() gin.HandlerFunc {
	return rl.handler(func(c *gin.Context) string {
		if id, ok := StaffID(c); ok {
			return "user:" + id.Hex()
		}
		return "ip:" + c.ClientIP()
	})
}

func (rl *RateLimiter) handler(keyOf func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyOf(c)
		count, resetIn, err := rl.store.Hit(c.Request.Context(), key, rl.window)
		if err != nil {
			log := logger.Logger()
			log.Warn().Err(err).Str("key", key).Msg("Rate limit store unavailable, admitting request")
			c.Next()
			return
		}

		remaining := max(rl.limit-count, 0)
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(ceilSeconds(resetIn)))

		if count > rl.limit {
			c.Header("Retry-After", strconv.Itoa(ceilSeconds(resetIn)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewError(dto.ErrCodeRateLimit, dto.MsgRateLimitExceeded).WithRequestID(GetRequestID(c)))
			return
		}
		c.Next()
	}
}

// Stop releases the in-process store's sweeper.
func (rl *RateLimiter) Stop() {
	if rl.local != nil {
		rl.local.Stop()
	}
}

func ceilSeconds(d time.Duration) int {
	return max(int(math.Ceil(d.Seconds())), 1)
}

type rateWindow struct {
	count   int
	resetAt time.Time
}

type rateShard struct {
	mu      sync.Mutex
	windows map[string]*rateWindow
}

// MemoryRateStore keeps counters in FNV-hashed shards to spread lock contention.
type MemoryRateStore struct {
	shards   []*rateShard
	now      func() time.Time
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewMemoryRateStore creates a store with numShards shards and starts its sweeper.
func NewMemoryRateStore(numShards int) *MemoryRateStore {
	if numShards <= 0 {
		numShards = defaultNumShards
	}
	s := &MemoryRateStore{
		shards: make([]*rateShard, numShards),
		now:    time.Now,
		stopCh: make(chan struct{}),
	}
	for i := range s.shards {
		s.shards[i] = &rateShard{windows: make(map[string]*rateWindow)}
	}
	go s.sweep()
	return s
}

func (s *MemoryRateStore) shard(key string) *rateShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return s.shards[h.Sum32()%uint32(len(s.shards))]
}

// Hit implements RateStore.
func (s *MemoryRateStore) Hit(_ context.Context, key string, window time.Duration) (int, time.Duration, error) {
	sh := s.shard(key)
	now := s.now()

	sh.mu.Lock()
	defer sh.mu.Unlock()

	w, ok := sh.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &rateWindow{resetAt: now.Add(window)}
		sh.windows[key] = w
	}
	w.count++
	return w.count, w.resetAt.Sub(now), nil
}

// Len reports how many keys hold a live or not yet swept window.
func (s *MemoryRateStore) Len() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		n += len(sh.windows)
		sh.mu.Unlock()
	}
	return n
}

// Stop halts the sweeper.
func (s *MemoryRateStore) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

func (s *MemoryRateStore) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.purge()
		case <-s.stopCh:
			return
		}
	}
}

func (s *MemoryRateStore) purge() {
	now := s.now()
	for _, sh := range s.shards {
		sh.mu.Lock()
		for key, w := range sh.windows {
			if !now.Before(w.resetAt) {
				delete(sh.windows, key)
			}
		}
		sh.mu.Unlock()
	}
}

type rateCmdable interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	PExpire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	PTTL(ctx context.Context, key string) *redis.DurationCmd
}

const rateKeyPrefix = "catering:ratelimit:"

// RedisRateStore shares fixed-window counters across instances.
type RedisRateStore struct {
	client rateCmdable
}

// NewRedisRateStore creates a store on client.
func NewRedisRateStore(client rateCmdable) *RedisRateStore {
	return &RedisRateStore{client: client}
}

// Hit implements RateStore with INCR and a window-length expiry set on the
// first hit.
func (s *RedisRateStore) Hit(ctx context.Context, key string, window time.Duration) (int, time.Duration, error) {
	key = rateKeyPrefix + key
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	if count == 1 {
		if err := s.client.PExpire(ctx, key, window).Err(); err != nil {
			return 0, 0, err
		}
		return 1, window, nil
	}
	ttl, err := s.client.PTTL(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	if ttl < 0 {
		// The expiry was lost; restart the window.
		if err := s.client.PExpire(ctx, key, window).Err(); err != nil {
			return 0, 0, err
		}
		ttl = window
	}
	return int(count), ttl, nil
}
