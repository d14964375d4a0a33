package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/guttosm/catering-service/internal/logger"
	"github.com/redis/go-redis/v9"
)

// StoredResponse is a response kept for idempotent replay.
type StoredResponse struct {
	StatusCode  int               `json:"status"`
	ContentType string            `json:"content_type"`
	Headers     map[string]string `json:"headers,omitempty"`
	Body        []byte            `json:"body"`
	StoredAt    time.Time         `json:"stored_at"`
}

// ReplayStore keeps responses by idempotency digest. Store failures are
// treated as misses so a broken store never blocks a request.
type ReplayStore interface {
	Load(ctx context.Context, key string) (*StoredResponse, bool)
	Save(ctx context.Context, key string, resp *StoredResponse)
}

// MemoryReplayStore is an in-process ReplayStore with expiry.
type MemoryReplayStore struct {
	mu    sync.RWMutex
	items map[string]*StoredResponse
	ttl   time.Duration
	now   func() time.Time
	stop  chan struct{}
	once  sync.Once
}

// NewMemoryReplayStore creates a store whose entries expire after ttl and
// starts its sweeper.
func NewMemoryReplayStore(ttl time.Duration) *MemoryReplayStore {
	s := &MemoryReplayStore{
		items: make(map[string]*StoredResponse),
		ttl:   ttl,
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	go s.sweep(time.Minute)
	return s
}

// Load returns a live entry.
func (s *MemoryReplayStore) Load(_ context.Context, key string) (*StoredResponse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	resp, ok := s.items[key]
	if !ok || s.expired(resp) {
		return nil, false
	}
	return resp, true
}

// Save stores resp under key.
func (s *MemoryReplayStore) Save(_ context.Context, key string, resp *StoredResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	resp.StoredAt = s.now()
	s.items[key] = resp
}

// Len reports the number of stored entries, expired ones included.
func (s *MemoryReplayStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Stop ends the sweeper.
func (s *MemoryReplayStore) Stop() {
	s.once.Do(func() { close(s.stop) })
}

func (s *MemoryReplayStore) expired(resp *StoredResponse) bool {
	return s.now().Sub(resp.StoredAt) > s.ttl
}

func (s *MemoryReplayStore) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.purge()
		case <-s.stop:
			return
		}
	}
}

func (s *MemoryReplayStore) purge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, resp := range s.items {
		if s.expired(resp) {
			delete(s.items, key)
		}
	}
}

type replayCmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// RedisReplayStore shares replays across instances through Redis.
type RedisReplayStore struct {
	client replayCmdable
	ttl    time.Duration
}

// NewRedisReplayStore stores replays with the given ttl on client.
func NewRedisReplayStore(client replayCmdable, ttl time.Duration) *RedisReplayStore {
	return &RedisReplayStore{client: client, ttl: ttl}
}

func (s *RedisReplayStore) key(digest string) string {
	return "catering:idempotency:" + digest
}

// Load returns the stored response, treating Redis errors as a miss.
func (s *RedisReplayStore) Load(ctx context.Context, key string) (*StoredResponse, bool) {
	raw, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			l := logger.Logger()
			l.Warn().Err(err).Msg("idempotency lookup failed")
		}
		return nil, false
	}
	var resp StoredResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

// Save writes resp with the store ttl.
func (s *RedisReplayStore) Save(ctx context.Context, key string, resp *StoredResponse) {
	raw, err := json.Marshal(resp)
	if err == nil {
		err = s.client.Set(ctx, s.key(key), string(raw), s.ttl).Err()
	}
	if err != nil {
		l := logger.Logger()
		l.Warn().Err(err).Msg("idempotency store failed")
	}
}
