package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyNamespace = "catering"

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	Del(context.Context, ...string) *redis.IntCmd
}

// RedisConfig configures the Redis connection. URL takes precedence over Addr.
type RedisConfig struct {
	URL          string
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	TTL          time.Duration
}

// RedisStore keeps sessions in Redis, one key per session value.
type RedisStore struct {
	store cmdable
	raw   *redis.Client
	ttl   time.Duration
}

// NewRedisStore connects to Redis and verifies connectivity.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{store: raw, raw: raw, ttl: cfg.TTL}, nil
}

func optionsFromConfig(cfg RedisConfig) (*redis.Options, error) {
	if cfg.URL == "" && cfg.Addr == "" {
		return nil, errors.New("redis url or address is required")
	}
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	if opts.PoolSize == 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	return opts, nil
}

// Key returns the namespaced Redis key for a session value.
func (s *RedisStore) Key(sessionID, key string) string {
	return strings.Join([]string{keyNamespace, "session", sessionID, key}, ":")
}

func (s *RedisStore) Get(ctx context.Context, sessionID, key string, dst any) (bool, error) {
	if sessionID == "" {
		return false, ErrSessionRequired
	}
	raw, err := s.store.Get(ctx, s.Key(sessionID, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := decode(raw, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (s *RedisStore) Set(ctx context.Context, sessionID, key string, value any) error {
	if sessionID == "" {
		return ErrSessionRequired
	}
	raw, err := encode(value)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, s.Key(sessionID, key), string(raw), s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string, keys ...string) error {
	if sessionID == "" {
		return ErrSessionRequired
	}
	full := make([]string, 0, len(AllKeys))
	for _, k := range keysOrAll(keys) {
		full = append(full, s.Key(sessionID, k))
	}
	if err := s.store.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Ping checks connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.store.Ping(ctx).Err()
}

// Client returns the underlying client, nil when the store wraps a test double.
func (s *RedisStore) Client() *redis.Client {
	return s.raw
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	if s.raw == nil {
		return nil
	}
	return s.raw.Close()
}
