package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCmdable struct {
	data    map[string]string
	ttls    map[string]time.Duration
	getErr  error
	deleted []string
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{data: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(_ context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	m.data[key] = value.(string)
	m.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(_ context.Context, key string) *redis.StringCmd {
	if m.getErr != nil {
		return redis.NewStringResult("", m.getErr)
	}
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := m.data[k]; ok {
			delete(m.data, k)
			n++
		}
		m.deleted = append(m.deleted, k)
	}
	return redis.NewIntResult(n, nil)
}

func TestRedisStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	s := &RedisStore{store: mock, ttl: 2 * time.Hour}

	require.NoError(t, s.Set(ctx, "abc", KeyCart, cartValue{Lines: []string{"dal"}}))
	assert.Equal(t, `{"lines":["dal"]}`, mock.data["catering:session:abc:cart"])
	assert.Equal(t, 2*time.Hour, mock.ttls["catering:session:abc:cart"])

	var got cartValue
	found, err := s.Get(ctx, "abc", KeyCart, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"dal"}, got.Lines)

	require.NoError(t, s.Clear(ctx, "abc"))
	assert.ElementsMatch(t, []string{
		"catering:session:abc:cart", "catering:session:abc:package_meta", "catering:session:abc:checkout",
	}, mock.deleted)

	found, err = s.Get(ctx, "abc", KeyCart, &got)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, s.Ping(ctx))
}

func TestRedisStore_Errors(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	mock.getErr = errors.New("connection reset")
	s := &RedisStore{store: mock}

	var got cartValue
	_, err := s.Get(ctx, "abc", KeyCart, &got)
	assert.ErrorContains(t, err, "connection reset")

	_, err = s.Get(ctx, "", KeyCart, &got)
	assert.ErrorIs(t, err, ErrSessionRequired)

	mock.getErr = nil
	mock.data["catering:session:abc:cart"] = "not json"
	_, err = s.Get(ctx, "abc", KeyCart, &got)
	assert.ErrorContains(t, err, "decode session value")
}

func TestOptionsFromConfig(t *testing.T) {
	_, err := optionsFromConfig(RedisConfig{})
	assert.Error(t, err)

	opts, err := optionsFromConfig(RedisConfig{Addr: "localhost:6379", DB: 2, PoolSize: 5})
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 5, opts.PoolSize)

	opts, err = optionsFromConfig(RedisConfig{URL: "redis://:secret@cache:6380/3"})
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 3, opts.DB)

	_, err = optionsFromConfig(RedisConfig{URL: "http://bad"})
	assert.Error(t, err)
}
