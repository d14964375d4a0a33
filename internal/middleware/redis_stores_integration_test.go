//go:build integration

package middleware

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/guttosm/catering-service/internal/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func integrationRedis(t *testing.T) *redis.Client {
	t.Helper()
	opts, err := redis.ParseURL(testutil.RedisURL())
	require.NoError(t, err)
	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisRateStore_Integration(t *testing.T) {
	ctx := context.Background()
	store := NewRedisRateStore(integrationRedis(t))
	key := "ip:" + testutil.DBName(t)

	for want := 1; want <= 3; want++ {
		count, resetIn, err := store.Hit(ctx, key, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, count)
		assert.Greater(t, resetIn, 55*time.Second)
		assert.LessOrEqual(t, resetIn, time.Minute)
	}

	t.Run("window expiry resets the count", func(t *testing.T) {
		short := key + ":short"
		_, _, err := store.Hit(ctx, short, 200*time.Millisecond)
		require.NoError(t, err)

		require.Eventually(t, func() bool {
			count, _, err := store.Hit(ctx, short, 200*time.Millisecond)
			return err == nil && count == 1
		}, 3*time.Second, 250*time.Millisecond)
	})
}

func TestRedisReplayStore_Integration(t *testing.T) {
	ctx := context.Background()
	store := NewRedisReplayStore(integrationRedis(t), time.Minute)
	key := testutil.DBName(t)

	_, found := store.Load(ctx, key)
	assert.False(t, found)

	store.Save(ctx, key, &StoredResponse{
		StatusCode:  http.StatusCreated,
		ContentType: "application/json",
		Headers:     map[string]string{"X-Request-ID": "req-1"},
		Body:        []byte(`{"data":{"order_id":"6730f1c2a9e4d1b2c3d4e5f6"}}`),
		StoredAt:    time.Now(),
	})

	got, found := store.Load(ctx, key)
	require.True(t, found)
	assert.Equal(t, http.StatusCreated, got.StatusCode)
	assert.JSONEq(t, `{"data":{"order_id":"6730f1c2a9e4d1b2c3d4e5f6"}}`, string(got.Body))
	assert.Equal(t, "req-1", got.Headers["X-Request-ID"])
}
