//go:build integration

package service

import (
	"context"
	"testing"
	"time"

	"github.com/guttosm/catering-service/internal/circuitbreaker"
	"github.com/guttosm/catering-service/internal/domain/model"
	"github.com/guttosm/catering-service/internal/repository"
	"github.com/guttosm/catering-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIntegrationLogging(t *testing.T) (LoggingService, *repository.MongoDB) {
	t.Helper()
	db, err := repository.NewMongoDB(testutil.MongoURI(), testutil.DBName(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(context.Background()) })
	require.NoError(t, db.SetLogsTTL(context.Background(), 30))
	return NewLoggingService(repository.NewLogsRepository(db)), db
}

func TestLoggingService_AuditTrail_Integration(t *testing.T) {
	ctx := context.Background()
	logs, _ := newIntegrationLogging(t)

	placedAt := time.Now().Add(-time.Minute)
	entries := []*model.LogEntry{
		{Level: "info", Message: "GET /api/menu", Method: "GET", Path: "/api/menu", StatusCode: 200, SessionID: "sess-a"},
		{Level: "info", Message: "PUT /api/checkout", Method: "PUT", Path: "/api/checkout", StatusCode: 200, SessionID: "sess-a"},
		{
			Level: "info", Message: "order submitted", SessionID: "sess-a", RequestID: "req-order",
			ActionType: model.ActionOrderSubmit, Timestamp: placedAt,
			Fields: map[string]any{"payment_method": "cash", "grand_total": 221.91},
		},
		{
			Level: "info", Message: "pricing updated", UserEmail: "owner@example.com",
			ActionType: model.ActionSettingsUpdate,
		},
		{Level: "warn", Message: "login failed", UserEmail: "owner@example.com", ActionType: model.ActionLoginFailed},
	}
	require.NoError(t, logs.CreateLogs(ctx, entries))
	for _, e := range entries {
		assert.False(t, e.ID.IsZero(), "ids are assigned before insert")
	}

	t.Run("single entry gets id and timestamp", func(t *testing.T) {
		entry := &model.LogEntry{Level: "error", Message: "payment gateway unavailable", SessionID: "sess-b"}
		require.NoError(t, logs.CreateLog(ctx, entry))
		assert.False(t, entry.ID.IsZero())
		assert.WithinDuration(t, time.Now(), entry.Timestamp, 5*time.Second)
	})

	t.Run("audit only excludes request logs", func(t *testing.T) {
		got, err := logs.QueryLogs(ctx, model.LogQueryOptions{AuditOnly: true})
		require.NoError(t, err)
		require.Len(t, got, 3)
		for _, e := range got {
			assert.NotEmpty(t, e.ActionType)
		}
	})

	t.Run("by action keeps structured fields", func(t *testing.T) {
		got, err := logs.QueryLogs(ctx, model.LogQueryOptions{ActionType: model.ActionOrderSubmit})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "req-order", got[0].RequestID)
		assert.Equal(t, "cash", got[0].Fields["payment_method"])
		assert.WithinDuration(t, placedAt, got[0].Timestamp, time.Millisecond)
	})

	t.Run("by session", func(t *testing.T) {
		count, err := logs.CountLogs(ctx, model.LogQueryOptions{SessionID: "sess-a"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("by staff email and level", func(t *testing.T) {
		got, err := logs.QueryLogs(ctx, model.LogQueryOptions{UserEmail: "owner@example.com", Level: "warn"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, model.ActionLoginFailed, got[0].ActionType)
	})

	t.Run("time window and paging", func(t *testing.T) {
		from := time.Now().Add(-30 * time.Second)
		to := time.Now().Add(time.Minute)

		got, err := logs.QueryLogs(ctx, model.LogQueryOptions{StartTime: &from, EndTime: &to, Limit: 2})
		require.NoError(t, err)
		assert.Len(t, got, 2)

		count, err := logs.CountLogs(ctx, model.LogQueryOptions{StartTime: &from, EndTime: &to})
		require.NoError(t, err)
		assert.Equal(t, int64(5), count, "the backdated order entry falls outside the window")
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		assert.NoError(t, logs.CreateLogs(ctx, nil))
	})
}

func TestLoggingService_CircuitBreaker_Integration(t *testing.T) {
	ctx := context.Background()
	_, db := newIntegrationLogging(t)

	cb := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: 1,
		SuccessThreshold: 1,
		Timeout:          time.Minute,
		Name:             "test-logs",
	})
	logs := NewLoggingService(repository.NewLogsRepositoryWithCircuitBreaker(repository.NewLogsRepository(db), cb))

	require.NoError(t, logs.CreateLog(ctx, &model.LogEntry{Level: "info", Message: "before outage"}))
	assert.False(t, cb.IsOpen())

	require.NoError(t, db.Close(ctx))

	assert.Error(t, logs.CreateLog(ctx, &model.LogEntry{Level: "info", Message: "during outage"}))
	assert.True(t, cb.IsOpen())
	assert.NoError(t, logs.CreateLogs(ctx, []*model.LogEntry{{Level: "info", Message: "dropped while open"}}),
		"log writes are dropped rather than failed while the circuit is open")
}
