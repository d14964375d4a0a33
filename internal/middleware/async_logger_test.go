package middleware

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/guttosm/catering-service/internal/domain/model"
	"github.com/guttosm/catering-service/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func requestEntry(path string) *model.LogEntry {
	return &model.LogEntry{Message: "HTTP request", Path: path, StatusCode: 200}
}

func auditLogEntry(action model.AuditAction) *model.LogEntry {
	return &model.LogEntry{Message: "audit", ActionType: action}
}

// batchRecorder collects every entry handed to CreateLogs.
type batchRecorder struct {
	mu      sync.Mutex
	batches [][]*model.LogEntry
}

func (r *batchRecorder) record(args mock.Arguments) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, args.Get(1).([]*model.LogEntry))
}

func (r *batchRecorder) total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, b := range r.batches {
		n += len(b)
	}
	return n
}

func TestDefaultAsyncLoggerConfig(t *testing.T) {
	cfg := DefaultAsyncLoggerConfig()

	assert.Equal(t, 1000, cfg.BufferSize)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.FlushInterval)
	assert.Equal(t, 5*time.Second, cfg.WriteTimeout)
	assert.Positive(t, cfg.AuditWait)
}

func TestNewAsyncLogger_NilService(t *testing.T) {
	assert.Nil(t, NewAsyncLogger(nil, DefaultAsyncLoggerConfig()))
}

func TestAsyncLogger_BatchesBySize(t *testing.T) {
	ls := mocks.NewMockLoggingService(t)
	rec := &batchRecorder{}
	ls.On("CreateLogs", mock.Anything, mock.Anything).Run(rec.record).Return(nil)

	al := NewAsyncLogger(ls, AsyncLoggerConfig{BufferSize: 10, NumWorkers: 1, BatchSize: 3, FlushInterval: time.Hour})
	for i := 0; i < 7; i++ {
		require.True(t, al.Log(requestEntry("/api/menu")))
	}
	al.Stop()

	assert.Equal(t, 7, rec.total())
	for _, b := range rec.batches {
		assert.LessOrEqual(t, len(b), 3)
	}
	assert.Equal(t, AsyncLoggerStats{Enqueued: 7, Written: 7}, al.Stats())
}

func TestAsyncLogger_FlushesPartialBatchOnInterval(t *testing.T) {
	ls := mocks.NewMockLoggingService(t)
	flushed := make(chan []*model.LogEntry, 1)
	ls.On("CreateLogs", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { flushed <- args.Get(1).([]*model.LogEntry) }).
		Return(nil).Once()

	al := NewAsyncLogger(ls, AsyncLoggerConfig{BufferSize: 10, NumWorkers: 1, BatchSize: 50, FlushInterval: 20 * time.Millisecond})
	defer al.Stop()
	al.Log(auditLogEntry(model.ActionOrderSubmit))

	select {
	case batch := <-flushed:
		require.Len(t, batch, 1)
		assert.Equal(t, model.ActionOrderSubmit, batch[0].ActionType)
	case <-time.After(2 * time.Second):
		t.Fatal("partial batch was not flushed")
	}
}

func TestAsyncLogger_CountsFailedBatches(t *testing.T) {
	ls := mocks.NewMockLoggingService(t)
	ls.On("CreateLogs", mock.Anything, mock.Anything).Return(errors.New("mongo unavailable"))

	al := NewAsyncLogger(ls, AsyncLoggerConfig{BufferSize: 10, NumWorkers: 1, BatchSize: 2, FlushInterval: time.Hour})
	al.Log(requestEntry("/api/cart"))
	al.Log(requestEntry("/api/cart"))
	al.Log(requestEntry("/api/cart"))
	al.Stop()

	stats := al.Stats()
	assert.Equal(t, int64(3), stats.Failed)
	assert.Zero(t, stats.Written)
}

func TestAsyncLogger_FullBuffer(t *testing.T) {
	ls := mocks.NewMockLoggingService(t)
	release := make(chan struct{})
	ls.On("CreateLogs", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { <-release }).
		Return(nil)

	al := NewAsyncLogger(ls, AsyncLoggerConfig{
		BufferSize: 1, NumWorkers: 1, BatchSize: 1, FlushInterval: time.Hour, AuditWait: 30 * time.Millisecond,
	})

	// The worker takes the first entry and blocks in CreateLogs; the second fills the buffer.
	require.True(t, al.Log(requestEntry("/api/menu")))
	require.Eventually(t, func() bool { return len(al.entryCh) == 0 }, time.Second, time.Millisecond)
	require.True(t, al.Log(requestEntry("/api/menu")))

	start := time.Now()
	assert.False(t, al.Log(requestEntry("/api/menu")), "request logs are dropped at once")
	assert.Less(t, time.Since(start), 30*time.Millisecond)

	start = time.Now()
	assert.False(t, al.Log(auditLogEntry(model.ActionSettingsUpdate)), "audit entries give up after waiting")
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)

	close(release)
	al.Stop()
	stats := al.Stats()
	assert.Equal(t, int64(2), stats.Dropped)
	assert.Equal(t, int64(2), stats.Written)
}

func TestAsyncLogger_LogAfterStop(t *testing.T) {
	ls := mocks.NewMockLoggingService(t)
	al := NewAsyncLogger(ls, DefaultAsyncLoggerConfig())
	al.Stop()
	al.Stop()

	assert.False(t, al.Log(auditLogEntry(model.ActionLogout)))
	assert.Equal(t, int64(1), al.Stats().Dropped)
}

func TestGlobalAsyncLogger(t *testing.T) {
	ls := mocks.NewMockLoggingService(t)
	InitAsyncLogger(ls, DefaultAsyncLoggerConfig())
	require.NotNil(t, GetAsyncLogger())

	first := GetAsyncLogger()
	InitAsyncLogger(ls, DefaultAsyncLoggerConfig())
	assert.NotSame(t, first, GetAsyncLogger())
	assert.False(t, first.Log(requestEntry("/api/menu")), "replaced logger is stopped")

	StopAsyncLogger()
	assert.Nil(t, GetAsyncLogger())
	StopAsyncLogger()
}
