package middleware

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/guttosm/catering-service/internal/domain/model"
	"github.com/guttosm/catering-service/internal/logger"
	"github.com/guttosm/catering-service/internal/metrics"
	"github.com/guttosm/catering-service/internal/service"
)

// AsyncLoggerConfig holds configuration for the async logger.
type AsyncLoggerConfig struct {
	// BufferSize is the number of entries that may wait for a worker.
	BufferSize int
	// NumWorkers is the number of goroutines writing batches.
	NumWorkers int
	// BatchSize caps the entries written in one bulk insert.
	BatchSize int
	// FlushInterval bounds how long a partial batch waits.
	FlushInterval time.Duration
	// WriteTimeout bounds each bulk insert.
	WriteTimeout time.Duration
	// AuditWait is how long an audit entry may wait for buffer space before it
	// is dropped. Request logs never wait.
	AuditWait time.Duration
}

// DefaultAsyncLoggerConfig returns the production settings.
func DefaultAsyncLoggerConfig() AsyncLoggerConfig {
	return AsyncLoggerConfig{
		BufferSize:    1000,
		NumWorkers:    2,
		BatchSize:     50,
		FlushInterval: 500 * time.Millisecond,
		WriteTimeout:  5 * time.Second,
		AuditWait:     100 * time.Millisecond,
	}
}

// AsyncLoggerStats counts entries by outcome.
type AsyncLoggerStats struct {
	Enqueued int64
	Dropped  int64
	Written  int64
	Failed   int64
}

// AsyncLogger batches request and audit log entries into bulk inserts on a
// fixed pool of workers.
type AsyncLogger struct {
	loggingService service.LoggingService
	cfg            AsyncLoggerConfig
	entryCh        chan *model.LogEntry
	stopCh         chan struct{}
	stopped        atomic.Bool
	stopOnce       sync.Once
	wg             sync.WaitGroup

	enqueued atomic.Int64
	dropped  atomic.Int64
	written  atomic.Int64
	failed   atomic.Int64
}

// NewAsyncLogger starts the workers. It returns nil without a logging service.
func NewAsyncLogger(loggingService service.LoggingService, cfg AsyncLoggerConfig) *AsyncLogger {
	if loggingService == nil {
		return nil
	}
	def := DefaultAsyncLoggerConfig()
	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = def.NumWorkers
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = def.FlushInterval
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if cfg.BufferSize < 0 {
		cfg.BufferSize = 0
	}

	al := &AsyncLogger{
		loggingService: loggingService,
		cfg:            cfg,
		entryCh:        make(chan *model.LogEntry, cfg.BufferSize),
		stopCh:         make(chan struct{}),
	}
	for i := 0; i < cfg.NumWorkers; i++ {
		al.wg.Add(1)
		go al.worker()
	}
	return al
}

func (al *AsyncLogger) worker() {
	defer al.wg.Done()

	ticker := time.NewTicker(al.cfg.FlushInterval)
	defer ticker.Stop()

	batch := al.newBatch()
	for {
		select {
		case entry := <-al.entryCh:
			batch = append(batch, entry)
			if len(batch) >= al.cfg.BatchSize {
				batch = al.flush(batch)
			}
		case <-ticker.C:
			batch = al.flush(batch)
		case <-al.stopCh:
			for {
				select {
				case entry := <-al.entryCh:
					batch = append(batch, entry)
					if len(batch) >= al.cfg.BatchSize {
						batch = al.flush(batch)
					}
				default:
					al.flush(batch)
					return
				}
			}
		}
	}
}

func (al *AsyncLogger) newBatch() []*model.LogEntry {
	return make([]*model.LogEntry, 0, al.cfg.BatchSize)
}

// flush writes batch and returns a fresh one.
func (al *AsyncLogger) flush(batch []*model.LogEntry) []*model.LogEntry {
	if len(batch) == 0 {
		return batch
	}
	ctx, cancel := context.WithTimeout(context.Background(), al.cfg.WriteTimeout)
	defer cancel()

	n := len(batch)
	if err := al.loggingService.CreateLogs(ctx, batch); err != nil {
		al.failed.Add(int64(n))
		metrics.RecordLogEntries("failed", n)
		log := logger.Logger()
		log.Warn().Err(err).Int("entries", n).Msg("Failed to write log batch")
	} else {
		al.written.Add(int64(n))
		metrics.RecordLogEntries("written", n)
	}
	return al.newBatch()
}

// Log enqueues entry. Audit entries wait up to AuditWait for space; request
// logs are dropped at once when the buffer is full. It reports whether the
// entry was accepted.
func (al *AsyncLogger) Log(entry *model.LogEntry) bool {
	if al.stopped.Load() {
		return al.drop()
	}
	select {
	case al.entryCh <- entry:
		al.enqueued.Add(1)
		return true
	default:
	}

	if entry.ActionType == "" || al.cfg.AuditWait <= 0 {
		return al.drop()
	}
	timer := time.NewTimer(al.cfg.AuditWait)
	defer timer.Stop()
	select {
	case al.entryCh <- entry:
		al.enqueued.Add(1)
		return true
	case <-timer.C:
		return al.drop()
	}
}

func (al *AsyncLogger) drop() bool {
	al.dropped.Add(1)
	metrics.RecordLogEntries("dropped", 1)
	return false
}

// Stop flushes queued entries and waits for the workers. Later calls to Log
// drop their entries.
func (al *AsyncLogger) Stop() {
	al.stopOnce.Do(func() {
		al.stopped.Store(true)
		close(al.stopCh)
		al.wg.Wait()
	})
}

// Stats returns the current counters.
func (al *AsyncLogger) Stats() AsyncLoggerStats {
	return AsyncLoggerStats{
		Enqueued: al.enqueued.Load(),
		Dropped:  al.dropped.Load(),
		Written:  al.written.Load(),
		Failed:   al.failed.Load(),
	}
}

var (
	globalAsyncLogger   *AsyncLogger
	globalAsyncLoggerMu sync.RWMutex
)

// InitAsyncLogger replaces the process-wide async logger.
func InitAsyncLogger(loggingService service.LoggingService, cfg AsyncLoggerConfig) {
	globalAsyncLoggerMu.Lock()
	defer globalAsyncLoggerMu.Unlock()

	if globalAsyncLogger != nil {
		globalAsyncLogger.Stop()
	}
	globalAsyncLogger = NewAsyncLogger(loggingService, cfg)
}

// GetAsyncLogger returns the process-wide async logger, or nil.
func GetAsyncLogger() *AsyncLogger {
	globalAsyncLoggerMu.RLock()
	defer globalAsyncLoggerMu.RUnlock()
	return globalAsyncLogger
}

// StopAsyncLogger flushes and removes the process-wide async logger.
func StopAsyncLogger() {
	globalAsyncLoggerMu.Lock()
	defer globalAsyncLoggerMu.Unlock()

	if globalAsyncLogger != nil {
		globalAsyncLogger.Stop()
		globalAsyncLogger = nil
	}
}
