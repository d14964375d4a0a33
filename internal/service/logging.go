package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/guttosm/catering-service/internal/domain/model"
	"github.com/guttosm/catering-service/internal/repository"
)

// maxLogQueryLimit caps a single log query; zero limits are raised to it.
const maxLogQueryLimit = 1000

// ErrUnknownAuditAction is returned for entries whose action is not in the
// audit catalogue.
var ErrUnknownAuditAction = errors.New("unknown audit action")

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// LoggingService persists request and audit logs.
type LoggingService interface {
	CreateLog(ctx context.Context, entry *model.LogEntry) error
	// CreateLogs stores a batch; entries that fail normalisation are skipped
	// and reported together after the rest are written.
	CreateLogs(ctx context.Context, entries []*model.LogEntry) error
	QueryLogs(ctx context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error)
	CountLogs(ctx context.Context, opts model.LogQueryOptions) (int64, error)
}

// LoggingServiceImpl normalises entries before they reach the logs store.
type LoggingServiceImpl struct {
	repo repository.LogsRepositoryInterface
}

// NewLoggingService creates a logging service over repo.
func NewLoggingService(repo repository.LogsRepositoryInterface) LoggingService {
	return &LoggingServiceImpl{repo: repo}
}

func (s *LoggingServiceImpl) CreateLog(ctx context.Context, entry *model.LogEntry) error {
	if err := normaliseEntry(entry); err != nil {
		return err
	}
	return s.repo.Create(ctx, entry)
}

func (s *LoggingServiceImpl) CreateLogs(ctx context.Context, entries []*model.LogEntry) error {
	valid := make([]*model.LogEntry, 0, len(entries))
	var errs []error
	for _, entry := range entries {
		if err := normaliseEntry(entry); err != nil {
			errs = append(errs, err)
			continue
		}
		valid = append(valid, entry)
	}
	if len(valid) > 0 {
		if err := s.repo.CreateMany(ctx, valid); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *LoggingServiceImpl) QueryLogs(ctx context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error) {
	return s.repo.Query(ctx, boundQuery(opts))
}

func (s *LoggingServiceImpl) CountLogs(ctx context.Context, opts model.LogQueryOptions) (int64, error) {
	opts = boundQuery(opts)
	opts.Limit, opts.Skip = 0, 0
	return s.repo.Count(ctx, opts)
}

// normaliseEntry lower-cases the level, defaulting unknown levels to info,
// and rejects actions outside the audit catalogue.
func normaliseEntry(entry *model.LogEntry) error {
	if entry == nil {
		return errors.New("nil log entry")
	}
	entry.Level = strings.ToLower(strings.TrimSpace(entry.Level))
	if !logLevels[entry.Level] {
		entry.Level = "info"
	}
	if entry.ActionType != "" && !entry.ActionType.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownAuditAction, entry.ActionType)
	}
	return nil
}

func boundQuery(opts model.LogQueryOptions) model.LogQueryOptions {
	if opts.Limit <= 0 || opts.Limit > maxLogQueryLimit {
		opts.Limit = maxLogQueryLimit
	}
	if opts.Skip < 0 {
		opts.Skip = 0
	}
	return opts
}
