package repository

import (
	"context"
	"errors"

	"github.com/guttosm/catering-service/internal/circuitbreaker"
	"github.com/guttosm/catering-service/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// guarded runs fn through cb and returns its result.
func guarded[T any](ctx context.Context, cb *circuitbreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	var result T
	err := cb.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = fn()
		return cbErr
	})
	return result, err
}

// SettingsRepositoryWithCircuitBreaker wraps SettingsRepository with circuit breaker protection.
type SettingsRepositoryWithCircuitBreaker struct {
	repo           SettingsRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewSettingsRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewSettingsRepositoryWithCircuitBreaker(repo SettingsRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *SettingsRepositoryWithCircuitBreaker {
	return &SettingsRepositoryWithCircuitBreaker{repo: repo, circuitBreaker: cb}
}

// GetActive returns the active settings document. When the circuit is open
// it returns nil so callers fall back to built-in defaults.
func (r *SettingsRepositoryWithCircuitBreaker) GetActive(ctx context.Context, kind model.SettingsKind) (*SettingsDocument, error) {
	doc, err := guarded(ctx, r.circuitBreaker, func() (*SettingsDocument, error) {
		return r.repo.GetActive(ctx, kind)
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil, nil
	}
	return doc, err
}

// Create stores a new settings version with circuit breaker protection.
func (r *SettingsRepositoryWithCircuitBreaker) Create(ctx context.Context, kind model.SettingsKind, payload any, createdBy string) (*SettingsDocument, error) {
	return guarded(ctx, r.circuitBreaker, func() (*SettingsDocument, error) {
		return r.repo.Create(ctx, kind, payload, createdBy)
	})
}

// List returns settings history with circuit breaker protection.
func (r *SettingsRepositoryWithCircuitBreaker) List(ctx context.Context, kind model.SettingsKind, limit int) ([]SettingsDocument, error) {
	return guarded(ctx, r.circuitBreaker, func() ([]SettingsDocument, error) {
		return r.repo.List(ctx, kind, limit)
	})
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *SettingsRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}

// MenuRepositoryWithCircuitBreaker wraps MenuRepository with circuit breaker protection.
type MenuRepositoryWithCircuitBreaker struct {
	repo           MenuRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewMenuRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewMenuRepositoryWithCircuitBreaker(repo MenuRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *MenuRepositoryWithCircuitBreaker {
	return &MenuRepositoryWithCircuitBreaker{repo: repo, circuitBreaker: cb}
}

// List returns menu items with circuit breaker protection.
func (r *MenuRepositoryWithCircuitBreaker) List(ctx context.Context, activeOnly bool) ([]model.MenuItem, error) {
	return guarded(ctx, r.circuitBreaker, func() ([]model.MenuItem, error) {
		return r.repo.List(ctx, activeOnly)
	})
}

// FindByID returns one item with circuit breaker protection.
func (r *MenuRepositoryWithCircuitBreaker) FindByID(ctx context.Context, id string) (*model.MenuItem, error) {
	return guarded(ctx, r.circuitBreaker, func() (*model.MenuItem, error) {
		return r.repo.FindByID(ctx, id)
	})
}

// Upsert writes one item with circuit breaker protection.
func (r *MenuRepositoryWithCircuitBreaker) Upsert(ctx context.Context, item *model.MenuItem) error {
	return r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Upsert(ctx, item)
	})
}

// SetActive toggles availability with circuit breaker protection.
func (r *MenuRepositoryWithCircuitBreaker) SetActive(ctx context.Context, id string, active bool) (bool, error) {
	return guarded(ctx, r.circuitBreaker, func() (bool, error) {
		return r.repo.SetActive(ctx, id, active)
	})
}

// UpdatePrices writes derived prices with circuit breaker protection.
func (r *MenuRepositoryWithCircuitBreaker) UpdatePrices(ctx context.Context, items []model.MenuItem) error {
	return r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.UpdatePrices(ctx, items)
	})
}

// OrderRepositoryWithCircuitBreaker wraps OrderRepository with circuit breaker protection.
type OrderRepositoryWithCircuitBreaker struct {
	repo           OrderRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewOrderRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewOrderRepositoryWithCircuitBreaker(repo OrderRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *OrderRepositoryWithCircuitBreaker {
	return &OrderRepositoryWithCircuitBreaker{repo: repo, circuitBreaker: cb}
}

// Create stores an order with circuit breaker protection.
func (r *OrderRepositoryWithCircuitBreaker) Create(ctx context.Context, order *model.Order) error {
	return r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Create(ctx, order)
	})
}

// FindByID returns one order with circuit breaker protection.
func (r *OrderRepositoryWithCircuitBreaker) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Order, error) {
	return guarded(ctx, r.circuitBreaker, func() (*model.Order, error) {
		return r.repo.FindByID(ctx, id)
	})
}

// List returns orders with circuit breaker protection.
func (r *OrderRepositoryWithCircuitBreaker) List(ctx context.Context, filter model.OrderFilter) ([]*model.Order, error) {
	return guarded(ctx, r.circuitBreaker, func() ([]*model.Order, error) {
		return r.repo.List(ctx, filter)
	})
}

// UpdatePaymentStatus applies a status transition with circuit breaker protection.
func (r *OrderRepositoryWithCircuitBreaker) UpdatePaymentStatus(ctx context.Context, id primitive.ObjectID, from, to model.PaymentStatus) (*model.Order, error) {
	var mismatch bool
	order, err := guarded(ctx, r.circuitBreaker, func() (*model.Order, error) {
		order, err := r.repo.UpdatePaymentStatus(ctx, id, from, to)
		if errors.Is(err, ErrStatusMismatch) {
			// a lost race is not a storage failure
			mismatch = true
			return nil, nil
		}
		return order, err
	})
	if mismatch {
		return nil, ErrStatusMismatch
	}
	return order, err
}

// SetPaymentSession records a payment session id with circuit breaker protection.
func (r *OrderRepositoryWithCircuitBreaker) SetPaymentSession(ctx context.Context, id primitive.ObjectID, sessionID string) error {
	return r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.SetPaymentSession(ctx, id, sessionID)
	})
}

// LogsRepositoryWithCircuitBreaker wraps LogsRepository with circuit breaker protection.
type LogsRepositoryWithCircuitBreaker struct {
	repo           LogsRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewLogsRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewLogsRepositoryWithCircuitBreaker(repo LogsRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *LogsRepositoryWithCircuitBreaker {
	return &LogsRepositoryWithCircuitBreaker{repo: repo, circuitBreaker: cb}
}

// Create stores a single log entry. Logging is non-critical, so an open
// circuit drops the entry silently.
func (r *LogsRepositoryWithCircuitBreaker) Create(ctx context.Context, entry *model.LogEntry) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Create(ctx, entry)
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil
	}
	return err
}

// CreateMany stores log entries in bulk, dropping them when the circuit is open.
func (r *LogsRepositoryWithCircuitBreaker) CreateMany(ctx context.Context, entries []*model.LogEntry) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.CreateMany(ctx, entries)
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil
	}
	return err
}

// Query retrieves log entries with circuit breaker protection.
func (r *LogsRepositoryWithCircuitBreaker) Query(ctx context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error) {
	return guarded(ctx, r.circuitBreaker, func() ([]model.LogEntry, error) {
		return r.repo.Query(ctx, opts)
	})
}

// Count returns the count of log entries with circuit breaker protection.
func (r *LogsRepositoryWithCircuitBreaker) Count(ctx context.Context, opts model.LogQueryOptions) (int64, error) {
	return guarded(ctx, r.circuitBreaker, func() (int64, error) {
		return r.repo.Count(ctx, opts)
	})
}
