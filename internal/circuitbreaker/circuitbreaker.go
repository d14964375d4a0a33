// Package circuitbreaker guards calls to MongoDB and the distance lookup so a
// failing dependency degrades to defaults instead of stalling requests.
package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/guttosm/catering-service/internal/metrics"
)

// ErrCircuitOpen is returned without calling the guarded function.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// State is published as a gauge, so the numeric values are stable.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

var stateNames = [...]string{
	StateClosed:   "closed",
	StateOpen:     "open",
	StateHalfOpen: "half-open",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Config tunes a breaker.
type Config struct {
	Name string
	// FailureThreshold consecutive failures open a closed circuit.
	FailureThreshold int
	// SuccessThreshold consecutive successes close a half-open circuit.
	SuccessThreshold int
	// Timeout is how long the circuit stays open before a trial call.
	Timeout time.Duration
	// IsFailure decides whether an error counts against the circuit. Nil
	// counts every error except context cancellation.
	IsFailure func(error) bool
}

// DefaultConfig trips after five straight failures and retries after 30s.
func DefaultConfig() Config {
	return Config{
		Name:             "circuit-breaker",
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Timeout:          30 * time.Second,
	}
}

// CircuitBreaker is safe for concurrent use. Calls made while half-open are
// not limited to one; the first failure among them reopens the circuit.
type CircuitBreaker struct {
	cfg Config
	now func() time.Time

	mu          sync.RWMutex
	state       State
	failures    int
	successes   int
	lastFailure time.Time
}

// New returns a closed breaker.
func New(cfg Config) *CircuitBreaker {
	if cfg.FailureThreshold < 1 {
		cfg.FailureThreshold = 1
	}
	if cfg.SuccessThreshold < 1 {
		cfg.SuccessThreshold = 1
	}
	metrics.SetCircuitBreakerState(cfg.Name, int(StateClosed))
	return &CircuitBreaker{cfg: cfg, now: time.Now}
}

// Execute runs fn unless the circuit is open, and records the outcome.
// The error from fn is returned unchanged.
func (cb *CircuitBreaker) Execute(_ context.Context, fn func() error) error {
	if !cb.admit() {
		return ErrCircuitOpen
	}
	err := fn()
	cb.record(err)
	return err
}

func (cb *CircuitBreaker) admit() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state != StateOpen {
		return true
	}
	if cb.now().Sub(cb.lastFailure) < cb.cfg.Timeout {
		return false
	}
	cb.successes = 0
	cb.moveTo(StateHalfOpen)
	return true
}

func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch {
	case err == nil:
		cb.failures = 0
		if cb.state != StateHalfOpen {
			cb.successes = 0
			return
		}
		cb.successes++
		if cb.successes >= cb.cfg.SuccessThreshold {
			cb.successes = 0
			cb.moveTo(StateClosed)
		}
	case cb.countsAsFailure(err):
		cb.failures++
		cb.lastFailure = cb.now()
		if cb.state == StateHalfOpen || cb.failures >= cb.cfg.FailureThreshold {
			cb.moveTo(StateOpen)
		}
	}
}

func (cb *CircuitBreaker) countsAsFailure(err error) bool {
	if cb.cfg.IsFailure != nil {
		return cb.cfg.IsFailure(err)
	}
	return !errors.Is(err, context.Canceled)
}

// moveTo must be called with mu held.
func (cb *CircuitBreaker) moveTo(next State) {
	if next == cb.state {
		return
	}
	prev := cb.state
	cb.state = next
	metrics.SetCircuitBreakerState(cb.cfg.Name, int(next))

	evt := log.Info()
	if next == StateOpen {
		evt = log.Warn().Int("failures", cb.failures)
	}
	evt.Str("circuit_breaker", cb.cfg.Name).
		Stringer("from", prev).
		Stringer("to", next).
		Msg("circuit breaker state changed")
}

// State returns the current state without advancing an expired open circuit.
func (cb *CircuitBreaker) State() State {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}

// IsOpen reports whether the circuit is open.
func (cb *CircuitBreaker) IsOpen() bool {
	return cb.State() == StateOpen
}

// Stats is a point-in-time view for readiness reports.
type Stats struct {
	Name         string    `json:"name"`
	State        string    `json:"state"`
	FailureCount int       `json:"failure_count"`
	SuccessCount int       `json:"success_count"`
	LastFailure  time.Time `json:"last_failure,omitempty"`
	IsHealthy    bool      `json:"healthy"`
}

func (cb *CircuitBreaker) GetStats() Stats {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return Stats{
		Name:         cb.cfg.Name,
		State:        cb.state.String(),
		FailureCount: cb.failures,
		SuccessCount: cb.successes,
		LastFailure:  cb.lastFailure,
		IsHealthy:    cb.state == StateClosed,
	}
}
