package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/guttosm/catering-service/internal/apperrors"
	"github.com/guttosm/catering-service/internal/circuitbreaker"
	"github.com/guttosm/catering-service/internal/domain/model"
	"github.com/guttosm/catering-service/internal/engine"
	"github.com/guttosm/catering-service/internal/metrics"
)

// Distance lookup outcomes recorded in metrics.
const (
	lookupSuccess      = "success"
	lookupFailed       = "failed"
	lookupNoRoute      = "no_route"
	lookupCircuitOpen  = "circuit_open"
	lookupUnconfigured = "unconfigured"
)

// DistanceLookup returns the driving distance in meters between two addresses.
type DistanceLookup interface {
	DrivingDistance(ctx context.Context, origin, destination string) (float64, error)
}

// DeliveryService resolves delivery fees from an address or a manually
// entered mileage.
type DeliveryService interface {
	// Resolve looks up the driving distance from the kitchen. A failed lookup
	// is not an error: the quote is flagged so the customer can enter miles.
	Resolve(ctx context.Context, addr model.Address) (model.DeliveryQuote, error)
	ResolveManual(miles float64) (model.DeliveryQuote, error)
}

// DeliveryServiceImpl implements DeliveryService.
type DeliveryServiceImpl struct {
	lookup   DistanceLookup
	origin   string
	settings engine.Settings
	breaker  *circuitbreaker.CircuitBreaker
	timeout  time.Duration
}

// NewDeliveryService creates a delivery service. lookup may be nil when no
// distance provider is configured, in which case every lookup falls back to
// manual entry.
func NewDeliveryService(lookup DistanceLookup, origin string, settings engine.Settings, timeout time.Duration) *DeliveryServiceImpl {
	cfg := circuitbreaker.DefaultConfig()
	cfg.Name = "distance-lookup"
	cfg.FailureThreshold = 3
	cfg.IsFailure = providerFailure
	return &DeliveryServiceImpl{
		lookup:   lookup,
		origin:   origin,
		settings: settings,
		breaker:  circuitbreaker.New(cfg),
		timeout:  timeout,
	}
}

// Resolve classifies the looked-up distance into a fee tier.
func (s *DeliveryServiceImpl) Resolve(ctx context.Context, addr model.Address) (model.DeliveryQuote, error) {
	dest := addr.String()
	if !addr.Routable() {
		return model.DeliveryQuote{}, apperrors.New(apperrors.CodeValidation, "street and zip are required for delivery")
	}
	if s.lookup == nil {
		metrics.RecordDistanceLookup(lookupUnconfigured)
		return engine.LookupFailedQuote(), nil
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var meters float64
	err := s.breaker.Execute(ctx, func() error {
		var lookupErr error
		meters, lookupErr = s.lookup.DrivingDistance(ctx, s.origin, dest)
		return lookupErr
	})
	if err != nil {
		result := lookupFailed
		switch {
		case errors.Is(err, circuitbreaker.ErrCircuitOpen):
			result = lookupCircuitOpen
		case !providerFailure(err):
			result = lookupNoRoute
		}
		metrics.RecordDistanceLookup(result)
		log.Warn().Err(err).Str("destination", dest).Msg("distance lookup failed, manual entry allowed")
		return engine.LookupFailedQuote(), nil
	}

	metrics.RecordDistanceLookup(lookupSuccess)
	q := s.settings.Fees.Classify(engine.MetersToMiles(meters))
	q.Source = engine.SourceLookup
	return q, nil
}

// providerFailure reports whether err counts against the lookup breaker.
// Unroutable addresses and cancelled requests do not.
func providerFailure(err error) bool {
	switch {
	case errors.Is(err, context.Canceled),
		apperrors.Is(err, apperrors.CodeNotFound),
		apperrors.Is(err, apperrors.CodeValidation):
		return false
	}
	return true
}

// Breaker exposes the lookup circuit breaker for readiness reporting.
func (s *DeliveryServiceImpl) Breaker() *circuitbreaker.CircuitBreaker {
	return s.breaker
}

// ResolveManual classifies a customer-entered mileage.
func (s *DeliveryServiceImpl) ResolveManual(miles float64) (model.DeliveryQuote, error) {
	return s.settings.ManualQuote(miles)
}
