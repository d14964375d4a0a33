package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/catering-service/internal/circuitbreaker"
)

// DefaultProbeTimeout bounds every dependency ping in a readiness check.
const DefaultProbeTimeout = 2 * time.Second

// Readiness states.
const (
	ReadyOK          = "ok"
	ReadyDegraded    = "degraded"
	ReadyUnavailable = "unavailable"
)

// HealthChecker probes one dependency.
type HealthChecker interface {
	Check(ctx context.Context) error
}

// HealthCheckFunc adapts a ping function to HealthChecker.
type HealthCheckFunc func(ctx context.Context) error

// Check calls f.
func (f HealthCheckFunc) Check(ctx context.Context) error { return f(ctx) }

type probe struct {
	checker  HealthChecker
	optional bool
}

type breakerProbe struct {
	cb       *circuitbreaker.CircuitBreaker
	optional bool
}

// HealthHandler serves liveness and readiness. A failing required dependency
// (MongoDB, the session store) makes the service unavailable; a failing
// optional one (the distance lookup) only degrades it.
type HealthHandler struct {
	timeout  time.Duration
	probes   map[string]probe
	breakers map[string]breakerProbe
}

// ReadinessReport is the /readyz body.
type ReadinessReport struct {
	Status string            `json:"status" example:"ok"`
	Checks map[string]string `json:"checks"`
} // @name ReadinessReport

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		timeout:  DefaultProbeTimeout,
		probes:   make(map[string]probe),
		breakers: make(map[string]breakerProbe),
	}
}

// RegisterChecker adds a required dependency probe.
func (h *HealthHandler) RegisterChecker(name string, checker HealthChecker) {
	h.probes[name] = probe{checker: checker}
}

// RegisterOptionalChecker adds a probe whose failure only degrades readiness.
func (h *HealthHandler) RegisterOptionalChecker(name string, checker HealthChecker) {
	h.probes[name] = probe{checker: checker, optional: true}
}

// RegisterCircuitBreaker reports a breaker guarding a required dependency.
func (h *HealthHandler) RegisterCircuitBreaker(name string, cb *circuitbreaker.CircuitBreaker) {
	if cb != nil {
		h.breakers[name] = breakerProbe{cb: cb}
	}
}

// RegisterOptionalCircuitBreaker reports a breaker whose open state only
// degrades readiness.
func (h *HealthHandler) RegisterOptionalCircuitBreaker(name string, cb *circuitbreaker.CircuitBreaker) {
	if cb != nil {
		h.breakers[name] = breakerProbe{cb: cb, optional: true}
	}
}

// Register registers health endpoints on the router.
func (h *HealthHandler) Register(router *gin.Engine) {
	router.GET("/healthz", h.Liveness)
	router.GET("/readyz", h.Readiness)
}

// Liveness handles the liveness probe endpoint.
// @Summary     Liveness probe
// @Description Returns OK while the process is serving requests.
// @Tags        Health
// @Produce     json
// @Success     200 {object} map[string]string "Service is alive"
// @Router      /healthz [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": ReadyOK})
}

// Readiness handles the readiness probe endpoint.
// @Summary     Readiness probe
// @Description Pings MongoDB and the session store and reports circuit breaker states. Returns 503 only when a required dependency is down; an open distance-lookup breaker reports "degraded" with 200.
// @Tags        Health
// @Produce     json
// @Success     200 {object} ReadinessReport "Ready or degraded"
// @Failure     503 {object} ReadinessReport "A required dependency is down"
// @Router      /readyz [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	report := h.check(c.Request.Context())
	status := http.StatusOK
	if report.Status == ReadyUnavailable {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, report)
}

type probeResult struct {
	name     string
	err      error
	optional bool
}

func (h *HealthHandler) check(ctx context.Context) ReadinessReport {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	results := make(chan probeResult, len(h.probes))
	var wg sync.WaitGroup
	for name, p := range h.probes {
		wg.Add(1)
		go func(name string, p probe) {
			defer wg.Done()
			results <- probeResult{name: name, err: p.checker.Check(ctx), optional: p.optional}
		}(name, p)
	}
	wg.Wait()
	close(results)

	report := ReadinessReport{Status: ReadyOK, Checks: make(map[string]string, len(h.probes)+len(h.breakers))}
	fail := func(optional bool) {
		switch {
		case !optional:
			report.Status = ReadyUnavailable
		case report.Status == ReadyOK:
			report.Status = ReadyDegraded
		}
	}

	for r := range results {
		if r.err != nil {
			report.Checks[r.name] = r.err.Error()
			fail(r.optional)
			continue
		}
		report.Checks[r.name] = ReadyOK
	}
	for name, b := range h.breakers {
		stats := b.cb.GetStats()
		report.Checks[name+"_circuit"] = stats.State
		if !stats.IsHealthy {
			fail(b.optional)
		}
	}
	return report
}
