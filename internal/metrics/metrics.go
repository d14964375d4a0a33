// Package metrics provides Prometheus metrics for the catering service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks HTTP request duration by method, path, and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total HTTP requests by method, path, and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// PackageQuotesTotal counts package recommendations by outcome.
	PackageQuotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catering_package_quotes_total",
			Help: "Total number of package recommendations",
		},
		[]string{"package", "status"},
	)

	// PackageQuoteDuration tracks how long a recommendation takes to compute.
	PackageQuoteDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catering_package_quote_duration_seconds",
			Help:    "Package recommendation duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
	)

	// CheckoutQuotesTotal counts checkout summaries by block reason ("none" when ready).
	CheckoutQuotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catering_checkout_quotes_total",
			Help: "Total number of checkout summaries",
		},
		[]string{"method", "block_reason"},
	)

	// DistanceLookupsTotal counts distance lookups by result.
	DistanceLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catering_distance_lookups_total",
			Help: "Total number of driving distance lookups",
		},
		[]string{"result"},
	)

	// OrderSubmissionsTotal counts order submissions by payment method and status.
	OrderSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catering_order_submissions_total",
			Help: "Total number of order submissions",
		},
		[]string{"payment_method", "status"},
	)

	// OrderGrandTotal observes submitted order totals in dollars.
	OrderGrandTotal = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catering_order_grand_total_dollars",
			Help:    "Grand total of submitted orders",
			Buckets: []float64{50, 100, 250, 500, 750, 1000, 2000, 5000},
		},
	)

	// CircuitBreakerState reports each breaker's state (0 closed, 1 open, 2 half-open).
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 open, 2 half-open)",
		},
		[]string{"name"},
	)

	// RequestFaultsTotal counts requests that panicked or ran out of time, by route.
	RequestFaultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catering_request_faults_total",
			Help: "Requests that panicked or timed out",
		},
		[]string{"route", "kind"},
	)

	// LogEntriesTotal counts request and audit log entries by outcome.
	LogEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catering_log_entries_total",
			Help: "Log entries handed to the log store, by result",
		},
		[]string{"result"},
	)

	// CacheOperationsTotal tracks cache operations.
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Total number of cache operations",
		},
		[]string{"operation", "result"},
	)

	// CacheSize tracks current cache size.
	CacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_size",
			Help: "Current cache size",
		},
	)

	// CacheCapacity tracks cache capacity.
	CacheCapacity = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_capacity",
			Help: "Cache capacity",
		},
	)
)

// PrometheusMiddleware returns a Gin middleware that collects HTTP metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration)
		HTTPRequestTotal.WithLabelValues(method, path, statusCode).Inc()
	}
}

// RecordPackageQuote records a package recommendation.
func RecordPackageQuote(duration time.Duration, packageID, status string) {
	PackageQuoteDuration.Observe(duration.Seconds())
	PackageQuotesTotal.WithLabelValues(packageID, status).Inc()
}

// RecordCheckoutQuote records a checkout summary and its block reason.
func RecordCheckoutQuote(method, blockReason string) {
	if blockReason == "" {
		blockReason = "none"
	}
	CheckoutQuotesTotal.WithLabelValues(method, blockReason).Inc()
}

// RecordDistanceLookup records the result of a distance lookup.
func RecordDistanceLookup(result string) {
	DistanceLookupsTotal.WithLabelValues(result).Inc()
}

// RecordOrderSubmission records an order submission attempt.
func RecordOrderSubmission(paymentMethod, status string, grandTotal float64) {
	OrderSubmissionsTotal.WithLabelValues(paymentMethod, status).Inc()
	if status == "success" {
		OrderGrandTotal.Observe(grandTotal)
	}
}

// SetCircuitBreakerState publishes a breaker's current state.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordRequestFault records a recovered panic ("panic") or an expired request ("timeout").
func RecordRequestFault(route, kind string) {
	RequestFaultsTotal.WithLabelValues(route, kind).Inc()
}

// RecordLogEntries records n log entries that were "written", "failed" or "dropped".
func RecordLogEntries(result string, n int) {
	LogEntriesTotal.WithLabelValues(result).Add(float64(n))
}

// RecordCacheOperation records metrics for a cache operation.
func RecordCacheOperation(operation, result string) {
	CacheOperationsTotal.WithLabelValues(operation, result).Inc()
}

// UpdateCacheMetrics updates cache size and capacity metrics.
func UpdateCacheMetrics(size, capacity int) {
	CacheSize.Set(float64(size))
	CacheCapacity.Set(float64(capacity))
}
