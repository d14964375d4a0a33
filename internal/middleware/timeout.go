package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/catering-service/internal/domain/dto"
	"github.com/guttosm/catering-service/internal/logger"
	"github.com/guttosm/catering-service/internal/metrics"
)

// TimeoutConfig holds configuration for the timeout middleware.
type TimeoutConfig struct {
	// Timeout is the maximum duration for request processing.
	Timeout time.Duration
	// ErrorMessage is returned with the 504.
	ErrorMessage string
	// Exempt lists "METHOD /route/template" pairs that run without a deadline.
	Exempt map[string]bool
}

// DefaultTimeoutConfig bounds requests at 30s. Order submission and the CSV
// export run without a deadline.
func DefaultTimeoutConfig() TimeoutConfig {
	return TimeoutConfig{
		Timeout:      30 * time.Second,
		ErrorMessage: dto.MsgTimeout,
		Exempt: map[string]bool{
			http.MethodPost + " /api/orders":             true,
			http.MethodGet + " /api/admin/orders/export": true,
		},
	}
}

// Timeout cancels the request context after cfg.Timeout and answers 504 if the
// handler has not written anything by then. It still waits for the handler to
// return, so handlers must honour the context to release the request.
func Timeout(cfg TimeoutConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.Exempt[c.Request.Method+" "+c.FullPath()] {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.Timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		// Carries the handler's panic, if any, back to this goroutine so
		// Recovery sees it.
		done := make(chan any, 1)
		go func() {
			defer func() { done <- recover() }()
			c.Next()
		}()

		var panicked any
		select {
		case panicked = <-done:
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
				timedOut(c, cfg)
				c.Writer.Flush()
			}
			panicked = <-done
		}
		if panicked != nil {
			panic(panicked)
		}
	}
}

func timedOut(c *gin.Context, cfg TimeoutConfig) {
	log := logger.Logger()
	withRequest(log.Warn(), c).Dur("timeout", cfg.Timeout).Msg("Request timed out")
	metrics.RecordRequestFault(routeOf(c), "timeout")
	c.AbortWithStatusJSON(http.StatusGatewayTimeout,
		dto.NewError(dto.ErrCodeTimeout, cfg.ErrorMessage).WithRequestID(GetRequestID(c)))
}

// TimeoutWithDuration is DefaultTimeoutConfig with a different deadline.
func TimeoutWithDuration(timeout time.Duration) gin.HandlerFunc {
	cfg := DefaultTimeoutConfig()
	cfg.Timeout = timeout
	return Timeout(cfg)
}
