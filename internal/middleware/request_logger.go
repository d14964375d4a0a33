package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/catering-service/internal/domain/model"
	"github.com/guttosm/catering-service/internal/logger"
	"github.com/guttosm/catering-service/internal/service"
	"github.com/rs/zerolog"
)

// quietRoutes are scraped or probed constantly; they are logged at debug and
// never persisted.
var quietRoutes = map[string]bool{
	"/healthz": true,
	"/readyz":  true,
	"/metrics": true,
}

// RequestLogger logs one line per request and, when a logging service is
// configured, stores the request in the log collection next to the audit trail.
func RequestLogger(loggingService service.LoggingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		route := routeOf(c)

		log := logger.Logger()
		event := requestEvent(&log, status, quietRoutes[route])
		if email := StaffEmail(c); email != "" {
			event = event.Str("user_email", email)
		}
		withRequest(event, c).
			Int("status", status).
			Dur("duration", latency).
			Int("bytes", c.Writer.Size()).
			Str("ip", c.ClientIP()).
			Msg("HTTP request")

		if loggingService == nil || quietRoutes[route] {
			return
		}
		entry := &model.LogEntry{
			Timestamp:  start.UTC(),
			Level:      levelForStatus(status),
			Message:    "HTTP request",
			RequestID:  GetRequestID(c),
			SessionID:  GetSessionID(c),
			Method:     c.Request.Method,
			Path:       route,
			StatusCode: status,
			Duration:   latency.Milliseconds(),
			IP:         c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
			UserEmail:  StaffEmail(c),
		}
		if id, ok := StaffID(c); ok {
			entry.UserID = id.Hex()
		}
		persistLog(loggingService, entry)
	}
}

func requestEvent(log *zerolog.Logger, status int, quiet bool) *zerolog.Event {
	switch {
	case status >= http.StatusInternalServerError:
		return log.Error()
	case status >= http.StatusBadRequest:
		return log.Warn()
	case quiet:
		return log.Debug()
	default:
		return log.Info()
	}
}

// levelForStatus maps an HTTP status to the stored log level.
func levelForStatus(status int) string {
	switch {
	case status >= http.StatusInternalServerError:
		return "error"
	case status >= http.StatusBadRequest:
		return "warn"
	default:
		return "info"
	}
}
