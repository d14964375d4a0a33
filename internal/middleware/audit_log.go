package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/catering-service/internal/domain/model"
	"github.com/guttosm/catering-service/internal/logger"
	"github.com/guttosm/catering-service/internal/service"
)

const logWriteTimeout = 5 * time.Second

const contextLoggingService = "logging_service"

// WithLoggingService makes ls available to handlers that write audit entries.
// A nil ls leaves auditing off.
func WithLoggingService(ls service.LoggingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ls != nil {
			c.Set(contextLoggingService, ls)
		}
		c.Next()
	}
}

// LoggingServiceFrom returns the service set by WithLoggingService, or nil.
func LoggingServiceFrom(c *gin.Context) service.LoggingService {
	v, _ := c.Get(contextLoggingService)
	ls, _ := v.(service.LoggingService)
	return ls
}

// Audit records a completed action in the audit trail. A nil logging service
// disables auditing.
func Audit(ls service.LoggingService, c *gin.Context, action model.AuditAction, message string, fields map[string]any) {
	if ls == nil {
		return
	}
	persistLog(ls, auditEntry(c, "info", action, message, fields))
}

// AuditFailure records a rejected or failed action with its cause.
func AuditFailure(ls service.LoggingService, c *gin.Context, action model.AuditAction, message string, err error, fields map[string]any) {
	if ls == nil {
		return
	}
	entry := auditEntry(c, "warn", action, message, fields)
	if err != nil {
		entry.Error = err.Error()
	}
	persistLog(ls, entry)
}

func auditEntry(c *gin.Context, level string, action model.AuditAction, message string, fields map[string]any) *model.LogEntry {
	entry := &model.LogEntry{
		Timestamp:  time.Now().UTC(),
		Level:      level,
		Message:    message,
		RequestID:  GetRequestID(c),
		SessionID:  GetSessionID(c),
		Method:     c.Request.Method,
		Path:       routeOf(c),
		IP:         c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		UserEmail:  StaffEmail(c),
		ActionType: action,
		Fields:     fields,
	}
	if id, ok := StaffID(c); ok {
		entry.UserID = id.Hex()
	}
	return entry
}

// persistLog hands the entry to the async logger when one is running,
// otherwise writes it on a detached goroutine.
func persistLog(ls service.LoggingService, entry *model.LogEntry) {
	if al := GetAsyncLogger(); al != nil {
		if !al.Log(entry) {
			l := logger.Logger()
			l.Warn().Str("action", string(entry.ActionType)).Str("path", entry.Path).Msg("Log buffer full, entry dropped")
		}
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), logWriteTimeout)
		defer cancel()
		if err := ls.CreateLog(ctx, entry); err != nil {
			l := logger.Logger()
			l.Warn().Err(err).Str("action", string(entry.ActionType)).Str("path", entry.Path).Msg("Log write failed")
		}
	}()
}
