package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/catering-service/internal/apperrors"
	"github.com/guttosm/catering-service/internal/domain/dto"
	"github.com/guttosm/catering-service/internal/logger"
	"github.com/rs/zerolog"
)

// ErrorHandler renders the last error a handler attached with c.Error.
// Application errors map to their status and public message; anything else
// becomes a 500 without leaking the cause.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil {
			return
		}
		status, resp := dto.FromAppError(last.Err)

		log := logger.Logger()
		event := errorEvent(&log, status, apperrors.CodeOf(last.Err))
		withRequest(event, c).
			Err(last.Err).
			Str("code", resp.Error).
			Int("status", status).
			Int("errors", len(c.Errors)).
			Msg("Request failed")

		if !c.Writer.Written() {
			c.JSON(status, resp.WithRequestID(GetRequestID(c)))
		}
	}
}

// errorEvent picks the log level: an incomplete checkout is routine storefront
// traffic, other client errors are warnings and server errors are errors.
func errorEvent(log *zerolog.Logger, status int, code apperrors.Code) *zerolog.Event {
	switch {
	case status >= http.StatusInternalServerError:
		return log.Error()
	case code == apperrors.CodeNotReady:
		return log.Info()
	default:
		return log.Warn()
	}
}
