package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/catering-service/internal/domain/dto"
	"github.com/guttosm/catering-service/internal/logger"
	"github.com/guttosm/catering-service/internal/metrics"
)

// Recovery turns a handler panic into a 500 error response and logs the stack.
// http.ErrAbortHandler is re-raised so the server can drop the connection.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}

			log := logger.Logger()
			withRequest(log.Error(), c).
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Msg("Handler panicked")
			metrics.RecordRequestFault(routeOf(c), "panic")

			if c.Writer.Written() {
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				dto.NewError(dto.ErrCodeInternal, dto.MsgInternalError).WithRequestID(GetRequestID(c)))
		}()
		c.Next()
	}
}
