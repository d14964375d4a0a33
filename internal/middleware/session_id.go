package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// SessionIDHeader carries the storefront session that owns the cart and checkout draft.
	SessionIDHeader = "X-Session-ID"

	// SessionIDKey is the context key for the session ID.
	SessionIDKey ContextKey = "session_id"
)

// SessionID returns a middleware that binds each storefront request to a session.
// A missing or malformed X-Session-ID starts a new session; the ID in use is
// always echoed back so the client can keep it.
func SessionID() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(SessionIDHeader)
		if _, err := uuid.Parse(sessionID); err != nil {
			sessionID = uuid.New().String()
		}

		c.Set(string(SessionIDKey), sessionID)
		c.Header(SessionIDHeader, sessionID)
		c.Next()
	}
}

// GetSessionID retrieves the session ID from the gin context.
func GetSessionID(c *gin.Context) string {
	if id, exists := c.Get(string(SessionIDKey)); exists {
		if sessionID, ok := id.(string); ok {
			return sessionID
		}
	}
	return ""
}
