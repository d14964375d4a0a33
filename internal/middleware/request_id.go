// Package middleware provides HTTP middleware components for the catering service.
package middleware

import (
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// RequestIDHeader is the HTTP header name for request ID.
	RequestIDHeader = "X-Request-ID"

	// MaxRequestIDLength bounds client-supplied request IDs.
	MaxRequestIDLength = 64
)

// ContextKey type for context keys to avoid collisions.
type ContextKey string

const (
	// RequestIDKey is the context key for request ID.
	RequestIDKey ContextKey = "request_id"
)

var requestIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]+$`)

// RequestID tags every request with an ID. A client-supplied X-Request-ID is
// kept when it is short and made of token characters, so IDs from the
// storefront or a proxy survive into the order logs; anything else is replaced
// with a fresh UUID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if !validRequestID(requestID) {
			requestID = uuid.New().String()
		}

		c.Set(string(RequestIDKey), requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

func validRequestID(id string) bool {
	return id != "" && len(id) <= MaxRequestIDLength && requestIDPattern.MatchString(id)
}

// GetRequestID retrieves the request ID from the gin context.
func GetRequestID(c *gin.Context) string {
	return c.GetString(string(RequestIDKey))
}

// routeOf returns the matched route template, or the raw path for unmatched requests.
func routeOf(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return c.Request.URL.Path
}

// withRequest adds the request, session and route identifiers to a log event.
func withRequest(event *zerolog.Event, c *gin.Context) *zerolog.Event {
	event = event.
		Str("request_id", GetRequestID(c)).
		Str("method", c.Request.Method).
		Str("route", routeOf(c))
	if sessionID := GetSessionID(c); sessionID != "" {
		event = event.Str("session_id", sessionID)
	}
	return event
}
