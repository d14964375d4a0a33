package service

import "time"

// SetTokenClock replaces the clock a token service signs and verifies with.
func SetTokenClock(ts TokenService, now func() time.Time) {
	ts.(*TokenServiceImpl).now = now
}

const (
	TokenIssuer    = tokenIssuer
	AudienceAccess = audienceAccess
)
