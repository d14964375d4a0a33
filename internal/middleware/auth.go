package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/catering-service/internal/domain/dto"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// APIKeyHeader carries the admin console key when JWT sign-in is not configured.
const APIKeyHeader = "X-API-Key"

// Context keys set by the staff authentication middleware.
const (
	ContextUserID     = "user_id"
	ContextUserEmail  = "user_email"
	ContextUserClaims = "user_claims"
	ContextAuthMethod = "auth_method"
	// ContextAccessToken holds the raw bearer token so logout can revoke it.
	ContextAccessToken = "access_token"
)

// Values stored under ContextAuthMethod.
const (
	AuthMethodJWT    = "jwt"
	AuthMethodAPIKey = "api_key"
)

// APIKeyAuth admits requests whose X-API-Key matches one of keys. An empty
// key set admits nobody.
func APIKeyAuth(keys map[string]bool) gin.HandlerFunc {
	accepted := make([][]byte, 0, len(keys))
	for k, ok := range keys {
		if ok && k != "" {
			accepted = append(accepted, []byte(k))
		}
	}

	return func(c *gin.Context) {
		key := c.GetHeader(APIKeyHeader)
		if key == "" {
			unauthorized(c, dto.MsgAPIKeyRequired)
			return
		}
		if !matchesAny(accepted, []byte(key)) {
			unauthorized(c, dto.MsgInvalidAPIKey)
			return
		}
		c.Set(ContextAuthMethod, AuthMethodAPIKey)
		c.Next()
	}
}

func matchesAny(accepted [][]byte, key []byte) bool {
	found := 0
	for _, k := range accepted {
		found |= subtle.ConstantTimeCompare(k, key)
	}
	return found == 1
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewError(dto.ErrCodeUnauthorized, message).WithRequestID(GetRequestID(c)))
}

// StaffEmail returns the signed-in staff member's email, or "" for API key
// callers and storefront requests.
func StaffEmail(c *gin.Context) string {
	return c.GetString(ContextUserEmail)
}

// StaffID returns the signed-in staff member's user ID.
func StaffID(c *gin.Context) (primitive.ObjectID, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, ok := v.(primitive.ObjectID)
	return id, ok && !id.IsZero()
}

func claimsFrom(c *gin.Context) *dto.Claims {
	v, _ := c.Get(ContextUserClaims)
	claims, _ := v.(*dto.Claims)
	return claims
}
