package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/catering-service/internal/domain/dto"
	"github.com/guttosm/catering-service/internal/service"
)

// JWTAuth validates the bearer access token and stores the staff member's
// identity on the context for the admin handlers and the audit trail.
func JWTAuth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			unauthorized(c, dto.MsgTokenRequired)
			return
		}

		claims, err := authService.ValidateToken(c.Request.Context(), token)
		if err != nil {
			unauthorized(c, dto.MsgInvalidToken)
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserEmail, claims.Email)
		c.Set(ContextUserClaims, claims)
		c.Set(ContextAuthMethod, AuthMethodJWT)
		c.Set(ContextAccessToken, token)
		c.Next()
	}
}

// GetAccessToken returns the bearer token JWTAuth accepted, or "".
func GetAccessToken(c *gin.Context) string {
	return c.GetString(ContextAccessToken)
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
// The scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
