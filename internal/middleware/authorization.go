package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/catering-service/internal/domain/dto"
	"github.com/guttosm/catering-service/internal/domain/model"
)

// RequireRoles returns a middleware that admits users holding any of roles.
// This middleware must be used after JWTAuth middleware.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFrom(c)
		if claims == nil {
			unauthorized(c, dto.MsgInvalidToken)
			return
		}

		if len(roles) > 0 && !slices.ContainsFunc(claims.Roles, func(r string) bool {
			return slices.Contains(roles, r)
		}) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewError(dto.ErrCodeForbidden, dto.MsgForbidden).WithRequestID(GetRequestID(c)))
			return
		}

		c.Next()
	}
}

// AdminOnly admits only users holding the admin role.
func AdminOnly() gin.HandlerFunc {
	return RequireRoles(model.RoleAdmin)
}
