package http

import (
	"github.com/gin-gonic/gin"
	"github.com/guttosm/catering-service/internal/middleware"
	"github.com/guttosm/catering-service/internal/service"
)

// AuthRoutes registers staff sign-in and the JWT-guarded group the admin
// console hangs off.
type AuthRoutes struct {
	handler     *AuthHandler
	authService service.AuthService
}

// NewAuthRoutes creates a new AuthRoutes instance.
func NewAuthRoutes(authService service.AuthService) *AuthRoutes {
	return &AuthRoutes{
		handler:     NewAuthHandler(authService),
		authService: authService,
	}
}

// Register adds login and refresh under /auth, then returns the staff group:
// JWT required and, when rate limiting is on, a per-user budget on top of the
// per-IP one. Logout lives on the staff group.
func (r *AuthRoutes) Register(api *gin.RouterGroup, cfg *RouterConfig) *gin.RouterGroup {
	auth := api.Group("/auth")
	auth.POST("/login", r.handler.Login)
	auth.POST("/refresh", r.handler.RefreshToken)

	staff := api.Group("")
	staff.Use(middleware.JWTAuth(r.authService))
	if cfg.RateLimit > 0 {
		staff.Use(cfg.rateLimiter().UserRateLimit())
	}
	staff.POST("/auth/logout", r.handler.Logout)
	return staff
}
