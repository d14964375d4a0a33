package http

import (
	"github.com/gin-gonic/gin"
	"github.com/guttosm/catering-service/internal/middleware"
)

// AdminRoutes registers the admin console routes.
type AdminRoutes struct {
	handlers *Handlers
}

// NewAdminRoutes creates a new AdminRoutes instance.
func NewAdminRoutes(handlers *Handlers) *AdminRoutes {
	return &AdminRoutes{handlers: handlers}
}

// RegisterProtectedRoutes registers admin routes on a group that already
// authenticates the caller; only admins are admitted.
func (r *AdminRoutes) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.AdminOnly())
	r.register(admin, r.handlers)
}

// RegisterAPIKeyRoutes registers admin routes guarded by API keys instead of JWT.
func (r *AdminRoutes) RegisterAPIKeyRoutes(rg *gin.RouterGroup, keys map[string]bool) {
	admin := rg.Group("/admin")
	admin.Use(middleware.APIKeyAuth(keys))
	r.register(admin, r.handlers)
}

func (r *AdminRoutes) register(admin *gin.RouterGroup, h *Handlers) {
	admin.GET("/menu", h.Menu.AdminList)
	admin.PUT("/menu", h.Menu.Upsert)
	admin.PATCH("/menu/:id/active", h.Menu.SetActive)
	admin.POST("/menu/reprice", h.Menu.Reprice)

	admin.GET("/settings", h.Settings.Get)
	admin.PUT("/settings/packages", h.Settings.UpdatePackages)
	admin.PUT("/settings/hours", h.Settings.UpdateHours)
	admin.PUT("/settings/pricing", h.Settings.UpdatePricing)
	admin.GET("/settings/history", h.Settings.History)

	admin.GET("/orders", h.Orders.List)
	admin.GET("/orders/export", h.Orders.Export)
	admin.GET("/orders/:id", h.Orders.Get)
	admin.PATCH("/orders/:id/status", h.Orders.UpdatePaymentStatus)

	admin.GET("/audit", h.Audit.List)
}
