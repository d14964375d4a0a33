package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/catering-service/internal/domain/model"
	"github.com/guttosm/catering-service/internal/middleware"
	"github.com/guttosm/catering-service/internal/service"
)

// Services bundles the storefront and admin services the handlers call.
type Services struct {
	Menu     service.MenuService
	Packages service.PackageService
	Cart     service.CartService
	Delivery service.DeliveryService
	Checkout service.CheckoutService
	Orders   service.OrderService
	Settings service.SettingsService
	Logs     service.LoggingService
	// Location is the business time zone used for admin date filters.
	Location *time.Location
}

// Handlers provides HTTP handlers for catering routes.
type Handlers struct {
	Menu     *MenuHandler
	Packages *PackageHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Orders   *OrderHandler
	Settings *SettingsHandler
	Audit    *AuditHandler
}

// NewHandlers creates the handlers for svc.
func NewHandlers(svc Services) *Handlers {
	loc := svc.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Handlers{
		Menu:     NewMenuHandler(svc.Menu),
		Packages: NewPackageHandler(svc.Packages),
		Cart:     NewCartHandler(svc.Cart),
		Checkout: NewCheckoutHandler(svc.Checkout, svc.Delivery),
		Orders:   NewOrderHandler(svc.Orders, loc),
		Settings: NewSettingsHandler(svc.Settings),
		Audit:    NewAuditHandler(svc.Logs, loc),
	}
}

// auditLog records an audit entry when a logging service is attached to the context.
func auditLog(c *gin.Context, action model.AuditAction, message string, fields map[string]any) {
	middleware.Audit(middleware.LoggingServiceFrom(c), c, action, message, fields)
}

func auditFailure(c *gin.Context, action model.AuditAction, message string, err error, fields map[string]any) {
	middleware.AuditFailure(middleware.LoggingServiceFrom(c), c, action, message, err, fields)
}

// actor names the authenticated staff member for settings history.
func actor(c *gin.Context) string {
	if email := middleware.StaffEmail(c); email != "" {
		return email
	}
	return "admin"
}
