package http

import (
	"github.com/gin-gonic/gin"
	"github.com/guttosm/catering-service/internal/middleware"
)

// StorefrontRoutes registers the customer-facing catalog, cart, checkout and order routes.
type StorefrontRoutes struct {
	handlers *Handlers
}

// NewStorefrontRoutes creates a new StorefrontRoutes instance.
func NewStorefrontRoutes(handlers *Handlers) *StorefrontRoutes {
	return &StorefrontRoutes{handlers: handlers}
}

// RegisterPublicRoutes registers storefront routes. Cart, checkout and order
// routes are bound to the caller's X-Session-ID.
func (r *StorefrontRoutes) RegisterPublicRoutes(rg *gin.RouterGroup) {
	h := r.handlers

	rg.GET("/menu", h.Menu.List)
	rg.GET("/packages", h.Packages.Catalog)
	rg.POST("/packages/picks", h.Packages.TogglePick)
	rg.POST("/packages/quote", h.Packages.Quote)
	rg.POST("/delivery/quote", h.Checkout.DeliveryQuote)
	rg.GET("/checkout/slots", h.Checkout.Slots)

	session := rg.Group("")
	session.Use(middleware.SessionID())
	{
		session.GET("/cart", h.Cart.Get)
		session.DELETE("/cart", h.Cart.Clear)
		session.POST("/cart/lines", h.Cart.AddLine)
		session.DELETE("/cart/lines", h.Cart.RemoveLine)
		session.POST("/cart/package", h.Packages.AddToCart)

		session.GET("/checkout", h.Checkout.Current)
		session.PUT("/checkout", h.Checkout.Quote)

		session.POST("/orders", h.Orders.Submit)
	}
}
