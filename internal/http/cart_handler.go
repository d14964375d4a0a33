package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/catering-service/internal/middleware"
	"github.com/guttosm/catering-service/internal/service"
)

// CartHandler serves the session cart.
type CartHandler struct {
	cart service.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cart service.CartService) *CartHandler {
	return &CartHandler{cart: cart}
}

// Get handles GET /api/cart requests.
//
// @Summary      Show the cart
// @Tags         Cart
// @Produce      json
// @Param        X-Session-ID header string false "Storefront session"
// @Success      200 {object} dto.SuccessResponse{data=service.CartView}
// @Router       /api/cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	builder := NewResponseBuilder(c)
	view, err := h.cart.Get(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		builder.AppError(err)
		return
	}
	builder.SuccessOK(view)
}

// AddLine handles POST /api/cart/lines requests.
//
// @Summary      Add a dish to the cart
// @Description  Adds trays or pieces of a dish; lines with the same dish, size and spice merge.
// @Tags         Cart
// @Accept       json
// @Produce      json
// @Param        X-Session-ID header string false "Storefront session"
// @Param        request body service.AddLineRequest true "Dish, size and quantity"
// @Success      200 {object} dto.SuccessResponse{data=service.CartView}
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Failure      404 {object} dto.ErrorResponse "Unknown dish"
// @Router       /api/cart/lines [post]
func (h *CartHandler) AddLine(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := bindJSON[service.AddLineRequest](c)
	if err != nil {
		builder.BadRequest(err)
		return
	}

	view, err := h.cart.AddLine(c.Request.Context(), middleware.GetSessionID(c), *req)
	if err != nil {
		builder.AppError(err)
		return
	}
	builder.SuccessOK(view)
}

// RemoveLine handles DELETE /api/cart/lines requests.
//
// @Summary      Remove a cart line
// @Tags         Cart
// @Produce      json
// @Param        X-Session-ID header string false "Storefront session"
// @Param        key query string true "Line key as returned in the cart"
// @Success      200 {object} dto.SuccessResponse{data=service.CartView}
// @Failure      400 {object} dto.ErrorResponse "Missing key"
// @Failure      404 {object} dto.ErrorResponse "Line not in cart"
// @Router       /api/cart/lines [delete]
func (h *CartHandler) RemoveLine(c *gin.Context) {
	builder := NewResponseBuilder(c)

	key := c.Query("key")
	if key == "" {
		builder.Error(http.StatusBadRequest, "key query parameter is required", nil)
		return
	}

	view, err := h.cart.RemoveLine(c.Request.Context(), middleware.GetSessionID(c), key)
	if err != nil {
		builder.AppError(err)
		return
	}
	builder.SuccessOK(view)
}

// Clear handles DELETE /api/cart requests.
//
// @Summary      Empty the cart
// @Tags         Cart
// @Param        X-Session-ID header string false "Storefront session"
// @Success      204
// @Router       /api/cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.cart.Clear(c.Request.Context(), middleware.GetSessionID(c)); err != nil {
		NewResponseBuilder(c).AppError(err)
		return
	}
	c.Status(http.StatusNoContent)
}
