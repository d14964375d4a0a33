package http

import (
	"github.com/gin-gonic/gin"
	"github.com/guttosm/catering-service/internal/domain/dto"
	"github.com/guttosm/catering-service/internal/domain/model"
	"github.com/guttosm/catering-service/internal/middleware"
	"github.com/guttosm/catering-service/internal/service"
)

// CheckoutHandler prices the session checkout and its schedule.
type CheckoutHandler struct {
	checkout service.CheckoutService
	delivery service.DeliveryService
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(checkout service.CheckoutService, delivery service.DeliveryService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, delivery: delivery}
}

// CurrentCheckout is the saved checkout draft with its pricing.
type CurrentCheckout struct {
	Quote *service.CheckoutQuote `json:"quote"`
	State *model.CheckoutState   `json:"state"`
} // @name CurrentCheckout

// Quote handles PUT /api/checkout requests.
//
// @Summary      Update and price the checkout
// @Description  Saves the checkout form, resolves the delivery fee, computes totals and lists the slots for the chosen date. block_reason names the first missing step.
// @Tags         Checkout
// @Accept       json
// @Produce      json
// @Param        X-Session-ID header string false "Storefront session"
// @Param        request body service.CheckoutRequest true "Checkout form"
// @Success      200 {object} dto.SuccessResponse{data=service.CheckoutQuote}
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Router       /api/checkout [put]
func (h *CheckoutHandler) Quote(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := bindJSON[service.CheckoutRequest](c)
	if err != nil {
		builder.BadRequest(err)
		return
	}

	quote, err := h.checkout.Quote(c.Request.Context(), middleware.GetSessionID(c), *req)
	if err != nil {
		builder.AppError(err)
		return
	}
	builder.SuccessOK(quote)
}

// Current handles GET /api/checkout requests.
//
// @Summary      Show the checkout draft
// @Tags         Checkout
// @Produce      json
// @Param        X-Session-ID header string false "Storefront session"
// @Success      200 {object} dto.SuccessResponse{data=CurrentCheckout}
// @Router       /api/checkout [get]
func (h *CheckoutHandler) Current(c *gin.Context) {
	builder := NewResponseBuilder(c)

	quote, state, err := h.checkout.Current(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		builder.AppError(err)
		return
	}
	builder.SuccessOK(CurrentCheckout{Quote: quote, State: state})
}

// Slots handles GET /api/checkout/slots requests.
//
// @Summary      List pickup or delivery times
// @Description  Lists the slots offered on a date. Delivery orders under the delivery-hours minimum use pickup hours.
// @Tags         Checkout
// @Produce      json
// @Param        method query string true "pickup or delivery"
// @Param        date query string true "YYYY-MM-DD"
// @Param        grand_total query number false "Order grand total"
// @Success      200 {object} dto.SuccessResponse
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid date"
// @Router       /api/checkout/slots [get]
func (h *CheckoutHandler) Slots(c *gin.Context) {
	builder := NewResponseBuilder(c)

	q, err := bindQuery[dto.SlotsRequest](c)
	if err != nil {
		builder.BadRequest(err)
		return
	}

	slots, kind, err := h.checkout.Slots(c.Request.Context(), service.SlotsQuery{
		Method:     q.Method,
		GrandTotal: q.GrandTotal,
		Date:       q.Date,
	})
	if err != nil {
		builder.AppError(err)
		return
	}
	if slots == nil {
		slots = []model.Slot{}
	}
	builder.SuccessOK(gin.H{"date": q.Date, "hours_kind": kind, "slots": slots})
}

// DeliveryQuote handles POST /api/delivery/quote requests.
//
// @Summary      Quote a delivery fee
// @Description  Looks up the driving distance to an address, or classifies manually entered miles. A failed lookup sets lookup_failed so the customer can enter miles instead.
// @Tags         Checkout
// @Accept       json
// @Produce      json
// @Param        request body dto.DeliveryQuoteRequest true "Address or miles"
// @Success      200 {object} dto.SuccessResponse{data=model.DeliveryQuote}
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Router       /api/delivery/quote [post]
func (h *CheckoutHandler) DeliveryQuote(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := bindJSON[dto.DeliveryQuoteRequest](c)
	if err != nil {
		builder.BadRequest(err)
		return
	}

	var quote model.DeliveryQuote
	if req.Miles != 0 {
		quote, err = h.delivery.ResolveManual(req.Miles)
	} else {
		quote, err = h.delivery.Resolve(c.Request.Context(), *req.Address)
	}
	if err != nil {
		builder.AppError(err)
		return
	}
	builder.SuccessOK(quote)
}
