package http

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/catering-service/internal/domain/dto"
	"github.com/guttosm/catering-service/internal/domain/model"
	"github.com/guttosm/catering-service/internal/middleware"
	"github.com/guttosm/catering-service/internal/service"
)

// OrderHandler submits storefront orders and serves the admin order console.
type OrderHandler struct {
	orders service.OrderService
	loc    *time.Location
}

// NewOrderHandler creates a new OrderHandler. loc interprets admin date filters.
func NewOrderHandler(orders service.OrderService, loc *time.Location) *OrderHandler {
	return &OrderHandler{orders: orders, loc: loc}
}

// Submit handles POST /api/orders requests.
//
// @Summary      Place the order
// @Description  Validates the session checkout, stores the order and, for card payments, returns the hosted payment page. Supports idempotency via Idempotency-Key header.
// @Tags         Orders
// @Accept       json
// @Produce      json
// @Param        X-Session-ID header string false "Storefront session"
// @Param        Idempotency-Key header string false "Idempotency key for request deduplication"
// @Param        request body service.SubmitRequest true "Payment method"
// @Success      201 {object} dto.SuccessResponse{data=service.SubmitResult}
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Failure      409 {object} dto.ErrorResponse "Submission already in progress"
// @Failure      422 {object} dto.ErrorResponse "Checkout incomplete"
// @Failure      503 {object} dto.ErrorResponse "Payment provider unavailable"
// @Router       /api/orders [post]
func (h *OrderHandler) Submit(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := bindJSON[service.SubmitRequest](c)
	if err != nil {
		builder.BadRequest(err)
		return
	}

	result, err := h.orders.Submit(c.Request.Context(), middleware.GetSessionID(c), *req)
	if err != nil {
		builder.AppError(err)
		return
	}

	auditLog(c, model.ActionOrderSubmit, "Order placed", map[string]any{
		"order_id":       result.OrderID,
		"payment_method": result.PaymentMethod,
		"grand_total":    result.Draft.Totals.GrandTotal,
	})
	builder.SuccessCreated(result)
}

// List handles GET /api/admin/orders requests.
//
// @Summary      List orders
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        method query string false "pickup or delivery"
// @Param        payment_method query string false "card or cash"
// @Param        payment_status query string false "pending, paid, refunded or cancelled"
// @Param        from query string false "First scheduled date, YYYY-MM-DD"
// @Param        to query string false "Last scheduled date, YYYY-MM-DD"
// @Param        sort query string false "placed, scheduled or total"
// @Param        order query string false "asc or desc"
// @Param        limit query int false "Maximum orders returned"
// @Success      200 {object} dto.SuccessResponse{data=[]model.Order}
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid filter"
// @Router       /api/admin/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	builder := NewResponseBuilder(c)

	filter, ok := h.filter(c, builder)
	if !ok {
		return
	}

	orders, err := h.orders.List(c.Request.Context(), filter)
	if err != nil {
		builder.AppError(err)
		return
	}
	if orders == nil {
		orders = []*model.Order{}
	}
	builder.SuccessOK(orders)
}

// Get handles GET /api/admin/orders/:id requests.
//
// @Summary      Show an order
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.SuccessResponse{data=model.Order}
// @Failure      404 {object} dto.ErrorResponse "Not found"
// @Router       /api/admin/orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	builder := NewResponseBuilder(c)

	order, err := h.orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		builder.AppError(err)
		return
	}
	builder.SuccessOK(order)
}

// UpdatePaymentStatus handles PATCH /api/admin/orders/:id/status requests.
//
// @Summary      Change an order's payment status
// @Description  Refunded and cancelled orders are final.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order ID"
// @Param        request body dto.UpdatePaymentStatusRequest true "New status"
// @Success      200 {object} dto.SuccessResponse{data=model.Order}
// @Failure      404 {object} dto.ErrorResponse "Not found"
// @Failure      422 {object} dto.ErrorResponse "Transition not allowed"
// @Router       /api/admin/orders/{id}/status [patch]
func (h *OrderHandler) UpdatePaymentStatus(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := bindJSON[dto.UpdatePaymentStatusRequest](c)
	if err != nil {
		builder.BadRequest(err)
		return
	}

	id := c.Param("id")
	order, err := h.orders.UpdatePaymentStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		builder.AppError(err)
		return
	}

	auditLog(c, model.ActionOrderStatus, "Order payment status changed", map[string]any{
		"order_id": id,
		"status":   req.Status,
	})
	builder.SuccessOK(order)
}

// Export handles GET /api/admin/orders/export requests.
//
// @Summary      Export orders as CSV
// @Description  Accepts the same filters as the order listing.
// @Tags         Admin
// @Produce      text/csv
// @Security     BearerAuth
// @Success      200 {string} string "CSV file"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid filter"
// @Router       /api/admin/orders/export [get]
func (h *OrderHandler) Export(c *gin.Context) {
	builder := NewResponseBuilder(c)

	filter, ok := h.filter(c, builder)
	if !ok {
		return
	}

	var buf bytes.Buffer
	rows, err := h.orders.ExportCSV(c.Request.Context(), &buf, filter)
	if err != nil {
		builder.AppError(err)
		return
	}

	filename := fmt.Sprintf("orders-%s.csv", time.Now().In(h.loc).Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("X-Row-Count", fmt.Sprint(rows))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *OrderHandler) filter(c *gin.Context, builder *ResponseBuilder) (model.OrderFilter, bool) {
	q, err := bindQuery[dto.OrderListQuery](c)
	if err != nil {
		builder.BadRequest(err)
		return model.OrderFilter{}, false
	}
	filter, err := q.ToFilter(h.loc)
	if err != nil {
		builder.BadRequest(err)
		return model.OrderFilter{}, false
	}
	return filter, true
}
