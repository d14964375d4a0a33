package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/catering-service/internal/apperrors"
	"github.com/guttosm/catering-service/internal/metrics"
	"github.com/guttosm/catering-service/internal/middleware"
	"github.com/guttosm/catering-service/internal/service"
)

// PackageHandler drives per-person package configuration.
type PackageHandler struct {
	packages service.PackageService
}

// NewPackageHandler creates a new PackageHandler.
func NewPackageHandler(packages service.PackageService) *PackageHandler {
	return &PackageHandler{packages: packages}
}

// Catalog handles GET /api/packages requests.
//
// @Summary      List packages
// @Description  Returns the package definitions with their per-course pick limits and tray thresholds.
// @Tags         Packages
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=model.PackageSettings}
// @Router       /api/packages [get]
func (h *PackageHandler) Catalog(c *gin.Context) {
	NewResponseBuilder(c).SuccessOK(h.packages.Catalog(c.Request.Context()))
}

// TogglePick handles POST /api/packages/picks requests.
//
// @Summary      Toggle a dish in a package selection
// @Description  Adds or removes a dish from the course it belongs to and reports the next open course.
// @Tags         Packages
// @Accept       json
// @Produce      json
// @Param        request body service.PickRequest true "Current selection and the dish to toggle"
// @Success      200 {object} dto.SuccessResponse{data=service.SelectionView}
// @Failure      400 {object} dto.ErrorResponse "Bad request - pick not allowed"
// @Failure      404 {object} dto.ErrorResponse "Unknown package or dish"
// @Router       /api/packages/picks [post]
func (h *PackageHandler) TogglePick(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := bindJSON[service.PickRequest](c)
	if err != nil {
		builder.BadRequest(err)
		return
	}

	view, err := h.packages.TogglePick(c.Request.Context(), *req)
	if err != nil {
		builder.AppError(err)
		return
	}
	builder.SuccessOK(view)
}

// Quote handles POST /api/packages/quote requests.
//
// @Summary      Recommend trays for a package
// @Description  Normalizes the headcount, allocates trays per picked dish and prices the package per person.
// @Tags         Packages
// @Accept       json
// @Produce      json
// @Param        request body service.PackageQuoteRequest true "Selection, guests and appetite"
// @Success      200 {object} dto.SuccessResponse{data=service.PackageQuote}
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Failure      422 {object} dto.ErrorResponse "Selection incomplete"
// @Router       /api/packages/quote [post]
func (h *PackageHandler) Quote(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := bindJSON[service.PackageQuoteRequest](c)
	if err != nil {
		builder.BadRequest(err)
		return
	}

	start := time.Now()
	quote, err := h.packages.Quote(c.Request.Context(), *req)
	metrics.RecordPackageQuote(time.Since(start), req.PackageID, quoteStatus(err))
	if err != nil {
		builder.AppError(err)
		return
	}
	builder.SuccessOK(quote)
}

// AddToCart handles POST /api/cart/package requests.
//
// @Summary      Add a package to the cart
// @Description  Prices the package and stores it as the session's package line, replacing any earlier one.
// @Tags         Cart
// @Accept       json
// @Produce      json
// @Param        X-Session-ID header string false "Storefront session"
// @Param        request body service.PackageQuoteRequest true "Selection, guests, appetite and spice levels"
// @Success      200 {object} dto.SuccessResponse{data=service.CartView}
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input or large order"
// @Failure      422 {object} dto.ErrorResponse "Selection incomplete"
// @Router       /api/cart/package [post]
func (h *PackageHandler) AddToCart(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := bindJSON[service.PackageQuoteRequest](c)
	if err != nil {
		builder.BadRequest(err)
		return
	}

	view, err := h.packages.AddToCart(c.Request.Context(), middleware.GetSessionID(c), *req)
	if err != nil {
		builder.AppError(err)
		return
	}
	builder.SuccessOK(view)
}

func quoteStatus(err error) string {
	if err == nil {
		return "success"
	}
	switch apperrors.CodeOf(err) {
	case apperrors.CodeNotReady:
		return "not_ready"
	case apperrors.CodeValidation, apperrors.CodeNotFound:
		return "rejected"
	default:
		return "error"
	}
}
