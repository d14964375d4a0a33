package http

import (
	"github.com/gin-gonic/gin"
	"github.com/guttosm/catering-service/internal/domain/dto"
	"github.com/guttosm/catering-service/internal/domain/model"
	"github.com/guttosm/catering-service/internal/service"
)

// MenuHandler serves the storefront menu and its admin maintenance.
type MenuHandler struct {
	menu service.MenuService
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(menu service.MenuService) *MenuHandler {
	return &MenuHandler{menu: menu}
}

// List handles GET /api/menu requests.
//
// @Summary      List the menu
// @Description  Returns active dishes with their current tray and per-piece prices.
// @Tags         Menu
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=[]model.MenuItem}
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/menu [get]
func (h *MenuHandler) List(c *gin.Context) {
	h.list(c, false)
}

// AdminList handles GET /api/admin/menu requests.
//
// @Summary      List all menu items
// @Description  Returns every dish, including inactive ones.
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.SuccessResponse{data=[]model.MenuItem}
// @Failure      401 {object} dto.ErrorResponse "Unauthorized"
// @Failure      403 {object} dto.ErrorResponse "Forbidden"
// @Router       /api/admin/menu [get]
func (h *MenuHandler) AdminList(c *gin.Context) {
	h.list(c, true)
}

func (h *MenuHandler) list(c *gin.Context, includeInactive bool) {
	builder := NewResponseBuilder(c)
	items, err := h.menu.List(c.Request.Context(), includeInactive)
	if err != nil {
		builder.AppError(err)
		return
	}
	builder.SuccessOK(items)
}

// Upsert handles PUT /api/admin/menu requests.
//
// @Summary      Create or replace a menu item
// @Description  Stores a dish; prices are derived from its cost and the pricing settings.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.MenuItemRequest true "Menu item"
// @Success      200 {object} dto.SuccessResponse{data=model.MenuItem}
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized"
// @Failure      403 {object} dto.ErrorResponse "Forbidden"
// @Router       /api/admin/menu [put]
func (h *MenuHandler) Upsert(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := bindJSON[dto.MenuItemRequest](c)
	if err != nil {
		builder.BadRequest(err)
		return
	}

	item, err := h.menu.Upsert(c.Request.Context(), req.ToModel())
	if err != nil {
		builder.AppError(err)
		return
	}

	auditLog(c, model.ActionMenuUpsert, "Menu item saved", map[string]any{
		"item_id": item.ID,
		"cost":    item.Cost,
	})
	builder.SuccessOK(item)
}

// SetActive handles PATCH /api/admin/menu/:id/active requests.
//
// @Summary      Enable or disable a menu item
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Menu item ID"
// @Param        request body dto.SetActiveRequest true "Active flag"
// @Success      200 {object} dto.SuccessResponse
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Failure      404 {object} dto.ErrorResponse "Not found"
// @Router       /api/admin/menu/{id}/active [patch]
func (h *MenuHandler) SetActive(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := bindJSON[dto.SetActiveRequest](c)
	if err != nil {
		builder.BadRequest(err)
		return
	}

	id := c.Param("id")
	if err := h.menu.SetActive(c.Request.Context(), id, *req.Active); err != nil {
		builder.AppError(err)
		return
	}

	auditLog(c, model.ActionMenuSetActive, "Menu item availability changed", map[string]any{
		"item_id": id,
		"active":  *req.Active,
	})
	builder.SuccessOK(gin.H{"id": id, "active": *req.Active})
}

// Reprice handles POST /api/admin/menu/reprice requests.
//
// @Summary      Reprice the menu
// @Description  Recomputes and stores every dish's prices from the active pricing settings.
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.SuccessResponse
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/admin/menu/reprice [post]
func (h *MenuHandler) Reprice(c *gin.Context) {
	builder := NewResponseBuilder(c)

	updated, err := h.menu.Reprice(c.Request.Context())
	if err != nil {
		builder.AppError(err)
		return
	}

	auditLog(c, model.ActionMenuReprice, "Menu repriced", map[string]any{"updated": updated})
	builder.SuccessOK(gin.H{"updated": updated})
}
