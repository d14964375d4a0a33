package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/catering-service/internal/domain/dto"
	"github.com/guttosm/catering-service/internal/domain/model"
	"github.com/guttosm/catering-service/internal/service"
)

// SettingsHandler serves the admin-managed packages, hours and pricing.
type SettingsHandler struct {
	settings service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settings service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// SettingsView is the effective configuration.
type SettingsView struct {
	Packages model.PackageSettings `json:"packages"`
	Hours    model.HoursSettings   `json:"hours"`
	Pricing  model.PricingConfig   `json:"pricing"`
} // @name SettingsView

// Get handles GET /api/admin/settings requests.
//
// @Summary      Show the effective settings
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.SuccessResponse{data=SettingsView}
// @Router       /api/admin/settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	NewResponseBuilder(c).SuccessOK(SettingsView{
		Packages: h.settings.Packages(ctx),
		Hours:    h.settings.Hours(ctx),
		Pricing:  h.settings.Pricing(ctx),
	})
}

// UpdatePackages handles PUT /api/admin/settings/packages requests.
//
// @Summary      Replace the package definitions
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body model.PackageSettings true "Packages"
// @Success      200 {object} dto.SuccessResponse{data=service.SettingsVersion}
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid settings"
// @Router       /api/admin/settings/packages [put]
func (h *SettingsHandler) UpdatePackages(c *gin.Context) {
	updateSettings(c, model.SettingsPackages, h.settings.UpdatePackages)
}

// UpdateHours handles PUT /api/admin/settings/hours requests.
//
// @Summary      Replace the pickup and delivery hours
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body model.HoursSettings true "Weekly hours"
// @Success      200 {object} dto.SuccessResponse{data=service.SettingsVersion}
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid settings"
// @Router       /api/admin/settings/hours [put]
func (h *SettingsHandler) UpdateHours(c *gin.Context) {
	updateSettings(c, model.SettingsHours, h.settings.UpdateHours)
}

// UpdatePricing handles PUT /api/admin/settings/pricing requests.
//
// @Summary      Replace the pricing rules
// @Description  Menu prices follow on the next read; POST /api/admin/menu/reprice stores them.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body model.PricingConfig true "Margin and tray bands"
// @Success      200 {object} dto.SuccessResponse{data=service.SettingsVersion}
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid settings"
// @Router       /api/admin/settings/pricing [put]
func (h *SettingsHandler) UpdatePricing(c *gin.Context) {
	updateSettings(c, model.SettingsPricing, h.settings.UpdatePricing)
}

// History handles GET /api/admin/settings/history requests.
//
// @Summary      List stored settings versions
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        kind query string true "packages, hours or pricing"
// @Param        limit query int false "Maximum versions returned"
// @Success      200 {object} dto.SuccessResponse{data=[]service.SettingsVersion}
// @Router       /api/admin/settings/history [get]
func (h *SettingsHandler) History(c *gin.Context) {
	builder := NewResponseBuilder(c)

	q, err := bindQuery[dto.SettingsHistoryQuery](c)
	if err != nil {
		builder.BadRequest(err)
		return
	}

	versions, err := h.settings.History(c.Request.Context(), q.Kind, q.Limit)
	if err != nil {
		builder.AppError(err)
		return
	}
	if versions == nil {
		versions = []service.SettingsVersion{}
	}
	builder.SuccessOK(versions)
}

func updateSettings[T any](c *gin.Context, kind model.SettingsKind, update func(ctx context.Context, v T, by string) (*service.SettingsVersion, error)) {
	builder := NewResponseBuilder(c)

	req, err := bindJSON[T](c)
	if err != nil {
		builder.BadRequest(err)
		return
	}

	version, err := update(c.Request.Context(), *req, actor(c))
	if err != nil {
		builder.AppError(err)
		return
	}

	auditLog(c, model.ActionSettingsUpdate, "Settings updated", map[string]any{
		"kind":    kind,
		"version": version.Version,
	})
	builder.SuccessOK(version)
}
