package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/catering-service/internal/apperrors"
	"github.com/guttosm/catering-service/internal/domain/dto"
	"github.com/guttosm/catering-service/internal/domain/model"
	"github.com/guttosm/catering-service/internal/service"
)

// AuditHandler exposes the audit trail to the admin console.
type AuditHandler struct {
	logs service.LoggingService
	loc  *time.Location
}

// NewAuditHandler creates a new AuditHandler. A nil logging service makes
// the listing report the store as unavailable.
func NewAuditHandler(logs service.LoggingService, loc *time.Location) *AuditHandler {
	return &AuditHandler{logs: logs, loc: loc}
}

// AuditPage is one page of the audit trail.
type AuditPage struct {
	Entries []model.LogEntry `json:"entries"`
	Total   int64            `json:"total" example:"124"`
} // @name AuditPage

// List handles GET /api/admin/audit requests.
//
// @Summary      List audit entries
// @Description  Newest first. Only audited actions are listed, never plain request logs.
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        action query string false "Audit action, e.g. order_submit"
// @Param        session_id query string false "Storefront session"
// @Param        user query string false "Staff email"
// @Param        from query string false "First date, YYYY-MM-DD"
// @Param        to query string false "Last date, YYYY-MM-DD"
// @Param        limit query int false "Page size, default 50"
// @Param        skip query int false "Entries to skip"
// @Success      200 {object} dto.SuccessResponse{data=AuditPage}
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid filter"
// @Failure      503 {object} dto.ErrorResponse "Log store unavailable"
// @Router       /api/admin/audit [get]
func (h *AuditHandler) List(c *gin.Context) {
	builder := NewResponseBuilder(c)

	q, err := bindQuery[dto.AuditLogQuery](c)
	if err != nil {
		builder.BadRequest(err)
		return
	}
	opts, err := q.ToOptions(h.loc)
	if err != nil {
		builder.BadRequest(err)
		return
	}
	if h.logs == nil {
		builder.AppError(apperrors.New(apperrors.CodeDependency, "audit trail is not configured"))
		return
	}

	ctx := c.Request.Context()
	entries, err := h.logs.QueryLogs(ctx, opts)
	if err != nil {
		builder.AppError(apperrors.Wrap(apperrors.CodeDependency, err, "failed to read audit trail"))
		return
	}
	countOpts := opts
	countOpts.Limit, countOpts.Skip = 0, 0
	total, err := h.logs.CountLogs(ctx, countOpts)
	if err != nil {
		builder.AppError(apperrors.Wrap(apperrors.CodeDependency, err, "failed to count audit trail"))
		return
	}
	if entries == nil {
		entries = []model.LogEntry{}
	}
	builder.SuccessOK(AuditPage{Entries: entries, Total: total})
}
