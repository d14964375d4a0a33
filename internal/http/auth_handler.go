package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/catering-service/internal/domain/dto"
	"github.com/guttosm/catering-service/internal/domain/model"
	"github.com/guttosm/catering-service/internal/middleware"
	"github.com/guttosm/catering-service/internal/service"
)

// RefreshTokenHeader carries the refresh token on refresh and logout.
const RefreshTokenHeader = "X-Refresh-Token"

// AuthHandler signs kitchen staff in and out of the admin console.
type AuthHandler struct {
	auth service.AuthService
}

func NewAuthHandler(auth service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login handles POST /api/auth/login.
//
// @Summary      Staff sign-in
// @Description  Exchanges staff credentials for an access and refresh token. Earlier refresh tokens of the same account stop working.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "Staff credentials"
// @Success      200 {object} dto.SuccessResponse{data=dto.LoginResponse}
// @Failure      400 {object} dto.ErrorResponse "Malformed credentials"
// @Failure      401 {object} dto.ErrorResponse "Unknown email, wrong password or deactivated account"
// @Failure      500 {object} dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	builder := NewResponseBuilder(c)
	req, err := bindJSON[dto.LoginRequest](c)
	if err != nil {
		builder.BadRequest(err)
		return
	}

	pair, user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		auditFailure(c, model.ActionLoginFailed, "Failed login attempt", err, map[string]any{"email": req.Email})
		builder.AppError(err)
		return
	}

	c.Set(middleware.ContextUserID, user.ID)
	c.Set(middleware.ContextUserEmail, user.Email)
	auditLog(c, model.ActionLogin, "Staff member logged in", nil)

	builder.SuccessOK(dto.NewLoginResponse(pair, &dto.UserResponse{
		Email: user.Email,
		Name:  user.Name,
		Roles: user.Roles,
	}))
}

// RefreshToken handles POST /api/auth/refresh.
//
// @Summary      Rotate tokens
// @Description  Trades a refresh token for a new pair. Each refresh token works once.
// @Tags         Auth
// @Produce      json
// @Param        X-Refresh-Token header string true "Refresh token"
// @Success      200 {object} dto.SuccessResponse{data=dto.LoginResponse}
// @Failure      400 {object} dto.ErrorResponse "Missing refresh token"
// @Failure      401 {object} dto.ErrorResponse "Expired, reused or foreign refresh token"
// @Failure      500 {object} dto.ErrorResponse
// @Router       /api/auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	builder := NewResponseBuilder(c)
	refresh, ok := refreshTokenFrom(c)
	if !ok {
		return
	}

	pair, err := h.auth.RefreshToken(c.Request.Context(), refresh)
	if err != nil {
		builder.AppError(err)
		return
	}
	builder.SuccessOK(dto.NewLoginResponse(pair, nil))
}

// Logout handles POST /api/auth/logout.
//
// @Summary      Staff sign-out
// @Description  Revokes the bearer access token and drops the refresh token.
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Param        X-Refresh-Token header string true "Refresh token"
// @Success      200 {object} dto.SuccessResponse
// @Failure      400 {object} dto.ErrorResponse "Missing refresh token"
// @Failure      401 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	builder := NewResponseBuilder(c)
	access := middleware.GetAccessToken(c)
	if access == "" {
		builder.Error(http.StatusUnauthorized, dto.MsgTokenRequired, nil)
		return
	}
	refresh, ok := refreshTokenFrom(c)
	if !ok {
		return
	}

	if err := h.auth.Logout(c.Request.Context(), access, refresh); err != nil {
		builder.AppError(err)
		return
	}

	auditLog(c, model.ActionLogout, "Staff member logged out", nil)
	builder.SuccessOK(map[string]string{"message": "Logged out successfully"})
}

// refreshTokenFrom reads the refresh header, answering 400 when it is absent.
func refreshTokenFrom(c *gin.Context) (string, bool) {
	token := c.GetHeader(RefreshTokenHeader)
	if token == "" {
		NewResponseBuilder(c).Error(http.StatusBadRequest, RefreshTokenHeader+" header is required", nil)
		return "", false
	}
	return token, true
}
