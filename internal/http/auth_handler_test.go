package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/catering-service/internal/domain/dto"
	"github.com/guttosm/catering-service/internal/domain/model"
	"github.com/guttosm/catering-service/internal/middleware"
	"github.com/guttosm/catering-service/internal/mocks"
	"github.com/guttosm/catering-service/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// authRouter mounts the auth handler the way the app does, with JWTAuth in
// front of logout. Every bearer token except "revoked" is accepted.
func authRouter(auth *mocks.MockAuthService, logs service.LoggingService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	auth.On("ValidateToken", mock.Anything, "revoked").Return(nil, service.ErrTokenBlacklisted).Maybe()
	auth.On("ValidateToken", mock.Anything, mock.Anything).Return(&dto.Claims{Email: "chef@example.com"}, nil).Maybe()

	h := NewAuthHandler(auth)
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.WithLoggingService(logs))
	router.POST("/auth/login", h.Login)
	router.POST("/auth/refresh", h.RefreshToken)
	router.POST("/auth/logout", middleware.JWTAuth(auth), h.Logout)
	return router
}

func authRequest(router *gin.Engine, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// auditTrail records the action of every audit write, which happens on a
// detached goroutine.
func auditTrail() (*mocks.MockLoggingService, <-chan model.AuditAction) {
	logs := new(mocks.MockLoggingService)
	actions := make(chan model.AuditAction, 4)
	logs.On("CreateLog", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		actions <- args.Get(1).(*model.LogEntry).ActionType
	}).Return(nil).Maybe()
	return logs, actions
}

func awaitAudit(t *testing.T, actions <-chan model.AuditAction, want model.AuditAction) {
	t.Helper()
	select {
	case got := <-actions:
		assert.Equal(t, want, got)
	case <-time.After(time.Second):
		t.Fatalf("no %s audit entry written", want)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	chef := &model.User{ID: primitive.NewObjectID(), Email: "chef@example.com", Name: "Head Chef", Roles: []string{model.RoleStaff}}
	pair := &dto.TokenPair{AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 900}

	tests := []struct {
		name       string
		body       string
		loginErr   error
		wantStatus int
		wantAudit  model.AuditAction
	}{
		{name: "signed in", body: `{"email":"Chef@Example.com","password":"mise-en-place"}`, wantStatus: http.StatusOK, wantAudit: model.ActionLogin},
		{name: "bad credentials", body: `{"email":"chef@example.com","password":"mise-en-place"}`, loginErr: service.ErrInvalidCredentials, wantStatus: http.StatusUnauthorized, wantAudit: model.ActionLoginFailed},
		{name: "store down", body: `{"email":"chef@example.com","password":"mise-en-place"}`, loginErr: errors.New("no reachable servers"), wantStatus: http.StatusInternalServerError, wantAudit: model.ActionLoginFailed},
		{name: "not an email", body: `{"email":"chef","password":"mise-en-place"}`, wantStatus: http.StatusBadRequest},
		{name: "short password", body: `{"email":"chef@example.com","password":"12345"}`, wantStatus: http.StatusBadRequest},
		{name: "malformed json", body: `{"email":`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := new(mocks.MockAuthService)
			logs, actions := auditTrail()
			if tt.loginErr != nil {
				auth.On("Login", mock.Anything, "chef@example.com", "mise-en-place").Return(nil, nil, tt.loginErr)
			} else {
				auth.On("Login", mock.Anything, "chef@example.com", "mise-en-place").Return(pair, chef, nil).Maybe()
			}

			w := authRequest(authRouter(auth, logs), "/auth/login", tt.body, nil)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantAudit != "" {
				awaitAudit(t, actions, tt.wantAudit)
			}
			if tt.wantStatus != http.StatusOK {
				assert.NotContains(t, w.Body.String(), "no reachable servers")
				return
			}
			var got dto.LoginResponse
			decodeSuccess(t, w, &got)
			assert.Equal(t, "access", got.Token)
			assert.Equal(t, int64(900), got.ExpiresIn)
			require.NotNil(t, got.User)
			assert.Equal(t, []string{model.RoleStaff}, got.User.Roles)
		})
	}
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		refreshErr error
		wantStatus int
	}{
		{name: "rotated", header: "refresh", wantStatus: http.StatusOK},
		{name: "reused token", header: "refresh", refreshErr: service.ErrInvalidToken, wantStatus: http.StatusUnauthorized},
		{name: "missing header", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := new(mocks.MockAuthService)
			if tt.refreshErr != nil {
				auth.On("RefreshToken", mock.Anything, tt.header).Return(nil, tt.refreshErr)
			} else {
				auth.On("RefreshToken", mock.Anything, tt.header).Return(&dto.TokenPair{AccessToken: "a2", RefreshToken: "r2"}, nil).Maybe()
			}
			headers := map[string]string{}
			if tt.header != "" {
				headers[RefreshTokenHeader] = tt.header
			}

			w := authRequest(authRouter(auth, nil), "/auth/refresh", "", headers)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				var got dto.LoginResponse
				decodeSuccess(t, w, &got)
				assert.Equal(t, "r2", got.RefreshToken)
				assert.Nil(t, got.User)
			}
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		logoutErr  error
		wantLogout bool
		wantStatus int
	}{
		{
			name:       "revokes both tokens",
			headers:    map[string]string{"Authorization": "Bearer access", RefreshTokenHeader: "refresh"},
			wantLogout: true,
			wantStatus: http.StatusOK,
		},
		{
			name:       "lower-case scheme",
			headers:    map[string]string{"Authorization": "bearer access", RefreshTokenHeader: "refresh"},
			wantLogout: true,
			wantStatus: http.StatusOK,
		},
		{
			name:       "no bearer token",
			headers:    map[string]string{RefreshTokenHeader: "refresh"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "already revoked",
			headers:    map[string]string{"Authorization": "Bearer revoked", RefreshTokenHeader: "refresh"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing refresh header",
			headers:    map[string]string{"Authorization": "Bearer access"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "store failure",
			headers:    map[string]string{"Authorization": "Bearer access", RefreshTokenHeader: "refresh"},
			logoutErr:  errors.New("write conflict"),
			wantLogout: true,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := new(mocks.MockAuthService)
			logs, actions := auditTrail()
			auth.On("Logout", mock.Anything, "access", "refresh").Return(tt.logoutErr).Maybe()

			w := authRequest(authRouter(auth, logs), "/auth/logout", "", tt.headers)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantLogout {
				auth.AssertCalled(t, "Logout", mock.Anything, "access", "refresh")
			} else {
				auth.AssertNotCalled(t, "Logout", mock.Anything, mock.Anything, mock.Anything)
			}
			if tt.wantStatus == http.StatusOK {
				awaitAudit(t, actions, model.ActionLogout)
			}
		})
	}
}
