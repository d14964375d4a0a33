//go:build !integration

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/catering-service/internal/domain/dto"
	"github.com/guttosm/catering-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRequireRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		setupContext   func(*gin.Context)
		roles          []string
		expectedStatus int
	}{
		{
			name:           "no user claims returns unauthorized",
			setupContext:   func(c *gin.Context) {},
			roles:          []string{model.RoleAdmin},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "invalid claims type returns unauthorized",
			setupContext: func(c *gin.Context) {
				c.Set("user_claims", "invalid")
			},
			roles:          []string{model.RoleAdmin},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "no required roles admits any user",
			setupContext: func(c *gin.Context) {
				c.Set("user_claims", &dto.Claims{UserID: primitive.NewObjectID()})
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "matching role admits",
			setupContext: func(c *gin.Context) {
				c.Set("user_claims", &dto.Claims{UserID: primitive.NewObjectID(), Roles: []string{model.RoleStaff, model.RoleAdmin}})
			},
			roles:          []string{model.RoleAdmin},
			expectedStatus: http.StatusOK,
		},
		{
			name: "missing role is forbidden",
			setupContext: func(c *gin.Context) {
				c.Set("user_claims", &dto.Claims{UserID: primitive.NewObjectID(), Roles: []string{model.RoleStaff}})
			},
			roles:          []string{model.RoleAdmin},
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/admin", func(c *gin.Context) {
				tt.setupContext(c)
				c.Next()
			}, RequireRoles(tt.roles...), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestAdminOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/admin", func(c *gin.Context) {
		c.Set("user_claims", &dto.Claims{Roles: []string{model.RoleStaff}})
	}, AdminOnly(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), dto.ErrCodeForbidden)
}
