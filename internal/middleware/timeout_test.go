package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/catering-service/internal/domain/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTimeoutConfig(t *testing.T) {
	cfg := DefaultTimeoutConfig()

	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, dto.MsgTimeout, cfg.ErrorMessage)
	assert.True(t, cfg.Exempt["POST /api/orders"])
	assert.True(t, cfg.Exempt["GET /api/admin/orders/export"])
}

func timeoutRouter(timeout time.Duration, delay time.Duration) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID(), Recovery(), TimeoutWithDuration(timeout))
	slow := func(c *gin.Context) {
		select {
		case <-time.After(delay):
			c.Status(http.StatusOK)
		case <-c.Request.Context().Done():
		}
	}
	router.GET("/api/checkout/slots", slow)
	router.POST("/api/orders", func(c *gin.Context) {
		time.Sleep(delay)
		_, hasDeadline := c.Request.Context().Deadline()
		if hasDeadline {
			c.Status(http.StatusTeapot)
			return
		}
		c.Status(http.StatusCreated)
	})
	router.GET("/api/menu", func(c *gin.Context) {
		if _, ok := c.Request.Context().Deadline(); !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	})
	router.GET("/api/packages", func(c *gin.Context) {
		panic("catalog missing")
	})
	return router
}

func TestTimeout(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		timeout    time.Duration
		delay      time.Duration
		wantStatus int
	}{
		{name: "fast request completes", method: http.MethodGet, path: "/api/checkout/slots", timeout: time.Second, delay: 5 * time.Millisecond, wantStatus: http.StatusOK},
		{name: "slow request gets 504", method: http.MethodGet, path: "/api/checkout/slots", timeout: 20 * time.Millisecond, delay: time.Second, wantStatus: http.StatusGatewayTimeout},
		{name: "order submission is exempt", method: http.MethodPost, path: "/api/orders", timeout: 10 * time.Millisecond, delay: 40 * time.Millisecond, wantStatus: http.StatusCreated},
		{name: "handlers see the deadline", method: http.MethodGet, path: "/api/menu", timeout: time.Second, wantStatus: http.StatusOK},
		{name: "panics reach recovery", method: http.MethodGet, path: "/api/packages", timeout: time.Second, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			timeoutRouter(tt.timeout, tt.delay).ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusGatewayTimeout {
				var body dto.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, dto.ErrCodeTimeout, body.Error)
				assert.NotEmpty(t, body.RequestID)
			}
		})
	}
}
