package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/catering-service/internal/domain/dto"
	"github.com/guttosm/catering-service/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recoveryRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID(), SessionID(), Recovery())
	router.POST("/api/cart/lines", func(c *gin.Context) {
		var lines []string
		_ = lines[3]
	})
	router.GET("/api/menu", func(c *gin.Context) {
		c.String(http.StatusOK, "menu")
	})
	router.GET("/api/admin/orders/export", func(c *gin.Context) {
		c.String(http.StatusOK, "order_id,placed_at\n")
		panic("writer gone")
	})
	return router
}

func TestRecovery_PanicBecomesInternalError(t *testing.T) {
	counter := metrics.RequestFaultsTotal.WithLabelValues("/api/cart/lines", "panic")
	before := testutil.ToFloat64(counter)

	req := httptest.NewRequest(http.MethodPost, "/api/cart/lines", nil)
	req.Header.Set(RequestIDHeader, "req-cart-1")
	w := httptest.NewRecorder()
	recoveryRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, dto.ErrCodeInternal, body.Error)
	assert.Equal(t, dto.MsgInternalError, body.Message)
	assert.Equal(t, "req-cart-1", body.RequestID)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestRecovery_PassesThrough(t *testing.T) {
	w := httptest.NewRecorder()
	recoveryRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/menu", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "menu", w.Body.String())
}

func TestRecovery_KeepsPartialResponse(t *testing.T) {
	w := httptest.NewRecorder()
	recoveryRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/orders/export", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "order_id,placed_at\n", w.Body.String())
}

func TestRecovery_ReraisesAbortHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Recovery())
	router.GET("/api/menu", func(c *gin.Context) {
		panic(http.ErrAbortHandler)
	})

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/menu", nil))
	})
}
