package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompression(t *testing.T) {
	gin.SetMode(gin.TestMode)
	export := "order_id,placed_at,grand_total\n" + strings.Repeat("6730f1c2a9e4d1b2c3d4e5f6,2026-11-01 10:00,140.73\n", 50)

	tests := []struct {
		name           string
		path           string
		acceptEncoding string
		wantGzip       bool
	}{
		{name: "export is compressed for gzip clients", path: "/api/admin/orders/export", acceptEncoding: "gzip", wantGzip: true},
		{name: "gzip among several encodings", path: "/api/admin/orders/export", acceptEncoding: "deflate, gzip", wantGzip: true},
		{name: "plain clients get plain text", path: "/api/admin/orders/export"},
		{name: "metrics are left alone", path: "/metrics", acceptEncoding: "gzip"},
		{name: "probes are left alone", path: "/readyz", acceptEncoding: "gzip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(Compression())
			handler := func(c *gin.Context) { c.String(http.StatusOK, export) }
			router.GET("/api/admin/orders/export", handler)
			router.GET("/metrics", handler)
			router.GET("/readyz", handler)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			if !tt.wantGzip {
				assert.Empty(t, w.Header().Get("Content-Encoding"))
				assert.Equal(t, export, w.Body.String())
				return
			}
			assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
			zr, err := gzip.NewReader(w.Body)
			require.NoError(t, err)
			body, err := io.ReadAll(zr)
			require.NoError(t, err)
			assert.Equal(t, export, string(body))
		})
	}
}
