//go:build integration

package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/guttosm/catering-service/config"
	"github.com/guttosm/catering-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeApp_Integration(t *testing.T) {
	t.Parallel()

	uri := testutil.MongoURI()

	t.Run("initialize app with MongoDB enabled", func(t *testing.T) {
		t.Parallel()
		cfg := config.Config{
			Server: config.ServerConfig{
				Port:       "8080",
				RateLimit:  100,
				RateWindow: time.Minute,
			},
			Cache: config.CacheConfig{
				Size: 64,
				TTL:  5 * time.Minute,
			},
			Auth: config.AuthConfig{
				JWTSecretKey:     "integration-secret",
				JWTRefreshSecret: "integration-refresh-secret",
				AccessTokenTTL:   15 * time.Minute,
				RefreshTokenTTL:  time.Hour,
				AdminEmail:       "admin@example.com",
				AdminPassword:    "s3cret-pass",
			},
			Database: integrationDBConfig(uri, testutil.DBName(t)),
		}

		application, err := InitializeApp(cfg)
		require.NoError(t, err)
		require.NotNil(t, application)
		t.Cleanup(func() { assert.NoError(t, application.Close(context.Background())) })
		router := application.Router

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/menu", nil))
		assert.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("initialize app with MongoDB disabled", func(t *testing.T) {
		t.Parallel()
		cfg := config.Config{
			Server: config.ServerConfig{
				Port: "8080",
			},
			Database: config.DatabaseConfig{
				Enabled: false,
			},
		}

		application, err := InitializeApp(cfg)
		require.NoError(t, err)
		assert.NotNil(t, application.Router)
		assert.NoError(t, application.Close(context.Background()))
	})

	t.Run("initialize app with Redis sessions", func(t *testing.T) {
		t.Parallel()
		cfg := config.Config{
			Server:   config.ServerConfig{Port: "8080"},
			Database: integrationDBConfig(uri, testutil.DBName(t)),
			Redis: config.RedisConfig{
				Enabled:    true,
				URL:        testutil.RedisURL(),
				SessionTTL: time.Hour,
			},
		}

		application, err := InitializeApp(cfg)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		application.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		require.Equal(t, http.StatusOK, w.Code)
		var report struct {
			Checks map[string]string `json:"checks"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
		assert.Equal(t, "ok", report.Checks["redis"])
		assert.Equal(t, "ok", report.Checks["mongodb"])

		w = httptest.NewRecorder()
		application.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/cart", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Session-ID"))

		require.NoError(t, application.Close(context.Background()))

		w = httptest.NewRecorder()
		application.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
