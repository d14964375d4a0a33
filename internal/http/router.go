package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/guttosm/catering-service/internal/metrics"
	"github.com/guttosm/catering-service/internal/middleware"
	"github.com/guttosm/catering-service/internal/service"
)

// RouterConfig holds router configuration options.
type RouterConfig struct {
	RateLimit         int
	RateWindow        time.Duration
	APIKeys           map[string]bool
	EnableAuth        bool
	EnableIdempotency bool
	// IdempotencyStore defaults to an in-process store.
	IdempotencyStore middleware.ReplayStore
	// RateStore defaults to an in-process store per limiter.
	RateStore      middleware.RateStore
	RequestTimeout time.Duration
	CORSOrigins    []string
	SwaggerUser    string
	SwaggerPass    string
	LoggingService service.LoggingService
	AuthService    service.AuthService
}

// DefaultRouterConfig allows 100 requests a minute per client.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{RateLimit: 100, RateWindow: time.Minute}
}

var (
	devOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}

	corsHeaders = []string{
		"Origin", "Accept", "Accept-Encoding", "Accept-Language", "Cache-Control",
		"Content-Type", "Content-Length", "X-Requested-With",
		"Authorization", RefreshTokenHeader, middleware.APIKeyHeader,
		middleware.IdempotencyKeyHeader, middleware.RequestIDHeader, middleware.SessionIDHeader,
	}
	corsExposed = []string{
		middleware.RequestIDHeader, middleware.SessionIDHeader, middleware.IdempotencyReplayedHeader,
		"Content-Disposition", "X-Row-Count",
	}
)

// NewRouter wires the storefront under /api and the admin console under
// /api/admin. The console sits behind staff JWTs when an AuthService is
// configured, behind API keys when only keys are, and is absent otherwise.
func NewRouter(handlers *Handlers, health *HealthHandler, cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(corsMiddleware(cfg.CORSOrigins))
	router.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		metrics.PrometheusMiddleware(),
		middleware.Compression(),
		middleware.RequestLogger(cfg.LoggingService),
		middleware.ErrorHandler(),
		middleware.WithLoggingService(cfg.LoggingService),
	)
	if cfg.RateLimit > 0 {
		router.Use(cfg.rateLimiter().RateLimit())
	}

	health.Register(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	mountSwagger(router, cfg.SwaggerUser, cfg.SwaggerPass)

	api := router.Group("/api")
	if cfg.RequestTimeout > 0 {
		api.Use(middleware.TimeoutWithDuration(cfg.RequestTimeout))
	}
	if cfg.EnableIdempotency {
		replay := middleware.DefaultIdempotencyConfig()
		if cfg.IdempotencyStore != nil {
			replay.Store = cfg.IdempotencyStore
		}
		api.Use(middleware.Idempotency(replay))
	}

	if handlers != nil {
		NewStorefrontRoutes(handlers).RegisterPublicRoutes(api)
	}

	switch {
	case cfg.AuthService != nil:
		staff := NewAuthRoutes(cfg.AuthService).Register(api, &cfg)
		if handlers != nil {
			NewAdminRoutes(handlers).RegisterProtectedRoutes(staff)
		}
	case handlers != nil && cfg.EnableAuth && len(cfg.APIKeys) > 0:
		NewAdminRoutes(handlers).RegisterAPIKeyRoutes(api, cfg.APIKeys)
	}

	return router
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		origins = devOrigins
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     corsHeaders,
		ExposeHeaders:    corsExposed,
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	})
}

func mountSwagger(router *gin.Engine, user, pass string) {
	docs := ginSwagger.WrapHandler(swaggerFiles.Handler)
	if user == "" || pass == "" {
		router.GET("/swagger/*any", docs)
		return
	}
	router.Group("/swagger", gin.BasicAuth(gin.Accounts{user: pass})).GET("/*any", docs)
}

func (cfg *RouterConfig) rateLimiter() *middleware.RateLimiter {
	if cfg.RateStore != nil {
		return middleware.NewRateLimiterWithStore(cfg.RateStore, cfg.RateLimit, cfg.RateWindow)
	}
	return middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
}
