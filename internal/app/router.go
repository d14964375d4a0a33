// Package app provides router configuration.
package app

import (
	"github.com/guttosm/catering-service/config"
	"github.com/guttosm/catering-service/internal/http"
	"github.com/guttosm/catering-service/internal/middleware"
	"github.com/guttosm/catering-service/internal/service"
	"github.com/guttosm/catering-service/internal/session"
	"github.com/rs/zerolog/log"
)

// RouterComponents holds router-related components.
type RouterComponents struct {
	Handlers      *http.Handlers
	HealthHandler *http.HealthHandler
	Config        http.RouterConfig
}

// InitializeRouter initializes HTTP handlers and router configuration.
func InitializeRouter(
	services *ServiceComponents,
	dbComponents *DatabaseComponents,
	cfg config.Config,
) *RouterComponents {
	var (
		loggingService service.LoggingService
		authService    service.AuthService
	)
	if dbComponents != nil {
		loggingService = dbComponents.LoggingService
	}

	handlers := http.NewHandlers(http.Services{
		Menu:     services.Menu,
		Packages: services.Packages,
		Cart:     services.Cart,
		Delivery: services.Delivery,
		Checkout: services.Checkout,
		Orders:   services.Orders,
		Settings: services.Settings,
		Logs:     loggingService,
		Location: services.Engine.Location,
	})

	healthHandler := http.NewHealthHandler()
	if services.Delivery != nil {
		healthHandler.RegisterOptionalCircuitBreaker("distance_lookup", services.Delivery.Breaker())
	}
	if services.SessionPing != nil {
		healthHandler.RegisterChecker("redis", http.HealthCheckFunc(services.SessionPing))
	}

	if dbComponents != nil {
		if dbComponents.HealthCheck != nil {
			healthHandler.RegisterChecker("mongodb", http.HealthCheckFunc(dbComponents.HealthCheck))
		}
		for name, cb := range dbComponents.Breakers {
			healthHandler.RegisterCircuitBreaker(name, cb)
		}
		if loggingService != nil {
			middleware.InitAsyncLogger(loggingService, middleware.DefaultAsyncLoggerConfig())
		}

		if dbComponents.UserRepo != nil && dbComponents.TokenRepo != nil {
			authService = service.NewAuthService(dbComponents.UserRepo, dbComponents.TokenRepo, cfg.Auth)
			if err := initializeAdminAccount(authService, cfg.Auth); err != nil {
				log.Warn().Err(err).Msg("Failed to initialize admin account")
			}
		}
	}

	var (
		replays middleware.ReplayStore
		rates   middleware.RateStore
	)
	if redisStore, ok := services.Sessions.(*session.RedisStore); ok && redisStore.Client() != nil {
		replays = middleware.NewRedisReplayStore(redisStore.Client(), middleware.IdempotencyKeyTTL)
		rates = middleware.NewRedisRateStore(redisStore.Client())
	}

	routerCfg := http.RouterConfig{
		RateLimit:         cfg.Server.RateLimit,
		RateWindow:        cfg.Server.RateWindow,
		EnableAuth:        cfg.Auth.Enabled,
		APIKeys:           cfg.Auth.APIKeys,
		EnableIdempotency: true,
		IdempotencyStore:  replays,
		RateStore:         rates,
		RequestTimeout:    cfg.Server.RequestTimeout,
		CORSOrigins:       cfg.Server.CORSOrigins,
		SwaggerUser:       cfg.Server.SwaggerUser,
		SwaggerPass:       cfg.Server.SwaggerPass,
		LoggingService:    loggingService,
		AuthService:       authService,
	}

	return &RouterComponents{
		Handlers:      handlers,
		HealthHandler: healthHandler,
		Config:        routerCfg,
	}
}
