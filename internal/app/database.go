// Package app provides database initialization and setup.
package app

import (
	"context"

	"github.com/guttosm/catering-service/config"
	"github.com/guttosm/catering-service/internal/circuitbreaker"
	"github.com/guttosm/catering-service/internal/repository"
	"github.com/guttosm/catering-service/internal/service"
	"github.com/rs/zerolog/log"
)

// DatabaseComponents holds database-related components.
type DatabaseComponents struct {
	MenuRepo       repository.MenuRepositoryInterface
	OrderRepo      repository.OrderRepositoryInterface
	SettingsRepo   repository.SettingsRepositoryInterface
	LoggingService service.LoggingService
	UserRepo       repository.UserRepositoryInterface
	TokenRepo      repository.TokenRepositoryInterface
	// HealthCheck pings the MongoDB deployment.
	HealthCheck func(ctx context.Context) error
	// Close disconnects the MongoDB client.
	Close func(ctx context.Context) error
	// Breakers maps health check names to the breakers guarding each collection.
	Breakers map[string]*circuitbreaker.CircuitBreaker
}

// InitializeDatabase initializes MongoDB connection and creates required repositories and services.
// Returns nil if database is disabled or connection fails.
func InitializeDatabase(cfg config.DatabaseConfig) *DatabaseComponents {
	if !cfg.Enabled {
		return nil
	}

	mongoCfg := repository.DefaultMongoConfig()
	if cfg.MaxPoolSize > 0 {
		mongoCfg.MaxPoolSize = cfg.MaxPoolSize
		mongoCfg.MinPoolSize = min(mongoCfg.MinPoolSize, cfg.MaxPoolSize)
	}
	if cfg.ConnectTimeout > 0 {
		mongoCfg.ConnectTimeout = cfg.ConnectTimeout
	}

	db, err := repository.NewMongoDBWithConfig(cfg.URI, cfg.DatabaseName, mongoCfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to MongoDB - continuing without database")
		return nil
	}

	log.Info().Str("database", cfg.DatabaseName).Msg("Connected to MongoDB")

	ttlDays := int(cfg.LogsTTL.Hours() / 24)
	if err := db.SetLogsTTL(context.Background(), ttlDays); err != nil {
		log.Warn().Err(err).Msg("Failed to set logs TTL index (may already exist)")
	}

	return newDatabaseComponents(db, cfg)
}

func newDatabaseComponents(db *repository.MongoDB, cfg config.DatabaseConfig) *DatabaseComponents {
	breakers := map[string]*circuitbreaker.CircuitBreaker{
		"mongodb_menu":     newBreaker(cfg, "mongodb-menu"),
		"mongodb_orders":   newBreaker(cfg, "mongodb-orders"),
		"mongodb_settings": newBreaker(cfg, "mongodb-settings"),
		"mongodb_logs":     newBreaker(cfg, "mongodb-logs"),
	}

	logsRepo := repository.NewLogsRepositoryWithCircuitBreaker(repository.NewLogsRepository(db), breakers["mongodb_logs"])

	return &DatabaseComponents{
		MenuRepo:       repository.NewMenuRepositoryWithCircuitBreaker(repository.NewMenuRepository(db), breakers["mongodb_menu"]),
		OrderRepo:      repository.NewOrderRepositoryWithCircuitBreaker(repository.NewOrderRepository(db), breakers["mongodb_orders"]),
		SettingsRepo:   repository.NewSettingsRepositoryWithCircuitBreaker(repository.NewSettingsRepository(db), breakers["mongodb_settings"]),
		LoggingService: service.NewLoggingService(logsRepo),
		UserRepo:       repository.NewUserRepository(db),
		TokenRepo:      repository.NewTokenRepository(db),
		HealthCheck:    db.HealthCheck,
		Close:          db.Close,
		Breakers:       breakers,
	}
}

func newBreaker(cfg config.DatabaseConfig, name string) *circuitbreaker.CircuitBreaker {
	return circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.CircuitBreakerTimeout,
		Name:             name,
	})
}
