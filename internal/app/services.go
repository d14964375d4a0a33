// Package app provides service initialization.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/guttosm/catering-service/config"
	"github.com/guttosm/catering-service/internal/domain/model"
	"github.com/guttosm/catering-service/internal/engine"
	"github.com/guttosm/catering-service/internal/maps"
	"github.com/guttosm/catering-service/internal/payment"
	"github.com/guttosm/catering-service/internal/repository"
	"github.com/guttosm/catering-service/internal/service"
	"github.com/guttosm/catering-service/internal/service/cache"
	"github.com/guttosm/catering-service/internal/session"
)

const redisConnectTimeout = 5 * time.Second

// ServiceComponents holds service-related components.
type ServiceComponents struct {
	Engine   engine.Settings
	Sessions session.Store
	// SessionPing is set when sessions live in Redis.
	SessionPing func(ctx context.Context) error
	Settings    service.SettingsService
	Menu        service.MenuService
	Packages    service.PackageService
	Cart        service.CartService
	Delivery    *service.DeliveryServiceImpl
	Checkout    service.CheckoutService
	Orders      service.OrderService
}

// EngineSettings builds the pricing engine rules from configuration.
func EngineSettings(cfg config.CateringConfig) (engine.Settings, error) {
	es := engine.DefaultSettings()
	if cfg.Timezone != "" {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return es, fmt.Errorf("loading timezone %q: %w", cfg.Timezone, err)
		}
		es.Location = loc
	}
	if cfg.LeadTime > 0 {
		es.LeadTime = cfg.LeadTime
	}
	if cfg.MaxDaysAhead > 0 {
		es.MaxDaysAhead = cfg.MaxDaysAhead
	}
	if cfg.SlotMinutes > 0 {
		es.SlotMinutes = cfg.SlotMinutes
	}
	if cfg.TaxRate > 0 {
		es.TaxRate = cfg.TaxRate
	}
	if cfg.DiscountCode != "" {
		es.DiscountCode = cfg.DiscountCode
		es.DiscountPct = cfg.DiscountPct
	}
	if cfg.WarmersFee > 0 {
		es.WarmersFee = cfg.WarmersFee
	}
	if cfg.UtensilsFee > 0 {
		es.UtensilsFee = cfg.UtensilsFee
	}
	if cfg.NearMiles > 0 && cfg.FarMiles > cfg.NearMiles {
		es.Fees = engine.FeeSchedule{
			NearMiles: cfg.NearMiles,
			NearFee:   cfg.NearFee,
			FarMiles:  cfg.FarMiles,
			FarFee:    cfg.FarFee,
		}
	}
	if cfg.DeliveryHoursMinTotal > 0 {
		es.DeliveryHoursMinTotal = cfg.DeliveryHoursMinTotal
	}
	if cfg.ManualMaxMiles > cfg.ManualMinMiles {
		es.ManualMinMiles = cfg.ManualMinMiles
		es.ManualMaxMiles = cfg.ManualMaxMiles
	}
	return es, nil
}

// InitializeSessionStore connects to Redis when enabled and falls back to
// an in-process store otherwise.
func InitializeSessionStore(cfg config.RedisConfig) session.Store {
	if cfg.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), redisConnectTimeout)
		defer cancel()

		store, err := session.NewRedisStore(ctx, session.RedisConfig{
			URL:      cfg.URL,
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			PoolSize: cfg.PoolSize,
			TTL:      cfg.SessionTTL,
		})
		if err == nil {
			log.Info().Msg("Using Redis session store")
			return store
		}
		log.Error().Err(err).Msg("Failed to connect to Redis - using in-memory sessions")
	}
	return session.NewMemoryStore(cfg.SessionTTL)
}

// InitializeServices wires the storefront and admin services. db may be nil,
// in which case settings fall back to defaults and persistence-backed
// operations report a dependency error.
func InitializeServices(cfg config.Config, db *DatabaseComponents) (*ServiceComponents, error) {
	es, err := EngineSettings(cfg.Catering)
	if err != nil {
		return nil, err
	}

	var (
		menuRepo     repository.MenuRepositoryInterface
		orderRepo    repository.OrderRepositoryInterface
		settingsRepo repository.SettingsRepositoryInterface
	)
	if db != nil {
		menuRepo, orderRepo, settingsRepo = db.MenuRepo, db.OrderRepo, db.SettingsRepo
	}

	var (
		settingsCache cache.Cache[model.SettingsKind, any]
		menuOpts      []service.MenuOption
	)
	if cfg.Cache.Size > 0 {
		settingsCache = cache.NewTTL[model.SettingsKind, any](cfg.Cache.Size, cfg.Cache.TTL, cache.WithCleanupInterval(cfg.Cache.TTL))
		menuOpts = append(menuOpts, service.WithMenuCache(
			cache.NewTTL[string, []model.MenuItem](cfg.Cache.Size, cfg.Cache.TTL, cache.WithCleanupInterval(cfg.Cache.TTL)),
		))
	}

	store := InitializeSessionStore(cfg.Redis)
	var sessionPing func(ctx context.Context) error
	if redisStore, ok := store.(*session.RedisStore); ok {
		sessionPing = redisStore.Ping
	}
	settings := service.NewSettingsService(settingsRepo, settingsCache)
	menu := service.NewMenuService(menuRepo, settings, menuOpts...)
	delivery := service.NewDeliveryService(newDistanceLookup(cfg.Maps), cfg.Catering.OriginAddress, es, cfg.Maps.Timeout)
	checkout := service.NewCheckoutService(settings, delivery, store, es)

	var orderOpts []service.OrderOption
	if gateway := newPaymentGateway(cfg.Payment, cfg.Catering.Currency); gateway != nil {
		orderOpts = append(orderOpts, service.WithPaymentGateway(gateway, cfg.Catering.Currency))
	}

	return &ServiceComponents{
		Engine:      es,
		Sessions:    store,
		SessionPing: sessionPing,
		Settings:    settings,
		Menu:        menu,
		Packages:    service.NewPackageService(settings, menu, store),
		Cart:        service.NewCartService(menu, store),
		Delivery:    delivery,
		Checkout:    checkout,
		Orders:      service.NewOrderService(orderRepo, checkout, store, es.Location, orderOpts...),
	}, nil
}

// newDistanceLookup returns nil when no Maps key is configured, which makes
// every delivery quote fall back to manual mileage.
func newDistanceLookup(cfg config.MapsConfig) service.DistanceLookup {
	if cfg.APIKey == "" {
		log.Warn().Msg("GOOGLE_MAPS_API_KEY not set - delivery distance requires manual entry")
		return nil
	}
	client, err := maps.NewClient(cfg.APIKey, maps.WithBaseURL(cfg.BaseURL), maps.WithTimeout(cfg.Timeout))
	if err != nil {
		log.Error().Err(err).Msg("Failed to create distance client")
		return nil
	}
	return client
}

// newPaymentGateway returns nil when card payments are not configured.
func newPaymentGateway(cfg config.PaymentConfig, currency string) payment.Gateway {
	if cfg.StripeAPIKey == "" {
		log.Warn().Msg("STRIPE_API_KEY not set - card payments disabled")
		return nil
	}
	gateway, err := payment.NewStripeGateway(payment.Config{
		APIKey:      cfg.StripeAPIKey,
		Environment: cfg.Environment,
		SuccessURL:  cfg.SuccessURL,
		CancelURL:   cfg.CancelURL,
		Currency:    currency,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to create payment gateway - card payments disabled")
		return nil
	}
	return gateway
}
