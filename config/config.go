// Package config provides configuration management for the catering service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds the complete application configuration.
type Config struct {
	Server   ServerConfig
	Cache    CacheConfig
	Auth     AuthConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Catering CateringConfig
	Maps     MapsConfig
	Payment  PaymentConfig
	Log      LogConfig
}

// LogConfig holds logger level and output format.
type LogConfig struct {
	Level  string `validate:"omitempty,oneof=trace debug info warn error"`
	Pretty bool
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string `validate:"required"`
	RateLimit      int    `validate:"gte=0"`
	RateWindow     time.Duration
	CORSOrigins    []string
	SwaggerUser    string
	SwaggerPass    string
	RequestTimeout time.Duration
	ReadTimeout    time.Duration
	// WriteTimeout also bounds routes exempt from RequestTimeout.
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// CacheConfig holds cache configuration for settings and menu reads.
type CacheConfig struct {
	Size int `validate:"gte=0"`
	TTL  time.Duration
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	Enabled          bool
	APIKeys          map[string]bool
	JWTSecretKey     string `validate:"required"`
	JWTRefreshSecret string `validate:"required"`
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration
	AdminEmail       string `validate:"omitempty,email"`
	AdminPassword    string
}

// DatabaseConfig holds MongoDB configuration.
type DatabaseConfig struct {
	URI          string
	DatabaseName string
	LogsTTL      time.Duration
	Enabled      bool
	MaxPoolSize  uint64
	// ConnectTimeout bounds the initial connect and index setup.
	ConnectTimeout time.Duration
	// CircuitBreaker configuration
	CircuitBreakerFailureThreshold int
	CircuitBreakerSuccessThreshold int
	CircuitBreakerTimeout          time.Duration
}

// RedisConfig holds the session store connection. When disabled, sessions
// live in process memory.
type RedisConfig struct {
	Enabled    bool
	URL        string
	Addr       string
	Password   string
	DB         int
	PoolSize   int
	SessionTTL time.Duration
}

// CateringConfig holds the storefront business rules.
type CateringConfig struct {
	Timezone              string `validate:"required"`
	OriginAddress         string `validate:"required"`
	LeadTime              time.Duration
	MaxDaysAhead          int     `validate:"gt=0"`
	SlotMinutes           int     `validate:"gt=0,lte=60"`
	TaxRate               float64 `validate:"gte=0,lt=1"`
	DiscountCode          string
	DiscountPct           float64 `validate:"gte=0,lte=100"`
	WarmersFee            float64 `validate:"gte=0"`
	UtensilsFee           float64 `validate:"gte=0"`
	NearMiles             float64 `validate:"gt=0"`
	NearFee               float64 `validate:"gte=0"`
	FarMiles              float64 `validate:"gtfield=NearMiles"`
	FarFee                float64 `validate:"gte=0"`
	DeliveryHoursMinTotal float64 `validate:"gte=0"`
	ManualMinMiles        float64 `validate:"gte=0"`
	ManualMaxMiles        float64 `validate:"gtfield=ManualMinMiles"`
	Currency              string  `validate:"required,len=3"`
}

// MapsConfig holds the distance lookup client configuration.
type MapsConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// PaymentConfig holds card payment session configuration.
type PaymentConfig struct {
	StripeAPIKey string
	Environment  string
	SuccessURL   string `validate:"omitempty,url"`
	CancelURL    string `validate:"omitempty,url"`
}

// Load creates a Config from environment variables. A .env file in the
// working directory is read first when present.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			RateLimit:       getEnvInt("RATE_LIMIT", 100),
			RateWindow:      getEnvDuration("RATE_WINDOW", time.Minute),
			CORSOrigins:     parseCORSOrigins(os.Getenv("CORS_ORIGINS")),
			SwaggerUser:     getEnv("SWAGGER_USER", ""),
			SwaggerPass:     getEnv("SWAGGER_PASS", ""),
			RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", 15*time.Second),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", time.Minute),
			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Cache: CacheConfig{
			Size: getEnvInt("CACHE_SIZE", 64),
			TTL:  getEnvDuration("CACHE_TTL", time.Minute),
		},
		Auth: AuthConfig{
			Enabled:          getEnvBool("AUTH_ENABLED", false),
			APIKeys:          parseAPIKeys(os.Getenv("API_KEYS")),
			JWTSecretKey:     getEnv("JWT_SECRET_KEY", "your-secret-key-change-in-production"),
			JWTRefreshSecret: getEnv("JWT_REFRESH_SECRET_KEY", "your-refresh-secret-key-change-in-production"),
			AccessTokenTTL:   getEnvDuration("JWT_ACCESS_TOKEN_TTL", 15*time.Minute),
			RefreshTokenTTL:  getEnvDuration("JWT_REFRESH_TOKEN_TTL", 7*24*time.Hour),
			AdminEmail:       getEnv("ADMIN_EMAIL", ""),
			AdminPassword:    getEnv("ADMIN_PASSWORD", ""),
		},
		Database: DatabaseConfig{
			URI:                            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			DatabaseName:                   getEnv("MONGODB_DATABASE", "catering_service"),
			LogsTTL:                        getEnvDuration("MONGODB_LOGS_TTL", 30*24*time.Hour),
			Enabled:                        getEnvBool("MONGODB_ENABLED", false),
			MaxPoolSize:                    uint64(getEnvInt("MONGODB_MAX_POOL_SIZE", 50)),
			ConnectTimeout:                 getEnvDuration("MONGODB_CONNECT_TIMEOUT", 10*time.Second),
			CircuitBreakerFailureThreshold: getEnvInt("CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5),
			CircuitBreakerSuccessThreshold: getEnvInt("CIRCUIT_BREAKER_SUCCESS_THRESHOLD", 2),
			CircuitBreakerTimeout:          getEnvDuration("CIRCUIT_BREAKER_TIMEOUT", 30*time.Second),
		},
		Redis: RedisConfig{
			Enabled:    getEnvBool("REDIS_ENABLED", false),
			URL:        getEnv("REDIS_URL", ""),
			Addr:       getEnv("REDIS_ADDR", "localhost:6379"),
			Password:   getEnv("REDIS_PASSWORD", ""),
			DB:         getEnvInt("REDIS_DB", 0),
			PoolSize:   getEnvInt("REDIS_POOL_SIZE", 10),
			SessionTTL: getEnvDuration("SESSION_TTL", 48*time.Hour),
		},
		Catering: CateringConfig{
			Timezone:              getEnv("CATERING_TIMEZONE", "America/Chicago"),
			OriginAddress:         getEnv("CATERING_ORIGIN_ADDRESS", "3311 Regent Blvd, Irving TX 75063"),
			LeadTime:              getEnvDuration("CATERING_LEAD_TIME", 18*time.Hour),
			MaxDaysAhead:          getEnvInt("CATERING_MAX_DAYS_AHEAD", 90),
			SlotMinutes:           getEnvInt("CATERING_SLOT_MINUTES", 30),
			TaxRate:               getEnvFloat("CATERING_TAX_RATE", 0.0825),
			DiscountCode:          getEnv("CATERING_DISCOUNT_CODE", "online10"),
			DiscountPct:           getEnvFloat("CATERING_DISCOUNT_PCT", 10),
			WarmersFee:            getEnvFloat("CATERING_WARMERS_FEE", 10),
			UtensilsFee:           getEnvFloat("CATERING_UTENSILS_FEE", 10),
			NearMiles:             getEnvFloat("DELIVERY_NEAR_MILES", 20),
			NearFee:               getEnvFloat("DELIVERY_NEAR_FEE", 50),
			FarMiles:              getEnvFloat("DELIVERY_FAR_MILES", 100),
			FarFee:                getEnvFloat("DELIVERY_FAR_FEE", 175),
			DeliveryHoursMinTotal: getEnvFloat("DELIVERY_HOURS_MIN_TOTAL", 500),
			ManualMinMiles:        getEnvFloat("DELIVERY_MANUAL_MIN_MILES", 1),
			ManualMaxMiles:        getEnvFloat("DELIVERY_MANUAL_MAX_MILES", 200),
			Currency:              getEnv("CATERING_CURRENCY", "usd"),
		},
		Maps: MapsConfig{
			APIKey:  getEnv("GOOGLE_MAPS_API_KEY", ""),
			BaseURL: getEnv("GOOGLE_MAPS_BASE_URL", ""),
			Timeout: getEnvDuration("GOOGLE_MAPS_TIMEOUT", 5*time.Second),
		},
		Payment: PaymentConfig{
			StripeAPIKey: getEnv("STRIPE_API_KEY", ""),
			Environment:  getEnv("STRIPE_ENV", "test"),
			SuccessURL:   getEnv("PAYMENT_SUCCESS_URL", "http://localhost:3000/order/success"),
			CancelURL:    getEnv("PAYMENT_CANCEL_URL", "http://localhost:3000/checkout"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Pretty: getEnvBool("LOG_PRETTY", false),
		},
	}
}

var validate = validator.New()

// Validate checks struct-level constraints on the loaded configuration.
func (c Config) Validate() error {
	for name, section := range map[string]any{
		"server":   c.Server,
		"cache":    c.Cache,
		"auth":     c.Auth,
		"catering": c.Catering,
		"payment":  c.Payment,
		"log":      c.Log,
	} {
		if err := validate.Struct(section); err != nil {
			return fmt.Errorf("invalid %s config: %w", name, err)
		}
	}
	if _, err := time.LoadLocation(c.Catering.Timezone); err != nil {
		return fmt.Errorf("invalid catering timezone %q: %w", c.Catering.Timezone, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// getEnvAs parses key with parse. Unset or unparsable values yield the default.
func getEnvAs[T any](key string, defaultValue T, parse func(string) (T, error)) T {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	parsed, err := parse(v)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	return getEnvAs(key, defaultValue, strconv.Atoi)
}

func getEnvFloat(key string, defaultValue float64) float64 {
	return getEnvAs(key, defaultValue, func(v string) (float64, error) { return strconv.ParseFloat(v, 64) })
}

func getEnvBool(key string, defaultValue bool) bool {
	return getEnvAs(key, defaultValue, strconv.ParseBool)
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	return getEnvAs(key, defaultValue, time.ParseDuration)
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseAPIKeys(s string) map[string]bool {
	keys := splitList(s)
	if len(keys) == 0 {
		return nil
	}
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}

// parseCORSOrigins always keeps the local storefront dev servers.
func parseCORSOrigins(s string) []string {
	return append([]string{"http://localhost:3000", "http://127.0.0.1:3000"}, splitList(s)...)
}
