package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"musafir/internal/cache"
	"musafir/internal/database"
	"musafir/internal/external"
	"musafir/internal/messaging"
	"musafir/internal/search"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	GinMode   string
	LogLevel  string
	LogFormat string

	JWTSecret string
	TokenTTL  time.Duration

	// PENDING bookings older than this are cancelled by the worker.
	BookingExpiration time.Duration
	ExpirationSweep   time.Duration

	CORSOrigins []string

	Database database.Config
	Cache    cache.Config
	NATS     messaging.Config
	Search   search.Config
	Razorpay external.RazorpayConfig
}

// Load reads configuration from the environment, with an optional .env file
// for local development.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	return &Config{
		Port:      getEnv("PORT", "8080"),
		GinMode:   getEnv("GIN_MODE", "debug"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:  time.Duration(getEnvInt("TOKEN_TTL_HOURS", 24)) * time.Hour,

		BookingExpiration: time.Duration(getEnvInt("BOOKING_EXPIRATION_MIN", 30)) * time.Minute,
		ExpirationSweep:   time.Duration(getEnvInt("EXPIRATION_SWEEP_SEC", 60)) * time.Second,

		CORSOrigins: []string{getEnv("CORS_ORIGIN", "*")},

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "musafir"),
			Password:           getEnv("DB_PASSWORD", "musafir123"),
			DBName:             getEnv("DB_NAME", "musafir"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 50),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		Cache: cache.Config{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "musafir"),
			ClientID:  getEnv("NATS_CLIENT_ID", "musafir-api"),
		},

		Search: search.Config{
			Enabled:    getEnv("ES_ENABLED", "false") == "true",
			URL:        getEnv("ES_URL", "http://localhost:9200"),
			Username:   getEnv("ES_USERNAME", ""),
			Password:   getEnv("ES_PASSWORD", ""),
			Index:      getEnv("ES_INDEX", "events"),
			MaxRetries: getEnvInt("ES_MAX_RETRIES", 3),
		},

		Razorpay: external.RazorpayConfig{
			BaseURL:       getEnv("RAZORPAY_URL", "https://api.razorpay.com"),
			KeyID:         getEnv("RAZORPAY_KEY_ID", ""),
			KeySecret:     getEnv("RAZORPAY_KEY_SECRET", ""),
			WebhookSecret: getEnv("RAZORPAY_WEBHOOK_SECRET", ""),
			Timeout:       time.Duration(getEnvInt("RAZORPAY_TIMEOUT_SEC", 30)) * time.Second,
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
