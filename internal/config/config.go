package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DBDriver    string
	DatabaseURL string
	SQLitePath  string

	JWTSecret string

	LogLevel  string
	LogFormat string

	OTLPEndpoint string

	Ledger LedgerConfig
}

// LedgerConfig tunes the commit path.
type LedgerConfig struct {
	LockTimeout  time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
	ExpiryGrace  time.Duration
}

// DefaultLedgerConfig is what Load falls back to for unset keys.
func DefaultLedgerConfig() LedgerConfig {
	return LedgerConfig{
		LockTimeout:  3 * time.Second,
		MaxRetries:   3,
		RetryBackoff: 50 * time.Millisecond,
	}
}

// Load reads .env (when present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}
	return FromEnv()
}

// FromEnv builds the config from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", "3000"),
		DBDriver:     getEnv("DB_DRIVER", "postgres"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		SQLitePath:   getEnv("SQLITE_PATH", "ledger.db"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		Ledger:       DefaultLedgerConfig(),
	}

	if cfg.DatabaseURL == "" && cfg.DBDriver == "postgres" {
		cfg.DatabaseURL = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			os.Getenv("DB_HOST"),
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_NAME"),
			getEnv("DB_PORT", "5432"),
		)
	}

	var err error
	if cfg.Ledger.LockTimeout, err = durationEnv("LEDGER_LOCK_TIMEOUT", cfg.Ledger.LockTimeout); err != nil {
		return nil, err
	}
	if cfg.Ledger.RetryBackoff, err = durationEnv("LEDGER_RETRY_BACKOFF", cfg.Ledger.RetryBackoff); err != nil {
		return nil, err
	}
	if cfg.Ledger.ExpiryGrace, err = durationEnv("LEDGER_EXPIRY_GRACE", cfg.Ledger.ExpiryGrace); err != nil {
		return nil, err
	}
	if cfg.Ledger.MaxRetries, err = intEnv("LEDGER_MAX_RETRIES", cfg.Ledger.MaxRetries); err != nil {
		return nil, err
	}
	if cfg.Ledger.MaxRetries < 0 {
		return nil, fmt.Errorf("LEDGER_MAX_RETRIES must not be negative, got %d", cfg.Ledger.MaxRetries)
	}

	switch cfg.DBDriver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func durationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func intEnv(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
