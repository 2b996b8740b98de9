package config

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	ServiceName              string        `env:"SERVICE_NAME,default=inventory-ledger"`
	LogLevel                 string        `env:"LOG_LEVEL,default=info"`
	Port                     int           `env:"PORT,default=50053"`
	StoreDriver              string        `env:"STORE_DRIVER,default=postgres"`
	DatabaseURL              string        `env:"DATABASE_URL"`
	RunMigrations            bool          `env:"RUN_MIGRATIONS,default=true"`
	RedisURL                 string        `env:"REDIS_URL"`
	KafkaBrokers             []string      `env:"KAFKA_BROKERS"`
	KafkaMovementTopic       string        `env:"KAFKA_MOVEMENT_TOPIC,default=inventory.stock-movements"`
	ReservationHold          time.Duration `env:"RESERVATION_HOLD,default=15m"`
	DefaultLowStockThreshold int64         `env:"DEFAULT_LOW_STOCK_THRESHOLD,default=10"`
	ExpirySweepEnabled       bool          `env:"EXPIRY_SWEEP_ENABLED,default=true"`
	ExpirySweepInterval      time.Duration `env:"EXPIRY_SWEEP_INTERVAL,default=30s"`
	ExpirySweepBatchSize     int           `env:"EXPIRY_SWEEP_BATCH_SIZE,default=100"`
	IdempotencyKeyTTL        time.Duration `env:"IDEMPOTENCY_KEY_TTL,default=24h"`
}

func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_DRIVER is %q", StoreDriverPostgres)
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("store driver must be %q or %q, got %q", StoreDriverPostgres, StoreDriverMemory, c.StoreDriver)
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level must be one of debug, info, warn, error, got %q", c.LogLevel)
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}

	if c.ReservationHold < time.Minute || c.ReservationHold > 24*time.Hour {
		return fmt.Errorf("reservation hold must be between 1 minute and 24 hours, got %v", c.ReservationHold)
	}

	if c.DefaultLowStockThreshold < 1 {
		return fmt.Errorf("default low stock threshold must be positive, got %d", c.DefaultLowStockThreshold)
	}

	if c.ExpirySweepEnabled {
		if c.ExpirySweepInterval < time.Second || c.ExpirySweepInterval > 10*time.Minute {
			return fmt.Errorf("expiry sweep interval must be between 1 second and 10 minutes, got %v", c.ExpirySweepInterval)
		}
		if c.ExpirySweepBatchSize < 1 || c.ExpirySweepBatchSize > 1000 {
			return fmt.Errorf("expiry sweep batch size must be between 1 and 1000, got %d", c.ExpirySweepBatchSize)
		}
	}

	if c.IdempotencyKeyTTL < time.Minute {
		return fmt.Errorf("idempotency key TTL must be at least 1 minute, got %v", c.IdempotencyKeyTTL)
	}

	return nil
}

// SlogLevel maps LOG_LEVEL onto a slog level. validate has already rejected
// unknown values.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
