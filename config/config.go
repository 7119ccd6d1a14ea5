package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env      string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT" envDefault:"8080" validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	Storage     string `env:"STORAGE" envDefault:"postgres" validate:"oneof=postgres memory"`
	DatabaseURL string `env:"DATABASE_URL" validate:"required_if=Storage postgres"`
	DBMaxConns  int32  `env:"DB_MAX_CONNS" envDefault:"20" validate:"min=1,max=200"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"false"`
	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	JWTSecret    string `env:"JWT_SECRET,required"   validate:"required,min=32"`
	ResendAPIKey string `env:"RESEND_API_KEY"         validate:"required_if=Env production,required_if=Env staging"`
	ResendFrom   string `env:"RESEND_FROM"            validate:"required_if=Env production,required_if=Env staging"`

	RabbitMQURL      string `env:"RABBITMQ_URL"`
	RabbitMQExchange string `env:"RABBITMQ_EXCHANGE" envDefault:"printmarket.notifications"`
	NotifyWebhookURL string `env:"NOTIFY_WEBHOOK_URL" validate:"omitempty,url"`
	NotifyQueueSize  int    `env:"NOTIFY_QUEUE_SIZE" envDefault:"1024" validate:"min=1"`
	NotifyWorkers    int    `env:"NOTIFY_WORKERS" envDefault:"4" validate:"min=1,max=64"`

	MatchLocationSource string `env:"MATCH_LOCATION_SOURCE" envDefault:"notes" validate:"oneof=notes location"`
	MatchDefaultLimit   int    `env:"MATCH_DEFAULT_LIMIT" envDefault:"10" validate:"min=1,max=50"`

	BidExpirySchedule string `env:"BID_EXPIRY_SCHEDULE" envDefault:"*/15 * * * *" validate:"required"`
	BidTTLHours       int    `env:"BID_TTL_HOURS" envDefault:"72" validate:"min=1"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
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

func (c *Config) BidTTL() time.Duration {
	return time.Duration(c.BidTTLHours) * time.Hour
}
