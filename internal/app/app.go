// Package app holds process bootstrap shared by the binaries: logging,
// storage selection and notification sink assembly.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ErlanBelekov/printmarket/config"
	"github.com/ErlanBelekov/printmarket/internal/health"
	"github.com/ErlanBelekov/printmarket/internal/infrastructure/memory"
	"github.com/ErlanBelekov/printmarket/internal/infrastructure/postgres"
	ctxlog "github.com/ErlanBelekov/printmarket/internal/log"
	"github.com/ErlanBelekov/printmarket/internal/notify"
	"github.com/ErlanBelekov/printmarket/internal/repository"
	"github.com/lmittmann/tint"
)

// NewLogger returns a colored handler locally and JSON elsewhere, both
// wrapped so request_id and user_id are attached from context.
func NewLogger(w io.Writer, env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}

// Repositories is one storage backend behind the repository interfaces.
type Repositories struct {
	Jobs          repository.JobRepository
	Printers      repository.PrinterRepository
	Bids          repository.BidRepository
	Users         repository.UserRepository
	Notifications repository.NotificationRepository

	// Deps are pinged by readiness. Empty for the memory backend.
	Deps []health.Dependency

	// Shared reports whether other processes see the same data.
	Shared bool

	close func()
}

func (r *Repositories) Close() {
	if r.close != nil {
		r.close()
	}
}

// OpenStorage connects the backend named by STORAGE, running migrations
// first when AUTO_MIGRATE is set.
func OpenStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Repositories, error) {
	if cfg.Storage == "memory" {
		logger.Warn("using in-memory storage; data is lost on restart")
		store := memory.New()
		return &Repositories{
			Jobs:          store.Jobs(),
			Printers:      store.Printers(),
			Bids:          store.Bids(),
			Users:         store.Users(),
			Notifications: store.Notifications(),
		}, nil
	}

	if cfg.AutoMigrate {
		if err := postgres.MigrateUp(cfg.DatabaseURL); err != nil {
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
		logger.Info("migrations applied")
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}
	logger.Info("db connected")

	return &Repositories{
		Jobs:          postgres.NewJobRepository(pool),
		Printers:      postgres.NewPrinterRepository(pool),
		Bids:          postgres.NewBidRepository(pool),
		Users:         postgres.NewUserRepository(pool),
		Notifications: postgres.NewNotificationRepository(pool),
		Deps:          []health.Dependency{{Name: "postgres", Pinger: pool}},
		Shared:        true,
		close:         pool.Close,
	}, nil
}

// Sinks is the assembled delivery chain plus anything readiness should ping.
type Sinks struct {
	Sink notify.Sink
	Deps []health.Dependency

	closers []func() error
}

func (s *Sinks) Close() {
	for _, c := range s.closers {
		_ = c()
	}
}

// BuildSinks always persists to the store. It logs locally, emails outside
// local, and adds AMQP and webhook delivery when configured.
func BuildSinks(cfg *config.Config, repos *Repositories, logger *slog.Logger) (*Sinks, error) {
	sinks := []notify.Sink{notify.NewStoreSink(repos.Notifications)}
	out := &Sinks{}

	if cfg.Env == "local" {
		sinks = append(sinks, notify.NewLogSink(logger))
	} else {
		mailer := notify.NewResendMailer(cfg.ResendAPIKey, cfg.ResendFrom)
		sinks = append(sinks, notify.NewEmailSink(repos.Users, mailer, logger))
	}

	if cfg.RabbitMQURL != "" {
		mq, err := notify.DialAMQP(cfg.RabbitMQURL, cfg.RabbitMQExchange)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, mq)
		out.Deps = append(out.Deps, health.Dependency{Name: "amqp", Pinger: mq})
		out.closers = append(out.closers, mq.Close)
		logger.Info("publishing notifications to rabbitmq", "exchange", cfg.RabbitMQExchange)
	}

	if cfg.NotifyWebhookURL != "" {
		sinks = append(sinks, notify.NewWebhookSink(cfg.NotifyWebhookURL))
	}

	out.Sink = notify.NewFanout(sinks...)
	return out, nil
}
