// expirer moves stale pending bids to expired on a cron schedule. It runs
// beside the API against the same database.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ErlanBelekov/printmarket/config"
	"github.com/ErlanBelekov/printmarket/internal/app"
	"github.com/ErlanBelekov/printmarket/internal/expiry"
	"github.com/ErlanBelekov/printmarket/internal/health"
	"github.com/ErlanBelekov/printmarket/internal/metrics"
	"github.com/ErlanBelekov/printmarket/internal/notify"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Storage != "postgres" {
		log.Fatalf("config: expirer needs STORAGE=postgres; the API server sweeps in-memory bids itself")
	}

	logger := app.NewLogger(os.Stdout, cfg.Env, cfg.SlogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	repos, err := app.OpenStorage(ctx, cfg, logger)
	if err != nil {
		stop()
		log.Fatalf("storage: %v", err)
	}
	defer repos.Close()

	sinks, err := app.BuildSinks(cfg, repos, logger)
	if err != nil {
		stop()
		log.Fatalf("notify: %v", err)
	}
	defer sinks.Close()

	dispatcher := notify.NewDispatcher(sinks.Sink, logger, cfg.NotifyQueueSize, cfg.NotifyWorkers)
	dispatcher.Start()

	metrics.Register(prometheus.DefaultRegisterer)
	deps := append(append([]health.Dependency{}, repos.Deps...), sinks.Deps...)
	checker := health.NewChecker(logger, prometheus.DefaultRegisterer, deps...)

	sweeper, err := expiry.NewSweeper(repos.Bids, dispatcher, cfg.BidExpirySchedule, cfg.BidTTL(), logger)
	if err != nil {
		stop()
		log.Fatalf("expiry: %v", err)
	}

	metricsSrv := health.NewServer(":"+cfg.MetricsPort, checker, prometheus.DefaultGatherer)
	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	// Blocks until ctx is cancelled and the in-flight sweep finishes.
	sweeper.Start(ctx)
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := dispatcher.Close(shutdownCtx); err != nil {
		logger.Error("notification drain", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
	logger.Info("expirer shut down")
}
