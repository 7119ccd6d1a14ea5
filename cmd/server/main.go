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
	"github.com/ErlanBelekov/printmarket/internal/matching"
	"github.com/ErlanBelekov/printmarket/internal/metrics"
	"github.com/ErlanBelekov/printmarket/internal/notify"
	httptransport "github.com/ErlanBelekov/printmarket/internal/transport/http"
	"github.com/ErlanBelekov/printmarket/internal/transport/http/handler"
	"github.com/ErlanBelekov/printmarket/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := app.NewLogger(os.Stdout, cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

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

	location, err := matching.LocationSourceByName(cfg.MatchLocationSource)
	if err != nil {
		stop()
		log.Fatalf("match: %v", err)
	}
	scorer := matching.NewScorer(location)

	// Jobs
	jobUsecase := usecase.NewJobUsecase(repos.Jobs, repos.Bids, repos.Printers, dispatcher)
	jobHandler := handler.NewJobHandler(jobUsecase, logger)

	// Printers
	printerUsecase := usecase.NewPrinterUsecase(repos.Printers)
	printerHandler := handler.NewPrinterHandler(printerUsecase, logger)

	// Matching
	matchUsecase := usecase.NewMatchUsecase(repos.Jobs, repos.Printers, scorer, cfg.MatchDefaultLimit)
	matchHandler := handler.NewMatchHandler(matchUsecase, logger)

	// Bids
	bidUsecase := usecase.NewBidUsecase(repos.Bids, repos.Jobs, repos.Printers, dispatcher)
	bidHandler := handler.NewBidHandler(bidUsecase, logger)

	// Notifications
	notificationUsecase := usecase.NewNotificationUsecase(repos.Notifications)
	notificationHandler := handler.NewNotificationHandler(notificationUsecase, logger)

	// Users
	userUsecase := usecase.NewUserUsecase(repos.Users)
	userHandler := handler.NewUserHandler(userUsecase, logger)

	metrics.Register(prometheus.DefaultRegisterer)
	deps := append(append([]health.Dependency{}, repos.Deps...), sinks.Deps...)
	checker := health.NewChecker(logger, prometheus.DefaultRegisterer, deps...)

	// A private in-memory store is invisible to cmd/expirer, so sweep here.
	sweepDone := make(chan struct{})
	if !repos.Shared {
		sweeper, err := expiry.NewSweeper(repos.Bids, dispatcher, cfg.BidExpirySchedule, cfg.BidTTL(), logger)
		if err != nil {
			stop()
			log.Fatalf("expiry: %v", err)
		}
		go func() {
			defer close(sweepDone)
			sweeper.Start(ctx)
		}()
	} else {
		close(sweepDone)
	}

	router := httptransport.NewRouter(logger, httptransport.Handlers{
		Jobs:          jobHandler,
		Printers:      printerHandler,
		Matches:       matchHandler,
		Bids:          bidHandler,
		Notifications: notificationHandler,
		Users:         userHandler,
	}, repos.Users, []byte(cfg.JWTSecret))

	srv := http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	metricsSrv := health.NewServer(":"+cfg.MetricsPort, checker, prometheus.DefaultGatherer)

	go func() {
		logger.Info("server started", "port", cfg.Port, "storage", cfg.Storage)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	<-sweepDone
	if err := dispatcher.Close(shutdownCtx); err != nil {
		logger.Error("notification drain", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}
