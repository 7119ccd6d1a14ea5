// Package expiry moves pending bids that outlived their TTL to expired.
// It runs on a cron schedule outside the request path.
package expiry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ErlanBelekov/printmarket/internal/domain"
	"github.com/ErlanBelekov/printmarket/internal/metrics"
	"github.com/ErlanBelekov/printmarket/internal/repository"
	"github.com/robfig/cron/v3"
)

const defaultBatch = 100

type Notifier interface {
	Emit(n domain.Notification)
}

type Sweeper struct {
	bids     repository.BidRepository
	notifier Notifier
	schedule string
	ttl      time.Duration
	batch    int
	logger   *slog.Logger
	now      func() time.Time
}

func NewSweeper(bids repository.BidRepository, notifier Notifier, schedule string, ttl time.Duration, logger *slog.Logger) (*Sweeper, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("parse expiry schedule %q: %w", schedule, err)
	}
	return &Sweeper{
		bids:     bids,
		notifier: notifier,
		schedule: schedule,
		ttl:      ttl,
		batch:    defaultBatch,
		logger:   logger.With("component", "expiry"),
		now:      time.Now,
	}, nil
}

// Start sweeps once immediately, then on every schedule tick until ctx ends.
// A tick is skipped while the previous sweep is still running.
func (s *Sweeper) Start(ctx context.Context) {
	metrics.ExpirerStartTime.SetToCurrentTime()

	c := cron.New(cron.WithChain(
		cron.Recover(cronLogger{s.logger}),
		cron.SkipIfStillRunning(cronLogger{s.logger}),
	))
	if _, err := c.AddFunc(s.schedule, func() { s.sweepAndLog(ctx) }); err != nil {
		s.logger.Error("schedule expiry sweep", "error", err)
		return
	}

	s.logger.Info("expiry sweeper started", "schedule", s.schedule, "ttl", s.ttl)
	s.sweepAndLog(ctx)
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	s.logger.Info("expiry sweeper shut down")
}

// Sweep expires every pending bid created before now minus the TTL, in
// batches, and notifies each bidder. It returns how many bids it expired.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	start := time.Now()
	defer func() { metrics.ExpirySweepDuration.Observe(time.Since(start).Seconds()) }()

	cutoff := s.now().Add(-s.ttl)
	total := 0
	for {
		expired, err := s.bids.ExpireStale(ctx, cutoff, s.batch)
		if err != nil {
			return total, fmt.Errorf("expire stale bids: %w", err)
		}

		for _, b := range expired {
			s.notifier.Emit(domain.BidExpiredNotification(b))
		}
		total += len(expired)
		metrics.ExpiredBidsTotal.Add(float64(len(expired)))
		metrics.BidsResolvedTotal.WithLabelValues(string(domain.BidExpired)).Add(float64(len(expired)))

		if len(expired) < s.batch || ctx.Err() != nil {
			return total, nil
		}
	}
}

func (s *Sweeper) sweepAndLog(ctx context.Context) {
	n, err := s.Sweep(ctx)
	if err != nil {
		s.logger.Error("expiry sweep", "error", err, "expired", n)
		return
	}
	if n > 0 {
		s.logger.Info("expired stale bids", "count", n)
	}
}

// cronLogger routes robfig/cron's logging into slog.
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error(msg, append(keysAndValues, "error", err)...)
}
