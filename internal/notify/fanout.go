package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ErlanBelekov/printmarket/internal/domain"
	"github.com/ErlanBelekov/printmarket/internal/metrics"
)

// Fanout sends every notification to each sink in turn. One sink failing does
// not stop the others; all failures are joined into the returned error.
type Fanout struct {
	sinks []Sink
}

func NewFanout(sinks ...Sink) *Fanout {
	return &Fanout{sinks: sinks}
}

func (f *Fanout) Name() string { return "fanout" }

func (f *Fanout) Send(ctx context.Context, n domain.Notification) error {
	var errs []error
	for _, s := range f.sinks {
		if err := s.Send(ctx, n); err != nil {
			metrics.NotificationsFailedTotal.WithLabelValues(s.Name()).Inc()
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		metrics.NotificationsDeliveredTotal.WithLabelValues(s.Name()).Inc()
	}
	return errors.Join(errs...)
}

// LogSink writes notifications to the log. Used in local development.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger.With("component", "notify")}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Send(ctx context.Context, n domain.Notification) error {
	s.logger.InfoContext(ctx, "notification",
		"notification_id", n.ID,
		"user_id", n.UserID,
		"type", n.Type,
		"title", n.Title,
		"message", n.Message,
	)
	return nil
}
