// Package notify delivers domain notifications off the request path.
//
// Emit never blocks and never fails: events go onto a bounded queue and are
// drained by a fixed worker pool. A full queue drops the event. Delivery
// errors are logged and counted, never returned to the caller.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ErlanBelekov/printmarket/internal/domain"
	"github.com/ErlanBelekov/printmarket/internal/metrics"
	"github.com/google/uuid"
)

// Sink is one delivery channel for notifications.
type Sink interface {
	Name() string
	Send(ctx context.Context, n domain.Notification) error
}

type Dispatcher struct {
	sink    Sink
	queue   chan domain.Notification
	workers int
	timeout time.Duration
	logger  *slog.Logger
	now     func() time.Time

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(sink Sink, logger *slog.Logger, queueSize, workers int) *Dispatcher {
	return &Dispatcher{
		sink:    sink,
		queue:   make(chan domain.Notification, queueSize),
		workers: workers,
		timeout: 10 * time.Second,
		logger:  logger.With("component", "notify"),
		now:     time.Now,
	}
}

func (d *Dispatcher) Start() {
	d.logger.Info("notification dispatcher started", "workers", d.workers, "queue_size", cap(d.queue))
	for range d.workers {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			for n := range d.queue {
				metrics.NotificationQueueDepth.Set(float64(len(d.queue)))
				d.deliver(n)
			}
		}()
	}
}

// Emit stamps the event with an ID and time if missing and queues it.
func (d *Dispatcher) Emit(n domain.Notification) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = d.now()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.drop(n, "dispatcher closed")
		return
	}

	select {
	case d.queue <- n:
		metrics.NotificationQueueDepth.Set(float64(len(d.queue)))
	default:
		d.drop(n, "queue full")
	}
}

// Close stops accepting events and waits for queued ones to be delivered,
// or for ctx to end.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("notification dispatcher drained")
		return nil
	case <-ctx.Done():
		d.logger.Warn("notification dispatcher close timed out", "pending", len(d.queue))
		return ctx.Err()
	}
}

func (d *Dispatcher) deliver(n domain.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := d.sink.Send(ctx, n); err != nil {
		d.logger.Warn("deliver notification",
			"notification_id", n.ID,
			"type", n.Type,
			"user_id", n.UserID,
			"error", err,
		)
	}
}

func (d *Dispatcher) drop(n domain.Notification, reason string) {
	metrics.NotificationsDroppedTotal.Inc()
	d.logger.Warn("notification dropped", "notification_id", n.ID, "type", n.Type, "reason", reason)
}
