package notify_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ErlanBelekov/printmarket/internal/domain"
	"github.com/ErlanBelekov/printmarket/internal/infrastructure/memory"
	"github.com/ErlanBelekov/printmarket/internal/metrics"
	"github.com/ErlanBelekov/printmarket/internal/notify"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// ---- fakes ----

type fakeSink struct {
	name string
	send func(ctx context.Context, n domain.Notification) error
}

func (s *fakeSink) Name() string { return s.name }

func (s *fakeSink) Send(ctx context.Context, n domain.Notification) error {
	return s.send(ctx, n)
}

type fakeUsers struct {
	findByID func(ctx context.Context, id string) (*domain.User, error)
}

func (r *fakeUsers) Upsert(context.Context, string) error { return nil }

func (r *fakeUsers) SetEmail(context.Context, string, string) error { return nil }

func (r *fakeUsers) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findByID(ctx, id)
}

type fakeMailer struct {
	send func(ctx context.Context, to, subject, body string) error
}

func (m *fakeMailer) Send(ctx context.Context, to, subject, body string) error {
	return m.send(ctx, to, subject, body)
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func note(userID string) domain.Notification {
	return domain.Notification{
		UserID:  userID,
		Type:    domain.NotifyNewBid,
		Title:   "New bid received",
		Message: "A printer offered 10.00",
		Data:    map[string]string{"job_id": "job-1"},
	}
}

// ---- Dispatcher ----

func TestDispatcher_DeliversAndStampsEvents(t *testing.T) {
	var (
		mu  sync.Mutex
		got []domain.Notification
	)
	sink := &fakeSink{name: "test", send: func(_ context.Context, n domain.Notification) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, n)
		return nil
	}}

	d := notify.NewDispatcher(sink, discard(), 16, 2)
	d.Start()
	for i := range 5 {
		d.Emit(note(string(rune('a' + i))))
	}
	if err := d.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}

	if len(got) != 5 {
		t.Fatalf("delivered %d, want 5", len(got))
	}
	for _, n := range got {
		if n.ID == "" || n.CreatedAt.IsZero() {
			t.Errorf("event not stamped: %+v", n)
		}
	}
}

func TestDispatcher_FullQueueDropsWithoutBlocking(t *testing.T) {
	sink := &fakeSink{name: "test", send: func(context.Context, domain.Notification) error { return nil }}
	d := notify.NewDispatcher(sink, discard(), 1, 1)

	before := testutil.ToFloat64(metrics.NotificationsDroppedTotal)

	done := make(chan struct{})
	go func() {
		// Workers not started: the second and third emits must drop.
		d.Emit(note("u"))
		d.Emit(note("u"))
		d.Emit(note("u"))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on a full queue")
	}

	if got := testutil.ToFloat64(metrics.NotificationsDroppedTotal) - before; got != 2 {
		t.Errorf("dropped = %v, want 2", got)
	}
}

func TestDispatcher_SinkErrorIsSwallowed(t *testing.T) {
	calls := make(chan struct{}, 1)
	sink := &fakeSink{name: "test", send: func(context.Context, domain.Notification) error {
		calls <- struct{}{}
		return errors.New("smtp down")
	}}
	d := notify.NewDispatcher(sink, discard(), 4, 1)
	d.Start()

	d.Emit(note("u"))
	if err := d.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
	if len(calls) != 1 {
		t.Error("sink was not called")
	}
}

func TestDispatcher_EmitAfterCloseDrops(t *testing.T) {
	sink := &fakeSink{name: "test", send: func(context.Context, domain.Notification) error {
		t.Error("sink called after close")
		return nil
	}}
	d := notify.NewDispatcher(sink, discard(), 4, 1)
	d.Start()
	if err := d.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}

	d.Emit(note("u"))
}

// ---- Fanout ----

func TestFanout_ContinuesPastFailingSink(t *testing.T) {
	var reached bool
	failing := &fakeSink{name: "fanout-failing", send: func(context.Context, domain.Notification) error {
		return errors.New("boom")
	}}
	ok := &fakeSink{name: "fanout-ok", send: func(context.Context, domain.Notification) error {
		reached = true
		return nil
	}}

	err := notify.NewFanout(failing, ok).Send(context.Background(), note("u"))

	if err == nil || !strings.Contains(err.Error(), "fanout-failing: boom") {
		t.Errorf("err = %v, want joined failure", err)
	}
	if !reached {
		t.Error("second sink not reached")
	}
	if got := testutil.ToFloat64(metrics.NotificationsFailedTotal.WithLabelValues("fanout-failing")); got != 1 {
		t.Errorf("failed metric = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.NotificationsDeliveredTotal.WithLabelValues("fanout-ok")); got != 1 {
		t.Errorf("delivered metric = %v, want 1", got)
	}
}

// ---- Sinks ----

func TestStoreSink_PersistsForUser(t *testing.T) {
	store := memory.New()
	sink := notify.NewStoreSink(store.Notifications())

	if err := sink.Send(context.Background(), note("user-1")); err != nil {
		t.Fatalf("send: %v", err)
	}

	got, err := store.Notifications().ListByUser(context.Background(), "user-1", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Type != domain.NotifyNewBid || got[0].Data["job_id"] != "job-1" {
		t.Errorf("stored = %+v", got)
	}
}

func TestWebhookSink_PostsJSON(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("got %s with content type %q", r.Method, r.Header.Get("Content-Type"))
		}
		_ = json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	n := note("user-1")
	n.ID = "evt-1"
	if err := notify.NewWebhookSink(srv.URL).Send(context.Background(), n); err != nil {
		t.Fatalf("send: %v", err)
	}
	if received["id"] != "evt-1" || received["type"] != "new_bid" || received["user_id"] != "user-1" {
		t.Errorf("payload = %v", received)
	}
}

func TestWebhookSink_Non2xxFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if err := notify.NewWebhookSink(srv.URL).Send(context.Background(), note("u")); err == nil {
		t.Error("expected error for 500 response")
	}
}

func TestEmailSink_SendsEscapedMessage(t *testing.T) {
	var to, subject, body string
	users := &fakeUsers{findByID: func(context.Context, string) (*domain.User, error) {
		return &domain.User{ID: "user-1", Email: "maker@example.com"}, nil
	}}
	mailer := &fakeMailer{send: func(_ context.Context, gotTo, gotSubject, gotBody string) error {
		to, subject, body = gotTo, gotSubject, gotBody
		return nil
	}}

	n := note("user-1")
	n.Message = "<b>bid</b>"
	if err := notify.NewEmailSink(users, mailer, discard()).Send(context.Background(), n); err != nil {
		t.Fatalf("send: %v", err)
	}
	if to != "maker@example.com" || subject != n.Title {
		t.Errorf("to=%q subject=%q", to, subject)
	}
	if strings.Contains(body, "<b>") {
		t.Errorf("body not escaped: %q", body)
	}
}

func TestEmailSink_SkipsUsersWithoutAddress(t *testing.T) {
	users := &fakeUsers{findByID: func(context.Context, string) (*domain.User, error) {
		return &domain.User{ID: "user-1"}, nil
	}}
	mailer := &fakeMailer{send: func(context.Context, string, string, string) error {
		t.Error("mailer called for user without email")
		return nil
	}}

	if err := notify.NewEmailSink(users, mailer, discard()).Send(context.Background(), note("user-1")); err != nil {
		t.Errorf("send: %v", err)
	}
}

func TestRoutingKey(t *testing.T) {
	if got := notify.RoutingKey(domain.NotifyBidAccepted); got != "notification.bid_accepted" {
		t.Errorf("routing key = %q", got)
	}
}
