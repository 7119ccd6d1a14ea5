package middleware_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ErlanBelekov/printmarket/internal/metrics"
	"github.com/ErlanBelekov/printmarket/internal/requestid"
	"github.com/ErlanBelekov/printmarket/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fakeUsers struct {
	upsert func(ctx context.Context, id string) error
}

func (f *fakeUsers) Upsert(ctx context.Context, id string) error { return f.upsert(ctx, id) }

func withUser(id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, id)
		c.Next()
	}
}

func TestEnsureUser_UpsertsSubject(t *testing.T) {
	var got string
	users := &fakeUsers{upsert: func(_ context.Context, id string) error {
		got = id
		return nil
	}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := gin.New()
	r.GET("/x", withUser("user-9"), middleware.EnsureUser(users, logger), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", w.Code)
	}
	if got != "user-9" {
		t.Errorf("upserted %q, want user-9", got)
	}
}

func TestEnsureUser_UpsertFails_Returns500(t *testing.T) {
	users := &fakeUsers{upsert: func(context.Context, string) error { return errors.New("db down") }}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	called := false
	r := gin.New()
	r.GET("/x", withUser("user-9"), middleware.EnsureUser(users, logger), func(c *gin.Context) {
		called = true
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	if called {
		t.Error("handler should not run after failed upsert")
	}
}

func TestRequestID_PreservesIncomingHeader(t *testing.T) {
	var fromCtx string
	r := gin.New()
	r.GET("/x", middleware.RequestID(), func(c *gin.Context) {
		fromCtx = requestid.FromContext(c.Request.Context())
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(requestid.Header, "trace-42")
	r.ServeHTTP(w, req)

	if fromCtx != "trace-42" {
		t.Errorf("ctx id = %q", fromCtx)
	}
	if got := w.Header().Get(requestid.Header); got != "trace-42" {
		t.Errorf("response header = %q", got)
	}
}

func TestRequestID_GeneratesWhenAbsent(t *testing.T) {
	r := gin.New()
	r.GET("/x", middleware.RequestID(), func(c *gin.Context) {})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Header().Get(requestid.Header) == "" {
		t.Error("expected generated request id")
	}
}

func TestSecurity_SetsHeaders(t *testing.T) {
	r := gin.New()
	r.Use(middleware.Security())
	r.GET("/x", func(c *gin.Context) {})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	for _, h := range []string{"X-Content-Type-Options", "X-Frame-Options", "Strict-Transport-Security"} {
		if w.Header().Get(h) == "" {
			t.Errorf("missing %s", h)
		}
	}
}

func TestMetrics_LabelsByRouteTemplate(t *testing.T) {
	r := gin.New()
	r.Use(middleware.Metrics())
	r.GET("/metrics-test/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/metrics-test/:id", "200"))
	for _, id := range []string{"a", "b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics-test/"+id, nil))
	}
	after := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/metrics-test/:id", "200"))

	if after-before != 2 {
		t.Errorf("counter delta = %v, want 2", after-before)
	}
}
