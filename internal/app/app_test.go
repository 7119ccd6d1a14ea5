package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/ErlanBelekov/printmarket/config"
	"github.com/ErlanBelekov/printmarket/internal/app"
	"github.com/ErlanBelekov/printmarket/internal/domain"
)

func TestNewLogger_JSONOutsideLocal(t *testing.T) {
	var buf bytes.Buffer
	logger := app.NewLogger(&buf, "production", slog.LevelInfo)
	logger.Debug("hidden")
	logger.Info("shown", "k", "v")

	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec); err != nil {
		t.Fatalf("expected one JSON record, got %q: %v", buf.String(), err)
	}
	if rec["msg"] != "shown" || rec["k"] != "v" {
		t.Errorf("record = %v", rec)
	}
}

func TestOpenStorage_Memory(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repos, err := app.OpenStorage(context.Background(), &config.Config{Storage: "memory"}, logger)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer repos.Close()

	if repos.Shared || len(repos.Deps) != 0 {
		t.Errorf("memory backend should be private with no deps: %+v", repos)
	}
	if err := repos.Users.Upsert(context.Background(), "u1"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
}

func TestBuildSinks_LocalPersistsToStore(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{Env: "local", Storage: "memory"}
	repos, err := app.OpenStorage(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	sinks, err := app.BuildSinks(cfg, repos, logger)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer sinks.Close()
	if len(sinks.Deps) != 0 {
		t.Errorf("no broker configured, deps = %v", sinks.Deps)
	}

	n := domain.Notification{UserID: "u1", Type: domain.NotifyNewBid, Title: "t"}
	if err := sinks.Sink.Send(context.Background(), n); err != nil {
		t.Fatalf("send: %v", err)
	}
	got, err := repos.Notifications.ListByUser(context.Background(), "u1", 10)
	if err != nil || len(got) != 1 {
		t.Fatalf("stored = %v, %v", got, err)
	}
}
