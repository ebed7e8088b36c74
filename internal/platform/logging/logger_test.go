package logging

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_KeyValueFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := FromZap(zap.New(core))

	logger.With("service", "survivor-pool").Info("pick submitted",
		"entry_id", "e-1",
		"week", 3,
		"error", errors.New("boom"),
		"dangling",
	)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["service"] != "survivor-pool" {
		t.Fatalf("expected service field, got %v", fields["service"])
	}
	if fields["entry_id"] != "e-1" {
		t.Fatalf("expected entry_id field, got %v", fields["entry_id"])
	}
	if fields["week"] != int64(3) {
		t.Fatalf("expected week=3, got %#v", fields["week"])
	}
	if fields["error"] != "boom" {
		t.Fatalf("expected error=boom, got %v", fields["error"])
	}
	if _, ok := fields["dangling"]; !ok {
		t.Fatalf("expected dangling key to be kept")
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger := FromZap(zap.New(core))

	logger.InfoContext(context.Background(), "ignored")
	logger.WarnContext(context.Background(), "kept")

	if logs.Len() != 1 {
		t.Fatalf("expected only warn entry, got %d entries", logs.Len())
	}
}

func TestLogger_NilReceiverFallsBackToDefault(t *testing.T) {
	var logger *Logger
	logger.Info("no panic")
	if err := logger.Sync(); err != nil {
		t.Fatalf("sync on nil logger: %v", err)
	}
}
