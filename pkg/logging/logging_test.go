package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_DefaultsToNop(t *testing.T) {
	prev := SetLogger(nil)
	defer SetLogger(prev)

	if Logger() == nil {
		t.Fatal("Logger() returned nil")
	}
	// Must not panic on a no-op logger.
	Logger().Debug("ignored")
}

func TestSetLogger_ReturnsPrevious(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	observed := zap.New(core)

	prev := SetLogger(observed)
	defer SetLogger(prev)

	Logger().Info("hello", zap.Int("n", 1))
	if logs.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", logs.Len())
	}
	if got := logs.All()[0].Message; got != "hello" {
		t.Errorf("message = %q, want %q", got, "hello")
	}

	restored := SetLogger(prev)
	if restored != observed {
		t.Error("SetLogger should return the logger it replaced")
	}
}

func TestNew_Levels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		l, err := New(level, false)
		if err != nil {
			t.Fatalf("New(%q) error: %v", level, err)
		}
		if l == nil {
			t.Fatalf("New(%q) returned nil logger", level)
		}
	}

	if _, err := New("loud", true); err == nil {
		t.Error("expected error for unknown level")
	}
}
