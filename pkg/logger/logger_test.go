package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	err := Init()
	if err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	logger := Get()
	if logger == nil {
		t.Fatal("logger is nil after initialization")
	}
}

func TestLoggerOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithWriter(&buf); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	ctx := context.Background()
	Get().Info(ctx, "strength computed", String("unit", "1/1/B/1-7"), Int("count", 12))

	out := buf.String()
	if !strings.Contains(out, "strength computed") {
		t.Errorf("message missing from output: %q", out)
	}
	if !strings.Contains(out, "unit=1/1/B/1-7") {
		t.Errorf("string field missing from output: %q", out)
	}
	if !strings.Contains(out, "count=12") {
		t.Errorf("int field missing from output: %q", out)
	}
}

func TestLoggerNamed(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithWriter(&buf); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	namedLogger := Named("analytics")
	if namedLogger == nil {
		t.Fatal("named logger is nil")
	}

	ctx := context.Background()
	namedLogger.Info(ctx, "run published", String("run_id", "r1"))

	out := buf.String()
	if !strings.Contains(out, "analytics.run_id=r1") {
		t.Errorf("group prefix missing from output: %q", out)
	}
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithWriter(&buf); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	ctx := context.Background()

	// Debug is suppressed at the default level.
	Get().Debug(ctx, "hidden message")
	if strings.Contains(buf.String(), "hidden message") {
		t.Errorf("debug message logged at info level: %q", buf.String())
	}

	if err := SetLevelString("debug"); err != nil {
		t.Fatalf("failed to set level: %v", err)
	}
	Get().Debug(ctx, "visible message")
	if !strings.Contains(buf.String(), "visible message") {
		t.Errorf("debug message missing after level change: %q", buf.String())
	}

	// Restore for other tests.
	if err := SetLevelString("info"); err != nil {
		t.Fatalf("failed to restore level: %v", err)
	}
}

func TestSetLevelString(t *testing.T) {
	if err := InitWithWriter(&bytes.Buffer{}); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	for _, level := range []string{"debug", "info", "warn", "warning", "error", ""} {
		if err := SetLevelString(level); err != nil {
			t.Errorf("unexpected error for level %q: %v", level, err)
		}
	}

	if err := SetLevelString("verbose"); err == nil {
		t.Error("expected an error for an unknown level")
	}
}
