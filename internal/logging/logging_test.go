package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/1broseidon/deskgrid/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"warning": slog.LevelWarn,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestNew_TextFormatFiltersByLevel(t *testing.T) {
	t.Setenv(LevelEnv, "")
	var buf bytes.Buffer
	logger, err := New(&buf, config.LoggingConfig{Level: "warn", Format: "text"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("hidden")
	logger.Warn("shown", "desktop", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info message should be filtered: %q", out)
	}
	if !strings.Contains(out, "msg=shown") || !strings.Contains(out, "desktop=2") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestNew_EnvOverridesLevel(t *testing.T) {
	t.Setenv(LevelEnv, "debug")
	var buf bytes.Buffer
	logger, err := New(&buf, config.LoggingConfig{Level: "error", Format: "json"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debug("layout changed")
	if !strings.Contains(buf.String(), `"msg":"layout changed"`) {
		t.Fatalf("expected debug output, got %q", buf.String())
	}
}

func TestNew_PrettyFormat(t *testing.T) {
	t.Setenv(LevelEnv, "")
	var buf bytes.Buffer
	logger, err := New(&buf, config.LoggingConfig{Level: "info", Format: "pretty"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("daemon started", "screen", 0)
	if !strings.Contains(buf.String(), "daemon started") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestNew_RejectsUnknownFormat(t *testing.T) {
	t.Setenv(LevelEnv, "")
	if _, err := New(&bytes.Buffer{}, config.LoggingConfig{Level: "info", Format: "xml"}); err == nil {
		t.Fatalf("expected error")
	}
}
