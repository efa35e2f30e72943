package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/leskowicz/bt-mqtt-gateway/internal/infrastructure/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

// newBufferLogger builds a Logger writing JSON into buf, mirroring New but
// with a capturable destination.
func newBufferLogger(buf *bytes.Buffer, level string) *Logger {
	handler := slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: parseLevel(level)})
	handler2 := handler.WithAttrs([]slog.Attr{
		slog.String("service", serviceName),
		slog.String("version", "test"),
	})
	return &Logger{Logger: slog.New(handler2)}
}

func TestDefaultFields(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf, "info")

	log.Info("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if entry["service"] != serviceName {
		t.Errorf("service = %v, want %q", entry["service"], serviceName)
	}
	if entry["version"] != "test" {
		t.Errorf("version = %v, want test", entry["version"])
	}
	if entry["msg"] != "hello" {
		t.Errorf("msg = %v, want hello", entry["msg"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf, "warn")

	log.Debug("suppressed")
	log.Info("suppressed too")
	log.Warn("visible")

	output := buf.String()
	if strings.Contains(output, "suppressed") {
		t.Errorf("output contains filtered entries: %s", output)
	}
	if !strings.Contains(output, "visible") {
		t.Errorf("output missing warn entry: %s", output)
	}
}

func TestWithAddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf, "info").With("worker", "thermometer")

	log.Info("cycle complete")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if entry["worker"] != "thermometer" {
		t.Errorf("worker = %v, want thermometer", entry["worker"])
	}
}

func TestNewDoesNotPanic(t *testing.T) {
	cfgs := []config.LoggingConfig{
		{Level: "debug", Format: "text", Output: "stderr"},
		{Level: "info", Format: "json", Output: "stdout"},
		{},
	}
	for _, cfg := range cfgs {
		if log := New(cfg, "1.0.0"); log == nil {
			t.Fatalf("New(%+v) returned nil", cfg)
		}
	}
	if Default() == nil {
		t.Fatal("Default() returned nil")
	}
}
