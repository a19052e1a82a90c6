package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestInit_InvalidLevel(t *testing.T) {
	if _, err := Init("verbose", "text"); err == nil {
		t.Error("Expected error for invalid log level")
	}
}

func TestInit_InvalidFormat(t *testing.T) {
	if _, err := Init("info", "xml"); err == nil {
		t.Error("Expected error for invalid log format")
	}
}

func TestInitWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := InitWriter(&buf, "info", "json")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	log.Debug("hidden")
	log.Info("scan completed", slog.String("domain", "example.com"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("Expected 1 log line (debug filtered), got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("Expected JSON log line, got: %v", err)
	}
	if entry["domain"] != "example.com" {
		t.Errorf("Expected domain attribute, got %v", entry["domain"])
	}
	if Get() != log {
		t.Error("Expected Get to return the initialized logger")
	}
}

func TestFromContext(t *testing.T) {
	base := slog.Default()
	child := base.With(slog.String("request_id", "abcd1234"))

	ctx := WithLogger(context.Background(), child)
	if GetFromContext(ctx, base) != child {
		t.Error("Expected context logger")
	}

	if GetFromContext(context.Background(), base) != base {
		t.Error("Expected fallback logger for empty context")
	}

	wrong := context.WithValue(context.Background(), LoggerContextKey, "not a logger")
	if GetFromContext(wrong, base) != base {
		t.Error("Expected fallback logger for wrong value type")
	}
}
