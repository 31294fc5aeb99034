package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestInfoWritesJSONLine(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(zapcore.AddSync(&buf))
	defer restore()

	Info("generation.status", map[string]any{
		"portfolio_id": "p-1",
		"status":       "completed",
		"enhanced":     true,
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["msg"] != "generation.status" || payload["level"] != "info" {
		t.Fatalf("unexpected envelope: %v", payload)
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("missing ts")
	}
	if payload["portfolio_id"] != "p-1" || payload["enhanced"] != true {
		t.Fatalf("unexpected fields: %v", payload)
	}
}

func TestErrorRendersErrorValues(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(zapcore.AddSync(&buf))
	defer restore()

	Error("generation.enhancement_failed", map[string]any{"error": errors.New("boom")})

	var payload map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["level"] != "error" || payload["error"] != "boom" {
		t.Fatalf("unexpected payload: %v", payload)
	}
}
