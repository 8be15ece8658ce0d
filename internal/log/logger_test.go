package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:     slog.LevelInfo,
		Component: "analyzer",
		Format:    FormatJSON,
		Output:    &buf,
	})

	logger.Info("analysis complete", "score", 87)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if record["component"] != "analyzer" {
		t.Errorf("component = %v, want analyzer", record["component"])
	}
	if record["score"] != float64(87) {
		t.Errorf("score = %v, want 87", record["score"])
	}
	if record["msg"] != "analysis complete" {
		t.Errorf("msg = %v, want analysis complete", record["msg"])
	}
}

func TestNewTextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:     slog.LevelInfo,
		Component: "worker",
		Format:    FormatText,
		Output:    &buf,
	})

	logger.Warn("broker unreachable", "attempt", 3)

	out := buf.String()
	if !strings.Contains(out, "component=worker") {
		t.Errorf("output missing component attribute: %s", out)
	}
	if !strings.Contains(out, "attempt=3") {
		t.Errorf("output missing attempt attribute: %s", out)
	}
}

func TestNewUnknownFormatFallsBackToText(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Component: "app", Format: "yaml", Output: &buf})

	logger.Info("started")

	if strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
		t.Errorf("unknown format should fall back to text, got: %s", buf.String())
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Component: "app", Format: FormatJSON, Output: &buf})

	scoped := logger.WithComponent("scorer")
	scoped.Info("scored")

	if scoped.Component() != "scorer" {
		t.Errorf("Component() = %s, want scorer", scoped.Component())
	}
	if !strings.Contains(buf.String(), `"component":"scorer"`) {
		t.Errorf("output missing scoped component: %s", buf.String())
	}
}
