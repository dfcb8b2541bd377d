package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "warn", "text")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Info("hidden")
	logger.Warn("shown", "book", "contacts.jsonl")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record should be filtered at warn level, got %q", out)
	}
	if !strings.Contains(out, "msg=shown") || !strings.Contains(out, "book=contacts.jsonl") {
		t.Errorf("warn record missing, got %q", out)
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "DEBUG", "json")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Debug("loaded", "records", 3)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if rec["msg"] != "loaded" {
		t.Errorf("msg = %v, want loaded", rec["msg"])
	}
	if rec["records"] != float64(3) {
		t.Errorf("records = %v, want 3", rec["records"])
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name, level, format string
	}{
		{name: "unknown level", level: "trace", format: "text"},
		{name: "unknown format", level: "info", format: "xml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(&bytes.Buffer{}, tt.level, tt.format); err == nil {
				t.Errorf("New(%q, %q) should return error", tt.level, tt.format)
			}
		})
	}
}
