package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestConsoleHandlerOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "console", Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	component := NewComponentLogger(logger, "drive")
	component.Info("toc read complete", String(FieldDevice, "/dev/sr0"), Int("tracks", 12))

	line := buf.String()
	if !strings.Contains(line, "INFO drive: toc read complete") {
		t.Errorf("unexpected line: %q", line)
	}
	if !strings.Contains(line, "device=/dev/sr0") {
		t.Errorf("missing device attr: %q", line)
	}
	if !strings.Contains(line, "tracks=12") {
		t.Errorf("missing tracks attr: %q", line)
	}
}

func TestConsoleHandlerQuotesValues(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("msg", String("note", "has spaces"), String("empty", ""))

	line := buf.String()
	if !strings.Contains(line, `note="has spaces"`) {
		t.Errorf("value with spaces not quoted: %q", line)
	}
	if !strings.Contains(line, `empty=""`) {
		t.Errorf("empty value not quoted: %q", line)
	}
}

func TestConsoleHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "console", Level: "warn", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("ignored")
	logger.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "ignored") {
		t.Errorf("info line emitted below threshold: %q", out)
	}
	if !strings.Contains(out, "kept") {
		t.Errorf("warn line missing: %q", out)
	}
}

func TestJSONHandlerFieldNames(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("disc stored", String(FieldDiscID, "abc"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if record["msg"] != "disc stored" {
		t.Errorf("msg = %v", record["msg"])
	}
	if record["level"] != "info" {
		t.Errorf("level = %v", record["level"])
	}
	if _, ok := record["ts"]; !ok {
		t.Error("missing ts field")
	}
	if record[FieldDiscID] != "abc" {
		t.Errorf("disc_id = %v", record[FieldDiscID])
	}
}

func TestWarnWithContextFillsRequiredFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	WarnWithContext(logger, "lookup failed", "lookup_failed", Error(errors.New("boom")))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	for _, key := range []string{FieldEventType, FieldErrorHint, FieldImpact, "error"} {
		if _, ok := record[key]; !ok {
			t.Errorf("missing %s field: %v", key, record)
		}
	}
	if record[FieldEventType] != "lookup_failed" {
		t.Errorf("event_type = %v", record[FieldEventType])
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := NewNop()
	// Must not panic and must report disabled at every level.
	logger.Info("dropped")
	if logger.Enabled(nil, 0) {
		t.Error("nop logger reports enabled")
	}
}
