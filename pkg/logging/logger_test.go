package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func parseLine(t *testing.T, line string) LogEntry {
	t.Helper()
	var entry LogEntry
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("invalid JSON log line %q: %v", line, err)
	}
	return entry
}

func TestJSONLoggerWritesStructuredLines(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	logger.Info("projection complete", Nodes(10), Edges(25))

	entry := parseLine(t, strings.TrimSpace(buf.String()))
	if entry.Level != "INFO" || entry.Message != "projection complete" {
		t.Errorf("unexpected entry: %+v", entry)
	}
	if entry.Fields["nodes"] != float64(10) || entry.Fields["edges"] != float64(25) {
		t.Errorf("fields lost: %+v", entry.Fields)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("visible")
	logger.Error("visible")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
}

func TestWithPresetsFields(t *testing.T) {
	var buf bytes.Buffer
	base := NewJSONLogger(&buf, InfoLevel)
	child := base.With(RunID("run-1"), Region("Boston"))

	child.Info("rendered")

	entry := parseLine(t, strings.TrimSpace(buf.String()))
	if entry.Fields["run_id"] != "run-1" || entry.Fields["region"] != "Boston" {
		t.Errorf("preset fields missing: %+v", entry.Fields)
	}
}

func TestErrorField(t *testing.T) {
	f := Error(errors.New("boom"))
	if f.Key != "error" || f.Value != "boom" {
		t.Errorf("unexpected error field: %+v", f)
	}
	if nilField := Error(nil); nilField.Value != nil {
		t.Errorf("nil error should map to nil value, got %v", nilField.Value)
	}
}

func TestTimedOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	timer := StartTimer(logger, "stage done", Stage("projection"))
	timer.End()

	entry := parseLine(t, strings.TrimSpace(buf.String()))
	if entry.Fields["stage"] != "projection" {
		t.Errorf("stage field missing: %+v", entry.Fields)
	}
	if _, ok := entry.Fields["latency"]; !ok {
		t.Error("latency field missing")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug": DebugLevel, "INFO": InfoLevel, "warning": WarnLevel,
		"ERROR": ErrorLevel, "bogus": InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, expected %v", in, got, want)
		}
	}
}
