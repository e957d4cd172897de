package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger = NewComponentLogger(logger, "aligner")
	logger.Info("alignment finished", String(FieldSong, "my_song"), Float64(FieldCoverage, 0.92))

	line := buf.String()
	if !strings.Contains(line, "INFO aligner: alignment finished") {
		t.Errorf("line = %q, missing component prefix", line)
	}
	if !strings.Contains(line, "song=my_song") || !strings.Contains(line, "coverage=0.92") {
		t.Errorf("line = %q, missing attributes", line)
	}
}

func TestConsoleQuotesValues(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("msg", String("path", "with space"))
	if !strings.Contains(buf.String(), `path="with space"`) {
		t.Errorf("line = %q, value not quoted", buf.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("quiet")
	logger.Warn("loud")
	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Error("info leaked through warn level")
	}
	if !strings.Contains(out, "loud") {
		t.Error("warning suppressed")
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("hello", Int("lines", 42))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output not JSON: %v", err)
	}
	if record["msg"] != "hello" {
		t.Errorf("msg = %v", record["msg"])
	}
	if record["level"] != "info" {
		t.Errorf("level = %v, want lowercase", record["level"])
	}
	if record["lines"] != float64(42) {
		t.Errorf("lines = %v", record["lines"])
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := New(Options{Format: "logfmt"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestLogFileDuplication(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	var buf bytes.Buffer
	logger, err := New(Options{Format: "console", Output: &buf, LogFile: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("persisted")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "persisted") {
		t.Errorf("log file = %q", data)
	}
	if !strings.Contains(buf.String(), "persisted") {
		t.Error("primary output missed the record")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	logger.Error("never seen", Error(nil))
}
