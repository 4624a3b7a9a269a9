package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New("loud", ""); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logaudit.log")
	logger, err := New("DEBUG", path)
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("hello")
	logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &rec); err != nil {
		t.Fatalf("log line is not JSON: %q", data)
	}
	if rec["msg"] != "hello" || rec["level"] != "debug" {
		t.Errorf("record = %v", rec)
	}
	if _, ok := rec["time"]; !ok {
		t.Error("missing time key")
	}
}

func TestNew_LevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logaudit.log")
	logger, err := New("warn", path)
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("dropped")
	logger.Sync()

	data, _ := os.ReadFile(path)
	if len(data) != 0 {
		t.Errorf("info written at warn level: %q", data)
	}
}

func TestForTUI(t *testing.T) {
	logger, err := ForTUI("info", "")
	if err != nil {
		t.Fatal(err)
	}
	if logger.Core().Enabled(0) {
		t.Error("expected no-op logger without a log file")
	}

	path := filepath.Join(t.TempDir(), "tui.log")
	logger, err = ForTUI("info", path)
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("to file")
	logger.Sync()
	if data, _ := os.ReadFile(path); !strings.Contains(string(data), "to file") {
		t.Errorf("file log = %q", data)
	}
}
