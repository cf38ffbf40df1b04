package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	if _, _, err := newWithWriter(Config{Level: "chatty"}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	t.Parallel()

	var output bytes.Buffer
	logger, closer, err := newWithWriter(Config{Level: "warn"}, &output)
	if err != nil {
		t.Fatalf("newWithWriter returned error: %v", err)
	}
	defer closer.Close()

	logger.Info("hidden message")
	logger.Warn("visible message", "key", "value")

	text := output.String()
	if strings.Contains(text, "hidden message") {
		t.Fatalf("info line must be filtered at warn level: %q", text)
	}
	if !strings.Contains(text, "visible message") || !strings.Contains(text, "dosalabel") {
		t.Fatalf("expected warn line with prefix, got %q", text)
	}
}

func TestNewJSONFormat(t *testing.T) {
	t.Parallel()

	var output bytes.Buffer
	logger, closer, err := newWithWriter(Config{Level: "info", Format: "json", Prefix: "test"}, &output)
	if err != nil {
		t.Fatalf("newWithWriter returned error: %v", err)
	}
	defer closer.Close()

	logger.Info("label saved", "workspace", "ws-1")

	entry := map[string]any{}
	if err := json.Unmarshal(bytes.TrimSpace(output.Bytes()), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", output.String(), err)
	}
	if entry["msg"] != "label saved" || entry["workspace"] != "ws-1" {
		t.Fatalf("unexpected entry: %#v", entry)
	}
}

func TestNewWritesRotatingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "dosalabel.log")
	logger, closer, err := newWithWriter(Config{Level: "info", File: path}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("newWithWriter returned error: %v", err)
	}

	logger.Info("written to file")
	if err := closer.Close(); err != nil {
		t.Fatalf("close log file: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "written to file") {
		t.Fatalf("log file missing entry: %q", content)
	}
}
