package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFileLoggerFiltersByLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "newchat.log")

	l, err := New(Config{Level: "warn", File: path})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	l.Info("hidden message")
	l.Warn("fetch failed", "err", "timeout")

	l.SetLevel(slog.LevelDebug)
	l.Debug("now visible")

	if err := l.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	out := string(data)

	if strings.Contains(out, "hidden message") {
		t.Errorf("info message should have been filtered: %q", out)
	}
	if !strings.Contains(out, "fetch failed") || !strings.Contains(out, "timeout") {
		t.Errorf("expected warn message with attribute, got %q", out)
	}
	if !strings.Contains(out, "now visible") {
		t.Errorf("expected debug message after SetLevel, got %q", out)
	}
}
