package app

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestRunHandler_Format(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "run-1", slog.LevelInfo)

	logger.Info("page written", "path", "photos/index.html")

	line := strings.TrimSuffix(buf.String(), "\n")
	fields := strings.Split(line, "\t")
	if len(fields) != 5 {
		t.Fatalf("got %d tab-separated fields, want 5: %q", len(fields), line)
	}
	if fields[1] != "INFO" {
		t.Errorf("level field = %q, want INFO", fields[1])
	}
	if fields[2] != "run-1" {
		t.Errorf("run ID field = %q, want run-1", fields[2])
	}
	if fields[3] != "page written" {
		t.Errorf("message field = %q, want %q", fields[3], "page written")
	}
	if fields[4] != "path=photos/index.html" {
		t.Errorf("attr field = %q, want %q", fields[4], "path=photos/index.html")
	}
}

func TestRunHandler_LevelGating(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "run-1", slog.LevelInfo)

	logger.Debug("noisy detail")
	if buf.Len() != 0 {
		t.Errorf("debug record written at info level: %q", buf.String())
	}

	verbose := NewLogger(&buf, "run-1", slog.LevelDebug)
	verbose.Debug("noisy detail")
	if buf.Len() == 0 {
		t.Error("debug record dropped at debug level")
	}
}

func TestRunHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "run-1", slog.LevelInfo).With("component", "builder")

	logger.Info("started")

	if !strings.Contains(buf.String(), "component=builder") {
		t.Errorf("pre-set attr missing from output: %q", buf.String())
	}
}
