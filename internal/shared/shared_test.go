package shared

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Run("creates parent directories and file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "a", "b", "session.json")

		if err := WriteFileAtomic(path, []byte(`{"ok":true}`), 0600); err != nil {
			t.Fatalf("WriteFileAtomic() error = %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read file: %v", err)
		}
		if string(data) != `{"ok":true}` {
			t.Errorf("unexpected content %s", data)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("failed to stat file: %v", err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
		}
	})

	t.Run("replaces existing content without leaving temp files", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "data.json")

		if err := WriteFileAtomic(path, []byte("first"), 0644); err != nil {
			t.Fatalf("first write failed: %v", err)
		}
		if err := WriteFileAtomic(path, []byte("second"), 0644); err != nil {
			t.Fatalf("second write failed: %v", err)
		}

		entries, _ := os.ReadDir(dir)
		if len(entries) != 1 {
			t.Errorf("expected exactly one file in dir, got %d", len(entries))
		}
	})
}

func TestLogger(t *testing.T) {
	t.Run("SetLogLevel", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)

		SetLogLevel(logger, "warn")
		logger.Info("hidden")
		logger.Warn("shown")

		out := buf.String()
		if strings.Contains(out, "hidden") {
			t.Error("info message should be filtered at warn level")
		}
		if !strings.Contains(out, "shown") {
			t.Error("warn message should be logged")
		}
	})

	t.Run("SetLogLevel with unknown level falls back to info", func(t *testing.T) {
		logger := NewLogger(&bytes.Buffer{})
		SetLogLevel(logger, "chatty")

		if logger.GetLevel() != log.InfoLevel {
			t.Errorf("expected info level, got %v", logger.GetLevel())
		}
	})

	t.Run("NewFileLogger", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "surf.log")

		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("NewFileLogger() error = %v", err)
		}
		logger.Info("hello file")

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}
		if !strings.Contains(string(data), "hello file") {
			t.Errorf("expected log line in file, got %s", data)
		}
	})
}
