package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsUsable(t *testing.T) {
	// The package-level logger must be safe to use without Init.
	Warn("warning before init")
	Info("info before init")
	Sync()
}

func TestFileOutput(t *testing.T) {
	tempDir := t.TempDir()
	logFile := filepath.Join(tempDir, "test.log")

	cfg := FileConfig{
		Path:       logFile,
		MaxSizeMB:  1,
		MaxBackups: 1,
		MaxAgeDays: 1,
	}
	if err := InitWithFileConfig("debug", cfg, false); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	defer Sync()

	Warn("fallback material used")
	Sync()

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "fallback material used") {
		t.Errorf("log file does not contain the message: %q", string(data))
	}
}

func TestLevelFiltering(t *testing.T) {
	tempDir := t.TempDir()
	logFile := filepath.Join(tempDir, "test.log")

	cfg := FileConfig{Path: logFile, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1}
	if err := InitWithFileConfig("warn", cfg, false); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	defer Sync()

	Debug("filtered out")
	Warn("kept")
	Sync()

	data, _ := os.ReadFile(logFile)
	if strings.Contains(string(data), "filtered out") {
		t.Error("debug message was not filtered at warn level")
	}
	if !strings.Contains(string(data), "kept") {
		t.Error("warn message missing from log file")
	}
}
