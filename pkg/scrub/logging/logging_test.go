package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{input: "debug", want: LevelDebug},
		{input: "info", want: LevelInfo},
		{input: "warn", want: LevelWarn},
		{input: "warning", want: LevelWarn},
		{input: "error", want: LevelError},
		{input: "ERROR", want: LevelError},
		{input: "trace", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseLevel(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	levels := map[Level]string{
		LevelDebug: "debug",
		LevelInfo:  "info",
		LevelWarn:  "warn",
		LevelError: "error",
	}
	for level, want := range levels {
		if got := level.String(); got != want {
			t.Errorf("Level(%d).String() = %q, want %q", level, got, want)
		}
	}
}

func TestGetBeforeInit(t *testing.T) {
	// Loggers created before Init must be silent, not panic.
	logger := Get("test-pre-init")
	logger.Info("should be discarded")
	logger.Error("also discarded")
}

func TestInitAndWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scrub.log")

	cfg := Config{
		Level: "debug",
		Path:  path,
	}
	if err := Init(cfg); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer func() {
		if err := Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	}()

	logger := Get("pipeline")
	logger.Info("batch started", "target", "/tmp/project")

	if err := Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "batch started") {
		t.Errorf("log file missing expected message, got: %s", data)
	}
	if !strings.Contains(string(data), "pipeline") {
		t.Errorf("log file missing component prefix, got: %s", data)
	}
}

func TestInitInvalidLevel(t *testing.T) {
	err := Init(Config{Level: "nope", Path: filepath.Join(t.TempDir(), "x.log")})
	if err == nil {
		t.Fatal("expected error for invalid level")
	}
}

func TestComponentLevelOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scrub.log")

	cfg := Config{
		Level:      "error",
		Path:       path,
		Components: map[string]string{"discover": "debug"},
	}
	if err := Init(cfg); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer Close()

	Get("discover").Debug("walk pruned", "dir", "node_modules")
	Get("pipeline").Info("suppressed at error level")

	if err := Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "walk pruned") {
		t.Error("component override should allow debug output")
	}
	if strings.Contains(string(data), "suppressed") {
		t.Error("default error level should suppress info output")
	}
}

func TestRotatingWriter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scrub.log")

	w, err := NewRotatingWriter(path, RotationConfig{MaxSize: 64, MaxBackups: 2})
	if err != nil {
		t.Fatalf("NewRotatingWriter: %v", err)
	}

	// Write enough to force at least one rotation.
	line := []byte(strings.Repeat("x", 40) + "\n")
	for range 4 {
		if _, err := w.Write(line); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) < 2 {
		t.Errorf("expected rotated files alongside the active log, got %d entries", len(entries))
	}
}
