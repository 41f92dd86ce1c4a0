package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestGenerateLogFilename(t *testing.T) {
	ts := time.Date(2025, 7, 1, 12, 34, 56, 789_000_000, time.UTC)
	got := GenerateLogFilename(ts)
	want := "imgappops-20250701-123456-789.log"
	if got != want {
		t.Errorf("GenerateLogFilename() = %q, want %q", got, want)
	}
}

func TestNewLogFile(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		cfg      LogConfig
		wantPath bool
	}{
		{name: "stderr dash", cfg: LogConfig{Output: "-"}, wantPath: false},
		{name: "stderr default", cfg: LogConfig{Output: ""}, wantPath: false},
		{name: "disabled", cfg: LogConfig{Output: "none"}, wantPath: false},
		{name: "auto generated", cfg: LogConfig{Output: "auto", Dir: dir}, wantPath: true},
		{name: "relative path", cfg: LogConfig{Output: "deploy.log", Dir: dir}, wantPath: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lf, err := NewLogFile(&tt.cfg)
			if err != nil {
				t.Fatalf("NewLogFile() error = %v", err)
			}
			defer lf.Close()
			if lf.Writer() == nil {
				t.Fatal("Writer() returned nil")
			}
			if tt.wantPath && lf.Path == "" {
				t.Error("expected a file path, got empty")
			}
			if !tt.wantPath && lf.Path != "" {
				t.Errorf("expected no file path, got %q", lf.Path)
			}
			if lf.Path != "" {
				if _, err := os.Stat(lf.Path); err != nil {
					t.Errorf("log file not created: %v", err)
				}
			}
		})
	}
}

func TestNewLogFileRetention(t *testing.T) {
	dir := t.TempDir()

	oldFile := filepath.Join(dir, "imgappops-20200101-000000-000.log")
	if err := os.WriteFile(oldFile, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}
	past := time.Now().AddDate(0, 0, -30)
	if err := os.Chtimes(oldFile, past, past); err != nil {
		t.Fatal(err)
	}

	lf, err := NewLogFile(&LogConfig{Output: "auto", Dir: dir, RetentionDays: 7})
	if err != nil {
		t.Fatalf("NewLogFile() error = %v", err)
	}
	defer lf.Close()

	if _, err := os.Stat(oldFile); !os.IsNotExist(err) {
		t.Error("stale log file should have been removed on open")
	}
	if _, err := os.Stat(lf.Path); err != nil {
		t.Errorf("freshly opened log file must survive cleanup: %v", err)
	}
}

func TestCleanupOldLogFiles(t *testing.T) {
	dir := t.TempDir()

	oldFile := filepath.Join(dir, "imgappops-20200101-000000-000.log")
	if err := os.WriteFile(oldFile, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}
	past := time.Now().AddDate(0, 0, -30)
	if err := os.Chtimes(oldFile, past, past); err != nil {
		t.Fatal(err)
	}

	newFile := filepath.Join(dir, "imgappops-20990101-000000-000.log")
	if err := os.WriteFile(newFile, []byte("new"), 0644); err != nil {
		t.Fatal(err)
	}

	otherFile := filepath.Join(dir, "unrelated.log")
	if err := os.WriteFile(otherFile, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(otherFile, past, past); err != nil {
		t.Fatal(err)
	}

	if err := CleanupOldLogFiles(dir, 7); err != nil {
		t.Fatalf("CleanupOldLogFiles() error = %v", err)
	}

	if _, err := os.Stat(oldFile); !os.IsNotExist(err) {
		t.Error("old log file should have been removed")
	}
	if _, err := os.Stat(newFile); err != nil {
		t.Error("recent log file should remain")
	}
	if _, err := os.Stat(otherFile); err != nil {
		t.Error("files without the imgappops- prefix must not be touched")
	}
}

func TestCleanupOldLogFilesMissingDir(t *testing.T) {
	if err := CleanupOldLogFiles(filepath.Join(t.TempDir(), "nope"), 7); err != nil {
		t.Errorf("missing directory should not be an error, got %v", err)
	}
}

func TestNewLoggerFormats(t *testing.T) {
	var sb strings.Builder
	for _, format := range []string{"", "human", "text", "json"} {
		if _, err := NewWithWriter(format, ParseLevel("INFO"), &sb); err != nil {
			t.Errorf("NewWithWriter(%q) error = %v", format, err)
		}
	}
	if _, err := NewWithWriter("xml", ParseLevel("INFO"), &sb); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestHumanLoggerSharedOnStderr(t *testing.T) {
	l1, err := New("human", ParseLevel("INFO"))
	if err != nil {
		t.Fatalf("New(human) error = %v", err)
	}
	l2, err := New("", ParseLevel("INFO"))
	if err != nil {
		t.Fatalf("New(\"\") error = %v", err)
	}
	// The stderr human logger is a process-wide singleton; the empty
	// format is its alias.
	if l1 != l2 {
		t.Error("human logger on stderr must be shared across calls")
	}

	var sb strings.Builder
	l3, err := NewWithWriter("human", ParseLevel("INFO"), &sb)
	if err != nil {
		t.Fatalf("NewWithWriter(human) error = %v", err)
	}
	if l3 == l1 {
		t.Error("human logger on another writer must not share the stderr logger")
	}
}
