package home

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("with explicit path", func(t *testing.T) {
		dir, err := New("/tmp/test-novella")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dir.Path() != "/tmp/test-novella" {
			t.Errorf("expected path /tmp/test-novella, got %s", dir.Path())
		}
	})

	t.Run("with empty path uses default", func(t *testing.T) {
		dir, err := New("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		home, _ := os.UserHomeDir()
		expected := filepath.Join(home, DefaultDirName)
		if dir.Path() != expected {
			t.Errorf("expected path %s, got %s", expected, dir.Path())
		}
	})
}

func TestDir_Paths(t *testing.T) {
	dir, _ := New("/tmp/test-novella")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"NovelsPath", dir.NovelsPath(), "/tmp/test-novella/novels"},
		{"ConfigPath", dir.ConfigPath(), "/tmp/test-novella/config.yaml"},
		{"CallLogPath", dir.CallLogPath(), "/tmp/test-novella/llm_calls.jsonl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, tt.got)
			}
		})
	}
}

func TestDir_EnsureExists(t *testing.T) {
	novellaDir := filepath.Join(t.TempDir(), "novella-test")

	dir, err := New(novellaDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir.Exists() {
		t.Fatal("directory should not exist yet")
	}

	if err := dir.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists() error = %v", err)
	}
	if !dir.Exists() {
		t.Error("expected home directory to exist")
	}
	if _, err := os.Stat(dir.NovelsPath()); err != nil {
		t.Errorf("expected novels directory: %v", err)
	}
	if dir.ConfigExists() {
		t.Error("config should not exist yet")
	}
}

func TestDir_OpenCallLog(t *testing.T) {
	dir, _ := New(filepath.Join(t.TempDir(), "h"))
	for i := 0; i < 2; i++ {
		f, err := dir.OpenCallLog()
		if err != nil {
			t.Fatalf("OpenCallLog() error = %v", err)
		}
		if _, err := f.WriteString("{}\n"); err != nil {
			t.Fatal(err)
		}
		f.Close()
	}
	data, err := os.ReadFile(dir.CallLogPath())
	if err != nil || string(data) != "{}\n{}\n" {
		t.Fatalf("call log = %q, %v", data, err)
	}
}
