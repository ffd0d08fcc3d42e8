package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the novella home directory.
	DefaultDirName = ".novella"

	// NovelsDirName is the subdirectory holding one JSON file per novel.
	NovelsDirName = "novels"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"

	// CallLogFileName records every model call as JSON lines.
	CallLogFileName = "llm_calls.jsonl"
)

// Dir represents the novella home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.novella).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// NovelsPath returns the path to the novels directory.
func (d *Dir) NovelsPath() string {
	return filepath.Join(d.path, NovelsDirName)
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// CallLogPath returns the path to the model call log.
func (d *Dir) CallLogPath() string {
	return filepath.Join(d.path, CallLogFileName)
}

// EnsureExists creates the home directory and subdirectories if they don't exist.
func (d *Dir) EnsureExists() error {
	// Create novels directory (this also creates the parent)
	if err := os.MkdirAll(d.NovelsPath(), 0o755); err != nil {
		return fmt.Errorf("failed to create novels directory: %w", err)
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}

// OpenCallLog opens the call log for appending, creating it when needed.
func (d *Dir) OpenCallLog() (*os.File, error) {
	if err := os.MkdirAll(d.path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create home directory: %w", err)
	}
	f, err := os.OpenFile(d.CallLogPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open call log: %w", err)
	}
	return f, nil
}
