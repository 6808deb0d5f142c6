// Package home manages the batchlens home directory layout.
package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the batchlens home directory.
	DefaultDirName = ".batchlens"

	// DocumentsDirName is the subdirectory for ingested batch-record PDFs.
	DocumentsDirName = "documents"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"
)

// Dir represents the batchlens home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.batchlens).
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

// DocumentsDir returns the directory holding ingested PDFs.
func (d *Dir) DocumentsDir() string {
	return filepath.Join(d.path, DocumentsDirName)
}

// DocumentPDFPath returns the storage path for an ingested document's PDF.
func (d *Dir) DocumentPDFPath(documentID string) string {
	return filepath.Join(d.DocumentsDir(), documentID+".pdf")
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// EnsureExists creates the home directory and subdirectories if they don't exist.
func (d *Dir) EnsureExists() error {
	if err := os.MkdirAll(d.DocumentsDir(), 0o755); err != nil {
		return fmt.Errorf("failed to create documents directory: %w", err)
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
