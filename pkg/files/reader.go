package files

import (
	"fmt"
	"os"
	"path/filepath"
)

// Reader abstracts file access so route registration can be tested
// without touching the filesystem
type Reader interface {
	ReadFile(path string) ([]byte, error)
}

// OSReader reads files from the local filesystem, resolving paths
// relative to an optional base directory
type OSReader struct {
	baseDir string
}

// NewOSReader creates a reader rooted at baseDir
// An empty baseDir resolves paths relative to the working directory
func NewOSReader(baseDir string) *OSReader {
	return &OSReader{baseDir: baseDir}
}

// ReadFile reads the full content of a file
func (r *OSReader) ReadFile(path string) ([]byte, error) {
	if r.baseDir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to access file: %w", err)
	}

	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("not a regular file: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return data, nil
}
