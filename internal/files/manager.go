package files

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"icdmap/internal/config"
)

// Manager writes output artifacts under the configured output directory
type Manager struct {
	paths *config.Paths
}

// NewManager creates a new file manager instance
func NewManager(paths *config.Paths) *Manager {
	return &Manager{paths: paths}
}

// EnsureDirectory creates a directory if it doesn't exist
func (m *Manager) EnsureDirectory(path string) error {
	fullPath := m.resolvePath(path)

	slog.Debug("Ensuring directory exists",
		slog.String("path", path),
		slog.String("full_path", fullPath))

	return os.MkdirAll(fullPath, 0755)
}

// WriteAtomic streams write's output into a temporary file next to path and renames it
// into place once write returns nil. On any failure the previous file, if any, is untouched.
func (m *Manager) WriteAtomic(path string, write func(w io.Writer) error) (err error) {
	fullPath := m.resolvePath(path)
	dir := filepath.Dir(fullPath)

	if err := m.EnsureDirectory(dir); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(fullPath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	buf := bufio.NewWriter(tmp)
	if err = write(buf); err != nil {
		return err
	}
	if err = buf.Flush(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", fullPath, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", fullPath, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", fullPath, err)
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to set mode on %s: %w", fullPath, err)
	}
	if err = os.Rename(tmp.Name(), fullPath); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", fullPath, err)
	}

	slog.Info("Wrote file",
		slog.String("path", fullPath))

	return nil
}

// WriteFile writes data to path atomically
func (m *Manager) WriteFile(path string, data []byte) error {
	return m.WriteAtomic(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// OutputPath returns the full path for an output file
func (m *Manager) OutputPath(name string) string {
	return m.resolvePath(name)
}

// resolvePath resolves relative paths against the output directory
func (m *Manager) resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return m.paths.GetOutputPath(path)
}
