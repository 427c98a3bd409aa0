package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	apperrors "icdmap/internal/errors"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery provides input file discovery
type Discovery struct {
	extension string
	sortNames bool
}

// NewDiscovery creates a discovery for files ending in extension.
// With sortNames unset, files come back in the directory's own listing order.
func NewDiscovery(extension string, sortNames bool) *Discovery {
	return &Discovery{extension: extension, sortNames: sortNames}
}

// FindTextFiles finds the input files directly inside dir. Subdirectories are not
// searched. An unreadable or missing dir yields a fatal error wrapping ErrInputDirMissing.
func (d *Discovery) FindTextFiles(dir string) ([]FileInfo, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, inputDirError(dir, err)
	}
	defer f.Close()

	// File.ReadDir does not sort, unlike os.ReadDir
	entries, err := f.ReadDir(-1)
	if err != nil {
		return nil, inputDirError(dir, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, d.extension) {
			continue
		}

		path := filepath.Join(dir, name)
		// Stat follows symlinks so linked files are picked up too
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}

		files = append(files, FileInfo{
			Path:    path,
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	if d.sortNames {
		sort.Slice(files, func(i, j int) bool {
			return files[i].Name < files[j].Name
		})
	}

	return files, nil
}

// Names returns the file names in order
func Names(files []FileInfo) []string {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	return names
}

func inputDirError(dir string, err error) error {
	return apperrors.NewFatalError("input directory unavailable",
		fmt.Errorf("%w: %s: %v", apperrors.ErrInputDirMissing, dir, err))
}
