package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the application paths.
// The input directory is never created here: a missing input directory aborts the run.
type Paths struct {
	BaseDir   string
	DataDir   string
	OutputDir string
	LogsDir   string

	// Well-known output files
	MappingReportTXT  string
	MappingReportXLSX string
	CodesAllXLSX      string
	UniqueCodesXLSX   string
	CodesTXT          string
}

// NewPaths resolves configured directories against the base directory.
// With no base directory configured, the executable's directory is used.
func NewPaths(cfg PathsConfig) (*Paths, error) {
	base := cfg.BaseDir
	if base == "" {
		exeDir, err := executableDir()
		if err != nil {
			return nil, err
		}
		base = exeDir
	}

	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory %s: %w", base, err)
	}

	outputDir := resolve(abs, cfg.OutputDir)
	return &Paths{
		BaseDir:   abs,
		DataDir:   resolve(abs, cfg.DataDir),
		OutputDir: outputDir,
		LogsDir:   resolve(abs, cfg.LogsDir),

		MappingReportTXT:  filepath.Join(outputDir, MappingReportTXT),
		MappingReportXLSX: filepath.Join(outputDir, MappingReportXLSX),
		CodesAllXLSX:      filepath.Join(outputDir, CodesAllXLSX),
		UniqueCodesXLSX:   filepath.Join(outputDir, UniqueCodesXLSX),
		CodesTXT:          filepath.Join(outputDir, CodesTXT),
	}, nil
}

func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %v", err)
	}

	// Resolve symlinks to get the actual executable location
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}
	return filepath.Dir(exe), nil
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

// Resolve resolves a path against the base directory
func (p *Paths) Resolve(path string) string {
	return resolve(p.BaseDir, path)
}

// EnsureDirectories creates the output and log directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.OutputDir,
		p.LogsDir,
	}

	logger := slog.Default()

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}

		logger.Debug("Ensured directory exists",
			slog.String("directory", dir))
	}

	return nil
}

// GetOutputPath returns the full path for an output file
func (p *Paths) GetOutputPath(filename string) string {
	return filepath.Join(p.OutputDir, filename)
}

// LogPathResolution logs the resolved directories for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	logger.Debug("Resolved paths",
		slog.String("base_dir", p.BaseDir),
		slog.String("data_dir", p.DataDir),
		slog.String("output_dir", p.OutputDir),
		slog.String("logs_dir", p.LogsDir))
}
