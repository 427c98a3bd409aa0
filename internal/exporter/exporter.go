package exporter

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"

	"icdmap/internal/config"
	apperrors "icdmap/internal/errors"
	"icdmap/internal/files"
	"icdmap/internal/infrastructure"
	"icdmap/internal/mapping"
	"icdmap/pkg/contracts/domain"
)

// Artifact describes one written output file
type Artifact struct {
	Name string
	Path string
	Rows int
}

// Exporter writes the artifacts of a run into the output directory
type Exporter struct {
	manager *files.Manager
	paths   *config.Paths
	logger  *slog.Logger
}

// New creates an exporter writing under paths.OutputDir
func New(paths *config.Paths, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &Exporter{
		manager: files.NewManager(paths),
		paths:   paths,
		logger:  infrastructure.WithComponent(logger, "exporter"),
	}
}

// Export writes the artifacts for every view enabled on agg:
// the text report and mapping workbook for the full mapping, the code-list workbook
// for the flat list and the unique-codes workbook for the unique index.
func (e *Exporter) Export(ctx context.Context, agg *mapping.Aggregator) ([]Artifact, error) {
	var artifacts []Artifact

	if agg.Mode().Has(mapping.ModeFull) {
		a, err := e.write(ctx, e.paths.MappingReportTXT, agg.MappingCount(), func(w io.Writer) error {
			return WriteMappingReport(w, agg)
		})
		if err != nil {
			return artifacts, err
		}
		artifacts = append(artifacts, a)

		a, err = e.write(ctx, e.paths.MappingReportXLSX, agg.MappingCount(), func(w io.Writer) error {
			return WriteMappingWorkbook(w, agg)
		})
		if err != nil {
			return artifacts, err
		}
		artifacts = append(artifacts, a)
	}

	if agg.Mode().Has(mapping.ModeList) {
		a, err := e.write(ctx, e.paths.CodesAllXLSX, agg.ListLen(), func(w io.Writer) error {
			return WriteCodeListWorkbook(w, agg)
		})
		if err != nil {
			return artifacts, err
		}
		artifacts = append(artifacts, a)
	}

	if agg.Mode().Has(mapping.ModeUnique) {
		a, err := e.write(ctx, e.paths.UniqueCodesXLSX, agg.UniqueLen(), func(w io.Writer) error {
			return WriteUniqueCodesWorkbook(w, agg)
		})
		if err != nil {
			return artifacts, err
		}
		artifacts = append(artifacts, a)
	}

	return artifacts, nil
}

// ExportTSV writes entries as the annotated tab-separated code list
func (e *Exporter) ExportTSV(ctx context.Context, path string, entries []domain.CodeEntry) (Artifact, error) {
	return e.write(ctx, path, len(entries), func(w io.Writer) error {
		return WriteAnnotatedTSV(w, entries)
	})
}

func (e *Exporter) write(ctx context.Context, path string, rows int, fn func(io.Writer) error) (Artifact, error) {
	if err := e.manager.WriteAtomic(path, fn); err != nil {
		e.logger.ErrorContext(ctx, "Export failed",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return Artifact{}, apperrors.NewExportError(path, err)
	}

	a := Artifact{Name: filepath.Base(path), Path: e.manager.OutputPath(path), Rows: rows}
	e.logger.InfoContext(ctx, "Exported artifact",
		slog.String("path", a.Path),
		slog.Int("rows", rows))
	return a, nil
}
