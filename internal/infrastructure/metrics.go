package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"icdmap/pkg/contracts/domain"
)

// RunMetrics holds the counters of a directory run
type RunMetrics struct {
	FilesProcessed metric.Int64Counter
	FilesFailed    metric.Int64Counter
	RowsRead       metric.Int64Counter
	RowsAccepted   metric.Int64Counter
	RowsSkipped    metric.Int64Counter
	RunDuration    metric.Float64Histogram
}

// NewRunMetrics creates the run instruments on meter
func NewRunMetrics(meter metric.Meter) (*RunMetrics, error) {
	filesProcessed, err := meter.Int64Counter(
		"icdmap_files_processed",
		metric.WithDescription("Input files merged into the aggregate"),
	)
	if err != nil {
		return nil, err
	}

	filesFailed, err := meter.Int64Counter(
		"icdmap_files_failed",
		metric.WithDescription("Input files skipped, by failure kind"),
	)
	if err != nil {
		return nil, err
	}

	rowsRead, err := meter.Int64Counter(
		"icdmap_rows_read",
		metric.WithDescription("Data rows read from processed files"),
	)
	if err != nil {
		return nil, err
	}

	rowsAccepted, err := meter.Int64Counter(
		"icdmap_rows_accepted",
		metric.WithDescription("Rows parsed into mapping records"),
	)
	if err != nil {
		return nil, err
	}

	rowsSkipped, err := meter.Int64Counter(
		"icdmap_rows_skipped",
		metric.WithDescription("Rows dropped for having too few fields"),
	)
	if err != nil {
		return nil, err
	}

	runDuration, err := meter.Float64Histogram(
		"icdmap_run_duration_seconds",
		metric.WithDescription("Wall time of a directory run in seconds"),
	)
	if err != nil {
		return nil, err
	}

	return &RunMetrics{
		FilesProcessed: filesProcessed,
		FilesFailed:    filesFailed,
		RowsRead:       rowsRead,
		RowsAccepted:   rowsAccepted,
		RowsSkipped:    rowsSkipped,
		RunDuration:    runDuration,
	}, nil
}

// RecordFile records a successfully merged file
func (m *RunMetrics) RecordFile(ctx context.Context, s domain.FileSummary) {
	if m == nil {
		return
	}
	enc := metric.WithAttributes(attribute.String("encoding", s.Encoding))
	m.FilesProcessed.Add(ctx, 1, enc)
	m.RowsRead.Add(ctx, int64(s.RowsRead))
	m.RowsAccepted.Add(ctx, int64(s.RowsAccepted))
	m.RowsSkipped.Add(ctx, int64(s.RowsSkipped))
}

// RecordFailure records a skipped file
func (m *RunMetrics) RecordFailure(ctx context.Context, kind domain.FailureKind) {
	if m == nil {
		return
	}
	m.FilesFailed.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", string(kind))))
}

// RecordRun records the duration of a completed run
func (m *RunMetrics) RecordRun(ctx context.Context, d time.Duration) {
	if m == nil {
		return
	}
	m.RunDuration.Record(ctx, d.Seconds())
}
