package processor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	apperrors "icdmap/internal/errors"
	"icdmap/internal/files"
	"icdmap/internal/infrastructure"
	"icdmap/internal/ingest"
	"icdmap/internal/mapping"
	"icdmap/pkg/contracts/domain"
)

// Options configures a directory run
type Options struct {
	Mode      mapping.Mode
	Extension string
	SortFiles bool
	Policy    ingest.EncodingPolicy
	// LenientViews are the views that take a file decoded by a fallback encoding,
	// that is any decoder after the first in Policy. Other views skip such a file.
	// Zero means every view accepts every decoder in Policy.
	LenientViews mapping.Mode
}

// Observer is told about each file as soon as its outcome is known
type Observer interface {
	FileProcessed(summary domain.FileSummary)
	FileFailed(failure domain.FileFailure)
}

// Processor turns a directory of cross-reference tables into one aggregate.
// Files are handled one at a time; a failing file is reported and skipped.
type Processor struct {
	opts      Options
	discovery *files.Discovery
	reader    *ingest.Reader
	logger    *slog.Logger
	tracer    trace.Tracer
	metrics   *infrastructure.RunMetrics
	observer  Observer
}

// Option customizes a Processor
type Option func(*Processor)

// WithLogger sets the structured logger
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) { p.logger = logger }
}

// WithTracer sets the tracer used for run and file spans
func WithTracer(tracer trace.Tracer) Option {
	return func(p *Processor) { p.tracer = tracer }
}

// WithMetrics sets the run counters
func WithMetrics(metrics *infrastructure.RunMetrics) Option {
	return func(p *Processor) { p.metrics = metrics }
}

// WithObserver sets the per-file observer
func WithObserver(observer Observer) Option {
	return func(p *Processor) { p.observer = observer }
}

// New creates a processor. Without options it logs to the global logger and
// neither traces nor counts.
func New(opts Options, options ...Option) *Processor {
	if opts.Extension == "" {
		opts.Extension = ".txt"
	}
	if opts.Mode == 0 {
		opts.Mode = mapping.ModeAll
	}

	p := &Processor{
		opts:      opts,
		discovery: files.NewDiscovery(opts.Extension, opts.SortFiles),
		reader:    ingest.NewReader(opts.Policy),
		logger:    infrastructure.GetLogger(),
		tracer:    noop.NewTracerProvider().Tracer(infrastructure.InstrumentationName),
	}
	for _, o := range options {
		o(p)
	}
	p.logger = infrastructure.WithComponent(p.logger, "processor")
	return p
}

// Process reads every input file in dir and folds the accepted records into a fresh
// aggregate. The returned error is non-nil only when the directory itself cannot be
// listed or ctx is canceled; per-file failures are reported in the RunResult.
func (p *Processor) Process(ctx context.Context, dir string) (*mapping.Aggregator, *domain.RunResult, error) {
	ctx = infrastructure.EnsureRunID(ctx)
	start := time.Now()

	result := &domain.RunResult{
		RunID:     infrastructure.GetRunID(ctx),
		Directory: dir,
		StartedAt: start,
	}

	ctx, span := p.tracer.Start(ctx, "process_directory", trace.WithAttributes(
		attribute.String("icdmap.directory", dir),
		attribute.String("icdmap.mode", p.opts.Mode.String()),
		attribute.StringSlice("icdmap.encodings", p.reader.Policy().Names()),
	))
	defer span.End()
	result.TraceID = infrastructure.TraceIDFromContext(ctx)

	p.logger.InfoContext(ctx, "Processing directory",
		slog.String("directory", dir),
		slog.String("mode", p.opts.Mode.String()),
		slog.Any("encodings", p.reader.Policy().Names()))

	inputs, err := p.discovery.FindTextFiles(dir)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		p.logger.ErrorContext(ctx, "Input directory unavailable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return nil, result, err
	}
	result.FilesSeen = len(inputs)

	if len(inputs) == 0 {
		// Not a failure: the run still exports empty artifacts
		span.AddEvent("no_input_files", trace.WithAttributes(
			attribute.String("icdmap.reason", apperrors.ErrNoTextFiles.Error()),
		))
		p.logger.WarnContext(ctx, "No input files found",
			slog.String("directory", dir),
			slog.String("extension", p.opts.Extension),
			slog.String("error", apperrors.ErrNoTextFiles.Error()))
	}

	agg := mapping.NewAggregator(p.opts.Mode)

	for i, input := range inputs {
		if err := ctx.Err(); err != nil {
			for _, rest := range inputs[i:] {
				p.fail(ctx, result, domain.FileFailure{File: rest.Name, Kind: domain.FailureKindCanceled, Reason: err.Error()})
			}
			p.finish(ctx, result, start)
			infrastructure.RecordError(ctx, err)
			return agg, result, fmt.Errorf("run canceled after %d of %d files: %w", i, len(inputs), err)
		}

		partial, summary, err := p.processFile(ctx, input)
		if err != nil {
			p.fail(ctx, result, domain.FileFailure{File: input.Name, Kind: classify(err), Reason: err.Error()})
			continue
		}

		// Only whole files are committed
		agg.Merge(partial)

		result.Processed = append(result.Processed, summary)
		result.RowsRead += summary.RowsRead
		result.RowsAccepted += summary.RowsAccepted
		result.RowsSkipped += summary.RowsSkipped
		result.RowsNoTarget += summary.RowsNoTarget

		p.metrics.RecordFile(ctx, summary)
		if p.observer != nil {
			p.observer.FileProcessed(summary)
		}
	}

	p.finish(ctx, result, start)

	span.SetAttributes(
		attribute.Int("icdmap.files_processed", result.FilesProcessed()),
		attribute.Int("icdmap.files_failed", result.FilesFailed()),
	)

	p.logger.InfoContext(ctx, "Directory processed",
		slog.Int("files_seen", result.FilesSeen),
		slog.Int("files_processed", result.FilesProcessed()),
		slog.Int("files_failed", result.FilesFailed()),
		slog.Int("rows_read", result.RowsRead),
		slog.Int("rows_accepted", result.RowsAccepted),
		slog.Int("rows_skipped", result.RowsSkipped),
		slog.Int("rows_no_target", result.RowsNoTarget),
		slog.Duration("duration", result.Duration))

	return agg, result, nil
}

// processFile parses one file into its own aggregate
func (p *Processor) processFile(ctx context.Context, input files.FileInfo) (*mapping.Aggregator, domain.FileSummary, error) {
	ctx, span := p.tracer.Start(ctx, "process_file", trace.WithAttributes(
		attribute.String("icdmap.file", input.Name),
		attribute.Int64("icdmap.file_size", input.Size),
	))
	defer span.End()

	summary := domain.FileSummary{File: input.Name}

	table, err := p.reader.ReadFile(input.Path)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, summary, err
	}
	summary.Encoding = table.Encoding

	views := p.views(table.Encoding)
	if views == 0 {
		policy := p.reader.Policy()
		err := apperrors.NewDecodeError(input.Name, policy.Names()[:1],
			fmt.Errorf("only decodable as %s, which no enabled view accepts", table.Encoding))
		infrastructure.RecordError(ctx, err)
		return nil, summary, err
	}
	summary.Views = views.String()

	partial := mapping.NewAggregator(views)
	for i, row := range table.Rows {
		summary.RowsRead++

		rec, ok := mapping.ParseRecord(row)
		if !ok {
			summary.RowsSkipped++
			p.logger.DebugContext(ctx, "Skipping short row",
				slog.String("file", input.Name),
				slog.Int("row", i+2),
				slog.Int("fields", len(row)))
			continue
		}

		summary.RowsAccepted++
		if rec.TargetCode == "" {
			summary.RowsNoTarget++
		}
		partial.Add(rec)
	}

	span.SetAttributes(
		attribute.String("icdmap.encoding", summary.Encoding),
		attribute.String("icdmap.views", summary.Views),
		attribute.Int("icdmap.rows_read", summary.RowsRead),
		attribute.Int("icdmap.rows_skipped", summary.RowsSkipped),
	)

	p.logger.DebugContext(ctx, "File parsed",
		slog.String("file", input.Name),
		slog.String("encoding", summary.Encoding),
		slog.String("views", summary.Views),
		slog.Int("rows_read", summary.RowsRead),
		slog.Int("rows_skipped", summary.RowsSkipped))

	return partial, summary, nil
}

// views returns the views a file decoded with encoding feeds
func (p *Processor) views(encoding string) mapping.Mode {
	policy := p.reader.Policy()
	if p.opts.LenientViews == 0 || encoding == policy[0].Name {
		return p.opts.Mode
	}
	return p.opts.Mode & p.opts.LenientViews
}

func (p *Processor) fail(ctx context.Context, result *domain.RunResult, failure domain.FileFailure) {
	result.Failures = append(result.Failures, failure)

	p.logger.WarnContext(ctx, "Skipping file",
		slog.String("file", failure.File),
		slog.String("kind", string(failure.Kind)),
		slog.String("error", failure.Reason))

	p.metrics.RecordFailure(ctx, failure.Kind)
	if p.observer != nil {
		p.observer.FileFailed(failure)
	}
}

func (p *Processor) finish(ctx context.Context, result *domain.RunResult, start time.Time) {
	result.Duration = time.Since(start)
	p.metrics.RecordRun(ctx, result.Duration)
}

// classify maps a file error onto a failure kind
func classify(err error) domain.FailureKind {
	if errType, _ := apperrors.TypeOf(err); errType == apperrors.ErrTypeEncodingExhausted {
		return domain.FailureKindDecode
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return domain.FailureKindOpen
	}

	return domain.FailureKindParse
}
