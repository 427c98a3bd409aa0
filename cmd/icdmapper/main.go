package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"icdmap/internal/config"
	apperrors "icdmap/internal/errors"
	"icdmap/internal/exporter"
	"icdmap/internal/infrastructure"
	"icdmap/internal/ingest"
	"icdmap/internal/mapping"
	"icdmap/internal/processor"
	"icdmap/pkg/contracts"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run is main without the process exit, returning the exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("icdmapper", flag.ContinueOnError)
	fs.SetOutput(stderr)

	modeName := fs.String("mode", "all", "full | list | unique | all")
	dir := fs.String("dir", "", "directory containing the mapping .txt files (defaults to data/ next to the executable)")
	out := fs.String("out", "", "output directory (defaults to output/ next to the executable)")
	encodings := fs.String("encodings", "", "comma-separated encodings to try in order, e.g. utf-8,latin-1,windows-1252")
	sortFiles := fs.Bool("sort-files", false, "process files in name order instead of directory listing order")
	lookup := fs.String("lookup", "", "print the ICD-10-AM mappings of one ICD-10 code instead of writing artifacts")
	configFile := fs.String("config", "", "YAML config file (defaults to $ICDMAP_CONFIG, icdmap.yaml or configs/icdmap.yaml)")
	version := fs.Bool("version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return 0
	}

	mode, err := mapping.ParseMode(*modeName)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if *lookup != "" {
		mode |= mapping.ModeFull
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	// Flags override config
	if *dir != "" {
		cfg.Paths.DataDir = absPath(*dir)
	}
	if *out != "" {
		cfg.Paths.OutputDir = absPath(*out)
	}
	if *sortFiles {
		cfg.Input.SortFiles = true
	}
	if *encodings != "" {
		cfg.Input.Encodings = splitList(*encodings)
	}

	paths, err := config.NewPaths(cfg.Paths)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize paths: %v\n", err)
		return 1
	}

	if err := paths.EnsureDirectories(); err != nil {
		fmt.Fprintf(stderr, "Error: failed to create required directories: %v\n", err)
		return 1
	}

	cfg.Logging.FilePath = paths.Resolve(cfg.Logging.FilePath)
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	policy, lenient, err := encodingPolicy(mode, cfg.Input.Encodings)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	ctx = infrastructure.WithRunID(ctx, infrastructure.GenerateRunID())

	if cfg.Tracing.FilePath != "" {
		cfg.Tracing.FilePath = paths.Resolve(cfg.Tracing.FilePath)
	}
	telemetry, err := infrastructure.InitializeTelemetry(ctx, cfg.Tracing, contracts.Version, logger)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to initialize telemetry", slog.String("error", err.Error()))
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	logger.InfoContext(ctx, "Starting ICD-10 mapping run",
		slog.String("version", contracts.Version),
		slog.String("mode", mode.String()),
		slog.String("input_dir", paths.DataDir),
		slog.String("output_dir", paths.OutputDir),
		slog.Any("encodings", policy.Names()),
		slog.String("fallback_views", lenient.String()),
		slog.Bool("sort_files", cfg.Input.SortFiles))
	paths.LogPathResolution(logger)

	proc := processor.New(processor.Options{
		Mode:         mode,
		Extension:    cfg.Input.Extension,
		SortFiles:    cfg.Input.SortFiles,
		Policy:       policy,
		LenientViews: lenient,
	},
		processor.WithLogger(logger),
		processor.WithTracer(telemetry.Tracer),
		processor.WithMetrics(telemetry.Metrics),
		processor.WithObserver(processor.ConsoleObserver{W: stdout}),
	)

	agg, result, err := proc.Process(ctx, paths.DataDir)

	if cfg.Metrics.Enabled {
		metricsPath := paths.Resolve(cfg.Metrics.TextfilePath)
		if werr := telemetry.WriteMetrics(metricsPath); werr != nil {
			logger.WarnContext(ctx, "Failed to write metrics", slog.String("error", werr.Error()))
		}
	}

	if err != nil {
		if apperrors.IsFatal(err) {
			logger.ErrorContext(ctx, "Run aborted", slog.String("error", err.Error()))
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if *lookup != "" {
		return printLookup(stdout, agg, *lookup)
	}

	artifacts, err := exporter.New(paths, logger).Export(ctx, agg)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if mode.Has(mapping.ModeList) {
		fmt.Fprintf(stdout, "Exported %d ICD-10-AM code mappings\n", agg.ListLen())
	}
	if mode.Has(mapping.ModeUnique) {
		fmt.Fprintf(stdout, "Found %d unique ICD-10-AM codes\n", agg.UniqueLen())
	}

	logger.InfoContext(ctx, "Run complete",
		slog.Int("files_processed", result.FilesProcessed()),
		slog.Int("files_failed", result.FilesFailed()),
		slog.Int("artifacts", len(artifacts)))

	fmt.Fprintln(stdout, "\nProcessing complete! Check the output directory for results.")
	return 0
}

// loadConfig loads the config from path, or from the default locations when path is empty.
// A broken file or environment variable is an error, never a silent fall back to defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// encodingPolicy picks the configured encodings, or the mode's default, and the views
// that take files decoded by a fallback encoding. By default the code list tolerates
// legacy single-byte files while the other views stay UTF-8 only; configured
// encodings apply to every view.
func encodingPolicy(mode mapping.Mode, names []string) (ingest.EncodingPolicy, mapping.Mode, error) {
	if len(names) > 0 {
		policy, err := ingest.NewPolicy(names...)
		return policy, 0, err
	}
	if mode.Has(mapping.ModeList) {
		return ingest.FallbackPolicy(), mapping.ModeList, nil
	}
	return ingest.StrictPolicy(), 0, nil
}

func printLookup(w io.Writer, agg *mapping.Aggregator, code string) int {
	entries, ok := agg.Mapping(code)
	if !ok {
		fmt.Fprintf(w, "No mappings found for ICD-10 code %s\n", code)
		return 1
	}

	fmt.Fprintf(w, "ICD-10 Code: %s\n", code)
	fmt.Fprintf(w, "Description: %s\n", entries[0].SourceDescriptor)
	for _, e := range entries {
		fmt.Fprintf(w, "- %s: %s\n", e.TargetCode, e.TargetDescriptor)
		if e.AdditiveMap != nil {
			fmt.Fprintf(w, "  Additive Map: %s\n", *e.AdditiveMap)
		}
	}
	return 0
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
