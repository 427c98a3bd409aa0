package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"icdmap/internal/config"
	"icdmap/internal/exporter"
	"icdmap/internal/infrastructure"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run converts the code-list workbook into the annotated tab-separated list
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("xlsx2txt", flag.ContinueOnError)
	fs.SetOutput(stderr)

	in := fs.String("in", "", "code-list workbook (defaults to output/icd10am_codes_all.xlsx)")
	out := fs.String("out", "", "annotated text file (defaults to output/icd10am_codes.txt)")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	paths, err := config.NewPaths(cfg.Paths)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize paths: %v\n", err)
		return 1
	}

	if *in == "" {
		*in = paths.CodesAllXLSX
	}
	if *out == "" {
		*out = paths.CodesTXT
	}
	*in, _ = filepath.Abs(*in)
	*out, _ = filepath.Abs(*out)

	cfg.Logging.FilePath = paths.Resolve(cfg.Logging.FilePath)
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx = infrastructure.WithRunID(ctx, infrastructure.GenerateRunID())
	logger.InfoContext(ctx, "Converting code list",
		slog.String("input", *in),
		slog.String("output", *out))

	f, err := os.Open(*in)
	if err != nil {
		logger.ErrorContext(ctx, "Cannot open workbook",
			slog.String("path", *in),
			slog.String("error", err.Error()))
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer f.Close()

	entries, err := exporter.ReadCodeListWorkbook(f)
	if err != nil {
		logger.ErrorContext(ctx, "Cannot read workbook",
			slog.String("path", *in),
			slog.String("error", err.Error()))
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if _, err := exporter.New(paths, logger).ExportTSV(ctx, *out, entries); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "Conversion complete! Check %s\n", displayPath(paths.BaseDir, *out))
	return 0
}

// displayPath shows out relative to the base directory when it lives under it
func displayPath(base, out string) string {
	rel, err := filepath.Rel(base, out)
	if err != nil || strings.HasPrefix(rel, "..") {
		return out
	}
	return filepath.ToSlash(rel)
}
