package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"icdmap/internal/config"
)

const (
	ServiceName         = "icdmap"
	InstrumentationName = "icdmap/internal/processor"
)

// Telemetry holds the tracing and metrics providers of one run.
// Metrics are always collected into Registry; whether they are written out is up to the caller.
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider // nil when tracing is disabled
	MeterProvider  *sdkmetric.MeterProvider
	Registry       *promclient.Registry
	Tracer         trace.Tracer
	Metrics        *RunMetrics

	traceOut io.Closer
	logger   *slog.Logger
}

// InitializeTelemetry sets up OpenTelemetry tracing and metrics for a run
func InitializeTelemetry(ctx context.Context, tracing config.TracingConfig, version string, logger *slog.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = GetLogger()
	}

	res, err := createResource(version)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	t := &Telemetry{logger: logger}

	if err := t.initializeTracing(ctx, tracing, res, version); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	if err := t.initializeMetrics(res, version); err != nil {
		t.Shutdown(ctx)
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	logger.DebugContext(ctx, "Telemetry initialized",
		slog.Bool("tracing_enabled", t.TracerProvider != nil))

	return t, nil
}

// createResource creates the OpenTelemetry resource
func createResource(version string) (*resource.Resource, error) {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(version),
	), nil
}

// initializeTracing sets up span export. Disabled tracing yields a no-op tracer.
func (t *Telemetry) initializeTracing(ctx context.Context, cfg config.TracingConfig, res *resource.Resource, version string) error {
	if !cfg.Enabled || cfg.Exporter == "none" {
		t.Tracer = noop.NewTracerProvider().Tracer(InstrumentationName)
		return nil
	}

	var out io.Writer = os.Stdout
	if cfg.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
			return fmt.Errorf("failed to create trace directory: %w", err)
		}
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open trace file %s: %w", cfg.FilePath, err)
		}
		t.traceOut = f
		out = f
	}

	var exporter sdktrace.SpanExporter
	var err error

	switch cfg.Exporter {
	case "stdout":
		exporter, err = stdouttrace.New(
			stdouttrace.WithWriter(out),
			stdouttrace.WithPrettyPrint(),
		)
	default:
		err = fmt.Errorf("unsupported trace exporter: %s", cfg.Exporter)
	}

	if err != nil {
		t.closeTraceOut()
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SampleRatio)),
	)

	t.TracerProvider = tp
	t.Tracer = tp.Tracer(InstrumentationName, trace.WithInstrumentationVersion(version))

	otel.SetTracerProvider(tp)

	t.logger.InfoContext(ctx, "Tracing initialized",
		slog.String("exporter", cfg.Exporter),
		slog.Float64("sample_ratio", cfg.SampleRatio))

	return nil
}

// initializeMetrics bridges an OpenTelemetry meter onto a private Prometheus registry
func (t *Telemetry) initializeMetrics(res *resource.Resource, version string) error {
	registry := promclient.NewRegistry()

	exporter, err := prometheus.New(
		prometheus.WithRegisterer(registry),
		prometheus.WithoutTargetInfo(),
	)
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	runMetrics, err := NewRunMetrics(mp.Meter(InstrumentationName, metric.WithInstrumentationVersion(version)))
	if err != nil {
		mp.Shutdown(context.Background())
		return err
	}

	t.MeterProvider = mp
	t.Registry = registry
	t.Metrics = runMetrics
	return nil
}

// WriteMetrics writes the run's metrics in the Prometheus textfile format
func (t *Telemetry) WriteMetrics(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := promclient.WriteToTextfile(path, t.Registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	return nil
}

// Shutdown flushes and stops the providers
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error

	if t.TracerProvider != nil {
		if err := t.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}

	if t.MeterProvider != nil {
		if err := t.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if err := t.closeTraceOut(); err != nil {
		errs = append(errs, fmt.Errorf("trace file close: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("telemetry shutdown errors: %v", errs)
	}

	return nil
}

func (t *Telemetry) closeTraceOut() error {
	if t.traceOut == nil {
		return nil
	}
	err := t.traceOut.Close()
	t.traceOut = nil
	return err
}

// RecordError records err on the span in ctx and marks it failed
func RecordError(ctx context.Context, err error, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.RecordError(err, trace.WithAttributes(attrs...))
	span.SetStatus(codes.Error, err.Error())
}

// TraceIDFromContext extracts trace ID from context for logging correlation
func TraceIDFromContext(ctx context.Context) string {
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.IsValid() {
		return spanCtx.TraceID().String()
	}
	return ""
}
