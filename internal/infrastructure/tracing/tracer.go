// Package tracing provides OpenTelemetry-based tracing infrastructure.
// It supports stdout and OTLP exporters and provides span helpers for the
// generation pipeline.
package tracing

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	// TracerName is the name used for the doc2code tracer.
	TracerName = "github.com/jbctechsolutions/doc2code"

	// Version is the semantic version of the tracer.
	Version = "0.1.0"
)

// ExporterType defines the type of trace exporter.
type ExporterType string

const (
	ExporterNone   ExporterType = "none"
	ExporterStdout ExporterType = "stdout"
	ExporterOTLP   ExporterType = "otlp"
)

// Config holds tracing configuration.
type Config struct {
	Enabled      bool         // Whether tracing is enabled
	ExporterType ExporterType // Type of exporter to use
	OTLPEndpoint string       // OTLP collector endpoint (for OTLP exporter)
	ServiceName  string       // Service name for traces
	Environment  string       // Deployment environment (development, production)
	SampleRate   float64      // Sampling rate (0.0 to 1.0)
	Output       io.Writer    // Output for stdout exporter (defaults to os.Stdout)
}

// DefaultConfig returns sensible default tracing configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:      false,
		ExporterType: ExporterNone,
		ServiceName:  "doc2code",
		Environment:  "development",
		SampleRate:   1.0,
	}
}

// Tracer wraps an OpenTelemetry tracer with domain-specific functionality.
type Tracer struct {
	tracer   trace.Tracer
	provider *sdktrace.TracerProvider
	config   Config
}

// global is the package-level default tracer.
var (
	global     *Tracer
	globalOnce sync.Once
)

// Init initializes the global tracer with the provided configuration.
func Init(ctx context.Context, cfg Config) (*Tracer, error) {
	var err error
	globalOnce.Do(func() {
		global, err = New(ctx, cfg)
	})
	return global, err
}

// Default returns the global tracer, or a no-op tracer if not initialized.
func Default() *Tracer {
	if global == nil {
		return &Tracer{
			tracer: otel.Tracer(TracerName),
			config: DefaultConfig(),
		}
	}
	return global
}

// New creates a new Tracer with the provided configuration.
func New(ctx context.Context, cfg Config) (*Tracer, error) {
	if !cfg.Enabled || cfg.ExporterType == ExporterNone {
		return &Tracer{
			tracer: noop.NewTracerProvider().Tracer(TracerName),
			config: cfg,
		}, nil
	}

	// Create exporter
	exporter, err := createExporter(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create exporter: %w", err)
	}

	// Create resource without merging with Default() to avoid schema URL conflicts.
	// The default resource's schema URL may conflict with our semconv version.
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(Version),
			attribute.String("deployment.environment", cfg.Environment),
		),
		resource.WithHost(),
		resource.WithTelemetrySDK(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	// Create sampler
	var sampler sdktrace.Sampler
	if cfg.SampleRate >= 1.0 {
		sampler = sdktrace.AlwaysSample()
	} else if cfg.SampleRate <= 0.0 {
		sampler = sdktrace.NeverSample()
	} else {
		sampler = sdktrace.TraceIDRatioBased(cfg.SampleRate)
	}

	// Create tracer provider
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)

	// Set global propagator
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	// Set global tracer provider
	otel.SetTracerProvider(provider)

	return &Tracer{
		tracer:   provider.Tracer(TracerName, trace.WithInstrumentationVersion(Version)),
		provider: provider,
		config:   cfg,
	}, nil
}

// createExporter creates the appropriate exporter based on configuration.
func createExporter(ctx context.Context, cfg Config) (sdktrace.SpanExporter, error) {
	switch cfg.ExporterType {
	case ExporterStdout:
		opts := []stdouttrace.Option{
			stdouttrace.WithPrettyPrint(),
		}
		if cfg.Output != nil {
			opts = append(opts, stdouttrace.WithWriter(cfg.Output))
		}
		return stdouttrace.New(opts...)

	case ExporterOTLP:
		opts := []otlptracehttp.Option{
			otlptracehttp.WithInsecure(),
		}
		if cfg.OTLPEndpoint != "" {
			opts = append(opts, otlptracehttp.WithEndpoint(cfg.OTLPEndpoint))
		}
		return otlptracehttp.New(ctx, opts...)

	default:
		return nil, fmt.Errorf("unsupported exporter type: %s", cfg.ExporterType)
	}
}

// Shutdown gracefully shuts down the tracer provider.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t.provider != nil {
		return t.provider.Shutdown(ctx)
	}
	return nil
}

// Start starts a new span with the given name.
func (t *Tracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, opts...)
}

// SpanFromContext returns the current span from context.
func SpanFromContext(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}

// --- Generation span helpers ---

// Span names used by the generation pipeline.
const (
	SpanGenerate         = "generation.generate"
	SpanChunk            = "generation.chunk"
	SpanCombine          = "generation.combine"
	SpanProviderGenerate = "provider.generate"
)

// GenerationSpan covers one /generate request end to end.
type GenerationSpan struct {
	span trace.Span
}

// StartGenerationSpan starts the root span of a generation.
func (t *Tracer) StartGenerationSpan(ctx context.Context, provider, language, sessionID string) (context.Context, *GenerationSpan) {
	ctx, span := t.tracer.Start(ctx, SpanGenerate,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("generation.provider", provider),
			attribute.String("generation.language", language),
			attribute.String("generation.session_id", sessionID),
		),
	)
	return ctx, &GenerationSpan{span: span}
}

// SetInput records the documentation size after preprocessing.
func (gs *GenerationSpan) SetInput(chars, estimatedTokens int, minified, truncated bool) {
	gs.span.SetAttributes(
		attribute.Int("generation.input.chars", chars),
		attribute.Int("generation.input.tokens", estimatedTokens),
		attribute.Bool("generation.input.minified", minified),
		attribute.Bool("generation.input.truncated", truncated),
	)
}

// SetChunkCount records how many chunks the documentation was split into.
func (gs *GenerationSpan) SetChunkCount(count int) {
	gs.span.SetAttributes(attribute.Int("generation.chunk_count", count))
}

// End ends the generation span with success status.
func (gs *GenerationSpan) End() {
	gs.span.SetStatus(codes.Ok, "generation completed successfully")
	gs.span.End()
}

// EndWithError ends the generation span with error status.
func (gs *GenerationSpan) EndWithError(err error) {
	gs.span.RecordError(err)
	gs.span.SetStatus(codes.Error, err.Error())
	gs.span.End()
}

// StepSpan covers one chunk or the final combine call.
type StepSpan struct {
	span trace.Span
}

// StartChunkSpan starts a span for chunk index (1-based) of total.
func (t *Tracer) StartChunkSpan(ctx context.Context, index, total, chars int) (context.Context, *StepSpan) {
	ctx, span := t.tracer.Start(ctx, SpanChunk,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.Int("chunk.index", index),
			attribute.Int("chunk.total", total),
			attribute.Int("chunk.chars", chars),
		),
	)
	return ctx, &StepSpan{span: span}
}

// StartCombineSpan starts a span for merging parts partial SDKs.
func (t *Tracer) StartCombineSpan(ctx context.Context, parts int) (context.Context, *StepSpan) {
	ctx, span := t.tracer.Start(ctx, SpanCombine,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.Int("combine.parts", parts)),
	)
	return ctx, &StepSpan{span: span}
}

// End ends the step span with success status.
func (ss *StepSpan) End() {
	ss.span.SetStatus(codes.Ok, "step completed successfully")
	ss.span.End()
}

// EndWithError ends the step span with error status.
func (ss *StepSpan) EndWithError(err error) {
	ss.span.RecordError(err)
	ss.span.SetStatus(codes.Error, err.Error())
	ss.span.End()
}

// ProviderSpan represents a provider request span.
type ProviderSpan struct {
	span trace.Span
}

// StartProviderSpan starts a span for provider request.
func (t *Tracer) StartProviderSpan(ctx context.Context, provider, model string) (context.Context, *ProviderSpan) {
	ctx, span := t.tracer.Start(ctx, SpanProviderGenerate,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("provider.name", provider),
			attribute.String("provider.model", model),
		),
	)

	return ctx, &ProviderSpan{span: span}
}

// SetRequestTokens sets the input token estimate.
func (ps *ProviderSpan) SetRequestTokens(tokens int) {
	ps.span.SetAttributes(attribute.Int("provider.request.tokens", tokens))
}

// SetResponse sets response information.
func (ps *ProviderSpan) SetResponse(model string, outputTokens int, finishReason string) {
	ps.span.SetAttributes(
		attribute.String("provider.response.model", model),
		attribute.Int("provider.response.tokens", outputTokens),
		attribute.String("provider.response.finish_reason", finishReason),
	)
}

// End ends the provider span with success status.
func (ps *ProviderSpan) End() {
	ps.span.SetStatus(codes.Ok, "provider request completed")
	ps.span.End()
}

// EndWithError ends the provider span with error status.
func (ps *ProviderSpan) EndWithError(err error) {
	ps.span.RecordError(err)
	ps.span.SetStatus(codes.Error, err.Error())
	ps.span.End()
}

// AddEvent adds an event to the current span.
func AddEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// RecordError records an error on the current span.
func RecordError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
}

// SetAttribute sets an attribute on the current span.
func SetAttribute(ctx context.Context, key string, value any) {
	span := trace.SpanFromContext(ctx)
	switch v := value.(type) {
	case string:
		span.SetAttributes(attribute.String(key, v))
	case int:
		span.SetAttributes(attribute.Int(key, v))
	case int64:
		span.SetAttributes(attribute.Int64(key, v))
	case float64:
		span.SetAttributes(attribute.Float64(key, v))
	case bool:
		span.SetAttributes(attribute.Bool(key, v))
	}
}
