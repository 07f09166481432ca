// Package logging provides structured logging infrastructure for doc2code.
// It wraps Go's standard log/slog package with context-aware logging, correlation IDs,
// and generation-specific log attributes.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// contextKey is used for storing logger-related values in context.
type contextKey string

const (
	// CorrelationIDKey is the context key for request correlation IDs.
	CorrelationIDKey contextKey = "correlation_id"
	// SessionIDKey is the context key for generation session IDs.
	SessionIDKey contextKey = "session_id"
	// ProviderKey is the context key for provider names.
	ProviderKey contextKey = "provider"
	// ModelKey is the context key for model IDs.
	ModelKey contextKey = "model"
)

// Level represents log levels.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format represents log output formats.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Config holds logging configuration.
type Config struct {
	Level      Level
	Format     Format
	Output     io.Writer
	AddSource  bool
	TimeFormat string
}

// DefaultConfig returns sensible default logging configuration.
func DefaultConfig() Config {
	return Config{
		Level:      LevelInfo,
		Format:     FormatText,
		Output:     os.Stderr,
		AddSource:  false,
		TimeFormat: time.RFC3339,
	}
}

// Logger wraps slog.Logger with additional functionality for doc2code.
type Logger struct {
	slogger *slog.Logger
}

// New creates a new Logger with the provided configuration.
func New(cfg Config) *Logger {
	var handler slog.Handler
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: cfg.AddSource,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && cfg.TimeFormat != "" {
				if t, ok := a.Value.Any().(time.Time); ok {
					return slog.String(slog.TimeKey, t.Format(cfg.TimeFormat))
				}
			}
			return a
		},
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	switch cfg.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(output, opts)
	default:
		handler = slog.NewTextHandler(output, opts)
	}

	return &Logger{slogger: slog.New(handler)}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return New(Config{Level: LevelError, Output: io.Discard})
}

// ParseLevel converts a level name to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch Level(s) {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return Level(s)
	}
	return LevelInfo
}

// parseLevel converts a Level to slog.Level.
func parseLevel(l Level) slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// With returns a new Logger with the given attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{slogger: l.slogger.With(args...)}
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, args ...any) {
	l.slogger.Debug(msg, args...)
}

// Info logs at info level.
func (l *Logger) Info(msg string, args ...any) {
	l.slogger.Info(msg, args...)
}

// Warn logs at warn level.
func (l *Logger) Warn(msg string, args ...any) {
	l.slogger.Warn(msg, args...)
}

// Error logs at error level.
func (l *Logger) Error(msg string, args ...any) {
	l.slogger.Error(msg, args...)
}

// DebugContext logs at debug level with context.
func (l *Logger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.slogger.DebugContext(ctx, msg, l.enrichArgs(ctx, args)...)
}

// InfoContext logs at info level with context.
func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.slogger.InfoContext(ctx, msg, l.enrichArgs(ctx, args)...)
}

// WarnContext logs at warn level with context.
func (l *Logger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.slogger.WarnContext(ctx, msg, l.enrichArgs(ctx, args)...)
}

// ErrorContext logs at error level with context.
func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.slogger.ErrorContext(ctx, msg, l.enrichArgs(ctx, args)...)
}

// LogContext logs at the given level with context.
func (l *Logger) LogContext(ctx context.Context, level Level, msg string, args ...any) {
	l.slogger.Log(ctx, parseLevel(level), msg, l.enrichArgs(ctx, args)...)
}

// enrichArgs extracts context values and adds them as log attributes.
func (l *Logger) enrichArgs(ctx context.Context, args []any) []any {
	enriched := make([]any, 0, len(args)+8)

	if v := ctx.Value(CorrelationIDKey); v != nil {
		enriched = append(enriched, "correlation_id", v)
	}
	if v := ctx.Value(SessionIDKey); v != nil {
		enriched = append(enriched, "session_id", v)
	}
	if v := ctx.Value(ProviderKey); v != nil {
		enriched = append(enriched, "provider", v)
	}
	if v := ctx.Value(ModelKey); v != nil {
		enriched = append(enriched, "model", v)
	}

	enriched = append(enriched, args...)
	return enriched
}

// --- Context helpers ---

// WithCorrelationID adds a correlation ID to the context.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CorrelationIDKey, id)
}

// WithSessionID adds a generation session ID to the context.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, SessionIDKey, id)
}

// WithProvider adds a provider name to the context.
func WithProvider(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, ProviderKey, name)
}

// WithModel adds a model ID to the context.
func WithModel(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ModelKey, id)
}

// CorrelationID extracts the correlation ID from context.
func CorrelationID(ctx context.Context) string {
	if v := ctx.Value(CorrelationIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// SessionID extracts the session ID from context.
func SessionID(ctx context.Context) string {
	if s, ok := ctx.Value(SessionIDKey).(string); ok {
		return s
	}
	return ""
}

// --- Domain-specific logging helpers ---

// LogGenerationStart logs the start of an SDK generation.
func LogGenerationStart(ctx context.Context, logger *Logger, language string, docChars int, minify, chunking bool) {
	logger.InfoContext(ctx, "generation started",
		"language", language,
		"doc_chars", docChars,
		"minify", minify,
		"chunking", chunking,
	)
}

// LogGenerationComplete logs a successful generation.
func LogGenerationComplete(ctx context.Context, logger *Logger, chunks int, sdkChars int, duration time.Duration) {
	logger.InfoContext(ctx, "generation completed",
		"chunks", chunks,
		"sdk_chars", sdkChars,
		"duration_ms", duration.Milliseconds(),
	)
}

// LogGenerationFailed logs a failed generation.
func LogGenerationFailed(ctx context.Context, logger *Logger, err error, duration time.Duration) {
	logger.ErrorContext(ctx, "generation failed",
		"error", err.Error(),
		"duration_ms", duration.Milliseconds(),
	)
}

// LogMinified logs the effect of minification.
func LogMinified(ctx context.Context, logger *Logger, beforeChars, afterChars int, asJSON bool) {
	logger.DebugContext(ctx, "documentation minified",
		"before_chars", beforeChars,
		"after_chars", afterChars,
		"json", asJSON,
	)
}

// LogTruncated logs that documentation was cut to fit the model limit.
func LogTruncated(ctx context.Context, logger *Logger, estimatedTokens, tokenLimit int) {
	logger.WarnContext(ctx, "documentation truncated to fit model limit",
		"estimated_tokens", estimatedTokens,
		"token_limit", tokenLimit,
	)
}

// LogChunkStart logs the start of one chunk.
func LogChunkStart(ctx context.Context, logger *Logger, index, total, chars int) {
	logger.DebugContext(ctx, "chunk generation started",
		"chunk", index,
		"chunks", total,
		"chunk_chars", chars,
	)
}

// LogChunkComplete logs the completion of one chunk.
func LogChunkComplete(ctx context.Context, logger *Logger, index, total int, duration time.Duration) {
	logger.InfoContext(ctx, "chunk generation completed",
		"chunk", index,
		"chunks", total,
		"duration_ms", duration.Milliseconds(),
	)
}

// LogProviderRequest logs an outgoing provider request.
func LogProviderRequest(ctx context.Context, logger *Logger, provider, model string, inputTokens int) {
	logger.DebugContext(ctx, "provider request",
		"provider", provider,
		"model", model,
		"input_tokens", inputTokens,
	)
}

// LogProviderResponse logs a provider response.
func LogProviderResponse(ctx context.Context, logger *Logger, provider, model string, outputTokens int, latency time.Duration) {
	logger.DebugContext(ctx, "provider response",
		"provider", provider,
		"model", model,
		"output_tokens", outputTokens,
		"latency_ms", latency.Milliseconds(),
	)
}

// LogRateLimited logs a request rejected by the rate limiter.
func LogRateLimited(ctx context.Context, logger *Logger, clientKey string, limit int64, reset int64) {
	logger.WarnContext(ctx, "rate limit exceeded",
		"client", clientKey,
		"limit", limit,
		"reset", reset,
	)
}
