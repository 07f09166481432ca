// Package config provides configuration structs and utilities for the doc2code service.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Config represents the root configuration for the doc2code service.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Providers  ProviderConfigs  `yaml:"providers"`
	Generation GenerationConfig `yaml:"generation"`
	Progress   ProgressConfig   `yaml:"progress"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Redis      RedisConfig      `yaml:"redis"`
	Logging    LoggingConfig    `yaml:"logging"`
	Tracing    TracingConfig    `yaml:"tracing"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ProviderConfigs holds configuration for all supported LLM providers.
type ProviderConfigs struct {
	OpenAI     CloudConfig `yaml:"openai"`
	OpenRouter CloudConfig `yaml:"openrouter"`
	Groq       CloudConfig `yaml:"groq"`
	// AppURL identifies this deployment to OpenRouter.
	AppURL string `yaml:"app_url"`
}

// CloudConfig holds configuration for a hosted LLM provider.
// API keys normally arrive through the environment.
type CloudConfig struct {
	APIKey     string        `yaml:"api_key,omitempty"`
	BaseURL    string        `yaml:"base_url,omitempty"` // Optional custom endpoint (e.g., for proxies)
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

// GenerationConfig holds orchestrator tunables.
type GenerationConfig struct {
	MaxTokensPerChunk int           `yaml:"max_tokens_per_chunk"`
	OverlapTokens     int           `yaml:"overlap_tokens"`
	ReserveTokens     int           `yaml:"reserve_tokens"`
	MaxOutputTokens   int           `yaml:"max_output_tokens"`
	Temperature       float64       `yaml:"temperature"`
	RequestTimeout    time.Duration `yaml:"request_timeout"` // 0 leaves the request context unbounded
}

// ProgressConfig holds the progress store settings.
type ProgressConfig struct {
	Backend       string        `yaml:"backend"` // memory, redis
	TTL           time.Duration `yaml:"ttl"`
	CleanupPeriod time.Duration `yaml:"cleanup_period"`
}

// RateLimitConfig holds per-client limits for the generation endpoint.
type RateLimitConfig struct {
	Mode     string        `yaml:"mode"` // disabled, memory, redis
	Limit    int64         `yaml:"limit"`
	Period   time.Duration `yaml:"period"`
	Prefix   string        `yaml:"prefix"`
	FailOpen bool          `yaml:"fail_open"`
}

// RedisConfig holds the shared Redis connection.
type RedisConfig struct {
	URL string `yaml:"url"`
}

// LoggingConfig holds configuration for application logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
	Dir    string `yaml:"dir"`    // daily log files; empty disables file output
}

// TracingConfig holds configuration for distributed tracing.
type TracingConfig struct {
	Enabled      bool    `yaml:"enabled"`       // Whether tracing is enabled
	ExporterType string  `yaml:"exporter_type"` // none, stdout, otlp
	OTLPEndpoint string  `yaml:"otlp_endpoint"` // OTLP collector endpoint
	SampleRate   float64 `yaml:"sample_rate"`   // Sampling rate (0.0 to 1.0)
	ServiceName  string  `yaml:"service_name"`  // Service name for traces
}

// Default configuration values.
const (
	DefaultHost            = "0.0.0.0"
	DefaultPort            = 3000
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 10 * time.Minute
	DefaultShutdownTimeout = 30 * time.Second
	DefaultProviderTimeout = 120 * time.Second
	DefaultAppURL          = "http://localhost:3000"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
	DefaultLogDir          = "logs"

	DefaultMaxTokensPerChunk = 4000
	DefaultOverlapTokens     = 200
	DefaultReserveTokens     = 1000
	DefaultMaxOutputTokens   = 4000
	DefaultTemperature       = 0.2

	DefaultProgressBackend       = "memory"
	DefaultProgressTTL           = time.Hour
	DefaultProgressCleanupPeriod = 5 * time.Minute

	DefaultRateLimitMode   = "memory"
	DefaultRateLimit       = 10
	DefaultRateLimitPeriod = time.Hour
	DefaultRateLimitPrefix = "doc2code:ratelimit"

	DefaultTracingEnabled      = false
	DefaultTracingExporterType = "none"
	DefaultTracingSampleRate   = 1.0
	DefaultTracingServiceName  = "doc2code"
)

// Valid log levels.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Valid log formats.
var validLogFormats = map[string]bool{
	"json": true,
	"text": true,
}

// Valid tracing exporter types.
var validTracingExporterTypes = map[string]bool{
	"none":   true,
	"stdout": true,
	"otlp":   true,
}

var validProgressBackends = map[string]bool{
	"memory": true,
	"redis":  true,
}

var validRateLimitModes = map[string]bool{
	"disabled": true,
	"memory":   true,
	"redis":    true,
}

// NewDefaultConfig creates a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
			AllowedOrigins:  []string{"*"},
		},
		Providers: ProviderConfigs{
			OpenAI:     CloudConfig{Timeout: DefaultProviderTimeout},
			OpenRouter: CloudConfig{Timeout: DefaultProviderTimeout},
			Groq:       CloudConfig{Timeout: DefaultProviderTimeout},
			AppURL:     DefaultAppURL,
		},
		Generation: GenerationConfig{
			MaxTokensPerChunk: DefaultMaxTokensPerChunk,
			OverlapTokens:     DefaultOverlapTokens,
			ReserveTokens:     DefaultReserveTokens,
			MaxOutputTokens:   DefaultMaxOutputTokens,
			Temperature:       DefaultTemperature,
		},
		Progress: ProgressConfig{
			Backend:       DefaultProgressBackend,
			TTL:           DefaultProgressTTL,
			CleanupPeriod: DefaultProgressCleanupPeriod,
		},
		RateLimit: RateLimitConfig{
			Mode:     DefaultRateLimitMode,
			Limit:    DefaultRateLimit,
			Period:   DefaultRateLimitPeriod,
			Prefix:   DefaultRateLimitPrefix,
			FailOpen: true,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
			Dir:    DefaultLogDir,
		},
		Tracing: TracingConfig{
			Enabled:      DefaultTracingEnabled,
			ExporterType: DefaultTracingExporterType,
			SampleRate:   DefaultTracingSampleRate,
			ServiceName:  DefaultTracingServiceName,
		},
	}
}

// NeedsRedis reports whether any component is configured to use Redis.
func (c *Config) NeedsRedis() bool {
	return c.Progress.Backend == "redis" || c.RateLimit.Mode == "redis"
}

// Validate checks if the configuration is valid and returns an error if not.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("server: %w", err))
	}

	if err := c.Providers.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("providers: %w", err))
	}

	if err := c.Generation.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("generation: %w", err))
	}

	if err := c.Progress.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("progress: %w", err))
	}

	if err := c.RateLimit.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("rate_limit: %w", err))
	}

	if c.NeedsRedis() && c.Redis.URL == "" {
		errs = append(errs, errors.New("redis: url is required when a redis backend is selected"))
	}

	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}

	if err := c.Tracing.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tracing: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Validate checks if the ServerConfig is valid.
func (s *ServerConfig) Validate() error {
	var errs []error

	if s.Port <= 0 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %d", s.Port))
	}
	if s.ReadTimeout < 0 || s.WriteTimeout < 0 || s.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("timeouts must be non-negative"))
	}

	return errors.Join(errs...)
}

// Validate checks if the ProviderConfigs is valid.
func (p *ProviderConfigs) Validate() error {
	var errs []error

	if err := p.OpenAI.Validate("openai"); err != nil {
		errs = append(errs, err)
	}

	if err := p.OpenRouter.Validate("openrouter"); err != nil {
		errs = append(errs, err)
	}

	if err := p.Groq.Validate("groq"); err != nil {
		errs = append(errs, err)
	}

	if p.AppURL != "" {
		if err := validateHTTPURL(p.AppURL); err != nil {
			errs = append(errs, fmt.Errorf("app_url: %w", err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Validate checks if the CloudConfig is valid.
func (c *CloudConfig) Validate(providerName string) error {
	var errs []error

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("%s: timeout must be non-negative", providerName))
	}

	if c.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("%s: max_retries must be non-negative", providerName))
	}

	if c.BaseURL != "" {
		if err := validateHTTPURL(c.BaseURL); err != nil {
			errs = append(errs, fmt.Errorf("%s: base_url: %w", providerName, err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

func validateHTTPURL(raw string) error {
	parsedURL, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return errors.New("must use http or https scheme")
	}
	return nil
}

// Validate checks if the GenerationConfig is valid.
func (g *GenerationConfig) Validate() error {
	var errs []error

	if g.MaxTokensPerChunk <= 0 {
		errs = append(errs, errors.New("max_tokens_per_chunk must be positive"))
	}
	if g.OverlapTokens < 0 || g.OverlapTokens >= g.MaxTokensPerChunk {
		errs = append(errs, errors.New("overlap_tokens must be non-negative and smaller than max_tokens_per_chunk"))
	}
	if g.ReserveTokens < 0 {
		errs = append(errs, errors.New("reserve_tokens must be non-negative"))
	}
	if g.MaxOutputTokens <= 0 {
		errs = append(errs, errors.New("max_output_tokens must be positive"))
	}
	if g.Temperature < 0 || g.Temperature > 2 {
		errs = append(errs, errors.New("temperature must be between 0 and 2"))
	}
	if g.RequestTimeout < 0 {
		errs = append(errs, errors.New("request_timeout must be non-negative"))
	}

	return errors.Join(errs...)
}

// Validate checks if the ProgressConfig is valid.
func (p *ProgressConfig) Validate() error {
	var errs []error

	if !validProgressBackends[p.Backend] {
		errs = append(errs, fmt.Errorf("invalid backend %q: must be one of memory, redis", p.Backend))
	}
	if p.TTL < 0 || p.CleanupPeriod < 0 {
		errs = append(errs, errors.New("ttl and cleanup_period must be non-negative"))
	}

	return errors.Join(errs...)
}

// Validate checks if the RateLimitConfig is valid.
func (r *RateLimitConfig) Validate() error {
	if !validRateLimitModes[r.Mode] {
		return fmt.Errorf("invalid mode %q: must be one of disabled, memory, redis", r.Mode)
	}
	if r.Mode == "disabled" {
		return nil
	}

	var errs []error
	if r.Limit <= 0 {
		errs = append(errs, errors.New("limit must be positive"))
	}
	if r.Period <= 0 {
		errs = append(errs, errors.New("period must be positive"))
	}
	return errors.Join(errs...)
}

// Validate checks if the LoggingConfig is valid.
func (l *LoggingConfig) Validate() error {
	var errs []error

	if l.Level != "" && !validLogLevels[l.Level] {
		errs = append(errs, fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", l.Level))
	}

	if l.Format != "" && !validLogFormats[l.Format] {
		errs = append(errs, fmt.Errorf("invalid log format %q: must be one of json, text", l.Format))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Validate checks if the TracingConfig is valid.
func (t *TracingConfig) Validate() error {
	var errs []error

	if t.ExporterType != "" && !validTracingExporterTypes[t.ExporterType] {
		errs = append(errs, fmt.Errorf("invalid exporter_type %q: must be one of none, stdout, otlp", t.ExporterType))
	}
	if t.SampleRate < 0 || t.SampleRate > 1 {
		errs = append(errs, errors.New("sample_rate must be between 0.0 and 1.0"))
	}
	if t.Enabled && t.ExporterType == "otlp" && t.OTLPEndpoint == "" {
		errs = append(errs, errors.New("otlp_endpoint is required for the otlp exporter"))
	}

	return errors.Join(errs...)
}
