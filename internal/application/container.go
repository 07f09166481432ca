// Package application provides application-level services and dependency injection.
package application

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jbctechsolutions/doc2code/internal/adapters/progress"
	adapterProvider "github.com/jbctechsolutions/doc2code/internal/adapters/provider"
	"github.com/jbctechsolutions/doc2code/internal/adapters/provider/groq"
	"github.com/jbctechsolutions/doc2code/internal/adapters/provider/openai"
	"github.com/jbctechsolutions/doc2code/internal/adapters/provider/openrouter"
	"github.com/jbctechsolutions/doc2code/internal/adapters/ratelimit"
	"github.com/jbctechsolutions/doc2code/internal/application/generation"
	"github.com/jbctechsolutions/doc2code/internal/application/ports"
	"github.com/jbctechsolutions/doc2code/internal/infrastructure/config"
	"github.com/jbctechsolutions/doc2code/internal/infrastructure/logging"
	"github.com/jbctechsolutions/doc2code/internal/infrastructure/metrics"
	"github.com/jbctechsolutions/doc2code/internal/infrastructure/tracing"
)

// redisPingTimeout bounds the startup connectivity check.
const redisPingTimeout = 5 * time.Second

// Container holds all application dependencies and provides a central
// point for dependency injection. It manages the lifecycle of services
// and ensures proper initialization order.
type Container struct {
	// Configuration
	config  *config.Config
	verbose bool // Override log level to debug when true

	// Observability
	logger  *logging.Logger
	logFile *logging.DailyFileWriter
	tracer  *tracing.Tracer
	metrics *metrics.Metrics

	// Shared Redis connection, nil when no component needs it
	redis *redis.Client

	// Registries and stores
	providerRegistry *adapterProvider.Registry
	progressStore    ports.ProgressStorePort
	memoryProgress   *progress.MemoryStore
	rateLimiter      ports.RateLimiterPort

	// Application services
	generationService *generation.Service
}

// NewContainer creates a new dependency injection container with all services
// initialized based on the provided configuration.
func NewContainer(cfg *config.Config, verbose bool) (*Container, error) {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}

	c := &Container{
		config:  cfg,
		verbose: verbose,
	}

	if err := c.initObservability(); err != nil {
		_ = c.Close() // Clean up on error
		return nil, fmt.Errorf("failed to initialize observability: %w", err)
	}

	if err := c.initRedis(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	c.initProviders()

	if err := c.initProgressStore(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to initialize progress store: %w", err)
	}

	if err := c.initRateLimiter(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to initialize rate limiter: %w", err)
	}

	c.initServices()

	return c, nil
}

// initObservability initializes logging, tracing and metrics.
func (c *Container) initObservability() error {
	ctx := context.Background()

	logLevel := logging.ParseLevel(c.config.Logging.Level)
	if c.verbose {
		logLevel = logging.LevelDebug
	}

	logFormat := logging.FormatText
	if c.config.Logging.Format == "json" {
		logFormat = logging.FormatJSON
	}

	var output io.Writer = os.Stderr
	if c.config.Logging.Dir != "" {
		fileWriter, err := logging.NewDailyFileWriter(c.config.Logging.Dir)
		if err != nil {
			return fmt.Errorf("failed to open log directory: %w", err)
		}
		c.logFile = fileWriter
		output = io.MultiWriter(os.Stderr, fileWriter)
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = logLevel
	logCfg.Format = logFormat
	logCfg.Output = output
	c.logger = logging.New(logCfg)

	if c.config.Tracing.Enabled {
		tracingCfg := tracing.Config{
			Enabled:      true,
			ExporterType: tracing.ExporterType(c.config.Tracing.ExporterType),
			OTLPEndpoint: c.config.Tracing.OTLPEndpoint,
			ServiceName:  c.config.Tracing.ServiceName,
			Environment:  "production",
			SampleRate:   c.config.Tracing.SampleRate,
		}
		tracer, err := tracing.New(ctx, tracingCfg)
		if err != nil {
			return fmt.Errorf("failed to create tracer: %w", err)
		}
		c.tracer = tracer
	} else {
		c.tracer = tracing.Default()
	}

	c.metrics = metrics.New()
	return nil
}

// initRedis connects to Redis when a progress or rate limit backend uses it.
// A connection failure is fatal unless only a fail-open rate limiter needs it.
func (c *Container) initRedis() error {
	if !c.config.NeedsRedis() {
		return nil
	}

	opts, err := redis.ParseURL(c.config.Redis.URL)
	if err != nil {
		return fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		if c.config.Progress.Backend != "redis" && c.config.RateLimit.FailOpen {
			c.logger.Warn("redis unavailable, rate limiting disabled", "error", err.Error())
			return nil
		}
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	c.redis = client
	return nil
}

// initProviders registers every supported provider. Providers without an
// API key are still registered; they fail with a configuration error.
func (c *Container) initProviders() {
	c.providerRegistry = adapterProvider.NewRegistry()
	pc := c.config.Providers

	_ = c.providerRegistry.Register(openai.NewProvider(openai.Config{
		APIKey:     pc.OpenAI.APIKey,
		BaseURL:    pc.OpenAI.BaseURL,
		Timeout:    pc.OpenAI.Timeout,
		MaxRetries: pc.OpenAI.MaxRetries,
	}))
	_ = c.providerRegistry.Register(openrouter.NewProvider(openrouter.Config{
		APIKey:     pc.OpenRouter.APIKey,
		BaseURL:    pc.OpenRouter.BaseURL,
		AppURL:     pc.AppURL,
		Timeout:    pc.OpenRouter.Timeout,
		MaxRetries: pc.OpenRouter.MaxRetries,
	}))
	_ = c.providerRegistry.Register(groq.NewProvider(groq.Config{
		APIKey:     pc.Groq.APIKey,
		BaseURL:    pc.Groq.BaseURL,
		Timeout:    pc.Groq.Timeout,
		MaxRetries: pc.Groq.MaxRetries,
	}))

	configured := c.providerRegistry.Configured()
	for _, name := range c.providerRegistry.List() {
		if !configured[name] {
			c.logger.Debug("provider has no API key", "provider", string(name), "env", adapterProvider.APIKeyEnv(name))
		}
	}
}

func (c *Container) initProgressStore() error {
	switch c.config.Progress.Backend {
	case "redis":
		if c.redis == nil {
			return fmt.Errorf("redis progress backend requires a redis connection")
		}
		c.progressStore = progress.NewRedisStore(c.redis, progress.DefaultKeyPrefix, c.config.Progress.TTL)
	default:
		c.memoryProgress = progress.NewMemoryStore(c.config.Progress.TTL, c.config.Progress.CleanupPeriod)
		c.progressStore = c.memoryProgress
	}
	return nil
}

func (c *Container) initRateLimiter() error {
	rl := c.config.RateLimit
	cfg := ratelimit.Config{
		Mode:     ratelimit.Mode(rl.Mode),
		Limit:    rl.Limit,
		Period:   rl.Period,
		Prefix:   rl.Prefix,
		FailOpen: rl.FailOpen,
	}
	if cfg.Mode == ratelimit.ModeRedis && c.redis == nil {
		// initRedis only tolerates a missing connection when failing open.
		cfg.Mode = ratelimit.ModeDisabled
	}

	limiter, err := ratelimit.New(cfg, c.redis)
	if err != nil {
		if !rl.FailOpen {
			return err
		}
		c.logger.Warn("rate limiter unavailable, requests will not be limited", "error", err.Error())
		limiter = ratelimit.Disabled{}
	}
	c.rateLimiter = limiter
	return nil
}

func (c *Container) initServices() {
	gc := c.config.Generation
	c.generationService = generation.NewService(c.providerRegistry,
		generation.WithProgressStore(c.progressStore),
		generation.WithLogger(c.logger),
		generation.WithTracer(c.tracer),
		generation.WithMetrics(c.metrics),
		generation.WithConfig(generation.Config{
			MaxTokensPerChunk: gc.MaxTokensPerChunk,
			OverlapTokens:     gc.OverlapTokens,
			ReserveTokens:     gc.ReserveTokens,
			MaxOutputTokens:   gc.MaxOutputTokens,
			Temperature:       gc.Temperature,
			Timeout:           gc.RequestTimeout,
		}),
	)
}

// Close releases all resources held by the container.
func (c *Container) Close() error {
	ctx := context.Background()

	if c.tracer != nil {
		_ = c.tracer.Shutdown(ctx)
	}

	if c.memoryProgress != nil {
		_ = c.memoryProgress.Close()
	}

	if c.redis != nil {
		_ = c.redis.Close()
	}

	if c.logFile != nil {
		return c.logFile.Close()
	}
	return nil
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the structured logger.
func (c *Container) Logger() *logging.Logger {
	return c.logger
}

// Tracer returns the OpenTelemetry tracer.
func (c *Container) Tracer() *tracing.Tracer {
	return c.tracer
}

// Metrics returns the Prometheus collectors.
func (c *Container) Metrics() *metrics.Metrics {
	return c.metrics
}

// ProviderRegistry returns the provider registry.
func (c *Container) ProviderRegistry() *adapterProvider.Registry {
	return c.providerRegistry
}

// ProgressStore returns the progress store.
func (c *Container) ProgressStore() ports.ProgressStorePort {
	return c.progressStore
}

// RateLimiter returns the generation rate limiter.
func (c *Container) RateLimiter() ports.RateLimiterPort {
	return c.rateLimiter
}

// RateLimitFailOpen reports whether limiter errors admit requests.
func (c *Container) RateLimitFailOpen() bool {
	return c.config.RateLimit.FailOpen
}

// GenerationService returns the SDK generation service.
func (c *Container) GenerationService() *generation.Service {
	return c.generationService
}
