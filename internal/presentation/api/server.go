// Package api serves the doc2code HTTP API with gin.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jbctechsolutions/doc2code/internal/application/generation"
	"github.com/jbctechsolutions/doc2code/internal/application/ports"
	"github.com/jbctechsolutions/doc2code/internal/domain/model"
	"github.com/jbctechsolutions/doc2code/internal/infrastructure/logging"
	"github.com/jbctechsolutions/doc2code/internal/infrastructure/metrics"
)

const (
	defaultShutdownTimeout = 30 * time.Second
	httpIdleTimeout        = 60 * time.Second
)

// Generator runs SDK generations.
type Generator interface {
	Generate(ctx context.Context, req generation.Request) (*generation.Result, error)
}

// ProviderCatalog reports which providers have credentials.
type ProviderCatalog interface {
	Configured() map[model.Provider]bool
}

// Dependencies are the services the handlers call.
type Dependencies struct {
	Generator   Generator
	Progress    ports.ProgressStorePort
	RateLimiter ports.RateLimiterPort
	Providers   ProviderCatalog
	Logger      *logging.Logger
	Metrics     *metrics.Metrics
	// FailOpen admits requests when the rate limiter errors.
	FailOpen bool
}

// Options holds HTTP server settings.
type Options struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

// Server wraps the gin router and the underlying http.Server.
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	deps       Dependencies
	opts       Options
}

// NewServer builds the router and registers every route.
func NewServer(opts Options, deps Dependencies) *Server {
	if deps.Logger == nil {
		deps.Logger = logging.Nop()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}

	router := gin.New()
	router.Use(
		RecoveryMiddleware(deps.Logger),
		CorrelationMiddleware(),
		LoggerMiddleware(deps.Logger),
		deps.Metrics.GinMiddleware(),
		CORSMiddleware(opts.AllowedOrigins),
	)

	s := &Server{
		router: router,
		deps:   deps,
		opts:   opts,
	}
	s.registerRoutes()

	s.httpServer = &http.Server{
		Addr:         opts.Addr,
		Handler:      router,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		IdleTimeout:  httpIdleTimeout,
	}
	return s
}

func (s *Server) registerRoutes() {
	h := &handlers{deps: s.deps}
	limit := RateLimitMiddleware(s.deps.RateLimiter, s.deps.Logger, s.deps.Metrics, s.deps.FailOpen)

	for _, prefix := range []string{"", "/api"} {
		s.router.POST(prefix+"/progress", h.setProgress)
		s.router.GET(prefix+"/progress", h.getProgress)
		s.router.GET(prefix+"/check-api-keys", h.checkAPIKeys)
		s.router.GET(prefix+"/models", h.models)
		s.router.POST(prefix+"/logs", h.clientLogs)
	}
	s.router.POST("/generate", limit, h.generate)
	s.router.POST("/api/generate-sdk", limit, h.generate)
	s.router.POST("/api/generate-sdk/progress", h.setProgress)
	s.router.GET("/api/generate-sdk/progress", h.getProgress)

	s.router.GET("/healthz", h.health)
	s.router.GET("/metrics", gin.WrapH(s.deps.Metrics.Handler()))
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.deps.Logger.Info("http server listening", "addr", s.opts.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.deps.Logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
