// Package generation orchestrates SDK generation: preprocessing, chunked
// dispatch to a provider, combination and progress reporting.
package generation

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jbctechsolutions/doc2code/internal/application/ports"
	"github.com/jbctechsolutions/doc2code/internal/domain/document"
	"github.com/jbctechsolutions/doc2code/internal/domain/errors"
	"github.com/jbctechsolutions/doc2code/internal/domain/model"
	"github.com/jbctechsolutions/doc2code/internal/domain/progress"
	"github.com/jbctechsolutions/doc2code/internal/domain/prompt"
	"github.com/jbctechsolutions/doc2code/internal/infrastructure/logging"
	"github.com/jbctechsolutions/doc2code/internal/infrastructure/metrics"
	"github.com/jbctechsolutions/doc2code/internal/infrastructure/tracing"
)

// ProviderResolver looks up a provider adapter by its wire name.
type ProviderResolver interface {
	Resolve(name string) (ports.ProviderPort, error)
}

// Config contains the orchestrator tunables.
type Config struct {
	MaxTokensPerChunk int
	OverlapTokens     int
	ReserveTokens     int
	MaxOutputTokens   int
	Temperature       float64
	Timeout           time.Duration // 0 leaves the request context unbounded
}

// DefaultConfig returns the default orchestrator configuration.
func DefaultConfig() Config {
	return Config{
		MaxTokensPerChunk: document.DefaultMaxTokensPerChunk,
		OverlapTokens:     document.DefaultOverlapTokens,
		ReserveTokens:     document.DefaultReserveTokens,
		MaxOutputTokens:   prompt.DefaultMaxOutputTokens,
		Temperature:       prompt.DefaultTemperature,
	}
}

// Request is one SDK generation request.
type Request struct {
	Documentation string
	Language      string
	Provider      string
	Model         string // empty selects the provider default
	Minify        bool
	IsJSON        bool
	UseChunking   bool
	SessionID     string // progress is only reported when set
}

// Validate checks the required fields.
func (r Request) Validate() error {
	switch {
	case strings.TrimSpace(r.Documentation) == "":
		return errors.Validation(errors.ErrDocumentationRequired)
	case strings.TrimSpace(r.Language) == "":
		return errors.Validation(errors.ErrLanguageRequired)
	case strings.TrimSpace(r.Provider) == "":
		return errors.Validation(errors.ErrProviderRequired)
	}
	return nil
}

// Result is a generated SDK plus bookkeeping about how it was produced.
type Result struct {
	SDK          string
	SessionID    string
	Provider     model.Provider
	Model        string
	Chunks       int
	Minified     bool
	Truncated    bool
	InputTokens  int
	OutputTokens int
	Duration     time.Duration
}

// Service runs generations against registered providers.
type Service struct {
	providers ProviderResolver
	progress  ports.ProgressStorePort
	logger    *logging.Logger
	tracer    *tracing.Tracer
	metrics   *metrics.Metrics
	config    Config
}

// Option configures a Service.
type Option func(*Service)

// WithProgressStore sets the store that receives progress updates.
func WithProgressStore(store ports.ProgressStorePort) Option {
	return func(s *Service) {
		s.progress = store
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer sets the tracer.
func WithTracer(tracer *tracing.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithConfig overrides the default tunables.
func WithConfig(cfg Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

// NewService creates a generation service.
func NewService(providers ProviderResolver, opts ...Option) *Service {
	s := &Service{
		providers: providers,
		config:    DefaultConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.Nop()
	}
	if s.tracer == nil {
		s.tracer = tracing.Default()
	}
	if s.config.MaxTokensPerChunk <= 0 {
		s.config.MaxTokensPerChunk = document.DefaultMaxTokensPerChunk
	}
	return s
}

// NewSessionID returns a fresh session identifier for progress tracking.
func NewSessionID() string {
	return uuid.NewString()
}

// run carries the mutable state of one generation.
type run struct {
	req      Request
	provider ports.ProviderPort
	name     model.Provider
	modelID  string
	result   *Result
	current  int
	total    int
}

// Generate produces an SDK for req. Provider calls are strictly sequential
// and any failure aborts the run and discards partial output.
func (s *Service) Generate(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	p, err := s.providers.Resolve(req.Provider)
	if err != nil {
		return nil, err
	}

	name := p.Info().Name
	modelID := req.Model
	if modelID == "" {
		modelID = model.DefaultModelFor(name)
	}

	ctx = logging.WithProvider(ctx, string(name))
	ctx = logging.WithModel(ctx, modelID)
	if req.SessionID != "" {
		ctx = logging.WithSessionID(ctx, req.SessionID)
	}

	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	ctx, span := s.tracer.StartGenerationSpan(ctx, string(name), req.Language, req.SessionID)
	logging.LogGenerationStart(ctx, s.logger, req.Language, len(req.Documentation), req.Minify, req.UseChunking)

	r := &run{
		req:      req,
		provider: p,
		name:     name,
		modelID:  modelID,
		result: &Result{
			SessionID: req.SessionID,
			Provider:  name,
			Model:     modelID,
		},
	}

	err = s.execute(ctx, r, span)
	r.result.Duration = time.Since(start)
	if err != nil {
		if r.total > 0 {
			s.setProgress(ctx, req.SessionID, progress.Progress{Current: r.current, Total: r.total, Status: progress.StatusFailed})
		}
		wrapped := errors.WithContext(
			errors.NewError(errors.CodeOf(err), "Failed to generate SDK with "+req.Provider, err),
			"provider", req.Provider)
		span.EndWithError(wrapped)
		s.metrics.RecordGeneration(string(name), metrics.OutcomeFailure)
		logging.LogGenerationFailed(ctx, s.logger, err, r.result.Duration)
		return nil, wrapped
	}

	span.End()
	s.metrics.RecordGeneration(string(name), metrics.OutcomeSuccess)
	logging.LogGenerationComplete(ctx, s.logger, r.result.Chunks, len(r.result.SDK), r.result.Duration)
	return r.result, nil
}

func (s *Service) execute(ctx context.Context, r *run, span *tracing.GenerationSpan) error {
	doc := s.preprocess(ctx, r)
	limit := model.TokenLimitFor(r.name, r.modelID)

	var chunks []string
	if r.req.UseChunking {
		chunks = document.SplitIntoChunks(doc, s.chunkSize(limit), s.config.OverlapTokens)
	}

	if len(chunks) <= 1 {
		doc = s.truncate(ctx, r, doc, limit)
		span.SetInput(len(doc), document.EstimateTokens(doc), r.result.Minified, r.result.Truncated)
		span.SetChunkCount(1)
		return s.generateSingle(ctx, r, doc)
	}

	span.SetInput(len(doc), document.EstimateTokens(doc), r.result.Minified, false)
	span.SetChunkCount(len(chunks))
	return s.generateChunked(ctx, r, chunks)
}

// preprocess applies minification when requested. JSON handling is used
// when the caller says so or the documentation parses as JSON.
func (s *Service) preprocess(ctx context.Context, r *run) string {
	doc := r.req.Documentation
	if !r.req.Minify {
		return doc
	}

	validJSON := document.IsJSON(doc)
	if r.req.IsJSON && !validJSON {
		s.logger.WarnContext(ctx, "documentation is not valid JSON, using text minification")
	}
	minified := document.Minify(doc, r.req.IsJSON || validJSON)
	logging.LogMinified(ctx, s.logger, len(doc), len(minified), validJSON)
	r.result.Minified = true
	return minified
}

// chunkSize is the per-call token budget for the model, capped by the
// configured maximum.
func (s *Service) chunkSize(limit int) int {
	size := limit - s.config.ReserveTokens
	if size <= 0 || size > s.config.MaxTokensPerChunk {
		size = s.config.MaxTokensPerChunk
	}
	return size
}

// truncate cuts single-call documentation to the model's budget.
func (s *Service) truncate(ctx context.Context, r *run, doc string, limit int) string {
	truncated, err := document.TruncateToLimit(doc, limit, s.config.ReserveTokens)
	if err != nil {
		// The limit leaves no room after the reserve; send the text as is.
		return doc
	}
	if truncated != doc {
		logging.LogTruncated(ctx, s.logger, document.EstimateTokens(doc), limit)
		r.result.Truncated = true
	}
	return truncated
}

func (s *Service) generateSingle(ctx context.Context, r *run, doc string) error {
	r.total = 1
	s.setProgress(ctx, r.req.SessionID, progress.Progress{Current: 0, Total: 1, Status: progress.StatusProcessing})

	resp, err := s.call(ctx, r, doc)
	if err != nil {
		return err
	}

	r.current = 1
	r.result.SDK = resp.Content
	r.result.Chunks = 1
	s.setProgress(ctx, r.req.SessionID, progress.Progress{Current: 1, Total: 1, Status: progress.StatusComplete})
	return nil
}

func (s *Service) generateChunked(ctx context.Context, r *run, chunks []string) error {
	n := len(chunks)
	r.total = n + 1
	s.setProgress(ctx, r.req.SessionID, progress.Progress{Current: 0, Total: r.total, Status: progress.StatusProcessing})
	s.metrics.AddChunks(string(r.name), n)

	parts := make([]string, 0, n)
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return err
		}

		index := i + 1
		framed := prompt.NextChunk(index, n, chunk)
		if i == 0 {
			framed = prompt.FirstChunk(n, chunk)
		}

		chunkStart := time.Now()
		cctx, cspan := s.tracer.StartChunkSpan(ctx, index, n, len(chunk))
		logging.LogChunkStart(cctx, s.logger, index, n, len(chunk))

		resp, err := s.call(cctx, r, framed)
		if err != nil {
			cspan.EndWithError(err)
			return err
		}
		cspan.End()
		logging.LogChunkComplete(ctx, s.logger, index, n, time.Since(chunkStart))

		parts = append(parts, resp.Content)
		r.current = index
		s.setProgress(ctx, r.req.SessionID, progress.Progress{Current: r.current, Total: r.total, Status: progress.StatusProcessing})
	}

	cctx, cspan := s.tracer.StartCombineSpan(ctx, len(parts))
	resp, err := s.call(cctx, r, prompt.Combine(parts))
	if err != nil {
		cspan.EndWithError(err)
		return err
	}
	cspan.End()

	r.current = r.total
	r.result.SDK = resp.Content
	r.result.Chunks = n
	s.setProgress(ctx, r.req.SessionID, progress.Progress{Current: r.total, Total: r.total, Status: progress.StatusComplete})
	return nil
}

// call performs one provider request and records its telemetry.
func (s *Service) call(ctx context.Context, r *run, documentation string) (*ports.GenerationResponse, error) {
	ctx, pspan := s.tracer.StartProviderSpan(ctx, string(r.name), r.modelID)
	inputTokens := document.EstimateTokens(documentation)
	pspan.SetRequestTokens(inputTokens)
	logging.LogProviderRequest(ctx, s.logger, string(r.name), r.modelID, inputTokens)

	start := time.Now()
	resp, err := r.provider.Generate(ctx, ports.GenerationRequest{
		Documentation: documentation,
		Language:      r.req.Language,
		ModelID:       r.modelID,
		Temperature:   s.config.Temperature,
		MaxTokens:     s.config.MaxOutputTokens,
	})
	latency := time.Since(start)
	s.metrics.ObserveProviderCall(string(r.name), latency)
	if err != nil {
		pspan.EndWithError(err)
		return nil, err
	}

	pspan.SetResponse(resp.ModelUsed, resp.OutputTokens, resp.FinishReason)
	pspan.End()
	logging.LogProviderResponse(ctx, s.logger, string(r.name), resp.ModelUsed, resp.OutputTokens, latency)

	r.result.InputTokens += resp.InputTokens
	r.result.OutputTokens += resp.OutputTokens
	return resp, nil
}

// setProgress writes advisory progress. Writes outlive request cancellation
// and failures are only logged.
func (s *Service) setProgress(ctx context.Context, sessionID string, p progress.Progress) {
	if s.progress == nil || sessionID == "" {
		return
	}
	if err := s.progress.Set(context.WithoutCancel(ctx), sessionID, p); err != nil {
		s.logger.WarnContext(ctx, "failed to update progress",
			"session_id", sessionID,
			"status", string(p.Status),
			"error", err.Error(),
		)
	}
}
