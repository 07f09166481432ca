package ports

import (
	"context"
	"time"

	"github.com/jbctechsolutions/doc2code/internal/domain/model"
)

// ProviderInfo contains provider metadata
type ProviderInfo struct {
	Name        model.Provider
	DisplayName string
	BaseURL     string
	Configured  bool // an API key is present
}

// GenerationRequest is the input for one SDK generation call
type GenerationRequest struct {
	Documentation string
	Language      string
	ModelID       string  // empty selects the provider default
	Temperature   float64 // sent unchanged
	MaxTokens     int     // zero selects prompt.DefaultMaxOutputTokens
}

// GenerationResponse is the output of one SDK generation call
type GenerationResponse struct {
	Content      string
	ModelUsed    string
	InputTokens  int
	OutputTokens int
	FinishReason string
	Duration     time.Duration
}

// ProviderPort is the single contract every LLM backend implements
type ProviderPort interface {
	Info() ProviderInfo
	Generate(ctx context.Context, req GenerationRequest) (*GenerationResponse, error)
}
