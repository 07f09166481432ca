// Package groq provides the Groq adapter. Groq serves an OpenAI-compatible
// chat-completions API.
package groq

import (
	"context"
	"time"

	"github.com/jbctechsolutions/doc2code/internal/adapters/provider"
	"github.com/jbctechsolutions/doc2code/internal/adapters/provider/chatcompletions"
	"github.com/jbctechsolutions/doc2code/internal/application/ports"
	"github.com/jbctechsolutions/doc2code/internal/domain/model"
)

// DefaultBaseURL is the default Groq API base URL.
const DefaultBaseURL = "https://api.groq.com/openai/v1"

// Config contains configuration for the Groq provider.
type Config struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:  apiKey,
		BaseURL: DefaultBaseURL,
		Timeout: 120 * time.Second,
	}
}

// Provider implements the ports.ProviderPort interface for Groq.
type Provider struct {
	client *chatcompletions.Client
	config Config
}

// Ensure Provider implements ProviderPort at compile time.
var _ ports.ProviderPort = (*Provider)(nil)

// NewProvider creates a new Groq provider with the given configuration.
func NewProvider(config Config) *Provider {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	client := chatcompletions.NewClient(chatcompletions.Config{
		APIKey:     config.APIKey,
		BaseURL:    config.BaseURL,
		Timeout:    config.Timeout,
		MaxRetries: config.MaxRetries,
	})

	return &Provider{client: client, config: config}
}

// Info returns metadata about this provider.
func (p *Provider) Info() ports.ProviderInfo {
	return ports.ProviderInfo{
		Name:        model.ProviderGroq,
		DisplayName: model.ProviderGroq.DisplayName(),
		BaseURL:     p.client.BaseURL(),
		Configured:  p.config.APIKey != "",
	}
}

// Generate converts documentation into an SDK with a single chat completion.
func (p *Provider) Generate(ctx context.Context, req ports.GenerationRequest) (*ports.GenerationResponse, error) {
	if p.config.APIKey == "" {
		return nil, provider.MissingAPIKey(model.ProviderGroq)
	}
	return p.client.Generate(ctx, model.ProviderGroq, req)
}
