// Package openrouter provides the OpenRouter adapter. OpenRouter fronts many
// model vendors behind an OpenAI-compatible API and asks callers to identify
// themselves with referer and title headers.
package openrouter

import (
	"context"
	"time"

	"github.com/jbctechsolutions/doc2code/internal/adapters/provider"
	"github.com/jbctechsolutions/doc2code/internal/adapters/provider/chatcompletions"
	"github.com/jbctechsolutions/doc2code/internal/application/ports"
	"github.com/jbctechsolutions/doc2code/internal/domain/model"
)

const (
	// DefaultBaseURL is the default OpenRouter API base URL.
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	// DefaultAppURL is sent as HTTP-Referer when no app URL is configured.
	DefaultAppURL = "http://localhost:3000"
	// AppTitle is sent as X-Title.
	AppTitle = "doc2code"
)

// Config contains configuration for the OpenRouter provider.
type Config struct {
	APIKey     string
	BaseURL    string
	AppURL     string
	Timeout    time.Duration
	MaxRetries int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:  apiKey,
		BaseURL: DefaultBaseURL,
		AppURL:  DefaultAppURL,
		Timeout: 120 * time.Second,
	}
}

// Provider implements the ports.ProviderPort interface for OpenRouter.
type Provider struct {
	client *chatcompletions.Client
	config Config
}

var _ ports.ProviderPort = (*Provider)(nil)

// NewProvider creates a new OpenRouter provider with the given configuration.
func NewProvider(config Config) *Provider {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.AppURL == "" {
		config.AppURL = DefaultAppURL
	}
	client := chatcompletions.NewClient(chatcompletions.Config{
		APIKey:     config.APIKey,
		BaseURL:    config.BaseURL,
		Timeout:    config.Timeout,
		MaxRetries: config.MaxRetries,
		Headers: map[string]string{
			"HTTP-Referer": config.AppURL,
			"X-Title":      AppTitle,
		},
	})

	return &Provider{client: client, config: config}
}

// Info returns metadata about this provider.
func (p *Provider) Info() ports.ProviderInfo {
	return ports.ProviderInfo{
		Name:        model.ProviderOpenRouter,
		DisplayName: model.ProviderOpenRouter.DisplayName(),
		BaseURL:     p.client.BaseURL(),
		Configured:  p.config.APIKey != "",
	}
}

// Generate converts documentation into an SDK with a single chat completion.
func (p *Provider) Generate(ctx context.Context, req ports.GenerationRequest) (*ports.GenerationResponse, error) {
	if p.config.APIKey == "" {
		return nil, provider.MissingAPIKey(model.ProviderOpenRouter)
	}
	return p.client.Generate(ctx, model.ProviderOpenRouter, req)
}
