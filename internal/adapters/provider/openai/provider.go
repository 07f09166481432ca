// Package openai provides the OpenAI adapter built on the official SDK.
package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	oai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/jbctechsolutions/doc2code/internal/adapters/provider"
	"github.com/jbctechsolutions/doc2code/internal/application/ports"
	"github.com/jbctechsolutions/doc2code/internal/domain/errors"
	"github.com/jbctechsolutions/doc2code/internal/domain/model"
)

// DefaultBaseURL is the default OpenAI API base URL.
const DefaultBaseURL = "https://api.openai.com/v1/"

// Config contains configuration for the OpenAI provider.
type Config struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	HTTPClient *http.Client
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:  apiKey,
		BaseURL: DefaultBaseURL,
		Timeout: 120 * time.Second,
	}
}

// Provider implements the ports.ProviderPort interface for OpenAI.
type Provider struct {
	client oai.Client
	config Config
}

// Ensure Provider implements ProviderPort at compile time.
var _ ports.ProviderPort = (*Provider)(nil)

// NewProvider creates a new OpenAI provider with the given configuration.
func NewProvider(config Config) *Provider {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(config.BaseURL, "/") {
		config.BaseURL += "/"
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithBaseURL(config.BaseURL),
		option.WithMaxRetries(config.MaxRetries),
	}
	if config.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(config.Timeout))
	}
	if config.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(config.HTTPClient))
	}

	return &Provider{
		client: oai.NewClient(opts...),
		config: config,
	}
}

// Info returns metadata about this provider.
func (p *Provider) Info() ports.ProviderInfo {
	return ports.ProviderInfo{
		Name:        model.ProviderOpenAI,
		DisplayName: model.ProviderOpenAI.DisplayName(),
		BaseURL:     p.config.BaseURL,
		Configured:  p.config.APIKey != "",
	}
}

// Generate converts documentation into an SDK with a single chat completion.
func (p *Provider) Generate(ctx context.Context, req ports.GenerationRequest) (*ports.GenerationResponse, error) {
	if p.config.APIKey == "" {
		return nil, provider.MissingAPIKey(model.ProviderOpenAI)
	}

	startTime := time.Now()
	params := provider.ResolveParams(model.ProviderOpenAI, req)

	resp, err := p.client.Chat.Completions.New(ctx, oai.ChatCompletionNewParams{
		Model: oai.ChatModel(params.Model),
		Messages: []oai.ChatCompletionMessageParamUnion{
			oai.SystemMessage(params.System),
			oai.UserMessage(params.User),
		},
		Temperature: oai.Float(params.Temperature),
		MaxTokens:   oai.Int(int64(params.MaxTokens)),
	})
	if err != nil {
		return nil, provider.CallFailed(model.ProviderOpenAI, mapError(err))
	}

	var content, finishReason string
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
		finishReason = resp.Choices[0].FinishReason
	}
	if err := provider.CheckContent(model.ProviderOpenAI, content); err != nil {
		return nil, err
	}

	modelUsed := resp.Model
	if modelUsed == "" {
		modelUsed = params.Model
	}

	return &ports.GenerationResponse{
		Content:      content,
		ModelUsed:    modelUsed,
		InputTokens:  int(resp.Usage.PromptTokens),
		OutputTokens: int(resp.Usage.CompletionTokens),
		FinishReason: finishReason,
		Duration:     time.Since(startTime),
	}, nil
}

// mapError classifies SDK errors the same way the chat-completions client
// classifies HTTP statuses.
func mapError(err error) error {
	var apiErr *oai.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	code := errors.CodeProvider
	switch apiErr.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		code = errors.CodeConfiguration
	case http.StatusNotFound:
		code = errors.CodeNotFound
	}

	msg := fmt.Sprintf("HTTP %d", apiErr.StatusCode)
	if apiErr.Message != "" {
		msg = fmt.Sprintf("HTTP %d: %s", apiErr.StatusCode, apiErr.Message)
	}
	return errors.WithContext(errors.NewError(code, msg, err), "status", apiErr.StatusCode)
}
