package chatcompletions

import (
	"context"
	"time"

	"github.com/jbctechsolutions/doc2code/internal/adapters/provider"
	"github.com/jbctechsolutions/doc2code/internal/application/ports"
	"github.com/jbctechsolutions/doc2code/internal/domain/model"
)

// Generate runs one SDK generation for name over this client.
func (c *Client) Generate(ctx context.Context, name model.Provider, req ports.GenerationRequest) (*ports.GenerationResponse, error) {
	startTime := time.Now()
	params := provider.ResolveParams(name, req)

	temperature := params.Temperature
	resp, err := c.Chat(ctx, &Request{
		Model: params.Model,
		Messages: []Message{
			{Role: RoleSystem, Content: params.System},
			{Role: RoleUser, Content: params.User},
		},
		MaxTokens:   params.MaxTokens,
		Temperature: &temperature,
	})
	if err != nil {
		return nil, provider.CallFailed(name, err)
	}

	var content, finishReason string
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
		finishReason = resp.Choices[0].FinishReason
	}
	if err := provider.CheckContent(name, content); err != nil {
		return nil, err
	}

	modelUsed := resp.Model
	if modelUsed == "" {
		modelUsed = params.Model
	}

	return &ports.GenerationResponse{
		Content:      content,
		ModelUsed:    modelUsed,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		FinishReason: finishReason,
		Duration:     time.Since(startTime),
	}, nil
}
