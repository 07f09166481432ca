package provider

import (
	"fmt"
	"strings"

	"github.com/jbctechsolutions/doc2code/internal/application/ports"
	"github.com/jbctechsolutions/doc2code/internal/domain/errors"
	"github.com/jbctechsolutions/doc2code/internal/domain/model"
	"github.com/jbctechsolutions/doc2code/internal/domain/prompt"
)

// Environment variables holding each provider's API key.
const (
	EnvOpenAIKey     = "OPENAI_API_KEY"
	EnvOpenRouterKey = "OPENROUTER_API_KEY"
	EnvGroqKey       = "GROQ_API_KEY"
)

// APIKeyEnv returns the environment variable that configures p.
func APIKeyEnv(p model.Provider) string {
	switch p {
	case model.ProviderOpenAI:
		return EnvOpenAIKey
	case model.ProviderOpenRouter:
		return EnvOpenRouterKey
	case model.ProviderGroq:
		return EnvGroqKey
	}
	return strings.ToUpper(string(p)) + "_API_KEY"
}

// Params holds the resolved model, sampling settings and prompts for one call.
type Params struct {
	Model       string
	Temperature float64
	MaxTokens   int
	System      string
	User        string
}

// ResolveParams fills request defaults for p and renders the prompts.
func ResolveParams(p model.Provider, req ports.GenerationRequest) Params {
	params := Params{
		Model:       req.ModelID,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		System:      prompt.System(req.Language),
		User:        prompt.User(req.Language, req.Documentation),
	}
	if params.Model == "" {
		params.Model = model.DefaultModelFor(p)
	}
	if params.MaxTokens <= 0 {
		params.MaxTokens = prompt.DefaultMaxOutputTokens
	}
	return params
}

// MissingAPIKey is returned before any network call when p has no key.
func MissingAPIKey(p model.Provider) error {
	return errors.WithContext(
		errors.NewError(errors.CodeConfiguration, fmt.Sprintf("%s is not set", APIKeyEnv(p)), errors.ErrMissingAPIKey),
		"provider", string(p))
}

// CallFailed tags an upstream failure with the provider name. Configuration
// and not-found codes from the cause are preserved.
func CallFailed(p model.Provider, cause error) error {
	code := errors.CodeProvider
	switch c := errors.CodeOf(cause); c {
	case errors.CodeConfiguration, errors.CodeNotFound:
		code = c
	}
	return errors.WithContext(
		errors.NewError(code, fmt.Sprintf("%s request failed", p.DisplayName()), cause),
		"provider", string(p))
}

// CheckContent rejects an empty completion.
func CheckContent(p model.Provider, content string) error {
	if strings.TrimSpace(content) == "" {
		return CallFailed(p, errors.ErrEmptyCompletion)
	}
	return nil
}
