// Package model holds the static catalogue of providers and models that
// doc2code can generate with.
package model

// Provider identifies a hosted LLM backend.
type Provider string

const (
	ProviderOpenAI     Provider = "openai"
	ProviderOpenRouter Provider = "openrouter"
	ProviderGroq       Provider = "groq"
)

// DisplayName returns the human readable provider name used in messages.
func (p Provider) DisplayName() string {
	switch p {
	case ProviderOpenAI:
		return "OpenAI"
	case ProviderOpenRouter:
		return "OpenRouter"
	case ProviderGroq:
		return "Groq"
	default:
		return string(p)
	}
}

// Descriptor describes a single model offered by a provider.
type Descriptor struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Provider    Provider `json:"provider" yaml:"provider"`
	Description string   `json:"description" yaml:"description"`
	Recommended bool     `json:"recommended" yaml:"recommended"`
	Free        bool     `json:"free" yaml:"free"`
	MaxTokens   int      `json:"maxTokens" yaml:"max_tokens"`
}

// GlobalDefaultTokenLimit applies when neither the model nor the provider
// has a known limit.
const GlobalDefaultTokenLimit = 4096

var openaiModels = []Descriptor{
	{ID: "gpt-4-turbo", Name: "GPT-4 Turbo", Provider: ProviderOpenAI, Description: "Most capable GPT-4 model optimized for speed and cost", Recommended: true, MaxTokens: 4096},
	{ID: "gpt-4.1-mini", Name: "GPT-4.1 Mini", Provider: ProviderOpenAI, Description: "OpenAI's latest and most advanced model", Recommended: true, Free: true, MaxTokens: 4096},
	{ID: "gpt-4o", Name: "GPT-4o", Provider: ProviderOpenAI, Description: "OpenAI's latest and most advanced model", Recommended: true, MaxTokens: 200000},
	{ID: "gpt-4", Name: "GPT-4", Provider: ProviderOpenAI, Description: "OpenAI's most powerful model for complex tasks", MaxTokens: 4096},
	{ID: "gpt-3.5-turbo", Name: "GPT-3.5 Turbo", Provider: ProviderOpenAI, Description: "Fast and cost-effective model for simpler tasks", Free: true, MaxTokens: 4096},
}

var openrouterModels = []Descriptor{
	{ID: "anthropic/claude-3-opus", Name: "Claude 3 Opus", Provider: ProviderOpenRouter, Description: "Anthropic's most powerful model with exceptional reasoning", Recommended: true, MaxTokens: 4096},
	{ID: "anthropic/claude-3-sonnet", Name: "Claude 3 Sonnet", Provider: ProviderOpenRouter, Description: "Balanced model for quality and speed", Recommended: true, MaxTokens: 4096},
	{ID: "meta-llama/llama-3-70b-instruct", Name: "Llama 3 70B", Provider: ProviderOpenRouter, Description: "Meta's powerful open model with strong coding abilities", Recommended: true, Free: true, MaxTokens: 4096},
	{ID: "google/gemini-pro", Name: "Gemini Pro", Provider: ProviderOpenRouter, Description: "Google's advanced model with strong reasoning", Free: true, MaxTokens: 4096},
}

var groqModels = []Descriptor{
	{ID: "llama3-70b-8192", Name: "Llama 3 70B", Provider: ProviderGroq, Description: "Meta's powerful model optimized for speed on Groq", Recommended: true, Free: true, MaxTokens: 5000},
	{ID: "llama3-8b-8192", Name: "Llama 3 8B", Provider: ProviderGroq, Description: "Smaller, faster Llama 3 model", Free: true, MaxTokens: 5000},
	{ID: "mixtral-8x7b-32768", Name: "Mixtral 8x7B", Provider: ProviderGroq, Description: "Powerful mixture-of-experts model with long context", Recommended: true, Free: true, MaxTokens: 5000},
	{ID: "gemma-7b-it", Name: "Gemma 7B", Provider: ProviderGroq, Description: "Google's lightweight open model", Free: true, MaxTokens: 5000},
}

// tokenLimits are the context budgets used for truncation and chunking.
// They are separate from Descriptor.MaxTokens, which is the display value.
// Groq limits sit below the real context size to stay clear of rate limits.
var tokenLimits = map[Provider]map[string]int{
	ProviderOpenAI: {
		"gpt-4-turbo":   128000,
		"gpt-4o":        128000,
		"gpt-4":         8192,
		"gpt-3.5-turbo": 16384,
	},
	ProviderOpenRouter: {
		"anthropic/claude-3-opus":         200000,
		"anthropic/claude-3-sonnet":       200000,
		"meta-llama/llama-3-70b-instruct": 8192,
		"google/gemini-pro":               32768,
	},
	ProviderGroq: {
		"llama3-70b-8192":    5000,
		"llama3-8b-8192":     5000,
		"mixtral-8x7b-32768": 5000,
		"gemma-7b-it":        5000,
	},
}

var providerDefaultLimits = map[Provider]int{
	ProviderOpenAI:     8192,
	ProviderOpenRouter: 8192,
	ProviderGroq:       5000,
}

// Providers returns every supported provider in display order.
func Providers() []Provider {
	return []Provider{ProviderOpenAI, ProviderOpenRouter, ProviderGroq}
}

// IsValidProvider reports whether p names a supported provider.
func IsValidProvider(p string) bool {
	switch Provider(p) {
	case ProviderOpenAI, ProviderOpenRouter, ProviderGroq:
		return true
	}
	return false
}

// ModelsForProvider returns the ordered model list for p, or an empty slice
// for an unknown provider. The returned slice is a copy.
func ModelsForProvider(p Provider) []Descriptor {
	var src []Descriptor
	switch p {
	case ProviderOpenAI:
		src = openaiModels
	case ProviderOpenRouter:
		src = openrouterModels
	case ProviderGroq:
		src = groqModels
	}
	out := make([]Descriptor, len(src))
	copy(out, src)
	return out
}

// DefaultModelFor returns the first recommended model of p, else its first
// model, else "".
func DefaultModelFor(p Provider) string {
	models := ModelsForProvider(p)
	for _, m := range models {
		if m.Recommended {
			return m.ID
		}
	}
	if len(models) > 0 {
		return models[0].ID
	}
	return ""
}

// Lookup finds a model by id within p.
func Lookup(p Provider, modelID string) (Descriptor, bool) {
	for _, m := range ModelsForProvider(p) {
		if m.ID == modelID {
			return m, true
		}
	}
	return Descriptor{}, false
}

// TokenLimitFor returns the token budget for modelID on p, falling back to
// the provider default and then GlobalDefaultTokenLimit.
func TokenLimitFor(p Provider, modelID string) int {
	if limit, ok := tokenLimits[p][modelID]; ok && limit > 0 {
		return limit
	}
	if limit, ok := providerDefaultLimits[p]; ok {
		return limit
	}
	return GlobalDefaultTokenLimit
}
