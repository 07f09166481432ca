package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jbctechsolutions/doc2code/internal/adapters/provider/chatcompletions"
	"github.com/jbctechsolutions/doc2code/internal/application/ports"
	domainErrors "github.com/jbctechsolutions/doc2code/internal/domain/errors"
	"github.com/jbctechsolutions/doc2code/internal/domain/model"
)

func TestProvider_Info(t *testing.T) {
	info := NewProvider(DefaultConfig("sk-or-test")).Info()

	if info.Name != model.ProviderOpenRouter || info.DisplayName != "OpenRouter" {
		t.Errorf("unexpected info: %+v", info)
	}
	if info.BaseURL != DefaultBaseURL || !info.Configured {
		t.Errorf("unexpected info: %+v", info)
	}
}

func TestProvider_GenerateSendsAttributionHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("HTTP-Referer"); got != "https://doc2code.example" {
			t.Errorf("HTTP-Referer = %q", got)
		}
		if got := r.Header.Get("X-Title"); got != AppTitle {
			t.Errorf("X-Title = %q", got)
		}
		var req chatcompletions.Request
		json.NewDecoder(r.Body).Decode(&req)
		if req.Model != "anthropic/claude-3-opus" {
			t.Errorf("expected default model, got %q", req.Model)
		}
		json.NewEncoder(w).Encode(chatcompletions.Response{
			Choices: []chatcompletions.Choice{{Message: chatcompletions.Message{Content: "export class Api {}"}}},
		})
	}))
	defer server.Close()

	p := NewProvider(Config{APIKey: "sk-or-test", BaseURL: server.URL, AppURL: "https://doc2code.example"})
	resp, err := p.Generate(context.Background(), ports.GenerationRequest{Documentation: "doc", Language: "TypeScript"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "export class Api {}" {
		t.Errorf("unexpected content %q", resp.Content)
	}
}

func TestProvider_DefaultAppURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("HTTP-Referer"); got != DefaultAppURL {
			t.Errorf("HTTP-Referer = %q, want %q", got, DefaultAppURL)
		}
		json.NewEncoder(w).Encode(chatcompletions.Response{
			Choices: []chatcompletions.Choice{{Message: chatcompletions.Message{Content: "ok"}}},
		})
	}))
	defer server.Close()

	p := NewProvider(Config{APIKey: "k", BaseURL: server.URL})
	if _, err := p.Generate(context.Background(), ports.GenerationRequest{Documentation: "d", Language: "Go"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestProvider_GenerateMissingKey(t *testing.T) {
	_, err := NewProvider(Config{}).Generate(context.Background(), ports.GenerationRequest{Documentation: "d", Language: "Go"})
	if !errors.Is(err, domainErrors.ErrMissingAPIKey) {
		t.Errorf("error = %v, want ErrMissingAPIKey", err)
	}
}
