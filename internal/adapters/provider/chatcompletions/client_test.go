package chatcompletions

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jbctechsolutions/doc2code/internal/application/ports"
	domainErrors "github.com/jbctechsolutions/doc2code/internal/domain/errors"
	"github.com/jbctechsolutions/doc2code/internal/domain/model"
)

func newTestClient(serverURL string, configure ...func(*Config)) *Client {
	config := Config{
		APIKey:         "test-key",
		BaseURL:        serverURL,
		Timeout:        5 * time.Second,
		RetryBaseDelay: time.Millisecond,
	}
	for _, fn := range configure {
		fn(&config)
	}
	return NewClient(config)
}

func TestClient_Chat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", got)
		}
		if got := r.Header.Get("X-Title"); got != "doc2code" {
			t.Errorf("unexpected X-Title header: %s", got)
		}

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "llama3-70b-8192" || len(req.Messages) != 2 {
			t.Errorf("unexpected request: %+v", req)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Response{
			ID:    "chatcmpl-1",
			Model: "llama3-70b-8192",
			Choices: []Choice{{
				Message:      Message{Role: RoleAssistant, Content: "class Client {}"},
				FinishReason: "stop",
			}},
			Usage: Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL+"/", func(c *Config) {
		c.Headers = map[string]string{"X-Title": "doc2code"}
	})
	resp, err := client.Chat(context.Background(), &Request{
		Model: "llama3-70b-8192",
		Messages: []Message{
			{Role: RoleSystem, Content: "sys"},
			{Role: RoleUser, Content: "user"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Choices[0].Message.Content != "class Client {}" {
		t.Errorf("unexpected content: %q", resp.Choices[0].Message.Content)
	}
	if resp.Usage.TotalTokens != 15 {
		t.Errorf("unexpected usage: %+v", resp.Usage)
	}
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode domainErrors.ErrorCode
		wantMsg  string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":{"message":"Invalid API Key","type":"invalid_request_error"}}`, domainErrors.CodeConfiguration, "Invalid API Key"},
		{"not found", http.StatusNotFound, `{"error":{"message":"model not found"}}`, domainErrors.CodeNotFound, "model not found"},
		{"bad request", http.StatusBadRequest, `{"error":{"message":"context length exceeded, reduce token count"}}`, domainErrors.CodeProvider, "token"},
		{"plain body", http.StatusBadGateway, "upstream down", domainErrors.CodeProvider, "upstream down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).Chat(context.Background(), &Request{Model: "m"})
			if err == nil {
				t.Fatal("expected error")
			}
			if got := domainErrors.CodeOf(err); got != tt.wantCode {
				t.Errorf("code = %s, want %s", got, tt.wantCode)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should contain %q", err, tt.wantMsg)
			}
		})
	}
}

func TestClient_NoRetryByDefault(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Chat(context.Background(), &Request{Model: "m"})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("expected a single attempt, got %d", calls.Load())
	}
}

func TestClient_RetriesWhenConfigured(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(Response{Choices: []Choice{{Message: Message{Content: "ok"}}}})
	}))
	defer server.Close()

	resp, err := newTestClient(server.URL, func(c *Config) { c.MaxRetries = 3 }).Chat(context.Background(), &Request{Model: "m"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Choices[0].Message.Content != "ok" || calls.Load() != 3 {
		t.Errorf("content=%q calls=%d", resp.Choices[0].Message.Content, calls.Load())
	}
}

func TestClient_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := newTestClient(server.URL).Chat(ctx, &Request{Model: "m"}); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestClient_Generate(t *testing.T) {
	var got Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(Response{
			Choices: []Choice{{Message: Message{Content: "def client(): pass"}, FinishReason: "stop"}},
			Usage:   Usage{PromptTokens: 7, CompletionTokens: 3},
		})
	}))
	defer server.Close()

	resp, err := newTestClient(server.URL).Generate(context.Background(), model.ProviderGroq, ports.GenerationRequest{
		Documentation: "GET /ping",
		Language:      "Python",
		Temperature:   0.2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Content != "def client(): pass" || resp.ModelUsed != "llama3-70b-8192" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.InputTokens != 7 || resp.OutputTokens != 3 || resp.FinishReason != "stop" {
		t.Errorf("unexpected usage: %+v", resp)
	}
	if got.Temperature == nil || *got.Temperature != 0.2 || got.MaxTokens != 4000 {
		t.Errorf("unexpected sampling params: %+v", got)
	}
	if got.Messages[0].Role != RoleSystem || !strings.Contains(got.Messages[0].Content, "Python") {
		t.Errorf("unexpected system message: %+v", got.Messages[0])
	}
	if !strings.HasSuffix(got.Messages[1].Content, "GET /ping") {
		t.Errorf("unexpected user message: %+v", got.Messages[1])
	}
}

func TestClient_GenerateEmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Response{Choices: []Choice{}})
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Generate(context.Background(), model.ProviderOpenRouter, ports.GenerationRequest{
		Documentation: "doc",
		Language:      "Go",
	})
	if !errors.Is(err, domainErrors.ErrEmptyCompletion) {
		t.Errorf("error = %v, want ErrEmptyCompletion", err)
	}
}

func TestClient_GenerateWrapsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limit reached"}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Generate(context.Background(), model.ProviderGroq, ports.GenerationRequest{
		Documentation: "doc",
		Language:      "Go",
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Groq request failed") || !strings.Contains(err.Error(), "rate limit") {
		t.Errorf("unexpected error: %v", err)
	}
}
