package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/jbctechsolutions/doc2code/internal/application/ports"
	domainErrors "github.com/jbctechsolutions/doc2code/internal/domain/errors"
	"github.com/jbctechsolutions/doc2code/internal/domain/model"
)

// mockProvider implements ports.ProviderPort for testing
type mockProvider struct {
	name       model.Provider
	configured bool
}

func newMockProvider(name model.Provider, configured bool) *mockProvider {
	return &mockProvider{name: name, configured: configured}
}

func (m *mockProvider) Info() ports.ProviderInfo {
	return ports.ProviderInfo{
		Name:        m.name,
		DisplayName: m.name.DisplayName(),
		Configured:  m.configured,
	}
}

func (m *mockProvider) Generate(_ context.Context, _ ports.GenerationRequest) (*ports.GenerationResponse, error) {
	return &ports.GenerationResponse{Content: "mock response"}, nil
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("expected non-nil registry")
	}
	if n := len(r.List()); n != 0 {
		t.Errorf("expected empty registry, got %d providers", n)
	}
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	t.Run("register valid provider", func(t *testing.T) {
		err := r.Register(newMockProvider(model.ProviderGroq, true))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n := len(r.List()); n != 1 {
			t.Errorf("expected 1 provider, got %d", n)
		}
	})

	t.Run("register nil provider", func(t *testing.T) {
		if err := r.Register(nil); err == nil {
			t.Error("expected error for nil provider")
		}
	})

	t.Run("register empty name", func(t *testing.T) {
		if err := r.Register(newMockProvider("", true)); err == nil {
			t.Error("expected error for empty name")
		}
	})

	t.Run("register duplicate replaces", func(t *testing.T) {
		r.Register(newMockProvider(model.ProviderOpenAI, false))
		initialCount := len(r.List())

		r.Register(newMockProvider(model.ProviderOpenAI, true))
		if len(r.List()) != initialCount {
			t.Error("registering duplicate should not increase count")
		}
		if !r.Get(model.ProviderOpenAI).Info().Configured {
			t.Error("expected second provider to replace first")
		}
	})
}

func TestRegistry_Get(t *testing.T) {
	r := NewRegistry()
	r.Register(newMockProvider(model.ProviderGroq, true))

	if got := r.Get(model.ProviderGroq); got == nil || got.Info().Name != model.ProviderGroq {
		t.Fatalf("Get(groq) = %v", got)
	}
	if got := r.Get(model.ProviderOpenRouter); got != nil {
		t.Error("expected nil for unregistered provider")
	}
}

func TestRegistry_Resolve(t *testing.T) {
	r := NewRegistry()
	r.Register(newMockProvider(model.ProviderGroq, true))
	r.Register(newMockProvider("custom", true))

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"registered provider", "groq", false},
		{"known but unregistered", "openai", true},
		{"bogus", "bogus", true},
		{"empty", "", true},
		{"registered but not a supported id", "custom", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := r.Resolve(tt.input)
			if !tt.wantErr {
				if err != nil || p == nil {
					t.Fatalf("Resolve(%q) = %v, %v", tt.input, p, err)
				}
				return
			}
			if !errors.Is(err, domainErrors.ErrInvalidProvider) {
				t.Errorf("error = %v, want ErrInvalidProvider", err)
			}
			if domainErrors.CodeOf(err) != domainErrors.CodeValidation {
				t.Errorf("code = %s, want VALIDATION", domainErrors.CodeOf(err))
			}
		})
	}
}

func TestRegistry_List(t *testing.T) {
	r := NewRegistry()

	r.Register(newMockProvider(model.ProviderGroq, true))
	r.Register(newMockProvider(model.ProviderOpenAI, true))
	r.Register(newMockProvider(model.ProviderOpenRouter, true))

	names := r.List()
	expected := []model.Provider{model.ProviderGroq, model.ProviderOpenAI, model.ProviderOpenRouter}
	if len(names) != len(expected) {
		t.Fatalf("expected %d names, got %d", len(expected), len(names))
	}
	for i, name := range names {
		if name != expected[i] {
			t.Errorf("position %d: expected %s, got %s", i, expected[i], name)
		}
	}

	names[0] = model.ProviderOpenRouter
	if r.List()[0] != model.ProviderGroq {
		t.Error("List() should return a copy")
	}
}

func TestRegistry_Configured(t *testing.T) {
	r := NewRegistry()
	r.Register(newMockProvider(model.ProviderOpenAI, true))
	r.Register(newMockProvider(model.ProviderGroq, false))

	got := r.Configured()
	if !got[model.ProviderOpenAI] || got[model.ProviderGroq] {
		t.Errorf("Configured() = %v", got)
	}
	if _, ok := got[model.ProviderOpenRouter]; ok {
		t.Error("unregistered provider should not be reported")
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	done := make(chan bool)

	go func() {
		for i := 0; i < 100; i++ {
			r.Register(newMockProvider(model.ProviderGroq, true))
		}
		done <- true
	}()

	go func() {
		for i := 0; i < 100; i++ {
			r.Get(model.ProviderGroq)
			r.List()
			r.Configured()
		}
		done <- true
	}()

	<-done
	<-done
}
