// Package provider provides the provider registry and the shared generation
// plumbing used by every LLM adapter.
package provider

import (
	"fmt"
	"sync"

	"github.com/jbctechsolutions/doc2code/internal/application/ports"
	"github.com/jbctechsolutions/doc2code/internal/domain/errors"
	"github.com/jbctechsolutions/doc2code/internal/domain/model"
)

// Registry manages the registration and lookup of LLM providers.
type Registry struct {
	mu        sync.RWMutex
	providers map[model.Provider]ports.ProviderPort
	order     []model.Provider // maintains registration order
}

// NewRegistry creates a new empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[model.Provider]ports.ProviderPort),
		order:     make([]model.Provider, 0),
	}
}

// Register adds a provider to the registry.
// If a provider with the same name already exists, it will be replaced.
func (r *Registry) Register(provider ports.ProviderPort) error {
	if provider == nil {
		return fmt.Errorf("provider cannot be nil")
	}

	info := provider.Info()
	if info.Name == "" {
		return fmt.Errorf("provider name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[info.Name]; !exists {
		r.order = append(r.order, info.Name)
	}

	r.providers[info.Name] = provider
	return nil
}

// Get retrieves a provider by name.
// Returns nil if the provider is not found.
func (r *Registry) Get(name model.Provider) ports.ProviderPort {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.providers[name]
}

// Resolve retrieves a provider by its wire name. Unknown or unregistered
// names produce a validation error wrapping ErrInvalidProvider.
func (r *Registry) Resolve(name string) (ports.ProviderPort, error) {
	p := r.Get(model.Provider(name))
	if p == nil || !model.IsValidProvider(name) {
		return nil, errors.WithContext(errors.Validation(errors.ErrInvalidProvider), "provider", name)
	}
	return p, nil
}

// List returns all registered provider names in registration order.
func (r *Registry) List() []model.Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]model.Provider, len(r.order))
	copy(result, r.order)
	return result
}

// Configured reports, per registered provider, whether an API key is set.
func (r *Registry) Configured() map[model.Provider]bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[model.Provider]bool, len(r.providers))
	for name, p := range r.providers {
		result[name] = p.Info().Configured
	}
	return result
}
