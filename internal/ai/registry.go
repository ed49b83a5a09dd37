package ai

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	pwerrors "github.com/planwise/planwise/internal/errors"
)

// Factory builds a client from explicit credentials. Factories keep the
// registry free of long-lived clients holding key material.
type Factory func(creds Credentials) Client

// Registry maps provider names to client factories.
// It provides thread-safe registration and lookup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a registry preloaded with the built-in providers.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register("openai", func(creds Credentials) Client { return NewOpenAI(creds) })
	r.Register("anthropic", func(creds Credentials) Client { return NewAnthropic(creds) })
	r.Register("custom", func(creds Credentials) Client { return NewCustom(creds) })
	return r
}

// Register adds a factory for a provider name.
// If a factory already exists for the name, it is replaced.
func (r *Registry) Register(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Client builds a client for the named provider.
// Returns ErrProviderNotFound if no factory is registered for the name.
func (r *Registry) Client(name string, creds Credentials) (Client, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)",
			pwerrors.ErrProviderNotFound, name, strings.Join(r.Providers(), ", "))
	}
	return factory(creds), nil
}

// Providers returns all registered provider names, sorted.
func (r *Registry) Providers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
