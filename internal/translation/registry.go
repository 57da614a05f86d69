package translation

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// DefaultProviderName is used when no provider is requested.
const DefaultProviderName = "ansa"

// Registry maps provider names to translators. It is safe for concurrent
// use; the text macro looks its provider up on every run.
type Registry struct {
	mu              sync.RWMutex
	providers       map[string]Provider
	defaultProvider string
}

func NewRegistry(defaultProvider string) *Registry {
	name := normalizeProviderName(defaultProvider)
	if name == "" {
		name = DefaultProviderName
	}
	return &Registry{
		providers:       make(map[string]Provider),
		defaultProvider: name,
	}
}

// Register adds one provider under its normalized name.
func (r *Registry) Register(provider Provider) error {
	if r == nil {
		return fmt.Errorf("registry is nil")
	}
	if provider == nil {
		return fmt.Errorf("provider is nil")
	}
	name := normalizeProviderName(provider.Name())
	if name == "" {
		return fmt.Errorf("provider name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("translation provider %q is already registered", name)
	}
	r.providers[name] = provider
	return nil
}

// Replace registers provider, swapping out any provider with the same name.
// Runs already holding the old provider finish with it.
func (r *Registry) Replace(provider Provider) error {
	if r == nil {
		return fmt.Errorf("registry is nil")
	}
	if provider == nil {
		return fmt.Errorf("provider is nil")
	}
	name := normalizeProviderName(provider.Name())
	if name == "" {
		return fmt.Errorf("provider name is required")
	}

	r.mu.Lock()
	r.providers[name] = provider
	r.mu.Unlock()
	return nil
}

// Provider resolves a provider by name. Empty names use the default provider.
func (r *Registry) Provider(name string) (Provider, error) {
	if r == nil {
		return nil, fmt.Errorf("registry is nil")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.providers) == 0 {
		return nil, fmt.Errorf("no translation providers are registered")
	}
	resolved := normalizeProviderName(name)
	if resolved == "" {
		resolved = r.defaultProvider
	}
	if provider, ok := r.providers[resolved]; ok {
		return provider, nil
	}
	return nil, fmt.Errorf("translation provider %q is not registered (available: %s)", resolved, strings.Join(r.namesLocked(), ", "))
}

func (r *Registry) DefaultProvider() string {
	if r == nil {
		return ""
	}
	return r.defaultProvider
}

func (r *Registry) ProviderNames() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeProviderName(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
