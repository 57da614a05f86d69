package search

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrProviderNotFound = errors.New("search provider not found")
	// ErrItemNotFound is wrapped by providers when a guid has no remote item.
	ErrItemNotFound = errors.New("search item not found")
)

// Registry maps provider names to implementations.
type Registry struct {
	providers map[string]Provider
}

func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register installs provider under name. Names are case-insensitive and may
// only be registered once.
func (r *Registry) Register(name string, provider Provider) error {
	if r == nil {
		return fmt.Errorf("search registry is nil")
	}
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return fmt.Errorf("search provider name is required")
	}
	if provider == nil {
		return fmt.Errorf("search provider %q is nil", key)
	}
	if _, exists := r.providers[key]; exists {
		return fmt.Errorf("search provider %q is already registered", key)
	}
	r.providers[key] = provider
	return nil
}

func (r *Registry) Provider(name string) (Provider, error) {
	if r == nil {
		return nil, fmt.Errorf("search registry is nil")
	}
	key := strings.ToLower(strings.TrimSpace(name))
	provider, ok := r.providers[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrProviderNotFound, key, strings.Join(r.Names(), ", "))
	}
	return provider, nil
}

// ProviderInfo is the JSON view of a registered provider.
type ProviderInfo struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) List() []ProviderInfo {
	names := r.Names()
	out := make([]ProviderInfo, 0, len(names))
	for _, name := range names {
		out = append(out, ProviderInfo{Name: name, Label: r.providers[name].Label()})
	}
	return out
}
