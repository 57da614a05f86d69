// Package macro keeps the item transforms the editor can invoke.
package macro

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"horse.fit/ansa/internal/item"
)

type AccessType string

const (
	AccessFrontend AccessType = "frontend"
	AccessBackend  AccessType = "backend"
)

type ActionType string

const (
	ActionDirect      ActionType = "direct"
	ActionInteractive ActionType = "interactive"
)

var ErrMacroNotFound = errors.New("macro not found")

// Func transforms an item and returns it.
type Func func(ctx context.Context, it *item.Item) (*item.Item, error)

// Macro is one registered transform plus the metadata the editor uses to
// decide how to offer it.
type Macro struct {
	Name          string
	Label         string
	AccessType    AccessType
	ActionType    ActionType
	SimpleReplace bool
	Callback      Func
}

// Info is the JSON view of a macro's metadata.
type Info struct {
	Name          string     `json:"name"`
	Label         string     `json:"label"`
	AccessType    AccessType `json:"access_type"`
	ActionType    ActionType `json:"action_type"`
	SimpleReplace bool       `json:"simple_replace"`
}

type Registry struct {
	macros map[string]Macro
}

func NewRegistry() *Registry {
	return &Registry{macros: make(map[string]Macro)}
}

func (r *Registry) Register(m Macro) error {
	if r == nil {
		return fmt.Errorf("macro registry is nil")
	}
	key := normalizeName(m.Name)
	if key == "" {
		return fmt.Errorf("macro name is required")
	}
	if m.Callback == nil {
		return fmt.Errorf("macro %q has no callback", m.Name)
	}
	if _, exists := r.macros[key]; exists {
		return fmt.Errorf("macro %q is already registered", m.Name)
	}
	if m.Label == "" {
		m.Label = m.Name
	}
	r.macros[key] = m
	return nil
}

func (r *Registry) Get(name string) (Macro, error) {
	if r == nil {
		return Macro{}, fmt.Errorf("macro registry is nil")
	}
	m, ok := r.macros[normalizeName(name)]
	if !ok {
		return Macro{}, fmt.Errorf("%w: %s", ErrMacroNotFound, name)
	}
	return m, nil
}

// Run resolves name and applies it to it.
func (r *Registry) Run(ctx context.Context, name string, it *item.Item) (*item.Item, error) {
	m, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, fmt.Errorf("macro %q: item is nil", m.Name)
	}
	out, err := m.Callback(ctx, it)
	if err != nil {
		return nil, fmt.Errorf("macro %q: %w", m.Name, err)
	}
	return out, nil
}

func (r *Registry) List() []Info {
	if r == nil {
		return nil
	}
	out := make([]Info, 0, len(r.macros))
	for _, m := range r.macros {
		out = append(out, Info{
			Name:          m.Name,
			Label:         m.Label,
			AccessType:    m.AccessType,
			ActionType:    m.ActionType,
			SimpleReplace: m.SimpleReplace,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func normalizeName(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
