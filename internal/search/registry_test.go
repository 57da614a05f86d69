package search

import (
	"context"
	"errors"
	"io"
	"testing"

	"horse.fit/ansa/internal/item"
)

type stubProvider struct{ label string }

func (p stubProvider) Label() string { return p.label }

func (p stubProvider) Find(context.Context, Query) ([]item.Item, error) { return nil, nil }

func (p stubProvider) Fetch(context.Context, string) (*item.Item, error) { return nil, nil }

func (p stubProvider) FetchFile(context.Context, string, item.Rendition, *item.Item) (io.ReadCloser, error) {
	return nil, nil
}

func TestRegistryRegisterAndResolve(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	if err := reg.Register("ansa", stubProvider{label: "ANSA Pictures"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register(" ANSA ", stubProvider{}); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	if err := reg.Register("", stubProvider{}); err == nil {
		t.Fatalf("expected empty name to fail")
	}

	p, err := reg.Provider("Ansa")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if p.Label() != "ANSA Pictures" {
		t.Fatalf("unexpected label %q", p.Label())
	}

	if _, err := reg.Provider("getty"); !errors.Is(err, ErrProviderNotFound) {
		t.Fatalf("expected ErrProviderNotFound, got %v", err)
	}

	list := reg.List()
	if len(list) != 1 || list[0].Name != "ansa" || list[0].Label != "ANSA Pictures" {
		t.Fatalf("unexpected list: %+v", list)
	}
}
