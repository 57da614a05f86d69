// Package search defines the external search-provider capability and the
// registry providers are installed into at startup.
package search

import (
	"context"
	"io"

	"horse.fit/ansa/internal/item"
)

// Provider searches a remote archive and brings single items in.
type Provider interface {
	// Label is the human readable provider name.
	Label() string
	// Find returns one page of results in the order the archive ranked them.
	Find(ctx context.Context, q Query) ([]item.Item, error)
	// Fetch retrieves a single item and materializes its renditions locally.
	Fetch(ctx context.Context, guid string) (*item.Item, error)
	// FetchFile opens a stored rendition binary.
	FetchFile(ctx context.Context, href string, rendition item.Rendition, it *item.Item) (io.ReadCloser, error)
}
