// Package media stores rendition binaries and rewrites item renditions to
// point at the stored copies.
package media

import (
	"context"
	"errors"
	"io"
	"time"
)

var ErrNotFound = errors.New("media not found")

// File describes one stored binary.
type File struct {
	ID          string
	Filename    string
	ContentType string
	SourceHref  string
	Size        int64
	Width       *int
	Height      *int
	CreatedAt   time.Time
}

// Storage persists binaries by id.
type Storage interface {
	Put(ctx context.Context, file File, data []byte) (File, error)
	Get(ctx context.Context, id string) (io.ReadCloser, File, error)
}
