package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/rs/zerolog"

	"horse.fit/ansa/internal/item"
	"horse.fit/ansa/internal/metrics"
)

const (
	DefaultMaxDownloadBytes = 64 * 1024 * 1024

	mediaRoutePrefix = "/api/v1/media/"
)

// Options selects which renditions point at the stored binary.
type Options struct {
	Renditions []string
}

// DefaultRenditions are rewritten when Options.Renditions is empty.
var DefaultRenditions = []string{item.RenditionOriginal, item.RenditionBaseImage}

// Materializer downloads a remote binary, stores it and rewrites an item's
// renditions to the stored copy.
type Materializer struct {
	storage       Storage
	client        *http.Client
	publicBaseURL string
	maxBytes      int64
	logger        zerolog.Logger
	metrics       *metrics.Metrics
}

type MaterializerOptions struct {
	Storage       Storage
	HTTPClient    *http.Client
	PublicBaseURL string
	MaxBytes      int64
	Logger        zerolog.Logger
	Metrics       *metrics.Metrics
}

func NewMaterializer(opts MaterializerOptions) (*Materializer, error) {
	if opts.Storage == nil {
		return nil, fmt.Errorf("media storage is required")
	}
	if opts.HTTPClient == nil {
		return nil, fmt.Errorf("http client is required")
	}
	base := strings.TrimRight(strings.TrimSpace(opts.PublicBaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("public base URL is required")
	}
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxDownloadBytes
	}
	return &Materializer{
		storage:       opts.Storage,
		client:        opts.HTTPClient,
		publicBaseURL: base,
		maxBytes:      maxBytes,
		logger:        opts.Logger,
		metrics:       opts.Metrics,
	}, nil
}

// Storage exposes the backing store for read-through access.
func (m *Materializer) Storage() Storage {
	return m.storage
}

// PublicURL is the href under which a stored binary is served.
func (m *Materializer) PublicURL(mediaID string) string {
	return m.publicBaseURL + mediaRoutePrefix + url.PathEscape(mediaID)
}

// UpdateRenditions downloads href once, stores it and points the selected
// renditions at the stored file. Renditions not selected keep their values.
func (m *Materializer) UpdateRenditions(ctx context.Context, it *item.Item, href string, opts Options) error {
	if m == nil {
		return fmt.Errorf("materializer is nil")
	}
	if it == nil {
		return fmt.Errorf("item is nil")
	}
	href = strings.TrimSpace(href)
	if href == "" {
		return fmt.Errorf("rendition href is required")
	}

	data, contentType, err := m.download(ctx, href)
	if err != nil {
		return err
	}

	file := File{
		Filename:    filenameFor(it, href),
		ContentType: contentType,
		SourceHref:  href,
	}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		width, height := cfg.Width, cfg.Height
		file.Width = &width
		file.Height = &height
	}

	stored, err := m.storage.Put(ctx, file, data)
	if err != nil {
		return fmt.Errorf("store rendition: %w", err)
	}
	m.metrics.AddMediaBytes(len(data))

	names := opts.Renditions
	if len(names) == 0 {
		names = DefaultRenditions
	}
	for _, name := range names {
		it.SetRendition(name, item.Rendition{
			Href:     m.PublicURL(stored.ID),
			MimeType: stored.ContentType,
			Width:    stored.Width,
			Height:   stored.Height,
			Media:    stored.ID,
		})
	}

	m.logger.Info().
		Str("guid", item.StringOrEmpty(it.GUID)).
		Str("media_id", stored.ID).
		Int64("size", stored.Size).
		Msg("stored rendition")
	return nil
}

func (m *Materializer) download(ctx context.Context, href string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, href, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build rendition request: %w", err)
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("download rendition: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("download rendition: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, m.maxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("read rendition body: %w", err)
	}
	if int64(len(data)) > m.maxBytes {
		return nil, "", fmt.Errorf("rendition exceeds %d bytes", m.maxBytes)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("rendition body is empty")
	}

	return data, detectContentType(resp.Header.Get("Content-Type"), data), nil
}

func detectContentType(header string, data []byte) string {
	if mediaType, _, err := mime.ParseMediaType(header); err == nil && mediaType != "" && mediaType != "application/octet-stream" {
		return mediaType
	}
	sniffed := http.DetectContentType(data)
	if mediaType, _, err := mime.ParseMediaType(sniffed); err == nil {
		return mediaType
	}
	return sniffed
}

func filenameFor(it *item.Item, href string) string {
	if guid := item.StringOrEmpty(it.GUID); guid != "" {
		return guid + ".jpg"
	}
	if parsed, err := url.Parse(href); err == nil {
		if base := path.Base(parsed.Path); base != "/" && base != "." {
			return base
		}
	}
	return ""
}
