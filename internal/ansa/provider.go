// Package ansa is the ANSA photo archive search provider: paged search,
// single item fetch with local storage of the original binary, and read
// access to stored binaries.
package ansa

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"horse.fit/ansa/internal/globaltime"
	"horse.fit/ansa/internal/item"
	"horse.fit/ansa/internal/media"
	"horse.fit/ansa/internal/metrics"
	"horse.fit/ansa/internal/search"
	"horse.fit/ansa/internal/transport"
)

const (
	ProviderName = "ansa"
	Label        = "ANSA Pictures"

	DefaultConnectTimeout = 5 * time.Second
	DefaultReadTimeout    = 25 * time.Second

	searchLanguage   = "ITA"
	searchOrder      = "desc"
	imageMimeType    = "image/jpeg"
	previewHeight    = 256
	previewWidth     = 384
	maxResponseBytes = 16 * 1024 * 1024
)

// ErrNotFound is returned by Fetch when the archive has no document for the guid.
var ErrNotFound = fmt.Errorf("ansa photo: %w", search.ErrItemNotFound)

// StatusError is a non-2xx reply from the archive API.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("ansa photo %s: status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("ansa photo %s: status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// RenditionMaterializer stores a remote binary and rewrites item renditions.
type RenditionMaterializer interface {
	UpdateRenditions(ctx context.Context, it *item.Item, href string, opts media.Options) error
}

// MediaReader opens stored binaries by media id.
type MediaReader interface {
	Get(ctx context.Context, id string) (io.ReadCloser, media.File, error)
}

type Options struct {
	BaseURL      string
	Credentials  Credentials
	Timeouts     transport.Timeouts
	HTTPClient   *http.Client
	Materializer RenditionMaterializer
	Media        MediaReader
	Logger       zerolog.Logger
	Metrics      *metrics.Metrics
}

type Provider struct {
	endpoints    endpoints
	credentials  Credentials
	client       *http.Client
	materializer RenditionMaterializer
	media        MediaReader
	logger       zerolog.Logger
	metrics      *metrics.Metrics
}

var _ search.Provider = (*Provider)(nil)

func NewProvider(opts Options) (*Provider, error) {
	eps, err := newEndpoints(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	if opts.Materializer == nil {
		return nil, fmt.Errorf("rendition materializer is required")
	}
	if opts.Media == nil {
		return nil, fmt.Errorf("media reader is required")
	}

	client := opts.HTTPClient
	if client == nil {
		timeouts := opts.Timeouts
		if timeouts.Connect <= 0 {
			timeouts.Connect = DefaultConnectTimeout
		}
		if timeouts.Read <= 0 {
			timeouts.Read = DefaultReadTimeout
		}
		client = transport.NewClient(timeouts)
	}

	return &Provider{
		endpoints:    eps,
		credentials:  opts.Credentials,
		client:       client,
		materializer: opts.Materializer,
		media:        opts.Media,
		logger:       opts.Logger,
		metrics:      opts.Metrics,
	}, nil
}

// Register installs p under ProviderName.
func Register(reg *search.Registry, p *Provider) error {
	return reg.Register(ProviderName, p)
}

func (p *Provider) Label() string {
	return Label
}

// Find runs one archive search page. Page number is derived from q.From and
// q.PageSize; results keep the archive's order.
func (p *Provider) Find(ctx context.Context, q search.Query) ([]item.Item, error) {
	params := url.Values{}
	p.credentials.apply(params)
	params.Set("pgnum", strconv.Itoa(q.Page()))
	params.Set("pgsize", strconv.Itoa(q.PageSize()))
	params.Set("querylang", searchLanguage)
	params.Set("order", searchOrder)
	params.Set("changets", "true")
	if text := strings.TrimSpace(q.Text); text != "" {
		params.Set("searchtext", text)
	}

	docs, err := p.get(ctx, SearchEndpoint, params)
	if err != nil {
		return nil, err
	}
	items := p.itemsFromDocuments(docs)
	p.logger.Debug().
		Str("searchtext", q.Text).
		Int("page", q.Page()).
		Int("results", len(items)).
		Msg("photo search completed")
	return items, nil
}

// Fetch loads one document by guid, stores its original binary and marks
// the item as resident by clearing fetch_endpoint.
func (p *Provider) Fetch(ctx context.Context, guid string) (*item.Item, error) {
	guid = strings.TrimSpace(guid)
	if guid == "" {
		return nil, fmt.Errorf("guid is required")
	}

	params := url.Values{}
	params.Set("idAnsa", guid)
	p.credentials.apply(params)
	params.Set("changets", "true")

	docs, err := p.get(ctx, DetailEndpoint, params)
	if err != nil {
		return nil, err
	}
	items := p.itemsFromDocuments(docs)
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, guid)
	}
	it := items[0]

	if original, ok := it.Rendition(item.RenditionOriginal); ok {
		if err := p.materializer.UpdateRenditions(ctx, &it, original.Href, media.Options{}); err != nil {
			return nil, fmt.Errorf("store original rendition for %s: %w", guid, err)
		}
	}

	resident := ""
	it.FetchEndpoint = &resident
	return &it, nil
}

// FetchFile opens the stored binary behind rendition.Media.
func (p *Provider) FetchFile(ctx context.Context, href string, rendition item.Rendition, it *item.Item) (io.ReadCloser, error) {
	if rendition.Media == "" {
		return nil, fmt.Errorf("%w: rendition %s has no stored media", media.ErrNotFound, href)
	}
	body, _, err := p.media.Get(ctx, rendition.Media)
	if err != nil {
		return nil, fmt.Errorf("open media %s: %w", rendition.Media, err)
	}
	return body, nil
}

func (p *Provider) get(ctx context.Context, endpoint string, params url.Values) ([]Document, error) {
	target := p.endpoints.resolve(endpoint, params)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	started := globaltime.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		p.metrics.ObservePhotoRequest(endpoint, "error", globaltime.Since(started).Seconds())
		return nil, fmt.Errorf("request %s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	p.metrics.ObservePhotoRequest(endpoint, statusClass(resp.StatusCode), globaltime.Since(started).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	var parsed searchResponse
	decoder := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes))
	decoder.UseNumber()
	if err := decoder.Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return parsed.RenderResult.Documents, nil
}

func (p *Provider) itemsFromDocuments(docs []Document) []item.Item {
	items := make([]item.Item, 0, len(docs))
	for _, doc := range docs {
		items = append(items, p.itemFromDocument(doc))
	}
	return items
}

func (p *Provider) itemFromDocument(doc Document) item.Item {
	guid := MetaString(doc, FieldID)
	md5 := MetaString(doc, FieldMD5)
	creditLine := MetaString(doc, FieldCreditLine)

	pubDate, err := MetaTime(doc, FieldPubDate)
	if err != nil {
		p.logger.Debug().Err(err).Str("guid", item.StringOrEmpty(guid)).Msg("unparseable publication date")
	}

	it := item.Item{
		ID:              guid,
		GUID:            guid,
		Type:            item.TypePicture,
		PubStatus:       stripStatusPrefix(MetaString(doc, FieldStatus)),
		Headline:        MetaString(doc, FieldTitle),
		DescriptionText: MetaString(doc, FieldDescription),
		Byline:          MetaString(doc, FieldContentBy),
		FirstCreated:    pubDate,
		VersionCreated:  pubDate,
		CreditLine:      creditLine,
		Source:          creditLine,
		Place: []item.Place{
			{Name: MetaString(doc, FieldCity)},
			{Name: MetaString(doc, FieldCountry)},
		},
	}

	md5Value := item.StringOrEmpty(md5)
	guidValue := item.StringOrEmpty(guid)
	height, width := previewHeight, previewWidth
	preview := item.Rendition{
		Href:     previewHref(md5Value, guidValue),
		MimeType: imageMimeType,
		Height:   &height,
		Width:    &width,
	}
	original := item.Rendition{
		Href:     p.endpoints.originalHref(md5Value, guidValue, p.credentials),
		MimeType: imageMimeType,
	}
	it.SetRendition(item.RenditionThumbnail, preview)
	it.SetRendition(item.RenditionViewImage, preview)
	it.SetRendition(item.RenditionBaseImage, original)
	it.SetRendition(item.RenditionOriginal, original)
	return it
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
