package ansa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"horse.fit/ansa/internal/item"
	"horse.fit/ansa/internal/media"
	"horse.fit/ansa/internal/search"
)

const documentJSON = `{
  "metadataMap": {
    "idAnsa": {"fieldValues": [{"value": "G100"}]},
    "status": {"fieldValues": [{"value": "stat:usable"}]},
    "title_B": {"fieldValues": [{"value": "Colosseo"}]},
    "description_B": {"fieldValues": [{"value": "Il Colosseo al tramonto"}]},
    "contentBy": {"fieldValues": [{"value": "Mario Rossi"}]},
    "pubDate_N": {"fieldValues": [{"value": "20190809153000"}]},
    "creditline": {"fieldValues": [{"value": "ANSA"}]},
    "orientationMD5": {"fieldValues": [{"value": "abc123"}]},
    "city": {"fieldValues": [{"value": "Roma"}]},
    "ctrName": {"fieldValues": [{"value": "Italia"}]}
  }
}`

func renderResult(docs ...string) string {
	return `{"renderResult":{"documents":[` + strings.Join(docs, ",") + `]}}`
}

type archiveStub struct {
	mu       sync.Mutex
	requests []*http.Request
	search   string
	detail   string
	status   int
	binary   []byte
}

func (s *archiveStub) handler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r)
	s.mu.Unlock()

	if s.status != 0 {
		w.WriteHeader(s.status)
		_, _ = io.WriteString(w, "archive unavailable")
		return
	}
	switch {
	case strings.HasSuffix(r.URL.Path, "/ricerca.json"):
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, s.search)
	case strings.HasSuffix(r.URL.Path, "/detail.json"):
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, s.detail)
	case strings.Contains(r.URL.Path, "/binary/"):
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(s.binary)
	default:
		http.NotFound(w, r)
	}
}

func (s *archiveStub) last() *http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return nil
	}
	return s.requests[len(s.requests)-1]
}

func testJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 6, 4))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func newTestProvider(t *testing.T, stub *archiveStub) (*Provider, *media.MemoryStorage, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(stub.handler))
	t.Cleanup(server.Close)

	storage := media.NewMemoryStorage()
	materializer, err := media.NewMaterializer(media.MaterializerOptions{
		Storage:       storage,
		HTTPClient:    server.Client(),
		PublicBaseURL: "http://media.local",
		Logger:        zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("new materializer: %v", err)
	}

	provider, err := NewProvider(Options{
		BaseURL:      server.URL + "/api/",
		Credentials:  Credentials{Username: "user", Password: "secret"},
		HTTPClient:   server.Client(),
		Materializer: materializer,
		Media:        storage,
		Logger:       zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	return provider, storage, server
}

func TestFindSendsArchiveParameters(t *testing.T) {
	t.Parallel()

	stub := &archiveStub{search: renderResult(documentJSON)}
	provider, _, _ := newTestProvider(t, stub)

	items, err := provider.Find(context.Background(), search.Query{Text: "colosseo", From: 50, Size: 25})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected one item, got %d", len(items))
	}

	req := stub.last()
	if req.URL.Path != "/api/ricerca.json" {
		t.Fatalf("unexpected path: %s", req.URL.Path)
	}
	query := req.URL.Query()
	expected := map[string]string{
		"username":   "user",
		"password":   "secret",
		"pgnum":      "3",
		"pgsize":     "25",
		"querylang":  "ITA",
		"order":      "desc",
		"changets":   "true",
		"searchtext": "colosseo",
	}
	for key, want := range expected {
		if got := query.Get(key); got != want {
			t.Fatalf("param %s: expected %q, got %q", key, want, got)
		}
	}
}

func TestFindOmitsEmptySearchText(t *testing.T) {
	t.Parallel()

	stub := &archiveStub{search: renderResult()}
	provider, _, _ := newTestProvider(t, stub)

	items, err := provider.Find(context.Background(), search.Query{})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no items, got %d", len(items))
	}
	query := stub.last().URL.Query()
	if _, ok := query["searchtext"]; ok {
		t.Fatalf("searchtext must be omitted for empty text")
	}
	if query.Get("pgnum") != "1" || query.Get("pgsize") != "25" {
		t.Fatalf("unexpected paging: %s", stub.last().URL.RawQuery)
	}
}

func TestFindMapsDocumentFields(t *testing.T) {
	t.Parallel()

	stub := &archiveStub{search: renderResult(documentJSON)}
	provider, _, server := newTestProvider(t, stub)

	items, err := provider.Find(context.Background(), search.Query{Text: "x"})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	it := items[0]

	if item.StringOrEmpty(it.ID) != "G100" || item.StringOrEmpty(it.GUID) != "G100" {
		t.Fatalf("unexpected id/guid: %v/%v", it.ID, it.GUID)
	}
	if it.Type != item.TypePicture {
		t.Fatalf("unexpected type: %s", it.Type)
	}
	if item.StringOrEmpty(it.PubStatus) != "usable" {
		t.Fatalf("unexpected pubstatus: %v", it.PubStatus)
	}
	if item.StringOrEmpty(it.Headline) != "Colosseo" || item.StringOrEmpty(it.DescriptionText) != "Il Colosseo al tramonto" {
		t.Fatalf("unexpected headline/description")
	}
	if item.StringOrEmpty(it.Byline) != "Mario Rossi" {
		t.Fatalf("unexpected byline: %v", it.Byline)
	}
	if item.StringOrEmpty(it.CreditLine) != "ANSA" || item.StringOrEmpty(it.Source) != "ANSA" {
		t.Fatalf("unexpected creditline/source")
	}
	if it.FirstCreated == nil || it.FirstCreated.Year() != 2019 || !it.FirstCreated.Equal(*it.VersionCreated) {
		t.Fatalf("unexpected dates: %v %v", it.FirstCreated, it.VersionCreated)
	}
	if len(it.Place) != 2 || item.StringOrEmpty(it.Place[0].Name) != "Roma" || item.StringOrEmpty(it.Place[1].Name) != "Italia" {
		t.Fatalf("unexpected place: %+v", it.Place)
	}
	if it.FetchEndpoint != nil {
		t.Fatalf("search results must not set fetch_endpoint")
	}

	thumb, _ := it.Rendition(item.RenditionThumbnail)
	view, _ := it.Rendition(item.RenditionViewImage)
	if thumb.Href != "https://ansafoto.ansa.it/portaleimmagini/bdmproxy/abc123.jpg?format=med&guid=G100" || thumb.Href != view.Href {
		t.Fatalf("unexpected preview renditions: %s / %s", thumb.Href, view.Href)
	}
	if thumb.Height == nil || *thumb.Height != 256 || thumb.Width == nil || *thumb.Width != 384 {
		t.Fatalf("unexpected preview dimensions")
	}

	base, _ := it.Rendition(item.RenditionBaseImage)
	original, _ := it.Rendition(item.RenditionOriginal)
	wantOriginal := server.URL + "/api/binary/abc123.jpg?guid=G100&password=secret&username=user"
	if original.Href != wantOriginal || base.Href != original.Href {
		t.Fatalf("unexpected original renditions: %s / %s", original.Href, base.Href)
	}
	if original.MimeType != "image/jpeg" {
		t.Fatalf("unexpected mimetype: %s", original.MimeType)
	}
}

func TestFindToleratesMissingFields(t *testing.T) {
	t.Parallel()

	sparse := `{"metadataMap":{"idAnsa":{"fieldValues":[{"value":"G7"}]}}}`
	stub := &archiveStub{search: renderResult(sparse, documentJSON)}
	provider, _, _ := newTestProvider(t, stub)

	items, err := provider.Find(context.Background(), search.Query{})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(items) != 2 || item.StringOrEmpty(items[0].GUID) != "G7" || item.StringOrEmpty(items[1].GUID) != "G100" {
		t.Fatalf("expected archive order to be preserved")
	}
	first := items[0]
	if first.Place[0].Name != nil || first.Headline != nil || first.PubStatus != nil || first.FirstCreated != nil {
		t.Fatalf("expected missing fields to stay nil: %+v", first)
	}

	raw, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"pubstatus", "headline", "description_text", "byline", "firstcreated", "versioncreated", "creditline", "source"} {
		value, ok := decoded[key]
		if !ok || value != nil {
			t.Fatalf("expected %s to be null in %s", key, raw)
		}
	}
	if decoded["guid"] != "G7" || decoded["_id"] != "G7" {
		t.Fatalf("unexpected ids in %s", raw)
	}
}

func TestFindStatusError(t *testing.T) {
	t.Parallel()

	stub := &archiveStub{status: http.StatusInternalServerError}
	provider, _, _ := newTestProvider(t, stub)

	_, err := provider.Find(context.Background(), search.Query{Text: "x"})
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusInternalServerError || statusErr.Endpoint != SearchEndpoint {
		t.Fatalf("unexpected status error: %+v", statusErr)
	}
}

func TestFindMalformedBody(t *testing.T) {
	t.Parallel()

	stub := &archiveStub{search: `{"renderResult":`}
	provider, _, _ := newTestProvider(t, stub)

	if _, err := provider.Find(context.Background(), search.Query{}); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestFetchStoresOriginal(t *testing.T) {
	t.Parallel()

	stub := &archiveStub{detail: renderResult(documentJSON), binary: testJPEG(t)}
	provider, storage, _ := newTestProvider(t, stub)

	it, err := provider.Fetch(context.Background(), "G100")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	detail := stub.requests[0]
	if detail.URL.Path != "/api/detail.json" {
		t.Fatalf("unexpected detail path: %s", detail.URL.Path)
	}
	if detail.URL.Query().Get("idAnsa") != "G100" || detail.URL.Query().Get("changets") != "true" {
		t.Fatalf("unexpected detail params: %s", detail.URL.RawQuery)
	}
	if binary := stub.last(); !strings.HasSuffix(binary.URL.Path, "/binary/abc123.jpg") {
		t.Fatalf("expected original download, got %s", binary.URL.Path)
	}

	if it.FetchEndpoint == nil || *it.FetchEndpoint != "" {
		t.Fatalf("expected empty fetch_endpoint")
	}
	if storage.Len() != 1 {
		t.Fatalf("expected one stored binary, got %d", storage.Len())
	}
	original, ok := it.Rendition(item.RenditionOriginal)
	if !ok || original.Media == "" || !strings.HasPrefix(original.Href, "http://media.local/api/v1/media/") {
		t.Fatalf("unexpected stored original: %+v", original)
	}
	if original.Width == nil || *original.Width != 6 {
		t.Fatalf("expected decoded width")
	}
	thumb, _ := it.Rendition(item.RenditionThumbnail)
	if !strings.HasPrefix(thumb.Href, ImageProxyURL) {
		t.Fatalf("thumbnail should stay remote: %s", thumb.Href)
	}

	body, err := provider.FetchFile(context.Background(), original.Href, original, it)
	if err != nil {
		t.Fatalf("fetch file: %v", err)
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if !bytes.Equal(data, stub.binary) {
		t.Fatalf("stored bytes differ from archive binary")
	}
}

func TestFetchNotFound(t *testing.T) {
	t.Parallel()

	stub := &archiveStub{detail: renderResult()}
	provider, storage, _ := newTestProvider(t, stub)

	_, err := provider.Fetch(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) || !errors.Is(err, search.ErrItemNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if storage.Len() != 0 {
		t.Fatalf("nothing should be stored")
	}
}

func TestFetchFileWithoutMedia(t *testing.T) {
	t.Parallel()

	provider, _, _ := newTestProvider(t, &archiveStub{})
	_, err := provider.FetchFile(context.Background(), "http://x", item.Rendition{Href: "http://x"}, nil)
	if !errors.Is(err, media.ErrNotFound) {
		t.Fatalf("expected media.ErrNotFound, got %v", err)
	}
}

func TestRegisterUsesProviderName(t *testing.T) {
	t.Parallel()

	provider, _, _ := newTestProvider(t, &archiveStub{})
	reg := search.NewRegistry()
	if err := Register(reg, provider); err != nil {
		t.Fatalf("register: %v", err)
	}
	got, err := reg.Provider("ansa")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got.Label() != "ANSA Pictures" {
		t.Fatalf("unexpected label: %s", got.Label())
	}
}

func TestNewProviderValidates(t *testing.T) {
	t.Parallel()

	storage := media.NewMemoryStorage()
	if _, err := NewProvider(Options{Media: storage}); err == nil {
		t.Fatalf("expected base URL error")
	}
	if _, err := NewProvider(Options{BaseURL: "https://photo.example.com/api/", Media: storage}); err == nil {
		t.Fatalf("expected materializer error")
	}
}
