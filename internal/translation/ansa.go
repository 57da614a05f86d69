package translation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"horse.fit/ansa/internal/globaltime"
	"horse.fit/ansa/internal/metrics"
	"horse.fit/ansa/internal/transport"
)

const (
	DefaultConnectTimeout = 5 * time.Second
	DefaultReadTimeout    = 30 * time.Second

	maxResponseBytes = 4 * 1024 * 1024
)

// AnsaOptions configures the form-POST translation endpoint client.
type AnsaOptions struct {
	URL        string
	Timeouts   transport.Timeouts
	HTTPClient *http.Client
	Logger     zerolog.Logger
	Metrics    *metrics.Metrics
}

// AnsaProvider translates text through the ANSA translation endpoint.
type AnsaProvider struct {
	endpointURL string
	client      *http.Client
	logger      zerolog.Logger
	metrics     *metrics.Metrics
}

func NewAnsaProvider(opts AnsaOptions) (*AnsaProvider, error) {
	endpoint := strings.TrimSpace(opts.URL)
	if endpoint == "" {
		return nil, fmt.Errorf("translation URL is required")
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("parse translation URL: %w", err)
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

	return &AnsaProvider{
		endpointURL: endpoint,
		client:      client,
		logger:      opts.Logger,
		metrics:     opts.Metrics,
	}, nil
}

func (p *AnsaProvider) Name() string {
	return "ansa"
}

func (p *AnsaProvider) SupportedLanguages() []string {
	return SupportedLanguageCodes()
}

type ansaTranslationResponse struct {
	TranslatedText *string `json:"translatedtext"`
}

// Translate posts {text, lang, target} and reads back "translatedtext".
// A response without that field is a successful no-op.
func (p *AnsaProvider) Translate(ctx context.Context, req TranslateRequest) Result {
	result := p.translate(ctx, req)
	result.ProviderName = p.Name()

	p.metrics.IncTranslation(string(result.Status))
	switch result.Status {
	case StatusTimedOut:
		p.logger.Warn().
			Err(result.Err).
			Str("lang", req.SourceLang).
			Str("target", req.TargetLang).
			Msg("translation timed out")
	case StatusFailed:
		p.logger.Error().
			Err(result.Err).
			Str("lang", req.SourceLang).
			Str("target", req.TargetLang).
			Msg("translation failed")
	default:
		p.logger.Debug().
			Int("chars", len(req.Text)).
			Int64("latency_ms", result.LatencyMs).
			Msg("translated text node")
	}
	return result
}

func (p *AnsaProvider) translate(ctx context.Context, req TranslateRequest) Result {
	if p == nil {
		return Failed(fmt.Errorf("ansa translation provider is nil"))
	}

	lang := normalizeLangCode(req.SourceLang)
	if lang == "" {
		lang = LangEnglish
	}
	target := normalizeLangCode(req.TargetLang)
	if target == "" {
		target = LangItalian
	}
	if err := validatePair(lang, target); err != nil {
		return Failed(err)
	}

	form := url.Values{}
	form.Set("text", req.Text)
	form.Set("lang", lang)
	form.Set("target", target)

	started := globaltime.Now()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpointURL, strings.NewReader(form.Encode()))
	if err != nil {
		return Failed(fmt.Errorf("build translation request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return classify(req.Text, fmt.Errorf("send translation request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return classify(req.Text, fmt.Errorf("read translation response: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Failed(fmt.Errorf("translation endpoint status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var parsed ansaTranslationResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Failed(fmt.Errorf("decode translation response: %w", err))
	}

	result := OK(req.Text)
	if parsed.TranslatedText != nil {
		result.Text = *parsed.TranslatedText
	}
	result.LatencyMs = globaltime.Since(started).Milliseconds()
	return result
}

// classify keeps the one recoverable case, a slow response, apart from every
// other transport failure. A cancelled caller context is a failure.
func classify(original string, err error) Result {
	if transport.IsReadTimeout(err) && !errors.Is(err, context.Canceled) {
		return TimedOut(original, err)
	}
	return Failed(err)
}
