package translation

import (
	"context"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"horse.fit/ansa/internal/metrics"
)

func testutilCount(m *metrics.Metrics, outcome string) float64 {
	return testutil.ToFloat64(m.TranslationsTotal.WithLabelValues(outcome))
}

type stubProvider struct {
	name    string
	calls   []TranslateRequest
	respond func(req TranslateRequest) Result
	langs   []string
}

func (p *stubProvider) Translate(_ context.Context, req TranslateRequest) Result {
	p.calls = append(p.calls, req)
	if p.respond == nil {
		return OK(req.Text)
	}
	return p.respond(req)
}

func (p *stubProvider) Name() string {
	return p.name
}

func (p *stubProvider) SupportedLanguages() []string {
	if p.langs == nil {
		return SupportedLanguageCodes()
	}
	return p.langs
}
