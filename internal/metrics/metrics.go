package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for remote calls.
type Metrics struct {
	registry *prometheus.Registry

	TranslationsTotal *prometheus.CounterVec
	PhotoRequests     *prometheus.CounterVec
	PhotoDuration     *prometheus.HistogramVec
	MediaStoredBytes  prometheus.Counter
}

// New registers the collectors on a fresh registry so several instances can
// coexist in one process.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		TranslationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ansa_translations_total",
			Help: "Translation calls by outcome.",
		}, []string{"outcome"}), // ok, timed_out, failed
		PhotoRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ansa_photo_requests_total",
			Help: "Photo archive API calls by endpoint and status class.",
		}, []string{"endpoint", "status"}),
		PhotoDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ansa_photo_request_duration_seconds",
			Help:    "Duration of photo archive API calls.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
		}, []string{"endpoint"}),
		MediaStoredBytes: factory.NewCounter(prometheus.CounterOpts{
			Name: "ansa_media_stored_bytes_total",
			Help: "Bytes written to media storage.",
		}),
	}
}

func (m *Metrics) IncTranslation(outcome string) {
	if m == nil {
		return
	}
	m.TranslationsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObservePhotoRequest(endpoint, status string, seconds float64) {
	if m == nil {
		return
	}
	m.PhotoRequests.WithLabelValues(endpoint, status).Inc()
	m.PhotoDuration.WithLabelValues(endpoint).Observe(seconds)
}

func (m *Metrics) AddMediaBytes(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.MediaStoredBytes.Add(float64(n))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
