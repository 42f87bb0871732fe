package api

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/insightdelivered/card-statement-parser/internal/models"
	"github.com/insightdelivered/card-statement-parser/internal/parser"
)

// Metrics records extraction outcomes on a private registry so several apps
// can live in one process.
type Metrics struct {
	registry    *prometheus.Registry
	extractions *prometheus.CounterVec
	notFound    *prometheus.CounterVec
	failures    *prometheus.CounterVec
	pdfSeconds  prometheus.Histogram
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		extractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "statement_extractions_total",
			Help: "Statements run through field extraction, by detected issuer and rule set kind.",
		}, []string{"issuer", "kind"}),
		notFound: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "statement_fields_not_found_total",
			Help: "Fields that resolved to Not Found, by field.",
		}, []string{"field"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "statement_extraction_failures_total",
			Help: "Requests that produced no extraction, by stage.",
		}, []string{"stage"}),
		pdfSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "statement_pdf_text_seconds",
			Help:    "Time spent pulling text out of a PDF.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
	}
	m.registry.MustRegister(m.extractions, m.notFound, m.failures, m.pdfSeconds)
	return m
}

// ObserveResult counts one extraction and each field it could not fill.
func (m *Metrics) ObserveResult(res parser.Result) {
	m.extractions.WithLabelValues(string(res.Issuer), res.Kind.String()).Inc()
	for _, f := range models.Fields {
		if res.Details.Get(f) == models.NotFound {
			m.notFound.WithLabelValues(string(f)).Inc()
		}
	}
}

func (m *Metrics) ObserveFailure(stage string) {
	m.failures.WithLabelValues(stage).Inc()
}

func (m *Metrics) ObservePDF(d time.Duration) {
	m.pdfSeconds.Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
