package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/cnftree/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// OutcomeOK labels successful transformations; failures use the error kind.
const OutcomeOK = "ok"

// Metrics holds the transformer's Prometheus collectors on a private registry.
type Metrics struct {
	registry  *prometheus.Registry
	documents *prometheus.CounterVec
	includes  prometheus.Counter
	duration  prometheus.Histogram
	cache     *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them, together with the Go
// runtime and process collectors, on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		documents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cnftree_documents_total",
				Help: "Total number of top-level documents transformed, by outcome",
			},
			[]string{"outcome"},
		),
		includes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cnftree_includes_total",
			Help: "Total number of include directives resolved",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cnftree_transform_duration_seconds",
			Help:    "Duration of top-level document transformations",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
		}),
		cache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cnftree_cache_requests_total",
				Help: "Tree cache lookups, by result",
			},
			[]string{"result"},
		),
	}
	m.registry.MustRegister(
		m.documents, m.includes, m.duration, m.cache,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Hooks records document outcomes, durations and include counts.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDocumentDone: func(ctx context.Context, e *domain.DocumentEvent) {
			outcome := OutcomeOK
			if e.Err != nil {
				outcome = string(domain.Kind(e.Err))
			}
			m.documents.WithLabelValues(outcome).Inc()
			m.duration.Observe(e.Duration.Seconds())
		},
		OnInclude: func(ctx context.Context, e *domain.IncludeEvent) {
			m.includes.Inc()
		},
	}
}

// ObserveCache counts a cache lookup.
func (m *Metrics) ObserveCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cache.WithLabelValues(result).Inc()
}

// Registry exposes the underlying registry, e.g. to add collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
