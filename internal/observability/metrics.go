package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// advisory service.
type Metrics struct {
	// Location resolution metrics.
	ResolveRequests    *prometheus.CounterVec // labels: strategy={semantic,fuzzy}, outcome={hit,empty,error}
	ResolveDuration    prometheus.Histogram
	NoMatchTotal       prometheus.Counter
	CoordinateSearches prometheus.Counter
	SemanticIndexReady prometheus.Gauge
	CatalogSize        prometheus.Gauge

	// Embedding backend metrics.
	EmbeddingRequests *prometheus.CounterVec // labels: kind={query,documents}, outcome={success,error}
	EmbeddingDuration prometheus.Histogram
	EmbeddingCache    *prometheus.CounterVec // labels: result={hit,miss}

	// Advisory generation metrics.
	AdvisoryRequests *prometheus.CounterVec // labels: outcome={generated,fallback}

	// Text-to-speech metrics.
	TTSRequests *prometheus.CounterVec // labels: outcome={success,error}
	AudioCache  *prometheus.CounterVec // labels: result={hit,miss}

	// Audit event publishing metrics.
	AuditEvents *prometheus.CounterVec // labels: outcome={published,error}
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ResolveRequests,
		m.ResolveDuration,
		m.NoMatchTotal,
		m.CoordinateSearches,
		m.SemanticIndexReady,
		m.CatalogSize,
		m.EmbeddingRequests,
		m.EmbeddingDuration,
		m.EmbeddingCache,
		m.AdvisoryRequests,
		m.TTSRequests,
		m.AudioCache,
		m.AuditEvents,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ResolveRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "groundwater",
			Name:      "resolve_requests_total",
			Help:      "Text resolution attempts by strategy and outcome.",
		}, []string{"strategy", "outcome"}),
		ResolveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "groundwater",
			Name:      "resolve_duration_seconds",
			Help:      "Duration of a complete text resolution including fallbacks.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		NoMatchTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "groundwater",
			Name:      "resolve_no_match_total",
			Help:      "Queries for which every matching strategy returned empty.",
		}),
		CoordinateSearches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "groundwater",
			Name:      "coordinate_searches_total",
			Help:      "Radius searches by caller-supplied coordinates.",
		}),
		SemanticIndexReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "groundwater",
			Name:      "semantic_index_ready",
			Help:      "1 when the semantic document index is built, 0 otherwise.",
		}),
		CatalogSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "groundwater",
			Name:      "catalog_blocks",
			Help:      "Number of block records loaded into the catalog.",
		}),
		EmbeddingRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "groundwater",
			Name:      "embedding_requests_total",
			Help:      "Embedding backend requests by kind and outcome.",
		}, []string{"kind", "outcome"}),
		EmbeddingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "groundwater",
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding backend request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		EmbeddingCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "groundwater",
			Name:      "embedding_cache_total",
			Help:      "Query-embedding cache lookups by result.",
		}, []string{"result"}),
		AdvisoryRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "groundwater",
			Name:      "advisory_requests_total",
			Help:      "Advisory generations by outcome (generated or static fallback).",
		}, []string{"outcome"}),
		TTSRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "groundwater",
			Name:      "tts_requests_total",
			Help:      "Text-to-speech synthesis requests by outcome.",
		}, []string{"outcome"}),
		AudioCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "groundwater",
			Name:      "audio_cache_total",
			Help:      "Audio cache lookups by result.",
		}, []string{"result"}),
		AuditEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "groundwater",
			Name:      "audit_events_total",
			Help:      "Resolution audit events by publish outcome.",
		}, []string{"outcome"}),
	}
}
