// Package metrics provides Prometheus metrics for the analysis service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pipeline stages timed by ObserveStage.
const (
	StageFeatures   = "features"
	StageEmbedding  = "embedding"
	StageSearch     = "search"
	StageRerank     = "rerank"
	StageGeneration = "generation"
	StageConfidence = "confidence"
	StagePersist    = "persist"
)

// Manager holds the service's Prometheus collectors.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         *prometheus.Registry

	analyses           *prometheus.CounterVec
	collaboratorErrors *prometheus.CounterVec
	cacheLookups       *prometheus.CounterVec
	stageLatency       *prometheus.HistogramVec
	confidenceScore    prometheus.Histogram
	casesIndexed       prometheus.Counter
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithSubsystem sets the subsystem for all metrics.
func WithSubsystem(subsystem string) Option {
	return func(m *Manager) {
		if subsystem != "" {
			m.subsystem = subsystem
		}
	}
}

// WithHistogramBuckets sets the latency buckets, in seconds.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = buckets
		}
	}
}

// WithMetricsEnabled enables or disables recording.
func WithMetricsEnabled(enabled bool) Option {
	return func(m *Manager) {
		m.enabled = enabled
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// NewManager creates a Manager on a fresh registry unless one is given.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "casevalue",
		subsystem:        "analysis",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.analyses = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "analyses_total",
		Help:      "Total number of case analyses by result status",
	}, []string{"status"})

	m.collaboratorErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "collaborator_errors_total",
		Help:      "Total number of collaborator failures by component",
	}, []string{"component"})

	m.cacheLookups = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "embedding_cache_lookups_total",
		Help:      "Embedding cache lookups by result",
	}, []string{"result"})

	m.stageLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stage_duration_seconds",
		Help:      "Duration of each analysis pipeline stage",
		Buckets:   m.histogramBuckets,
	}, []string{"stage"})

	m.confidenceScore = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "consensus_confidence_score",
		Help:      "Distribution of consensus confidence scores (1-10)",
		Buckets:   prometheus.LinearBuckets(1, 1, 10),
	})

	m.casesIndexed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cases_indexed_total",
		Help:      "Total number of historical cases embedded into the corpus",
	})
}

// Registry exposes the registry for tests and custom handlers.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordAnalysis counts a finished analysis.
func (m *Manager) RecordAnalysis(status string) {
	if m == nil || !m.enabled {
		return
	}
	m.analyses.WithLabelValues(status).Inc()
}

// RecordCollaboratorError counts a failed embed, search, generate, store or archive call.
func (m *Manager) RecordCollaboratorError(component string) {
	if m == nil || !m.enabled {
		return
	}
	m.collaboratorErrors.WithLabelValues(component).Inc()
}

// RecordCacheLookup implements cache.LookupRecorder.
func (m *Manager) RecordCacheLookup(hit bool) {
	if m == nil || !m.enabled {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// ObserveStage records how long a pipeline stage took.
func (m *Manager) ObserveStage(stage string, d time.Duration) {
	if m == nil || !m.enabled {
		return
	}
	m.stageLatency.WithLabelValues(stage).Observe(d.Seconds())
}

// ObserveConfidence records a consensus score.
func (m *Manager) ObserveConfidence(score float64) {
	if m == nil || !m.enabled {
		return
	}
	m.confidenceScore.Observe(score)
}

// RecordIndexed counts an indexed corpus case.
func (m *Manager) RecordIndexed() {
	if m == nil || !m.enabled {
		return
	}
	m.casesIndexed.Inc()
}
