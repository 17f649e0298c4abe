package observability

import (
	"time"

	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

const (
	metricSummaries     = "colhecash_summaries_computed_total"
	metricFetchFailures = "colhecash_fetch_failures_total"
	metricAlerts        = "colhecash_alerts_published_total"
)

// Metrics holds all Prometheus metrics for the API.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	fetchFailures   *prometheus.CounterVec
	summaries       *prometheus.CounterVec
	alertsPublished *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "colhecash_request_duration_seconds",
				Help:    "Duration of requests by route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		fetchFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricFetchFailures,
				Help: "Store reads that failed and were degraded to empty data.",
			},
			[]string{"source"},
		),
		summaries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricSummaries,
				Help: "Summaries computed by view.",
			},
			[]string{"view"},
		),
		alertsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricAlerts,
				Help: "Alert events published by code.",
			},
			[]string{"code"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "colhecash_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "colhecash_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrFetchFailure counts a degraded store read.
func (m *Metrics) IncrFetchFailure(source string) {
	m.fetchFailures.WithLabelValues(source).Inc()
}

// IncrSummary counts a computed summary for a view.
func (m *Metrics) IncrSummary(view string) {
	m.summaries.WithLabelValues(view).Inc()
}

// IncrAlertPublished counts a published alert event.
func (m *Metrics) IncrAlertPublished(code domain.AlertCode) {
	m.alertsPublished.WithLabelValues(string(code)).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// Snapshot returns the counters exposed by GET /v1/metrics/resumo.
func (m *Metrics) Snapshot() *domain.MetricsSnapshot {
	hits := getCounterValue(m.cacheHits, "profile")
	misses := getCounterValue(m.cacheMisses, "profile")
	hitRate := float64(0)
	if hits+misses > 0 {
		hitRate = hits / (hits + misses)
	}

	return &domain.MetricsSnapshot{
		SummariesComputed: int64(m.familyTotal(metricSummaries)),
		FetchFailures:     int64(m.familyTotal(metricFetchFailures)),
		AlertsPublished:   int64(m.familyTotal(metricAlerts)),
		CacheHitRate:      hitRate,
	}
}

// familyTotal sums a counter family across all label values.
func (m *Metrics) familyTotal(name string) float64 {
	families, err := m.Registry.Gather()
	if err != nil {
		return 0
	}
	total := float64(0)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, metric := range f.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
	}
	return total
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
