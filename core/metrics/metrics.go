package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metric names.
const (
	MetricJobsTotal           = "catalog_sync_jobs_total"
	MetricJobsRunning         = "catalog_sync_jobs_running"
	MetricItemsTotal          = "catalog_sync_items_total"
	MetricItemRetriesTotal    = "catalog_sync_item_retries_total"
	MetricItemDurationSeconds = "catalog_sync_item_duration_seconds"
)

// Item outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds the service collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	jobsTotal    *prometheus.CounterVec
	jobsRunning  prometheus.Gauge
	itemsTotal   *prometheus.CounterVec
	itemRetries  *prometheus.CounterVec
	itemDuration *prometheus.HistogramVec
}

// New creates and registers all collectors, including Go runtime and process metrics.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		jobsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricJobsTotal,
			Help: "Sync jobs that reached a terminal status",
		}, []string{"kind", "status"}),
		jobsRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: MetricJobsRunning,
			Help: "Sync jobs currently running",
		}),
		itemsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricItemsTotal,
			Help: "Synced items by destination platform and outcome",
		}, []string{"platform", "kind", "outcome"}),
		itemRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricItemRetriesTotal,
			Help: "Retries after transient platform errors",
		}, []string{"platform"}),
		itemDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    MetricItemDurationSeconds,
			Help:    "Time spent syncing one item, retries included",
			Buckets: prometheus.DefBuckets,
		}, []string{"platform"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.jobsTotal,
		m.jobsRunning,
		m.itemsTotal,
		m.itemRetries,
		m.itemDuration,
	)
	return m
}

// Registry exposes the underlying registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) JobStarted() {
	if m == nil {
		return
	}
	m.jobsRunning.Inc()
}

// JobFinished records a job reaching a terminal status. Only call it for jobs that
// went through JobStarted.
func (m *Metrics) JobFinished(kind, status string) {
	if m == nil {
		return
	}
	m.jobsRunning.Dec()
	m.jobsTotal.WithLabelValues(kind, status).Inc()
}

// JobRejected records a job that failed before it started.
func (m *Metrics) JobRejected(kind, status string) {
	if m == nil {
		return
	}
	m.jobsTotal.WithLabelValues(kind, status).Inc()
}

func (m *Metrics) ItemSynced(platform, kind string, success bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if !success {
		outcome = OutcomeFailure
	}
	m.itemsTotal.WithLabelValues(platform, kind, outcome).Inc()
	m.itemDuration.WithLabelValues(platform).Observe(elapsed.Seconds())
}

func (m *Metrics) ItemRetried(platform string) {
	if m == nil {
		return
	}
	m.itemRetries.WithLabelValues(platform).Inc()
}
