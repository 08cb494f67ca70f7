// Package metrics owns the Prometheus registry served at /metrics.
package metrics

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/oukeidos/desksort/internal/models"
)

const namespace = "desksort"

// Classification outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeFallback = "fallback"
	OutcomeRejected = "rejected"
)

var (
	appsDesc = prometheus.NewDesc(
		namespace+"_apps",
		"Stored desktop apps by category",
		[]string{"category"},
		nil,
	)
	opensDesc = prometheus.NewDesc(
		namespace+"_app_opens",
		"Stored open count summed by category",
		[]string{"category"},
		nil,
	)
)

// AppSource is read on every scrape.
type AppSource interface {
	Apps() ([]models.AppInfo, error)
}

// StoreCollector reports the persisted app list without caching it.
type StoreCollector struct {
	src AppSource
}

func (c *StoreCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- appsDesc
	ch <- opensDesc
}

func (c *StoreCollector) Collect(ch chan<- prometheus.Metric) {
	apps, err := c.src.Apps()
	if err != nil {
		slog.Error("failed to collect app metrics", "error", err)
		return
	}
	counts := map[string]int{}
	opens := map[string]int{}
	for _, app := range apps {
		cat := app.Category
		if cat == "" {
			cat = "none"
		}
		counts[cat]++
		opens[cat] += app.OpenCount
	}
	for cat, n := range counts {
		ch <- prometheus.MustNewConstMetric(appsDesc, prometheus.GaugeValue, float64(n), cat)
		ch <- prometheus.MustNewConstMetric(opensDesc, prometheus.GaugeValue, float64(opens[cat]), cat)
	}
}

// Metrics groups the live instruments. A nil *Metrics records nothing, so
// callers never need to guard.
type Metrics struct {
	Registry *prometheus.Registry

	ipcRequests       *prometheus.CounterVec
	classifyDuration  prometheus.Histogram
	classifyOutcomes  *prometheus.CounterVec
	appsDiscovered    prometheus.Gauge
	desktopScansTotal prometheus.Counter
}

// New builds a private registry. src may be nil when no store is attached.
func New(src AppSource) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		ipcRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ipc_requests_total",
			Help:      "IPC channel requests by outcome",
		}, []string{"channel", "outcome"}),
		classifyDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "classification_duration_seconds",
			Help:      "Wall time of classification rounds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120, 300, 600},
		}),
		classifyOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifications_total",
			Help:      "Classification rounds by outcome",
		}, []string{"outcome"}),
		appsDiscovered: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "apps_discovered",
			Help:      "Apps found by the most recent desktop scan",
		}),
		desktopScansTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "desktop_scans_total",
			Help:      "Desktop scans performed",
		}),
	}
	reg.MustRegister(
		m.ipcRequests,
		m.classifyDuration,
		m.classifyOutcomes,
		m.appsDiscovered,
		m.desktopScansTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if src != nil {
		reg.MustRegister(&StoreCollector{src: src})
	}
	return m
}

func (m *Metrics) ObserveIPC(channel, outcome string) {
	if m == nil {
		return
	}
	m.ipcRequests.WithLabelValues(channel, outcome).Inc()
}

func (m *Metrics) ObserveScan(found int) {
	if m == nil {
		return
	}
	m.desktopScansTotal.Inc()
	m.appsDiscovered.Set(float64(found))
}

func (m *Metrics) ObserveClassification(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.classifyOutcomes.WithLabelValues(outcome).Inc()
	if outcome != OutcomeRejected {
		m.classifyDuration.Observe(elapsed.Seconds())
	}
}
