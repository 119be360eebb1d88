package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the flood monitor.
type Metrics struct {
	MonitorRunning prometheus.Gauge
	RecordsCurrent prometheus.Gauge

	// Upstream feed metrics.
	FetchRequests *prometheus.CounterVec // labels: outcome={success,error,discarded}
	FetchDuration prometheus.Histogram

	// Snapshot cache metrics.
	CacheLookups *prometheus.CounterVec // labels: result={hit,miss,expired,corrupt}
	CacheWrites  *prometheus.CounterVec // labels: outcome={success,error}

	PublishErrors prometheus.Counter
}

// NewMetrics creates and registers all monitor metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.MonitorRunning,
		m.RecordsCurrent,
		m.FetchRequests,
		m.FetchDuration,
		m.CacheLookups,
		m.CacheWrites,
		m.PublishErrors,
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
		MonitorRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "flood_monitor",
			Name:      "running",
			Help:      "1 while the refresh loop is active, 0 after teardown.",
		}),
		RecordsCurrent: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "flood_monitor",
			Name:      "records",
			Help:      "Number of flood records currently held in memory.",
		}),
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flood_monitor",
			Name:      "fetch_requests_total",
			Help:      "Flood feed requests by outcome.",
		}, []string{"outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "flood_monitor",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of a flood feed request including decoding.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flood_monitor",
			Name:      "cache_lookups_total",
			Help:      "Snapshot cache lookups by result.",
		}, []string{"result"}),
		CacheWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flood_monitor",
			Name:      "cache_writes_total",
			Help:      "Snapshot cache writes by outcome.",
		}, []string{"outcome"}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flood_monitor",
			Name:      "publish_errors_total",
			Help:      "Failed attempts to publish refreshed records to Kafka.",
		}),
	}
}
