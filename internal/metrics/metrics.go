// Package metrics exposes Prometheus instrumentation for the catalog cache.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the instrument catalog service.
type Metrics struct {
	RefreshTotal       *prometheus.CounterVec // labels: result
	RefreshDur         prometheus.Histogram
	CatalogInstruments prometheus.Gauge
	LastRefreshUnix    prometheus.Gauge
	LookupsTotal       *prometheus.CounterVec // labels: outcome

	registry *prometheus.Registry
}

// NewMetrics registers and returns all Prometheus metrics. Each instance
// carries its own registry so repeated construction never double-registers.
func NewMetrics() *Metrics {
	m := &Metrics{
		RefreshTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_refresh_cycles_total",
			Help: "Total catalog refresh cycles by result",
		}, []string{"result"}),
		RefreshDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "catalog_refresh_duration_seconds",
			Help:    "Duration of catalog refresh cycles",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		CatalogInstruments: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "catalog_instruments",
			Help: "Instrument records in the active catalog",
		}),
		LastRefreshUnix: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "catalog_last_refresh_timestamp_seconds",
			Help: "Unix time of the last successful catalog refresh",
		}),
		LookupsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_lookups_total",
			Help: "Total option lookups by outcome",
		}, []string{"outcome"}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.RefreshTotal,
		m.RefreshDur,
		m.CatalogInstruments,
		m.LastRefreshUnix,
		m.LookupsTotal,
	)

	return m
}

// Handler returns the HTTP handler serving the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
