package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/eddiefleurent/option_screener/internal/models"
)

// Metrics holds all Prometheus metrics for the screening service.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	ScreenDuration  prometheus.Histogram
	StrategiesTotal *prometheus.CounterVec
	TagsTotal       *prometheus.CounterVec
	BatchSize       prometheus.Histogram
}

// NewMetrics registers and returns all service metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "screener_http_requests_total",
			Help: "Total HTTP requests by route and status code",
		}, []string{"route", "status"}),
		ScreenDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "screener_screen_duration_seconds",
			Help:    "Engine run duration per portfolio",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
		StrategiesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "screener_strategies_total",
			Help: "Total multi-leg strategies extracted by name",
		}, []string{"strategy"}),
		TagsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "screener_tags_total",
			Help: "Total single-leg tags emitted by value",
		}, []string{"tag"}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "screener_batch_size",
			Help:    "Portfolios per batch request",
			Buckets: []float64{1, 2, 5, 10, 20, 50},
		}),
	}

	reg.MustRegister(
		m.RequestsTotal,
		m.ScreenDuration,
		m.StrategiesTotal,
		m.TagsTotal,
		m.BatchSize,
	)

	return m
}

// RecordScreen observes one engine run and counts its outputs.
func (m *Metrics) RecordScreen(duration time.Duration, results []models.ScreenResult) {
	m.ScreenDuration.Observe(duration.Seconds())
	for _, r := range results {
		switch v := r.(type) {
		case models.OptionStrategy:
			m.StrategiesTotal.WithLabelValues(string(v.StrategyName)).Inc()
		case models.TaggedOptionPosition:
			m.TagsTotal.WithLabelValues(string(v.Tag)).Inc()
		}
	}
}
