package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// prediction service.
type Metrics struct {
	Predictions        *prometheus.CounterVec // labels: risk_label={low,moderate_or_high}
	ValidationFailures *prometheus.CounterVec // labels: field
	InferenceDuration  prometheus.Histogram

	CacheLookups *prometheus.CounterVec // labels: result={hit,miss}
	PublishTotal *prometheus.CounterVec // labels: outcome={success,error}

	ModelLoaded prometheus.Gauge
	HistorySize prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fire_risk",
			Name:      "predictions_total",
			Help:      "Total predictions served, by risk label.",
		}, []string{"risk_label"}),
		ValidationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fire_risk",
			Name:      "validation_failures_total",
			Help:      "Total rejected requests, by offending input field.",
		}, []string{"field"}),
		InferenceDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fire_risk",
			Name:      "inference_duration_seconds",
			Help:      "Duration of one forest evaluation including calibration.",
			Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fire_risk",
			Name:      "cache_lookups_total",
			Help:      "Prediction cache lookups, by result.",
		}, []string{"result"}),
		PublishTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fire_risk",
			Name:      "publish_total",
			Help:      "Prediction events published to the sink topic, by outcome.",
		}, []string{"outcome"}),
		ModelLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fire_risk",
			Name:      "model_loaded",
			Help:      "1 when the model artifact is loaded, 0 otherwise.",
		}),
		HistorySize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fire_risk",
			Name:      "history_size",
			Help:      "Number of prediction records currently held in history.",
		}),
	}

	prometheus.MustRegister(
		m.Predictions,
		m.ValidationFailures,
		m.InferenceDuration,
		m.CacheLookups,
		m.PublishTotal,
		m.ModelLoaded,
		m.HistorySize,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		Predictions:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "fire_risk", Name: "predictions_total"}, []string{"risk_label"}),
		ValidationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "fire_risk", Name: "validation_failures_total"}, []string{"field"}),
		InferenceDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "fire_risk", Name: "inference_duration_seconds"}),
		CacheLookups:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "fire_risk", Name: "cache_lookups_total"}, []string{"result"}),
		PublishTotal:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "fire_risk", Name: "publish_total"}, []string{"outcome"}),
		ModelLoaded:        prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "fire_risk", Name: "model_loaded"}),
		HistorySize:        prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "fire_risk", Name: "history_size"}),
	}
}
