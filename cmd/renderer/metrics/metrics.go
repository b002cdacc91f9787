// Package metrics provides Prometheus metrics instrumentation for the renderer.
//
// Metrics exposed:
//   - commutemap_fetch_seconds: Histogram of data acquisition latency
//   - commutemap_render_seconds: Histogram of chart render latency
//   - commutemap_samples_rendered: Gauge of samples in the last successful chart
//   - commutemap_last_success_timestamp_seconds: Gauge of the last successful refresh
//   - commutemap_cycles_total: Counter of refresh cycles by outcome
//   - commutemap_errors_total: Counter of errors by component and reason
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	FetchDuration   *prometheus.HistogramVec
	RenderDuration  *prometheus.HistogramVec
	SamplesRendered prometheus.Gauge
	LastSuccess     prometheus.Gauge
	Cycles          *prometheus.CounterVec
	Errors          *prometheus.CounterVec
}

// New registers the renderer metrics on reg. A nil reg means
// prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		FetchDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "commutemap_fetch_seconds",
			Help:    "Duration of commute data acquisition by source",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"}),

		RenderDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "commutemap_render_seconds",
			Help:    "Duration of chart rendering by format",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		}, []string{"format"}),

		SamplesRendered: f.NewGauge(prometheus.GaugeOpts{
			Name: "commutemap_samples_rendered",
			Help: "Number of samples in the last successfully rendered chart",
		}),

		LastSuccess: f.NewGauge(prometheus.GaugeOpts{
			Name: "commutemap_last_success_timestamp_seconds",
			Help: "Unix time of the last successful refresh",
		}),

		Cycles: f.NewCounterVec(prometheus.CounterOpts{
			Name: "commutemap_cycles_total",
			Help: "Total number of refresh cycles by outcome",
		}, []string{"outcome"}),

		Errors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "commutemap_errors_total",
			Help: "Total number of errors by component and reason",
		}, []string{"component", "reason"}),
	}
}

func (m *Metrics) ObserveFetch(source string, d time.Duration) {
	m.FetchDuration.WithLabelValues(source).Observe(d.Seconds())
}

func (m *Metrics) ObserveRender(format string, d time.Duration) {
	m.RenderDuration.WithLabelValues(format).Observe(d.Seconds())
}

// RecordSuccess marks a rendered cycle.
func (m *Metrics) RecordSuccess(samples int, at time.Time) {
	m.SamplesRendered.Set(float64(samples))
	m.LastSuccess.Set(float64(at.Unix()))
	m.Cycles.WithLabelValues("rendered").Inc()
}

// RecordFailure marks a failed cycle and the error that caused it.
func (m *Metrics) RecordFailure(component, reason string) {
	m.Cycles.WithLabelValues("failed").Inc()
	m.RecordError(component, reason)
}

func (m *Metrics) RecordError(component, reason string) {
	m.Errors.WithLabelValues(component, reason).Inc()
}
