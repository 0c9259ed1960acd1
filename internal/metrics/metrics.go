// Package metrics records validation run metrics in a Prometheus registry
// that can be written out for the node_exporter textfile collector.
package metrics

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/thoreinstein/docxval/internal/validator"
)

// Target outcomes.
const (
	OutcomeClean   = "clean"
	OutcomeInvalid = "invalid"
	OutcomeFailed  = "failed"
)

// Metrics holds the counters and the duration histogram of one run.
type Metrics struct {
	registry *prometheus.Registry

	Targets          *prometheus.CounterVec
	ValidationErrors *prometheus.CounterVec
	TargetDuration   prometheus.Histogram
}

// New creates the metrics in a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Targets: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "docxval_targets_total",
			Help: "Total number of validated targets by outcome",
		}, []string{"outcome"}),
		ValidationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "docxval_validation_errors_total",
			Help: "Total number of validation errors by error type",
		}, []string{"type"}),
		TargetDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "docxval_target_duration_seconds",
			Help:    "Duration of opening and validating one target",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

// Registry returns the registry holding the metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveTarget counts a finished target under outcome and records the time
// elapsed since start.
func (m *Metrics) ObserveTarget(outcome string, start time.Time) {
	m.Targets.WithLabelValues(outcome).Inc()
	m.TargetDuration.Observe(time.Since(start).Seconds())
}

// IncrementValidationError counts one finding of type t.
func (m *Metrics) IncrementValidationError(t validator.ErrorType) {
	m.ValidationErrors.WithLabelValues(t.String()).Inc()
}

// WriteTextfile writes the registry to path in the text exposition format.
// The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return errors.Wrapf(err, "writing metrics to %s", path)
	}
	return nil
}
