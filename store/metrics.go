package store

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jacentio/dynamodel/schema"
)

// Metrics records Model operation counts and latencies. A nil *Metrics
// records nothing.
type Metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewMetrics creates the operation metrics and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "dynamodel",
				Name:      "operations_total",
				Help:      "Total number of model operations",
			},
			[]string{"model", "operation", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "dynamodel",
				Name:      "operation_duration_seconds",
				Help:      "Model operation duration in seconds",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"model", "operation"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.operations, m.duration)
	}
	return m
}

func (m *Metrics) observe(model, op string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(model, op, status(err)).Inc()
	m.duration.WithLabelValues(model, op).Observe(time.Since(start).Seconds())
}

func status(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConditionFailed), errors.Is(err, ErrAlreadyExists):
		return "condition_failed"
	case errors.Is(err, schema.ErrValidation):
		return "invalid"
	default:
		return "error"
	}
}
