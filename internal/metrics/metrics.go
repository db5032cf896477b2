// Package metrics provides Prometheus metrics for sign and verify operations.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "jwtlite"

// Operation labels
const (
	OperationSign   = "sign"
	OperationVerify = "verify"
)

// OutcomeOK is the outcome label of a successful operation. Failures use their reason.
const OutcomeOK = "ok"

// Recorder counts operations by algorithm and outcome. A nil *Recorder records nothing.
type Recorder struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewRecorder creates the collectors and registers them with reg.
// Registering twice against the same registry reuses the existing collectors.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	operations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Total number of token operations by algorithm and outcome",
		},
		[]string{"operation", "alg", "outcome"},
	)

	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Token operation latency in seconds",
			Buckets:   []float64{.000005, .00001, .000025, .00005, .0001, .00025, .0005, .001, .005},
		},
		[]string{"operation"},
	)

	var err error
	if operations, err = register(reg, operations); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}

	return &Recorder{operations: operations, duration: duration}, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Observe records one finished operation.
func (r *Recorder) Observe(operation, alg, outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.operations.WithLabelValues(operation, alg, outcome).Inc()
	r.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}
