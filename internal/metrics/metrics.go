// Package metrics counts what a corrosim run loaded, skipped and evaluated.
// Counters live in a private registry and can be written to a
// node-exporter textfile at the end of the run.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "corrosim"

// Skip reasons.
const (
	ReasonParse          = "parse"
	ReasonDuplicate      = "duplicate"
	ReasonClassification = "classification"
	ReasonUnknownModel   = "unknown_model"
	ReasonConstruct      = "construct"
)

// Metrics holds the run counters.
type Metrics struct {
	reg *prometheus.Registry

	// RecordsLoaded counts loaded records by kind.
	RecordsLoaded *prometheus.CounterVec
	// RecordsSkipped counts skipped records by kind and reason.
	RecordsSkipped *prometheus.CounterVec
	// Evaluations counts Loss sampling runs by model identifier.
	Evaluations *prometheus.CounterVec
	// Samples counts evaluated time points.
	Samples prometheus.Counter
	// EvaluationSeconds observes the time spent sampling one model.
	EvaluationSeconds prometheus.Histogram
	// ValidationFailures counts rejected parameter sets by model identifier.
	ValidationFailures *prometheus.CounterVec
	// FiguresRendered counts written image files by format.
	FiguresRendered *prometheus.CounterVec
}

// New returns counters registered in a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		RecordsLoaded: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "records",
			Name:      "loaded_total",
			Help:      "Records loaded from record directories",
		}, []string{"kind"}),
		RecordsSkipped: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "records",
			Name:      "skipped_total",
			Help:      "Records reported and skipped",
		}, []string{"kind", "reason"}),
		Evaluations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "models",
			Name:      "evaluations_total",
			Help:      "Model sampling runs",
		}, []string{"model"}),
		Samples: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "models",
			Name:      "samples_total",
			Help:      "Time points evaluated",
		}),
		EvaluationSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "models",
			Name:      "evaluation_seconds",
			Help:      "Time spent sampling one model",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		ValidationFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "models",
			Name:      "validation_failures_total",
			Help:      "Parameter sets rejected before Configure",
		}, []string{"model"}),
		FiguresRendered: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "plot",
			Name:      "figures_rendered_total",
			Help:      "Image files written",
		}, []string{"format"}),
	}
}

// Registry returns the registry the counters live in.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// WriteTextfile writes every counter to path in the Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
