package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/notargets/hydro1d/physics"
	"github.com/notargets/hydro1d/solver"
)

const namespace = "hydro1d"

// Metrics is a solver observer that records run progress on its own
// registry, for export to a node exporter textfile at the end of a run.
type Metrics struct {
	Registry   *prometheus.Registry
	steps      prometheus.Counter
	rejections prometheus.Counter
	snapshots  prometheus.Counter
	limits     *prometheus.CounterVec
	stepSize   prometheus.Histogram
	simTime    prometheus.Gauge
	errEst     prometheus.Gauge
	minDensity prometheus.Gauge
}

func NewMetrics() (m *Metrics) {
	m = &Metrics{
		Registry: prometheus.NewRegistry(),
		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_total",
			Help:      "Accepted integrator steps.",
		}),
		rejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "step_rejections_total",
			Help:      "Step attempts rejected by error control.",
		}),
		snapshots: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_total",
			Help:      "Snapshots delivered to observers.",
		}),
		limits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "step_limit_total",
			Help:      "Accepted steps by the bound that set their size.",
		}, []string{"limit"}),
		stepSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "step_size",
			Help:      "Size of accepted steps.",
			Buckets:   prometheus.ExponentialBuckets(1.e-8, 10, 9),
		}),
		simTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "simulation_time",
			Help:      "Solution time after the last accepted step.",
		}),
		errEst: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "error_estimate",
			Help:      "Scaled local error of the last accepted step.",
		}),
		minDensity: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "min_density",
			Help:      "Smallest interior density after the last accepted step.",
		}),
	}
	m.Registry.MustRegister(m.steps, m.rejections, m.snapshots, m.limits,
		m.stepSize, m.simTime, m.errEst, m.minDensity)
	return
}

func (m *Metrics) OnStep(info solver.StepInfo) {
	m.steps.Inc()
	m.rejections.Add(float64(info.Outcome.Rejections))
	m.limits.WithLabelValues(info.Kind.String()).Inc()
	m.stepSize.Observe(info.Dt)
	m.simTime.Set(info.Time)
	m.errEst.Set(info.Outcome.ErrorEstimate)
	if info.State != nil {
		m.minDensity.Set(info.State.MinPrimitive(physics.JRho))
	}
}

func (m *Metrics) OnSnapshot(snap *solver.Snapshot) error {
	m.snapshots.Inc()
	return nil
}

// WriteToTextfile writes the current values in the text exposition format.
func (m *Metrics) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
