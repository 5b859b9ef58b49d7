// Package metrics exposes Prometheus collectors for capacity evaluations and
// Monte Carlo sweeps.
package metrics

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/airspace-sim/aircap/sim"
)

// SweepCollector bundles the sweep and evaluation metrics and serves them
// over HTTP.
type SweepCollector struct {
	gatherer prometheus.Gatherer

	Samples     prometheus.Counter
	Runs        *prometheus.CounterVec
	Evaluations *prometheus.CounterVec
	Capacity    prometheus.Histogram
	Progress    prometheus.Gauge
	Estimate    prometheus.Gauge
}

// NewSweepCollector registers the collectors against reg, defaulting to the
// global Prometheus registry when nil. Registering twice on the same
// registry returns the existing collectors.
func NewSweepCollector(reg prometheus.Registerer) (*SweepCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	samples, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "aircap_sweep_samples_total",
		Help: "Monte Carlo samples delivered across all sweeps.",
	}), "aircap_sweep_samples_total")
	if err != nil {
		return nil, err
	}
	runs, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "aircap_sweep_runs_total",
		Help: "Finished sweeps, labeled by outcome.",
	}, []string{"outcome"}), "aircap_sweep_runs_total")
	if err != nil {
		return nil, err
	}
	evaluations, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "aircap_evaluations_total",
		Help: "Capacity evaluations made by sweeps, labeled by result (ok, domain_error, parameter_error, error).",
	}, []string{"result"}), "aircap_evaluations_total")
	if err != nil {
		return nil, err
	}
	capacity, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "aircap_sample_capacity_flights_per_hour",
		Help:    "Unclamped raw capacity of each delivered sample.",
		Buckets: []float64{1, 2, 5, 10, 20, 30, 50, 75, 100, 150, 250, 500},
	}), "aircap_sample_capacity_flights_per_hour")
	if err != nil {
		return nil, err
	}
	progress, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "aircap_sweep_progress_ratio",
		Help: "Progress of the current sweep in [0, 1].",
	}), "aircap_sweep_progress_ratio")
	if err != nil {
		return nil, err
	}
	estimate, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "aircap_sweep_estimate_flights_per_hour",
		Help: "Capped running estimate of the current sweep.",
	}), "aircap_sweep_estimate_flights_per_hour")
	if err != nil {
		return nil, err
	}

	return &SweepCollector{
		gatherer:    gatherer,
		Samples:     samples,
		Runs:        runs,
		Evaluations: evaluations,
		Capacity:    capacity,
		Progress:    progress,
		Estimate:    estimate,
	}, nil
}

// ObserveSample records one delivered sample and the running estimate.
func (c *SweepCollector) ObserveSample(sample sim.SimulationSample, progress, estimate float64) {
	if c == nil {
		return
	}
	c.Samples.Inc()
	c.Capacity.Observe(sample.Capacity)
	c.Progress.Set(progress)
	c.Estimate.Set(estimate)
}

// ObserveRun counts a finished sweep by its outcome.
func (c *SweepCollector) ObserveRun(outcome sim.RunOutcome) {
	if c == nil {
		return
	}
	c.Runs.WithLabelValues(string(outcome.Status)).Inc()
}

// ObserveEvaluation counts a single evaluation by the class of err.
func (c *SweepCollector) ObserveEvaluation(err error) {
	if c == nil {
		return
	}
	c.Evaluations.WithLabelValues(EvaluationResult(err)).Inc()
}

// EvaluationResult maps an Evaluate error to its metric label.
func EvaluationResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, sim.ErrDomain):
		return "domain_error"
	case errors.Is(err, sim.ErrParameter):
		return "parameter_error"
	default:
		return "error"
	}
}

// Handler exposes a ready-to-use /metrics handler.
func (c *SweepCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
