package sim

import (
	"context"
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
)

// SimulationSample is the outcome of one Monte Carlo draw: the perturbed
// inputs actually used and the unclamped raw capacity they produced.
type SimulationSample struct {
	Iteration               int // 1-based
	SafetyInterval          float64
	SafetyFactor            float64
	RestrictedAirspaceRatio float64
	EfficiencyFactor        float64
	Capacity                float64
}

// SampleFunc receives each sample with progress = iteration/iterations.
// It must not retain or modify the base ParameterSet.
type SampleFunc func(sample SimulationSample, progress float64)

// RunStatus is the end-of-run signal of a sweep.
type RunStatus string

const (
	RunCompleted RunStatus = "completed"
	RunCancelled RunStatus = "cancelled"
	RunFailed    RunStatus = "failed"
)

// RunOutcome summarizes how a sweep ended.
type RunOutcome struct {
	Status    RunStatus
	Requested int // iterations asked for
	Delivered int // samples handed to the callback
}

// Cancelled reports whether the run stopped early on request.
func (o RunOutcome) Cancelled() bool {
	return o.Status == RunCancelled
}

// Driver runs Monte Carlo sensitivity sweeps over the capacity model.
type Driver struct {
	sampler *Sampler
}

// NewDriver creates a Driver drawing perturbations from sampler.
func NewDriver(sampler *Sampler) *Driver {
	return &Driver{sampler: sampler}
}

// NewSeededDriver builds a Driver with its own PartitionedRNG for seed.
func NewSeededDriver(seed int64, cfg PerturbationConfig) (*Driver, error) {
	sampler, err := NewSampler(NewPartitionedRNG(NewSimulationKey(seed)), cfg)
	if err != nil {
		return nil, err
	}
	return NewDriver(sampler), nil
}

// Run perturbs base, evaluates it and delivers one sample per iteration.
//
// Cancellation of ctx is observed before every draw and at the yield point
// after every sample, and returns RunCancelled with a nil error; samples
// already delivered stay valid. A model error on any draw aborts the whole
// run with RunFailed.
func (d *Driver) Run(ctx context.Context, base ParameterSet, iterations int, onSample SampleFunc) (RunOutcome, error) {
	outcome := RunOutcome{Status: RunFailed, Requested: iterations}
	if iterations <= 0 {
		return outcome, &ParameterError{Field: "iterations", Value: float64(iterations), Constraint: "positive"}
	}
	if err := base.Validate(); err != nil {
		return outcome, fmt.Errorf("base parameters: %w", err)
	}

	logrus.Debugf("Starting sweep: %d iterations, %d speed pairs", iterations, len(base.SpeedCombinations))
	for i := 1; i <= iterations; i++ {
		if ctx.Err() != nil {
			return cancelRun(outcome), nil
		}

		params := d.sampler.Perturb(base)
		result, err := Evaluate(params)
		if err != nil {
			return outcome, fmt.Errorf("iteration %d: %w", i, err)
		}

		sample := SimulationSample{
			Iteration:               i,
			SafetyInterval:          params.SafetyInterval,
			SafetyFactor:            params.SafetyFactor,
			RestrictedAirspaceRatio: params.RestrictedAirspaceRatio,
			EfficiencyFactor:        params.EfficiencyFactor,
			Capacity:                result.RawCapacity,
		}
		if onSample != nil {
			onSample(sample, float64(i)/float64(iterations))
		}
		outcome.Delivered++

		// Yield so progress can be observed and cancellation requested
		// between iterations, then check without blocking.
		runtime.Gosched()
		if i < iterations && ctx.Err() != nil {
			return cancelRun(outcome), nil
		}
	}

	outcome.Status = RunCompleted
	logrus.Debugf("Sweep complete: %d samples", outcome.Delivered)
	return outcome, nil
}

func cancelRun(outcome RunOutcome) RunOutcome {
	outcome.Status = RunCancelled
	logrus.Infof("Sweep cancelled after %d/%d samples", outcome.Delivered, outcome.Requested)
	return outcome
}
