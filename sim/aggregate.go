package sim

import "math"

// Aggregate is the caller-side running result of a sweep. The volume ceiling
// is fixed at construction from the base parameters; samples are averaged
// unclamped and only the mean is capped.
type Aggregate struct {
	ceiling int
	sum     float64
	samples []SimulationSample
}

// NewAggregate creates an empty Aggregate for a sweep over base.
func NewAggregate(base ParameterSet) *Aggregate {
	return &Aggregate{ceiling: FlightsCeiling(base)}
}

// Observe appends a delivered sample.
func (a *Aggregate) Observe(sample SimulationSample) {
	a.samples = append(a.samples, sample)
	a.sum += sample.Capacity
}

// Count returns the number of observed samples.
func (a *Aggregate) Count() int {
	return len(a.samples)
}

// Mean returns the running mean of raw capacities, 0 when empty.
// Use Count to tell an empty aggregate from a zero mean.
func (a *Aggregate) Mean() float64 {
	if len(a.samples) == 0 {
		return 0
	}
	return a.sum / float64(len(a.samples))
}

// Estimate returns min(Mean, FlightsCeiling), the headline capacity.
func (a *Aggregate) Estimate() float64 {
	return math.Min(a.Mean(), float64(a.ceiling))
}

// Ceiling returns the volume-derived flights ceiling of the sweep.
func (a *Aggregate) Ceiling() int {
	return a.ceiling
}

// Samples returns a copy of the observed samples in delivery order.
func (a *Aggregate) Samples() []SimulationSample {
	return append([]SimulationSample(nil), a.samples...)
}
