package sim

import (
	"fmt"
	"math"
)

// Fixed constants of the separation model.
const (
	SharedRunLength    = 20.0 // γ, shared run length of the separation geometry (km)
	BaseOccupancySigma = 10.0 // occupancy-time std-dev at f = 1 (seconds)
	ReferenceWindow    = 1.0  // Tm, reference time window (hours)

	secondsPerHour = 3600.0
)

// CapacityResult is the output of one model evaluation.
type CapacityResult struct {
	RawCapacity    float64 // flights per reference window, after efficiency derating
	FlightsCeiling int     // floor(available volume / aircraft volume)
	CappedCapacity float64 // min(RawCapacity, FlightsCeiling)
}

// maxCeilingRatio is the smallest volume ratio whose floor no longer fits in an int.
var maxCeilingRatio = float64(math.MaxInt)

// FlightsCeiling is the volume-constrained upper bound on throughput.
// Validate rejects ratios that do not fit in an int; for unvalidated input
// the result saturates at math.MaxInt.
func FlightsCeiling(p ParameterSet) int {
	ratio := p.AvailableVolume / p.AircraftVolume
	if !(ratio < maxCeilingRatio) {
		if math.IsNaN(ratio) || ratio < 0 {
			return 0
		}
		return math.MaxInt
	}
	return int(math.Floor(ratio))
}

// InterArrivalTime returns the required time gap (hours) between a leader and
// its follower. A closing pair needs only the separation over the follower's
// speed; an opening pair also accrues the separation growth over the shared run.
// Both carry the occupancy-time buffer sigmaHours*z.
func InterArrivalTime(pair SpeedPair, delta, sigmaHours, z float64) float64 {
	if !pair.Opening() {
		return delta/pair.Follower + sigmaHours*z
	}
	return delta/pair.Follower +
		(SharedRunLength-delta)*(1/pair.Follower-1/pair.Leader) +
		sigmaHours*z
}

// Evaluate runs the capacity model on p.
// Returns *ParameterError for out-of-range fields and *DomainError for an
// empty catalogue or a zero, negative or non-finite weighted denominator.
func Evaluate(p ParameterSet) (CapacityResult, error) {
	if err := p.Validate(); err != nil {
		return CapacityResult{}, err
	}

	sigma := BaseOccupancySigma / p.SafetyFactor
	sigmaHours := sigma / secondsPerHour
	z := NormalQuantile(1 - p.RestrictedAirspaceRatio)

	weight := 1 / float64(len(p.SpeedCombinations))
	denominator := 0.0
	for _, pair := range p.SpeedCombinations {
		denominator += weight * InterArrivalTime(pair, p.SafetyInterval, sigmaHours, z)
	}

	if err := checkDenominator(denominator); err != nil {
		return CapacityResult{}, err
	}

	raw := (ReferenceWindow / denominator) * p.EfficiencyFactor
	ceiling := FlightsCeiling(p)
	return CapacityResult{
		RawCapacity:    raw,
		FlightsCeiling: ceiling,
		CappedCapacity: math.Min(raw, float64(ceiling)),
	}, nil
}

// checkDenominator rejects a weighted inter-arrival time that is zero,
// negative or not finite.
func checkDenominator(denominator float64) error {
	switch {
	case denominator == 0:
		return &DomainError{Reason: "weighted inter-arrival time is zero"}
	case math.IsNaN(denominator) || math.IsInf(denominator, 0):
		return &DomainError{Reason: fmt.Sprintf("weighted inter-arrival time is not finite (%v)", denominator)}
	case denominator < 0:
		return &DomainError{Reason: fmt.Sprintf("weighted inter-arrival time is negative (%v h)", denominator)}
	}
	return nil
}
