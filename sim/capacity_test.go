package sim

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airspace-sim/aircap/sim/internal/testutil"
)

func singlePair(leader, follower float64) ParameterSet {
	p := DefaultParameterSet()
	p.SpeedCombinations = []SpeedPair{{Leader: leader, Follower: follower}}
	return p
}

func TestEvaluate_ClosingPair_MatchesClosedForm(t *testing.T) {
	// GIVEN one pair where the follower is faster than the leader
	p := singlePair(240, 310)
	p.EfficiencyFactor = 0.8

	// WHEN evaluated
	got, err := Evaluate(p)
	require.NoError(t, err)

	// THEN capacity = E / (Δ/follower + sigma_hours·z)
	sigmaHours := BaseOccupancySigma / p.SafetyFactor / 3600
	z := NormalQuantile(1 - p.RestrictedAirspaceRatio)
	want := p.EfficiencyFactor / (p.SafetyInterval/310 + sigmaHours*z)
	assert.InDelta(t, want, got.RawCapacity, 1e-9)
}

func TestEvaluate_OpeningPair_IncludesSeparationGrowth(t *testing.T) {
	// GIVEN one pair where the leader pulls away
	p := singlePair(280, 230)

	got, err := Evaluate(p)
	require.NoError(t, err)

	// THEN the closed form carries the (γ-Δ)(1/follower - 1/leader) term
	sigmaHours := BaseOccupancySigma / p.SafetyFactor / 3600
	z := NormalQuantile(1 - p.RestrictedAirspaceRatio)
	delta := p.SafetyInterval
	want := p.EfficiencyFactor / (delta/230 + (SharedRunLength-delta)*(1.0/230-1.0/280) + sigmaHours*z)
	assert.InDelta(t, want, got.RawCapacity, 1e-9)
}

func TestEvaluate_EqualSpeeds_TakesClosingBranch(t *testing.T) {
	p := singlePair(260, 260)

	got, err := Evaluate(p)
	require.NoError(t, err)

	sigmaHours := BaseOccupancySigma / p.SafetyFactor / 3600
	z := NormalQuantile(1 - p.RestrictedAirspaceRatio)
	want := p.EfficiencyFactor / (p.SafetyInterval/260 + sigmaHours*z)
	assert.InDelta(t, want, got.RawCapacity, 1e-9)
}

func TestEvaluate_WorkedExample(t *testing.T) {
	// GIVEN the reference corridor and the nine-pair catalogue
	got, err := Evaluate(DefaultParameterSet())
	require.NoError(t, err)

	// THEN raw capacity and the volume ceiling match the reference values
	testutil.AssertFloat64Equal(t, "raw_capacity", 68.00410260849002, got.RawCapacity, 1e-9)
	assert.Equal(t, 20, got.FlightsCeiling)
	assert.Equal(t, 20.0, got.CappedCapacity)
}

func TestEvaluate_GoldenDataset(t *testing.T) {
	dataset := testutil.LoadGoldenDataset(t)
	require.NotEmpty(t, dataset.Tests)

	for _, tc := range dataset.Tests {
		t.Run(tc.Name, func(t *testing.T) {
			speeds := make([]SpeedPair, len(tc.SpeedCombinations))
			for i, s := range tc.SpeedCombinations {
				speeds[i] = SpeedPair{Leader: s.Leader, Follower: s.Follower}
			}
			p, err := NewParameterSet(tc.AvailableVolume, tc.AircraftVolume, tc.SafetyInterval,
				tc.SafetyFactor, tc.RestrictedAirspaceRatio, tc.EfficiencyFactor, speeds)
			require.NoError(t, err)

			got, err := Evaluate(p)
			require.NoError(t, err)

			testutil.AssertFloat64Equal(t, "raw_capacity", tc.Expected.RawCapacity, got.RawCapacity, 1e-9)
			testutil.AssertFloat64Equal(t, "capped_capacity", tc.Expected.CappedCapacity, got.CappedCapacity, 1e-9)
			assert.Equal(t, tc.Expected.FlightsCeiling, got.FlightsCeiling)
		})
	}
}

func TestEvaluate_MonotonicInEfficiency(t *testing.T) {
	p := DefaultParameterSet()
	prev := math.Inf(-1)
	for i := 0; i <= 10; i++ {
		p.EfficiencyFactor = float64(i) / 10
		got, err := Evaluate(p)
		require.NoError(t, err)
		if got.RawCapacity < prev {
			t.Fatalf("capacity decreased at E=%v: %v < %v", p.EfficiencyFactor, got.RawCapacity, prev)
		}
		prev = got.RawCapacity
	}
}

func TestEvaluate_ZeroEfficiency_IsValidZero(t *testing.T) {
	// A zero throughput is a valid outcome, distinct from an undefined model.
	p := DefaultParameterSet()
	p.EfficiencyFactor = 0

	got, err := Evaluate(p)

	require.NoError(t, err)
	assert.Equal(t, 0.0, got.RawCapacity)
}

func TestEvaluate_CappedNeverExceedsCeiling(t *testing.T) {
	volumes := []struct{ available, aircraft float64 }{
		{1000, 50}, {1000, 49.9}, {300, 50}, {10000, 1}, {51, 50},
	}
	for _, v := range volumes {
		p := DefaultParameterSet()
		p.AvailableVolume, p.AircraftVolume = v.available, v.aircraft

		got, err := Evaluate(p)
		require.NoError(t, err)

		assert.Equal(t, int(math.Floor(v.available/v.aircraft)), got.FlightsCeiling)
		assert.LessOrEqual(t, got.CappedCapacity, float64(got.FlightsCeiling))
		assert.Equal(t, math.Min(got.RawCapacity, float64(got.FlightsCeiling)), got.CappedCapacity)
	}
}

func TestFlightsCeiling_FloorsTheRatio(t *testing.T) {
	p := DefaultParameterSet()
	assert.Equal(t, 20, FlightsCeiling(p))

	p.AircraftVolume = 49.9
	assert.Equal(t, 20, FlightsCeiling(p))

	p.AircraftVolume = 51
	assert.Equal(t, 19, FlightsCeiling(p))
}

func TestEvaluate_EmptyCatalogue_DomainError(t *testing.T) {
	p := DefaultParameterSet()
	p.SpeedCombinations = []SpeedPair{}

	got, err := Evaluate(p)

	var derr *DomainError
	require.True(t, errors.As(err, &derr), "want *DomainError, got %v", err)
	assert.Equal(t, CapacityResult{}, got)
}

func TestEvaluate_NegativeDenominator_DomainError(t *testing.T) {
	// GIVEN a violation ratio so high that the occupancy buffer is negative
	// and outweighs the separation term
	p := singlePair(240, 310)
	p.SafetyInterval = 0.1
	p.RestrictedAirspaceRatio = 0.99

	_, err := Evaluate(p)

	assert.ErrorIs(t, err, ErrDomain)
}

func TestEvaluate_OutOfRangeField_ParameterError(t *testing.T) {
	p := DefaultParameterSet()
	p.SafetyFactor = -1

	_, err := Evaluate(p)

	assert.ErrorIs(t, err, ErrParameter)
}

func TestInterArrivalTime_OpeningExceedsClosingForSameFollower(t *testing.T) {
	z := NormalQuantile(0.99)
	sigmaHours := BaseOccupancySigma / 3600
	closing := InterArrivalTime(SpeedPair{Leader: 230, Follower: 260}, 1.5, sigmaHours, z)
	opening := InterArrivalTime(SpeedPair{Leader: 280, Follower: 260}, 1.5, sigmaHours, z)

	assert.Greater(t, opening, closing)
}

func TestEvaluate_VolumeRatioBeyondInt_ParameterError(t *testing.T) {
	// GIVEN finite positive volumes whose ratio does not fit in an int
	tests := []struct {
		name                string
		available, aircraft float64
	}{
		{"above MaxInt", 1e20, 1},
		{"overflows to Inf", 1e300, 1e-10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParameterSet()
			p.AvailableVolume = tt.available
			p.AircraftVolume = tt.aircraft

			// WHEN evaluated
			got, err := Evaluate(p)

			// THEN the set is rejected instead of producing a wrapped ceiling
			var perr *ParameterError
			require.True(t, errors.As(err, &perr), "want *ParameterError, got %v", err)
			assert.Equal(t, "available_volume/aircraft_volume", perr.Field)
			assert.Equal(t, CapacityResult{}, got)
		})
	}
}

func TestFlightsCeiling_SaturatesForUnvalidatedInput(t *testing.T) {
	p := DefaultParameterSet()
	p.AvailableVolume = 1e300
	p.AircraftVolume = 1e-10
	assert.Equal(t, math.MaxInt, FlightsCeiling(p))

	// the aggregate estimate stays the non-negative mean
	agg := NewAggregate(p)
	agg.Observe(SimulationSample{Iteration: 1, Capacity: 50})
	assert.Equal(t, 50.0, agg.Estimate())
}

func TestFlightsCeiling_LargeRatioThatFits(t *testing.T) {
	p := DefaultParameterSet()
	p.AvailableVolume = 1e15
	p.AircraftVolume = 1

	require.NoError(t, p.Validate())
	assert.Equal(t, 1_000_000_000_000_000, FlightsCeiling(p))
}

func TestCheckDenominator(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		wantErr bool
	}{
		{"zero", 0, true},
		{"negative zero", math.Copysign(0, -1), true},
		{"negative", -0.01, true},
		{"NaN", math.NaN(), true},
		{"+Inf", math.Inf(1), true},
		{"positive", 0.0147, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkDenominator(tt.value)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrDomain)
			var derr *DomainError
			assert.True(t, errors.As(err, &derr))
		})
	}
}
