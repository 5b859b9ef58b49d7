package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSampler(t *testing.T, seed int64, cfg PerturbationConfig) *Sampler {
	t.Helper()
	s, err := NewSampler(NewPartitionedRNG(NewSimulationKey(seed)), cfg)
	require.NoError(t, err)
	return s
}

func TestSampler_Perturb_StaysWithinClampBounds(t *testing.T) {
	// GIVEN a base near every lower clamp so noise regularly crosses it
	base := DefaultParameterSet()
	base.SafetyInterval = 0.12
	base.SafetyFactor = 0.11
	base.RestrictedAirspaceRatio = 0.001
	base.EfficiencyFactor = 0.995
	s := newTestSampler(t, 7, DefaultPerturbation())

	for i := 0; i < 2000; i++ {
		p := s.Perturb(base)
		require.GreaterOrEqual(t, p.SafetyInterval, 0.1)
		require.GreaterOrEqual(t, p.SafetyFactor, 0.1)
		require.GreaterOrEqual(t, p.RestrictedAirspaceRatio, 0.0)
		require.LessOrEqual(t, p.RestrictedAirspaceRatio, 1.0)
		require.GreaterOrEqual(t, p.EfficiencyFactor, 0.0)
		require.LessOrEqual(t, p.EfficiencyFactor, 1.0)
	}
}

func TestSampler_Perturb_LeavesStaticGeometryAlone(t *testing.T) {
	base := DefaultParameterSet()
	s := newTestSampler(t, 42, DefaultPerturbation())

	p := s.Perturb(base)

	assert.Equal(t, base.AvailableVolume, p.AvailableVolume)
	assert.Equal(t, base.AircraftVolume, p.AircraftVolume)
	assert.Equal(t, base.SpeedCombinations, p.SpeedCombinations)

	// AND the returned catalogue is a copy
	p.SpeedCombinations[0].Leader = 1
	assert.Equal(t, 280.0, base.SpeedCombinations[0].Leader)
}

func TestSampler_Perturb_DoesNotModifyBase(t *testing.T) {
	base := DefaultParameterSet()
	want := DefaultParameterSet()
	s := newTestSampler(t, 42, DefaultPerturbation())

	for i := 0; i < 10; i++ {
		s.Perturb(base)
	}

	assert.Equal(t, want, base)
}

func TestSampler_Perturb_DeterministicForSeed(t *testing.T) {
	base := DefaultParameterSet()
	a := newTestSampler(t, 99, DefaultPerturbation())
	b := newTestSampler(t, 99, DefaultPerturbation())

	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Perturb(base), b.Perturb(base), "draw %d", i)
	}
}

func TestSampler_Perturb_NoiseIsCentredOnBase(t *testing.T) {
	// GIVEN a base far from every clamp
	base := DefaultParameterSet()
	base.EfficiencyFactor = 0.5
	base.RestrictedAirspaceRatio = 0.2
	s := newTestSampler(t, 3, DefaultPerturbation())

	const n = 20000
	var sumInterval, sumEfficiency float64
	for i := 0; i < n; i++ {
		p := s.Perturb(base)
		sumInterval += p.SafetyInterval
		sumEfficiency += p.EfficiencyFactor
	}

	// THEN sample means sit within a few standard errors of the base
	assert.InDelta(t, base.SafetyInterval, sumInterval/n, 4*0.1/math.Sqrt(n))
	assert.InDelta(t, base.EfficiencyFactor, sumEfficiency/n, 4*0.02/math.Sqrt(n))
}

func TestSampler_ZeroStdDev_DisablesNoiseWithoutShiftingOtherStreams(t *testing.T) {
	// GIVEN one sampler with default noise and one with safety-factor noise off
	base := DefaultParameterSet()
	cfg := DefaultPerturbation()
	cfg.SafetyFactor.StdDev = 0
	full := newTestSampler(t, 11, DefaultPerturbation())
	partial := newTestSampler(t, 11, cfg)

	for i := 0; i < 20; i++ {
		a, b := full.Perturb(base), partial.Perturb(base)

		// THEN the disabled field is the (clamped) base value
		assert.Equal(t, base.SafetyFactor, b.SafetyFactor)
		// AND every other stream is unchanged
		assert.Equal(t, a.SafetyInterval, b.SafetyInterval)
		assert.Equal(t, a.RestrictedAirspaceRatio, b.RestrictedAirspaceRatio)
		assert.Equal(t, a.EfficiencyFactor, b.EfficiencyFactor)
	}
}

func TestPerturbationConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultPerturbation().Validate())

	cfg := DefaultPerturbation()
	cfg.EfficiencyFactor.StdDev = -0.1
	assert.ErrorIs(t, cfg.Validate(), ErrParameter)

	cfg = DefaultPerturbation()
	cfg.RestrictedAirspaceRatio.Min = 2
	assert.ErrorIs(t, cfg.Validate(), ErrParameter)

	_, err := NewSampler(NewPartitionedRNG(1), cfg)
	assert.Error(t, err)
}
