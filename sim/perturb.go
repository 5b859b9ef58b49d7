package sim

import (
	"fmt"
	"math"
	"math/rand"
)

// NoiseSpec is zero-mean Gaussian noise followed by a clamp into [Min, Max].
type NoiseSpec struct {
	StdDev float64
	Min    float64
	Max    float64 // math.Inf(1) for no upper bound
}

func (n NoiseSpec) apply(rng *rand.Rand, v float64) float64 {
	if n.StdDev > 0 {
		v += rng.NormFloat64() * n.StdDev
	}
	return math.Min(n.Max, math.Max(n.Min, v))
}

func (n NoiseSpec) validate(name string) error {
	if math.IsNaN(n.StdDev) || math.IsInf(n.StdDev, 0) || n.StdDev < 0 {
		return &ParameterError{Field: name + ".std_dev", Value: n.StdDev, Constraint: "a finite non-negative number"}
	}
	if math.IsNaN(n.Min) || math.IsNaN(n.Max) || n.Min > n.Max {
		return fmt.Errorf("%s: clamp range [%v, %v] is empty: %w", name, n.Min, n.Max, ErrParameter)
	}
	return nil
}

// PerturbationConfig holds the noise applied to each perturbable field.
// Volumes and the speed catalogue are never perturbed.
type PerturbationConfig struct {
	SafetyInterval          NoiseSpec
	SafetyFactor            NoiseSpec
	RestrictedAirspaceRatio NoiseSpec
	EfficiencyFactor        NoiseSpec
}

// DefaultPerturbation returns the reference sensitivity noise table.
func DefaultPerturbation() PerturbationConfig {
	return PerturbationConfig{
		SafetyInterval:          NoiseSpec{StdDev: 0.1, Min: 0.1, Max: math.Inf(1)},
		SafetyFactor:            NoiseSpec{StdDev: 0.05, Min: 0.1, Max: math.Inf(1)},
		RestrictedAirspaceRatio: NoiseSpec{StdDev: 0.005, Min: 0, Max: 1},
		EfficiencyFactor:        NoiseSpec{StdDev: 0.02, Min: 0, Max: 1},
	}
}

// Validate checks every noise spec.
func (c PerturbationConfig) Validate() error {
	specs := []struct {
		name string
		spec NoiseSpec
	}{
		{"safety_interval", c.SafetyInterval},
		{"safety_factor", c.SafetyFactor},
		{"restricted_airspace_ratio", c.RestrictedAirspaceRatio},
		{"efficiency_factor", c.EfficiencyFactor},
	}
	for _, s := range specs {
		if err := s.spec.validate(s.name); err != nil {
			return err
		}
	}
	return nil
}

// Sampler draws perturbed parameter sets. Each field has its own RNG stream,
// so disabling noise on one field leaves the others' sequences unchanged.
// Not safe for concurrent use.
type Sampler struct {
	cfg        PerturbationConfig
	interval   *rand.Rand
	factor     *rand.Rand
	ratio      *rand.Rand
	efficiency *rand.Rand
}

// NewSampler creates a Sampler drawing from rng with the given noise table.
func NewSampler(rng *PartitionedRNG, cfg PerturbationConfig) (*Sampler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("perturbation config: %w", err)
	}
	return &Sampler{
		cfg:        cfg,
		interval:   rng.ForSubsystem(SubsystemSafetyInterval),
		factor:     rng.ForSubsystem(SubsystemSafetyFactor),
		ratio:      rng.ForSubsystem(SubsystemRestrictedAirspaceRatio),
		efficiency: rng.ForSubsystem(SubsystemEfficiencyFactor),
	}, nil
}

// Perturb returns a noisy copy of base. base is not modified and the returned
// catalogue does not alias base's.
func (s *Sampler) Perturb(base ParameterSet) ParameterSet {
	p := base.WithSpeedCombinations(base.SpeedCombinations)
	p.SafetyInterval = s.cfg.SafetyInterval.apply(s.interval, base.SafetyInterval)
	p.SafetyFactor = s.cfg.SafetyFactor.apply(s.factor, base.SafetyFactor)
	p.RestrictedAirspaceRatio = s.cfg.RestrictedAirspaceRatio.apply(s.ratio, base.RestrictedAirspaceRatio)
	p.EfficiencyFactor = s.cfg.EfficiencyFactor.apply(s.efficiency, base.EfficiencyFactor)
	return p
}
