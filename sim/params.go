package sim

import (
	"fmt"
	"math"
)

// SpeedPair is one leader/follower combination of the traffic mix, in km/h.
type SpeedPair struct {
	Leader   float64 `yaml:"leader" json:"leader"`
	Follower float64 `yaml:"follower" json:"follower"`
}

// Opening reports whether the leader pulls away from the follower.
// Equal speeds are a closing (steady-state) geometry.
func (p SpeedPair) Opening() bool {
	return p.Leader > p.Follower
}

func (p SpeedPair) String() string {
	return fmt.Sprintf("%g:%g", p.Leader, p.Follower)
}

// ParameterSet is the sole input of the capacity model.
// Values are read-only for the duration of an evaluation or a sweep.
type ParameterSet struct {
	AvailableVolume         float64     // total usable airspace volume
	AircraftVolume          float64     // volume footprint of one aircraft
	SafetyInterval          float64     // Δ, minimum longitudinal separation (km)
	SafetyFactor            float64     // f, inversely scales occupancy-time sigma
	RestrictedAirspaceRatio float64     // Rb, accepted separation-violation probability
	EfficiencyFactor        float64     // E, linear derating of raw throughput
	SpeedCombinations       []SpeedPair // traffic mix, averaged uniformly
}

// DefaultSpeedCombinations returns the nine-pair catalogue
// {280, 240, 210} × {310, 260, 230} in leader-major order.
func DefaultSpeedCombinations() []SpeedPair {
	leaders := []float64{280, 240, 210}
	followers := []float64{310, 260, 230}
	pairs := make([]SpeedPair, 0, len(leaders)*len(followers))
	for _, l := range leaders {
		for _, f := range followers {
			pairs = append(pairs, SpeedPair{Leader: l, Follower: f})
		}
	}
	return pairs
}

// DefaultParameterSet returns the reference corridor used as the form default.
func DefaultParameterSet() ParameterSet {
	return ParameterSet{
		AvailableVolume:         1000,
		AircraftVolume:          50,
		SafetyInterval:          1.5,
		SafetyFactor:            1.0,
		RestrictedAirspaceRatio: 0.01,
		EfficiencyFactor:        1.0,
		SpeedCombinations:       DefaultSpeedCombinations(),
	}
}

// NewParameterSet builds a validated ParameterSet. The speed catalogue is copied.
func NewParameterSet(availableVolume, aircraftVolume, safetyInterval, safetyFactor,
	restrictedAirspaceRatio, efficiencyFactor float64, speeds []SpeedPair,
) (ParameterSet, error) {
	p := ParameterSet{
		AvailableVolume:         availableVolume,
		AircraftVolume:          aircraftVolume,
		SafetyInterval:          safetyInterval,
		SafetyFactor:            safetyFactor,
		RestrictedAirspaceRatio: restrictedAirspaceRatio,
		EfficiencyFactor:        efficiencyFactor,
		SpeedCombinations:       append([]SpeedPair(nil), speeds...),
	}
	if err := p.Validate(); err != nil {
		return ParameterSet{}, err
	}
	return p, nil
}

// Validate checks every invariant of the parameter set.
// Range violations return *ParameterError; an empty catalogue returns *DomainError.
func (p ParameterSet) Validate() error {
	checks := []struct {
		name string
		val  float64
	}{
		{"available_volume", p.AvailableVolume},
		{"aircraft_volume", p.AircraftVolume},
		{"safety_interval", p.SafetyInterval},
		{"safety_factor", p.SafetyFactor},
	}
	for _, c := range checks {
		if err := validateFinitePositive(c.name, c.val); err != nil {
			return err
		}
	}
	if ratio := p.AvailableVolume / p.AircraftVolume; !(ratio < maxCeilingRatio) {
		return &ParameterError{Field: "available_volume/aircraft_volume", Value: ratio, Constraint: fmt.Sprintf("below %v", maxCeilingRatio)}
	}
	if err := validateUnitInterval("restricted_airspace_ratio", p.RestrictedAirspaceRatio); err != nil {
		return err
	}
	if err := validateUnitInterval("efficiency_factor", p.EfficiencyFactor); err != nil {
		return err
	}
	if len(p.SpeedCombinations) == 0 {
		return &DomainError{Reason: "speed combination catalogue is empty"}
	}
	for i, pair := range p.SpeedCombinations {
		if err := validateFinitePositive(fmt.Sprintf("speed_combinations[%d].leader", i), pair.Leader); err != nil {
			return err
		}
		if err := validateFinitePositive(fmt.Sprintf("speed_combinations[%d].follower", i), pair.Follower); err != nil {
			return err
		}
	}
	return nil
}

// WithSpeedCombinations returns a copy of p using the given catalogue.
func (p ParameterSet) WithSpeedCombinations(speeds []SpeedPair) ParameterSet {
	p.SpeedCombinations = append([]SpeedPair(nil), speeds...)
	return p
}

func validateFinitePositive(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return &ParameterError{Field: name, Value: val, Constraint: "a finite number"}
	}
	if val <= 0 {
		return &ParameterError{Field: name, Value: val, Constraint: "positive"}
	}
	return nil
}

func validateUnitInterval(name string, val float64) error {
	if math.IsNaN(val) || val < 0 || val > 1 {
		return &ParameterError{Field: name, Value: val, Constraint: "in [0, 1]"}
	}
	return nil
}
