// Package scenario loads corridor scenarios from YAML files: base
// parameters, the speed catalogue, sweep settings and optional noise
// overrides.
package scenario

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/airspace-sim/aircap/sim"
)

// CurrentVersion is the scenario format written by this release.
const CurrentVersion = "2"

// DefaultIterations is used when a scenario omits iterations.
const DefaultIterations = 1000

// ScenarioSpec is the top-level scenario file.
// Loaded from YAML via LoadScenario(path).
type ScenarioSpec struct {
	Version           string            `yaml:"version"`
	Name              string            `yaml:"name,omitempty"`
	Seed              *int64            `yaml:"seed,omitempty"`
	Iterations        int               `yaml:"iterations,omitempty"` // 0 = DefaultIterations
	Parameters        ParametersSpec    `yaml:"parameters"`
	SpeedCombinations []sim.SpeedPair   `yaml:"speed_combinations,omitempty"` // empty = default catalogue
	Perturbation      *PerturbationSpec `yaml:"perturbation,omitempty"`
}

// ParametersSpec holds the static corridor inputs.
type ParametersSpec struct {
	AvailableVolume         float64 `yaml:"available_volume"`
	AircraftVolume          float64 `yaml:"aircraft_volume"`
	SafetyInterval          float64 `yaml:"safety_interval"`
	SafetyFactor            float64 `yaml:"safety_factor"`
	RestrictedAirspaceRatio float64 `yaml:"restricted_airspace_ratio"`
	EfficiencyFactor        float64 `yaml:"efficiency_factor"`
}

// PerturbationSpec overrides noise standard deviations. Nil fields keep the
// default; zero disables noise for that field.
type PerturbationSpec struct {
	SafetyInterval          *float64 `yaml:"safety_interval,omitempty"`
	SafetyFactor            *float64 `yaml:"safety_factor,omitempty"`
	RestrictedAirspaceRatio *float64 `yaml:"restricted_airspace_ratio,omitempty"`
	EfficiencyFactor        *float64 `yaml:"efficiency_factor,omitempty"`
}

// UpgradeScenario brings an older scenario to CurrentVersion in place.
// Version 1 files are accepted with a deprecation warning; the layout did not change.
func UpgradeScenario(spec *ScenarioSpec) {
	switch spec.Version {
	case "":
		spec.Version = CurrentVersion
	case "1":
		logrus.Warnf("scenario version 1 is deprecated; set version: %q", CurrentVersion)
		spec.Version = CurrentVersion
	}
}

// LoadScenario reads and parses a YAML scenario file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadScenario(path string) (*ScenarioSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes scenario YAML from memory.
func ParseScenario(data []byte) (*ScenarioSpec, error) {
	var spec ScenarioSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	UpgradeScenario(&spec)
	return &spec, nil
}

// Validate checks the scenario without evaluating it.
func (s *ScenarioSpec) Validate() error {
	if s.Version != CurrentVersion {
		return fmt.Errorf("unsupported scenario version %q; valid: 1, 2", s.Version)
	}
	if s.Iterations < 0 {
		return fmt.Errorf("iterations must be non-negative, got %d", s.Iterations)
	}
	if _, err := s.ParameterSet(); err != nil {
		return err
	}
	if _, err := s.PerturbationConfig(); err != nil {
		return err
	}
	return nil
}

// ParameterSet builds the validated base parameters.
func (s *ScenarioSpec) ParameterSet() (sim.ParameterSet, error) {
	speeds := s.SpeedCombinations
	if len(speeds) == 0 {
		speeds = sim.DefaultSpeedCombinations()
	}
	p := s.Parameters
	ps, err := sim.NewParameterSet(p.AvailableVolume, p.AircraftVolume, p.SafetyInterval,
		p.SafetyFactor, p.RestrictedAirspaceRatio, p.EfficiencyFactor, speeds)
	if err != nil {
		return sim.ParameterSet{}, fmt.Errorf("scenario parameters: %w", err)
	}
	return ps, nil
}

// PerturbationConfig returns the default noise table with this scenario's overrides applied.
func (s *ScenarioSpec) PerturbationConfig() (sim.PerturbationConfig, error) {
	cfg := sim.DefaultPerturbation()
	if s.Perturbation == nil {
		return cfg, nil
	}
	overrides := []struct {
		name  string
		value *float64
		dst   *sim.NoiseSpec
	}{
		{"perturbation.safety_interval", s.Perturbation.SafetyInterval, &cfg.SafetyInterval},
		{"perturbation.safety_factor", s.Perturbation.SafetyFactor, &cfg.SafetyFactor},
		{"perturbation.restricted_airspace_ratio", s.Perturbation.RestrictedAirspaceRatio, &cfg.RestrictedAirspaceRatio},
		{"perturbation.efficiency_factor", s.Perturbation.EfficiencyFactor, &cfg.EfficiencyFactor},
	}
	for _, o := range overrides {
		if o.value == nil {
			continue
		}
		v := *o.value
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return cfg, &sim.ParameterError{Field: o.name, Value: v, Constraint: "a finite non-negative number"}
		}
		o.dst.StdDev = v
	}
	return cfg, cfg.Validate()
}

// IterationCount returns Iterations, or DefaultIterations when unset.
func (s *ScenarioSpec) IterationCount() int {
	if s.Iterations == 0 {
		return DefaultIterations
	}
	return s.Iterations
}

// SeedOr returns the scenario seed, or fallback when the file sets none.
func (s *ScenarioSpec) SeedOr(fallback int64) int64 {
	if s.Seed == nil {
		return fallback
	}
	return *s.Seed
}
