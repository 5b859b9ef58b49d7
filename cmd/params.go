package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/airspace-sim/aircap/sim"
	"github.com/airspace-sim/aircap/sim/scenario"
)

var (
	// Corridor parameters shared by calc and sweep
	scenarioPath            string  // Optional scenario YAML
	availableVolume         float64 // V
	aircraftVolume          float64 // Volume blocked by one aircraft
	safetyInterval          float64 // Δ in km
	safetyFactor            float64 // f
	restrictedAirspaceRatio float64 // Rb
	efficiencyFactor        float64 // E
	speedPairs              string  // "leader:follower,..." in km/h
	saveRecord              bool    // Write a history record
)

// addParameterFlags registers the corridor flags on c.
func addParameterFlags(c *cobra.Command) {
	def := sim.DefaultParameterSet()
	c.Flags().StringVar(&scenarioPath, "scenario", "", "Scenario YAML; explicit flags override its values")
	c.Flags().Float64Var(&availableVolume, "available-volume", def.AvailableVolume, "Available corridor volume")
	c.Flags().Float64Var(&aircraftVolume, "aircraft-volume", def.AircraftVolume, "Volume occupied by one aircraft")
	c.Flags().Float64Var(&safetyInterval, "safety-interval", def.SafetyInterval, "Minimum separation in km")
	c.Flags().Float64Var(&safetyFactor, "safety-factor", def.SafetyFactor, "Safety factor scaling position uncertainty")
	c.Flags().Float64Var(&restrictedAirspaceRatio, "restricted-ratio", def.RestrictedAirspaceRatio, "Restricted airspace ratio in [0, 1]")
	c.Flags().Float64Var(&efficiencyFactor, "efficiency", def.EfficiencyFactor, "Efficiency factor in [0, 1]")
	c.Flags().StringVar(&speedPairs, "speeds", "", "Comma-separated leader:follower speeds in km/h (default: 3x3 reference catalogue)")
	c.Flags().BoolVar(&saveRecord, "save", false, "Save the result to history")
}

// parseSpeedPairs parses "280:310,240:260" into speed pairs.
func parseSpeedPairs(s string) ([]sim.SpeedPair, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var pairs []sim.SpeedPair
	for i, item := range strings.Split(s, ",") {
		parts := strings.Split(strings.TrimSpace(item), ":")
		if len(parts) != 2 {
			return nil, fmt.Errorf("speed pair %d %q: want leader:follower", i, item)
		}
		leader, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("speed pair %d leader: %w", i, err)
		}
		follower, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("speed pair %d follower: %w", i, err)
		}
		pairs = append(pairs, sim.SpeedPair{Leader: leader, Follower: follower})
	}
	return pairs, nil
}

// resolveParameters builds the base parameters from the scenario (if any)
// overlaid with every flag the user set explicitly.
func resolveParameters(c *cobra.Command) (sim.ParameterSet, *scenario.ScenarioSpec, error) {
	var spec *scenario.ScenarioSpec
	base := sim.DefaultParameterSet()
	if scenarioPath != "" {
		var err error
		spec, err = scenario.LoadScenario(scenarioPath)
		if err != nil {
			return sim.ParameterSet{}, nil, err
		}
		if err := spec.Validate(); err != nil {
			return sim.ParameterSet{}, nil, fmt.Errorf("scenario %s: %w", scenarioPath, err)
		}
		if base, err = spec.ParameterSet(); err != nil {
			return sim.ParameterSet{}, nil, err
		}
	}

	overrides := []struct {
		flag  string
		value float64
		dst   *float64
	}{
		{"available-volume", availableVolume, &base.AvailableVolume},
		{"aircraft-volume", aircraftVolume, &base.AircraftVolume},
		{"safety-interval", safetyInterval, &base.SafetyInterval},
		{"safety-factor", safetyFactor, &base.SafetyFactor},
		{"restricted-ratio", restrictedAirspaceRatio, &base.RestrictedAirspaceRatio},
		{"efficiency", efficiencyFactor, &base.EfficiencyFactor},
	}
	for _, o := range overrides {
		if spec == nil || c.Flags().Changed(o.flag) {
			*o.dst = o.value
		}
	}
	if speedPairs != "" {
		pairs, err := parseSpeedPairs(speedPairs)
		if err != nil {
			return sim.ParameterSet{}, nil, err
		}
		base.SpeedCombinations = pairs
	}

	if err := base.Validate(); err != nil {
		return sim.ParameterSet{}, nil, err
	}
	return base, spec, nil
}
