// Package testutil provides shared test infrastructure for the capacity model.
// It holds the golden dataset types and float assertion helpers used across
// sim/ and its sub-package tests.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/capacity_golden.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenSpeedPair mirrors sim.SpeedPair without importing sim.
type GoldenSpeedPair struct {
	Leader   float64 `json:"leader"`
	Follower float64 `json:"follower"`
}

// GoldenTestCase represents a single evaluation case from the golden dataset.
type GoldenTestCase struct {
	Name                    string            `json:"name"`
	AvailableVolume         float64           `json:"available_volume"`
	AircraftVolume          float64           `json:"aircraft_volume"`
	SafetyInterval          float64           `json:"safety_interval"`
	SafetyFactor            float64           `json:"safety_factor"`
	RestrictedAirspaceRatio float64           `json:"restricted_airspace_ratio"`
	EfficiencyFactor        float64           `json:"efficiency_factor"`
	SpeedCombinations       []GoldenSpeedPair `json:"speed_combinations"`
	Expected                GoldenExpected    `json:"expected"`
}

// GoldenExpected holds the expected model output, computed independently
// of this code base.
type GoldenExpected struct {
	RawCapacity    float64 `json:"raw_capacity"`
	FlightsCeiling int     `json:"flights_ceiling"`
	CappedCapacity float64 `json:"capped_capacity"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "capacity_golden.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
