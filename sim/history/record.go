// Package history persists calculation records: the inputs of one capacity
// calculation or sweep and the results it produced.
package history

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/airspace-sim/aircap/sim"
)

// Source identifies what produced a record.
type Source string

const (
	SourceCalc  Source = "calc"
	SourceSweep Source = "sweep"
)

// Record is one stored calculation.
type Record struct {
	ID                      uint           `json:"id" gorm:"primarykey"`
	CreatedAt               time.Time      `json:"createdAt" gorm:"index:idx_created_at"`
	Source                  Source         `json:"source" gorm:"size:16"`
	AvailableVolume         float64        `json:"availableVolume"`
	AircraftVolume          float64        `json:"aircraftVolume"`
	SafetyInterval          float64        `json:"safetyInterval"`
	SafetyFactor            float64        `json:"safetyFactor"`
	RestrictedAirspaceRatio float64        `json:"restrictedAirspaceRatio"`
	EfficiencyFactor        float64        `json:"efficiencyFactor"`
	SpeedCombinations       datatypes.JSON `json:"speedCombinations"`
	CalculatedCapacity      float64        `json:"calculatedCapacity"`
	MaxFlights              float64        `json:"maxFlights"` // capped capacity
	Iterations              int            `json:"iterations"` // 0 for single evaluations
}

// TableName keeps the table name stable across struct renames.
func (Record) TableName() string {
	return "airspace_capacity"
}

// NewRecord captures params with the raw (or mean) capacity and its capped value.
func NewRecord(params sim.ParameterSet, calculated, maxFlights float64, source Source, iterations int) (Record, error) {
	speeds, err := json.Marshal(params.SpeedCombinations)
	if err != nil {
		return Record{}, fmt.Errorf("encoding speed combinations: %w", err)
	}
	return Record{
		Source:                  source,
		AvailableVolume:         params.AvailableVolume,
		AircraftVolume:          params.AircraftVolume,
		SafetyInterval:          params.SafetyInterval,
		SafetyFactor:            params.SafetyFactor,
		RestrictedAirspaceRatio: params.RestrictedAirspaceRatio,
		EfficiencyFactor:        params.EfficiencyFactor,
		SpeedCombinations:       datatypes.JSON(speeds),
		CalculatedCapacity:      calculated,
		MaxFlights:              maxFlights,
		Iterations:              iterations,
	}, nil
}

// Parameters rebuilds the ParameterSet the record was computed from.
func (r Record) Parameters() (sim.ParameterSet, error) {
	var speeds []sim.SpeedPair
	if len(r.SpeedCombinations) > 0 {
		if err := json.Unmarshal(r.SpeedCombinations, &speeds); err != nil {
			return sim.ParameterSet{}, fmt.Errorf("record %d: decoding speed combinations: %w", r.ID, err)
		}
	}
	return sim.ParameterSet{
		AvailableVolume:         r.AvailableVolume,
		AircraftVolume:          r.AircraftVolume,
		SafetyInterval:          r.SafetyInterval,
		SafetyFactor:            r.SafetyFactor,
		RestrictedAirspaceRatio: r.RestrictedAirspaceRatio,
		EfficiencyFactor:        r.EfficiencyFactor,
		SpeedCombinations:       speeds,
	}, nil
}
