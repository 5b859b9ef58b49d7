// Package trace provides sweep tracing and summary statistics over Monte
// Carlo samples: distribution of capacity and its sensitivity to each
// perturbed parameter.
package trace

import "github.com/airspace-sim/aircap/sim"

// TraceLevel controls how much of a sweep is reported.
type TraceLevel string

const (
	// TraceLevelNone reports only the final estimate.
	TraceLevelNone TraceLevel = "none"
	// TraceLevelSummary adds distribution and sensitivity statistics.
	TraceLevelSummary TraceLevel = "summary"
	// TraceLevelSamples additionally reports every delivered sample.
	TraceLevelSamples TraceLevel = "samples"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:    true,
	TraceLevelSummary: true,
	TraceLevelSamples: true,
	"":                true, // empty defaults to summary
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// SweepTrace collects samples during a sweep when the level asks for them.
type SweepTrace struct {
	Config  TraceConfig
	Samples []sim.SimulationSample
}

// NewSweepTrace creates a SweepTrace ready for recording.
func NewSweepTrace(config TraceConfig) *SweepTrace {
	if config.Level == "" {
		config.Level = TraceLevelSummary
	}
	return &SweepTrace{
		Config:  config,
		Samples: make([]sim.SimulationSample, 0),
	}
}

// Record appends a sample unless tracing is off.
func (st *SweepTrace) Record(sample sim.SimulationSample) {
	if st.Config.Level == TraceLevelNone {
		return
	}
	st.Samples = append(st.Samples, sample)
}

// ReportsSamples reports whether every sample should be surfaced to the user.
func (st *SweepTrace) ReportsSamples() bool {
	return st.Config.Level == TraceLevelSamples
}
