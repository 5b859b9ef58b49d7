package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/airspace-sim/aircap/sim"
)

func TestIsValidTraceLevel(t *testing.T) {
	tests := []struct {
		level string
		want  bool
	}{
		{"none", true},
		{"summary", true},
		{"samples", true},
		{"", true},
		{"detailed", false},
		{"SUMMARY", false},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidTraceLevel(tt.level))
		})
	}
}

func TestNewSweepTrace_EmptyLevelDefaultsToSummary(t *testing.T) {
	st := NewSweepTrace(TraceConfig{})
	assert.Equal(t, TraceLevelSummary, st.Config.Level)
	assert.False(t, st.ReportsSamples())
}

func TestSweepTrace_Record_NoneDropsSamples(t *testing.T) {
	st := NewSweepTrace(TraceConfig{Level: TraceLevelNone})
	st.Record(sim.SimulationSample{Iteration: 1, Capacity: 3})
	assert.Empty(t, st.Samples)
}

func TestSweepTrace_Record_KeepsOrder(t *testing.T) {
	st := NewSweepTrace(TraceConfig{Level: TraceLevelSamples})
	for i := 1; i <= 3; i++ {
		st.Record(sim.SimulationSample{Iteration: i})
	}
	assert.True(t, st.ReportsSamples())
	assert.Len(t, st.Samples, 3)
	assert.Equal(t, 3, st.Samples[2].Iteration)
}
