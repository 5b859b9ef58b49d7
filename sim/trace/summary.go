package trace

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/airspace-sim/aircap/sim"
)

// ParameterSensitivity is the Pearson correlation between one perturbed
// parameter and the sampled capacity. Correlation is 0 when either series
// is constant.
type ParameterSensitivity struct {
	Parameter   string
	Correlation float64
}

// SweepSummary aggregates capacity statistics from a SweepTrace.
type SweepSummary struct {
	Count       int
	Mean        float64
	StdDev      float64 // sample standard deviation; 0 for fewer than two samples
	Min         float64
	Max         float64
	P5          float64
	P50         float64
	P95         float64
	Sensitivity []ParameterSensitivity
}

// Summarize computes aggregate statistics from a SweepTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SweepTrace) *SweepSummary {
	if st == nil {
		return &SweepSummary{}
	}
	return SummarizeSamples(st.Samples)
}

// SummarizeSamples computes aggregate statistics over samples.
func SummarizeSamples(samples []sim.SimulationSample) *SweepSummary {
	summary := &SweepSummary{Count: len(samples)}
	if len(samples) == 0 {
		return summary
	}

	capacity := column(samples, func(s sim.SimulationSample) float64 { return s.Capacity })
	summary.Mean = stat.Mean(capacity, nil)
	if len(capacity) > 1 {
		summary.StdDev = stat.StdDev(capacity, nil)
	}
	summary.Min = floats.Min(capacity)
	summary.Max = floats.Max(capacity)

	sorted := append([]float64(nil), capacity...)
	sort.Float64s(sorted)
	summary.P5 = stat.Quantile(0.05, stat.Empirical, sorted, nil)
	summary.P50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	summary.P95 = stat.Quantile(0.95, stat.Empirical, sorted, nil)

	params := []struct {
		name string
		get  func(sim.SimulationSample) float64
	}{
		{"safety_interval", func(s sim.SimulationSample) float64 { return s.SafetyInterval }},
		{"safety_factor", func(s sim.SimulationSample) float64 { return s.SafetyFactor }},
		{"restricted_airspace_ratio", func(s sim.SimulationSample) float64 { return s.RestrictedAirspaceRatio }},
		{"efficiency_factor", func(s sim.SimulationSample) float64 { return s.EfficiencyFactor }},
	}
	summary.Sensitivity = make([]ParameterSensitivity, 0, len(params))
	for _, p := range params {
		summary.Sensitivity = append(summary.Sensitivity, ParameterSensitivity{
			Parameter:   p.name,
			Correlation: correlation(column(samples, p.get), capacity),
		})
	}
	return summary
}

// SensitivityOf returns the correlation recorded for parameter, and false if absent.
func (s *SweepSummary) SensitivityOf(parameter string) (float64, bool) {
	for _, ps := range s.Sensitivity {
		if ps.Parameter == parameter {
			return ps.Correlation, true
		}
	}
	return 0, false
}

func column(samples []sim.SimulationSample, get func(sim.SimulationSample) float64) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = get(s)
	}
	return out
}

func correlation(x, y []float64) float64 {
	if len(x) < 2 || stat.StdDev(x, nil) == 0 || stat.StdDev(y, nil) == 0 {
		return 0
	}
	return stat.Correlation(x, y, nil)
}
