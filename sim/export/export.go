// Package export writes history records and sweep samples to xlsx workbooks.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/airspace-sim/aircap/sim"
	"github.com/airspace-sim/aircap/sim/history"
	"github.com/airspace-sim/aircap/sim/trace"
)

// Sheet names.
const (
	HistorySheet = "History"
	SamplesSheet = "Samples"
	SummarySheet = "Summary"
)

var (
	historyHeader = []string{
		"ID", "Created At", "Source", "Available Volume", "Aircraft Volume",
		"Safety Interval", "Safety Factor", "Restricted Airspace Ratio",
		"Efficiency Factor", "Speed Combinations", "Calculated Capacity",
		"Max Flights", "Iterations",
	}
	samplesHeader = []string{
		"Iteration", "Safety Interval", "Safety Factor",
		"Restricted Airspace Ratio", "Efficiency Factor", "Capacity",
	}
)

// WriteHistory writes records to a single History sheet at path.
func WriteHistory(path string, records []history.Record) error {
	f := newWorkbook(HistorySheet)
	defer f.Close()

	if err := setRow(f, HistorySheet, 1, toRow(historyHeader)); err != nil {
		return err
	}
	for i, r := range records {
		row := []interface{}{
			r.ID,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			string(r.Source),
			r.AvailableVolume,
			r.AircraftVolume,
			r.SafetyInterval,
			r.SafetyFactor,
			r.RestrictedAirspaceRatio,
			r.EfficiencyFactor,
			string(r.SpeedCombinations),
			r.CalculatedCapacity,
			r.MaxFlights,
			r.Iterations,
		}
		if err := setRow(f, HistorySheet, i+2, row); err != nil {
			return err
		}
	}
	return save(f, path)
}

// WriteSamples writes one row per sample and, when summary is non-nil, a
// Summary sheet with its statistics and sensitivities.
func WriteSamples(path string, samples []sim.SimulationSample, summary *trace.SweepSummary) error {
	f := newWorkbook(SamplesSheet)
	defer f.Close()

	if err := setRow(f, SamplesSheet, 1, toRow(samplesHeader)); err != nil {
		return err
	}
	for i, s := range samples {
		row := []interface{}{
			s.Iteration,
			s.SafetyInterval,
			s.SafetyFactor,
			s.RestrictedAirspaceRatio,
			s.EfficiencyFactor,
			s.Capacity,
		}
		if err := setRow(f, SamplesSheet, i+2, row); err != nil {
			return err
		}
	}

	if summary != nil {
		if err := writeSummary(f, summary); err != nil {
			return err
		}
	}
	return save(f, path)
}

func writeSummary(f *excelize.File, s *trace.SweepSummary) error {
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("creating %s sheet: %w", SummarySheet, err)
	}
	rows := [][]interface{}{
		{"Statistic", "Value"},
		{"Count", s.Count},
		{"Mean", s.Mean},
		{"StdDev", s.StdDev},
		{"Min", s.Min},
		{"Max", s.Max},
		{"P5", s.P5},
		{"P50", s.P50},
		{"P95", s.P95},
	}
	for _, ps := range s.Sensitivity {
		rows = append(rows, []interface{}{"corr(" + ps.Parameter + ")", ps.Correlation})
	}
	for i, row := range rows {
		if err := setRow(f, SummarySheet, i+1, row); err != nil {
			return err
		}
	}
	return nil
}

// newWorkbook returns a file whose only sheet is named sheet.
func newWorkbook(sheet string) *excelize.File {
	f := excelize.NewFile()
	// renaming the default sheet cannot fail for a non-empty unique name
	_ = f.SetSheetName("Sheet1", sheet)
	return f
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, row, err)
	}
	return nil
}

func save(f *excelize.File, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating export directory: %w", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", path, err)
	}
	return nil
}

func toRow(header []string) []interface{} {
	row := make([]interface{}, len(header))
	for i, h := range header {
		row[i] = h
	}
	return row
}
