package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/airspace-sim/aircap/sim"
	"github.com/airspace-sim/aircap/sim/history"
)

// calcCmd evaluates the capacity model once
var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Calculate corridor capacity for one parameter set",
	Run: func(cmd *cobra.Command, args []string) {
		base, _, err := resolveParameters(cmd)
		if err != nil {
			logrus.Fatalf("Invalid parameters: %v", err)
		}

		result, err := sim.Evaluate(base)
		if err != nil {
			logrus.Fatalf("Capacity calculation failed: %v", err)
		}
		printCalcResult(os.Stdout, base, result)

		if saveRecord {
			r, err := history.NewRecord(base, result.RawCapacity, result.CappedCapacity, history.SourceCalc, 0)
			if err != nil {
				logrus.Fatalf("Building history record: %v", err)
			}
			saveToHistory(&r)
		}
	},
}

func printCalcResult(w io.Writer, p sim.ParameterSet, r sim.CapacityResult) {
	fmt.Fprintf(w, "=== Corridor Capacity ===\n")
	fmt.Fprintf(w, "Speed pairs     : %d\n", len(p.SpeedCombinations))
	fmt.Fprintf(w, "Raw capacity    : %.4f flights/h\n", r.RawCapacity)
	fmt.Fprintf(w, "Flights ceiling : %d\n", r.FlightsCeiling)
	fmt.Fprintf(w, "Capacity        : %.4f flights/h\n", r.CappedCapacity)
}

// saveToHistory writes r to the configured store, exiting on failure.
func saveToHistory(r *history.Record) {
	store, err := openHistory()
	if err != nil {
		logrus.Fatalf("Opening history: %v", err)
	}
	defer store.Close()
	if err := store.Save(r); err != nil {
		logrus.Fatalf("Saving history: %v", err)
	}
	logrus.Infof("Saved record %d", r.ID)
}

func init() {
	addParameterFlags(calcCmd)
}
