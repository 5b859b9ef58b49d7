package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/airspace-sim/aircap/sim/export"
	"github.com/airspace-sim/aircap/sim/history"
)

var historyOut string // xlsx destination for history export

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List, clear or export saved calculations",
}

// --- aircap history list ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved calculations, oldest first",
	Run: func(cmd *cobra.Command, args []string) {
		records := loadHistory()
		printHistory(os.Stdout, records)
	},
}

// --- aircap history clear ---

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every saved calculation",
	Run: func(cmd *cobra.Command, args []string) {
		store, err := openHistory()
		if err != nil {
			logrus.Fatalf("Opening history: %v", err)
		}
		defer store.Close()
		n, err := store.DeleteAll()
		if err != nil {
			logrus.Fatalf("Clearing history: %v", err)
		}
		fmt.Printf("Deleted %d records\n", n)
	},
}

// --- aircap history export ---

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export saved calculations to an xlsx workbook",
	Run: func(cmd *cobra.Command, args []string) {
		records := loadHistory()
		if err := export.WriteHistory(historyOut, records); err != nil {
			logrus.Fatalf("Export failed: %v", err)
		}
		fmt.Printf("Exported %d records to %s\n", len(records), historyOut)
	},
}

func loadHistory() []history.Record {
	store, err := openHistory()
	if err != nil {
		logrus.Fatalf("Opening history: %v", err)
	}
	defer store.Close()
	records, err := store.List()
	if err != nil {
		logrus.Fatalf("Reading history: %v", err)
	}
	return records
}

func printHistory(w io.Writer, records []history.Record) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No saved calculations.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tSOURCE\tV\tDELTA\tF\tRB\tE\tCAPACITY\tMAX FLIGHTS\tITERATIONS")
	for _, r := range records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%g\t%g\t%g\t%g\t%g\t%.4f\t%.4f\t%d\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Source,
			r.AvailableVolume, r.SafetyInterval, r.SafetyFactor,
			r.RestrictedAirspaceRatio, r.EfficiencyFactor,
			r.CalculatedCapacity, r.MaxFlights, r.Iterations)
	}
	_ = tw.Flush()
}

func init() {
	historyExportCmd.Flags().StringVar(&historyOut, "out", "aircap_history.xlsx", "Destination xlsx file")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyExportCmd)
}
