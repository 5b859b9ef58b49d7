package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/airspace-sim/aircap/sim"
	"github.com/airspace-sim/aircap/sim/export"
	"github.com/airspace-sim/aircap/sim/history"
	"github.com/airspace-sim/aircap/sim/metrics"
	"github.com/airspace-sim/aircap/sim/trace"
)

var (
	// CLI flags for Monte Carlo sweeps
	seed          int64  // Seed for parameter perturbation
	iterations    int    // Number of Monte Carlo draws
	progressEvery int    // Log progress every N samples (0 = off)
	traceLevel    string // none, summary, samples
	exportPath    string // xlsx file for samples and summary
	metricsAddr   string // Serve /metrics on this address during the run
)

// sweepCmd runs a Monte Carlo sensitivity sweep
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run a Monte Carlo sensitivity sweep over perturbed parameters",
	Run: func(cmd *cobra.Command, args []string) {
		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level %q; valid: none, summary, samples", traceLevel)
		}
		base, spec, err := resolveParameters(cmd)
		if err != nil {
			logrus.Fatalf("Invalid parameters: %v", err)
		}

		runSeed, runIterations := seed, iterations
		noise := sim.DefaultPerturbation()
		if spec != nil {
			if !cmd.Flags().Changed("seed") {
				runSeed = spec.SeedOr(seed)
			}
			if !cmd.Flags().Changed("iterations") {
				runIterations = spec.IterationCount()
			}
			if noise, err = spec.PerturbationConfig(); err != nil {
				logrus.Fatalf("Invalid perturbation: %v", err)
			}
		}

		driver, err := sim.NewSeededDriver(runSeed, noise)
		if err != nil {
			logrus.Fatalf("Building sweep driver: %v", err)
		}
		collector, err := metrics.NewSweepCollector(nil)
		if err != nil {
			logrus.Fatalf("Registering metrics: %v", err)
		}
		if metricsAddr != "" {
			srv := serveMetrics(metricsAddr, collector)
			defer shutdownMetrics(srv)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		logrus.Infof("Starting sweep: seed=%d iterations=%d", runSeed, runIterations)
		startTime := time.Now()
		agg := sim.NewAggregate(base)
		st := trace.NewSweepTrace(trace.TraceConfig{Level: trace.TraceLevel(traceLevel)})
		outcome, err := runSweep(ctx, driver, base, runIterations, agg, st, collector, os.Stdout)
		if err != nil {
			logrus.Fatalf("Sweep failed: %v", err)
		}

		var summary *trace.SweepSummary
		if st.Config.Level != trace.TraceLevelNone {
			summary = trace.Summarize(st)
		}
		printSweepResult(os.Stdout, outcome, agg, summary)
		logrus.Infof("Sweep took %v", time.Since(startTime))

		if exportPath != "" {
			if err := export.WriteSamples(exportPath, agg.Samples(), summary); err != nil {
				logrus.Fatalf("Export failed: %v", err)
			}
			logrus.Infof("Wrote %d samples to %s", agg.Count(), exportPath)
		}
		if saveRecord && agg.Count() > 0 {
			r, err := history.NewRecord(base, agg.Mean(), agg.Estimate(), history.SourceSweep, outcome.Delivered)
			if err != nil {
				logrus.Fatalf("Building history record: %v", err)
			}
			saveToHistory(&r)
		}
	},
}

// runSweep drives the sweep, feeding every sample to agg, st and collector.
// Each delivered sample counts as a successful evaluation; a failed draw is
// counted by its error class.
func runSweep(ctx context.Context, driver *sim.Driver, base sim.ParameterSet, n int,
	agg *sim.Aggregate, st *trace.SweepTrace, collector *metrics.SweepCollector, out io.Writer,
) (sim.RunOutcome, error) {
	outcome, err := driver.Run(ctx, base, n, func(s sim.SimulationSample, progress float64) {
		agg.Observe(s)
		st.Record(s)
		collector.ObserveEvaluation(nil)
		collector.ObserveSample(s, progress, agg.Estimate())
		if st.ReportsSamples() {
			printSample(out, s)
		}
		if progressEvery > 0 && s.Iteration%progressEvery == 0 {
			logrus.Infof("Progress %5.1f%%: %d samples, running estimate %.4f", 100*progress, agg.Count(), agg.Estimate())
		}
	})
	if err != nil {
		collector.ObserveEvaluation(err)
	}
	collector.ObserveRun(outcome)
	return outcome, err
}

func printSample(w io.Writer, s sim.SimulationSample) {
	fmt.Fprintf(w, "sample %d: interval=%.4f factor=%.4f restricted=%.5f efficiency=%.4f capacity=%.4f\n",
		s.Iteration, s.SafetyInterval, s.SafetyFactor, s.RestrictedAirspaceRatio, s.EfficiencyFactor, s.Capacity)
}

func printSweepResult(w io.Writer, outcome sim.RunOutcome, agg *sim.Aggregate, summary *trace.SweepSummary) {
	fmt.Fprintf(w, "=== Sweep Result ===\n")
	fmt.Fprintf(w, "Status          : %s (%d/%d samples)\n", outcome.Status, outcome.Delivered, outcome.Requested)
	fmt.Fprintf(w, "Mean capacity   : %.4f flights/h\n", agg.Mean())
	fmt.Fprintf(w, "Flights ceiling : %d\n", agg.Ceiling())
	fmt.Fprintf(w, "Estimate        : %.4f flights/h\n", agg.Estimate())
	if summary == nil || summary.Count == 0 {
		return
	}
	fmt.Fprintf(w, "StdDev          : %.4f\n", summary.StdDev)
	fmt.Fprintf(w, "Min / Max       : %.4f / %.4f\n", summary.Min, summary.Max)
	fmt.Fprintf(w, "P5 / P50 / P95  : %.4f / %.4f / %.4f\n", summary.P5, summary.P50, summary.P95)
	for _, ps := range summary.Sensitivity {
		fmt.Fprintf(w, "corr(%s) = %+.3f\n", ps.Parameter, ps.Correlation)
	}
}

func serveMetrics(addr string, c *metrics.SweepCollector) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Errorf("Metrics server: %v", err)
		}
	}()
	logrus.Infof("Serving metrics on http://%s/metrics", addr)
	return srv
}

func shutdownMetrics(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Warnf("Metrics server shutdown: %v", err)
	}
}

func init() {
	addParameterFlags(sweepCmd)
	sweepCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for parameter perturbation")
	sweepCmd.Flags().IntVar(&iterations, "iterations", 1000, "Number of Monte Carlo draws")
	sweepCmd.Flags().IntVar(&progressEvery, "progress-every", 100, "Log progress every N samples (0 disables)")
	sweepCmd.Flags().StringVar(&traceLevel, "trace-level", "summary", "Trace level (none, summary, samples)")
	sweepCmd.Flags().StringVar(&exportPath, "export", "", "Write samples and summary to this xlsx file")
	sweepCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address during the sweep (e.g. :9090)")
}
