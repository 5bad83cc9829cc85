package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/comalice/turingx/internal/core"
	"github.com/comalice/turingx/internal/loader"
	"github.com/comalice/turingx/internal/production"
	"github.com/comalice/turingx/internal/runner"
)

func newBatchCmd(a *app) *cobra.Command {
	var (
		workers     int
		unary       int
		maxSteps    int
		timeout     time.Duration
		noShortcuts bool
		db          string
		csvPath     string
		metricsOut  string
	)
	cmd := &cobra.Command{
		Use:   "batch MACHINE [INPUT...]",
		Short: "Run a machine on many inputs in parallel",
		Long: `Run one independent machine per input and report each outcome in input
order. --unary N adds the inputs "1", "11", ... up to N digits, the timing
series used by 'turingx stats'.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := loader.LoadFile(args[0])
			if err != nil {
				return err
			}
			inputs := append([]string(nil), args[1:]...)
			for n := 1; n <= unary; n++ {
				inputs = append(inputs, strings.Repeat(string(core.Digit), n))
			}
			if len(inputs) == 0 {
				return fmt.Errorf("no inputs: pass INPUT arguments or --unary")
			}

			reg := prometheus.NewRegistry()
			opts := runner.BatchOptions{
				Limits:  runner.Limits{MaxSteps: maxSteps, Timeout: timeout},
				Workers: workers,
				Machine: []core.Option{core.WithLogger(a.logger)},
				Run:     []runner.Option{runner.WithLogger(a.logger), runner.WithMetrics(runner.NewMetrics(reg))},
			}
			if noShortcuts {
				opts.Machine = append(opts.Machine, core.WithoutShortcuts())
			}
			results, err := runner.Batch(cmd.Context(), def, inputs, opts)
			if err != nil {
				return err
			}
			printBatch(a.stdout, results)

			name := machineName(def, args[0])
			records := make([]production.RunRecord, len(results))
			for i, r := range results {
				records[i] = r.Record(name)
			}
			if db != "" {
				store, err := production.OpenRunStore(db)
				if err != nil {
					return err
				}
				defer store.Close()
				for _, rec := range records {
					if err := store.Record(cmd.Context(), rec); err != nil {
						return err
					}
				}
			}
			if csvPath != "" {
				if err := writeCSVFile(csvPath, records); err != nil {
					return err
				}
			}
			if metricsOut != "" {
				if err := prometheus.WriteToTextfile(metricsOut, reg); err != nil {
					return fmt.Errorf("write metrics: %w", err)
				}
			}
			return nil
		},
	}
	fl := cmd.Flags()
	fl.IntVarP(&workers, "workers", "w", 0, "concurrent machines; 0 means GOMAXPROCS")
	fl.IntVar(&unary, "unary", 0, "add unary inputs of length 1..N")
	fl.IntVar(&maxSteps, "max-steps", 1_000_000, "step budget per run; 0 disables the limit")
	fl.DurationVar(&timeout, "timeout", 0, "wall-clock budget per run; 0 disables the limit")
	fl.BoolVar(&noShortcuts, "no-shortcuts", false, "disable native shortcuts such as solve_fib")
	fl.StringVar(&db, "db", "", "record runs in this SQLite database")
	fl.StringVar(&csvPath, "csv", "", "write input length and execution time to this CSV file")
	fl.StringVar(&metricsOut, "metrics-out", "", "write Prometheus metrics in text format to this file")
	return cmd
}

func printBatch(w io.Writer, results []runner.Result) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LENGTH\tSTEPS\tOUTCOME\tRESULT\tELAPSED")
	for _, r := range results {
		value := "-"
		if r.HasValue {
			value = fmt.Sprint(r.Value)
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\n", r.InputLength, r.Steps, r.Outcome, value, r.Elapsed.Round(time.Microsecond))
	}
	tw.Flush()
	summary := runner.Summary(results)
	var parts []string
	for _, o := range runner.Outcomes {
		if n := summary[o]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", o, n))
		}
	}
	fmt.Fprintf(w, "%d runs: %s\n", len(results), strings.Join(parts, " "))
}

func writeCSVFile(path string, records []production.RunRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := production.WriteCSV(f, records); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func newStatsCmd(a *app) *cobra.Command {
	var (
		db      string
		machine string
		csvOut  bool
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "List recorded runs and fit execution time to input length",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := production.OpenRunStore(db)
			if err != nil {
				return err
			}
			defer store.Close()
			records, err := store.List(cmd.Context(), machine)
			if err != nil {
				return err
			}
			if csvOut {
				return production.WriteCSV(a.stdout, records)
			}

			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "MACHINE\tLENGTH\tSTEPS\tOUTCOME\tELAPSED")
			for _, r := range records {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\n", r.Machine, r.InputLength, r.Steps, r.Outcome, r.Elapsed.Round(time.Microsecond))
			}
			tw.Flush()

			coef, err := runner.FitRecords(records)
			if err != nil {
				a.logger.Debug("skip fit", "records", len(records), "error", err)
				fmt.Fprintf(a.stdout, "%d runs; not enough distinct input lengths for a quadratic fit\n", len(records))
				return nil
			}
			fmt.Fprintf(a.stdout, "%d runs; time(s) ≈ %.3g·n² + %.3g·n + %.3g\n", len(records), coef[0], coef[1], coef[2])
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&db, "db", "turingx.db", "SQLite run database")
	fl.StringVar(&machine, "machine", "", "only runs of this machine")
	fl.BoolVar(&csvOut, "csv", false, "print CSV instead of the listing")
	return cmd
}
