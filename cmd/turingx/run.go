package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/comalice/turingx/internal/core"
	"github.com/comalice/turingx/internal/loader"
	"github.com/comalice/turingx/internal/production"
	"github.com/comalice/turingx/internal/runner"
)

// runFlags are shared by run and resume.
type runFlags struct {
	maxSteps       int
	timeout        time.Duration
	quiet          bool
	noShortcuts    bool
	snapshotDir    string
	snapshotFormat string
	db             string
}

func (f *runFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.IntVar(&f.maxSteps, "max-steps", 1_000_000, "step budget; 0 disables the limit")
	fl.DurationVar(&f.timeout, "timeout", 0, "wall-clock budget, e.g. 5s; 0 disables the limit")
	fl.BoolVarP(&f.quiet, "quiet", "q", false, "print only the final configuration")
	fl.BoolVar(&f.noShortcuts, "no-shortcuts", false, "disable native shortcuts such as solve_fib")
	fl.StringVar(&f.snapshotDir, "snapshot-dir", "", "save the final snapshot in this directory")
	fl.StringVar(&f.snapshotFormat, "snapshot-format", "json", "snapshot format (json, yaml)")
	fl.StringVar(&f.db, "db", "", "record the run in this SQLite database")
}

func (f *runFlags) limits() runner.Limits {
	return runner.Limits{MaxSteps: f.maxSteps, Timeout: f.timeout}
}

func newRunCmd(a *app) *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "run MACHINE [INPUT]",
		Short: "Run a machine on an input tape",
		Long: `Run a machine on an input tape and print a per-step trace.

When INPUT is omitted it is read from stdin (one line).`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := loader.LoadFile(args[0])
			if err != nil {
				return err
			}
			input := ""
			if len(args) == 2 {
				input = args[1]
			} else if input, err = a.readInput(); err != nil {
				return err
			}

			engineOpts := []core.Option{core.WithLogger(a.logger)}
			if flags.noShortcuts {
				engineOpts = append(engineOpts, core.WithoutShortcuts())
			}
			var trace *production.TracePublisher
			if !flags.quiet {
				trace = production.NewTracePublisher(a.stdout, a.color())
				engineOpts = append(engineOpts, core.WithPublisher(trace))
			}
			m, err := core.NewMachine(def, input, engineOpts...)
			if err != nil {
				return err
			}
			if trace != nil {
				if err := trace.Header(m); err != nil {
					return err
				}
			}
			return a.execute(cmd, m, &flags, machineName(def, args[0]))
		},
	}
	flags.register(cmd)
	return cmd
}

func newResumeCmd(a *app) *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "resume SNAPSHOT",
		Short: "Continue a run from a saved snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := production.LoadSnapshotFile(args[0])
			if err != nil {
				return err
			}
			engineOpts := []core.Option{core.WithLogger(a.logger)}
			if flags.noShortcuts {
				engineOpts = append(engineOpts, core.WithoutShortcuts())
			}
			if !flags.quiet {
				engineOpts = append(engineOpts, core.WithPublisher(production.NewTracePublisher(a.stdout, a.color())))
			}
			m, err := core.Resume(snapshot, engineOpts...)
			if err != nil {
				return err
			}
			def := m.Definition()
			return a.execute(cmd, m, &flags, machineName(def, args[0]))
		},
	}
	flags.register(cmd)
	return cmd
}

// execute runs m under flags, reports the final configuration and stores the
// run where requested.
func (a *app) execute(cmd *cobra.Command, m *core.Machine, flags *runFlags, name string) error {
	opts := []runner.Option{runner.WithLogger(a.logger)}
	var persister core.Persister
	if flags.snapshotDir != "" {
		p, err := production.NewPersister(flags.snapshotFormat, flags.snapshotDir)
		if err != nil {
			return err
		}
		persister = p
		opts = append(opts, runner.WithPersister(p))
	}

	res, runErr := runner.Run(cmd.Context(), m, flags.limits(), opts...)
	printResult(a.stdout, res)
	if p, ok := persister.(interface{ Path(string) string }); ok {
		fmt.Fprintf(a.stdout, "snapshot: %s\n", p.Path(res.RunID))
	}

	if flags.db != "" {
		store, err := production.OpenRunStore(flags.db)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Record(cmd.Context(), res.Record(name)); err != nil {
			return err
		}
	}
	return runErr
}

func printResult(w io.Writer, res runner.Result) {
	switch res.Outcome {
	case runner.OutcomeDidNotHalt:
		fmt.Fprintf(w, "did not halt after %d steps\n", res.Steps)
	case runner.OutcomeCanceled:
		fmt.Fprintf(w, "canceled after %d steps\n", res.Steps)
	case runner.OutcomeError:
		fmt.Fprintf(w, "failed after %d steps\n", res.Steps)
	default:
		fmt.Fprintf(w, "halted: %s after %d steps\n", res.Outcome, res.Steps)
	}
	fmt.Fprintf(w, "state: %s\n", res.State)
	fmt.Fprintf(w, "tape: %s\n", res.Tape)
	if res.HasValue {
		fmt.Fprintf(w, "result: %d\n", res.Value)
	} else {
		fmt.Fprintln(w, "result: none")
	}
}

// readInput reads one line from stdin, prompting when stdin is a terminal.
func (a *app) readInput() (string, error) {
	if a.interactive() {
		fmt.Fprint(a.stderr, "input tape: ")
	}
	line, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
