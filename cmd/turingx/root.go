package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/comalice/turingx/internal/logging"
	"github.com/comalice/turingx/internal/primitives"
)

// app carries the process streams and global flags shared by subcommands.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	logLevel string
	logFile  string
	noColor  bool

	logger   *slog.Logger
	closeLog func() error
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{stdin: stdin, stdout: stdout, stderr: stderr, logger: logging.Discard()}
}

// invoke executes args against a fresh command tree. The log file is closed
// after every command, including ones that fail.
func (a *app) invoke(ctx context.Context, args []string) error {
	root := a.rootCmd()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if a.closeLog != nil {
		err = errors.Join(err, a.closeLog())
	}
	return err
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "turingx",
		Short: "Run and inspect deterministic Turing machines",
		Long: `turingx loads a machine description (.tm, .json, .yaml) and runs it on
an input tape.

Examples:
  turingx validate configs/fibonacci.tm
  turingx run configs/fibonacci.tm 11111
  turingx batch configs/fibonacci.json --unary 20 --csv times.csv
  turingx graph configs/scanner.tm | dot -Tpng -o scanner.png`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, closeFn, err := logging.New(logging.Config{Level: a.logLevel, File: a.logFile, Writer: a.stderr})
			if err != nil {
				return err
			}
			a.logger, a.closeLog = logger, closeFn
			return nil
		},
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVar(&a.logFile, "log-file", "", "also write JSON logs to this file")
	pf.BoolVar(&a.noColor, "no-color", false, "disable styled trace output")

	root.AddCommand(
		newRunCmd(a),
		newResumeCmd(a),
		newBatchCmd(a),
		newStatsCmd(a),
		newGraphCmd(a),
		newValidateCmd(a),
	)
	return root
}

// color reports whether styled output should go to stdout.
func (a *app) color() bool {
	if a.noColor {
		return false
	}
	f, ok := a.stdout.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// interactive reports whether stdin is a terminal.
func (a *app) interactive() bool {
	f, ok := a.stdin.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// machineName names runs in the store: the definition name, or the file name
// without extension.
func machineName(def primitives.Definition, path string) string {
	if def.Name != "" {
		return def.Name
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
