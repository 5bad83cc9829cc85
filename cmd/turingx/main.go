// Command turingx loads, runs and inspects deterministic single-tape Turing
// machines.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/comalice/turingx/internal/runner"
)

// Exit codes.
const (
	exitOK         = 0
	exitFailure    = 1
	exitDidNotHalt = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newApp(os.Stdin, os.Stdout, os.Stderr).invoke(ctx, os.Args[1:])
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps a command error to the process exit status. Configuration
// and I/O errors exit 1; a run that exhausted its limits exits 2.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, runner.ErrDidNotHalt):
		return exitDidNotHalt
	}
	return exitFailure
}
