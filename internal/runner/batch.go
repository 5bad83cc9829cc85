package runner

import (
	"context"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/comalice/turingx/internal/core"
	"github.com/comalice/turingx/internal/primitives"
)

// BatchOptions configures Batch.
type BatchOptions struct {
	Limits Limits
	// Workers caps concurrent machines; zero means GOMAXPROCS.
	Workers int
	// Machine options are applied to every machine after the shared table
	// and a fresh run ID.
	Machine []core.Option
	Run     []Option
}

// Batch runs one independent machine per input and returns the results in
// input order. The definition is validated once and its table is shared
// read-only by every machine. Per-run failures are reported in Result.Err and
// Result.Outcome; the returned error is a configuration error or the
// context's error.
func Batch(ctx context.Context, def primitives.Definition, inputs []string, opts BatchOptions) ([]Result, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	table := primitives.NewTable(def.Transitions)
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, input := range inputs {
		g.Go(func() error {
			machineOpts := append([]core.Option{core.WithTable(table), core.WithRunID(uuid.NewString())}, opts.Machine...)
			m, err := core.NewMachine(def, input, machineOpts...)
			if err != nil {
				return err
			}
			res, err := Run(gctx, m, opts.Limits, opts.Run...)
			res.Err = err
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

// Summary counts batch results by outcome.
func Summary(results []Result) map[Outcome]int {
	out := make(map[Outcome]int, len(Outcomes))
	for _, r := range results {
		out[r.Outcome]++
	}
	return out
}
