// Package runner bounds machine execution from the caller side. The engine's
// Run has no step limit; Run here adds a step budget and a wall-clock
// deadline and reports exceeding either as OutcomeDidNotHalt.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/comalice/turingx/internal/core"
	"github.com/comalice/turingx/internal/primitives"
)

// ErrDidNotHalt is returned when a run exhausts its limits.
var ErrDidNotHalt = errors.New("machine did not halt within limits")

// Outcome classifies a finished run.
type Outcome string

const (
	OutcomeFinal      Outcome = "final"
	OutcomeNoRule     Outcome = "no_rule"
	OutcomeShortcut   Outcome = "shortcut"
	OutcomeDidNotHalt Outcome = "did_not_halt"
	OutcomeCanceled   Outcome = "canceled"
	OutcomeError      Outcome = "error"
)

// Outcomes lists every outcome, in label order for metrics.
var Outcomes = []Outcome{OutcomeFinal, OutcomeNoRule, OutcomeShortcut, OutcomeDidNotHalt, OutcomeCanceled, OutcomeError}

// Limits bounds a run. Zero values mean unlimited.
type Limits struct {
	MaxSteps int
	Timeout  time.Duration
}

// Result describes a finished run.
type Result struct {
	RunID       string           `json:"runID"`
	Version     string           `json:"version"`
	Input       string           `json:"input"`
	InputLength int              `json:"inputLength"`
	Steps       int              `json:"steps"`
	Elapsed     time.Duration    `json:"elapsed"`
	Outcome     Outcome          `json:"outcome"`
	State       primitives.State `json:"state"`
	Tape        string           `json:"tape"`
	Value       int              `json:"value"`
	HasValue    bool             `json:"hasValue"`
	Err         error            `json:"-"`
}

// Option configures Run.
type Option func(*config)

type config struct {
	metrics   *Metrics
	persister core.Persister
	logger    *slog.Logger
	now       func() time.Time
}

// WithMetrics records every run in m.
func WithMetrics(m *Metrics) Option {
	return func(c *config) { c.metrics = m }
}

// WithPersister saves the final snapshot of every run.
func WithPersister(p core.Persister) Option {
	return func(c *config) { c.persister = p }
}

// WithLogger configures the run logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

func newConfig(opts []Option) *config {
	c := &config{logger: slog.New(slog.DiscardHandler), now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ctxCheckInterval is how many steps run between context checks.
const ctxCheckInterval = 256

// Run steps m until it halts or a limit is hit. The returned error is nil for
// both halting outcomes, wraps ErrDidNotHalt when a limit is exhausted, is
// the parent context's error on cancellation and the shortcut's error when a
// shortcut fails. The Result is filled in every case.
func Run(ctx context.Context, m *core.Machine, limits Limits, opts ...Option) (Result, error) {
	cfg := newConfig(opts)

	runCtx := ctx
	if limits.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, limits.Timeout)
		defer cancel()
	}

	start := cfg.now()
	outcome, err := drive(ctx, runCtx, m, limits.MaxSteps)
	res := resultOf(m, outcome, cfg.now().Sub(start))
	res.Err = err

	cfg.logger.Info("run finished",
		"run_id", res.RunID,
		"outcome", string(res.Outcome),
		"steps", res.Steps,
		"elapsed", res.Elapsed,
	)
	if cfg.metrics != nil {
		cfg.metrics.Observe(res)
	}
	if cfg.persister != nil {
		snapshot := m.Snapshot()
		snapshot.RunID = res.RunID
		if perr := cfg.persister.Save(ctx, snapshot); perr != nil {
			cfg.logger.Warn("save snapshot", "run_id", res.RunID, "error", perr)
			if err == nil {
				err = fmt.Errorf("save snapshot: %w", perr)
				res.Err = err
			}
		}
	}
	return res, err
}

func drive(parent, ctx context.Context, m *core.Machine, maxSteps int) (Outcome, error) {
	for !m.Halted() {
		if maxSteps > 0 && m.Steps() >= maxSteps {
			return OutcomeDidNotHalt, fmt.Errorf("%w: %d steps", ErrDidNotHalt, m.Steps())
		}
		if m.Steps()%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				if perr := parent.Err(); perr != nil {
					return OutcomeCanceled, perr
				}
				return OutcomeDidNotHalt, fmt.Errorf("%w: deadline after %d steps", ErrDidNotHalt, m.Steps())
			}
		}
		if err := m.Step(); err != nil {
			return OutcomeError, err
		}
	}
	switch m.Reason() {
	case core.FinalState:
		return OutcomeFinal, nil
	case core.NoRule:
		return OutcomeNoRule, nil
	case core.ShortcutHalt:
		return OutcomeShortcut, nil
	}
	return OutcomeError, fmt.Errorf("unexpected halt reason %q", m.Reason())
}

func resultOf(m *core.Machine, outcome Outcome, elapsed time.Duration) Result {
	runID := m.RunID()
	if runID == "" {
		runID = uuid.NewString()
	}
	value, ok := m.Result()
	return Result{
		RunID:       runID,
		Version:     m.Version(),
		Input:       m.Input(),
		InputLength: len([]rune(m.Input())),
		Steps:       m.Steps(),
		Elapsed:     elapsed,
		Outcome:     outcome,
		State:       m.State(),
		Tape:        m.TapeString(),
		Value:       value,
		HasValue:    ok,
	}
}
