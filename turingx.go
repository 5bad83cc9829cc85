// Package turingx is a deterministic single-tape Turing machine engine.
//
// A machine is described by a Definition (states, alphabet, blank, initial
// and final states, and a partial transition table), loaded from a .tm, .json
// or .yaml file or built in code, and run on an input tape:
//
//	def, err := turingx.Load("configs/fibonacci.tm")
//	m, err := turingx.New(def, "11111")
//	res, err := turingx.Run(ctx, m, turingx.Limits{MaxSteps: 1e6})
//	fmt.Println(res.Value) // 5
//
// A missing transition halts the machine normally. Run bounds execution;
// Machine.Run alone does not.
package turingx

import (
	"context"

	"github.com/comalice/turingx/internal/core"
	"github.com/comalice/turingx/internal/loader"
	"github.com/comalice/turingx/internal/primitives"
	"github.com/comalice/turingx/internal/runner"
)

type (
	Symbol     = primitives.Symbol
	State      = primitives.State
	Move       = primitives.Move
	Key        = primitives.Key
	Action     = primitives.Action
	Transition = primitives.Transition
	Definition = primitives.Definition
	Table      = primitives.Table

	ConfigError = primitives.ConfigError

	Machine       = core.Machine
	Option        = core.Option
	Tape          = core.Tape
	HaltReason    = core.HaltReason
	StepEvent     = core.StepEvent
	StepPublisher = core.StepPublisher
	Snapshot      = core.Snapshot
	Persister     = core.Persister
	Shortcut      = core.Shortcut
	Shortcuts     = core.Shortcuts

	Limits       = runner.Limits
	Result       = runner.Result
	Outcome      = runner.Outcome
	BatchOptions = runner.BatchOptions
)

const (
	Left  = primitives.Left
	Right = primitives.Right
	Stay  = primitives.Stay

	Running        = core.Running
	FinalState     = core.FinalState
	NoRule         = core.NoRule
	ShortcutHalt   = core.ShortcutHalt
	ShortcutFailed = core.ShortcutFailed
)

var (
	ErrInvalidConfig    = primitives.ErrInvalidConfig
	ErrDidNotHalt       = runner.ErrDidNotHalt
	ErrShortcutOverflow = core.ErrShortcutOverflow

	WithShortcuts    = core.WithShortcuts
	WithoutShortcuts = core.WithoutShortcuts
	WithShortcut     = core.WithShortcut
	WithLogger       = core.WithLogger
	WithPublisher    = core.WithPublisher
	WithRunID        = core.WithRunID
	WithTable        = core.WithTable

	NewDefinitionBuilder = primitives.NewDefinitionBuilder
	NewTable             = primitives.NewTable
	Interpret            = core.Interpret
)

// Load reads a machine description, choosing the format from the extension.
func Load(path string) (Definition, error) {
	return loader.LoadFile(path)
}

// Parse parses a description in format "text", "json" or "yaml".
func Parse(format string, data []byte, source string) (Definition, error) {
	return loader.Parse(format, data, source)
}

// New validates def and returns a machine with input on the tape.
func New(def Definition, input string, opts ...Option) (*Machine, error) {
	return core.NewMachine(def, input, opts...)
}

// Resume rebuilds a machine from a snapshot.
func Resume(snapshot Snapshot, opts ...Option) (*Machine, error) {
	return core.Resume(snapshot, opts...)
}

// Run steps m until it halts or limits are exhausted.
func Run(ctx context.Context, m *Machine, limits Limits) (Result, error) {
	return runner.Run(ctx, m, limits)
}

// Batch runs one machine per input in parallel, results in input order.
func Batch(ctx context.Context, def Definition, inputs []string, opts BatchOptions) ([]Result, error) {
	return runner.Batch(ctx, def, inputs, opts)
}
