// Package core provides the runtime tier of the Turing machine engine:
// the Tape, the Machine (step/run/halt), the native shortcut registry and
// result interpretation.
// Dependencies: internal/primitives.
//
//go:generate go test ./... -race
package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/comalice/turingx/internal/primitives"
)

// HaltReason records why a machine stopped.
type HaltReason string

const (
	Running        HaltReason = ""
	FinalState     HaltReason = "final_state"
	NoRule         HaltReason = "no_rule"
	ShortcutHalt   HaltReason = "shortcut"
	ShortcutFailed HaltReason = "shortcut_failed"
)

func (r HaltReason) String() string {
	if r == Running {
		return "running"
	}
	return string(r)
}

// StepPublisher receives one StepEvent per executed step.
type StepPublisher interface {
	Publish(ctx context.Context, evt StepEvent) error
}

// Persister stores machine snapshots by run ID.
type Persister interface {
	Save(ctx context.Context, snapshot Snapshot) error
	Load(ctx context.Context, runID string) (Snapshot, error)
}

// StepEvent describes a single executed step.
type StepEvent struct {
	RunID     string            `json:"runID" yaml:"runID"`
	Step      int               `json:"step" yaml:"step"`
	From      primitives.State  `json:"from" yaml:"from"`
	To        primitives.State  `json:"to" yaml:"to"`
	Read      primitives.Symbol `json:"read,omitempty" yaml:"read,omitempty"`
	Write     primitives.Symbol `json:"write,omitempty" yaml:"write,omitempty"`
	Move      primitives.Move   `json:"move,omitempty" yaml:"move,omitempty"`
	Head      int               `json:"head" yaml:"head"`
	TapeStart int               `json:"tapeStart" yaml:"tapeStart"`
	Tape      string            `json:"tape" yaml:"tape"`
	Shortcut  bool              `json:"shortcut,omitempty" yaml:"shortcut,omitempty"`
	Halted    bool              `json:"halted" yaml:"halted"`
	Reason    HaltReason        `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Snapshot is the serializable runtime state of a machine.
type Snapshot struct {
	RunID      string                `json:"runID" yaml:"runID"`
	Version    string                `json:"version" yaml:"version"`
	Definition primitives.Definition `json:"definition" yaml:"definition"`
	Input      string                `json:"input" yaml:"input"`
	State      primitives.State      `json:"state" yaml:"state"`
	Head       int                   `json:"head" yaml:"head"`
	TapeStart  int                   `json:"tapeStart" yaml:"tapeStart"`
	Tape       string                `json:"tape" yaml:"tape"`
	Steps      int                   `json:"steps" yaml:"steps"`
	Halted     bool                  `json:"halted" yaml:"halted"`
	Reason     HaltReason            `json:"reason,omitempty" yaml:"reason,omitempty"`
	Timestamp  time.Time             `json:"timestamp" yaml:"timestamp"`
}

// Option applies configuration to Machine via functional options pattern.
type Option func(*Machine)

// Machine is a deterministic single-tape Turing machine.
// It is single-threaded: Step and Run must not be called concurrently.
type Machine struct {
	def       primitives.Definition
	version   string
	table     *primitives.Table
	final     map[primitives.State]struct{}
	shortcuts Shortcuts
	tape      *Tape
	input     string
	state     primitives.State
	steps     int
	halted    bool
	reason    HaltReason
	runID     string

	logger    *slog.Logger
	publisher StepPublisher
}

// NewMachine validates def and returns a machine in its initial state with
// input on the tape. Configuration errors match primitives.ErrInvalidConfig.
func NewMachine(def primitives.Definition, input string, opts ...Option) (*Machine, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	m := newMachine(def, opts...)
	m.input = input
	m.tape = NewTape(def.Blank, primitives.SymbolsOf(input))
	m.state = def.Initial
	return m, nil
}

// Resume rebuilds a machine from a snapshot.
func Resume(snapshot Snapshot, opts ...Option) (*Machine, error) {
	def := snapshot.Definition
	if err := def.Validate(); err != nil {
		return nil, err
	}
	if v := primitives.Fingerprint(def); snapshot.Version != "" && v != snapshot.Version {
		return nil, fmt.Errorf("snapshot version mismatch: have %q, snapshot %q", v, snapshot.Version)
	}
	if !def.HasState(snapshot.State) {
		return nil, primitives.ConfigErrorf("snapshot state %q not found in states", snapshot.State)
	}
	m := newMachine(def, append([]Option{WithRunID(snapshot.RunID)}, opts...)...)
	m.input = snapshot.Input
	m.tape = NewTapeAt(def.Blank, primitives.SymbolsOf(snapshot.Tape), snapshot.TapeStart, snapshot.Head)
	m.state = snapshot.State
	m.steps = snapshot.Steps
	m.halted = snapshot.Halted
	m.reason = snapshot.Reason
	return m, nil
}

func newMachine(def primitives.Definition, opts ...Option) *Machine {
	m := &Machine{
		def:       def,
		version:   primitives.Fingerprint(def),
		final:     make(map[primitives.State]struct{}, len(def.Final)),
		shortcuts: DefaultShortcuts(def),
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, f := range def.Final {
		m.final[f] = struct{}{}
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.table == nil {
		m.table = primitives.NewTable(def.Transitions)
	}
	return m
}

// Step executes one step. It is a no-op once the machine has halted.
// The only error is a failing shortcut, which also halts the machine.
func (m *Machine) Step() error {
	if m.halted {
		return nil
	}
	from := m.state

	if sc, ok := m.shortcuts[m.state]; ok {
		m.steps++
		cells, head, err := sc.Rewrite(m.tape.Symbols(), m.tape.Head())
		if err != nil {
			m.halt(ShortcutFailed)
			m.publish(StepEvent{From: from, To: m.state, Shortcut: true})
			return fmt.Errorf("shortcut %s: %w", from, err)
		}
		m.tape.Reset(cells, head)
		m.state = sc.Terminal
		m.halt(ShortcutHalt)
		m.publish(StepEvent{From: from, To: m.state, Shortcut: true})
		return nil
	}

	sym := m.tape.Read()
	action, ok := m.table.Lookup(m.state, sym)
	m.steps++
	if !ok {
		m.halt(NoRule)
		m.publish(StepEvent{From: from, To: from, Read: sym})
		return nil
	}

	m.tape.Write(action.Write)
	m.tape.Move(action.Move)
	m.state = action.Next
	if _, final := m.final[m.state]; final {
		m.halt(FinalState)
	}
	m.publish(StepEvent{From: from, To: m.state, Read: sym, Write: action.Write, Move: action.Move})
	return nil
}

// Run steps until the machine halts. There is no step bound; ctx is the
// caller's only way to stop a machine that never halts.
func (m *Machine) Run(ctx context.Context) error {
	for !m.halted {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := m.Step(); err != nil {
			return err
		}
	}
	return nil
}

func (m *Machine) halt(reason HaltReason) {
	m.halted = true
	m.reason = reason
	m.logger.Debug("machine halted",
		"run_id", m.runID,
		"state", m.state,
		"reason", reason.String(),
		"steps", m.steps,
		"head", m.tape.Head(),
	)
}

func (m *Machine) publish(evt StepEvent) {
	if m.publisher == nil {
		return
	}
	evt.RunID = m.runID
	evt.Step = m.steps
	evt.Head = m.tape.Head()
	evt.TapeStart, _ = m.tape.Bounds()
	evt.Tape = m.tape.String()
	evt.Halted = m.halted
	evt.Reason = m.reason
	if err := m.publisher.Publish(context.Background(), evt); err != nil {
		m.logger.Warn("publish step", "run_id", m.runID, "step", evt.Step, "error", err)
	}
}

// Halted reports whether the machine has stopped.
func (m *Machine) Halted() bool { return m.halted }

// Reason returns why the machine halted, or Running.
func (m *Machine) Reason() HaltReason { return m.reason }

// State returns the current state.
func (m *Machine) State() primitives.State { return m.state }

// Head returns the logical head position.
func (m *Machine) Head() int { return m.tape.Head() }

// Steps returns the number of executed steps.
func (m *Machine) Steps() int { return m.steps }

// Input returns the initial tape contents.
func (m *Machine) Input() string { return m.input }

// RunID returns the run identifier set with WithRunID.
func (m *Machine) RunID() string { return m.runID }

// Definition returns the machine's definition.
func (m *Machine) Definition() primitives.Definition { return m.def }

// Version returns the definition fingerprint.
func (m *Machine) Version() string { return m.version }

// TapeString renders the addressed tape from lowest to highest position.
func (m *Machine) TapeString() string { return m.tape.String() }

// TapeBounds returns the lowest and highest addressed positions.
func (m *Machine) TapeBounds() (int, int) { return m.tape.Bounds() }

// Result interprets the current tape; see Interpret.
func (m *Machine) Result() (int, bool) { return Interpret(m.tape.String()) }

// Configuration returns a one-line description of the current configuration.
func (m *Machine) Configuration() string {
	var b strings.Builder
	fmt.Fprintf(&b, "state: %s | head: %d | tape: %s", m.state, m.tape.Head(), m.tape.String())
	return b.String()
}

// Snapshot captures the runtime state.
func (m *Machine) Snapshot() Snapshot {
	lo, _ := m.tape.Bounds()
	return Snapshot{
		RunID:      m.runID,
		Version:    m.version,
		Definition: m.def,
		Input:      m.input,
		State:      m.state,
		Head:       m.tape.Head(),
		TapeStart:  lo,
		Tape:       m.tape.String(),
		Steps:      m.steps,
		Halted:     m.halted,
		Reason:     m.reason,
		Timestamp:  time.Now(),
	}
}
