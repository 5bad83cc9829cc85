package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/comalice/turingx/internal/primitives"
)

func scannerDefinition() primitives.Definition {
	return primitives.Definition{
		States:   []primitives.State{"q0", "q1", "halt"},
		Alphabet: []primitives.Symbol{"1", "0", "B"},
		Blank:    "B",
		Initial:  "q0",
		Final:    []primitives.State{"halt"},
		Transitions: map[primitives.Key]primitives.Action{
			{State: "q0", Symbol: "1"}: {Next: "q0", Write: "1", Move: primitives.Right},
			{State: "q0", Symbol: "B"}: {Next: "halt", Write: "B", Move: primitives.Stay},
		},
	}
}

type recordPublisher struct {
	events []StepEvent
}

func (p *recordPublisher) Publish(_ context.Context, evt StepEvent) error {
	p.events = append(p.events, evt)
	return nil
}

func TestMachine_InitialConfiguration(t *testing.T) {
	m, err := NewMachine(scannerDefinition(), "11")
	if err != nil {
		t.Fatal(err)
	}
	if m.State() != "q0" || m.Head() != 0 || m.Halted() {
		t.Errorf("got state %s head %d halted %v", m.State(), m.Head(), m.Halted())
	}
	if m.Reason() != Running || m.Reason().String() != "running" {
		t.Errorf("Reason() = %q", m.Reason())
	}
	if m.TapeString() != "11" {
		t.Errorf("TapeString() = %q", m.TapeString())
	}
}

func TestMachine_ScannerEndToEnd(t *testing.T) {
	pub := &recordPublisher{}
	m, err := NewMachine(scannerDefinition(), "11", WithPublisher(pub), WithRunID("run-1"))
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if m.Steps() != 3 {
		t.Errorf("Steps() = %d want 3", m.Steps())
	}
	if m.State() != "halt" || m.Reason() != FinalState {
		t.Errorf("got state %s reason %s", m.State(), m.Reason())
	}
	if got := m.TapeString(); got != "11B" {
		t.Errorf("TapeString() = %q want 11B", got)
	}
	if _, ok := m.Result(); ok {
		t.Error("Result() should be absent without a delimiter")
	}
	if len(pub.events) != 3 {
		t.Fatalf("published %d events want 3", len(pub.events))
	}
	last := pub.events[2]
	if !last.Halted || last.From != "q0" || last.To != "halt" || last.Read != "B" || last.RunID != "run-1" {
		t.Errorf("last event = %+v", last)
	}
}

func TestMachine_FinalTransitionAppliedBeforeHalt(t *testing.T) {
	def := scannerDefinition()
	def.Alphabet = append(def.Alphabet, "X")
	def.Transitions[primitives.Key{State: "q0", Symbol: "1"}] = primitives.Action{Next: "halt", Write: "X", Move: primitives.Right}
	m, err := NewMachine(def, "1")
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Step(); err != nil {
		t.Fatal(err)
	}
	if !m.Halted() || m.Reason() != FinalState {
		t.Fatalf("halted=%v reason=%s", m.Halted(), m.Reason())
	}
	if m.Head() != 1 {
		t.Errorf("Head() = %d want 1: move must be applied before halting", m.Head())
	}
	if m.TapeString() != "X" {
		t.Errorf("TapeString() = %q want X", m.TapeString())
	}
}

func TestMachine_NoRuleHalts(t *testing.T) {
	m, err := NewMachine(scannerDefinition(), "10")
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if m.Reason() != NoRule || m.State() != "q0" || m.Head() != 1 {
		t.Errorf("got reason %s state %s head %d", m.Reason(), m.State(), m.Head())
	}
}

func TestMachine_HaltIsMonotonic(t *testing.T) {
	m, err := NewMachine(scannerDefinition(), "1")
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	before := m.Snapshot()
	for i := 0; i < 5; i++ {
		if err := m.Step(); err != nil {
			t.Fatal(err)
		}
	}
	after := m.Snapshot()
	if before.State != after.State || before.Head != after.Head || before.Tape != after.Tape ||
		before.Steps != after.Steps || before.Reason != after.Reason {
		t.Errorf("halted machine mutated: before %+v after %+v", before, after)
	}
}

func TestMachine_InvalidDefinition(t *testing.T) {
	def := scannerDefinition()
	def.Initial = "start"
	_, err := NewMachine(def, "1")
	if !errors.Is(err, primitives.ErrInvalidConfig) {
		t.Errorf("NewMachine err = %v want config error", err)
	}
}

func TestMachine_RejectsEmptyWriteSymbol(t *testing.T) {
	def := scannerDefinition()
	def.Transitions[primitives.Key{State: "q0", Symbol: "1"}] = primitives.Action{Next: "q1", Write: "", Move: primitives.Right}
	if _, err := NewMachine(def, "1"); !errors.Is(err, primitives.ErrInvalidConfig) {
		t.Fatalf("NewMachine err = %v want config error", err)
	}

	snap := Snapshot{Definition: def, State: "q0", Tape: "1"}
	if _, err := Resume(snap); !errors.Is(err, primitives.ErrInvalidConfig) {
		t.Errorf("Resume err = %v want config error", err)
	}
}

func loopDefinition() primitives.Definition {
	return primitives.NewDefinitionBuilder("loop", "q0").
		Blank("B").
		Rule("q0", "B", "q0", "B", primitives.Right).
		MustBuild()
}

func TestMachine_RunHonoursContext(t *testing.T) {
	m, err := NewMachine(loopDefinition(), "")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := m.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run() err = %v want deadline exceeded", err)
	}
	if m.Halted() {
		t.Error("a machine stopped by its caller is not halted")
	}
	if m.Steps() == 0 {
		t.Error("machine never stepped")
	}
}

func TestMachine_SnapshotResume(t *testing.T) {
	full, err := NewMachine(scannerDefinition(), "111")
	if err != nil {
		t.Fatal(err)
	}
	if err := full.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	m, err := NewMachine(scannerDefinition(), "111", WithRunID("r"))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if err := m.Step(); err != nil {
			t.Fatal(err)
		}
	}
	snap := m.Snapshot()
	if snap.Version != primitives.Fingerprint(scannerDefinition()) {
		t.Errorf("snapshot version = %q", snap.Version)
	}

	resumed, err := Resume(snap)
	if err != nil {
		t.Fatal(err)
	}
	if resumed.RunID() != "r" || resumed.Steps() != 2 || resumed.Head() != 2 {
		t.Errorf("resumed run %q steps %d head %d", resumed.RunID(), resumed.Steps(), resumed.Head())
	}
	if err := resumed.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if resumed.TapeString() != full.TapeString() || resumed.Steps() != full.Steps() || resumed.State() != full.State() {
		t.Errorf("resumed run diverged: %s vs %s", resumed.Configuration(), full.Configuration())
	}
}

func TestMachine_ResumeRejectsVersionMismatch(t *testing.T) {
	m, err := NewMachine(scannerDefinition(), "1")
	if err != nil {
		t.Fatal(err)
	}
	snap := m.Snapshot()
	snap.Version = "deadbeef"
	if _, err := Resume(snap); err == nil {
		t.Error("expected version mismatch error")
	}
}

func TestMachine_SharedTable(t *testing.T) {
	def := scannerDefinition()
	table := primitives.NewTable(def.Transitions)
	for _, in := range []string{"", "1", "1111"} {
		m, err := NewMachine(def, in, WithTable(table))
		if err != nil {
			t.Fatal(err)
		}
		if err := m.Run(context.Background()); err != nil {
			t.Fatal(err)
		}
		if m.State() != "halt" {
			t.Errorf("input %q ended in %s", in, m.State())
		}
	}
}
