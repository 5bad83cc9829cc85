// Package benchmarks provides shared helpers for benchmark tests.
package benchmarks

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/comalice/turingx/internal/core"
	"github.com/comalice/turingx/internal/primitives"
)

// GenCycleDefinition creates n states cycling on the blank without moving.
// It never halts, so every step is a table lookup on a fixed tape.
func GenCycleDefinition(n int) primitives.Definition {
	if n < 1 {
		n = 1
	}
	b := primitives.NewDefinitionBuilder(fmt.Sprintf("cycle_%d", n), "s0").Blank("B").Final("halt")
	for i := 0; i < n; i++ {
		from := primitives.State(fmt.Sprintf("s%d", i))
		to := primitives.State(fmt.Sprintf("s%d", (i+1)%n))
		b.Rule(from, "B", to, "B", primitives.Stay)
	}
	return b.MustBuild()
}

// GenRunawayDefinition writes "1" forever in direction m, growing the tape
// by one cell per step.
func GenRunawayDefinition(m primitives.Move) primitives.Definition {
	return primitives.NewDefinitionBuilder("runaway_"+string(m), "w").
		Blank("B").
		Final("halt").
		Rule("w", "B", "w", "1", m).
		MustBuild()
}

// GenWideAlphabet creates one state stepping through k symbols in place, so
// the table holds k rules for a single state. k is capped at 52.
func GenWideAlphabet(k int) primitives.Definition {
	const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	if k < 1 {
		k = 1
	}
	if k > len(letters) {
		k = len(letters)
	}
	b := primitives.NewDefinitionBuilder(fmt.Sprintf("wide_%d", k), "main").Blank("B").Final("halt")
	b.Rule("main", "B", "main", primitives.Symbol(letters[0:1]), primitives.Stay)
	for i := 0; i < k; i++ {
		read := primitives.Symbol(letters[i : i+1])
		write := primitives.Symbol(letters[(i+1)%k : (i+1)%k+1])
		b.Rule("main", read, "main", write, primitives.Stay)
	}
	return b.MustBuild()
}

// GenScannerDefinition scans right over "1"s and halts on the first blank.
func GenScannerDefinition() primitives.Definition {
	return primitives.NewDefinitionBuilder("scanner", "q0").
		Blank("B").
		Final("halt").
		Rule("q0", "1", "q0", "1", primitives.Right).
		Rule("q0", "B", "halt", "B", primitives.Stay).
		MustBuild()
}

// Unary returns n digit symbols.
func Unary(n int) string {
	out := make([]byte, n)
	for i := range out {
		out[i] = '1'
	}
	return string(out)
}

// GenSnapshotYAML generates YAML bytes for a snapshot of a cycle machine with
// numStates states after a few steps.
func GenSnapshotYAML(numStates int) []byte {
	m, err := core.NewMachine(GenCycleDefinition(numStates), "")
	if err != nil {
		panic(err)
	}
	for i := 0; i < 3; i++ {
		if err := m.Step(); err != nil {
			panic(err)
		}
	}
	data, err := yaml.Marshal(m.Snapshot())
	if err != nil {
		panic(err)
	}
	return data
}
