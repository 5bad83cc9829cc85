// Package benchmarks provides benchmarks for transition lookup and native shortcuts.
package benchmarks

import (
	"fmt"
	"testing"

	"github.com/comalice/turingx/internal/core"
	"github.com/comalice/turingx/internal/primitives"
)

func BenchmarkTableLookup(b *testing.B) {
	for _, k := range []int{2, 16, 52} {
		b.Run(fmt.Sprintf("rules=%d", k+1), func(b *testing.B) {
			def := GenWideAlphabet(k)
			table := primitives.NewTable(def.Transitions)
			syms := def.Alphabet
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, ok := table.Lookup("main", syms[i%len(syms)]); !ok {
					b.Fatal("missing rule")
				}
			}
		})
	}
}

func BenchmarkWideAlphabetSteps(b *testing.B) {
	m, err := core.NewMachine(GenWideAlphabet(52), "")
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := m.Step(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkShortcutSizes(b *testing.B) {
	for _, n := range []int{10, 20, 30} {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			sc := core.FibonacciShortcut("B", "halt")
			cells := primitives.SymbolsOf(Unary(n))
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				out, _, err := sc.Rewrite(cells, n-1)
				if err != nil {
					b.Fatal(err)
				}
				if uint64(len(out)) != core.Fibonacci(n)+3 {
					b.Fatalf("got %d cells", len(out))
				}
			}
		})
	}
}

func BenchmarkTapeGrowth(b *testing.B) {
	for _, move := range []primitives.Move{primitives.Right, primitives.Left} {
		b.Run(string(move), func(b *testing.B) {
			m, err := core.NewMachine(GenRunawayDefinition(move), "")
			if err != nil {
				b.Fatal(err)
			}
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := m.Step(); err != nil {
					b.Fatal(err)
				}
			}
			lo, hi := m.TapeBounds()
			b.ReportMetric(float64(hi-lo+1), "cells")
		})
	}
}
