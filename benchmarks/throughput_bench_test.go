// Package benchmarks provides performance benchmarks for step throughput.
package benchmarks

import (
	"context"
	"fmt"
	"testing"

	"github.com/comalice/turingx/internal/core"
	"github.com/comalice/turingx/internal/runner"
)

func BenchmarkStepThroughput(b *testing.B) {
	m, err := core.NewMachine(GenCycleDefinition(4), "")
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if err := m.Step(); err != nil {
			b.Fatal(err)
		}
	}
	b.ReportMetric(float64(m.Steps())/b.Elapsed().Seconds(), "steps/sec")
}

func BenchmarkRunBounded(b *testing.B) {
	def := GenCycleDefinition(8)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		m, err := core.NewMachine(def, "")
		if err != nil {
			b.Fatal(err)
		}
		if _, err := runner.Run(context.Background(), m, runner.Limits{MaxSteps: 10_000}); err == nil {
			b.Fatal("cycle machine halted")
		}
	}
}

func BenchmarkScanner(b *testing.B) {
	def := GenScannerDefinition()
	for _, n := range []int{10, 1000, 100_000} {
		b.Run(fmt.Sprintf("len=%d", n), func(b *testing.B) {
			input := Unary(n)
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				m, err := core.NewMachine(def, input)
				if err != nil {
					b.Fatal(err)
				}
				if err := m.Run(context.Background()); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkBatchWorkers(b *testing.B) {
	def := GenScannerDefinition()
	inputs := make([]string, 64)
	for i := range inputs {
		inputs[i] = Unary(1000 + i)
	}
	for _, workers := range []int{1, 4, 16} {
		b.Run(fmt.Sprintf("workers=%d", workers), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := runner.Batch(context.Background(), def, inputs, runner.BatchOptions{Workers: workers}); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
