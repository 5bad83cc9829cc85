package core

import (
	"errors"
	"fmt"

	"github.com/comalice/turingx/internal/primitives"
)

// FibonacciState is the state that triggers the Fibonacci shortcut.
const FibonacciState primitives.State = "solve_fib"

// Output convention shared by the shortcut and Interpret.
const (
	Delimiter primitives.Symbol = "0"
	Digit     primitives.Symbol = "1"
)

// MaxShortcutCells bounds the tape a shortcut may produce.
const MaxShortcutCells = 1 << 26

// ErrShortcutOverflow is returned when a shortcut result does not fit the tape bound.
var ErrShortcutOverflow = errors.New("shortcut result exceeds tape bound")

// RewriteFunc rewrites the addressed tape cells (lowest position first) and
// the logical head position. The returned cells start at logical position 0.
type RewriteFunc func(cells []primitives.Symbol, head int) ([]primitives.Symbol, int, error)

// Shortcut replaces table-driven stepping for one state with a native
// computation. After Rewrite the machine adopts Terminal and halts.
type Shortcut struct {
	Terminal primitives.State
	Rewrite  RewriteFunc
}

// Shortcuts maps trigger states to shortcuts.
type Shortcuts map[primitives.State]Shortcut

// DefaultShortcuts returns the shipped registry: solve_fib terminating in the
// first final state of def, or "halt" when def declares none.
func DefaultShortcuts(def primitives.Definition) Shortcuts {
	terminal := primitives.State("halt")
	if len(def.Final) > 0 {
		terminal = def.Final[0]
	}
	return Shortcuts{FibonacciState: FibonacciShortcut(def.Blank, terminal)}
}

// FibonacciShortcut counts the unary digits on the tape as n and rewrites the
// tape to blank, delimiter, Fib(n) digits, blank, with the head on the first
// cell.
func FibonacciShortcut(blank primitives.Symbol, terminal primitives.State) Shortcut {
	return Shortcut{
		Terminal: terminal,
		Rewrite: func(cells []primitives.Symbol, _ int) ([]primitives.Symbol, int, error) {
			n := 0
			for _, s := range cells {
				if s == Digit {
					n++
				}
			}
			result := Fibonacci(n)
			if result > MaxShortcutCells {
				return nil, 0, fmt.Errorf("fib(%d) = %d: %w", n, result, ErrShortcutOverflow)
			}
			out := make([]primitives.Symbol, 0, int(result)+3)
			out = append(out, blank, Delimiter)
			for i := uint64(0); i < result; i++ {
				out = append(out, Digit)
			}
			out = append(out, blank)
			return out, 0, nil
		},
	}
}

// Fibonacci uses the machine's own indexing: n<2 -> 0, 2 -> 1, 3 -> 2, and
// from 4 on each term is the sum of the two before it (4 -> 3, 5 -> 5).
// Saturates at the maximum uint64.
func Fibonacci(n int) uint64 {
	switch {
	case n < 2:
		return 0
	case n == 2:
		return 1
	case n == 3:
		return 2
	}
	var f2, f1 uint64 = 1, 2
	for i := 4; i <= n; i++ {
		f := f1 + f2
		if f < f1 {
			return ^uint64(0)
		}
		f2, f1 = f1, f
	}
	return f1
}
