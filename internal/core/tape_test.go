package core

import (
	"testing"

	"github.com/comalice/turingx/internal/primitives"
)

func TestTapeEmptyInputHoldsBlank(t *testing.T) {
	tp := NewTape("B", nil)
	if got := tp.String(); got != "B" {
		t.Errorf("String() = %q want B", got)
	}
	if tp.Read() != "B" {
		t.Error("empty tape should read blank")
	}
}

func TestTapeReadGrowsBothWays(t *testing.T) {
	tp := NewTape("B", primitives.SymbolsOf("11"))
	tp.Move(primitives.Left)
	if got := tp.Read(); got != "B" {
		t.Errorf("Read at -1 = %q want B", got)
	}
	if got := tp.String(); got != "B11" {
		t.Errorf("String() = %q want B11", got)
	}
	for i := 0; i < 4; i++ {
		tp.Move(primitives.Right)
	}
	tp.Write("0")
	if got := tp.String(); got != "B11B0" {
		t.Errorf("String() = %q want B11B0", got)
	}
	lo, hi := tp.Bounds()
	if lo != -1 || hi != 3 {
		t.Errorf("Bounds() = %d,%d want -1,3", lo, hi)
	}
}

func TestTapeMoveDoesNotAddress(t *testing.T) {
	tp := NewTape("B", primitives.SymbolsOf("1"))
	for i := 0; i < 10; i++ {
		tp.Move(primitives.Left)
	}
	if tp.Head() != -10 {
		t.Errorf("Head() = %d want -10", tp.Head())
	}
	if got := tp.String(); got != "1" {
		t.Errorf("moving alone should not grow the rendered tape, got %q", got)
	}
	tp.Move(primitives.Stay)
	if tp.Head() != -10 {
		t.Errorf("Stay moved the head to %d", tp.Head())
	}
}

func TestTapeGrowthPreservesLogicalCells(t *testing.T) {
	tests := []struct {
		name string
		pos  int
	}{
		{"far left", -50},
		{"left", -1},
		{"origin", 0},
		{"right", 7},
		{"far right", 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tp := NewTape("B", primitives.SymbolsOf("101"))
			walk(tp, tt.pos)
			tp.Write("X")

			// Wander across both ends so the buffer reallocates.
			walk(tp, tt.pos-120)
			walk(tp, tt.pos+200)
			walk(tp, tt.pos)

			if got := tp.Read(); got != "X" {
				t.Errorf("Read at %d = %q want X", tt.pos, got)
			}
			if tp.At(tt.pos) != "X" {
				t.Errorf("At(%d) = %q want X", tt.pos, tp.At(tt.pos))
			}
			if tt.pos != 0 && (tp.At(0) != "1" || tp.At(1) != "0" || tp.At(2) != "1") {
				t.Errorf("input cells moved: %q %q %q", tp.At(0), tp.At(1), tp.At(2))
			}
		})
	}
}

// walk moves the head to p, reading every cell on the way.
func walk(tp *Tape, p int) {
	for tp.Head() < p {
		tp.Move(primitives.Right)
		tp.Read()
	}
	for tp.Head() > p {
		tp.Move(primitives.Left)
		tp.Read()
	}
}

func TestTapeReset(t *testing.T) {
	tp := NewTape("B", primitives.SymbolsOf("1101"))
	tp.Reset(primitives.SymbolsOf("B0B"), 0)
	if tp.String() != "B0B" || tp.Head() != 0 {
		t.Errorf("after Reset got %q head %d", tp.String(), tp.Head())
	}
	lo, hi := tp.Bounds()
	if lo != 0 || hi != 2 {
		t.Errorf("Bounds() = %d,%d want 0,2", lo, hi)
	}
}

func TestNewTapeAt(t *testing.T) {
	tp := NewTapeAt("B", primitives.SymbolsOf("X11"), -1, 1)
	if tp.At(-1) != "X" || tp.Head() != 1 {
		t.Errorf("At(-1) = %q head %d", tp.At(-1), tp.Head())
	}
	if tp.Read() != "1" {
		t.Errorf("Read() = %q want 1", tp.Read())
	}
}
