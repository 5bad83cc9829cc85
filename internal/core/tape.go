// Package core provides the runtime tier of the Turing machine engine.
// Tape is the bi-infinite tape: a dense buffer plus the physical index of
// logical cell 0. Growth may move the origin but never the logical address
// of a cell.
package core

import (
	"strings"

	"github.com/comalice/turingx/internal/primitives"
)

// Tape is exclusively owned by one Machine; it is not safe for concurrent use.
type Tape struct {
	blank  primitives.Symbol
	cells  []primitives.Symbol
	origin int // physical index of logical position 0
	lo, hi int // addressed logical range, inclusive
	head   int
}

// NewTape returns a tape holding input from logical position 0 with the head
// on position 0. Empty input yields a single blank cell.
func NewTape(blank primitives.Symbol, input []primitives.Symbol) *Tape {
	t := &Tape{blank: blank}
	t.load(input, 0)
	return t
}

// NewTapeAt returns a tape whose first cell sits at logical position start.
func NewTapeAt(blank primitives.Symbol, contents []primitives.Symbol, start, head int) *Tape {
	t := &Tape{blank: blank}
	t.load(contents, start)
	t.head = head
	return t
}

func (t *Tape) load(contents []primitives.Symbol, start int) {
	if len(contents) == 0 {
		contents = []primitives.Symbol{t.blank}
	}
	t.cells = append(make([]primitives.Symbol, 0, len(contents)), contents...)
	t.origin = -start
	t.lo = start
	t.hi = start + len(contents) - 1
	t.head = start
}

// Read returns the symbol under the head. Unaddressed cells read as blank and
// become addressed.
func (t *Tape) Read() primitives.Symbol {
	t.ensure(t.head)
	return t.cells[t.head+t.origin]
}

// Write stores sym under the head, growing the tape when needed.
func (t *Tape) Write(sym primitives.Symbol) {
	t.ensure(t.head)
	t.cells[t.head+t.origin] = sym
}

// Move shifts the head. There are no bounds.
func (t *Tape) Move(m primitives.Move) {
	t.head += m.Delta()
}

// Head returns the logical head position.
func (t *Tape) Head() int { return t.head }

// Bounds returns the lowest and highest addressed logical positions.
func (t *Tape) Bounds() (lo, hi int) { return t.lo, t.hi }

// At returns the symbol at logical position p without addressing it.
func (t *Tape) At(p int) primitives.Symbol {
	if p < t.lo || p > t.hi {
		return t.blank
	}
	return t.cells[p+t.origin]
}

// Symbols returns the addressed cells from lowest to highest position.
func (t *Tape) Symbols() []primitives.Symbol {
	out := make([]primitives.Symbol, t.hi-t.lo+1)
	copy(out, t.cells[t.lo+t.origin:t.hi+t.origin+1])
	return out
}

// Reset replaces the contents with cells starting at logical position 0 and
// places the head at head.
func (t *Tape) Reset(contents []primitives.Symbol, head int) {
	t.load(contents, 0)
	t.head = head
}

func (t *Tape) String() string {
	var b strings.Builder
	b.Grow(t.hi - t.lo + 1)
	for _, s := range t.cells[t.lo+t.origin : t.hi+t.origin+1] {
		b.WriteString(string(s))
	}
	return b.String()
}

// ensure makes logical position p addressable. The buffer grows with slack on
// the side being extended; slack cells are blank and stay outside [lo, hi]
// until addressed.
func (t *Tape) ensure(p int) {
	idx := p + t.origin
	switch {
	case idx < 0:
		grow := -idx + len(t.cells)
		cells := make([]primitives.Symbol, grow+len(t.cells))
		t.fillBlank(cells[:grow])
		copy(cells[grow:], t.cells)
		t.cells = cells
		t.origin += grow
	case idx >= len(t.cells):
		need := idx + 1 - len(t.cells)
		grow := need + len(t.cells)
		cells := make([]primitives.Symbol, len(t.cells)+grow)
		copy(cells, t.cells)
		t.fillBlank(cells[len(t.cells):])
		t.cells = cells
	}
	if p < t.lo {
		t.lo = p
	}
	if p > t.hi {
		t.hi = p
	}
}

func (t *Tape) fillBlank(cells []primitives.Symbol) {
	for i := range cells {
		cells[i] = t.blank
	}
}
