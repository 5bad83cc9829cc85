package primitives

import "strings"

// Symbol is a single tape symbol. Symbols compare by value.
type Symbol string

// State names a machine state.
type State string

// Move is a head movement.
type Move string

const (
	Left  Move = "L"
	Right Move = "R"
	Stay  Move = "N"
)

// ParseMove parses "L", "R" or "N" (case-insensitive, surrounding space ignored).
func ParseMove(s string) (Move, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "L":
		return Left, nil
	case "R":
		return Right, nil
	case "N":
		return Stay, nil
	}
	return "", ConfigErrorf("invalid move %q (want L, R or N)", s)
}

// Delta returns the head offset for the move.
func (m Move) Delta() int {
	switch m {
	case Left:
		return -1
	case Right:
		return 1
	}
	return 0
}

// SymbolsOf splits s into one Symbol per character.
func SymbolsOf(s string) []Symbol {
	out := make([]Symbol, 0, len(s))
	for _, r := range s {
		out = append(out, Symbol(r))
	}
	return out
}
