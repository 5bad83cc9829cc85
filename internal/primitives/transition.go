// Package primitives defines the foundational data structures for the engine.
// Transition maps a (state, symbol) pair to (next state, symbol to write, move).
// The mapping is a partial function: a missing pair is a halting condition.
package primitives

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// Key identifies a transition by the current state and the symbol under the head.
type Key struct {
	State  State  `json:"state" yaml:"state"`
	Symbol Symbol `json:"symbol" yaml:"symbol"`
}

// Action is the right-hand side of a transition.
type Action struct {
	Next  State  `json:"next" yaml:"next"`
	Write Symbol `json:"write" yaml:"write"`
	Move  Move   `json:"move" yaml:"move"`
}

// Transition is a single rule of the table.
type Transition struct {
	Key    `yaml:",inline"`
	Action `yaml:",inline"`
}

func (k Key) String() string {
	return fmt.Sprintf("(%s,%s)", k.State, k.Symbol)
}

func (t Transition) String() string {
	return fmt.Sprintf("%s,%s -> %s,%s,%s", t.State, t.Symbol, t.Next, t.Write, t.Move)
}

// Validate checks the symbols and move of a single transition.
func (t *Transition) Validate() error {
	if t.State == "" {
		return ConfigErrorf("transition %s: empty state", t)
	}
	if utf8.RuneCountInString(string(t.Symbol)) != 1 {
		return ConfigErrorf("transition %s: read symbol %q must be a single character", t, t.Symbol)
	}
	if utf8.RuneCountInString(string(t.Write)) != 1 {
		return ConfigErrorf("transition %s: write symbol %q must be a single character", t, t.Write)
	}
	if _, err := ParseMove(string(t.Move)); err != nil {
		return fmt.Errorf("transition %s: %w", t, err)
	}
	return nil
}

// SortTransitions sorts the slice in place by (state, symbol).
func SortTransitions(transitions []Transition) {
	sort.Slice(transitions, func(i, j int) bool {
		a, b := transitions[i].Key, transitions[j].Key
		if a.State != b.State {
			return a.State < b.State
		}
		return a.Symbol < b.Symbol
	})
}
