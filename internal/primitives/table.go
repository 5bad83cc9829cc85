package primitives

// Table is the immutable transition table of a machine.
// It is safe for concurrent reads from any number of machines.
type Table struct {
	rules map[Key]Action
}

// NewTable copies rules into a new Table.
func NewTable(rules map[Key]Action) *Table {
	t := &Table{rules: make(map[Key]Action, len(rules))}
	for k, a := range rules {
		t.rules[k] = a
	}
	return t
}

// Lookup returns the action for (state, symbol). ok is false when no rule
// applies, which callers treat as a normal halt.
func (t *Table) Lookup(state State, symbol Symbol) (Action, bool) {
	a, ok := t.rules[Key{State: state, Symbol: symbol}]
	return a, ok
}

// Len returns the number of rules.
func (t *Table) Len() int {
	return len(t.rules)
}

// Rules returns the rules sorted by (state, symbol).
func (t *Table) Rules() []Transition {
	d := Definition{Transitions: t.rules}
	return d.Rules()
}
