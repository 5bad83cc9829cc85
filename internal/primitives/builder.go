// Package primitives includes builder helpers for Definition.
package primitives

// DefinitionBuilder builds a Definition fluently.
type DefinitionBuilder struct {
	def Definition
}

// NewDefinitionBuilder creates a builder for a machine starting in initial.
// The initial state is declared automatically.
func NewDefinitionBuilder(name string, initial State) *DefinitionBuilder {
	b := &DefinitionBuilder{def: Definition{
		Name:        name,
		Initial:     initial,
		Transitions: make(map[Key]Action),
	}}
	b.addState(initial)
	return b
}

// States declares states.
func (b *DefinitionBuilder) States(states ...State) *DefinitionBuilder {
	for _, s := range states {
		b.addState(s)
	}
	return b
}

// Alphabet declares symbols.
func (b *DefinitionBuilder) Alphabet(symbols ...Symbol) *DefinitionBuilder {
	for _, sym := range symbols {
		b.addSymbol(sym)
	}
	return b
}

// Blank sets the blank symbol and adds it to the alphabet.
func (b *DefinitionBuilder) Blank(blank Symbol) *DefinitionBuilder {
	b.def.Blank = blank
	b.addSymbol(blank)
	return b
}

// Final marks states as final, declaring them if needed.
func (b *DefinitionBuilder) Final(states ...State) *DefinitionBuilder {
	for _, s := range states {
		b.addState(s)
		if !b.def.IsFinal(s) {
			b.def.Final = append(b.def.Final, s)
		}
	}
	return b
}

// Rule adds (state, read) -> (next, write, move). States and symbols used by
// the rule are declared on the fly.
func (b *DefinitionBuilder) Rule(state State, read Symbol, next State, write Symbol, move Move) *DefinitionBuilder {
	b.addState(state)
	b.addState(next)
	b.addSymbol(read)
	b.addSymbol(write)
	b.def.AddTransition(Transition{
		Key:    Key{State: state, Symbol: read},
		Action: Action{Next: next, Write: write, Move: move},
	})
	return b
}

// Build validates and returns the definition.
func (b *DefinitionBuilder) Build() (Definition, error) {
	def := b.def
	def.Transitions = make(map[Key]Action, len(b.def.Transitions))
	for k, a := range b.def.Transitions {
		def.Transitions[k] = a
	}
	if err := def.Validate(); err != nil {
		return Definition{}, err
	}
	return def, nil
}

// MustBuild is Build for fixtures; it panics on an invalid definition.
func (b *DefinitionBuilder) MustBuild() Definition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}

func (b *DefinitionBuilder) addState(s State) {
	if !b.def.HasState(s) {
		b.def.States = append(b.def.States, s)
	}
}

func (b *DefinitionBuilder) addSymbol(sym Symbol) {
	for _, have := range b.def.Alphabet {
		if have == sym {
			return
		}
	}
	b.def.Alphabet = append(b.def.Alphabet, sym)
}
