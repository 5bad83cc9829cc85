// Package primitives defines the foundational data structures for the engine.
//
// Definition is the canonical machine configuration every loader produces:
// states, alphabet, blank, initial state, final states and the transition map.
// Validation ensures required fields, blank ∈ alphabet, initial ∈ states,
// final ⊆ states and single-character symbols.
package primitives

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Definition is the canonical in-memory machine configuration.
type Definition struct {
	Name        string         `validate:"-"`
	States      []State        `validate:"required,min=1,dive,required"`
	Alphabet    []Symbol       `validate:"required,min=1,dive,required"`
	Blank       Symbol         `validate:"required"`
	Initial     State          `validate:"required"`
	Final       []State        `validate:"dive,required"`
	Transitions map[Key]Action `validate:"-"`
}

var (
	validateOnce sync.Once
	structCheck  *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		structCheck = validator.New(validator.WithRequiredStructEnabled())
	})
	return structCheck
}

// Validate checks the definition before a machine is built from it.
func (d *Definition) Validate() error {
	if err := structValidator().Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return ConfigErrorf("field %s failed %q check", fe.Namespace(), fe.Tag())
		}
		return &ConfigError{Msg: "definition validation failed", Err: err}
	}

	states := make(map[State]struct{}, len(d.States))
	for _, s := range d.States {
		states[s] = struct{}{}
	}
	alphabet := make(map[Symbol]struct{}, len(d.Alphabet))
	for _, sym := range d.Alphabet {
		if utf8.RuneCountInString(string(sym)) != 1 {
			return ConfigErrorf("alphabet symbol %q must be a single character", sym)
		}
		alphabet[sym] = struct{}{}
	}

	if _, ok := alphabet[d.Blank]; !ok {
		return ConfigErrorf("blank symbol %q not found in alphabet", d.Blank)
	}
	if _, ok := states[d.Initial]; !ok {
		return ConfigErrorf("initial state %q not found in states", d.Initial)
	}
	for _, f := range d.Final {
		if _, ok := states[f]; !ok {
			return ConfigErrorf("final state %q not found in states", f)
		}
	}
	for k, a := range d.Transitions {
		t := Transition{Key: k, Action: a}
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// IsFinal reports whether s is a final state.
func (d *Definition) IsFinal(s State) bool {
	for _, f := range d.Final {
		if f == s {
			return true
		}
	}
	return false
}

// HasState reports whether s is declared.
func (d *Definition) HasState(s State) bool {
	for _, st := range d.States {
		if st == s {
			return true
		}
	}
	return false
}

// AddTransition stores a rule, overwriting an earlier rule with the same key.
func (d *Definition) AddTransition(t Transition) {
	if d.Transitions == nil {
		d.Transitions = make(map[Key]Action)
	}
	d.Transitions[t.Key] = t.Action
}

// Rules returns the transitions sorted by (state, symbol).
func (d *Definition) Rules() []Transition {
	rules := make([]Transition, 0, len(d.Transitions))
	for k, a := range d.Transitions {
		rules = append(rules, Transition{Key: k, Action: a})
	}
	SortTransitions(rules)
	return rules
}

// Describe returns a one-line summary.
func (d *Definition) Describe() string {
	name := d.Name
	if name == "" {
		name = "machine"
	}
	return fmt.Sprintf("%s: %d states, alphabet {%s}, blank %s, initial %s, final {%s}, %d transitions",
		name, len(d.States), joinSymbols(d.Alphabet), d.Blank, d.Initial, joinStates(d.Final), len(d.Transitions))
}

// definitionWire is the serialized form used by snapshots.
type definitionWire struct {
	Name        string       `json:"name,omitempty" yaml:"name,omitempty"`
	States      []State      `json:"states" yaml:"states"`
	Alphabet    []Symbol     `json:"alphabet" yaml:"alphabet"`
	Blank       Symbol       `json:"blank" yaml:"blank"`
	Initial     State        `json:"initial" yaml:"initial"`
	Final       []State      `json:"final" yaml:"final"`
	Transitions []Transition `json:"transitions" yaml:"transitions"`
}

func (d Definition) wire() definitionWire {
	return definitionWire{
		Name:        d.Name,
		States:      d.States,
		Alphabet:    d.Alphabet,
		Blank:       d.Blank,
		Initial:     d.Initial,
		Final:       d.Final,
		Transitions: d.Rules(),
	}
}

func (d *Definition) fromWire(w definitionWire) {
	*d = Definition{
		Name:     w.Name,
		States:   w.States,
		Alphabet: w.Alphabet,
		Blank:    w.Blank,
		Initial:  w.Initial,
		Final:    w.Final,
	}
	for _, t := range w.Transitions {
		d.AddTransition(t)
	}
}

func (d Definition) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.wire())
}

func (d *Definition) UnmarshalJSON(data []byte) error {
	var w definitionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	d.fromWire(w)
	return nil
}

func (d Definition) MarshalYAML() (any, error) {
	return d.wire(), nil
}

func (d *Definition) UnmarshalYAML(value *yaml.Node) error {
	var w definitionWire
	if err := value.Decode(&w); err != nil {
		return err
	}
	d.fromWire(w)
	return nil
}

func joinSymbols(syms []Symbol) string {
	parts := make([]string, len(syms))
	for i, s := range syms {
		parts[i] = string(s)
	}
	return strings.Join(parts, ",")
}

func joinStates(states []State) string {
	parts := make([]string, len(states))
	for i, s := range states {
		parts[i] = string(s)
	}
	return strings.Join(parts, ",")
}
