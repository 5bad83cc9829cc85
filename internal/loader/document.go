package loader

import (
	"strings"

	"github.com/comalice/turingx/internal/primitives"
)

// rawRule is one "state,symbol" entry of a document, in file order.
type rawRule struct {
	key    string
	action ruleAction
}

// ruleAction accepts {new_state, write_symbol, direction} or [next, write, dir].
type ruleAction struct {
	NewState    string `json:"new_state" yaml:"new_state"`
	WriteSymbol string `json:"write_symbol" yaml:"write_symbol"`
	Direction   string `json:"direction" yaml:"direction"`
}

func (a *ruleAction) fromList(parts []string) error {
	if len(parts) != 3 {
		return primitives.ConfigErrorf("transition value %v: want [next, write, move]", parts)
	}
	a.NewState, a.WriteSymbol, a.Direction = parts[0], parts[1], parts[2]
	return nil
}

// document is the shared JSON/YAML shape.
type document struct {
	Name        string
	States      []string
	Alphabet    []string
	Blank       string
	Initial     string
	Final       []string
	Transitions []rawRule
}

func (d document) definition() (primitives.Definition, error) {
	def := primitives.Definition{
		Name:        d.Name,
		States:      toStates(trimAll(d.States)),
		Alphabet:    toSymbols(trimAll(d.Alphabet)),
		Blank:       primitives.Symbol(strings.TrimSpace(d.Blank)),
		Initial:     primitives.State(strings.TrimSpace(d.Initial)),
		Final:       toStates(trimAll(d.Final)),
		Transitions: make(map[primitives.Key]primitives.Action, len(d.Transitions)),
	}
	for _, r := range d.Transitions {
		key, err := parseKey(r.key)
		if err != nil {
			return primitives.Definition{}, err
		}
		t, err := buildTransition(key, r.action.NewState, r.action.WriteSymbol, r.action.Direction)
		if err != nil {
			return primitives.Definition{}, err
		}
		def.AddTransition(t)
	}
	return def, nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
