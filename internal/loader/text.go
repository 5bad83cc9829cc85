// Package loader parses external machine descriptions (line-oriented text,
// JSON, YAML) into the canonical primitives.Definition. Loaders are pure
// adapters: they report syntax errors and leave semantic validation to
// Definition.Validate.
package loader

import (
	"bufio"
	"io"
	"strings"

	"github.com/comalice/turingx/internal/primitives"
)

// ParseText parses the line-oriented format:
//
//	# comment
//	states: q0,q1,halt
//	alphabet: 0,1,B
//	blank: B
//	initial: q0
//	final: halt
//	transition: q0,1 -> q1,0,R
//
// Blank lines and lines with an unknown prefix are ignored.
func ParseText(r io.Reader, source string) (primitives.Definition, error) {
	def := primitives.Definition{Transitions: make(map[primitives.Key]primitives.Action)}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text, _, _ := strings.Cut(sc.Text(), "#")
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		key, value, found := strings.Cut(text, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "states":
			def.States = toStates(splitList(value))
		case "alphabet":
			def.Alphabet = toSymbols(splitList(value))
		case "blank":
			def.Blank = primitives.Symbol(value)
		case "initial":
			def.Initial = primitives.State(value)
		case "final":
			def.Final = toStates(splitList(value))
		case "transition":
			t, err := parseTransitionLine(value)
			if err != nil {
				return primitives.Definition{}, primitives.Locate(err, source, line)
			}
			def.AddTransition(t)
		}
	}
	if err := sc.Err(); err != nil {
		return primitives.Definition{}, &primitives.ConfigError{Source: source, Msg: "read failed", Err: err}
	}
	return def, nil
}

// parseTransitionLine parses "state,symbol -> next,write,move".
func parseTransitionLine(s string) (primitives.Transition, error) {
	left, right, found := strings.Cut(s, "->")
	if !found {
		return primitives.Transition{}, primitives.ConfigErrorf("invalid transition %q: missing ->", s)
	}
	key, err := parseKey(left)
	if err != nil {
		return primitives.Transition{}, err
	}
	parts := strings.Split(right, ",")
	if len(parts) != 3 {
		return primitives.Transition{}, primitives.ConfigErrorf("invalid transition right side %q: want next,write,move", strings.TrimSpace(right))
	}
	return buildTransition(key, parts[0], parts[1], parts[2])
}

func parseKey(s string) (primitives.Key, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return primitives.Key{}, primitives.ConfigErrorf("invalid transition key %q: want state,symbol", strings.TrimSpace(s))
	}
	return primitives.Key{
		State:  primitives.State(strings.TrimSpace(parts[0])),
		Symbol: primitives.Symbol(strings.TrimSpace(parts[1])),
	}, nil
}

func buildTransition(key primitives.Key, next, write, move string) (primitives.Transition, error) {
	m, err := primitives.ParseMove(move)
	if err != nil {
		return primitives.Transition{}, err
	}
	t := primitives.Transition{
		Key: key,
		Action: primitives.Action{
			Next:  primitives.State(strings.TrimSpace(next)),
			Write: primitives.Symbol(strings.TrimSpace(write)),
			Move:  m,
		},
	}
	if err := t.Validate(); err != nil {
		return primitives.Transition{}, err
	}
	return t, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func toStates(names []string) []primitives.State {
	out := make([]primitives.State, len(names))
	for i, n := range names {
		out[i] = primitives.State(n)
	}
	return out
}

func toSymbols(names []string) []primitives.Symbol {
	out := make([]primitives.Symbol, len(names))
	for i, n := range names {
		out[i] = primitives.Symbol(n)
	}
	return out
}
