package loader

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/comalice/turingx/internal/primitives"
)

type jsonDocument struct {
	Name        string          `json:"name"`
	States      []string        `json:"states"`
	Alphabet    []string        `json:"alphabet"`
	Blank       stringOrList    `json:"blank"`
	Initial     stringOrList    `json:"initial"`
	Final       []string        `json:"final"`
	Transitions json.RawMessage `json:"transitions"`
}

// stringOrList accepts "B" or ["B"].
type stringOrList string

func (s *stringOrList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*s = stringOrList(one)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("want a string or a one-element array: %w", err)
	}
	if len(list) != 1 {
		return fmt.Errorf("want exactly one value, got %d", len(list))
	}
	*s = stringOrList(list[0])
	return nil
}

func (a *ruleAction) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var parts []string
		if err := json.Unmarshal(data, &parts); err != nil {
			return err
		}
		return a.fromList(parts)
	}
	type plain ruleAction
	return json.Unmarshal(data, (*plain)(a))
}

// ParseJSON parses a JSON machine description. Transitions are read in file
// order so a repeated key overwrites the earlier entry.
func ParseJSON(data []byte, source string) (primitives.Definition, error) {
	var doc jsonDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return primitives.Definition{}, &primitives.ConfigError{Source: source, Msg: "invalid JSON", Err: err}
	}
	rules, err := decodeOrderedRules(doc.Transitions)
	if err != nil {
		return primitives.Definition{}, primitives.Locate(err, source, 0)
	}
	def, err := document{
		Name:        doc.Name,
		States:      doc.States,
		Alphabet:    doc.Alphabet,
		Blank:       string(doc.Blank),
		Initial:     string(doc.Initial),
		Final:       doc.Final,
		Transitions: rules,
	}.definition()
	if err != nil {
		return primitives.Definition{}, primitives.Locate(err, source, 0)
	}
	return def, nil
}

func decodeOrderedRules(raw json.RawMessage) ([]rawRule, error) {
	if len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, primitives.ConfigErrorf("transitions must be an object keyed by \"state,symbol\"")
	}
	var rules []rawRule
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, primitives.ConfigErrorf("transition key %v is not a string", tok)
		}
		var action ruleAction
		if err := dec.Decode(&action); err != nil {
			return nil, fmt.Errorf("transition %q: %w", key, err)
		}
		rules = append(rules, rawRule{key: key, action: action})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return rules, nil
}
