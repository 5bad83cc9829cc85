package loader

import (
	"fmt"

	"github.com/comalice/turingx/internal/primitives"
	"gopkg.in/yaml.v3"
)

type yamlDocument struct {
	Name        string         `yaml:"name"`
	States      []string       `yaml:"states"`
	Alphabet    []string       `yaml:"alphabet"`
	Blank       yamlStringList `yaml:"blank"`
	Initial     yamlStringList `yaml:"initial"`
	Final       []string       `yaml:"final"`
	Transitions yaml.Node      `yaml:"transitions"`
}

type yamlStringList string

func (s *yamlStringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*s = yamlStringList(value.Value)
		return nil
	case yaml.SequenceNode:
		if len(value.Content) != 1 {
			return fmt.Errorf("line %d: want exactly one value, got %d", value.Line, len(value.Content))
		}
		*s = yamlStringList(value.Content[0].Value)
		return nil
	}
	return fmt.Errorf("line %d: want a string or a one-element list", value.Line)
}

func (a *ruleAction) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		var parts []string
		if err := value.Decode(&parts); err != nil {
			return err
		}
		return a.fromList(parts)
	}
	type plain ruleAction
	return value.Decode((*plain)(a))
}

// ParseYAML parses a YAML machine description with the same shape as the
// JSON format. Transition order follows the file.
func ParseYAML(data []byte, source string) (primitives.Definition, error) {
	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return primitives.Definition{}, &primitives.ConfigError{Source: source, Msg: "invalid YAML", Err: err}
	}
	var rules []rawRule
	switch {
	case doc.Transitions.Kind == 0:
	case doc.Transitions.Kind == yaml.ScalarNode && doc.Transitions.Tag == "!!null":
	case doc.Transitions.Kind == yaml.MappingNode:
		content := doc.Transitions.Content
		for i := 0; i+1 < len(content); i += 2 {
			k, v := content[i], content[i+1]
			var action ruleAction
			if err := v.Decode(&action); err != nil {
				return primitives.Definition{}, primitives.Locate(fmt.Errorf("transition %q: %w", k.Value, err), source, k.Line)
			}
			rules = append(rules, rawRule{key: k.Value, action: action})
		}
	default:
		return primitives.Definition{}, &primitives.ConfigError{
			Source: source,
			Line:   doc.Transitions.Line,
			Msg:    `transitions must be a mapping keyed by "state,symbol"`,
		}
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
