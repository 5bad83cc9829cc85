package production

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/comalice/turingx/internal/primitives"
)

// DefaultVisualizer renders machine definitions.
type DefaultVisualizer struct{}

// Edge is a group of transitions sharing source and target state.
type Edge struct {
	From   primitives.State
	To     primitives.State
	Labels []string
}

// ExportDOT generates Graphviz DOT source for the transition graph. Edges are
// labelled "read/write,move"; final states are double circles and current,
// when non-empty, is highlighted.
func (v *DefaultVisualizer) ExportDOT(def primitives.Definition, current primitives.State) string {
	var buf bytes.Buffer
	buf.WriteString(`digraph TuringMachine {
  rankdir=LR;
  node [shape=circle, fontsize=10];
  edge [fontsize=9];
  "__start" [shape=point];
`)
	fmt.Fprintf(&buf, "  \"__start\" -> %q;\n", string(def.Initial))

	for _, s := range def.States {
		var attrs []string
		if def.IsFinal(s) {
			attrs = append(attrs, "shape=doublecircle")
		}
		if current != "" && s == current {
			attrs = append(attrs, "style=filled", "fillcolor=lightgreen")
		}
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q;\n", string(s))
			continue
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", string(s), strings.Join(attrs, ", "))
	}

	for _, e := range CollectEdges(def) {
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", string(e.From), string(e.To), strings.Join(e.Labels, "\n"))
	}
	buf.WriteString("}\n")
	return buf.String()
}

// ExportJSON serializes the definition to JSON.
func (v *DefaultVisualizer) ExportJSON(def primitives.Definition) ([]byte, error) {
	return json.MarshalIndent(def, "", "  ")
}

// CollectEdges groups the rules by (from, to) in rule order.
func CollectEdges(def primitives.Definition) []Edge {
	var edges []Edge
	index := make(map[[2]primitives.State]int)
	for _, t := range def.Rules() {
		k := [2]primitives.State{t.State, t.Next}
		label := fmt.Sprintf("%s/%s,%s", t.Symbol, t.Write, t.Move)
		if i, ok := index[k]; ok {
			edges[i].Labels = append(edges[i].Labels, label)
			continue
		}
		index[k] = len(edges)
		edges = append(edges, Edge{From: t.State, To: t.Next, Labels: []string{label}})
	}
	return edges
}
