package mermaid

import (
	"fmt"
	"strings"

	"github.com/pipeviz/pipeviz/pkg/dag"
)

// Deps renders the job dependency graph as a Mermaid state diagram.
//
// Every job appears as a state declaration (so isolated jobs are never
// dropped), followed by one transition per dependency edge. Nodes and edges
// are emitted in graph insertion order.
func Deps(g *dag.Graph) string {
	lines := []string{
		"stateDiagram-v2",
		"",
		"    %% Style definitions",
		"    classDef jobStyle fill:#e8f4f8,stroke:#0366d6,color:#000",
		"",
		`    state "Pipeline Dependencies" as pipeline {`,
		"",
		"    %% Jobs",
	}

	for _, n := range g.Nodes() {
		lines = append(lines, fmt.Sprintf("    state %q as %s", escapeLabel(n.DisplayLabel()), Identifier(n.ID)))
	}

	lines = append(lines, "", "    %% Dependencies")
	for _, e := range g.Edges() {
		lines = append(lines, fmt.Sprintf("    %s --> %s", Identifier(e.From), Identifier(e.To)))
	}

	lines = append(lines, "    }")
	for _, n := range g.Nodes() {
		lines = append(lines, fmt.Sprintf("class %s jobStyle", Identifier(n.ID)))
	}

	return strings.Join(lines, "\n")
}
