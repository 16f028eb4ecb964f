// Package dot converts pipeline graph views to Graphviz DOT and renders them
// to SVG locally, without involving any external service.
package dot

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/pipeviz/pipeviz/pkg/dag"
	"github.com/pipeviz/pipeviz/pkg/pipeline"
)

// FromDeps converts the job dependency graph to DOT. Jobs render as rounded
// boxes labeled "name (stage)"; every needs relation is a directed edge.
func FromDeps(g *dag.Graph) string {
	var buf bytes.Buffer
	buf.WriteString("digraph pipeline {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=\"#e8f4f8\", color=\"#0366d6\"];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", n.ID, n.DisplayLabel())
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// FromStages converts the stage grouping graph to DOT. Each non-empty stage
// becomes a cluster of job nodes; consecutive clusters are joined with
// compound edges so the arrow spans the groups rather than individual jobs.
func FromStages(sg pipeline.StageGraph) string {
	var buf bytes.Buffer
	buf.WriteString("digraph pipeline {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  compound=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=\"#e8f4f8\", color=\"#0366d6\"];\n")
	buf.WriteString("\n")

	var anchors []string // first job of each non-empty stage
	var names []string
	for i, group := range sg.Groups {
		if len(group.Jobs) == 0 {
			continue
		}
		fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", i)
		fmt.Fprintf(&buf, "    label=%q;\n", group.Name)
		buf.WriteString("    style=\"rounded\";\n")
		buf.WriteString("    color=\"#333333\";\n")
		for _, job := range group.Jobs {
			fmt.Fprintf(&buf, "    %q;\n", job)
		}
		buf.WriteString("  }\n")
		anchors = append(anchors, group.Jobs[0])
		names = append(names, fmt.Sprintf("cluster_%d", i))
	}

	buf.WriteString("\n")
	for i := 0; i+1 < len(anchors); i++ {
		fmt.Fprintf(&buf, "  %q -> %q [ltail=%s, lhead=%s];\n",
			anchors[i], anchors[i+1], names[i], names[i+1])
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
