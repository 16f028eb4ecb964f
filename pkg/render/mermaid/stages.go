package mermaid

import (
	"fmt"
	"strings"

	"github.com/pipeviz/pipeviz/pkg/pipeline"
)

// Stages renders the stage grouping graph as a Mermaid flowchart: one
// subgraph per stage in declared order, one node per assigned job in
// discovery order, and sequential edges joining consecutive stages.
func Stages(sg pipeline.StageGraph) string {
	lines := []string{
		"graph LR",
		"",
		"    %% Style definitions",
		"    classDef stageStyle fill:#f0f0f0,stroke:#333,stroke-width:2px",
		"    classDef jobStyle fill:#e8f4f8,stroke:#0366d6",
		"",
	}

	for _, group := range sg.Groups {
		lines = append(lines, fmt.Sprintf("    subgraph %s[%q]", Identifier(group.Name), escapeLabel(group.Name)))
		for _, job := range group.Jobs {
			lines = append(lines, fmt.Sprintf("        %s[%q]", Identifier(job), escapeLabel(job)))
		}
		lines = append(lines, "    end", "")
	}

	for i := 0; i+1 < len(sg.Groups); i++ {
		lines = append(lines, fmt.Sprintf("    %s --> %s",
			Identifier(sg.Groups[i].Name), Identifier(sg.Groups[i+1].Name)))
	}

	return strings.Join(lines, "\n")
}
