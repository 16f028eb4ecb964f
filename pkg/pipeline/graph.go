package pipeline

import (
	"fmt"

	"github.com/pipeviz/pipeviz/pkg/dag"
)

// DependencyGraph derives the job dependency view from the model: one node
// per job, and a directed edge dependency -> dependent for every needs entry.
//
// A needs entry naming a job absent from the model is dropped silently;
// partially-defined fixtures are a normal use case for local validation and
// must not abort rendering. Jobs without edges still appear as nodes.
func DependencyGraph(m *Model) *dag.Graph {
	g := dag.New()
	for _, name := range m.JobNames {
		job := m.Jobs[name]
		// Names are unique map keys, so AddNode cannot fail here.
		_ = g.AddNode(dag.Node{
			ID:    name,
			Label: fmt.Sprintf("%s (%s)", name, job.Stage),
		})
	}
	for _, name := range m.JobNames {
		for _, need := range m.Jobs[name].Needs {
			if !g.Has(need) {
				continue // dangling reference, tolerated
			}
			_ = g.AddEdge(dag.Edge{From: need, To: name})
		}
	}
	return g
}

// StageGroup is one stage and the jobs assigned to it, in discovery order.
type StageGroup struct {
	Name string
	Jobs []string
}

// StageGraph is the stage-partitioned view: groups in declared stage order,
// connected sequentially group[i] -> group[i+1].
type StageGraph struct {
	Groups []StageGroup
}

// BuildStageGraph stable-partitions the model's jobs by stage. Every declared
// stage yields a group, even when no job is assigned to it; jobs retain the
// order they were discovered in.
func BuildStageGraph(m *Model) StageGraph {
	var sg StageGraph
	for _, stage := range m.Stages {
		group := StageGroup{Name: stage}
		for _, name := range m.JobNames {
			if m.Jobs[name].Stage == stage {
				group.Jobs = append(group.Jobs, name)
			}
		}
		sg.Groups = append(sg.Groups, group)
	}
	return sg
}
