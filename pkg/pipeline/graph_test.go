package pipeline

import (
	"slices"
	"testing"

	"github.com/pipeviz/pipeviz/pkg/config"
	"github.com/pipeviz/pipeviz/pkg/dag"
)

func scenarioModel(t *testing.T) *Model {
	t.Helper()
	tree := config.Mapping()
	tree.Set("stages", stageList("build", "test"))
	tree.Set("build:docker", job("build"))
	tree.Set("test:unit", job("test", "build:docker"))
	tree.Set("test:integration", job("test", "build:docker"))

	m, err := Build(tree)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return m
}

func TestDependencyGraph(t *testing.T) {
	g := DependencyGraph(scenarioModel(t))

	if g.NodeCount() != 3 {
		t.Errorf("NodeCount() = %d, want 3", g.NodeCount())
	}
	want := []dag.Edge{
		{From: "build:docker", To: "test:unit"},
		{From: "build:docker", To: "test:integration"},
	}
	edges := g.Edges()
	if len(edges) != len(want) {
		t.Fatalf("Edges() = %v, want %v", edges, want)
	}
	for i := range want {
		if edges[i] != want[i] {
			t.Errorf("Edges()[%d] = %v, want %v", i, edges[i], want[i])
		}
	}

	n, ok := g.Node("build:docker")
	if !ok || n.Label != "build:docker (build)" {
		t.Errorf("Node(build:docker) = %+v, %v", n, ok)
	}
}

func TestDependencyGraphDanglingNeed(t *testing.T) {
	tree := config.Mapping()
	tree.Set("deploy", job("deploy", "ghost"))

	m, err := Build(tree)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	g := DependencyGraph(m)
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount() = %d, want 0 (dangling need dropped)", g.EdgeCount())
	}
	if !g.Has("deploy") {
		t.Error("job with only dangling needs must still be a node")
	}
}

func TestDependencyGraphIsolatedJobs(t *testing.T) {
	tree := config.Mapping()
	tree.Set("a", job("test"))
	tree.Set("b", job("test"))

	m, err := Build(tree)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	g := DependencyGraph(m)
	if g.NodeCount() != 2 || g.EdgeCount() != 0 {
		t.Errorf("graph = %d nodes %d edges, want 2 nodes 0 edges", g.NodeCount(), g.EdgeCount())
	}
}

func TestBuildStageGraph(t *testing.T) {
	sg := BuildStageGraph(scenarioModel(t))

	if len(sg.Groups) != 2 {
		t.Fatalf("Groups = %v, want 2", sg.Groups)
	}
	if sg.Groups[0].Name != "build" || !slices.Equal(sg.Groups[0].Jobs, []string{"build:docker"}) {
		t.Errorf("Groups[0] = %+v", sg.Groups[0])
	}
	if sg.Groups[1].Name != "test" || !slices.Equal(sg.Groups[1].Jobs, []string{"test:unit", "test:integration"}) {
		t.Errorf("Groups[1] = %+v", sg.Groups[1])
	}
}

func TestBuildStageGraphEmptyStage(t *testing.T) {
	tree := config.Mapping()
	tree.Set("stages", stageList("build", "review", "deploy"))
	tree.Set("compile", job("build"))
	tree.Set("release", job("deploy"))

	m, err := Build(tree)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	sg := BuildStageGraph(m)

	if len(sg.Groups) != 3 {
		t.Fatalf("Groups = %v, want 3", sg.Groups)
	}
	if sg.Groups[1].Name != "review" || len(sg.Groups[1].Jobs) != 0 {
		t.Errorf("empty declared stage must still form a group, got %+v", sg.Groups[1])
	}
}
