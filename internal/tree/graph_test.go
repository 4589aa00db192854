package tree

import (
	"testing"
)

func TestGraph_AddNodeAndEdge(t *testing.T) {
	g := NewGraph()

	g.AddNode("req001", nil)
	g.AddNode("srd001", nil)
	g.AddNode("srd002", nil)

	if g.NodeCount() != 3 {
		t.Errorf("expected 3 nodes, got %d", g.NodeCount())
	}

	if err := g.AddEdge("req001", "srd001"); err != nil {
		t.Errorf("failed to add edge: %v", err)
	}
	if err := g.AddEdge("req001", "srd002"); err != nil {
		t.Errorf("failed to add edge: %v", err)
	}

	if g.EdgeCount() != 2 {
		t.Errorf("expected 2 edges, got %d", g.EdgeCount())
	}
}

func TestGraph_AddEdge_InvalidNodes(t *testing.T) {
	g := NewGraph()
	g.AddNode("req001", nil)

	if err := g.AddEdge("req001", "nonexistent"); err == nil {
		t.Error("expected error for nonexistent child node")
	}
	if err := g.AddEdge("nonexistent", "req001"); err == nil {
		t.Error("expected error for nonexistent parent node")
	}
}

func TestGraph_AddEdge_Duplicate(t *testing.T) {
	g := NewGraph()
	g.AddNode("a", nil)
	g.AddNode("b", nil)

	if err := g.AddEdge("a", "b"); err != nil {
		t.Fatalf("failed to add edge: %v", err)
	}
	if err := g.AddEdge("a", "b"); err != nil {
		t.Fatalf("failed to re-add edge: %v", err)
	}

	if g.EdgeCount() != 1 {
		t.Errorf("expected duplicate edge to be ignored, got %d edges", g.EdgeCount())
	}
}

func TestGraph_ParentsAndChildren(t *testing.T) {
	g := NewGraph()
	g.AddNode("req001", nil)
	g.AddNode("srd001", nil)
	g.AddNode("srd002", nil)
	_ = g.AddEdge("req001", "srd001")
	_ = g.AddEdge("req001", "srd002")

	children := g.Children("req001")
	if len(children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(children))
	}
	if children[0] != "srd001" || children[1] != "srd002" {
		t.Errorf("children out of insertion order: %v", children)
	}

	parents := g.Parents("srd001")
	if len(parents) != 1 || parents[0] != "req001" {
		t.Errorf("unexpected parents: %v", parents)
	}
}

func TestGraph_RootsAndLeaves(t *testing.T) {
	g := NewGraph()
	g.AddNode("req", nil)
	g.AddNode("srd", nil)
	g.AddNode("tst", nil)
	_ = g.AddEdge("req", "srd")
	_ = g.AddEdge("srd", "tst")

	roots := g.Roots()
	if len(roots) != 1 || roots[0] != "req" {
		t.Errorf("unexpected roots: %v", roots)
	}

	leaves := g.Leaves()
	if len(leaves) != 1 || leaves[0] != "tst" {
		t.Errorf("unexpected leaves: %v", leaves)
	}
}

func TestGraph_HasCycle(t *testing.T) {
	g := NewGraph()
	g.AddNode("a", nil)
	g.AddNode("b", nil)
	g.AddNode("c", nil)
	_ = g.AddEdge("a", "b")
	_ = g.AddEdge("b", "c")

	if cyclic, _ := g.HasCycle(); cyclic {
		t.Error("expected acyclic graph")
	}

	_ = g.AddEdge("c", "a")
	cyclic, path := g.HasCycle()
	if !cyclic {
		t.Fatal("expected cycle")
	}
	if len(path) < 3 {
		t.Errorf("expected cycle path, got %v", path)
	}
	if path[0] != path[len(path)-1] {
		t.Errorf("cycle path should close on itself: %v", path)
	}
}

func TestGraph_HasCycle_SelfLoop(t *testing.T) {
	g := NewGraph()
	g.AddNode("a", nil)
	if err := g.AddEdge("a", "a"); err != nil {
		t.Fatalf("self-loop should be accepted: %v", err)
	}

	cyclic, path := g.HasCycle()
	if !cyclic {
		t.Fatal("expected self-loop to count as cycle")
	}
	if len(path) != 2 || path[0] != "a" || path[1] != "a" {
		t.Errorf("unexpected cycle path: %v", path)
	}
}

func TestGraph_TopologicalSort(t *testing.T) {
	g := NewGraph()
	g.AddNode("tst", nil)
	g.AddNode("req", nil)
	g.AddNode("srd", nil)
	_ = g.AddEdge("req", "srd")
	_ = g.AddEdge("srd", "tst")

	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("sort failed: %v", err)
	}

	pos := make(map[string]int)
	for i, id := range order {
		pos[id] = i
	}
	if pos["req"] > pos["srd"] || pos["srd"] > pos["tst"] {
		t.Errorf("parents must come before children: %v", order)
	}
}

func TestGraph_TopologicalSort_Cycle(t *testing.T) {
	g := NewGraph()
	g.AddNode("a", nil)
	g.AddNode("b", nil)
	_ = g.AddEdge("a", "b")
	_ = g.AddEdge("b", "a")

	if _, err := g.TopologicalSort(); err == nil {
		t.Error("expected error for cyclic graph")
	}
}
