package collab

import (
	"testing"
)

func TestAddNodePreservesOrder(t *testing.T) {
	g := NewGraph()
	ids := []string{"npi3", "npi1", "npi2"}
	for _, id := range ids {
		g.AddNode(id)
	}
	// Adding again must not change order or count
	g.AddNode("npi1")

	nodes := g.Nodes()
	if len(nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(nodes))
	}
	for i, id := range ids {
		if nodes[i] != id {
			t.Errorf("node %d: expected %s, got %s", i, id, nodes[i])
		}
	}
}

func TestSetEdgeRejectsSelfLoop(t *testing.T) {
	g := NewGraph()
	if err := g.SetEdge("a", "a", 1); err == nil {
		t.Fatal("expected error for self-loop")
	}
}

func TestSetEdgeRejectsZeroWeight(t *testing.T) {
	g := NewGraph()
	if err := g.SetEdge("a", "b", 0); err == nil {
		t.Fatal("expected error for zero weight")
	}
}

func TestAddEdgeWeightAccumulates(t *testing.T) {
	g := NewGraph()
	g.AddEdgeWeight("a", "b", 1)
	g.AddEdgeWeight("a", "b", 1)
	g.AddEdgeWeight("b", "a", 1)

	if w := g.Weight("a", "b"); w != 3 {
		t.Errorf("expected weight 3, got %d", w)
	}
	if g.EdgeCount() != 1 {
		t.Errorf("expected 1 edge, got %d", g.EdgeCount())
	}
}

func TestAddEdgeWeightIgnoresSelfLoop(t *testing.T) {
	g := NewGraph()
	g.AddNode("a")
	g.AddEdgeWeight("a", "a", 5)
	if g.EdgeCount() != 0 {
		t.Errorf("expected no edges, got %d", g.EdgeCount())
	}
}

func TestStrengthIsWeightedDegree(t *testing.T) {
	g := NewGraph()
	g.SetEdge("a", "b", 2)
	g.SetEdge("a", "c", 3)
	g.SetEdge("b", "c", 1)

	if s := g.Strength("a"); s != 5 {
		t.Errorf("strength(a): expected 5, got %d", s)
	}
	if d := g.Degree("a"); d != 2 {
		t.Errorf("degree(a): expected 2, got %d", d)
	}
}

func TestEdgesDeterministicOrder(t *testing.T) {
	g := NewGraph()
	g.SetEdge("c", "a", 1)
	g.SetEdge("b", "a", 2)
	g.SetEdge("c", "b", 3)

	first := g.Edges()
	second := g.Edges()
	if len(first) != 3 {
		t.Fatalf("expected 3 edges, got %d", len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("edge order not stable at %d: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestInduceKeepsParentOrderAndDropsOutside(t *testing.T) {
	g := NewGraph()
	g.SetEdge("a", "b", 1)
	g.SetEdge("b", "c", 2)
	g.SetEdge("c", "d", 3)

	sub := g.Induce([]string{"d", "c", "b", "zzz"})

	nodes := sub.Nodes()
	if len(nodes) != 3 || nodes[0] != "b" || nodes[1] != "c" || nodes[2] != "d" {
		t.Fatalf("expected [b c d] in parent order, got %v", nodes)
	}
	if sub.Weight("b", "c") != 2 || sub.Weight("c", "d") != 3 {
		t.Error("induced edges lost weights")
	}
	if sub.HasNode("a") || sub.Weight("a", "b") != 0 {
		t.Error("node outside subset leaked into induced subgraph")
	}

	// Parent untouched
	if g.NodeCount() != 4 || g.EdgeCount() != 3 {
		t.Error("Induce mutated the parent graph")
	}
}

func TestWithoutIsolates(t *testing.T) {
	g := NewGraph()
	g.SetEdge("a", "b", 1)
	g.AddNode("lonely")

	pruned := g.WithoutIsolates()
	if pruned.NodeCount() != 2 {
		t.Fatalf("expected 2 nodes after pruning, got %d", pruned.NodeCount())
	}
	if pruned.HasNode("lonely") {
		t.Error("isolated node survived pruning")
	}
	for _, id := range pruned.Nodes() {
		if pruned.Degree(id) == 0 {
			t.Errorf("node %s has degree 0 after pruning", id)
		}
	}
}

func TestGetStatistics(t *testing.T) {
	g := NewGraph()
	g.SetEdge("a", "b", 2)
	g.SetEdge("a", "c", 3)

	stats := g.GetStatistics()
	if stats.NodeCount != 3 || stats.EdgeCount != 2 || stats.TotalWeight != 5 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	want := float64(10) / 3
	if stats.MeanStrength < want-0.001 || stats.MeanStrength > want+0.001 {
		t.Errorf("mean strength: expected %.3f, got %.3f", want, stats.MeanStrength)
	}
}

func TestEmptyGraph(t *testing.T) {
	g := NewGraph()
	if g.NodeCount() != 0 || g.EdgeCount() != 0 {
		t.Error("new graph should be empty")
	}
	if g.Weight("a", "b") != 0 || g.Degree("a") != 0 || g.Strength("a") != 0 {
		t.Error("queries on missing nodes should return zero values")
	}
	if len(g.WithoutIsolates().Nodes()) != 0 {
		t.Error("pruning an empty graph should stay empty")
	}
}
