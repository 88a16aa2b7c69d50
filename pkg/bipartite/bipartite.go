// Package bipartite builds the patient-provider bipartite graph and
// projects it into the unipartite provider collaboration graph. The
// projection connects two same-class nodes with an edge weighted by the
// number of opposite-class neighbors they share.
package bipartite

import (
	"errors"

	"github.com/dd0wney/cluso-collabnet/pkg/collab"
	"github.com/dd0wney/cluso-collabnet/pkg/encounter"
)

// Side names one of the two node classes of a bipartite graph. The
// classes carry no semantic label of their own; which side holds the
// providers is decided by id overlap, not by convention.
type Side int

const (
	// SideLeft is the class the first element of each pair lands in.
	SideLeft Side = iota
	// SideRight is the class the second element of each pair lands in.
	SideRight
)

func (s Side) String() string {
	if s == SideLeft {
		return "left"
	}
	return "right"
}

// ErrAmbiguousSide is returned when neither node class overlaps the known
// provider universe. Projecting the wrong side yields a structurally valid
// but meaningless graph, so this aborts instead of guessing.
var ErrAmbiguousSide = errors.New("cannot identify provider side: no id overlap with provider universe")

// Graph is a bipartite incidence graph over two disjoint node classes.
// Every node belongs to exactly one class; edges only cross classes.
// Node order within each class is first-seen order.
type Graph struct {
	leftOrder  []string
	rightOrder []string
	left       map[string]map[string]bool // left id -> right neighbor set
	right      map[string]map[string]bool // right id -> left neighbor set
}

// NewGraph builds a bipartite graph from a deduplicated incidence pair
// set. PatientID populates the left class and NPI the right class, but
// consumers must not rely on that: use SelectProviderSide.
func NewGraph(pairs []encounter.Pair) *Graph {
	g := &Graph{
		left:  make(map[string]map[string]bool),
		right: make(map[string]map[string]bool),
	}
	for _, p := range pairs {
		g.addEdge(p.PatientID, p.NPI)
	}
	return g
}

func (g *Graph) addEdge(leftID, rightID string) {
	if _, ok := g.left[leftID]; !ok {
		g.left[leftID] = make(map[string]bool)
		g.leftOrder = append(g.leftOrder, leftID)
	}
	if _, ok := g.right[rightID]; !ok {
		g.right[rightID] = make(map[string]bool)
		g.rightOrder = append(g.rightOrder, rightID)
	}
	g.left[leftID][rightID] = true
	g.right[rightID][leftID] = true
}

// LeftCount returns the number of left-class nodes.
func (g *Graph) LeftCount() int { return len(g.leftOrder) }

// RightCount returns the number of right-class nodes.
func (g *Graph) RightCount() int { return len(g.rightOrder) }

// EdgeCount returns the number of incidence edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, set := range g.left {
		n += len(set)
	}
	return n
}

// nodesOf returns the node ids of a class in first-seen order.
func (g *Graph) nodesOf(s Side) []string {
	if s == SideLeft {
		return g.leftOrder
	}
	return g.rightOrder
}

// SelectProviderSide picks the node class whose id set overlaps the known
// provider universe the most. Input tables from different datasets may
// expose the classes in either order, so this is a runtime decision, not
// a convention. An empty graph defaults to SideRight (the NPI side of
// NewGraph); a non-empty graph with zero overlap on both sides returns
// ErrAmbiguousSide.
func (g *Graph) SelectProviderSide(universe []string) (Side, error) {
	if g.LeftCount() == 0 && g.RightCount() == 0 {
		return SideRight, nil
	}

	inUniverse := make(map[string]bool, len(universe))
	for _, id := range universe {
		inUniverse[id] = true
	}

	leftOverlap := 0
	for _, id := range g.leftOrder {
		if inUniverse[id] {
			leftOverlap++
		}
	}
	rightOverlap := 0
	for _, id := range g.rightOrder {
		if inUniverse[id] {
			rightOverlap++
		}
	}

	if leftOverlap == 0 && rightOverlap == 0 {
		return SideRight, ErrAmbiguousSide
	}
	if leftOverlap > rightOverlap {
		return SideLeft, nil
	}
	return SideRight, nil
}

// Project computes the unipartite projection of the given side. Two nodes
// of that class are connected iff they share at least one opposite-class
// neighbor, and the edge weight is the exact count of shared neighbors,
// never a boolean. minShared suppresses edges whose weight falls below it
// (privacy suppression); values below 1 are treated as 1. Every node of
// the projected class appears in the result, shared neighbors or not, in
// the class's first-seen order. The result has no self-loops and no
// duplicate edges.
func (g *Graph) Project(side Side, minShared int) *collab.Graph {
	proj, _ := g.ProjectWithStats(side, minShared)
	return proj
}

// ProjectWithStats is Project plus the count of edges suppressed by the
// minShared threshold, for reporting.
func (g *Graph) ProjectWithStats(side Side, minShared int) (*collab.Graph, int) {
	proj := collab.NewGraph()
	for _, id := range g.nodesOf(side) {
		proj.AddNode(id)
	}

	// Accumulate pairwise co-occurrence by walking the opposite class:
	// each opposite node contributes one shared neighbor to every pair in
	// its neighbor set. This is the neighbor-set intersection computed
	// from the other direction, one pass instead of n^2 intersections.
	weights := make(map[[2]int]int)
	other := SideLeft
	if side == SideLeft {
		other = SideRight
	}
	adj := g.right
	if other == SideLeft {
		adj = g.left
	}

	for _, oppositeID := range g.nodesOf(other) {
		neighbors := adj[oppositeID]
		members := make([]int, 0, len(neighbors))
		for id := range neighbors {
			members = append(members, proj.NodeIndex(id))
		}
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				a, b := members[i], members[j]
				if a > b {
					a, b = b, a
				}
				weights[[2]int{a, b}]++
			}
		}
	}

	if minShared < 1 {
		minShared = 1
	}
	suppressed := 0
	nodes := proj.Nodes()
	for key, w := range weights {
		if w >= minShared {
			proj.SetEdge(nodes[key[0]], nodes[key[1]], w)
		} else {
			suppressed++
		}
	}

	return proj, suppressed
}
