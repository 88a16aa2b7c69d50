// Package collab provides the weighted, undirected provider collaboration
// graph. Nodes are provider NPIs; an edge weight is the number of distinct
// patients the two providers share. The graph keeps a stable node order so
// that attribute tables can be aligned positionally.
package collab

import (
	"fmt"
	"sort"
)

// Edge is an undirected weighted edge between two providers.
// From always sorts before To in node order.
type Edge struct {
	From   string
	To     string
	Weight int
}

// Graph is an undirected, integer-weighted graph keyed by provider NPI.
// Node order is insertion order and never changes once a node is added.
type Graph struct {
	nodes []string
	index map[string]int
	adj   []map[int]int // node index -> neighbor index -> weight
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		index: make(map[string]int),
	}
}

// AddNode adds a node if not already present and returns its index.
func (g *Graph) AddNode(id string) int {
	if i, ok := g.index[id]; ok {
		return i
	}
	i := len(g.nodes)
	g.nodes = append(g.nodes, id)
	g.index[id] = i
	g.adj = append(g.adj, make(map[int]int))
	return i
}

// HasNode reports whether id is a node of the graph.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.index[id]
	return ok
}

// NodeIndex returns the positional index of id, or -1 if absent.
func (g *Graph) NodeIndex(id string) int {
	if i, ok := g.index[id]; ok {
		return i
	}
	return -1
}

// Nodes returns node ids in their stable positional order.
// The returned slice is a copy.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// SetEdge sets the weight of the undirected edge a-b, creating missing
// nodes. Self-loops and non-positive weights are rejected.
func (g *Graph) SetEdge(a, b string, weight int) error {
	if a == b {
		return fmt.Errorf("self-loop on node %q not allowed", a)
	}
	if weight < 1 {
		return fmt.Errorf("edge %s-%s: weight must be >= 1, got %d", a, b, weight)
	}
	ia := g.AddNode(a)
	ib := g.AddNode(b)
	g.adj[ia][ib] = weight
	g.adj[ib][ia] = weight
	return nil
}

// AddEdgeWeight adds delta to the weight of edge a-b, creating the edge
// (and missing nodes) as needed. Self-loops are silently ignored so that
// callers folding multiplicity into weights don't need a guard.
func (g *Graph) AddEdgeWeight(a, b string, delta int) {
	if a == b || delta == 0 {
		return
	}
	ia := g.AddNode(a)
	ib := g.AddNode(b)
	g.adj[ia][ib] += delta
	g.adj[ib][ia] += delta
}

// Weight returns the weight of edge a-b, or 0 if the edge does not exist.
func (g *Graph) Weight(a, b string) int {
	ia, ok := g.index[a]
	if !ok {
		return 0
	}
	ib, ok := g.index[b]
	if !ok {
		return 0
	}
	return g.adj[ia][ib]
}

// Degree returns the number of edges incident to id.
func (g *Graph) Degree(id string) int {
	i, ok := g.index[id]
	if !ok {
		return 0
	}
	return len(g.adj[i])
}

// Strength returns the weighted degree of id: the sum of all incident
// edge weights.
func (g *Graph) Strength(id string) int {
	i, ok := g.index[id]
	if !ok {
		return 0
	}
	total := 0
	for _, w := range g.adj[i] {
		total += w
	}
	return total
}

// Neighbors returns the ids adjacent to id, in node order.
func (g *Graph) Neighbors(id string) []string {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	idx := make([]int, 0, len(g.adj[i]))
	for j := range g.adj[i] {
		idx = append(idx, j)
	}
	sort.Ints(idx)
	out := make([]string, len(idx))
	for k, j := range idx {
		out[k] = g.nodes[j]
	}
	return out
}

// Edges returns every undirected edge exactly once, ordered by the node
// indices of its endpoints. Deterministic across runs.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0)
	for i := range g.adj {
		idx := make([]int, 0, len(g.adj[i]))
		for j := range g.adj[i] {
			if j > i {
				idx = append(idx, j)
			}
		}
		sort.Ints(idx)
		for _, j := range idx {
			edges = append(edges, Edge{From: g.nodes[i], To: g.nodes[j], Weight: g.adj[i][j]})
		}
	}
	return edges
}

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	total := 0
	for i := range g.adj {
		total += len(g.adj[i])
	}
	return total / 2
}

// Induce returns a new graph containing only the given node ids (those
// present in g) and the edges between them. Node order in the subgraph
// follows the parent's node order, not the order of ids. The parent is
// not modified.
func (g *Graph) Induce(ids []string) *Graph {
	keep := make(map[int]bool, len(ids))
	for _, id := range ids {
		if i, ok := g.index[id]; ok {
			keep[i] = true
		}
	}

	sub := NewGraph()
	for i, id := range g.nodes {
		if keep[i] {
			sub.AddNode(id)
		}
	}
	for i := range g.adj {
		if !keep[i] {
			continue
		}
		for j, w := range g.adj[i] {
			if j > i && keep[j] {
				sub.SetEdge(g.nodes[i], g.nodes[j], w)
			}
		}
	}
	return sub
}

// WithoutIsolates returns a copy of g with every degree-zero node removed.
func (g *Graph) WithoutIsolates() *Graph {
	keep := make([]string, 0, len(g.nodes))
	for i, id := range g.nodes {
		if len(g.adj[i]) > 0 {
			keep = append(keep, id)
		}
	}
	return g.Induce(keep)
}

// Statistics summarizes the graph for logging and metrics.
type Statistics struct {
	NodeCount    int
	EdgeCount    int
	TotalWeight  int
	MeanStrength float64
}

// GetStatistics computes summary statistics in one pass.
func (g *Graph) GetStatistics() Statistics {
	stats := Statistics{NodeCount: len(g.nodes)}
	for i := range g.adj {
		for j, w := range g.adj[i] {
			if j > i {
				stats.EdgeCount++
				stats.TotalWeight += w
			}
		}
	}
	if stats.NodeCount > 0 {
		// Each edge contributes its weight to both endpoints.
		stats.MeanStrength = float64(2*stats.TotalWeight) / float64(stats.NodeCount)
	}
	return stats
}
