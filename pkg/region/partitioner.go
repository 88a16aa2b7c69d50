// Package region partitions the provider collaboration graph into one
// induced subgraph per referral region for rendering.
package region

import (
	"github.com/dd0wney/cluso-collabnet/pkg/attributes"
	"github.com/dd0wney/cluso-collabnet/pkg/collab"
)

// Subgraph is the renderable slice of the collaboration graph for one
// region. It is an independent derived view: no back-reference to the
// parent graph, rebuilt per region.
type Subgraph struct {
	Region string
	Graph  *collab.Graph
}

// declutter reports whether a provider is worth drawing: the
// (Non-PC, Others) bucket carries no signal and is excluded up front.
func declutter(row attributes.Row) bool {
	return !(row.PCType == attributes.PCNone && row.SpecialtyGroup == attributes.GroupOthers)
}

// Partition builds one Subgraph per distinct region in the attribute
// table. For each region it selects the region's providers that pass the
// declutter filter, induces the subgraph, and strips nodes left with
// degree zero. Regions that empty out yield no subgraph, which is a
// valid outcome, not an error. The parent graph is never mutated.
func Partition(g *collab.Graph, table *attributes.Table) []Subgraph {
	subgraphs := make([]Subgraph, 0)
	for _, region := range table.Regions() {
		if sub, ok := ForRegion(g, table, region); ok {
			subgraphs = append(subgraphs, sub)
		}
	}
	return subgraphs
}

// ForRegion builds the subgraph of a single region. ok is false when the
// region retains no nodes after filtering and isolate pruning.
func ForRegion(g *collab.Graph, table *attributes.Table, region string) (Subgraph, bool) {
	selected := make([]string, 0)
	for _, row := range table.Rows {
		if row.HRR == region && declutter(row) {
			selected = append(selected, row.NPI)
		}
	}
	if len(selected) == 0 {
		return Subgraph{}, false
	}

	// Induction drops self-loops by construction; isolated survivors
	// contribute nothing to a collaboration figure and are pruned even
	// though they passed the region and declutter filters.
	sub := g.Induce(selected).WithoutIsolates()
	if sub.NodeCount() == 0 {
		return Subgraph{}, false
	}
	return Subgraph{Region: region, Graph: sub}, true
}
