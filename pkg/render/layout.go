// Package render lays out and draws one attributed region subgraph per
// referral region. It is the pipeline's rendering collaborator: it
// consumes a finished graph plus total per-node visual fields and emits
// an SVG artifact named by region.
package render

import (
	"github.com/dd0wney/cluso-collabnet/pkg/collab"
)

// Position is a 2D coordinate on the canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LayoutConfig configures layout parameters.
type LayoutConfig struct {
	Width      float64 // Canvas width
	Height     float64 // Canvas height
	Iterations int     // Number of iterations for iterative algorithms
	Padding    float64 // Padding from edges
	Seed       int64   // Seed for layouts with random initialization
}

// Layout computes node positions for a graph.
type Layout interface {
	ComputeLayout(g *collab.Graph) (map[string]Position, error)
}

// NewLayout returns the layout implementation for a config name.
// Unrecognized names fall back to force-directed.
func NewLayout(name string, config *LayoutConfig) Layout {
	switch name {
	case "circular":
		return NewCircularLayout(config)
	default:
		return NewForceDirectedLayout(config)
	}
}
