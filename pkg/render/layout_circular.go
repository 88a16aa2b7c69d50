package render

import (
	"math"

	"github.com/dd0wney/cluso-collabnet/pkg/collab"
)

// CircularLayout arranges nodes in a circle, in node order.
type CircularLayout struct {
	config *LayoutConfig
}

// NewCircularLayout creates a new circular layout.
func NewCircularLayout(config *LayoutConfig) *CircularLayout {
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &CircularLayout{config: config}
}

// ComputeLayout arranges nodes in a circle.
func (cl *CircularLayout) ComputeLayout(g *collab.Graph) (map[string]Position, error) {
	nodeIDs := g.Nodes()
	positions := make(map[string]Position)

	if len(nodeIDs) == 0 {
		return positions, nil
	}

	centerX := cl.config.Width / 2
	centerY := cl.config.Height / 2
	radius := math.Min(centerX, centerY) - cl.config.Padding

	angleStep := 2 * math.Pi / float64(len(nodeIDs))

	for i, nodeID := range nodeIDs {
		angle := float64(i) * angleStep
		positions[nodeID] = Position{
			X: centerX + radius*math.Cos(angle),
			Y: centerY + radius*math.Sin(angle),
		}
	}

	return positions, nil
}
