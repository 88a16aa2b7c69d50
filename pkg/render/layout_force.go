package render

import (
	"math"
	"math/rand"

	"github.com/dd0wney/cluso-collabnet/pkg/collab"
)

// ForceDirectedLayout implements force-directed graph layout
// (Fruchterman-Reingold style with a cooling temperature).
type ForceDirectedLayout struct {
	config *LayoutConfig
}

// NewForceDirectedLayout creates a new force-directed layout.
func NewForceDirectedLayout(config *LayoutConfig) *ForceDirectedLayout {
	if config.Iterations == 0 {
		config.Iterations = 50
	}
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &ForceDirectedLayout{config: config}
}

// ComputeLayout computes positions using the force-directed algorithm.
// The random initialization is seeded from the config, so re-runs over
// the same graph produce the same picture.
func (fdl *ForceDirectedLayout) ComputeLayout(g *collab.Graph) (map[string]Position, error) {
	nodeIDs := g.Nodes()
	if len(nodeIDs) == 0 {
		return make(map[string]Position), nil
	}

	// Single node - center it
	if len(nodeIDs) == 1 {
		return map[string]Position{
			nodeIDs[0]: {
				X: fdl.config.Width / 2,
				Y: fdl.config.Height / 2,
			},
		}, nil
	}

	rng := rand.New(rand.NewSource(fdl.config.Seed))

	positions := make(map[string]Position)
	for _, nodeID := range nodeIDs {
		positions[nodeID] = Position{
			X: rng.Float64()*(fdl.config.Width-2*fdl.config.Padding) + fdl.config.Padding,
			Y: rng.Float64()*(fdl.config.Height-2*fdl.config.Padding) + fdl.config.Padding,
		}
	}

	// Adjacency for attraction passes
	neighbors := make(map[string][]string, len(nodeIDs))
	for _, nodeID := range nodeIDs {
		neighbors[nodeID] = g.Neighbors(nodeID)
	}

	k := math.Sqrt((fdl.config.Width * fdl.config.Height) / float64(len(nodeIDs))) // Optimal distance
	temperature := fdl.config.Width / 10.0

	for iter := 0; iter < fdl.config.Iterations; iter++ {
		forces := make(map[string]Position)
		for _, nodeID := range nodeIDs {
			forces[nodeID] = Position{}
		}

		// Repulsion between all pairs
		for i, a := range nodeIDs {
			for j := i + 1; j < len(nodeIDs); j++ {
				b := nodeIDs[j]
				dx := positions[a].X - positions[b].X
				dy := positions[a].Y - positions[b].Y
				dist := math.Sqrt(dx*dx + dy*dy)
				if dist < 0.01 {
					dist = 0.01
				}

				force := (k * k) / dist
				fx := (dx / dist) * force
				fy := (dy / dist) * force

				forces[a] = Position{X: forces[a].X + fx, Y: forces[a].Y + fy}
				forces[b] = Position{X: forces[b].X - fx, Y: forces[b].Y - fy}
			}
		}

		// Attraction along edges
		for _, a := range nodeIDs {
			for _, b := range neighbors[a] {
				if b <= a {
					continue // each undirected edge once
				}
				dx := positions[a].X - positions[b].X
				dy := positions[a].Y - positions[b].Y
				dist := math.Sqrt(dx*dx + dy*dy)
				if dist < 0.01 {
					dist = 0.01
				}

				force := (dist * dist) / k
				fx := (dx / dist) * force
				fy := (dy / dist) * force

				forces[a] = Position{X: forces[a].X - fx, Y: forces[a].Y - fy}
				forces[b] = Position{X: forces[b].X + fx, Y: forces[b].Y + fy}
			}
		}

		// Apply forces limited by temperature
		for _, nodeID := range nodeIDs {
			f := forces[nodeID]
			mag := math.Sqrt(f.X*f.X + f.Y*f.Y)
			if mag < 0.01 {
				continue
			}
			limited := math.Min(mag, temperature)
			positions[nodeID] = Position{
				X: positions[nodeID].X + (f.X/mag)*limited,
				Y: positions[nodeID].Y + (f.Y/mag)*limited,
			}
		}

		// Cool down
		temperature *= 0.95
	}

	return normalizePositions(positions, fdl.config.Width, fdl.config.Height, fdl.config.Padding), nil
}
