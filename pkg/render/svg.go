package render

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dd0wney/cluso-collabnet/pkg/attributes"
	"github.com/dd0wney/cluso-collabnet/pkg/region"
)

// NodeVisual is the complete visual-field set of one node. Every node
// handed to the renderer gets one; a node the attribute table cannot
// account for is a contract violation, not a silent skip.
type NodeVisual struct {
	Shape  string
	Color  string
	Frame  bool
	Radius float64
}

// Renderer draws region subgraphs as SVG files.
type Renderer struct {
	layout Layout
	config *LayoutConfig
}

// NewRenderer creates a renderer using the named layout algorithm.
func NewRenderer(layoutName string, config *LayoutConfig) *Renderer {
	if config.Width == 0 {
		config.Width = 1000
	}
	if config.Height == 0 {
		config.Height = 800
	}
	return &Renderer{
		layout: NewLayout(layoutName, config),
		config: config,
	}
}

// nodeRadius scales node size from patient volume, square-root so area
// tracks volume roughly linearly.
func nodeRadius(volume int) float64 {
	if volume < 0 {
		volume = 0
	}
	r := 5 + 2.5*math.Sqrt(float64(volume))
	return math.Min(r, 30)
}

// edgeWidth scales stroke width from shared-patient count.
func edgeWidth(weight int) float64 {
	if weight < 1 {
		weight = 1
	}
	return math.Min(0.8+1.2*math.Sqrt(float64(weight-1)), 8)
}

// visuals builds the complete visual-field set for every node of the
// subgraph, erroring if the attribute table has no row for a node.
func visuals(sub region.Subgraph, table *attributes.Table) (map[string]NodeVisual, error) {
	out := make(map[string]NodeVisual, sub.Graph.NodeCount())
	for _, npi := range sub.Graph.Nodes() {
		row, ok := table.Lookup(npi)
		if !ok {
			return nil, fmt.Errorf("region %s: node %s has no attribute row", sub.Region, npi)
		}
		out[npi] = NodeVisual{
			Shape:  attributes.ShapeToken(row.PCType),
			Color:  attributes.ColorToken(row.SpecialtyGroup),
			Frame:  attributes.PCFrame(row.PCType),
			Radius: nodeRadius(row.PatientVolume),
		}
	}
	return out, nil
}

// RenderSVG lays out the subgraph and writes it as SVG.
func (r *Renderer) RenderSVG(sub region.Subgraph, table *attributes.Table, w io.Writer) error {
	vis, err := visuals(sub, table)
	if err != nil {
		return err
	}

	positions, err := r.layout.ComputeLayout(sub.Graph)
	if err != nil {
		return fmt.Errorf("layout for region %s: %w", sub.Region, err)
	}

	fmt.Fprintf(w, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`+"\n",
		r.config.Width, r.config.Height, r.config.Width, r.config.Height)
	fmt.Fprintf(w, "<title>%s</title>\n", escapeXML(sub.Region))

	// Edges first so nodes draw on top.
	for _, e := range sub.Graph.Edges() {
		from := positions[e.From]
		to := positions[e.To]
		fmt.Fprintf(w, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#cccccc" stroke-width="%.2f"/>`+"\n",
			from.X, from.Y, to.X, to.Y, edgeWidth(e.Weight))
	}

	for _, npi := range sub.Graph.Nodes() {
		pos := positions[npi]
		v := vis[npi]
		stroke := "none"
		strokeWidth := 0.0
		if v.Frame {
			stroke = "#000000"
			strokeWidth = 2
		}
		switch v.Shape {
		case attributes.ShapeSquare:
			side := v.Radius * 2
			fmt.Fprintf(w, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="%s" stroke-width="%.1f"><title>%s</title></rect>`+"\n",
				pos.X-v.Radius, pos.Y-v.Radius, side, side, v.Color, stroke, strokeWidth, escapeXML(npi))
		default:
			fmt.Fprintf(w, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" stroke="%s" stroke-width="%.1f"><title>%s</title></circle>`+"\n",
				pos.X, pos.Y, v.Radius, v.Color, stroke, strokeWidth, escapeXML(npi))
		}
	}

	fmt.Fprintln(w, "</svg>")
	return nil
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ArtifactName returns the file name for a region's image.
func ArtifactName(regionID string) string {
	name := unsafeFilename.ReplaceAllString(regionID, "_")
	if name == "" {
		name = "region"
	}
	return name + ".svg"
}

// RenderFile renders the subgraph into dir, named by region id, and
// returns the written path.
func (r *Renderer) RenderFile(dir string, sub region.Subgraph, table *attributes.Table) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(dir, ArtifactName(sub.Region))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := r.RenderSVG(sub, table, f); err != nil {
		os.Remove(path) // don't leave a half-written artifact
		return "", err
	}
	return path, nil
}

func escapeXML(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
	)
	return replacer.Replace(s)
}
