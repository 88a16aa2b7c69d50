// Package pipeline wires the stages together: load encounters, build the
// incidence set, project the collaboration graph, resolve attributes,
// partition by region, export, and render. Integrity and alignment
// failures abort the whole run; empty regions and individual render
// failures do not.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-collabnet/pkg/attributes"
	"github.com/dd0wney/cluso-collabnet/pkg/bipartite"
	"github.com/dd0wney/cluso-collabnet/pkg/collab"
	"github.com/dd0wney/cluso-collabnet/pkg/encounter"
	"github.com/dd0wney/cluso-collabnet/pkg/export"
	"github.com/dd0wney/cluso-collabnet/pkg/logging"
	"github.com/dd0wney/cluso-collabnet/pkg/metrics"
	"github.com/dd0wney/cluso-collabnet/pkg/parallel"
	"github.com/dd0wney/cluso-collabnet/pkg/region"
	"github.com/dd0wney/cluso-collabnet/pkg/render"
)

// Output file names inside the output directory.
const (
	GraphFileName     = "graph.cnet"
	AttributeFileName = "attributes.csv"
	ManifestFileName  = "manifest.json"
)

// Pipeline runs the full batch flow for one configuration.
type Pipeline struct {
	cfg     Config
	logger  logging.Logger
	metrics *metrics.Registry
}

// Result is what a successful run produces. Graph and Attributes are
// immutable once returned.
type Result struct {
	RunID      string
	Graph      *collab.Graph
	Attributes *attributes.Table
	Subgraphs  []region.Subgraph

	// Artifacts maps region id to the rendered file path.
	Artifacts map[string]string
	// RenderErrors maps region id to its render failure, if any. Render
	// failures are local: they never abort the run.
	RenderErrors map[string]error
	// SkippedRegions lists regions that emptied out before rendering.
	SkippedRegions []string
}

// New creates a pipeline with the default logger and metrics registry.
func New(cfg Config) (*Pipeline, error) {
	return NewWith(cfg, logging.DefaultLogger(), metrics.DefaultRegistry())
}

// NewWith creates a pipeline with explicit collaborators.
func NewWith(cfg Config, logger logging.Logger, reg *metrics.Registry) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataIntegrity, err)
	}
	return &Pipeline{cfg: cfg, logger: logger, metrics: reg}, nil
}

// LoadRecords reads the configured encounter source.
func (p *Pipeline) LoadRecords(ctx context.Context) ([]encounter.Record, error) {
	if p.cfg.DatabaseURL != "" {
		store, err := encounter.NewPGStore(ctx, p.cfg.DatabaseURL, p.cfg.EncounterTable)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.LoadEncounters(ctx)
	}
	records, err := encounter.ReadCSVFile(p.cfg.EncountersCSV)
	if err != nil {
		if errors.Is(err, encounter.ErrMissingColumn) {
			return nil, integrityError("load", err)
		}
		return nil, err
	}
	return records, nil
}

// Run executes the full pipeline over the given records and writes every
// artifact into the configured output directory.
func (p *Pipeline) Run(ctx context.Context, records []encounter.Record) (*Result, error) {
	runID := uuid.NewString()
	logger := p.logger.With(logging.RunID(runID))

	result, err := p.run(ctx, logger, runID, records)
	if err != nil {
		p.metrics.RecordRun("failed")
		return nil, err
	}
	p.metrics.RecordRun("success")
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, logger logging.Logger, runID string, records []encounter.Record) (*Result, error) {
	logger.Info("pipeline started", logging.Records(len(records)))
	p.metrics.RecordsTotal.Set(float64(len(records)))

	// Incidence
	start := time.Now()
	pairs := encounter.BuildIncidence(records)
	p.metrics.RecordStage("incidence", time.Since(start))
	p.metrics.IncidencePairsTotal.Set(float64(len(pairs)))
	logger.Info("incidence built", logging.Count(len(pairs)))

	// Projection
	start = time.Now()
	bg := bipartite.NewGraph(pairs)
	side, err := bg.SelectProviderSide(encounter.ProviderUniverse(records))
	if err != nil {
		return nil, integrityError("projection", err)
	}
	graph, suppressed := bg.ProjectWithStats(side, p.cfg.MinSharedPatients)
	p.metrics.RecordStage("projection", time.Since(start))
	p.metrics.SuppressedEdges.Set(float64(suppressed))

	stats := graph.GetStatistics()
	p.metrics.RecordGraph(stats.NodeCount, stats.EdgeCount, stats.TotalWeight)
	logger.Info("graph projected",
		logging.String("provider_side", side.String()),
		logging.Nodes(stats.NodeCount),
		logging.Edges(stats.EdgeCount),
		logging.Int("suppressed_edges", suppressed),
	)

	// Attributes
	start = time.Now()
	table, err := attributes.Resolve(records, graph)
	if err != nil {
		// No partial output on a bad attribute table.
		if errors.Is(err, attributes.ErrMisaligned) {
			return nil, alignmentError("attributes", err)
		}
		return nil, integrityError("attributes", err)
	}
	p.metrics.RecordStage("attributes", time.Since(start))

	// Regions
	start = time.Now()
	subgraphs := region.Partition(graph, table)
	p.metrics.RecordStage("partition", time.Since(start))
	p.metrics.RegionsTotal.Set(float64(len(subgraphs)))

	kept := make(map[string]bool, len(subgraphs))
	for _, sub := range subgraphs {
		kept[sub.Region] = true
	}
	skipped := make([]string, 0)
	for _, r := range table.Regions() {
		if !kept[r] {
			skipped = append(skipped, r)
			logger.Info("region empty after filtering, skipped", logging.Region(r))
		}
	}

	// Persist the graph and attribute table before rendering so a render
	// failure never loses the run's data products.
	if err := export.WriteFile(filepath.Join(p.cfg.OutputDir, GraphFileName), graph, table); err != nil {
		return nil, err
	}
	if err := export.WriteAttributeCSV(filepath.Join(p.cfg.OutputDir, AttributeFileName), table); err != nil {
		return nil, err
	}

	artifacts, renderErrs := p.renderRegions(ctx, logger, subgraphs, table)

	manifest := &export.Manifest{
		RunID:          runID,
		CreatedAt:      time.Now().UTC(),
		RecordCount:    len(records),
		IncidencePairs: len(pairs),
		NodeCount:      stats.NodeCount,
		EdgeCount:      stats.EdgeCount,
		Regions:        artifactNames(artifacts),
		SkippedRegions: skipped,
	}
	if err := export.WriteManifest(filepath.Join(p.cfg.OutputDir, ManifestFileName), manifest); err != nil {
		return nil, err
	}

	logger.Info("pipeline finished",
		logging.Int("regions_rendered", len(artifacts)),
		logging.Int("regions_failed", len(renderErrs)),
		logging.Int("regions_skipped", len(skipped)),
	)

	return &Result{
		RunID:          runID,
		Graph:          graph,
		Attributes:     table,
		Subgraphs:      subgraphs,
		Artifacts:      artifacts,
		RenderErrors:   renderErrs,
		SkippedRegions: skipped,
	}, nil
}

// renderRegions fans region rendering out over a worker pool. The graph
// and attribute table are immutable by this point, so regions share them
// without locking; each region writes its own file.
func (p *Pipeline) renderRegions(ctx context.Context, logger logging.Logger, subgraphs []region.Subgraph, table *attributes.Table) (map[string]string, map[string]error) {
	artifacts := make(map[string]string, len(subgraphs))
	renderErrs := make(map[string]error)
	var mu sync.Mutex

	pool := parallel.NewWorkerPool(p.cfg.Workers)
	for _, sub := range subgraphs {
		if ctx.Err() != nil {
			mu.Lock()
			renderErrs[sub.Region] = ctx.Err()
			mu.Unlock()
			continue
		}
		sub := sub
		pool.Submit(func() {
			// Each region gets its own renderer: layout state must not
			// leak between concurrent regions.
			r := render.NewRenderer(p.cfg.Layout, &render.LayoutConfig{
				Width:      p.cfg.CanvasWidth,
				Height:     p.cfg.CanvasHeight,
				Iterations: p.cfg.LayoutIterations,
				Seed:       p.cfg.LayoutSeed,
			})

			start := time.Now()
			path, err := r.RenderFile(p.cfg.OutputDir, sub, table)
			elapsed := time.Since(start)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				// One region failing must not block the others.
				renderErrs[sub.Region] = err
				p.metrics.RecordRender("error", 0, p.cfg.Layout, elapsed)
				logger.Error("region render failed", logging.Region(sub.Region), logging.Error(err))
				return
			}
			artifacts[sub.Region] = path
			p.metrics.RecordRender("success", sub.Graph.NodeCount(), p.cfg.Layout, elapsed)
			logger.Info("region rendered",
				logging.Region(sub.Region),
				logging.Nodes(sub.Graph.NodeCount()),
				logging.Edges(sub.Graph.EdgeCount()),
				logging.Path(path),
				logging.Latency(elapsed),
			)
		})
	}
	pool.Wait()

	return artifacts, renderErrs
}

func artifactNames(artifacts map[string]string) map[string]string {
	names := make(map[string]string, len(artifacts))
	for region, path := range artifacts {
		names[region] = filepath.Base(path)
	}
	return names
}
