// Package metrics exposes Prometheus metrics for the pipeline. A batch
// run pushes or scrapes these at the caller's discretion; the pipeline
// only records.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metrics for the application
type Registry struct {
	// Ingestion
	RecordsTotal        prometheus.Gauge
	IncidencePairsTotal prometheus.Gauge

	// Graph construction
	GraphNodesTotal    prometheus.Gauge
	GraphEdgesTotal    prometheus.Gauge
	GraphTotalWeight   prometheus.Gauge
	SuppressedEdges    prometheus.Gauge
	StageDuration      *prometheus.HistogramVec
	PipelineRunsTotal  *prometheus.CounterVec

	// Regions
	RegionsTotal     prometheus.Gauge
	RegionRenders    *prometheus.CounterVec
	RenderDuration   prometheus.Histogram
	RegionNodesDrawn *prometheus.HistogramVec

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}

	r.RecordsTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "collabnet_encounter_records_total",
			Help: "Encounter records read from the source table",
		},
	)

	r.IncidencePairsTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "collabnet_incidence_pairs_total",
			Help: "Deduplicated patient-provider incidence pairs",
		},
	)

	r.GraphNodesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "collabnet_graph_nodes_total",
			Help: "Providers in the projected collaboration graph",
		},
	)

	r.GraphEdgesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "collabnet_graph_edges_total",
			Help: "Edges in the projected collaboration graph",
		},
	)

	r.GraphTotalWeight = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "collabnet_graph_total_weight",
			Help: "Sum of shared-patient edge weights",
		},
	)

	r.SuppressedEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "collabnet_suppressed_edges_total",
			Help: "Edges removed by the minimum shared-patient threshold",
		},
	)

	r.StageDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "collabnet_stage_duration_seconds",
			Help:    "Pipeline stage duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30, 120},
		},
		[]string{"stage"},
	)

	r.PipelineRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "collabnet_pipeline_runs_total",
			Help: "Pipeline runs by outcome",
		},
		[]string{"status"},
	)

	r.RegionsTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "collabnet_regions_total",
			Help: "Regions with a non-empty subgraph in the last run",
		},
	)

	r.RegionRenders = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "collabnet_region_renders_total",
			Help: "Region render attempts by outcome",
		},
		[]string{"status"},
	)

	r.RenderDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "collabnet_render_duration_seconds",
			Help:    "Per-region render duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		},
	)

	r.RegionNodesDrawn = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "collabnet_region_nodes_drawn",
			Help:    "Nodes drawn per region figure",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
		},
		[]string{"layout"},
	)

	return r
}

// PrometheusRegistry exposes the underlying registry for scraping or
// pushing.
func (r *Registry) PrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// RecordStage records a pipeline stage duration
func (r *Registry) RecordStage(stage string, duration time.Duration) {
	r.StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordGraph records the projected graph's shape
func (r *Registry) RecordGraph(nodes, edges, totalWeight int) {
	r.GraphNodesTotal.Set(float64(nodes))
	r.GraphEdgesTotal.Set(float64(edges))
	r.GraphTotalWeight.Set(float64(totalWeight))
}

// RecordRender records one region render attempt
func (r *Registry) RecordRender(status string, nodes int, layout string, duration time.Duration) {
	r.RegionRenders.WithLabelValues(status).Inc()
	r.RenderDuration.Observe(duration.Seconds())
	if status == "success" {
		r.RegionNodesDrawn.WithLabelValues(layout).Observe(float64(nodes))
	}
}

// RecordRun records a completed pipeline run
func (r *Registry) RecordRun(status string) {
	r.PipelineRunsTotal.WithLabelValues(status).Inc()
}
