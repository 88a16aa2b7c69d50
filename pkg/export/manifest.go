package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Manifest describes one pipeline run's outputs.
type Manifest struct {
	RunID          string            `json:"run_id"`
	CreatedAt      time.Time         `json:"created_at"`
	RecordCount    int               `json:"record_count"`
	IncidencePairs int               `json:"incidence_pairs"`
	NodeCount      int               `json:"node_count"`
	EdgeCount      int               `json:"edge_count"`
	Regions        map[string]string `json:"regions"` // region id -> artifact file
	SkippedRegions []string          `json:"skipped_regions,omitempty"`
}

// WriteManifest writes the manifest as indented JSON.
func WriteManifest(path string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// ReadManifest reads a manifest written by WriteManifest.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &m, nil
}
