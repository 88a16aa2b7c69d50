package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EncountersCSV = "encounters.csv"
	assert.NoError(t, cfg.Validate())
}

func TestValidateRequiresSource(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, cfg.Validate(), "no CSV and no database URL")
}

func TestValidateRejectsBothSources(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EncountersCSV = "encounters.csv"
	cfg.DatabaseURL = "postgres://localhost/encounters"
	cfg.EncounterTable = "encounters"
	assert.Error(t, cfg.Validate())
}

func TestValidateDatabaseNeedsTable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DatabaseURL = "postgres://localhost/encounters"
	assert.Error(t, cfg.Validate())

	cfg.EncounterTable = "encounters"
	assert.NoError(t, cfg.Validate())
}

func TestValidateLayoutName(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EncountersCSV = "encounters.csv"
	cfg.Layout = "hyperbolic"
	assert.Error(t, cfg.Validate())
}

func TestValidateCanvas(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EncountersCSV = "encounters.csv"
	cfg.CanvasWidth = 0
	assert.Error(t, cfg.Validate())
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `encounters_csv: /data/encounters.csv
output_dir: /data/out
min_shared_patients: 3
layout: circular
workers: 8
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/encounters.csv", cfg.EncountersCSV)
	assert.Equal(t, "/data/out", cfg.OutputDir)
	assert.Equal(t, 3, cfg.MinSharedPatients)
	assert.Equal(t, "circular", cfg.Layout)
	assert.Equal(t, 8, cfg.Workers)
	// Untouched keys keep their defaults.
	assert.Equal(t, 1000.0, cfg.CanvasWidth)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigBadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n  - not yaml"), 0644))
	_, err := LoadConfig(path)
	assert.Error(t, err)
}
