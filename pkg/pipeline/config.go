package pipeline

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// validate is a singleton validator instance
var validate = validator.New()

// Config is the run configuration. Exactly one encounter source must be
// set: a CSV path or a database URL.
type Config struct {
	// Encounter source
	EncountersCSV  string `yaml:"encounters_csv" validate:"required_without=DatabaseURL,excluded_with=DatabaseURL"`
	DatabaseURL    string `yaml:"database_url"`
	EncounterTable string `yaml:"encounter_table" validate:"required_with=DatabaseURL"`

	// Outputs
	OutputDir string `yaml:"output_dir" validate:"required"`

	// Privacy suppression: edges below this shared-patient count are
	// never materialized. 0 and 1 are equivalent.
	MinSharedPatients int `yaml:"min_shared_patients" validate:"min=0"`

	// Rendering
	Layout           string  `yaml:"layout" validate:"oneof=force circular"`
	CanvasWidth      float64 `yaml:"canvas_width" validate:"gt=0"`
	CanvasHeight     float64 `yaml:"canvas_height" validate:"gt=0"`
	LayoutIterations int     `yaml:"layout_iterations" validate:"min=0"`
	LayoutSeed       int64   `yaml:"layout_seed"`

	// Region fan-out; 0 means one worker.
	Workers int `yaml:"workers" validate:"min=0"`
}

// DefaultConfig returns a config suitable for a local CSV run once an
// input path and output dir are filled in.
func DefaultConfig() Config {
	return Config{
		OutputDir:         "./out",
		MinSharedPatients: 1,
		Layout:            "force",
		CanvasWidth:       1000,
		CanvasHeight:      800,
		LayoutIterations:  50,
		Workers:           4,
	}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks the config's struct tags. Configuration errors are
// data-integrity failures: the run aborts before touching input.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return fmt.Errorf("config field %s fails %q constraint", errs[0].Field(), errs[0].Tag())
		}
		return fmt.Errorf("config validation: %w", err)
	}
	return nil
}
