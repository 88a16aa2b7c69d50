package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dd0wney/cluso-collabnet/pkg/logging"
	"github.com/dd0wney/cluso-collabnet/pkg/metrics"
	"github.com/dd0wney/cluso-collabnet/pkg/pipeline"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	encounters := flag.String("encounters", "", "Path to encounters CSV (overrides config)")
	databaseURL := flag.String("db", "", "Postgres URL for the encounter table (overrides config)")
	table := flag.String("table", "", "Encounter table name when using -db")
	outDir := flag.String("out", "", "Output directory (overrides config)")
	minShared := flag.Int("min-shared", -1, "Minimum shared patients per edge (overrides config)")
	layout := flag.String("layout", "", "Layout algorithm: force or circular (overrides config)")
	seed := flag.Int64("seed", -1, "Layout random seed (overrides config)")
	workers := flag.Int("workers", -1, "Concurrent region renders (overrides config)")
	flag.Parse()

	cfg := pipeline.DefaultConfig()
	if *configPath != "" {
		loaded, err := pipeline.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *encounters != "" {
		cfg.EncountersCSV = *encounters
	}
	if *databaseURL != "" {
		cfg.DatabaseURL = *databaseURL
		cfg.EncountersCSV = ""
	}
	if *table != "" {
		cfg.EncounterTable = *table
	}
	if *outDir != "" {
		cfg.OutputDir = *outDir
	}
	if *minShared >= 0 {
		cfg.MinSharedPatients = *minShared
	}
	if *layout != "" {
		cfg.Layout = *layout
	}
	if *seed >= 0 {
		cfg.LayoutSeed = *seed
	}
	if *workers >= 0 {
		cfg.Workers = *workers
	}

	if cfg.EncountersCSV == "" && cfg.DatabaseURL == "" {
		fmt.Println("Usage: collabnet -encounters encounters.csv -out ./out [-min-shared 2] [-layout force]")
		fmt.Println("       collabnet -db postgres://... -table encounters -out ./out")
		fmt.Println("       collabnet -config config.yaml")
		os.Exit(1)
	}

	logger := logging.DefaultLogger()

	p, err := pipeline.NewWith(cfg, logger, metrics.DefaultRegistry())
	if err != nil {
		logger.Error("invalid configuration", logging.Error(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	records, err := p.LoadRecords(ctx)
	if err != nil {
		logger.Error("failed to load encounters", logging.Error(err))
		os.Exit(1)
	}

	result, err := p.Run(ctx, records)
	if err != nil {
		logger.Error("pipeline failed", logging.Error(err))
		os.Exit(1)
	}

	if len(result.RenderErrors) > 0 {
		// Data products were written; only some figures failed.
		os.Exit(2)
	}
}
