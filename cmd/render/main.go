// Command render turns a saved CWA payload (for example a debug_raw_data_*.json
// dump) into the same HTML report the scheduled job sends, without touching
// the network. Useful for checking a schema change upstream.
//
// Usage:
//
//	go run ./cmd/render -dataset observation -in debug_raw_data_20240501_140000.json
//	go run ./cmd/render -dataset forecast -in forecast.json -out forecast.html
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/couchcryptid/cwa-weather-report/internal/config"
	"github.com/couchcryptid/cwa-weather-report/internal/observability"
	"github.com/couchcryptid/cwa-weather-report/internal/pipeline"
	"github.com/couchcryptid/cwa-weather-report/internal/report"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

func main() {
	if err := run(); err != nil {
		slog.Error("render failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	datasetName := flag.String("dataset", "observation", "dataset of the payload: observation or forecast")
	in := flag.String("in", "", "path to a saved CWA JSON payload")
	out := flag.String("out", "", "output HTML path (default: timestamped name in the current directory)")
	flag.Parse()

	if *in == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -in")
	}

	ds, err := pipeline.DatasetByName(*datasetName)
	if err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	payload, err := os.ReadFile(*in)
	if err != nil {
		return fmt.Errorf("read payload: %w", err)
	}

	clock := clockwork.NewRealClock()
	runID := uuid.NewString()
	rc := &pipeline.RunContext{
		Logger: observability.NewLogger(cfg, runID, ds.ID()),
		Config: cfg,
		Clock:  clock,
		RunID:  runID,
	}

	generatedAt := clock.Now()
	art, err := ds.Build(rc, payload, generatedAt)
	if err != nil {
		return err
	}

	path := *out
	if path == "" {
		path = report.ArtifactName(art.Prefix, generatedAt)
	}
	if err := os.WriteFile(path, art.HTML, 0o644); err != nil { //nolint:gosec // report is meant to be shared
		return fmt.Errorf("write report: %w", err)
	}

	rc.Logger.Info("report rendered",
		"path", path,
		"regions", art.Regions,
		"rows", art.Rows,
	)
	fmt.Println(art.Caption)
	return nil
}
