package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"price-backend/cmd"
	"price-backend/internal/config"
	"price-backend/internal/dataset"
	"price-backend/internal/pipeline"
	"price-backend/internal/tracking"

	"github.com/schollz/progressbar/v3"
)

func writeSyntheticDataset(path string, rows int, seed int64) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return fmt.Errorf("error creating data directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating dataset file: %w", err)
	}
	defer f.Close()

	table := dataset.Synthetic(rows, seed)

	bar := progressbar.NewOptions(table.NumRows(),
		progressbar.OptionSetDescription("writing dataset"),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)

	w := csv.NewWriter(f)
	if err := w.Write(table.Columns); err != nil {
		return fmt.Errorf("error writing dataset header: %w", err)
	}
	for _, row := range table.Rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("error writing dataset row: %w", err)
		}
		_ = bar.Add(1)
	}
	w.Flush()
	return w.Error()
}

func main() {
	var (
		configPath    string
		dataPath      string
		runName       string
		syntheticRows int
	)
	flag.StringVar(&configPath, "config", "", "path to a yaml pipeline config")
	flag.StringVar(&dataPath, "data", "", "path to a csv dataset (overrides config)")
	flag.StringVar(&runName, "name", "", "run name (overrides config)")
	flag.IntVar(&syntheticRows, "synthetic-rows", 500, "rows to generate when no dataset is given")
	cmd.LoadEnvFile()

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	pipelineCfg := pipeline.DefaultConfig()
	if configPath != "" {
		pipelineCfg, err = pipeline.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("error loading pipeline config: %v", err)
		}
	}
	if dataPath != "" {
		pipelineCfg.DataPath = dataPath
	}
	if runName != "" {
		pipelineCfg.Name = runName
	}

	if pipelineCfg.DataPath == "" {
		pipelineCfg.DataPath = filepath.Join(cfg.ArtifactRoot, "data", "housing.csv")
		slog.Info("no dataset given, generating synthetic housing data", "path", pipelineCfg.DataPath, "rows", syntheticRows)
		if err := writeSyntheticDataset(pipelineCfg.DataPath, syntheticRows, *pipelineCfg.Preprocess.WithDefaults().Seed); err != nil {
			log.Fatalf("error generating synthetic dataset: %v", err)
		}
	}

	tracker, err := tracking.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("error connecting to tracking database: %v", err)
	}
	defer tracker.Close()

	store, err := cmd.NewObjectStore(cfg)
	if err != nil {
		log.Fatalf("error creating object store: %v", err)
	}

	orch := pipeline.NewOrchestrator(tracker, store, cfg.ArtifactBucket)

	slog.Info("starting training run", "name", pipelineCfg.Name, "data", pipelineCfg.DataPath)

	result, err := orch.Run(context.Background(), pipelineCfg)
	if err != nil {
		log.Fatalf("training run failed: %v", err)
	}

	fmt.Printf("run %s completed\n", result.RunId)
	for _, name := range []string{"mse", "rmse", "mae", "r2"} {
		if v, ok := result.Metrics[name]; ok {
			fmt.Printf("  %-5s %s\n", name, strconv.FormatFloat(v, 'f', 4, 64))
		}
	}
}
