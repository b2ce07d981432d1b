package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"price-backend/internal/preprocess"
	"price-backend/internal/regression"
)

// Config is the full configuration for one pipeline run.
type Config struct {
	Name       string                     `yaml:"name"`
	DataPath   string                     `yaml:"data_path"`
	Preprocess preprocess.Config          `yaml:"preprocess"`
	Model      regression.Hyperparameters `yaml:"model"`
}

// DefaultConfig runs the housing pipeline with default preprocessing and an
// unregularized linear model.
func DefaultConfig() Config {
	return Config{
		Name:       "housing-regression",
		Preprocess: preprocess.DefaultConfig(),
	}
}

// LoadConfig reads a pipeline configuration from a YAML file, filling
// omitted options with defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("error reading pipeline config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("error parsing pipeline config %s: %w", path, err)
	}

	if cfg.Name == "" {
		cfg.Name = DefaultConfig().Name
	}
	cfg.Preprocess = cfg.Preprocess.WithDefaults()
	return cfg, nil
}

// Params flattens the configuration for the tracking store.
func (c Config) Params() map[string]string {
	prep := c.Preprocess.WithDefaults()
	return map[string]string{
		"target_column":    prep.TargetColumn,
		"drop_columns":     fmt.Sprintf("%v", prep.DropColumns),
		"impute_strategy":  prep.ImputeStrategy,
		"categorical_fill": prep.CategoricalFill,
		"encoding":         prep.Encoding,
		"scale_numeric":    fmt.Sprintf("%t", prep.ScaleNumeric),
		"filter_outliers":  fmt.Sprintf("%t", prep.FilterOutliers),
		"split_ratio":      fmt.Sprintf("%g", prep.SplitRatio),
		"seed":             fmt.Sprintf("%d", *prep.Seed),
		"alpha":            fmt.Sprintf("%g", c.Model.Alpha),
	}
}
