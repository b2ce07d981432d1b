// Package pipeline orchestrates the training workflow as an explicit
// ordered list of stages: load, preprocess, train, evaluate. Each stage
// reads and extends the shared run state; the orchestrator aborts on the
// first failing stage.
package pipeline

import (
	"context"

	"gonum.org/v1/gonum/mat"

	"price-backend/internal/dataset"
	"price-backend/internal/preprocess"
	"price-backend/internal/regression"
)

// State carries each stage's output to the next stage.
type State struct {
	Config Config

	Raw *dataset.Table

	DroppedMissingTarget int
	DroppedOutliers      int

	Train *dataset.Table
	Test  *dataset.Table

	Preprocessor *preprocess.Preprocessor
	XTrain       *mat.Dense
	YTrain       *mat.VecDense
	XTest        *mat.Dense
	YTest        *mat.VecDense

	Model   *regression.LinearRegression
	Metrics map[string]float64
}

// Stage is one step of the pipeline.
type Stage interface {
	Name() string
	Run(ctx context.Context, s *State) error
}
