package pipeline

import (
	"context"
	"log/slog"

	"price-backend/internal/dataset"
	"price-backend/internal/metrics"
	"price-backend/internal/preprocess"
	"price-backend/internal/regression"
	"price-backend/pkg/errors"
)

// LoadStage reads the raw CSV into the run state.
type LoadStage struct{}

func (LoadStage) Name() string { return "load" }

func (LoadStage) Run(ctx context.Context, s *State) error {
	if s.Raw != nil {
		// Table was injected directly, nothing to read.
		return nil
	}

	table, err := dataset.LoadCSV(s.Config.DataPath)
	if err != nil {
		return err
	}

	slog.Info("loaded dataset", "path", s.Config.DataPath, "rows", table.NumRows(), "columns", table.NumColumns())
	for col, n := range table.MissingCounts() {
		if n > 0 {
			slog.Info("column has missing values", "column", col, "missing", n)
		}
	}
	for col, summary := range table.Summarize() {
		slog.Info("column summary", "column", col,
			"count", summary.Count, "mean", summary.Mean, "std", summary.Std,
			"min", summary.Min, "max", summary.Max)
	}

	s.Raw = table
	return nil
}

// PreprocessStage cleans the table, splits it, and fits the encoding and
// imputation parameters on the training subset only.
type PreprocessStage struct{}

func (PreprocessStage) Name() string { return "preprocess" }

func (PreprocessStage) Run(ctx context.Context, s *State) error {
	cfg := s.Config.Preprocess.WithDefaults()

	table, droppedTarget, err := preprocess.DropMissingTarget(s.Raw, cfg.TargetColumn)
	if err != nil {
		return err
	}
	s.DroppedMissingTarget = droppedTarget

	if cfg.FilterOutliers {
		filtered, droppedOutliers, err := preprocess.FilterIQROutliers(table, cfg.TargetColumn)
		if err != nil {
			return err
		}
		table = filtered
		s.DroppedOutliers = droppedOutliers
	}

	train, test, err := preprocess.Split(table, cfg.SplitRatio, *cfg.Seed)
	if err != nil {
		return err
	}
	s.Train, s.Test = train, test

	p := preprocess.New(cfg)
	if err := p.Fit(train); err != nil {
		return err
	}
	s.Preprocessor = p

	if s.XTrain, err = p.Transform(train); err != nil {
		return err
	}
	if s.YTrain, err = p.Target(train); err != nil {
		return err
	}
	if s.XTest, err = p.Transform(test); err != nil {
		return err
	}
	if s.YTest, err = p.Target(test); err != nil {
		return err
	}

	slog.Info("preprocessed dataset",
		"train_rows", train.NumRows(),
		"test_rows", test.NumRows(),
		"features", p.NumFeatures(),
		"dropped_missing_target", s.DroppedMissingTarget,
		"dropped_outliers", s.DroppedOutliers,
	)
	return nil
}

// TrainStage fits the regression model on the training matrices.
type TrainStage struct{}

func (TrainStage) Name() string { return "train" }

func (TrainStage) Run(ctx context.Context, s *State) error {
	model := regression.NewLinearRegression(s.Config.Model)
	if err := model.Fit(s.XTrain, s.YTrain); err != nil {
		return err
	}

	slog.Info("trained model", "features", model.NFeatures, "alpha", model.Alpha)
	s.Model = model
	return nil
}

// EvaluateStage applies the fitted model to the holdout set and computes
// the metrics record.
type EvaluateStage struct{}

func (EvaluateStage) Name() string { return "evaluate" }

func (EvaluateStage) Run(ctx context.Context, s *State) error {
	yPred, err := s.Model.Predict(s.XTest)
	if err != nil {
		return err
	}

	record, err := metrics.Evaluate(s.YTest, yPred)
	if err != nil {
		return errors.Wrap(err, "evaluating holdout predictions")
	}

	slog.Info("evaluated model", "mse", record["mse"], "r2", record["r2"])
	s.Metrics = record
	return nil
}

// DefaultStages is the fixed linear order of the training pipeline.
func DefaultStages() []Stage {
	return []Stage{LoadStage{}, PreprocessStage{}, TrainStage{}, EvaluateStage{}}
}
