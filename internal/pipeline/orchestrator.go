package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"

	"github.com/google/uuid"

	"price-backend/internal/storage"
	"price-backend/internal/tracking"
	"price-backend/pkg/errors"
)

const (
	ModelObjectName        = "model.json"
	PreprocessorObjectName = "preprocessor.json"
)

// ArtifactKey is the object store key for a run artifact.
func ArtifactKey(runId uuid.UUID, name string) string {
	return path.Join("runs", runId.String(), name)
}

// Result summarizes a completed run.
type Result struct {
	RunId   uuid.UUID
	Metrics map[string]float64
}

// Orchestrator sequences the pipeline stages and, on success, persists the
// artifacts and records the run. Stages run one after another; a run is
// all-or-nothing, so nothing is committed when any stage fails.
type Orchestrator struct {
	tracker *tracking.Client
	store   storage.ObjectStore
	bucket  string
	stages  []Stage
}

func NewOrchestrator(tracker *tracking.Client, store storage.ObjectStore, bucket string) *Orchestrator {
	return &Orchestrator{
		tracker: tracker,
		store:   store,
		bucket:  bucket,
		stages:  DefaultStages(),
	}
}

func (o *Orchestrator) Run(ctx context.Context, cfg Config) (Result, error) {
	runId, err := o.tracker.StartRun(ctx, cfg.Name, cfg.DataPath)
	if err != nil {
		return Result{}, errors.Wrap(err, "starting run")
	}

	slog.Info("starting pipeline run", "run_id", runId, "name", cfg.Name)

	state := &State{Config: cfg}
	for _, stage := range o.stages {
		if err := stage.Run(ctx, state); err != nil {
			wrapped := errors.Wrapf(err, "stage %s failed", stage.Name())
			slog.Error("pipeline run failed", "run_id", runId, "stage", stage.Name(), "error", err)
			if failErr := o.tracker.FailRun(ctx, runId, wrapped); failErr != nil {
				slog.Error("error marking run as failed", "run_id", runId, "error", failErr)
			}
			return Result{RunId: runId}, wrapped
		}
	}

	if err := o.commit(ctx, runId, state); err != nil {
		slog.Error("pipeline run failed during commit", "run_id", runId, "error", err)
		if failErr := o.tracker.FailRun(ctx, runId, err); failErr != nil {
			slog.Error("error marking run as failed", "run_id", runId, "error", failErr)
		}
		return Result{RunId: runId}, err
	}

	slog.Info("pipeline run completed", "run_id", runId)
	return Result{RunId: runId, Metrics: state.Metrics}, nil
}

// commit persists the artifacts and writes the run's params and metrics.
func (o *Orchestrator) commit(ctx context.Context, runId uuid.UUID, state *State) error {
	if err := o.store.CreateBucket(ctx, o.bucket); err != nil {
		return errors.Wrap(err, "creating artifact bucket")
	}

	var modelBuf bytes.Buffer
	if err := state.Model.Save(&modelBuf); err != nil {
		return errors.Wrap(err, "serializing model")
	}
	modelKey := ArtifactKey(runId, ModelObjectName)
	if err := o.store.PutObject(ctx, o.bucket, modelKey, &modelBuf); err != nil {
		return errors.Wrap(err, "persisting model artifact")
	}

	var prepBuf bytes.Buffer
	if err := state.Preprocessor.Save(&prepBuf); err != nil {
		return errors.Wrap(err, "serializing preprocessor")
	}
	prepKey := ArtifactKey(runId, PreprocessorObjectName)
	if err := o.store.PutObject(ctx, o.bucket, prepKey, &prepBuf); err != nil {
		return errors.Wrap(err, "persisting preprocessor artifact")
	}

	params := state.Config.Params()
	params["rows_raw"] = fmt.Sprintf("%d", state.Raw.NumRows())
	params["rows_dropped_missing_target"] = fmt.Sprintf("%d", state.DroppedMissingTarget)
	params["rows_dropped_outliers"] = fmt.Sprintf("%d", state.DroppedOutliers)
	params["rows_train"] = fmt.Sprintf("%d", state.Train.NumRows())
	params["rows_test"] = fmt.Sprintf("%d", state.Test.NumRows())
	params["n_features"] = fmt.Sprintf("%d", state.Preprocessor.NumFeatures())
	for col, n := range state.Raw.MissingCounts() {
		if n > 0 {
			params["missing_"+col] = fmt.Sprintf("%d", n)
		}
	}

	if err := o.tracker.LogParams(ctx, runId, params); err != nil {
		return errors.Wrap(err, "recording params")
	}
	if err := o.tracker.LogMetrics(ctx, runId, state.Metrics); err != nil {
		return errors.Wrap(err, "recording metrics")
	}

	featureMeta := map[string]any{"feature_names": state.Preprocessor.FeatureNames}
	if err := o.tracker.LogArtifact(ctx, runId, ModelObjectName, "model", o.bucket, modelKey, featureMeta); err != nil {
		return errors.Wrap(err, "recording model artifact")
	}
	if err := o.tracker.LogArtifact(ctx, runId, PreprocessorObjectName, "preprocessor", o.bucket, prepKey, nil); err != nil {
		return errors.Wrap(err, "recording preprocessor artifact")
	}

	if err := o.tracker.FinishRun(ctx, runId); err != nil {
		return errors.Wrap(err, "finishing run")
	}
	return nil
}
