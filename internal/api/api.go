package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"price-backend/internal/database"
	"price-backend/internal/preprocess"
	"price-backend/internal/regression"
	"price-backend/internal/storage"
	"price-backend/pkg/api"
	mlerrors "price-backend/pkg/errors"
)

// PredictionService serves single-record price predictions from one
// persisted run's artifacts, plus read-only access to recorded runs. The
// model and preprocessor are loaded once and never mutated, so concurrent
// requests need no synchronization.
type PredictionService struct {
	db    *gorm.DB
	runId uuid.UUID
	model *regression.LinearRegression
	prep  *preprocess.Preprocessor
}

// NewPredictionService loads the artifacts of the given run, or of the most
// recently completed run when runId is uuid.Nil.
func NewPredictionService(ctx context.Context, db *gorm.DB, store storage.ObjectStore, runId uuid.UUID) (*PredictionService, error) {
	var run database.Run
	var err error
	if runId == uuid.Nil {
		run, err = database.LatestCompletedRun(ctx, db)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, mlerrors.Newf("no completed runs found, train a model first")
		}
	} else {
		run, err = database.GetRun(ctx, db, runId)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, mlerrors.Newf("run %s not found", runId)
		}
	}
	if err != nil {
		return nil, mlerrors.Wrap(err, "looking up run")
	}
	if run.Status != database.RunCompleted {
		return nil, mlerrors.Newf("run %s has status %s, artifacts are only persisted for completed runs", run.Id, run.Status)
	}

	var modelArtifact, prepArtifact *database.Artifact
	for i := range run.Artifacts {
		switch run.Artifacts[i].Kind {
		case database.ArtifactModel:
			modelArtifact = &run.Artifacts[i]
		case database.ArtifactPreprocessor:
			prepArtifact = &run.Artifacts[i]
		}
	}
	if modelArtifact == nil || prepArtifact == nil {
		return nil, mlerrors.Newf("run %s is missing persisted artifacts", run.Id)
	}

	modelReader, err := store.GetObject(ctx, modelArtifact.Bucket, modelArtifact.Key)
	if err != nil {
		return nil, mlerrors.Wrap(err, "fetching model artifact")
	}
	defer modelReader.Close()
	model, err := regression.Load(modelReader)
	if err != nil {
		return nil, mlerrors.Wrap(err, "loading model artifact")
	}

	prepReader, err := store.GetObject(ctx, prepArtifact.Bucket, prepArtifact.Key)
	if err != nil {
		return nil, mlerrors.Wrap(err, "fetching preprocessor artifact")
	}
	defer prepReader.Close()
	prep, err := preprocess.Load(prepReader)
	if err != nil {
		return nil, mlerrors.Wrap(err, "loading preprocessor artifact")
	}

	slog.Info("loaded prediction artifacts", "run_id", run.Id, "features", model.NFeatures)

	return &PredictionService{db: db, runId: run.Id, model: model, prep: prep}, nil
}

// RunId is the run whose artifacts are being served.
func (s *PredictionService) RunId() uuid.UUID { return s.runId }

func (s *PredictionService) AddRoutes(r chi.Router) {
	r.Get("/health", RestHandler(func(r *http.Request) (any, error) {
		return api.HealthResponse{Status: "ok", RunId: s.runId}, nil
	}))
	r.Post("/predict", RestHandler(s.Predict))
	r.Route("/runs", func(r chi.Router) {
		r.Get("/", RestHandler(s.ListRuns))
		r.Get("/{run_id}", RestHandler(s.GetRun))
	})
}

// Predict scores one record. Missing or malformed fields yield a client
// error; the service keeps running.
func (s *PredictionService) Predict(r *http.Request) (any, error) {
	req, err := ParseRequest[api.PredictRequest](r)
	if err != nil {
		return nil, err
	}
	if len(req.Record) == 0 {
		return nil, CodedErrorf(http.StatusUnprocessableEntity, "record is required")
	}

	features, err := s.prep.TransformRecord(req.Record)
	if err != nil {
		var invalid *mlerrors.InvalidInputError
		if errors.As(err, &invalid) {
			return nil, CodedError(http.StatusUnprocessableEntity, invalid)
		}
		slog.Error("error transforming prediction record", "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to transform record")
	}

	price, err := s.model.PredictOne(features)
	if err != nil {
		slog.Error("error computing prediction", "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to compute prediction")
	}

	return api.PredictResponse{RunId: s.runId, Price: price}, nil
}

func (s *PredictionService) ListRuns(r *http.Request) (any, error) {
	query, err := ParseRequestQueryParams[api.ListRunsQuery](r)
	if err != nil {
		return nil, err
	}

	runs, err := database.ListRuns(r.Context(), s.db, query.Status, query.Limit, query.Offset)
	if err != nil {
		slog.Error("error listing runs", "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error retrieving runs")
	}

	out := make([]api.Run, 0, len(runs))
	for _, run := range runs {
		out = append(out, convertRun(run))
	}
	return api.ListRunsResponse{Runs: out}, nil
}

func (s *PredictionService) GetRun(r *http.Request) (any, error) {
	runId, err := URLParamUUID(r, "run_id")
	if err != nil {
		return nil, err
	}

	run, err := database.GetRun(r.Context(), s.db, runId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, CodedErrorf(http.StatusNotFound, "run not found")
		}
		slog.Error("error getting run", "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error retrieving run record")
	}

	return convertRun(run), nil
}
