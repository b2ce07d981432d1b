package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	backend "price-backend/internal/api"
	"price-backend/internal/database"
	"price-backend/internal/dataset"
	"price-backend/internal/pipeline"
	"price-backend/internal/storage"
	"price-backend/internal/tracking"
	"price-backend/pkg/api"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func createDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, database.GetMigrator(db).Migrate())

	return db
}

// trainRun executes a full pipeline run so the service under test loads
// real persisted artifacts.
func trainRun(t *testing.T, db *gorm.DB, store storage.ObjectStore) uuid.UUID {
	path := filepath.Join(t.TempDir(), "housing.csv")
	require.NoError(t, dataset.WriteCSV(dataset.Synthetic(300, 42), path))

	cfg := pipeline.DefaultConfig()
	cfg.DataPath = path

	orch := pipeline.NewOrchestrator(tracking.NewClient(db), store, "experiments")
	result, err := orch.Run(context.Background(), cfg)
	require.NoError(t, err)
	return result.RunId
}

func createRouter(t *testing.T, db *gorm.DB, store storage.ObjectStore, runId uuid.UUID) chi.Router {
	service, err := backend.NewPredictionService(context.Background(), db, store, runId)
	require.NoError(t, err)

	router := chi.NewRouter()
	service.AddRoutes(router)
	return router
}

func TestHealth(t *testing.T) {
	db := createDB(t)
	store, err := storage.NewLocalObjectStore(t.TempDir())
	require.NoError(t, err)
	runId := trainRun(t, db, store)

	router := createRouter(t, db, store, uuid.Nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var response api.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "ok", response.Status)
	assert.Equal(t, runId, response.RunId)
}

func TestPredict(t *testing.T) {
	db := createDB(t)
	store, err := storage.NewLocalObjectStore(t.TempDir())
	require.NoError(t, err)
	runId := trainRun(t, db, store)

	router := createRouter(t, db, store, runId)

	body, err := json.Marshal(api.PredictRequest{Record: map[string]any{
		"square_footage": 2000,
		"bedrooms":       3,
		"bathrooms":      2,
	}})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/predict", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var response api.PredictResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, runId, response.RunId)
	assert.Greater(t, response.Price, 0.0)
}

func TestPredictMissingField(t *testing.T) {
	db := createDB(t)
	store, err := storage.NewLocalObjectStore(t.TempDir())
	require.NoError(t, err)
	runId := trainRun(t, db, store)

	router := createRouter(t, db, store, runId)

	body, err := json.Marshal(api.PredictRequest{Record: map[string]any{
		"square_footage": 2000,
	}})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/predict", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "bedrooms")
}

func TestPredictBadValue(t *testing.T) {
	db := createDB(t)
	store, err := storage.NewLocalObjectStore(t.TempDir())
	require.NoError(t, err)
	runId := trainRun(t, db, store)

	router := createRouter(t, db, store, runId)

	body, err := json.Marshal(api.PredictRequest{Record: map[string]any{
		"square_footage": "big",
		"bedrooms":       3,
		"bathrooms":      2,
	}})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/predict", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPredictEmptyRecord(t *testing.T) {
	db := createDB(t)
	store, err := storage.NewLocalObjectStore(t.TempDir())
	require.NoError(t, err)
	runId := trainRun(t, db, store)

	router := createRouter(t, db, store, runId)

	req := httptest.NewRequest(http.MethodPost, "/predict", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestListRuns(t *testing.T) {
	db := createDB(t)
	store, err := storage.NewLocalObjectStore(t.TempDir())
	require.NoError(t, err)
	runId := trainRun(t, db, store)

	router := createRouter(t, db, store, runId)

	req := httptest.NewRequest(http.MethodGet, "/runs?status=COMPLETED", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var response api.ListRunsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response.Runs, 1)
	assert.Equal(t, runId, response.Runs[0].Id)
	assert.Equal(t, database.RunCompleted, response.Runs[0].Status)
	assert.Contains(t, response.Runs[0].Metrics, "rmse")
}

func TestGetRun(t *testing.T) {
	db := createDB(t)
	store, err := storage.NewLocalObjectStore(t.TempDir())
	require.NoError(t, err)
	runId := trainRun(t, db, store)

	router := createRouter(t, db, store, runId)

	req := httptest.NewRequest(http.MethodGet, "/runs/"+runId.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var response api.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, runId, response.Id)
	assert.NotNil(t, response.CompletionTime)
	assert.Len(t, response.Artifacts, 2)
	assert.Equal(t, "240", response.Params["rows_train"]) // 80% of 300

	req = httptest.NewRequest(http.MethodGet, "/runs/"+uuid.NewString(), nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/runs/not-a-uuid", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNewPredictionServiceNoRuns(t *testing.T) {
	db := createDB(t)
	store, err := storage.NewLocalObjectStore(t.TempDir())
	require.NoError(t, err)

	_, err = backend.NewPredictionService(context.Background(), db, store, uuid.Nil)
	assert.Error(t, err)
}

func TestNewPredictionServiceFailedRun(t *testing.T) {
	db := createDB(t)
	store, err := storage.NewLocalObjectStore(t.TempDir())
	require.NoError(t, err)

	tracker := tracking.NewClient(db)
	runId, err := tracker.StartRun(context.Background(), "doomed", "x.csv")
	require.NoError(t, err)
	require.NoError(t, tracker.FailRun(context.Background(), runId, assert.AnError))

	_, err = backend.NewPredictionService(context.Background(), db, store, runId)
	assert.Error(t, err)
}
