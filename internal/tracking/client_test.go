package tracking_test

import (
	"context"
	"testing"
	"time"

	"price-backend/internal/database"
	"price-backend/internal/tracking"
	"price-backend/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func createClient(t *testing.T) *tracking.Client {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, database.GetMigrator(db).Migrate())

	return tracking.NewClient(db)
}

func TestRunLifecycle(t *testing.T) {
	ctx := context.Background()
	client := createClient(t)

	runId, err := client.StartRun(ctx, "test-run", "data.csv")
	require.NoError(t, err)

	run, err := database.GetRun(ctx, client.DB(), runId)
	require.NoError(t, err)
	assert.Equal(t, database.RunRunning, run.Status)
	assert.Equal(t, "test-run", run.Name)
	assert.Equal(t, "data.csv", run.DataPath)
	assert.False(t, run.CompletionTime.Valid)

	require.NoError(t, client.LogParams(ctx, runId, map[string]string{"alpha": "0.1", "seed": "42"}))
	require.NoError(t, client.LogMetrics(ctx, runId, map[string]float64{"mse": 1.5, "r2": 0.9}))
	require.NoError(t, client.LogArtifact(ctx, runId, "model.json", database.ArtifactModel, "experiments", "runs/x/model.json", map[string]any{"feature_names": []string{"a"}}))

	require.NoError(t, client.FinishRun(ctx, runId))

	run, err = database.GetRun(ctx, client.DB(), runId)
	require.NoError(t, err)
	assert.Equal(t, database.RunCompleted, run.Status)
	assert.True(t, run.CompletionTime.Valid)
	assert.False(t, run.Error.Valid)
	assert.Len(t, run.Params, 2)
	assert.Len(t, run.Metrics, 2)
	require.Len(t, run.Artifacts, 1)
	assert.Equal(t, database.ArtifactModel, run.Artifacts[0].Kind)
	assert.NotEmpty(t, run.Artifacts[0].Metadata)
}

func TestFailRun(t *testing.T) {
	ctx := context.Background()
	client := createClient(t)

	runId, err := client.StartRun(ctx, "doomed", "data.csv")
	require.NoError(t, err)

	require.NoError(t, client.FailRun(ctx, runId, errors.New("stage load failed")))

	run, err := database.GetRun(ctx, client.DB(), runId)
	require.NoError(t, err)
	assert.Equal(t, database.RunFailed, run.Status)
	assert.True(t, run.CompletionTime.Valid)
	require.True(t, run.Error.Valid)
	assert.Contains(t, run.Error.String, "stage load failed")
	assert.Empty(t, run.Metrics)
}

func TestLatestCompletedRun(t *testing.T) {
	ctx := context.Background()
	client := createClient(t)

	first, err := client.StartRun(ctx, "first", "a.csv")
	require.NoError(t, err)
	require.NoError(t, client.FinishRun(ctx, first))

	time.Sleep(5 * time.Millisecond)

	second, err := client.StartRun(ctx, "second", "b.csv")
	require.NoError(t, err)
	require.NoError(t, client.FinishRun(ctx, second))

	// A later, still-running run must not win.
	_, err = client.StartRun(ctx, "third", "c.csv")
	require.NoError(t, err)

	latest, err := database.LatestCompletedRun(ctx, client.DB())
	require.NoError(t, err)
	assert.Equal(t, second, latest.Id)
}

func TestListRuns(t *testing.T) {
	ctx := context.Background()
	client := createClient(t)

	done, err := client.StartRun(ctx, "done", "a.csv")
	require.NoError(t, err)
	require.NoError(t, client.FinishRun(ctx, done))

	failed, err := client.StartRun(ctx, "failed", "b.csv")
	require.NoError(t, err)
	require.NoError(t, client.FailRun(ctx, failed, errors.New("boom")))

	all, err := database.ListRuns(ctx, client.DB(), "", 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	completed, err := database.ListRuns(ctx, client.DB(), database.RunCompleted, 0, 0)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, done, completed[0].Id)
}

func TestUpdateMissingRun(t *testing.T) {
	ctx := context.Background()
	client := createClient(t)

	err := client.FinishRun(ctx, uuid.New())
	assert.Error(t, err)
}
