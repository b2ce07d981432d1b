// Package tracking provides the experiment tracking client. The client is
// an explicitly passed handle with an open/close lifecycle: opened at run
// start, closed when the run ends. There is no process-global connection.
package tracking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"price-backend/internal/database"
)

type Client struct {
	db *gorm.DB
}

// Open connects to the tracking store and applies migrations.
func Open(databaseURL string) (*Client, error) {
	db, err := database.Connect(databaseURL)
	if err != nil {
		return nil, err
	}
	return NewClient(db), nil
}

// NewClient wraps an existing connection, used by the API server and tests.
func NewClient(db *gorm.DB) *Client {
	return &Client{db: db}
}

func (c *Client) DB() *gorm.DB { return c.db }

// Close releases the underlying connection.
func (c *Client) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return fmt.Errorf("error getting underlying connection: %w", err)
	}
	return sqlDB.Close()
}

// StartRun records a new run in RUNNING state and returns its identifier.
func (c *Client) StartRun(ctx context.Context, name, dataPath string) (uuid.UUID, error) {
	run := database.Run{
		Id:           uuid.New(),
		Name:         name,
		Status:       database.RunRunning,
		DataPath:     dataPath,
		CreationTime: time.Now().UTC(),
	}
	if err := c.db.WithContext(ctx).Create(&run).Error; err != nil {
		return uuid.Nil, fmt.Errorf("error creating run: %w", err)
	}
	return run.Id, nil
}

// LogParams records the configuration used for the run.
func (c *Client) LogParams(ctx context.Context, runId uuid.UUID, params map[string]string) error {
	if len(params) == 0 {
		return nil
	}
	rows := make([]database.RunParam, 0, len(params))
	for k, v := range params {
		rows = append(rows, database.RunParam{RunId: runId, Key: k, Value: v})
	}
	if err := c.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("error logging params for run %s: %w", runId, err)
	}
	return nil
}

// LogMetrics records the evaluation metrics. Metrics are write-once: a run
// gets exactly one metrics record.
func (c *Client) LogMetrics(ctx context.Context, runId uuid.UUID, metrics map[string]float64) error {
	if len(metrics) == 0 {
		return nil
	}
	rows := make([]database.RunMetric, 0, len(metrics))
	for name, value := range metrics {
		rows = append(rows, database.RunMetric{RunId: runId, Name: name, Value: value})
	}
	if err := c.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("error logging metrics for run %s: %w", runId, err)
	}
	return nil
}

// LogArtifact records the object store location of a persisted artifact.
func (c *Client) LogArtifact(ctx context.Context, runId uuid.UUID, name, kind, bucket, key string, metadata any) error {
	artifact := database.Artifact{
		RunId:  runId,
		Name:   name,
		Kind:   kind,
		Bucket: bucket,
		Key:    key,
	}
	if metadata != nil {
		blob, err := json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("error encoding artifact metadata: %w", err)
		}
		artifact.Metadata = datatypes.JSON(blob)
	}
	if err := c.db.WithContext(ctx).Create(&artifact).Error; err != nil {
		return fmt.Errorf("error logging artifact %s for run %s: %w", name, runId, err)
	}
	return nil
}

// FinishRun marks the run as completed.
func (c *Client) FinishRun(ctx context.Context, runId uuid.UUID) error {
	return database.UpdateRunStatus(ctx, c.db, runId, database.RunCompleted, nil)
}

// FailRun marks the run as failed with the originating error.
func (c *Client) FailRun(ctx context.Context, runId uuid.UUID, cause error) error {
	return database.UpdateRunStatus(ctx, c.db, runId, database.RunFailed, cause)
}
