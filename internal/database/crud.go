package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Connect opens the tracking database and applies migrations. Postgres URLs
// are recognized by prefix; anything else is treated as a sqlite path or
// DSN, which keeps local development dependency-free.
func Connect(databaseURL string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		dialector = postgres.Open(databaseURL)
	} else {
		dialector = sqlite.Open(databaseURL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to tracking database: %w", err)
	}

	if err := GetMigrator(db).Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate tracking database: %w", err)
	}

	return db, nil
}

func UpdateRunStatus(ctx context.Context, db *gorm.DB, runId uuid.UUID, status string, runErr error) error {
	updates := map[string]any{"status": status}
	if status == RunCompleted || status == RunFailed {
		updates["completion_time"] = sql.NullTime{Time: time.Now().UTC(), Valid: true}
	}
	if runErr != nil {
		updates["error"] = sql.NullString{String: runErr.Error(), Valid: true}
	}

	result := db.WithContext(ctx).Model(&Run{}).Where("id = ?", runId).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("error updating run %s status to %s: %w", runId, status, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("run %s not found", runId)
	}
	return nil
}

// GetRun loads a run with its params, metrics, and artifacts.
func GetRun(ctx context.Context, db *gorm.DB, runId uuid.UUID) (Run, error) {
	var run Run
	err := db.WithContext(ctx).
		Preload("Params").Preload("Metrics").Preload("Artifacts").
		First(&run, "id = ?", runId).Error
	return run, err
}

// LatestCompletedRun returns the most recently finished successful run.
func LatestCompletedRun(ctx context.Context, db *gorm.DB) (Run, error) {
	var run Run
	err := db.WithContext(ctx).
		Preload("Params").Preload("Metrics").Preload("Artifacts").
		Where("status = ?", RunCompleted).
		Order("completion_time DESC").
		First(&run).Error
	return run, err
}

// ListRuns returns runs newest first, optionally filtered by status.
func ListRuns(ctx context.Context, db *gorm.DB, status string, limit, offset int) ([]Run, error) {
	query := db.WithContext(ctx).Preload("Metrics").Order("creation_time DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var runs []Run
	err := query.Find(&runs).Error
	return runs, err
}
