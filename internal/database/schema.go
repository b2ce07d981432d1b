package database

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	RunRunning   string = "RUNNING"
	RunCompleted string = "COMPLETED"
	RunFailed    string = "FAILED"
)

// Run is one execution of the training pipeline. Params, Metrics, and
// Artifacts are written once at the end of a successful run.
type Run struct {
	Id uuid.UUID `gorm:"type:uuid;primaryKey"`

	Name     string
	Status   string `gorm:"size:20;not null"`
	DataPath string
	Error    sql.NullString

	CreationTime   time.Time
	CompletionTime sql.NullTime

	Params    []RunParam  `gorm:"foreignKey:RunId;constraint:OnDelete:CASCADE"`
	Metrics   []RunMetric `gorm:"foreignKey:RunId;constraint:OnDelete:CASCADE"`
	Artifacts []Artifact  `gorm:"foreignKey:RunId;constraint:OnDelete:CASCADE"`
}

type RunParam struct {
	RunId uuid.UUID `gorm:"type:uuid;primaryKey"`
	Key   string    `gorm:"primaryKey"`
	Value string
}

type RunMetric struct {
	RunId uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name  string    `gorm:"primaryKey"`
	Value float64
}

const (
	ArtifactModel        string = "model"
	ArtifactPreprocessor string = "preprocessor"
)

// Artifact records where a persisted output of the run lives in the object
// store, plus free-form metadata such as feature names.
type Artifact struct {
	RunId uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name  string    `gorm:"primaryKey"`

	Kind     string `gorm:"size:20;not null"`
	Bucket   string
	Key      string
	Metadata datatypes.JSON
}
