// Package api holds the wire types shared by the prediction service and
// its clients.
package api

import (
	"time"

	"github.com/google/uuid"
)

// PredictRequest carries one record to score. Values may be JSON numbers or
// strings; every feature column used at training time is required.
type PredictRequest struct {
	Record map[string]any `json:"record"`
}

type PredictResponse struct {
	RunId uuid.UUID `json:"run_id"`
	Price float64   `json:"price"`
}

// Run is the client view of a recorded pipeline run.
type Run struct {
	Id     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Status string    `json:"status"`
	Error  string    `json:"error,omitempty"`

	CreationTime   time.Time  `json:"creation_time"`
	CompletionTime *time.Time `json:"completion_time,omitempty"`

	Params  map[string]string  `json:"params,omitempty"`
	Metrics map[string]float64 `json:"metrics,omitempty"`

	Artifacts []Artifact `json:"artifacts,omitempty"`
}

type Artifact struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

// ListRunsQuery are the recognized query parameters of GET /runs.
type ListRunsQuery struct {
	Status string `schema:"status"`
	Limit  int    `schema:"limit"`
	Offset int    `schema:"offset"`
}

type ListRunsResponse struct {
	Runs []Run `json:"runs"`
}

type HealthResponse struct {
	Status string    `json:"status"`
	RunId  uuid.UUID `json:"run_id"`
}
