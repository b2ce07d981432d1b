package api

import (
	"price-backend/internal/database"
	"price-backend/pkg/api"
)

func convertRun(run database.Run) api.Run {
	out := api.Run{
		Id:           run.Id,
		Name:         run.Name,
		Status:       run.Status,
		CreationTime: run.CreationTime,
	}

	if run.Error.Valid {
		out.Error = run.Error.String
	}
	if run.CompletionTime.Valid {
		t := run.CompletionTime.Time
		out.CompletionTime = &t
	}

	if len(run.Params) > 0 {
		out.Params = make(map[string]string, len(run.Params))
		for _, p := range run.Params {
			out.Params[p.Key] = p.Value
		}
	}
	if len(run.Metrics) > 0 {
		out.Metrics = make(map[string]float64, len(run.Metrics))
		for _, m := range run.Metrics {
			out.Metrics[m.Name] = m.Value
		}
	}
	for _, a := range run.Artifacts {
		out.Artifacts = append(out.Artifacts, api.Artifact{
			Name:   a.Name,
			Kind:   a.Kind,
			Bucket: a.Bucket,
			Key:    a.Key,
		})
	}

	return out
}
