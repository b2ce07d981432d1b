package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"price-backend/pkg/api"

	"github.com/go-resty/resty/v2"
)

func main() {
	var (
		baseURL string
		record  string
	)
	flag.StringVar(&baseURL, "url", "http://localhost:8001", "base url of the prediction server")
	flag.StringVar(&record, "record", `{"square_footage": 2000, "bedrooms": 3, "bathrooms": 2}`, "json record to score")
	flag.Parse()

	var fields map[string]any
	if err := json.Unmarshal([]byte(record), &fields); err != nil {
		log.Fatalf("invalid record json: %v", err)
	}

	client := resty.New().SetBaseURL(baseURL)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var health api.HealthResponse
	res, err := client.R().
		SetContext(ctx).
		SetResult(&health).
		Get("/api/v1/health")
	if err != nil {
		log.Fatalf("unable to reach server: %v", err)
	}
	if !res.IsSuccess() {
		log.Fatalf("health check failed: status %d: %s", res.StatusCode(), res.String())
	}
	fmt.Printf("serving run %s\n", health.RunId)

	var prediction api.PredictResponse
	res, err = client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(api.PredictRequest{Record: fields}).
		SetResult(&prediction).
		Post("/api/v1/predict")
	if err != nil {
		log.Fatalf("prediction request failed: %v", err)
	}
	if !res.IsSuccess() {
		log.Fatalf("prediction rejected: status %d: %s", res.StatusCode(), res.String())
	}

	fmt.Printf("predicted price: %.2f\n", prediction.Price)
}
