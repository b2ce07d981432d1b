package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"price-backend/cmd"
	"price-backend/internal/api"
	"price-backend/internal/config"
	"price-backend/internal/tracking"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
)

func createServer(handler *api.PredictionService, port int) *http.Server {
	r := chi.NewRouter()

	// Middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/api/v1", func(r chi.Router) {
		handler.AddRoutes(r)
	})

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: r,
	}
}

func main() {
	var runIdArg string
	flag.StringVar(&runIdArg, "run", "", "run id to serve (defaults to latest completed run)")
	cmd.LoadEnvFile()

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	if err := os.MkdirAll(cfg.ArtifactRoot, os.ModePerm); err != nil {
		log.Fatalf("error creating directory for log file: %v", err)
	}
	f, err := os.OpenFile(filepath.Join(cfg.ArtifactRoot, "serve.log"), os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer f.Close()
	log.SetOutput(io.MultiWriter(f, os.Stderr))

	runId := uuid.Nil
	if runIdArg != "" {
		runId, err = uuid.Parse(runIdArg)
		if err != nil {
			log.Fatalf("invalid run id '%s': %v", runIdArg, err)
		}
	}

	tracker, err := tracking.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("error connecting to tracking database: %v", err)
	}
	defer tracker.Close()

	store, err := cmd.NewObjectStore(cfg)
	if err != nil {
		log.Fatalf("error creating object store: %v", err)
	}

	handler, err := api.NewPredictionService(context.Background(), tracker.DB(), store, runId)
	if err != nil {
		log.Fatalf("error loading model for serving: %v", err)
	}

	server := createServer(handler, cfg.Port)

	// Goroutine for graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		slog.Info("shutting down server")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}
	}()

	slog.Info("server started", "port", cfg.Port, "run_id", handler.RunId())
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %d: %v\n", cfg.Port, err)
	}

	slog.Info("server stopped")
}
