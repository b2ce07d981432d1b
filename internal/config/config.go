package config

import (
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the shared environment configuration for the train, serve, and
// runs commands.
type Config struct {
	DatabaseURL string `env:"DATABASE_URL" envDefault:"price-backend.db"`

	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"local"` // local or s3
	ArtifactRoot   string `env:"ARTIFACT_ROOT" envDefault:"./artifacts"`
	ArtifactBucket string `env:"ARTIFACT_BUCKET" envDefault:"experiments"`

	S3EndpointURL     string `env:"S3_ENDPOINT_URL"`
	S3Region          string `env:"AWS_REGION" envDefault:"us-east-1"`
	S3AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`

	Port int `env:"PORT" envDefault:"8001"`
}

// Load reads the configuration from the environment, first loading a .env
// file if one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading, continuing with environment variables")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}

	if cfg.StorageBackend == "s3" && (cfg.S3AccessKeyID == "" || cfg.S3SecretAccessKey == "") {
		log.Println("Warning: STORAGE_BACKEND is s3, but AWS_ACCESS_KEY_ID or AWS_SECRET_ACCESS_KEY are missing.")
	}

	return &cfg, nil
}
