package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the process configuration shared by the api and worker binaries.
type Config struct {
	Port string `env:"PORT" envDefault:"8000"`

	DatabaseURL            string        `env:"DATABASE_URL"`
	DatabaseName           string        `env:"DATABASE_NAME"`
	DatabaseConnectTimeout time.Duration `env:"DATABASE_CONNECT_TIMEOUT" envDefault:"5s"`

	AWSRegion        string `env:"AWS_REGION" envDefault:"us-east-1"`
	OrdersQueueURL   string `env:"ORDERS_QUEUE_URL"`
	MetricsNamespace string `env:"METRICS_NAMESPACE"`

	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"48h"`

	// LambdaFunction is set by the Lambda runtime.
	LambdaFunction string `env:"AWS_LAMBDA_FUNCTION_NAME"`
	RunLocal       bool   `env:"RUN_LOCAL"`
}

// DatabaseConfigured reports whether both store settings are present.
func (c Config) DatabaseConfigured() bool {
	return c.DatabaseURL != "" && c.DatabaseName != ""
}

// InLambda reports whether the process runs inside the Lambda runtime.
func (c Config) InLambda() bool {
	return c.LambdaFunction != "" && !c.RunLocal
}

// Load reads an optional .env file from the working directory, then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("[config] ignoring .env: %v", err)
	}
	return Parse()
}

// Parse reads the configuration from environment variables only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
