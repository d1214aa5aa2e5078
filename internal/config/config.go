// Package config loads server configuration from FORGE_-prefixed environment
// variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseURL string // FORGE_DATABASE_URL (required)
	HTTPAddr    string // FORGE_HTTP_ADDR (default ":8080")
	NATSURL     string // FORGE_NATS_URL (optional, empty = no events)
	AuthToken   string // FORGE_AUTH_TOKEN (optional, empty = auth disabled)

	// Generator settings. An empty API key selects the offline heuristic
	// generator.
	AnthropicAPIKey string        // FORGE_ANTHROPIC_API_KEY
	AnthropicModel  string        // FORGE_ANTHROPIC_MODEL (default "claude-sonnet-4-5")
	GenerateTimeout time.Duration // FORGE_GENERATE_TIMEOUT (default 60s)
	GenerateRetries int           // FORGE_GENERATE_RETRIES (default 3)

	// Planning knobs.
	CompleteThreshold float64 // FORGE_COMPLETE_THRESHOLD (default 0.9)
	HoursPerWeek      float64 // FORGE_HOURS_PER_WEEK (default 40)

	// Confidence scoring constants.
	ConfidenceDefault   float64 // FORGE_CONFIDENCE_DEFAULT (default 0.5)
	ConfidenceBase      float64 // FORGE_CONFIDENCE_BASE (default 0.5)
	ConfidenceIncrement float64 // FORGE_CONFIDENCE_INCREMENT (default 0.45)
	ConfidenceMax       float64 // FORGE_CONFIDENCE_MAX (default 0.95)

	// Export settings.
	ExportInterval   time.Duration // FORGE_EXPORT_INTERVAL (default 0 = disabled)
	ExportS3Bucket   string        // FORGE_EXPORT_S3_BUCKET (enables S3 when set)
	ExportS3Endpoint string        // FORGE_EXPORT_S3_ENDPOINT (custom endpoint for MinIO)
	ExportS3Region   string        // FORGE_EXPORT_S3_REGION (default "us-east-1")
	ExportS3Key      string        // FORGE_EXPORT_S3_KEY (default "forge/plans.jsonl")
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL:      os.Getenv("FORGE_DATABASE_URL"),
		HTTPAddr:         envOrDefault("FORGE_HTTP_ADDR", ":8080"),
		NATSURL:          os.Getenv("FORGE_NATS_URL"),
		AuthToken:        os.Getenv("FORGE_AUTH_TOKEN"),
		AnthropicAPIKey:  os.Getenv("FORGE_ANTHROPIC_API_KEY"),
		AnthropicModel:   envOrDefault("FORGE_ANTHROPIC_MODEL", "claude-sonnet-4-5"),
		ExportS3Bucket:   os.Getenv("FORGE_EXPORT_S3_BUCKET"),
		ExportS3Endpoint: os.Getenv("FORGE_EXPORT_S3_ENDPOINT"),
		ExportS3Region:   envOrDefault("FORGE_EXPORT_S3_REGION", "us-east-1"),
		ExportS3Key:      envOrDefault("FORGE_EXPORT_S3_KEY", "forge/plans.jsonl"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("FORGE_DATABASE_URL is required")
	}

	var err error
	if c.GenerateTimeout, err = durationEnv("FORGE_GENERATE_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if c.ExportInterval, err = durationEnv("FORGE_EXPORT_INTERVAL", 0); err != nil {
		return nil, err
	}
	if c.GenerateRetries, err = intEnv("FORGE_GENERATE_RETRIES", 3); err != nil {
		return nil, err
	}
	if c.CompleteThreshold, err = floatEnv("FORGE_COMPLETE_THRESHOLD", 0.9); err != nil {
		return nil, err
	}
	if c.CompleteThreshold <= 0 || c.CompleteThreshold > 1 {
		return nil, fmt.Errorf("FORGE_COMPLETE_THRESHOLD must be in (0, 1], got %g", c.CompleteThreshold)
	}
	if c.HoursPerWeek, err = floatEnv("FORGE_HOURS_PER_WEEK", 40); err != nil {
		return nil, err
	}
	if c.HoursPerWeek <= 0 {
		return nil, fmt.Errorf("FORGE_HOURS_PER_WEEK must be positive, got %g", c.HoursPerWeek)
	}

	confidence := []struct {
		key      string
		fallback float64
		dst      *float64
	}{
		{"FORGE_CONFIDENCE_DEFAULT", 0.5, &c.ConfidenceDefault},
		{"FORGE_CONFIDENCE_BASE", 0.5, &c.ConfidenceBase},
		{"FORGE_CONFIDENCE_INCREMENT", 0.45, &c.ConfidenceIncrement},
		{"FORGE_CONFIDENCE_MAX", 0.95, &c.ConfidenceMax},
	}
	for _, f := range confidence {
		if *f.dst, err = floatEnv(f.key, f.fallback); err != nil {
			return nil, err
		}
		if *f.dst < 0 || *f.dst > 1 {
			return nil, fmt.Errorf("%s must be in [0, 1], got %g", f.key, *f.dst)
		}
	}

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func floatEnv(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}
