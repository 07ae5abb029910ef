// Package config provides configuration loading from environment variables
// for the pipeline binary.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Static errors for configuration validation.
var (
	// ErrAPIKeyRequired is returned when GETMOTION_API_KEY is not set.
	ErrAPIKeyRequired = errors.New("config: GETMOTION_API_KEY is required")
)

// Config holds all configuration for the pipeline binary.
type Config struct {
	// API settings
	APIKey         string        `env:"GETMOTION_API_KEY, required" json:"-"` // Masked in JSON
	BaseURL        string        `env:"GETMOTION_BASE_URL, default=https://api.getmotion.io" json:"base_url"`
	RequestTimeout time.Duration `env:"GETMOTION_TIMEOUT, default=60s" json:"request_timeout"`

	// Pipeline wait settings
	ReviewTimeout time.Duration `env:"PIPELINE_REVIEW_TIMEOUT, default=10m" json:"review_timeout"`
	RenderTimeout time.Duration `env:"PIPELINE_RENDER_TIMEOUT, default=30m" json:"render_timeout"`
	PollInterval  time.Duration `env:"PIPELINE_POLL_INTERVAL, default=5s" json:"poll_interval"`

	// Optional S3 settings for direct uploads
	S3Bucket           string `env:"S3_BUCKET" json:"s3_bucket,omitempty"`
	S3Region           string `env:"S3_REGION" json:"s3_region,omitempty"`
	S3Endpoint         string `env:"S3_ENDPOINT" json:"s3_endpoint,omitempty"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" json:"-"`     // Masked in JSON
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" json:"-"` // Masked in JSON

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=info" json:"log_level"`   // "debug", "info", "warn", "error"
}

// S3Enabled returns true if direct-S3 upload configuration is provided.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3Region != ""
}

// Load reads configuration from environment variables using go-envconfig.
// A .env file in the working directory is applied first when present.
// It returns an error if required variables are not set.
func Load() (*Config, error) {
	// Missing .env files are fine; the environment wins either way
	_ = godotenv.Load(".env", ".env.local")

	cfg := &Config{}

	if err := envconfig.Process(context.Background(), cfg); err != nil {
		// Map envconfig errors to our domain errors for required fields
		if strings.Contains(err.Error(), "GETMOTION_API_KEY") {
			return nil, ErrAPIKeyRequired
		}
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration is present.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrAPIKeyRequired
	}
	return nil
}

// NewLogger creates a structured logger based on the configuration.
// When LogFormat is "json", it outputs JSON logs suitable for production.
// Otherwise, it outputs human-readable text logs.
func (c *Config) NewLogger() *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(handler)
}

// String returns a string representation of the config with sensitive values masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{BaseURL: %s, RequestTimeout: %s, ReviewTimeout: %s, RenderTimeout: %s, PollInterval: %s, S3Bucket: %s, S3Region: %s, LogFormat: %s, LogLevel: %s}",
		c.BaseURL,
		c.RequestTimeout,
		c.ReviewTimeout,
		c.RenderTimeout,
		c.PollInterval,
		c.S3Bucket,
		c.S3Region,
		c.LogFormat,
		c.LogLevel,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
