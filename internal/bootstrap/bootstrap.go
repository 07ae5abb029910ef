// Package bootstrap provides dependency initialization for the pipeline binary.
package bootstrap

import (
	"fmt"
	"log/slog"

	getmotion "github.com/getmotion/getmotion-go"
	"github.com/getmotion/getmotion-go/internal/config"
	"github.com/getmotion/getmotion-go/s3upload"
)

// NewClient creates and initializes the API client from configuration.
// When S3 settings are present, uploads bypass the presigned-URL flow
// and go straight to the bucket.
func NewClient(cfg *config.Config, logger *slog.Logger) (*getmotion.Client, error) {
	opts := []getmotion.ClientOption{
		getmotion.WithBaseURL(cfg.BaseURL),
		getmotion.WithTimeout(cfg.RequestTimeout),
		getmotion.WithLogger(logger),
	}

	uploader, err := initUploader(cfg, logger)
	if err != nil {
		return nil, err
	}
	if uploader != nil {
		opts = append(opts, getmotion.WithUploader(uploader))
	}

	client, err := getmotion.New(cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("create getmotion client: %w", err)
	}

	return client, nil
}

// initUploader creates the direct-S3 uploader when configuration enables it.
// A nil return means the client keeps its default presigned-URL uploader.
func initUploader(cfg *config.Config, logger *slog.Logger) (getmotion.Uploader, error) {
	if !cfg.S3Enabled() {
		return nil, nil
	}

	uploader, err := s3upload.New(s3upload.Config{
		Bucket:          cfg.S3Bucket,
		Region:          cfg.S3Region,
		Endpoint:        cfg.S3Endpoint,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create S3 uploader: %w", err)
	}
	logger.Info("direct S3 upload configured",
		slog.String("bucket", cfg.S3Bucket),
		slog.String("region", cfg.S3Region),
	)
	return uploader, nil
}
