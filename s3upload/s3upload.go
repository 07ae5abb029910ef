// Package s3upload provides a direct-S3 Uploader for the GetMotion SDK.
//
// The SDK's default uploader transfers bytes over HTTP against the
// presigned URLs the API hands out. Deployments that cannot reach those
// URLs (VPC-only buckets, S3-compatible stores behind private endpoints)
// can write straight to the bucket instead:
//
//	up, err := s3upload.New(s3upload.Config{Bucket: "getmotion-inputs", Region: "eu-west-1"})
//	if err != nil {
//		log.Fatal(err)
//	}
//	client, err := getmotion.New(apiKey, getmotion.WithUploader(up))
package s3upload

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/getmotion/getmotion-go"
)

// ErrBucketRequired is returned when the bucket name is not provided.
var ErrBucketRequired = errors.New("s3upload: bucket is required")

// Config holds the configuration for direct S3 uploads.
type Config struct {
	Bucket          string
	Region          string
	Endpoint        string // Optional: for custom S3-compatible endpoints
	AccessKeyID     string // Optional: AWS access key ID
	SecretAccessKey string // Optional: AWS secret access key
}

// Uploader implements getmotion.Uploader by writing the object named by a
// presign target's key directly to the configured bucket. The target URL
// is ignored; the API still learns about the object through the key it
// presigned.
type Uploader struct {
	client *s3.Client
	bucket string
}

var _ getmotion.Uploader = (*Uploader)(nil)

// New creates a direct-S3 uploader. Credentials fall back to the default
// AWS provider chain when not given explicitly.
func New(cfg Config) (*Uploader, error) {
	if cfg.Bucket == "" {
		return nil, ErrBucketRequired
	}

	var configOpts []func(*config.LoadOptions) error
	configOpts = append(configOpts, config.WithRegion(cfg.Region))

	// Use static credentials if provided
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		configOpts = append(configOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(), configOpts...)
	if err != nil {
		return nil, fmt.Errorf("s3upload: load AWS config: %w", err)
	}

	var clientOpts []func(*s3.Options)
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	return &Uploader{
		client: s3.NewFromConfig(awsCfg, clientOpts...),
		bucket: cfg.Bucket,
	}, nil
}

// Upload puts the local file at the target's key.
func (u *Uploader) Upload(ctx context.Context, target getmotion.UploadTarget, path, contentType string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("s3upload: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(target.Key),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3upload: put object %q: %w", target.Key, err)
	}

	return nil
}
