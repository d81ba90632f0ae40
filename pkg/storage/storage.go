package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/notethatdown/notethatdown-api/pkg/logger"
	"github.com/notethatdown/notethatdown-api/pkg/metrics"
	"github.com/notethatdown/notethatdown-api/pkg/retry"
	"go.uber.org/zap"
)

// ObjectPutter is the part of the S3 API the client needs
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Options configures an S3-compatible object storage client
type Options struct {
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Endpoint        string
	Region          string
	// UsePathStyle is required by most non-AWS S3 implementations (MinIO, Supabase Storage)
	UsePathStyle bool
}

// Client uploads objects to a single bucket
type Client struct {
	api    ObjectPutter
	bucket string
	retry  retry.Config
}

// NewClient builds an S3 client with static credentials
func NewClient(opts Options) (*Client, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}
	if opts.Region == "" {
		opts.Region = "us-east-1"
	}

	s3Opts := s3.Options{
		Region:       opts.Region,
		UsePathStyle: opts.UsePathStyle,
		Credentials:  credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
	}
	if opts.Endpoint != "" {
		s3Opts.BaseEndpoint = aws.String(strings.TrimRight(opts.Endpoint, "/"))
	}

	logger.Info("Object storage client initialized",
		zap.String("bucket", opts.Bucket),
		zap.String("endpoint", opts.Endpoint),
		zap.String("region", opts.Region),
	)

	return NewClientWithAPI(s3.New(s3Opts), opts.Bucket), nil
}

// NewClientWithAPI wraps an existing S3 API implementation
func NewClientWithAPI(api ObjectPutter, bucket string) *Client {
	return &Client{api: api, bucket: bucket, retry: retry.StorageConfig()}
}

// Upload stores body under key and returns the s3:// location of the object
func (c *Client) Upload(ctx context.Context, key, contentType string, body []byte) (string, error) {
	start := time.Now()
	const operation = "putObject"

	err := retry.Do(ctx, c.retry, "storage."+operation, func() error {
		_, putErr := c.api.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(c.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(body),
			ContentType: aws.String(contentType),
		})
		return putErr
	})

	duration := metrics.MeasureDuration(start)
	if err != nil {
		metrics.StorageRequestDuration.WithLabelValues(operation, "error").Observe(duration)
		metrics.StorageRequestTotal.WithLabelValues(operation, "error").Inc()
		logger.LogAPICall(ctx, "object_storage", operation, "error", duration,
			zap.Error(err),
			zap.String("key", key),
		)
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	metrics.StorageRequestDuration.WithLabelValues(operation, "success").Observe(duration)
	metrics.StorageRequestTotal.WithLabelValues(operation, "success").Inc()
	logger.LogAPICall(ctx, "object_storage", operation, "success", duration,
		zap.String("key", key),
		zap.Int("size_bytes", len(body)),
	)

	return fmt.Sprintf("s3://%s/%s", c.bucket, key), nil
}
