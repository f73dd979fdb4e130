package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	aws_config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/config"
)

// IMediaStorage stores uploaded media and returns its public URL.
type IMediaStorage interface {
	PutObject(ctx context.Context, key, contentType string, body []byte) (string, error)
}

// s3PutAPI is the slice of the S3 client used here.
type s3PutAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// s3Storage implements IMediaStorage.
type s3Storage struct {
	cfg    *config.Config
	client s3PutAPI
}

// NewS3Storage creates a new S3 storage service.
func NewS3Storage(ctx context.Context, cfg *config.Config) (IMediaStorage, error) {
	if cfg.AwsS3Bucket == "" {
		return nil, fmt.Errorf("AWS_S3_BUCKET is not configured")
	}

	opts := []func(*aws_config.LoadOptions) error{aws_config.WithRegion(cfg.AwsRegion)}
	// Static keys when given, otherwise the default chain (env, profile, IAM role).
	if cfg.AwsAccessKeyID != "" {
		opts = append(opts, aws_config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AwsAccessKeyID,
			cfg.AwsSecretAccessKey,
			"",
		)))
	}

	awsCfg, err := aws_config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return newS3StorageWithClient(cfg, s3.NewFromConfig(awsCfg)), nil
}

func newS3StorageWithClient(cfg *config.Config, client s3PutAPI) *s3Storage {
	return &s3Storage{cfg: cfg, client: client}
}

// PutObject uploads body under key and returns the URL it is served from.
func (s *s3Storage) PutObject(ctx context.Context, key, contentType string, body []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.AwsS3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
		CacheControl:  aws.String("public, max-age=31536000"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s: %w", key, err)
	}

	zap.L().Debug("object uploaded", zap.String("key", key), zap.Int("bytes", len(body)))
	return s.PublicURL(key), nil
}

// PublicURL is IMAGE_BASE_URL/key when a CDN is configured, else the
// virtual-hosted S3 URL.
func (s *s3Storage) PublicURL(key string) string {
	if s.cfg.ImageBaseURL != "" {
		return strings.TrimRight(s.cfg.ImageBaseURL, "/") + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.AwsS3Bucket, s.cfg.AwsRegion, key)
}

// Unavailable is used when no media host is configured; every upload fails.
type Unavailable struct {
	Reason error
}

func (u Unavailable) PutObject(ctx context.Context, key, contentType string, body []byte) (string, error) {
	return "", fmt.Errorf("media storage unavailable: %w", u.Reason)
}
