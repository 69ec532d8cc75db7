package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/michalwarchol/slash-api/config"
)

// Bucket selects one of the two configured S3 buckets.
type Bucket int

const (
	// UtilityBucket keeps thumbnails, avatars and course materials.
	UtilityBucket Bucket = iota
	// VideoBucket keeps the raw video objects.
	VideoBucket
)

// LinkResolver turns opaque storage keys into time-limited signed URLs.
// Services store only keys; resolving happens once per response assembly.
type LinkResolver interface {
	ResolveLink(ctx context.Context, bucket Bucket, key string) string
}

// ObjectStore is the full storage contract: uploads, deletes, reads and
// signed-link resolution.
type ObjectStore interface {
	LinkResolver
	Upload(ctx context.Context, bucket Bucket, key string, body io.Reader) error
	Delete(ctx context.Context, bucket Bucket, key string) error
	Download(ctx context.Context, bucket Bucket, key string) (io.ReadCloser, error)
}

// S3Store implements ObjectStore on top of AWS S3.
type S3Store struct {
	client        *s3.Client
	presign       *s3.PresignClient
	utilityBucket string
	videoBucket   string
	linkExpires   time.Duration
	logger        *zap.Logger
}

// NewS3Store builds the S3 client from the default credential chain.
func NewS3Store(ctx context.Context, cfg *config.StorageConfig, logger *zap.Logger) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)

	expires := cfg.SignedLinkExpires
	if expires <= 0 {
		expires = 15 * time.Minute
	}

	return &S3Store{
		client:        client,
		presign:       s3.NewPresignClient(client),
		utilityBucket: cfg.UtilityBucket,
		videoBucket:   cfg.VideoBucket,
		linkExpires:   expires,
		logger:        logger,
	}, nil
}

func (s *S3Store) bucketName(b Bucket) string {
	if b == VideoBucket {
		return s.videoBucket
	}
	return s.utilityBucket
}

// ResolveLink returns a presigned GET URL for a key. An empty key resolves to
// an empty link; a signing failure is logged and degrades to an empty link so
// read paths never fail on link assembly alone.
func (s *S3Store) ResolveLink(ctx context.Context, bucket Bucket, key string) string {
	if key == "" {
		return ""
	}

	name := s.bucketName(bucket)
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &name,
		Key:    &key,
	}, s3.WithPresignExpires(s.linkExpires))
	if err != nil {
		s.logger.Warn("presign object failed", zap.String("key", key), zap.Error(err))
		return ""
	}

	return req.URL
}

// Upload stores an object.
func (s *S3Store) Upload(ctx context.Context, bucket Bucket, key string, body io.Reader) error {
	name := s.bucketName(bucket)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &name,
		Key:    &key,
		Body:   body,
	})
	return err
}

// Delete removes an object.
func (s *S3Store) Delete(ctx context.Context, bucket Bucket, key string) error {
	name := s.bucketName(bucket)
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &name,
		Key:    &key,
	})
	return err
}

// Download opens an object for streaming.
func (s *S3Store) Download(ctx context.Context, bucket Bucket, key string) (io.ReadCloser, error) {
	name := s.bucketName(bucket)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &name,
		Key:    &key,
	})
	if err != nil {
		return nil, err
	}
	return out.Body, nil
}
