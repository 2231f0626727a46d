package filestore

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// MinioOptions configure the S3-compatible resume bucket
type MinioOptions struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinioStore keeps resumes in an S3-compatible bucket
type MinioStore struct {
	client *minio.Client
	bucket string
	logger *zap.Logger
}

// NewMinioStore creates the client and makes sure the bucket exists
func NewMinioStore(ctx context.Context, opts MinioOptions, logger *zap.Logger) (*MinioStore, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	s := &MinioStore{client: client, bucket: opts.Bucket, logger: logger}
	if err := s.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *MinioStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	s.logger.Info("Created resume bucket", zap.String("bucket", s.bucket))
	return nil
}

// Save uploads data as resumes/<uuid>/<name> and returns the object name
func (s *MinioStore) Save(ctx context.Context, filename string, data []byte) (string, error) {
	objectName := ObjectName(uuid.NewString(), filename)

	_, err := s.client.PutObject(ctx, s.bucket, objectName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: ContentType(filename)})
	if err != nil {
		return "", fmt.Errorf("failed to upload resume: %w", err)
	}

	s.logger.Debug("Resume uploaded", zap.String("bucket", s.bucket), zap.String("object", objectName))
	return objectName, nil
}

// ObjectName builds the object key of a stored resume
func ObjectName(id, filename string) string {
	return path.Join(ResumePrefix, id, SanitizeFilename(filename))
}
