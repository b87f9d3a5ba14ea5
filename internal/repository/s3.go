package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrObjectNotFound is returned by ObjectAPI when the object does not exist.
var ErrObjectNotFound = errors.New("object not found")

const noSuchKey = "NoSuchKey"

// ObjectAPI is the object storage surface used by S3KV.
type ObjectAPI interface {
	GetObject(ctx context.Context, bucket, name string) ([]byte, error)
	PutObject(ctx context.Context, bucket, name string, data []byte) error
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string) error
}

// S3Config holds the connection settings for an S3 compatible object store.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// S3KV stores each slot as a JSON object named "<prefix><key>.json" in a bucket.
type S3KV struct {
	api    ObjectAPI
	bucket string
	prefix string
	log    *slog.Logger
}

// NewS3KV creates an S3KV on top of the given object API.
func NewS3KV(api ObjectAPI, bucket, prefix string, log *slog.Logger) *S3KV {
	return &S3KV{api: api, bucket: bucket, prefix: prefix, log: log}
}

// NewMinioObjects connects a MinIO client to the configured endpoint.
func NewMinioObjects(cfg S3Config) (*MinioObjects, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &MinioObjects{client: client}, nil
}

func (s *S3KV) objectName(key string) string {
	return s.prefix + key + ".json"
}

// Get reads the slot object. A missing object reads as unset.
func (s *S3KV) Get(ctx context.Context, key string) (string, bool, error) {
	data, err := s.api.GetObject(ctx, s.bucket, s.objectName(key))
	if errors.Is(err, ErrObjectNotFound) {
		s.log.DebugContext(ctx, "Slot object does not exist yet", "bucket", s.bucket, "key", key)
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read slot %q: %w", key, err)
	}

	return string(data), true, nil
}

// Set overwrites the slot object.
func (s *S3KV) Set(ctx context.Context, key, value string) error {
	if err := s.api.PutObject(ctx, s.bucket, s.objectName(key), []byte(value)); err != nil {
		return fmt.Errorf("failed to write slot %q: %w", key, err)
	}

	return nil
}

// Ping checks that the bucket is reachable and exists.
func (s *S3KV) Ping(ctx context.Context) error {
	exists, err := s.api.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		return fmt.Errorf("bucket %q does not exist", s.bucket)
	}

	return nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *S3KV) EnsureBucket(ctx context.Context) error {
	exists, err := s.api.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if exists {
		return nil
	}

	if err = s.api.MakeBucket(ctx, s.bucket); err != nil {
		return fmt.Errorf("failed to create bucket %q: %w", s.bucket, err)
	}
	s.log.InfoContext(ctx, "Bucket created", "bucket", s.bucket)

	return nil
}

// MinioObjects adapts *minio.Client to ObjectAPI.
type MinioObjects struct {
	client *minio.Client
}

// GetObject reads the whole object, ErrObjectNotFound when it does not exist.
func (m *MinioObjects) GetObject(ctx context.Context, bucket, name string) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, translateMinioError(err)
	}
	defer obj.Close()

	// minio fetches lazily, a missing object surfaces on the first read.
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, translateMinioError(err)
	}

	return data, nil
}

// PutObject uploads data as a JSON object.
func (m *MinioObjects) PutObject(ctx context.Context, bucket, name string, data []byte) error {
	_, err := m.client.PutObject(ctx, bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	return err
}

// BucketExists reports whether the bucket exists.
func (m *MinioObjects) BucketExists(ctx context.Context, bucket string) (bool, error) {
	return m.client.BucketExists(ctx, bucket)
}

// MakeBucket creates the bucket in the default region.
func (m *MinioObjects) MakeBucket(ctx context.Context, bucket string) error {
	return m.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{})
}

func translateMinioError(err error) error {
	if minio.ToErrorResponse(err).Code == noSuchKey {
		return ErrObjectNotFound
	}
	return err
}
