package repository

import (
	"context"
	"fmt"
	"log/slog"
)

// Backend names accepted by New.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendS3       = "s3"
)

// BackendConfig selects and configures a slot backend.
type BackendConfig struct {
	Backend  string
	FilePath string
	// PostgresDSN is used by the postgres backend. Migrations are applied before the pool is opened.
	PostgresDSN string
	S3          S3Config
	Logger      *slog.Logger
}

// New creates the KeyValue backend named in cfg. The returned close function releases
// backend resources and is never nil.
func New(ctx context.Context, cfg BackendConfig) (KeyValue, func(), error) {
	noop := func() {}

	switch cfg.Backend {
	case BackendMemory:
		return NewMemoryKV(), noop, nil
	case BackendFile:
		return NewFileKV(cfg.FilePath, cfg.Logger), noop, nil
	case BackendPostgres:
		if err := Migrate(ctx, cfg.PostgresDSN, cfg.Logger); err != nil {
			return nil, noop, err
		}
		pool, err := NewDatabase(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, noop, err
		}
		return NewPostgresKV(pool, cfg.Logger), pool.Close, nil
	case BackendS3:
		objects, err := NewMinioObjects(cfg.S3)
		if err != nil {
			return nil, noop, err
		}
		kv := NewS3KV(objects, cfg.S3.Bucket, "", cfg.Logger)
		if err = kv.EnsureBucket(ctx); err != nil {
			return nil, noop, err
		}
		return kv, noop, nil
	default:
		return nil, noop, fmt.Errorf("%w: %s", ErrUnsupportedBackend, cfg.Backend)
	}
}
