package repository

import (
	"context"
	"errors"
)

// ErrUnsupportedBackend is returned by New for an unknown backend name.
var ErrUnsupportedBackend = errors.New("unsupported storage backend")

// KeyValue is a set of named string slots. Get reports found=false for a slot that was never set.
type KeyValue interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Pinger is implemented by backends that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}
