package repository_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/waypoint/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjects struct {
	objects   map[string][]byte
	getErr    error
	putErr    error
	bucketErr error
	noBucket  bool
	makeErr   error
	made      []string
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: make(map[string][]byte)}
}

func (f *fakeObjects) GetObject(_ context.Context, bucket, name string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[bucket+"/"+name]
	if !ok {
		return nil, repository.ErrObjectNotFound
	}
	return data, nil
}

func (f *fakeObjects) PutObject(_ context.Context, bucket, name string, data []byte) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.objects[bucket+"/"+name] = data
	return nil
}

func (f *fakeObjects) BucketExists(context.Context, string) (bool, error) {
	return !f.noBucket, f.bucketErr
}

func (f *fakeObjects) MakeBucket(_ context.Context, bucket string) error {
	if f.makeErr != nil {
		return f.makeErr
	}
	f.made = append(f.made, bucket)
	f.noBucket = false
	return nil
}

func TestS3KV(t *testing.T) {
	ctx := t.Context()
	logger := slog.Default()

	t.Run("missing object reads as unset", func(t *testing.T) {
		kv := repository.NewS3KV(newFakeObjects(), "waypoint", "", logger)

		value, found, err := kv.Get(ctx, "savedLocation")

		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, value)
	})

	t.Run("set stores one object per slot", func(t *testing.T) {
		objects := newFakeObjects()
		kv := repository.NewS3KV(objects, "waypoint", "slots/", logger)

		require.NoError(t, kv.Set(ctx, "savedLocation", `[]`))

		assert.Contains(t, objects.objects, "waypoint/slots/savedLocation.json")
		value, found, err := kv.Get(ctx, "savedLocation")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, `[]`, value)
	})

	t.Run("read error", func(t *testing.T) {
		objects := newFakeObjects()
		objects.getErr = assert.AnError
		kv := repository.NewS3KV(objects, "waypoint", "", logger)

		_, _, err := kv.Get(ctx, "savedLocation")

		require.ErrorIs(t, err, assert.AnError)
		require.ErrorContains(t, err, "failed to read slot")
	})

	t.Run("write error", func(t *testing.T) {
		objects := newFakeObjects()
		objects.putErr = assert.AnError
		kv := repository.NewS3KV(objects, "waypoint", "", logger)

		err := kv.Set(ctx, "savedLocation", `[]`)

		require.ErrorIs(t, err, assert.AnError)
		require.ErrorContains(t, err, "failed to write slot")
	})

	t.Run("ping", func(t *testing.T) {
		objects := newFakeObjects()
		kv := repository.NewS3KV(objects, "waypoint", "", logger)
		require.NoError(t, kv.Ping(ctx))

		objects.noBucket = true
		require.ErrorContains(t, kv.Ping(ctx), `bucket "waypoint" does not exist`)

		objects.bucketErr = assert.AnError
		require.ErrorIs(t, kv.Ping(ctx), assert.AnError)
	})

	t.Run("ensure bucket", func(t *testing.T) {
		objects := newFakeObjects()
		kv := repository.NewS3KV(objects, "waypoint", "", logger)

		require.NoError(t, kv.EnsureBucket(ctx))
		assert.Empty(t, objects.made, "existing bucket is left alone")

		objects.noBucket = true
		require.NoError(t, kv.EnsureBucket(ctx))
		assert.Equal(t, []string{"waypoint"}, objects.made)

		objects.noBucket = true
		objects.makeErr = assert.AnError
		require.ErrorIs(t, kv.EnsureBucket(ctx), assert.AnError)
	})
}

func TestNew(t *testing.T) {
	ctx := t.Context()

	t.Run("memory", func(t *testing.T) {
		kv, closeFn, err := repository.New(ctx, repository.BackendConfig{Backend: repository.BackendMemory})
		require.NoError(t, err)
		defer closeFn()
		assert.IsType(t, &repository.MemoryKV{}, kv)
	})

	t.Run("file", func(t *testing.T) {
		kv, closeFn, err := repository.New(ctx, repository.BackendConfig{
			Backend:  repository.BackendFile,
			FilePath: "waypoint.json",
			Logger:   slog.Default(),
		})
		require.NoError(t, err)
		defer closeFn()
		assert.IsType(t, &repository.FileKV{}, kv)
	})

	t.Run("unsupported", func(t *testing.T) {
		kv, closeFn, err := repository.New(ctx, repository.BackendConfig{Backend: "sqlite"})
		require.ErrorIs(t, err, repository.ErrUnsupportedBackend)
		assert.Nil(t, kv)
		assert.NotNil(t, closeFn)
	})
}
