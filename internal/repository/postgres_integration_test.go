//go:build integration

package repository_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/waypoint/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

func TestPostgresKV_Integration(t *testing.T) {
	ctx := t.Context()
	logger := slog.Default()

	ctr, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("waypoint"),
		postgres.WithUsername("waypoint"),
		postgres.WithPassword("waypoint"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, ctr.Terminate(context.Background()))
	})

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, repository.Migrate(ctx, dsn, logger))
	// applying twice is a no-op
	require.NoError(t, repository.Migrate(ctx, dsn, logger))

	pool, err := repository.NewDatabase(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	kv := repository.NewPostgresKV(pool, logger)

	_, found, err := kv.Get(ctx, "savedLocation")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, kv.Set(ctx, "savedLocation", `[{"latitude":1,"longitude":2,"name":"A"}]`))
	require.NoError(t, kv.Set(ctx, "savedLocation", `[]`))

	value, found, err := kv.Get(ctx, "savedLocation")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[]`, value)

	require.NoError(t, kv.Ping(ctx))
}
