package main

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/UnknownOlympus/waypoint/internal/config"
	"github.com/UnknownOlympus/waypoint/internal/device"
	"github.com/UnknownOlympus/waypoint/internal/models"
	"github.com/UnknownOlympus/waypoint/internal/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type denyAll struct {
	device.PermissionGate
}

func TestPermissionGate(t *testing.T) {
	prompt := denyAll{}

	gate, err := permissionGate("implicit", prompt)
	require.NoError(t, err)
	assert.IsType(t, device.ImplicitPermission{}, gate)

	gate, err = permissionGate("prompt", prompt)
	require.NoError(t, err)
	assert.Equal(t, prompt, gate)

	_, err = permissionGate("ask-later", prompt)
	require.ErrorContains(t, err, "unknown permission mode")
}

func TestPositionSource(t *testing.T) {
	source, err := positionSource(config.DeviceConfig{Source: "static", StaticLat: 1, StaticLon: 2}, slog.Default())
	require.NoError(t, err)
	assert.Equal(t, device.StaticSource{Coordinates: models.Coordinates{Latitude: 1, Longitude: 2}}, source)

	source, err = positionSource(config.DeviceConfig{Source: "ip"}, slog.Default())
	require.NoError(t, err)
	assert.IsType(t, &device.IPSource{}, source)

	_, err = positionSource(config.DeviceConfig{Source: "gps"}, slog.Default())
	require.ErrorContains(t, err, "unknown position source")
}

func TestSetupLogger(t *testing.T) {
	for _, env := range []string{envLocal, envDev, envProd, "unknown"} {
		assert.NotNil(t, setupLogger(env), env)
	}
	assert.True(t, setupLogger(envLocal).Enabled(t.Context(), slog.LevelDebug))
	assert.False(t, setupLogger(envProd).Enabled(t.Context(), slog.LevelInfo))
}

func testConfig() *config.Config {
	return &config.Config{
		Env:      envLocal,
		Provider: config.ProviderConfig{Type: "nominatim", RateLimit: 1},
		Storage:  config.StorageConfig{Backend: repository.BackendMemory},
		Device:   config.DeviceConfig{Permission: "implicit", Source: "static", StaticLat: 50.45, StaticLon: 30.52},
	}
}

func TestRun(t *testing.T) {
	t.Run("serves the console until quit", func(t *testing.T) {
		out := &bytes.Buffer{}

		err := run(t.Context(), testConfig(), slog.Default(), prometheus.NewRegistry(), strings.NewReader("quit\n"), out)

		require.NoError(t, err)
		assert.Contains(t, out.String(), "You are here: (50.45000, 30.52000)")
	})

	t.Run("setup errors are returned", func(t *testing.T) {
		cases := map[string]func(*config.Config){
			"failed to open sqlite storage":           func(c *config.Config) { c.Storage.Backend = "sqlite" },
			"failed to create geocoding provider":     func(c *config.Config) { c.Provider.Type = "bing" },
			"failed to configure location permission": func(c *config.Config) { c.Device.Permission = "later" },
			"failed to configure position source":     func(c *config.Config) { c.Device.Source = "gps" },
		}
		for want, mutate := range cases {
			cfg := testConfig()
			mutate(cfg)

			err := run(t.Context(), cfg, slog.Default(), prometheus.NewRegistry(), strings.NewReader(""), &bytes.Buffer{})

			require.ErrorContains(t, err, want)
		}
	})
}
