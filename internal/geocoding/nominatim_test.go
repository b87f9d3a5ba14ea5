package geocoding_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/UnknownOlympus/waypoint/internal/geocoding"
	"github.com/UnknownOlympus/waypoint/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// mockHTTPClient is a mock implementation of HTTPClient for testing.
type mockHTTPClient struct {
	doFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.doFunc(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}

func TestNominatimProvider_ReverseGeocode(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()
	unlimited := rate.NewLimiter(rate.Inf, 0)
	point := models.Coordinates{Latitude: 37.789, Longitude: -122.432}

	t.Run("successful reverse geocoding", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				// Verify request parameters
				assert.Equal(t, http.MethodGet, req.Method)
				assert.Contains(t, req.URL.String(), "nominatim.openstreetmap.org/reverse")
				assert.Equal(t, "json", req.URL.Query().Get("format"))
				assert.Equal(t, "37.789", req.URL.Query().Get("lat"))
				assert.Equal(t, "-122.432", req.URL.Query().Get("lon"))
				assert.Equal(
					t,
					"Waypoint/1.0 (https://github.com/UnknownOlympus/waypoint)",
					req.Header.Get("User-Agent"),
				)

				return jsonResponse(http.StatusOK, `{"display_name":"Fillmore Street, San Francisco"}`), nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, unlimited, logger)
		name, err := provider.ReverseGeocode(ctx, point)

		require.NoError(t, err)
		assert.Equal(t, "Fillmore Street, San Francisco", name)
	})

	t.Run("missing display name", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, `{"place_id":1}`), nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, unlimited, logger)
		name, err := provider.ReverseGeocode(ctx, point)

		require.ErrorIs(t, err, geocoding.ErrNominatimNoDisplayName)
		assert.Empty(t, name)
	})

	t.Run("unable to geocode", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, `{"error":"Unable to geocode"}`), nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, unlimited, logger)
		_, err := provider.ReverseGeocode(ctx, models.Coordinates{Latitude: 0, Longitude: -150})

		require.ErrorIs(t, err, geocoding.ErrNominatimNotFound)
		assert.Contains(t, err.Error(), "Unable to geocode")
	})

	t.Run("HTTP error status", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusTooManyRequests, `{"error":"Rate limit exceeded"}`), nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, unlimited, logger)
		_, err := provider.ReverseGeocode(ctx, point)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "nominatim API returned status 429")
	})

	t.Run("invalid JSON response", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, `invalid json`), nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, unlimited, logger)
		_, err := provider.ReverseGeocode(ctx, point)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode nominatim response")
	})

	t.Run("HTTP client returns error", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return nil, assert.AnError
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, unlimited, logger)
		_, err := provider.ReverseGeocode(ctx, point)

		require.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "failed to execute reverse geocoding request")
	})

	t.Run("context cancellation", func(t *testing.T) {
		newCtx, cancel := context.WithCancel(context.Background())
		cancel() // Cancel immediately

		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				return nil, req.Context().Err()
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, unlimited, logger)
		_, err := provider.ReverseGeocode(newCtx, point)

		require.Error(t, err)
	})
}

func TestNewNominatimProvider(t *testing.T) {
	provider := geocoding.NewNominatimProvider(0, slog.Default())

	require.NotNil(t, provider)
}
