package device

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/UnknownOlympus/waypoint/internal/models"
)

// IPGeolocationURL is the endpoint used by IPSource.
const IPGeolocationURL = "http://ip-api.com/json/?fields=status,message,lat,lon"

// ErrIPLookupFailed is returned when the IP geolocation service cannot place the caller.
var ErrIPLookupFailed = errors.New("ip geolocation lookup failed")

// HTTPClient defines the interface for making HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// StaticSource always reports the same fix. It stands in for a GPS receiver on hosts without one.
type StaticSource struct {
	Coordinates models.Coordinates
}

// CurrentPosition returns the configured point stamped with the current time.
func (s StaticSource) CurrentPosition(ctx context.Context, _ PositionOptions) (Fix, error) {
	if err := ctx.Err(); err != nil {
		return Fix{}, err
	}

	return Fix{Coordinates: s.Coordinates, Timestamp: time.Now()}, nil
}

// IPSource estimates the position from the public IP address of the host.
// The estimate is city level, so HighAccuracy cannot be honoured.
type IPSource struct {
	client HTTPClient
	url    string
	log    *slog.Logger
}

type ipResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// NewIPSource creates an IPSource using the given HTTP client.
func NewIPSource(client HTTPClient, log *slog.Logger) *IPSource {
	return &IPSource{client: client, url: IPGeolocationURL, log: log}
}

// CurrentPosition asks the IP geolocation service for the position of the host.
func (s *IPSource) CurrentPosition(ctx context.Context, opts PositionOptions) (Fix, error) {
	if opts.HighAccuracy {
		s.log.DebugContext(ctx, "High accuracy requested, IP geolocation is city level only")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return Fix{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return Fix{}, fmt.Errorf("failed to execute ip geolocation request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Fix{}, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return Fix{}, fmt.Errorf("ip geolocation returned status %d: %s", resp.StatusCode, string(body))
	}

	var result ipResponse
	if err = json.Unmarshal(body, &result); err != nil {
		return Fix{}, fmt.Errorf("failed to decode ip geolocation response: %w", err)
	}

	if result.Status != "success" {
		return Fix{}, fmt.Errorf("%w: %s", ErrIPLookupFailed, result.Message)
	}

	return Fix{
		Coordinates: models.Coordinates{Latitude: result.Lat, Longitude: result.Lon},
		Timestamp:   time.Now(),
	}, nil
}
