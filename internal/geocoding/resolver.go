package geocoding

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/UnknownOlympus/waypoint/internal/metrics"
	"github.com/UnknownOlympus/waypoint/internal/models"
)

// PlaceResolver turns coordinates into a label for the map. It never fails:
// every error path degrades to FallbackName.
type PlaceResolver struct {
	provider     Provider         // Reverse geocoding provider
	providerName string           // Name of the provider for metrics labeling
	metrics      *metrics.Metrics // Metrics for tracking resolver performance
	log          *slog.Logger
	timeout      time.Duration // Upper bound for a single lookup, zero means none
}

// NewPlaceResolver creates a PlaceResolver on top of the given provider.
func NewPlaceResolver(
	log *slog.Logger,
	provider Provider,
	providerName string,
	metrics *metrics.Metrics,
	timeout time.Duration,
) *PlaceResolver {
	return &PlaceResolver{
		provider:     provider,
		providerName: providerName,
		metrics:      metrics,
		log:          log,
		timeout:      timeout,
	}
}

// FallbackName is the label used when a point cannot be resolved, e.g. "Location (37.789, -122.432)".
func FallbackName(coords models.Coordinates) string {
	return fmt.Sprintf("Location (%.3f, %.3f)", coords.Latitude, coords.Longitude)
}

// ResolveName returns the place name of the point or its FallbackName.
func (pr *PlaceResolver) ResolveName(ctx context.Context, coords models.Coordinates) string {
	if pr.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, pr.timeout)
		defer cancel()
	}

	startTime := time.Now()
	name, err := pr.provider.ReverseGeocode(ctx, coords)
	pr.metrics.RequestSeconds.WithLabelValues(pr.providerName).Observe(time.Since(startTime).Seconds())

	if err != nil {
		pr.metrics.GeocodeRequests.WithLabelValues(pr.providerName, "failure").Inc()
		pr.metrics.FallbackNames.Inc()
		pr.log.WarnContext(ctx, "Failed to resolve place name, using fallback",
			"lat", coords.Latitude,
			"lon", coords.Longitude,
			"error", err,
		)
		return FallbackName(coords)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		pr.metrics.GeocodeRequests.WithLabelValues(pr.providerName, "empty").Inc()
		pr.metrics.FallbackNames.Inc()
		return FallbackName(coords)
	}

	pr.metrics.GeocodeRequests.WithLabelValues(pr.providerName, "success").Inc()
	pr.log.DebugContext(ctx, "Resolved place name", "lat", coords.Latitude, "lon", coords.Longitude, "name", name)

	return name
}
