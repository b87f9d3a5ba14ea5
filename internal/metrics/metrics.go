package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	GeocodeRequests *prometheus.CounterVec
	RequestSeconds  *prometheus.HistogramVec
	FallbackNames   prometheus.Counter
	StaleSelections prometheus.Counter
	SavedLocations  prometheus.Counter
	StoreErrors     *prometheus.CounterVec
	LocationFixes   *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		GeocodeRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "waypoint_geocode_requests_total",
			Help: "Total number of reverse geocoding requests by provider and outcome.",
		}, []string{"provider", "status"}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "waypoint_geocode_request_duration_seconds",
			Help:    "Duration of requests to the reverse geocoding provider API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		FallbackNames: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "waypoint_geocode_fallback_names_total",
			Help: "Total number of place names replaced by the coordinate fallback.",
		}),
		StaleSelections: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "waypoint_stale_selections_total",
			Help: "Total number of resolved map taps discarded because a newer tap superseded them.",
		}),
		SavedLocations: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "waypoint_saved_locations_total",
			Help: "Total number of locations appended to the store.",
		}),
		StoreErrors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "waypoint_store_errors_total",
			Help: "Total number of location store failures by operation.",
		}, []string{"op"}),
		LocationFixes: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "waypoint_location_fixes_total",
			Help: "Total number of current location requests by outcome.",
		}, []string{"outcome"}),
	}
}
