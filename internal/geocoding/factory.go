package geocoding

import (
	"errors"
	"fmt"
	"log/slog"

	"googlemaps.github.io/maps"
)

// ProviderType names a reverse geocoding backend used to label map taps.
type ProviderType string

const (
	ProviderTypeGoogle    ProviderType = "google"
	ProviderTypeNominatim ProviderType = "nominatim"
	ProviderTypeVisicom   ProviderType = "visicom"
)

const (
	// nominatimMaxRate is the public instance usage policy: one lookup per second.
	nominatimMaxRate = 1
	visicomRate      = 5
)

var (
	// ErrUnsupportedProvider is returned for a provider type without a constructor.
	ErrUnsupportedProvider = errors.New("unsupported provider type")
	// ErrMissingAPIKey is returned when a keyed provider is configured without a key.
	ErrMissingAPIKey = errors.New("API key is required")
)

// ProviderConfig selects the backend the place resolver asks for names.
type ProviderConfig struct {
	Type      ProviderType
	APIKey    string // google and visicom only
	RateLimit int    // lookups per second, 0 picks the backend default
	Logger    *slog.Logger
}

type providerBuilder struct {
	needsKey bool
	build    func(ProviderConfig) (Provider, error)
}

var builders = map[ProviderType]providerBuilder{
	ProviderTypeGoogle:    {needsKey: true, build: buildGoogle},
	ProviderTypeNominatim: {build: buildNominatim},
	ProviderTypeVisicom:   {needsKey: true, build: buildVisicom},
}

// NewProvider builds the reverse geocoder named by config.Type.
func NewProvider(config ProviderConfig) (Provider, error) {
	builder, ok := builders[config.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, config.Type)
	}
	if builder.needsKey && config.APIKey == "" {
		return nil, fmt.Errorf("%w for %s provider", ErrMissingAPIKey, config.Type)
	}

	return builder.build(config)
}

func buildGoogle(config ProviderConfig) (Provider, error) {
	opts := []maps.ClientOption{maps.WithAPIKey(config.APIKey)}
	if config.RateLimit > 0 {
		opts = append(opts, maps.WithRateLimit(config.RateLimit))
	}

	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return NewGoogleProvider(client, config.Logger), nil
}

func buildNominatim(config ProviderConfig) (Provider, error) {
	limit := config.RateLimit
	if limit <= 0 || limit > nominatimMaxRate {
		limit = nominatimMaxRate
	}

	return NewNominatimProvider(limit, config.Logger), nil
}

func buildVisicom(config ProviderConfig) (Provider, error) {
	limit := config.RateLimit
	if limit <= 0 {
		limit = visicomRate
		config.Logger.Warn("Visicom rate limit not set, using default", "value", limit)
	}

	return NewVisicomProvider(config.APIKey, limit, config.Logger), nil
}
