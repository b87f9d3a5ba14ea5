package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the waypoint application.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - Port: The port for the monitoring server, 0 disables it.
// - Provider: Reverse geocoding provider settings.
// - Storage: Where the saved locations are kept.
// - Device: How the current position is obtained.
// - Database: Configuration settings for the PostgreSQL storage backend.
// - S3: Configuration settings for the S3 storage backend.
type Config struct {
	Env      string         `yaml:"env"`         // Env is the current environment: local, development, production.
	Port     int            `yaml:"health.port"` // Port is the monitoring server port.
	Provider ProviderConfig `yaml:"provider"`    // Provider holds the reverse geocoding configuration.
	Storage  StorageConfig  `yaml:"storage"`     // Storage selects the saved locations backend.
	Device   DeviceConfig   `yaml:"device"`      // Device configures permission and position source.
	Database PostgresConfig `yaml:"postgres"`    // Database holds the postgres database configuration
	S3       S3Config       `yaml:"s3"`          // S3 holds the object storage configuration
}

// ProviderConfig describes the reverse geocoding provider.
type ProviderConfig struct {
	Type      string        `yaml:"type"`       // Type is one of google, nominatim, visicom.
	APIKey    string        `yaml:"api_key"`    // APIKey is required for google and visicom.
	RateLimit int           `yaml:"rate_limit"` // RateLimit is the number of requests per second.
	Timeout   time.Duration `yaml:"timeout"`    // Timeout bounds a single lookup.
}

// StorageConfig selects the key-value backend for saved locations.
type StorageConfig struct {
	Backend string `yaml:"backend"` // Backend is one of memory, file, postgres, s3.
	Path    string `yaml:"path"`    // Path is the slot file of the file backend.
	Key     string `yaml:"key"`     // Key is the slot holding the saved locations.
}

// DeviceConfig describes how permission is granted and where fixes come from.
type DeviceConfig struct {
	Permission string  `yaml:"permission"` // Permission is implicit or prompt.
	Source     string  `yaml:"source"`     // Source is static or ip.
	StaticLat  float64 `yaml:"static_lat"` // StaticLat is the latitude reported by the static source.
	StaticLon  float64 `yaml:"static_lon"` // StaticLon is the longitude reported by the static source.
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `yaml:"host"`                        // Host is the database server address.
	Port     string `yaml:"port"     env-default:"5432"` // Port is the database server port.
	User     string `yaml:"user"`                        // User is the database user.
	Password string `yaml:"password"`                    // Password is the database user's password.
	Name     string `yaml:"db_name"`                     // Name is the name of the database.
}

// S3Config holds the connection details of an S3 compatible object store.
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

var defaults = map[string]any{
	"WAYPOINT_ENV":                 "production",
	"WAYPOINT_HEALTH_PORT":         8080,
	"WAYPOINT_PROVIDER_TYPE":       "nominatim",
	"WAYPOINT_PROVIDER_KEY":        "",
	"WAYPOINT_PROVIDER_RATE_LIMIT": 1,
	"WAYPOINT_GEOCODE_TIMEOUT":     "10s",
	"WAYPOINT_STORAGE":             "file",
	"WAYPOINT_STORAGE_PATH":        "waypoint.json",
	"WAYPOINT_STORAGE_KEY":         "savedLocation",
	"WAYPOINT_PERMISSION":          "implicit",
	"WAYPOINT_POSITION_SOURCE":     "static",
	"WAYPOINT_STATIC_LAT":          37.78825,
	"WAYPOINT_STATIC_LON":          -122.4324,
	"DB_HOST":                      "",
	"DB_PORT":                      "5432",
	"DB_USERNAME":                  "",
	"DB_PASSWORD":                  "",
	"DB_NAME":                      "",
	"S3_ENDPOINT":                  "",
	"S3_ACCESS_KEY":                "",
	"S3_SECRET_KEY":                "",
	"S3_BUCKET":                    "waypoint",
	"S3_USE_SSL":                   false,
}

// MustLoad reads the configuration from the environment and an optional .env file.
// It panics when a value cannot be parsed.
func MustLoad() *Config {
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		_ = v.BindEnv(key)
		v.SetDefault(key, value)
	}

	healthPort, err := cast.ToIntE(v.Get("WAYPOINT_HEALTH_PORT"))
	if err != nil {
		panic("failed to parse port for monitoring server from configuration")
	}

	rateLimit, err := cast.ToIntE(v.Get("WAYPOINT_PROVIDER_RATE_LIMIT"))
	if err != nil || rateLimit < 1 {
		panic("failed to parse provider rate limit from configuration, must be a positive integer")
	}

	timeout, err := cast.ToDurationE(v.Get("WAYPOINT_GEOCODE_TIMEOUT"))
	if err != nil {
		panic("failed to parse geocode timeout from configuration")
	}

	staticLat, err := cast.ToFloat64E(v.Get("WAYPOINT_STATIC_LAT"))
	if err != nil {
		panic("failed to parse static latitude from configuration")
	}

	staticLon, err := cast.ToFloat64E(v.Get("WAYPOINT_STATIC_LON"))
	if err != nil {
		panic("failed to parse static longitude from configuration")
	}

	useSSL, err := cast.ToBoolE(v.Get("S3_USE_SSL"))
	if err != nil {
		panic("failed to parse S3_USE_SSL from configuration, must be a boolean")
	}

	return &Config{
		Env:  v.GetString("WAYPOINT_ENV"),
		Port: healthPort,
		Provider: ProviderConfig{
			Type:      strings.ToLower(v.GetString("WAYPOINT_PROVIDER_TYPE")),
			APIKey:    v.GetString("WAYPOINT_PROVIDER_KEY"),
			RateLimit: rateLimit,
			Timeout:   timeout,
		},
		Storage: StorageConfig{
			Backend: strings.ToLower(v.GetString("WAYPOINT_STORAGE")),
			Path:    v.GetString("WAYPOINT_STORAGE_PATH"),
			Key:     v.GetString("WAYPOINT_STORAGE_KEY"),
		},
		Device: DeviceConfig{
			Permission: strings.ToLower(v.GetString("WAYPOINT_PERMISSION")),
			Source:     strings.ToLower(v.GetString("WAYPOINT_POSITION_SOURCE")),
			StaticLat:  staticLat,
			StaticLon:  staticLon,
		},
		Database: PostgresConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USERNAME"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
		},
		S3: S3Config{
			Endpoint:  v.GetString("S3_ENDPOINT"),
			AccessKey: v.GetString("S3_ACCESS_KEY"),
			SecretKey: v.GetString("S3_SECRET_KEY"),
			Bucket:    v.GetString("S3_BUCKET"),
			UseSSL:    useSSL,
		},
	}
}
