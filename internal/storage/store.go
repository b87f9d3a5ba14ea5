// Package storage keeps the ordered list of saved locations in a single key-value slot.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/UnknownOlympus/waypoint/internal/metrics"
	"github.com/UnknownOlympus/waypoint/internal/models"
	"github.com/UnknownOlympus/waypoint/internal/repository"
)

// DefaultKey is the slot holding the saved locations.
const DefaultKey = "savedLocation"

// ErrStoreWrite is returned when the saved locations could not be persisted.
var ErrStoreWrite = errors.New("failed to write saved locations")

// LocationStore is an append-only sequence of LocationRecord persisted as one JSON array.
type LocationStore struct {
	kv      repository.KeyValue
	key     string
	log     *slog.Logger
	metrics *metrics.Metrics
	mu      sync.Mutex // serializes Append
}

// NewLocationStore creates a store over the given slot. An empty key selects DefaultKey.
func NewLocationStore(kv repository.KeyValue, key string, log *slog.Logger, metrics *metrics.Metrics) *LocationStore {
	if key == "" {
		key = DefaultKey
	}

	return &LocationStore{kv: kv, key: key, log: log, metrics: metrics}
}

// Load returns every saved record in save order. It never fails: a missing slot, a value that
// is not an array of records, and read errors all yield an empty sequence.
func (s *LocationStore) Load(ctx context.Context) []models.LocationRecord {
	raw, found, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.metrics.StoreErrors.WithLabelValues("load").Inc()
		s.log.ErrorContext(ctx, "Failed to read saved locations", "key", s.key, "error", err)
		return []models.LocationRecord{}
	}
	if !found {
		return []models.LocationRecord{}
	}

	records, err := decode(raw)
	if err != nil {
		s.log.WarnContext(ctx, "Saved locations are unreadable, treating as empty", "key", s.key, "error", err)
		return []models.LocationRecord{}
	}

	return records
}

// Append validates the record and persists it at the end of the sequence.
func (s *LocationStore) Append(ctx context.Context, record models.LocationRecord) error {
	if err := record.Coordinates().Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records := []models.LocationRecord{}
	raw, found, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.metrics.StoreErrors.WithLabelValues("append").Inc()
		return fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}
	if found {
		decoded, decodeErr := decode(raw)
		if decodeErr != nil {
			s.log.WarnContext(ctx, "Overwriting unreadable saved locations", "key", s.key, "error", decodeErr)
		} else {
			records = decoded
		}
	}

	records = append(records, record)
	data, err := json.Marshal(records)
	if err != nil {
		s.metrics.StoreErrors.WithLabelValues("append").Inc()
		return fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}

	if err = s.kv.Set(ctx, s.key, string(data)); err != nil {
		s.metrics.StoreErrors.WithLabelValues("append").Inc()
		return fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}

	s.metrics.SavedLocations.Inc()
	s.log.DebugContext(ctx, "Location saved", "name", record.Name, "total", len(records))

	return nil
}

// storedRecord mirrors models.LocationRecord with pointers so missing fields can be told apart.
type storedRecord struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Name      string   `json:"name"`
}

// decode parses a stored value. Anything but a JSON array of valid records is an error,
// including null, null elements and records without coordinates.
func decode(raw string) ([]models.LocationRecord, error) {
	var stored []*storedRecord
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, fmt.Errorf("failed to decode saved locations: %w", err)
	}
	if stored == nil {
		return nil, errors.New("saved locations are null")
	}

	records := make([]models.LocationRecord, 0, len(stored))
	for i, rec := range stored {
		if rec == nil {
			return nil, fmt.Errorf("saved location %d is null", i)
		}
		if rec.Latitude == nil || rec.Longitude == nil {
			return nil, fmt.Errorf("saved location %d has no coordinates", i)
		}
		record := models.LocationRecord{Latitude: *rec.Latitude, Longitude: *rec.Longitude, Name: rec.Name}
		if err := record.Coordinates().Validate(); err != nil {
			return nil, fmt.Errorf("saved location %d: %w", i, err)
		}
		records = append(records, record)
	}

	return records, nil
}
