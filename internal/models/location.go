package models

// LocationRecord is a saved point together with its human-readable label.
// Records are never modified after they have been persisted.
type LocationRecord struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name"`
}

// Coordinates returns the point of the record.
func (r LocationRecord) Coordinates() Coordinates {
	return Coordinates{Latitude: r.Latitude, Longitude: r.Longitude}
}

// NewLocationRecord builds a record for the given point and label.
func NewLocationRecord(coords Coordinates, name string) LocationRecord {
	return LocationRecord{Latitude: coords.Latitude, Longitude: coords.Longitude, Name: name}
}
