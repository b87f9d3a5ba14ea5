// Package service holds the UI-agnostic controllers behind the map and saved locations screens.
package service

import (
	"context"
	"errors"

	"github.com/UnknownOlympus/waypoint/internal/models"
)

// Notice messages shown to the user.
const (
	MsgNoSelection   = "No location selected to save!"
	MsgSaved         = "Location saved successfully!"
	MsgSaveFailed    = "Failed to save location"
	MsgNoSaved       = "No saved locations available"
	MsgPermissionReq = "Location permission is required to use this feature."
	DefaultLabel     = "Saved Location"
)

var (
	// ErrNoSelection is returned by Save when nothing has been tapped yet.
	ErrNoSelection = errors.New("no location selected")
	// ErrNoMarker is returned by SelectMarker for an index outside of the current markers.
	ErrNoMarker = errors.New("no such marker")
)

// Locator provides the current device position.
type Locator interface {
	RequestCurrentLocation(ctx context.Context) (models.Coordinates, error)
}

// NameResolver turns a point into a label. It never fails.
type NameResolver interface {
	ResolveName(ctx context.Context, coords models.Coordinates) string
}

// LocationAppender persists a new saved location.
type LocationAppender interface {
	Append(ctx context.Context, record models.LocationRecord) error
}

// LocationLoader reads every saved location in save order.
type LocationLoader interface {
	Load(ctx context.Context) []models.LocationRecord
}

// Notifier shows a notice to the user.
type Notifier interface {
	Notify(ctx context.Context, notice models.Notice)
}

// SettingsOpener offers to open the system settings.
type SettingsOpener interface {
	OfferSettings(ctx context.Context)
}
