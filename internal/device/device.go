// Package device wraps the platform location services: the fine-location
// permission, the system settings entry point and one-shot position fixes.
package device

import (
	"context"
	"errors"
	"time"

	"github.com/UnknownOlympus/waypoint/internal/models"
)

// Errors returned by Locator.
var (
	ErrPermissionDenied    = errors.New("location permission denied")
	ErrPositionUnavailable = errors.New("position unavailable")
)

// PositionOptions configures a single position request.
type PositionOptions struct {
	HighAccuracy      bool          // Prefer GPS over coarse providers.
	Timeout           time.Duration // Upper bound for the source to answer.
	MaxCachedAge      time.Duration // A previous fix younger than this is reused.
	MinMovementMeters float64       // Fixes closer than this to the previous one are not new.
}

// DefaultPositionOptions returns a high accuracy request bounded to 15s that accepts
// a 10s old fix and ignores movements under 10m.
func DefaultPositionOptions() PositionOptions {
	const (
		timeout     = 15 * time.Second
		maxAge      = 10 * time.Second
		minMovement = 10
	)

	return PositionOptions{
		HighAccuracy:      true,
		Timeout:           timeout,
		MaxCachedAge:      maxAge,
		MinMovementMeters: minMovement,
	}
}

// Fix is a single reported device position.
type Fix struct {
	Coordinates models.Coordinates
	Accuracy    float64 // Radius in meters, zero when unknown.
	Timestamp   time.Time
}

// PositionSource produces one position fix per call.
type PositionSource interface {
	CurrentPosition(ctx context.Context, opts PositionOptions) (Fix, error)
}

// PermissionGate asks the platform for fine-location access.
type PermissionGate interface {
	RequestFineLocation(ctx context.Context) (bool, error)
}

// SettingsOpener offers the user a way to the system settings. It must not navigate by itself.
type SettingsOpener interface {
	OfferSettings(ctx context.Context)
}

// ImplicitPermission is the gate for platforms that do not require an explicit grant.
type ImplicitPermission struct{}

// RequestFineLocation always grants access.
func (ImplicitPermission) RequestFineLocation(context.Context) (bool, error) {
	return true, nil
}
