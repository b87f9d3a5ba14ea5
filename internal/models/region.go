package models

import "time"

// Camera constants used by the map screens.
const (
	OverviewLatitudeDelta  = 0.0922
	OverviewLongitudeDelta = 0.0421
	FocusDelta             = 0.01
	FocusAnimation         = time.Second
)

// DefaultCenter is where the map camera starts before a position fix is known.
var DefaultCenter = Coordinates{Latitude: 37.78825, Longitude: -122.4324}

// Region is a map viewport: a center point and the visible span in degrees.
type Region struct {
	Center         Coordinates
	LatitudeDelta  float64
	LongitudeDelta float64
}

// CameraMove is a transition of the map camera to a region. A zero Duration is a jump.
type CameraMove struct {
	Region   Region
	Duration time.Duration
}

// DefaultRegion returns the overview region around DefaultCenter.
func DefaultRegion() Region {
	return OverviewRegion(DefaultCenter)
}

// OverviewRegion returns a wide region centered on the given point.
func OverviewRegion(center Coordinates) Region {
	return Region{Center: center, LatitudeDelta: OverviewLatitudeDelta, LongitudeDelta: OverviewLongitudeDelta}
}

// FocusOn returns the animated camera move used to zoom onto a single point.
func FocusOn(center Coordinates) CameraMove {
	return CameraMove{
		Region:   Region{Center: center, LatitudeDelta: FocusDelta, LongitudeDelta: FocusDelta},
		Duration: FocusAnimation,
	}
}
