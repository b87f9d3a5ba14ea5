package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/UnknownOlympus/waypoint/internal/models"
)

// Overlay transition timings.
const (
	FadeIn  = 300 * time.Millisecond
	FadeOut = 100 * time.Millisecond
)

// Transition is an opacity animation of the info overlay.
type Transition struct {
	From, To float64
	Duration time.Duration
}

// BrowserView is what the saved locations screen renders after gaining focus.
type BrowserView struct {
	Empty         bool
	Message       string
	Markers       []models.LocationRecord
	InitialRegion models.Region
}

// Overlay is the info box shown for a selected marker.
type Overlay struct {
	Index      int
	Label      string
	Record     models.LocationRecord
	Transition Transition
	Camera     models.CameraMove
}

// SavedBrowser drives the saved locations screen.
type SavedBrowser struct {
	log    *slog.Logger
	loader LocationLoader

	mu      sync.Mutex
	markers []models.LocationRecord
	overlay *Overlay
}

// NewSavedBrowser creates a SavedBrowser reading from loader.
func NewSavedBrowser(log *slog.Logger, loader LocationLoader) *SavedBrowser {
	return &SavedBrowser{log: log, loader: loader}
}

// Focus reloads every saved location. It is called each time the screen becomes visible.
func (sb *SavedBrowser) Focus(ctx context.Context) BrowserView {
	records := sb.loader.Load(ctx)

	sb.mu.Lock()
	defer sb.mu.Unlock()

	sb.markers = records
	sb.overlay = nil

	if len(records) == 0 {
		return BrowserView{Empty: true, Message: MsgNoSaved, Markers: []models.LocationRecord{}, InitialRegion: models.DefaultRegion()}
	}

	sb.log.DebugContext(ctx, "Saved locations reloaded", "count", len(records))

	markers := make([]models.LocationRecord, len(records))
	copy(markers, records)

	return BrowserView{
		Markers:       markers,
		InitialRegion: models.OverviewRegion(records[0].Coordinates()),
	}
}

// SelectMarker opens the info overlay for the marker at index i and moves the camera to it.
func (sb *SavedBrowser) SelectMarker(i int) (Overlay, error) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if i < 0 || i >= len(sb.markers) {
		return Overlay{}, fmt.Errorf("%w: %d of %d", ErrNoMarker, i, len(sb.markers))
	}

	record := sb.markers[i]
	label := record.Name
	if label == "" {
		label = DefaultLabel
	}

	overlay := Overlay{
		Index:      i,
		Label:      label,
		Record:     record,
		Transition: Transition{From: 0, To: 1, Duration: FadeIn},
		Camera:     models.FocusOn(record.Coordinates()),
	}
	sb.overlay = &overlay

	return overlay, nil
}

// CloseOverlay hides the info overlay. Closing an already hidden overlay is a no-op transition.
func (sb *SavedBrowser) CloseOverlay() Transition {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.overlay == nil {
		return Transition{From: 0, To: 0}
	}
	sb.overlay = nil

	return Transition{From: 1, To: 0, Duration: FadeOut}
}

// Overlay returns the overlay currently shown, if any.
func (sb *SavedBrowser) Overlay() (Overlay, bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.overlay == nil {
		return Overlay{}, false
	}

	return *sb.overlay, true
}
