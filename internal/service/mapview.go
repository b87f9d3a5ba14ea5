package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/UnknownOlympus/waypoint/internal/device"
	"github.com/UnknownOlympus/waypoint/internal/metrics"
	"github.com/UnknownOlympus/waypoint/internal/models"
)

// Phase is the progress of the current location request.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLocating
	PhaseLocated
	PhaseLocationFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLocating:
		return "locating"
	case PhaseLocated:
		return "located"
	case PhaseLocationFailed:
		return "location failed"
	default:
		return "unknown"
	}
}

// ViewMode selects what the map screen renders.
type ViewMode int

const (
	// ViewMap renders the map with its markers.
	ViewMap ViewMode = iota
	// ViewPermissionExplainer replaces the map after the location permission was denied.
	ViewPermissionExplainer
)

// MapState is the state owned by MapController.
type MapState struct {
	Phase Phase
	// PermissionGranted is nil until the permission request has been answered.
	PermissionGranted *bool
	Current           *models.Coordinates
	Camera            models.CameraMove
	Selection         *models.LocationRecord
	// Resolving is set while the name of the latest tap is being looked up.
	Resolving bool
}

// MapView is the render model of the map screen.
type MapView struct {
	Mode    ViewMode
	Message string
	Camera  models.CameraMove
	Current *models.Coordinates
	// Marker is the selected point with its label, nil without a selection.
	Marker  *models.LocationRecord
	CanSave bool
}

// MapController drives the map screen: locating the device, tap to select and saving.
// It is safe for concurrent use. I/O never runs under the state lock.
type MapController struct {
	log      *slog.Logger
	locator  Locator
	resolver NameResolver
	store    LocationAppender
	notifier Notifier
	settings SettingsOpener
	metrics  *metrics.Metrics

	mu        sync.Mutex
	state     MapState
	tapSeq    uint64
	cancelTap context.CancelFunc
	closed    bool

	lifecycle context.Context
	teardown  context.CancelFunc
}

// NewMapController creates a controller in the Idle phase with the camera on the default region.
func NewMapController(
	log *slog.Logger,
	locator Locator,
	resolver NameResolver,
	store LocationAppender,
	notifier Notifier,
	settings SettingsOpener,
	metrics *metrics.Metrics,
) *MapController {
	lifecycle, teardown := context.WithCancel(context.Background())

	return &MapController{
		log:       log,
		locator:   locator,
		resolver:  resolver,
		store:     store,
		notifier:  notifier,
		settings:  settings,
		metrics:   metrics,
		state:     MapState{Phase: PhaseIdle, Camera: models.CameraMove{Region: models.DefaultRegion()}},
		lifecycle: lifecycle,
		teardown:  teardown,
	}
}

// bind derives a context that is also cancelled by Close.
func (mc *MapController) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(mc.lifecycle, cancel)

	return ctx, func() {
		stop()
		cancel()
	}
}

// Mount requests the current location and recenters the camera on success. On failure the
// camera stays on the default region. A permission denial also switches the view to the
// permission explainer. The error is returned for the caller's information only.
func (mc *MapController) Mount(ctx context.Context) error {
	mc.mu.Lock()
	if mc.closed {
		mc.mu.Unlock()
		return context.Canceled
	}
	mc.state.Phase = PhaseLocating
	mc.mu.Unlock()

	locCtx, cancel := mc.bind(ctx)
	defer cancel()

	coords, err := mc.locator.RequestCurrentLocation(locCtx)

	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.closed {
		mc.log.DebugContext(ctx, "Controller closed, dropping location result")
		return context.Canceled
	}

	if err != nil {
		mc.state.Phase = PhaseLocationFailed
		if errors.Is(err, device.ErrPermissionDenied) {
			mc.state.PermissionGranted = boolPtr(false)
			mc.log.InfoContext(ctx, "Location permission denied")
		} else {
			mc.log.WarnContext(ctx, "Failed to get current location, staying on default region", "error", err)
		}
		return err
	}

	mc.state.Phase = PhaseLocated
	mc.state.PermissionGranted = boolPtr(true)
	mc.state.Current = &coords
	mc.state.Camera = models.FocusOn(coords)
	mc.log.DebugContext(ctx, "Camera recentered on current location", "lat", coords.Latitude, "lon", coords.Longitude)

	return nil
}

// Tap selects the point and resolves its label. Every tap supersedes the previous one: the
// earlier lookup is cancelled and its result discarded. applied reports whether the returned
// record became the selection.
func (mc *MapController) Tap(ctx context.Context, coords models.Coordinates) (models.LocationRecord, bool) {
	if err := coords.Validate(); err != nil {
		mc.log.WarnContext(ctx, "Ignoring tap outside of the map", "error", err)
		return models.LocationRecord{}, false
	}

	mc.mu.Lock()
	if mc.closed {
		mc.mu.Unlock()
		return models.LocationRecord{}, false
	}
	if mc.cancelTap != nil {
		mc.cancelTap()
	}
	mc.tapSeq++
	seq := mc.tapSeq
	tapCtx, cancel := mc.bind(ctx)
	mc.cancelTap = cancel
	mc.state.Resolving = true
	mc.mu.Unlock()

	defer cancel()

	record := models.NewLocationRecord(coords, mc.resolver.ResolveName(tapCtx, coords))

	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.closed {
		mc.log.DebugContext(ctx, "Controller closed, dropping tap result", "seq", seq)
		return record, false
	}
	if seq != mc.tapSeq {
		mc.metrics.StaleSelections.Inc()
		mc.log.DebugContext(ctx, "Discarding superseded tap", "seq", seq, "latest", mc.tapSeq)
		return record, false
	}

	mc.state.Selection = &record
	mc.state.Resolving = false
	mc.cancelTap = nil

	return record, true
}

// Save appends the current selection to the store and notifies the user about the outcome.
func (mc *MapController) Save(ctx context.Context) error {
	mc.mu.Lock()
	var selection *models.LocationRecord
	if mc.state.Selection != nil {
		rec := *mc.state.Selection
		selection = &rec
	}
	mc.mu.Unlock()

	if selection == nil {
		mc.notifier.Notify(ctx, models.ErrorNotice(MsgNoSelection))
		return ErrNoSelection
	}

	saveCtx, cancel := mc.bind(ctx)
	defer cancel()

	if err := mc.store.Append(saveCtx, *selection); err != nil {
		mc.log.ErrorContext(ctx, "Failed to save location", "name", selection.Name, "error", err)
		mc.notifier.Notify(ctx, models.ErrorNotice(MsgSaveFailed))
		return err
	}

	mc.log.InfoContext(ctx, "Location saved", "name", selection.Name)
	mc.notifier.Notify(ctx, models.SuccessNotice(MsgSaved))

	return nil
}

// OpenSettings is the action of the permission explainer.
func (mc *MapController) OpenSettings(ctx context.Context) {
	if mc.settings != nil {
		mc.settings.OfferSettings(ctx)
	}
}

// State returns a copy of the current state.
func (mc *MapController) State() MapState {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	return mc.snapshot()
}

func (mc *MapController) snapshot() MapState {
	st := mc.state
	if st.PermissionGranted != nil {
		st.PermissionGranted = boolPtr(*st.PermissionGranted)
	}
	if st.Current != nil {
		current := *st.Current
		st.Current = &current
	}
	if st.Selection != nil {
		selection := *st.Selection
		st.Selection = &selection
	}

	return st
}

// View derives what the map screen should render.
func (mc *MapController) View() MapView {
	mc.mu.Lock()
	st := mc.snapshot()
	mc.mu.Unlock()

	if st.PermissionGranted != nil && !*st.PermissionGranted {
		return MapView{Mode: ViewPermissionExplainer, Message: MsgPermissionReq}
	}

	return MapView{
		Mode:    ViewMap,
		Camera:  st.Camera,
		Current: st.Current,
		Marker:  st.Selection,
		CanSave: st.Selection != nil,
	}
}

// Close cancels every outstanding request. Results that arrive later do not change the state.
func (mc *MapController) Close() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.closed {
		return
	}
	mc.closed = true
	mc.state.Resolving = false
	mc.teardown()
}

func boolPtr(v bool) *bool {
	return &v
}
