package device

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/UnknownOlympus/waypoint/internal/metrics"
	"github.com/UnknownOlympus/waypoint/internal/models"
)

// Locator performs permission-checked one-shot position requests.
type Locator struct {
	gate     PermissionGate
	source   PositionSource
	settings SettingsOpener
	opts     PositionOptions
	metrics  *metrics.Metrics
	log      *slog.Logger
	now      func() time.Time

	mu   sync.Mutex
	last *Fix // last accepted fix
}

// NewLocator creates a Locator. settings may be nil when the platform has no settings screen.
func NewLocator(
	log *slog.Logger,
	gate PermissionGate,
	source PositionSource,
	settings SettingsOpener,
	opts PositionOptions,
	metrics *metrics.Metrics,
) *Locator {
	return &Locator{
		gate:     gate,
		source:   source,
		settings: settings,
		opts:     opts,
		metrics:  metrics,
		log:      log,
		now:      time.Now,
	}
}

// RequestCurrentLocation returns the device position. A missing permission yields
// ErrPermissionDenied after offering the system settings; any source failure,
// including the timeout, yields ErrPositionUnavailable.
func (l *Locator) RequestCurrentLocation(ctx context.Context) (models.Coordinates, error) {
	granted, err := l.gate.RequestFineLocation(ctx)
	if err != nil || !granted {
		l.log.WarnContext(ctx, "Location permission not granted", "error", err)
		l.metrics.LocationFixes.WithLabelValues("denied").Inc()
		if l.settings != nil {
			l.settings.OfferSettings(ctx)
		}
		if err != nil {
			return models.Coordinates{}, fmt.Errorf("%w: %w", ErrPermissionDenied, err)
		}
		return models.Coordinates{}, ErrPermissionDenied
	}

	if cached, ok := l.cachedFix(); ok {
		l.log.DebugContext(ctx, "Using cached position fix", "age", l.now().Sub(cached.Timestamp))
		l.metrics.LocationFixes.WithLabelValues("cached").Inc()
		return cached.Coordinates, nil
	}

	fixCtx := ctx
	if l.opts.Timeout > 0 {
		var cancel context.CancelFunc
		fixCtx, cancel = context.WithTimeout(ctx, l.opts.Timeout)
		defer cancel()
	}

	fix, err := l.source.CurrentPosition(fixCtx, l.opts)
	if err == nil {
		err = fix.Coordinates.Validate()
	}
	if err != nil {
		l.log.ErrorContext(ctx, "Location error", "error", err)
		l.metrics.LocationFixes.WithLabelValues("unavailable").Inc()
		return models.Coordinates{}, fmt.Errorf("%w: %w", ErrPositionUnavailable, err)
	}

	if fix.Timestamp.IsZero() {
		fix.Timestamp = l.now()
	}

	l.metrics.LocationFixes.WithLabelValues("fresh").Inc()

	return l.accept(fix), nil
}

// cachedFix returns the last fix if it is still within MaxCachedAge.
func (l *Locator) cachedFix() (Fix, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.last == nil || l.opts.MaxCachedAge <= 0 {
		return Fix{}, false
	}
	if l.now().Sub(l.last.Timestamp) > l.opts.MaxCachedAge {
		return Fix{}, false
	}

	return *l.last, true
}

// accept stores fix as the last one unless it moved less than MinMovementMeters,
// in which case only the timestamp of the previous fix is refreshed.
func (l *Locator) accept(fix Fix) models.Coordinates {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.last != nil && Distance(l.last.Coordinates, fix.Coordinates) < l.opts.MinMovementMeters {
		l.last.Timestamp = fix.Timestamp
		return l.last.Coordinates
	}

	l.last = &fix

	return fix.Coordinates
}
