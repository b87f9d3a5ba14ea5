package console

import (
	"context"
	"errors"
	"fmt"

	"github.com/UnknownOlympus/waypoint/internal/models"
	"github.com/UnknownOlympus/waypoint/internal/service"
	"github.com/spf13/cast"
)

const helpText = `Commands:
  tap <lat> <lon>   select a point on the map
  save              save the selected point
  where             show the map screen
  history           show the saved locations
  select <n>        open the info box of saved location n
  close             close the info box
  settings          open the location settings
  quit              leave
`

var errNeedsPermission = errors.New(service.MsgPermissionReq + " Type 'settings' to enable it.")

func (c *Console) mapAvailable() error {
	if c.mapScreen.View().Mode == service.ViewPermissionExplainer {
		return errNeedsPermission
	}
	return nil
}

func (c *Console) handleTap(ctx context.Context, args []string) error {
	if err := c.mapAvailable(); err != nil {
		return err
	}
	if len(args) != 2 {
		return errors.New("usage: tap <lat> <lon>")
	}

	lat, err := cast.ToFloat64E(args[0])
	if err != nil {
		return fmt.Errorf("invalid latitude %q", args[0])
	}
	lon, err := cast.ToFloat64E(args[1])
	if err != nil {
		return fmt.Errorf("invalid longitude %q", args[1])
	}
	coords := models.Coordinates{Latitude: lat, Longitude: lon}
	if err = coords.Validate(); err != nil {
		return err
	}

	c.screen = ScreenMap
	c.printf("Resolving (%.5f, %.5f)...\n", lat, lon)

	// Lookups run in the background so a newer tap can supersede a slow one.
	c.taps.Add(1)
	go func() {
		defer c.taps.Done()
		record, applied := c.mapScreen.Tap(ctx, coords)
		if applied {
			c.printf("Selected: %s (%.5f, %.5f). Type 'save' to keep it.\n",
				record.Name, record.Latitude, record.Longitude)
		}
	}()

	return nil
}

func (c *Console) handleSave(ctx context.Context, _ []string) error {
	if err := c.mapAvailable(); err != nil {
		return err
	}
	c.taps.Wait()

	// The outcome is reported through Notify.
	_ = c.mapScreen.Save(ctx)
	return nil
}

func (c *Console) handleWhere(_ context.Context, _ []string) error {
	c.screen = ScreenMap
	c.renderMap()
	return nil
}

func (c *Console) renderMap() {
	view := c.mapScreen.View()
	if view.Mode == service.ViewPermissionExplainer {
		c.printf("%s\n  [Open Settings] type 'settings'\n", view.Message)
		return
	}

	region := view.Camera.Region
	c.printf("Camera: (%.5f, %.5f) span %.4f x %.4f\n",
		region.Center.Latitude, region.Center.Longitude, region.LatitudeDelta, region.LongitudeDelta)
	if view.Current != nil {
		c.printf("You are here: (%.5f, %.5f)\n", view.Current.Latitude, view.Current.Longitude)
	}
	if view.Marker != nil {
		c.printf("Selected: %s (%.5f, %.5f) [Save Location]\n",
			view.Marker.Name, view.Marker.Latitude, view.Marker.Longitude)
	}
}

func (c *Console) handleHistory(ctx context.Context, _ []string) error {
	c.screen = ScreenHistory
	view := c.history.Focus(ctx)

	if view.Empty {
		c.printf("%s\n", view.Message)
		return nil
	}

	center := view.InitialRegion.Center
	c.printf("Camera: (%.5f, %.5f)\n", center.Latitude, center.Longitude)
	for i, marker := range view.Markers {
		c.printf("  %d. %s (%.5f, %.5f)\n", i+1, marker.Name, marker.Latitude, marker.Longitude)
	}

	return nil
}

func (c *Console) handleSelect(ctx context.Context, args []string) error {
	if c.screen != ScreenHistory {
		if err := c.handleHistory(ctx, nil); err != nil {
			return err
		}
	}
	if len(args) != 1 {
		return errors.New("usage: select <n>")
	}

	n, err := cast.ToIntE(args[0])
	if err != nil {
		return fmt.Errorf("invalid marker number %q", args[0])
	}

	overlay, err := c.history.SelectMarker(n - 1)
	if err != nil {
		return err
	}

	center := overlay.Camera.Region.Center
	c.printf("Camera: (%.5f, %.5f)\n", center.Latitude, center.Longitude)
	c.printf("[ %s ] (x: close)\n", overlay.Label)

	return nil
}

func (c *Console) handleClose(_ context.Context, _ []string) error {
	if c.history.CloseOverlay().Duration > 0 {
		c.printf("Info closed.\n")
	}
	return nil
}

func (c *Console) handleSettings(ctx context.Context, _ []string) error {
	c.mapScreen.OpenSettings(ctx)
	return nil
}

func (c *Console) handleHelp(_ context.Context, _ []string) error {
	c.printf("%s", helpText)
	return nil
}
