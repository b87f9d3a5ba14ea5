// Package console is a line based terminal host for the map and saved locations screens.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/UnknownOlympus/waypoint/internal/models"
	"github.com/UnknownOlympus/waypoint/internal/service"
)

// Screen is the screen currently shown by the console.
type Screen string

const (
	ScreenMap     Screen = "map"
	ScreenHistory Screen = "history"
)

// MapScreen is the controller behind the map screen.
type MapScreen interface {
	Mount(ctx context.Context) error
	Tap(ctx context.Context, coords models.Coordinates) (models.LocationRecord, bool)
	Save(ctx context.Context) error
	OpenSettings(ctx context.Context)
	View() service.MapView
}

// HistoryScreen is the controller behind the saved locations screen.
type HistoryScreen interface {
	Focus(ctx context.Context) service.BrowserView
	SelectMarker(i int) (service.Overlay, error)
	CloseOverlay() service.Transition
}

type handler func(ctx context.Context, args []string) error

// Console reads commands from in and writes everything the user sees to out.
// It also acts as the notice sink, the settings opener and the permission prompt of the app.
type Console struct {
	log      *slog.Logger
	out      io.Writer
	outMu    sync.Mutex
	lines    chan string
	readOnce sync.Once
	in       io.Reader

	mapScreen MapScreen
	history   HistoryScreen
	screen    Screen
	handlers  map[string]handler
	taps      sync.WaitGroup
}

// New creates a console. Call Attach before Run.
func New(in io.Reader, out io.Writer, log *slog.Logger) *Console {
	return &Console{
		log:    log,
		in:     in,
		out:    out,
		lines:  make(chan string),
		screen: ScreenMap,
	}
}

// Attach connects the screen controllers.
func (c *Console) Attach(mapScreen MapScreen, history HistoryScreen) {
	c.mapScreen = mapScreen
	c.history = history
	c.registerHandlers()
}

func (c *Console) registerHandlers() {
	c.handlers = map[string]handler{
		"tap":      c.handleTap,
		"save":     c.handleSave,
		"where":    c.handleWhere,
		"map":      c.handleWhere,
		"history":  c.handleHistory,
		"select":   c.handleSelect,
		"close":    c.handleClose,
		"settings": c.handleSettings,
		"help":     c.handleHelp,
	}
}

// startReader pumps input lines into c.lines until the input ends.
func (c *Console) startReader() {
	c.readOnce.Do(func() {
		go func() {
			defer close(c.lines)
			scanner := bufio.NewScanner(c.in)
			for scanner.Scan() {
				c.lines <- scanner.Text()
			}
			if err := scanner.Err(); err != nil {
				c.log.Error("Failed to read console input", "error", err)
			}
		}()
	})
}

func (c *Console) readLine(ctx context.Context) (string, bool) {
	c.startReader()

	select {
	case <-ctx.Done():
		return "", false
	case line, ok := <-c.lines:
		return line, ok
	}
}

func (c *Console) printf(format string, args ...any) {
	c.outMu.Lock()
	defer c.outMu.Unlock()

	if _, err := fmt.Fprintf(c.out, format, args...); err != nil {
		c.log.Error("Failed to write console output", "error", err)
	}
}

// Run mounts the map screen and processes commands until quit, end of input or ctx cancellation.
func (c *Console) Run(ctx context.Context) error {
	if c.mapScreen == nil || c.history == nil {
		return fmt.Errorf("console has no screens attached")
	}

	c.printf("Maps\n")
	if err := c.mapScreen.Mount(ctx); err != nil {
		c.log.InfoContext(ctx, "Map mounted without a position fix", "error", err)
	}
	c.renderMap()
	c.printf("Type 'help' for the list of commands.\n")

	defer c.taps.Wait()

	for {
		c.printf("%s> ", c.screen)
		line, ok := c.readLine(ctx)
		if !ok {
			return ctx.Err()
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		cmd := strings.ToLower(fields[0])
		if cmd == "quit" || cmd == "exit" {
			return nil
		}

		h, known := c.handlers[cmd]
		if !known {
			c.printf("Unknown command %q, type 'help'.\n", fields[0])
			continue
		}
		if err := h(ctx, fields[1:]); err != nil {
			c.printf("%v\n", err)
		}
	}
}

// Notify prints a notice raised by a controller.
func (c *Console) Notify(_ context.Context, notice models.Notice) {
	c.printf("[%s] %s\n", notice.Title, notice.Message)
}

// OfferSettings tells the user where location access can be enabled. Nothing is opened automatically.
func (c *Console) OfferSettings(_ context.Context) {
	c.printf("Location Permission Required: this app needs access to your location. " +
		"Please enable location services in settings, then restart waypoint with WAYPOINT_PERMISSION=implicit.\n")
}

// RequestFineLocation asks the user for access to the precise location.
func (c *Console) RequestFineLocation(ctx context.Context) (bool, error) {
	c.printf("Location Permission: this app needs access to your location to show your position on the map. Allow? [y/N] ")

	line, ok := c.readLine(ctx)
	if !ok {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		return false, io.ErrUnexpectedEOF
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
