package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/waypoint/internal/config"
	"github.com/UnknownOlympus/waypoint/internal/console"
	"github.com/UnknownOlympus/waypoint/internal/device"
	"github.com/UnknownOlympus/waypoint/internal/geocoding"
	"github.com/UnknownOlympus/waypoint/internal/metrics"
	"github.com/UnknownOlympus/waypoint/internal/models"
	"github.com/UnknownOlympus/waypoint/internal/repository"
	"github.com/UnknownOlympus/waypoint/internal/service"
	"github.com/UnknownOlympus/waypoint/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	// This allows for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	// Load application configuration.
	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env)

	// Create a separate registry for metrics with exemplar
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	err := run(ctx, cfg, logger, reg, os.Stdin, os.Stdout)
	stop()
	if err != nil {
		log.Fatalf("Application failed: %v", err)
	}

	// Log graceful shutdown completion.
	logger.InfoContext(ctx, "Application stopped gracefully.")
}

// run wires the application and serves the console until it exits. Every resource it opens
// is released before it returns.
func run(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	reg *prometheus.Registry,
	in io.Reader,
	out io.Writer,
) error {
	appMetrics := metrics.NewMetrics(reg)

	// Open the key-value backend that holds the saved locations.
	kv, closeKV, err := repository.New(ctx, repository.BackendConfig{
		Backend:  cfg.Storage.Backend,
		FilePath: cfg.Storage.Path,
		PostgresDSN: repository.DSN(
			cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
		),
		S3: repository.S3Config{
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Bucket:    cfg.S3.Bucket,
			UseSSL:    cfg.S3.UseSSL,
		},
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Backend, err)
	}
	defer closeKV()

	store := storage.NewLocationStore(kv, cfg.Storage.Key, logger, appMetrics)

	// Create geocoding provider using factory pattern based on configuration
	geoProvider, err := geocoding.NewProvider(geocoding.ProviderConfig{
		Type:      geocoding.ProviderType(cfg.Provider.Type),
		APIKey:    cfg.Provider.APIKey,
		RateLimit: cfg.Provider.RateLimit,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create geocoding provider: %w", err)
	}
	logger.InfoContext(ctx, "Geocoding provider initialized", "type", cfg.Provider.Type)

	resolver := geocoding.NewPlaceResolver(logger, geoProvider, cfg.Provider.Type, appMetrics, cfg.Provider.Timeout)

	// The terminal is the notice sink, the settings opener and, on request, the permission prompt.
	term := console.New(in, out, logger)

	gate, err := permissionGate(cfg.Device.Permission, term)
	if err != nil {
		return fmt.Errorf("failed to configure location permission: %w", err)
	}
	source, err := positionSource(cfg.Device, logger)
	if err != nil {
		return fmt.Errorf("failed to configure position source: %w", err)
	}
	locator := device.NewLocator(logger, gate, source, term, device.DefaultPositionOptions(), appMetrics)

	mapCtl := service.NewMapController(logger, locator, resolver, store, term, term, appMetrics)
	defer mapCtl.Close()
	browser := service.NewSavedBrowser(logger, store)
	term.Attach(mapCtl, browser)

	// Start the monitoring server in a goroutine to allow main to listen for signals.
	if cfg.Port > 0 {
		pinger, _ := kv.(repository.Pinger)
		go startMonitoringServer(ctx, logger, reg, pinger, cfg.Port)
	}

	// Log that the application has started.
	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	if err = term.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("console stopped: %w", err)
	}

	return nil
}

// permissionGate returns the gate for the configured permission mode.
func permissionGate(mode string, prompt device.PermissionGate) (device.PermissionGate, error) {
	switch mode {
	case "implicit":
		return device.ImplicitPermission{}, nil
	case "prompt":
		return prompt, nil
	default:
		return nil, fmt.Errorf("unknown permission mode %q, available: implicit, prompt", mode)
	}
}

// positionSource returns the configured position source.
func positionSource(cfg config.DeviceConfig, log *slog.Logger) (device.PositionSource, error) {
	switch cfg.Source {
	case "static":
		return device.StaticSource{
			Coordinates: models.Coordinates{Latitude: cfg.StaticLat, Longitude: cfg.StaticLon},
		}, nil
	case "ip":
		timeout := 15
		return device.NewIPSource(&http.Client{Timeout: time.Duration(timeout) * time.Second}, log), nil
	default:
		return nil, fmt.Errorf("unknown position source %q, available: static, ip", cfg.Source)
	}
}

// startMonitoringServer starts an HTTP server that provides health check and metrics endpoints.
// It listens on the specified port and logs the server's status and any errors encountered.
//
// Parameters:
// - ctx: A context.Context for managing cancellation and timeouts.
// - log: A logger for logging server events and errors.
// - reg: A registry with Prometheus collectors.
// - pinger: The storage backend health check, nil when the backend has none.
// - port: The port number on which the server will listen.
func startMonitoringServer(
	ctx context.Context,
	log *slog.Logger,
	reg *prometheus.Registry,
	pinger repository.Pinger,
	port int,
) {
	http.HandleFunc("/healthz", func(writer http.ResponseWriter, _ *http.Request) {
		log.DebugContext(ctx, "Performing health checks...")
		status, body := http.StatusOK, "OK"
		if pinger != nil {
			if err := pinger.Ping(ctx); err != nil {
				status, body = http.StatusServiceUnavailable, "Storage ping failed"
			}
		}
		writer.WriteHeader(status)
		_, err := writer.Write([]byte(body))
		if err != nil {
			log.ErrorContext(ctx, "failed to write reply", "error", err)
		}

		log.DebugContext(ctx, "Health checks completed", "status", http.StatusOK)
	})
	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	log.InfoContext(ctx, "Starting monitoring server", "port", port)
	readTimeout := 5
	writeTimeout := 10
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      http.DefaultServeMux,
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}
	if err := server.ListenAndServe(); err != nil {
		log.ErrorContext(ctx, "Monitoring server failed", "error", err)
	}
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level:     slog.LevelWarn,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level:     slog.LevelError,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)

		log.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}
