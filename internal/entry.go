// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/starford/vigil/internal/activity"
	"github.com/starford/vigil/internal/api"
	"github.com/starford/vigil/internal/journal"
	"github.com/starford/vigil/internal/jupyter"
	"github.com/starford/vigil/internal/observability"
	"github.com/starford/vigil/internal/report"
	"github.com/starford/vigil/internal/sse"
	"github.com/starford/vigil/internal/watch"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	machine := cfg.Influx.Machine
	if machine == "" {
		host, err := os.Hostname()
		if err != nil {
			return fmt.Errorf("resolve hostname: %w", err)
		}
		machine = host
	}

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("notebook_url", cfg.Notebook.URL),
		slog.String("influx_url", cfg.Influx.URL),
		slog.String("influx_bucket", cfg.Influx.Bucket),
		slog.String("machine", machine),
		slog.String("journal_path", cfg.Journal.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Open activity journal.
	db, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		return fmt.Errorf("init journal: %w", err)
	}
	defer db.Close()

	// Apply retention at startup; the hourly loop takes over below.
	if retention := cfg.Journal.Retention(); retention > 0 {
		if n, pruneErr := db.Prune(time.Now().Add(-retention)); pruneErr != nil {
			logger.Warn("startup prune failed", slog.String("error", pruneErr.Error()))
		} else if n > 0 {
			observability.RecordPruned(n)
			logger.Info("startup prune removed events", slog.Int64("events", n))
		}
	}

	// SSE broker.
	broker := sse.NewBroker()
	defer broker.Close()

	// Tracker + recorder shared by every activity source.
	tracker := activity.NewTracker()
	recorder := activity.NewRecorder(tracker, db, broker, logger)

	// InfluxDB write API, unless a writer was injected.
	writer := app.writer
	if writer == nil {
		influxClient := influxdb2.NewClient(cfg.Influx.URL, cfg.Influx.Token)
		defer influxClient.Close()
		writer = influxClient.WriteAPIBlocking(cfg.Influx.Org, cfg.Influx.Bucket)
	}

	reporter := report.New(tracker, writer, broker, logger, report.Options{
		Measurement:  cfg.Influx.Measurement,
		Machine:      machine,
		Interval:     cfg.Report.Interval(),
		ActiveWindow: cfg.Report.ActiveWindow(),
	})

	// File watcher is constructed up front so a bad root fails startup.
	var watcher *watch.Watcher
	if cfg.Notebook.Watch.Enabled {
		watcher, err = watch.New(cfg.Notebook.Watch.Path, recorder, logger)
		if err != nil {
			return fmt.Errorf("init watcher: %w", err)
		}
	}

	// Build API service and router.
	sources := api.Sources{
		Hook:  true,
		Poll:  cfg.Notebook.PollEnabled(),
		Watch: cfg.Notebook.Watch.Enabled,
	}
	svc := api.NewService(recorder, tracker, db, reporter, sources)
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Prometheus metrics (unauthenticated).
	r.Handle("/metrics", promhttp.Handler())

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	// Reporting loop.
	g.Go(func() error {
		return reporter.Run(gCtx)
	})

	// Sessions poller.
	if cfg.Notebook.PollEnabled() {
		client := jupyter.NewClient(cfg.Notebook.URL, cfg.Notebook.Token)
		poller := jupyter.NewPoller(client, recorder, logger, cfg.Notebook.PollInterval())
		g.Go(func() error {
			return poller.Run(gCtx)
		})
	}

	// File watcher.
	if watcher != nil {
		g.Go(func() error {
			return watcher.Run(gCtx)
		})
	}

	// Hourly journal retention.
	if retention := cfg.Journal.Retention(); retention > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(time.Hour)
			defer ticker.Stop()
			for {
				select {
				case <-gCtx.Done():
					return nil
				case <-ticker.C:
					n, pruneErr := db.Prune(time.Now().Add(-retention))
					if pruneErr != nil {
						logger.Warn("prune failed", slog.String("error", pruneErr.Error()))
						continue
					}
					if n > 0 {
						observability.RecordPruned(n)
						logger.Info("prune removed events", slog.Int64("events", n))
					}
				}
			}
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Drain the HTTP server once shutdown begins (signal or group error).
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
