package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vehicle-dashboard/charts"
	"vehicle-dashboard/config"
	"vehicle-dashboard/dashboard"
	"vehicle-dashboard/services"
	"vehicle-dashboard/snapshot"
	"vehicle-dashboard/storage"
	"vehicle-dashboard/utils"
)

func main() {
	cfg := config.Load()

	logger := utils.NewLoggerTo(os.Stdout, os.Stderr, utils.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("=== Vehicle Sales Dashboard starting ===")
	logger.Info("Config — source: %s | addr: %s | chart: %dx%d",
		cfg.DataSource, cfg.HTTPAddr, cfg.ChartWidth, cfg.ChartHeight)

	retry := &utils.RetryConfig{
		MaxAttempts: cfg.MaxRetries,
		BaseDelay:   2 * time.Second,
		Logger:      logger,
	}

	var src storage.RawSource
	switch cfg.DataSource {
	case config.SourceCSV:
		src = storage.NewCSVSource(cfg.CSVPath)
	case config.SourcePostgres:
		pg, err := storage.NewPostgresSource(ctx, cfg.DSN(), cfg.PostgresTable, retry)
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
			logger.Error("Make sure Docker is running: docker compose up -d")
			os.Exit(1)
		}
		defer pg.Close()
		src = pg
	default:
		logger.Error("Unknown DATA_SOURCE %q (want %s or %s)", cfg.DataSource, config.SourceCSV, config.SourcePostgres)
		os.Exit(1)
	}

	ds, err := services.LoadDataset(ctx, src, services.NewCleaner(logger))
	if err != nil {
		logger.Error("Failed to load dataset: %v", err)
		os.Exit(1)
	}
	logger.Info("Cleaned dataset: %d listings from %s (checksum %s)", len(ds.Listings), ds.Source, ds.Checksum)

	insightSvc := services.NewInsightService(logger)
	report := insightSvc.Generate(ds.Listings)
	insightSvc.Print(os.Stdout, report)

	renderer := dashboard.NewRenderer(ds, charts.Options{Width: cfg.ChartWidth, Height: cfg.ChartHeight}, logger)
	srv, err := dashboard.NewServer(ds, report, renderer, logger)
	if err != nil {
		logger.Error("Failed to build dashboard: %v", err)
		os.Exit(1)
	}

	ln, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		logger.Error("Failed to listen on %s: %v", cfg.HTTPAddr, err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.Serve(ln)
	}()
	logger.Info("Dashboard listening on http://%s", ln.Addr())

	if cfg.SnapshotPath != "" {
		capturer := snapshot.New(cfg.ChromeBin, cfg.MaxRetries, logger)
		if err := capturer.Capture(ctx, localURL(ln.Addr()), cfg.SnapshotPath); err != nil {
			logger.Error("Snapshot failed: %v", err)
		}
	}

	select {
	case <-ctx.Done():
		logger.Info("Shutting down...")
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server stopped: %v", err)
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown failed: %v", err)
	}
	logger.Info("Done.")
}

// localURL turns a listener address into a URL the local browser can reach.
func localURL(addr net.Addr) string {
	_, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return "http://" + addr.String() + "/"
	}
	return "http://127.0.0.1:" + port + "/"
}
