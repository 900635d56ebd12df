// cmd/api/main.go

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"curator/internal/bootstrap"
	"curator/internal/config"
	"curator/internal/logging"
	"curator/internal/server"
	"curator/internal/server/handlers"
	"curator/internal/service/curation"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logging.New(os.Stderr, logging.Config{}).Fatal("Failed to load configuration", "err", err)
	}

	logger := logging.New(os.Stderr, logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Initialize record store, NATS and the curation service
	components, err := bootstrap.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize dependencies", "err", err)
	}
	defer components.Close()

	// Periodic reports feed the event stream
	scheduler := curation.NewScheduler(components.Service, logger, curation.SchedulerConfig{
		Interval: cfg.Analysis.ReportInterval,
		Horizon:  cfg.Analysis.Horizon,
	})
	scheduler.Start(ctx)

	// A nil *nats.Conn must not end up inside the interface
	var subscriber handlers.Subscriber
	if components.NATS != nil {
		subscriber = components.NATS
	}

	// Initialize HTTP server
	httpServer := server.NewServer(cfg.Server, server.Dependencies{
		Analyzer:      components.Service,
		Location:      components.Location,
		Subscriber:    subscriber,
		ReportSubject: components.Subject,
		Logger:        logger,
	})

	// Start HTTP server
	go func() {
		logger.Info("Starting HTTP server", "host", cfg.Server.Host, "port", cfg.Server.Port, "driver", cfg.Database.Driver)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", "err", err)
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	logger.Info("Shutdown signal received")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "err", err)
	}

	if err := scheduler.Stop(shutdownCtx); err != nil {
		logger.Error("Report scheduler shutdown error", "err", err)
	}

	logger.Info("Shutdown complete")
}
