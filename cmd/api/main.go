package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kawaclinic/appointment-desk/internal/api/router"
	"github.com/kawaclinic/appointment-desk/internal/archive"
	"github.com/kawaclinic/appointment-desk/internal/booking"
	appconfig "github.com/kawaclinic/appointment-desk/internal/config"
	"github.com/kawaclinic/appointment-desk/internal/http/handlers"
	"github.com/kawaclinic/appointment-desk/internal/notify"
	"github.com/kawaclinic/appointment-desk/internal/observability/metrics"
	"github.com/kawaclinic/appointment-desk/internal/refresh"
	"github.com/kawaclinic/appointment-desk/internal/storage/csvfile"
	"github.com/kawaclinic/appointment-desk/internal/storage/memory"
	"github.com/kawaclinic/appointment-desk/internal/storage/spreadsheet"
	"github.com/kawaclinic/appointment-desk/pkg/logging"
)

func main() {
	// Load configuration (.env is optional, real env vars win)
	_ = godotenv.Load()
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting appointment-desk API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"store_backend", cfg.StoreBackend,
	)

	ctx := context.Background()

	schema, err := booking.SchemaByName(cfg.StoreSchema)
	if err != nil {
		logger.Error("invalid store schema", "error", err)
		os.Exit(1)
	}

	store, err := buildStore(ctx, cfg, schema, logger)
	if err != nil {
		logger.Error("failed to initialize booking store", "error", err)
		os.Exit(1)
	}

	repo := booking.NewRepository(store, schema, logger)

	// Optional S3 snapshots of the bookings table
	var snapshots *archive.Snapshotter
	if cfg.SnapshotBucket != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		snapshots = archive.NewSnapshotter(s3.NewFromConfig(awsCfg), cfg.SnapshotBucket, logger)
		logger.Info("table snapshots enabled", "bucket", cfg.SnapshotBucket)
	}

	// Optional operator email on new bookings
	var notifier *notify.Service
	sender := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger)
	if sender != nil && cfg.NotifyEmail != "" {
		notifier = notify.NewService(sender, cfg.NotifyEmail, cfg.NotifyEmailName, logger)
		logger.Info("operator notifications enabled", "to", cfg.NotifyEmail)
	}

	// Metrics
	metricsHandler, bookingMetrics := setupBookingMetrics()

	// Live refresh hub: connected clients are told to re-fetch the views
	// whenever a booking is saved.
	hub := refresh.NewHub(logger)
	repo.Subscribe(hub.Broadcast)

	bookingsHandler := handlers.NewBookingsHandler(
		repo,
		booking.Policy{
			RequirePayment:   cfg.RequirePayment,
			MatchPatientName: cfg.MatchPatientName,
		},
		handlers.ViewConfig{
			InclusiveCutoff:   cfg.InclusiveCutoff,
			UpcomingAscending: cfg.UpcomingAscending,
			ArchivedAscending: cfg.ArchivedAscending,
			SortDayByTime:     cfg.SortDayByTime,
		},
		bookingMetrics,
		notifier,
		snapshots,
		logger,
	)

	// Setup router
	r := router.New(&router.Config{
		Logger:             logger,
		BookingsHandler:    bookingsHandler,
		RefreshHub:         hub,
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// buildStore selects the row store from STORE_BACKEND.
func buildStore(ctx context.Context, cfg *appconfig.Config, schema booking.Schema, logger *logging.Logger) (booking.RowStore, error) {
	switch cfg.StoreBackend {
	case "sheets":
		if cfg.SheetsSpreadsheetID == "" {
			return nil, fmt.Errorf("main: SHEETS_SPREADSHEET_ID is required for the sheets backend")
		}
		return spreadsheet.New(ctx, cfg.SheetsSpreadsheetID, cfg.SheetsRange, schema.Header(), logger)
	case "memory":
		return memory.New(schema.Header()), nil
	case "csv":
		return csvfile.New(cfg.CSVPath, schema.Header()), nil
	default:
		return nil, fmt.Errorf("main: unknown store backend %q", cfg.StoreBackend)
	}
}

func setupBookingMetrics() (http.Handler, *metrics.BookingMetrics) {
	registry := prometheus.NewRegistry()
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), metrics.NewBookingMetrics(registry)
}
