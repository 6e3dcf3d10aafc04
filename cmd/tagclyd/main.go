package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"tagcly-telemetry-backend/config"
	"tagcly-telemetry-backend/internal/api"
	"tagcly-telemetry-backend/internal/db"
	"tagcly-telemetry-backend/internal/generator"
	"tagcly-telemetry-backend/internal/mqttin"
	"tagcly-telemetry-backend/internal/notification"
	"tagcly-telemetry-backend/internal/store"
	"tagcly-telemetry-backend/internal/telemetry"
	"tagcly-telemetry-backend/internal/trend"
)

func main() {
	logger := log.New(os.Stdout, "tagcly-backend ", log.LstdFlags)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s (environment: %s)", configPath, cfg.Environment)

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	logger.Println("data store initialized")

	// Lost-pet alerts are optional: without VAPID keys ingestion simply skips
	// dispatching.
	var alerts telemetry.AlertDispatcher
	var webpushOptions *webpush.Options
	if cfg.Push.PublicKey != "" && cfg.Push.PrivateKey != "" {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		pool := notification.NewWorkerPool(cfg.WorkerPool.Size, gormDB, webpushOptions)
		pool.Start(ctx)
		alerts = pool
		logger.Printf("lost-pet alert worker pool started (size %d)", cfg.WorkerPool.Size)
	} else {
		logger.Println("VAPID keys not configured; lost-pet alerts disabled")
	}

	locator := telemetry.NewLocator(cfg.Home.Latitude, cfg.Home.Longitude)
	ingestor := telemetry.NewService(appStore, locator, alerts)

	if cfg.MQTT.Enabled {
		listener := mqttin.NewListener(&cfg.MQTT, ingestor)
		if err := listener.Start(); err != nil {
			logger.Fatalf("failed to start MQTT listener: %v", err)
		}
		defer listener.Stop()
		logger.Printf("MQTT listener started on %s", cfg.MQTT.Broker)
	} else {
		logger.Println("MQTT listener is disabled; HTTP ingestion only")
	}

	activityAnalyzer := trend.NewActivityAnalyzer(
		cfg.Analytics.ActivityLowThreshold,
		cfg.Analytics.ActivityHighThreshold,
		cfg.Analytics.PeriodDays,
	)
	sleepAnalyzer := trend.NewSleepAnalyzer(cfg.Analytics.PeriodDays)
	dataGenerator := generator.NewService(appStore)

	handler := api.NewHandler(cfg, appStore, ingestor, activityAnalyzer, sleepAnalyzer, dataGenerator, webpushOptions)
	router := api.NewRouter(handler)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
