package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/katyare123/weather-dashboard/internal/adapter/assistant"
	"github.com/katyare123/weather-dashboard/internal/adapter/geocache"
	"github.com/katyare123/weather-dashboard/internal/adapter/httpapi"
	"github.com/katyare123/weather-dashboard/internal/adapter/nominatim"
	"github.com/katyare123/weather-dashboard/internal/adapter/openmeteo"
	"github.com/katyare123/weather-dashboard/internal/app"
	"github.com/katyare123/weather-dashboard/internal/config"
	"github.com/katyare123/weather-dashboard/internal/domain"
	"github.com/katyare123/weather-dashboard/internal/observability"
)

func main() {
	// Best effort: a .env file is a dev convenience, not a requirement.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	meteo := openmeteo.NewClient(cfg, metrics, logger)
	searcher := geocache.NewCachedSearcher(meteo, cfg.GeocodeCacheSize, metrics)
	reverser := geocache.NewCachedReverseGeocoder(
		nominatim.NewClient(cfg, metrics, logger), cfg.GeocodeCacheSize, metrics)

	// Assistant is feature-flagged via ASSISTANT_ENABLED / ASSISTANT_API_KEY.
	var chat domain.ChatStreamer
	if cfg.AssistantEnabled {
		chat = assistant.NewClient(cfg, metrics, logger)
		metrics.AssistantEnabled.Set(1)
		logger.Info("assistant enabled", "model", cfg.AssistantModel)
	} else {
		logger.Info("assistant disabled")
	}

	controller := app.New(app.Deps{
		Searcher:  searcher,
		Fetcher:   meteo,
		Reverser:  reverser,
		Assistant: chat,
		Logger:    logger,
		Metrics:   metrics,
		Debounce:  cfg.SearchDebounce,
	})

	srv := httpapi.NewServer(cfg.HTTPAddr, controller, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Warm the dashboard with the fallback location; clients with real
	// coordinates re-bootstrap through /api/geolocate.
	go controller.Bootstrap(ctx, nil)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
