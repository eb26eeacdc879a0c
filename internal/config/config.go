package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// External weather/geocoding providers.
	GeocodingURL      string
	ForecastURL       string
	ReverseGeocodeURL string
	ProviderTimeout   time.Duration
	ProviderRateRPS   float64
	ProviderBurst     int
	GeocodeCacheSize  int

	// Search input handling.
	SearchDebounce time.Duration

	// Assistant (chat) configuration.
	AssistantAPIKey  string
	AssistantURL     string
	AssistantModel   string
	AssistantEnabled bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDurationEnv("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	providerTimeout, err := parseDurationEnv("PROVIDER_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	searchDebounce, err := parseDurationEnv("SEARCH_DEBOUNCE", "300ms")
	if err != nil {
		return nil, err
	}

	rateRPS, err := parseFloatEnv("PROVIDER_RATE_LIMIT", 4)
	if err != nil {
		return nil, err
	}
	burst, err := parseIntEnv("PROVIDER_BURST", 8)
	if err != nil {
		return nil, err
	}
	cacheSize, err := parseIntEnv("GEOCODE_CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}

	assistantKey := os.Getenv("ASSISTANT_API_KEY")
	assistantEnabled := assistantKey != ""
	if v := os.Getenv("ASSISTANT_ENABLED"); v != "" {
		assistantEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		GeocodingURL:      envOrDefault("GEOCODING_URL", "https://geocoding-api.open-meteo.com/v1/search"),
		ForecastURL:       envOrDefault("FORECAST_URL", "https://api.open-meteo.com/v1/forecast"),
		ReverseGeocodeURL: envOrDefault("REVERSE_GEOCODE_URL", "https://nominatim.openstreetmap.org/reverse"),
		ProviderTimeout:   providerTimeout,
		ProviderRateRPS:   rateRPS,
		ProviderBurst:     burst,
		GeocodeCacheSize:  cacheSize,

		SearchDebounce: searchDebounce,

		AssistantAPIKey:  assistantKey,
		AssistantURL:     envOrDefault("ASSISTANT_URL", "https://api.openai.com/v1/chat/completions"),
		AssistantModel:   envOrDefault("ASSISTANT_MODEL", "gpt-4o-mini"),
		AssistantEnabled: assistantEnabled,
	}

	if cfg.GeocodingURL == "" {
		return nil, errors.New("GEOCODING_URL is required")
	}
	if cfg.ForecastURL == "" {
		return nil, errors.New("FORECAST_URL is required")
	}
	if cfg.ReverseGeocodeURL == "" {
		return nil, errors.New("REVERSE_GEOCODE_URL is required")
	}
	if cfg.AssistantEnabled && cfg.AssistantAPIKey == "" {
		return nil, errors.New("ASSISTANT_ENABLED is true but ASSISTANT_API_KEY is not set")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseIntEnv(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parseFloatEnv(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return f, nil
}
