package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/katyare123/weather-dashboard/internal/config"
	"github.com/katyare123/weather-dashboard/internal/domain"
	"github.com/katyare123/weather-dashboard/internal/observability"
)

// unknownPlace is the name used when no usable address field comes back.
const unknownPlace = "Unknown"

// userAgent identifies the service per the Nominatim usage policy.
const userAgent = "weather-dashboard/1.0"

// Client resolves coordinates to place names via the OSM Nominatim API.
// It implements domain.ReverseGeocoder.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Nominatim reverse-geocoding client. Nominatim asks for
// at most one request per second, so the limiter is fixed rather than
// configured.
func NewClient(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.ProviderTimeout},
		baseURL:    cfg.ReverseGeocodeURL,
		limiter:    rate.NewLimiter(1, 1),
		metrics:    metrics,
		logger:     logger,
	}
}

// ReverseGeocode resolves coordinates to a display name. The place name is
// the first present of village, town, city, or hamlet, defaulting to
// "Unknown"; the country is appended when present. Failures surface as
// NetworkError; callers are expected to absorb them and fall back to a
// default location.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait canceled: %w", err)
	}

	params := url.Values{
		"lat":    {fmt.Sprintf("%.6f", lat)},
		"lon":    {fmt.Sprintf("%.6f", lon)},
		"format": {"json"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ProviderDuration.WithLabelValues("reverse_geocode").Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.ProviderRequests.WithLabelValues("reverse_geocode", "error").Inc()
		return "", &domain.NetworkError{Provider: "reverse_geocode", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.ProviderRequests.WithLabelValues("reverse_geocode", "error").Inc()
		return "", &domain.NetworkError{Provider: "reverse_geocode", Status: resp.StatusCode}
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.metrics.ProviderRequests.WithLabelValues("reverse_geocode", "error").Inc()
		return "", fmt.Errorf("decode response: %w", err)
	}
	c.metrics.ProviderRequests.WithLabelValues("reverse_geocode", "success").Inc()

	return body.Address.displayName(), nil
}

// Nominatim API response types.

type response struct {
	Address address `json:"address"`
}

type address struct {
	Village string `json:"village"`
	Town    string `json:"town"`
	City    string `json:"city"`
	Hamlet  string `json:"hamlet"`
	Country string `json:"country"`
}

// displayName picks the place name by village/town/city/hamlet priority and
// appends the country when present.
func (a address) displayName() string {
	name := unknownPlace
	for _, candidate := range []string{a.Village, a.Town, a.City, a.Hamlet} {
		if candidate != "" {
			name = candidate
			break
		}
	}
	if a.Country != "" {
		return name + ", " + a.Country
	}
	return name
}
