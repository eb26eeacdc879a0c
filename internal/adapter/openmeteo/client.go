package openmeteo

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

// Field lists requested from the forecast endpoint. Raw values are metric;
// conversion happens at presentation time.
const (
	currentFields = "temperature_2m,relative_humidity_2m,apparent_temperature,precipitation,weather_code,wind_speed_10m,wind_direction_10m"
	hourlyFields  = "temperature_2m,weather_code,precipitation"
	dailyFields   = "weather_code,temperature_2m_max,temperature_2m_min"

	searchResultLimit = 5
	forecastDays      = 7
)

// Client talks to the Open-Meteo geocoding and forecast APIs. It implements
// domain.LocationSearcher and domain.ForecastFetcher.
type Client struct {
	httpClient   *http.Client
	geocodingURL string
	forecastURL  string
	limiter      *rate.Limiter
	metrics      *observability.Metrics
	logger       *slog.Logger
}

// NewClient creates an Open-Meteo client. A single rate limiter covers both
// endpoints so request bursts stay inside the free-tier limits.
func NewClient(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: cfg.ProviderTimeout},
		geocodingURL: cfg.GeocodingURL,
		forecastURL:  cfg.ForecastURL,
		limiter:      rate.NewLimiter(rate.Limit(cfg.ProviderRateRPS), cfg.ProviderBurst),
		metrics:      metrics,
		logger:       logger,
	}
}

// SearchLocations queries the geocoding API with the raw query, requesting up
// to 5 English-language results. No matches is a valid empty result, not an
// error.
func (c *Client) SearchLocations(ctx context.Context, query string) ([]domain.SearchResult, error) {
	params := url.Values{
		"name":     {query},
		"count":    {fmt.Sprint(searchResultLimit)},
		"language": {"en"},
		"format":   {"json"},
	}

	var resp geocodingResponse
	if err := c.getJSON(ctx, "geocoding", c.geocodingURL+"?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	if len(resp.Results) == 0 {
		c.metrics.ProviderRequests.WithLabelValues("geocoding", "empty").Inc()
		return nil, nil
	}
	c.metrics.ProviderRequests.WithLabelValues("geocoding", "success").Inc()

	results := make([]domain.SearchResult, len(resp.Results))
	for i, r := range resp.Results {
		results[i] = domain.SearchResult{
			Name:      r.Name,
			Country:   r.Country,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
		}
	}
	return results, nil
}

// FetchForecast requests current, hourly, and 7-day daily fields in the
// location's auto-detected timezone and normalizes the response 1:1 into a
// ForecastBundle. Field renaming only; no unit conversion at this layer.
func (c *Client) FetchForecast(ctx context.Context, loc domain.Location) (domain.ForecastBundle, error) {
	params := url.Values{
		"latitude":      {fmt.Sprintf("%.4f", loc.Latitude)},
		"longitude":     {fmt.Sprintf("%.4f", loc.Longitude)},
		"current":       {currentFields},
		"hourly":        {hourlyFields},
		"daily":         {dailyFields},
		"timezone":      {"auto"},
		"forecast_days": {fmt.Sprint(forecastDays)},
	}

	var resp forecastResponse
	if err := c.getJSON(ctx, "forecast", c.forecastURL+"?"+params.Encode(), &resp); err != nil {
		return domain.ForecastBundle{}, err
	}

	bundle, err := normalize(resp, loc)
	if err != nil {
		c.metrics.ProviderRequests.WithLabelValues("forecast", "error").Inc()
		return domain.ForecastBundle{}, err
	}
	c.metrics.ProviderRequests.WithLabelValues("forecast", "success").Inc()
	return bundle, nil
}

func (c *Client) getJSON(ctx context.Context, provider, fullURL string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait canceled: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ProviderDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.ProviderRequests.WithLabelValues(provider, "error").Inc()
		return &domain.NetworkError{Provider: provider, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.ProviderRequests.WithLabelValues(provider, "error").Inc()
		return &domain.NetworkError{Provider: provider, Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.metrics.ProviderRequests.WithLabelValues(provider, "error").Inc()
		return fmt.Errorf("decode %s response: %w", provider, err)
	}
	return nil
}

// normalize renames provider fields into the domain model, parsing series
// timestamps in the forecast's own timezone. Series whose value arrays do not
// line up with their time array are rejected: consumers index siblings by the
// time index, so a null or truncated field must fail here, like a decode
// error would.
func normalize(resp forecastResponse, loc domain.Location) (domain.ForecastBundle, error) {
	zone := resolveZone(resp.Timezone, resp.UTCOffsetSeconds)

	if err := checkSeriesLengths(len(resp.Hourly.Time), map[string]int{
		"temperature_2m": len(resp.Hourly.Temperature2m),
		"weather_code":   len(resp.Hourly.WeatherCode),
		"precipitation":  len(resp.Hourly.Precipitation),
	}); err != nil {
		return domain.ForecastBundle{}, fmt.Errorf("hourly series: %w", err)
	}
	if err := checkSeriesLengths(len(resp.Daily.Time), map[string]int{
		"weather_code":       len(resp.Daily.WeatherCode),
		"temperature_2m_max": len(resp.Daily.Temperature2mMax),
		"temperature_2m_min": len(resp.Daily.Temperature2mMin),
	}); err != nil {
		return domain.ForecastBundle{}, fmt.Errorf("daily series: %w", err)
	}

	hourlyTimes, err := parseSeriesTimes(resp.Hourly.Time, "2006-01-02T15:04", zone)
	if err != nil {
		return domain.ForecastBundle{}, fmt.Errorf("hourly series: %w", err)
	}
	dailyTimes, err := parseSeriesTimes(resp.Daily.Time, "2006-01-02", zone)
	if err != nil {
		return domain.ForecastBundle{}, fmt.Errorf("daily series: %w", err)
	}

	return domain.ForecastBundle{
		Current: domain.CurrentObservation{
			TemperatureC:         resp.Current.Temperature2m,
			ApparentTemperatureC: resp.Current.ApparentTemperature,
			HumidityPct:          resp.Current.RelativeHumidity2m,
			WindSpeedKmh:         resp.Current.WindSpeed10m,
			WindDirectionDeg:     resp.Current.WindDirection10m,
			PrecipitationMm:      resp.Current.Precipitation,
			WeatherCode:          resp.Current.WeatherCode,
		},
		Hourly: domain.HourlySeries{
			Time:            hourlyTimes,
			TemperatureC:    resp.Hourly.Temperature2m,
			WeatherCode:     resp.Hourly.WeatherCode,
			PrecipitationMm: resp.Hourly.Precipitation,
		},
		Daily: domain.DailySeries{
			Time:            dailyTimes,
			WeatherCode:     resp.Daily.WeatherCode,
			TemperatureMaxC: resp.Daily.Temperature2mMax,
			TemperatureMinC: resp.Daily.Temperature2mMin,
		},
		Location: loc,
		Timezone: zone,
		Fetched:  time.Now(),
	}, nil
}

// resolveZone prefers the IANA name and falls back to the reported fixed
// offset when the name is absent or not in the host tz database.
func resolveZone(name string, offsetSeconds int) *time.Location {
	if name != "" {
		if zone, err := time.LoadLocation(name); err == nil {
			return zone
		}
	}
	return time.FixedZone(name, offsetSeconds)
}

// checkSeriesLengths verifies every value array matches the time array's
// length, keeping the parallel-array model indexable.
func checkSeriesLengths(timeLen int, fields map[string]int) error {
	for name, n := range fields {
		if n != timeLen {
			return fmt.Errorf("field %s has %d values for %d timestamps", name, n, timeLen)
		}
	}
	return nil
}

func parseSeriesTimes(values []string, layout string, zone *time.Location) ([]time.Time, error) {
	times := make([]time.Time, len(values))
	for i, v := range values {
		t, err := time.ParseInLocation(layout, v, zone)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", v, err)
		}
		times[i] = t
	}
	return times, nil
}

// Open-Meteo API response types.

type geocodingResponse struct {
	Results []geocodingResult `json:"results"`
}

type geocodingResult struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type forecastResponse struct {
	Timezone         string       `json:"timezone"`
	UTCOffsetSeconds int          `json:"utc_offset_seconds"`
	Current          currentBlock `json:"current"`
	Hourly           hourlySeries `json:"hourly"`
	Daily            dailySeries  `json:"daily"`
}

type currentBlock struct {
	Temperature2m       float64  `json:"temperature_2m"`
	RelativeHumidity2m  float64  `json:"relative_humidity_2m"`
	ApparentTemperature float64  `json:"apparent_temperature"`
	Precipitation       float64  `json:"precipitation"`
	WeatherCode         int      `json:"weather_code"`
	WindSpeed10m        float64  `json:"wind_speed_10m"`
	WindDirection10m    *float64 `json:"wind_direction_10m"`
}

type hourlySeries struct {
	Time          []string  `json:"time"`
	Temperature2m []float64 `json:"temperature_2m"`
	WeatherCode   []int     `json:"weather_code"`
	Precipitation []float64 `json:"precipitation"`
}

type dailySeries struct {
	Time             []string  `json:"time"`
	WeatherCode      []int     `json:"weather_code"`
	Temperature2mMax []float64 `json:"temperature_2m_max"`
	Temperature2mMin []float64 `json:"temperature_2m_min"`
}
