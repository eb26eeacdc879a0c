package openmeteo

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/katyare123/weather-dashboard/internal/domain"
	"github.com/katyare123/weather-dashboard/internal/observability"
)

func testClient(geocodingURL, forecastURL string) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: 5 * time.Second},
		geocodingURL: geocodingURL,
		forecastURL:  forecastURL,
		limiter:      rate.NewLimiter(rate.Inf, 1),
		metrics:      observability.NewMetricsForTesting(),
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestSearchLocations_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Berlin", r.URL.Query().Get("name"))
		assert.Equal(t, "5", r.URL.Query().Get("count"))
		assert.Equal(t, "en", r.URL.Query().Get("language"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[
			{"name":"Berlin","country":"Germany","latitude":52.52,"longitude":13.405},
			{"name":"Berlin","country":"United States","latitude":44.47,"longitude":-71.18}
		]}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL)
	results, err := c.SearchLocations(context.Background(), "Berlin")
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, domain.SearchResult{
		Name:      "Berlin",
		Country:   "Germany",
		Latitude:  52.52,
		Longitude: 13.405,
	}, results[0])
}

func TestSearchLocations_NoMatchesIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"generationtime_ms":0.5}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL)
	results, err := c.SearchLocations(context.Background(), "Xyzzyplugh")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchLocations_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL)
	_, err := c.SearchLocations(context.Background(), "Berlin")

	var netErr *domain.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, "geocoding", netErr.Provider)
	assert.Equal(t, http.StatusInternalServerError, netErr.Status)
}

func TestSearchLocations_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	c := testClient(srv.URL, srv.URL)
	_, err := c.SearchLocations(context.Background(), "Berlin")

	var netErr *domain.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Zero(t, netErr.Status)
}

const forecastFixture = `{
	"timezone": "Europe/Berlin",
	"utc_offset_seconds": 7200,
	"current": {
		"temperature_2m": 18.4,
		"relative_humidity_2m": 46,
		"apparent_temperature": 17.1,
		"precipitation": 1.25,
		"weather_code": 61,
		"wind_speed_10m": 14.6,
		"wind_direction_10m": 223
	},
	"hourly": {
		"time": ["2025-08-26T00:00", "2025-08-26T01:00", "2025-08-26T02:00"],
		"temperature_2m": [15.1, 14.8, 14.2],
		"weather_code": [2, 2, 3],
		"precipitation": [0, 0, 0.3]
	},
	"daily": {
		"time": ["2025-08-26", "2025-08-27"],
		"weather_code": [61, 3],
		"temperature_2m_max": [22.6, 21.0],
		"temperature_2m_min": [11.2, 12.4]
	}
}`

func TestFetchForecast_NormalizesBundle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "52.5200", q.Get("latitude"))
		assert.Equal(t, "13.4050", q.Get("longitude"))
		assert.Equal(t, currentFields, q.Get("current"))
		assert.Equal(t, hourlyFields, q.Get("hourly"))
		assert.Equal(t, dailyFields, q.Get("daily"))
		assert.Equal(t, "auto", q.Get("timezone"))
		assert.Equal(t, "7", q.Get("forecast_days"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(forecastFixture))
	}))
	defer srv.Close()

	loc := domain.Location{Name: "Berlin", Latitude: 52.52, Longitude: 13.405}

	c := testClient(srv.URL, srv.URL)
	bundle, err := c.FetchForecast(context.Background(), loc)
	require.NoError(t, err)

	assert.Equal(t, loc, bundle.Location)
	assert.Equal(t, 18.4, bundle.Current.TemperatureC)
	assert.Equal(t, 17.1, bundle.Current.ApparentTemperatureC)
	assert.Equal(t, 46.0, bundle.Current.HumidityPct)
	assert.Equal(t, 14.6, bundle.Current.WindSpeedKmh)
	assert.Equal(t, 1.25, bundle.Current.PrecipitationMm)
	assert.Equal(t, 61, bundle.Current.WeatherCode)
	require.NotNil(t, bundle.Current.WindDirectionDeg)
	assert.Equal(t, 223.0, *bundle.Current.WindDirectionDeg)

	require.Len(t, bundle.Hourly.Time, 3)
	assert.Equal(t, []float64{15.1, 14.8, 14.2}, bundle.Hourly.TemperatureC)
	assert.Equal(t, []int{2, 2, 3}, bundle.Hourly.WeatherCode)

	require.Len(t, bundle.Daily.Time, 2)
	assert.Equal(t, []float64{22.6, 21.0}, bundle.Daily.TemperatureMaxC)

	// Series timestamps land in the forecast's own timezone, not the host's.
	first := bundle.Hourly.Time[0]
	assert.Equal(t, 0, first.Hour())
	_, offset := first.Zone()
	assert.Equal(t, 7200, offset)
}

func TestFetchForecast_RejectsMisalignedSeries(t *testing.T) {
	// A null field decodes to a nil slice without a decode error; the fetch
	// must still fail so consumers can index siblings by the time index.
	fixtures := map[string]string{
		"hourly temperature_2m null": `{
			"timezone": "Europe/Berlin",
			"utc_offset_seconds": 7200,
			"current": {"temperature_2m": 18.4, "weather_code": 61},
			"hourly": {
				"time": ["2025-08-26T00:00", "2025-08-26T01:00", "2025-08-26T02:00"],
				"temperature_2m": null,
				"weather_code": [2, 2, 3],
				"precipitation": [0, 0, 0.3]
			},
			"daily": {
				"time": ["2025-08-26"],
				"weather_code": [61],
				"temperature_2m_max": [22.6],
				"temperature_2m_min": [11.2]
			}
		}`,
		"daily max truncated": `{
			"timezone": "Europe/Berlin",
			"utc_offset_seconds": 7200,
			"current": {"temperature_2m": 18.4, "weather_code": 61},
			"hourly": {
				"time": ["2025-08-26T00:00"],
				"temperature_2m": [15.1],
				"weather_code": [2],
				"precipitation": [0]
			},
			"daily": {
				"time": ["2025-08-26", "2025-08-27"],
				"weather_code": [61, 3],
				"temperature_2m_max": [22.6],
				"temperature_2m_min": [11.2, 12.4]
			}
		}`,
	}

	for name, fixture := range fixtures {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(fixture))
			}))
			defer srv.Close()

			c := testClient(srv.URL, srv.URL)
			_, err := c.FetchForecast(context.Background(), domain.Location{Name: "Berlin"})

			require.Error(t, err)
			assert.Contains(t, err.Error(), "timestamps")
		})
	}
}

func TestFetchForecast_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := testClient(srv.URL, srv.URL)
	_, err := c.FetchForecast(context.Background(), domain.Location{Name: "Berlin"})

	var netErr *domain.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, "forecast", netErr.Provider)
	assert.Equal(t, http.StatusBadGateway, netErr.Status)
}

func TestFetchForecast_RateLimitRespectsContext(t *testing.T) {
	c := testClient("http://unused", "http://unused")
	c.limiter = rate.NewLimiter(rate.Limit(0.001), 1)
	_ = c.limiter.Wait(context.Background()) // drain the single burst token

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := c.FetchForecast(ctx, domain.Location{Name: "Berlin"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit wait canceled")
}

func TestResolveZone_FallsBackToFixedOffset(t *testing.T) {
	zone := resolveZone("Not/AZone", -18000)
	now := time.Now().In(zone)
	_, offset := now.Zone()
	assert.Equal(t, -18000, offset)
}
