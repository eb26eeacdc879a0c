package nominatim

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

func testClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		limiter:    rate.NewLimiter(rate.Inf, 1),
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestReverseGeocode_VillageTakesPriority(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "52.520000", r.URL.Query().Get("lat"))
		assert.Equal(t, "13.405000", r.URL.Query().Get("lon"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))

		_, _ = w.Write([]byte(`{"address":{"village":"Kleindorf","city":"Berlin","country":"Germany"}}`))
	}))
	defer srv.Close()

	name, err := testClient(srv.URL).ReverseGeocode(context.Background(), 52.52, 13.405)
	require.NoError(t, err)
	assert.Equal(t, "Kleindorf, Germany", name)
}

func TestReverseGeocode_FallbackOrder(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"town before city", `{"address":{"town":"Spandau","city":"Berlin","country":"Germany"}}`, "Spandau, Germany"},
		{"city", `{"address":{"city":"Berlin","country":"Germany"}}`, "Berlin, Germany"},
		{"hamlet last", `{"address":{"hamlet":"Lütjensee","country":"Germany"}}`, "Lütjensee, Germany"},
		{"no place name", `{"address":{"country":"Germany"}}`, "Unknown, Germany"},
		{"no country", `{"address":{"city":"Berlin"}}`, "Berlin"},
		{"empty address", `{"address":{}}`, "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			name, err := testClient(srv.URL).ReverseGeocode(context.Background(), 52.52, 13.405)
			require.NoError(t, err)
			assert.Equal(t, tt.want, name)
		})
	}
}

func TestReverseGeocode_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).ReverseGeocode(context.Background(), 52.52, 13.405)

	var netErr *domain.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, "reverse_geocode", netErr.Provider)
	assert.Equal(t, http.StatusTooManyRequests, netErr.Status)
}

func TestReverseGeocode_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	_, err := testClient(srv.URL).ReverseGeocode(context.Background(), 52.52, 13.405)

	var netErr *domain.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Zero(t, netErr.Status)
}
