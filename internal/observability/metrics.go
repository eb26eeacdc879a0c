package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// dashboard service.
type Metrics struct {
	// Outbound provider calls.
	ProviderRequests *prometheus.CounterVec   // labels: provider={geocoding,forecast,reverse_geocode}, outcome={success,error,empty}
	ProviderDuration *prometheus.HistogramVec // labels: provider

	// Forecast loading.
	ForecastLoads  *prometheus.CounterVec // labels: outcome={success,error}
	StaleDiscarded *prometheus.CounterVec // labels: kind={search,forecast}

	// Geocode caching.
	GeocodeCache *prometheus.CounterVec // labels: kind={search,reverse}, result={hit,miss}

	// Assistant chat.
	ChatStreams      *prometheus.CounterVec // labels: outcome={success,unavailable,truncated}
	AssistantEnabled prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ProviderRequests,
		m.ProviderDuration,
		m.ForecastLoads,
		m.StaleDiscarded,
		m.GeocodeCache,
		m.ChatStreams,
		m.AssistantEnabled,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_dashboard",
			Name:      "provider_requests_total",
			Help:      "Outbound provider requests by provider and outcome.",
		}, []string{"provider", "outcome"}),
		ProviderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "weather_dashboard",
			Name:      "provider_request_duration_seconds",
			Help:      "Outbound provider request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"provider"}),
		ForecastLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_dashboard",
			Name:      "forecast_loads_total",
			Help:      "Forecast load attempts by outcome.",
		}, []string{"outcome"}),
		StaleDiscarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_dashboard",
			Name:      "stale_responses_discarded_total",
			Help:      "Responses discarded because a newer request superseded them.",
		}, []string{"kind"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_dashboard",
			Name:      "geocode_cache_total",
			Help:      "Geocode cache lookups by kind and result.",
		}, []string{"kind", "result"}),
		ChatStreams: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_dashboard",
			Name:      "chat_streams_total",
			Help:      "Assistant chat streams by outcome.",
		}, []string{"outcome"}),
		AssistantEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_dashboard",
			Name:      "assistant_enabled",
			Help:      "1 when the chat assistant is configured, 0 otherwise.",
		}),
	}
}
