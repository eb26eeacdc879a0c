package domain

import "context"

// LocationSearcher finds candidate locations for a free-text query.
// An empty result set is a valid outcome, not an error.
type LocationSearcher interface {
	SearchLocations(ctx context.Context, query string) ([]SearchResult, error)
}

// ForecastFetcher retrieves a fresh forecast bundle for a location.
type ForecastFetcher interface {
	FetchForecast(ctx context.Context, loc Location) (ForecastBundle, error)
}

// ReverseGeocoder resolves coordinates to a human place name.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (string, error)
}

// ChatStreamer streams an assistant reply as incremental text deltas, passed
// to emit strictly in arrival order. A non-nil error from emit aborts the
// stream and is returned as-is.
type ChatStreamer interface {
	StreamChat(ctx context.Context, question, contextSummary string, emit func(delta string) error) error
}
