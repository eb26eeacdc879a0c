package domain

import "time"

// Coordinates is a raw WGS-84 latitude/longitude pair, typically reported by
// the browser's geolocation API before it has been resolved to a place name.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Location is a named place the dashboard is showing weather for. It is
// immutable once selected and replaced wholesale on a new selection.
type Location struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// SearchResult is one candidate returned by the geocoding search API.
type SearchResult struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Display units. Raw data is always metric; these only affect formatting.
type (
	TemperatureUnit   string
	WindSpeedUnit     string
	PrecipitationUnit string
)

const (
	Celsius    TemperatureUnit = "celsius"
	Fahrenheit TemperatureUnit = "fahrenheit"

	KilometersPerHour WindSpeedUnit = "kmh"
	MilesPerHour      WindSpeedUnit = "mph"

	Millimeters PrecipitationUnit = "mm"
	Inches      PrecipitationUnit = "in"
)

// UnitPreferences is the user's chosen unit system. Session-only, never
// persisted; a reload resets to metric.
type UnitPreferences struct {
	Temperature   TemperatureUnit   `json:"temperature"`
	WindSpeed     WindSpeedUnit     `json:"wind_speed"`
	Precipitation PrecipitationUnit `json:"precipitation"`
}

// MetricUnits returns the default (metric) unit preferences.
func MetricUnits() UnitPreferences {
	return UnitPreferences{Temperature: Celsius, WindSpeed: KilometersPerHour, Precipitation: Millimeters}
}

// ImperialUnits returns the full imperial unit set.
func ImperialUnits() UnitPreferences {
	return UnitPreferences{Temperature: Fahrenheit, WindSpeed: MilesPerHour, Precipitation: Inches}
}

// CurrentObservation holds the latest reported conditions, raw metric.
type CurrentObservation struct {
	TemperatureC         float64
	ApparentTemperatureC float64
	HumidityPct          float64
	WindSpeedKmh         float64
	WindDirectionDeg     *float64 // nil when the provider omits it
	PrecipitationMm      float64
	WeatherCode          int
}

// HourlySeries is the hourly forecast as parallel, index-aligned sequences.
type HourlySeries struct {
	Time            []time.Time
	TemperatureC    []float64
	WeatherCode     []int
	PrecipitationMm []float64
}

// DailySeries is the 7-day forecast as parallel, index-aligned sequences.
type DailySeries struct {
	Time            []time.Time
	WeatherCode     []int
	TemperatureMaxC []float64
	TemperatureMinC []float64
}

// ForecastBundle is one fetched snapshot of current, hourly, and daily
// weather for a single location. A successful fetch replaces the prior
// bundle entirely; bundles are never merged.
type ForecastBundle struct {
	Current  CurrentObservation
	Hourly   HourlySeries
	Daily    DailySeries
	Location Location
	Timezone *time.Location // the forecast's local zone, from timezone=auto
	Fetched  time.Time
}

// Zone returns the bundle's timezone, defaulting to UTC when unset.
func (b ForecastBundle) Zone() *time.Location {
	if b.Timezone == nil {
		return time.UTC
	}
	return b.Timezone
}

// ChatRole identifies the author of a transcript entry.
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is one turn of the assistant transcript. The transcript is
// append-only and lives for the session only.
type ChatMessage struct {
	Role ChatRole `json:"role"`
	Text string   `json:"text"`
}
