// Package domain models a single-location weather dashboard session.
//
// # Data Source
//
// Forecast data comes from the Open-Meteo forecast API and its geocoding
// search API; place names for raw coordinates come from the OSM Nominatim
// reverse-geocoding API. All three are free JSON-over-HTTP services with no
// authentication. The forecast response carries parallel arrays: a "time"
// sequence plus one value sequence per requested field, index-aligned.
// Series in this package preserve that shape — every slice in an
// HourlySeries or DailySeries has identical length and index-aligned meaning.
//
// # Units
//
// Providers always report metric: celsius, km/h, millimetres. Raw values are
// stored metric and converted only at presentation time, so switching display
// units never requires a new fetch:
//
//	fahrenheit = round(celsius × 9/5 + 32)
//	mph        = round(kmh × 0.621371)
//	inches     = mm × 0.0393701, one decimal
//
// Temperature and wind round to whole numbers; millimetre precipitation is
// printed at source precision, unrounded. The asymmetry is deliberate and
// covered by tests. NaN input is not guarded and renders as "NaN°" / "NaN mm".
//
// # Weather codes
//
// Conditions are WMO weather interpretation codes (0 = clear sky through
// 99 = thunderstorm with heavy hail). Only the codes Open-Meteo actually
// emits are cataloged; anything else falls back to the code-0 entry. See
// [LookupWeatherCode].
//
// # Timezones
//
// Forecasts are requested in the location's own timezone (timezone=auto), so
// "today", "the current hour", and day boundaries are all evaluated in the
// bundle's zone, never the server's. The package-level clock ([SetClock])
// supplies "now" and is swappable in tests.
package domain
