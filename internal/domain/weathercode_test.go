package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupWeatherCode_KnownCodes(t *testing.T) {
	tests := []struct {
		code        int
		icon        string
		description string
	}{
		{0, "icon-sunny", "Clear sky"},
		{2, "icon-partly-cloudy", "Partly cloudy"},
		{45, "icon-fog", "Fog"},
		{55, "icon-drizzle", "Dense drizzle"},
		{65, "icon-rain", "Heavy rain"},
		{77, "icon-snow", "Snow grains"},
		{82, "icon-drizzle", "Violent rain showers"},
		{99, "icon-storm", "Thunderstorm with heavy hail"},
	}
	for _, tt := range tests {
		got := LookupWeatherCode(tt.code)
		assert.Equal(t, tt.icon, got.IconRef, "code %d", tt.code)
		assert.Equal(t, tt.description, got.Description, "code %d", tt.code)
	}
}

func TestLookupWeatherCode_UnknownFallsBackToClearSky(t *testing.T) {
	clearSky := LookupWeatherCode(0)
	for _, code := range []int{4, 42, 57, 100, 999, -1, -99} {
		assert.Equal(t, clearSky, LookupWeatherCode(code), "code %d", code)
	}
}
