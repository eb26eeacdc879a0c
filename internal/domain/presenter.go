package domain

import (
	"fmt"
	"math"
	"time"
)

// nextHoursWindow is how many hourly entries the dashboard shows at once.
const nextHoursWindow = 8

// sunFirstWeekdays indexes weekday labels the way time.Weekday does,
// Sunday first.
var sunFirstWeekdays = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// CurrentConditions is the formatted view of the latest observation.
type CurrentConditions struct {
	Temperature   string `json:"temperature"`
	FeelsLike     string `json:"feels_like"`
	Humidity      string `json:"humidity"`
	Wind          string `json:"wind"`
	WindDirection string `json:"wind_direction,omitempty"`
	Precipitation string `json:"precipitation"`
	Icon          string `json:"icon"`
	Description   string `json:"description"`
}

// DailyCard is one tile of the 7-day strip.
type DailyCard struct {
	DayLabel string `json:"day"`
	Icon     string `json:"icon"`
	MaxTemp  string `json:"max_temp"`
	MinTemp  string `json:"min_temp"`
}

// HourlyEntry is one row of the hourly list.
type HourlyEntry struct {
	Time string `json:"time"`
	Icon string `json:"icon"`
	Temp string `json:"temp"`
}

// CurrentView formats the bundle's current observation in the given units.
func CurrentView(b ForecastBundle, units UnitPreferences) CurrentConditions {
	cond := LookupWeatherCode(b.Current.WeatherCode)
	view := CurrentConditions{
		Temperature:   FormatTemperature(b.Current.TemperatureC, units.Temperature),
		FeelsLike:     FormatTemperature(b.Current.ApparentTemperatureC, units.Temperature),
		Humidity:      FormatHumidity(b.Current.HumidityPct),
		Wind:          FormatWindSpeed(b.Current.WindSpeedKmh, units.WindSpeed),
		Precipitation: FormatPrecipitation(b.Current.PrecipitationMm, units.Precipitation),
		Icon:          cond.IconRef,
		Description:   cond.Description,
	}
	if b.Current.WindDirectionDeg != nil {
		view.WindDirection = fmt.Sprintf("%.0f°", math.Round(*b.Current.WindDirectionDeg))
	}
	return view
}

// DailyView derives the 7-day strip. Day labels are computed as
// (today's weekday + index) mod 7 against a Sunday-first table; the series'
// own date strings are never consulted for labeling.
func DailyView(b ForecastBundle, units UnitPreferences) []DailyCard {
	today := int(clock.Now().In(b.Zone()).Weekday())

	n := min(len(b.Daily.Time), 7)
	cards := make([]DailyCard, 0, n)
	for i := 0; i < n; i++ {
		cond := LookupWeatherCode(b.Daily.WeatherCode[i])
		cards = append(cards, DailyCard{
			DayLabel: sunFirstWeekdays[(today+i)%7],
			Icon:     cond.IconRef,
			MaxTemp:  FormatTemperature(b.Daily.TemperatureMaxC[i], units.Temperature),
			MinTemp:  FormatTemperature(b.Daily.TemperatureMinC[i], units.Temperature),
		})
	}
	return cards
}

// NextHoursView slices up to 8 entries from the hourly series starting at
// the current local hour. The series starts at local midnight of day zero,
// so the current hour doubles as the starting index. No wraparound: fewer
// than 8 entries come back when the series runs out.
func NextHoursView(b ForecastBundle, units UnitPreferences) []HourlyEntry {
	start := clock.Now().In(b.Zone()).Hour()
	if start >= len(b.Hourly.Time) {
		return nil
	}
	end := min(start+nextHoursWindow, len(b.Hourly.Time))

	entries := make([]HourlyEntry, 0, end-start)
	for i := start; i < end; i++ {
		entries = append(entries, hourlyEntryAt(b, units, i))
	}
	return entries
}

// DayHoursView filters the hourly series to entries within the local
// calendar day today+dayIndex and returns the first 8. A dayIndex outside
// the fetched range yields an empty result, not an error.
func DayHoursView(b ForecastBundle, units UnitPreferences, dayIndex int) []HourlyEntry {
	now := clock.Now().In(b.Zone())
	day := now.AddDate(0, 0, dayIndex)
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, b.Zone())
	// Next midnight via the calendar, not +24h: DST days are 23 or 25 hours.
	dayEnd := time.Date(day.Year(), day.Month(), day.Day()+1, 0, 0, 0, 0, b.Zone()).Add(-time.Millisecond)

	var entries []HourlyEntry
	for i, ts := range b.Hourly.Time {
		if ts.Before(dayStart) || ts.After(dayEnd) {
			continue
		}
		entries = append(entries, hourlyEntryAt(b, units, i))
		if len(entries) == nextHoursWindow {
			break
		}
	}
	return entries
}

func hourlyEntryAt(b ForecastBundle, units UnitPreferences, i int) HourlyEntry {
	return HourlyEntry{
		Time: FormatHour(b.Hourly.Time[i].In(b.Zone()).Hour()),
		Icon: LookupWeatherCode(b.Hourly.WeatherCode[i]).IconRef,
		Temp: FormatTemperature(b.Hourly.TemperatureC[i], units.Temperature),
	}
}

// FormatHour renders an hour of day in 12-hour notation: "12 AM", "3 PM".
func FormatHour(hour int) string {
	switch {
	case hour == 0:
		return "12 AM"
	case hour < 12:
		return fmt.Sprintf("%d AM", hour)
	case hour == 12:
		return "12 PM"
	default:
		return fmt.Sprintf("%d PM", hour-12)
	}
}

// FormatDate renders a date the way the dashboard header shows it,
// e.g. "Tuesday, Aug 26, 2025".
func FormatDate(t time.Time) string {
	return t.Format("Monday, Jan 2, 2006")
}
