package domain

import (
	"fmt"
	"math"
	"strconv"
)

// Conversion factors from the metric source units.
const (
	kmhPerMph   = 0.621371
	inchesPerMm = 0.0393701
)

// FormatTemperature renders a celsius value in the requested unit, rounded
// to whole degrees and suffixed with a degree mark. NaN is not guarded and
// renders as "NaN°".
func FormatTemperature(celsius float64, unit TemperatureUnit) string {
	if unit == Fahrenheit {
		return fmt.Sprintf("%.0f°", math.Round(celsius*9/5+32))
	}
	return fmt.Sprintf("%.0f°", math.Round(celsius))
}

// FormatWindSpeed renders a km/h value in the requested unit, rounded to a
// whole number with a unit label.
func FormatWindSpeed(kmh float64, unit WindSpeedUnit) string {
	if unit == MilesPerHour {
		return fmt.Sprintf("%.0f mph", math.Round(kmh*kmhPerMph))
	}
	return fmt.Sprintf("%.0f km/h", math.Round(kmh))
}

// FormatPrecipitation renders a millimetre value in the requested unit. The
// inch branch rounds to one decimal; the millimetre branch prints the source
// value unrounded. The asymmetry is intentional.
func FormatPrecipitation(mm float64, unit PrecipitationUnit) string {
	if unit == Inches {
		return strconv.FormatFloat(mm*inchesPerMm, 'f', 1, 64) + " in"
	}
	return strconv.FormatFloat(mm, 'f', -1, 64) + " mm"
}

// FormatHumidity renders a relative-humidity percentage at source precision.
func FormatHumidity(pct float64) string {
	return strconv.FormatFloat(pct, 'f', -1, 64) + "%"
}
