package astro

import (
	"math"
	"time"
)

// J2000 is the Julian Date of the standard epoch J2000.0 (2000-01-01 12:00 TT,
// treated as UTC here; the engine does not model TT-UTC offsets).
const J2000 = 2451545.0

// JulianDate returns the Julian Date for a time. The input is converted to
// UTC first; naive callers passing local times get UTC semantics.
func JulianDate(t time.Time) float64 {
	t = t.UTC()

	y := float64(t.Year())
	m := float64(t.Month())
	d := float64(t.Day())

	dayFrac := (float64(t.Hour()) +
		float64(t.Minute())/60 +
		float64(t.Second())/3600 +
		float64(t.Nanosecond())/3600e9) / 24.0

	// January and February count as months 13 and 14 of the previous year.
	if m <= 2 {
		y--
		m += 12
	}

	// Gregorian calendar correction
	a := math.Floor(y / 100)
	b := 2 - a + math.Floor(a/4)

	return math.Floor(365.25*(y+4716)) +
		math.Floor(30.6001*(m+1)) +
		d + dayFrac + b - 1524.5
}

// JulianCenturies returns Julian centuries since J2000.0.
func JulianCenturies(t time.Time) float64 {
	return (JulianDate(t) - J2000) / 36525.0
}

// DaysSinceJ2000 returns fractional days since the J2000.0 epoch.
func DaysSinceJ2000(t time.Time) float64 {
	return JulianDate(t) - J2000
}
