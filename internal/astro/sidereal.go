package astro

import (
	"math"
	"time"
)

// siderealRate is the ratio of sidereal time to universal time.
const siderealRate = 1.00273790935

// gmstPoly holds the polynomial for GMST at 0h UT in seconds of time, as a
// function of Julian centuries of the preceding midnight since J2000.0.
// The leading coefficients are the IAU 1982 expression; the two highest-order
// terms carry the IAU 2006 secular corrections.
var gmstPoly = []float64{
	24110.54841,
	8640184.812866,
	0.093104,
	-6.2e-6,
	-2.0e-6,
	-2.45e-9,
}

// GreenwichSiderealTime returns GMST in degrees using the IAU 1982 low-order
// formula. This is the standard-precision path; accuracy is a fraction of a
// second of time over several centuries around J2000.
func GreenwichSiderealTime(t time.Time) float64 {
	jd := JulianDate(t)
	T := (jd - J2000) / 36525.0

	gmst := 280.46061837 +
		360.98564736629*(jd-J2000) +
		0.000387933*T*T -
		T*T*T/38710000.0

	return Normalize360(gmst)
}

// LocalSiderealTime returns the local sidereal time in radians [0, 2*pi) for
// an observer longitude in radians, using the standard-precision GMST.
func LocalSiderealTime(t time.Time, lonRad float64) float64 {
	lst := DegToRad(GreenwichSiderealTime(t)) + lonRad
	return Normalize2Pi(lst)
}

// GreenwichSiderealTimeHP returns GMST in degrees from the seconds-of-time
// polynomial evaluated at the preceding UT midnight, plus the elapsed UT
// seconds scaled by the sidereal rate. Sub-second accuracy across the
// supported year range.
func GreenwichSiderealTimeHP(t time.Time) (float64, error) {
	t = t.UTC()
	if y := t.Year(); y < 1000 || y > 3000 {
		return 0, &PrecisionError{Op: "sidereal", Err: ErrTimeOutOfRange}
	}

	jd := JulianDate(t)

	// Julian Date of the preceding 0h UT and centuries since J2000.0.
	jd0 := math.Floor(jd-0.5) + 0.5
	T := (jd0 - J2000) / 36525.0

	gmstSec := Polynomial(T, gmstPoly...)

	// UT seconds elapsed since 0h, scaled to sidereal seconds.
	utSec := (jd - jd0) * 86400.0
	gmstSec += siderealRate * utSec

	gmstHours := math.Mod(gmstSec/3600.0, 24)
	if gmstHours < 0 {
		gmstHours += 24
	}
	return gmstHours * 15.0, nil
}

// LocalSiderealTimeHP is the high-precision counterpart of LocalSiderealTime.
// Internally it works in hours (GMST hours plus longitude/15), then converts
// to radians for return-type parity with the standard path.
func LocalSiderealTimeHP(t time.Time, lonRad float64) (float64, error) {
	gmstDeg, err := GreenwichSiderealTimeHP(t)
	if err != nil {
		return 0, err
	}
	lstHours := math.Mod(gmstDeg/15.0+RadToDeg(lonRad)/15.0, 24)
	if lstHours < 0 {
		lstHours += 24
	}
	return Normalize2Pi(lstHours * 15.0 * math.Pi / 180.0), nil
}
