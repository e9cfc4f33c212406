package astro

import (
	"math"
	"time"
)

// SunEquatorial is the geocentric equatorial position of the Sun.
type SunEquatorial struct {
	RADeg      float64 // right ascension, degrees [0, 360)
	DecDeg     float64 // declination, degrees
	DistanceAU float64 // Earth-Sun distance, astronomical units
}

// SunPosition computes the apparent equatorial position of the Sun using the
// Meeus low-order theory: mean longitude, equation of center, radius vector
// from the eccentricity series, and obliquity corrected for nutation via the
// lunar node term. Design accuracy is a couple of arcseconds near the present
// era.
func SunPosition(t time.Time) (SunEquatorial, error) {
	t = t.UTC()
	if y := t.Year(); y < 1000 || y > 3000 {
		return SunEquatorial{}, &PrecisionError{Op: "sun", Err: ErrTimeOutOfRange}
	}

	T := JulianCenturies(t)

	// Mean longitude and mean anomaly of the Sun (degrees).
	L0 := Normalize360(Polynomial(T, 280.46646, 36000.76983, 0.0003032))
	M := Normalize360(Polynomial(T, 357.52911, 35999.05029, -0.0001537))
	Mrad := DegToRad(M)

	// Equation of center (degrees).
	C := (1.914602-0.004817*T-0.000014*T*T)*math.Sin(Mrad) +
		(0.019993-0.000101*T)*math.Sin(2*Mrad) +
		0.000289*math.Sin(3*Mrad)

	// True longitude and true anomaly.
	sunLon := L0 + C
	nu := M + C

	// Radius vector in AU from the eccentricity of Earth's orbit.
	e := Polynomial(T, 0.016708634, -0.000042037, -0.0000001267)
	R := (1.000001018 * (1 - e*e)) / (1 + e*math.Cos(DegToRad(nu)))

	// Apparent longitude: aberration plus nutation via the longitude of the
	// ascending node of the Moon.
	omega := 125.04 - 1934.136*T
	sunLonApp := sunLon - 0.00569 - 0.00478*math.Sin(DegToRad(omega))

	// Obliquity of the ecliptic, mean plus the nutation correction.
	eps0 := Polynomial(T, 23.439291, -0.0130042, -0.00000016, 0.000000504)
	eps := eps0 + 0.00256*math.Cos(DegToRad(omega))

	lonRad := DegToRad(sunLonApp)
	epsRad := DegToRad(eps)

	ra := math.Atan2(math.Cos(epsRad)*math.Sin(lonRad), math.Cos(lonRad))
	dec := math.Asin(Clamp1(math.Sin(epsRad) * math.Sin(lonRad)))

	return SunEquatorial{
		RADeg:      Normalize360(RadToDeg(ra)),
		DecDeg:     RadToDeg(dec),
		DistanceAU: R,
	}, nil
}

// SunPositionStandard computes the Sun's equatorial position from the
// day-number formulation. It is materially coarser (~2 arcminutes) than
// SunPosition but depends only on a handful of terms, so it serves as the
// fallback when the high-precision path reports an error.
func SunPositionStandard(t time.Time) SunEquatorial {
	n := DaysSinceJ2000(t)

	// Mean longitude and mean anomaly (degrees).
	L := Normalize360(280.460 + 0.9856474*n)
	g := Normalize360(357.528 + 0.9856003*n)
	gRad := DegToRad(g)

	// Ecliptic longitude with the two dominant perturbation terms.
	lambda := L + 1.915*math.Sin(gRad) + 0.020*math.Sin(2*gRad)
	lambdaRad := DegToRad(lambda)

	// Distance in AU from the same anomaly terms.
	R := 1.00014 - 0.01671*math.Cos(gRad) - 0.00014*math.Cos(2*gRad)

	// Obliquity with the slow secular drift only.
	eps := DegToRad(23.439 - 0.0000004*n)

	ra := math.Atan2(math.Cos(eps)*math.Sin(lambdaRad), math.Cos(lambdaRad))
	dec := math.Asin(Clamp1(math.Sin(eps) * math.Sin(lambdaRad)))

	return SunEquatorial{
		RADeg:      Normalize360(RadToDeg(ra)),
		DecDeg:     RadToDeg(dec),
		DistanceAU: R,
	}
}

// SunEclipticLongitude returns the Sun's true ecliptic longitude in degrees.
// Used by the standard moon-phase path, which compares ecliptic longitudes
// directly instead of going through equatorial coordinates.
func SunEclipticLongitude(t time.Time) float64 {
	T := JulianCenturies(t)

	L0 := Polynomial(T, 280.46646, 36000.76983, 0.0003032)
	M := Normalize360(Polynomial(T, 357.52911, 35999.05029, -0.0001537))
	Mrad := DegToRad(M)

	C := (1.914602-0.004817*T-0.000014*T*T)*math.Sin(Mrad) +
		(0.019993-0.000101*T)*math.Sin(2*Mrad) +
		0.000289*math.Sin(3*Mrad)

	return Normalize360(L0 + C)
}
