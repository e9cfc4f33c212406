// Package astro implements the dual-precision astronomical calculation core:
// Julian date and sidereal time, Sun and Moon positions, atmospheric
// refraction, equatorial/horizontal coordinate transforms, and twilight
// root-finding. All functions are pure: they take explicit parameters and
// return explicit errors, so the precision dispatch layer above can decide
// what to fall back to.
package astro

import (
	"fmt"
	"math"
)

// Location is an observer position on Earth. Latitude and longitude are in
// radians (north and east positive); elevation is in meters above sea level.
type Location struct {
	LatRad     float64
	LonRad     float64
	ElevationM float64
}

// InvalidInputError reports an out-of-range or malformed input value.
type InvalidInputError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("astro: invalid %s %g: %s", e.Field, e.Value, e.Reason)
}

// NewLocation validates and builds a Location from radians.
func NewLocation(latRad, lonRad, elevationM float64) (Location, error) {
	if math.IsNaN(latRad) || latRad < -math.Pi/2 || latRad > math.Pi/2 {
		return Location{}, &InvalidInputError{Field: "latitude", Value: latRad, Reason: "must be in [-pi/2, pi/2] radians"}
	}
	if math.IsNaN(lonRad) || lonRad < -math.Pi || lonRad > math.Pi {
		return Location{}, &InvalidInputError{Field: "longitude", Value: lonRad, Reason: "must be in [-pi, pi] radians"}
	}
	return Location{LatRad: latRad, LonRad: lonRad, ElevationM: elevationM}, nil
}

// LocationFromDegrees validates and builds a Location from degrees.
func LocationFromDegrees(latDeg, lonDeg, elevationM float64) (Location, error) {
	return NewLocation(DegToRad(latDeg), DegToRad(lonDeg), elevationM)
}

// LatDeg returns the latitude in degrees.
func (l Location) LatDeg() float64 { return RadToDeg(l.LatRad) }

// LonDeg returns the longitude in degrees.
func (l Location) LonDeg() float64 { return RadToDeg(l.LonRad) }

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// Normalize360 wraps an angle into [0, 360) degrees.
func Normalize360(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// Normalize2Pi wraps an angle into [0, 2*pi) radians.
func Normalize2Pi(rad float64) float64 {
	rad = math.Mod(rad, 2*math.Pi)
	if rad < 0 {
		rad += 2 * math.Pi
	}
	return rad
}

// NormalizePi wraps an angle into (-pi, pi] radians. Used for hour angles.
func NormalizePi(rad float64) float64 {
	rad = math.Mod(rad, 2*math.Pi)
	if rad > math.Pi {
		rad -= 2 * math.Pi
	} else if rad <= -math.Pi {
		rad += 2 * math.Pi
	}
	return rad
}

// Clamp1 limits x to [-1, 1]. Arguments of Asin/Acos can overshoot the valid
// range by a few ulps after spherical trig, which would produce NaN.
func Clamp1(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}

// Polynomial evaluates c[0] + c[1]*x + c[2]*x^2 + ... by Horner's rule.
func Polynomial(x float64, c ...float64) float64 {
	if len(c) == 0 {
		return 0
	}
	sum := c[len(c)-1]
	for i := len(c) - 2; i >= 0; i-- {
		sum = sum*x + c[i]
	}
	return sum
}

// AngularSeparation returns the separation between two points on the
// celestial sphere via the spherical law of cosines. Inputs and output in
// radians.
func AngularSeparation(ra1, dec1, ra2, dec2 float64) float64 {
	cosSep := math.Sin(dec1)*math.Sin(dec2) +
		math.Cos(dec1)*math.Cos(dec2)*math.Cos(ra1-ra2)
	return math.Acos(Clamp1(cosSep))
}
