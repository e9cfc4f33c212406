package astro

import (
	"math"
	"time"
)

// Horizontal is an observer-relative position. Angles are in radians:
// altitude in [-pi/2, pi/2], azimuth in [0, 2*pi) with North = 0 and
// East = pi/2.
type Horizontal struct {
	AltRad          float64
	AzRad           float64
	AltGeometricRad float64 // altitude before the refraction correction
	HourAngleRad    float64 // in (-pi, pi], west positive
	AirMass         float64 // relative atmospheric path length
	AirMassOK       bool    // false below the horizon, where air mass is undefined
}

// AltDeg returns the refracted altitude in degrees.
func (h Horizontal) AltDeg() float64 { return RadToDeg(h.AltRad) }

// AzDeg returns the azimuth in degrees [0, 360).
func (h Horizontal) AzDeg() float64 { return RadToDeg(h.AzRad) }

// TransformOptions controls the equatorial/horizontal conversion.
type TransformOptions struct {
	IncludeRefraction bool
	Conditions        Conditions
	Model             RefractionModel
}

// DefaultTransformOptions applies Bennett refraction at the standard
// atmosphere.
func DefaultTransformOptions() TransformOptions {
	return TransformOptions{
		IncludeRefraction: true,
		Conditions:        StandardConditions,
		Model:             RefractionBennett,
	}
}

// zenithCosFloor is the cos(altitude) below which the azimuth denominator is
// numerically meaningless; azimuth is reported as due North there.
const zenithCosFloor = 1e-10

// EquatorialToHorizontal converts RA/Dec in degrees to horizontal
// coordinates for an observer, using the supplied local sidereal time in
// radians. Declination outside [-90, 90] is rejected; RA is wrapped.
func EquatorialToHorizontal(raDeg, decDeg float64, loc Location, lstRad float64, opts TransformOptions) (Horizontal, error) {
	if decDeg < -90 || decDeg > 90 || math.IsNaN(decDeg) {
		return Horizontal{}, &InvalidInputError{Field: "declination", Value: decDeg, Reason: "must be in [-90, 90] degrees"}
	}

	ra := DegToRad(Normalize360(raDeg))
	dec := DegToRad(decDeg)
	lat := loc.LatRad

	ha := NormalizePi(lstRad - ra)

	sinAlt := math.Sin(dec)*math.Sin(lat) + math.Cos(dec)*math.Cos(lat)*math.Cos(ha)
	alt := math.Asin(Clamp1(sinAlt))

	var az float64
	if math.Cos(alt) < zenithCosFloor {
		// At the zenith every azimuth is equivalent; report due North.
		az = 0
	} else {
		// Atan2 form measured from South, then rotated into the
		// astronomical convention (North = 0, East = pi/2).
		az = math.Atan2(math.Sin(ha), math.Cos(ha)*math.Sin(lat)-math.Tan(dec)*math.Cos(lat))
		az = Normalize2Pi(az + math.Pi)
	}

	h := Horizontal{
		AltRad:          alt,
		AzRad:           az,
		AltGeometricRad: alt,
		HourAngleRad:    ha,
	}

	if opts.IncludeRefraction {
		altDeg := RadToDeg(alt)
		if altDeg > opts.Model.floorDeg() {
			h.AltRad = alt + DegToRad(Refraction(altDeg, opts.Conditions, opts.Model))
			if h.AltRad > math.Pi/2 {
				h.AltRad = math.Pi / 2
			}
		}
	}

	if h.AltRad > 0 {
		h.AirMass = AirMass(h.AltRad)
		h.AirMassOK = true
	}

	return h, nil
}

// HorizontalToEquatorial inverts the transform: it removes the refraction
// correction from the apparent altitude, then recovers declination, hour
// angle, and finally RA from the local sidereal time. Returns RA/Dec in
// degrees.
func HorizontalToEquatorial(altRad, azRad float64, loc Location, lstRad float64, opts TransformOptions) (raDeg, decDeg float64, err error) {
	if altRad < -math.Pi/2 || altRad > math.Pi/2 || math.IsNaN(altRad) {
		return 0, 0, &InvalidInputError{Field: "altitude", Value: altRad, Reason: "must be in [-pi/2, pi/2] radians"}
	}

	alt := altRad
	if opts.IncludeRefraction {
		altDeg := RadToDeg(alt)
		if altDeg > opts.Model.floorDeg() {
			alt -= DegToRad(Refraction(altDeg, opts.Conditions, opts.Model))
		}
	}

	// Work with azimuth measured from South, undoing the North-zero rotation
	// applied in the forward direction.
	aS := azRad - math.Pi
	lat := loc.LatRad

	sinDec := math.Sin(lat)*math.Sin(alt) - math.Cos(lat)*math.Cos(alt)*math.Cos(aS)
	dec := math.Asin(Clamp1(sinDec))

	ha := math.Atan2(
		math.Sin(aS)*math.Cos(alt),
		math.Cos(aS)*math.Cos(alt)*math.Sin(lat)+math.Sin(alt)*math.Cos(lat),
	)

	ra := Normalize2Pi(lstRad - ha)
	return RadToDeg(ra), RadToDeg(dec), nil
}

// kastenYoungZDeg is the zenith distance beyond which the plain secant
// formula overestimates air mass and the Kasten-Young fit takes over.
const kastenYoungZDeg = 80.0

// AirMass returns the relative atmospheric path length for an altitude in
// radians above the horizon. Secant of the zenith distance near the zenith,
// Kasten-Young (1989) at low altitude.
func AirMass(altRad float64) float64 {
	zDeg := 90 - RadToDeg(altRad)
	zRad := DegToRad(zDeg)

	if zDeg < kastenYoungZDeg {
		return 1 / math.Cos(zRad)
	}
	return 1 / (math.Cos(zRad) + 0.50572*math.Pow(96.07995-zDeg, -1.6364))
}

// ObjectHorizontal is a convenience wrapper: equatorial position plus time
// and observer to horizontal coordinates, using standard-precision sidereal
// time.
func ObjectHorizontal(raDeg, decDeg float64, loc Location, t time.Time, opts TransformOptions) (Horizontal, error) {
	lst := LocalSiderealTime(t, loc.LonRad)
	return EquatorialToHorizontal(raDeg, decDeg, loc, lst, opts)
}
