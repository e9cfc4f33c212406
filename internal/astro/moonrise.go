package astro

import (
	"math"
	"time"
)

// moonHorizonAltitudeDeg returns the geometric altitude of the Moon's center
// at which the upper limb sits on the horizon, combining refraction, the
// angular radius, and horizontal parallax. All three scale with distance, so
// the threshold tightens when the Moon is near perigee.
func moonHorizonAltitudeDeg(distanceKm float64) float64 {
	const (
		earthRadiusKm = 6378.14
		moonRadiusKm  = 1737.4
		refractionDeg = 0.566 // mean refraction at the horizon
	)
	if distanceKm <= earthRadiusKm {
		return -0.9
	}

	parallax := RadToDeg(math.Asin(earthRadiusKm / distanceKm))
	semiDiameter := RadToDeg(math.Asin(moonRadiusKm / distanceKm))

	// Parallax raises the geometric threshold (the Moon is close enough that
	// the topocentric altitude is visibly lower than the geocentric one);
	// refraction and the limb lower it.
	return parallax - refractionDeg - semiDiameter
}

// MoonAltitudeFunc builds an AltitudeFunc for the Moon's geocentric altitude
// minus the distance-dependent horizon threshold, so rise and set are plain
// zero crossings.
func MoonAltitudeFunc(loc Location) AltitudeFunc {
	opts := TransformOptions{IncludeRefraction: false}
	return func(t time.Time) float64 {
		eq, err := MoonPosition(t)
		if err != nil {
			eq = MoonPositionStandard(t)
		}
		h, err := ObjectHorizontal(eq.RADeg, eq.DecDeg, loc, t, opts)
		if err != nil {
			return math.NaN()
		}
		return RadToDeg(h.AltGeometricRad) - moonHorizonAltitudeDeg(eq.DistanceKm)
	}
}

// MoonRiseSet holds the Moon's rise and set for one calendar date. Either
// event can be absent: the Moon skips a rise or set on roughly one day per
// lunation, and can stay up or down for days at polar latitudes.
type MoonRiseSet struct {
	Rise   time.Time
	Set    time.Time
	RiseOK bool
	SetOK  bool
}

// FindMoonRiseSet locates the Moon's rise and set on a calendar date
// (interpreted in UTC) at the given location.
func FindMoonRiseSet(date time.Time, loc Location) MoonRiseSet {
	d := date.UTC()
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	f := MoonAltitudeFunc(loc)

	var rs MoonRiseSet
	if t, err := findCrossingNoExpand(f, start, end, 0, EventSunrise); err == nil {
		rs.Rise, rs.RiseOK = t, true
	}
	if t, err := findCrossingNoExpand(f, start, end, 0, EventSunset); err == nil {
		rs.Set, rs.SetOK = t, true
	}
	return rs
}

// findCrossingNoExpand is FindAltitudeCrossing without bracket expansion:
// the Moon legitimately has no rise or set on some dates, and widening the
// window would return an event from the wrong day.
func findCrossingNoExpand(f AltitudeFunc, start, end time.Time, targetDeg float64, event EventType) (time.Time, error) {
	a, b, found := findBracket(f, start, end, targetDeg, event)
	if !found {
		return time.Time{}, ErrNoBracket
	}

	fa := f(a) - targetDeg
	for i := 0; i < bisectIterations; i++ {
		if b.Sub(a) < bisectTolerance {
			return a.Add(b.Sub(a) / 2), nil
		}
		mid := a.Add(b.Sub(a) / 2)
		fm := f(mid) - targetDeg
		if crosses(fa, fm, event) {
			b = mid
		} else {
			a = mid
			fa = fm
		}
	}
	return time.Time{}, ErrNoConvergence
}
