package astro

import (
	"fmt"
	"math"
	"time"
)

// TwilightType selects the solar altitude threshold defining twilight.
type TwilightType int

const (
	TwilightCivil        TwilightType = iota // Sun at -6 degrees
	TwilightNautical                         // Sun at -12 degrees
	TwilightAstronomical                     // Sun at -18 degrees
)

// String returns the twilight type name.
func (tt TwilightType) String() string {
	switch tt {
	case TwilightCivil:
		return "civil"
	case TwilightNautical:
		return "nautical"
	case TwilightAstronomical:
		return "astronomical"
	default:
		return "unknown"
	}
}

// ParseTwilightType parses a twilight type name.
func ParseTwilightType(s string) (TwilightType, error) {
	switch s {
	case "civil":
		return TwilightCivil, nil
	case "nautical":
		return TwilightNautical, nil
	case "astronomical":
		return TwilightAstronomical, nil
	default:
		return TwilightCivil, fmt.Errorf("astro: unknown twilight type %q", s)
	}
}

// TargetAltitudeDeg returns the solar altitude threshold in degrees.
func (tt TwilightType) TargetAltitudeDeg() float64 {
	switch tt {
	case TwilightCivil:
		return -6
	case TwilightNautical:
		return -12
	case TwilightAstronomical:
		return -18
	default:
		return -6
	}
}

// EventType distinguishes the morning and evening crossing of a threshold.
type EventType int

const (
	EventSunrise EventType = iota // Sun ascending through the threshold
	EventSunset                   // Sun descending through the threshold
)

// String returns the event type name.
func (e EventType) String() string {
	if e == EventSunrise {
		return "sunrise"
	}
	return "sunset"
}

// ParseEventType parses an event type name.
func ParseEventType(s string) (EventType, error) {
	switch s {
	case "sunrise":
		return EventSunrise, nil
	case "sunset":
		return EventSunset, nil
	default:
		return EventSunrise, fmt.Errorf("astro: unknown event type %q", s)
	}
}

// HorizonAltitudeDeg is the geometric solar altitude at visual sunrise and
// sunset: 16 arcminutes of solar radius plus 34 arcminutes of refraction.
const HorizonAltitudeDeg = -0.833

// AltitudeFunc returns an altitude in degrees at time t.
type AltitudeFunc func(t time.Time) float64

// Search budgets for the bracket/bisection machinery.
const (
	bracketAttempts   = 5
	bracketExpansion  = 2 * time.Hour
	bisectIterations  = 100
	bisectTolerance   = 30 * time.Second
	bracketSampleStep = 20 * time.Minute
)

// FindAltitudeCrossing locates a time in [start, end] where f crosses
// targetDeg ascending (sunrise-like) or descending (sunset-like). The
// bracket is expanded symmetrically by two hours up to five times before the
// search gives up with ErrNoBracket; bisection then narrows the bracket to
// 30 seconds within 100 iterations, returning the midpoint.
func FindAltitudeCrossing(f AltitudeFunc, start, end time.Time, targetDeg float64, event EventType) (time.Time, error) {
	if !start.Before(end) {
		return time.Time{}, &InvalidInputError{Field: "bracket", Reason: "start must precede end"}
	}

	a, b, found := findBracket(f, start, end, targetDeg, event)
	for attempt := 0; !found && attempt < bracketAttempts; attempt++ {
		start = start.Add(-bracketExpansion)
		end = end.Add(bracketExpansion)
		a, b, found = findBracket(f, start, end, targetDeg, event)
	}
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

		// Keep the half that still straddles the crossing in the wanted
		// direction.
		if crosses(fa, fm, event) {
			b = mid
		} else {
			a = mid
			fa = fm
		}
	}
	if b.Sub(a) < bisectTolerance {
		return a.Add(b.Sub(a) / 2), nil
	}
	return time.Time{}, ErrNoConvergence
}

// findBracket samples [start, end] looking for a directional sign change of
// f - target.
func findBracket(f AltitudeFunc, start, end time.Time, targetDeg float64, event EventType) (time.Time, time.Time, bool) {
	prevT := start
	prevV := f(prevT) - targetDeg

	for t := start.Add(bracketSampleStep); !t.After(end); t = t.Add(bracketSampleStep) {
		v := f(t) - targetDeg
		if crosses(prevV, v, event) {
			return prevT, t, true
		}
		prevT, prevV = t, v
	}
	return time.Time{}, time.Time{}, false
}

// crosses reports whether the interval straddles the threshold in the
// direction the event requires: ascending for sunrise, descending for
// sunset.
func crosses(v1, v2 float64, event EventType) bool {
	if event == EventSunrise {
		return v1 < 0 && v2 >= 0
	}
	return v1 > 0 && v2 <= 0
}

// SunAltitudeFunc builds an AltitudeFunc for the Sun's geometric altitude at
// a location. high selects the precision of the position theory; the
// standard-precision sidereal time is sufficient for root-finding either
// way, since a full second of time moves the Sun under an arcsecond.
func SunAltitudeFunc(loc Location, high bool) AltitudeFunc {
	opts := TransformOptions{IncludeRefraction: false}
	return func(t time.Time) float64 {
		var eq SunEquatorial
		if high {
			var err error
			eq, err = SunPosition(t)
			if err != nil {
				eq = SunPositionStandard(t)
			}
		} else {
			eq = SunPositionStandard(t)
		}
		h, err := ObjectHorizontal(eq.RADeg, eq.DecDeg, loc, t, opts)
		if err != nil {
			return math.NaN()
		}
		return RadToDeg(h.AltGeometricRad)
	}
}

// FindTwilight resolves one twilight event on a calendar date (interpreted in
// UTC) at the given location. For sunset-type events the initial bracket runs
// from local solar noon into the evening; for sunrise-type events from the
// preceding night to local solar noon. Polar day and polar night surface as
// ErrNoBracket.
func FindTwilight(date time.Time, loc Location, tt TwilightType, event EventType, high bool) (time.Time, error) {
	target := tt.TargetAltitudeDeg()
	return findSolarCrossing(date, loc, target, event, high)
}

// FindSunRiseSet resolves visual sunrise or sunset (Sun's upper limb on the
// horizon) on a calendar date.
func FindSunRiseSet(date time.Time, loc Location, event EventType, high bool) (time.Time, error) {
	return findSolarCrossing(date, loc, HorizonAltitudeDeg, event, high)
}

func findSolarCrossing(date time.Time, loc Location, targetDeg float64, event EventType, high bool) (time.Time, error) {
	f := SunAltitudeFunc(loc, high)

	// Approximate local solar noon in UTC for the date.
	d := date.UTC()
	noon := time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, time.UTC).
		Add(-time.Duration(RadToDeg(loc.LonRad) / 15.0 * float64(time.Hour)))

	var start, end time.Time
	if event == EventSunset {
		start = noon
		end = noon.Add(12 * time.Hour)
	} else {
		start = noon.Add(-12 * time.Hour)
		end = noon
	}

	return FindAltitudeCrossing(f, start, end, targetDeg, event)
}
