package almanac

import (
	"time"

	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/precision"
)

// Event is one resolved rise/set/twilight instant. Missing is set when the
// event does not occur on the date (polar day or night, or a moonless
// crossing) rather than treating that as an error.
type Event struct {
	Time    time.Time
	Missing bool
}

// TwilightPair groups the morning and evening crossing of one twilight
// threshold.
type TwilightPair struct {
	Dawn Event
	Dusk Event
}

// DayAlmanac is the full observing summary for one calendar date at one
// site: solar events, the three twilight pairs, lunar events, and the
// Moon's phase at local midnight.
type DayAlmanac struct {
	Date     time.Time
	Location astro.Location

	Sunrise Event
	Sunset  Event

	Civil        TwilightPair
	Nautical     TwilightPair
	Astronomical TwilightPair

	Moonrise Event
	Moonset  Event
	Phase    astro.MoonPhaseInfo

	// DarkStart and DarkEnd bound the astronomically dark window of the
	// night that begins on Date: astronomical dusk to the following dawn.
	DarkStart Event
	DarkEnd   Event
}

// DayAlmanac computes the observing summary for a calendar date
// (interpreted in UTC) at the given site.
func (e *Engine) DayAlmanac(date time.Time, loc astro.Location, mode precision.Mode) DayAlmanac {
	d := date.UTC()
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)

	da := DayAlmanac{Date: day, Location: loc}

	da.Sunrise = e.solarEvent(day, loc, astro.EventSunrise, mode)
	da.Sunset = e.solarEvent(day, loc, astro.EventSunset, mode)

	da.Civil = e.twilightPair(day, loc, astro.TwilightCivil, mode)
	da.Nautical = e.twilightPair(day, loc, astro.TwilightNautical, mode)
	da.Astronomical = e.twilightPair(day, loc, astro.TwilightAstronomical, mode)

	rs := astro.FindMoonRiseSet(day, loc)
	da.Moonrise = Event{Time: rs.Rise, Missing: !rs.RiseOK}
	da.Moonset = Event{Time: rs.Set, Missing: !rs.SetOK}

	da.Phase = e.MoonPhase(day, mode)

	// Tonight's dark window: this evening's astronomical dusk through
	// tomorrow's astronomical dawn.
	da.DarkStart = da.Astronomical.Dusk
	next := e.twilightEvent(day.Add(24*time.Hour), loc, astro.TwilightAstronomical, astro.EventSunrise, mode)
	da.DarkEnd = next

	return da
}

func (e *Engine) solarEvent(day time.Time, loc astro.Location, ev astro.EventType, mode precision.Mode) Event {
	t, err := e.SunRiseSet(day, loc, ev, mode)
	if err != nil {
		return Event{Missing: true}
	}
	return Event{Time: t}
}

func (e *Engine) twilightEvent(day time.Time, loc astro.Location, tt astro.TwilightType, ev astro.EventType, mode precision.Mode) Event {
	t, err := e.FindTwilight(day, loc, tt, ev, mode)
	if err != nil {
		return Event{Missing: true}
	}
	return Event{Time: t}
}

func (e *Engine) twilightPair(day time.Time, loc astro.Location, tt astro.TwilightType, mode precision.Mode) TwilightPair {
	return TwilightPair{
		Dawn: e.twilightEvent(day, loc, tt, astro.EventSunrise, mode),
		Dusk: e.twilightEvent(day, loc, tt, astro.EventSunset, mode),
	}
}
