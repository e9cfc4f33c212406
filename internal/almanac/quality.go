package almanac

import (
	"math"
	"time"

	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/precision"
)

// SkyQuality summarizes how favorable the sky is for deep-sky imaging at an
// instant, combining solar depression, lunar altitude, and lunar phase into
// a single score plus human-readable guidance.
type SkyQuality struct {
	SunAltDeg  float64
	MoonAltDeg float64
	MoonIllum  float64

	// Score is 0 (unusable, Sun up) to 100 (astronomically dark, no Moon).
	Score int

	// Rating is one of "daylight", "twilight", "moonlit", "good", "excellent".
	Rating string

	// Guidance is a one-line exposure suggestion for the conditions.
	Guidance string
}

// SkyQuality evaluates observing conditions at an instant and site.
func (e *Engine) SkyQuality(t time.Time, loc astro.Location, mode precision.Mode) (SkyQuality, error) {
	sunEq := e.SunEquatorial(t, mode)
	moonEq := e.MoonEquatorial(t, mode)
	lst := e.LocalSiderealTime(t, loc.LonRad, mode)

	opts := astro.TransformOptions{IncludeRefraction: false}
	sunH, err := astro.EquatorialToHorizontal(sunEq.RADeg, sunEq.DecDeg, loc, lst, opts)
	if err != nil {
		return SkyQuality{}, err
	}
	moonH, err := astro.EquatorialToHorizontal(moonEq.RADeg, moonEq.DecDeg, loc, lst, opts)
	if err != nil {
		return SkyQuality{}, err
	}

	phase := e.MoonPhase(t, mode)

	q := SkyQuality{
		SunAltDeg:  sunH.AltDeg(),
		MoonAltDeg: moonH.AltDeg(),
		MoonIllum:  phase.Illumination,
	}
	q.Score = skyScore(q.SunAltDeg, q.MoonAltDeg, q.MoonIllum)
	q.Rating, q.Guidance = skyGuidance(q.SunAltDeg, q.MoonAltDeg, q.MoonIllum, q.Score)
	return q, nil
}

// skyScore maps conditions to [0, 100]. The solar term dominates: any
// daylight zeroes the score, and twilight scales it linearly down to the
// astronomical threshold. Moonlight then subtracts in proportion to
// illuminated fraction and altitude.
func skyScore(sunAltDeg, moonAltDeg, illum float64) int {
	if sunAltDeg >= 0 {
		return 0
	}

	solar := 1.0
	if sunAltDeg > -18 {
		solar = -sunAltDeg / 18
	}

	lunar := 0.0
	if moonAltDeg > 0 {
		// Altitude weighting saturates around 30 degrees; a full Moon high
		// in the sky costs roughly 60 points.
		altW := math.Min(moonAltDeg/30, 1)
		lunar = 0.6 * illum * altW
	}

	s := 100 * solar * (1 - lunar)
	if s < 0 {
		s = 0
	}
	return int(math.Round(s))
}

func skyGuidance(sunAltDeg, moonAltDeg, illum float64, score int) (rating, guidance string) {
	switch {
	case sunAltDeg >= 0:
		return "daylight", "sun above horizon; solar observation only (with proper filtering)"
	case sunAltDeg > -18:
		return "twilight", "sky still bright; bright planets, double stars, and the Moon"
	case moonAltDeg > 0 && illum > 0.6:
		return "moonlit", "strong moonlight; narrowband imaging or lunar/planetary targets"
	case score >= 85:
		return "excellent", "fully dark; long broadband exposures on faint targets"
	default:
		return "good", "dark sky with some moonlight; favor brighter deep-sky targets"
	}
}
