// Package almanac is the dispatch layer over the calculation core. The
// Engine decides per call whether the high-precision or standard formula
// variant runs, converts high-precision failures into logged fallbacks, and
// memoizes expensive results through the bounded cache. It also builds the
// per-date observing almanac the UI and headless modes present.
package almanac

import (
	"time"

	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/cache"
	"github.com/litescript/ls-almanac/internal/logging"
	"github.com/litescript/ls-almanac/internal/observer"
	"github.com/litescript/ls-almanac/internal/precision"
)

// Engine is the precision-dispatching front door to the calculation core.
// Construct one per logical session with New; the zero value is not usable.
type Engine struct {
	session  *precision.Session
	sink     logging.Sink
	provider observer.Provider

	conditions astro.Conditions
	model      astro.RefractionModel

	twilightCache *cache.Cache[time.Time]
	sunCache      *cache.Cache[astro.SunEquatorial]
	moonCache     *cache.Cache[astro.MoonEquatorial]
	tick          time.Duration

	// High-precision entry points, swappable in tests to exercise the
	// fallback contract.
	hpSidereal func(time.Time, float64) (float64, error)
	hpSun      func(time.Time) (astro.SunEquatorial, error)
	hpMoon     func(time.Time) (astro.MoonEquatorial, error)
	hpPhase    func(time.Time) (astro.MoonPhaseInfo, error)
}

// Options configures an Engine.
type Options struct {
	Session    *precision.Session
	Sink       logging.Sink
	Provider   observer.Provider
	Conditions astro.Conditions
	Model      astro.RefractionModel

	// CacheMaxEntries bounds each internal cache; CacheEnabled=false turns
	// memoization off entirely.
	CacheEnabled    bool
	CacheMaxEntries int

	// Tick is the time granularity of cache keys; zero selects one second.
	Tick time.Duration
}

// DefaultOptions returns an engine configuration with auto precision, the
// standard atmosphere, Bennett refraction, and caching on.
func DefaultOptions() Options {
	return Options{
		Session:         precision.NewSession(precision.DefaultConfig()),
		Sink:            logging.Discard(),
		Conditions:      astro.StandardConditions,
		Model:           astro.RefractionBennett,
		CacheEnabled:    true,
		CacheMaxEntries: cache.DefaultMaxEntries,
	}
}

// New builds an Engine. Nil session or sink fall back to defaults; a nil
// provider is allowed as long as no default-location operation is used.
func New(opts Options) (*Engine, error) {
	if opts.Session == nil {
		opts.Session = precision.NewSession(precision.DefaultConfig())
	}
	if opts.Sink == nil {
		opts.Sink = logging.Discard()
	}
	if opts.Tick <= 0 {
		opts.Tick = cache.DefaultTick
	}

	e := &Engine{
		session:    opts.Session,
		sink:       opts.Sink,
		provider:   opts.Provider,
		conditions: opts.Conditions,
		model:      opts.Model,
		tick:       opts.Tick,

		hpSidereal: astro.LocalSiderealTimeHP,
		hpSun:      astro.SunPosition,
		hpMoon:     astro.MoonPosition,
		hpPhase:    astro.MoonPhase,
	}

	if opts.CacheEnabled {
		var err error
		if e.twilightCache, err = cache.New[time.Time](opts.CacheMaxEntries); err != nil {
			return nil, err
		}
		if e.sunCache, err = cache.New[astro.SunEquatorial](opts.CacheMaxEntries); err != nil {
			return nil, err
		}
		if e.moonCache, err = cache.New[astro.MoonEquatorial](opts.CacheMaxEntries); err != nil {
			return nil, err
		}
	} else {
		e.twilightCache = cache.Disabled[time.Time]()
		e.sunCache = cache.Disabled[astro.SunEquatorial]()
		e.moonCache = cache.Disabled[astro.MoonEquatorial]()
	}

	return e, nil
}

// Session exposes the engine's precision session, e.g. for scoped overrides.
func (e *Engine) Session() *precision.Session { return e.session }

// Conditions returns the atmospheric conditions the engine applies.
func (e *Engine) Conditions() astro.Conditions { return e.conditions }

// Model returns the refraction model the engine applies.
func (e *Engine) Model() astro.RefractionModel { return e.model }

// DefaultLocation resolves the injected default observing site.
func (e *Engine) DefaultLocation() astro.Location {
	if e.provider == nil {
		return astro.Location{}
	}
	return e.provider.Location()
}

// fallback reports a high-precision failure to the sink.
func (e *Engine) fallback(component string, err error) {
	e.sink.Fallback(logging.FallbackEvent{Component: component, Err: err, At: time.Now()})
}

// useHigh resolves the effective precision for one call.
func (e *Engine) useHigh(override precision.Mode) bool {
	return e.session.ShouldUseHighPrecision(override)
}

// LocalSiderealTime returns the local sidereal time in radians [0, 2*pi).
// The high path falls back to the standard formula on error; the caller
// never sees the failure.
func (e *Engine) LocalSiderealTime(t time.Time, lonRad float64, mode precision.Mode) float64 {
	if e.useHigh(mode) {
		lst, err := e.hpSidereal(t, lonRad)
		if err == nil {
			return lst
		}
		e.fallback("sidereal", err)
	}
	return astro.LocalSiderealTime(t, lonRad)
}

// SunEquatorial returns the Sun's geocentric equatorial position.
func (e *Engine) SunEquatorial(t time.Time, mode precision.Mode) astro.SunEquatorial {
	high := e.useHigh(mode)

	key := cache.NewKey("sun", t, e.tick)
	if high {
		key = key.WithTag("hp")
	}
	if v, ok := e.sunCache.Get(key); ok {
		return v
	}

	var eq astro.SunEquatorial
	if high {
		var err error
		eq, err = e.hpSun(t)
		if err != nil {
			e.fallback("sun", err)
			eq = astro.SunPositionStandard(t)
		}
	} else {
		eq = astro.SunPositionStandard(t)
	}

	e.sunCache.Add(key, eq)
	return eq
}

// SunHorizontal returns the Sun's apparent horizontal position for an
// explicit observer location.
func (e *Engine) SunHorizontal(t time.Time, loc astro.Location, mode precision.Mode) (astro.Horizontal, error) {
	eq := e.SunEquatorial(t, mode)
	lst := e.LocalSiderealTime(t, loc.LonRad, mode)
	opts := astro.TransformOptions{
		IncludeRefraction: true,
		Conditions:        e.conditions,
		Model:             e.model,
	}
	return astro.EquatorialToHorizontal(eq.RADeg, eq.DecDeg, loc, lst, opts)
}

// SunHorizontalDefault is SunHorizontal at the injected default site.
func (e *Engine) SunHorizontalDefault(t time.Time, mode precision.Mode) (astro.Horizontal, error) {
	return e.SunHorizontal(t, e.DefaultLocation(), mode)
}

// MoonEquatorial returns the Moon's geocentric equatorial position.
func (e *Engine) MoonEquatorial(t time.Time, mode precision.Mode) astro.MoonEquatorial {
	high := e.useHigh(mode)

	key := cache.NewKey("moon", t, e.tick)
	if high {
		key = key.WithTag("hp")
	}
	if v, ok := e.moonCache.Get(key); ok {
		return v
	}

	var eq astro.MoonEquatorial
	if high {
		var err error
		eq, err = e.hpMoon(t)
		if err != nil {
			e.fallback("moon", err)
			eq = astro.MoonPositionStandard(t)
		}
	} else {
		eq = astro.MoonPositionStandard(t)
	}

	e.moonCache.Add(key, eq)
	return eq
}

// MoonHorizontal returns the Moon's apparent horizontal position.
func (e *Engine) MoonHorizontal(t time.Time, loc astro.Location, mode precision.Mode) (astro.Horizontal, error) {
	eq := e.MoonEquatorial(t, mode)
	lst := e.LocalSiderealTime(t, loc.LonRad, mode)
	opts := astro.TransformOptions{
		IncludeRefraction: true,
		Conditions:        e.conditions,
		Model:             e.model,
	}
	return astro.EquatorialToHorizontal(eq.RADeg, eq.DecDeg, loc, lst, opts)
}

// MoonPhase returns the Moon's phase. The standard path uses the
// independent elongation formula, not the high-precision position, so the
// two paths cannot fail together.
func (e *Engine) MoonPhase(t time.Time, mode precision.Mode) astro.MoonPhaseInfo {
	if e.useHigh(mode) {
		info, err := e.hpPhase(t)
		if err == nil {
			return info
		}
		e.fallback("moonphase", err)
	}
	return astro.MoonPhaseStandard(t)
}

// ToHorizontal converts equatorial coordinates of any object to horizontal
// coordinates, with the engine's refraction settings.
func (e *Engine) ToHorizontal(t time.Time, raDeg, decDeg float64, loc astro.Location, includeRefraction bool, mode precision.Mode) (astro.Horizontal, error) {
	lst := e.LocalSiderealTime(t, loc.LonRad, mode)
	opts := astro.TransformOptions{
		IncludeRefraction: includeRefraction,
		Conditions:        e.conditions,
		Model:             e.model,
	}
	return astro.EquatorialToHorizontal(raDeg, decDeg, loc, lst, opts)
}

// FromHorizontal inverts ToHorizontal, returning RA/Dec in degrees.
func (e *Engine) FromHorizontal(t time.Time, altRad, azRad float64, loc astro.Location, includeRefraction bool, mode precision.Mode) (raDeg, decDeg float64, err error) {
	lst := e.LocalSiderealTime(t, loc.LonRad, mode)
	opts := astro.TransformOptions{
		IncludeRefraction: includeRefraction,
		Conditions:        e.conditions,
		Model:             e.model,
	}
	return astro.HorizontalToEquatorial(altRad, azRad, loc, lst, opts)
}

// Refraction returns the correction in degrees for an apparent altitude
// under the engine's conditions and model.
func (e *Engine) Refraction(apparentAltDeg float64) float64 {
	return astro.Refraction(apparentAltDeg, e.conditions, e.model)
}

// FindTwilight resolves a twilight event, memoized on (date, location,
// type, event, precision).
func (e *Engine) FindTwilight(date time.Time, loc astro.Location, tt astro.TwilightType, event astro.EventType, mode precision.Mode) (time.Time, error) {
	high := e.useHigh(mode)

	day := date.UTC().Truncate(24 * time.Hour)
	key := cache.NewKey("twilight", day, 24*time.Hour, loc.LatDeg(), loc.LonDeg()).
		WithTag(tt.String() + "/" + event.String() + hpTag(high))
	if v, ok := e.twilightCache.Get(key); ok {
		return v, nil
	}

	res, err := astro.FindTwilight(date, loc, tt, event, high)
	if err != nil {
		return time.Time{}, err
	}
	e.twilightCache.Add(key, res)
	return res, nil
}

// SunRiseSet resolves visual sunrise or sunset, memoized like FindTwilight.
func (e *Engine) SunRiseSet(date time.Time, loc astro.Location, event astro.EventType, mode precision.Mode) (time.Time, error) {
	high := e.useHigh(mode)

	day := date.UTC().Truncate(24 * time.Hour)
	key := cache.NewKey("horizon", day, 24*time.Hour, loc.LatDeg(), loc.LonDeg()).
		WithTag(event.String() + hpTag(high))
	if v, ok := e.twilightCache.Get(key); ok {
		return v, nil
	}

	res, err := astro.FindSunRiseSet(date, loc, event, high)
	if err != nil {
		return time.Time{}, err
	}
	e.twilightCache.Add(key, res)
	return res, nil
}

func hpTag(high bool) string {
	if high {
		return "/hp"
	}
	return ""
}
