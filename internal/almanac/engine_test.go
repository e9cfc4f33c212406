package almanac

import (
	"errors"
	"testing"
	"time"

	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/logging"
	"github.com/litescript/ls-almanac/internal/observer"
	"github.com/litescript/ls-almanac/internal/precision"
)

// recordingSink captures fallback events for assertions.
type recordingSink struct {
	events []logging.FallbackEvent
}

func (s *recordingSink) Fallback(ev logging.FallbackEvent) {
	s.events = append(s.events, ev)
}

func testLocation(t *testing.T) astro.Location {
	t.Helper()
	loc, err := astro.LocationFromDegrees(51.4769, 0, 0)
	if err != nil {
		t.Fatalf("LocationFromDegrees: %v", err)
	}
	return loc
}

func newTestEngine(t *testing.T, sink logging.Sink) *Engine {
	t.Helper()
	opts := DefaultOptions()
	opts.Sink = sink
	opts.Provider = observer.Static{Loc: testLocation(t), SiteName: "test"}
	e, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestEngine_SunEquatorial_FallsBackOnError(t *testing.T) {
	sink := &recordingSink{}
	e := newTestEngine(t, sink)

	failErr := errors.New("series diverged")
	e.hpSun = func(time.Time) (astro.SunEquatorial, error) {
		return astro.SunEquatorial{}, failErr
	}

	at := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	got := e.SunEquatorial(at, precision.ModeHigh)

	want := astro.SunPositionStandard(at)
	if got != want {
		t.Errorf("fallback result = %+v, want standard result %+v", got, want)
	}

	if len(sink.events) != 1 {
		t.Fatalf("fallback events = %d, want 1", len(sink.events))
	}
	if sink.events[0].Component != "sun" {
		t.Errorf("component = %q, want sun", sink.events[0].Component)
	}
	if !errors.Is(sink.events[0].Err, failErr) {
		t.Errorf("event error = %v, want %v", sink.events[0].Err, failErr)
	}
}

func TestEngine_SunEquatorial_StandardSkipsHighPath(t *testing.T) {
	sink := &recordingSink{}
	e := newTestEngine(t, sink)

	called := false
	e.hpSun = func(time.Time) (astro.SunEquatorial, error) {
		called = true
		return astro.SunEquatorial{}, nil
	}

	e.SunEquatorial(time.Now(), precision.ModeStandard)

	if called {
		t.Error("high-precision path should not run in standard mode")
	}
	if len(sink.events) != 0 {
		t.Errorf("fallback events = %d, want 0", len(sink.events))
	}
}

func TestEngine_ScopedOverrideControlsDispatch(t *testing.T) {
	e := newTestEngine(t, &recordingSink{})

	calls := 0
	e.hpMoon = func(t time.Time) (astro.MoonEquatorial, error) {
		calls++
		return astro.MoonPosition(t)
	}

	at := time.Date(2026, 6, 1, 3, 0, 0, 0, time.UTC)

	restore := e.Session().Scoped(precision.ModeStandard)
	e.MoonEquatorial(at, precision.ModeAuto)
	restore()

	if calls != 0 {
		t.Errorf("high path ran %d times under scoped standard mode, want 0", calls)
	}

	// After restore, auto + UseHighPrecision=true takes the high path.
	e.MoonEquatorial(at.Add(time.Hour), precision.ModeAuto)
	if calls != 1 {
		t.Errorf("high path ran %d times after restore, want 1", calls)
	}
}

func TestEngine_MoonPhase_FallbackIsIndependent(t *testing.T) {
	sink := &recordingSink{}
	e := newTestEngine(t, sink)

	e.hpPhase = func(time.Time) (astro.MoonPhaseInfo, error) {
		return astro.MoonPhaseInfo{}, errors.New("lunar series out of range")
	}

	at := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	got := e.MoonPhase(at, precision.ModeHigh)

	if got.Illumination < 0 || got.Illumination > 1 {
		t.Errorf("fallback illumination = %v, want [0, 1]", got.Illumination)
	}
	if got.PhaseName == "" {
		t.Error("fallback phase should carry a name")
	}
	if len(sink.events) != 1 || sink.events[0].Component != "moonphase" {
		t.Errorf("expected one moonphase fallback event, got %+v", sink.events)
	}
}

func TestEngine_SunEquatorial_CachesPerPrecision(t *testing.T) {
	e := newTestEngine(t, &recordingSink{})

	hpCalls := 0
	e.hpSun = func(t time.Time) (astro.SunEquatorial, error) {
		hpCalls++
		return astro.SunPosition(t)
	}

	at := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	first := e.SunEquatorial(at, precision.ModeHigh)
	second := e.SunEquatorial(at.Add(200*time.Millisecond), precision.ModeHigh) // same tick

	if hpCalls != 1 {
		t.Errorf("high path ran %d times for same-tick calls, want 1", hpCalls)
	}
	if first != second {
		t.Error("same-tick calls should return the cached value")
	}

	// A standard-mode call at the same instant must not reuse the
	// high-precision entry.
	std := e.SunEquatorial(at, precision.ModeStandard)
	if std == first {
		t.Error("standard and high results should differ (distinct cache entries)")
	}
}

func TestEngine_SiderealFallback(t *testing.T) {
	sink := &recordingSink{}
	e := newTestEngine(t, sink)

	e.hpSidereal = func(time.Time, float64) (float64, error) {
		return 0, astro.ErrTimeOutOfRange
	}

	at := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	got := e.LocalSiderealTime(at, 0, precision.ModeHigh)
	want := astro.LocalSiderealTime(at, 0)

	if got != want {
		t.Errorf("fallback LST = %v, want standard %v", got, want)
	}
	if len(sink.events) != 1 {
		t.Errorf("fallback events = %d, want 1", len(sink.events))
	}
}

func TestEngine_DayAlmanac_EventOrdering(t *testing.T) {
	e := newTestEngine(t, &recordingSink{})

	loc := testLocation(t)
	day := e.DayAlmanac(time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC), loc, precision.ModeAuto)

	seq := []struct {
		name string
		ev   Event
	}{
		{"astronomical dawn", day.Astronomical.Dawn},
		{"nautical dawn", day.Nautical.Dawn},
		{"civil dawn", day.Civil.Dawn},
		{"sunrise", day.Sunrise},
		{"sunset", day.Sunset},
		{"civil dusk", day.Civil.Dusk},
		{"nautical dusk", day.Nautical.Dusk},
		{"astronomical dusk", day.Astronomical.Dusk},
	}

	for _, s := range seq {
		if s.ev.Missing {
			t.Fatalf("%s missing at mid-latitude equinox", s.name)
		}
	}
	for i := 1; i < len(seq); i++ {
		if !seq[i].ev.Time.After(seq[i-1].ev.Time) {
			t.Errorf("%s (%v) should be after %s (%v)",
				seq[i].name, seq[i].ev.Time, seq[i-1].name, seq[i-1].ev.Time)
		}
	}

	if day.DarkStart.Missing || day.DarkEnd.Missing {
		t.Fatal("dark window should exist at mid-latitude equinox")
	}
	if !day.DarkEnd.Time.After(day.DarkStart.Time) {
		t.Error("dark window should end after it starts")
	}
}

func TestEngine_DayAlmanac_PolarSummer(t *testing.T) {
	e := newTestEngine(t, &recordingSink{})

	loc, err := astro.LocationFromDegrees(78.2, 15.6, 0) // Svalbard
	if err != nil {
		t.Fatalf("LocationFromDegrees: %v", err)
	}

	day := e.DayAlmanac(time.Date(2026, 6, 21, 0, 0, 0, 0, time.UTC), loc, precision.ModeAuto)

	if !day.Sunrise.Missing || !day.Sunset.Missing {
		t.Error("midnight sun: sunrise and sunset should be missing")
	}
	if !day.Astronomical.Dusk.Missing {
		t.Error("midnight sun: astronomical dusk should be missing")
	}
}

func TestEngine_SkyQuality(t *testing.T) {
	e := newTestEngine(t, &recordingSink{})
	loc := testLocation(t)

	// Local noon in midsummer: unambiguous daylight.
	daytime, err := e.SkyQuality(time.Date(2026, 6, 21, 12, 0, 0, 0, time.UTC), loc, precision.ModeAuto)
	if err != nil {
		t.Fatalf("SkyQuality: %v", err)
	}
	if daytime.Score != 0 {
		t.Errorf("daytime score = %d, want 0", daytime.Score)
	}
	if daytime.Rating != "daylight" {
		t.Errorf("daytime rating = %q, want daylight", daytime.Rating)
	}

	// Local midnight in midwinter: sun far below the horizon.
	night, err := e.SkyQuality(time.Date(2026, 12, 21, 0, 0, 0, 0, time.UTC), loc, precision.ModeAuto)
	if err != nil {
		t.Fatalf("SkyQuality: %v", err)
	}
	if night.Score <= daytime.Score {
		t.Errorf("night score %d should exceed day score %d", night.Score, daytime.Score)
	}
	if night.SunAltDeg >= 0 {
		t.Errorf("midwinter midnight sun altitude = %v, want negative", night.SunAltDeg)
	}
}

func TestSkyScore(t *testing.T) {
	tests := []struct {
		name       string
		sunAltDeg  float64
		moonAltDeg float64
		illum      float64
		wantMin    int
		wantMax    int
	}{
		{"sun up", 10, -20, 0, 0, 0},
		{"fully dark no moon", -30, -20, 0.9, 100, 100},
		{"civil twilight", -3, -20, 0, 10, 25},
		{"dark with full moon high", -30, 60, 1.0, 35, 45},
		{"dark with thin crescent", -30, 40, 0.05, 90, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := skyScore(tt.sunAltDeg, tt.moonAltDeg, tt.illum)
			if got < tt.wantMin || got > tt.wantMax {
				t.Errorf("skyScore = %d, want in [%d, %d]", got, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestEngine_Report(t *testing.T) {
	e := newTestEngine(t, &recordingSink{})

	report, err := e.Report(time.Date(2026, 3, 20, 22, 0, 0, 0, time.UTC), testLocation(t), "Greenwich")
	if err != nil {
		t.Fatalf("Report: %v", err)
	}

	if report.Site.Name != "Greenwich" {
		t.Errorf("site name = %q, want Greenwich", report.Site.Name)
	}
	if report.Sky.LSTHours < 0 || report.Sky.LSTHours >= 24 {
		t.Errorf("LST hours = %v, want [0, 24)", report.Sky.LSTHours)
	}
	if report.Day.Sunrise == nil || report.Day.Sunset == nil {
		t.Error("equinox report should have sunrise and sunset")
	}
	if report.Sky.Moon.DistUnit != "km" {
		t.Errorf("moon distance unit = %q, want km", report.Sky.Moon.DistUnit)
	}
	if report.Atmosphere.Model == "" {
		t.Error("report should record the refraction model")
	}
}
