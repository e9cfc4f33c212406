package astro

import (
	"errors"
	"math"
	"testing"
	"time"
)

var (
	greenwich = Location{LatRad: DegToRad(51.4769)}
	svalbard  = Location{LatRad: DegToRad(78.22), LonRad: DegToRad(15.65)}
)

// within asserts that got lands inside [want-tol, want+tol].
func within(t *testing.T, label string, got, want time.Time, tol time.Duration) {
	t.Helper()
	d := got.Sub(want)
	if d < 0 {
		d = -d
	}
	if d > tol {
		t.Errorf("%s = %v, want %v +/- %v", label, got, want, tol)
	}
}

func TestFindSunRiseSet_GreenwichEquinox(t *testing.T) {
	date := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	rise, err := FindSunRiseSet(date, greenwich, EventSunrise, false)
	if err != nil {
		t.Fatalf("sunrise: %v", err)
	}
	within(t, "sunrise", rise, time.Date(2026, 3, 20, 6, 3, 0, 0, time.UTC), 2*time.Minute)

	set, err := FindSunRiseSet(date, greenwich, EventSunset, false)
	if err != nil {
		t.Fatalf("sunset: %v", err)
	}
	within(t, "sunset", set, time.Date(2026, 3, 20, 18, 13, 0, 0, time.UTC), 2*time.Minute)

	// Either precision path should land within the solver tolerance of the
	// other.
	riseHP, err := FindSunRiseSet(date, greenwich, EventSunrise, true)
	if err != nil {
		t.Fatalf("sunrise hp: %v", err)
	}
	within(t, "sunrise hp vs standard", riseHP, rise, 2*time.Minute)
}

func TestFindTwilight_Ordering(t *testing.T) {
	date := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	events := []struct {
		label string
		tt    TwilightType
		ev    EventType
		want  time.Time
	}{
		{"astronomical dawn", TwilightAstronomical, EventSunrise, time.Date(2026, 3, 20, 4, 10, 0, 0, time.UTC)},
		{"nautical dawn", TwilightNautical, EventSunrise, time.Date(2026, 3, 20, 4, 50, 0, 0, time.UTC)},
		{"civil dawn", TwilightCivil, EventSunrise, time.Date(2026, 3, 20, 5, 30, 0, 0, time.UTC)},
		{"civil dusk", TwilightCivil, EventSunset, time.Date(2026, 3, 20, 18, 46, 0, 0, time.UTC)},
		{"nautical dusk", TwilightNautical, EventSunset, time.Date(2026, 3, 20, 19, 26, 0, 0, time.UTC)},
		{"astronomical dusk", TwilightAstronomical, EventSunset, time.Date(2026, 3, 20, 20, 7, 0, 0, time.UTC)},
	}

	var prev time.Time
	for _, e := range events {
		got, err := FindTwilight(date, greenwich, e.tt, e.ev, false)
		if err != nil {
			t.Fatalf("%s: %v", e.label, err)
		}
		within(t, e.label, got, e.want, 3*time.Minute)
		if !prev.IsZero() && !got.After(prev) {
			t.Errorf("%s at %v should follow previous event at %v", e.label, got, prev)
		}
		prev = got
	}
}

func TestFindTwilight_PolarDay(t *testing.T) {
	// Midsummer above the Arctic circle: the Sun never reaches -0.833, so
	// there is no bracket to bisect.
	date := time.Date(2026, 6, 21, 0, 0, 0, 0, time.UTC)
	_, err := FindSunRiseSet(date, svalbard, EventSunrise, false)
	if !errors.Is(err, ErrNoBracket) {
		t.Errorf("polar day sunrise err = %v, want ErrNoBracket", err)
	}
	_, err = FindTwilight(date, svalbard, TwilightAstronomical, EventSunset, false)
	if !errors.Is(err, ErrNoBracket) {
		t.Errorf("polar day astronomical dusk err = %v, want ErrNoBracket", err)
	}
}

func TestFindAltitudeCrossing_Synthetic(t *testing.T) {
	// A pure sinusoid with a 24h period crossing zero at 06:00 (ascending)
	// and 18:00 (descending).
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f := func(t time.Time) float64 {
		hours := t.Sub(base).Hours()
		return -math.Cos(2 * math.Pi * hours / 24)
	}

	rise, err := FindAltitudeCrossing(f, base, base.Add(12*time.Hour), 0, EventSunrise)
	if err != nil {
		t.Fatalf("ascending crossing: %v", err)
	}
	within(t, "ascending crossing", rise, base.Add(6*time.Hour), time.Minute)

	set, err := FindAltitudeCrossing(f, base.Add(12*time.Hour), base.Add(24*time.Hour), 0, EventSunset)
	if err != nil {
		t.Fatalf("descending crossing: %v", err)
	}
	within(t, "descending crossing", set, base.Add(18*time.Hour), time.Minute)
}

func TestFindAltitudeCrossing_ExpandsBracket(t *testing.T) {
	// The crossing sits outside the initial window; the search widens it.
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	crossing := base.Add(7 * time.Hour)
	f := func(t time.Time) float64 {
		return t.Sub(crossing).Hours() // linear, ascending through 0
	}

	got, err := FindAltitudeCrossing(f, base, base.Add(2*time.Hour), 0, EventSunrise)
	if err != nil {
		t.Fatalf("FindAltitudeCrossing: %v", err)
	}
	within(t, "expanded crossing", got, crossing, time.Minute)
}

func TestFindAltitudeCrossing_NoCrossing(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	flat := func(time.Time) float64 { return -5 }
	_, err := FindAltitudeCrossing(flat, base, base.Add(12*time.Hour), 0, EventSunrise)
	if !errors.Is(err, ErrNoBracket) {
		t.Errorf("err = %v, want ErrNoBracket", err)
	}
}

func TestFindAltitudeCrossing_DirectionMatters(t *testing.T) {
	// A tent function peaking at +5 three hours in crosses zero ascending at
	// -2h and descending at +8h. The direction argument picks which one.
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	peak := base.Add(3 * time.Hour)
	f := func(t time.Time) float64 {
		return 5 - math.Abs(t.Sub(peak).Hours())
	}

	if got, err := FindAltitudeCrossing(f, base.Add(4*time.Hour), base.Add(10*time.Hour), 0, EventSunset); err != nil {
		t.Fatalf("descending: %v", err)
	} else {
		within(t, "descending", got, base.Add(8*time.Hour), time.Minute)
	}
	if got, err := FindAltitudeCrossing(f, base.Add(-4*time.Hour), base.Add(2*time.Hour), 0, EventSunrise); err != nil {
		t.Fatalf("ascending: %v", err)
	} else {
		within(t, "ascending", got, base.Add(-2*time.Hour), time.Minute)
	}
}

func TestFindAltitudeCrossing_InvalidBracket(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f := func(time.Time) float64 { return 0 }
	_, err := FindAltitudeCrossing(f, base, base, 0, EventSunrise)
	var ie *InvalidInputError
	if !errors.As(err, &ie) {
		t.Errorf("err = %v, want InvalidInputError", err)
	}
}

func TestFindMoonRiseSet_Greenwich(t *testing.T) {
	// 2026-03-20: a young waxing crescent rises in the morning and sets in
	// the evening.
	date := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	rs := FindMoonRiseSet(date, greenwich)

	if !rs.RiseOK {
		t.Fatal("expected a moonrise")
	}
	within(t, "moonrise", rs.Rise, time.Date(2026, 3, 20, 6, 16, 0, 0, time.UTC), 5*time.Minute)

	if !rs.SetOK {
		t.Fatal("expected a moonset")
	}
	within(t, "moonset", rs.Set, time.Date(2026, 3, 20, 20, 35, 0, 0, time.UTC), 5*time.Minute)
}

func TestMoonHorizonAltitude(t *testing.T) {
	// At the mean distance parallax (~0.95 deg) dominates refraction plus
	// semi-diameter (~0.83 deg), leaving a small positive threshold.
	got := moonHorizonAltitudeDeg(384400)
	if got < 0.05 || got > 0.2 {
		t.Errorf("threshold at mean distance = %.4f deg, want ~0.12", got)
	}

	// Perigee moon: larger parallax, higher threshold.
	if near, far := moonHorizonAltitudeDeg(356500), moonHorizonAltitudeDeg(406700); near <= far {
		t.Errorf("perigee threshold %.4f should exceed apogee %.4f", near, far)
	}
}

func TestTwilightType(t *testing.T) {
	tests := []struct {
		tt      TwilightType
		name    string
		target  float64
	}{
		{TwilightCivil, "civil", -6},
		{TwilightNautical, "nautical", -12},
		{TwilightAstronomical, "astronomical", -18},
	}
	for _, tt := range tests {
		if got := tt.tt.String(); got != tt.name {
			t.Errorf("String() = %q, want %q", got, tt.name)
		}
		if got := tt.tt.TargetAltitudeDeg(); got != tt.target {
			t.Errorf("%s target = %g, want %g", tt.name, got, tt.target)
		}
		parsed, err := ParseTwilightType(tt.name)
		if err != nil || parsed != tt.tt {
			t.Errorf("ParseTwilightType(%q) = %v, %v", tt.name, parsed, err)
		}
	}
	if _, err := ParseTwilightType("dusk"); err == nil {
		t.Error("ParseTwilightType should reject unknown names")
	}
}

func TestEventType(t *testing.T) {
	if EventSunrise.String() != "sunrise" || EventSunset.String() != "sunset" {
		t.Errorf("unexpected names %q, %q", EventSunrise.String(), EventSunset.String())
	}
	for _, name := range []string{"sunrise", "sunset"} {
		ev, err := ParseEventType(name)
		if err != nil || ev.String() != name {
			t.Errorf("ParseEventType(%q) = %v, %v", name, ev, err)
		}
	}
	if _, err := ParseEventType("noon"); err == nil {
		t.Error("ParseEventType should reject unknown names")
	}
}
