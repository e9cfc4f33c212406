package astro

import (
	"math"
	"testing"
	"time"
)

func TestJulianDate(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want float64
	}{
		{"j2000 epoch", time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC), 2451545.0},
		{"1999 new year", time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC), 2451179.5},
		{"1987 april", time.Date(1987, 4, 10, 0, 0, 0, 0, time.UTC), 2446895.5},
		{"sputnik launch", time.Date(1957, 10, 4, 19, 26, 24, 0, time.UTC), 2436116.31},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JulianDate(tt.t)
			if math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("JulianDate(%v) = %.6f, want %.6f", tt.t, got, tt.want)
			}
		})
	}
}

func TestJulianDate_ConvertsToUTC(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	local := time.Date(2000, 1, 1, 7, 0, 0, 0, est) // 12:00 UTC
	if got := JulianDate(local); math.Abs(got-2451545.0) > 1e-9 {
		t.Errorf("JulianDate(local) = %.6f, want 2451545.0", got)
	}
}

func TestJulianCenturies(t *testing.T) {
	// Meeus example 12.b works at 1987-04-10 19:21 UT.
	T := JulianCenturies(time.Date(1987, 4, 10, 19, 21, 0, 0, time.UTC))
	if math.Abs(T-(-0.12727430)) > 1e-7 {
		t.Errorf("JulianCenturies = %.8f, want -0.12727430", T)
	}
}

func TestDaysSinceJ2000(t *testing.T) {
	d := DaysSinceJ2000(time.Date(2000, 1, 2, 12, 0, 0, 0, time.UTC))
	if math.Abs(d-1.0) > 1e-9 {
		t.Errorf("DaysSinceJ2000 = %g, want 1", d)
	}
}
