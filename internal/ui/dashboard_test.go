package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/litescript/ls-almanac/internal/almanac"
	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/state"
)

func TestRenderIllumBar(t *testing.T) {
	tests := []struct {
		name       string
		illum      float64
		width      int
		wantFilled int
	}{
		{"new", 0.0, 12, 0},
		{"full", 1.0, 12, 12},
		{"half", 0.5, 12, 6},
		{"quarter", 0.25, 8, 2},
		{"over full", 1.2, 10, 10}, // capped at width
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := renderIllumBar(tt.illum, tt.width)

			if !strings.HasPrefix(bar, "[") {
				t.Errorf("bar should start with bracket, got %q", bar)
			}

			filledCount := strings.Count(bar, "█")
			if filledCount != tt.wantFilled {
				t.Errorf("filled count = %d, want %d", filledCount, tt.wantFilled)
			}
		})
	}
}

func TestCompassPoint(t *testing.T) {
	tests := []struct {
		azDeg float64
		want  string
	}{
		{0, "N"},
		{45, "NE"},
		{90, "E"},
		{180, "S"},
		{270, "W"},
		{359, "N"},
		{22.5, "NNE"},
	}

	for _, tt := range tests {
		if got := compassPoint(tt.azDeg); got != tt.want {
			t.Errorf("compassPoint(%v) = %q, want %q", tt.azDeg, got, tt.want)
		}
	}
}

func TestFormatLST(t *testing.T) {
	tests := []struct {
		name   string
		lstRad float64
		want   string
	}{
		{"zero", 0, "00:00:00"},
		{"six hours", 3.141592653589793 / 2, "06:00:00"},
		{"noon", 3.141592653589793, "12:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatLST(tt.lstRad); got != tt.want {
				t.Errorf("formatLST = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatEvent(t *testing.T) {
	at := time.Date(2026, 3, 14, 6, 32, 0, 0, time.UTC)

	if got := formatEvent(almanac.Event{Time: at}); got != "06:32" {
		t.Errorf("formatEvent = %q, want 06:32", got)
	}
	if got := formatEvent(almanac.Event{Missing: true}); got != "—" {
		t.Errorf("missing event = %q, want em dash", got)
	}
}

func TestDashboard_View_NoData(t *testing.T) {
	m := NewDashboardModel().SetSize(100, 30)

	out := m.View()
	if !strings.Contains(out, "Computing") {
		t.Errorf("empty dashboard should show computing state, got %q", out)
	}
}

func TestDashboard_View_WithObservation(t *testing.T) {
	obs := &state.Observation{
		Time:   time.Now(),
		Sun:    astro.Horizontal{AltRad: astro.DegToRad(30), AzRad: astro.DegToRad(120)},
		SunEq:  astro.SunEquatorial{RADeg: 50, DecDeg: 18, DistanceAU: 1.0},
		Moon:   astro.Horizontal{AltRad: astro.DegToRad(-10), AzRad: astro.DegToRad(300)},
		MoonEq: astro.MoonEquatorial{RADeg: 200, DecDeg: -5, DistanceKm: 384400},
		Phase:  astro.MoonPhaseInfo{Illumination: 0.5, PhaseName: "First Quarter", Waxing: true},
	}

	m := NewDashboardModel().SetSize(120, 40).UpdateData(state.Snapshot{Observation: obs})

	out := m.View()
	for _, want := range []string{"Sun", "Moon", "First Quarter", "384400"} {
		if !strings.Contains(out, want) {
			t.Errorf("dashboard view missing %q", want)
		}
	}
}
