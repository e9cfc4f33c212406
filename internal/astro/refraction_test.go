package astro

import (
	"math"
	"testing"
)

func TestRefraction_Bennett(t *testing.T) {
	tests := []struct {
		altDeg  float64
		wantDeg float64
		tol     float64
	}{
		// ~34 arcmin at the horizon, the classic figure.
		{0, 0.4830, 0.001},
		{5, 0.1612, 0.001},
		// High-altitude branch: ~58 arcsec at 45 degrees.
		{45, 0.01612, 0.0002},
		{90, 0, 0.0001},
	}
	for _, tt := range tests {
		got := Refraction(tt.altDeg, StandardConditions, RefractionBennett)
		if math.Abs(got-tt.wantDeg) > tt.tol {
			t.Errorf("Refraction(%.0f, bennett) = %.5f deg, want %.5f", tt.altDeg, got, tt.wantDeg)
		}
	}
}

func TestRefraction_BranchContinuity(t *testing.T) {
	// Bennett switches formulas at 15 degrees; the published fits differ by
	// a few arcseconds there, which must not grow into a visible step.
	below := Refraction(14.999, StandardConditions, RefractionBennett)
	above := Refraction(15.001, StandardConditions, RefractionBennett)
	if math.Abs(below-above) > 0.003 {
		t.Errorf("discontinuity at 15 deg: %.6f vs %.6f", below, above)
	}
}

func TestRefraction_ModelsAgreeMidAltitude(t *testing.T) {
	// Away from the horizon all five formulas describe the same atmosphere;
	// they should agree to a few arcseconds at 45 degrees.
	ref := Refraction(45, StandardConditions, RefractionBennett)
	for _, m := range []RefractionModel{
		RefractionSaemundsson,
		RefractionAuerStandish,
		RefractionHohenkerkSinclair,
		RefractionSimple,
	} {
		got := Refraction(45, StandardConditions, m)
		if math.Abs(got-ref) > 0.002 {
			t.Errorf("%v at 45 deg = %.5f, bennett = %.5f", m, got, ref)
		}
	}
}

func TestRefraction_Saemundsson(t *testing.T) {
	// Saemundsson is the Bennett shape plus a small constant; at the horizon
	// it is marginally larger.
	b := Refraction(0, StandardConditions, RefractionBennett)
	s := Refraction(0, StandardConditions, RefractionSaemundsson)
	if s <= b {
		t.Errorf("saemundsson %.6f should exceed bennett %.6f at the horizon", s, b)
	}
	if math.Abs(s-b) > 0.0001 {
		t.Errorf("saemundsson offset %.6f unexpectedly large", s-b)
	}
}

func TestRefraction_MonotoneFromFloorToZenith(t *testing.T) {
	// Refraction never increases with altitude: sweeping from each model's
	// floor up to the zenith, every step is non-increasing and no step dips
	// below zero (beyond sub-arcsecond noise where the cotangent fits cross
	// zero just under 90 degrees).
	models := []RefractionModel{
		RefractionBennett,
		RefractionSaemundsson,
		RefractionAuerStandish,
		RefractionHohenkerkSinclair,
		RefractionSimple,
	}
	const step = 0.05
	for _, m := range models {
		prev := math.Inf(1)
		for h := m.floorDeg(); h <= 90; h += step {
			got := Refraction(h, StandardConditions, m)
			if got < -1e-4 {
				t.Fatalf("%v at alt %.2f = %.5f deg, negative correction", m, h, got)
			}
			if got > prev+1e-9 {
				t.Fatalf("%v increases across alt %.2f: %.6f -> %.6f", m, h-step, prev, got)
			}
			prev = got
		}
	}
}

func TestRefraction_TanSeriesLowAltitude(t *testing.T) {
	// The truncated tan(z) series collapses if evaluated too close to the
	// horizon; the linear continuation has to take over while the series is
	// still rising, keeping low-altitude corrections positive and bounded.
	tests := []struct {
		altDeg float64
		model  RefractionModel
	}{
		{2.0, RefractionAuerStandish},
		{1.5, RefractionAuerStandish},
		{0, RefractionAuerStandish},
		{-0.9, RefractionAuerStandish},
		{2.0, RefractionHohenkerkSinclair},
		{1.0, RefractionHohenkerkSinclair},
		{0, RefractionHohenkerkSinclair},
		{-0.9, RefractionHohenkerkSinclair},
	}
	for _, tt := range tests {
		got := Refraction(tt.altDeg, StandardConditions, tt.model)
		if got <= 0 || got > 1.0 {
			t.Errorf("Refraction(%.1f, %v) = %.5f deg, want positive and below 1 deg",
				tt.altDeg, tt.model, got)
		}
	}
}

func TestRefraction_FloorAndCeiling(t *testing.T) {
	tests := []struct {
		altDeg float64
		model  RefractionModel
	}{
		{-1.5, RefractionBennett},
		{-2.5, RefractionSaemundsson},
		{-1.95, RefractionSaemundsson},
		{-1.5, RefractionAuerStandish},
		{-1.5, RefractionHohenkerkSinclair},
		{-5, RefractionSimple},
		{91, RefractionBennett},
		{120, RefractionSaemundsson},
	}
	for _, tt := range tests {
		if got := Refraction(tt.altDeg, StandardConditions, tt.model); got != 0 {
			t.Errorf("Refraction(%.1f, %v) = %g, want 0", tt.altDeg, tt.model, got)
		}
	}
}

func TestRefraction_ConditionScaling(t *testing.T) {
	base := Refraction(5, StandardConditions, RefractionBennett)

	cold := StandardConditions
	cold.TemperatureC = -10
	if got := Refraction(5, cold, RefractionBennett); got <= base {
		t.Errorf("cold air should refract more: %.6f vs %.6f", got, base)
	}

	thin := StandardConditions
	thin.PressureHPa = 900
	if got := Refraction(5, thin, RefractionBennett); got >= base {
		t.Errorf("low pressure should refract less: %.6f vs %.6f", got, base)
	}

	humid := StandardConditions
	humid.HumidityPct = 100
	if got := Refraction(5, humid, RefractionBennett); got >= base {
		t.Errorf("humid air should refract slightly less: %.6f vs %.6f", got, base)
	}

	blue := StandardConditions
	blue.WavelengthNm = 450
	if got := Refraction(5, blue, RefractionBennett); got <= base {
		t.Errorf("shorter wavelength should refract more: %.6f vs %.6f", got, base)
	}
}

func TestRefraction_ZeroConditionsMeanStandard(t *testing.T) {
	std := Refraction(10, StandardConditions, RefractionBennett)
	zero := Refraction(10, Conditions{}, RefractionBennett)
	if math.Abs(std-zero) > 1e-12 {
		t.Errorf("zero-value conditions %.9f != standard %.9f", zero, std)
	}
}

func TestParseRefractionModel(t *testing.T) {
	tests := []struct {
		in      string
		want    RefractionModel
		wantErr bool
	}{
		{"bennett", RefractionBennett, false},
		{"", RefractionBennett, false},
		{"saemundsson", RefractionSaemundsson, false},
		{"auer-standish", RefractionAuerStandish, false},
		{"hohenkerk-sinclair", RefractionHohenkerkSinclair, false},
		{"simple", RefractionSimple, false},
		{"bogus", RefractionBennett, true},
	}
	for _, tt := range tests {
		got, err := ParseRefractionModel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRefractionModel(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseRefractionModel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRefractionModel_String(t *testing.T) {
	for _, m := range []RefractionModel{
		RefractionBennett,
		RefractionSaemundsson,
		RefractionAuerStandish,
		RefractionHohenkerkSinclair,
		RefractionSimple,
	} {
		name := m.String()
		if name == "unknown" || name == "" {
			t.Errorf("model %d has no name", m)
		}
		back, err := ParseRefractionModel(name)
		if err != nil || back != m {
			t.Errorf("round trip %v -> %q -> %v, err %v", m, name, back, err)
		}
	}
}
