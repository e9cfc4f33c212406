package almanac

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/litescript/ls-almanac/internal/astro"
)

// ReportExport is the JSON-serializable almanac report for one instant and
// date at one site.
type ReportExport struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Site        SiteExport    `json:"site"`
	Sky         SkyExport     `json:"sky"`
	Day         DayExport     `json:"day"`
	Quality     QualityExport `json:"quality"`
	Atmosphere  AtmoExport    `json:"atmosphere"`
}

// SiteExport is a JSON-friendly observing site representation.
type SiteExport struct {
	Name       string  `json:"name,omitempty"`
	LatDeg     float64 `json:"latitude_deg"`
	LonDeg     float64 `json:"longitude_deg"`
	ElevationM float64 `json:"elevation_m"`
}

// SkyExport holds the instantaneous sky state.
type SkyExport struct {
	LSTHours float64     `json:"lst_hours"`
	Sun      BodyExport  `json:"sun"`
	Moon     BodyExport  `json:"moon"`
	Phase    PhaseExport `json:"moon_phase"`
}

// BodyExport is a JSON-friendly body position.
type BodyExport struct {
	RADeg     float64 `json:"ra_deg"`
	DecDeg    float64 `json:"dec_deg"`
	AltDeg    float64 `json:"alt_deg"`
	AzDeg     float64 `json:"az_deg"`
	Distance  float64 `json:"distance"`
	DistUnit  string  `json:"distance_unit"`
	AirMass   float64 `json:"air_mass,omitempty"`
	AboveHorz bool    `json:"above_horizon"`
}

// PhaseExport is a JSON-friendly moon phase.
type PhaseExport struct {
	Name          string  `json:"name"`
	Illumination  float64 `json:"illumination"`
	PhaseAngleDeg float64 `json:"phase_angle_deg"`
	Waxing        bool    `json:"waxing"`
}

// DayExport holds the day's event timetable. Absent events are null.
type DayExport struct {
	Date         string     `json:"date"`
	Sunrise      *time.Time `json:"sunrise"`
	Sunset       *time.Time `json:"sunset"`
	CivilDawn    *time.Time `json:"civil_dawn"`
	CivilDusk    *time.Time `json:"civil_dusk"`
	NauticalDawn *time.Time `json:"nautical_dawn"`
	NauticalDusk *time.Time `json:"nautical_dusk"`
	AstroDawn    *time.Time `json:"astronomical_dawn"`
	AstroDusk    *time.Time `json:"astronomical_dusk"`
	Moonrise     *time.Time `json:"moonrise"`
	Moonset      *time.Time `json:"moonset"`
	DarkStart    *time.Time `json:"dark_start"`
	DarkEnd      *time.Time `json:"dark_end"`
}

// QualityExport is a JSON-friendly sky quality assessment.
type QualityExport struct {
	Score    int    `json:"score"`
	Rating   string `json:"rating"`
	Guidance string `json:"guidance"`
}

// AtmoExport records the refraction inputs used for the report.
type AtmoExport struct {
	Model        string  `json:"refraction_model"`
	TemperatureC float64 `json:"temperature_c"`
	PressureHPa  float64 `json:"pressure_hpa"`
	HumidityPct  float64 `json:"humidity_pct"`
	WavelengthNm float64 `json:"wavelength_nm"`
}

// Report assembles a full exportable report for an instant and site.
func (e *Engine) Report(t time.Time, loc astro.Location, siteName string) (*ReportExport, error) {
	mode := e.session.Mode()

	sun, err := e.SunHorizontal(t, loc, mode)
	if err != nil {
		return nil, err
	}
	moon, err := e.MoonHorizontal(t, loc, mode)
	if err != nil {
		return nil, err
	}

	sunEq := e.SunEquatorial(t, mode)
	moonEq := e.MoonEquatorial(t, mode)
	phase := e.MoonPhase(t, mode)
	lst := e.LocalSiderealTime(t, loc.LonRad, mode)

	quality, err := e.SkyQuality(t, loc, mode)
	if err != nil {
		return nil, err
	}

	day := e.DayAlmanac(t, loc, mode)
	cond := e.conditions

	return &ReportExport{
		GeneratedAt: t.UTC(),
		Site: SiteExport{
			Name:       siteName,
			LatDeg:     loc.LatDeg(),
			LonDeg:     loc.LonDeg(),
			ElevationM: loc.ElevationM,
		},
		Sky: SkyExport{
			LSTHours: lst * 12 / math.Pi,
			Sun:      bodyExport(sun, sunEq.RADeg, sunEq.DecDeg, sunEq.DistanceAU, "au"),
			Moon:     bodyExport(moon, moonEq.RADeg, moonEq.DecDeg, moonEq.DistanceKm, "km"),
			Phase: PhaseExport{
				Name:          phase.PhaseName,
				Illumination:  phase.Illumination,
				PhaseAngleDeg: phase.PhaseAngleDeg,
				Waxing:        phase.Waxing,
			},
		},
		Day: dayExport(day),
		Quality: QualityExport{
			Score:    quality.Score,
			Rating:   quality.Rating,
			Guidance: quality.Guidance,
		},
		Atmosphere: AtmoExport{
			Model:        e.model.String(),
			TemperatureC: cond.TemperatureC,
			PressureHPa:  cond.PressureHPa,
			HumidityPct:  cond.HumidityPct,
			WavelengthNm: cond.WavelengthNm,
		},
	}, nil
}

func bodyExport(h astro.Horizontal, raDeg, decDeg, dist float64, unit string) BodyExport {
	b := BodyExport{
		RADeg:     raDeg,
		DecDeg:    decDeg,
		AltDeg:    h.AltDeg(),
		AzDeg:     h.AzDeg(),
		Distance:  dist,
		DistUnit:  unit,
		AboveHorz: h.AltDeg() > 0,
	}
	if h.AirMassOK {
		b.AirMass = h.AirMass
	}
	return b
}

func dayExport(day DayAlmanac) DayExport {
	return DayExport{
		Date:         day.Date.Format("2006-01-02"),
		Sunrise:      eventTime(day.Sunrise),
		Sunset:       eventTime(day.Sunset),
		CivilDawn:    eventTime(day.Civil.Dawn),
		CivilDusk:    eventTime(day.Civil.Dusk),
		NauticalDawn: eventTime(day.Nautical.Dawn),
		NauticalDusk: eventTime(day.Nautical.Dusk),
		AstroDawn:    eventTime(day.Astronomical.Dawn),
		AstroDusk:    eventTime(day.Astronomical.Dusk),
		Moonrise:     eventTime(day.Moonrise),
		Moonset:      eventTime(day.Moonset),
		DarkStart:    eventTime(day.DarkStart),
		DarkEnd:      eventTime(day.DarkEnd),
	}
}

func eventTime(ev Event) *time.Time {
	if ev.Missing {
		return nil
	}
	t := ev.Time.UTC()
	return &t
}

// WriteJSON writes the report as indented JSON to the given writer.
func (r *ReportExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteSummary writes a human-readable text summary of the report.
func (r *ReportExport) WriteSummary(w io.Writer) {
	site := r.Site.Name
	if site == "" {
		site = fmt.Sprintf("%.4f°, %.4f°", r.Site.LatDeg, r.Site.LonDeg)
	}

	fmt.Fprintf(w, "Almanac for %s @ %s\n", site, r.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintln(w, strings.Repeat("─", 64))

	fmt.Fprintf(w, "%-14s alt %+7.2f°  az %7.2f°  %.5f %s\n",
		"Sun", r.Sky.Sun.AltDeg, r.Sky.Sun.AzDeg, r.Sky.Sun.Distance, r.Sky.Sun.DistUnit)
	fmt.Fprintf(w, "%-14s alt %+7.2f°  az %7.2f°  %.0f %s\n",
		"Moon", r.Sky.Moon.AltDeg, r.Sky.Moon.AzDeg, r.Sky.Moon.Distance, r.Sky.Moon.DistUnit)
	fmt.Fprintf(w, "%-14s %s, %.0f%% illuminated\n", "Phase", r.Sky.Phase.Name, r.Sky.Phase.Illumination*100)
	fmt.Fprintln(w)

	rows := []struct {
		name string
		at   *time.Time
	}{
		{"Astro dawn", r.Day.AstroDawn},
		{"Nautical dawn", r.Day.NauticalDawn},
		{"Civil dawn", r.Day.CivilDawn},
		{"Sunrise", r.Day.Sunrise},
		{"Sunset", r.Day.Sunset},
		{"Civil dusk", r.Day.CivilDusk},
		{"Nautical dusk", r.Day.NauticalDusk},
		{"Astro dusk", r.Day.AstroDusk},
		{"Moonrise", r.Day.Moonrise},
		{"Moonset", r.Day.Moonset},
	}
	for _, row := range rows {
		fmt.Fprintf(w, "%-14s %s\n", row.name, formatEventTime(row.at))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Sky quality: %d/100 (%s)\n", r.Quality.Score, r.Quality.Rating)
	fmt.Fprintf(w, "  %s\n", r.Quality.Guidance)
}

func formatEventTime(t *time.Time) string {
	if t == nil {
		return "—"
	}
	return t.Format("15:04 MST")
}
