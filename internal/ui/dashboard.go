package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-almanac/internal/almanac"
	"github.com/litescript/ls-almanac/internal/state"
)

// Styles for the dashboard
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	upStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("220"))

	downStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	darkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("60")).
			Padding(0, 1)
)

// DashboardModel is the main almanac view: current sky, twilight
// timetable, and trend sparklines.
type DashboardModel struct {
	width    int
	height   int
	snapshot state.Snapshot
	lastErr  error
	siteName string
}

// NewDashboardModel creates a new dashboard model.
func NewDashboardModel() DashboardModel {
	return DashboardModel{}
}

// Init implements the Bubble Tea model interface.
func (m DashboardModel) Init() tea.Cmd {
	return nil
}

// SetSize updates the viewport size.
func (m DashboardModel) SetSize(width, height int) DashboardModel {
	m.width = width
	m.height = height
	return m
}

// SetSiteName sets the observer site name shown in the header.
func (m DashboardModel) SetSiteName(name string) DashboardModel {
	m.siteName = name
	return m
}

// UpdateData updates the model with new data.
func (m DashboardModel) UpdateData(snapshot state.Snapshot) DashboardModel {
	m.snapshot = snapshot
	return m
}

// SetError sets the last error for display.
func (m DashboardModel) SetError(err error) DashboardModel {
	m.lastErr = err
	return m
}

// Update handles messages.
func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	return m, nil
}

// View renders the dashboard.
func (m DashboardModel) View() string {
	var b strings.Builder

	if m.lastErr != nil {
		b.WriteString(errorStyle.Render("  Error: " + m.lastErr.Error()))
		b.WriteString("\n\n")
	}

	obs := m.snapshot.Observation
	if obs == nil {
		if m.lastErr == nil {
			b.WriteString("  Computing sky state...\n")
		}
		return b.String()
	}

	sun := panelStyle.Render(m.renderSunPanel(obs))
	moon := panelStyle.Render(m.renderMoonPanel(obs))
	top := lipgloss.JoinHorizontal(lipgloss.Top, sun, " ", moon)
	b.WriteString(top)
	b.WriteString("\n")

	quality := panelStyle.Render(m.renderQualityPanel(obs))
	twilight := panelStyle.Render(m.renderTwilightPanel())
	mid := lipgloss.JoinHorizontal(lipgloss.Top, twilight, " ", quality)
	b.WriteString(mid)
	b.WriteString("\n")

	b.WriteString(m.renderTrends())

	return b.String()
}

func (m DashboardModel) renderSunPanel(obs *state.Observation) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Sun"))
	b.WriteString("\n")

	b.WriteString(renderAltAz(obs.Sun.AltDeg(), obs.Sun.AzDeg()))
	b.WriteString(kv("RA / Dec", fmt.Sprintf("%7.3f° / %+7.3f°", obs.SunEq.RADeg, obs.SunEq.DecDeg)))
	b.WriteString(kv("Distance", fmt.Sprintf("%.5f AU", obs.SunEq.DistanceAU)))
	if obs.Sun.AirMassOK {
		b.WriteString(kv("Air mass", fmt.Sprintf("%.2f", obs.Sun.AirMass)))
	}
	b.WriteString(kv("LST", formatLST(obs.LSTRad)))

	return b.String()
}

func (m DashboardModel) renderMoonPanel(obs *state.Observation) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Moon"))
	b.WriteString("\n")

	b.WriteString(renderAltAz(obs.Moon.AltDeg(), obs.Moon.AzDeg()))
	b.WriteString(kv("RA / Dec", fmt.Sprintf("%7.3f° / %+7.3f°", obs.MoonEq.RADeg, obs.MoonEq.DecDeg)))
	b.WriteString(kv("Distance", fmt.Sprintf("%.0f km", obs.MoonEq.DistanceKm)))
	b.WriteString(kv("Phase", obs.Phase.PhaseName))
	b.WriteString(kv("Illuminated", renderIllumBar(obs.Phase.Illumination, 12)))

	return b.String()
}

func (m DashboardModel) renderQualityPanel(obs *state.Observation) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Sky Quality"))
	b.WriteString("\n")

	q := obs.Quality
	var style lipgloss.Style
	switch {
	case q.Score >= 70:
		style = darkStyle
	case q.Score >= 30:
		style = upStyle
	default:
		style = errorStyle
	}

	b.WriteString(kv("Score", style.Render(fmt.Sprintf("%d/100 (%s)", q.Score, q.Rating))))
	b.WriteString(kv("Guidance", q.Guidance))

	return b.String()
}

func (m DashboardModel) renderTwilightPanel() string {
	var b strings.Builder
	title := "Today (UTC)"
	if m.siteName != "" {
		title = m.siteName + " · Today (UTC)"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	day := m.snapshot.Day
	if day == nil {
		b.WriteString(labelStyle.Render("(almanac pending)"))
		return b.String()
	}

	rows := []struct {
		name string
		ev   almanac.Event
	}{
		{"Astro dawn", day.Astronomical.Dawn},
		{"Naut dawn", day.Nautical.Dawn},
		{"Civil dawn", day.Civil.Dawn},
		{"Sunrise", day.Sunrise},
		{"Sunset", day.Sunset},
		{"Civil dusk", day.Civil.Dusk},
		{"Naut dusk", day.Nautical.Dusk},
		{"Astro dusk", day.Astronomical.Dusk},
		{"Moonrise", day.Moonrise},
		{"Moonset", day.Moonset},
	}

	for _, r := range rows {
		b.WriteString(kv(r.name, formatEvent(r.ev)))
	}

	return b.String()
}

func (m DashboardModel) renderTrends() string {
	if len(m.snapshot.SunAltHistory) < 2 {
		return ""
	}

	width := 40
	if m.width > 0 && m.width-20 < width {
		width = m.width - 20
	}
	if width < 10 {
		return ""
	}

	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(labelStyle.Render("sun  "))
	b.WriteString(upStyle.Render(Sparkline(altValues(m.snapshot.SunAltHistory), width)))
	b.WriteString("\n  ")
	b.WriteString(labelStyle.Render("moon "))
	b.WriteString(valueStyle.Render(Sparkline(altValues(m.snapshot.MoonAltHistory), width)))
	b.WriteString("\n")
	return b.String()
}

func altValues(ts []state.TimeSeries) []float64 {
	vals := make([]float64, len(ts))
	for i, p := range ts {
		vals[i] = p.Value
	}
	return vals
}

func kv(label, value string) string {
	return labelStyle.Render(fmt.Sprintf("%-12s", label)) + valueStyle.Render(value) + "\n"
}

func renderAltAz(altDeg, azDeg float64) string {
	alt := fmt.Sprintf("%+7.2f°", altDeg)
	if altDeg > 0 {
		alt = upStyle.Render(alt) + labelStyle.Render(" (up)")
	} else {
		alt = downStyle.Render(alt) + labelStyle.Render(" (down)")
	}
	return kv("Altitude", alt) + kv("Azimuth", fmt.Sprintf("%7.2f° %s", azDeg, compassPoint(azDeg)))
}

// compassPoint maps an azimuth (degrees, north=0) to a 16-wind name.
func compassPoint(azDeg float64) string {
	winds := []string{
		"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
		"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
	}
	idx := int((azDeg+11.25)/22.5) % 16
	if idx < 0 {
		idx += 16
	}
	return winds[idx]
}

func renderIllumBar(illum float64, width int) string {
	filled := int(illum*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %3.0f%%", bar, illum*100)
}

func formatEvent(ev almanac.Event) string {
	if ev.Missing {
		return "—"
	}
	return ev.Time.UTC().Format("15:04")
}

// formatLST renders a sidereal time (radians) as HH:MM:SS.
func formatLST(lstRad float64) string {
	hours := lstRad * 12 / math.Pi
	d := time.Duration(hours * float64(time.Hour))
	h := int(d.Hours())
	mm := int(d.Minutes()) % 60
	ss := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, mm, ss)
}
