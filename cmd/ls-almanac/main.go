// Command ls-almanac is a terminal almanac for visual and telescope
// observers: sun and moon positions, twilight times, and sky quality for a
// configured site.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/litescript/ls-almanac/internal/almanac"
	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/config"
	"github.com/litescript/ls-almanac/internal/logging"
	"github.com/litescript/ls-almanac/internal/observer"
	"github.com/litescript/ls-almanac/internal/precision"
	"github.com/litescript/ls-almanac/internal/state"
	"github.com/litescript/ls-almanac/internal/ui"
)

// CLI flags for headless mode
var (
	summaryMode   bool
	jsonPath      string
	watchInterval time.Duration
	dateStr       string
)

const (
	defaultRefresh = 5 * time.Second
	minRefresh     = 1 * time.Second
	maxRefresh     = 5 * time.Minute
)

func main() {
	configPath := flag.String("config", "", "Config file path (default: per-user config dir)")
	refresh := flag.Duration("refresh", defaultRefresh, "Recompute interval for the TUI (e.g., 5s, 1m)")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	latDeg := flag.Float64("lat", 0, "Observer latitude in degrees (overrides config)")
	lonDeg := flag.Float64("lon", 0, "Observer longitude in degrees (overrides config)")
	elevM := flag.Float64("elev", 0, "Observer elevation in meters (overrides config)")
	siteName := flag.String("site", "", "Observer site name (overrides config)")
	precMode := flag.String("precision", "", "Precision mode: auto, high, standard (overrides config)")
	refrModel := flag.String("refraction", "", "Refraction model: bennett, saemundsson, auer-standish, hohenkerk-sinclair, simple")
	flag.BoolVar(&summaryMode, "summary", false, "Print text report instead of TUI")
	flag.StringVar(&jsonPath, "json", "", "Write JSON report to file (use - for stdout)")
	flag.DurationVar(&watchInterval, "watch", 0, "Repeat headless report at interval (e.g., 1m)")
	flag.StringVar(&dateStr, "date", "", "Report date, YYYY-MM-DD (default: today)")
	flag.Parse()

	if *refresh < minRefresh {
		*refresh = minRefresh
	} else if *refresh > maxRefresh {
		*refresh = maxRefresh
	}

	logger := logging.New(logging.ParseLevel(*logLevel))

	settings, err := loadSettings(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	applyOverrides(&settings, *latDeg, *lonDeg, *elevM, *siteName, *precMode, *refrModel)

	if err := settings.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	session := precision.NewSession(precision.Config{UseHighPrecision: settings.UseHighPrecision})
	if err := session.SetMode(settings.Mode()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	provider := observer.FromSettings(settings)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	stateCfg := state.DefaultConfig()
	stateCfg.RefreshInterval = *refresh
	stateMgr := state.NewManager(stateCfg)

	engine, err := almanac.New(almanac.Options{
		Session:         session,
		Sink:            &fanoutSink{logger: logger, state: stateMgr},
		Provider:        provider,
		Conditions:      settings.Conditions(),
		Model:           settings.Model(),
		CacheEnabled:    settings.CacheEnabled,
		CacheMaxEntries: settings.CacheMaxEntries,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Headless when asked for, or when stdout is not a terminal.
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	if summaryMode || jsonPath != "" || dateStr != "" || !isTTY {
		runHeadless(ctx, engine, provider, logger)
		return
	}

	model := ui.New(stateMgr, session.Mode(), provider.Name(), func(m precision.Mode) {
		_ = session.SetMode(m)
	})
	p := tea.NewProgram(model, tea.WithAltScreen())

	go runComputeLoop(ctx, engine, provider, stateMgr, p, logger)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// loadSettings reads the config file, resolving the default path when none
// was given. Missing files yield defaults.
func loadSettings(path string) (config.Settings, error) {
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return config.Default(), nil
		}
		path = p
	}
	return config.Load(path)
}

// applyOverrides folds explicitly set CLI flags into the settings.
func applyOverrides(s *config.Settings, latDeg, lonDeg, elevM float64, site, mode, model string) {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["lat"] {
		s.Observer.LatDeg = latDeg
	}
	if set["lon"] {
		s.Observer.LonDeg = lonDeg
	}
	if set["elev"] {
		s.Observer.ElevationM = elevM
	}
	if site != "" {
		s.Observer.Name = site
	}
	if set["lat"] || set["lon"] {
		if site == "" {
			s.Observer.Name = ""
		}
	}
	if mode != "" {
		s.PrecisionMode = mode
	}
	if model != "" {
		s.RefractionModel = model
	}
}

// fanoutSink forwards fallback events to the logger and the state manager.
type fanoutSink struct {
	logger *logging.Logger
	state  *state.Manager
}

func (s *fanoutSink) Fallback(ev logging.FallbackEvent) {
	s.logger.Fallback(ev)
	if s.state != nil {
		s.state.RecordFallback(ev.Component, ev.At)
	}
}

func runComputeLoop(ctx context.Context, engine *almanac.Engine, provider observer.Provider, stateMgr *state.Manager, p *tea.Program, logger *logging.Logger) {
	doCompute(engine, provider, stateMgr, p, logger)

	ticker := time.NewTicker(stateMgr.RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("Compute loop shutting down")
			return
		case <-ticker.C:
			doCompute(engine, provider, stateMgr, p, logger)
		}
	}
}

func doCompute(engine *almanac.Engine, provider observer.Provider, stateMgr *state.Manager, p *tea.Program, logger *logging.Logger) {
	loc := provider.Location()
	now := time.Now()
	mode := engine.Session().Mode()
	started := time.Now()

	obs, err := buildObservation(engine, now, loc, mode)
	duration := time.Since(started)
	if err != nil {
		logger.Error("Compute failed: %v", err)
		stateMgr.Update(nil, duration, err)
		p.Send(ui.ErrorMsg{Error: err})
		return
	}

	stateMgr.Update(obs, duration, nil)

	// Refresh the day almanac on first compute and at rollover.
	snap := stateMgr.Snapshot()
	today := now.UTC().Truncate(24 * time.Hour)
	if snap.Day == nil || !snap.Day.Date.Equal(today) {
		stateMgr.SetDayAlmanac(engine.DayAlmanac(now, loc, mode))
		snap = stateMgr.Snapshot()
	}

	logger.Debug("Compute complete in %v (sun alt %.2f)", duration, obs.Sun.AltDeg())
	p.Send(ui.DataUpdateMsg{Snapshot: snap})
}

func buildObservation(engine *almanac.Engine, now time.Time, loc astro.Location, mode precision.Mode) (*state.Observation, error) {
	sun, err := engine.SunHorizontal(now, loc, mode)
	if err != nil {
		return nil, err
	}
	moon, err := engine.MoonHorizontal(now, loc, mode)
	if err != nil {
		return nil, err
	}
	quality, err := engine.SkyQuality(now, loc, mode)
	if err != nil {
		return nil, err
	}

	return &state.Observation{
		Time:    now,
		LSTRad:  engine.LocalSiderealTime(now, loc.LonRad, mode),
		SunEq:   engine.SunEquatorial(now, mode),
		Sun:     sun,
		MoonEq:  engine.MoonEquatorial(now, mode),
		Moon:    moon,
		Phase:   engine.MoonPhase(now, mode),
		Quality: quality,
		Mode:    mode,
	}, nil
}

// runHeadless prints the report once or repeatedly, without the TUI.
func runHeadless(ctx context.Context, engine *almanac.Engine, provider observer.Provider, logger *logging.Logger) {
	at := time.Now()
	if dateStr != "" {
		d, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid -date %q (want YYYY-MM-DD)\n", dateStr)
			os.Exit(1)
		}
		// Midday keeps the instantaneous panel meaningful for a past or
		// future date.
		at = d.Add(12 * time.Hour)
	}

	outputOnce := func(t time.Time) error {
		report, err := engine.Report(t, provider.Location(), provider.Name())
		if err != nil {
			return err
		}

		if jsonPath != "" {
			if jsonPath == "-" {
				if err := report.WriteJSON(os.Stdout); err != nil {
					return fmt.Errorf("write JSON to stdout: %w", err)
				}
			} else {
				f, err := os.Create(jsonPath)
				if err != nil {
					return fmt.Errorf("create report file: %w", err)
				}
				defer f.Close()
				if err := report.WriteJSON(f); err != nil {
					return fmt.Errorf("write JSON to file: %w", err)
				}
			}
		}

		if summaryMode || jsonPath == "" {
			report.WriteSummary(os.Stdout)
		}
		return nil
	}

	if watchInterval == 0 {
		if err := outputOnce(at); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Watch mode: repeat at interval, always at the current instant.
	if err := outputOnce(time.Now()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fmt.Println()
			if err := outputOnce(time.Now()); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			logger.Debug("fallbacks so far: %d", logger.FallbackCount())
		}
	}
}
