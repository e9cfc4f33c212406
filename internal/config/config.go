// Package config persists engine defaults across runs: precision mode,
// atmospheric conditions, refraction model, cache sizing, and the default
// observer. Storage is a YAML file; validation happens at the load/save
// boundary so a bad file surfaces before any calculation starts.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/precision"
)

// ConfigurationError reports an invalid persisted configuration value.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("config: invalid %s: %s", e.Field, e.Reason)
}

// ObserverSettings is the persisted default observer location, in degrees
// for readability of the on-disk file.
type ObserverSettings struct {
	Name       string  `yaml:"name"`
	LatDeg     float64 `yaml:"latitude_deg"`
	LonDeg     float64 `yaml:"longitude_deg"`
	ElevationM float64 `yaml:"elevation_m"`
}

// Settings is the full persisted configuration.
type Settings struct {
	PrecisionMode    string  `yaml:"precision_mode"`
	UseHighPrecision bool    `yaml:"use_high_precision"`
	TemperatureC     float64 `yaml:"temperature_c"`
	PressureHPa      float64 `yaml:"pressure_hpa"`
	HumidityPct      float64 `yaml:"humidity_pct"`
	WavelengthNm     float64 `yaml:"wavelength_nm"`
	RefractionModel  string  `yaml:"refraction_model"`
	CacheEnabled     bool    `yaml:"cache_enabled"`
	CacheMaxEntries  int     `yaml:"cache_max_entries"`

	Observer ObserverSettings `yaml:"observer"`
}

// Default returns the settings used when no file exists: auto precision
// preferring the high path, standard atmosphere, Bennett refraction, caching
// on, Greenwich as the observer of last resort.
func Default() Settings {
	return Settings{
		PrecisionMode:    precision.ModeAuto.String(),
		UseHighPrecision: true,
		TemperatureC:     astro.StandardConditions.TemperatureC,
		PressureHPa:      astro.StandardConditions.PressureHPa,
		HumidityPct:      0,
		WavelengthNm:     astro.StandardConditions.WavelengthNm,
		RefractionModel:  astro.RefractionBennett.String(),
		CacheEnabled:     true,
		CacheMaxEntries:  512,
		Observer: ObserverSettings{
			Name:   "Greenwich",
			LatDeg: 51.4769,
			LonDeg: 0,
		},
	}
}

// Validate checks every field that later code trusts.
func (s Settings) Validate() error {
	if _, err := precision.ParseMode(s.PrecisionMode); err != nil {
		return &ConfigurationError{Field: "precision_mode", Reason: err.Error()}
	}
	if _, err := astro.ParseRefractionModel(s.RefractionModel); err != nil {
		return &ConfigurationError{Field: "refraction_model", Reason: err.Error()}
	}
	if s.PressureHPa < 0 || s.PressureHPa > 1200 {
		return &ConfigurationError{Field: "pressure_hpa", Reason: "must be in [0, 1200]"}
	}
	if s.TemperatureC < -90 || s.TemperatureC > 60 {
		return &ConfigurationError{Field: "temperature_c", Reason: "must be in [-90, 60]"}
	}
	if s.HumidityPct < 0 || s.HumidityPct > 100 {
		return &ConfigurationError{Field: "humidity_pct", Reason: "must be in [0, 100]"}
	}
	if s.CacheMaxEntries < 0 {
		return &ConfigurationError{Field: "cache_max_entries", Reason: "must be >= 0"}
	}
	if _, err := astro.LocationFromDegrees(s.Observer.LatDeg, s.Observer.LonDeg, s.Observer.ElevationM); err != nil {
		return &ConfigurationError{Field: "observer", Reason: err.Error()}
	}
	return nil
}

// Conditions converts the atmospheric settings to astro.Conditions.
func (s Settings) Conditions() astro.Conditions {
	return astro.Conditions{
		TemperatureC: s.TemperatureC,
		PressureHPa:  s.PressureHPa,
		HumidityPct:  s.HumidityPct,
		WavelengthNm: s.WavelengthNm,
	}
}

// Mode returns the parsed precision mode. Validate must have passed.
func (s Settings) Mode() precision.Mode {
	m, _ := precision.ParseMode(s.PrecisionMode)
	return m
}

// Model returns the parsed refraction model. Validate must have passed.
func (s Settings) Model() astro.RefractionModel {
	m, _ := astro.ParseRefractionModel(s.RefractionModel)
	return m
}

// ObserverLocation returns the validated default observer location.
func (s Settings) ObserverLocation() (astro.Location, error) {
	return astro.LocationFromDegrees(s.Observer.LatDeg, s.Observer.LonDeg, s.Observer.ElevationM)
}

// DefaultPath returns the per-user config file path.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: locate user config dir: %w", err)
	}
	return filepath.Join(dir, "ls-almanac", "config.yaml"), nil
}

// Load reads and validates settings from path. A missing file yields the
// defaults without error; a malformed or invalid file is surfaced.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	s := Default()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, &ConfigurationError{Field: "file", Reason: err.Error()}
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Save validates and writes settings to path, creating parent directories.
func Save(path string, s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
