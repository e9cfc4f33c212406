// Package state provides thread-safe state management for the application.
package state

import (
	"sync"
	"time"

	"github.com/litescript/ls-almanac/internal/almanac"
	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/precision"
)

// EventType represents the type of state change event.
type EventType string

const (
	EventModeChanged EventType = "MODE_CHANGED"
	EventFallback    EventType = "FALLBACK"
	EventDayRollover EventType = "DAY_ROLLOVER"
	EventSunrise     EventType = "SUNRISE"
	EventSunset      EventType = "SUNSET"
)

// Event represents a state change worth surfacing in the event log.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Detail    string    `json:"detail,omitempty"`
}

// Observation is one computed sky snapshot at an instant.
type Observation struct {
	Time   time.Time
	LSTRad float64

	SunEq  astro.SunEquatorial
	Sun    astro.Horizontal
	MoonEq astro.MoonEquatorial
	Moon   astro.Horizontal
	Phase  astro.MoonPhaseInfo

	Quality almanac.SkyQuality
	Mode    precision.Mode
}

// TimeSeries is a single data point with timestamp.
type TimeSeries struct {
	Timestamp time.Time
	Value     float64
}

// Manager handles all shared application state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	// Current state
	current         *Observation
	day             *almanac.DayAlmanac
	lastCompute     time.Time
	lastError       error
	computeDuration time.Duration
	fallbacks       int

	// Altitude history buffers for the trend sparklines
	sunAltHistory  []TimeSeries
	moonAltHistory []TimeSeries
	maxHistoryLen  int

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	// Configuration
	refreshInterval time.Duration
}

// Config holds configuration for the state manager.
type Config struct {
	MaxHistoryLen   int
	MaxEvents       int
	RefreshInterval time.Duration
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxHistoryLen:   120, // ~2 hours at 1 compute/min
		MaxEvents:       50,  // Last 50 events
		RefreshInterval: 5 * time.Second,
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	maxHist := cfg.MaxHistoryLen
	if maxHist <= 0 {
		maxHist = 120
	}
	return &Manager{
		maxHistoryLen:   maxHist,
		maxEvents:       maxEvents,
		events:          make([]Event, 0, maxEvents),
		refreshInterval: cfg.RefreshInterval,
	}
}

// Update atomically replaces the current observation.
func (m *Manager) Update(obs *Observation, computeDuration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastCompute = time.Now()
	m.lastError = err
	m.computeDuration = computeDuration

	if obs == nil {
		return
	}

	m.detectEvents(obs)
	m.current = obs

	m.sunAltHistory = appendBounded(m.sunAltHistory, TimeSeries{obs.Time, obs.Sun.AltDeg()}, m.maxHistoryLen)
	m.moonAltHistory = appendBounded(m.moonAltHistory, TimeSeries{obs.Time, obs.Moon.AltDeg()}, m.maxHistoryLen)
}

func appendBounded(s []TimeSeries, p TimeSeries, max int) []TimeSeries {
	s = append(s, p)
	if len(s) > max {
		s = s[1:]
	}
	return s
}

// SetDayAlmanac stores the almanac for the current date.
func (m *Manager) SetDayAlmanac(da almanac.DayAlmanac) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.day != nil && !m.day.Date.Equal(da.Date) {
		m.addEvent(Event{Type: EventDayRollover, Timestamp: time.Now(), Detail: da.Date.Format("2006-01-02")})
	}
	m.day = &da
}

// RecordFallback notes a high-precision fallback in the event log.
func (m *Manager) RecordFallback(component string, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallbacks++
	m.addEvent(Event{Type: EventFallback, Timestamp: at, Detail: component})
}

// detectEvents compares the new observation with the previous one.
func (m *Manager) detectEvents(obs *Observation) {
	prev := m.current
	if prev == nil {
		return
	}

	if prev.Mode != obs.Mode {
		m.addEvent(Event{Type: EventModeChanged, Timestamp: obs.Time, Detail: obs.Mode.String()})
	}

	// Horizon crossings between successive observations.
	wasUp := prev.Sun.AltDeg() > astro.HorizonAltitudeDeg
	isUp := obs.Sun.AltDeg() > astro.HorizonAltitudeDeg
	switch {
	case !wasUp && isUp:
		m.addEvent(Event{Type: EventSunrise, Timestamp: obs.Time})
	case wasUp && !isUp:
		m.addEvent(Event{Type: EventSunset, Timestamp: obs.Time})
	}
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Observation     *Observation
	Day             *almanac.DayAlmanac
	LastCompute     time.Time
	LastError       error
	ComputeDuration time.Duration
	Fallbacks       int
	SunAltHistory   []TimeSeries
	MoonAltHistory  []TimeSeries
	Events          []Event
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sun := make([]TimeSeries, len(m.sunAltHistory))
	copy(sun, m.sunAltHistory)
	moon := make([]TimeSeries, len(m.moonAltHistory))
	copy(moon, m.moonAltHistory)

	return Snapshot{
		Observation:     m.current,
		Day:             m.day,
		LastCompute:     m.lastCompute,
		LastError:       m.lastError,
		ComputeDuration: m.computeDuration,
		Fallbacks:       m.fallbacks,
		SunAltHistory:   sun,
		MoonAltHistory:  moon,
		Events:          m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// RefreshInterval returns the configured refresh interval.
func (m *Manager) RefreshInterval() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshInterval
}

// SetRefreshInterval updates the refresh interval.
func (m *Manager) SetRefreshInterval(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshInterval = d
}

// HasData returns true if at least one observation has been computed.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}
