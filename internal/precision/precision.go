// Package precision manages the precision-mode configuration for the
// calculation engine: which of the standard or high-precision formula
// variants runs, with a scoped override mechanism that restores the previous
// state on every exit path.
package precision

import (
	"fmt"
	"sync"
)

// Mode selects between the standard and high-precision calculation paths.
type Mode int

const (
	// ModeAuto defers the decision to the session's UseHighPrecision flag,
	// evaluated at calculation time rather than at scope entry.
	ModeAuto Mode = iota
	// ModeStandard forces the low-order formulas.
	ModeStandard
	// ModeHigh forces the high-precision formulas (with fallback on error).
	ModeHigh
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeStandard:
		return "standard"
	case ModeHigh:
		return "high"
	default:
		return "unknown"
	}
}

// ErrInvalidMode is wrapped by ParseMode for unrecognized mode names.
var ErrInvalidMode = fmt.Errorf("precision: invalid mode")

// ParseMode parses a mode name. Unlike lenient parsers elsewhere, an unknown
// mode is an error: a typo in a persisted config should surface before any
// calculation runs.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "auto", "":
		return ModeAuto, nil
	case "standard":
		return ModeStandard, nil
	case "high":
		return ModeHigh, nil
	default:
		return ModeAuto, fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// Config is the precision-related configuration a Session carries.
type Config struct {
	// UseHighPrecision is consulted when the effective mode is auto.
	UseHighPrecision bool
}

// DefaultConfig prefers the high-precision path.
func DefaultConfig() Config {
	return Config{UseHighPrecision: true}
}

// Session holds the precision state for one logical calculation session.
// Concurrent sessions do not share state; a single session is safe for
// concurrent use. There is deliberately no package-level mode: callers
// construct a Session and inject it where needed.
type Session struct {
	mu     sync.Mutex
	mode   Mode
	config Config
	stack  []savedState
}

type savedState struct {
	mode   Mode
	config Config
}

// NewSession creates a session in auto mode with the given config.
func NewSession(cfg Config) *Session {
	return &Session{mode: ModeAuto, config: cfg}
}

// Mode returns the session's current mode.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetMode sets the session mode.
func (s *Session) SetMode(m Mode) error {
	if m != ModeAuto && m != ModeStandard && m != ModeHigh {
		return fmt.Errorf("%w: %d", ErrInvalidMode, int(m))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = m
	return nil
}

// Config returns the session's current configuration.
func (s *Session) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

// SetConfig replaces the session configuration.
func (s *Session) SetConfig(cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
}

// Scoped saves the current mode and config, applies the override, and
// returns the restore function. The caller defers the restore so it runs on
// every exit path, including panics:
//
//	defer sess.Scoped(precision.ModeHigh)()
//
// Overrides nest; restores must run in reverse order of the saves, which
// defer guarantees within one goroutine.
func (s *Session) Scoped(m Mode, overrides ...func(*Config)) func() {
	s.mu.Lock()
	s.stack = append(s.stack, savedState{mode: s.mode, config: s.config})
	s.mode = m
	for _, o := range overrides {
		o(&s.config)
	}
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if len(s.stack) == 0 {
			return
		}
		saved := s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]
		s.mode = saved.mode
		s.config = saved.config
	}
}

// WithHighPrecision is a Scoped config override setting the auto-mode flag.
func WithHighPrecision(v bool) func(*Config) {
	return func(c *Config) { c.UseHighPrecision = v }
}

// ShouldUseHighPrecision resolves whether a calculation takes the
// high-precision path. A non-auto override wins outright; otherwise the
// session mode decides, with auto falling through to the UseHighPrecision
// flag as it stands right now.
func (s *Session) ShouldUseHighPrecision(override Mode) bool {
	if override == ModeHigh {
		return true
	}
	if override == ModeStandard {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.mode {
	case ModeHigh:
		return true
	case ModeStandard:
		return false
	default:
		return s.config.UseHighPrecision
	}
}
