// Package observer supplies the default observing site when a caller does
// not pass a location explicitly. The engine takes a Provider by
// construction, so the calculation core never reaches into settings itself
// and stays testable with a fixed site.
package observer

import (
	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/config"
)

// Provider resolves the default observer location.
type Provider interface {
	// Location returns the default observing site.
	Location() astro.Location

	// Name returns the site name for display and logging.
	Name() string
}

// Static is a fixed-site Provider.
type Static struct {
	Loc      astro.Location
	SiteName string
}

// Location implements Provider.
func (s Static) Location() astro.Location { return s.Loc }

// Name implements Provider.
func (s Static) Name() string { return s.SiteName }

// FromSettings builds a Static provider from persisted settings. The
// settings are assumed validated; an out-of-range stored location falls
// back to Greenwich rather than failing a session that may never need the
// default site.
func FromSettings(s config.Settings) Static {
	loc, err := s.ObserverLocation()
	if err != nil {
		loc, _ = astro.LocationFromDegrees(51.4769, 0, 0)
		return Static{Loc: loc, SiteName: "Greenwich"}
	}
	name := s.Observer.Name
	if name == "" {
		name = "default site"
	}
	return Static{Loc: loc, SiteName: name}
}
