// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Moon rise/set, sky quality scoring, altitude trend sparklines
// 0.2.0 - Five refraction models, scoped precision overrides, result caching
// 0.1.0 - Initial release: sun/moon positions, twilight solver, TUI dashboard, headless modes
