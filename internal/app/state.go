// Package app holds the application state and its transition functions.
// State is a value type and transitions return new values, so the single
// owner (the UI event loop) is the only place mutation ever happens.
package app

import (
	"github.com/i474232898/termweather/internal/config"
	"github.com/i474232898/termweather/internal/weather"
)

// Screen selects which view is active.
type Screen int

const (
	ScreenCurrent Screen = iota
	ScreenHourly
	ScreenDaily
	ScreenRadar
	ScreenSettings
)

func (s Screen) String() string {
	switch s {
	case ScreenCurrent:
		return "Current"
	case ScreenHourly:
		return "Hourly"
	case ScreenDaily:
		return "Daily"
	case ScreenRadar:
		return "Radar"
	case ScreenSettings:
		return "Settings"
	default:
		return "Unknown"
	}
}

// State is the single source of truth: the live settings, the last good
// snapshot (nil before the first success), the latest error if any, and
// the active screen.
type State struct {
	Settings config.Settings
	Snapshot *weather.Snapshot
	LastErr  *weather.FetchError
	Screen   Screen

	// Refreshing marks a fetch in flight, for the header spinner only.
	Refreshing bool
}

// NewState creates the startup state on the Current screen.
func NewState(settings config.Settings) State {
	return State{Settings: settings, Screen: ScreenCurrent}
}

// WithScreen switches the active screen, leaving data untouched.
func (s State) WithScreen(screen Screen) State {
	s.Screen = screen
	return s
}

// ApplyOutcome folds a fetch completion into the state. Success replaces
// the snapshot and clears the error; failure keeps the last good snapshot
// and records the error, so staleness always beats blankness.
func (s State) ApplyOutcome(o weather.Outcome) State {
	s.Refreshing = false
	if o.Err != nil {
		s.LastErr = o.Err
		return s
	}
	s.Snapshot = o.Snapshot
	s.LastErr = nil
	return s
}

// ApplySettings installs validated settings and clears any configuration
// error so the next fetch reports fresh status.
func (s State) ApplySettings(settings config.Settings) State {
	s.Settings = settings
	s.LastErr = nil
	return s
}

// WithRefreshing toggles the in-flight marker.
func (s State) WithRefreshing(v bool) State {
	s.Refreshing = v
	return s
}
