// Package present maps weather snapshots to render-ready view models.
// Everything here is pure: no I/O, no clock reads, and identical inputs
// always produce identical output, so a unit toggle can re-render without
// a network fetch.
package present

import (
	"fmt"
	"time"

	"github.com/i474232898/termweather/internal/config"
	"github.com/i474232898/termweather/internal/radar"
	"github.com/i474232898/termweather/internal/weather"
)

// TempTier buckets a temperature for color selection.
type TempTier int

const (
	TierCold TempTier = iota
	TierMild
	TierHot
)

// Thresholds are the tier boundaries in canonical Celsius.
type Thresholds struct {
	ColdBelowC float64
	HotAtC     float64
}

// RadarBucket buckets a radar cell intensity for color selection.
type RadarBucket int

const (
	RadarNone RadarBucket = iota
	RadarVeryLight
	RadarLight
	RadarModerate
	RadarHeavy
	RadarExtreme
)

// Model is the fully converted, icon-resolved structure the UI renders.
type Model struct {
	LocationName string
	FetchedAt    string
	Current      CurrentView
	Hourly       []HourView
	Daily        []DayView
	Radar        *RadarView
}

type CurrentView struct {
	Temperature string
	Tier        TempTier
	FeelsLike   string
	Description string
	Humidity    string
	Wind        string
	Pressure    string
	Icon        string
	IconArt     []string
}

type HourView struct {
	Time        string
	Icon        string
	Temperature string
	Tier        TempTier
	Description string
	Precip      string
}

type DayView struct {
	Day         string
	Icon        string
	High        string
	HighTier    TempTier
	Low         string
	LowTier     TempTier
	Description string
}

type RadarView struct {
	Frame *radar.Frame
	Label string
}

// Map derives the view model from a snapshot and the current settings.
func Map(s *weather.Snapshot, set config.Settings, th Thresholds, asciiIcons bool) Model {
	units := set.Units
	tf := set.TimeFormat

	m := Model{
		LocationName: s.Location.Name,
		FetchedAt:    FormatClock(s.FetchedAt.In(s.Current.ObservedAt.Location()), tf),
		Current: CurrentView{
			Temperature: FormatTemp(s.Current.TempC, units),
			Tier:        Tier(s.Current.TempC, th),
			FeelsLike:   FormatTemp(s.Current.FeelsLikeC, units),
			Description: capitalize(s.Current.Description),
			Humidity:    fmt.Sprintf("%d%%", s.Current.Humidity),
			Wind:        FormatWind(s.Current.WindMS, units),
			Pressure:    fmt.Sprintf("%.0f hPa", s.Current.PressureHPa),
			Icon:        Glyph(s.Current.Icon, asciiIcons),
			IconArt:     Art(s.Current.Icon),
		},
	}

	for _, h := range s.Hourly {
		m.Hourly = append(m.Hourly, HourView{
			Time:        FormatClock(h.At, tf),
			Icon:        Glyph(h.Icon, asciiIcons),
			Temperature: FormatTemp(h.TempC, units),
			Tier:        Tier(h.TempC, th),
			Description: capitalize(h.Description),
			Precip:      fmt.Sprintf("%.0f%%", h.PrecipProb*100),
		})
	}

	for _, d := range s.Daily {
		m.Daily = append(m.Daily, DayView{
			Day:         d.Date.Format("Mon"),
			Icon:        Glyph(d.Icon, asciiIcons),
			High:        fmt.Sprintf("↑ %.0f°", convertTemp(d.MaxC, units)),
			HighTier:    Tier(d.MaxC, th),
			Low:         fmt.Sprintf("↓ %.0f°", convertTemp(d.MinC, units)),
			LowTier:     Tier(d.MinC, th),
			Description: capitalize(d.Description),
		})
	}

	if s.Radar != nil {
		m.Radar = &RadarView{Frame: s.Radar, Label: s.Location.Name}
	}
	return m
}

// CToF converts Celsius to Fahrenheit.
func CToF(c float64) float64 {
	return c*9/5 + 32
}

// FToC converts Fahrenheit to Celsius.
func FToC(f float64) float64 {
	return (f - 32) * 5 / 9
}

// MSToMPH converts meters per second to miles per hour.
func MSToMPH(ms float64) float64 {
	return ms * 2.236936
}

func convertTemp(c float64, units weather.Units) float64 {
	if units == weather.UnitsImperial {
		return CToF(c)
	}
	return c
}

// FormatTemp renders a canonical Celsius value in the configured unit.
func FormatTemp(c float64, units weather.Units) string {
	if units == weather.UnitsImperial {
		return fmt.Sprintf("%.1f°F", CToF(c))
	}
	return fmt.Sprintf("%.1f°C", c)
}

// FormatWind renders a canonical m/s wind speed in the configured unit.
func FormatWind(ms float64, units weather.Units) string {
	if units == weather.UnitsImperial {
		return fmt.Sprintf("%.1f mph", MSToMPH(ms))
	}
	return fmt.Sprintf("%.1f m/s", ms)
}

// FormatClock renders a timestamp per the configured time format.
func FormatClock(t time.Time, tf weather.TimeFormat) string {
	if tf == weather.TimeFormat12 {
		return t.Format("3:04 PM")
	}
	return t.Format("15:04")
}

// Tier buckets a canonical Celsius temperature.
func Tier(c float64, th Thresholds) TempTier {
	switch {
	case c < th.ColdBelowC:
		return TierCold
	case c >= th.HotAtC:
		return TierHot
	default:
		return TierMild
	}
}

// BucketGrid converts a sampled intensity grid into radar color buckets.
func BucketGrid(grid [][]float64) [][]RadarBucket {
	out := make([][]RadarBucket, len(grid))
	for i, row := range grid {
		out[i] = make([]RadarBucket, len(row))
		for j, v := range row {
			out[i][j] = Bucket(v)
		}
	}
	return out
}

// Bucket maps one intensity value in [0,1] to its radar bucket.
func Bucket(v float64) RadarBucket {
	switch {
	case v <= 0:
		return RadarNone
	case v <= 0.2:
		return RadarVeryLight
	case v <= 0.4:
		return RadarLight
	case v <= 0.6:
		return RadarModerate
	case v <= 0.8:
		return RadarHeavy
	default:
		return RadarExtreme
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] -= 'a' - 'A'
	}
	return string(r)
}
