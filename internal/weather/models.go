package weather

import (
	"time"

	"github.com/i474232898/termweather/internal/radar"
)

// Units is the user-facing unit system. Stored values are always canonical
// (Celsius, m/s, hPa); Units only affects presentation.
type Units string

const (
	UnitsMetric   Units = "metric"
	UnitsImperial Units = "imperial"
)

// TimeFormat selects 12- or 24-hour clock rendering.
type TimeFormat string

const (
	TimeFormat12 TimeFormat = "12"
	TimeFormat24 TimeFormat = "24"
)

// IconCode is an OpenWeather icon identifier such as "01d" or "10n".
type IconCode string

// Location identifies the place we fetch weather for. Either City+Country
// or Zip+Country must be set. Name/Lat/Lon are filled in by geocoding and
// are immutable for the duration of one fetch.
type Location struct {
	City    string
	State   string
	Country string
	Zip     string

	Name     string
	Lat      float64
	Lon      float64
	Resolved bool
}

// Key returns a canonical string key for this location.
func (l Location) Key() string {
	if l.Zip != "" {
		return l.Zip + ":" + l.Country
	}
	return l.City + ":" + l.State + ":" + l.Country
}

// ByZip reports whether this location is specified by postal code.
func (l Location) ByZip() bool {
	return l.Zip != ""
}

// CurrentConditions holds the observed conditions at fetch time.
// Temperatures are Celsius, wind is m/s, pressure is hPa.
type CurrentConditions struct {
	TempC       float64
	FeelsLikeC  float64
	Humidity    int
	WindMS      float64
	PressureHPa float64
	Description string
	Icon        IconCode
	ObservedAt  time.Time
}

// HourPoint is one entry of the hourly series.
type HourPoint struct {
	At          time.Time
	TempC       float64
	Icon        IconCode
	Description string
	PrecipProb  float64 // 0..1
}

// DayPoint is one entry of the daily series.
type DayPoint struct {
	Date        time.Time
	MinC        float64
	MaxC        float64
	Icon        IconCode
	Description string
	PrecipProb  float64 // 0..1, max over the day
}

// Snapshot is one complete, atomically-replaced view of the weather for a
// location. Hourly holds 24 chronological, gap-free hour points; Daily up
// to 5 chronological days. Radar may be nil when the tile fetch failed;
// everything else is all-or-nothing.
type Snapshot struct {
	FetchedAt time.Time
	Location  Location
	Current   CurrentConditions
	Hourly    []HourPoint
	Daily     []DayPoint
	Radar     *radar.Frame
}
