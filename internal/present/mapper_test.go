package present

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/i474232898/termweather/internal/config"
	"github.com/i474232898/termweather/internal/weather"
)

var testThresholds = Thresholds{ColdBelowC: 0, HotAtC: 20}

func sampleSnapshot() *weather.Snapshot {
	tz := time.FixedZone("local", -8*3600)
	base := time.Date(2024, 3, 1, 14, 0, 0, 0, tz)

	snap := &weather.Snapshot{
		FetchedAt: base,
		Location:  weather.Location{Name: "Monroe, US", Lat: 47.8557, Lon: -121.9715},
		Current: weather.CurrentConditions{
			TempC:       5.5,
			FeelsLikeC:  3.2,
			Humidity:    80,
			WindMS:      2.5,
			PressureHPa: 1012,
			Description: "overcast clouds",
			Icon:        "04d",
			ObservedAt:  base,
		},
	}
	for i := 0; i < 24; i++ {
		snap.Hourly = append(snap.Hourly, weather.HourPoint{
			At:          base.Add(time.Duration(i) * time.Hour),
			TempC:       10 + float64(i%5),
			Icon:        "10d",
			Description: "light rain",
			PrecipProb:  0.4,
		})
	}
	for i := 0; i < 5; i++ {
		snap.Daily = append(snap.Daily, weather.DayPoint{
			Date:        base.AddDate(0, 0, i),
			MinC:        -2,
			MaxC:        22,
			Icon:        "10d",
			Description: "light rain",
		})
	}
	return snap
}

func settings(units weather.Units, tf weather.TimeFormat) config.Settings {
	return config.Settings{
		APIKey:     "key",
		Units:      units,
		TimeFormat: tf,
		Location:   weather.Location{Zip: "98272", Country: "US"},
	}
}

func TestMapIsDeterministic(t *testing.T) {
	snap := sampleSnapshot()
	set := settings(weather.UnitsMetric, weather.TimeFormat24)

	a := Map(snap, set, testThresholds, false)
	b := Map(snap, set, testThresholds, false)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("identical inputs must produce identical view models")
	}
}

func TestMapMetricRendering(t *testing.T) {
	m := Map(sampleSnapshot(), settings(weather.UnitsMetric, weather.TimeFormat24), testThresholds, false)

	if m.Current.Temperature != "5.5°C" {
		t.Fatalf("unexpected temperature %q", m.Current.Temperature)
	}
	if m.Current.Tier != TierMild {
		t.Fatalf("5.5C should be mild, got %v", m.Current.Tier)
	}
	if m.Current.Wind != "2.5 m/s" {
		t.Fatalf("unexpected wind %q", m.Current.Wind)
	}
	if m.Current.Description != "Overcast clouds" {
		t.Fatalf("unexpected description %q", m.Current.Description)
	}
	if m.Hourly[0].Time != "14:00" {
		t.Fatalf("unexpected 24h time %q", m.Hourly[0].Time)
	}
	if len(m.Hourly) != 24 || len(m.Daily) != 5 {
		t.Fatalf("unexpected series lengths: %d hourly, %d daily", len(m.Hourly), len(m.Daily))
	}
	if m.Daily[0].HighTier != TierHot || m.Daily[0].LowTier != TierCold {
		t.Fatal("daily tier bucketing is off")
	}
}

func TestMapImperialToggleNeedsNoRefetch(t *testing.T) {
	snap := sampleSnapshot()
	m := Map(snap, settings(weather.UnitsImperial, weather.TimeFormat12), testThresholds, false)

	if m.Current.Temperature != "41.9°F" {
		t.Fatalf("unexpected imperial temperature %q", m.Current.Temperature)
	}
	if m.Hourly[0].Time != "2:00 PM" {
		t.Fatalf("unexpected 12h time %q", m.Hourly[0].Time)
	}
	// The snapshot itself must remain canonical after mapping.
	if snap.Current.TempC != 5.5 {
		t.Fatalf("mapping mutated stored canonical value: %f", snap.Current.TempC)
	}
}

func TestTemperatureRoundTrip(t *testing.T) {
	for _, c := range []float64{-40, -17.78, 0, 5.5, 20, 37.5, 100} {
		got := FToC(CToF(c))
		if math.Abs(got-c) > 1e-9 {
			t.Fatalf("round trip drifted for %f: got %f", c, got)
		}
	}
}

func TestTierBoundaries(t *testing.T) {
	cases := []struct {
		c    float64
		want TempTier
	}{
		{-0.1, TierCold},
		{0, TierMild},
		{19.9, TierMild},
		{20, TierHot},
	}
	for _, tc := range cases {
		if got := Tier(tc.c, testThresholds); got != tc.want {
			t.Fatalf("Tier(%f) = %v, want %v", tc.c, got, tc.want)
		}
	}
}

func TestRadarBuckets(t *testing.T) {
	cases := []struct {
		v    float64
		want RadarBucket
	}{
		{0, RadarNone},
		{0.1, RadarVeryLight},
		{0.2, RadarVeryLight},
		{0.3, RadarLight},
		{0.5, RadarModerate},
		{0.7, RadarHeavy},
		{0.9, RadarExtreme},
		{1, RadarExtreme},
	}
	for _, tc := range cases {
		if got := Bucket(tc.v); got != tc.want {
			t.Fatalf("Bucket(%f) = %v, want %v", tc.v, got, tc.want)
		}
	}
}

func TestGlyphFallbacks(t *testing.T) {
	if Glyph("01d", false) == "?" {
		t.Fatal("known code should have a glyph")
	}
	if Glyph("99x", false) != "?" {
		t.Fatal("unknown code should fall back to ?")
	}
	if Glyph("99x", true) != "???" {
		t.Fatal("unknown code should fall back to ??? in ascii mode")
	}
}

func TestArtNightAliases(t *testing.T) {
	if !reflect.DeepEqual(Art("13n"), Art("13d")) {
		t.Fatal("13n should alias to 13d art")
	}
	if !reflect.DeepEqual(Art("zzz"), artFallback) {
		t.Fatal("unknown code should return fallback art")
	}
}
