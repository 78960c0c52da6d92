package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/i474232898/termweather/internal/weather"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"REFRESH_INTERVAL", "FETCH_TIMEOUT", "BACKOFF_FACTOR", "BACKOFF_MAX",
		"TEMP_COLD_C", "TEMP_HOT_C", "DEFAULT_ZIP", "DEFAULT_CITY", "UNITS",
		"TIME_FORMAT", "OPENWEATHER_API_KEY",
	} {
		os.Unsetenv(key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RefreshInterval != 10*time.Minute {
		t.Fatalf("expected 10m default interval, got %v", cfg.RefreshInterval)
	}
	if cfg.BackoffFactor != 2 {
		t.Fatalf("expected backoff factor 2, got %v", cfg.BackoffFactor)
	}
	if cfg.TempHotC != 20 || cfg.TempColdC != 0 {
		t.Fatalf("unexpected tier defaults: cold=%v hot=%v", cfg.TempColdC, cfg.TempHotC)
	}
	if cfg.Settings.Location.Zip != "98272" || cfg.Settings.Location.Country != "US" {
		t.Fatalf("unexpected default location: %+v", cfg.Settings.Location)
	}
	if cfg.Settings.Units != weather.UnitsMetric {
		t.Fatalf("expected metric default, got %q", cfg.Settings.Units)
	}
}

func TestLoadRejectsMalformedDuration(t *testing.T) {
	t.Setenv("REFRESH_INTERVAL", "soon")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed REFRESH_INTERVAL")
	}
}

func TestSettingsValidate(t *testing.T) {
	valid := Settings{
		APIKey:     "0123456789abcdef0123456789abcdef",
		Location:   weather.Location{Zip: "98272", Country: "US"},
		Units:      weather.UnitsMetric,
		TimeFormat: weather.TimeFormat24,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid settings rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"missing api key", func(s *Settings) { s.APIKey = "" }},
		{"missing country", func(s *Settings) { s.Location.Country = "" }},
		{"no city or zip", func(s *Settings) { s.Location.Zip = ""; s.Location.City = "" }},
		{"bad units", func(s *Settings) { s.Units = "nautical" }},
		{"bad time format", func(s *Settings) { s.TimeFormat = "13" }},
	}
	for _, tc := range cases {
		s := valid
		tc.mutate(&s)
		if err := s.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}

func TestSaveWritesNonEmptyValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	s := Settings{
		APIKey:     "key",
		Location:   weather.Location{City: "Monroe", State: "WA", Country: "US"},
		Units:      weather.UnitsImperial,
		TimeFormat: weather.TimeFormat12,
	}
	if err := Save(s, path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	content := string(data)
	for _, want := range []string{
		"OPENWEATHER_API_KEY=key", "UNITS=imperial", "TIME_FORMAT=12",
		"DEFAULT_CITY=Monroe", "DEFAULT_STATE=WA", "DEFAULT_COUNTRY=US",
	} {
		if !strings.Contains(content, want) {
			t.Fatalf("missing %q in saved env:\n%s", want, content)
		}
	}
	if strings.Contains(content, "DEFAULT_ZIP") {
		t.Fatal("empty zip should not be written")
	}
}
