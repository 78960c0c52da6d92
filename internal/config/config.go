package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/i474232898/termweather/internal/weather"
)

var validate = validator.New()

// Settings is the user-editable part of the configuration. It lives in
// AppState after startup and is only replaced through the settings screen.
type Settings struct {
	APIKey     string             `validate:"required"`
	Location   weather.Location   `validate:"-"`
	Units      weather.Units      `validate:"oneof=metric imperial"`
	TimeFormat weather.TimeFormat `validate:"oneof=12 24"`
}

// Validate checks the settings, including the location rule that plain
// struct tags cannot express: either city+country or zip+country.
func (s Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return err
	}
	loc := s.Location
	if loc.Country == "" {
		return fmt.Errorf("location: country code is required")
	}
	if loc.City == "" && loc.Zip == "" {
		return fmt.Errorf("location: city or zip code is required")
	}
	return nil
}

// AppConfig bundles settings with the operational knobs of the refresh
// engine. Everything has a documented default and can be overridden via
// environment variables (or a .env file).
type AppConfig struct {
	Settings Settings

	// RefreshInterval controls the automatic refresh cadence.
	RefreshInterval time.Duration

	// FetchTimeout bounds one logical fetch end to end.
	FetchTimeout time.Duration

	// BackoffFactor and BackoffMax shape the exponential backoff applied
	// after transient or rate-limited failures.
	BackoffFactor float64
	BackoffMax    time.Duration

	// Temperature color tier boundaries, in canonical Celsius.
	TempColdC float64
	TempHotC  float64

	// Radar tile zoom and frame cache retention.
	RadarZoom      int
	RadarCacheSize int
	RadarCacheAge  time.Duration

	// ASCIIIcons switches the small glyph table to pure-ASCII output for
	// terminals without wide glyph support.
	ASCIIIcons bool

	LogFile string
}

// Load reads configuration from environment with sensible defaults.
// A missing or invalid API key is not an error here: the app still starts
// and sends the user to the settings screen. Malformed values (durations,
// numbers) are errors and abort startup.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}

	interval, err := getenvDuration("REFRESH_INTERVAL", 10*time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.RefreshInterval = interval

	timeout, err := getenvDuration("FETCH_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.FetchTimeout = timeout

	factor, err := getenvFloat("BACKOFF_FACTOR", 2)
	if err != nil {
		return nil, err
	}
	cfg.BackoffFactor = factor

	backoffMax, err := getenvDuration("BACKOFF_MAX", 60*time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.BackoffMax = backoffMax

	cfg.TempColdC, err = getenvFloat("TEMP_COLD_C", 0)
	if err != nil {
		return nil, err
	}
	cfg.TempHotC, err = getenvFloat("TEMP_HOT_C", 20)
	if err != nil {
		return nil, err
	}

	cfg.RadarZoom = getenvInt("RADAR_ZOOM", 8)
	cfg.RadarCacheSize = getenvInt("RADAR_CACHE_SIZE", 16)
	cfg.RadarCacheAge, err = getenvDuration("RADAR_CACHE_AGE", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg.ASCIIIcons = strings.EqualFold(getenvDefault("ICONS", "unicode"), "ascii")
	cfg.LogFile = getenvDefault("LOG_FILE", "termweather.log")

	cfg.Settings = loadSettings()
	return cfg, nil
}

func loadSettings() Settings {
	s := Settings{
		APIKey:     os.Getenv("OPENWEATHER_API_KEY"),
		Units:      weather.Units(strings.ToLower(getenvDefault("UNITS", "metric"))),
		TimeFormat: weather.TimeFormat(getenvDefault("TIME_FORMAT", "24")),
	}

	s.Location = weather.Location{
		Country: getenvDefault("DEFAULT_COUNTRY", "US"),
		City:    os.Getenv("DEFAULT_CITY"),
		State:   os.Getenv("DEFAULT_STATE"),
		Zip:     os.Getenv("DEFAULT_ZIP"),
	}
	if s.Location.City == "" && s.Location.Zip == "" {
		s.Location.Zip = "98272"
	}
	return s
}

// Save writes the settings back to the .env file so they survive the next
// launch. Only non-empty values are written.
func Save(s Settings, path string) error {
	pairs := []struct {
		key, value string
	}{
		{"OPENWEATHER_API_KEY", s.APIKey},
		{"UNITS", string(s.Units)},
		{"TIME_FORMAT", string(s.TimeFormat)},
		{"DEFAULT_COUNTRY", s.Location.Country},
		{"DEFAULT_ZIP", s.Location.Zip},
		{"DEFAULT_CITY", s.Location.City},
		{"DEFAULT_STATE", s.Location.State},
	}

	var b strings.Builder
	for _, p := range pairs {
		if p.value == "" {
			continue
		}
		fmt.Fprintf(&b, "%s=%s\n", p.key, p.value)
	}
	return os.WriteFile(path, []byte(b.String()), 0o600)
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
