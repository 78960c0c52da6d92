// Package openweather implements the provider client against the
// OpenWeather data, geocoding, and tile endpoints.
package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/i474232898/termweather/internal/radar"
	"github.com/i474232898/termweather/internal/weather"
)

const userAgent = "termweather/1.0"

// Client fetches weather data from OpenWeather. One call to Fetch combines
// geocoding, current conditions, the 5-day forecast, and the radar tile
// into a single Outcome. Client never returns a Go error from Fetch; every
// failure path is classified into the Outcome.
type Client struct {
	http    *resty.Client
	circuit *gobreaker.CircuitBreaker
	cache   *radar.Cache
	log     *zap.Logger

	mu     sync.Mutex
	apiKey string

	dataBaseURL string
	geoBaseURL  string
	tileBaseURL string
	radarZoom   int
}

// New creates a Client. The timeout bounds individual HTTP calls; callers
// additionally bound the whole fetch via context.
func New(apiKey string, timeout time.Duration, radarZoom int, cache *radar.Cache, log *zap.Logger) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	httpClient := resty.New().
		SetHeader("User-Agent", userAgent).
		SetTimeout(timeout)

	return &Client{
		http:        httpClient,
		circuit:     cb,
		cache:       cache,
		log:         log,
		apiKey:      apiKey,
		dataBaseURL: "https://api.openweathermap.org/data/2.5",
		geoBaseURL:  "http://api.openweathermap.org/geo/1.0",
		tileBaseURL: "https://tile.openweathermap.org",
		radarZoom:   radarZoom,
	}
}

// SetAPIKey replaces the key used for subsequent fetches. Called from the
// settings screen; a fetch already in flight keeps the old key.
func (c *Client) SetAPIKey(key string) {
	c.mu.Lock()
	c.apiKey = key
	c.mu.Unlock()
}

func (c *Client) currentKey() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apiKey
}

// Fetch performs one logical fetch for the location and classifies every
// failure into the returned Outcome.
func (c *Client) Fetch(ctx context.Context, loc weather.Location) weather.Outcome {
	fetchID := uuid.NewString()
	key := c.currentKey()
	if key == "" {
		return weather.Failure(weather.Errf(weather.KindUnauthorized, "no API key configured"))
	}

	resolved, ferr := c.geocode(ctx, loc, key)
	if ferr != nil {
		c.logFailure(fetchID, "geocode", ferr)
		return weather.Failure(ferr)
	}

	var cur currentPayload
	ferr = c.getJSON(ctx, c.dataBaseURL+"/weather", map[string]string{
		"appid": key,
		"lat":   formatCoord(resolved.Lat),
		"lon":   formatCoord(resolved.Lon),
		"units": "metric",
	}, &cur)
	if ferr != nil {
		c.logFailure(fetchID, "current", ferr)
		return weather.Failure(ferr)
	}

	var fc forecastPayload
	ferr = c.getJSON(ctx, c.dataBaseURL+"/forecast", map[string]string{
		"appid": key,
		"lat":   formatCoord(resolved.Lat),
		"lon":   formatCoord(resolved.Lon),
		"units": "metric",
	}, &fc)
	if ferr != nil {
		c.logFailure(fetchID, "forecast", ferr)
		return weather.Failure(ferr)
	}

	snap, ferr := buildSnapshot(resolved, cur, fc, time.Now().UTC())
	if ferr != nil {
		c.logFailure(fetchID, "normalize", ferr)
		return weather.Failure(ferr)
	}

	// The radar layer is decorative; a missing frame must not discard an
	// otherwise complete snapshot.
	frame, err := c.fetchRadar(ctx, resolved, key)
	if err != nil {
		c.log.Warn("radar fetch failed",
			zap.String("fetch_id", fetchID),
			zap.Error(err))
	} else {
		snap.Radar = frame
	}

	c.log.Info("fetch completed",
		zap.String("fetch_id", fetchID),
		zap.String("location", resolved.Name))
	return weather.Success(snap)
}

func (c *Client) logFailure(fetchID, stage string, ferr *weather.FetchError) {
	c.log.Error("fetch failed",
		zap.String("fetch_id", fetchID),
		zap.String("stage", stage),
		zap.String("kind", ferr.Kind.String()),
		zap.String("message", ferr.Message))
}

// geocode resolves the location to coordinates and a display name via the
// OpenWeather geo endpoints. When a city query matches several places the
// first entry wins; the provider orders results by relevance.
func (c *Client) geocode(ctx context.Context, loc weather.Location, key string) (weather.Location, *weather.FetchError) {
	if loc.ByZip() {
		var p geoZipPayload
		ferr := c.getJSON(ctx, c.geoBaseURL+"/zip", map[string]string{
			"appid": key,
			"zip":   fmt.Sprintf("%s,%s", loc.Zip, loc.Country),
		}, &p)
		if ferr != nil {
			return loc, ferr
		}
		if p.Name == "" {
			return loc, weather.Errf(weather.KindNotFound, "zip %s,%s not resolvable", loc.Zip, loc.Country)
		}
		loc.Name = fmt.Sprintf("%s, %s", p.Name, p.Country)
		loc.Lat, loc.Lon = p.Lat, p.Lon
		loc.Resolved = true
		return loc, nil
	}

	q := loc.City
	if loc.State != "" {
		q += "," + loc.State
	}
	if loc.Country != "" {
		q += "," + loc.Country
	}
	var entries geoDirectPayload
	ferr := c.getJSON(ctx, c.geoBaseURL+"/direct", map[string]string{
		"appid": key,
		"q":     q,
		"limit": "5",
	}, &entries)
	if ferr != nil {
		return loc, ferr
	}
	if len(entries) == 0 {
		return loc, weather.Errf(weather.KindNotFound, "location not found: %s", q)
	}

	best := entries[0]
	parts := []string{best.Name}
	if best.State != "" {
		parts = append(parts, best.State)
	}
	parts = append(parts, best.Country)
	loc.Name = strings.Join(parts, ", ")
	loc.Lat, loc.Lon = best.Lat, best.Lon
	loc.Resolved = true
	return loc, nil
}

func (c *Client) fetchRadar(ctx context.Context, loc weather.Location, key string) (*radar.Frame, error) {
	x, y := radar.TileForCoords(loc.Lat, loc.Lon, c.radarZoom)
	cacheKey := radar.TileKey(c.radarZoom, x, y)
	if f, ok := c.cache.Get(cacheKey); ok {
		return f, nil
	}

	tileURL := fmt.Sprintf("%s/map/precipitation_new/%d/%d/%d.png",
		c.tileBaseURL, c.radarZoom, x, y)
	body, ferr := c.getRaw(ctx, tileURL, map[string]string{"appid": key})
	if ferr != nil {
		return nil, ferr
	}

	frame, err := radar.DecodeFrame(body, tileURL, c.radarZoom, x, y)
	if err != nil {
		return nil, err
	}
	c.cache.Put(cacheKey, frame)
	return frame, nil
}

// getJSON executes a GET through the circuit breaker and decodes the JSON
// body. Schema mismatches come back as KindMalformed so they are caught
// here rather than deep inside presentation code.
func (c *Client) getJSON(ctx context.Context, rawURL string, query map[string]string, out interface{}) *weather.FetchError {
	body, ferr := c.getRaw(ctx, rawURL, query)
	if ferr != nil {
		return ferr
	}
	if err := json.Unmarshal(body, out); err != nil {
		return weather.Errf(weather.KindMalformed, "decode %s: %v", pathOf(rawURL), err)
	}
	return nil
}

func (c *Client) getRaw(ctx context.Context, rawURL string, query map[string]string) ([]byte, *weather.FetchError) {
	res, err := c.circuit.Execute(func() (interface{}, error) {
		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParams(query).
			Get(rawURL)
		if err != nil {
			return nil, err
		}
		if ferr := classifyStatus(resp.StatusCode(), resp.Body()); ferr != nil {
			return nil, ferr
		}
		return resp.Body(), nil
	})
	if err != nil {
		return nil, classifyError(err)
	}
	return res.([]byte), nil
}

func classifyStatus(status int, body []byte) *weather.FetchError {
	if status >= 200 && status < 300 {
		return nil
	}

	msg := providerMessage(body)
	switch {
	case status == 401:
		return weather.Errf(weather.KindUnauthorized, "api key rejected: %s", msg)
	case status == 404:
		return weather.Errf(weather.KindNotFound, "not found: %s", msg)
	case status == 429:
		return weather.Errf(weather.KindRateLimited, "rate limited: %s", msg)
	case status >= 500:
		return weather.Errf(weather.KindTransient, "server error %d: %s", status, msg)
	default:
		return weather.Errf(weather.KindTransient, "unexpected status %d: %s", status, msg)
	}
}

func classifyError(err error) *weather.FetchError {
	var ferr *weather.FetchError
	if errors.As(err, &ferr) {
		return ferr
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return weather.Errf(weather.KindTransient, "circuit breaker open")
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return weather.Errf(weather.KindTransient, "request timed out")
	}
	return weather.Errf(weather.KindTransient, "network error: %v", err)
}

// providerMessage extracts OpenWeather's error message when the body
// carries one. The cod field is sometimes a string and sometimes a number,
// so only message is read.
func providerMessage(body []byte) string {
	var p struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &p); err == nil && p.Message != "" {
		return p.Message
	}
	return "no detail"
}

func formatCoord(v float64) string {
	return fmt.Sprintf("%.4f", v)
}

func pathOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Path
}
