// Package openweather implements the weather source port against the
// OpenWeatherMap geocoding and current-conditions APIs.
package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/joris-vdw/StyleCast/internal/config"
	"github.com/joris-vdw/StyleCast/internal/domain/weather"
	"github.com/joris-vdw/StyleCast/internal/resilience"
)

// Client fetches current conditions from OpenWeatherMap.
type Client struct {
	baseURL    string
	geoURL     string
	apiKey     string
	httpClient *http.Client
	breaker    *resilience.Breaker
	now        func() time.Time // for testing
}

// NewClient creates an OpenWeatherMap client from config.
func NewClient(cfg config.OpenWeather) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		geoURL:     cfg.GeoURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		now:        time.Now,
	}
}

// SetBreaker attaches a circuit breaker to all outgoing HTTP calls.
func (c *Client) SetBreaker(b *resilience.Breaker) {
	c.breaker = b
}

// demoCoordinates covers common cities so the service stays usable when
// the geocoding API returns nothing for a well-known name.
var demoCoordinates = map[string][2]float64{
	"new york": {40.7128, -74.0060},
	"london":   {51.5074, -0.1278},
	"paris":    {48.8566, 2.3522},
	"tokyo":    {35.6762, 139.6503},
	"sydney":   {-33.8688, 151.2093},
	"leuven":   {50.8798, 4.7005},
}

// Current resolves a free-text location and returns its current conditions.
// Returns weather.ErrLocationNotFound when geocoding yields nothing and
// wraps weather.ErrUpstream for provider failures.
func (c *Client) Current(ctx context.Context, location string) (*weather.Snapshot, error) {
	lat, lon, err := c.geocode(ctx, location)
	if err != nil {
		return nil, err
	}

	data, err := c.fetchConditions(ctx, lat, lon)
	if err != nil {
		return nil, err
	}

	tempC := kelvinToCelsius(data.Main.Temp)
	feelsC := kelvinToCelsius(data.Main.FeelsLike)
	if !isFinite(tempC) || !isFinite(feelsC) {
		return nil, fmt.Errorf("%w: non-finite temperature for %q", weather.ErrUpstream, location)
	}

	snap := &weather.Snapshot{
		Location:    location,
		Temperature: tempC,
		FeelsLike:   feelsC,
		Humidity:    data.Main.Humidity,
		WindSpeed:   round1(data.Wind.Speed * 3.6), // m/s -> km/h
		CapturedAt:  c.now(),
	}
	if len(data.Weather) > 0 {
		snap.Description = data.Weather[0].Description
		snap.Conditions = []string{data.Weather[0].Main}
	}
	return snap, nil
}

// geocode resolves a location name to coordinates, falling back to the
// demo table before reporting the location as unknown.
func (c *Client) geocode(ctx context.Context, location string) (lat, lon float64, err error) {
	params := url.Values{}
	params.Set("q", location)
	params.Set("limit", "1")
	params.Set("appid", c.apiKey)

	body, err := c.get(ctx, c.geoURL+"?"+params.Encode())
	if err != nil {
		return 0, 0, fmt.Errorf("%w: geocode %q: %v", weather.ErrUpstream, location, err)
	}

	var results []struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	}
	if err := json.Unmarshal(body, &results); err != nil {
		return 0, 0, fmt.Errorf("%w: decode geocode response: %v", weather.ErrUpstream, err)
	}
	if len(results) > 0 {
		return results[0].Lat, results[0].Lon, nil
	}

	if coords, ok := demoCoordinates[strings.ToLower(strings.TrimSpace(location))]; ok {
		return coords[0], coords[1], nil
	}
	return 0, 0, fmt.Errorf("%w: %q", weather.ErrLocationNotFound, location)
}

// conditionsResponse is the subset of the OpenWeatherMap payload we read.
type conditionsResponse struct {
	Main struct {
		Temp      float64 `json:"temp"` // Kelvin
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"` // m/s
	} `json:"wind"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
}

func (c *Client) fetchConditions(ctx context.Context, lat, lon float64) (*conditionsResponse, error) {
	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%f", lat))
	params.Set("lon", fmt.Sprintf("%f", lon))
	params.Set("appid", c.apiKey)
	params.Set("units", "standard")

	body, err := c.get(ctx, c.baseURL+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", weather.ErrUpstream, err)
	}

	var data conditionsResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("%w: decode conditions: %v", weather.ErrUpstream, err)
	}
	return &data, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	var result []byte
	call := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("http request: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("status %d: %s", resp.StatusCode, truncateBody(data))
		}

		result = data
		return nil
	}

	if c.breaker != nil {
		if err := c.breaker.Execute(call); err != nil {
			return nil, err
		}
		return result, nil
	}

	if err := call(); err != nil {
		return nil, err
	}
	return result, nil
}

func kelvinToCelsius(k float64) float64 {
	return round1(k - 273.15)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func truncateBody(b []byte) string {
	const max = 200
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
