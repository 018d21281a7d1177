// Package openmeteo fetches weather observations from the Open-Meteo
// forecast API. Open-Meteo needs no API key, which keeps the analytics
// pipeline self-contained.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.open-meteo.com/v1/forecast"

// Observation holds one day's representative weather conditions.
type Observation struct {
	Temperature float64 `json:"temperature"`
	Description string  `json:"description"`
	Humidity    float64 `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	Visibility  float64 `json:"visibility"`
}

// DefaultObservation is the substitute when the API is unreachable.
// Callers must never see a weather failure.
func DefaultObservation() Observation {
	return Observation{
		Temperature: 12.0,
		Description: "Data unavailable",
		Humidity:    70,
		WindSpeed:   5.0,
		Visibility:  8000,
	}
}

// Client fetches weather observations.
type Client interface {
	// Midday returns the midday conditions for the given location and date.
	Midday(ctx context.Context, lat, lng float64, date time.Time) (*Observation, error)
}

// Option configures the client.
type Option func(*client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// WithBaseURL overrides the API endpoint.
func WithBaseURL(u string) Option {
	return func(c *client) {
		c.baseURL = u
	}
}

// WithRateLimit sets the requests-per-second limit for API calls.
func WithRateLimit(rps float64) Option {
	return func(c *client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

type client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
}

// NewClient creates an Open-Meteo client with the given options.
func NewClient(opts ...Option) Client {
	c := &client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(5, 1),
		baseURL:    defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// forecastResponse is the hourly JSON payload from the forecast API.
type forecastResponse struct {
	Hourly struct {
		Temperature []float64 `json:"temperature_2m"`
		Humidity    []float64 `json:"relative_humidity_2m"`
		Visibility  []float64 `json:"visibility"`
		WindSpeed   []float64 `json:"wind_speed_10m"`
		WeatherCode []int     `json:"weathercode"`
	} `json:"hourly"`
}

func (c *client) Midday(ctx context.Context, lat, lng float64, date time.Time) (*Observation, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "openmeteo: rate limit")
	}

	day := date.Format("2006-01-02")
	params := url.Values{
		"latitude":   {fmt.Sprintf("%g", lat)},
		"longitude":  {fmt.Sprintf("%g", lng)},
		"hourly":     {"temperature_2m,relative_humidity_2m,visibility,wind_speed_10m,weathercode"},
		"start_date": {day},
		"end_date":   {day},
		"timezone":   {"Pacific/Auckland"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "openmeteo: build request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "openmeteo: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("openmeteo: returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "openmeteo: read body")
	}

	var forecast forecastResponse
	if err := json.Unmarshal(body, &forecast); err != nil {
		return nil, eris.Wrap(err, "openmeteo: parse response")
	}

	// Midday values stand in for the whole day.
	const midday = 12
	h := forecast.Hourly
	if len(h.Temperature) <= midday || len(h.Humidity) <= midday || len(h.WindSpeed) <= midday {
		return nil, eris.New("openmeteo: hourly series too short")
	}

	obs := &Observation{
		Temperature: h.Temperature[midday],
		Description: decodeWeatherCode(at(h.WeatherCode, midday, 0)),
		Humidity:    h.Humidity[midday],
		WindSpeed:   h.WindSpeed[midday],
		Visibility:  at(h.Visibility, midday, 10000),
	}
	return obs, nil
}

func at[T any](s []T, i int, fallback T) T {
	if i < len(s) {
		return s[i]
	}
	return fallback
}

// decodeWeatherCode maps Open-Meteo weather codes to simple textual
// descriptions.
func decodeWeatherCode(code int) string {
	codes := map[int]string{
		0:  "Clear",
		1:  "Mainly clear",
		2:  "Partly cloudy",
		3:  "Overcast",
		45: "Fog",
		48: "Freezing fog",
		51: "Light drizzle",
		53: "Drizzle",
		55: "Heavy drizzle",
		61: "Light rain",
		63: "Rain",
		65: "Heavy rain",
		71: "Snow",
		80: "Rain showers",
		95: "Thunderstorm",
	}
	if desc, ok := codes[code]; ok {
		return desc
	}
	return "Unknown"
}
