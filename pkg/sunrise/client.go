// Package sunrise wraps the SunriseSunset.io API for sunrise, sunset and
// golden-hour times.
package sunrise

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

const defaultBaseURL = "https://api.sunrisesunset.io/json"

// Times holds one day's solar schedule, as clock strings in the venue's
// local timezone.
type Times struct {
	Sunrise         string `json:"sunrise"`
	Sunset          string `json:"sunset"`
	GoldenHourBegin string `json:"golden_hour_begin"`
	GoldenHourEnd   string `json:"golden_hour_end"`
	DayLength       string `json:"day_length"`
	SolarNoon       string `json:"solar_noon"`
}

// DefaultTimes is the substitute when the API is unreachable: typical
// winter values for the Southern Lakes.
func DefaultTimes() Times {
	return Times{
		Sunrise:         "07:30",
		Sunset:          "17:45",
		GoldenHourBegin: "17:15",
		GoldenHourEnd:   "18:15",
		DayLength:       "10:15:00",
		SolarNoon:       "12:37",
	}
}

// Client fetches solar schedules.
type Client interface {
	Times(ctx context.Context, lat, lng float64, date time.Time) (*Times, error)
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

type client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
}

// NewClient creates a SunriseSunset.io client with the given options.
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

type apiResponse struct {
	Status  string `json:"status"`
	Results struct {
		Sunrise       string `json:"sunrise"`
		Sunset        string `json:"sunset"`
		GoldenHour    string `json:"golden_hour"`
		GoldenHourEnd string `json:"golden_hour_end"`
		DayLength     string `json:"day_length"`
		SolarNoon     string `json:"solar_noon"`
	} `json:"results"`
}

func (c *client) Times(ctx context.Context, lat, lng float64, date time.Time) (*Times, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "sunrise: rate limit")
	}

	params := url.Values{
		"lat":      {fmt.Sprintf("%g", lat)},
		"lng":      {fmt.Sprintf("%g", lng)},
		"date":     {date.Format("2006-01-02")},
		"timezone": {"Pacific/Auckland"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "sunrise: build request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "sunrise: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("sunrise: returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "sunrise: read body")
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, eris.Wrap(err, "sunrise: parse response")
	}
	if apiResp.Status != "OK" {
		return nil, eris.Errorf("sunrise: api status %q", apiResp.Status)
	}

	r := apiResp.Results
	t := &Times{
		Sunrise:         r.Sunrise,
		Sunset:          r.Sunset,
		GoldenHourBegin: r.GoldenHour,
		GoldenHourEnd:   r.GoldenHourEnd,
		DayLength:       r.DayLength,
		SolarNoon:       r.SolarNoon,
	}
	if t.GoldenHourBegin == "" {
		t.GoldenHourBegin = r.Sunset
	}
	if t.GoldenHourEnd == "" {
		t.GoldenHourEnd = r.Sunset
	}
	return t, nil
}
