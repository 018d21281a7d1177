package openmeteo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hourlyJSON() string {
	// 13 hourly values so index 12 (midday) exists.
	return `{"hourly":{
		"temperature_2m":[1,2,3,4,5,6,7,8,9,10,11,12,8.5],
		"relative_humidity_2m":[60,60,60,60,60,60,60,60,60,60,60,60,65],
		"visibility":[9000,9000,9000,9000,9000,9000,9000,9000,9000,9000,9000,9000,9500],
		"wind_speed_10m":[3,3,3,3,3,3,3,3,3,3,3,3,4.5],
		"weathercode":[0,0,0,0,0,0,0,0,0,0,0,0,2]
	}}`
}

func TestClient_Midday(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(hourlyJSON()))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	obs, err := c.Midday(context.Background(), -44.7, 169.15, time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.InDelta(t, 8.5, obs.Temperature, 1e-9)
	assert.InDelta(t, 65, obs.Humidity, 1e-9)
	assert.InDelta(t, 4.5, obs.WindSpeed, 1e-9)
	assert.InDelta(t, 9500, obs.Visibility, 1e-9)
	assert.Equal(t, "Partly cloudy", obs.Description)
	assert.Contains(t, gotQuery, "start_date=2025-07-01")
	assert.Contains(t, gotQuery, "timezone=Pacific%2FAuckland")
}

func TestClient_Midday_ShortSeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"hourly":{"temperature_2m":[1,2],"relative_humidity_2m":[60,60],"wind_speed_10m":[3,3]}}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.Midday(context.Background(), -44.7, 169.15, time.Now())
	require.Error(t, err)
}

func TestClient_Midday_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.Midday(context.Background(), -44.7, 169.15, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestDefaultObservation(t *testing.T) {
	obs := DefaultObservation()
	assert.InDelta(t, 12.0, obs.Temperature, 1e-9)
	assert.Equal(t, "Data unavailable", obs.Description)
	assert.InDelta(t, 8000, obs.Visibility, 1e-9)
}

func TestDecodeWeatherCode(t *testing.T) {
	assert.Equal(t, "Clear", decodeWeatherCode(0))
	assert.Equal(t, "Thunderstorm", decodeWeatherCode(95))
	assert.Equal(t, "Unknown", decodeWeatherCode(42))
}
