package sunrise

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Times(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2025-07-01", r.URL.Query().Get("date"))
		w.Write([]byte(`{"status":"OK","results":{
			"sunrise":"8:12:43 AM","sunset":"5:23:10 PM",
			"golden_hour":"4:45:00 PM","golden_hour_end":"5:50:00 PM",
			"day_length":"9:10:27","solar_noon":"12:47:56 PM"
		}}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	times, err := c.Times(context.Background(), -44.7, 169.15, time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "8:12:43 AM", times.Sunrise)
	assert.Equal(t, "5:23:10 PM", times.Sunset)
	assert.Equal(t, "4:45:00 PM", times.GoldenHourBegin)
	assert.Equal(t, "9:10:27", times.DayLength)
}

func TestClient_Times_MissingGoldenHour(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK","results":{"sunrise":"7:30:00 AM","sunset":"5:45:00 PM","day_length":"10:15:00","solar_noon":"12:37:00 PM"}}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	times, err := c.Times(context.Background(), -44.7, 169.15, time.Now())
	require.NoError(t, err)

	// Golden hour falls back to sunset when absent.
	assert.Equal(t, "5:45:00 PM", times.GoldenHourBegin)
	assert.Equal(t, "5:45:00 PM", times.GoldenHourEnd)
}

func TestClient_Times_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"INVALID_REQUEST"}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.Times(context.Background(), -44.7, 169.15, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID_REQUEST")
}

func TestDefaultTimes(t *testing.T) {
	times := DefaultTimes()
	assert.Equal(t, "07:30", times.Sunrise)
	assert.Equal(t, "17:45", times.Sunset)
	assert.Equal(t, "10:15:00", times.DayLength)
}
