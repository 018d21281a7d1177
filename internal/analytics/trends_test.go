package analytics

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alpine-leisure/spawatch/internal/model"
	"github.com/alpine-leisure/spawatch/internal/project"
)

func TestTrends(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewPCG(3, 7))
	trends := Trends(now, model.DefaultGuestMix(), 4, rng)

	require.Len(t, trends, 90)

	for _, tr := range trends {
		assert.GreaterOrEqual(t, tr.Bookings, 0)
		assert.LessOrEqual(t, tr.Bookings, 4)
		assert.LessOrEqual(t, tr.Occupancy, 1.0)
		assert.InDelta(t, project.Revenue(tr.Bookings, 14, model.DefaultGuestMix()), tr.Revenue, 1e-9)

		wd := tr.Date.Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			assert.Equal(t, 1.2, tr.Weekend)
		} else {
			assert.Equal(t, 1.0, tr.Weekend)
		}
	}

	assert.Equal(t, "High (same week)", trends[0].Velocity)
	assert.Equal(t, 0.85, trends[0].Confidence)
	assert.Equal(t, "Strong", trends[0].Direction)

	assert.Equal(t, "Medium (this month)", trends[29].Velocity)
	assert.Equal(t, "Low (next month)", trends[59].Velocity)
	assert.Equal(t, "Declining", trends[59].Direction)

	assert.Equal(t, "Very Low (long term)", trends[89].Velocity)
	assert.Equal(t, 0.25, trends[89].Confidence)
	assert.Equal(t, "Planning", trends[89].Direction)
}

func TestTrends_LeadTimeDampensBookings(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	trends := Trends(now, model.DefaultGuestMix(), 4, rand.New(rand.NewPCG(5, 5)))

	nearTotal, farTotal := 0, 0
	for _, tr := range trends[:14] {
		nearTotal += tr.Bookings
	}
	for _, tr := range trends[76:] {
		farTotal += tr.Bookings
	}
	assert.Greater(t, nearTotal, farTotal, "near-term demand outpaces long lead times")
}

func TestAnalyzer_BuildTrends(t *testing.T) {
	s := newMockSink()
	a := New(nil, nil, nil, s, model.DefaultGuestMix(), testConfig())

	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, a.BuildTrends(now, rand.New(rand.NewPCG(1, 2))))

	table, ok := s.replaced[TrendsTab]
	require.True(t, ok)
	assert.Equal(t, trendsHeader, table.Header)
	require.Len(t, table.Rows, 90)

	row := table.Rows[0]
	assert.Equal(t, "1", row[0])
	assert.Equal(t, "2026-06-02", row[1])
	assert.Equal(t, "Tuesday", row[2])
	assert.Equal(t, "85%", row[10])
}
