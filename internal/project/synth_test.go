package project

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alpine-leisure/spawatch/internal/model"
)

func TestSynthesizer_Generate(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	s := NewSynthesizer(9, "onsen", rng)
	date := time.Date(2025, time.September, 6, 0, 0, 0, 0, time.UTC)

	records := s.Generate(date, model.HorizonSevenDays, model.DefaultGuestMix())

	// Spring window runs 9..22 inclusive.
	require.Len(t, records, 14)
	assert.Equal(t, 9, records[0].Hour)
	assert.Equal(t, 22, records[len(records)-1].Hour)
	for _, rec := range records {
		assert.Equal(t, model.SourceSynthetic, rec.Source)
		assert.Equal(t, model.HorizonSevenDays, rec.Horizon)
		assert.Equal(t, "onsen", rec.Venue)
		assert.True(t, rec.Valid())
	}
}

func TestSynthesizer_Generate_AlwaysValid(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 0))
	s := NewSynthesizer(9, "onsen", rng)
	mix := model.DefaultGuestMix()
	base := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	for trial := 0; trial < 1000; trial++ {
		date := base.AddDate(0, 0, trial%365)
		horizon := model.Horizons[trial%len(model.Horizons)]
		for _, rec := range s.Generate(date, horizon, mix) {
			require.True(t, rec.Valid(), "trial %d date %s hour %d", trial, date.Format("2006-01-02"), rec.Hour)
			if rec.Booked == 0 {
				require.Zero(t, rec.Revenue)
			}
		}
	}
}

func TestBaseOccupancy_Buckets(t *testing.T) {
	assert.InDelta(t, 0.75, baseOccupancy(18), 1e-9)
	assert.InDelta(t, 0.55, baseOccupancy(13), 1e-9)
	assert.InDelta(t, 0.35, baseOccupancy(10), 1e-9)
	assert.InDelta(t, 0.45, baseOccupancy(22), 1e-9)
	assert.InDelta(t, 0.45, baseOccupancy(9), 1e-9)
}
