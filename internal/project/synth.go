package project

import (
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/alpine-leisure/spawatch/internal/model"
)

// Synthesizer generates plausible occupancy data when live extraction
// fails. It also backs the dry-run mode, so it is a first-class generator
// rather than a stub.
type Synthesizer struct {
	capacity int
	venue    string
	rng      *rand.Rand
}

// NewSynthesizer builds a generator for the given venue capacity.
func NewSynthesizer(capacity int, venue string, rng *rand.Rand) *Synthesizer {
	return &Synthesizer{capacity: capacity, venue: venue, rng: rng}
}

// baseOccupancy maps an hour to its typical demand level: peak evening
// highest, afternoon medium, morning lowest.
func baseOccupancy(hour int) float64 {
	switch {
	case hour >= 17 && hour <= 20:
		return 0.75
	case hour >= 12 && hour <= 16:
		return 0.55
	case hour >= 10 && hour <= 11:
		return 0.35
	default:
		return 0.45
	}
}

// Generate produces one record per operating-window hour for the given
// booking date. Occupancy decays with lead time, gets a weekend boost, and
// carries bounded uniform noise; the result always satisfies the slot
// invariant (available + booked == capacity, booked within [0, capacity]).
func (s *Synthesizer) Generate(date time.Time, horizon model.Horizon, mix model.GuestMix) []model.SlotRecord {
	window := model.ResolveWindow(date)
	decay := math.Max(0.3, 1.0-float64(horizon.Days())*0.01)
	weekend := date.Weekday() == time.Saturday || date.Weekday() == time.Sunday

	now := time.Now()
	records := make([]model.SlotRecord, 0, window.Slots())
	for _, hour := range window.Hours() {
		occupancy := baseOccupancy(hour) * decay
		if weekend {
			occupancy *= 1.2
		}
		occupancy += s.rng.Float64()*0.3 - 0.15
		occupancy = math.Max(0, math.Min(1.0, occupancy))

		booked := int(math.Round(occupancy * float64(s.capacity)))
		records = append(records, model.SlotRecord{
			Date:      date,
			Hour:      hour,
			Capacity:  s.capacity,
			Booked:    booked,
			Available: s.capacity - booked,
			Revenue:   Revenue(booked, hour, mix),
			Source:    model.SourceSynthetic,
			Horizon:   horizon,
			Venue:     s.venue,
			ScrapedAt: now,
		})
	}

	zap.L().Debug("project: synthesized fallback records",
		zap.String("date", date.Format("2006-01-02")),
		zap.String("horizon", string(horizon)),
		zap.Int("records", len(records)),
	)
	return records
}
