package project

import (
	"math"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/alpine-leisure/spawatch/internal/model"
)

// MirrorConfig controls the competitor-to-client scaling.
type MirrorConfig struct {
	// ClientCapacity is the number of bookable units at the client venue.
	ClientCapacity int
	// PerformanceFactor derates competitor occupancy to model the client's
	// lower conversion efficiency.
	PerformanceFactor float64
	// Derate enables an additional bounded random reduction in [0.90, 0.95]
	// for conservative projections. Off in production runs.
	Derate bool
	// ClientVenue labels the projected records.
	ClientVenue string
}

// Mirror scales competitor slot records down to client-sized projections.
type Mirror struct {
	cfg MirrorConfig
	rng *rand.Rand
}

// NewMirror builds a mirror projector. The rng is only consulted when
// cfg.Derate is set; pass nil otherwise.
func NewMirror(cfg MirrorConfig, rng *rand.Rand) *Mirror {
	if cfg.Derate {
		zap.L().Info("project: random derating enabled for mirror projections",
			zap.Float64("range_low", derateLow),
			zap.Float64("range_high", derateHigh),
		)
	}
	return &Mirror{cfg: cfg, rng: rng}
}

const (
	derateLow  = 0.90
	derateHigh = 0.95
)

// Project converts one competitor slot into a client projection. The
// canonical order is: competitor occupancy, then the performance factor,
// then the optional random derating, then rounding against client capacity.
// The result never exceeds client capacity and is never negative.
func (m *Mirror) Project(src model.SlotRecord, mix model.GuestMix) model.SlotRecord {
	occupancy := 0.0
	if src.Capacity > 0 {
		occupancy = float64(src.Booked) / float64(src.Capacity)
	}

	clientOccupancy := occupancy * m.cfg.PerformanceFactor
	if m.cfg.Derate && m.rng != nil {
		clientOccupancy *= derateLow + m.rng.Float64()*(derateHigh-derateLow)
	}

	booked := int(math.Round(clientOccupancy * float64(m.cfg.ClientCapacity)))
	if booked > m.cfg.ClientCapacity {
		booked = m.cfg.ClientCapacity
	}
	if booked < 0 {
		booked = 0
	}

	return model.SlotRecord{
		Date:      src.Date,
		Hour:      src.Hour,
		Capacity:  m.cfg.ClientCapacity,
		Booked:    booked,
		Available: m.cfg.ClientCapacity - booked,
		Revenue:   Revenue(booked, src.Hour, mix),
		Source:    model.SourceMirror,
		Horizon:   src.Horizon,
		Venue:     m.cfg.ClientVenue,
		ScrapedAt: src.ScrapedAt,
	}
}

// ProjectAll mirrors a batch of competitor records in order.
func (m *Mirror) ProjectAll(src []model.SlotRecord, mix model.GuestMix) []model.SlotRecord {
	out := make([]model.SlotRecord, 0, len(src))
	for _, rec := range src {
		out = append(out, m.Project(rec, mix))
	}
	return out
}
