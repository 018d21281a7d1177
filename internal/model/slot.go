// Package model holds the domain types shared across the scrape and
// projection pipeline: slot records, operating windows, guest mix, and
// run history entries.
package model

import (
	"fmt"
	"time"
)

// Source identifies how a slot record was produced.
type Source string

const (
	// SourceLive marks records backed by an explicit availability signal
	// found on the booking page.
	SourceLive Source = "live_scrape"
	// SourceSynthetic marks records generated from occupancy heuristics
	// when the page yielded no usable signal.
	SourceSynthetic Source = "synthetic_fallback"
	// SourceMirror marks records projected from competitor data onto the
	// client venue.
	SourceMirror Source = "mirror_projection"
)

// Horizon labels the lead time between a scrape and the booking date it
// targets.
type Horizon string

const (
	HorizonSameDay    Horizon = "SameDay"
	HorizonSevenDays  Horizon = "SevenDays"
	HorizonThirtyDays Horizon = "ThirtyDays"
	HorizonSixtyDays  Horizon = "SixtyDays"
	HorizonNinetyDays Horizon = "NinetyDays"
)

// Horizons lists every lead time in processing order.
var Horizons = []Horizon{
	HorizonSameDay,
	HorizonSevenDays,
	HorizonThirtyDays,
	HorizonSixtyDays,
	HorizonNinetyDays,
}

// Days returns the lead time in days. Unknown horizons resolve to 0.
func (h Horizon) Days() int {
	switch h {
	case HorizonSevenDays:
		return 7
	case HorizonThirtyDays:
		return 30
	case HorizonSixtyDays:
		return 60
	case HorizonNinetyDays:
		return 90
	default:
		return 0
	}
}

// Date resolves the booking date for this horizon relative to now.
func (h Horizon) Date(now time.Time) time.Time {
	return now.AddDate(0, 0, h.Days())
}

// SlotRecord is one bookable hour of one day at one venue.
type SlotRecord struct {
	Date      time.Time `json:"date"`
	Hour      int       `json:"hour"`
	Capacity  int       `json:"capacity"`
	Booked    int       `json:"booked"`
	Available int       `json:"available"`
	Revenue   float64   `json:"revenue"`
	Source    Source    `json:"source"`
	Horizon   Horizon   `json:"horizon"`
	Venue     string    `json:"venue"`
	ScrapedAt time.Time `json:"scraped_at"`
}

// TimeSlot returns the display label for the hour, e.g. "14:00-15:00".
func (s SlotRecord) TimeSlot() string {
	return fmt.Sprintf("%02d:00-%02d:00", s.Hour, s.Hour+1)
}

// OccupancyRate returns booked/capacity, or 0 for a zero-capacity record.
func (s SlotRecord) OccupancyRate() float64 {
	if s.Capacity <= 0 {
		return 0
	}
	return float64(s.Booked) / float64(s.Capacity)
}

// Valid reports whether the record satisfies the capacity invariant:
// booked and available are non-negative and sum to capacity.
func (s SlotRecord) Valid() bool {
	return s.Booked >= 0 &&
		s.Available >= 0 &&
		s.Booked <= s.Capacity &&
		s.Booked+s.Available == s.Capacity
}
