package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlotRecord_Valid(t *testing.T) {
	tests := []struct {
		name string
		rec  SlotRecord
		want bool
	}{
		{"balanced", SlotRecord{Capacity: 9, Booked: 4, Available: 5}, true},
		{"empty", SlotRecord{Capacity: 9, Booked: 0, Available: 9}, true},
		{"full", SlotRecord{Capacity: 4, Booked: 4, Available: 0}, true},
		{"overbooked", SlotRecord{Capacity: 4, Booked: 5, Available: -1}, false},
		{"sum mismatch", SlotRecord{Capacity: 9, Booked: 3, Available: 3}, false},
		{"negative booked", SlotRecord{Capacity: 9, Booked: -1, Available: 10}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rec.Valid())
		})
	}
}

func TestSlotRecord_TimeSlot(t *testing.T) {
	rec := SlotRecord{Hour: 9}
	assert.Equal(t, "09:00-10:00", rec.TimeSlot())

	rec.Hour = 22
	assert.Equal(t, "22:00-23:00", rec.TimeSlot())
}

func TestSlotRecord_OccupancyRate(t *testing.T) {
	rec := SlotRecord{Capacity: 9, Booked: 9, Available: 0}
	assert.InDelta(t, 1.0, rec.OccupancyRate(), 1e-9)

	rec = SlotRecord{Capacity: 0}
	assert.Zero(t, rec.OccupancyRate())
}

func TestHorizon_Days(t *testing.T) {
	assert.Equal(t, 0, HorizonSameDay.Days())
	assert.Equal(t, 7, HorizonSevenDays.Days())
	assert.Equal(t, 30, HorizonThirtyDays.Days())
	assert.Equal(t, 60, HorizonSixtyDays.Days())
	assert.Equal(t, 90, HorizonNinetyDays.Days())
}

func TestHorizon_Date(t *testing.T) {
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, time.July, 1, 12, 0, 0, 0, time.UTC), HorizonThirtyDays.Date(now))
}
