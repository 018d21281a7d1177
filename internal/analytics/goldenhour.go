package analytics

import (
	"strings"
	"time"

	"github.com/alpine-leisure/spawatch/pkg/sunrise"
)

var clockLayouts = []string{"3:04:05 PM", "3:04 PM", "15:04:05", "15:04"}

// parseClockHour extracts the hour from the clock strings the solar API
// returns ("5:50:00 PM", "17:15"). Returns -1 when unparseable.
func parseClockHour(s string) int {
	s = strings.TrimSpace(s)
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Hour()
		}
	}
	return -1
}

// IsGoldenHour reports whether the slot hour overlaps the evening golden
// hour window — the premium sunset soak.
func IsGoldenHour(hour int, times sunrise.Times) bool {
	begin := parseClockHour(times.GoldenHourBegin)
	end := parseClockHour(times.GoldenHourEnd)
	if begin < 0 || end < 0 {
		return false
	}
	return hour >= begin && hour <= end
}
