// Package analytics builds the weather-integrated projection tabs:
// enhanced per-horizon mirrors, weekly revenue projections, and extended
// booking trends.
package analytics

import (
	"math"
	"time"

	"github.com/alpine-leisure/spawatch/internal/model"
	"github.com/alpine-leisure/spawatch/internal/project"
)

// Score rates weather suitability for hot tub bathing on a 1-10 scale.
// Cool crisp days score best; storms and heat score worst.
func Score(temp float64, condition string, humidity float64) float64 {
	score := 5.0

	// Ideal soaking temperature band for the Southern Lakes.
	switch {
	case temp >= 5 && temp <= 15:
		score += 2.0
	case (temp >= 0 && temp < 5) || (temp > 15 && temp <= 20):
		score += 1.0
	case temp < 0 || temp > 25:
		score -= 1.0
	}

	conditionScores := map[string]float64{
		"Clear":        2.0,
		"Mainly clear": 1.5,
		"Clouds":       1.0,
		"Rain":         -1.0,
		"Snow":         1.5,
		"Thunderstorm": -2.0,
		"Mist":         0.5,
	}
	score += conditionScores[condition]

	switch {
	case humidity >= 50 && humidity <= 80:
		score += 0.5
	case humidity > 90:
		score -= 0.5
	}

	return math.Max(1.0, math.Min(10.0, score))
}

// DemandMultiplier converts a weather score into a booking demand
// adjustment in [0.8, 1.2].
func DemandMultiplier(score float64) float64 {
	return 0.8 + (score/10)*0.4
}

// SeasonalMultiplier returns the southern-hemisphere demand factor for a
// month. Winter peaks: cold air sells hot water.
func SeasonalMultiplier(month time.Month) float64 {
	switch month {
	case time.December, time.January, time.February:
		return 1.2
	case time.March, time.April, time.May:
		return 1.0
	case time.June, time.July, time.August:
		return 1.3
	default:
		return 1.1
	}
}

// Breakeven returns the bookings per slot needed to cover the share of
// daily fixed costs carried by each operating slot, rounded to one
// decimal.
func Breakeven(mix model.GuestMix, dailyFixedCosts float64, slotsPerDay int) float64 {
	avg := (project.BlendedRate(12, mix) + project.BlendedRate(18, mix)) / 2
	costPerSlot := dailyFixedCosts / float64(slotsPerDay)
	return math.Round(costPerSlot/avg*10) / 10
}
