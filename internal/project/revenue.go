// Package project holds the booking and revenue projection rules: blended
// guest-mix revenue, competitor-to-client mirror scaling, and the synthetic
// occupancy generator used when live extraction fails.
package project

import (
	"math"

	"github.com/alpine-leisure/spawatch/internal/model"
)

// BlendedRate returns the average revenue per booked slot for the given hour.
// Before the family cutoff all three segments contribute at their configured
// shares. From the cutoff onward the family share is redistributed across
// couples and groups, renormalized over the remaining mass.
func BlendedRate(hour int, mix model.GuestMix) float64 {
	if hour < mix.FamilyCutoffHour {
		return mix.Couples.Share*mix.Couples.Price +
			mix.Groups.Share*mix.Groups.Price +
			mix.Families.Share*mix.Families.Price
	}

	remaining := mix.Couples.Share + mix.Groups.Share
	return (mix.Couples.Share/remaining)*mix.Couples.Price +
		(mix.Groups.Share/remaining)*mix.Groups.Price
}

// Revenue projects revenue for a slot with the given booked count and hour,
// rounded to cents. Zero or negative bookings always project zero.
func Revenue(booked, hour int, mix model.GuestMix) float64 {
	if booked <= 0 {
		return 0
	}
	return round2(float64(booked) * BlendedRate(hour, mix))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
