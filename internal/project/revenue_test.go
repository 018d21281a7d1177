package project

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alpine-leisure/spawatch/internal/model"
)

func TestBlendedRate(t *testing.T) {
	mix := model.DefaultGuestMix()

	// 0.6*175 + 0.2*260 + 0.2*235
	assert.InDelta(t, 204.0, BlendedRate(12, mix), 1e-9)
	// families excluded, 0.75*175 + 0.25*260
	assert.InDelta(t, 196.25, BlendedRate(18, mix), 1e-9)
	assert.InDelta(t, 196.25, BlendedRate(22, mix), 1e-9)
}

func TestRevenue(t *testing.T) {
	mix := model.DefaultGuestMix()

	tests := []struct {
		name   string
		booked int
		hour   int
		want   float64
	}{
		{"daytime", 3, 14, 612.00},
		{"evening", 2, 19, 392.50},
		{"cutoff boundary", 1, 18, 196.25},
		{"just before cutoff", 1, 17, 204.00},
		{"zero booked", 0, 14, 0},
		{"negative booked clamps", -2, 14, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Revenue(tt.booked, tt.hour, mix), 1e-9)
		})
	}
}

func TestRevenue_Idempotent(t *testing.T) {
	mix := model.DefaultGuestMix()
	first := Revenue(5, 15, mix)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Revenue(5, 15, mix))
	}
}

func TestRevenue_ZeroForAnyHour(t *testing.T) {
	mix := model.DefaultGuestMix()
	for hour := 0; hour < 24; hour++ {
		assert.Zero(t, Revenue(0, hour, mix))
	}
}
