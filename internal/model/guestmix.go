package model

import (
	"math"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Segment is one guest-type slice of the booking mix.
type Segment struct {
	Price float64 `yaml:"price" mapstructure:"price"`
	Share float64 `yaml:"share" mapstructure:"share"`
}

// GuestMix is the assumed distribution of booking-party types used to
// compute blended revenue per booked slot. Shares sum to 1.0. Families
// may only book before the cutoff hour; later slots redistribute the
// family share across couples and groups.
type GuestMix struct {
	Couples          Segment `yaml:"couples" mapstructure:"couples"`
	Groups           Segment `yaml:"groups" mapstructure:"groups"`
	Families         Segment `yaml:"families" mapstructure:"families"`
	FamilyCutoffHour int     `yaml:"family_cutoff_hour" mapstructure:"family_cutoff_hour"`
}

// DefaultGuestMix returns the standing business-model assumptions:
// couples $175 at 60%, groups $260 at 20%, families $235 at 20%,
// families barred from 18:00.
func DefaultGuestMix() GuestMix {
	return GuestMix{
		Couples:          Segment{Price: 175, Share: 0.6},
		Groups:           Segment{Price: 260, Share: 0.2},
		Families:         Segment{Price: 235, Share: 0.2},
		FamilyCutoffHour: 18,
	}
}

// Validate checks that shares sum to 1.0 and every segment is priced.
func (m GuestMix) Validate() error {
	total := m.Couples.Share + m.Groups.Share + m.Families.Share
	if math.Abs(total-1.0) > 1e-9 {
		return eris.Errorf("model: guest mix shares sum to %.4f, want 1.0", total)
	}
	if m.Couples.Price <= 0 || m.Groups.Price <= 0 || m.Families.Price <= 0 {
		return eris.New("model: guest mix segment prices must be positive")
	}
	if m.Families.Share >= 1.0 {
		return eris.New("model: family share must leave mass to redistribute")
	}
	if m.FamilyCutoffHour <= 0 || m.FamilyCutoffHour > 24 {
		return eris.Errorf("model: family cutoff hour %d out of range", m.FamilyCutoffHour)
	}
	return nil
}

// LoadGuestMix reads a guest mix from a YAML file with a top-level
// "guest_mix" key. Missing cutoff hour falls back to the default.
func LoadGuestMix(path string) (GuestMix, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return GuestMix{}, eris.Wrapf(err, "model: read guest mix %s", path)
	}

	var wrapper struct {
		GuestMix GuestMix `yaml:"guest_mix"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return GuestMix{}, eris.Wrap(err, "model: parse guest mix")
	}

	mix := wrapper.GuestMix
	if mix.FamilyCutoffHour == 0 {
		mix.FamilyCutoffHour = DefaultGuestMix().FamilyCutoffHour
	}
	if err := mix.Validate(); err != nil {
		return GuestMix{}, err
	}
	return mix, nil
}
