package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultGuestMix_Valid(t *testing.T) {
	mix := DefaultGuestMix()
	require.NoError(t, mix.Validate())
	assert.Equal(t, 18, mix.FamilyCutoffHour)
}

func TestGuestMix_Validate_BadShares(t *testing.T) {
	mix := DefaultGuestMix()
	mix.Couples.Share = 0.5

	err := mix.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shares sum")
}

func TestLoadGuestMix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mix.yaml")
	content := `guest_mix:
  couples:
    price: 180
    share: 0.5
  groups:
    price: 270
    share: 0.3
  families:
    price: 240
    share: 0.2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	mix, err := LoadGuestMix(path)
	require.NoError(t, err)
	assert.InDelta(t, 180.0, mix.Couples.Price, 1e-9)
	assert.InDelta(t, 0.3, mix.Groups.Share, 1e-9)
	// Cutoff hour defaults when the file omits it.
	assert.Equal(t, 18, mix.FamilyCutoffHour)
}

func TestLoadGuestMix_Missing(t *testing.T) {
	_, err := LoadGuestMix(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadGuestMix_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mix.yaml")
	content := `guest_mix:
  couples: {price: 175, share: 0.9}
  groups: {price: 260, share: 0.2}
  families: {price: 235, share: 0.2}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadGuestMix(path)
	require.Error(t, err)
}
