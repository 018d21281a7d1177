package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "onsen", cfg.Competitor.Venue)
	assert.Equal(t, 9, cfg.Competitor.Capacity)
	assert.Equal(t, "alpine-spa", cfg.Client.Venue)
	assert.Equal(t, 4, cfg.Client.Capacity)
	assert.InDelta(t, 0.85, cfg.Client.PerformanceFactor, 0.001)
	assert.False(t, cfg.Client.Derate)
	assert.Equal(t, 30, cfg.Scrape.TimeoutSecs)
	assert.Equal(t, 2, cfg.Scrape.Retries)
	assert.Equal(t, 2, cfg.Scrape.RequestDelaySecs)
	assert.InDelta(t, -44.7, cfg.Weather.Latitude, 0.001)
	assert.InDelta(t, 169.15, cfg.Weather.Longitude, 0.001)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "spawatch.xlsx", cfg.Sink.WorkbookPath)
	assert.Equal(t, 120, cfg.Schedule.IntervalMinutes)
	assert.Equal(t, 5, cfg.Schedule.StaleHours)
	assert.InDelta(t, 1000.0, cfg.Analytics.DailyFixedCosts, 0.001)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
competitor:
  capacity: 12
client:
  capacity: 6
  derate: true
store:
  driver: postgres
log:
  level: debug
  format: console
schedule:
  interval_minutes: 60
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.Competitor.Capacity)
	assert.Equal(t, 6, cfg.Client.Capacity)
	assert.True(t, cfg.Client.Derate)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 60, cfg.Schedule.IntervalMinutes)
	// Defaults still apply for unset values
	assert.Equal(t, "onsen", cfg.Competitor.Venue)
	assert.InDelta(t, 0.85, cfg.Client.PerformanceFactor, 0.001)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("SPAWATCH_STORE_DRIVER", "postgres")
	t.Setenv("SPAWATCH_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("SPAWATCH_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestScheduleDurations(t *testing.T) {
	s := ScheduleConfig{
		IntervalMinutes:   120,
		RunTimeoutMinutes: 15,
		MinSpacingMinutes: 30,
		StaleHours:        5,
	}
	assert.Equal(t, 2*time.Hour, s.Interval())
	assert.Equal(t, 15*time.Minute, s.RunTimeout())
	assert.Equal(t, 30*time.Minute, s.MinSpacing())
	assert.Equal(t, 5*time.Hour, s.StaleAfter())
}

// validDefaults returns a Config populated like the built-in defaults.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Competitor.BaseURL = "https://booking.onsen.co.nz/availability"
	cfg.Competitor.Capacity = 9
	cfg.Client.Capacity = 4
	cfg.Client.PerformanceFactor = 0.85
	cfg.Sink.WorkbookPath = "spawatch.xlsx"
	cfg.Schedule.IntervalMinutes = 120
	cfg.Schedule.RunTimeoutMinutes = 15
	cfg.Store.DatabaseURL = "spawatch.db"
	cfg.Analytics.DailyFixedCosts = 1000
	cfg.Server.Port = 8080
	return cfg
}

func TestValidateRun_AllPresent(t *testing.T) {
	assert.NoError(t, validDefaults().Validate("run"))
}

func TestValidateRun_MissingFields(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate("run")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "competitor.base_url is required")
	assert.Contains(t, err.Error(), "competitor.capacity must be > 0")
	assert.Contains(t, err.Error(), "sink.workbook_path is required")
}

func TestValidateRun_PerformanceFactorBounds(t *testing.T) {
	cfg := validDefaults()

	cfg.Client.PerformanceFactor = 0
	assert.ErrorContains(t, cfg.Validate("run"), "performance_factor")

	cfg.Client.PerformanceFactor = 1.5
	assert.ErrorContains(t, cfg.Validate("run"), "performance_factor")

	cfg.Client.PerformanceFactor = 1.0
	assert.NoError(t, cfg.Validate("run"))
}

func TestValidateSchedule_NeedsCadence(t *testing.T) {
	cfg := validDefaults()
	cfg.Schedule.IntervalMinutes = 0

	err := cfg.Validate("schedule")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "interval_minutes")
}

func TestValidateAnalytics_NeedsStore(t *testing.T) {
	cfg := validDefaults()
	cfg.Store.DatabaseURL = ""

	err := cfg.Validate("analytics")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "store.database_url is required")
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidateUnknownMode(t *testing.T) {
	err := validDefaults().Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}
