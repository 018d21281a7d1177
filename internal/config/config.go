package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Competitor CompetitorConfig `yaml:"competitor" mapstructure:"competitor"`
	Client     ClientConfig     `yaml:"client" mapstructure:"client"`
	Scrape     ScrapeConfig     `yaml:"scrape" mapstructure:"scrape"`
	Weather    WeatherConfig    `yaml:"weather" mapstructure:"weather"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Sink       SinkConfig       `yaml:"sink" mapstructure:"sink"`
	Schedule   ScheduleConfig   `yaml:"schedule" mapstructure:"schedule"`
	Analytics  AnalyticsConfig  `yaml:"analytics" mapstructure:"analytics"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// CompetitorConfig describes the venue being watched.
type CompetitorConfig struct {
	Venue    string `yaml:"venue" mapstructure:"venue"`
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`
	Capacity int    `yaml:"capacity" mapstructure:"capacity"`
}

// ClientConfig describes the operator the competitor data is mirrored
// onto.
type ClientConfig struct {
	Venue             string  `yaml:"venue" mapstructure:"venue"`
	Capacity          int     `yaml:"capacity" mapstructure:"capacity"`
	PerformanceFactor float64 `yaml:"performance_factor" mapstructure:"performance_factor"`
	Derate            bool    `yaml:"derate" mapstructure:"derate"`
	// GuestMixPath points at an optional YAML override of the built-in
	// guest mix.
	GuestMixPath string `yaml:"guest_mix_path" mapstructure:"guest_mix_path"`
}

// ScrapeConfig configures page acquisition.
type ScrapeConfig struct {
	TimeoutSecs      int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Retries          int    `yaml:"retries" mapstructure:"retries"`
	RequestDelaySecs int    `yaml:"request_delay_secs" mapstructure:"request_delay_secs"`
	DiagnosticsDir   string `yaml:"diagnostics_dir" mapstructure:"diagnostics_dir"`
}

// WeatherConfig locates the venue for the weather and solar lookups.
type WeatherConfig struct {
	Latitude  float64 `yaml:"latitude" mapstructure:"latitude"`
	Longitude float64 `yaml:"longitude" mapstructure:"longitude"`
}

// StoreConfig configures the run/slot archive backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// SinkConfig configures spreadsheet output.
type SinkConfig struct {
	WorkbookPath string `yaml:"workbook_path" mapstructure:"workbook_path"`
	ExportDir    string `yaml:"export_dir" mapstructure:"export_dir"`
	HistoryDir   string `yaml:"history_dir" mapstructure:"history_dir"`
}

// ScheduleConfig configures the run cadence.
type ScheduleConfig struct {
	IntervalMinutes   int `yaml:"interval_minutes" mapstructure:"interval_minutes"`
	RunTimeoutMinutes int `yaml:"run_timeout_minutes" mapstructure:"run_timeout_minutes"`
	MinSpacingMinutes int `yaml:"min_spacing_minutes" mapstructure:"min_spacing_minutes"`
	StaleHours        int `yaml:"stale_hours" mapstructure:"stale_hours"`
}

// Interval returns the run interval as a duration.
func (s ScheduleConfig) Interval() time.Duration {
	return time.Duration(s.IntervalMinutes) * time.Minute
}

// RunTimeout returns the per-run wall-clock cap.
func (s ScheduleConfig) RunTimeout() time.Duration {
	return time.Duration(s.RunTimeoutMinutes) * time.Minute
}

// MinSpacing returns the minimum gap between runs.
func (s ScheduleConfig) MinSpacing() time.Duration {
	return time.Duration(s.MinSpacingMinutes) * time.Minute
}

// StaleAfter returns the staleness threshold.
func (s ScheduleConfig) StaleAfter() time.Duration {
	return time.Duration(s.StaleHours) * time.Hour
}

// AnalyticsConfig holds the business-model constants.
type AnalyticsConfig struct {
	DailyFixedCosts float64 `yaml:"daily_fixed_costs" mapstructure:"daily_fixed_costs"`
}

// ServerConfig configures the health/status HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Validate checks the fields a given command mode requires.
func (c *Config) Validate(mode string) error {
	var problems []string

	check := func(ok bool, msg string) {
		if !ok {
			problems = append(problems, msg)
		}
	}

	switch mode {
	case "run", "schedule":
		check(c.Competitor.BaseURL != "", "competitor.base_url is required")
		check(c.Competitor.Capacity > 0, "competitor.capacity must be > 0")
		check(c.Client.Capacity > 0, "client.capacity must be > 0")
		check(c.Client.PerformanceFactor > 0 && c.Client.PerformanceFactor <= 1,
			"client.performance_factor must be in (0, 1]")
		check(c.Sink.WorkbookPath != "", "sink.workbook_path is required")
		if mode == "schedule" {
			check(c.Schedule.IntervalMinutes > 0, "schedule.interval_minutes must be > 0")
			check(c.Schedule.RunTimeoutMinutes > 0, "schedule.run_timeout_minutes must be > 0")
		}
	case "analytics":
		check(c.Store.DatabaseURL != "", "store.database_url is required")
		check(c.Client.Capacity > 0, "client.capacity must be > 0")
		check(c.Analytics.DailyFixedCosts > 0, "analytics.daily_fixed_costs must be > 0")
	case "serve":
		check(c.Server.Port > 0, "server.port must be > 0")
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.Errorf("config: invalid for %s mode: %s", mode, strings.Join(problems, "; "))
	}
	return nil
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SPAWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("competitor.venue", "onsen")
	v.SetDefault("competitor.base_url", "https://booking.onsen.co.nz/availability")
	v.SetDefault("competitor.capacity", 9)
	v.SetDefault("client.venue", "alpine-spa")
	v.SetDefault("client.capacity", 4)
	v.SetDefault("client.performance_factor", 0.85)
	v.SetDefault("client.derate", false)
	v.SetDefault("scrape.timeout_secs", 30)
	v.SetDefault("scrape.retries", 2)
	v.SetDefault("scrape.request_delay_secs", 2)
	v.SetDefault("scrape.diagnostics_dir", "diagnostics")
	v.SetDefault("weather.latitude", -44.7)
	v.SetDefault("weather.longitude", 169.15)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "spawatch.db")
	v.SetDefault("sink.workbook_path", "spawatch.xlsx")
	v.SetDefault("sink.export_dir", "exports")
	v.SetDefault("sink.history_dir", ".")
	v.SetDefault("schedule.interval_minutes", 120)
	v.SetDefault("schedule.run_timeout_minutes", 15)
	v.SetDefault("schedule.min_spacing_minutes", 30)
	v.SetDefault("schedule.stale_hours", 5)
	v.SetDefault("analytics.daily_fixed_costs", 1000.0)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
