/*
Package config loads runtime configuration for the server and CLI.

SOURCES (later wins):
  1. Defaults set here
  2. Optional YAML file (workforce.yaml in . or $HOME, or an explicit path)
  3. .env file, loaded into the process environment
  4. WORKFORCE_* environment variables (WORKFORCE_SERVER_PORT, ...)
  5. Command-line flags bound by the caller

USAGE:
  v := config.NewViper(path)
  _ = v.BindPFlags(cmd.Flags())
  cfg, err := config.FromViper(v)
  dashboards, err := cfg.AnalyticsConfig()
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/warp/workforce-engine/analytics"
	"github.com/warp/workforce-engine/factory"
	"github.com/warp/workforce-engine/generic"
	"github.com/warp/workforce-engine/logging"
)

const envPrefix = "WORKFORCE"

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Log       logging.Config  `mapstructure:"log"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	// Path is the SQLite file; ":memory:" keeps everything in process.
	Path string `mapstructure:"path"`
}

// AnalyticsConfig tunes the dashboards and the alert monitor.
type AnalyticsConfig struct {
	Limits        analytics.Limits     `mapstructure:"limits"`
	Thresholds    analytics.Thresholds `mapstructure:"thresholds"`
	Trends        TrendConfig          `mapstructure:"trends"`
	WeightsFile   string               `mapstructure:"weights_file"`
	AlertInterval time.Duration        `mapstructure:"alert_interval"`
}

// TrendConfig sets the bucket count of each trend chart.
type TrendConfig struct {
	AttendanceDays int `mapstructure:"attendance_days"`
	LeaveMonths    int `mapstructure:"leave_months"`
	EarningsDays   int `mapstructure:"earnings_days"`
	CompletionDays int `mapstructure:"completion_days"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// NewViper returns a viper instance with defaults, env binding and the config
// file location set. An empty path searches for workforce.yaml.
func NewViper(path string) *viper.Viper {
	_ = godotenv.Load()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("workforce")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	limits := analytics.DefaultLimits()
	thresholds := analytics.DefaultThresholds()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173", "http://localhost:8080"})

	v.SetDefault("database.path", "./data/workforce.db")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("analytics.limits.top_attendance", limits.TopAttendance)
	v.SetDefault("analytics.limits.top_leave_takers", limits.TopLeaveTakers)
	v.SetDefault("analytics.limits.leave_types", limits.LeaveTypes)
	v.SetDefault("analytics.limits.top_earners", limits.TopEarners)
	v.SetDefault("analytics.limits.job_distribution", limits.JobDistribution)
	v.SetDefault("analytics.limits.completion_jobs", limits.CompletionJobs)
	v.SetDefault("analytics.limits.top_performers", limits.TopPerformers)

	v.SetDefault("analytics.thresholds.absenteeism", thresholds.Absenteeism)
	v.SetDefault("analytics.thresholds.lateness", thresholds.Lateness)
	v.SetDefault("analytics.thresholds.good_attendance", thresholds.GoodAttendance)
	v.SetDefault("analytics.thresholds.good_approval", thresholds.GoodApproval)
	v.SetDefault("analytics.thresholds.pending_backlog", thresholds.PendingBacklog)
	v.SetDefault("analytics.thresholds.high_rejection", thresholds.HighRejection)

	v.SetDefault("analytics.trends.attendance_days", generic.Last7Days.Size)
	v.SetDefault("analytics.trends.leave_months", generic.Last6Months.Size)
	v.SetDefault("analytics.trends.earnings_days", generic.Last30Days.Size)
	v.SetDefault("analytics.trends.completion_days", generic.Last7Days.Size)

	v.SetDefault("analytics.weights_file", "")
	v.SetDefault("analytics.alert_interval", 15*time.Minute)

	v.SetDefault("metrics.enabled", true)
}

// FromViper reads the config file if there is one and unmarshals all sources.
func FromViper(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load is NewViper followed by FromViper.
func Load(path string) (*Config, error) {
	return FromViper(NewViper(path))
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("database path is required")
	}
	t := c.Analytics.Trends
	for _, trend := range []struct {
		name string
		size int
	}{
		{"attendance_days", t.AttendanceDays},
		{"leave_months", t.LeaveMonths},
		{"earnings_days", t.EarningsDays},
		{"completion_days", t.CompletionDays},
	} {
		if trend.size <= 0 {
			return fmt.Errorf("trend %s must be positive, got %d", trend.name, trend.size)
		}
	}
	if c.Analytics.AlertInterval < 0 {
		return fmt.Errorf("alert interval must not be negative")
	}
	return nil
}

// AnalyticsConfig builds the dashboard configuration, applying the weights
// file when one is set.
func (c *Config) AnalyticsConfig() (analytics.Config, error) {
	out := analytics.DefaultConfig()
	out.Limits = c.Analytics.Limits
	out.Thresholds = c.Analytics.Thresholds

	t := c.Analytics.Trends
	out.AttendanceTrend = generic.Window{Unit: generic.WindowDay, Size: t.AttendanceDays}
	out.LeaveTrend = generic.Window{Unit: generic.WindowMonth, Size: t.LeaveMonths}
	out.EarningsTrend = generic.Window{Unit: generic.WindowDay, Size: t.EarningsDays}
	out.CompletionTrend = generic.Window{Unit: generic.WindowDay, Size: t.CompletionDays}

	if err := factory.ApplyWeightsFile(&out, c.Analytics.WeightsFile); err != nil {
		return analytics.Config{}, err
	}
	return out, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
