package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/workforce-engine/analytics"
	"github.com/warp/workforce-engine/generic"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeFile(t, "workforce.yaml", "log:\n  level: warn\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, analytics.DefaultLimits(), cfg.Analytics.Limits)
	assert.Equal(t, analytics.DefaultThresholds(), cfg.Analytics.Thresholds)
	assert.Equal(t, 15*time.Minute, cfg.Analytics.AlertInterval)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoad_FileAndEnv(t *testing.T) {
	// GIVEN a config file and an env override for the port
	path := writeFile(t, "workforce.yaml", `
server:
  port: 9000
analytics:
  thresholds:
    absenteeism: 35
  trends:
    leave_months: 12
`)
	t.Setenv("WORKFORCE_SERVER_PORT", "9100")

	// WHEN loading
	cfg, err := Load(path)
	require.NoError(t, err)

	// THEN env wins over the file and the file wins over defaults
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, 35.0, cfg.Analytics.Thresholds.Absenteeism)
	assert.Equal(t, 10.0, cfg.Analytics.Thresholds.Lateness)

	dash, err := cfg.AnalyticsConfig()
	require.NoError(t, err)
	assert.Equal(t, generic.Window{Unit: generic.WindowMonth, Size: 12}, dash.LeaveTrend)
	assert.Equal(t, generic.Last7Days, dash.AttendanceTrend)
	assert.Equal(t, analytics.ProductivityScoreWeights, dash.ProductivityWeights)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := writeFile(t, "workforce.yaml", "server: [not a map")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port", func(c *Config) { c.Server.Port = 0 }},
		{"database", func(c *Config) { c.Database.Path = " " }},
		{"trend", func(c *Config) { c.Analytics.Trends.EarningsDays = 0 }},
		{"interval", func(c *Config) { c.Analytics.AlertInterval = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, "workforce.yaml", "{}"))
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestAnalyticsConfig_WeightsFile(t *testing.T) {
	weights := writeFile(t, "weights.json", `{
		"attendance": {"components": [{"metric": "attendance_rate", "weight": 1}]}
	}`)
	cfg, err := Load(writeFile(t, "workforce.yaml", "analytics:\n  weights_file: "+weights+"\n"))
	require.NoError(t, err)

	dash, err := cfg.AnalyticsConfig()
	require.NoError(t, err)
	require.Len(t, dash.AttendanceWeights.Components, 1)
	assert.Equal(t, analytics.AttendanceScoreWeights.Name, dash.AttendanceWeights.Name)

	cfg.Analytics.WeightsFile = filepath.Join(t.TempDir(), "missing.json")
	_, err = cfg.AnalyticsConfig()
	assert.Error(t, err)
}
