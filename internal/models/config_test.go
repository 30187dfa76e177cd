package models

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, DefaultRestaurantName, cfg.RestaurantName)
	assert.Equal(t, 45*time.Minute, cfg.DeliverySLA)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, time.Minute, cfg.Tracker.TickInterval)
	assert.Equal(t, []int{5, 20, 20}, cfg.Tracker.StageMinutes)
	assert.Equal(t, "static", cfg.Menu.Source)
	assert.Equal(t, "none", cfg.Output.Format)
	assert.Equal(t, time.Second, cfg.Output.FlushInterval)
	assert.Equal(t, 100, cfg.Output.BatchSize)
	assert.Equal(t, int64(42), cfg.Seed)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foodcloud.yaml")
	content := `
restaurant_name: Luigi's
delivery_sla: 30m
cors_allowed_origins: "http://a.test,http://b.test"
tracker:
  tick_interval: 2s
  stage_minutes: [1, 2, 3]
output:
  format: json
  path: /tmp/events
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "Luigi's", cfg.RestaurantName)
	assert.Equal(t, 30*time.Minute, cfg.DeliverySLA)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 2*time.Second, cfg.Tracker.TickInterval)
	assert.Equal(t, []int{1, 2, 3}, cfg.Tracker.StageMinutes)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "/tmp/events", cfg.Output.Path)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(viper.New(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"non-positive sla", func(c *Config) { c.DeliverySLA = 0 }, "delivery_sla"},
		{"non-positive tick", func(c *Config) { c.Tracker.TickInterval = 0 }, "tick_interval"},
		{"wrong stage count", func(c *Config) { c.Tracker.StageMinutes = []int{5, 20} }, "needs 3 values"},
		{"negative stage", func(c *Config) { c.Tracker.StageMinutes = []int{5, -1, 20} }, "negative"},
		{"unknown menu source", func(c *Config) { c.Menu.Source = "mongo" }, "unsupported menu source"},
		{"postgres without url", func(c *Config) { c.Menu.Source = "postgres" }, "database_url"},
		{"unknown output", func(c *Config) { c.Output.Format = "xml" }, "unsupported output format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(viper.New(), "")
			require.NoError(t, err)
			tt.mutate(cfg)
			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
