package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 200.0, cfg.World.Width)
	assert.Equal(t, 200.0, cfg.World.Height)
	assert.Equal(t, 4.0, cfg.Movement.Spacing)
	assert.Equal(t, 3.0, cfg.Movement.AvoidanceRadius)
	assert.Equal(t, 600, cfg.Run.Ticks)
	assert.Equal(t, int64(42), cfg.Run.Seed)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Verbose)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sim.yaml")
	body := []byte(`
world:
  width: 500
movement:
  speed: 3.5
run:
  ticks: 100
  groups: 2
logging:
  level: debug
`)
	require.NoError(t, os.WriteFile(path, body, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 500.0, cfg.World.Width)
	assert.Equal(t, 200.0, cfg.World.Height, "unset keys keep defaults")
	assert.Equal(t, 3.5, cfg.Movement.Speed)
	assert.Equal(t, 100, cfg.Run.Ticks)
	assert.Equal(t, 2, cfg.Run.Groups)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate_Rejections(t *testing.T) {
	base := func() *Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero world width", func(c *Config) { c.World.Width = 0 }},
		{"negative speed", func(c *Config) { c.Movement.Speed = -1 }},
		{"zero spacing", func(c *Config) { c.Movement.Spacing = 0 }},
		{"zero ticks", func(c *Config) { c.Run.Ticks = 0 }},
		{"no groups", func(c *Config) { c.Run.Groups = 0 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "shouty" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
