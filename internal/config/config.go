// Package config loads simulation configuration for the groupmove CLI.
// Values come from defaults, an optional config file, and GROUPMOVE_*
// environment variables, in increasing precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the complete simulation configuration.
type Config struct {
	World    WorldConfig    `mapstructure:"world"`
	Movement MovementConfig `mapstructure:"movement"`
	Run      RunConfig      `mapstructure:"run"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// WorldConfig bounds the simulated area.
type WorldConfig struct {
	// Width and Height are the scatter bounds for spawned agents,
	// in world units.
	Width  float64 `mapstructure:"width"`
	Height float64 `mapstructure:"height"`
}

// MovementConfig tunes the coordinator.
type MovementConfig struct {
	// Spacing is the gap between adjacent formation slots.
	Spacing float64 `mapstructure:"spacing"`
	// AvoidanceRadius is the congestion probe radius around each member.
	AvoidanceRadius float64 `mapstructure:"avoidance_radius"`
	// Speed is the per-tick movement speed.
	Speed float64 `mapstructure:"speed"`
	// ReachThreshold is the arrival distance for the run report.
	ReachThreshold float64 `mapstructure:"reach_threshold"`
}

// RunConfig shapes a headless run.
type RunConfig struct {
	// Ticks is the number of simulation ticks to execute.
	Ticks int `mapstructure:"ticks"`
	// Seed drives the deterministic agent scatter.
	Seed int64 `mapstructure:"seed"`
	// Groups is how many groups to spawn.
	Groups int `mapstructure:"groups"`
	// MembersPerGroup is the roster size of each spawned group.
	MembersPerGroup int `mapstructure:"members_per_group"`
}

// LoggingConfig controls diagnostic output.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level"`
	// Verbose also records per-tick member moves in the move log.
	Verbose bool `mapstructure:"verbose"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("world.width", 200.0)
	v.SetDefault("world.height", 200.0)
	v.SetDefault("movement.spacing", 4.0)
	v.SetDefault("movement.avoidance_radius", 3.0)
	v.SetDefault("movement.speed", 1.5)
	v.SetDefault("movement.reach_threshold", 1.0)
	v.SetDefault("run.ticks", 600)
	v.SetDefault("run.seed", 42)
	v.SetDefault("run.groups", 3)
	v.SetDefault("run.members_per_group", 5)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.verbose", false)
}

// Load reads configuration from the given file (optional; empty path
// means defaults + environment only) and returns the resolved Config.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("GROUPMOVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the simulation cannot run with.
func (c *Config) Validate() error {
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return fmt.Errorf("world dimensions must be positive, got %.1fx%.1f", c.World.Width, c.World.Height)
	}
	if c.Movement.Speed <= 0 {
		return fmt.Errorf("movement speed must be positive, got %.2f", c.Movement.Speed)
	}
	if c.Movement.Spacing <= 0 {
		return fmt.Errorf("formation spacing must be positive, got %.2f", c.Movement.Spacing)
	}
	if c.Run.Ticks <= 0 {
		return fmt.Errorf("run ticks must be positive, got %d", c.Run.Ticks)
	}
	if c.Run.Groups < 1 || c.Run.MembersPerGroup < 1 {
		return fmt.Errorf("need at least one group and one member per group")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	return nil
}
