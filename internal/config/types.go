package config

import (
	"time"

	"github.com/rileyhilliard/lui/internal/flyout"
	"github.com/rileyhilliard/lui/internal/locallock"
)

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete .lui.yaml configuration file.
type Config struct {
	Version   int             `yaml:"version" mapstructure:"version"`
	Device    DeviceConfig    `yaml:"device" mapstructure:"device"`
	Push      PushConfig      `yaml:"push" mapstructure:"push"`
	Lock      LockConfig      `yaml:"lock" mapstructure:"lock"`
	Flyout    FlyoutConfig    `yaml:"flyout" mapstructure:"flyout"`
	Panel     PanelConfig     `yaml:"panel" mapstructure:"panel"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
	Simulator SimulatorConfig `yaml:"simulator" mapstructure:"simulator"`
}

// DeviceConfig points the panel at the printer's control API.
type DeviceConfig struct {
	// URL is the printer's base URL, e.g. http://octopi.local:5000.
	URL string `yaml:"url" mapstructure:"url"`

	// APIKey is sent as X-Api-Key on every request.
	APIKey string `yaml:"api_key" mapstructure:"api_key"`

	// Timeout bounds each request.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// PushConfig controls the push-event websocket.
type PushConfig struct {
	// URL of the websocket. Derived from device.url when empty.
	URL string `yaml:"url" mapstructure:"url"`

	// Reconnect is the minimum spacing between connection attempts.
	Reconnect time.Duration `yaml:"reconnect" mapstructure:"reconnect"`
}

// LockConfig controls the local lock's attempt limit and cooldown.
type LockConfig struct {
	MaxAttempts int           `yaml:"max_attempts" mapstructure:"max_attempts"`
	Cooldown    time.Duration `yaml:"cooldown" mapstructure:"cooldown"`
	Tick        time.Duration `yaml:"tick" mapstructure:"tick"`
}

// FlyoutConfig controls settings-panel transitions.
type FlyoutConfig struct {
	// TransitionDelay must cover the panel's open/close animation.
	TransitionDelay time.Duration `yaml:"transition_delay" mapstructure:"transition_delay"`
}

// PanelConfig describes where and how the panel runs.
type PanelConfig struct {
	// Local is true when the panel runs on the printer's own display.
	// Remote panels prompt for login at startup.
	Local bool `yaml:"local" mapstructure:"local"`

	// LoggedIn skips the login prompt for remote panels.
	LoggedIn bool `yaml:"logged_in" mapstructure:"logged_in"`

	// ToastDuration is how long transient notifications stay on screen.
	ToastDuration time.Duration `yaml:"toast_duration" mapstructure:"toast_duration"`
}

// OutputConfig controls terminal output formatting.
type OutputConfig struct {
	// Color mode: "auto", "always", or "never".
	Color string `yaml:"color" mapstructure:"color"`
}

// SimulatorConfig configures `lui simulate`.
type SimulatorConfig struct {
	Addr        string        `yaml:"addr" mapstructure:"addr"`
	APIKey      string        `yaml:"api_key" mapstructure:"api_key"`
	LockCode    string        `yaml:"lock_code" mapstructure:"lock_code"`
	LockEnabled bool          `yaml:"lock_enabled" mapstructure:"lock_enabled"`
	Cooldown    time.Duration `yaml:"cooldown" mapstructure:"cooldown"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Device: DeviceConfig{
			URL:     "http://localhost:5000",
			Timeout: 10 * time.Second,
		},
		Push: PushConfig{
			Reconnect: 5 * time.Second,
		},
		Lock: LockConfig{
			MaxAttempts: locallock.DefaultMaxAttempts,
			Cooldown:    locallock.DefaultCooldown,
			Tick:        locallock.DefaultTick,
		},
		Flyout: FlyoutConfig{
			TransitionDelay: flyout.DefaultTransitionDelay,
		},
		Panel: PanelConfig{
			ToastDuration: 4 * time.Second,
		},
		Output: OutputConfig{
			Color: "auto",
		},
		Simulator: SimulatorConfig{
			Addr:        ":5000",
			LockCode:    "1234",
			LockEnabled: true,
			Cooldown:    locallock.DefaultCooldown,
		},
	}
}

// LockOptions converts the lock section into controller options.
func (c *Config) LockOptions() locallock.Options {
	return locallock.Options{
		MaxAttempts: c.Lock.MaxAttempts,
		Cooldown:    c.Lock.Cooldown,
		Tick:        c.Lock.Tick,
	}
}
