package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/rileyhilliard/lui/internal/errors"
)

// minTransitionDelay keeps hooks from firing before any realistic animation
// has started. Anything shorter is almost certainly a unit mistake (300 vs 300ms).
const minTransitionDelay = 10 * time.Millisecond

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try reloading the configuration.")
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but lui only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade lui or lower the version field.")
	}

	if err := validateDevice(cfg.Device); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'device' section in your .lui.yaml.")
	}

	if err := validatePush(cfg.Push); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'push' section in your .lui.yaml.")
	}

	if err := validateLock(cfg.Lock); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'lock' section in your .lui.yaml.")
	}

	if cfg.Flyout.TransitionDelay < minTransitionDelay {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("flyout.transition_delay %s is shorter than %s", cfg.Flyout.TransitionDelay, minTransitionDelay),
			"Use a duration with units, like 300ms.")
	}

	if err := validateOutput(cfg.Output); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'output' section in your .lui.yaml.")
	}

	return nil
}

func validateDevice(d DeviceConfig) error {
	if d.URL == "" {
		return fmt.Errorf("device.url is required")
	}
	u, err := url.Parse(d.URL)
	if err != nil {
		return fmt.Errorf("device.url %q is not a valid URL: %v", d.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("device.url %q must start with http:// or https://", d.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("device.url %q has no host", d.URL)
	}
	if d.Timeout <= 0 {
		return fmt.Errorf("device.timeout must be positive, got %s", d.Timeout)
	}
	return nil
}

func validatePush(p PushConfig) error {
	if p.URL != "" {
		u, err := url.Parse(p.URL)
		if err != nil {
			return fmt.Errorf("push.url %q is not a valid URL: %v", p.URL, err)
		}
		if u.Scheme != "ws" && u.Scheme != "wss" {
			return fmt.Errorf("push.url %q must start with ws:// or wss://", p.URL)
		}
	}
	if p.Reconnect <= 0 {
		return fmt.Errorf("push.reconnect must be positive, got %s", p.Reconnect)
	}
	return nil
}

func validateLock(l LockConfig) error {
	if l.MaxAttempts < 1 {
		return fmt.Errorf("lock.max_attempts must be at least 1, got %d", l.MaxAttempts)
	}
	if l.Tick <= 0 {
		return fmt.Errorf("lock.tick must be positive, got %s", l.Tick)
	}
	if l.Cooldown < l.Tick {
		return fmt.Errorf("lock.cooldown (%s) must be at least one tick (%s)", l.Cooldown, l.Tick)
	}
	return nil
}

func validateOutput(o OutputConfig) error {
	switch o.Color {
	case "auto", "always", "never":
		return nil
	default:
		return fmt.Errorf("output.color must be auto, always or never, got %q", o.Color)
	}
}
