package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/lui/internal/device"
	"github.com/rileyhilliard/lui/internal/errors"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = ".lui.yaml"
	// GlobalConfigDir is the directory for global config.
	GlobalConfigDir = ".config/lui"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix prefixes environment overrides, e.g. LUI_DEVICE_URL.
	EnvPrefix = "LUI"
)

// Load reads config from the specified path.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'lui config init' to create a config file, or specify one with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .lui.yaml in current directory
// 3. .lui.yaml in parent directories (stops at git root or home)
// 4. ~/.config/lui/config.yaml (global defaults)
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	localConfig := filepath.Join(cwd, ConfigFileName)
	if _, err := os.Stat(localConfig); err == nil {
		return localConfig, nil
	}

	home, _ := os.UserHomeDir()
	dir := cwd
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		if home != "" && parent == home {
			break
		}
		dir = parent

		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		if isGitRoot(dir) {
			break
		}
	}

	if home != "" {
		globalConfig := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(globalConfig); err == nil {
			return globalConfig, nil
		}
	}

	return "", nil
}

// LoadOrDefault loads config from the found path, or returns defaults (with
// environment overrides applied) if no file exists. The returned path is
// empty in the latter case.
func LoadOrDefault(explicit string) (*Config, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}

	if path == "" {
		cfg, err := parseConfig(newViper(), "")
		return cfg, "", err
	}

	cfg, err := Load(path)
	return cfg, path, err
}

// PushURL returns push.url, or the URL derived from device.url when unset.
func (c *Config) PushURL() (string, error) {
	if c.Push.URL != "" {
		return c.Push.URL, nil
	}
	u, err := device.PushURL(c.Device.URL)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Can't derive the push URL from device.url",
			"Set push.url explicitly")
	}
	return u, nil
}

// newViper builds a viper instance with defaults and LUI_* env overrides.
func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		where := "your config"
		if path != "" {
			where = path
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+where)
	}

	expandAll(cfg)
	cfg.Device.URL = strings.TrimRight(cfg.Device.URL, "/")
	return cfg, nil
}

// setDefaults registers every key so env overrides and partial files both
// fall back to DefaultConfig values.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("version", d.Version)
	v.SetDefault("device.url", d.Device.URL)
	v.SetDefault("device.api_key", d.Device.APIKey)
	v.SetDefault("device.timeout", d.Device.Timeout.String())
	v.SetDefault("push.url", d.Push.URL)
	v.SetDefault("push.reconnect", d.Push.Reconnect.String())
	v.SetDefault("lock.max_attempts", d.Lock.MaxAttempts)
	v.SetDefault("lock.cooldown", d.Lock.Cooldown.String())
	v.SetDefault("lock.tick", d.Lock.Tick.String())
	v.SetDefault("flyout.transition_delay", d.Flyout.TransitionDelay.String())
	v.SetDefault("panel.local", d.Panel.Local)
	v.SetDefault("panel.logged_in", d.Panel.LoggedIn)
	v.SetDefault("panel.toast_duration", d.Panel.ToastDuration.String())
	v.SetDefault("output.color", d.Output.Color)
	v.SetDefault("simulator.addr", d.Simulator.Addr)
	v.SetDefault("simulator.api_key", d.Simulator.APIKey)
	v.SetDefault("simulator.lock_code", d.Simulator.LockCode)
	v.SetDefault("simulator.lock_enabled", d.Simulator.LockEnabled)
	v.SetDefault("simulator.cooldown", d.Simulator.Cooldown.String())
}

// isGitRoot checks if a directory is a git repository root.
func isGitRoot(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	if err != nil {
		return false
	}
	return info.IsDir()
}
