package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandTilde replaces ~ or ~/path with the user's home directory.
// Does not support ~username syntax - just ~ for the current user.
func ExpandTilde(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}

	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}

	return path
}

// Expand replaces ${VAR} references with environment values so secrets like
// the API key can stay out of the file:
//
//	device:
//	  api_key: ${OCTOPRINT_API_KEY}
//
// Bare $VAR is left alone; API keys and lock codes are allowed to contain '$'.
// Unset variables expand to the empty string.
func Expand(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}

	var b strings.Builder
	for {
		start := strings.Index(s, "${")
		if start < 0 {
			b.WriteString(s)
			break
		}
		end := strings.Index(s[start:], "}")
		if end < 0 {
			b.WriteString(s)
			break
		}
		b.WriteString(s[:start])
		b.WriteString(os.Getenv(s[start+2 : start+end]))
		s = s[start+end+1:]
	}
	return b.String()
}

// expandAll applies Expand to the string fields that commonly carry secrets
// or host names.
func expandAll(cfg *Config) {
	cfg.Device.URL = Expand(cfg.Device.URL)
	cfg.Device.APIKey = Expand(cfg.Device.APIKey)
	cfg.Push.URL = Expand(cfg.Push.URL)
	cfg.Simulator.APIKey = Expand(cfg.Simulator.APIKey)
	cfg.Simulator.LockCode = Expand(cfg.Simulator.LockCode)
}
