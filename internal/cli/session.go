package cli

import (
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/rileyhilliard/lui/internal/config"
	"github.com/rileyhilliard/lui/internal/device"
	"github.com/rileyhilliard/lui/internal/errors"
	"github.com/rileyhilliard/lui/internal/logger"
	"github.com/rileyhilliard/lui/internal/push"
)

// debugLogFile receives log output while the panel owns the terminal.
const debugLogFile = "lui-debug.log"

// newAPI builds the printer client. Tests swap it for a fake.
var newAPI = func(cfg *config.Config) device.API {
	return device.NewClient(device.ClientOptions{
		BaseURL: cfg.Device.URL,
		APIKey:  cfg.Device.APIKey,
		Timeout: cfg.Device.Timeout,
	}, logger.NewEnvLogger("[device]"))
}

// loadConfig finds, loads and validates the config. Without a config file
// the defaults and LUI_* overrides apply.
func loadConfig() (*config.Config, string, error) {
	cfg, path, err := config.LoadOrDefault(Config())
	if err != nil {
		return nil, "", err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, path, err
	}
	applyColorMode(cfg.Output.Color)
	return cfg, path, nil
}

func newPushListener(cfg *config.Config) (*push.Listener, error) {
	url, err := cfg.PushURL()
	if err != nil {
		return nil, err
	}
	return push.NewListener(push.ListenerOptions{
		URL:       url,
		APIKey:    cfg.Device.APIKey,
		Reconnect: cfg.Push.Reconnect,
	}, logger.NewEnvLogger("[push]")), nil
}

// isInteractive reports whether both stdin and stdout are terminals.
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// redirectLog moves log output off the terminal while a full-screen program
// runs: into debugLogFile with LUI_DEBUG set, nowhere otherwise.
func redirectLog() (func(), error) {
	if os.Getenv(logger.DebugEnv) == "" {
		log.SetOutput(io.Discard)
		return func() { log.SetOutput(os.Stderr) }, nil
	}
	f, err := tea.LogToFile(debugLogFile, "lui")
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Can't open "+debugLogFile,
			"Check the current directory is writable, or unset "+logger.DebugEnv)
	}
	return func() {
		_ = f.Close()
		log.SetOutput(os.Stderr)
	}, nil
}
