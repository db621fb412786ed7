package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/lui/internal/config"
	"github.com/rileyhilliard/lui/internal/errors"
	"github.com/rileyhilliard/lui/internal/flyout"
	"github.com/rileyhilliard/lui/internal/logger"
	"github.com/rileyhilliard/lui/internal/navigation"
	"github.com/rileyhilliard/lui/internal/ui"
)

// PanelFlags override the panel section of the config.
type PanelFlags struct {
	Local    bool
	LoggedIn bool
}

var panelFlags PanelFlags

// panelCmd opens the interactive panel
var panelCmd = &cobra.Command{
	Use:   "panel",
	Short: "Open the interactive panel",
	Long: `Open the full-screen panel: lock screen, settings panels, confirmations
and notifications, kept in step with the printer's push events.

Keyboard shortcuts:
  l        Lock now
  a        Toggle auto-lock
  w/m/g    Wireless, maintenance and logs settings
  r/b/s    Restart service, reboot, shutdown
  x        Clear notices
  ?        Show help
  q/Ctrl+C Quit

Examples:
  lui panel
  lui panel --local`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return panelCommand(cmd.Context(), panelFlags)
	},
}

func init() {
	addPanelFlags(panelCmd, &panelFlags)
	rootCmd.AddCommand(panelCmd)
}

// addPanelFlags registers --local and --logged-in on a command.
func addPanelFlags(cmd *cobra.Command, flags *PanelFlags) {
	cmd.Flags().BoolVar(&flags.Local, "local", false, "running on the printer's own display")
	cmd.Flags().BoolVar(&flags.LoggedIn, "logged-in", false, "skip the login prompt on a remote panel")
}

// panelCommand runs the panel until the user quits or ctx is cancelled.
func panelCommand(ctx context.Context, flags PanelFlags) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	if !isInteractive() {
		return errors.New(errors.ErrConfig,
			"The panel needs a terminal",
			"Run lui from an interactive terminal, or use the one-shot commands like 'lui status'.")
	}

	listener, err := newPushListener(cfg)
	if err != nil {
		return err
	}

	restore, err := redirectLog()
	if err != nil {
		return err
	}
	defer restore()

	return ui.Run(ctx, panelOptions(cfg, flags), listener)
}

// panelOptions maps config and flags onto the panel's options.
func panelOptions(cfg *config.Config, flags PanelFlags) ui.Options {
	return ui.Options{
		API:    newAPI(cfg),
		Lock:   cfg.LockOptions(),
		Flyout: flyout.Options{TransitionDelay: cfg.Flyout.TransitionDelay},
		Env: navigation.Env{
			Local:    cfg.Panel.Local || flags.Local,
			LoggedIn: cfg.Panel.LoggedIn || flags.LoggedIn,
		},
		ToastDuration: cfg.Panel.ToastDuration,
		Header: ui.HeaderInfo{
			Version: formatVersion(version),
			Printer: cfg.Device.URL,
		},
		Log: logger.NewEnvLogger("[panel]"),
	}
}
