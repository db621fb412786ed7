package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/lui/internal/config"
	"github.com/rileyhilliard/lui/internal/errors"
	"github.com/rileyhilliard/lui/internal/ui"
)

var (
	configInitForce    bool
	configInitDefaults bool
)

// configCmd groups the config subcommands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Create, edit or show the config file",
}

// configInitCmd writes a new .lui.yaml
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .lui.yaml",
	Long: `Create a .lui.yaml in the current directory, or at --config.

On a terminal you are asked for the printer URL and API key; everything
else starts from the defaults.

Examples:
  lui config init
  lui config init --defaults
  lui config init --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := Config()
		if path == "" {
			path = config.ConfigFileName
		}
		cfg := config.DefaultConfig()
		if !configInitDefaults && isInteractive() {
			if err := promptDevice(cfg); err != nil {
				return err
			}
		}
		return configInitCommand(cmd.OutOrStdout(), path, cfg, configInitForce)
	},
}

// configSetCmd changes one key in place
var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one config value",
	Long: `Set a dotted key in the config file, keeping its comments and layout.

Examples:
  lui config set device.url http://octopi.local
  lui config set lock.cooldown 1m
  lui config set panel.local true`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.Find(Config())
		if err != nil {
			return err
		}
		if path == "" {
			path = config.ConfigFileName
		}
		return configSetCommand(cmd.OutOrStdout(), path, args[0], args[1])
	},
}

// configShowCmd prints the effective config
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective config",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return err
		}
		return configShowCommand(cmd.OutOrStdout(), cfg, path)
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing config")
	configInitCmd.Flags().BoolVar(&configInitDefaults, "defaults", false, "don't prompt, write the defaults")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func promptDevice(cfg *config.Config) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Printer URL").
				Description("Base URL of the printer's control API").
				Value(&cfg.Device.URL),
			huh.NewInput().
				Title("API key").
				Description("Sent as X-Api-Key; leave empty if the printer doesn't need one").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.Device.APIKey),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return errors.New(errors.ErrConfig, "Cancelled", "Nothing was written.")
		}
		return err
	}
	return nil
}

func configInitCommand(w io.Writer, path string, cfg *config.Config, force bool) error {
	if err := config.Validate(cfg); err != nil {
		return err
	}
	if err := config.WriteDefault(path, cfg, force); err != nil {
		if _, statErr := os.Stat(path); statErr == nil && !force {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Config already exists: "+path,
				"Use --force to overwrite it, or 'lui config set' to change one value.")
		}
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't write "+path,
			"Check the directory exists and is writable.")
	}
	report(w, "Wrote "+path)
	return nil
}

func configSetCommand(w io.Writer, path, key, value string) error {
	if err := config.SetValue(path, key, value); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't set "+key,
			"Keys are dotted paths like device.url or lock.cooldown.")
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	report(w, fmt.Sprintf("Set %s in %s", key, filepath.Base(path)))
	return nil
}

func configShowCommand(w io.Writer, cfg *config.Config, path string) error {
	if machineMode {
		return WriteJSONSuccess(w, map[string]interface{}{"path": path, "config": cfg})
	}
	muted := lipgloss.NewStyle().Foreground(ui.ColorMuted)
	source := path
	if source == "" {
		source = "defaults (no config file found)"
	}
	fmt.Fprintln(w, muted.Render("# "+source))
	fmt.Fprint(w, config.RenderYAML(cfg))
	return nil
}
