package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/lui/internal/logger"
)

// Global flags
var (
	cfgFile string
	verbose bool
	quiet   bool
	noColor bool
)

// rootCmd runs the panel when no subcommand is given.
var rootCmd = &cobra.Command{
	Use:   "lui",
	Short: "Printer control panel with a local lock",
	Long: `lui is a terminal control panel for a 3D printer.

It shows the printer's lock screen, settings panels and confirmations, and
follows the printer's push events. Run without a subcommand to open the
panel, or use the one-shot commands for scripts.

Examples:
  lui
  lui status
  lui unlock 1234
  lui simulate --addr :5000`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		applyGlobalFlags()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return panelCommand(cmd.Context(), panelFlags)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .lui.yaml, then ~/.config/lui/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug logs")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only print errors and results")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&machineMode, "json", false, "print machine-readable JSON")
	addPanelFlags(rootCmd, &panelFlags)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}

	if machineMode {
		_ = WriteJSONFromError(os.Stdout, err)
		os.Exit(1)
	}

	if isUnknownCommandError(err) {
		fmt.Fprintln(os.Stderr, err)
		if name := extractUnknownCommand(err); name != "" {
			fmt.Fprintf(os.Stderr, "'%s' isn't a lui command. Run 'lui --help' to see what is.\n", name)
		}
		os.Exit(1)
	}

	fmt.Fprint(os.Stderr, err.Error())
	os.Exit(1)
}

// Config returns the --config value.
func Config() string {
	return cfgFile
}

// Verbose reports whether --verbose is set.
func Verbose() bool {
	return verbose
}

// Quiet reports whether --quiet is set. JSON output implies quiet.
func Quiet() bool {
	return quiet || machineMode
}

func applyGlobalFlags() {
	if verbose {
		_ = os.Setenv(logger.DebugEnv, "1")
	}
	if noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// applyColorMode applies output.color unless --no-color already decided.
func applyColorMode(mode string) {
	if noColor {
		return
	}
	switch mode {
	case "never":
		lipgloss.SetColorProfile(termenv.Ascii)
	case "always":
		lipgloss.SetColorProfile(termenv.TrueColor)
	}
}

// isUnknownCommandError reports whether cobra rejected the command line.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "unknown flag")
}

// extractUnknownCommand pulls the command name out of cobra's
// `unknown command "foo" for "lui"` message.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.Index(msg, `"`)
	if start < 0 {
		return ""
	}
	end := strings.Index(msg[start+1:], `"`)
	if end < 0 {
		return ""
	}
	return msg[start+1 : start+1+end]
}
