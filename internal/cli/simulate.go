package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/lui/internal/config"
	"github.com/rileyhilliard/lui/internal/logger"
	"github.com/rileyhilliard/lui/internal/simulator"
	"github.com/rileyhilliard/lui/internal/ui"
)

// SimulateFlags override the simulator section of the config.
type SimulateFlags struct {
	Addr     string
	APIKey   string
	LockCode string
	NoLock   bool
	Cooldown string
}

var simulateFlags SimulateFlags

// simulateCmd serves an in-memory printer
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a simulated printer for the panel to talk to",
	Long: `Serve the printer's control API and push events from memory.

Point device.url at the simulator to try the panel without hardware. The
/sim routes drive the printer from outside:

  GET  /sim/state             current state as JSON
  POST /sim/printing/on|off   start or finish a print
  POST /sim/powerbutton       press the power button
  POST /sim/lock              lock from the printer side

Examples:
  lui simulate
  lui simulate --addr :8080 --lock-code 4321
  lui simulate --no-lock`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		opts, addr, err := simulatorOptions(cfg, simulateFlags)
		if err != nil {
			return err
		}
		return simulateCommand(cmd.Context(), cmd.OutOrStdout(), opts, addr)
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simulateFlags.Addr, "addr", "", "listen address (default from simulator.addr)")
	simulateCmd.Flags().StringVar(&simulateFlags.APIKey, "api-key", "", "require this X-Api-Key")
	simulateCmd.Flags().StringVar(&simulateFlags.LockCode, "lock-code", "", "lock code the printer reports")
	simulateCmd.Flags().BoolVar(&simulateFlags.NoLock, "no-lock", false, "start with the local lock disabled")
	simulateCmd.Flags().StringVar(&simulateFlags.Cooldown, "cooldown", "", "invalid-unlock countdown (e.g., 30s)")
	rootCmd.AddCommand(simulateCmd)
}

// simulatorOptions merges flags over the simulator config section.
func simulatorOptions(cfg *config.Config, flags SimulateFlags) (simulator.Options, string, error) {
	sc := cfg.Simulator
	opts := simulator.Options{
		APIKey:      sc.APIKey,
		LockCode:    sc.LockCode,
		LockEnabled: sc.LockEnabled,
		Cooldown:    sc.Cooldown,
	}
	addr := sc.Addr

	if flags.Addr != "" {
		addr = flags.Addr
	}
	if flags.APIKey != "" {
		opts.APIKey = flags.APIKey
	}
	if flags.LockCode != "" {
		opts.LockCode = flags.LockCode
	}
	if flags.NoLock {
		opts.LockEnabled = false
	}
	cooldown, err := ParseDurationFlag("cooldown", flags.Cooldown)
	if err != nil {
		return opts, "", err
	}
	if cooldown > 0 {
		opts.Cooldown = cooldown
	}
	return opts, addr, nil
}

// simulateCommand serves until ctx is cancelled.
func simulateCommand(ctx context.Context, w io.Writer, opts simulator.Options, addr string) error {
	sim := simulator.New(opts, logger.NewEnvLogger("[sim]"))

	if !Quiet() {
		ui.PrintHeader(w, ui.HeaderInfo{Version: formatVersion(version), Printer: "simulated on " + addr})
		muted := lipgloss.NewStyle().Foreground(ui.ColorMuted)
		lock := "disabled"
		if opts.LockEnabled {
			lock = "enabled, code " + opts.LockCode
		}
		fmt.Fprintf(w, "  lock      %s\n", lock)
		if opts.APIKey != "" {
			fmt.Fprintf(w, "  api key   %s\n", opts.APIKey)
		}
		fmt.Fprintf(w, "  cooldown  %s\n", opts.Cooldown.Round(time.Second))
		fmt.Fprintln(w, muted.Render("  Ctrl+C to stop"))
	}

	return sim.ListenAndServe(ctx, addr)
}
