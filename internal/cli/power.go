package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/lui/internal/device"
	"github.com/rileyhilliard/lui/internal/flyout"
	"github.com/rileyhilliard/lui/internal/navigation"
	"github.com/rileyhilliard/lui/internal/ui"
)

// Power action names.
const (
	actionRestart  = "restart"
	actionReboot   = "reboot"
	actionShutdown = "shutdown"
)

var powerYes bool

// shutdownOptInDialog offers auto-shutdown instead of stopping a print.
var shutdownOptInDialog = flyout.Dialog{
	Title:    "Printer is busy",
	Text:     "A print is running.",
	Question: "Shut the printer down automatically when it finishes?",
}

func newPowerCmd(action, short, long string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   action,
		Short: short,
		Long:  long,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			confirm, err := confirmer(powerYes, action+" the printer")
			if err != nil {
				return err
			}
			return powerCommand(cmd.Context(), cmd.OutOrStdout(), newAPI(cfg), action, confirm)
		},
	}
	cmd.Flags().BoolVarP(&powerYes, "yes", "y", false, "don't ask for confirmation")
	return cmd
}

var (
	restartCmd = newPowerCmd(actionRestart, "Restart the printer service", `Restart the background printer services.

Examples:
  lui restart
  lui restart --yes`)

	rebootCmd = newPowerCmd(actionReboot, "Reboot the printer", `Reboot the printer.

Examples:
  lui reboot
  lui reboot --yes`)

	shutdownCmd = newPowerCmd(actionShutdown, "Shut the printer down", `Shut the printer down.

While a print is running and auto-shutdown is off, you are offered
auto-shutdown instead: the printer turns itself off once the print
finishes. --yes skips every question and shuts down straight away.

Examples:
  lui shutdown
  lui shutdown --yes`)
)

func init() {
	rootCmd.AddCommand(restartCmd)
	rootCmd.AddCommand(rebootCmd)
	rootCmd.AddCommand(shutdownCmd)
}

// powerCommand sends a restart, reboot or shutdown. A nil confirm sends it
// without asking.
func powerCommand(ctx context.Context, w io.Writer, api device.API, action string, confirm Confirmer) error {
	switch action {
	case actionRestart:
		return confirmed(w, confirm, navigation.RestartDialog, func() error {
			if err := api.RestartService(ctx); err != nil {
				return deviceError(err, "The printer didn't accept the service restart")
			}
			report(w, "Service restart sent")
			return nil
		})
	case actionReboot:
		return confirmed(w, confirm, navigation.RebootDialog, func() error {
			if err := api.Reboot(ctx); err != nil {
				return deviceError(err, "The printer didn't accept the reboot")
			}
			report(w, "Reboot sent")
			return nil
		})
	default:
		return shutdownCommand(ctx, w, api, confirm)
	}
}

func shutdownCommand(ctx context.Context, w io.Writer, api device.API, confirm Confirmer) error {
	send := func() error {
		if err := api.Shutdown(ctx); err != nil {
			return deviceError(err, "The printer didn't accept the shutdown")
		}
		report(w, "Shutdown sent")
		return nil
	}

	plan := navigation.ShutdownNow
	if confirm != nil {
		plan = navigation.ShutdownConfirm
		ps, err := api.PrinterState(ctx)
		if err == nil {
			var s device.Settings
			if s, err = api.Settings(ctx); err == nil {
				plan = navigation.PlanShutdown(ps.Printing, s.AutoShutdown, true)
			}
		}
		if err != nil && !Quiet() {
			fmt.Fprintln(w, ui.WarningStyle().Render(ui.SymbolWarning+" Couldn't check for a running print"))
		}
	}

	switch plan {
	case navigation.ShutdownOptIn:
		return confirmed(w, confirm, shutdownOptInDialog, func() error {
			if err := api.SetAutoShutdown(ctx, true); err != nil {
				return deviceError(err, "The printer didn't accept the auto-shutdown setting")
			}
			report(w, "Auto shutdown on: the printer shuts down when the print finishes")
			return nil
		})
	case navigation.ShutdownConfirm:
		return confirmed(w, confirm, navigation.ShutdownDialog, send)
	default:
		return send()
	}
}

// confirmed runs fn when confirm is nil or the user says yes.
func confirmed(w io.Writer, confirm Confirmer, d flyout.Dialog, fn func() error) error {
	if confirm != nil {
		ok, err := confirm(d)
		if err != nil {
			return err
		}
		if !ok {
			if !Quiet() {
				fmt.Fprintln(w, "Cancelled.")
			}
			return nil
		}
	}
	return fn()
}
