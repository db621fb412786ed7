package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/lui/internal/device"
	"github.com/rileyhilliard/lui/internal/errors"
	"github.com/rileyhilliard/lui/internal/ui"
)

// statusCmd shows the printer's lock and power state
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show lock, print and auto-shutdown state",
	Long: `Ask the printer for its lock status, print state and settings.

The lock code itself is never printed.

Examples:
  lui status
  lui status --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		return statusCommand(cmd.Context(), cmd.OutOrStdout(), newAPI(cfg), cfg.Device.URL)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// StatusOutput is the JSON shape of the status command.
type StatusOutput struct {
	Printer      string `json:"printer"`
	LockEnabled  bool   `json:"lock_enabled"`
	State        string `json:"state"`
	Printing     bool   `json:"printing"`
	AutoShutdown bool   `json:"auto_shutdown"`
}

// statusCommand fetches and prints the printer status.
func statusCommand(ctx context.Context, w io.Writer, api device.API, printer string) error {
	var out StatusOutput
	fetch := func() error {
		var err error
		out, err = fetchStatus(ctx, api, printer)
		return err
	}

	if Quiet() {
		if err := fetch(); err != nil {
			return err
		}
	} else {
		ui.PrintHeader(w, ui.HeaderInfo{Version: formatVersion(version), Printer: printer})
		if err := ui.Spin(w, "Asking the printer", fetch); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	if machineMode {
		return WriteJSONSuccess(w, out)
	}
	fmt.Fprint(w, ui.RenderStatusTable(statusRows(out)))
	return nil
}

func fetchStatus(ctx context.Context, api device.API, printer string) (StatusOutput, error) {
	out := StatusOutput{Printer: printer}

	lock, err := api.LocalLockStatus(ctx)
	if err != nil {
		return out, deviceError(err, "Couldn't read the lock status")
	}
	ps, err := api.PrinterState(ctx)
	if err != nil {
		return out, deviceError(err, "Couldn't read the printer state")
	}
	settings, err := api.Settings(ctx)
	if err != nil {
		return out, deviceError(err, "Couldn't read the panel settings")
	}

	out.LockEnabled = lock.LockEnabled
	out.State = ps.State
	out.Printing = ps.Printing
	out.AutoShutdown = settings.AutoShutdown
	return out, nil
}

func statusRows(s StatusOutput) []ui.StatusRow {
	lock := ui.StatusRow{Status: ui.StatusOK, Item: "Local lock", Value: "disabled"}
	if s.LockEnabled {
		lock.Value = "enabled"
		lock.Hint = "unlock with 'lui unlock'"
	}

	state := ui.StatusRow{Status: ui.StatusOK, Item: "Printer", Value: s.State}
	if s.Printing {
		state.Status = ui.StatusWarn
		state.Hint = "a print is running"
	}

	shutdown := ui.StatusRow{Status: ui.StatusOK, Item: "Auto shutdown", Value: "off"}
	if s.AutoShutdown {
		shutdown.Value = "on"
		if s.Printing {
			shutdown.Hint = "shuts down after this print"
		}
	}

	return []ui.StatusRow{lock, state, shutdown}
}

// deviceError wraps a failed printer request with the usual suggestion.
func deviceError(err error, message string) error {
	if errors.IsCode(err, errors.ErrDevice) {
		return err
	}
	return errors.WrapWithCode(err, errors.ErrDevice, message,
		"Check device.url and device.api_key in your .lui.yaml, and that the printer is on.")
}
