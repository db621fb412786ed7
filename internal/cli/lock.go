package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/lui/internal/device"
	"github.com/rileyhilliard/lui/internal/errors"
	"github.com/rileyhilliard/lui/internal/ui"
)

// lockCmd locks the panel now
var lockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Lock the panel now",
	Long: `Lock every panel attached to the printer immediately.

Examples:
  lui lock`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		return lockCommand(cmd.Context(), cmd.OutOrStdout(), newAPI(cfg))
	},
}

// unlockCmd unlocks the panel with the lock code
var unlockCmd = &cobra.Command{
	Use:   "unlock [code]",
	Short: "Unlock the panel with the lock code",
	Long: `Unlock the panel. Without a code argument you are prompted for it.

Unlocking is refused while the printer's invalid-unlock cooldown runs.

Examples:
  lui unlock
  lui unlock 1234`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		var code string
		if len(args) == 1 {
			code = args[0]
		}
		var prompt func() (string, error)
		if isInteractive() {
			prompt = promptCode
		}
		return unlockCommand(cmd.Context(), cmd.OutOrStdout(), newAPI(cfg), code, prompt)
	},
}

// autolockCmd turns auto-lock on or off
var autolockCmd = &cobra.Command{
	Use:   "autolock on|off",
	Short: "Turn auto-lock on or off",
	Long: `Ask the printer to change its auto-lock setting.

Examples:
  lui autolock on
  lui autolock off`,
	ValidArgs: []string{"on", "off"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		return autolockCommand(cmd.Context(), cmd.OutOrStdout(), newAPI(cfg), args[0] == "on")
	},
}

func init() {
	rootCmd.AddCommand(lockCmd)
	rootCmd.AddCommand(unlockCmd)
	rootCmd.AddCommand(autolockCmd)
}

func lockCommand(ctx context.Context, w io.Writer, api device.API) error {
	if err := api.ImmediateLock(ctx); err != nil {
		return deviceError(err, "Couldn't lock the panel")
	}
	report(w, "Panel locked")
	return nil
}

// unlockCommand checks code against the printer's lock code and unlocks on
// a match. prompt, when non-nil, asks for a missing code.
func unlockCommand(ctx context.Context, w io.Writer, api device.API, code string, prompt func() (string, error)) error {
	st, err := api.LocalLockStatus(ctx)
	if err != nil {
		return deviceError(err, "Couldn't read the lock status")
	}
	if !st.LockEnabled {
		report(w, "The local lock is disabled, nothing to unlock")
		return nil
	}
	if st.Cooldown > 0 {
		return errors.New(errors.ErrLock,
			fmt.Sprintf("Too many wrong codes, locked out for %ds", st.Cooldown),
			"Wait for the cooldown to finish, then try again.")
	}

	code = strings.TrimSpace(code)
	if code == "" && prompt != nil {
		if code, err = prompt(); err != nil {
			return err
		}
		code = strings.TrimSpace(code)
	}
	if code == "" {
		return errors.New(errors.ErrLock,
			"No lock code given",
			"Pass the code as an argument: lui unlock <code>")
	}

	if st.LockCode == "" {
		return errors.New(errors.ErrLock,
			"The printer didn't provide a lock code",
			"Try again in a moment.")
	}
	if code != st.LockCode {
		return errors.New(errors.ErrLock,
			"The code is not correct",
			"Check the code and try again.")
	}

	if err := api.Unlock(ctx); err != nil {
		return deviceError(err, "Couldn't unlock the panel")
	}
	report(w, "Panel unlocked")
	return nil
}

func autolockCommand(ctx context.Context, w io.Writer, api device.API, enabled bool) error {
	if err := api.SetAutoLock(ctx, enabled); err != nil {
		return deviceError(err, "Couldn't change auto-lock")
	}
	report(w, "Auto-lock "+onOff(enabled))
	return nil
}

// report prints a one-line success, or a JSON envelope in machine mode.
func report(w io.Writer, msg string) {
	if machineMode {
		_ = WriteJSONSuccess(w, map[string]string{"result": msg})
		return
	}
	fmt.Fprintln(w, ui.SuccessStyle().Render(ui.SymbolSuccess)+" "+msg)
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
