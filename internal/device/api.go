// Package device talks to the printer's control API.
//
// API is what the lock controller and the navigation facade consume. Client
// is the HTTP implementation; the testing subpackage provides a recording
// fake. Every method is a blocking request/response call and is expected to
// be run off the UI context via loop.Scheduler.Go.
package device

import "context"

// LockStatus is the printer's view of the local lock.
type LockStatus struct {
	LockEnabled bool   `json:"lockEnabled"`
	LockCode    string `json:"lockCode"`
	// Cooldown is the seconds left on an invalid-unlock lockout, 0 when
	// none is running. Printers that don't report it never lock out a CLI.
	Cooldown int `json:"cooldown,omitempty"`
}

// PrinterState is the subset of printer state the panel cares about.
type PrinterState struct {
	Printing bool   `json:"printing"`
	State    string `json:"state,omitempty"`
}

// Settings are the panel settings persisted on the printer.
type Settings struct {
	AutoShutdown bool `json:"autoShutdown"`
}

// API is the device-control surface consumed by the panel.
type API interface {
	LocalLockStatus(ctx context.Context) (LockStatus, error)
	Unlock(ctx context.Context) error
	ImmediateLock(ctx context.Context) error
	SetAutoLock(ctx context.Context, enabled bool) error
	NotifyInvalidUnlock(ctx context.Context) error

	RestartService(ctx context.Context) error
	Reboot(ctx context.Context) error
	Shutdown(ctx context.Context) error

	PrinterState(ctx context.Context) (PrinterState, error)
	Settings(ctx context.Context) (Settings, error)
	SaveSettings(ctx context.Context, s Settings) error
	SetAutoShutdown(ctx context.Context, enabled bool) error
}

// Command names, shared by the client, the fake and the simulator so the
// three stay in step.
const (
	CmdLockStatus      = "local_lock_status"
	CmdUnlock          = "unlock"
	CmdImmediateLock   = "immediate_lock"
	CmdAutoLockOn      = "auto_lock_on"
	CmdAutoLockOff     = "auto_lock_off"
	CmdInvalidUnlock   = "invalid_unlock"
	CmdRestartService  = "restart_service"
	CmdReboot          = "reboot"
	CmdShutdown        = "shutdown"
	CmdPrinterState    = "printer_state"
	CmdSettings        = "settings"
	CmdSaveSettings    = "save_settings"
	CmdAutoShutdownOn  = "auto_shutdown_on"
	CmdAutoShutdownOff = "auto_shutdown_off"
)

// OnOff maps a toggle to the matching pair of command names.
func OnOff(enabled bool, on, off string) string {
	if enabled {
		return on
	}
	return off
}
