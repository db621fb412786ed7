// Package navigation is the panel's controller. It turns UI actions
// (unlock, settings topics, restart, reboot, shutdown) and pushed printer
// events into calls on the lock controller, the flyout coordinator and the
// device API, and derives the overlay signal from all of them.
package navigation

import (
	"context"

	"github.com/rileyhilliard/lui/internal/device"
	"github.com/rileyhilliard/lui/internal/flyout"
	"github.com/rileyhilliard/lui/internal/locallock"
	"github.com/rileyhilliard/lui/internal/logger"
	"github.com/rileyhilliard/lui/internal/loop"
	"github.com/rileyhilliard/lui/internal/notify"
	"github.com/rileyhilliard/lui/internal/push"
)

// Pending item keys raised by the facade.
const (
	KeyPushDisconnected = "push_disconnected"
	KeyAutoShutdown     = "auto_shutdown"
)

// Env describes where the panel runs.
type Env struct {
	// Local is true on the printer's own display.
	Local bool
	// LoggedIn is true when a remote panel already has a session.
	LoggedIn bool
}

// Deps are the facade's collaborators. Overlay may be nil.
type Deps struct {
	Scheduler loop.Scheduler
	API       device.API
	Lock      *locallock.Controller
	Flyouts   *flyout.Coordinator
	Notes     *notify.Center
	Settings  *SettingsStore
	Env       Env
	Log       logger.Logger

	// Overlay is called whenever the overlay signal changes.
	Overlay func(active bool)
}

// Facade is the navigation controller. All methods must be called on the
// scheduler's context.
type Facade struct {
	sched    loop.Scheduler
	api      device.API
	lock     *locallock.Controller
	flyouts  *flyout.Coordinator
	notes    *notify.Center
	settings *SettingsStore
	env      Env
	log      logger.Logger

	overlay     bool
	overlaySink func(bool)
}

// New wires a facade and subscribes it to every overlay input.
func New(d Deps) *Facade {
	f := &Facade{
		sched:       d.Scheduler,
		api:         d.API,
		lock:        d.Lock,
		flyouts:     d.Flyouts,
		notes:       d.Notes,
		settings:    d.Settings,
		env:         d.Env,
		log:         logger.OrNoop(d.Log),
		overlaySink: d.Overlay,
	}
	f.lock.OnChange(func(locallock.State) { f.updateOverlay() })
	f.flyouts.OnChange(f.updateOverlay)
	f.notes.OnChange(f.updateOverlay)
	return f
}

// Startup fetches the lock status and settings. A remote panel with no
// session and no lock gets the login flyout; an enabled lock locks the
// panel and shows the lock screen.
func (f *Facade) Startup() {
	f.settings.Load(nil)

	var st device.LockStatus
	f.sched.Go(func(ctx context.Context) error {
		var err error
		st, err = f.api.LocalLockStatus(ctx)
		return err
	}, func(err error) {
		if err != nil {
			f.log.Warn("startup lock status failed: %v", err)
			f.notes.Toast(notify.LevelError, locallock.TitleFailure, "Couldn't read the lock status from the printer.")
			return
		}
		if !f.env.Local && !f.env.LoggedIn && !st.LockEnabled {
			f.ShowLoginFlyout()
		}
		if st.LockEnabled {
			f.lock.ApplyStatus(st)
			f.openLockFlyout()
		}
	})
}

// Overlay reports whether the overlay is active.
func (f *Facade) Overlay() bool {
	return f.overlay
}

// ShowLoginFlyout opens the login flyout.
func (f *Facade) ShowLoginFlyout() {
	f.open(flyout.Request{Name: FlyoutLogin})
}

// ShowSettingsTopic opens a settings panel.
func (f *Facade) ShowSettingsTopic(topic string, blocking, highPriority bool) error {
	return f.flyouts.Show(topic, blocking, highPriority)
}

// ShowMaintenance opens the maintenance settings, blocking.
func (f *Facade) ShowMaintenance() error {
	return f.ShowSettingsTopic(TopicMaintenance, true, false)
}

// ShowLogs opens the logs settings, blocking.
func (f *Facade) ShowLogs() error {
	return f.ShowSettingsTopic(TopicLogs, true, false)
}

// ShowWireless opens the wireless settings from the network status shortcut.
func (f *Facade) ShowWireless() error {
	return f.ShowSettingsTopic(TopicWireless, false, false)
}

// Unlock tries a lock code.
func (f *Facade) Unlock(code string) {
	f.lock.AttemptUnlock(code)
}

// ImmediateLock locks the panel now.
func (f *Facade) ImmediateLock() {
	f.lock.ImmediateLock()
	f.openLockFlyout()
}

// AutoLock asks the printer to change the auto-lock setting.
func (f *Facade) AutoLock(enabled bool) {
	f.lock.SetAutoLock(enabled)
}

// RequestServiceRestart restarts the printer service, asking first when confirm is set.
func (f *Facade) RequestServiceRestart(confirm bool) {
	f.confirmThen(confirm, RestartDialog, "service restart", f.api.RestartService)
}

// RequestSystemReboot reboots the printer, asking first when confirm is set.
func (f *Facade) RequestSystemReboot(confirm bool) {
	f.confirmThen(confirm, RebootDialog, "reboot", f.api.Reboot)
}

// RequestSystemShutdown shuts the printer down. With confirm set it asks
// first, and during a print it offers auto-shutdown instead; see PlanShutdown.
func (f *Facade) RequestSystemShutdown(confirm bool) {
	if !confirm {
		f.command("shutdown", f.api.Shutdown)
		return
	}

	var ps device.PrinterState
	f.sched.Go(func(ctx context.Context) error {
		var err error
		ps, err = f.api.PrinterState(ctx)
		return err
	}, func(err error) {
		plan := ShutdownConfirm
		if err != nil {
			f.log.Warn("printer state unavailable, asking for plain confirmation: %v", err)
		} else {
			plan = PlanShutdown(ps.Printing, f.settings.Current().AutoShutdown, true)
		}
		f.log.Debug("shutdown plan: %s", plan)

		if plan == ShutdownOptIn {
			f.open(flyout.Request{Name: FlyoutShutdownConfirmation}, func(out flyout.Outcome) {
				if out != flyout.Accepted {
					return
				}
				f.settings.SetAutoShutdown(true)
				f.notes.Inform(KeyAutoShutdown, "Auto shutdown",
					"The printer will shut down when the current print finishes.")
			})
			return
		}
		f.flyouts.Confirm(ShutdownDialog, func() { f.command("shutdown", f.api.Shutdown) })
	})
}

// OnPushEvent routes a pushed event. Events for other plugins and unknown
// types are logged and dropped.
func (f *Facade) OnPushEvent(ev push.Event) {
	if !ev.Ours() {
		f.log.Debug("ignoring push event for plugin %q", ev.Plugin)
		return
	}

	switch ev.Type {
	case push.TypePowerButtonPressed:
		f.RequestSystemShutdown(true)
		f.flyouts.BroadcastShutdownOrDisconnect()
	case push.TypeLocalLockLocked, push.TypeInvalidUnlockTimer:
		f.lock.OnServerEvent(ev)
		if f.lock.IsLocked() {
			f.openLockFlyout()
		}
	case push.TypeLocalLockUnlocked:
		f.lock.OnServerEvent(ev)
		f.flyouts.Close(FlyoutLocalLock)
		f.notes.Toast(notify.LevelSuccess, "Unlocked", "The interface is unlocked")
	case push.TypeAutoLocalLockToggle, push.TypeInvalidUnlockReset:
		f.lock.OnServerEvent(ev)
	default:
		f.log.Debug("ignoring unknown push event %q", ev.Type)
	}
}

// OnPushStatus raises a pending warning while the push connection is down.
func (f *Facade) OnPushStatus(s push.Status, err error) {
	switch {
	case s == push.Connected:
		f.notes.Acknowledge(KeyPushDisconnected)
	case s == push.Disconnected && err != nil:
		f.notes.Warn(KeyPushDisconnected, "Disconnected",
			"Lost the connection to the printer. Reconnecting...")
	}
}

// AcknowledgeAll clears every pending warning and info.
func (f *Facade) AcknowledgeAll() {
	for _, it := range f.notes.Warnings() {
		f.notes.Acknowledge(it.Key)
	}
	for _, it := range f.notes.Infos() {
		f.notes.Acknowledge(it.Key)
	}
}

// openLockFlyout shows the lock screen unless it is already up.
func (f *Facade) openLockFlyout() {
	if f.flyouts.IsOpen(FlyoutLocalLock) {
		return
	}
	f.open(flyout.Request{Name: FlyoutLocalLock, Blocking: true})
}

func (f *Facade) open(req flyout.Request, done ...func(flyout.Outcome)) {
	var cb func(flyout.Outcome)
	if len(done) > 0 {
		cb = done[0]
	}
	if err := f.flyouts.Open(req.Name, req.Blocking, req.HighPriority, cb); err != nil {
		f.log.Debug("not opening %s: %v", req.Name, err)
	}
}

func (f *Facade) confirmThen(confirm bool, d flyout.Dialog, what string, cmd func(ctx context.Context) error) {
	if !confirm {
		f.command(what, cmd)
		return
	}
	f.flyouts.Confirm(d, func() { f.command(what, cmd) })
}

func (f *Facade) command(what string, cmd func(ctx context.Context) error) {
	f.log.Info("sending %s", what)
	f.sched.Go(cmd, func(err error) {
		if err != nil {
			f.log.Warn("%s failed: %v", what, err)
			f.notes.Toast(notify.LevelError, locallock.TitleFailure, "The printer didn't accept the "+what+" command.")
		}
	})
}

func (f *Facade) updateOverlay() {
	warnings, infos := f.notes.Pending()
	active := warnings > 0 || infos > 0 ||
		f.flyouts.OpenCount() > 0 || f.flyouts.ConfirmationOpen() ||
		f.lock.IsLocked()
	if active == f.overlay {
		return
	}
	f.overlay = active
	if f.overlaySink != nil {
		f.overlaySink(active)
	}
}
