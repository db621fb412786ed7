package navigation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/lui/internal/device"
	devicetesting "github.com/rileyhilliard/lui/internal/device/testing"
	"github.com/rileyhilliard/lui/internal/flyout"
	flyouttesting "github.com/rileyhilliard/lui/internal/flyout/testing"
	"github.com/rileyhilliard/lui/internal/locallock"
	"github.com/rileyhilliard/lui/internal/logger"
	"github.com/rileyhilliard/lui/internal/loop"
	"github.com/rileyhilliard/lui/internal/notify"
	"github.com/rileyhilliard/lui/internal/push"
)

type rig struct {
	sched     *loop.Manual
	api       *devicetesting.FakeAPI
	presenter *flyouttesting.FakePresenter
	notes     *notify.Center
	settings  *SettingsStore
	lock      *locallock.Controller
	flyouts   *flyout.Coordinator
	log       *logger.BufferLogger
	nav       *Facade
	overlay   []bool
}

func newRig(t *testing.T, env Env) *rig {
	t.Helper()
	r := &rig{
		sched:     loop.NewManual(),
		api:       devicetesting.NewFakeAPI(),
		presenter: flyouttesting.NewFakePresenter(),
		log:       logger.NewBufferLogger(),
	}
	r.notes = notify.NewCenter(loop.NewManual(), time.Hour)
	r.settings = NewSettingsStore(r.sched, r.api, r.notes, r.log)
	r.lock = locallock.NewController(r.sched, r.api, r.notes, locallock.DefaultOptions(), r.log)
	r.flyouts = flyout.New(r.sched, r.presenter, r.settings, nil, flyout.Options{}, r.log)
	r.nav = New(Deps{
		Scheduler: r.sched,
		API:       r.api,
		Lock:      r.lock,
		Flyouts:   r.flyouts,
		Notes:     r.notes,
		Settings:  r.settings,
		Env:       env,
		Log:       r.log,
		Overlay:   func(active bool) { r.overlay = append(r.overlay, active) },
	})
	return r
}

func (r *rig) push(t *testing.T, eventType string, payload interface{}) {
	t.Helper()
	raw, err := push.Encode(eventType, payload)
	require.NoError(t, err)
	ev, err := push.Decode(raw)
	require.NoError(t, err)
	r.nav.OnPushEvent(ev)
	r.sched.Flush()
}

func TestPlanShutdown(t *testing.T) {
	tests := []struct {
		printing, autoShutdown, confirm bool
		want                            ShutdownPlan
	}{
		{false, false, false, ShutdownNow},
		{true, false, false, ShutdownNow},
		{false, false, true, ShutdownConfirm},
		{true, true, true, ShutdownConfirm},
		{true, false, true, ShutdownOptIn},
	}
	for _, tt := range tests {
		got := PlanShutdown(tt.printing, tt.autoShutdown, tt.confirm)
		assert.Equal(t, tt.want, got, "printing=%v auto=%v confirm=%v", tt.printing, tt.autoShutdown, tt.confirm)
	}
}

func TestStartup_LockEnabledLocksAndShowsLockScreen(t *testing.T) {
	r := newRig(t, Env{Local: true})

	r.nav.Startup()
	r.sched.Flush()

	assert.True(t, r.lock.IsLocked())
	assert.Equal(t, "1234", r.lock.State().ExpectedCode)
	assert.True(t, r.flyouts.IsOpen(FlyoutLocalLock))
	assert.False(t, r.presenter.Requested(FlyoutLogin))
	assert.True(t, r.nav.Overlay())
	assert.True(t, r.api.Called(device.CmdSettings))
}

func TestStartup_RemoteWithoutSessionShowsLogin(t *testing.T) {
	r := newRig(t, Env{})
	r.api.SetStatus(device.LockStatus{LockEnabled: false})

	r.nav.Startup()
	r.sched.Flush()

	assert.True(t, r.flyouts.IsOpen(FlyoutLogin))
	assert.False(t, r.lock.IsLocked())
}

func TestStartup_LocalWithoutLockShowsNothing(t *testing.T) {
	r := newRig(t, Env{Local: true})
	r.api.SetStatus(device.LockStatus{LockEnabled: false})

	r.nav.Startup()
	r.sched.Flush()

	assert.Zero(t, r.flyouts.OpenCount())
	assert.False(t, r.nav.Overlay())
	assert.Empty(t, r.overlay, "sink only hears about changes")
}

func TestStartup_StatusFailure(t *testing.T) {
	r := newRig(t, Env{})
	r.api.SetError(device.CmdLockStatus, errors.New("offline"))

	r.nav.Startup()
	r.sched.Flush()

	assert.Zero(t, r.flyouts.OpenCount())
	require.NotEmpty(t, r.notes.Toasts())
	assert.Equal(t, locallock.TitleFailure, r.notes.Toasts()[0].Title)
}

func TestShutdown_PrintingOffersAutoShutdown(t *testing.T) {
	r := newRig(t, Env{Local: true})
	r.api.SetPrinting(true)

	r.nav.RequestSystemShutdown(true)
	r.sched.Flush()

	assert.True(t, r.flyouts.IsOpen(FlyoutShutdownConfirmation))
	assert.Zero(t, r.presenter.PendingConfirms(), "opt-in replaces the plain confirmation")

	require.True(t, r.presenter.Resolve(FlyoutShutdownConfirmation, flyout.Accepted))
	r.sched.Flush()

	assert.False(t, r.api.Called(device.CmdShutdown), "no shutdown command is sent")
	assert.True(t, r.api.Called(device.CmdAutoShutdownOn))
	assert.True(t, r.settings.Current().AutoShutdown)
	_, infos := r.notes.Pending()
	assert.Equal(t, 1, infos)
}

func TestShutdown_PrintingOptInDismissed(t *testing.T) {
	r := newRig(t, Env{Local: true})
	r.api.SetPrinting(true)

	r.nav.RequestSystemShutdown(true)
	r.sched.Flush()
	r.presenter.Resolve(FlyoutShutdownConfirmation, flyout.Dismissed)
	r.sched.Flush()

	assert.False(t, r.api.Called(device.CmdShutdown))
	assert.False(t, r.api.Called(device.CmdAutoShutdownOn))
	assert.False(t, r.settings.Current().AutoShutdown)
}

func TestShutdown_AutoShutdownAlreadyOnConfirms(t *testing.T) {
	r := newRig(t, Env{Local: true})
	r.api.SetPrinting(true)
	r.api.Panel.AutoShutdown = true
	r.settings.Load(nil)
	r.sched.Flush()

	r.nav.RequestSystemShutdown(true)
	r.sched.Flush()

	d, ok := r.presenter.LastDialog()
	require.True(t, ok)
	assert.Equal(t, ShutdownDialog, d)

	r.presenter.ResolveConfirm(flyout.Accepted)
	r.sched.Flush()
	assert.True(t, r.api.Called(device.CmdShutdown))
}

func TestShutdown_PrinterStateFailureFallsBackToConfirm(t *testing.T) {
	r := newRig(t, Env{Local: true})
	r.api.SetError(device.CmdPrinterState, errors.New("timeout"))

	r.nav.RequestSystemShutdown(true)
	r.sched.Flush()

	assert.Equal(t, 1, r.presenter.PendingConfirms())
	assert.False(t, r.flyouts.IsOpen(FlyoutShutdownConfirmation))
}

func TestShutdown_WithoutConfirmRunsImmediately(t *testing.T) {
	r := newRig(t, Env{Local: true})
	r.api.SetPrinting(true)

	r.nav.RequestSystemShutdown(false)
	r.sched.Flush()

	assert.Equal(t, []string{device.CmdShutdown}, r.api.Calls())
}

func TestRestartAndReboot(t *testing.T) {
	tests := []struct {
		name   string
		call   func(f *Facade, confirm bool)
		cmd    string
		dialog flyout.Dialog
	}{
		{"restart", (*Facade).RequestServiceRestart, device.CmdRestartService, RestartDialog},
		{"reboot", (*Facade).RequestSystemReboot, device.CmdReboot, RebootDialog},
	}

	for _, tt := range tests {
		t.Run(tt.name+" immediate", func(t *testing.T) {
			r := newRig(t, Env{Local: true})
			tt.call(r.nav, false)
			r.sched.Flush()
			assert.Equal(t, []string{tt.cmd}, r.api.Calls())
		})

		t.Run(tt.name+" confirmed", func(t *testing.T) {
			r := newRig(t, Env{Local: true})
			tt.call(r.nav, true)
			r.sched.Flush()

			assert.Empty(t, r.api.Calls())
			d, _ := r.presenter.LastDialog()
			assert.Equal(t, tt.dialog, d)
			assert.True(t, r.nav.Overlay(), "a confirmation raises the overlay")

			r.presenter.ResolveConfirm(flyout.Accepted)
			r.sched.Flush()
			assert.Equal(t, []string{tt.cmd}, r.api.Calls())
			assert.False(t, r.nav.Overlay())
		})

		t.Run(tt.name+" declined", func(t *testing.T) {
			r := newRig(t, Env{Local: true})
			tt.call(r.nav, true)
			r.presenter.ResolveConfirm(flyout.Dismissed)
			r.sched.Flush()
			assert.Empty(t, r.api.Calls())
		})
	}
}

func TestCommandFailureToasts(t *testing.T) {
	r := newRig(t, Env{Local: true})
	r.api.SetError(device.CmdReboot, errors.New("refused"))

	r.nav.RequestSystemReboot(false)
	r.sched.Flush()

	require.Len(t, r.notes.Toasts(), 1)
	assert.Contains(t, r.notes.Toasts()[0].Text, "reboot")
}

func TestPush_LockedOpensLockScreen(t *testing.T) {
	r := newRig(t, Env{Local: true})

	r.push(t, push.TypeLocalLockLocked, nil)

	assert.True(t, r.lock.IsLocked())
	require.True(t, r.flyouts.IsOpen(FlyoutLocalLock))
	assert.Equal(t, flyout.Request{Name: FlyoutLocalLock, Blocking: true}, r.presenter.Requests[0])
	assert.Equal(t, []bool{true}, r.overlay)
}

func TestPush_UnlockedClosesLockScreen(t *testing.T) {
	r := newRig(t, Env{Local: true})
	r.push(t, push.TypeLocalLockLocked, nil)

	r.push(t, push.TypeLocalLockUnlocked, nil)

	assert.False(t, r.lock.IsLocked())
	assert.False(t, r.flyouts.IsOpen(FlyoutLocalLock))
	assert.Equal(t, []string{FlyoutLocalLock}, r.presenter.Dismissed)
	assert.Equal(t, "Unlocked", r.notes.Toasts()[0].Title)
	assert.Equal(t, []bool{true, false}, r.overlay)
}

func TestPush_TimerOpensLockScreenOnce(t *testing.T) {
	r := newRig(t, Env{Local: true})

	r.push(t, push.TypeInvalidUnlockTimer, push.TimerPayload{Timer: 10})
	r.push(t, push.TypeInvalidUnlockTimer, push.TimerPayload{Timer: 9})

	assert.Len(t, r.presenter.Requests, 1)
	assert.Equal(t, locallock.LockedCooldown, r.lock.Status())
	assert.Equal(t, 9, r.lock.State().CooldownRemaining)

	r.push(t, push.TypeInvalidUnlockReset, nil)
	assert.Equal(t, locallock.Locked, r.lock.Status())
}

func TestPush_TimerIgnoredWhenItDoesNotLock(t *testing.T) {
	tests := []struct {
		name    string
		payload interface{}
	}{
		{"malformed timer", map[string]string{"timer": "soon"}},
		{"missing timer", nil},
		{"zero timer", push.TimerPayload{Timer: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRig(t, Env{Local: true})

			r.push(t, push.TypeInvalidUnlockTimer, tt.payload)

			assert.False(t, r.lock.IsLocked())
			assert.False(t, r.flyouts.IsOpen(FlyoutLocalLock))
			assert.Empty(t, r.presenter.Requests)
			assert.False(t, r.nav.Overlay())
		})
	}
}

func TestPush_MalformedTimerLeavesUnlockWorking(t *testing.T) {
	r := newRig(t, Env{Local: true})
	r.nav.Startup()
	r.sched.Flush()
	require.True(t, r.flyouts.IsOpen(FlyoutLocalLock))

	r.push(t, push.TypeInvalidUnlockTimer, map[string]string{"timer": "soon"})
	assert.Equal(t, locallock.Locked, r.lock.Status())
	assert.Len(t, r.presenter.Requests, 1, "lock screen isn't opened twice")

	r.nav.Unlock("1234")
	r.sched.Flush()
	assert.True(t, r.api.Called(device.CmdUnlock))
}

func TestPush_AutoLockToggle(t *testing.T) {
	r := newRig(t, Env{Local: true})
	r.push(t, push.TypeAutoLocalLockToggle, push.TogglePayload{Data: true})
	assert.True(t, r.lock.State().AutoLock)
}

func TestPush_PowerButton(t *testing.T) {
	r := newRig(t, Env{Local: true})
	shutdownHooks := 0
	r.flyouts = flyout.New(r.sched, r.presenter, r.settings, []flyout.Dependent{
		flyout.Hooks{flyout.HookShutdownOrDisconnect: func() { shutdownHooks++ }},
	}, flyout.Options{}, r.log)
	r.nav = New(Deps{
		Scheduler: r.sched, API: r.api, Lock: r.lock, Flyouts: r.flyouts,
		Notes: r.notes, Settings: r.settings, Env: Env{Local: true},
	})

	r.push(t, push.TypePowerButtonPressed, nil)

	assert.Equal(t, 1, shutdownHooks)
	assert.Equal(t, 1, r.presenter.PendingConfirms(), "idle printer gets the plain confirmation")
	assert.False(t, r.api.Called(device.CmdShutdown))
}

func TestPush_IgnoresForeignAndUnknown(t *testing.T) {
	r := newRig(t, Env{Local: true})

	r.nav.OnPushEvent(push.Event{Plugin: "octoprint", Type: push.TypeLocalLockLocked})
	r.push(t, "firmware_update", nil)
	r.sched.Flush()

	assert.False(t, r.lock.IsLocked())
	assert.Empty(t, r.presenter.Requests)
	assert.True(t, r.log.Contains("ignoring push event"))
	assert.True(t, r.log.Contains("ignoring unknown push event"))
}

func TestPushStatus_RaisesAndClearsWarning(t *testing.T) {
	r := newRig(t, Env{Local: true})

	r.nav.OnPushStatus(push.Disconnected, errors.New("eof"))
	w, _ := r.notes.Pending()
	assert.Equal(t, 1, w)
	assert.True(t, r.nav.Overlay())

	r.nav.OnPushStatus(push.Connecting, nil)
	r.nav.OnPushStatus(push.Connected, nil)
	w, _ = r.notes.Pending()
	assert.Zero(t, w)
	assert.False(t, r.nav.Overlay())
}

func TestOverlay_SettingsTopicAndAcknowledge(t *testing.T) {
	r := newRig(t, Env{Local: true})

	require.NoError(t, r.nav.ShowWireless())
	assert.True(t, r.nav.Overlay())
	assert.ErrorIs(t, r.nav.ShowWireless(), flyout.ErrAlreadyOpen)

	r.presenter.Resolve(flyout.SettingsName(TopicWireless), flyout.Accepted)
	assert.False(t, r.nav.Overlay(), "overlay follows the presented flyout, not the session")
	r.sched.Advance(time.Second)
	assert.True(t, r.api.Called(device.CmdSaveSettings))

	r.notes.Inform(KeyAutoShutdown, "Auto shutdown", "")
	assert.True(t, r.nav.Overlay())
	r.nav.AcknowledgeAll()
	assert.False(t, r.nav.Overlay())
	assert.Equal(t, []bool{true, false, true, false}, r.overlay)
}

func TestBlockingTopics(t *testing.T) {
	r := newRig(t, Env{Local: true})

	require.NoError(t, r.nav.ShowMaintenance())
	require.NoError(t, r.nav.ShowLogs())

	require.Len(t, r.presenter.Requests, 2)
	assert.True(t, r.presenter.Requests[0].Blocking)
	assert.True(t, r.presenter.Requests[1].Blocking)
}

func TestUnlockFlowThroughFacade(t *testing.T) {
	r := newRig(t, Env{Local: true})
	r.nav.Startup()
	r.sched.Flush()

	r.nav.Unlock("1234")
	r.sched.Flush()
	assert.True(t, r.api.Called(device.CmdUnlock))
	assert.True(t, r.flyouts.IsOpen(FlyoutLocalLock), "lock screen stays until confirmed")

	r.push(t, push.TypeLocalLockUnlocked, nil)
	assert.False(t, r.flyouts.IsOpen(FlyoutLocalLock))
	assert.False(t, r.nav.Overlay())
}

func TestImmediateLockAndAutoLock(t *testing.T) {
	r := newRig(t, Env{Local: true})

	r.nav.ImmediateLock()
	r.nav.AutoLock(true)
	r.sched.Flush()

	assert.True(t, r.flyouts.IsOpen(FlyoutLocalLock))
	assert.Equal(t, []string{device.CmdImmediateLock, device.CmdAutoLockOn}, r.api.Calls())
}
