// Package testing provides test doubles for the device package.
package testing

import (
	"context"
	"sync"

	"github.com/rileyhilliard/lui/internal/device"
)

// FakeAPI is an in-memory device.API that records every call by command name.
// It succeeds by default; use SetError to make a command fail.
type FakeAPI struct {
	mu sync.Mutex

	// Configuration
	Status   device.LockStatus
	Printer  device.PrinterState
	Panel    device.Settings
	errors   map[string]error
	Blocking map[string]chan struct{} // command waits on the channel before returning

	// Call tracking
	calls []string
	saved []device.Settings
}

var _ device.API = (*FakeAPI)(nil)

// NewFakeAPI creates a fake with the lock enabled and code "1234".
func NewFakeAPI() *FakeAPI {
	return &FakeAPI{
		Status: device.LockStatus{LockEnabled: true, LockCode: "1234"},
		errors: make(map[string]error),
	}
}

// SetError makes cmd fail with err. A nil err clears it.
func (f *FakeAPI) SetError(cmd string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.errors, cmd)
		return
	}
	f.errors[cmd] = err
}

// SetStatus replaces the lock status returned by LocalLockStatus.
func (f *FakeAPI) SetStatus(st device.LockStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Status = st
}

// SetPrinting sets whether PrinterState reports a running job.
func (f *FakeAPI) SetPrinting(printing bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Printer.Printing = printing
	if printing {
		f.Printer.State = "Printing"
	} else {
		f.Printer.State = "Operational"
	}
}

// Calls returns the command names called so far, in order.
func (f *FakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns how many times cmd was called.
func (f *FakeAPI) CallCount(cmd string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == cmd {
			n++
		}
	}
	return n
}

// Called reports whether cmd was called at least once.
func (f *FakeAPI) Called(cmd string) bool {
	return f.CallCount(cmd) > 0
}

// SavedSettings returns every Settings passed to SaveSettings.
func (f *FakeAPI) SavedSettings() []device.Settings {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]device.Settings, len(f.saved))
	copy(out, f.saved)
	return out
}

// Reset clears recorded calls. Configuration is kept.
func (f *FakeAPI) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
	f.saved = nil
}

func (f *FakeAPI) record(ctx context.Context, cmd string) error {
	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	err := f.errors[cmd]
	gate := f.Blocking[cmd]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (f *FakeAPI) LocalLockStatus(ctx context.Context) (device.LockStatus, error) {
	if err := f.record(ctx, device.CmdLockStatus); err != nil {
		return device.LockStatus{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Status, nil
}

func (f *FakeAPI) Unlock(ctx context.Context) error {
	return f.record(ctx, device.CmdUnlock)
}

func (f *FakeAPI) ImmediateLock(ctx context.Context) error {
	return f.record(ctx, device.CmdImmediateLock)
}

func (f *FakeAPI) SetAutoLock(ctx context.Context, enabled bool) error {
	return f.record(ctx, device.OnOff(enabled, device.CmdAutoLockOn, device.CmdAutoLockOff))
}

func (f *FakeAPI) NotifyInvalidUnlock(ctx context.Context) error {
	return f.record(ctx, device.CmdInvalidUnlock)
}

func (f *FakeAPI) RestartService(ctx context.Context) error {
	return f.record(ctx, device.CmdRestartService)
}

func (f *FakeAPI) Reboot(ctx context.Context) error {
	return f.record(ctx, device.CmdReboot)
}

func (f *FakeAPI) Shutdown(ctx context.Context) error {
	return f.record(ctx, device.CmdShutdown)
}

func (f *FakeAPI) PrinterState(ctx context.Context) (device.PrinterState, error) {
	if err := f.record(ctx, device.CmdPrinterState); err != nil {
		return device.PrinterState{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Printer, nil
}

func (f *FakeAPI) Settings(ctx context.Context) (device.Settings, error) {
	if err := f.record(ctx, device.CmdSettings); err != nil {
		return device.Settings{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Panel, nil
}

func (f *FakeAPI) SaveSettings(ctx context.Context, s device.Settings) error {
	if err := f.record(ctx, device.CmdSaveSettings); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, s)
	f.Panel = s
	return nil
}

func (f *FakeAPI) SetAutoShutdown(ctx context.Context, enabled bool) error {
	if err := f.record(ctx, device.OnOff(enabled, device.CmdAutoShutdownOn, device.CmdAutoShutdownOff)); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Panel.AutoShutdown = enabled
	return nil
}
