package navigation

import (
	"context"

	"github.com/rileyhilliard/lui/internal/device"
	"github.com/rileyhilliard/lui/internal/logger"
	"github.com/rileyhilliard/lui/internal/loop"
	"github.com/rileyhilliard/lui/internal/notify"
)

// SettingsStore keeps the panel's copy of the printer-side settings. It is
// the flyout coordinator's saver, so accepting a settings panel persists the
// current values.
type SettingsStore struct {
	sched   loop.Scheduler
	api     device.API
	notes   *notify.Center
	log     logger.Logger
	current device.Settings
}

// NewSettingsStore creates a store holding zero-valued settings until Load.
func NewSettingsStore(sched loop.Scheduler, api device.API, notes *notify.Center, log logger.Logger) *SettingsStore {
	return &SettingsStore{sched: sched, api: api, notes: notes, log: logger.OrNoop(log)}
}

// Current returns the last known settings.
func (s *SettingsStore) Current() device.Settings {
	return s.current
}

// Load fetches settings from the printer. done, if non-nil, gets the error.
func (s *SettingsStore) Load(done func(error)) {
	var fetched device.Settings
	s.sched.Go(func(ctx context.Context) error {
		var err error
		fetched, err = s.api.Settings(ctx)
		return err
	}, func(err error) {
		if err != nil {
			s.log.Warn("loading settings failed: %v", err)
		} else {
			s.current = fetched
		}
		if done != nil {
			done(err)
		}
	})
}

// SaveSettings persists the current settings.
func (s *SettingsStore) SaveSettings() {
	snapshot := s.current
	s.sched.Go(func(ctx context.Context) error {
		return s.api.SaveSettings(ctx, snapshot)
	}, func(err error) {
		if err != nil {
			s.log.Warn("saving settings failed: %v", err)
			s.notes.Toast(notify.LevelError, "Settings not saved", "The printer didn't accept the new settings.")
		}
	})
}

// SetAutoShutdown turns shutdown-after-print on or off and tells the printer.
func (s *SettingsStore) SetAutoShutdown(enabled bool) {
	s.current.AutoShutdown = enabled
	s.sched.Go(func(ctx context.Context) error {
		return s.api.SetAutoShutdown(ctx, enabled)
	}, func(err error) {
		if err != nil {
			s.log.Warn("setting auto-shutdown failed: %v", err)
			s.notes.Toast(notify.LevelError, "Auto shutdown", "The printer didn't accept the auto-shutdown setting.")
		}
	})
}
