package ui

import (
	"time"

	"github.com/rileyhilliard/lui/internal/device"
	"github.com/rileyhilliard/lui/internal/flyout"
	"github.com/rileyhilliard/lui/internal/locallock"
	"github.com/rileyhilliard/lui/internal/logger"
	"github.com/rileyhilliard/lui/internal/loop"
	"github.com/rileyhilliard/lui/internal/navigation"
	"github.com/rileyhilliard/lui/internal/notify"
	"github.com/rileyhilliard/lui/internal/push"
)

// Options configures the panel.
type Options struct {
	API           device.API
	Lock          locallock.Options
	Flyout        flyout.Options
	Env           navigation.Env
	ToastDuration time.Duration
	Header        HeaderInfo
	Log           logger.Logger
}

// app holds the controllers behind the model. The model is copied on every
// update; app is shared through a pointer so they all see one state.
type app struct {
	sched     loop.Scheduler
	log       logger.Logger
	nav       *navigation.Facade
	lock      *locallock.Controller
	flyouts   *flyout.Coordinator
	notes     *notify.Center
	settings  *navigation.SettingsStore
	presenter *Presenter
	screen    *screenState

	pushStatus push.Status
	overlay    bool
}

func newApp(sched loop.Scheduler, opts Options) *app {
	log := logger.OrNoop(opts.Log)
	a := &app{
		sched:     sched,
		log:       log,
		presenter: NewPresenter(),
		notes:     notify.NewCenter(sched, opts.ToastDuration),
	}
	a.settings = navigation.NewSettingsStore(sched, opts.API, a.notes, log)
	a.screen = &screenState{settings: a.settings}
	a.lock = locallock.NewController(sched, opts.API, a.notes, opts.Lock, log)
	a.flyouts = flyout.New(sched, a.presenter, a.settings, []flyout.Dependent{
		a.screen,
		a.screen.topicHooks(),
	}, opts.Flyout, log)
	a.nav = navigation.New(navigation.Deps{
		Scheduler: sched,
		API:       opts.API,
		Lock:      a.lock,
		Flyouts:   a.flyouts,
		Notes:     a.notes,
		Settings:  a.settings,
		Env:       opts.Env,
		Log:       log,
		Overlay:   func(active bool) { a.overlay = active },
	})
	return a
}

// OnPushEvent routes a pushed event. Runs on the scheduler's context.
func (a *app) OnPushEvent(ev push.Event) {
	a.nav.OnPushEvent(ev)
}

// OnPushStatus records the connection state. A dropped connection counts as
// a disconnect for the flyout dependents. Runs on the scheduler's context.
func (a *app) OnPushStatus(s push.Status, err error) {
	a.pushStatus = s
	if s == push.Disconnected && err != nil {
		a.flyouts.BroadcastShutdownOrDisconnect()
	}
	a.nav.OnPushStatus(s, err)
}

// screenState is the main screen's flyout dependent. It dims the menu while
// a settings panel is up and refreshes settings whenever one finishes
// opening.
type screenState struct {
	settings     *navigation.SettingsStore
	settingsOpen int
	interrupted  bool
}

func (s *screenState) OnSettingsShown() {
	s.settingsOpen++
}

func (s *screenState) OnSettingsHidden() {
	if s.settingsOpen > 0 {
		s.settingsOpen--
	}
}

func (s *screenState) OnShutdownOrDisconnectFlyout() {
	s.interrupted = true
}

// takeInterrupted reports and clears a pending shutdown or disconnect.
func (s *screenState) takeInterrupted() bool {
	was := s.interrupted
	s.interrupted = false
	return was
}

// topicHooks reloads settings whenever a topic panel finishes opening.
func (s *screenState) topicHooks() flyout.Hooks {
	reload := func() { s.settings.Load(nil) }
	hooks := flyout.Hooks{}
	for _, topic := range []string{navigation.TopicWireless, navigation.TopicMaintenance, navigation.TopicLogs} {
		hooks[flyout.HookName(topic, flyout.PhaseShown)] = reload
	}
	return hooks
}
