package flyout

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/rileyhilliard/lui/internal/errors"
	"github.com/rileyhilliard/lui/internal/logger"
	"github.com/rileyhilliard/lui/internal/loop"
)

// ErrAlreadyOpen is returned when a settings topic or flyout is opened while
// a previous open request for it hasn't finished closing.
var ErrAlreadyOpen = errors.New(errors.ErrFlyout, "Flyout is already open", "")

// Options tunes the coordinator.
type Options struct {
	TransitionDelay time.Duration
}

// Coordinator runs the flyout protocol. All methods must be called on the
// scheduler's context.
type Coordinator struct {
	sched     loop.Scheduler
	presenter Presenter
	saver     SettingsSaver
	deps      []Dependent
	delay     time.Duration
	log       logger.Logger

	sessions      map[string]*Session
	presented     map[string]func(Outcome)
	confirmations int
	observers     []func()
}

// New creates a coordinator. deps are notified of transitions in the order
// given; saver may be nil when nothing needs persisting.
func New(sched loop.Scheduler, presenter Presenter, saver SettingsSaver, deps []Dependent, opts Options, log logger.Logger) *Coordinator {
	delay := opts.TransitionDelay
	if delay <= 0 {
		delay = DefaultTransitionDelay
	}
	return &Coordinator{
		sched:     sched,
		presenter: presenter,
		saver:     saver,
		deps:      deps,
		delay:     delay,
		log:       logger.OrNoop(log),
		sessions:  make(map[string]*Session),
		presented: make(map[string]func(Outcome)),
	}
}

// Show opens the settings panel for topic.
//
// One transition delay after the call, dependents get onSettingsShown and
// then on<Topic>SettingsShown. When the user accepts, settings are saved one
// delay later. One delay after the close trigger (the save when accepted,
// the dismissal or failure otherwise) dependents get onSettingsHidden and
// then on<Topic>SettingsHidden, exactly once.
func (c *Coordinator) Show(topic string, blocking, highPriority bool) error {
	if s, ok := c.sessions[topic]; ok {
		return errors.WrapWithCode(ErrAlreadyOpen, errors.ErrFlyout,
			"The "+topic+" settings are already "+s.Phase.String(), "")
	}

	s := &Session{
		ID:           uuid.NewString(),
		Topic:        topic,
		Phase:        Opening,
		Blocking:     blocking,
		HighPriority: highPriority,
	}
	c.sessions[topic] = s
	c.log.Debug("settings %s opening (session %s)", topic, s.ID)
	c.changed()

	c.sched.After(c.delay, func() {
		c.broadcast(HookSettingsShown)
		c.broadcast(HookName(topic, PhaseShown))
		if s.Phase == Opening {
			s.Phase = Open
			c.changed()
		}
	})

	c.present(SettingsName(topic), blocking, highPriority, func(out Outcome) {
		c.log.Debug("settings %s %s", topic, out)
		if s.Phase != Closing {
			s.Phase = Closing
			c.changed()
		}

		hidden := func() {
			c.broadcast(HookSettingsHidden)
			c.broadcast(HookName(topic, PhaseHidden))
			s.Phase = Closed
			delete(c.sessions, topic)
			c.changed()
		}

		if out != Accepted {
			c.sched.After(c.delay, hidden)
			return
		}
		c.sched.After(c.delay, func() {
			if c.saver != nil {
				c.saver.SaveSettings()
			}
			c.sched.After(c.delay, hidden)
		})
	})
	return nil
}

// Open presents a plain flyout such as "login" or "locallock". done, if
// non-nil, receives the outcome.
func (c *Coordinator) Open(name string, blocking, highPriority bool, done func(Outcome)) error {
	if _, ok := c.presented[name]; ok {
		return errors.WrapWithCode(ErrAlreadyOpen, errors.ErrFlyout,
			"The "+name+" flyout is already open", "")
	}
	c.present(name, blocking, highPriority, func(out Outcome) {
		c.log.Debug("flyout %s %s", name, out)
		if done != nil {
			done(out)
		}
	})
	return nil
}

// Close dismisses a presented flyout. Closing one that isn't open is a no-op.
func (c *Coordinator) Close(name string) {
	resolve, ok := c.presented[name]
	if !ok {
		return
	}
	c.presenter.Dismiss(name)
	resolve(Dismissed)
}

// IsOpen reports whether the named flyout is presented.
func (c *Coordinator) IsOpen(name string) bool {
	_, ok := c.presented[name]
	return ok
}

// OpenCount returns how many flyouts are presented.
func (c *Coordinator) OpenCount() int {
	return len(c.presented)
}

// OpenNames returns the presented flyout names, sorted.
func (c *Coordinator) OpenNames() []string {
	names := make([]string, 0, len(c.presented))
	for name := range c.presented {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Confirm shows a confirmation and runs onAccept if the user accepts.
func (c *Coordinator) Confirm(d Dialog, onAccept func()) {
	c.confirmations++
	c.changed()
	c.presenter.Confirm(d, once(func(out Outcome) {
		c.confirmations--
		c.log.Debug("confirmation %q %s", d.Title, out)
		c.changed()
		if out == Accepted && onAccept != nil {
			onAccept()
		}
	}))
}

// ConfirmationOpen reports whether a confirmation is showing.
func (c *Coordinator) ConfirmationOpen() bool {
	return c.confirmations > 0
}

// Session returns the settings session for topic, if one exists.
func (c *Coordinator) Session(topic string) (Session, bool) {
	s, ok := c.sessions[topic]
	if !ok {
		return Session{}, false
	}
	return *s, true
}

// Sessions returns every live settings session, sorted by topic.
func (c *Coordinator) Sessions() []Session {
	out := make([]Session, 0, len(c.sessions))
	for _, s := range c.sessions {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Topic < out[j].Topic })
	return out
}

// BroadcastShutdownOrDisconnect tells dependents a shutdown or disconnect
// flyout is taking over.
func (c *Coordinator) BroadcastShutdownOrDisconnect() {
	c.broadcast(HookShutdownOrDisconnect)
}

// OnChange registers fn to run after any flyout, session or confirmation change.
func (c *Coordinator) OnChange(fn func()) {
	c.observers = append(c.observers, fn)
}

func (c *Coordinator) present(name string, blocking, highPriority bool, done func(Outcome)) {
	resolve := once(func(out Outcome) {
		delete(c.presented, name)
		c.changed()
		done(out)
	})
	c.presented[name] = resolve
	c.changed()
	c.presenter.Present(Request{Name: name, Blocking: blocking, HighPriority: highPriority}, resolve)
}

func (c *Coordinator) broadcast(name string) {
	n := 0
	for _, dep := range c.deps {
		if fn := lookup(dep, name); fn != nil {
			fn()
			n++
		}
	}
	c.log.Debug("hook %s -> %d dependents", name, n)
}

func (c *Coordinator) changed() {
	for _, fn := range c.observers {
		fn()
	}
}

// once guards a done callback against presenters that resolve twice.
func once(fn func(Outcome)) func(Outcome) {
	called := false
	return func(out Outcome) {
		if called {
			return
		}
		called = true
		fn(out)
	}
}
