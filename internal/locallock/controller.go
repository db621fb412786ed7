package locallock

import (
	"context"
	"fmt"
	"time"

	"github.com/rileyhilliard/lui/internal/device"
	"github.com/rileyhilliard/lui/internal/logger"
	"github.com/rileyhilliard/lui/internal/loop"
	"github.com/rileyhilliard/lui/internal/notify"
	"github.com/rileyhilliard/lui/internal/push"
)

// Notifier shows transient notifications. *notify.Center implements it.
type Notifier interface {
	Toast(level notify.Level, title, text string) int
}

// Toast titles shown by the controller.
const (
	TitleWrongCode       = "Wrong code"
	TitleTooManyAttempts = "Too many attempts"
	TitleFailure         = "Something went wrong"
)

// Controller drives the local lock. All methods must be called on the
// scheduler's context.
type Controller struct {
	sched loop.Scheduler
	api   device.API
	notes Notifier
	log   logger.Logger
	opts  Options

	state        State
	cooldownLeft time.Duration
	ticker       loop.Timer
	observers    []func(State)
}

// NewController creates an unlocked controller.
func NewController(sched loop.Scheduler, api device.API, notes Notifier, opts Options, log logger.Logger) *Controller {
	opts = opts.withDefaults()
	return &Controller{
		sched: sched,
		api:   api,
		notes: notes,
		log:   logger.OrNoop(log),
		opts:  opts,
		state: State{MaxAttempts: opts.MaxAttempts},
	}
}

// State returns a snapshot of the lock.
func (c *Controller) State() State {
	s := c.state
	s.CooldownRemaining = seconds(c.cooldownLeft)
	return s
}

// Status returns the state machine position.
func (c *Controller) Status() Status {
	return c.State().Status()
}

// IsLocked reports whether the panel is locked, cooldown included.
func (c *Controller) IsLocked() bool {
	return c.state.Locked
}

// OnChange registers fn to receive a snapshot after every change.
func (c *Controller) OnChange(fn func(State)) {
	c.observers = append(c.observers, fn)
}

// ApplyStatus takes the printer's lock status, as fetched at startup. An
// enabled lock locks the panel; a disabled one leaves it as it is.
func (c *Controller) ApplyStatus(st device.LockStatus) {
	if !st.LockEnabled {
		return
	}
	c.state.ExpectedCode = st.LockCode
	if !c.lock() {
		c.changed()
	}
}

// Lock enters the locked state, as when the printer pushes local_lock_locked.
func (c *Controller) Lock() {
	c.lock()
}

// ImmediateLock locks the panel and tells the printer to lock.
func (c *Controller) ImmediateLock() {
	c.lock()
	c.send("immediate lock", c.api.ImmediateLock)
}

// SetAutoLock asks the printer to change the auto-lock setting. The local
// AutoLock flag only changes when the printer confirms with a push.
func (c *Controller) SetAutoLock(enabled bool) {
	c.send("auto-lock", func(ctx context.Context) error {
		return c.api.SetAutoLock(ctx, enabled)
	})
}

// AttemptUnlock checks code against the printer's current lock code. A
// correct code sends the unlock command; the panel unlocks once the printer
// confirms. A wrong code counts towards the cooldown. Errors surface as
// notifications, never as return values.
func (c *Controller) AttemptUnlock(code string) {
	if reason := c.rejectAttempt(); reason != "" {
		c.log.Debug("unlock attempt ignored: %s", reason)
		return
	}

	var st device.LockStatus
	c.sched.Go(func(ctx context.Context) error {
		var err error
		st, err = c.api.LocalLockStatus(ctx)
		return err
	}, func(err error) {
		if err != nil {
			c.log.Warn("fetching lock status failed: %v", err)
			c.notes.Toast(notify.LevelError, TitleFailure, "Couldn't check the lock code. Try again.")
			return
		}
		// The state may have moved while the request was out.
		if reason := c.rejectAttempt(); reason != "" {
			c.log.Debug("unlock attempt dropped: %s", reason)
			return
		}
		c.checkCode(code, st)
	})
}

// rejectAttempt returns why an attempt can't proceed, or "" if it can.
// A cooldown rejection also tells the user.
func (c *Controller) rejectAttempt() string {
	switch {
	case !c.state.Locked:
		return "not locked"
	case c.state.UnlockPending:
		return "unlock already pending"
	case c.cooldownLeft > 0:
		c.notes.Toast(notify.LevelWarning, TitleTooManyAttempts,
			fmt.Sprintf("Try again in %ds.", seconds(c.cooldownLeft)))
		return "cooldown active"
	}
	return ""
}

func (c *Controller) checkCode(code string, st device.LockStatus) {
	if st.LockEnabled {
		c.state.ExpectedCode = st.LockCode
	}
	if c.state.ExpectedCode == "" {
		c.log.Warn("printer returned no lock code")
		c.notes.Toast(notify.LevelError, TitleFailure, "The printer didn't provide a lock code. Try again.")
		return
	}

	if code == c.state.ExpectedCode {
		c.state.FailedAttempts = 0
		c.state.UnlockPending = true
		c.changed()
		c.sched.Go(c.api.Unlock, func(err error) {
			if err == nil {
				return
			}
			c.log.Warn("unlock failed: %v", err)
			if c.state.UnlockPending {
				c.state.UnlockPending = false
				c.changed()
			}
			c.notes.Toast(notify.LevelError, TitleFailure, "Couldn't unlock the printer. Try again.")
		})
		return
	}

	if c.state.FailedAttempts < c.state.MaxAttempts {
		c.state.FailedAttempts++
	}
	if c.state.FailedAttempts >= c.state.MaxAttempts {
		c.notes.Toast(notify.LevelError, TitleWrongCode,
			fmt.Sprintf("The code is not correct. Try again in %ds.", seconds(c.opts.Cooldown)))
		c.startCooldown(c.opts.Cooldown)
		c.send("invalid unlock notify", c.api.NotifyInvalidUnlock)
		return
	}
	c.notes.Toast(notify.LevelError, TitleWrongCode,
		fmt.Sprintf("The code is not correct. %d attempts left.", c.state.AttemptsLeft()))
	c.changed()
}

// OnServerEvent applies a pushed event. Applying the same event twice leaves
// the state as the first application did.
func (c *Controller) OnServerEvent(ev push.Event) {
	if !ev.Ours() {
		return
	}
	switch ev.Type {
	case push.TypeLocalLockLocked:
		c.lock()
	case push.TypeLocalLockUnlocked:
		c.unlocked()
	case push.TypeAutoLocalLockToggle:
		on, err := ev.Toggle()
		if err != nil {
			c.log.Debug("ignoring %s: %v", ev.Type, err)
			return
		}
		if c.state.AutoLock != on {
			c.state.AutoLock = on
			c.changed()
		}
	case push.TypeInvalidUnlockTimer:
		n, err := ev.Timer()
		if err != nil {
			c.log.Debug("ignoring %s: %v", ev.Type, err)
			return
		}
		if n <= 0 {
			c.endCooldown()
			return
		}
		c.state.Locked = true
		c.state.UnlockPending = false
		c.state.FailedAttempts = c.state.MaxAttempts
		c.startCooldown(time.Duration(n) * time.Second)
	case push.TypeInvalidUnlockReset:
		c.endCooldown()
	default:
		c.log.Debug("lock controller ignoring %s", ev.Type)
	}
}

// lock enters Locked and reports whether anything changed.
func (c *Controller) lock() bool {
	if c.state.Locked {
		return false
	}
	c.state.Locked = true
	c.state.UnlockPending = false
	c.changed()
	return true
}

// unlocked resets everything but the settings.
func (c *Controller) unlocked() {
	loop.StopTimer(c.ticker)
	c.ticker = nil

	if !c.state.Locked && c.state.FailedAttempts == 0 && c.cooldownLeft == 0 && !c.state.UnlockPending {
		return
	}
	c.state.Locked = false
	c.state.UnlockPending = false
	c.state.FailedAttempts = 0
	c.cooldownLeft = 0
	c.changed()
}

func (c *Controller) startCooldown(d time.Duration) {
	loop.StopTimer(c.ticker)
	c.cooldownLeft = d
	c.ticker = c.sched.After(c.opts.Tick, c.tick)
	c.changed()
}

func (c *Controller) tick() {
	c.ticker = nil
	if c.cooldownLeft <= 0 {
		return
	}
	c.cooldownLeft -= c.opts.Tick
	if c.cooldownLeft <= 0 {
		c.endCooldown()
		return
	}
	c.ticker = c.sched.After(c.opts.Tick, c.tick)
	c.changed()
}

func (c *Controller) endCooldown() {
	loop.StopTimer(c.ticker)
	c.ticker = nil
	if c.cooldownLeft == 0 && c.state.FailedAttempts == 0 {
		return
	}
	c.cooldownLeft = 0
	c.state.FailedAttempts = 0
	c.changed()
}

// send runs a fire-and-forget device command, reporting failure as a toast.
func (c *Controller) send(what string, cmd func(ctx context.Context) error) {
	c.sched.Go(cmd, func(err error) {
		if err != nil {
			c.log.Warn("%s failed: %v", what, err)
			c.notes.Toast(notify.LevelError, TitleFailure, "The printer didn't accept the "+what+" command.")
		}
	})
}

func (c *Controller) changed() {
	snap := c.State()
	for _, fn := range c.observers {
		fn(snap)
	}
}

func seconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}
