// Package locallock gates the panel behind a PIN-style local lock.
//
// The Controller owns the lock state. It counts wrong codes, runs the
// cooldown after too many of them, and keeps itself in step with the
// printer through pushed events. The printer is the authority: the expected
// code always comes from it, and the panel only leaves the locked state
// when the printer says so.
package locallock

import (
	"fmt"
	"time"
)

// Status is the controller's state machine position.
type Status int

const (
	Unlocked Status = iota
	Locked
	LockedCooldown
)

func (s Status) String() string {
	switch s {
	case Locked:
		return "locked"
	case LockedCooldown:
		return "locked (cooldown)"
	default:
		return "unlocked"
	}
}

// Transition-timing contracts. Each can be overridden through Options.
const (
	DefaultMaxAttempts = 3
	DefaultCooldown    = 30 * time.Second
	DefaultTick        = time.Second
)

// State is a snapshot of the lock.
type State struct {
	Locked            bool
	FailedAttempts    int
	MaxAttempts       int
	CooldownRemaining int // whole seconds, rounded up; 0 means no cooldown
	ExpectedCode      string

	// UnlockPending is set between a correct code and the printer's
	// confirmation. The panel stays locked meanwhile.
	UnlockPending bool

	// AutoLock is the last auto-lock setting the printer confirmed.
	AutoLock bool
}

// Status derives the state machine position from the snapshot.
func (s State) Status() Status {
	switch {
	case !s.Locked:
		return Unlocked
	case s.CooldownRemaining > 0:
		return LockedCooldown
	default:
		return Locked
	}
}

// AttemptsLeft is how many wrong codes remain before a cooldown.
func (s State) AttemptsLeft() int {
	if n := s.MaxAttempts - s.FailedAttempts; n > 0 {
		return n
	}
	return 0
}

func (s State) String() string {
	switch s.Status() {
	case LockedCooldown:
		return fmt.Sprintf("%s, %ds left", s.Status(), s.CooldownRemaining)
	case Locked:
		return fmt.Sprintf("%s, %d/%d attempts used", s.Status(), s.FailedAttempts, s.MaxAttempts)
	default:
		return s.Status().String()
	}
}

// Options tunes the controller.
type Options struct {
	MaxAttempts int
	Cooldown    time.Duration
	Tick        time.Duration
}

// DefaultOptions returns the standard 3 attempts, 30s cooldown, 1s tick.
func DefaultOptions() Options {
	return Options{
		MaxAttempts: DefaultMaxAttempts,
		Cooldown:    DefaultCooldown,
		Tick:        DefaultTick,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = d.MaxAttempts
	}
	if o.Cooldown <= 0 {
		o.Cooldown = d.Cooldown
	}
	if o.Tick <= 0 {
		o.Tick = d.Tick
	}
	return o
}
