package loop

import (
	"context"
	"time"
)

// Scheduler serializes callbacks onto one logical execution context.
type Scheduler interface {
	// Post queues fn to run on the context.
	Post(fn func())

	// After runs fn on the context once d has elapsed.
	After(d time.Duration, fn func()) Timer

	// Go runs work outside the context and then queues done(err) on it.
	// done may be nil.
	Go(work func(ctx context.Context) error, done func(error))
}

// Timer is a pending After callback.
type Timer interface {
	// Stop prevents the callback from running. It returns false if the
	// callback already ran or was already stopped.
	Stop() bool
}

// StopTimer stops t if it is non-nil. Handy for fields holding an optional timer.
func StopTimer(t Timer) {
	if t != nil {
		t.Stop()
	}
}
