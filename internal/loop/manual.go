package loop

import (
	"context"
	"sort"
	"time"
)

// Manual is a Scheduler driven by an explicit virtual clock. Nothing runs
// until the test calls Flush or Advance. Not safe for concurrent use.
type Manual struct {
	now    time.Duration
	seq    int
	timers []*manualTimer
	posted []func()
}

// NewManual returns a Manual scheduler with its clock at zero.
func NewManual() *Manual {
	return &Manual{}
}

// Now returns the virtual time elapsed since the scheduler was created.
func (m *Manual) Now() time.Duration {
	return m.now
}

// Post queues fn until the next Flush or Advance.
func (m *Manual) Post(fn func()) {
	if fn != nil {
		m.posted = append(m.posted, fn)
	}
}

// After schedules fn at Now()+d. Timers due at the same instant run in the
// order they were scheduled.
func (m *Manual) After(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	m.seq++
	t := &manualTimer{when: m.now + d, seq: m.seq, fn: fn, owner: m}
	m.timers = append(m.timers, t)
	return t
}

// Go runs work immediately on the caller and queues done like Post.
func (m *Manual) Go(work func(ctx context.Context) error, done func(error)) {
	err := work(context.Background())
	if done != nil {
		m.Post(func() { done(err) })
	}
}

// Flush runs posted callbacks, including ones they post, until none remain.
// The clock does not move.
func (m *Manual) Flush() {
	for len(m.posted) > 0 {
		fn := m.posted[0]
		m.posted = m.posted[1:]
		fn()
	}
}

// Advance flushes, then moves the clock forward by d, firing every timer that
// comes due along the way and flushing after each one.
func (m *Manual) Advance(d time.Duration) {
	m.Flush()
	target := m.now + d
	for {
		t := m.nextDue(target)
		if t == nil {
			break
		}
		m.now = t.when
		m.remove(t)
		t.fired = true
		t.fn()
		m.Flush()
	}
	m.now = target
}

// AdvanceTo moves the clock to an absolute virtual time. Moving backwards is a no-op.
func (m *Manual) AdvanceTo(at time.Duration) {
	if at > m.now {
		m.Advance(at - m.now)
	} else {
		m.Flush()
	}
}

// PendingTimers returns how many timers are scheduled and not yet fired or stopped.
func (m *Manual) PendingTimers() int {
	return len(m.timers)
}

func (m *Manual) nextDue(target time.Duration) *manualTimer {
	if len(m.timers) == 0 {
		return nil
	}
	sort.SliceStable(m.timers, func(i, j int) bool {
		if m.timers[i].when != m.timers[j].when {
			return m.timers[i].when < m.timers[j].when
		}
		return m.timers[i].seq < m.timers[j].seq
	})
	if m.timers[0].when > target {
		return nil
	}
	return m.timers[0]
}

func (m *Manual) remove(t *manualTimer) {
	for i, other := range m.timers {
		if other == t {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			return
		}
	}
}

type manualTimer struct {
	when    time.Duration
	seq     int
	fn      func()
	owner   *Manual
	fired   bool
	stopped bool
}

func (t *manualTimer) Stop() bool {
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	t.owner.remove(t)
	return true
}
