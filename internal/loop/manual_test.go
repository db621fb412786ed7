package loop

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManual_PostRunsOnFlush(t *testing.T) {
	m := NewManual()
	var ran []string

	m.Post(func() {
		ran = append(ran, "a")
		m.Post(func() { ran = append(ran, "c") })
	})
	m.Post(func() { ran = append(ran, "b") })

	assert.Empty(t, ran, "nothing runs before Flush")

	m.Flush()
	assert.Equal(t, []string{"a", "b", "c"}, ran)
}

func TestManual_AdvanceFiresDueTimersInOrder(t *testing.T) {
	m := NewManual()
	var fired []string

	m.After(300*time.Millisecond, func() { fired = append(fired, "300-first") })
	m.After(100*time.Millisecond, func() { fired = append(fired, "100") })
	m.After(300*time.Millisecond, func() { fired = append(fired, "300-second") })
	m.After(time.Second, func() { fired = append(fired, "1s") })

	m.Advance(300 * time.Millisecond)
	assert.Equal(t, []string{"100", "300-first", "300-second"}, fired)
	assert.Equal(t, 300*time.Millisecond, m.Now())
	assert.Equal(t, 1, m.PendingTimers())

	m.Advance(700 * time.Millisecond)
	assert.Equal(t, []string{"100", "300-first", "300-second", "1s"}, fired)
	assert.Equal(t, 0, m.PendingTimers())
}

func TestManual_TimerSeesVirtualTime(t *testing.T) {
	m := NewManual()
	var at time.Duration

	m.After(250*time.Millisecond, func() { at = m.Now() })
	m.Advance(time.Second)

	assert.Equal(t, 250*time.Millisecond, at)
	assert.Equal(t, time.Second, m.Now())
}

func TestManual_ChainedTimers(t *testing.T) {
	m := NewManual()
	var ticks []time.Duration

	var tick func()
	tick = func() {
		ticks = append(ticks, m.Now())
		if len(ticks) < 3 {
			m.After(time.Second, tick)
		}
	}
	m.After(time.Second, tick)

	m.Advance(10 * time.Second)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 3 * time.Second}, ticks)
}

func TestManual_Stop(t *testing.T) {
	m := NewManual()
	ran := false

	timer := m.After(time.Second, func() { ran = true })
	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop(), "second stop reports false")

	m.Advance(2 * time.Second)
	assert.False(t, ran)
}

func TestManual_StopAfterFire(t *testing.T) {
	m := NewManual()
	timer := m.After(time.Millisecond, func() {})
	m.Advance(time.Millisecond)

	assert.False(t, timer.Stop())
}

func TestManual_GoQueuesDone(t *testing.T) {
	m := NewManual()
	boom := errors.New("boom")
	var got error
	workRan := false

	m.Go(func(ctx context.Context) error {
		workRan = true
		require.NotNil(t, ctx)
		return boom
	}, func(err error) { got = err })

	assert.True(t, workRan, "work runs on the caller")
	assert.Nil(t, got, "done waits for Flush")

	m.Flush()
	assert.Equal(t, boom, got)
}

func TestManual_AdvanceTo(t *testing.T) {
	m := NewManual()
	m.AdvanceTo(500 * time.Millisecond)
	assert.Equal(t, 500*time.Millisecond, m.Now())

	m.AdvanceTo(100 * time.Millisecond)
	assert.Equal(t, 500*time.Millisecond, m.Now(), "clock never goes backwards")
}

func TestStopTimer_Nil(t *testing.T) {
	assert.NotPanics(t, func() { StopTimer(nil) })
}
