package ui

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/lui/internal/loop"
)

// drainMsg tells the model to run queued callbacks.
type drainMsg struct{}

// ProgramScheduler is a loop.Scheduler whose context is the bubbletea update
// loop. Callbacks queue up and run, in order, when the model handles the
// drainMsg the scheduler sends to the program.
type ProgramScheduler struct {
	ctx context.Context

	mu     sync.Mutex
	send   func(tea.Msg)
	queue  []func()
	kicked bool
}

var _ loop.Scheduler = (*ProgramScheduler)(nil)

// NewProgramScheduler creates a scheduler whose Go work receives ctx.
// Nothing runs until Bind.
func NewProgramScheduler(ctx context.Context) *ProgramScheduler {
	return &ProgramScheduler{ctx: ctx}
}

// Bind connects the scheduler to a program, usually tea.Program.Send.
func (s *ProgramScheduler) Bind(send func(tea.Msg)) {
	s.mu.Lock()
	s.send = send
	kick := len(s.queue) > 0 && !s.kicked
	if kick {
		s.kicked = true
	}
	s.mu.Unlock()
	if kick {
		go send(drainMsg{})
	}
}

// Post queues fn. The program is woken from a separate goroutine because
// Program.Send blocks until the update loop reads it, and Post is usually
// called from inside that loop.
func (s *ProgramScheduler) Post(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.queue = append(s.queue, fn)
	send := s.send
	kick := send != nil && !s.kicked
	if kick {
		s.kicked = true
	}
	s.mu.Unlock()
	if kick {
		go send(drainMsg{})
	}
}

// After posts fn once d has elapsed.
func (s *ProgramScheduler) After(d time.Duration, fn func()) loop.Timer {
	t := &programTimer{}
	t.timer = time.AfterFunc(d, func() {
		s.Post(func() {
			if t.stopped.CompareAndSwap(false, true) {
				fn()
			}
		})
	})
	return t
}

// Go runs work on its own goroutine and posts done with the result.
func (s *ProgramScheduler) Go(work func(ctx context.Context) error, done func(error)) {
	go func() {
		err := work(s.ctx)
		if done != nil {
			s.Post(func() { done(err) })
		}
	}()
}

// Drain runs queued callbacks until the queue is empty. It must only be
// called from the update loop.
func (s *ProgramScheduler) Drain() {
	for {
		s.mu.Lock()
		batch := s.queue
		s.queue = nil
		if len(batch) == 0 {
			s.kicked = false
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		for _, fn := range batch {
			fn()
		}
	}
}

type programTimer struct {
	timer   *time.Timer
	stopped atomic.Bool
}

func (t *programTimer) Stop() bool {
	if !t.stopped.CompareAndSwap(false, true) {
		return false
	}
	t.timer.Stop()
	return true
}
