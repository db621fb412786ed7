package loop

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rileyhilliard/lui/internal/logger"
)

// Loop is a goroutine-backed Scheduler. Callbacks run one at a time on the
// goroutine that called Run.
type Loop struct {
	ctx    context.Context
	cancel context.CancelFunc
	log    logger.Logger

	mu     sync.Mutex
	queue  []func()
	wake   chan struct{}
	closed bool
}

// New creates a Loop bound to ctx. Work started with Go receives ctx, so
// cancelling it also cancels in-flight device requests.
func New(ctx context.Context, log logger.Logger) *Loop {
	ctx, cancel := context.WithCancel(ctx)
	return &Loop{
		ctx:    ctx,
		cancel: cancel,
		log:    logger.OrNoop(log),
		wake:   make(chan struct{}, 1),
	}
}

// Run drains the queue until the context is cancelled or Stop is called.
// It always returns the context's error.
func (l *Loop) Run() error {
	for {
		for {
			fn := l.next()
			if fn == nil {
				break
			}
			l.run(fn)
		}

		select {
		case <-l.ctx.Done():
			l.mu.Lock()
			l.closed = true
			l.queue = nil
			l.mu.Unlock()
			return l.ctx.Err()
		case <-l.wake:
		}
	}
}

// Stop cancels the loop's context. Queued callbacks that haven't run are dropped.
func (l *Loop) Stop() {
	l.cancel()
}

// Context returns the loop's context.
func (l *Loop) Context() context.Context {
	return l.ctx
}

// Post queues fn. Posting to a stopped loop is a no-op.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// After runs fn on the loop once d has elapsed.
func (l *Loop) After(d time.Duration, fn func()) Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		l.Post(func() {
			if t.stopped.CompareAndSwap(false, true) {
				fn()
			}
		})
	})
	return t
}

// Go runs work on its own goroutine and posts done with the result.
func (l *Loop) Go(work func(ctx context.Context) error, done func(error)) {
	go func() {
		err := work(l.ctx)
		if done != nil {
			l.Post(func() { done(err) })
		}
	}()
}

func (l *Loop) next() func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn
}

// run executes fn, keeping a panicking callback from taking the loop down.
func (l *Loop) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("callback panicked: %v", r)
		}
	}()
	fn()
}

type loopTimer struct {
	timer   *time.Timer
	stopped atomic.Bool
}

func (t *loopTimer) Stop() bool {
	if !t.stopped.CompareAndSwap(false, true) {
		return false
	}
	t.timer.Stop()
	return true
}
