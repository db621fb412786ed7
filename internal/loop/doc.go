// Package loop provides the single logical execution context that the lock
// controller, the flyout coordinator and the navigation facade run on.
//
// Nothing in those packages takes a mutex. Instead every piece of work is
// funneled through a Scheduler:
//
//	Post(fn)        run fn on the context, after whatever is already queued
//	After(d, fn)    run fn on the context once d has elapsed
//	Go(work, done)  run work off the context (network I/O), then done on it
//
// Three implementations exist:
//
//	Loop    - a goroutine draining an unbounded queue, for headless commands
//	Manual  - a virtual clock driven by tests with Flush and Advance
//	ui      - the TUI posts callbacks into the bubbletea update loop
//
// The Manual scheduler makes timing properties deterministic: a test can
// call Advance(300*time.Millisecond) and observe exactly the callbacks that
// were due, in the order they were scheduled.
package loop
