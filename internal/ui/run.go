package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/lui/internal/errors"
	"github.com/rileyhilliard/lui/internal/push"
)

// Run shows the panel until the user quits or ctx is cancelled. When
// listener is non-nil it is started alongside the program and its events
// are posted onto the update loop.
func Run(ctx context.Context, opts Options, listener *push.Listener, teaOpts ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sched := NewProgramScheduler(ctx)
	m := NewModel(sched, opts)

	teaOpts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, teaOpts...)
	p := tea.NewProgram(m, teaOpts...)
	sched.Bind(p.Send)

	if listener != nil {
		a := m.app
		listener.OnEvent = func(ev push.Event) {
			sched.Post(func() { a.OnPushEvent(ev) })
		}
		listener.OnStatus = func(s push.Status, err error) {
			sched.Post(func() { a.OnPushStatus(s, err) })
		}
		go func() { _ = listener.Run(ctx) }()
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
