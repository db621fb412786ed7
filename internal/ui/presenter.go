package ui

import (
	"github.com/rileyhilliard/lui/internal/flyout"
)

type shownFlyout struct {
	req  flyout.Request
	done func(flyout.Outcome)
}

type shownConfirm struct {
	dialog flyout.Dialog
	done   func(flyout.Outcome)
}

// Presenter is the panel's flyout.Presenter. It keeps a stack of presented
// flyouts and a queue of confirmations; the model renders the top of each
// and resolves them from key presses. Used only from the update loop.
type Presenter struct {
	flyouts  []shownFlyout
	confirms []shownConfirm
}

var _ flyout.Presenter = (*Presenter)(nil)

// NewPresenter creates an empty presenter.
func NewPresenter() *Presenter {
	return &Presenter{}
}

// Present pushes a flyout onto the stack.
func (p *Presenter) Present(req flyout.Request, done func(flyout.Outcome)) {
	p.flyouts = append(p.flyouts, shownFlyout{req: req, done: done})
}

// Dismiss removes the named flyout and resolves it as dismissed.
func (p *Presenter) Dismiss(name string) {
	for i, f := range p.flyouts {
		if f.req.Name == name {
			p.flyouts = append(p.flyouts[:i], p.flyouts[i+1:]...)
			f.done(flyout.Dismissed)
			return
		}
	}
}

// Confirm queues a confirmation dialog.
func (p *Presenter) Confirm(d flyout.Dialog, done func(flyout.Outcome)) {
	p.confirms = append(p.confirms, shownConfirm{dialog: d, done: done})
}

// Top returns the flyout that has focus: the newest high-priority one, or
// the newest one when none is high priority.
func (p *Presenter) Top() (flyout.Request, bool) {
	i := p.topIndex()
	if i < 0 {
		return flyout.Request{}, false
	}
	return p.flyouts[i].req, true
}

// Resolve finishes the focused flyout with out.
func (p *Presenter) Resolve(out flyout.Outcome) bool {
	i := p.topIndex()
	if i < 0 {
		return false
	}
	f := p.flyouts[i]
	p.flyouts = append(p.flyouts[:i], p.flyouts[i+1:]...)
	f.done(out)
	return true
}

// Confirmation returns the oldest pending confirmation.
func (p *Presenter) Confirmation() (flyout.Dialog, bool) {
	if len(p.confirms) == 0 {
		return flyout.Dialog{}, false
	}
	return p.confirms[0].dialog, true
}

// ResolveConfirmation finishes the oldest pending confirmation with out.
func (p *Presenter) ResolveConfirmation(out flyout.Outcome) bool {
	if len(p.confirms) == 0 {
		return false
	}
	c := p.confirms[0]
	p.confirms = p.confirms[1:]
	c.done(out)
	return true
}

// Presented returns every presented flyout, oldest first.
func (p *Presenter) Presented() []flyout.Request {
	out := make([]flyout.Request, len(p.flyouts))
	for i, f := range p.flyouts {
		out[i] = f.req
	}
	return out
}

func (p *Presenter) topIndex() int {
	for i := len(p.flyouts) - 1; i >= 0; i-- {
		if p.flyouts[i].req.HighPriority {
			return i
		}
	}
	return len(p.flyouts) - 1
}
