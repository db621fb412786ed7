// Package testing provides test doubles for the flyout package.
package testing

import (
	"github.com/rileyhilliard/lui/internal/flyout"
)

// FakePresenter records what the coordinator asks it to show and lets the
// test resolve each request by hand. Like a real presenter it must only be
// used from the scheduler's context.
type FakePresenter struct {
	// FailNames resolves Present for these names with Failed immediately.
	FailNames map[string]bool

	Requests  []flyout.Request
	Dialogs   []flyout.Dialog
	Dismissed []string

	pending  map[string]func(flyout.Outcome)
	confirms []func(flyout.Outcome)
}

var _ flyout.Presenter = (*FakePresenter)(nil)

// NewFakePresenter creates a presenter that leaves every request pending.
func NewFakePresenter() *FakePresenter {
	return &FakePresenter{
		FailNames: make(map[string]bool),
		pending:   make(map[string]func(flyout.Outcome)),
	}
}

// Present records the request.
func (p *FakePresenter) Present(req flyout.Request, done func(flyout.Outcome)) {
	p.Requests = append(p.Requests, req)
	if p.FailNames[req.Name] {
		done(flyout.Failed)
		return
	}
	p.pending[req.Name] = done
}

// Dismiss resolves the named request with Dismissed.
func (p *FakePresenter) Dismiss(name string) {
	p.Dismissed = append(p.Dismissed, name)
	if done, ok := p.pending[name]; ok {
		delete(p.pending, name)
		done(flyout.Dismissed)
	}
}

// Confirm records the dialog.
func (p *FakePresenter) Confirm(d flyout.Dialog, done func(flyout.Outcome)) {
	p.Dialogs = append(p.Dialogs, d)
	p.confirms = append(p.confirms, done)
}

// Resolve finishes the pending request for name. It reports whether one existed.
func (p *FakePresenter) Resolve(name string, out flyout.Outcome) bool {
	done, ok := p.pending[name]
	if !ok {
		return false
	}
	delete(p.pending, name)
	done(out)
	return true
}

// ResolveConfirm finishes the oldest pending confirmation.
func (p *FakePresenter) ResolveConfirm(out flyout.Outcome) bool {
	if len(p.confirms) == 0 {
		return false
	}
	done := p.confirms[0]
	p.confirms = p.confirms[1:]
	done(out)
	return true
}

// IsPending reports whether a request for name awaits resolution.
func (p *FakePresenter) IsPending(name string) bool {
	_, ok := p.pending[name]
	return ok
}

// PendingConfirms returns how many confirmations await resolution.
func (p *FakePresenter) PendingConfirms() int {
	return len(p.confirms)
}

// Requested reports whether name was ever presented.
func (p *FakePresenter) Requested(name string) bool {
	for _, r := range p.Requests {
		if r.Name == name {
			return true
		}
	}
	return false
}

// LastDialog returns the most recent confirmation dialog.
func (p *FakePresenter) LastDialog() (flyout.Dialog, bool) {
	if len(p.Dialogs) == 0 {
		return flyout.Dialog{}, false
	}
	return p.Dialogs[len(p.Dialogs)-1], true
}
