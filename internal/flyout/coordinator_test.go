package flyout_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/lui/internal/errors"
	"github.com/rileyhilliard/lui/internal/flyout"
	flyouttesting "github.com/rileyhilliard/lui/internal/flyout/testing"
	"github.com/rileyhilliard/lui/internal/logger"
	"github.com/rileyhilliard/lui/internal/loop"
)

// timeline records hook calls and saves with their virtual time.
type timeline struct {
	sched  *loop.Manual
	events []string
}

func (tl *timeline) mark(what string) {
	tl.events = append(tl.events, fmt.Sprintf("%s@%d", what, tl.sched.Now()/time.Millisecond))
}

func (tl *timeline) count(what string) int {
	n := 0
	for _, e := range tl.events {
		if len(e) > len(what) && e[:len(what)+1] == what+"@" {
			n++
		}
	}
	return n
}

// panel is a dependent with the generic hooks plus wireless-specific ones.
type panel struct {
	tl   *timeline
	name string
}

func (p *panel) OnSettingsShown()  { p.tl.mark(p.name + ".shown") }
func (p *panel) OnSettingsHidden() { p.tl.mark(p.name + ".hidden") }
func (p *panel) OnShutdownOrDisconnectFlyout() {
	p.tl.mark(p.name + ".shutdown")
}
func (p *panel) TopicHooks() map[string]func() {
	return map[string]func(){
		"onWirelessSettingsShown":  func() { p.tl.mark(p.name + ".wirelessShown") },
		"onWirelessSettingsHidden": func() { p.tl.mark(p.name + ".wirelessHidden") },
	}
}

// silent implements no hooks at all.
type silent struct{}

type fixture struct {
	sched     *loop.Manual
	presenter *flyouttesting.FakePresenter
	tl        *timeline
	coord     *flyout.Coordinator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	sched := loop.NewManual()
	tl := &timeline{sched: sched}
	f := &fixture{
		sched:     sched,
		presenter: flyouttesting.NewFakePresenter(),
		tl:        tl,
	}
	deps := []flyout.Dependent{&panel{tl: tl, name: "a"}, silent{}}
	saver := flyout.SaverFunc(func() { tl.mark("save") })
	f.coord = flyout.New(sched, f.presenter, saver, deps, flyout.Options{}, logger.NewBufferLogger())
	return f
}

func TestShow_WirelessAcceptTimeline(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.coord.Show("wireless", true, false))
	require.Len(t, f.presenter.Requests, 1)
	assert.Equal(t, flyout.Request{Name: "wireless_settings", Blocking: true}, f.presenter.Requests[0])

	f.sched.AdvanceTo(300 * time.Millisecond)
	s, ok := f.coord.Session("wireless")
	require.True(t, ok)
	assert.Equal(t, flyout.Open, s.Phase)

	require.True(t, f.presenter.Resolve("wireless_settings", flyout.Accepted))
	f.sched.AdvanceTo(time.Second)

	assert.Equal(t, []string{
		"a.shown@300",
		"a.wirelessShown@300",
		"save@600",
		"a.hidden@900",
		"a.wirelessHidden@900",
	}, f.tl.events)

	_, ok = f.coord.Session("wireless")
	assert.False(t, ok, "session is gone once closed")
	assert.Equal(t, 0, f.sched.PendingTimers())
}

func TestShow_DismissSkipsSave(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.coord.Show("wireless", false, false))
	f.sched.AdvanceTo(500 * time.Millisecond)
	f.presenter.Resolve("wireless_settings", flyout.Dismissed)
	f.sched.AdvanceTo(2 * time.Second)

	assert.Equal(t, []string{
		"a.shown@300",
		"a.wirelessShown@300",
		"a.hidden@800",
		"a.wirelessHidden@800",
	}, f.tl.events)
}

func TestShow_HiddenExactlyOnce(t *testing.T) {
	outcomes := []flyout.Outcome{flyout.Accepted, flyout.Dismissed, flyout.Failed}
	for _, out := range outcomes {
		t.Run(out.String(), func(t *testing.T) {
			f := newFixture(t)

			require.NoError(t, f.coord.Show("maintenance", true, false))
			f.sched.AdvanceTo(100 * time.Millisecond)
			f.presenter.Resolve("maintenance_settings", out)
			// A late close must not cause a second hidden broadcast.
			f.coord.Close("maintenance_settings")
			f.sched.Advance(5 * time.Second)

			assert.Equal(t, 1, f.tl.count("a.hidden"))
			assert.Equal(t, 1, f.tl.count("a.shown"))
			if out == flyout.Accepted {
				assert.Equal(t, 1, f.tl.count("save"))
			} else {
				assert.Zero(t, f.tl.count("save"))
			}
		})
	}
}

func TestShow_PresenterFailsImmediately(t *testing.T) {
	f := newFixture(t)
	f.presenter.FailNames["logs_settings"] = true

	require.NoError(t, f.coord.Show("logs", true, false))
	f.sched.Advance(time.Second)

	assert.Equal(t, []string{"a.shown@300", "a.hidden@300"}, f.tl.events,
		"shown still precedes hidden when both land together")
}

func TestShow_PhaseStaysClosingIfResolvedEarly(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.coord.Show("wireless", false, false))
	f.presenter.Resolve("wireless_settings", flyout.Dismissed)

	s, _ := f.coord.Session("wireless")
	assert.Equal(t, flyout.Closing, s.Phase)

	f.sched.Advance(300 * time.Millisecond)
	_, ok := f.coord.Session("wireless")
	assert.False(t, ok)
}

func TestShow_RejectsSecondShowUntilClosed(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.coord.Show("wireless", false, false))

	err := f.coord.Show("wireless", false, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, flyout.ErrAlreadyOpen))
	assert.True(t, errors.IsCode(err, errors.ErrFlyout))

	assert.NoError(t, f.coord.Show("maintenance", false, false), "other topics are independent")

	// Accepted at 0: save at 300, hidden at 600.
	f.presenter.Resolve("wireless_settings", flyout.Accepted)
	f.sched.Advance(500 * time.Millisecond)
	s, ok := f.coord.Session("wireless")
	require.True(t, ok)
	assert.Equal(t, flyout.Closing, s.Phase)
	assert.ErrorIs(t, f.coord.Show("wireless", false, false), flyout.ErrAlreadyOpen, "still closing")

	f.sched.Advance(100 * time.Millisecond)
	assert.NoError(t, f.coord.Show("wireless", false, false))
}

func TestShow_SessionSnapshot(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.coord.Show("wireless", true, true))

	s, ok := f.coord.Session("wireless")
	require.True(t, ok)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "wireless", s.Topic)
	assert.Equal(t, flyout.Opening, s.Phase)
	assert.True(t, s.Blocking)
	assert.True(t, s.HighPriority)

	s.Phase = flyout.Closed
	again, _ := f.coord.Session("wireless")
	assert.Equal(t, flyout.Opening, again.Phase, "callers only get copies")

	require.NoError(t, f.coord.Show("logs", false, false))
	sessions := f.coord.Sessions()
	require.Len(t, sessions, 2)
	assert.Equal(t, "logs", sessions[0].Topic)
	assert.NotEqual(t, sessions[0].ID, sessions[1].ID)
}

func TestShow_HooksInDependentOrder(t *testing.T) {
	sched := loop.NewManual()
	tl := &timeline{sched: sched}
	deps := []flyout.Dependent{&panel{tl: tl, name: "first"}, silent{}, &panel{tl: tl, name: "second"}}
	c := flyout.New(sched, flyouttesting.NewFakePresenter(), nil, deps,
		flyout.Options{TransitionDelay: 50 * time.Millisecond}, nil)

	require.NoError(t, c.Show("wireless", false, false))
	sched.Advance(50 * time.Millisecond)

	assert.Equal(t, []string{
		"first.shown@50",
		"second.shown@50",
		"first.wirelessShown@50",
		"second.wirelessShown@50",
	}, tl.events)
}

func TestShow_HooksMapOnly(t *testing.T) {
	sched := loop.NewManual()
	var called []string
	deps := []flyout.Dependent{flyout.Hooks{
		"onSettingsShown":      func() { called = append(called, "generic") },
		"onLogsSettingsShown":  func() { called = append(called, "logs") },
		"onLogsSettingsHidden": func() { called = append(called, "logsHidden") },
	}}
	c := flyout.New(sched, flyouttesting.NewFakePresenter(), nil, deps, flyout.Options{}, nil)

	require.NoError(t, c.Show("logs", false, false))
	sched.Advance(300 * time.Millisecond)

	assert.Equal(t, []string{"generic", "logs"}, called)
}

func TestOpenClose(t *testing.T) {
	f := newFixture(t)
	var outcome *flyout.Outcome

	require.NoError(t, f.coord.Open("locallock", true, false, func(o flyout.Outcome) { outcome = &o }))
	assert.True(t, f.coord.IsOpen("locallock"))
	assert.Equal(t, 1, f.coord.OpenCount())

	assert.ErrorIs(t, f.coord.Open("locallock", true, false, nil), flyout.ErrAlreadyOpen)

	f.coord.Close("locallock")
	assert.False(t, f.coord.IsOpen("locallock"))
	require.NotNil(t, outcome)
	assert.Equal(t, flyout.Dismissed, *outcome)
	assert.Equal(t, []string{"locallock"}, f.presenter.Dismissed)

	f.coord.Close("locallock")
	assert.Len(t, f.presenter.Dismissed, 1, "closing a closed flyout is a no-op")
}

func TestOpen_AcceptedByUser(t *testing.T) {
	f := newFixture(t)
	var got []flyout.Outcome
	require.NoError(t, f.coord.Open("shutdown_confirmation", false, true, func(o flyout.Outcome) { got = append(got, o) }))

	f.presenter.Resolve("shutdown_confirmation", flyout.Accepted)
	f.coord.Close("shutdown_confirmation")

	assert.Equal(t, []flyout.Outcome{flyout.Accepted}, got)
	assert.Empty(t, f.coord.OpenNames())
}

func TestConfirm(t *testing.T) {
	f := newFixture(t)
	accepted := 0

	f.coord.Confirm(flyout.Dialog{Title: "Reboot printer"}, func() { accepted++ })
	assert.True(t, f.coord.ConfirmationOpen())

	f.presenter.ResolveConfirm(flyout.Dismissed)
	assert.False(t, f.coord.ConfirmationOpen())
	assert.Zero(t, accepted)

	f.coord.Confirm(flyout.Dialog{Title: "Reboot printer"}, func() { accepted++ })
	f.presenter.ResolveConfirm(flyout.Accepted)
	assert.Equal(t, 1, accepted)
}

func TestOnChange(t *testing.T) {
	f := newFixture(t)
	changes := 0
	f.coord.OnChange(func() { changes++ })

	require.NoError(t, f.coord.Open("login", false, false, nil))
	assert.Positive(t, changes)

	before := changes
	f.coord.Close("login")
	assert.Greater(t, changes, before)
}

func TestBroadcastShutdownOrDisconnect(t *testing.T) {
	f := newFixture(t)
	f.coord.BroadcastShutdownOrDisconnect()
	assert.Equal(t, []string{"a.shutdown@0"}, f.tl.events)
}

func TestHookName(t *testing.T) {
	assert.Equal(t, "onWirelessSettingsShown", flyout.HookName("wireless", flyout.PhaseShown))
	assert.Equal(t, "onMaintenanceSettingsHidden", flyout.HookName("maintenance", flyout.PhaseHidden))
	assert.Equal(t, "", flyout.Capitalize(""))
	assert.Equal(t, "Éclair", flyout.Capitalize("éclair"))
	assert.Equal(t, "wireless_settings", flyout.SettingsName("wireless"))
}
