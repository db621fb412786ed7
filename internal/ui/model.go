package ui

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/lui/internal/flyout"
	"github.com/rileyhilliard/lui/internal/loop"
	"github.com/rileyhilliard/lui/internal/navigation"
	"github.com/rileyhilliard/lui/internal/push"
)

// PINLength caps the lock code input.
const PINLength = 8

// startupMsg runs the navigation startup sequence from Init.
type startupMsg struct{}

// Model is the panel's bubbletea model.
type Model struct {
	app    *app
	keys   KeyMap
	help   help.Model
	pin    textinput.Model
	spin   spinner.Model
	header HeaderInfo

	// confirm renders the oldest pending confirmation; answer is its value.
	confirm *huh.Form
	answer  *bool

	showHelp bool
	width    int
	height   int
	quitting bool
}

// NewModel builds the panel on top of sched. Use a ProgramScheduler bound to
// the running program, or loop.Manual in tests.
func NewModel(sched loop.Scheduler, opts Options) Model {
	pin := textinput.New()
	pin.Placeholder = "lock code"
	pin.EchoMode = textinput.EchoPassword
	pin.EchoCharacter = '•'
	pin.CharLimit = PINLength
	pin.Prompt = SymbolLocked + " "

	sp := spinner.New()
	sp.Spinner = SpinnerFrames
	sp.Style = lipgloss.NewStyle().Foreground(ColorSecondary)

	return Model{
		app:    newApp(sched, opts),
		keys:   DefaultKeyMap(),
		help:   help.New(),
		pin:    pin,
		spin:   sp,
		header: opts.Header,
	}
}

// Init starts the spinner and the startup sequence.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spin.Tick,
		func() tea.Msg { return startupMsg{} },
	)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case startupMsg:
		m.app.nav.Startup()

	case drainMsg:
		if d, ok := m.app.sched.(interface{ Drain() }); ok {
			d.Drain()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		_, cmd := m.HandleKeyMsg(msg)
		cmds = append(cmds, cmd)

	default:
		if m.confirm != nil {
			cmds = append(cmds, m.updateConfirm(msg))
		} else if m.lockFocused() {
			var cmd tea.Cmd
			m.pin, cmd = m.pin.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	cmds = append(cmds, m.sync())
	return m, tea.Batch(cmds...)
}

// HandleKeyMsg processes a key press. It reports whether the key did
// anything. Confirmations take keys first, then the focused flyout, then
// the main screen.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return true, tea.Quit
	}

	if m.confirm != nil {
		return true, m.handleConfirmKey(msg)
	}

	if top, ok := m.app.presenter.Top(); ok {
		return m.handleFlyoutKey(top, msg)
	}

	if m.showHelp && key.Matches(msg, m.keys.Dismiss, m.keys.Help) {
		m.showHelp = false
		return true, nil
	}

	nav := m.app.nav
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return true, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.Lock):
		nav.ImmediateLock()
	case key.Matches(msg, m.keys.AutoLock):
		nav.AutoLock(!m.app.lock.State().AutoLock)
	case key.Matches(msg, m.keys.Wireless):
		m.showTopic(nav.ShowWireless())
	case key.Matches(msg, m.keys.Maintenance):
		m.showTopic(nav.ShowMaintenance())
	case key.Matches(msg, m.keys.Logs):
		m.showTopic(nav.ShowLogs())
	case key.Matches(msg, m.keys.Restart):
		nav.RequestServiceRestart(true)
	case key.Matches(msg, m.keys.Reboot):
		nav.RequestSystemReboot(true)
	case key.Matches(msg, m.keys.Shutdown):
		nav.RequestSystemShutdown(true)
	case key.Matches(msg, m.keys.Acknowledge):
		nav.AcknowledgeAll()
	default:
		return false, nil
	}
	return true, nil
}

func (m *Model) handleFlyoutKey(top flyout.Request, msg tea.KeyMsg) (bool, tea.Cmd) {
	p := m.app.presenter

	if top.Name == navigation.FlyoutLocalLock {
		if key.Matches(msg, m.keys.Accept) {
			code := strings.TrimSpace(m.pin.Value())
			m.pin.Reset()
			if code != "" {
				m.app.nav.Unlock(code)
			}
			return true, nil
		}
		if !pinKey(msg) {
			return false, nil
		}
		var cmd tea.Cmd
		m.pin, cmd = m.pin.Update(msg)
		return true, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Accept):
		p.Resolve(flyout.Accepted)
	case key.Matches(msg, m.keys.Dismiss):
		if top.Blocking {
			return false, nil
		}
		p.Resolve(flyout.Dismissed)
	case key.Matches(msg, m.keys.Toggle) && isSettings(top.Name):
		m.app.settings.SetAutoShutdown(!m.app.settings.Current().AutoShutdown)
	default:
		return false, nil
	}
	return true, nil
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Yes):
		m.finishConfirm(flyout.Accepted)
		return nil
	case key.Matches(msg, m.keys.No), key.Matches(msg, m.keys.Dismiss):
		m.finishConfirm(flyout.Dismissed)
		return nil
	}
	return m.updateConfirm(msg)
}

// updateConfirm forwards msg to the huh form and resolves the confirmation
// once the form finishes.
func (m *Model) updateConfirm(msg tea.Msg) tea.Cmd {
	fm, cmd := m.confirm.Update(msg)
	if f, ok := fm.(*huh.Form); ok {
		m.confirm = f
	}
	switch m.confirm.State {
	case huh.StateCompleted:
		out := flyout.Dismissed
		if *m.answer {
			out = flyout.Accepted
		}
		m.finishConfirm(out)
	case huh.StateAborted:
		m.finishConfirm(flyout.Dismissed)
	}
	return cmd
}

func (m *Model) finishConfirm(out flyout.Outcome) {
	m.confirm = nil
	m.answer = nil
	m.app.presenter.ResolveConfirmation(out)
}

// sync brings the widgets in line with the controllers after every update.
func (m *Model) sync() tea.Cmd {
	if m.app.screen.takeInterrupted() {
		m.pin.Reset()
	}

	var cmds []tea.Cmd
	if m.confirm == nil {
		if d, ok := m.app.presenter.Confirmation(); ok {
			cmds = append(cmds, m.openConfirm(d))
		}
	}

	if m.lockFocused() {
		if !m.pin.Focused() {
			cmds = append(cmds, m.pin.Focus())
		}
	} else if m.pin.Focused() {
		m.pin.Blur()
		m.pin.Reset()
	}
	return tea.Batch(cmds...)
}

func (m *Model) openConfirm(d flyout.Dialog) tea.Cmd {
	answer := new(bool)
	desc := d.Text
	if d.Question != "" {
		desc += "\n" + d.Question
	}
	m.answer = answer
	m.confirm = huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(d.Title).
			Description(desc).
			Affirmative("Yes").
			Negative("No").
			Value(answer),
	)).WithShowHelp(false).WithTheme(huh.ThemeCharm())
	return m.confirm.Init()
}

func (m Model) lockFocused() bool {
	top, ok := m.app.presenter.Top()
	return ok && top.Name == navigation.FlyoutLocalLock && m.confirm == nil
}

func (m *Model) showTopic(err error) {
	if err != nil {
		m.app.log.Debug("settings topic not opened: %v", err)
	}
}

// PushStatus returns the last known push connection state.
func (m Model) PushStatus() push.Status {
	return m.app.pushStatus
}

// Overlay reports whether the overlay is active.
func (m Model) Overlay() bool {
	return m.app.overlay
}

// pinKey reports whether msg edits the PIN: digits and deletion only.
func pinKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyDelete, tea.KeyLeft, tea.KeyRight:
		return true
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			if !unicode.IsDigit(r) {
				return false
			}
		}
		return len(msg.Runes) > 0
	}
	return false
}

func isSettings(name string) bool {
	return strings.HasSuffix(name, "_settings")
}
