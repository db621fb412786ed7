package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/lui/internal/flyout"
	"github.com/rileyhilliard/lui/internal/locallock"
	"github.com/rileyhilliard/lui/internal/navigation"
	"github.com/rileyhilliard/lui/internal/push"
)

// View renders the panel.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	base := m.renderMain()
	if m.app.overlay {
		base = MutedStyle().Render(base)
	}
	sections = append(sections, base)

	if top, ok := m.app.presenter.Top(); ok {
		sections = append(sections, m.renderFlyout(top))
	}
	if m.confirm != nil {
		sections = append(sections, FlyoutStyle().Render(m.confirm.View()))
	}
	if toasts := m.renderToasts(); toasts != "" {
		sections = append(sections, toasts)
	}

	if m.showHelp {
		sections = append(sections, m.help.FullHelpView(m.keys.FullHelp()))
	} else {
		sections = append(sections, m.help.ShortHelpView(m.keys.ShortHelp()))
	}
	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	info := m.header
	switch m.app.pushStatus {
	case push.Connected:
		info.Push = "connected"
	case push.Connecting:
		info.Push = m.spin.View() + " connecting"
	default:
		info.Push = "disconnected"
	}
	return RenderHeader(info)
}

func (m Model) renderMain() string {
	st := m.app.lock.State()
	settings := m.app.settings.Current()

	var b strings.Builder
	b.WriteString(statusLine("Panel", lockSummary(st)))
	b.WriteString(statusLine("Auto-lock", onOff(st.AutoLock)))
	b.WriteString(statusLine("Auto shutdown", onOff(settings.AutoShutdown)))
	if m.app.screen.settingsOpen > 0 {
		b.WriteString(MutedStyle().Render("  settings open") + "\n")
	}

	for _, it := range m.app.notes.Warnings() {
		b.WriteString(WarningStyle().Render("  "+SymbolWarning+" "+it.Title) + " " + it.Text + "\n")
	}
	for _, it := range m.app.notes.Infos() {
		b.WriteString(lipgloss.NewStyle().Foreground(ColorInfo).Render("  "+SymbolInfo+" "+it.Title) + " " + it.Text + "\n")
	}
	return b.String()
}

func (m Model) renderFlyout(req flyout.Request) string {
	var title, body, hint string

	switch {
	case req.Name == navigation.FlyoutLocalLock:
		title = "Panel locked"
		body = m.renderLockScreen()
		hint = "enter unlock"
	case req.Name == navigation.FlyoutLogin:
		title = "Log in"
		body = "Log in on the printer's web interface to use this panel."
		hint = "enter done · esc close"
	case req.Name == navigation.FlyoutShutdownConfirmation:
		title = "Printer is busy"
		body = "A print is running. Shut the printer down automatically when it finishes?"
		hint = "enter yes · esc no"
	case isSettings(req.Name):
		topic := strings.TrimSuffix(req.Name, "_settings")
		title = flyout.Capitalize(topic) + " settings"
		body = statusLine("Auto shutdown", onOff(m.app.settings.Current().AutoShutdown))
		hint = "space toggle · enter save"
		if !req.Blocking {
			hint += " · esc close"
		}
	default:
		title = req.Name
		hint = "enter ok · esc close"
	}

	content := TitleStyle().Render(title) + "\n\n" + body + "\n\n" + MutedStyle().Render(hint)
	return FlyoutStyle().Render(content)
}

func (m Model) renderLockScreen() string {
	st := m.app.lock.State()
	var status string
	switch {
	case st.UnlockPending:
		status = m.spin.View() + " Unlocking..."
	case st.Status() == locallock.LockedCooldown:
		status = ErrorStyle().Render(fmt.Sprintf("Too many attempts. Try again in %ds.", st.CooldownRemaining))
	case st.FailedAttempts > 0:
		status = WarningStyle().Render(fmt.Sprintf("%d attempts left", st.AttemptsLeft()))
	default:
		status = "Enter the lock code"
	}
	return status + "\n" + m.pin.View()
}

func (m Model) renderToasts() string {
	toasts := m.app.notes.Toasts()
	if len(toasts) == 0 {
		return ""
	}
	lines := make([]string, 0, len(toasts))
	for _, t := range toasts {
		style := lipgloss.NewStyle().Foreground(LevelColor(t.Level))
		line := style.Render(LevelSymbol(t.Level) + " " + t.Title)
		if t.Text != "" {
			line += " " + t.Text
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func lockSummary(st locallock.State) string {
	switch st.Status() {
	case locallock.Unlocked:
		return SuccessStyle().Render("unlocked")
	case locallock.LockedCooldown:
		return ErrorStyle().Render(fmt.Sprintf("locked (%ds cooldown)", st.CooldownRemaining))
	default:
		return WarningStyle().Render("locked")
	}
}

func statusLine(label, value string) string {
	return "  " + padRight(label, StatusItemWidth) + value + "\n"
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
