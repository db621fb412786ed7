package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Row statuses for RenderStatusTable.
const (
	StatusOK   = "ok"
	StatusWarn = "warn"
	StatusFail = "fail"
)

// StatusRow is one line of `lui status`.
type StatusRow struct {
	Status string // StatusOK, StatusWarn or StatusFail
	Item   string // e.g. "Local lock"
	Value  string // e.g. "enabled, code set"
	Hint   string // shown under failing rows
}

// StatusItemWidth is the width of the item column.
const StatusItemWidth = 16

// RenderStatusTable renders printer status rows with a status symbol,
// aligned item names and muted hints under anything not OK.
func RenderStatusTable(rows []StatusRow) string {
	if len(rows) == 0 {
		return "Nothing to report\n"
	}

	var b strings.Builder
	for _, row := range rows {
		b.WriteString("  ")
		b.WriteString(statusIcon(row.Status))
		b.WriteString(" ")
		b.WriteString(padRight(row.Item, StatusItemWidth))
		b.WriteString(row.Value)
		b.WriteString("\n")
		if row.Hint != "" && row.Status != StatusOK {
			b.WriteString("    ")
			b.WriteString(MutedStyle().Render(row.Hint))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func statusIcon(status string) string {
	switch status {
	case StatusOK:
		return SuccessStyle().Render(SymbolComplete)
	case StatusWarn:
		return WarningStyle().Render(SymbolComplete)
	case StatusFail:
		return ErrorStyle().Render(SymbolFail)
	default:
		return MutedStyle().Render(SymbolPending)
	}
}

// padRight pads s to width visible cells, ignoring ANSI codes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s + " "
	}
	return s + strings.Repeat(" ", width-visible)
}
