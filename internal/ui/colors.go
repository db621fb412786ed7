package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/lui/internal/notify"
)

// Neon accents used by the header, spinner and focused widgets.
const (
	ColorNeonPink    lipgloss.Color = "#FF2E97"
	ColorNeonCyan    lipgloss.Color = "#00FFFF"
	ColorNeonPurple  lipgloss.Color = "#B026FF"
	ColorNeonGreen   lipgloss.Color = "#39FF14"
	ColorNeonOrange  lipgloss.Color = "#FF6B1A"
	ColorNeonAmber   lipgloss.Color = "#FFAA00"
	ColorDeepVoid    lipgloss.Color = "#0D0221"
	ColorDarkSurface lipgloss.Color = "#1A1033"
	ColorGlassBorder lipgloss.Color = "#3D2A5C"
)

// Semantic colors for status indication
const (
	ColorSuccess lipgloss.Color = ColorNeonGreen
	ColorError   lipgloss.Color = "#FF0055"
	ColorWarning lipgloss.Color = ColorNeonAmber
	ColorInfo    lipgloss.Color = ColorNeonCyan
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "#E0E0FF"
	ColorSecondary lipgloss.Color = "#7B8CDE"
	ColorMuted     lipgloss.Color = "#6C6783"
)

// GradientColors is the spinner's color cycle.
var GradientColors = []lipgloss.Color{
	ColorNeonPink,
	ColorNeonPurple,
	ColorNeonCyan,
	ColorNeonGreen,
}

// LevelColor maps a notification level to its color.
func LevelColor(l notify.Level) lipgloss.Color {
	switch l {
	case notify.LevelSuccess:
		return ColorSuccess
	case notify.LevelWarning:
		return ColorWarning
	case notify.LevelError:
		return ColorError
	default:
		return ColorInfo
	}
}

// LevelSymbol maps a notification level to its status symbol.
func LevelSymbol(l notify.Level) string {
	switch l {
	case notify.LevelSuccess:
		return SymbolSuccess
	case notify.LevelWarning:
		return SymbolWarning
	case notify.LevelError:
		return SymbolFail
	default:
		return SymbolInfo
	}
}

func SuccessStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(ColorSuccess) }
func ErrorStyle() lipgloss.Style   { return lipgloss.NewStyle().Foreground(ColorError) }
func WarningStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(ColorWarning) }
func MutedStyle() lipgloss.Style   { return lipgloss.NewStyle().Foreground(ColorMuted) }

// TitleStyle is used for flyout and dialog titles.
func TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorNeonPink).Bold(true)
}

// FlyoutStyle frames a flyout or confirmation dialog.
func FlyoutStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorGlassBorder).
		Padding(1, 2)
}
