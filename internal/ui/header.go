package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HeaderInfo contains information to display in the header.
type HeaderInfo struct {
	Version string // e.g. "v0.1.0"
	Printer string // device URL
	Push    string // push connection status, empty to omit
}

// HeaderWidth is the default width of the header divider
const HeaderWidth = 50

// RenderHeader renders the panel's title line, the printer it talks to and
// a divider.
func RenderHeader(info HeaderInfo) string {
	titleStyle := lipgloss.NewStyle().Foreground(ColorNeonPink).Bold(true)
	versionStyle := lipgloss.NewStyle().Foreground(ColorNeonCyan)
	dividerStyle := lipgloss.NewStyle().Foreground(ColorGlassBorder)

	var b strings.Builder
	b.WriteString(titleStyle.Render("lui"))
	if info.Version != "" {
		b.WriteString(" ")
		b.WriteString(versionStyle.Render(info.Version))
	}
	b.WriteString("\n")

	if info.Printer != "" || info.Push != "" {
		parts := make([]string, 0, 2)
		if info.Printer != "" {
			parts = append(parts, info.Printer)
		}
		if info.Push != "" {
			parts = append(parts, "push "+info.Push)
		}
		b.WriteString(MutedStyle().Render(strings.Join(parts, " · ")))
		b.WriteString("\n")
	}

	b.WriteString(dividerStyle.Render(strings.Repeat("━", HeaderWidth)))
	b.WriteString("\n")
	return b.String()
}

// PrintHeader writes the styled header to w.
func PrintHeader(w io.Writer, info HeaderInfo) {
	fmt.Fprint(w, RenderHeader(info))
}
