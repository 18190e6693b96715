package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

// header renders a section title underlined to its width.
func header(title string) string {
	return headerStyle.Render(title) + "\n" + strings.Repeat("=", lipgloss.Width(title))
}

func okMark() string   { return okStyle.Render("✓") }
func failMark() string { return failStyle.Render("✗") }
