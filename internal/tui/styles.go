package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("236"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))
)

func renderTitleBar(width int) string {
	return titleStyle.Width(width).Render("wintrans")
}

// renderSnapshot styles the engine text line by line. The text itself is
// the contract; styling only keys off its markers.
func renderSnapshot(text string, width int) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	return renderRows(lines, 0, width)
}

// splitSnapshot separates the opacity and help-hint lines from the rows
// below them.
func splitSnapshot(text string) (header, rows []string) {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) <= headerLines {
		return lines, nil
	}
	return lines[:headerLines], lines[headerLines:]
}

// renderRows styles lines whose first entry sits at line index first of
// the snapshot.
func renderRows(lines []string, first, width int) string {
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		out = append(out, styleLine(first+i, line).MaxWidth(width).Render(line))
	}
	return strings.Join(out, "\n")
}

func styleLine(i int, line string) lipgloss.Style {
	switch {
	case i == 0:
		return headerStyle
	case i == 1:
		return dimStyle
	case strings.HasSuffix(line, " <"):
		return cursorStyle
	case strings.HasPrefix(line, "> "):
		return selectedStyle
	default:
		return lipgloss.NewStyle()
	}
}

// renderHelpBar renders the bottom key legend, or the last key error.
func renderHelpBar(lastErr string, width int) string {
	if lastErr != "" {
		return errorStyle.Width(width).Padding(0, 1).Render(lastErr)
	}
	help := "w/s: move  space: select  +/-: opacity  F1: refresh  enter: help  q: quit"
	return dimStyle.Width(width).Padding(0, 1).Render(help)
}
