package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	flashStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	userBubbleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	botBubbleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("83"))

	pendingBubbleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("244")).
				Italic(true)

	statusStyles = map[string]lipgloss.Style{
		"open":        lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		"in_progress": lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		"resolved":    lipgloss.NewStyle().Foreground(lipgloss.Color("83")),
		"closed":      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
)

func statusBadge(status string) string {
	if s, ok := statusStyles[status]; ok {
		return s.Render("[" + status + "]")
	}
	return "[" + status + "]"
}
