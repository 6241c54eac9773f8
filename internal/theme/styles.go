package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"socialdesk/internal/notify"
)

var (
	PrimaryColor = lipgloss.Color("#38BDF8") // Sky
	AccentColor  = lipgloss.Color("#F472B6") // Pink
	SuccessColor = lipgloss.Color("#34D399")
	ErrorColor   = lipgloss.Color("#F87171")
	InfoColor    = lipgloss.Color("#60A5FA")
	WarningColor = lipgloss.Color("#FBBF24")
	MutedColor   = lipgloss.Color("#9CA3AF")
	TextColor    = lipgloss.Color("#F9FAFB")
	BorderColor  = lipgloss.Color("#6B7280")

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor).
		MarginBottom(1)

	Muted   = lipgloss.NewStyle().Foreground(MutedColor)
	Accent  = lipgloss.NewStyle().Foreground(AccentColor)
	Warning = lipgloss.NewStyle().Foreground(WarningColor)
	Bold    = lipgloss.NewStyle().Bold(true)

	TabActive = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextColor).
			Background(PrimaryColor).
			Padding(0, 1)

	TabInactive = lipgloss.NewStyle().
			Foreground(MutedColor).
			Padding(0, 1)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderColor).
		Padding(0, 1)

	Selected = lipgloss.NewStyle().
			Foreground(TextColor).
			Bold(true)

	HelpBar = lipgloss.NewStyle().
		Foreground(MutedColor).
		MarginTop(1)
)

// severityColors maps notification severity to its footer colour.
var severityColors = map[notify.Severity]lipgloss.Color{
	notify.Success: SuccessColor,
	notify.Error:   ErrorColor,
	notify.Info:    InfoColor,
}

// Notification renders n for the footer; nil renders nothing.
func Notification(n *notify.Notification) string {
	if n == nil {
		return ""
	}
	c, ok := severityColors[n.Severity]
	if !ok {
		c = InfoColor
	}
	return lipgloss.NewStyle().Bold(true).Foreground(TextColor).Background(c).Padding(0, 1).Render(n.Message)
}

// Status colours a post or comment status.
func Status(s string) string {
	switch strings.ToLower(s) {
	case "published", "responded":
		return lipgloss.NewStyle().Foreground(SuccessColor).Render(s)
	case "failed", "cancelled", "canceled":
		return lipgloss.NewStyle().Foreground(ErrorColor).Render(s)
	case "scheduled", "pending":
		return lipgloss.NewStyle().Foreground(WarningColor).Render(s)
	}
	return Muted.Render(s)
}
