package theme

import "github.com/charmbracelet/lipgloss"

// Banner returns the socialdesk banner.
func Banner() string {
	art := lipgloss.NewStyle().Foreground(PrimaryColor).Render(
		"  ┌─┐┌─┐┌─┐┬┌─┐┬  ┌┬┐┌─┐┌─┐┬┌─\n" +
			"  └─┐│ ││  │├─┤│   ││├┤ └─┐├┴┐\n" +
			"  └─┘└─┘└─┘┴┴ ┴┴─┘─┴┘└─┘└─┘┴ ┴")
	tag := Accent.Render("  schedule · respond · announce")
	return art + "\n" + tag + "\n"
}

