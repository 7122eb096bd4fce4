package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/christopherklint97/daybook/internal/prefs"
)

// Styles is the palette used by the week view and the CLI's day output.
type Styles struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Box       lipgloss.Style
	Success   lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
	Dim       lipgloss.Style
	Highlight lipgloss.Style
	Selected  lipgloss.Style
	Today     lipgloss.Style
	Work      lipgloss.Style
	Personal  lipgloss.Style
	Help      lipgloss.Style
}

// color picks a fixed color for light or dark and lets the terminal decide
// for system.
func color(theme prefs.Theme, light, dark string) lipgloss.TerminalColor {
	switch theme {
	case prefs.ThemeLight:
		return lipgloss.Color(light)
	case prefs.ThemeDark:
		return lipgloss.Color(dark)
	}
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func NewStyles(theme prefs.Theme) Styles {
	accent := color(theme, "4", "12")
	muted := color(theme, "242", "8")
	good := color(theme, "2", "10")

	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(muted),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),
		Success: lipgloss.NewStyle().
			Foreground(good).
			Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(color(theme, "1", "9")).
			Bold(true),
		Warning: lipgloss.NewStyle().
			Foreground(color(theme, "3", "11")),
		Dim: lipgloss.NewStyle().
			Foreground(muted),
		Highlight: lipgloss.NewStyle().
			Foreground(color(theme, "6", "14")).
			Bold(true),
		Selected: lipgloss.NewStyle().
			Foreground(good).
			Bold(true).
			Underline(true),
		Today: lipgloss.NewStyle().
			Foreground(accent),
		Work: lipgloss.NewStyle().
			Foreground(color(theme, "5", "13")),
		Personal: lipgloss.NewStyle().
			Foreground(color(theme, "6", "14")),
		Help: lipgloss.NewStyle().
			Foreground(muted).
			MarginTop(1),
	}
}
