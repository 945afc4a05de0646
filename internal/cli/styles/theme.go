// Package styles provides lipgloss-based rendering for lexgrid terminal output.
package styles

import "github.com/charmbracelet/lipgloss"

// Palette holds the base colors a Theme is derived from.
type Palette struct {
	Text   string
	Muted  string
	Accent string
	Border string
	Error  string
}

// DefaultDarkPalette returns hardcoded dark theme colors.
func DefaultDarkPalette() Palette {
	return Palette{
		Text:   "#ffffff",
		Muted:  "#909090",
		Accent: "#4ade80",
		Border: "#333333",
		Error:  "#ef4444",
	}
}

// Theme holds lipgloss colors and styles.
type Theme struct {
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Accent lipgloss.Color
	Border lipgloss.Color
	Error  lipgloss.Color

	Title      lipgloss.Style
	Subtle     lipgloss.Style
	ErrorStyle lipgloss.Style

	Pane       lipgloss.Style
	ActivePane lipgloss.Style
	ActiveTab  lipgloss.Style
	Tab        lipgloss.Style
	PreviewTab lipgloss.Style

	StatusBar lipgloss.Style
	HelpKey   lipgloss.Style
	HelpDesc  lipgloss.Style
}

// NewTheme creates the default theme.
func NewTheme() *Theme {
	return NewThemeFromPalette(DefaultDarkPalette())
}

// NewThemeFromPalette creates a Theme from a Palette.
func NewThemeFromPalette(p Palette) *Theme {
	t := &Theme{
		Text:   lipgloss.Color(p.Text),
		Muted:  lipgloss.Color(p.Muted),
		Accent: lipgloss.Color(p.Accent),
		Border: lipgloss.Color(p.Border),
		Error:  lipgloss.Color(p.Error),
	}
	t.buildStyles()
	return t
}

func (t *Theme) buildStyles() {
	t.Title = lipgloss.NewStyle().Foreground(t.Text).Bold(true)
	t.Subtle = lipgloss.NewStyle().Foreground(t.Muted)
	t.ErrorStyle = lipgloss.NewStyle().Foreground(t.Error).Bold(true)

	t.Pane = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border)
	t.ActivePane = t.Pane.
		BorderForeground(t.Accent)

	t.ActiveTab = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	t.Tab = lipgloss.NewStyle().Foreground(t.Text)
	t.PreviewTab = lipgloss.NewStyle().Foreground(t.Muted).Italic(true)

	t.StatusBar = lipgloss.NewStyle().Foreground(t.Muted)
	t.HelpKey = lipgloss.NewStyle().Foreground(t.Accent)
	t.HelpDesc = lipgloss.NewStyle().Foreground(t.Muted)
}
