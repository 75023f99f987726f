// Package styles provides colour themes and styling for terminal output.
package styles

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette for terminal output.
type Theme struct {
	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Secondary is the secondary accent colour.
	Secondary lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	// Success marks filed documents.
	Success lipgloss.Color

	// Warning marks duplicates.
	Warning lipgloss.Color

	// Error marks files sent to manual review.
	Error lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:   lipgloss.Color("#7C3AED"), // Purple
		Secondary: lipgloss.Color("#06B6D4"), // Cyan
		Muted:     lipgloss.Color("#6C7086"), // Medium gray
		Success:   lipgloss.Color("#A6E3A1"), // Green
		Warning:   lipgloss.Color("#F9E2AF"), // Yellow
		Error:     lipgloss.Color("#F38BA8"), // Red
	}
}

// Styles contains pre-configured lipgloss styles bound to one output.
type Styles struct {
	theme *Theme

	// Title style for headers.
	Title lipgloss.Style

	// Subtitle style for secondary headers.
	Subtitle lipgloss.Style

	// Muted style for less important text.
	Muted lipgloss.Style

	// Error style for failures.
	Error lipgloss.Style

	// Success style for filed documents.
	Success lipgloss.Style

	// Warning style for duplicates.
	Warning lipgloss.Style
}

// NewStyles creates styles for output written to w. Colours are dropped
// automatically when w is not a terminal.
func NewStyles(w io.Writer, theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	r := lipgloss.NewRenderer(w)

	return &Styles{
		theme: theme,

		Title: r.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Subtitle: r.NewStyle().
			Bold(true).
			Foreground(theme.Secondary),

		Muted: r.NewStyle().
			Foreground(theme.Muted),

		Error: r.NewStyle().
			Foreground(theme.Error),

		Success: r.NewStyle().
			Foreground(theme.Success),

		Warning: r.NewStyle().
			Foreground(theme.Warning),
	}
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}
