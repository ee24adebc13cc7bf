package tui

import (
	"github.com/bastiangx/autocomplete/pkg/config"
	"github.com/charmbracelet/lipgloss"
)

// Styles used by the page and the widget.
type Styles struct {
	Title    lipgloss.Style
	Prompt   lipgloss.Style
	Error    lipgloss.Style
	Row      lipgloss.Style
	Selected lipgloss.Style
	Match    lipgloss.Style
	Empty    lipgloss.Style
	Help     lipgloss.Style
}

// NewStyles builds styles from the theme colors.
func NewStyles(theme config.ThemeConfig) Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true),
		Prompt:   lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Border)),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Error)),
		Row:      lipgloss.NewStyle().PaddingLeft(2),
		Selected: lipgloss.NewStyle().PaddingLeft(2).Reverse(true),
		Match:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.Match)),
		Empty:    lipgloss.NewStyle().PaddingLeft(2).Italic(true).Foreground(lipgloss.Color(theme.Muted)),
		Help:     lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Muted)),
	}
}
