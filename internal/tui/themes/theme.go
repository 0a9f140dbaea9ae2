// Package themes holds the color schemes for the review screen.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Normal     lipgloss.Style
	Bold       lipgloss.Style
	Cursor     lipgloss.Style
	Checked    lipgloss.Style
	Footer     lipgloss.Style
	High       lipgloss.Style
	Medium     lipgloss.Style
	Low        lipgloss.Style
	Primary    lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Foreground lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
}

func build(primary, foreground, muted, border, success, warning, cursorFg lipgloss.Color) Theme {
	return Theme{
		Primary:    primary,
		Foreground: foreground,
		Muted:      muted,
		Border:     border,
		Success:    success,
		Warning:    warning,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary),
		Subtitle: lipgloss.NewStyle().
			Foreground(muted).
			MarginBottom(1),
		Normal: lipgloss.NewStyle().
			Foreground(foreground),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(foreground),
		Cursor: lipgloss.NewStyle().
			Background(primary).
			Foreground(cursorFg).
			Bold(true),
		Checked: lipgloss.NewStyle().
			Foreground(success).
			Bold(true),
		Footer: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
		High:   lipgloss.NewStyle().Foreground(success),
		Medium: lipgloss.NewStyle().Foreground(warning),
		Low:    lipgloss.NewStyle().Foreground(muted),
	}
}

// Default is the default theme.
var Default = build(
	lipgloss.Color("#7c3aed"),
	lipgloss.Color("#fafafa"),
	lipgloss.Color("#737373"),
	lipgloss.Color("#404040"),
	lipgloss.Color("#10b981"),
	lipgloss.Color("#f59e0b"),
	lipgloss.Color("#fafafa"),
)

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = build(
	lipgloss.Color("#cba6f7"),
	lipgloss.Color("#cdd6f4"),
	lipgloss.Color("#6c7086"),
	lipgloss.Color("#45475a"),
	lipgloss.Color("#a6e3a1"),
	lipgloss.Color("#f9e2af"),
	lipgloss.Color("#1e1e2e"),
)

// ByName returns the named theme, falling back to Default.
func ByName(name string) Theme {
	switch name {
	case "catppuccin", "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}
