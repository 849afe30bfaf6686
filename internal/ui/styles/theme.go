package styles

import (
	"image/color"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
)

// Theme defines the color palette for UI components
type Theme struct {
	Primary color.Color // task names, headers
	Success color.Color // clean worktrees, successful operations
	Error   color.Color // failures, dirty worktrees
	Warning color.Color // unpushed or unmerged work
	Muted   color.Color // paths, secondary text
	Info    color.Color // hints
}

var (
	// DefaultTheme is the color scheme for color-capable terminals
	DefaultTheme = Theme{
		Primary: lipgloss.Color("62"),  // cyan/teal
		Success: lipgloss.Color("82"),  // green
		Error:   lipgloss.Color("196"), // red
		Warning: lipgloss.Color("214"), // orange
		Muted:   lipgloss.Color("240"), // dark gray
		Info:    lipgloss.Color("244"), // gray
	}

	// NoneTheme renders without any colors (uses terminal defaults)
	// Formatting (bold/italic) is preserved
	NoneTheme = Theme{
		Primary: lipgloss.NoColor{},
		Success: lipgloss.NoColor{},
		Error:   lipgloss.NoColor{},
		Warning: lipgloss.NoColor{},
		Muted:   lipgloss.NoColor{},
		Info:    lipgloss.NoColor{},
	}
)

var currentTheme = DefaultTheme

// Current returns the current theme
func Current() Theme {
	return currentTheme
}

// Init selects the theme for the detected color profile of the output.
// Profiles without color support (pipes, NO_COLOR, dumb terminals) get
// NoneTheme. Call this before rendering any output.
func Init(profile colorprofile.Profile) {
	theme := DefaultTheme
	if profile <= colorprofile.ASCII {
		theme = NoneTheme
	}
	currentTheme = theme
	applyTheme(theme)
}

// applyTheme updates all global style variables to use the given theme
func applyTheme(t Theme) {
	Primary = t.Primary
	Success = t.Success
	Error = t.Error
	Warning = t.Warning
	Muted = t.Muted
	Info = t.Info

	PrimaryStyle = lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(t.Success)
	ErrorStyle = lipgloss.NewStyle().Foreground(t.Error)
	WarningStyle = lipgloss.NewStyle().Foreground(t.Warning)
	MutedStyle = lipgloss.NewStyle().Foreground(t.Muted)
	InfoStyle = lipgloss.NewStyle().Foreground(t.Info).Italic(true)
}
