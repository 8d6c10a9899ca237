package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Theme represents a color theme for the TUI
type Theme struct {
	Name string

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Accent    lipgloss.AdaptiveColor

	Success lipgloss.AdaptiveColor
	Warning lipgloss.AdaptiveColor
	Error   lipgloss.AdaptiveColor

	Border     lipgloss.AdaptiveColor
	Foreground lipgloss.AdaptiveColor
	Muted      lipgloss.AdaptiveColor
	Paper      lipgloss.AdaptiveColor // guest book notes
	Selected   lipgloss.AdaptiveColor
}

func buildTheme(name string, primary, secondary, accent, success, warning, errorColor, border, foreground, muted, paper, selected [2]string) Theme {
	c := func(p [2]string) lipgloss.AdaptiveColor { return lipgloss.AdaptiveColor{Light: p[0], Dark: p[1]} }
	return Theme{
		Name:       name,
		Primary:    c(primary),
		Secondary:  c(secondary),
		Accent:     c(accent),
		Success:    c(success),
		Warning:    c(warning),
		Error:      c(errorColor),
		Border:     c(border),
		Foreground: c(foreground),
		Muted:      c(muted),
		Paper:      c(paper),
		Selected:   c(selected),
	}
}

// Available themes
var (
	// sage and gold, the colors of the invitation
	DefaultTheme = buildTheme("default",
		[2]string{"#4A5D43", "#A3B899"}, [2]string{"#7A6A53", "#C9B99A"}, [2]string{"#B08D57", "#E0C187"},
		[2]string{"#2F855A", "#68D391"}, [2]string{"#C05621", "#F6AD55"}, [2]string{"#C53030", "#FC8181"},
		[2]string{"#C9C2B2", "#4A4A42"}, [2]string{"#2D2A26", "#F5F1E8"}, [2]string{"#8A8275", "#9E978A"},
		[2]string{"#FBF7EE", "#33302A"}, [2]string{"#E6EDE1", "#3B4A36"})

	HighContrastTheme = buildTheme("high-contrast",
		[2]string{"#000000", "#FFFFFF"}, [2]string{"#444444", "#DDDDDD"}, [2]string{"#000080", "#8080FF"},
		[2]string{"#006600", "#00FF00"}, [2]string{"#CC6600", "#FFAA00"}, [2]string{"#CC0000", "#FF4444"},
		[2]string{"#000000", "#FFFFFF"}, [2]string{"#000000", "#FFFFFF"}, [2]string{"#444444", "#BBBBBB"},
		[2]string{"#FFFFFF", "#000000"}, [2]string{"#FFFF00", "#444444"})

	MinimalTheme = buildTheme("minimal",
		[2]string{"#2D3748", "#E2E8F0"}, [2]string{"#718096", "#A0AEC0"}, [2]string{"#4A5568", "#CBD5E0"},
		[2]string{"#2F855A", "#68D391"}, [2]string{"#C05621", "#F6AD55"}, [2]string{"#C53030", "#FC8181"},
		[2]string{"#E2E8F0", "#2D3748"}, [2]string{"#2D3748", "#F7FAFC"}, [2]string{"#A0AEC0", "#718096"},
		[2]string{"#FFFFFF", "#1A202C"}, [2]string{"#EDF2F7", "#2D3748"})
)

var currentTheme = DefaultTheme

// GetTheme returns the current active theme
func GetTheme() Theme {
	return currentTheme
}

// SetTheme sets the active theme
func SetTheme(theme *Theme) {
	currentTheme = *theme
}

// SetThemeByName sets the theme by name
func SetThemeByName(name string) bool {
	switch name {
	case "default", "":
		SetTheme(&DefaultTheme)
	case "high-contrast":
		SetTheme(&HighContrastTheme)
	case "minimal":
		SetTheme(&MinimalTheme)
	default:
		return false
	}
	return true
}

// IsColorDisabled checks if colors should be disabled
func IsColorDisabled() bool {
	return os.Getenv("NO_COLOR") != ""
}

// GetAvailableThemes returns list of available theme names
func GetAvailableThemes() []string {
	return []string{"default", "high-contrast", "minimal"}
}

// Styles contains all the styled components
type Styles struct {
	Theme Theme

	Title     lipgloss.Style
	Header    lipgloss.Style
	Subheader lipgloss.Style
	Body      lipgloss.Style
	Muted     lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	Button        lipgloss.Style
	ButtonPrimary lipgloss.Style
	Link          lipgloss.Style
	Toggle        lipgloss.Style
	ToggleOn      lipgloss.Style

	Input        lipgloss.Style
	InputFocused lipgloss.Style
	Label        lipgloss.Style

	Box   lipgloss.Style
	Note  lipgloss.Style
	Modal lipgloss.Style
}

// GetStyles builds the styles of the current theme
func GetStyles() *Styles {
	theme := GetTheme()

	button := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Foreground(theme.Foreground).
		Padding(0, 2)

	input := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	return &Styles{
		Theme: theme,

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Header: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Subheader: lipgloss.NewStyle().
			Foreground(theme.Secondary).
			Bold(true),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Success: lipgloss.NewStyle().
			Foreground(theme.Success).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error).
			Bold(true),

		Button: button,

		ButtonPrimary: button.
			BorderForeground(theme.Accent).
			Foreground(theme.Accent).
			Bold(true),

		Link: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Underline(true),

		Toggle: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1),

		ToggleOn: lipgloss.NewStyle().
			Background(theme.Selected).
			Foreground(theme.Primary).
			Bold(true).
			Padding(0, 1),

		Input: input,

		InputFocused: input.
			BorderForeground(theme.Accent),

		Label: lipgloss.NewStyle().
			Foreground(theme.Secondary),

		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(1, 2),

		Note: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(theme.Border).
			Background(theme.Paper).
			Foreground(theme.Foreground).
			Padding(0, 1),

		Modal: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(theme.Accent).
			Padding(1, 2),
	}
}
