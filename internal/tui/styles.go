package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha palette — true-color hex values
// https://catppuccin.com/palette

const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorMauve    lipgloss.Color = "#cba6f7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
	colorBase     lipgloss.Color = "#1e1e2e"
)

const (
	colorAccent  = colorPink
	colorFocus   = colorLavender
	colorSuccess = colorGreen
	colorError   = colorRed
	colorWarning = colorYellow
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	tabStyle       = lipgloss.NewStyle().Padding(0, 2).Foreground(colorSubtext0)
	tabActiveStyle = lipgloss.NewStyle().Padding(0, 2).Bold(true).
			Foreground(colorAccent).Underline(true)

	sectionTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorMauve)
	cursorStyle       = lipgloss.NewStyle().Bold(true).Foreground(colorFocus)
	dimStyle          = lipgloss.NewStyle().Foreground(colorOverlay1)
	sublabelStyle     = lipgloss.NewStyle().Foreground(colorSubtext0)

	statusStyle      = lipgloss.NewStyle().Foreground(colorTeal)
	statusErrorStyle = lipgloss.NewStyle().Foreground(colorError)

	footerKeyStyle  = lipgloss.NewStyle().Foreground(colorPeach)
	footerDescStyle = lipgloss.NewStyle().Foreground(colorOverlay1)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(1, 2)

	modalTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	fieldLabelStyle    = lipgloss.NewStyle().Foreground(colorText)
	fieldFocusedStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorFocus)
	fieldErrorStyle    = lipgloss.NewStyle().Foreground(colorError)
	fieldRequiredStyle = lipgloss.NewStyle().Foreground(colorYellow)

	searchInputStyle = lipgloss.NewStyle().Foreground(colorText)

	rowSelectedStyle = lipgloss.NewStyle().Background(colorSurface0)
)
