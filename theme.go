package main

import "github.com/charmbracelet/lipgloss"

// ---------------------------------------------------------------------------
// Catppuccin Mocha palette, true-color hex values
// https://catppuccin.com/palette
// ---------------------------------------------------------------------------

const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
	colorCrust    lipgloss.Color = "#11111b"
)

const (
	colorAccent  = colorPink
	colorSuccess = colorGreen
	colorError   = colorRed
	colorWarning = colorYellow
)

// ---------------------------------------------------------------------------
// Styles
// ---------------------------------------------------------------------------

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	sectionStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).Padding(0, 1)
	modalStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).
			BorderForeground(colorLavender).Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().Foreground(colorText).
			Background(colorSurface0).Padding(0, 2)
	errorBarStyle = lipgloss.NewStyle().Foreground(colorCrust).
			Background(colorError).Padding(0, 2)
	footerStyle = lipgloss.NewStyle().Foreground(colorText).
			Background(colorSurface1).Padding(0, 2)

	noticeStyle = lipgloss.NewStyle().Foreground(colorCrust).
			Background(colorSuccess).Padding(0, 1)
	hintStyle   = lipgloss.NewStyle().Foreground(colorOverlay1)
	labelStyle  = lipgloss.NewStyle().Foreground(colorSubtext0)
	okStyle     = lipgloss.NewStyle().Foreground(colorSuccess)
	badStyle    = lipgloss.NewStyle().Foreground(colorError)
	memeStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	cursorStyle = lipgloss.NewStyle().Foreground(colorAccent)
	liveStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorTeal)
	torchStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorPeach)
)
