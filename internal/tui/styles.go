package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/athena-uee/uee/internal/version"
)

const (
	AppName = "UEE - Universal Erase Engine"
	Credit  = "made by Athena"
)

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#7D56F4") // Purple
	SecondaryColor = lipgloss.Color("#43BF6D") // Green
	WarningColor   = lipgloss.Color("#FFA500") // Orange
	ErrorColor     = lipgloss.Color("#FF0000") // Red
	LogoColor      = lipgloss.Color("#00D7FF") // Cyan

	TextColor      = lipgloss.Color("#FFFFFF")
	SubtleColor    = lipgloss.Color("#626262")
	BorderColor    = lipgloss.Color("#7D56F4")
	HighlightColor = lipgloss.Color("#43BF6D")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	MenuItemStyle = lipgloss.NewStyle().
			PaddingLeft(4).
			Foreground(TextColor)

	SelectedMenuItemStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Foreground(HighlightColor).
				Bold(true)

	FieldLabelStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Width(12)

	FieldValueStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true)

	LogoStyle = lipgloss.NewStyle().
			Foreground(LogoColor)

	OutputStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	SeparatorStyle = lipgloss.NewStyle().
			Foreground(BorderColor)

	FooterStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)
)

// RenderMenuItem renders a menu row with a selection arrow.
func RenderMenuItem(text string, selected bool) string {
	if selected {
		return SelectedMenuItemStyle.Render("→ " + text)
	}
	return MenuItemStyle.Render(text)
}

// RenderField renders "Label:  value".
func RenderField(label, value string) string {
	return "  " + FieldLabelStyle.Render(label+":") + FieldValueStyle.Render(value)
}

// headerContent is the application name with version, credit on the right.
func headerContent(width int) string {
	left := lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true).
		Render(AppName + " v" + version.Version)
	right := lipgloss.NewStyle().
		Foreground(LogoColor).
		Render(Credit)

	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		return " " + left
	}
	return " " + left + lipgloss.NewStyle().Width(gap).Render("") + right
}
