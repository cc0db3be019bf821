package theme

import (
	"github.com/charmbracelet/lipgloss"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// PastDeadlineColor marks tasks whose due time has passed. It is the same
// on every terminal background.
const PastDeadlineColor = lipgloss.Color("#FF0000")

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// ErrorStyle renders a rejected palette command.
var ErrorStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed)

// DetailPanelStyle wraps the detail view content area.
var DetailPanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// BorderStyle provides a standard rounded border for panels.
var BorderStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// TaskStyle renders a task card in the task's own colours. Empty colours
// fall back to the terminal defaults.
func TaskStyle(text, back string) lipgloss.Style {
	s := lipgloss.NewStyle().Padding(0, 1)
	if text != "" {
		s = s.Foreground(lipgloss.Color(text))
	}
	if back != "" {
		s = s.Background(lipgloss.Color(back))
	}
	return s
}

// CardBorder returns the left border drawn beside a task card. A past
// deadline wins over selection; other cards get a subtle border.
func CardBorder(selected, pastDeadline bool) lipgloss.Style {
	base := lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		PaddingLeft(0)

	switch {
	case pastDeadline:
		return base.BorderForeground(PastDeadlineColor)
	case selected:
		return base.BorderForeground(ColorBlue)
	default:
		return base.BorderForeground(ColorSubtle)
	}
}

// DueStyle colours the due label, red once the deadline has passed.
func DueStyle(pastDeadline bool) lipgloss.Style {
	if pastDeadline {
		return lipgloss.NewStyle().Bold(true).Foreground(PastDeadlineColor)
	}
	return lipgloss.NewStyle().Foreground(ColorGray)
}
