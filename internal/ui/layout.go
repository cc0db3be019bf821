package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskmaker/internal/theme"
)

// PreviewMinWidth is the terminal width from which the selected task is
// previewed beside the list.
const PreviewMinWidth = 100

// previewGap separates the list from the preview pane.
const previewGap = 2

// Layout divides the terminal into a one-line header, the task area and a
// one-line status bar.
type Layout struct {
	Width  int
	Height int
}

// NewLayout creates a Layout with the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{Width: width, Height: height}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height left between the header and the status
// bar.
func (l Layout) ContentHeight() int {
	return max(l.Height-2, 0)
}

// ShowPreview reports whether the terminal is wide enough for the preview
// pane.
func (l Layout) ShowPreview() bool {
	return l.Width >= PreviewMinWidth
}

// ListWidth returns the width of the task list: everything on narrow
// terminals, three fifths once the preview is shown.
func (l Layout) ListWidth() int {
	if !l.ShowPreview() {
		return l.ContentWidth()
	}
	return l.ContentWidth() * 3 / 5
}

// PreviewWidth returns the width of the preview pane, zero when it is
// hidden.
func (l Layout) PreviewWidth() int {
	if !l.ShowPreview() {
		return 0
	}
	return l.ContentWidth() - l.ListWidth() - previewGap
}

// Summary describes how many tasks are shown, e.g. `2 of 5 tasks matching "gym"`.
func Summary(shown, total int, query string) string {
	noun := "tasks"
	if total == 1 {
		noun = "task"
	}
	if query == "" {
		return fmt.Sprintf("%d %s", total, noun)
	}
	return fmt.Sprintf("%d of %d %s matching %q", shown, total, noun, query)
}

// RenderHeader renders the top bar: the app name on the left, the task
// count and any active search on the right.
func (l Layout) RenderHeader(shown, total int, query string) string {
	titleRendered := theme.HeaderStyle.Render("Taskmaker")
	summaryRendered := theme.HeaderStyle.
		Align(lipgloss.Right).
		Render(Summary(shown, total, query))

	gap := max(l.Width-lipgloss.Width(titleRendered)-lipgloss.Width(summaryRendered), 0)
	filler := lipgloss.NewStyle().
		Width(gap).
		Background(theme.HeaderStyle.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, titleRendered, filler, summaryRendered)
}

// RenderStatusBar renders the bottom bar. A failed store operation or
// rejected input is drawn as an error.
func (l Layout) RenderStatusBar(text string, isErr bool) string {
	style := theme.StatusBarStyle
	if isErr {
		style = style.Bold(true).Foreground(theme.ColorRed)
	}
	return style.Width(max(l.Width, 0)).MaxHeight(1).Render(text)
}

// RenderTaskArea places the list and, when shown, the preview side by side.
func (l Layout) RenderTaskArea(list, preview string) string {
	if !l.ShowPreview() {
		return list
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(l.ListWidth()).Render(list),
		lipgloss.NewStyle().Width(previewGap).Render(""),
		preview,
	)
}

// RenderWithFrame composes a full terminal view by vertically joining
// the header, content area, and status bar.
func (l Layout) RenderWithFrame(header, content, statusBar string) string {
	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}
