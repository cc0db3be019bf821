package tasklist

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	humanize "github.com/dustin/go-humanize"
	reflowtruncate "github.com/muesli/reflow/truncate"

	"github.com/nhle/taskmaker/internal/model"
	"github.com/nhle/taskmaker/internal/theme"
)

// TaskItem wraps a model.Task so it can be used in a bubbles/list.
type TaskItem struct {
	Task model.Task
}

// FilterValue returns the string used for list filtering. Filtering is done
// by the view-model, so this only matters to the list's own bookkeeping.
func (i TaskItem) FilterValue() string { return i.Task.Name }

// Title returns the task name for the list.
func (i TaskItem) Title() string { return i.Task.Name }

// Description returns the task description for the list.
func (i TaskItem) Description() string { return i.Task.Description }

// renderState is shared by reference between the Model and its delegate so
// selection changes are visible without rebuilding the list.
type renderState struct {
	selectedID int64
	now        func() time.Time
}

// ItemDelegate implements list.ItemDelegate, drawing each task as a card in
// its own colours.
type ItemDelegate struct {
	state *renderState
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 3 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 1 }

// Update handles per-item messages (unused for now).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single task card.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TaskItem)
	if !ok {
		return
	}
	fmt.Fprint(w, renderCard(ti.Task, d.state.now(), m.Width(),
		ti.Task.ID == d.state.selectedID, index == m.Index()))
}

// renderCard draws the name, description and due lines for task.
func renderCard(task model.Task, now time.Time, width int, selected, focused bool) string {
	past := task.IsPastDeadline(now)
	cardWidth := max(width-4, 10)

	body := theme.TaskStyle(task.TextColour, task.BackColour).Width(cardWidth)

	name := task.Name
	if focused {
		name = "› " + name
	}
	lines := []string{
		body.Bold(true).Render(truncate(name, cardWidth-2)),
		body.Render(truncate(firstLine(task.Description), cardWidth-2)),
		theme.DueStyle(past).PaddingLeft(1).Render(DueLabel(task.DateTime, now)),
	}

	return theme.CardBorder(selected, past).Render(
		lipgloss.JoinVertical(lipgloss.Left, lines...),
	)
}

// DueLabel describes an optional due time relative to now, for example
// "due Mon Jan 2 15:04 (3 days from now)".
func DueLabel(due *time.Time, now time.Time) string {
	if due == nil {
		return "no due time"
	}
	local := due.Local()
	rel := humanize.RelTime(*due, now, "ago", "from now")
	if model.IsPastDeadline(due, now) {
		return fmt.Sprintf("overdue %s (%s)", local.Format("Mon Jan 2 15:04"), rel)
	}
	return fmt.Sprintf("due %s (%s)", local.Format("Mon Jan 2 15:04"), rel)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}

func truncate(s string, width int) string {
	if width <= 1 {
		return s
	}
	return reflowtruncate.StringWithTail(s, uint(width), "…")
}
