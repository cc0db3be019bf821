package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/reflow/truncate"

	"github.com/nhle/taskmaker/internal/model"
	"github.com/nhle/taskmaker/internal/theme"
)

const cellMaxWidth = 40

// formatDue prints a due time the way it is stored: UTC, millisecond ISO.
func formatDue(due *time.Time) string {
	if due == nil {
		return "-"
	}
	return due.UTC().Format("2006-01-02T15:04:05.000Z")
}

func formatTaskTable(tasks []model.Task, now time.Time) string {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		flag := ""
		if t.IsPastDeadline(now) {
			flag = "overdue"
		}
		rows = append(rows, []string{
			strconv.FormatInt(t.ID, 10),
			clip(t.Name),
			clip(firstLine(t.Description)),
			formatDue(t.DateTime),
			t.TextColour + "/" + t.BackColour,
			flag,
		})
	}

	tbl := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderHeader(false).
		Headers("ID", "NAME", "DESCRIPTION", "DUE", "COLOURS", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().PaddingRight(2)
			if row >= 0 && row < len(tasks) && col == 5 && tasks[row].IsPastDeadline(now) {
				s = s.Foreground(theme.PastDeadlineColor)
			}
			return s
		})

	return tbl.Render() + "\n"
}

func formatTaskDetail(t model.Task, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "id:          %d\n", t.ID)
	fmt.Fprintf(&b, "name:        %s\n", t.Name)
	fmt.Fprintf(&b, "description: %s\n", t.Description)
	fmt.Fprintf(&b, "text colour: %s\n", t.TextColour)
	fmt.Fprintf(&b, "back colour: %s\n", t.BackColour)
	due := formatDue(t.DateTime)
	if t.IsPastDeadline(now) {
		due += " (overdue)"
	}
	fmt.Fprintf(&b, "due:         %s\n", due)
	image := "-"
	if t.HasImage() {
		image = *t.ImageURI
	}
	fmt.Fprintf(&b, "image:       %s\n", image)
	return b.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func clip(s string) string {
	return truncate.StringWithTail(s, cellMaxWidth, "...")
}
