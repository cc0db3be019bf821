package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskmaker/internal/model"
	"github.com/nhle/taskmaker/internal/store"
)

// taskSavedMsg is sent after a task is added or updated. name is the
// submitted name, which survives a failed save.
type taskSavedMsg struct {
	task    model.Task
	name    string
	created bool
	err     error
}

// saveTask adds a new task (id zero) or rewrites an existing one through
// the view-model, so the list is reconciled without a re-read.
func (m Model) saveTask(id int64, in store.TaskInput) tea.Cmd {
	tasks, timeout := m.tasks, m.cfg.Storage.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if id == 0 {
			task, err := tasks.Add(ctx, in)
			return taskSavedMsg{task: task, name: in.Name, created: true, err: err}
		}
		task, err := tasks.Update(ctx, id, in)
		return taskSavedMsg{task: task, name: in.Name, err: err}
	}
}
