package tasklist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskmaker/internal/keys"
	"github.com/nhle/taskmaker/internal/model"
	"github.com/nhle/taskmaker/internal/theme"
	"github.com/nhle/taskmaker/internal/viewmodel"
)

// RefreshedMsg is sent when a refresh of the task list finishes.
type RefreshedMsg struct {
	Err error
}

// DeletedMsg is sent when a confirmed delete finishes.
type DeletedMsg struct {
	ID   int64
	Name string
	Err  error
}

// OpenDetailMsg asks the app to show the full detail view for a task.
type OpenDetailMsg struct {
	Task model.Task
}

// NewTaskMsg asks the app to open an empty task form.
type NewTaskMsg struct{}

// EditTaskMsg asks the app to open the task form pre-filled with Task.
type EditTaskMsg struct {
	Task model.Task
}

// deleteConfirm holds the state of an open delete confirmation. It lives on
// the heap so the huh field can keep a stable pointer to ok.
type deleteConfirm struct {
	task model.Task
	form *huh.Form
	ok   bool
}

// Model is the main task list view component.
type Model struct {
	list        list.Model
	tasks       *viewmodel.TaskList
	keys        *keys.KeyMap
	timeout     time.Duration
	state       *renderState
	searchMode  bool
	searchInput textinput.Model
	confirm     *deleteConfirm
	width       int
	height      int
}

// New creates a new task list model over tasks. Each store call it makes
// is bounded by timeout.
func New(tasks *viewmodel.TaskList, k *keys.KeyMap, timeout time.Duration, width, height int) Model {
	state := &renderState{now: time.Now}
	delegate := ItemDelegate{state: state}
	l := list.New([]list.Item{}, delegate, width, height-2)
	l.Title = "Tasks"
	l.SetShowStatusBar(true)
	l.SetStatusBarItemName("task", "tasks")
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle
	// Quitting is the app's decision; esc must not end the program.
	l.KeyMap.Quit.SetEnabled(false)

	si := textinput.New()
	si.Placeholder = "search tasks..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		tasks:       tasks,
		keys:        k,
		timeout:     timeout,
		state:       state,
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// Init returns a command that loads the initial set of tasks.
func (m Model) Init() tea.Cmd {
	return m.Refresh()
}

// Update handles messages for the task list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshedMsg:
		return m, m.Reload()

	case DeletedMsg:
		if msg.Err == nil && m.state.selectedID == msg.ID {
			m.state.selectedID = 0
		}
		return m, m.Reload()

	case tea.KeyMsg:
		switch {
		case m.confirm != nil:
			return m.handleConfirmKeys(msg)
		case m.searchMode:
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	if m.confirm != nil {
		return m.updateConfirm(msg)
	}

	// Delegate to list model for other messages
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode. The view-model
// is queried on every keystroke.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.searchInput.Blur()
		return m, nil

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.searchInput.Blur()
		return m, m.setTasks(m.tasks.Search(""))
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, tea.Batch(cmd, m.setTasks(m.tasks.Search(m.searchInput.Value())))
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		item, ok := m.list.SelectedItem().(TaskItem)
		if !ok {
			return m, nil
		}
		if m.state.selectedID == item.Task.ID {
			m.state.selectedID = 0
		} else {
			m.state.selectedID = item.Task.ID
		}
		return m, nil

	case key.Matches(msg, m.keys.Open):
		item, ok := m.list.SelectedItem().(TaskItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg { return OpenDetailMsg{Task: item.Task} }

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.SetValue(m.tasks.Query())
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.Refresh()

	case key.Matches(msg, m.keys.New):
		return m, func() tea.Msg { return NewTaskMsg{} }

	case key.Matches(msg, m.keys.Edit):
		item, ok := m.list.SelectedItem().(TaskItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg { return EditTaskMsg{Task: item.Task} }

	case key.Matches(msg, m.keys.Delete):
		item, ok := m.list.SelectedItem().(TaskItem)
		if !ok {
			return m, nil
		}
		return m.startConfirm(item.Task)
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// DeletePrompt is the question asked before a task is deleted.
func DeletePrompt(name string) string {
	return fmt.Sprintf("Are you sure you want to delete \"%s\"?", name)
}

func (m Model) startConfirm(task model.Task) (Model, tea.Cmd) {
	c := &deleteConfirm{task: task}
	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(DeletePrompt(task.Name)).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&c.ok),
		),
	).WithShowHelp(false).WithWidth(m.width - 4)
	m.confirm = c
	return m, c.form.Init()
}

func (m Model) handleConfirmKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.confirm = nil
		return m, nil
	}
	return m.updateConfirm(msg)
}

// updateConfirm forwards msg to the confirmation form and acts on its
// outcome once the user has answered.
func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	c := m.confirm
	updated, cmd := c.form.Update(msg)
	if f, ok := updated.(*huh.Form); ok {
		c.form = f
	}

	switch c.form.State {
	case huh.StateCompleted:
		m.confirm = nil
		if !c.ok {
			return m, nil
		}
		return m, m.Delete(c.task)
	case huh.StateAborted:
		m.confirm = nil
		return m, nil
	}
	return m, cmd
}

// Delete returns a command that deletes task through the view-model.
func (m Model) Delete(task model.Task) tea.Cmd {
	tasks, timeout := m.tasks, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := tasks.DeleteSelected(ctx, task.ID)
		return DeletedMsg{ID: task.ID, Name: task.Name, Err: err}
	}
}

// Refresh returns a command that re-reads every task from the store. A
// refresh overtaken by a newer one reports nothing.
func (m Model) Refresh() tea.Cmd {
	tasks, timeout := m.tasks, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := tasks.Refresh(ctx)
		if errors.Is(err, viewmodel.ErrSuperseded) {
			return nil
		}
		return RefreshedMsg{Err: err}
	}
}

// Reload redisplays the view-model's current filtered tasks.
func (m *Model) Reload() tea.Cmd {
	return m.setTasks(m.tasks.Tasks())
}

func (m *Model) setTasks(tasks []model.Task) tea.Cmd {
	items := make([]list.Item, len(tasks))
	for i, task := range tasks {
		items[i] = TaskItem{Task: task}
	}
	return m.list.SetItems(items)
}

// SelectedTask returns the task toggled as selected, if it is still held.
func (m Model) SelectedTask() (model.Task, bool) {
	if m.state.selectedID == 0 {
		return model.Task{}, false
	}
	return m.tasks.Find(m.state.selectedID)
}

// Capturing reports whether keystrokes belong to the list (search input or
// a delete confirmation) rather than to global bindings.
func (m Model) Capturing() bool {
	return m.searchMode || m.confirm != nil
}

// Count returns the number of tasks displayed.
func (m Model) Count() int {
	return len(m.list.Items())
}

// SetNow overrides the clock used to decide whether a task is past its
// deadline.
func (m *Model) SetNow(now func() time.Time) {
	m.state.now = now
}

// View renders the task list view.
func (m Model) View() string {
	var body string
	if len(m.list.Items()) == 0 {
		body = m.renderEmptyState()
	} else {
		body = m.list.View()
	}

	switch {
	case m.confirm != nil:
		prompt := theme.BorderStyle.
			BorderForeground(theme.ColorRed).
			Width(m.width - 4).
			Render(m.confirm.form.View())
		return lipgloss.JoinVertical(lipgloss.Left, prompt, body)

	case m.searchMode || m.tasks.Query() != "":
		input := m.searchInput.View()
		if !m.searchMode {
			input = "/ " + m.tasks.Query()
		}
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(input)
		return lipgloss.JoinVertical(lipgloss.Left, searchBar, body)
	}

	return body
}

// renderEmptyState shows guidance text when no tasks are available.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.tasks.Query() != "" {
		return style.Render("No matching tasks.\nPress / to change the search.")
	}

	return style.Render("No tasks yet.\n\nPress n to add one.")
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}
