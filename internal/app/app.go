package app

import (
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskmaker/internal/keys"
	"github.com/nhle/taskmaker/internal/model"
	"github.com/nhle/taskmaker/internal/theme"
	"github.com/nhle/taskmaker/internal/ui"
	"github.com/nhle/taskmaker/internal/ui/command"
	"github.com/nhle/taskmaker/internal/ui/detail"
	helpview "github.com/nhle/taskmaker/internal/ui/help"
	"github.com/nhle/taskmaker/internal/ui/taskform"
	"github.com/nhle/taskmaker/internal/ui/tasklist"
	"github.com/nhle/taskmaker/internal/viewmodel"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewDetail
	ViewHelp
	ViewCommand
	ViewForm
)

// Model is the root Bubble Tea model that manages view routing,
// layout, and access to the task list.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	tasks        *viewmodel.TaskList
	cfg          *model.AppConfig
	logger       *slog.Logger
	keys         *keys.KeyMap
	taskList     tasklist.Model
	detail       detail.Model
	helpView     helpview.Model
	commandView  command.Model
	formView     taskform.Model
	now          func() time.Time
	ready        bool
	status       string
	statusErr    bool
}

// New creates a new root application model over tasks.
func New(tasks *viewmodel.TaskList, cfg *model.AppConfig, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}
	k := keys.DefaultKeyMap()

	return Model{
		currentView: ViewList,
		layout:      ui.NewLayout(80, 24),
		tasks:       tasks,
		cfg:         cfg,
		logger:      logger.With("component", "app"),
		keys:        k,
		taskList:    tasklist.New(tasks, k, cfg.Storage.Timeout, 80, 22),
		detail:      detail.New(k, 80, 22),
		helpView:    helpview.New(k, 80, 22),
		commandView: command.New(80, 22),
		formView:    taskform.New(cfg.Defaults, 80, 22),
		now:         time.Now,
	}
}

// Init returns the initial command to load tasks.
func (m Model) Init() tea.Cmd {
	return m.taskList.Init()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		m.resize()
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case tasklist.RefreshedMsg:
		if msg.Err != nil {
			m.setError("refresh failed", msg.Err)
		}
		var cmd tea.Cmd
		m.taskList, cmd = m.taskList.Update(msg)
		return m, cmd

	case tasklist.DeletedMsg:
		if msg.Err != nil {
			m.setError(fmt.Sprintf("could not delete %q", msg.Name), msg.Err)
		} else {
			m.setStatus(fmt.Sprintf("deleted %q", msg.Name))
		}
		var cmd tea.Cmd
		m.taskList, cmd = m.taskList.Update(msg)
		return m, cmd

	case tasklist.OpenDetailMsg:
		m.previousView = m.currentView
		m.currentView = ViewDetail
		m.detail.SetTask(msg.Task)
		return m, nil

	case tasklist.NewTaskMsg:
		m.currentView = ViewForm
		return m, m.formView.StartCreate()

	case tasklist.EditTaskMsg:
		m.currentView = ViewForm
		return m, m.formView.StartEdit(msg.Task)

	case detail.EditMsg:
		m.currentView = ViewForm
		return m, m.formView.StartEdit(msg.Task)

	case detail.BackMsg:
		return m, m.backToList()

	case taskform.SubmittedMsg:
		m.currentView = ViewList
		return m, m.saveTask(msg.ID, msg.Input)

	case taskform.CancelMsg:
		return m, m.backToList()

	case taskform.InvalidMsg:
		m.setError("task not saved", msg.Err)
		return m, m.backToList()

	case taskSavedMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("could not save %q", msg.name), msg.err)
			return m, m.backToList()
		}
		if msg.created {
			m.setStatus(fmt.Sprintf("added %q", msg.name))
		} else {
			m.setStatus(fmt.Sprintf("updated %q", msg.name))
		}
		return m, tea.Batch(m.taskList.Reload(), m.backToList())

	case command.CommandMsg:
		m.currentView = m.previousView
		return m, m.executeCommand(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.currentView == ViewForm ||
			(m.currentView == ViewList && m.taskList.Capturing()) {
			break
		}

		// Global keys that work regardless of current view
		switch msg.String() {
		case "q":
			if m.currentView == ViewList {
				return m, tea.Quit
			}

		case "?":
			if m.currentView == ViewHelp {
				return m, m.backTo(m.previousView)
			}
			m.previousView = m.currentView
			m.currentView = ViewHelp
			return m, nil

		case ":":
			if m.currentView == ViewCommand {
				return m, m.backTo(m.previousView)
			}
			m.previousView = m.currentView
			m.currentView = ViewCommand
			return m, m.commandView.Open()

		case "esc":
			if m.currentView == ViewHelp || m.currentView == ViewCommand {
				return m, m.backTo(m.previousView)
			}
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// backToList shows the list again. Coming back to the list always
// re-reads the store.
func (m *Model) backToList() tea.Cmd {
	m.currentView = ViewList
	return m.taskList.Refresh()
}

// backTo returns to v, refreshing when v is the list.
func (m *Model) backTo(v ViewState) tea.Cmd {
	if v == ViewList {
		return m.backToList()
	}
	m.currentView = v
	return nil
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(what string, err error) {
	m.logger.Error(what, "error", err)
	m.status = fmt.Sprintf("%s: %v", what, err)
	m.statusErr = true
}

// resize lays every view out for the current terminal size.
func (m *Model) resize() {
	contentWidth := m.layout.ContentWidth()
	contentHeight := m.layout.ContentHeight()
	m.taskList.SetSize(m.layout.ListWidth(), contentHeight)
	m.detail.SetSize(contentWidth, contentHeight)
	m.helpView.SetSize(contentWidth, contentHeight)
	m.commandView.SetSize(contentWidth, contentHeight)
	m.formView.SetSize(contentWidth, contentHeight)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		m.taskList, cmd = m.taskList.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewForm:
		m.formView, cmd = m.formView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader(m.taskList.Count(), len(m.tasks.All()), m.tasks.Query())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.statusLine())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewList:
		return m.renderList()
	case ViewDetail:
		return m.detail.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewForm:
		return m.formView.View()
	default:
		return ""
	}
}

// renderList draws the list, with the selected task beside it when the
// terminal is wide enough.
func (m Model) renderList() string {
	list := m.taskList.View()
	if !m.layout.ShowPreview() {
		return list
	}

	paneWidth := m.layout.PreviewWidth()
	var body string
	if task, ok := m.taskList.SelectedTask(); ok {
		body = detail.Render(task, m.now(), paneWidth-6)
	} else {
		body = theme.HelpStyle.Render("Press space to select a task.")
	}
	pane := theme.DetailPanelStyle.
		Width(paneWidth - 4).
		Height(m.layout.ContentHeight() - 4).
		Render(body)

	return m.layout.RenderTaskArea(list, pane)
}

// statusLine returns the last status message and whether it is an error,
// or keyboard hints for the current view.
func (m Model) statusLine() (string, bool) {
	if m.status != "" && m.currentView == ViewList {
		return m.status, m.statusErr
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back", false
	case ViewCommand:
		return "tab complete | enter run | esc back", false
	case ViewDetail:
		return "esc back | e edit | j/k scroll", false
	case ViewForm:
		return "enter next | shift+tab previous | esc cancel", false
	default:
		return m.helpView.Hints(), false
	}
}

// executeCommand runs a command accepted by the command palette.
func (m *Model) executeCommand(c command.CommandMsg) tea.Cmd {
	switch c.Name {
	case "refresh":
		return m.backTo(m.currentView)
	case "quit":
		return tea.Quit
	case "new":
		m.currentView = ViewForm
		return m.formView.StartCreate()
	case "help":
		m.previousView = ViewList
		m.currentView = ViewHelp
		return nil
	case "search":
		m.tasks.Search(c.Arg)
		m.currentView = ViewList
		return m.taskList.Reload()
	case "clear":
		m.status = ""
		m.tasks.Search("")
		m.currentView = ViewList
		return m.taskList.Reload()
	}
	m.logger.Warn("palette sent an unhandled command", "command", c.Name)
	return nil
}
