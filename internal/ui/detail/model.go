package detail

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskmaker/internal/keys"
	"github.com/nhle/taskmaker/internal/model"
	"github.com/nhle/taskmaker/internal/theme"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// EditMsg asks the parent to open the form for the displayed task.
type EditMsg struct {
	Task model.Task
}

// Model is the task detail view component.
type Model struct {
	task     *model.Task
	viewport viewport.Model
	keys     *keys.KeyMap
	now      func() time.Time
	width    int
	height   int
}

// New creates a new detail view model.
func New(keys *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     keys,
		now:      time.Now,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command for the detail view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg {
				return BackMsg{}
			}

		case key.Matches(msg, m.keys.Edit):
			if m.task != nil {
				task := *m.task
				return m, func() tea.Msg {
					return EditMsg{Task: task}
				}
			}
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	if m.task == nil {
		emptyStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		return emptyStyle.Render("No task selected")
	}

	return m.viewport.View()
}

// Render draws task for a pane of the given width: name in the task's
// colours, due time, image reference and the description as markdown.
func Render(task model.Task, now time.Time, width int) string {
	var sections []string
	past := task.IsPastDeadline(now)

	titleStyle := theme.TaskStyle(task.TextColour, task.BackColour).Bold(true)
	title := titleStyle.Render(task.Name)
	if past {
		title = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(theme.PastDeadlineColor).
			Render(title)
	}
	sections = append(sections, title, "")

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	due := "none"
	if task.DateTime != nil {
		due = task.DateTime.Local().Format("2006-01-02 15:04")
	}
	sections = append(sections, fmt.Sprintf(
		"%s    %s",
		metaStyle.Render("Due:"),
		theme.DueStyle(past).Render(due),
	))
	if task.HasImage() {
		sections = append(sections, fmt.Sprintf(
			"%s  %s",
			metaStyle.Render("Image:"),
			valStyle.Render(*task.ImageURI),
		))
	}
	sections = append(sections, fmt.Sprintf(
		"%s %s",
		metaStyle.Render("Colour:"),
		valStyle.Render(task.TextColour+" on "+task.BackColour),
	))

	// Separator
	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", max(min(width-4, 80), 1)))
	sections = append(sections, "", separator)

	sections = append(sections, renderDescription(task.Description, width))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderers caches one glamour renderer per wrap width.
var renderers = struct {
	sync.Mutex
	byWidth map[int]*glamour.TermRenderer
}{byWidth: map[int]*glamour.TermRenderer{}}

// markdownRenderer returns the cached renderer for wrap, building it on
// first use.
func markdownRenderer(wrap int) (*glamour.TermRenderer, error) {
	if r, ok := renderers.byWidth[wrap]; ok {
		return r, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return nil, err
	}
	renderers.byWidth[wrap] = r
	return r, nil
}

// renderDescription renders markdown with glamour, falling back to the raw
// text if the renderer cannot be built.
func renderDescription(desc string, width int) string {
	if strings.TrimSpace(desc) == "" {
		return lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("No description")
	}

	renderers.Lock()
	defer renderers.Unlock()

	r, err := markdownRenderer(max(width-4, 20))
	if err != nil {
		return desc
	}
	out, err := r.Render(desc)
	if err != nil {
		return desc
	}
	return strings.TrimRight(out, "\n")
}

// SetTask updates the task being displayed and re-renders the content.
func (m *Model) SetTask(task model.Task) {
	m.task = &task
	m.viewport.SetContent(Render(task, m.now(), m.width))
	m.viewport.GotoTop()
}

// Task returns the displayed task, if any.
func (m Model) Task() (model.Task, bool) {
	if m.task == nil {
		return model.Task{}, false
	}
	return *m.task, true
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	if m.task != nil {
		m.viewport.SetContent(Render(*m.task, m.now(), width))
	}
}
