package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskmaker/internal/keys"
	"github.com/nhle/taskmaker/internal/theme"
)

// section is one titled block of the help screen.
type section struct {
	title    string
	bindings []key.Binding
	notes    []string
}

// sections groups the bindings by where they act.
func sections(k *keys.KeyMap) []section {
	return []section{
		{
			title:    "Task list",
			bindings: []key.Binding{k.Select, k.Open, k.New, k.Edit, k.Delete, k.Refresh},
			notes: []string{
				"The selected task is previewed beside the list on wide terminals.",
				"Delete asks for confirmation first.",
				"A red border means the due time has passed.",
			},
		},
		{
			title:    "Search",
			bindings: []key.Binding{k.Search},
			notes: []string{
				"Matches the name or description, ignoring case.",
				"enter keeps the search, esc clears it.",
			},
		},
		{
			title:    "Task detail",
			bindings: []key.Binding{k.Up, k.Down, k.Edit, k.Back},
		},
		{
			title:    "Everywhere",
			bindings: []key.Binding{k.Command, k.Help, k.Quit},
			notes:    []string{"q quits from the task list only."},
		},
	}
}

// Model is the help overlay view.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	width  int
	height int
}

// New creates a new help view model.
func New(keys *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.Width = width
	return Model{
		keys:   keys,
		help:   h,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the help overlay.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)
	headingStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorBlue)

	blocks := []string{titleStyle.Render("Keyboard Shortcuts")}
	for _, s := range sections(m.keys) {
		lines := []string{
			headingStyle.Render(s.title),
			m.help.FullHelpView([][]key.Binding{s.bindings}),
		}
		for _, n := range s.notes {
			lines = append(lines, theme.HelpStyle.Render(n))
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(strings.Join(blocks, "\n\n"))
}

// Hints renders the one-line key hints shown in the status bar.
func (m Model) Hints() string {
	return m.help.ShortHelpView(m.keys.ShortHelp())
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}
