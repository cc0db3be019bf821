package command

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskmaker/internal/theme"
)

// Command describes one command the palette accepts. Arg names its
// argument and is empty when the command takes none.
type Command struct {
	Name    string
	Aliases []string
	Arg     string
	Summary string
}

// Commands is every command the palette runs, in display order.
var Commands = []Command{
	{Name: "new", Aliases: []string{"add"}, Summary: "open the form for a new task"},
	{Name: "search", Aliases: []string{"s"}, Arg: "<text>", Summary: "show tasks whose name or description contains text"},
	{Name: "clear", Summary: "drop the search and the status message"},
	{Name: "refresh", Aliases: []string{"r"}, Summary: "re-read every task"},
	{Name: "help", Summary: "show the key bindings"},
	{Name: "quit", Aliases: []string{"q"}, Summary: "leave taskmaker"},
}

// CommandMsg is emitted when the user runs a known command. Name is always
// the command's canonical name, never an alias.
type CommandMsg struct {
	Name string
	Arg  string
}

// Parse resolves a typed line such as "s gym" to a command.
func Parse(line string) (CommandMsg, error) {
	word, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	c, ok := lookup(word)
	if !ok {
		return CommandMsg{}, fmt.Errorf("unknown command %q", word)
	}
	if c.Arg == "" && arg != "" {
		return CommandMsg{}, fmt.Errorf("%s takes no argument", c.Name)
	}
	if c.Arg != "" && arg == "" {
		return CommandMsg{}, fmt.Errorf("usage: %s %s", c.Name, c.Arg)
	}
	return CommandMsg{Name: c.Name, Arg: arg}, nil
}

func lookup(word string) (Command, bool) {
	word = strings.ToLower(word)
	for _, c := range Commands {
		if c.Name == word || slices.Contains(c.Aliases, word) {
			return c, true
		}
	}
	return Command{}, false
}

// suggestions returns the completions offered while typing. Commands that
// take an argument complete with a trailing space.
func suggestions() []string {
	out := make([]string, 0, len(Commands))
	for _, c := range Commands {
		if c.Arg != "" {
			out = append(out, c.Name+" ")
			continue
		}
		out = append(out, c.Name)
	}
	return out
}

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	err    error
	width  int
	height int
}

// New creates a new command palette model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "new, search <text>, clear, refresh, help, quit"
	ti.Prompt = ": "
	ti.ShowSuggestions = true
	ti.SetSuggestions(suggestions())
	ti.Focus()
	ti.Width = width - 6

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the command palette. An unknown or malformed
// command keeps the palette open with the error shown under the input.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" {
		line := strings.TrimSpace(m.input.Value())
		if line == "" {
			return m, nil
		}
		c, err := Parse(line)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.input.Reset()
		return m, func() tea.Msg { return c }
	}

	if _, ok := msg.(tea.KeyMsg); ok {
		m.err = nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// Err returns the error from the last rejected command, if any.
func (m Model) Err() error {
	return m.err
}

// View renders the command palette: the input, any error, and the
// commands matching what has been typed so far.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	lines := []string{titleStyle.Render("Command Palette"), m.input.View()}
	if m.err != nil {
		lines = append(lines, theme.ErrorStyle.Render(m.err.Error()))
	}
	lines = append(lines, "", m.renderCommands())

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) renderCommands() string {
	word, _, _ := strings.Cut(strings.TrimSpace(m.input.Value()), " ")
	word = strings.ToLower(word)

	nameStyle := lipgloss.NewStyle().Foreground(theme.ColorBlue).Width(16)
	var rows []string
	for _, c := range Commands {
		names := append([]string{c.Name}, c.Aliases...)
		if word != "" && !slices.ContainsFunc(names, func(n string) bool {
			return strings.HasPrefix(n, word)
		}) {
			continue
		}
		usage := strings.Join(names, ", ")
		if c.Arg != "" {
			usage += " " + c.Arg
		}
		rows = append(rows, nameStyle.Render(usage)+theme.HelpStyle.Render(c.Summary))
	}
	if len(rows) == 0 {
		return theme.HelpStyle.Render("no matching command")
	}
	return strings.Join(rows, "\n")
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Open clears any previous input and error and gives the input focus.
func (m *Model) Open() tea.Cmd {
	m.input.Reset()
	m.err = nil
	return m.input.Focus()
}
