package taskform

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskmaker/internal/model"
	"github.com/nhle/taskmaker/internal/store"
	"github.com/nhle/taskmaker/internal/theme"
)

// SubmittedMsg is dispatched when the form is completed. ID is zero for a
// new task.
type SubmittedMsg struct {
	ID    int64
	Input store.TaskInput
}

// CancelMsg is dispatched when the user cancels the form.
type CancelMsg struct{}

// InvalidMsg is dispatched when the completed form cannot be turned into a
// task, for example a due time that no longer parses.
type InvalidMsg struct {
	Err error
}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies. initialText and
// initialBack are the colours the form opened with.
type formBindings struct {
	name        string
	description string
	textColour  string
	backColour  string
	dueDate     string
	dueTime     string
	imagePath   string

	initialText string
	initialBack string
}

// Model is the Bubble Tea model for the task create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	defaults model.DefaultsConfig
	editID   int64
	loc      *time.Location
	width    int
	height   int
}

// New creates a new task form model. New tasks start with the given colours.
func New(defaults model.DefaultsConfig, width, height int) Model {
	return Model{
		fb:       &formBindings{},
		defaults: defaults,
		loc:      time.Local,
		width:    width,
		height:   height,
	}
}

// StartCreate initializes the form for creating a new task.
func (m *Model) StartCreate() tea.Cmd {
	m.editID = 0
	*m.fb = formBindings{
		textColour:  m.defaults.TextColour,
		backColour:  m.defaults.BackColour,
		initialText: m.defaults.TextColour,
		initialBack: m.defaults.BackColour,
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form pre-filled with every field of task.
func (m *Model) StartEdit(task model.Task) tea.Cmd {
	m.editID = task.ID
	*m.fb = formBindings{
		name:        task.Name,
		description: task.Description,
		textColour:  task.TextColour,
		backColour:  task.BackColour,
		initialText: task.TextColour,
		initialBack: task.BackColour,
	}
	if task.DateTime != nil {
		local := task.DateTime.In(m.loc)
		m.fb.dueDate = local.Format("2006-01-02")
		m.fb.dueTime = local.Format("15:04")
	}
	if task.ImageURI != nil {
		m.fb.imagePath = *task.ImageURI
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// Editing reports whether the form edits an existing task.
func (m Model) Editing() bool {
	return m.editID != 0
}

// Update handles messages for the task form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.form = nil
		return m, m.handleSubmit()
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the task form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Task"
	if m.Editing() {
		titleText = "Edit Task"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	preview := theme.TaskStyle(
		m.fb.text(),
		strings.TrimSpace(m.fb.backColour),
	).Render(previewText(m.fb.name))

	content := titleStyle.Render(titleText) + "\n" +
		preview + "\n\n" +
		m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

func previewText(name string) string {
	if strings.TrimSpace(name) == "" {
		return "preview"
	}
	return name
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("What needs to be done?").
				Value(&m.fb.name).
				Validate(required("name")),
			huh.NewText().
				Title("Description").
				Placeholder("Details (markdown)").
				Value(&m.fb.description).
				Validate(required("description")),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Background colour").
				Description(paletteHint()).
				Suggestions(model.Palette).
				Value(&m.fb.backColour).
				Validate(hex("background colour")),
			huh.NewInput().
				Title("Text colour").
				Description("Left unchanged, black or white follows a new background.").
				Suggestions(model.Palette).
				Value(&m.fb.textColour).
				Validate(hex("text colour")),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Due date").
				Placeholder("YYYY-MM-DD (optional)").
				Value(&m.fb.dueDate).
				Validate(validateOptionalDate),
			huh.NewInput().
				Title("Due time").
				Placeholder("HH:MM (optional, defaults to 00:00)").
				Value(&m.fb.dueTime).
				Validate(validateOptionalTime),
			huh.NewInput().
				Title("Image").
				Placeholder("path to a local image (optional)").
				Value(&m.fb.imagePath).
				Validate(validateImagePath),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	in, err := m.fb.input(m.loc)
	if err != nil {
		return func() tea.Msg { return InvalidMsg{Err: err} }
	}
	id := m.editID
	return func() tea.Msg { return SubmittedMsg{ID: id, Input: in} }
}

// input validates the bound values and converts them to a store input.
func (fb *formBindings) input(loc *time.Location) (store.TaskInput, error) {
	textColour := strings.TrimSpace(fb.textColour)
	backColour := strings.TrimSpace(fb.backColour)
	if err := model.ValidateTask(fb.name, fb.description, textColour, backColour); err != nil {
		return store.TaskInput{}, err
	}

	in := store.TaskInput{
		Name:        fb.name,
		Description: fb.description,
		TextColour:  fb.text(),
		BackColour:  backColour,
	}

	date, clock := strings.TrimSpace(fb.dueDate), strings.TrimSpace(fb.dueTime)
	if date == "" && clock != "" {
		return store.TaskInput{}, &model.ValidationError{Field: "due time", Message: "needs a due date"}
	}
	if date != "" {
		if clock != "" {
			date += " " + clock
		}
		due, err := model.ParseDue(date, loc)
		if err != nil {
			return store.TaskInput{}, err
		}
		in.DateTime = due
	}

	if p := strings.TrimSpace(fb.imagePath); p != "" {
		in.ImageURI = &p
	}

	return in, nil
}

// text returns the text colour to save. A text colour the user left alone
// follows a changed background when it is plain black or white; one the
// user typed is kept as is.
func (fb *formBindings) text() string {
	text, back := strings.TrimSpace(fb.textColour), strings.TrimSpace(fb.backColour)
	if text == fb.initialText && back != fb.initialBack {
		return model.ContrastText(text, back)
	}
	return text
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 6
	if h < 10 {
		h = 10
	}
	return h
}

// paletteHint lists the palette swatches, each drawn in its own colour.
func paletteHint() string {
	swatches := make([]string, len(model.Palette))
	for i, c := range model.Palette {
		swatches[i] = theme.TaskStyle(model.ContrastText("#000000", c), c).Render(c)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, swatches...)
}

func required(field string) func(string) error {
	return func(s string) error {
		return model.ValidateRequired(field, s)
	}
}

func hex(field string) func(string) error {
	return func(s string) error {
		return model.ValidateHex(field, s)
	}
}

func validateOptionalDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}

func validateOptionalTime(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse("15:04", s); err != nil {
		return fmt.Errorf("invalid time format, use HH:MM")
	}
	return nil
}

// validateImagePath accepts an empty path (no image) or one that exists.
func validateImagePath(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	info, err := os.Stat(s)
	if err != nil {
		return fmt.Errorf("image not found: %s", s)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", s)
	}
	return nil
}
