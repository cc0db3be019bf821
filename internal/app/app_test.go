package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskmaker/internal/model"
	"github.com/nhle/taskmaker/internal/store"
	"github.com/nhle/taskmaker/internal/ui/command"
	"github.com/nhle/taskmaker/internal/ui/detail"
	"github.com/nhle/taskmaker/internal/ui/taskform"
	"github.com/nhle/taskmaker/internal/ui/tasklist"
	"github.com/nhle/taskmaker/internal/viewmodel"
	"github.com/nhle/taskmaker/tests/testutil"
)

func testConfig() *model.AppConfig {
	return &model.AppConfig{
		Storage:  model.StorageConfig{Dir: "unused", Timeout: time.Second},
		Defaults: model.DefaultsConfig{TextColour: model.DefaultTextColour, BackColour: model.DefaultBackColour},
	}
}

func newTestApp(t *testing.T, s store.Store) Model {
	t.Helper()
	m := New(viewmodel.New(s), testConfig(), testutil.DiscardLogger())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model)
}

// step feeds msg to m and returns the new model and the message produced by
// the resulting command, if any.
func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Msg) {
	t.Helper()
	updated, cmd := m.Update(msg)
	if cmd == nil {
		return updated.(Model), nil
	}
	return updated.(Model), cmd()
}

func TestSubmitAddsTaskAndReturnsToList(t *testing.T) {
	s := testutil.NewTestStore(t)
	m := newTestApp(t, s)

	m, _ = step(t, m, tasklist.NewTaskMsg{})
	if m.currentView != ViewForm {
		t.Fatalf("view = %v, want form", m.currentView)
	}

	m, out := step(t, m, taskform.SubmittedMsg{Input: store.TaskInput{
		Name: "Pay rent", Description: "due monthly",
		TextColour: "#000000", BackColour: "#ffffff",
	}})
	saved, ok := out.(taskSavedMsg)
	if !ok || saved.err != nil || !saved.created {
		t.Fatalf("save = %#v", out)
	}
	m, _ = step(t, m, saved)

	if m.currentView != ViewList {
		t.Fatalf("view = %v, want list", m.currentView)
	}
	if m.taskList.Count() != 1 {
		t.Fatalf("list shows %d tasks", m.taskList.Count())
	}
	tasks, err := s.GetAllTasks(context.Background())
	if err != nil || len(tasks) != 1 {
		t.Fatalf("store = %+v, %v", tasks, err)
	}
	if !strings.Contains(m.status, `added "Pay rent"`) {
		t.Errorf("status = %q", m.status)
	}
}

func TestReturningToListRefreshes(t *testing.T) {
	s := testutil.NewTestStore(t)
	m := newTestApp(t, s)

	// Written behind the view-model's back, e.g. by the CLI.
	if _, err := s.AddTask(context.Background(), store.TaskInput{Name: "Gym", Description: "leg day"}); err != nil {
		t.Fatal(err)
	}

	m, _ = step(t, m, tasklist.OpenDetailMsg{Task: model.Task{ID: 1, Name: "Gym"}})
	if m.currentView != ViewDetail {
		t.Fatalf("view = %v, want detail", m.currentView)
	}

	m, out := step(t, m, detail.BackMsg{})
	refreshed, ok := out.(tasklist.RefreshedMsg)
	if !ok || refreshed.Err != nil {
		t.Fatalf("back should refresh, got %#v", out)
	}
	m, _ = step(t, m, refreshed)
	if m.currentView != ViewList || m.taskList.Count() != 1 {
		t.Fatalf("view %v, count %d", m.currentView, m.taskList.Count())
	}
}

func TestDeleteFailureShownInStatusBar(t *testing.T) {
	m := newTestApp(t, testutil.NewTestStore(t))

	m, _ = step(t, m, tasklist.DeletedMsg{ID: 4, Name: "Gym", Err: errors.New("database is locked")})
	if !m.statusErr || !strings.Contains(m.status, `could not delete "Gym"`) {
		t.Fatalf("status = %q (err %v)", m.status, m.statusErr)
	}
	if !strings.Contains(m.View(), "database is locked") {
		t.Error("error missing from rendered status bar")
	}
}

func TestSearchCommand(t *testing.T) {
	s := testutil.NewTestStore(t)
	for _, name := range []string{"Pay rent", "Gym"} {
		if _, err := s.AddTask(context.Background(), store.TaskInput{Name: name, Description: "-"}); err != nil {
			t.Fatal(err)
		}
	}
	m := newTestApp(t, s)
	m, _ = step(t, m, m.taskList.Refresh()())

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(":")})
	if m.currentView != ViewCommand {
		t.Fatalf("view = %v, want command", m.currentView)
	}
	m, _ = step(t, m, command.CommandMsg{Name: "search", Arg: "gym"})
	if m.currentView != ViewList || m.taskList.Count() != 1 || m.tasks.Query() != "gym" {
		t.Fatalf("view %v, count %d, query %q", m.currentView, m.taskList.Count(), m.tasks.Query())
	}
}

func TestQuitOnlyFromList(t *testing.T) {
	m := newTestApp(t, testutil.NewTestStore(t))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q on the list should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q on the list should quit")
	}

	m, _ = step(t, m, tasklist.NewTaskMsg{})
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd != nil {
		if _, ok := cmd().(tea.QuitMsg); ok {
			t.Fatal("q inside the form must not quit")
		}
	}
}

func TestFailedSaveNamesTheTask(t *testing.T) {
	s := testutil.NewTestStore(t)
	m := newTestApp(t, s)
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	m, _ = step(t, m, tasklist.NewTaskMsg{})
	m, out := step(t, m, taskform.SubmittedMsg{Input: store.TaskInput{
		Name: "Pay rent", Description: "due monthly",
		TextColour: "#000000", BackColour: "#ffffff",
	}})
	saved, ok := out.(taskSavedMsg)
	if !ok || saved.err == nil {
		t.Fatalf("save on a closed store = %#v", out)
	}
	m, _ = step(t, m, saved)

	if !m.statusErr || !strings.Contains(m.status, `could not save "Pay rent"`) {
		t.Fatalf("status = %q (err %v)", m.status, m.statusErr)
	}
}

func TestUnknownPaletteCommandKeepsPaletteOpen(t *testing.T) {
	m := newTestApp(t, testutil.NewTestStore(t))

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(":")})
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("archive")})
	m, out := step(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if out != nil {
		t.Fatalf("unknown command produced %#v", out)
	}
	if m.currentView != ViewCommand {
		t.Fatalf("view = %v, want the palette still open", m.currentView)
	}
	if !strings.Contains(m.View(), `unknown command "archive"`) {
		t.Error("error not shown in the palette")
	}
	if m.statusErr {
		t.Errorf("status bar error %q, want the error kept in the palette", m.status)
	}
}

func TestHeaderShowsSearch(t *testing.T) {
	s := testutil.NewTestStore(t)
	for _, name := range []string{"Pay rent", "Gym"} {
		if _, err := s.AddTask(context.Background(), store.TaskInput{Name: name, Description: "-"}); err != nil {
			t.Fatal(err)
		}
	}
	m := newTestApp(t, s)
	m, _ = step(t, m, m.taskList.Refresh()())
	m, _ = step(t, m, command.CommandMsg{Name: "search", Arg: "gym"})

	if view := m.View(); !strings.Contains(view, `1 of 2 tasks matching "gym"`) {
		t.Errorf("header missing search summary:\n%s", view)
	}
}
