package tasklist

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskmaker/internal/keys"
	"github.com/nhle/taskmaker/internal/store"
	"github.com/nhle/taskmaker/internal/viewmodel"
	"github.com/nhle/taskmaker/tests/testutil"
)

func newLoadedModel(t *testing.T, names ...string) (Model, *viewmodel.TaskList) {
	t.Helper()
	s := testutil.NewTestStore(t)
	for _, name := range names {
		if _, err := s.AddTask(context.Background(), store.TaskInput{Name: name, Description: name + " notes"}); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	vm := viewmodel.New(s)
	m := New(vm, keys.DefaultKeyMap(), time.Second, 80, 40)

	msg := m.Refresh()()
	refreshed, ok := msg.(RefreshedMsg)
	if !ok || refreshed.Err != nil {
		t.Fatalf("refresh = %#v", msg)
	}
	m, _ = m.Update(refreshed)
	return m, vm
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestLiveSearchFiltersOnEveryKeystroke(t *testing.T) {
	m, vm := newLoadedModel(t, "Pay rent", "Gym", "Call plumber")
	if m.Count() != 3 {
		t.Fatalf("count = %d", m.Count())
	}

	m, _ = m.Update(runes("/"))
	if !m.Capturing() {
		t.Fatal("search mode not entered")
	}
	m, _ = m.Update(runes("p"))
	if m.Count() != 2 {
		t.Fatalf("after 'p' count = %d", m.Count())
	}
	m, _ = m.Update(runes("a"))
	if m.Count() != 1 || vm.Query() != "pa" {
		t.Fatalf("after 'pa' count = %d, query %q", m.Count(), vm.Query())
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.Capturing() || m.Count() != 3 || vm.Query() != "" {
		t.Fatalf("esc should clear search: count %d, query %q", m.Count(), vm.Query())
	}
}

func TestSelectToggles(t *testing.T) {
	m, _ := newLoadedModel(t, "Pay rent", "Gym")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	task, ok := m.SelectedTask()
	if !ok || task.Name != "Pay rent" {
		t.Fatalf("selected = %+v, %v", task, ok)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	if _, ok := m.SelectedTask(); ok {
		t.Fatal("second toggle should unselect")
	}
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	m, _ := newLoadedModel(t, "Pay rent")

	m, _ = m.Update(runes("d"))
	if !m.Capturing() {
		t.Fatal("delete did not open a confirmation")
	}
	if !strings.Contains(m.View(), `Are you sure you want to delete "Pay rent"?`) {
		t.Fatalf("prompt missing from view:\n%s", m.View())
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.Capturing() || m.Count() != 1 {
		t.Fatal("esc should cancel without deleting")
	}
}

func TestDeleteRemovesTaskAndSelection(t *testing.T) {
	m, vm := newLoadedModel(t, "Pay rent", "Gym")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	selected, _ := m.SelectedTask()

	msg := m.Delete(selected)()
	deleted, ok := msg.(DeletedMsg)
	if !ok || deleted.Err != nil || deleted.Name != "Pay rent" {
		t.Fatalf("delete = %#v", msg)
	}
	m, _ = m.Update(deleted)

	if m.Count() != 1 || len(vm.All()) != 1 {
		t.Fatalf("count = %d, all = %d", m.Count(), len(vm.All()))
	}
	if _, ok := m.SelectedTask(); ok {
		t.Fatal("deleted task still selected")
	}
}

func TestDueLabel(t *testing.T) {
	now := time.Date(2024, time.May, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-48 * time.Hour)
	future := now.Add(72 * time.Hour)

	if got := DueLabel(nil, now); got != "no due time" {
		t.Errorf("nil due = %q", got)
	}
	if got := DueLabel(&past, now); !strings.HasPrefix(got, "overdue") || !strings.Contains(got, "ago") {
		t.Errorf("past due = %q", got)
	}
	if got := DueLabel(&future, now); !strings.HasPrefix(got, "due") || !strings.Contains(got, "from now") {
		t.Errorf("future due = %q", got)
	}
}
