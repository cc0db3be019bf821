package detail

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskmaker/internal/keys"
	"github.com/nhle/taskmaker/internal/model"
)

func TestRenderShowsFields(t *testing.T) {
	due := time.Date(2030, time.March, 4, 9, 30, 0, 0, time.Local)
	img := "/home/me/cat.png"
	task := model.Task{
		ID:          7,
		Name:        "Gym",
		Description: "leg day",
		TextColour:  "#ffffff",
		BackColour:  "#1144bb",
		DateTime:    &due,
		ImageURI:    &img,
	}

	out := Render(task, due.Add(-time.Hour), 80)
	for _, want := range []string{"Gym", "2030-03-04 09:30", img, "#ffffff on #1144bb", "leg"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
}

func TestRenderWithoutOptionalFields(t *testing.T) {
	out := Render(model.Task{Name: "Pay rent"}, time.Now(), 60)
	if !strings.Contains(out, "none") || !strings.Contains(out, "No description") {
		t.Errorf("unexpected render:\n%s", out)
	}
	if strings.Contains(out, "Image:") {
		t.Errorf("image line shown without an image:\n%s", out)
	}
}

func TestBackAndEdit(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.SetTask(model.Task{ID: 3, Name: "Call mum"})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := cmd().(BackMsg); !ok {
		t.Fatal("esc should go back")
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	edit, ok := cmd().(EditMsg)
	if !ok || edit.Task.ID != 3 {
		t.Fatalf("edit = %#v", edit)
	}
}

func TestRendererIsReusedPerWidth(t *testing.T) {
	task := model.Task{Name: "Gym", Description: "*leg* day"}
	Render(task, time.Now(), 91)

	renderers.Lock()
	first := renderers.byWidth[87]
	renderers.Unlock()
	if first == nil {
		t.Fatal("no renderer cached for width 87")
	}

	for range 3 {
		Render(task, time.Now(), 91)
	}
	Render(task, time.Now(), 71)

	renderers.Lock()
	defer renderers.Unlock()
	if renderers.byWidth[87] != first {
		t.Error("renderer rebuilt for an unchanged width")
	}
	if renderers.byWidth[67] == nil {
		t.Error("no renderer cached for width 67")
	}
}
