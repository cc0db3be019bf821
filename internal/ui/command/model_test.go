package command

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line    string
		want    CommandMsg
		wantErr string
	}{
		{line: "new", want: CommandMsg{Name: "new"}},
		{line: "add", want: CommandMsg{Name: "new"}},
		{line: "  Refresh ", want: CommandMsg{Name: "refresh"}},
		{line: "s pay rent", want: CommandMsg{Name: "search", Arg: "pay rent"}},
		{line: "search Gym", want: CommandMsg{Name: "search", Arg: "Gym"}},
		{line: "q", want: CommandMsg{Name: "quit"}},
		{line: "search", wantErr: "usage: search <text>"},
		{line: "clear everything", wantErr: "clear takes no argument"},
		{line: "archive 3", wantErr: `unknown command "archive"`},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := Parse(tt.line)
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Fatalf("err = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func typeLine(m Model, s string) Model {
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func TestEnterRunsKnownCommand(t *testing.T) {
	m := New(80, 24)
	m = typeLine(m, "s gym")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should run the command")
	}
	if got := cmd(); got != (CommandMsg{Name: "search", Arg: "gym"}) {
		t.Fatalf("msg = %#v", got)
	}
	if m.input.Value() != "" {
		t.Errorf("input not cleared: %q", m.input.Value())
	}
}

func TestUnknownCommandIsReportedInline(t *testing.T) {
	m := New(80, 24)
	m = typeLine(m, "archive")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatalf("unknown command produced %#v", cmd())
	}
	if m.Err() == nil || !strings.Contains(m.View(), `unknown command "archive"`) {
		t.Fatalf("error not shown:\n%s", m.View())
	}
	if m.input.Value() != "archive" {
		t.Errorf("input = %q, want the rejected line kept", m.input.Value())
	}

	m = typeLine(m, "x")
	if m.Err() != nil {
		t.Error("error should clear once the user types again")
	}
}

func TestViewListsMatchingCommands(t *testing.T) {
	m := New(100, 30)
	view := m.View()
	for _, c := range Commands {
		if !strings.Contains(view, c.Summary) {
			t.Errorf("command %q missing from palette", c.Name)
		}
	}

	m = typeLine(m, "re")
	view = m.View()
	if !strings.Contains(view, "re-read every task") {
		t.Error("refresh should match \"re\"")
	}
	if strings.Contains(view, "leave taskmaker") {
		t.Error("quit should not match \"re\"")
	}
}

func TestSuggestionsCoverEveryCommand(t *testing.T) {
	got := suggestions()
	if len(got) != len(Commands) {
		t.Fatalf("%d suggestions for %d commands", len(got), len(Commands))
	}
	if got[1] != "search " {
		t.Errorf("search suggestion = %q, want a trailing space", got[1])
	}
}
