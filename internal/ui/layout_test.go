package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestPreviewSplit(t *testing.T) {
	tests := []struct {
		width       int
		wantPreview bool
		wantList    int
		wantPane    int
	}{
		{width: 80, wantList: 80},
		{width: 99, wantList: 99},
		{width: 100, wantPreview: true, wantList: 60, wantPane: 38},
		{width: 150, wantPreview: true, wantList: 90, wantPane: 58},
	}

	for _, tt := range tests {
		l := NewLayout(tt.width, 40)
		if l.ShowPreview() != tt.wantPreview || l.ListWidth() != tt.wantList || l.PreviewWidth() != tt.wantPane {
			t.Errorf("width %d: preview %v list %d pane %d, want %v %d %d",
				tt.width, l.ShowPreview(), l.ListWidth(), l.PreviewWidth(),
				tt.wantPreview, tt.wantList, tt.wantPane)
		}
	}
}

func TestSummary(t *testing.T) {
	tests := []struct {
		shown, total int
		query        string
		want         string
	}{
		{0, 0, "", "0 tasks"},
		{1, 1, "", "1 task"},
		{4, 4, "", "4 tasks"},
		{1, 4, "gym", `1 of 4 tasks matching "gym"`},
		{0, 1, "x", `0 of 1 task matching "x"`},
	}
	for _, tt := range tests {
		if got := Summary(tt.shown, tt.total, tt.query); got != tt.want {
			t.Errorf("Summary(%d, %d, %q) = %q, want %q", tt.shown, tt.total, tt.query, got, tt.want)
		}
	}
}

func TestHeaderAndStatusBarFillWidth(t *testing.T) {
	l := NewLayout(90, 30)

	header := l.RenderHeader(2, 5, "rent")
	if lipgloss.Width(header) != 90 {
		t.Errorf("header width = %d, want 90", lipgloss.Width(header))
	}
	if !strings.Contains(header, "Taskmaker") || !strings.Contains(header, `2 of 5 tasks matching "rent"`) {
		t.Errorf("header = %q", header)
	}

	status := l.RenderStatusBar("could not delete \"Gym\": database is locked", true)
	if lipgloss.Width(status) != 90 || lipgloss.Height(status) != 1 {
		t.Errorf("status bar is %dx%d, want 90x1", lipgloss.Width(status), lipgloss.Height(status))
	}
}

func TestContentHeightLeavesHeaderAndStatusBar(t *testing.T) {
	if got := NewLayout(80, 24).ContentHeight(); got != 22 {
		t.Errorf("ContentHeight = %d, want 22", got)
	}
	if got := NewLayout(80, 1).ContentHeight(); got != 0 {
		t.Errorf("ContentHeight on a tiny terminal = %d, want 0", got)
	}
}
