package engine

import (
	"strings"
	"testing"

	"github.com/1broseidon/wintrans/internal/platform"
	"github.com/1broseidon/wintrans/internal/state"
)

func snapshot(opacity, cursor int, selected map[platform.WindowID]bool, labels ...string) state.Snapshot {
	s := state.New()
	var windows []platform.Window
	for i, l := range labels {
		windows = append(windows, platform.Window{ID: platform.WindowID(i + 1), Label: l})
	}
	s.Refresh(windows)
	for id, sel := range selected {
		s.SetSelected(id, sel)
	}
	s.SetOpacity(opacity)
	s.MoveCursor(cursor)
	return s.Snapshot()
}

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		snap state.Snapshot
		want string
	}{
		{
			name: "selected under cursor",
			snap: snapshot(245, 0, map[platform.WindowID]bool{1: true}, "Firefox", "Terminal"),
			want: "Opacity: 245/255 (96%)\nShow Help (Enter)\n> Firefox <\n  Terminal\n",
		},
		{
			name: "cursor on second row",
			snap: snapshot(128, 1, map[platform.WindowID]bool{1: true, 2: true}, "A", "B", "C"),
			want: "Opacity: 128/255 (50%)\nShow Help (Enter)\n> A\n> B <\n  C\n",
		},
		{
			name: "empty",
			snap: snapshot(0, 0, nil),
			want: "Opacity: 0/255 (0%)\nShow Help (Enter)\nNo windows found. Press F1 to refresh.\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.snap); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRender_Help(t *testing.T) {
	snap := snapshot(255, 0, nil, "Firefox")
	snap.HelpVisible = true
	got := Render(snap)

	if strings.Contains(got, "Firefox") {
		t.Errorf("help render lists windows: %q", got)
	}
	for _, c := range Commands() {
		if !strings.Contains(got, Describe(c)) {
			t.Errorf("help render missing %s", c)
		}
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		opacity, want int
	}{
		{255, 100},
		{245, 96},
		{128, 50},
		{5, 2},
		{0, 0},
	}
	for _, tt := range tests {
		if got := Percent(tt.opacity); got != tt.want {
			t.Errorf("Percent(%d) = %d, want %d", tt.opacity, got, tt.want)
		}
	}
}
