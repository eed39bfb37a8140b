package palette

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/1broseidon/wintrans/internal/engine"
	"github.com/1broseidon/wintrans/internal/platform"
)

type fakeDaemon struct {
	status   engine.Status
	commands []string
	selects  map[platform.WindowID]bool
}

func (d *fakeDaemon) GetStatus() (*engine.Status, error) { return &d.status, nil }

func (d *fakeDaemon) RunCommand(name string) (string, error) {
	d.commands = append(d.commands, name)
	return "", nil
}

func (d *fakeDaemon) SetSelected(id platform.WindowID, selected bool) (*engine.Status, error) {
	if d.selects == nil {
		d.selects = make(map[platform.WindowID]bool)
	}
	d.selects[id] = selected
	return &d.status, nil
}

type scriptedBackend struct {
	picks []int
	shown [][]Item
}

func (b *scriptedBackend) Show(_ string, items []Item) (Item, error) {
	b.shown = append(b.shown, items)
	if len(b.picks) == 0 {
		return Item{}, ErrCancelled
	}
	i := b.picks[0]
	b.picks = b.picks[1:]
	return items[i], nil
}

func testStatus() engine.Status {
	return engine.Status{
		Opacity: 200,
		Percent: 78,
		Windows: []engine.WindowStatus{
			{ID: 10, Label: "Terminal", Selected: true},
			{ID: 11, Label: "Terminal"},
			{ID: 12, Label: "Browser"},
		},
	}
}

func TestItems(t *testing.T) {
	status := testStatus()
	items := Items(&status)

	if len(items) != len(status.Windows)+len(paletteCommands) {
		t.Fatalf("got %d items, want %d", len(items), len(status.Windows)+len(paletteCommands))
	}

	wantLabels := []string{"[x] Terminal", "[ ] Terminal (2)", "[ ] Browser"}
	for i, want := range wantLabels {
		if items[i].Label != want {
			t.Errorf("items[%d].Label = %q, want %q", i, items[i].Label, want)
		}
	}
	if !items[0].IsActive || items[1].IsActive {
		t.Errorf("active rows = %v/%v, want only the selected window", items[0].IsActive, items[1].IsActive)
	}
	if items[0].Action != "window:10" {
		t.Errorf("items[0].Action = %q", items[0].Action)
	}
	if got := items[3]; got.Action != "command:increase_opacity" || !strings.Contains(got.Label, "78%") {
		t.Errorf("first command item = %+v", got)
	}
}

func TestPerform(t *testing.T) {
	status := testStatus()
	d := &fakeDaemon{status: status}

	if err := Perform(d, &status, "window:10"); err != nil {
		t.Fatalf("Perform(window:10) error = %v", err)
	}
	if sel, ok := d.selects[10]; !ok || sel {
		t.Errorf("window 10 selected = %v, want toggled off", sel)
	}
	if err := Perform(d, &status, "window:12"); err != nil {
		t.Fatalf("Perform(window:12) error = %v", err)
	}
	if !d.selects[12] {
		t.Error("window 12 not toggled on")
	}

	if err := Perform(d, &status, "command:reset_all"); err != nil {
		t.Fatalf("Perform(command) error = %v", err)
	}
	if !reflect.DeepEqual(d.commands, []string{"reset_all"}) {
		t.Errorf("commands = %v", d.commands)
	}

	for _, bad := range []string{"window:abc", "noop", ""} {
		if err := Perform(d, &status, bad); err == nil {
			t.Errorf("Perform(%q) succeeded", bad)
		}
	}
}

func TestRun_LoopsUntilCancelled(t *testing.T) {
	d := &fakeDaemon{status: testStatus()}
	b := &scriptedBackend{picks: []int{3, 3}}

	if err := Run(b, d, false); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(d.commands) != 2 {
		t.Errorf("commands = %v, want two increase_opacity", d.commands)
	}
	if len(b.shown) != 3 {
		t.Errorf("palette shown %d times, want 3", len(b.shown))
	}
}

func TestRun_Once(t *testing.T) {
	d := &fakeDaemon{status: testStatus()}
	b := &scriptedBackend{picks: []int{2, 2}}

	if err := Run(b, d, true); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(b.shown) != 1 || !d.selects[12] {
		t.Errorf("shown %d times, selects %v", len(b.shown), d.selects)
	}
}

func TestLauncher_ParseSelection(t *testing.T) {
	items := []Item{{Label: "[ ] Terminal", Action: "a"}, {Label: "[x] Browser", Action: "b"}}

	tests := []struct {
		command   string
		selection string
		want      string
		wantErr   bool
	}{
		{"rofi", "1", "b", false},
		{"fuzzel", "0", "a", false},
		{"rofi", "7", "", true},
		{"dmenu", "[x] Browser", "b", false},
		{"wofi", "missing", "", true},
	}
	for _, tt := range tests {
		l := &launcher{command: tt.command}
		got, err := l.parseSelection(tt.selection, items)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s parseSelection(%q) error = %v, wantErr %v", tt.command, tt.selection, err, tt.wantErr)
			continue
		}
		if got.Action != tt.want {
			t.Errorf("%s parseSelection(%q) = %q, want %q", tt.command, tt.selection, got.Action, tt.want)
		}
	}
}

func TestLauncher_RofiActiveRows(t *testing.T) {
	l := &launcher{command: "rofi"}
	args := l.args("wintrans", []Item{{Label: "a", IsActive: true}, {Label: "b"}, {Label: "c", IsActive: true}})
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-a 0,2") {
		t.Errorf("rofi args = %q, want active rows 0,2", joined)
	}
	if !strings.Contains(joined, "-format i") {
		t.Errorf("rofi args = %q, want index output", joined)
	}
}

func TestNewBackend_Unknown(t *testing.T) {
	if _, err := NewBackend("zenity"); err == nil || !strings.Contains(err.Error(), "unknown palette backend") {
		t.Errorf("NewBackend(zenity) error = %v", err)
	}
}

func TestIsCancelExit_NonExitError(t *testing.T) {
	if isCancelExit(errors.New("boom")) {
		t.Error("plain error treated as cancel")
	}
}
