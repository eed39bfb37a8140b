package palette

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/1broseidon/wintrans/internal/engine"
	"github.com/1broseidon/wintrans/internal/platform"
)

const (
	windowPrefix  = "window:"
	commandPrefix = "command:"
)

// Daemon is the IPC surface the palette needs. *ipc.Client satisfies it.
type Daemon interface {
	GetStatus() (*engine.Status, error)
	RunCommand(name string) (string, error)
	SetSelected(id platform.WindowID, selected bool) (*engine.Status, error)
}

// paletteCommands are offered below the window rows. Cursor commands are
// left out: the launcher itself is the cursor.
var paletteCommands = []engine.Command{
	engine.IncreaseOpacity,
	engine.DecreaseOpacity,
	engine.SelectAll,
	engine.UnselectAll,
	engine.RefreshNow,
	engine.ResetOpacity,
	engine.ResetAll,
}

// Items builds the palette rows for status: one toggle row per window,
// then the commands.
func Items(status *engine.Status) []Item {
	items := make([]Item, 0, len(status.Windows)+len(paletteCommands))
	seen := make(map[string]int)
	for _, w := range status.Windows {
		mark := "[ ]"
		if w.Selected {
			mark = "[x]"
		}
		label := sanitizeLabel(w.Label)
		if n := seen[label]; n > 0 {
			label = fmt.Sprintf("%s (%d)", label, n+1)
		}
		seen[sanitizeLabel(w.Label)]++

		items = append(items, Item{
			Label:    mark + " " + label,
			Action:   windowPrefix + strconv.FormatUint(uint64(w.ID), 10),
			IsActive: w.Selected,
		})
	}
	for _, c := range paletteCommands {
		label := engine.Describe(c)
		if c == engine.IncreaseOpacity || c == engine.DecreaseOpacity {
			label = fmt.Sprintf("%s (now %d%%)", label, status.Percent)
		}
		items = append(items, Item{Label: label, Action: commandPrefix + c.String()})
	}
	return items
}

// Run shows the palette until the user cancels. With once set it returns
// after the first action.
func Run(backend Backend, daemon Daemon, once bool) error {
	for {
		status, err := daemon.GetStatus()
		if err != nil {
			return fmt.Errorf("daemon not reachable: %w", err)
		}

		item, err := backend.Show("wintrans", Items(status))
		if errors.Is(err, ErrCancelled) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := Perform(daemon, status, item.Action); err != nil {
			return err
		}
		if once {
			return nil
		}
	}
}

// Perform executes one palette action against the daemon.
func Perform(daemon Daemon, status *engine.Status, action string) error {
	switch {
	case strings.HasPrefix(action, windowPrefix):
		id, err := strconv.ParseUint(strings.TrimPrefix(action, windowPrefix), 10, 64)
		if err != nil {
			return fmt.Errorf("palette: bad window action %q", action)
		}
		selected := false
		for _, w := range status.Windows {
			if uint64(w.ID) == id {
				selected = w.Selected
				break
			}
		}
		_, err = daemon.SetSelected(platform.WindowID(id), !selected)
		return err

	case strings.HasPrefix(action, commandPrefix):
		_, err := daemon.RunCommand(strings.TrimPrefix(action, commandPrefix))
		return err

	default:
		return fmt.Errorf("palette: unknown action %q", action)
	}
}
