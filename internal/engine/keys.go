package engine

import "strings"

// KeyCommand maps a key name to a command. Names follow bubbletea's
// KeyMsg.String form ("up", "f1", "ctrl+c", "w"); letters are
// case-insensitive and the space bar is accepted as "space" or " ".
func KeyCommand(key string) (Command, bool) {
	if key != " " {
		key = strings.ToLower(strings.TrimSpace(key))
	}
	switch key {
	case "w", "up":
		return NavigateUp, true
	case "s", "down":
		return NavigateDown, true
	case "+", "=":
		return IncreaseOpacity, true
	case "-", "_":
		return DecreaseOpacity, true
	case " ", "space":
		return ToggleSelected, true
	case "v":
		return SelectAll, true
	case "c":
		return UnselectAll, true
	case "f1", "f5":
		return RefreshNow, true
	case "r":
		return ResetAll, true
	case "t":
		return ResetOpacity, true
	case "enter", "?":
		return ToggleHelp, true
	case "q", "esc", "ctrl+c":
		return Exit, true
	default:
		return Unknown, false
	}
}

// KeyHelp returns the key legend for a command.
func KeyHelp(c Command) string {
	switch c {
	case NavigateUp:
		return "W / Up"
	case NavigateDown:
		return "S / Down"
	case IncreaseOpacity:
		return "+"
	case DecreaseOpacity:
		return "-"
	case ToggleSelected:
		return "Space"
	case SelectAll:
		return "V"
	case UnselectAll:
		return "C"
	case RefreshNow:
		return "F1"
	case ResetAll:
		return "R"
	case ResetOpacity:
		return "T"
	case ToggleHelp:
		return "Enter"
	case Exit:
		return "Q / Esc"
	default:
		return ""
	}
}

// Describe returns a one-line description of a command.
func Describe(c Command) string {
	switch c {
	case NavigateUp:
		return "move the cursor up"
	case NavigateDown:
		return "move the cursor down"
	case IncreaseOpacity:
		return "make selected windows more opaque"
	case DecreaseOpacity:
		return "make selected windows more transparent"
	case ToggleSelected:
		return "toggle transparency on the window under the cursor"
	case SelectAll:
		return "select every window"
	case UnselectAll:
		return "unselect every window"
	case RefreshNow:
		return "refresh the window list"
	case ResetAll:
		return "remove transparency from every window"
	case ResetOpacity:
		return "reset opacity to fully opaque"
	case ToggleHelp:
		return "show or hide this help"
	case Exit:
		return "restore all windows and exit"
	default:
		return ""
	}
}
