// Package engine is the command state machine behind every wintrans shell.
// It owns the transparency state, drives discovery and style application,
// renders a text snapshot and pushes it to the host's display sink.
package engine

import (
	"fmt"
	"strings"
)

// Command is one abstract input.
type Command int

const (
	// Unknown is the zero Command and is never dispatched.
	Unknown Command = iota
	NavigateUp
	NavigateDown
	IncreaseOpacity
	DecreaseOpacity
	ToggleSelected
	SelectAll
	UnselectAll
	RefreshNow
	ResetAll
	ResetOpacity
	ToggleHelp
	Exit
)

// Commands lists every dispatchable command in help order.
func Commands() []Command {
	return []Command{
		NavigateUp,
		NavigateDown,
		IncreaseOpacity,
		DecreaseOpacity,
		ToggleSelected,
		SelectAll,
		UnselectAll,
		RefreshNow,
		ResetAll,
		ResetOpacity,
		ToggleHelp,
		Exit,
	}
}

// String returns the snake_case name used in config, IPC and MCP.
func (c Command) String() string {
	switch c {
	case NavigateUp:
		return "navigate_up"
	case NavigateDown:
		return "navigate_down"
	case IncreaseOpacity:
		return "increase_opacity"
	case DecreaseOpacity:
		return "decrease_opacity"
	case ToggleSelected:
		return "toggle_selected"
	case SelectAll:
		return "select_all"
	case UnselectAll:
		return "unselect_all"
	case RefreshNow:
		return "refresh"
	case ResetAll:
		return "reset_all"
	case ResetOpacity:
		return "reset_opacity"
	case ToggleHelp:
		return "toggle_help"
	case Exit:
		return "exit"
	default:
		return "unknown"
	}
}

// ParseCommand resolves a command name as produced by String.
func ParseCommand(name string) (Command, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, c := range Commands() {
		if c.String() == name {
			return c, nil
		}
	}
	return Unknown, fmt.Errorf("%w: %q", ErrUnsupportedCommand, name)
}

// CommandNames returns the names of every command.
func CommandNames() []string {
	cmds := Commands()
	names := make([]string, 0, len(cmds))
	for _, c := range cmds {
		names = append(names, c.String())
	}
	return names
}
