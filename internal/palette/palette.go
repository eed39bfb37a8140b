// Package palette drives a running daemon from a dmenu-style launcher
// (rofi, fuzzel, wofi or dmenu).
package palette

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ErrCancelled is returned when the user closes the palette without selecting an item.
var ErrCancelled = errors.New("palette cancelled")

// Item is a single selectable row.
type Item struct {
	Label    string
	Action   string
	IsActive bool // highlighted; selected windows
}

// Backend shows items and returns the chosen one.
type Backend interface {
	Show(prompt string, items []Item) (Item, error)
}

// launchers in detection order.
var launchers = []string{"rofi", "fuzzel", "wofi", "dmenu"}

// NewBackend creates a launcher backend by name; "" or "auto" picks the
// first one found in PATH.
func NewBackend(name string) (Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		for _, l := range launchers {
			if _, err := exec.LookPath(l); err == nil {
				return &launcher{command: l}, nil
			}
		}
		return nil, fmt.Errorf("no palette backend found in PATH (looked for: %s)", strings.Join(launchers, ", "))
	}
	for _, l := range launchers {
		if l == name {
			if _, err := exec.LookPath(l); err != nil {
				return nil, fmt.Errorf("palette backend %q not found in PATH", l)
			}
			return &launcher{command: l}, nil
		}
	}
	return nil, fmt.Errorf("unknown palette backend: %q (expected: auto, %s)", name, strings.Join(launchers, ", "))
}

type launcher struct {
	command string
}

// indexed reports whether the launcher prints the row index instead of
// the row text.
func (l *launcher) indexed() bool {
	return l.command == "rofi" || l.command == "fuzzel"
}

func (l *launcher) Show(prompt string, items []Item) (Item, error) {
	if len(items) == 0 {
		return Item{}, fmt.Errorf("palette: no items to show")
	}

	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = sanitizeLabel(item.Label)
	}

	cmd := exec.Command(l.command, l.args(prompt, items)...)
	cmd.Stdin = strings.NewReader(strings.Join(lines, "\n"))
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	selection := strings.TrimSpace(string(out))
	if err != nil {
		if selection == "" && isCancelExit(err) {
			return Item{}, ErrCancelled
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return Item{}, fmt.Errorf("%s failed: %s", l.command, msg)
		}
		return Item{}, fmt.Errorf("%s failed: %w", l.command, err)
	}
	if selection == "" {
		return Item{}, ErrCancelled
	}
	return l.parseSelection(selection, items)
}

func (l *launcher) args(prompt string, items []Item) []string {
	switch l.command {
	case "rofi":
		args := []string{"-dmenu", "-i", "-p", prompt, "-format", "i", "-no-custom"}
		if active := activeRows(items); active != "" {
			args = append(args, "-a", active)
		}
		return args
	case "fuzzel":
		return []string{"--dmenu", "--prompt", prompt + " ", "--index"}
	case "wofi":
		return []string{"--dmenu", "--prompt", prompt}
	default:
		return []string{"-i", "-p", prompt}
	}
}

func (l *launcher) parseSelection(selection string, items []Item) (Item, error) {
	if l.indexed() {
		if idx, err := strconv.Atoi(selection); err == nil {
			if idx < 0 || idx >= len(items) {
				return Item{}, fmt.Errorf("palette: index %d out of range", idx)
			}
			return items[idx], nil
		}
	}
	for _, item := range items {
		if sanitizeLabel(item.Label) == selection {
			return item, nil
		}
	}
	return Item{}, fmt.Errorf("palette: unknown selection %q", selection)
}

func activeRows(items []Item) string {
	var rows []string
	for i, item := range items {
		if item.IsActive {
			rows = append(rows, strconv.Itoa(i))
		}
	}
	return strings.Join(rows, ",")
}

func sanitizeLabel(label string) string {
	label = strings.ReplaceAll(label, "\r", " ")
	label = strings.ReplaceAll(label, "\n", " ")
	return strings.TrimSpace(label)
}

func isCancelExit(err error) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	// 1 is "no selection", 130 is Ctrl+C.
	switch exitErr.ExitCode() {
	case 1, 130:
		return true
	default:
		return false
	}
}
