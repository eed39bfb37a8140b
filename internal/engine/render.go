package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/1broseidon/wintrans/internal/state"
)

const (
	helpHint    = "Show Help (Enter)"
	hideHint    = "Hide Help (Enter)"
	emptyNotice = "No windows found. Press F1 to refresh."
)

// Percent converts an alpha value to a rounded percentage of 255.
func Percent(opacity int) int {
	return int(math.Round(float64(opacity) / state.MaxOpacity * 100))
}

// Render formats a snapshot as the text shown by every shell.
func Render(snap state.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Opacity: %d/%d (%d%%)\n", snap.Opacity, state.MaxOpacity, Percent(snap.Opacity))

	if snap.HelpVisible {
		b.WriteString(hideHint + "\n")
		b.WriteString(HelpText())
		return b.String()
	}

	b.WriteString(helpHint + "\n")
	if snap.Windows.Len() == 0 {
		b.WriteString(emptyNotice + "\n")
		return b.String()
	}
	for i := 0; i < snap.Windows.Len(); i++ {
		rec := snap.Windows.At(i)
		marker := "  "
		if rec.Selected {
			marker = "> "
		}
		b.WriteString(marker + rec.Window.Label)
		if i == snap.Cursor {
			b.WriteString(" <")
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// HelpText lists every command with its keys.
func HelpText() string {
	var b strings.Builder
	for _, c := range Commands() {
		fmt.Fprintf(&b, "  %-8s %s\n", KeyHelp(c), Describe(c))
	}
	return b.String()
}
