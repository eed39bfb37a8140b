package engine

import (
	"github.com/1broseidon/wintrans/internal/platform"
)

// WindowStatus describes one inventory row.
type WindowStatus struct {
	ID       platform.WindowID `json:"id" yaml:"id"`
	Label    string            `json:"label" yaml:"label"`
	Class    string            `json:"class,omitempty" yaml:"class,omitempty"`
	Selected bool              `json:"selected" yaml:"selected"`
	Cursor   bool              `json:"cursor,omitempty" yaml:"cursor,omitempty"`
}

// Status is a structured snapshot of the engine.
type Status struct {
	Opacity     int            `json:"opacity" yaml:"opacity"`
	Percent     int            `json:"percent" yaml:"percent"`
	Cursor      int            `json:"cursor" yaml:"cursor"`
	HelpVisible bool           `json:"help_visible" yaml:"help_visible"`
	Windows     []WindowStatus `json:"windows" yaml:"windows"`
}

// Status returns the current state without locking the command path.
func (e *Engine) Status() Status {
	snap := e.state.Snapshot()
	st := Status{
		Opacity:     snap.Opacity,
		Percent:     Percent(snap.Opacity),
		Cursor:      snap.Cursor,
		HelpVisible: snap.HelpVisible,
		Windows:     make([]WindowStatus, 0, snap.Windows.Len()),
	}
	for i, rec := range snap.Windows.Records() {
		st.Windows = append(st.Windows, WindowStatus{
			ID:       rec.Window.ID,
			Label:    rec.Window.Label,
			Class:    rec.Window.Class,
			Selected: rec.Selected,
			Cursor:   i == snap.Cursor,
		})
	}
	return st
}
