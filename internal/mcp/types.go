package mcp

import "github.com/1broseidon/wintrans/internal/engine"

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct {
	SelectedOnly bool `json:"selected_only,omitempty" jsonschema:"When true, only windows marked for translucency are returned"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Opacity int                   `json:"opacity"`
	Percent int                   `json:"percent"`
	Windows []engine.WindowStatus `json:"windows"`
}

// RunCommandInput is the input for the run_command tool.
type RunCommandInput struct {
	Command string `json:"command" jsonschema:"required,Command name: navigate_up, navigate_down, increase_opacity, decrease_opacity, toggle_selected, select_all, unselect_all, refresh, reset_all, reset_opacity, toggle_help or exit"`
}

// RunCommandOutput is the output for the run_command tool.
type RunCommandOutput struct {
	Command string `json:"command"`
	Text    string `json:"text"`
}

// SetWindowSelectedInput is the input for the set_window_selected tool.
type SetWindowSelectedInput struct {
	WindowID uint64 `json:"window_id" jsonschema:"required,Native window ID as reported by list_windows"`
	Selected bool   `json:"selected" jsonschema:"Whether the window should be translucent"`
}

// SetWindowSelectedOutput is the output for the set_window_selected tool.
type SetWindowSelectedOutput struct {
	WindowID uint64 `json:"window_id"`
	Selected bool   `json:"selected"`
	Opacity  int    `json:"opacity"`
}

// GetSnapshotInput is the input for the get_snapshot tool.
type GetSnapshotInput struct{}

// GetSnapshotOutput is the output for the get_snapshot tool.
type GetSnapshotOutput struct {
	Text string `json:"text"`
}
