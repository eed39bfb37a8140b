// Package win32 wraps the user32/dwmapi calls wintrans needs on Windows.
//
// The extended-style bit helpers in this file are OS independent so the
// style protocol can be tested everywhere; the syscall wrappers only build
// on windows.
package win32

import (
	"errors"
	"fmt"
)

const (
	// ExStyleLayered is WS_EX_LAYERED.
	ExStyleLayered uint32 = 0x00080000
	// ExStyleToolWindow is WS_EX_TOOLWINDOW.
	ExStyleToolWindow uint32 = 0x00000080

	// lwaAlpha is LWA_ALPHA for SetLayeredWindowAttributes.
	lwaAlpha = 0x2
)

// WithLayered returns style with the layered bit set. Applying it twice
// yields the same value.
func WithLayered(style uint32) uint32 {
	return style | ExStyleLayered
}

// WithoutLayered returns style with the layered bit cleared.
func WithoutLayered(style uint32) uint32 {
	return style &^ ExStyleLayered
}

// IsLayered reports whether the layered bit is set.
func IsLayered(style uint32) bool {
	return style&ExStyleLayered != 0
}

// ErrInvalidWindow is returned when a handle no longer names a window.
var ErrInvalidWindow = errors.New("invalid window handle")

// CallError is a failed user32 call with its GetLastError code.
type CallError struct {
	Proc string
	Code uintptr
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s failed with error %d", e.Proc, e.Code)
}
