package platform

import (
	"errors"
	"fmt"
	"runtime"
)

// WindowID is a platform-neutral native window identifier (HWND or X11 window).
// The zero value is the null handle.
type WindowID uint64

// ControlType classifies an element of the accessibility tree.
type ControlType int

const (
	// ControlOther is any element that is not a top-level window.
	ControlOther ControlType = iota
	// ControlWindow is a top-level application window.
	ControlWindow
)

// String returns the string representation of the control type
func (c ControlType) String() string {
	switch c {
	case ControlWindow:
		return "window"
	default:
		return "other"
	}
}

// Window contains the identity and display metadata of a discovered window.
type Window struct {
	ID    WindowID `yaml:"id" json:"id"`
	Name  string   `yaml:"name" json:"name"`
	Class string   `yaml:"class" json:"class"`
	Label string   `yaml:"label" json:"label"`
}

// Element is a node of the OS accessibility/window tree.
//
// Elements are weak references: any query may fail once the underlying
// window is gone, in which case implementations return ErrStaleWindow.
type Element interface {
	ID() WindowID
	ControlType() ControlType
	Name() (string, error)
	ClassName() (string, error)
	IsOffscreen() (bool, error)
	IsEnabled() (bool, error)
	Children() ([]Element, error)
}

// Styler toggles the layered (translucent) style on a single native window.
// It holds no state.
type Styler interface {
	EnableLayered(id WindowID, alpha uint8) error
	DisableLayered(id WindowID) error
}

// Backend abstracts window-system operations across platforms.
type Backend interface {
	Styler
	// Root returns the root of the accessibility tree. A nil element with a
	// nil error means the tree is currently unavailable.
	Root() (Element, error)
	Close() error
}

var (
	// ErrStaleWindow is returned when a window handle no longer resolves.
	ErrStaleWindow = errors.New("window no longer exists")
	// ErrNoDisplay is returned when the display server cannot be reached.
	ErrNoDisplay = errors.New("display server unavailable")
	// ErrUnsupported is returned on platforms without a backend.
	ErrUnsupported = fmt.Errorf("wintrans is not supported on %s/%s; supported: windows, linux (X11)", runtime.GOOS, runtime.GOARCH)
)

// StyleError reports a failed native style call.
type StyleError struct {
	Op   string
	ID   WindowID
	Code uintptr
	Err  error
}

func (e *StyleError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s on window %#x failed (code %d): %v", e.Op, uint64(e.ID), e.Code, e.Err)
	}
	return fmt.Sprintf("%s on window %#x failed: %v", e.Op, uint64(e.ID), e.Err)
}

func (e *StyleError) Unwrap() error { return e.Err }

// NewBackendFunc is set by platform-specific files via init().
var NewBackendFunc func() (Backend, error)

// NewBackend returns a Backend for the current OS.
func NewBackend() (Backend, error) {
	if NewBackendFunc == nil {
		return nil, ErrUnsupported
	}
	return NewBackendFunc()
}
