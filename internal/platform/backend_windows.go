//go:build windows

package platform

import (
	"errors"

	"github.com/1broseidon/wintrans/internal/win32"
	"golang.org/x/sys/windows"
)

func init() {
	NewBackendFunc = func() (Backend, error) {
		return NewWindowsBackend(), nil
	}
}

// WindowsBackend drives translucency through WS_EX_LAYERED and
// SetLayeredWindowAttributes. The element tree is the desktop's HWND tree.
type WindowsBackend struct{}

var _ Backend = (*WindowsBackend)(nil)

// NewWindowsBackend returns a backend bound to the interactive desktop.
func NewWindowsBackend() *WindowsBackend {
	return &WindowsBackend{}
}

// Close is a no-op; user32 holds no per-backend resources.
func (b *WindowsBackend) Close() error { return nil }

// Root returns the desktop window element.
func (b *WindowsBackend) Root() (Element, error) {
	desktop := win32.DesktopWindow()
	if desktop == 0 {
		return nil, nil
	}
	return &hwndElement{hwnd: desktop, root: true}, nil
}

// EnableLayered sets the layered style and constant alpha on a window.
func (b *WindowsBackend) EnableLayered(id WindowID, alpha uint8) error {
	if err := win32.EnableLayered(windows.Handle(id), alpha); err != nil {
		return styleError("EnableLayered", id, err)
	}
	return nil
}

// DisableLayered clears the layered style from a window.
func (b *WindowsBackend) DisableLayered(id WindowID) error {
	if err := win32.DisableLayered(windows.Handle(id)); err != nil {
		return styleError("DisableLayered", id, err)
	}
	return nil
}

func styleError(op string, id WindowID, err error) error {
	if errors.Is(err, win32.ErrInvalidWindow) {
		return &StyleError{Op: op, ID: id, Err: ErrStaleWindow}
	}
	var callErr *win32.CallError
	if errors.As(err, &callErr) {
		return &StyleError{Op: op, ID: id, Code: callErr.Code, Err: callErr}
	}
	return &StyleError{Op: op, ID: id, Err: err}
}

// hwndElement adapts an HWND to the Element interface. Direct children of the
// desktop are top-level windows; tool windows are reported as ControlOther.
type hwndElement struct {
	hwnd     windows.Handle
	root     bool
	topLevel bool
}

func (e *hwndElement) ID() WindowID { return WindowID(e.hwnd) }

func (e *hwndElement) ControlType() ControlType {
	if !e.topLevel {
		return ControlOther
	}
	style, err := win32.ExStyle(e.hwnd)
	if err != nil || style&win32.ExStyleToolWindow != 0 {
		return ControlOther
	}
	return ControlWindow
}

func (e *hwndElement) Name() (string, error) {
	if !win32.IsWindow(e.hwnd) {
		return "", ErrStaleWindow
	}
	return win32.WindowText(e.hwnd), nil
}

func (e *hwndElement) ClassName() (string, error) {
	if !win32.IsWindow(e.hwnd) {
		return "", ErrStaleWindow
	}
	return win32.ClassName(e.hwnd), nil
}

func (e *hwndElement) IsOffscreen() (bool, error) {
	if e.root {
		return false, nil
	}
	if !win32.IsWindow(e.hwnd) {
		return false, ErrStaleWindow
	}
	return !win32.IsVisible(e.hwnd) || win32.IsMinimized(e.hwnd) || win32.IsCloaked(e.hwnd), nil
}

func (e *hwndElement) IsEnabled() (bool, error) {
	if !win32.IsWindow(e.hwnd) {
		return false, ErrStaleWindow
	}
	return win32.IsEnabled(e.hwnd), nil
}

func (e *hwndElement) Children() ([]Element, error) {
	var hwnds []windows.Handle
	if e.root {
		hwnds = win32.TopLevelWindows()
	} else {
		if !win32.IsWindow(e.hwnd) {
			return nil, ErrStaleWindow
		}
		hwnds = win32.ChildWindows(e.hwnd)
	}

	children := make([]Element, 0, len(hwnds))
	for _, h := range hwnds {
		children = append(children, &hwndElement{hwnd: h, topLevel: e.root})
	}
	return children, nil
}
