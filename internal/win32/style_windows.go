//go:build windows

package win32

import (
	"golang.org/x/sys/windows"
)

// ExStyle reads GWL_EXSTYLE.
func ExStyle(hwnd windows.Handle) (uint32, error) {
	if !IsWindow(hwnd) {
		return 0, ErrInvalidWindow
	}
	clearLastError()
	r, _, err := procGetWindowLongW.Call(uintptr(hwnd), gwlExStyle)
	if r == 0 {
		if code := errnoOf(err); code != 0 {
			return 0, &CallError{Proc: "GetWindowLongW", Code: code}
		}
	}
	return uint32(r), nil
}

// SetExStyle writes GWL_EXSTYLE. SetWindowLongW returns the previous value,
// which may legitimately be zero, so failure is detected via GetLastError.
func SetExStyle(hwnd windows.Handle, style uint32) error {
	if !IsWindow(hwnd) {
		return ErrInvalidWindow
	}
	clearLastError()
	r, _, err := procSetWindowLongW.Call(uintptr(hwnd), gwlExStyle, uintptr(style))
	if r == 0 {
		if code := errnoOf(err); code != 0 {
			return &CallError{Proc: "SetWindowLongW", Code: code}
		}
	}
	return nil
}

// SetAlpha sets the constant alpha of a layered window.
func SetAlpha(hwnd windows.Handle, alpha uint8) error {
	r, _, err := procSetLayeredWindowAttributes.Call(uintptr(hwnd), 0, uintptr(alpha), lwaAlpha)
	if r == 0 {
		return &CallError{Proc: "SetLayeredWindowAttributes", Code: errnoOf(err)}
	}
	return nil
}

// EnableLayered ORs WS_EX_LAYERED into the window style and sets its alpha.
func EnableLayered(hwnd windows.Handle, alpha uint8) error {
	style, err := ExStyle(hwnd)
	if err != nil {
		return err
	}
	if err := SetExStyle(hwnd, WithLayered(style)); err != nil {
		return err
	}
	return SetAlpha(hwnd, alpha)
}

// DisableLayered clears WS_EX_LAYERED, restoring full native opacity.
func DisableLayered(hwnd windows.Handle) error {
	style, err := ExStyle(hwnd)
	if err != nil {
		return err
	}
	return SetExStyle(hwnd, WithoutLayered(style))
}
