//go:build windows

package win32

import (
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")
	dwmapi   = windows.NewLazySystemDLL("dwmapi.dll")

	procGetDesktopWindow           = user32.NewProc("GetDesktopWindow")
	procEnumWindows                = user32.NewProc("EnumWindows")
	procEnumChildWindows           = user32.NewProc("EnumChildWindows")
	procGetAncestor                = user32.NewProc("GetAncestor")
	procIsWindow                   = user32.NewProc("IsWindow")
	procIsWindowVisible            = user32.NewProc("IsWindowVisible")
	procIsWindowEnabled            = user32.NewProc("IsWindowEnabled")
	procIsIconic                   = user32.NewProc("IsIconic")
	procGetWindowTextW             = user32.NewProc("GetWindowTextW")
	procGetWindowTextLengthW       = user32.NewProc("GetWindowTextLengthW")
	procGetClassNameW              = user32.NewProc("GetClassNameW")
	procGetWindowLongW             = user32.NewProc("GetWindowLongW")
	procSetWindowLongW             = user32.NewProc("SetWindowLongW")
	procSetLayeredWindowAttributes = user32.NewProc("SetLayeredWindowAttributes")

	procSetLastError = kernel32.NewProc("SetLastError")

	procDwmGetWindowAttribute = dwmapi.NewProc("DwmGetWindowAttribute")
)

const (
	gaParent       = 1
	dwmwaCloaked   = 14
	maxClassLength = 256
)

// gwlExStyle is GWL_EXSTYLE (-20) as a syscall argument.
var gwlExStyle = ^uintptr(19)

func errnoOf(err error) uintptr {
	if errno, ok := err.(syscall.Errno); ok {
		return uintptr(errno)
	}
	return 0
}

func clearLastError() {
	procSetLastError.Call(0)
}

func boolCall(proc *windows.LazyProc, hwnd windows.Handle) bool {
	r, _, _ := proc.Call(uintptr(hwnd))
	return r != 0
}

// DesktopWindow returns the desktop root handle.
func DesktopWindow() windows.Handle {
	r, _, _ := procGetDesktopWindow.Call()
	return windows.Handle(r)
}

// IsWindow reports whether hwnd still names an existing window.
func IsWindow(hwnd windows.Handle) bool { return boolCall(procIsWindow, hwnd) }

// IsVisible reports the WS_VISIBLE state of hwnd and its ancestors.
func IsVisible(hwnd windows.Handle) bool { return boolCall(procIsWindowVisible, hwnd) }

// IsEnabled reports whether hwnd accepts input.
func IsEnabled(hwnd windows.Handle) bool { return boolCall(procIsWindowEnabled, hwnd) }

// IsMinimized reports whether hwnd is iconic.
func IsMinimized(hwnd windows.Handle) bool { return boolCall(procIsIconic, hwnd) }

// IsCloaked reports whether DWM hides the window (other virtual desktop,
// suspended UWP frame). Missing dwmapi support reads as not cloaked.
func IsCloaked(hwnd windows.Handle) bool {
	if procDwmGetWindowAttribute.Find() != nil {
		return false
	}
	var cloaked uint32
	r, _, _ := procDwmGetWindowAttribute.Call(
		uintptr(hwnd),
		dwmwaCloaked,
		uintptr(unsafe.Pointer(&cloaked)),
		unsafe.Sizeof(cloaked),
	)
	return r == 0 && cloaked != 0
}

// WindowText returns the window title.
func WindowText(hwnd windows.Handle) string {
	l, _, _ := procGetWindowTextLengthW.Call(uintptr(hwnd))
	length := int(l)
	if length == 0 {
		return ""
	}
	buf := make([]uint16, length+1)
	procGetWindowTextW.Call(
		uintptr(hwnd),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(length+1),
	)
	return windows.UTF16ToString(buf)
}

// ClassName returns the registered window class name.
func ClassName(hwnd windows.Handle) string {
	buf := make([]uint16, maxClassLength)
	n, _, _ := procGetClassNameW.Call(
		uintptr(hwnd),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(len(buf)),
	)
	if n == 0 {
		return ""
	}
	return windows.UTF16ToString(buf[:n])
}

// Callbacks made by windows.NewCallback are never released, so a single
// enumeration callback is shared and guarded by enumMu.
var (
	enumMu       sync.Mutex
	enumVisit    func(windows.Handle)
	enumCallback = windows.NewCallback(func(h uintptr, _ uintptr) uintptr {
		enumVisit(windows.Handle(h))
		return 1
	})
)

// TopLevelWindows returns all top-level windows in Z order.
func TopLevelWindows() []windows.Handle {
	enumMu.Lock()
	defer enumMu.Unlock()

	var hwnds []windows.Handle
	enumVisit = func(h windows.Handle) {
		hwnds = append(hwnds, h)
	}
	procEnumWindows.Call(enumCallback, 0)
	enumVisit = nil
	return hwnds
}

// ChildWindows returns the direct children of parent. EnumChildWindows walks
// every descendant, so grandchildren are filtered out by their parent.
func ChildWindows(parent windows.Handle) []windows.Handle {
	enumMu.Lock()
	defer enumMu.Unlock()

	var hwnds []windows.Handle
	enumVisit = func(h windows.Handle) {
		p, _, _ := procGetAncestor.Call(uintptr(h), gaParent)
		if windows.Handle(p) == parent {
			hwnds = append(hwnds, h)
		}
	}
	procEnumChildWindows.Call(uintptr(parent), enumCallback, 0)
	enumVisit = nil
	return hwnds
}
