package x11

import (
	"errors"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// allDesktops is the _NET_WM_DESKTOP value of sticky windows.
const allDesktops = 0xFFFFFFFF

// ClientWindows returns the EWMH managed client list in window manager order.
func (c *Connection) ClientWindows() ([]xproto.Window, error) {
	return ewmh.ClientListGet(c.XUtil)
}

// ChildWindows returns the direct children of a window in stacking order.
func (c *Connection) ChildWindows(windowID xproto.Window) ([]xproto.Window, error) {
	reply, err := xproto.QueryTree(c.XUtil.Conn(), windowID).Reply()
	if err != nil {
		return nil, staleIfBadWindow(err)
	}
	return reply.Children, nil
}

// IsNormalWindow reports whether a client is an application window whose
// opacity the user may want to change. A missing or unreadable
// _NET_WM_WINDOW_TYPE counts as normal.
func (c *Connection) IsNormalWindow(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		return true
	}
	return isApplicationType(types)
}

// isApplicationType applies the first type in preference order that is
// either accepted or rejected; a list of only other types is rejected.
func isApplicationType(types []string) bool {
	if len(types) == 0 {
		return true
	}
	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL", "_NET_WM_WINDOW_TYPE_DIALOG":
			return true
		case "_NET_WM_WINDOW_TYPE_DESKTOP", "_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_SPLASH", "_NET_WM_WINDOW_TYPE_NOTIFICATION":
			return false
		}
	}
	return false
}

// IsViewable reports whether the window and all its ancestors are mapped.
func (c *Connection) IsViewable(windowID xproto.Window) (bool, error) {
	attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	if err != nil {
		return false, staleIfBadWindow(err)
	}
	return attrs.MapState == xproto.MapStateViewable, nil
}

// IsHidden reports whether the window manager marks the window minimized or
// places it on a desktop other than the current one.
func (c *Connection) IsHidden(windowID xproto.Window) bool {
	if states, err := ewmh.WmStateGet(c.XUtil, windowID); err == nil {
		for _, state := range states {
			if state == "_NET_WM_STATE_HIDDEN" {
				return true
			}
		}
	}

	current, err := ewmh.CurrentDesktopGet(c.XUtil)
	if err != nil {
		return false
	}
	desktop, err := ewmh.WmDesktopGet(c.XUtil, windowID)
	if err != nil || desktop == allDesktops {
		return false
	}
	return desktop != current
}

// WindowTitle returns the window title, preferring _NET_WM_NAME over WM_NAME.
func (c *Connection) WindowTitle(windowID xproto.Window) string {
	title, err := ewmh.WmNameGet(c.XUtil, windowID)
	if err == nil {
		title = strings.TrimSpace(title)
		if title != "" {
			return title
		}
	}

	title, err = icccm.WmNameGet(c.XUtil, windowID)
	if err == nil {
		title = strings.TrimSpace(title)
		if title != "" {
			return title
		}
	}

	return ""
}

// WindowClass returns the WM_CLASS class part, or "" when unset.
func (c *Connection) WindowClass(windowID xproto.Window) string {
	wmClass, err := icccm.WmClassGet(c.XUtil, windowID)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(wmClass.Class)
}

// Exists reports whether the window id still resolves on the server.
func (c *Connection) Exists(windowID xproto.Window) bool {
	_, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	return err == nil
}

// ErrBadWindow is returned when the X server no longer knows a window.
var ErrBadWindow = errors.New("BadWindow")

func staleIfBadWindow(err error) error {
	var bad xproto.WindowError
	if errors.As(err, &bad) {
		return ErrBadWindow
	}
	return err
}
