//go:build linux

package platform

import (
	"errors"
	"fmt"

	"github.com/1broseidon/wintrans/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

func init() {
	NewBackendFunc = func() (Backend, error) {
		return NewLinuxBackendFromDisplay("")
	}
}

// LinuxBackend wraps an X11 connection behind the platform Backend interface.
// Translucency is realized through the compositor's _NET_WM_WINDOW_OPACITY.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay opens a fresh X11 connection to display
// ($DISPLAY when empty).
func NewLinuxBackendFromDisplay(display string) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoDisplay, err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Close closes the underlying X11 connection.
func (b *LinuxBackend) Close() error {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
	return nil
}

// Compositing reports whether a compositor will honor opacity changes.
func (b *LinuxBackend) Compositing() bool {
	return b != nil && b.conn != nil && b.conn.Compositing()
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// QuitEventLoop stops a running EventLoop.
func (b *LinuxBackend) QuitEventLoop() {
	if b != nil && b.conn != nil {
		b.conn.Quit()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// Root returns the virtual root element whose children are the managed clients.
func (b *LinuxBackend) Root() (Element, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}
	return &x11Element{conn: conn, id: conn.Root, root: true}, nil
}

// EnableLayered sets the compositor opacity on a window.
func (b *LinuxBackend) EnableLayered(id WindowID, alpha uint8) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	if err := conn.SetOpacity(xproto.Window(id), alpha); err != nil {
		return &StyleError{Op: "SetOpacity", ID: id, Err: mapX11Error(err)}
	}
	return nil
}

// DisableLayered removes the compositor opacity from a window.
func (b *LinuxBackend) DisableLayered(id WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	if err := conn.ClearOpacity(xproto.Window(id)); err != nil {
		return &StyleError{Op: "ClearOpacity", ID: id, Err: mapX11Error(err)}
	}
	return nil
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

func mapX11Error(err error) error {
	if errors.Is(err, x11.ErrBadWindow) {
		return ErrStaleWindow
	}
	return err
}

// x11Element adapts an X11 window to the Element interface. The root element
// lists EWMH clients; any other element lists its QueryTree children.
type x11Element struct {
	conn   *x11.Connection
	id     xproto.Window
	root   bool
	client bool
}

func (e *x11Element) ID() WindowID { return WindowID(e.id) }

func (e *x11Element) ControlType() ControlType {
	if e.client && e.conn.IsNormalWindow(e.id) {
		return ControlWindow
	}
	return ControlOther
}

func (e *x11Element) Name() (string, error) {
	if !e.conn.Exists(e.id) {
		return "", ErrStaleWindow
	}
	return e.conn.WindowTitle(e.id), nil
}

func (e *x11Element) ClassName() (string, error) {
	if !e.conn.Exists(e.id) {
		return "", ErrStaleWindow
	}
	return e.conn.WindowClass(e.id), nil
}

func (e *x11Element) IsOffscreen() (bool, error) {
	if e.root {
		return false, nil
	}
	viewable, err := e.conn.IsViewable(e.id)
	if err != nil {
		return false, mapX11Error(err)
	}
	if !viewable {
		return true, nil
	}
	return e.client && e.conn.IsHidden(e.id), nil
}

// IsEnabled is always true: X11 has no notion of disabled windows.
func (e *x11Element) IsEnabled() (bool, error) {
	return true, nil
}

func (e *x11Element) Children() ([]Element, error) {
	var ids []xproto.Window
	var err error
	if e.root {
		ids, err = e.conn.ClientWindows()
	} else {
		ids, err = e.conn.ChildWindows(e.id)
	}
	if err != nil {
		return nil, mapX11Error(err)
	}

	children := make([]Element, 0, len(ids))
	for _, id := range ids {
		children = append(children, &x11Element{conn: e.conn, id: id, client: e.root})
	}
	return children, nil
}
