package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xprop"
)

// opacityAtom is read by compositors (picom, KWin, Mutter, xcompmgr) as the
// per-window alpha, scaled to the full CARDINAL range.
const opacityAtom = "_NET_WM_WINDOW_OPACITY"

// OpacityValue scales an 8-bit alpha to the _NET_WM_WINDOW_OPACITY range.
// 255 maps to 0xFFFFFFFF and 0 to 0.
func OpacityValue(alpha uint8) uint32 {
	return uint32(alpha) * 0x01010101
}

// SetOpacity sets the compositor opacity property on a window.
func (c *Connection) SetOpacity(windowID xproto.Window, alpha uint8) error {
	if err := xprop.ChangeProp32(c.XUtil, windowID, opacityAtom, "CARDINAL", uint(OpacityValue(alpha))); err != nil {
		return staleIfBadWindow(err)
	}
	return nil
}

// ClearOpacity removes the opacity property, restoring full native opacity.
// Removing an absent property is not an error.
func (c *Connection) ClearOpacity(windowID xproto.Window) error {
	atom, err := xprop.Atm(c.XUtil, opacityAtom)
	if err != nil {
		return fmt.Errorf("failed to intern %s: %w", opacityAtom, err)
	}
	if err := xproto.DeletePropertyChecked(c.XUtil.Conn(), windowID, atom).Check(); err != nil {
		return staleIfBadWindow(err)
	}
	return nil
}
