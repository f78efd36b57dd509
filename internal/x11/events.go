package x11

import (
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
)

// NextEvent returns the next queued X event without blocking. Protocol
// errors are passed to onError and skipped.
func (c *Connection) NextEvent(onError func(xgb.Error)) (xgb.Event, bool) {
	for {
		if xevent.Empty(c.XUtil) {
			xevent.Read(c.XUtil, false)
			if xevent.Empty(c.XUtil) {
				return nil, false
			}
		}
		ev, err := xevent.Dequeue(c.XUtil)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			continue
		}
		if ev != nil {
			return ev, true
		}
	}
}

// IsDeleteWindow reports whether ev is a WM_DELETE_WINDOW protocol message.
func (c *Connection) IsDeleteWindow(ev xproto.ClientMessageEvent) bool {
	protocols, err := xprop.Atm(c.XUtil, "WM_PROTOCOLS")
	if err != nil || ev.Type != protocols || ev.Format != 32 {
		return false
	}
	del, err := xprop.Atm(c.XUtil, "WM_DELETE_WINDOW")
	if err != nil {
		return false
	}
	return xproto.Atom(ev.Data.Data32[0]) == del
}

// ClearWindow repaints the whole window with its background pixel.
func (c *Connection) ClearWindow(id xproto.Window) {
	xproto.ClearArea(c.XUtil.Conn(), false, id, 0, 0, 0, 0)
}
