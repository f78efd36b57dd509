//go:build linux

package platform

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

var keysymKeys = map[string]NativeKey{
	"Escape":       NativeEscape,
	"BackSpace":    NativeBackspace,
	"Tab":          NativeTab,
	"ISO_Left_Tab": NativeTab,
	"Return":       NativeReturn,
	"KP_Enter":     NativeReturn,
	"Pause":        NativePause,
	"Print":        NativePrint,
	"Left":         NativeLeft,
	"Up":           NativeUp,
	"Right":        NativeRight,
	"Down":         NativeDown,
	"Insert":       NativeInsert,
	"Delete":       NativeDelete,
	"Home":         NativeHome,
	"End":          NativeEnd,
	"Prior":        NativePageUp,
	"Next":         NativePageDown,
	"KP_Left":      NativeLeft,
	"KP_Up":        NativeUp,
	"KP_Right":     NativeRight,
	"KP_Down":      NativeDown,
	"KP_Insert":    NativeInsert,
	"KP_Delete":    NativeDelete,
	"KP_Home":      NativeHome,
	"KP_End":       NativeEnd,
	"KP_Prior":     NativePageUp,
	"KP_Next":      NativePageDown,
	"KP_Decimal":   NativeKPDecimal,
}

func init() {
	for i := 0; i < 12; i++ {
		keysymKeys[fmt.Sprintf("F%d", i+1)] = NativeF1 + NativeKey(i)
	}
	for i := 0; i < 10; i++ {
		keysymKeys[fmt.Sprintf("KP_%d", i)] = NativeKP0 + NativeKey(i)
	}
}

// keysymNames returns every keysym name that maps to k.
func keysymNames(k NativeKey) []string {
	var names []string
	for name, key := range keysymKeys {
		if key == k {
			names = append(names, name)
		}
	}
	return names
}

// translate turns one X event into zero or more window messages.
func (b *LinuxBackend) translate(ev xgb.Event) []Message {
	switch e := ev.(type) {
	case xproto.ExposeEvent:
		if e.Count != 0 || !b.known(e.Window) {
			return nil
		}
		return []Message{{Window: Handle(e.Window), Kind: MsgPaint}}

	case xproto.ConfigureNotifyEvent:
		return b.configureNotify(e)

	case xproto.ClientMessageEvent:
		if b.known(e.Window) && b.conn.IsDeleteWindow(e) {
			return []Message{{Window: Handle(e.Window), Kind: MsgClose}}
		}

	case xproto.KeyPressEvent:
		if e.Event == b.conn.Root {
			b.rootKeyMu.Lock()
			fn := b.onRootKey
			b.rootKeyMu.Unlock()
			if fn != nil {
				fn(e.State, e.Detail)
			}
			return nil
		}
		if !b.known(e.Event) {
			return nil
		}
		h := Handle(e.Event)
		key := keysymKeys[b.conn.KeyName(e.State, e.Detail)]
		msgs := []Message{{Window: h, Kind: MsgKeyDown, Key: key}}
		if key == NativeUnknown {
			if r := b.conn.KeyRune(e.State, e.Detail); r != 0 {
				msgs = append(msgs, Message{Window: h, Kind: MsgChar, Char: r})
			}
		}
		return msgs

	case xproto.KeyReleaseEvent:
		if !b.known(e.Event) {
			return nil
		}
		key := keysymKeys[b.conn.KeyName(e.State, e.Detail)]
		return []Message{{Window: Handle(e.Event), Kind: MsgKeyUp, Key: key}}

	case xproto.ButtonPressEvent:
		if !b.known(e.Event) {
			return nil
		}
		return buttonMessage(e)

	case xproto.MotionNotifyEvent:
		if !b.known(e.Event) {
			return nil
		}
		return []Message{{Window: Handle(e.Event), Kind: MsgMouseMove, X: int(e.EventX), Y: int(e.EventY)}}
	}
	return nil
}

func (b *LinuxBackend) known(id xproto.Window) bool {
	_, ok := b.windows[Handle(id)]
	return ok
}

func buttonMessage(e xproto.ButtonPressEvent) []Message {
	msg := Message{
		Window:   Handle(e.Event),
		Kind:     MsgButtonDown,
		X:        int(e.EventX),
		Y:        int(e.EventY),
		CtrlHeld: e.State&xproto.ModMaskControl != 0,
	}
	switch e.Detail {
	case 1:
		msg.Button = ButtonLeft
	case 2:
		msg.Button = ButtonMiddle
	case 3:
		msg.Button = ButtonRight
	case 4, 5:
		msg.Kind = MsgWheel
		msg.WheelDelta = 120
		if e.Detail == 5 {
			msg.WheelDelta = -120
		}
	case 8:
		msg.Button = ButtonX1
	case 9:
		msg.Button = ButtonX2
	default:
		return nil
	}
	return []Message{msg}
}

// configureNotify updates the geometry cache. A size change that does not
// match our last placement came from the user dragging a frame edge and is
// reported as MsgSizing before the MsgSize.
func (b *LinuxBackend) configureNotify(e xproto.ConfigureNotifyEvent) []Message {
	h := Handle(e.Window)
	w, ok := b.windows[h]
	if !ok {
		return nil
	}

	next := Rect{X: w.client.X, Y: w.client.Y, Width: int(e.Width), Height: int(e.Height)}
	if x, y, err := b.conn.ClientOrigin(w.id); err == nil {
		next.X, next.Y = x, y
	}
	prev := w.client
	w.client = next

	var msgs []Message
	resized := next.Width != prev.Width || next.Height != prev.Height
	if resized && w.parent == 0 && (next.Width != w.placed.Width || next.Height != w.placed.Height) {
		insets := b.FrameInsets(h, w.style)
		msgs = append(msgs, Message{
			Window: h,
			Kind:   MsgSizing,
			Rect:   insets.Grow(next),
			Edge:   draggedEdge(prev, next),
		})
	}
	if next.X != prev.X || next.Y != prev.Y {
		msgs = append(msgs, Message{Window: h, Kind: MsgMove})
	}
	if resized {
		msgs = append(msgs, Message{Window: h, Kind: MsgSize})
	}
	return msgs
}

// draggedEdge infers the resize handle from which edges moved.
func draggedEdge(prev, next Rect) Edge {
	left := next.X != prev.X && next.Right() == prev.Right()
	top := next.Y != prev.Y && next.Bottom() == prev.Bottom()
	right := !left && next.Right() != prev.Right()
	bottom := !top && next.Bottom() != prev.Bottom()

	switch {
	case top && left:
		return EdgeTopLeft
	case top && right:
		return EdgeTopRight
	case bottom && left:
		return EdgeBottomLeft
	case bottom && right:
		return EdgeBottomRight
	case left:
		return EdgeLeft
	case right:
		return EdgeRight
	case top:
		return EdgeTop
	case bottom:
		return EdgeBottom
	}
	return EdgeBottomRight
}
