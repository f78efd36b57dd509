package window

import (
	"github.com/1broseidon/vidwin/internal/keys"
	"github.com/1broseidon/vidwin/internal/platform"
	"github.com/1broseidon/vidwin/internal/resize"
)

// EventFlags report what happened during one PollEvents call.
type EventFlags uint32

const (
	EventResize EventFlags = 1 << iota
	EventMove
	EventExpose
	EventClose
)

func (f EventFlags) Has(flag EventFlags) bool { return f&flag != 0 }

var handled = platform.Reply{Handled: true}

// PollEvents drains every pending native message without blocking and
// returns the accumulated event flags.
func (w *Window) PollEvents() EventFlags {
	w.flags = 0
	for {
		msg, ok := w.backend.PeekMessage()
		if !ok {
			break
		}
		owner := w.registry.Lookup(msg.Window)
		if owner == nil {
			w.backend.Dispatch(msg, platform.Reply{})
			continue
		}
		w.backend.Dispatch(msg, owner.handleMessage(msg))
	}

	if w.Embedded() && w.handle != 0 {
		w.syncEmbedded()
	}
	return w.flags
}

func (w *Window) syncEmbedded() {
	moved, resized := w.syncGeometry()
	if resized {
		w.flags |= EventResize
	}
	if moved {
		w.flags |= EventMove
	}

	parent := platform.Handle(w.opts.EmbedWindow)
	if r, ok := w.backend.ClientRect(parent); ok && (r.Width != w.state.Width || r.Height != w.state.Height) {
		w.backend.MoveWindow(w.handle, platform.Rect{Width: r.Width, Height: r.Height})
	}
	if !w.backend.IsWindow(parent) {
		w.logger.Debug("container window is gone, requesting close")
		w.keys.PutKey(keys.KeyCloseWin)
		w.flags |= EventClose
	}
}

func (w *Window) handleMessage(msg platform.Message) platform.Reply {
	st := &w.state

	switch msg.Kind {
	case platform.MsgEraseBackground:
		return handled

	case platform.MsgPaint:
		w.flags |= EventExpose

	case platform.MsgMove:
		w.flags |= EventMove
		if p, ok := w.backend.ClientOrigin(w.handle); ok {
			st.X, st.Y = p.X, p.Y
		}
		w.logger.Debug("window moved", "x", st.X, "y", st.Y)

	case platform.MsgSize:
		w.flags |= EventResize
		if r, ok := w.backend.ClientRect(w.handle); ok {
			st.Width, st.Height = r.Width, r.Height
		}
		w.logger.Debug("window resized", "width", st.Width, "height", st.Height)

	case platform.MsgSizing:
		if resize.Active(w.opts.KeepAspect, st.Fullscreen, w.Embedded()) {
			insets := w.backend.FrameInsets(w.handle, w.style())
			return platform.Reply{
				Handled: true,
				Rect:    resize.Constrain(msg.Rect, msg.Edge, w.aspect.Ratio(), insets),
			}
		}

	case platform.MsgClose:
		w.flags |= EventClose
		w.keys.PutKey(keys.KeyCloseWin)
		return handled

	case platform.MsgSysCommand:
		switch msg.SysCommand {
		case platform.SysCommandScreenSave, platform.SysCommandMonitorPower:
			w.logger.Debug("suppressing screensaver activation")
			return handled
		}

	case platform.MsgKeyDown:
		if code, ok := w.translator.KeyDown(msg.Key); ok {
			w.keys.PutKey(code)
		}
		if keys.IsMenuAccelerator(msg.Key) {
			return handled
		}

	case platform.MsgKeyUp:
		if keys.IsMenuAccelerator(msg.Key) {
			return handled
		}

	case platform.MsgChar:
		if code, ok := w.translator.Char(msg.Char); ok {
			w.keys.PutKey(code)
			return handled
		}

	case platform.MsgButtonDown:
		return w.handleButton(msg)

	case platform.MsgWheel:
		if w.opts.MouseInput {
			btn := keys.MouseBtn4
			if msg.WheelDelta > 0 {
				btn = keys.MouseBtn3
			}
			w.keys.PutKey(btn | w.translator.Modifiers())
		}

	case platform.MsgMouseMove:
		if w.mouse != nil {
			w.mouse.MouseMoved(msg.X, msg.Y)
		}
	}
	return platform.Reply{}
}

func (w *Window) handleButton(msg platform.Message) platform.Reply {
	if msg.Button == platform.ButtonLeft {
		if w.opts.MouseInput && (w.state.Fullscreen || msg.CtrlHeld) {
			w.keys.PutKey(keys.MouseBtn0 | w.translator.Modifiers())
			return platform.Reply{}
		}
		if !w.state.Fullscreen {
			w.backend.BeginMoveDrag(w.handle)
			return handled
		}
		return platform.Reply{}
	}

	if !w.opts.MouseInput {
		return platform.Reply{}
	}
	var btn keys.Code
	switch msg.Button {
	case platform.ButtonMiddle:
		btn = keys.MouseBtn1
	case platform.ButtonRight:
		btn = keys.MouseBtn2
	case platform.ButtonX1:
		btn = keys.MouseBtn5
	case platform.ButtonX2:
		btn = keys.MouseBtn6
	default:
		return platform.Reply{}
	}
	w.keys.PutKey(btn | w.translator.Modifiers())
	return platform.Reply{}
}
