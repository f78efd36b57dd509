package platform

// MessageKind identifies a native window message.
type MessageKind int

const (
	MsgNone MessageKind = iota
	MsgPaint
	MsgEraseBackground
	MsgMove
	MsgSize
	// MsgSizing is an interactive resize in progress. Rect holds the
	// proposed outer rectangle and Edge the handle being dragged.
	MsgSizing
	MsgClose
	MsgSysCommand
	MsgKeyDown
	MsgKeyUp
	MsgChar
	MsgButtonDown
	MsgWheel
	MsgMouseMove
)

var messageKindNames = [...]string{
	MsgNone:            "none",
	MsgPaint:           "paint",
	MsgEraseBackground: "erase-background",
	MsgMove:            "move",
	MsgSize:            "size",
	MsgSizing:          "sizing",
	MsgClose:           "close",
	MsgSysCommand:      "syscommand",
	MsgKeyDown:         "key-down",
	MsgKeyUp:           "key-up",
	MsgChar:            "char",
	MsgButtonDown:      "button-down",
	MsgWheel:           "wheel",
	MsgMouseMove:       "mouse-move",
}

func (k MessageKind) String() string {
	if k >= 0 && int(k) < len(messageKindNames) {
		return messageKindNames[k]
	}
	return "unknown"
}

// Edge identifies the resize handle under the pointer during MsgSizing.
type Edge int

const (
	EdgeNone Edge = iota
	EdgeLeft
	EdgeRight
	EdgeTop
	EdgeTopLeft
	EdgeTopRight
	EdgeBottom
	EdgeBottomLeft
	EdgeBottomRight
)

// MouseButton identifies a pointer button.
type MouseButton int

const (
	ButtonLeft MouseButton = iota
	ButtonMiddle
	ButtonRight
	ButtonX1
	ButtonX2
)

// SysCommand is the payload of MsgSysCommand.
type SysCommand int

const (
	SysCommandOther SysCommand = iota
	SysCommandScreenSave
	SysCommandMonitorPower
)

// Message is one native event destined for a window.
type Message struct {
	Window Handle
	Kind   MessageKind

	Key  NativeKey
	Char rune

	Button MouseButton
	// CtrlHeld reports the control key state carried in a button message.
	CtrlHeld   bool
	WheelDelta int
	X, Y       int

	Rect Rect
	Edge Edge

	SysCommand SysCommand
}

// Reply is the dispatcher's answer to a message.
type Reply struct {
	Handled bool
	// Rect overrides the proposed rectangle of a handled MsgSizing.
	Rect Rect
}

// NativeKey is a platform-neutral virtual key code.
type NativeKey int

const (
	NativeUnknown NativeKey = iota
	NativeEscape
	NativeBackspace
	NativeTab
	NativeReturn
	NativePause
	NativePrint
	NativeLeft
	NativeUp
	NativeRight
	NativeDown
	NativeInsert
	NativeDelete
	NativeHome
	NativeEnd
	NativePageUp
	NativePageDown
	NativeF1
	NativeF2
	NativeF3
	NativeF4
	NativeF5
	NativeF6
	NativeF7
	NativeF8
	NativeF9
	NativeF10
	NativeF11
	NativeF12
	NativeKP0
	NativeKP1
	NativeKP2
	NativeKP3
	NativeKP4
	NativeKP5
	NativeKP6
	NativeKP7
	NativeKP8
	NativeKP9
	NativeKPDecimal

	// Modifier keys, only meaningful for IsKeyDown.
	NativeControl
	NativeShift
	NativeAlt
	// NativeAltGr is the alternate graphics modifier (right Alt / ISO
	// level 3 shift).
	NativeAltGr
)
