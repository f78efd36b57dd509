package keys

import (
	"fmt"
	"strings"
)

// Code is an abstract key code: a printable character below MaxText or a
// special key above KeyBase, optionally combined with modifier bits.
type Code int32

const (
	KeyTab   Code = 9
	KeyEnter Code = 13

	// MaxText is the exclusive upper bound of character codes emitted as
	// text.
	MaxText Code = 1 << 21

	KeyBase Code = 0x1000000
)

const (
	KeyBackspace Code = KeyBase + iota
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyEsc
	KeyPrint
	KeyPause
	KeyCloseWin
)

const (
	KeyRight Code = KeyBase + 0x10 + iota
	KeyLeft
	KeyDown
	KeyUp
)

const (
	KeyKP0 Code = KeyBase + 0x20 + iota
	KeyKP1
	KeyKP2
	KeyKP3
	KeyKP4
	KeyKP5
	KeyKP6
	KeyKP7
	KeyKP8
	KeyKP9
	KeyKPDec
)

// KeyF is F0; KeyF+n is function key n.
const KeyF Code = KeyBase + 0x40

const mouseBase Code = KeyBase + 0x100

const (
	MouseBtn0 Code = mouseBase + iota
	MouseBtn1
	MouseBtn2
	MouseBtn3
	MouseBtn4
	MouseBtn5
	MouseBtn6
)

// Modifier bits.
const (
	ModShift Code = 1 << 25
	ModCtrl  Code = 1 << 26
	ModAlt   Code = 1 << 27

	ModMask = ModShift | ModCtrl | ModAlt
)

// Base strips modifier bits.
func (c Code) Base() Code { return c &^ ModMask }

// Mods returns only the modifier bits.
func (c Code) Mods() Code { return c & ModMask }

var specialNames = map[Code]string{
	KeyTab:       "TAB",
	KeyEnter:     "ENTER",
	KeyBackspace: "BS",
	KeyDelete:    "DEL",
	KeyInsert:    "INS",
	KeyHome:      "HOME",
	KeyEnd:       "END",
	KeyPageUp:    "PGUP",
	KeyPageDown:  "PGDWN",
	KeyEsc:       "ESC",
	KeyPrint:     "PRINT",
	KeyPause:     "PAUSE",
	KeyCloseWin:  "CLOSE_WIN",
	KeyRight:     "RIGHT",
	KeyLeft:      "LEFT",
	KeyDown:      "DOWN",
	KeyUp:        "UP",
	KeyKPDec:     "KP_DEC",
	MouseBtn0:    "MOUSE_BTN0",
	MouseBtn1:    "MOUSE_BTN1",
	MouseBtn2:    "MOUSE_BTN2",
	MouseBtn3:    "MOUSE_BTN3",
	MouseBtn4:    "MOUSE_BTN4",
	MouseBtn5:    "MOUSE_BTN5",
	MouseBtn6:    "MOUSE_BTN6",
}

// String renders the code the way input bindings name keys, e.g.
// "Ctrl+Shift+a" or "ESC".
func (c Code) String() string {
	var parts []string
	if c&ModCtrl != 0 {
		parts = append(parts, "Ctrl")
	}
	if c&ModAlt != 0 {
		parts = append(parts, "Alt")
	}
	if c&ModShift != 0 {
		parts = append(parts, "Shift")
	}
	parts = append(parts, c.Base().name())
	return strings.Join(parts, "+")
}

func (c Code) name() string {
	if name, ok := specialNames[c]; ok {
		return name
	}
	switch {
	case c >= KeyKP0 && c <= KeyKP9:
		return fmt.Sprintf("KP%d", c-KeyKP0)
	case c > KeyF && c <= KeyF+24:
		return fmt.Sprintf("F%d", c-KeyF)
	case c == ' ':
		return "SPACE"
	case c > ' ' && c < MaxText:
		return string(rune(c))
	}
	return fmt.Sprintf("0x%x", int32(c))
}
