package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/keybind"
)

// KeyGroup names the physical keys that make up one logical key.
type KeyGroup []string

var (
	GroupControl = KeyGroup{"Control_L", "Control_R"}
	GroupShift   = KeyGroup{"Shift_L", "Shift_R"}
	GroupAlt     = KeyGroup{"Alt_L", "Meta_L"}
	GroupAltGr   = KeyGroup{"ISO_Level3_Shift", "Mode_switch"}
	GroupReturn  = KeyGroup{"Return", "KP_Enter"}
)

// KeyDown reports whether any key of the group is physically held right
// now, sampled with QueryKeymap.
func (c *Connection) KeyDown(group KeyGroup) bool {
	reply, err := xproto.QueryKeymap(c.XUtil.Conn()).Reply()
	if err != nil {
		return false
	}
	for _, name := range group {
		for _, kc := range keybind.StrToKeycodes(c.XUtil, name) {
			if reply.Keys[kc/8]&(1<<(kc%8)) != 0 {
				return true
			}
		}
	}
	return false
}

// KeyName returns the keysym name for keycode. Keypad keys report their
// digit symbol while NumLock (Mod2) is on.
func (c *Connection) KeyName(state uint16, kc xproto.Keycode) string {
	if state&xproto.ModMask2 != 0 {
		if name := keybind.KeysymToStr(keybind.KeysymGet(c.XUtil, kc, 1)); isKeypadDigit(name) {
			return name
		}
	}
	return keybind.KeysymToStr(keybind.KeysymGet(c.XUtil, kc, 0))
}

func isKeypadDigit(name string) bool {
	return name == "KP_Decimal" ||
		len(name) == 4 && name[:3] == "KP_" && name[3] >= '0' && name[3] <= '9'
}

// KeyRune returns the character produced by keycode with the given
// modifier state, or zero when the key is not a character key.
func (c *Connection) KeyRune(state uint16, kc xproto.Keycode) rune {
	col := byte(0)
	shift := state&xproto.ModMaskShift != 0
	lock := state&xproto.ModMaskLock != 0
	if shift != lock {
		col = 1
	}
	r := keysymRune(keybind.KeysymGet(c.XUtil, kc, col))
	if r == 0 && col == 1 {
		r = keysymRune(keybind.KeysymGet(c.XUtil, kc, 0))
	}
	if r == 0 {
		return 0
	}
	if state&xproto.ModMaskControl != 0 {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			return r & 0x1f
		}
	}
	return r
}

// keysymRune converts a character keysym to Unicode. Latin-1 keysyms equal
// their code point; keysyms 0x01000000 and above carry the code point in
// their low bits.
func keysymRune(ks xproto.Keysym) rune {
	switch {
	case ks >= 0x20 && ks <= 0x7e, ks >= 0xa0 && ks <= 0xff:
		return rune(ks)
	case ks >= 0x01000100 && ks <= 0x0110ffff:
		return rune(ks - 0x01000000)
	}
	return 0
}

// GrabKey grabs a key combination on the root window, across the ignored
// lock modifiers.
func (c *Connection) GrabKey(mods uint16, kc xproto.Keycode) error {
	return keybind.GrabChecked(c.XUtil, c.Root, mods, kc)
}

// UngrabKey releases a grab made by GrabKey.
func (c *Connection) UngrabKey(mods uint16, kc xproto.Keycode) {
	keybind.Ungrab(c.XUtil, c.Root, mods, kc)
}
