package keys

import "github.com/1broseidon/vidwin/internal/platform"

var lookup = map[platform.NativeKey]Code{
	platform.NativeEscape:    KeyEsc,
	platform.NativeBackspace: KeyBackspace,
	platform.NativeTab:       KeyTab,
	platform.NativeReturn:    KeyEnter,
	platform.NativePause:     KeyPause,
	platform.NativePrint:     KeyPrint,
	platform.NativeLeft:      KeyLeft,
	platform.NativeUp:        KeyUp,
	platform.NativeRight:     KeyRight,
	platform.NativeDown:      KeyDown,
	platform.NativeInsert:    KeyInsert,
	platform.NativeDelete:    KeyDelete,
	platform.NativeHome:      KeyHome,
	platform.NativeEnd:       KeyEnd,
	platform.NativePageUp:    KeyPageUp,
	platform.NativePageDown:  KeyPageDown,
	platform.NativeKPDecimal: KeyKPDec,
}

func init() {
	for i := 0; i < 12; i++ {
		lookup[platform.NativeF1+platform.NativeKey(i)] = KeyF + Code(i+1)
	}
	for i := 0; i < 10; i++ {
		lookup[platform.NativeKP0+platform.NativeKey(i)] = KeyKP0 + Code(i)
	}
}

// Lookup maps a native virtual key to its abstract code.
func Lookup(k platform.NativeKey) (Code, bool) {
	c, ok := lookup[k]
	return c, ok
}

// IsMenuAccelerator reports whether the native system treats k as the
// menu-bar accelerator, which must be consumed rather than forwarded.
func IsMenuAccelerator(k platform.NativeKey) bool {
	return k == platform.NativeF10
}

// KeyState reports the live physical state of a key.
type KeyState interface {
	IsKeyDown(k platform.NativeKey) bool
}

// Translator turns native key and character messages into abstract codes.
// Modifiers are always sampled from the live key state at translation time.
type Translator struct {
	state KeyState
}

// NewTranslator returns a translator sampling modifiers from state.
func NewTranslator(state KeyState) *Translator {
	return &Translator{state: state}
}

// Modifiers returns the currently held Ctrl/Shift/Alt mask.
func (t *Translator) Modifiers() Code {
	var mods Code
	if t.state.IsKeyDown(platform.NativeControl) {
		mods |= ModCtrl
	}
	if t.state.IsKeyDown(platform.NativeShift) {
		mods |= ModShift
	}
	if t.state.IsKeyDown(platform.NativeAlt) {
		mods |= ModAlt
	}
	return mods
}

// KeyDown translates a key-down message. Keys without a table entry are
// left to character input.
func (t *Translator) KeyDown(k platform.NativeKey) (Code, bool) {
	c, ok := Lookup(k)
	if !ok {
		return 0, false
	}
	return c | t.Modifiers(), true
}

// Char translates a character-input message. It reports false for codes
// that must not be emitted as text.
func (t *Translator) Char(raw rune) (Code, bool) {
	mods := t.Modifiers()
	code := Code(raw)

	if t.state.IsKeyDown(platform.NativeAltGr) {
		mods &^= ModCtrl | ModAlt
	}
	// Ctrl+J and Enter share a raw code; only remap when Enter is up.
	if mods&ModCtrl != 0 && code >= 1 && code <= 26 && !t.state.IsKeyDown(platform.NativeReturn) {
		base := Code('a')
		if mods&ModShift != 0 {
			base = 'A'
		}
		code = code - 1 + base
	}
	if code < 32 || code >= MaxText {
		return 0, false
	}
	return code | mods, true
}
