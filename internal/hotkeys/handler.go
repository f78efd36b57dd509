package hotkeys

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/vidwin/internal/control"
)

// Enqueuer accepts window commands without waiting for them to run.
type Enqueuer interface {
	Enqueue(cmd control.Command) error
}

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
	SetRootKeyHandler(fn func(state uint16, detail xproto.Keycode))
}

// Bindings maps key sequences in keybind syntax ("Mod4-f") to commands.
// Empty sequences are skipped.
type Bindings struct {
	Fullscreen string
	Border     string
	OnTop      string
}

type combo struct {
	mods uint16
	key  xproto.Keycode
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	logger *slog.Logger

	mu       sync.Mutex
	bindings map[combo]func()
}

var ignoreModsOnce sync.Once

// NewHandler creates a hotkey handler on backend and routes its root key
// presses here. It returns an error when the backend is not X11.
func NewHandler(backend any, logger *slog.Logger) (*Handler, error) {
	accessor, ok := backend.(x11Accessor)
	if !ok || accessor.XUtil() == nil {
		return nil, fmt.Errorf("global hotkeys need an X11 backend")
	}
	if logger == nil {
		logger = slog.Default()
	}
	xu := accessor.XUtil()

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	h := &Handler{
		xu:       xu,
		root:     accessor.RootWindow(),
		logger:   logger,
		bindings: make(map[combo]func()),
	}
	accessor.SetRootKeyHandler(h.HandleKeyPress)
	return h, nil
}

// Register grabs every configured sequence and enqueues its command on
// q when pressed.
func (h *Handler) Register(b Bindings, q Enqueuer) error {
	for _, bind := range []struct {
		seq string
		cmd control.Command
	}{
		{b.Fullscreen, control.CmdFullscreen},
		{b.Border, control.CmdBorder},
		{b.OnTop, control.CmdOnTop},
	} {
		if bind.seq == "" {
			continue
		}
		cmd := bind.cmd
		if err := h.RegisterFunc(bind.seq, func() {
			h.logger.Debug("hotkey triggered", "command", cmd)
			if err := q.Enqueue(cmd); err != nil {
				h.logger.Warn("hotkey dropped", "command", cmd, "error", err)
			}
		}); err != nil {
			return fmt.Errorf("failed to register %s hotkey %q: %w", cmd, bind.seq, err)
		}
	}
	return nil
}

// RegisterFunc grabs keySequence on the root window and runs callback
// when it is pressed.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	mods, keycodes, err := keybind.ParseString(h.xu, keySequence)
	if err != nil {
		return err
	}
	if len(keycodes) == 0 {
		return fmt.Errorf("no keycode for %q", keySequence)
	}
	for _, kc := range keycodes {
		if err := keybind.GrabChecked(h.xu, h.root, mods, kc); err != nil {
			return fmt.Errorf("key already grabbed by another client: %w", err)
		}
		h.bind(mods, kc, callback)
	}
	return nil
}

func (h *Handler) bind(mods uint16, kc xproto.Keycode, callback func()) {
	h.mu.Lock()
	h.bindings[combo{mods, kc}] = callback
	h.mu.Unlock()
}

// HandleKeyPress runs the callback bound to a root key press, ignoring
// lock modifiers.
func (h *Handler) HandleKeyPress(state uint16, detail xproto.Keycode) {
	mods, kc := keybind.DeduceKeyInfo(state, detail)
	h.mu.Lock()
	callback := h.bindings[combo{mods, kc}]
	h.mu.Unlock()
	if callback != nil {
		callback()
	}
}

// Close releases every grab.
func (h *Handler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.bindings {
		keybind.Ungrab(h.xu, h.root, c.mods, c.key)
	}
	h.bindings = make(map[combo]func())
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
