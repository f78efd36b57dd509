package x11

import (
	"fmt"
	"log/slog"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
)

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window
	// Logger receives best-effort property write failures at debug level.
	Logger *slog.Logger

	randrOK bool
	saved   *crtcConfig
	blank   xproto.Cursor
}

// NewConnection connects to display (empty means $DISPLAY) and initializes
// the keyboard mapping and RandR.
func NewConnection(display string) (*Connection, error) {
	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X display %q: %w", display, err)
	}

	keybind.Initialize(xu)

	c := &Connection{
		XUtil:  xu,
		Root:   xu.RootWin(),
		Logger: slog.Default(),
	}
	c.randrOK = randr.Init(xu.Conn()) == nil
	return c, nil
}

// debugErr logs a failed property write that the window can live without.
func (c *Connection) debugErr(op string, id xproto.Window, err error) {
	if err != nil && c.Logger != nil {
		c.Logger.Debug("x11 property write failed", "op", op, "window", id, "error", err)
	}
}

// Depth returns the bit depth of the root window.
func (c *Connection) Depth() int {
	return int(c.XUtil.Screen().RootDepth)
}

// ScreenSize returns the root window size in pixels.
func (c *Connection) ScreenSize() (int, int) {
	s := c.XUtil.Screen()
	return int(s.WidthInPixels), int(s.HeightInPixels)
}

// Flush sends buffered requests to the server.
func (c *Connection) Flush() {
	c.XUtil.Sync()
}

// Close restores any switched display mode and disconnects.
func (c *Connection) Close() {
	if c.saved != nil {
		c.debugErr("restore mode", c.Root, c.RestoreMode())
	}
	c.XUtil.Conn().Close()
}
