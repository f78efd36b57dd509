package x11

import (
	"fmt"
	"math"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/motif"
	"github.com/BurntSushi/xgbutil/xwindow"
)

const (
	stateFullscreen = "_NET_WM_STATE_FULLSCREEN"
	stateAbove      = "_NET_WM_STATE_ABOVE"
)

// inputEvents is the event mask of a window accepting keyboard and mouse
// input; passiveEvents is used while input is disabled.
const (
	passiveEvents = xproto.EventMaskExposure | xproto.EventMaskStructureNotify
	inputEvents   = passiveEvents |
		xproto.EventMaskKeyPress | xproto.EventMaskKeyRelease |
		xproto.EventMaskButtonPress | xproto.EventMaskPointerMotion
)

// WindowOptions describes a window to create.
type WindowOptions struct {
	Class  string
	Title  string
	X, Y   int
	Width  int
	Height int
	// Parent is the container window, zero for a top-level window.
	Parent     xproto.Window
	Decorated  bool
	Fullscreen bool
}

// CreateWindow creates an unmapped window with the class, title and
// WM_DELETE_WINDOW protocol set.
func (c *Connection) CreateWindow(o WindowOptions) (xproto.Window, error) {
	win, err := xwindow.Generate(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate window id: %w", err)
	}

	parent := o.Parent
	if parent == 0 {
		parent = c.Root
	}
	err = win.CreateChecked(parent, o.X, o.Y, max(o.Width, 1), max(o.Height, 1),
		xproto.CwBackPixel|xproto.CwEventMask,
		c.XUtil.Screen().BlackPixel, inputEvents)
	if err != nil {
		return 0, fmt.Errorf("failed to create window: %w", err)
	}

	id := win.Id
	c.debugErr("WM_CLASS", id, icccm.WmClassSet(c.XUtil, id, &icccm.WmClass{Instance: o.Class, Class: o.Class}))
	c.SetTitle(id, o.Title)
	if err := icccm.WmProtocolsSet(c.XUtil, id, []string{"WM_DELETE_WINDOW"}); err != nil {
		win.Destroy()
		return 0, fmt.Errorf("failed to set WM_PROTOCOLS: %w", err)
	}

	if o.Parent == 0 {
		c.SetDecorations(id, o.Decorated)
		if o.Fullscreen {
			c.debugErr("_NET_WM_STATE", id, ewmh.WmStateSet(c.XUtil, id, []string{stateFullscreen}))
		}
	}
	return id, nil
}

// DestroyWindow destroys a window created by CreateWindow.
func (c *Connection) DestroyWindow(id xproto.Window) {
	xwindow.New(c.XUtil, id).Destroy()
}

// WindowExists reports whether id names a live window.
func (c *Connection) WindowExists(id xproto.Window) bool {
	if id == 0 {
		return false
	}
	_, err := xproto.GetWindowAttributes(c.XUtil.Conn(), id).Reply()
	return err == nil
}

// SetInputEnabled narrows the event mask so no keyboard or mouse events
// are delivered when enabled is false.
func (c *Connection) SetInputEnabled(id xproto.Window, enabled bool) {
	mask := uint32(passiveEvents)
	if enabled {
		mask = inputEvents
	}
	xproto.ChangeWindowAttributes(c.XUtil.Conn(), id, xproto.CwEventMask, []uint32{mask})
}

// SetTitle sets both the EWMH and ICCCM window names.
func (c *Connection) SetTitle(id xproto.Window, title string) {
	c.debugErr("_NET_WM_NAME", id, ewmh.WmNameSet(c.XUtil, id, title))
	c.debugErr("WM_NAME", id, icccm.WmNameSet(c.XUtil, id, title))
}

// SetDecorations asks the window manager to draw or drop the frame.
func (c *Connection) SetDecorations(id xproto.Window, on bool) {
	decor := uint(motif.DecorationNone)
	if on {
		decor = motif.DecorationAll
	}
	err := motif.WmHintsSet(c.XUtil, id, &motif.Hints{
		Flags:      motif.HintDecorations,
		Decoration: decor,
	})
	c.debugErr("_MOTIF_WM_HINTS", id, err)
}

// SetWmState adds or removes one _NET_WM_STATE atom. Unmapped windows get
// the property written directly; mapped windows must ask the window
// manager.
func (c *Connection) SetWmState(id xproto.Window, atom string, on, mapped bool) error {
	if mapped {
		action := ewmh.StateRemove
		if on {
			action = ewmh.StateAdd
		}
		return ewmh.WmStateReq(c.XUtil, id, action, atom)
	}

	states, _ := ewmh.WmStateGet(c.XUtil, id)
	next := states[:0:0]
	for _, s := range states {
		if s != atom {
			next = append(next, s)
		}
	}
	if on {
		next = append(next, atom)
	}
	return ewmh.WmStateSet(c.XUtil, id, next)
}

// SetFullscreen toggles _NET_WM_STATE_FULLSCREEN.
func (c *Connection) SetFullscreen(id xproto.Window, on, mapped bool) error {
	return c.SetWmState(id, stateFullscreen, on, mapped)
}

// SetAbove toggles _NET_WM_STATE_ABOVE.
func (c *Connection) SetAbove(id xproto.Window, on, mapped bool) error {
	return c.SetWmState(id, stateAbove, on, mapped)
}

// GetFrameExtents returns the window decoration sizes, if the window
// manager published them.
func (c *Connection) GetFrameExtents(id xproto.Window) (left, right, top, bottom int, ok bool) {
	extents, err := ewmh.FrameExtentsGet(c.XUtil, id)
	if err != nil {
		return 0, 0, 0, 0, false
	}
	return extents.Left, extents.Right, extents.Top, extents.Bottom, true
}

// MoveResizeWindow positions the client area of a top-level window. x and
// y are the outer frame origin; width and height are the client size.
func (c *Connection) MoveResizeWindow(id xproto.Window, x, y, width, height int) {
	err := ewmh.MoveresizeWindowExtra(c.XUtil, id, x, y, width, height,
		xproto.GravityNorthWest, 2, true, true)
	if err != nil {
		// No EWMH window manager to forward to.
		xwindow.New(c.XUtil, id).MoveResize(x, y, width, height)
	}
}

// ConfigureChild moves and resizes a window directly, bypassing the window
// manager. Used for embedded windows.
func (c *Connection) ConfigureChild(id xproto.Window, x, y, width, height int) {
	xwindow.New(c.XUtil, id).MoveResize(x, y, max(width, 1), max(height, 1))
}

// Geometry returns the window size.
func (c *Connection) Geometry(id xproto.Window) (width, height int, err error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(id)).Reply()
	if err != nil {
		return 0, 0, err
	}
	return int(geom.Width), int(geom.Height), nil
}

// ClientOrigin returns the root coordinates of the window's top-left
// corner.
func (c *Connection) ClientOrigin(id xproto.Window) (x, y int, err error) {
	translate, err := xproto.TranslateCoordinates(c.XUtil.Conn(), id, c.Root, 0, 0).Reply()
	if err != nil {
		return 0, 0, err
	}
	return int(translate.DstX), int(translate.DstY), nil
}

// SetAspectHint publishes a fixed aspect ratio in WM_NORMAL_HINTS so the
// window manager keeps interactive resizes proportional. A ratio of zero
// clears the constraint.
func (c *Connection) SetAspectHint(id xproto.Window, ratio float64) {
	hints := &icccm.NormalHints{
		Flags:      icccm.SizeHintPWinGravity,
		WinGravity: xproto.GravityNorthWest,
	}
	if ratio > 0 {
		const den = 1000
		num := uint(math.Round(ratio * den))
		hints.Flags |= icccm.SizeHintPAspect
		hints.MinAspectNum, hints.MinAspectDen = num, den
		hints.MaxAspectNum, hints.MaxAspectDen = num, den
	}
	c.debugErr("WM_NORMAL_HINTS", id, icccm.WmNormalHintsSet(c.XUtil, id, hints))
}

// MapWindow maps the window and asks the window manager to activate it.
func (c *Connection) MapWindow(id xproto.Window) {
	xwindow.New(c.XUtil, id).Map()
	c.debugErr("_NET_ACTIVE_WINDOW", id, c.activate(id))
}

func (c *Connection) activate(id xproto.Window) error {
	atomReply, err := xproto.InternAtom(c.XUtil.Conn(), false,
		uint16(len("_NET_ACTIVE_WINDOW")), "_NET_ACTIVE_WINDOW").Reply()
	if err != nil {
		return fmt.Errorf("failed to intern _NET_ACTIVE_WINDOW: %w", err)
	}

	const sourceIndication = 1 // application
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: id,
		Type:   atomReply.Atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{sourceIndication, 0, 0, 0, 0}),
	}

	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}

// BeginMoveDrag hands an in-progress left button drag to the window
// manager as an interactive move.
func (c *Connection) BeginMoveDrag(id xproto.Window) error {
	conn := c.XUtil.Conn()
	pointer, err := xproto.QueryPointer(conn, c.Root).Reply()
	if err != nil {
		return fmt.Errorf("failed to query pointer: %w", err)
	}
	xproto.UngrabPointer(conn, xproto.TimeCurrentTime)
	return ewmh.WmMoveresizeExtra(c.XUtil, id, ewmh.Move,
		int(pointer.RootX), int(pointer.RootY), 1, 1)
}
