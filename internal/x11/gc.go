package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
)

// Visual is a TrueColor visual chosen for drawing.
type Visual struct {
	ID    xproto.Visualid
	Depth int
}

// ErrStereoUnsupported is returned when a stereo surface is requested;
// the core protocol has no stereo visuals.
var ErrStereoUnsupported = errors.New("stereo visuals are not supported")

// NewGC creates a graphics context for drawable.
func (c *Connection) NewGC(drawable xproto.Drawable) (xproto.Gcontext, error) {
	conn := c.XUtil.Conn()
	gc, err := xproto.NewGcontextId(conn)
	if err != nil {
		return 0, err
	}
	err = xproto.CreateGCChecked(conn, gc, drawable,
		xproto.GcForeground|xproto.GcGraphicsExposures,
		[]uint32{c.XUtil.Screen().WhitePixel, 0}).Check()
	if err != nil {
		return 0, fmt.Errorf("failed to create graphics context: %w", err)
	}
	return gc, nil
}

// FreeGC releases a graphics context made by NewGC.
func (c *Connection) FreeGC(gc xproto.Gcontext) {
	xproto.FreeGC(c.XUtil.Conn(), gc)
}

// ScreenRoot returns the root window of screen n, or false when the
// server has no such screen.
func (c *Connection) ScreenRoot(n int) (xproto.Window, bool) {
	roots := c.XUtil.Setup().Roots
	if n < 0 || n >= len(roots) {
		return 0, false
	}
	return roots[n].Root, true
}

// ChooseVisual returns the shallowest TrueColor visual of the default
// screen with at least minDepth bits.
func (c *Connection) ChooseVisual(minDepth int, stereo bool) (Visual, error) {
	if stereo {
		return Visual{}, ErrStereoUnsupported
	}
	var best Visual
	for _, d := range c.XUtil.Screen().AllowedDepths {
		if int(d.Depth) < minDepth || best.ID != 0 && int(d.Depth) >= best.Depth {
			continue
		}
		for _, v := range d.Visuals {
			if v.Class == xproto.VisualClassTrueColor {
				best = Visual{ID: v.VisualId, Depth: int(d.Depth)}
				break
			}
		}
	}
	if best.ID == 0 {
		return Visual{}, fmt.Errorf("no TrueColor visual with depth >= %d", minDepth)
	}
	return best, nil
}
