package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xinerama"
)

// Monitor represents a physical display
type Monitor struct {
	ID      int
	Name    string
	X       int
	Y       int
	Width   int
	Height  int
	Primary bool
}

// GetMonitors returns the active monitors in CRTC order. RandR is tried
// first, then Xinerama, then the root window as a single monitor.
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if c.randrOK {
		if monitors, err := c.randrMonitors(); err == nil && len(monitors) > 0 {
			return monitors, nil
		}
	}

	heads, err := xinerama.PhysicalHeads(c.XUtil)
	if err == nil && len(heads) > 0 {
		monitors := make([]Monitor, 0, len(heads))
		for i, h := range heads {
			monitors = append(monitors, Monitor{
				ID:      i,
				Name:    fmt.Sprintf("Xinerama%d", i),
				X:       h.X(),
				Y:       h.Y(),
				Width:   h.Width(),
				Height:  h.Height(),
				Primary: i == 0,
			})
		}
		return monitors, nil
	}

	w, h := c.ScreenSize()
	return []Monitor{{Name: "root", Width: w, Height: h, Primary: true}}, nil
}

func (c *Connection) randrMonitors() ([]Monitor, error) {
	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var primary randr.Output
	if reply, err := randr.GetOutputPrimary(c.XUtil.Conn(), c.Root).Reply(); err == nil {
		primary = reply.Output
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		// Skip disabled CRTCs
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		if out, err := randr.GetOutputInfo(c.XUtil.Conn(), info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}

		isPrimary := false
		for _, o := range info.Outputs {
			if o == primary {
				isPrimary = true
			}
		}

		monitors = append(monitors, Monitor{
			ID:      i,
			Name:    name,
			X:       int(info.X),
			Y:       int(info.Y),
			Width:   int(info.Width),
			Height:  int(info.Height),
			Primary: isPrimary,
		})
	}

	if len(monitors) > 0 && primary == 0 {
		monitors[0].Primary = true
	}
	return monitors, nil
}

// VirtualBounds returns the bounding rectangle of all monitors.
func VirtualBounds(monitors []Monitor) (x, y, width, height int) {
	if len(monitors) == 0 {
		return 0, 0, 0, 0
	}
	x1, y1 := monitors[0].X, monitors[0].Y
	x2, y2 := x1+monitors[0].Width, y1+monitors[0].Height
	for _, m := range monitors[1:] {
		x1 = min(x1, m.X)
		y1 = min(y1, m.Y)
		x2 = max(x2, m.X+m.Width)
		y2 = max(y2, m.Y+m.Height)
	}
	return x1, y1, x2 - x1, y2 - y1
}

// WindowRootRect returns the geometry of windowID in root coordinates.
func (c *Connection) WindowRootRect(windowID xproto.Window) (x, y, width, height int, err error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to get geometry: %w", err)
	}
	translate, err := xproto.TranslateCoordinates(c.XUtil.Conn(), windowID, c.Root, 0, 0).Reply()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to translate coordinates: %w", err)
	}
	return int(translate.DstX), int(translate.DstY), int(geom.Width), int(geom.Height), nil
}
