package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
)

// Mode is one RandR mode usable by the primary output.
type Mode struct {
	ID      uint32
	Width   int
	Height  int
	Depth   int
	Refresh float64
}

// crtcConfig is the CRTC state saved before the first mode switch.
type crtcConfig struct {
	crtc     randr.Crtc
	x, y     int16
	mode     randr.Mode
	rotation uint16
	outputs  []randr.Output
}

var errNoRandR = errors.New("randr extension unavailable")

// primaryCrtc returns the output and CRTC driving the primary monitor.
func (c *Connection) primaryCrtc(res *randr.GetScreenResourcesReply) (randr.Output, randr.Crtc, error) {
	conn := c.XUtil.Conn()

	if reply, err := randr.GetOutputPrimary(conn, c.Root).Reply(); err == nil && reply.Output != 0 {
		out, err := randr.GetOutputInfo(conn, reply.Output, res.ConfigTimestamp).Reply()
		if err == nil && out.Crtc != 0 {
			return reply.Output, out.Crtc, nil
		}
	}

	// No primary output set: use the first enabled CRTC.
	for _, crtc := range res.Crtcs {
		info, err := randr.GetCrtcInfo(conn, crtc, res.ConfigTimestamp).Reply()
		if err != nil || info.Mode == 0 || len(info.Outputs) == 0 {
			continue
		}
		return info.Outputs[0], crtc, nil
	}
	return 0, 0, fmt.Errorf("no active crtc")
}

// CurrentMode returns the mode of the primary CRTC, or the root window size
// when RandR cannot tell.
func (c *Connection) CurrentMode() (Mode, error) {
	w, h := c.ScreenSize()
	fallback := Mode{Width: w, Height: h, Depth: c.Depth()}
	if !c.randrOK {
		return fallback, nil
	}

	res, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return Mode{}, fmt.Errorf("failed to get screen resources: %w", err)
	}
	_, crtc, err := c.primaryCrtc(res)
	if err != nil {
		return fallback, nil
	}
	info, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, res.ConfigTimestamp).Reply()
	if err != nil {
		return Mode{}, fmt.Errorf("failed to get crtc info: %w", err)
	}
	for _, mi := range res.Modes {
		if randr.Mode(mi.Id) == info.Mode {
			return c.modeFromInfo(mi), nil
		}
	}
	return Mode{ID: uint32(info.Mode), Width: int(info.Width), Height: int(info.Height), Depth: c.Depth()}, nil
}

// ListModes returns the modes the primary output supports, in server
// order. RandR modes do not carry a depth; every mode reports the root
// depth.
func (c *Connection) ListModes() ([]Mode, error) {
	if !c.randrOK {
		return nil, errNoRandR
	}
	conn := c.XUtil.Conn()
	res, err := randr.GetScreenResources(conn, c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}
	output, _, err := c.primaryCrtc(res)
	if err != nil {
		return nil, err
	}
	out, err := randr.GetOutputInfo(conn, output, res.ConfigTimestamp).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get output info: %w", err)
	}

	byID := make(map[randr.Mode]randr.ModeInfo, len(res.Modes))
	for _, mi := range res.Modes {
		byID[randr.Mode(mi.Id)] = mi
	}
	modes := make([]Mode, 0, len(out.Modes))
	for _, id := range out.Modes {
		if mi, ok := byID[id]; ok {
			modes = append(modes, c.modeFromInfo(mi))
		}
	}
	return modes, nil
}

// SetMode switches the primary CRTC to the mode with the given id. The
// CRTC configuration in effect before the first switch is kept for
// RestoreMode.
func (c *Connection) SetMode(id uint32) error {
	if !c.randrOK {
		return errNoRandR
	}
	conn := c.XUtil.Conn()
	res, err := randr.GetScreenResources(conn, c.Root).Reply()
	if err != nil {
		return fmt.Errorf("failed to get screen resources: %w", err)
	}
	_, crtc, err := c.primaryCrtc(res)
	if err != nil {
		return err
	}
	info, err := randr.GetCrtcInfo(conn, crtc, res.ConfigTimestamp).Reply()
	if err != nil {
		return fmt.Errorf("failed to get crtc info: %w", err)
	}

	if c.saved == nil {
		c.saved = &crtcConfig{
			crtc:     crtc,
			x:        info.X,
			y:        info.Y,
			mode:     info.Mode,
			rotation: info.Rotation,
			outputs:  info.Outputs,
		}
	}

	reply, err := randr.SetCrtcConfig(conn, crtc, xproto.TimeCurrentTime, res.ConfigTimestamp,
		info.X, info.Y, randr.Mode(id), info.Rotation, info.Outputs).Reply()
	if err != nil {
		return fmt.Errorf("failed to set crtc config: %w", err)
	}
	if reply.Status != randr.SetConfigSuccess {
		return fmt.Errorf("set crtc config refused with status %d", reply.Status)
	}
	return nil
}

// RestoreMode puts back the CRTC configuration saved by the first SetMode.
// It is a no-op when no switch happened.
func (c *Connection) RestoreMode() error {
	if c.saved == nil {
		return nil
	}
	conn := c.XUtil.Conn()
	res, err := randr.GetScreenResources(conn, c.Root).Reply()
	if err != nil {
		return fmt.Errorf("failed to get screen resources: %w", err)
	}
	s := c.saved
	reply, err := randr.SetCrtcConfig(conn, s.crtc, xproto.TimeCurrentTime, res.ConfigTimestamp,
		s.x, s.y, s.mode, s.rotation, s.outputs).Reply()
	if err != nil {
		return fmt.Errorf("failed to restore crtc config: %w", err)
	}
	if reply.Status != randr.SetConfigSuccess {
		return fmt.Errorf("restore crtc config refused with status %d", reply.Status)
	}
	c.saved = nil
	return nil
}

func (c *Connection) modeFromInfo(mi randr.ModeInfo) Mode {
	m := Mode{
		ID:     mi.Id,
		Width:  int(mi.Width),
		Height: int(mi.Height),
		Depth:  c.Depth(),
	}
	if mi.Htotal != 0 && mi.Vtotal != 0 {
		m.Refresh = float64(mi.DotClock) / (float64(mi.Htotal) * float64(mi.Vtotal))
	}
	return m
}

// ListModesStandalone lists display modes using a new temporary X11
// connection.
func ListModesStandalone(display string) ([]Mode, Mode, error) {
	conn, err := NewConnection(display)
	if err != nil {
		return nil, Mode{}, err
	}
	defer conn.Close()

	current, err := conn.CurrentMode()
	if err != nil {
		return nil, Mode{}, err
	}
	modes, err := conn.ListModes()
	if err != nil {
		return nil, current, err
	}
	return modes, current, nil
}
