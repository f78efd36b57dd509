package window

import (
	"fmt"

	"github.com/1broseidon/vidwin/internal/platform"
)

// Flags modify a Configure request.
type Flags uint32

const (
	FlagFullscreen Flags = 1 << iota
	FlagModeSwitching
	// FlagHidden only sets up the pixel format; no geometry changes.
	FlagHidden
	FlagStereo
)

// ConfigureRequest is the desired presentation for the next video stream.
type ConfigureRequest struct {
	Width  int
	Height int
	// X and Y are the initial client origin, honored on the first
	// configuration only.
	X     int
	Y     int
	Flags Flags
}

// CenteredRequest returns a request that places a width x height window in
// the middle of the resolved screen.
func (w *Window) CenteredRequest(width, height int, flags Flags) ConfigureRequest {
	s := w.state.Screen
	return ConfigureRequest{
		Width:  width,
		Height: height,
		X:      s.X + (s.Width-width)/2,
		Y:      s.Y + (s.Height-height)/2,
		Flags:  flags,
	}
}

// Configure prepares the drawing surface and applies the requested size and
// presentation flags.
func (w *Window) Configure(req ConfigureRequest) error {
	if w.handle == 0 {
		return ErrNotInitialized
	}
	if err := w.setupPixelFormat(req.Flags&FlagStereo != 0); err != nil {
		return err
	}
	if req.Flags&FlagHidden != 0 {
		return nil
	}

	st := &w.state
	resetSize := req.Width != st.RequestedWidth || req.Height != st.RequestedHeight
	st.RequestedWidth, st.RequestedHeight = req.Width, req.Height

	if !w.Embedded() {
		if st.BoundsInitialized {
			if r, ok := w.backend.ClientRect(w.handle); ok {
				st.Width, st.Height = r.Width, r.Height
			}
		} else {
			st.BoundsInitialized = true
			resetSize = true
			st.X, st.Y = req.X, req.Y
			st.Saved.X, st.Saved.Y = req.X, req.Y
		}
		if resetSize {
			st.Width, st.Height = req.Width, req.Height
			st.Saved.Width, st.Saved.Height = req.Width, req.Height
		}
	}

	w.opts.Fullscreen = req.Flags&FlagFullscreen != 0
	st.ModeSwitching = req.Flags&FlagModeSwitching != 0
	w.reinit()
	return nil
}

// ToggleFullscreen flips between fullscreen and the saved windowed
// geometry.
func (w *Window) ToggleFullscreen() error {
	if w.handle == 0 {
		return ErrNotInitialized
	}
	w.opts.Fullscreen = !w.opts.Fullscreen
	w.reinit()
	w.logger.Debug("toggled fullscreen", "fullscreen", w.opts.Fullscreen)
	return nil
}

// ToggleBorder flips window decorations. It has no visible effect while
// fullscreen.
func (w *Window) ToggleBorder() error {
	if w.handle == 0 {
		return ErrNotInitialized
	}
	w.opts.Border = !w.opts.Border
	w.reinit()
	return nil
}

// ToggleOnTop flips the always-on-top layer.
func (w *Window) ToggleOnTop() error {
	if w.handle == 0 {
		return ErrNotInitialized
	}
	w.opts.OnTop = !w.opts.OnTop
	w.reinit()
	return nil
}

func (w *Window) style() platform.Style {
	return platform.Style{
		Framed:     w.state.Bordered && !w.state.Fullscreen,
		Fullscreen: w.state.Fullscreen,
	}
}

func (w *Window) setupPixelFormat(stereo bool) error {
	dc, err := w.AcquireDrawingContext()
	if err != nil {
		w.logger.Error("unable to get drawing context", "error", err)
		return fmt.Errorf("%w: %v", ErrPixelFormat, err)
	}
	defer w.ReleaseDrawingContext(dc)

	pf, err := w.backend.ChoosePixelFormat(dc, platform.PixelFormatRequest{
		DoubleBuffer: true,
		Stereo:       stereo,
		ColorBits:    24,
	})
	if err != nil {
		w.logger.Error("unable to select a valid pixel format", "stereo", stereo, "error", err)
		return fmt.Errorf("%w: %v", ErrPixelFormat, err)
	}
	if err := w.backend.SetPixelFormat(dc, pf); err != nil {
		w.logger.Error("unable to set pixel format", "format", pf.ID, "error", err)
		return fmt.Errorf("%w: %v", ErrPixelFormat, err)
	}
	return nil
}

// reinit applies the current options in one placement. Embedded windows
// are sized by their container and are left alone.
func (w *Window) reinit() {
	if w.Embedded() {
		return
	}
	st := &w.state
	h := w.handle

	w.backend.SetTitle(h, w.windowTitle())

	toggleFS := w.currentFS != w.opts.Fullscreen
	w.currentFS = w.opts.Fullscreen
	st.Fullscreen = w.opts.Fullscreen
	st.Bordered = w.opts.Border
	st.OnTop = w.opts.OnTop

	style := w.style()
	layer := platform.LayerNormal
	if st.Fullscreen || st.OnTop {
		layer = platform.LayerTopMost
	}

	if st.Fullscreen {
		if st.ModeSwitching {
			w.modes.Apply(st.RequestedWidth, st.RequestedHeight, st.Depth)
		}
		w.backend.ShowCursor(h, false)
	} else {
		if st.ModeSwitching {
			w.modes.Restore()
		}
		w.backend.ShowCursor(h, true)
	}

	w.updateScreenProperties()

	if st.Fullscreen {
		if toggleFS {
			st.Saved = platform.Rect{X: st.X, Y: st.Y, Width: st.Width, Height: st.Height}
		}
		st.X, st.Y = st.Screen.X, st.Screen.Y
		st.Width, st.Height = st.Screen.Width, st.Screen.Height
	} else if toggleFS {
		st.X, st.Y = st.Saved.X, st.Saved.Y
		st.Width, st.Height = st.Saved.Width, st.Saved.Height
	}

	w.backend.SetStyle(h, style)
	client := platform.Rect{X: st.X, Y: st.Y, Width: st.Width, Height: st.Height}
	placement := platform.Placement{
		Bounds:       w.backend.FrameInsets(h, style).Grow(client),
		Layer:        layer,
		FrameChanged: true,
	}
	hint := 0.0
	if w.opts.KeepAspect && !st.Fullscreen {
		hint = w.aspect.Ratio()
	}
	w.backend.SetAspectHint(h, hint)

	if err := w.backend.SetPlacement(h, placement); err != nil {
		w.logger.Error("unable to place window", "error", err)
	}
	w.backend.Show(h)
	w.syncGeometry()

	w.logger.Debug("window placed",
		"x", st.X, "y", st.Y, "width", st.Width, "height", st.Height,
		"fullscreen", st.Fullscreen, "border", st.Bordered, "ontop", st.OnTop)
}

// syncGeometry reads back the live client origin and size, reporting
// whether either changed.
func (w *Window) syncGeometry() (moved, resized bool) {
	st := &w.state
	if p, ok := w.backend.ClientOrigin(w.handle); ok && (p.X != st.X || p.Y != st.Y) {
		st.X, st.Y = p.X, p.Y
		moved = true
	}
	if r, ok := w.backend.ClientRect(w.handle); ok && (r.Width != st.Width || r.Height != st.Height) {
		st.Width, st.Height = r.Width, r.Height
		resized = true
	}
	return moved, resized
}
