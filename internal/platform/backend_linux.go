//go:build linux

package platform

import (
	"fmt"
	"iter"
	"log/slog"
	"sync"

	"github.com/1broseidon/vidwin/internal/x11"
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// LinuxBackend implements Backend on an X11 connection.
type LinuxBackend struct {
	conn   *x11.Connection
	logger *slog.Logger

	classes map[string]bool
	windows map[Handle]*x11Window
	queue   []Message

	rootKeyMu sync.Mutex
	onRootKey func(state uint16, detail xproto.Keycode)
}

// x11Window is the backend's view of one window it created. X requests are
// asynchronous, so geometry is cached optimistically: placements update
// the cache at once and ConfigureNotify corrects it.
type x11Window struct {
	id     xproto.Window
	parent xproto.Window
	mapped bool
	style  Style
	layer  Layer
	// client is the client area; X and Y are root coordinates.
	client Rect
	// placed is the client size of our last placement, used to tell our
	// own resizes from interactive ones.
	placed Rect
	insets Insets
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection, logger *slog.Logger) *LinuxBackend {
	if logger == nil {
		logger = slog.Default()
	}
	conn.Logger = logger
	return &LinuxBackend{
		conn:    conn,
		logger:  logger,
		classes: make(map[string]bool),
		windows: make(map[Handle]*x11Window),
	}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay(display string, logger *slog.Logger) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return NewLinuxBackend(conn, logger), nil
}

// Disconnect restores the display mode and closes the X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// SetRootKeyHandler installs the callback for key presses delivered to the
// root window through global grabs.
func (b *LinuxBackend) SetRootKeyHandler(fn func(state uint16, detail xproto.Keycode)) {
	b.rootKeyMu.Lock()
	b.onRootKey = fn
	b.rootKeyMu.Unlock()
}

// Clear fills the client area with the background color.
func (b *LinuxBackend) Clear(h Handle) {
	b.conn.ClearWindow(xproto.Window(h))
}

// Flush sends buffered requests to the server.
func (b *LinuxBackend) Flush() {
	b.conn.Flush()
}

// ListDisplayModesStandalone lists display modes using a new temporary X11
// connection.
func ListDisplayModesStandalone(display string) ([]DisplayMode, DisplayMode, error) {
	modes, current, err := x11.ListModesStandalone(display)
	out := make([]DisplayMode, 0, len(modes))
	for _, m := range modes {
		out = append(out, displayModeFromX11(m))
	}
	return out, displayModeFromX11(current), err
}

func (b *LinuxBackend) RegisterClass(name string) error {
	if b.classes[name] {
		return fmt.Errorf("window class %q already registered", name)
	}
	b.classes[name] = true
	return nil
}

func (b *LinuxBackend) UnregisterClass(name string) {
	delete(b.classes, name)
}

func (b *LinuxBackend) CreateWindow(spec WindowSpec, register func(Handle)) (Handle, error) {
	if !b.classes[spec.Class] {
		return 0, fmt.Errorf("window class %q not registered", spec.Class)
	}
	id, err := b.conn.CreateWindow(x11.WindowOptions{
		Class:      spec.Class,
		Title:      spec.Title,
		X:          spec.Bounds.X,
		Y:          spec.Bounds.Y,
		Width:      spec.Bounds.Width,
		Height:     spec.Bounds.Height,
		Parent:     xproto.Window(spec.Parent),
		Decorated:  spec.Style.Framed,
		Fullscreen: spec.Style.Fullscreen,
	})
	if err != nil {
		return 0, err
	}

	h := Handle(id)
	w := &x11Window{
		id:     id,
		parent: xproto.Window(spec.Parent),
		style:  spec.Style,
		client: spec.Bounds,
		placed: spec.Bounds,
	}
	if x, y, err := b.conn.ClientOrigin(id); err == nil {
		w.client.X, w.client.Y = x, y
	}
	b.windows[h] = w
	if register != nil {
		register(h)
	}
	if w.parent != 0 {
		// Embedded windows are never managed by the window manager.
		b.conn.MapWindow(id)
		w.mapped = true
	}
	return h, nil
}

func (b *LinuxBackend) DestroyWindow(h Handle) {
	if _, ok := b.windows[h]; !ok {
		return
	}
	b.conn.DestroyWindow(xproto.Window(h))
	delete(b.windows, h)
	b.conn.Flush()
}

func (b *LinuxBackend) IsWindow(h Handle) bool {
	return b.conn.WindowExists(xproto.Window(h))
}

func (b *LinuxBackend) EnableInput(h Handle, enabled bool) {
	b.conn.SetInputEnabled(xproto.Window(h), enabled)
}

func (b *LinuxBackend) SetTitle(h Handle, title string) {
	b.conn.SetTitle(xproto.Window(h), title)
}

func (b *LinuxBackend) SetStyle(h Handle, style Style) {
	w, ok := b.windows[h]
	if !ok || w.parent != 0 {
		return
	}
	b.conn.SetDecorations(w.id, style.Framed)
	if style.Fullscreen != w.style.Fullscreen {
		if err := b.conn.SetFullscreen(w.id, style.Fullscreen, w.mapped); err != nil {
			b.logger.Warn("unable to change fullscreen state", "window", h, "error", err)
		}
	}
	w.style = style
}

func (b *LinuxBackend) FrameInsets(h Handle, style Style) Insets {
	w, ok := b.windows[h]
	if !ok || w.parent != 0 || !style.Framed || style.Fullscreen {
		return Insets{}
	}
	// Extents are only published once the frame exists; until then the
	// last known decoration size stands in.
	if l, r, t, bt, ok := b.conn.GetFrameExtents(w.id); ok && l+r+t+bt > 0 {
		w.insets = Insets{Left: l, Top: t, Right: r, Bottom: bt}
	}
	return w.insets
}

func (b *LinuxBackend) SetPlacement(h Handle, p Placement) error {
	w, ok := b.windows[h]
	if !ok {
		return fmt.Errorf("unknown window %d", h)
	}

	if p.Layer != w.layer {
		if err := b.conn.SetAbove(w.id, p.Layer == LayerTopMost, w.mapped); err != nil {
			return fmt.Errorf("failed to change stacking layer: %w", err)
		}
		w.layer = p.Layer
	}

	insets := b.FrameInsets(h, w.style)
	client := insets.Shrink(p.Bounds)
	if client.Empty() {
		return fmt.Errorf("placement %+v leaves no client area", p.Bounds)
	}
	b.conn.MoveResizeWindow(w.id, p.Bounds.X, p.Bounds.Y, client.Width, client.Height)
	w.client = client
	w.placed = client
	return nil
}

func (b *LinuxBackend) Show(h Handle) {
	w, ok := b.windows[h]
	if !ok {
		return
	}
	b.conn.MapWindow(w.id)
	w.mapped = true
	b.conn.Flush()
}

func (b *LinuxBackend) MoveWindow(h Handle, r Rect) {
	w, ok := b.windows[h]
	if !ok {
		return
	}
	if w.parent != 0 {
		b.conn.ConfigureChild(w.id, r.X, r.Y, r.Width, r.Height)
		w.client.Width, w.client.Height = r.Width, r.Height
		return
	}
	client := b.FrameInsets(h, w.style).Shrink(r)
	b.conn.MoveResizeWindow(w.id, r.X, r.Y, client.Width, client.Height)
	w.client, w.placed = client, client
}

func (b *LinuxBackend) SetAspectHint(h Handle, aspect float64) {
	if w, ok := b.windows[h]; ok && w.parent == 0 {
		b.conn.SetAspectHint(w.id, aspect)
	}
}

func (b *LinuxBackend) ClientRect(h Handle) (Rect, bool) {
	if w, ok := b.windows[h]; ok {
		return Rect{Width: w.client.Width, Height: w.client.Height}, true
	}
	width, height, err := b.conn.Geometry(xproto.Window(h))
	if err != nil {
		return Rect{}, false
	}
	return Rect{Width: width, Height: height}, true
}

func (b *LinuxBackend) ClientOrigin(h Handle) (Point, bool) {
	if w, ok := b.windows[h]; ok && w.parent == 0 {
		return Point{X: w.client.X, Y: w.client.Y}, true
	}
	x, y, err := b.conn.ClientOrigin(xproto.Window(h))
	if err != nil {
		return Point{}, false
	}
	return Point{X: x, Y: y}, true
}

func (b *LinuxBackend) ShowCursor(h Handle, visible bool) {
	if h == 0 {
		return
	}
	if err := b.conn.SetCursorVisible(xproto.Window(h), visible); err != nil {
		b.logger.Warn("unable to change cursor", "visible", visible, "error", err)
	}
}

func (b *LinuxBackend) BeginMoveDrag(h Handle) {
	if err := b.conn.BeginMoveDrag(xproto.Window(h)); err != nil {
		b.logger.Debug("move drag not started", "error", err)
	}
}

func (b *LinuxBackend) PeekMessage() (Message, bool) {
	for len(b.queue) == 0 {
		ev, ok := b.conn.NextEvent(func(err xgb.Error) {
			b.logger.Debug("x11 protocol error", "error", err)
		})
		if !ok {
			return Message{}, false
		}
		b.queue = append(b.queue, b.translate(ev)...)
	}
	msg := b.queue[0]
	b.queue = b.queue[1:]
	return msg, true
}

// Dispatch applies the corrected rectangle of a handled interactive
// resize. X11 has no default window procedure, so unhandled messages need
// no further processing.
func (b *LinuxBackend) Dispatch(msg Message, reply Reply) {
	if !reply.Handled || msg.Kind != MsgSizing {
		return
	}
	if !rectDiffers(msg.Rect, reply.Rect, 1) {
		return
	}
	b.MoveWindow(msg.Window, reply.Rect)
}

func rectDiffers(a, b Rect, tolerance int) bool {
	diff := func(x, y int) bool { return x-y > tolerance || y-x > tolerance }
	return diff(a.X, b.X) || diff(a.Y, b.Y) || diff(a.Width, b.Width) || diff(a.Height, b.Height)
}

func (b *LinuxBackend) IsKeyDown(k NativeKey) bool {
	switch k {
	case NativeControl:
		return b.conn.KeyDown(x11.GroupControl)
	case NativeShift:
		return b.conn.KeyDown(x11.GroupShift)
	case NativeAlt:
		return b.conn.KeyDown(x11.GroupAlt)
	case NativeAltGr:
		return b.conn.KeyDown(x11.GroupAltGr)
	case NativeReturn:
		return b.conn.KeyDown(x11.GroupReturn)
	}
	return b.conn.KeyDown(keysymNames(k))
}

func (b *LinuxBackend) Monitors() iter.Seq[Monitor] {
	return func(yield func(Monitor) bool) {
		monitors, err := b.conn.GetMonitors()
		if err != nil {
			b.logger.Error("unable to enumerate monitors", "error", err)
			return
		}
		for _, m := range monitors {
			if !yield(monitorFromX11(m)) {
				return
			}
		}
	}
}

func (b *LinuxBackend) VirtualScreen() Rect {
	monitors, err := b.conn.GetMonitors()
	if err != nil {
		return Rect{}
	}
	x, y, w, h := x11.VirtualBounds(monitors)
	return Rect{X: x, Y: y, Width: w, Height: h}
}

func (b *LinuxBackend) MonitorFromWindow(h Handle) (Monitor, bool) {
	monitors, err := b.conn.GetMonitors()
	if err != nil {
		return Monitor{}, false
	}
	list := make([]Monitor, 0, len(monitors))
	for _, m := range monitors {
		list = append(list, monitorFromX11(m))
	}

	var r Rect
	if h != 0 {
		x, y, w, hgt, err := b.conn.WindowRootRect(xproto.Window(h))
		if err != nil {
			b.logger.Debug("window geometry unavailable", "window", h, "error", err)
		} else {
			r = Rect{X: x, Y: y, Width: w, Height: hgt}
		}
	}
	return MonitorForRect(list, r)
}

func (b *LinuxBackend) CurrentMode() (DisplayMode, error) {
	m, err := b.conn.CurrentMode()
	if err != nil {
		return DisplayMode{}, err
	}
	return displayModeFromX11(m), nil
}

func (b *LinuxBackend) DisplayModes() ([]DisplayMode, error) {
	modes, err := b.conn.ListModes()
	if err != nil {
		return nil, err
	}
	out := make([]DisplayMode, 0, len(modes))
	for _, m := range modes {
		out = append(out, displayModeFromX11(m))
	}
	return out, nil
}

func (b *LinuxBackend) SetDisplayMode(m DisplayMode) error {
	return b.conn.SetMode(m.ID)
}

func (b *LinuxBackend) RestoreDisplayMode() error {
	return b.conn.RestoreMode()
}

func (b *LinuxBackend) GetDC(h Handle) (DC, error) {
	gc, err := b.conn.NewGC(xproto.Drawable(h))
	if err != nil {
		return 0, err
	}
	return DC(gc), nil
}

func (b *LinuxBackend) ReleaseDC(_ Handle, dc DC) {
	b.conn.FreeGC(xproto.Gcontext(dc))
}

func (b *LinuxBackend) CreateAdapterDC(adapter int) (DC, bool) {
	root, ok := b.conn.ScreenRoot(adapter)
	if !ok {
		return 0, false
	}
	gc, err := b.conn.NewGC(xproto.Drawable(root))
	if err != nil {
		b.logger.Warn("unable to create adapter context", "adapter", adapter, "error", err)
		return 0, false
	}
	return DC(gc), true
}

func (b *LinuxBackend) DeleteDC(dc DC) {
	b.conn.FreeGC(xproto.Gcontext(dc))
}

func (b *LinuxBackend) ChoosePixelFormat(_ DC, req PixelFormatRequest) (PixelFormat, error) {
	v, err := b.conn.ChooseVisual(req.ColorBits, req.Stereo)
	if err != nil {
		return PixelFormat{}, err
	}
	return PixelFormat{ID: uint32(v.ID), ColorBits: v.Depth}, nil
}

// SetPixelFormat only validates the format: X11 fixes a window's visual
// when it is created.
func (b *LinuxBackend) SetPixelFormat(_ DC, pf PixelFormat) error {
	if pf.ID == 0 {
		return fmt.Errorf("invalid pixel format")
	}
	b.logger.Debug("pixel format selected", "visual", pf.ID, "bits", pf.ColorBits)
	return nil
}

func monitorFromX11(m x11.Monitor) Monitor {
	return Monitor{
		ID:      m.ID,
		Name:    m.Name,
		Bounds:  Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height},
		Primary: m.Primary,
	}
}

func displayModeFromX11(m x11.Mode) DisplayMode {
	return DisplayMode{
		ID:      m.ID,
		Width:   m.Width,
		Height:  m.Height,
		Depth:   m.Depth,
		Refresh: m.Refresh,
	}
}
