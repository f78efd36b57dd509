// Package platformtest provides an in-memory platform.Backend for tests.
package platformtest

import (
	"errors"
	"fmt"
	"iter"

	"github.com/1broseidon/vidwin/internal/platform"
)

// Window is the fake native state of one created window.
type Window struct {
	Spec         platform.WindowSpec
	Title        string
	Style        platform.Style
	Client       platform.Rect // X/Y are the client origin in screen coordinates
	Layer        platform.Layer
	Visible      bool
	InputEnabled bool
	Aspect       float64
}

// PlacementCall records one SetPlacement directive.
type PlacementCall struct {
	Handle    platform.Handle
	Placement platform.Placement
	Style     platform.Style
}

// Dispatched records a completed message.
type Dispatched struct {
	Message platform.Message
	Reply   platform.Reply
}

// Backend is a scriptable fake. Exported fields may be set before use and
// inspected afterwards.
type Backend struct {
	RegisterErr error
	CreateErr   error
	Classes     map[string]bool

	NextHandle platform.Handle
	Windows    map[platform.Handle]*Window
	// Foreign holds container windows not created through CreateWindow.
	Foreign   map[platform.Handle]*Window
	Destroyed []platform.Handle

	// Insets are the decorations of framed, non-fullscreen windows.
	Insets platform.Insets

	Placements []PlacementCall
	// Calls is the ordered list of native calls by name.
	Calls         []string
	Moves         []platform.Rect
	CursorVisible bool
	Drags         []platform.Handle

	Queue      []platform.Message
	Dispatched []Dispatched

	Held map[platform.NativeKey]bool

	MonitorList []platform.Monitor
	Virtual     platform.Rect
	// Nearest is the index into MonitorList returned by MonitorFromWindow;
	// negative means no monitor.
	Nearest int
	// NearestByGeometry makes MonitorFromWindow pick from the window's
	// client rect with platform.MonitorForRect instead of Nearest.
	NearestByGeometry bool
	// Yielded counts monitors produced by Monitors sequences.
	Yielded int

	Mode     platform.DisplayMode
	ModeErr  error
	Modes    []platform.DisplayMode
	ModesErr error
	Switched []platform.DisplayMode
	Restores int
	desktop  *platform.DisplayMode

	PixelErr   error
	AdapterDCs map[int]platform.DC
	nextDC     platform.DC
	OpenDCs    map[platform.DC]bool
	DeletedDCs []platform.DC
}

var _ platform.Backend = (*Backend)(nil)

// New returns a fake with one 1920x1080 monitor in 32-bit depth.
func New() *Backend {
	return &Backend{
		Classes:       map[string]bool{},
		NextHandle:    100,
		Windows:       map[platform.Handle]*Window{},
		Foreign:       map[platform.Handle]*Window{},
		Insets:        platform.Insets{Left: 2, Top: 24, Right: 2, Bottom: 2},
		CursorVisible: true,
		Held:          map[platform.NativeKey]bool{},
		MonitorList: []platform.Monitor{
			{ID: 0, Name: "DP-1", Bounds: platform.Rect{Width: 1920, Height: 1080}, Primary: true},
		},
		Virtual:    platform.Rect{Width: 1920, Height: 1080},
		Mode:       platform.DisplayMode{ID: 1, Width: 1920, Height: 1080, Depth: 32},
		AdapterDCs: map[int]platform.DC{},
		nextDC:     1,
		OpenDCs:    map[platform.DC]bool{},
	}
}

func (b *Backend) record(name string) { b.Calls = append(b.Calls, name) }

func (b *Backend) window(h platform.Handle) *Window {
	if w, ok := b.Windows[h]; ok {
		return w
	}
	return b.Foreign[h]
}

// Push queues messages for PeekMessage.
func (b *Backend) Push(msgs ...platform.Message) { b.Queue = append(b.Queue, msgs...) }

// ResizeByUser changes a window's client size behind the window layer's
// back.
func (b *Backend) ResizeByUser(h platform.Handle, width, height int) {
	if w := b.window(h); w != nil {
		w.Client.Width, w.Client.Height = width, height
	}
}

// MoveByUser moves a window's client origin behind the window layer's back.
func (b *Backend) MoveByUser(h platform.Handle, x, y int) {
	if w := b.window(h); w != nil {
		w.Client.X, w.Client.Y = x, y
	}
}

func (b *Backend) RegisterClass(name string) error {
	b.record("RegisterClass")
	if b.RegisterErr != nil {
		return b.RegisterErr
	}
	if b.Classes[name] {
		return fmt.Errorf("class %q already registered", name)
	}
	b.Classes[name] = true
	return nil
}

func (b *Backend) UnregisterClass(name string) {
	b.record("UnregisterClass")
	delete(b.Classes, name)
}

func (b *Backend) CreateWindow(spec platform.WindowSpec, register func(platform.Handle)) (platform.Handle, error) {
	b.record("CreateWindow")
	if b.CreateErr != nil {
		return 0, b.CreateErr
	}
	if !b.Classes[spec.Class] {
		return 0, fmt.Errorf("class %q not registered", spec.Class)
	}
	h := b.NextHandle
	b.NextHandle++

	client := spec.Bounds
	if spec.Parent == 0 {
		client = b.FrameInsets(0, spec.Style).Shrink(spec.Bounds)
	} else if parent := b.window(spec.Parent); parent != nil {
		client.X += parent.Client.X
		client.Y += parent.Client.Y
	}
	b.Windows[h] = &Window{Spec: spec, Title: spec.Title, Style: spec.Style, Client: client, InputEnabled: true}
	if register != nil {
		register(h)
	}
	return h, nil
}

func (b *Backend) DestroyWindow(h platform.Handle) {
	b.record("DestroyWindow")
	delete(b.Windows, h)
	b.Destroyed = append(b.Destroyed, h)
}

func (b *Backend) IsWindow(h platform.Handle) bool { return b.window(h) != nil }

func (b *Backend) EnableInput(h platform.Handle, enabled bool) {
	if w := b.window(h); w != nil {
		w.InputEnabled = enabled
	}
}

func (b *Backend) SetTitle(h platform.Handle, title string) {
	b.record("SetTitle")
	if w := b.window(h); w != nil {
		w.Title = title
	}
}

func (b *Backend) SetStyle(h platform.Handle, style platform.Style) {
	b.record("SetStyle")
	if w := b.window(h); w != nil {
		w.Style = style
	}
}

func (b *Backend) FrameInsets(_ platform.Handle, style platform.Style) platform.Insets {
	if style.Framed && !style.Fullscreen {
		return b.Insets
	}
	return platform.Insets{}
}

func (b *Backend) SetPlacement(h platform.Handle, p platform.Placement) error {
	b.record("SetPlacement")
	w := b.window(h)
	if w == nil {
		return errors.New("no such window")
	}
	b.Placements = append(b.Placements, PlacementCall{Handle: h, Placement: p, Style: w.Style})
	w.Client = b.FrameInsets(h, w.Style).Shrink(p.Bounds)
	w.Layer = p.Layer
	return nil
}

func (b *Backend) Show(h platform.Handle) {
	b.record("Show")
	if w := b.window(h); w != nil {
		w.Visible = true
	}
}

func (b *Backend) MoveWindow(h platform.Handle, r platform.Rect) {
	b.record("MoveWindow")
	b.Moves = append(b.Moves, r)
	if w := b.window(h); w != nil {
		w.Client.Width, w.Client.Height = r.Width, r.Height
	}
}

func (b *Backend) SetAspectHint(h platform.Handle, aspect float64) {
	b.record("SetAspectHint")
	if w := b.window(h); w != nil {
		w.Aspect = aspect
	}
}

func (b *Backend) ClientRect(h platform.Handle) (platform.Rect, bool) {
	w := b.window(h)
	if w == nil {
		return platform.Rect{}, false
	}
	return platform.Rect{Width: w.Client.Width, Height: w.Client.Height}, true
}

func (b *Backend) ClientOrigin(h platform.Handle) (platform.Point, bool) {
	w := b.window(h)
	if w == nil {
		return platform.Point{}, false
	}
	return platform.Point{X: w.Client.X, Y: w.Client.Y}, true
}

func (b *Backend) ShowCursor(_ platform.Handle, visible bool) {
	b.record("ShowCursor")
	b.CursorVisible = visible
}

func (b *Backend) BeginMoveDrag(h platform.Handle) { b.Drags = append(b.Drags, h) }

func (b *Backend) PeekMessage() (platform.Message, bool) {
	if len(b.Queue) == 0 {
		return platform.Message{}, false
	}
	msg := b.Queue[0]
	b.Queue = b.Queue[1:]
	return msg, true
}

func (b *Backend) Dispatch(msg platform.Message, reply platform.Reply) {
	b.Dispatched = append(b.Dispatched, Dispatched{Message: msg, Reply: reply})
}

func (b *Backend) IsKeyDown(k platform.NativeKey) bool { return b.Held[k] }

func (b *Backend) Monitors() iter.Seq[platform.Monitor] {
	return func(yield func(platform.Monitor) bool) {
		for _, m := range b.MonitorList {
			b.Yielded++
			if !yield(m) {
				return
			}
		}
	}
}

func (b *Backend) VirtualScreen() platform.Rect { return b.Virtual }

func (b *Backend) MonitorFromWindow(h platform.Handle) (platform.Monitor, bool) {
	if b.NearestByGeometry {
		var r platform.Rect
		if w := b.window(h); w != nil {
			r = w.Client
		}
		return platform.MonitorForRect(b.MonitorList, r)
	}
	if b.Nearest < 0 || b.Nearest >= len(b.MonitorList) {
		return platform.Monitor{}, false
	}
	return b.MonitorList[b.Nearest], true
}

func (b *Backend) CurrentMode() (platform.DisplayMode, error) {
	if b.ModeErr != nil {
		return platform.DisplayMode{}, b.ModeErr
	}
	return b.Mode, nil
}

func (b *Backend) DisplayModes() ([]platform.DisplayMode, error) {
	return b.Modes, b.ModesErr
}

func (b *Backend) SetDisplayMode(m platform.DisplayMode) error {
	b.record("SetDisplayMode")
	if b.desktop == nil {
		saved := b.Mode
		b.desktop = &saved
	}
	b.Switched = append(b.Switched, m)
	b.Mode = m
	return nil
}

func (b *Backend) RestoreDisplayMode() error {
	b.record("RestoreDisplayMode")
	b.Restores++
	if b.desktop != nil {
		b.Mode = *b.desktop
		b.desktop = nil
	}
	return nil
}

func (b *Backend) GetDC(h platform.Handle) (platform.DC, error) {
	if b.window(h) == nil {
		return 0, errors.New("no such window")
	}
	dc := b.nextDC
	b.nextDC++
	b.OpenDCs[dc] = true
	return dc, nil
}

func (b *Backend) ReleaseDC(_ platform.Handle, dc platform.DC) { delete(b.OpenDCs, dc) }

func (b *Backend) CreateAdapterDC(adapter int) (platform.DC, bool) {
	dc, ok := b.AdapterDCs[adapter]
	return dc, ok
}

func (b *Backend) DeleteDC(dc platform.DC) { b.DeletedDCs = append(b.DeletedDCs, dc) }

func (b *Backend) ChoosePixelFormat(_ platform.DC, req platform.PixelFormatRequest) (platform.PixelFormat, error) {
	if b.PixelErr != nil {
		return platform.PixelFormat{}, b.PixelErr
	}
	return platform.PixelFormat{ID: 33, ColorBits: req.ColorBits, Stereo: req.Stereo}, nil
}

func (b *Backend) SetPixelFormat(platform.DC, platform.PixelFormat) error { return nil }
