package platform

import "iter"

// Handle is a platform-neutral native window identifier. Zero is never a
// valid window.
type Handle uint32

// DC is an opaque drawing context borrowed from the backend.
type DC uint32

// Point is a position in screen coordinates.
type Point struct {
	X int
	Y int
}

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Intersect returns the overlap of r and o; it is empty when they do not
// overlap.
func (r Rect) Intersect(o Rect) Rect {
	out := RectFromEdges(max(r.X, o.X), max(r.Y, o.Y), min(r.Right(), o.Right()), min(r.Bottom(), o.Bottom()))
	if out.Empty() {
		return Rect{}
	}
	return out
}

// RectFromEdges builds a rectangle from left/top/right/bottom edges.
func RectFromEdges(left, top, right, bottom int) Rect {
	return Rect{X: left, Y: top, Width: right - left, Height: bottom - top}
}

// Insets are the decoration sizes around a client area.
type Insets struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// Grow returns r expanded by the insets (client rect to window rect).
func (in Insets) Grow(r Rect) Rect {
	return RectFromEdges(r.X-in.Left, r.Y-in.Top, r.Right()+in.Right, r.Bottom()+in.Bottom)
}

// Shrink returns r reduced by the insets (window rect to client rect).
func (in Insets) Shrink(r Rect) Rect {
	return RectFromEdges(r.X+in.Left, r.Y+in.Top, r.Right()-in.Right, r.Bottom()-in.Bottom)
}

// Monitor describes a physical display.
type Monitor struct {
	ID      int
	Name    string
	Bounds  Rect
	Primary bool
}

// MonitorForRect picks the monitor a window rectangle belongs to: the one
// holding its center, else the one it overlaps most, else the primary.
// An empty r goes straight to the primary. ok is false only when monitors
// is empty.
func MonitorForRect(monitors []Monitor, r Rect) (Monitor, bool) {
	if len(monitors) == 0 {
		return Monitor{}, false
	}
	if !r.Empty() {
		cx, cy := r.X+r.Width/2, r.Y+r.Height/2
		for _, m := range monitors {
			if m.Bounds.Contains(cx, cy) {
				return m, true
			}
		}

		best, bestArea := -1, 0
		for i, m := range monitors {
			o := m.Bounds.Intersect(r)
			if area := o.Width * o.Height; area > bestArea {
				best, bestArea = i, area
			}
		}
		if best >= 0 {
			return monitors[best], true
		}
	}

	for _, m := range monitors {
		if m.Primary {
			return m, true
		}
	}
	return monitors[0], true
}

// DisplayMode is one exclusive resolution/depth configuration.
type DisplayMode struct {
	ID     uint32
	Width  int
	Height int
	Depth  int
	// Refresh is in Hz; zero when unknown.
	Refresh float64
}

// Layer selects the window z-order band.
type Layer int

const (
	LayerNormal Layer = iota
	LayerTopMost
)

// Style is the native decoration style of a window.
type Style struct {
	Framed     bool
	Fullscreen bool
}

// Placement is the single reposition directive issued per transition.
type Placement struct {
	// Bounds is the outer window rectangle, decorations included.
	Bounds       Rect
	Layer        Layer
	FrameChanged bool
}

// WindowSpec describes a window to create.
type WindowSpec struct {
	Class  string
	Title  string
	Style  Style
	Bounds Rect
	// Parent is the foreign container for embedded windows, zero for a
	// top-level window.
	Parent Handle
}

// PixelFormatRequest describes the desired drawing surface format.
type PixelFormatRequest struct {
	DoubleBuffer bool
	Stereo       bool
	ColorBits    int
}

// PixelFormat is a backend-chosen surface format.
type PixelFormat struct {
	ID        uint32
	ColorBits int
	Stereo    bool
}

// Backend abstracts every native call made by the window layer.
type Backend interface {
	RegisterClass(name string) error
	UnregisterClass(name string)

	// CreateWindow creates a window and invokes register with its handle
	// before any message for it can be observed.
	CreateWindow(spec WindowSpec, register func(Handle)) (Handle, error)
	DestroyWindow(h Handle)
	IsWindow(h Handle) bool
	EnableInput(h Handle, enabled bool)

	SetTitle(h Handle, title string)
	SetStyle(h Handle, style Style)
	FrameInsets(h Handle, style Style) Insets
	SetPlacement(h Handle, p Placement) error
	Show(h Handle)
	MoveWindow(h Handle, r Rect)
	SetAspectHint(h Handle, aspect float64)

	// ClientRect returns the client area size; X and Y are zero.
	ClientRect(h Handle) (Rect, bool)
	ClientOrigin(h Handle) (Point, bool)

	ShowCursor(h Handle, visible bool)
	BeginMoveDrag(h Handle)

	// PeekMessage removes and returns the next pending message without
	// blocking.
	PeekMessage() (Message, bool)
	// Dispatch completes a message: unhandled messages get default
	// processing, handled ones apply the reply.
	Dispatch(msg Message, reply Reply)

	IsKeyDown(k NativeKey) bool

	Monitors() iter.Seq[Monitor]
	VirtualScreen() Rect
	MonitorFromWindow(h Handle) (Monitor, bool)

	CurrentMode() (DisplayMode, error)
	DisplayModes() ([]DisplayMode, error)
	SetDisplayMode(m DisplayMode) error
	RestoreDisplayMode() error

	GetDC(h Handle) (DC, error)
	ReleaseDC(h Handle, dc DC)
	CreateAdapterDC(adapter int) (DC, bool)
	DeleteDC(dc DC)
	ChoosePixelFormat(dc DC, req PixelFormatRequest) (PixelFormat, error)
	SetPixelFormat(dc DC, pf PixelFormat) error
}
