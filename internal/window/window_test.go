package window

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/vidwin/internal/aspect"
	"github.com/1broseidon/vidwin/internal/keys"
	"github.com/1broseidon/vidwin/internal/platform"
	"github.com/1broseidon/vidwin/internal/platform/platformtest"
	"github.com/1broseidon/vidwin/internal/screen"
)

type harness struct {
	b     *platformtest.Backend
	opts  *Options
	fifo  *keys.FIFO
	ratio *aspect.Tracker
	reg   *Registry
	w     *Window
}

func newHarness(t *testing.T, mutate func(*Options, *platformtest.Backend)) *harness {
	t.Helper()
	b := platformtest.New()
	opts := DefaultOptions()
	if mutate != nil {
		mutate(&opts, b)
	}
	h := &harness{
		b:     b,
		opts:  &opts,
		fifo:  &keys.FIFO{},
		ratio: aspect.NewTracker(16.0 / 9.0),
		reg:   NewRegistry(),
	}
	h.w = New(Config{
		Backend:  b,
		Options:  h.opts,
		Keys:     h.fifo,
		Aspect:   h.ratio,
		Registry: h.reg,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return h
}

func (h *harness) init(t *testing.T) {
	t.Helper()
	if err := h.w.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
}

func (h *harness) client() platform.Rect {
	return h.b.Windows[h.w.Handle()].Client
}

// assertEndsWithPlacement checks the last transition finished with one
// placement followed by the show call.
func (h *harness) assertEndsWithPlacement(t *testing.T) {
	t.Helper()
	calls := h.b.Calls
	if len(calls) < 2 {
		t.Fatalf("calls = %v", calls)
	}
	want := []string{"SetPlacement", "Show"}
	if diff := cmp.Diff(want, calls[len(calls)-2:]); diff != "" {
		t.Fatalf("transition tail (-want +got):\n%s\nall calls: %v", diff, calls)
	}
}

func (h *harness) lastPlacement(t *testing.T) platformtest.PlacementCall {
	t.Helper()
	if len(h.b.Placements) == 0 {
		t.Fatalf("no placement issued")
	}
	return h.b.Placements[len(h.b.Placements)-1]
}

func TestInitCreatesAndRegistersWindow(t *testing.T) {
	h := newHarness(t, nil)
	h.init(t)

	hnd := h.w.Handle()
	if hnd == 0 || h.reg.Lookup(hnd) != h.w {
		t.Fatalf("window %d not registered", hnd)
	}
	if !h.b.Classes["vidwin"] {
		t.Fatalf("class not registered")
	}
	if h.opts.ScreenWidth != 1920 || h.opts.ScreenHeight != 1080 {
		t.Fatalf("screen size not written back: %dx%d", h.opts.ScreenWidth, h.opts.ScreenHeight)
	}
	if w, hh := h.ratio.ScreenResolution(); w != 1920 || hh != 1080 {
		t.Fatalf("aspect collaborator got %dx%d", w, hh)
	}

	if err := h.w.Init(); err != nil {
		t.Fatalf("second Init: %v", err)
	}
	if len(h.b.Windows) != 1 {
		t.Fatalf("second Init created another window")
	}
}

func TestInitFailures(t *testing.T) {
	h := newHarness(t, func(_ *Options, b *platformtest.Backend) {
		b.RegisterErr = errors.New("denied")
	})
	if err := h.w.Init(); !errors.Is(err, ErrClassRegistration) {
		t.Fatalf("Init = %v, want ErrClassRegistration", err)
	}

	h = newHarness(t, func(_ *Options, b *platformtest.Backend) {
		b.CreateErr = errors.New("no display")
	})
	if err := h.w.Init(); !errors.Is(err, ErrWindowCreation) {
		t.Fatalf("Init = %v, want ErrWindowCreation", err)
	}
	if h.b.Classes["vidwin"] {
		t.Fatalf("class left registered after failed creation")
	}
	if h.w.Initialized() || h.reg.Len() != 0 {
		t.Fatalf("failed Init left state behind")
	}
}

func TestConfigureBeforeInit(t *testing.T) {
	h := newHarness(t, nil)
	if err := h.w.Configure(ConfigureRequest{Width: 640, Height: 360}); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("Configure = %v, want ErrNotInitialized", err)
	}
	if err := h.w.ToggleFullscreen(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("ToggleFullscreen = %v, want ErrNotInitialized", err)
	}
}

func TestConfigurePlacesClientArea(t *testing.T) {
	h := newHarness(t, nil)
	h.init(t)

	if err := h.w.Configure(ConfigureRequest{Width: 640, Height: 360, X: 100, Y: 50}); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	want := platform.Rect{X: 100, Y: 50, Width: 640, Height: 360}
	if got := h.client(); got != want {
		t.Fatalf("client = %+v, want %+v", got, want)
	}
	p := h.lastPlacement(t)
	wantBounds := platform.Rect{X: 98, Y: 26, Width: 644, Height: 386}
	if p.Placement.Bounds != wantBounds {
		t.Fatalf("outer bounds = %+v, want %+v", p.Placement.Bounds, wantBounds)
	}
	if !p.Style.Framed || p.Placement.Layer != platform.LayerNormal || !p.Placement.FrameChanged {
		t.Fatalf("unexpected placement %+v", p)
	}
	win := h.b.Windows[h.w.Handle()]
	if !win.Visible || win.Title != DefaultTitle {
		t.Fatalf("window not shown with default title: %+v", win)
	}
	if win.Aspect != 16.0/9.0 {
		t.Fatalf("aspect hint = %v", win.Aspect)
	}
	h.assertEndsWithPlacement(t)

	if err := h.w.Configure(ConfigureRequest{Width: 640, Height: 360, Flags: FlagFullscreen}); err != nil {
		t.Fatalf("Configure fullscreen: %v", err)
	}
	h.assertEndsWithPlacement(t)
}

func TestReconfigureKeepsUserSizeUnlessRequestChanges(t *testing.T) {
	h := newHarness(t, nil)
	h.init(t)
	_ = h.w.Configure(ConfigureRequest{Width: 640, Height: 360, X: 100, Y: 50})

	h.b.ResizeByUser(h.w.Handle(), 960, 540)
	_ = h.w.Configure(ConfigureRequest{Width: 640, Height: 360, X: 0, Y: 0})
	if got := h.client(); got.Width != 960 || got.Height != 540 || got.X != 100 || got.Y != 50 {
		t.Fatalf("same-size reconfigure changed user geometry: %+v", got)
	}

	_ = h.w.Configure(ConfigureRequest{Width: 320, Height: 180})
	if got := h.client(); got.Width != 320 || got.Height != 180 || got.X != 100 {
		t.Fatalf("new-size reconfigure = %+v", got)
	}
}

func TestConfigureHiddenOnlySetsPixelFormat(t *testing.T) {
	h := newHarness(t, nil)
	h.init(t)
	if err := h.w.Configure(ConfigureRequest{Width: 640, Height: 360, Flags: FlagHidden}); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if len(h.b.Placements) != 0 {
		t.Fatalf("hidden configure placed the window")
	}
	if len(h.b.OpenDCs) != 0 {
		t.Fatalf("drawing context leaked: %v", h.b.OpenDCs)
	}
}

func TestConfigurePixelFormatFailure(t *testing.T) {
	h := newHarness(t, func(_ *Options, b *platformtest.Backend) {
		b.PixelErr = errors.New("no stereo visual")
	})
	h.init(t)
	err := h.w.Configure(ConfigureRequest{Width: 640, Height: 360, Flags: FlagStereo})
	if !errors.Is(err, ErrPixelFormat) {
		t.Fatalf("Configure = %v, want ErrPixelFormat", err)
	}
	if len(h.b.Placements) != 0 {
		t.Fatalf("window placed despite pixel format failure")
	}
}

func TestFullscreenRoundTripRestoresGeometry(t *testing.T) {
	h := newHarness(t, nil)
	h.init(t)
	_ = h.w.Configure(ConfigureRequest{Width: 640, Height: 360, X: 100, Y: 50})
	h.b.MoveByUser(h.w.Handle(), 130, 70)
	h.b.Push(platform.Message{Window: h.w.Handle(), Kind: platform.MsgMove})
	h.w.PollEvents()
	windowed := h.client()

	if err := h.w.ToggleFullscreen(); err != nil {
		t.Fatalf("ToggleFullscreen: %v", err)
	}
	if got := h.client(); got != (platform.Rect{Width: 1920, Height: 1080}) {
		t.Fatalf("fullscreen client = %+v", got)
	}
	p := h.lastPlacement(t)
	if p.Style.Framed || !p.Style.Fullscreen || p.Placement.Layer != platform.LayerTopMost {
		t.Fatalf("fullscreen placement = %+v", p)
	}
	if h.b.CursorVisible {
		t.Fatalf("cursor visible in fullscreen")
	}
	if !h.opts.Fullscreen || !h.w.State().Fullscreen {
		t.Fatalf("fullscreen flag not written back")
	}

	_ = h.w.ToggleFullscreen()
	if got := h.client(); got != windowed {
		t.Fatalf("restored client = %+v, want %+v", got, windowed)
	}
	if !h.b.CursorVisible {
		t.Fatalf("cursor hidden after leaving fullscreen")
	}
	if p := h.lastPlacement(t); !p.Style.Framed || p.Placement.Layer != platform.LayerNormal {
		t.Fatalf("windowed placement = %+v", p)
	}
}

func TestBorderToggleHasNoEffectInFullscreen(t *testing.T) {
	h := newHarness(t, nil)
	h.init(t)
	_ = h.w.Configure(ConfigureRequest{Width: 640, Height: 360, Flags: FlagFullscreen})
	before := h.client()

	_ = h.w.ToggleBorder()
	if h.opts.Border {
		t.Fatalf("border option not toggled")
	}
	if got := h.client(); got != before {
		t.Fatalf("fullscreen geometry changed: %+v -> %+v", before, got)
	}
	if p := h.lastPlacement(t); p.Style.Framed {
		t.Fatalf("fullscreen window framed")
	}

	_ = h.w.ToggleFullscreen()
	if p := h.lastPlacement(t); p.Style.Framed {
		t.Fatalf("borderless option ignored after leaving fullscreen")
	}
	if got := h.client(); got.Width != 640 || got.Height != 360 {
		t.Fatalf("windowed size = %+v", got)
	}
}

func TestOnTopToggle(t *testing.T) {
	h := newHarness(t, nil)
	h.init(t)
	_ = h.w.Configure(ConfigureRequest{Width: 640, Height: 360})

	_ = h.w.ToggleOnTop()
	if p := h.lastPlacement(t); p.Placement.Layer != platform.LayerTopMost {
		t.Fatalf("on-top layer = %v", p.Placement.Layer)
	}
	_ = h.w.ToggleOnTop()
	if p := h.lastPlacement(t); p.Placement.Layer != platform.LayerNormal {
		t.Fatalf("layer after second toggle = %v", p.Placement.Layer)
	}
}

func TestModeSwitchingFullscreen(t *testing.T) {
	h := newHarness(t, func(o *Options, b *platformtest.Backend) {
		o.Monitor = screen.Virtual()
		b.Virtual = platform.Rect{}
		b.Modes = []platform.DisplayMode{
			{ID: 5, Width: 800, Height: 600, Depth: 32},
			{ID: 6, Width: 1024, Height: 768, Depth: 32},
		}
	})
	h.init(t)

	err := h.w.Configure(ConfigureRequest{Width: 640, Height: 480, X: 10, Y: 20, Flags: FlagFullscreen | FlagModeSwitching})
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if len(h.b.Switched) != 1 || h.b.Switched[0].ID != 5 {
		t.Fatalf("switched to %+v, want 800x600", h.b.Switched)
	}
	if got := h.client(); got != (platform.Rect{Width: 800, Height: 600}) {
		t.Fatalf("fullscreen client = %+v", got)
	}

	_ = h.w.ToggleFullscreen()
	if h.b.Restores != 1 || h.b.Mode.ID != 1 {
		t.Fatalf("desktop mode not restored: restores=%d mode=%+v", h.b.Restores, h.b.Mode)
	}
	if got := h.client(); got != (platform.Rect{X: 10, Y: 20, Width: 640, Height: 480}) {
		t.Fatalf("windowed client = %+v", got)
	}
}

func TestScreenQueryFailureKeepsCache(t *testing.T) {
	h := newHarness(t, nil)
	h.init(t)
	cached := h.w.QueryScreenInfo()

	h.b.ModeErr = errors.New("display gone")
	if got := h.w.QueryScreenInfo(); got != cached {
		t.Fatalf("QueryScreenInfo = %+v, want cached %+v", got, cached)
	}
}

func TestShutdown(t *testing.T) {
	h := newHarness(t, func(o *Options, b *platformtest.Backend) {
		o.Adapter = 1
		b.AdapterDCs[1] = 77
		b.Modes = []platform.DisplayMode{{ID: 9, Width: 1280, Height: 720, Depth: 32}}
	})
	h.w.Shutdown()
	if len(h.b.Calls) != 0 {
		t.Fatalf("shutdown before init touched the platform: %v", h.b.Calls)
	}

	h.init(t)
	_ = h.w.Configure(ConfigureRequest{Width: 640, Height: 360, Flags: FlagFullscreen | FlagModeSwitching})
	hnd := h.w.Handle()

	h.w.Shutdown()
	if h.b.Mode.ID != 1 {
		t.Fatalf("display mode not restored: %+v", h.b.Mode)
	}
	if !h.b.CursorVisible {
		t.Fatalf("cursor left hidden")
	}
	if diff := cmp.Diff([]platform.DC{77}, h.b.DeletedDCs); diff != "" {
		t.Fatalf("deleted DCs (-want +got):\n%s", diff)
	}
	if h.b.IsWindow(hnd) || h.reg.Lookup(hnd) != nil || h.b.Classes["vidwin"] {
		t.Fatalf("window resources left behind")
	}

	calls := len(h.b.Calls)
	h.w.Shutdown()
	if len(h.b.Calls) != calls {
		t.Fatalf("second shutdown touched the platform")
	}

	h.init(t)
	if !h.w.Initialized() {
		t.Fatalf("re-init after shutdown failed")
	}
}

func TestDrawingContexts(t *testing.T) {
	h := newHarness(t, nil)
	h.init(t)
	dc, err := h.w.AcquireDrawingContext()
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if !h.b.OpenDCs[dc] {
		t.Fatalf("window DC not open")
	}
	h.w.ReleaseDrawingContext(dc)
	if h.b.OpenDCs[dc] {
		t.Fatalf("window DC not released")
	}

	h = newHarness(t, func(o *Options, b *platformtest.Backend) {
		o.Adapter = 2
		b.AdapterDCs[2] = 55
	})
	h.init(t)
	for i := 0; i < 2; i++ {
		dc, err := h.w.AcquireDrawingContext()
		if err != nil || dc != 55 {
			t.Fatalf("Acquire = %v,%v, want adapter DC", dc, err)
		}
		h.w.ReleaseDrawingContext(dc)
	}
	if len(h.b.DeletedDCs) != 0 {
		t.Fatalf("adapter DC deleted before shutdown")
	}
}

func TestEmbeddedWindow(t *testing.T) {
	const parent platform.Handle = 500
	h := newHarness(t, func(o *Options, b *platformtest.Backend) {
		o.EmbedWindow = int64(parent)
		b.Foreign[parent] = &platformtest.Window{Client: platform.Rect{X: 300, Y: 200, Width: 720, Height: 405}}
	})
	h.init(t)

	win := h.b.Windows[h.w.Handle()]
	if win.Spec.Parent != parent || win.InputEnabled {
		t.Fatalf("child window = %+v", win)
	}
	if st := h.w.State(); st.Width != 720 || st.Height != 405 {
		t.Fatalf("embedded size = %dx%d", st.Width, st.Height)
	}

	_ = h.w.Configure(ConfigureRequest{Width: 640, Height: 360, Flags: FlagFullscreen})
	if len(h.b.Placements) != 0 {
		t.Fatalf("embedded window was placed")
	}

	if got := h.w.PollEvents(); got != EventMove {
		t.Fatalf("first poll = %b, want move", got)
	}

	h.b.ResizeByUser(parent, 800, 450)
	if got := h.w.PollEvents(); got != 0 {
		t.Fatalf("poll after container resize = %b", got)
	}
	if diff := cmp.Diff([]platform.Rect{{Width: 800, Height: 450}}, h.b.Moves); diff != "" {
		t.Fatalf("moves (-want +got):\n%s", diff)
	}
	if got := h.w.PollEvents(); got != EventResize {
		t.Fatalf("poll after child resize = %b, want resize", got)
	}

	delete(h.b.Foreign, parent)
	if got := h.w.PollEvents(); !got.Has(EventClose) {
		t.Fatalf("container loss not reported: %b", got)
	}
	if code, ok := h.fifo.TryNext(); !ok || code != keys.KeyCloseWin {
		t.Fatalf("close key = %v,%v", code, ok)
	}
}

func TestCenteredRequest(t *testing.T) {
	h := newHarness(t, nil)
	h.init(t)
	req := h.w.CenteredRequest(640, 360, FlagStereo)
	want := ConfigureRequest{Width: 640, Height: 360, X: 640, Y: 360, Flags: FlagStereo}
	if req != want {
		t.Fatalf("CenteredRequest = %+v, want %+v", req, want)
	}
}
