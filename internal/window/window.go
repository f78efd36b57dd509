// Package window owns the lifecycle of the single video output window:
// creation, configuration, fullscreen/border/on-top transitions, event
// polling and teardown.
package window

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/1broseidon/vidwin/internal/aspect"
	"github.com/1broseidon/vidwin/internal/keys"
	"github.com/1broseidon/vidwin/internal/modes"
	"github.com/1broseidon/vidwin/internal/platform"
	"github.com/1broseidon/vidwin/internal/screen"
)

var (
	ErrClassRegistration = errors.New("window class registration failed")
	ErrWindowCreation    = errors.New("window creation failed")
	ErrPixelFormat       = errors.New("no usable pixel format")
	ErrNotInitialized    = errors.New("window not initialized")
)

// DefaultTitle is used when neither Options.Title nor a TitleSource
// provides one.
const DefaultTitle = "vidwin"

// Options are the user-facing presentation options. The window reads them
// on every transition and writes back Fullscreen and the resolved screen
// size.
type Options struct {
	Title     string
	ClassName string

	Fullscreen bool
	Border     bool
	OnTop      bool
	KeepAspect bool
	MouseInput bool

	Monitor screen.Policy
	// EmbedWindow is the foreign container handle; negative for a
	// top-level window.
	EmbedWindow int64
	// Adapter selects a dedicated drawing context; negative for none.
	Adapter int

	ScreenWidth  int
	ScreenHeight int
}

// DefaultOptions returns options for a bordered top-level window.
func DefaultOptions() Options {
	return Options{
		ClassName:   "vidwin",
		Border:      true,
		KeepAspect:  true,
		MouseInput:  true,
		Monitor:     screen.Nearest(),
		EmbedWindow: -1,
		Adapter:     -1,
	}
}

// TitleSource supplies the window title when Options.Title is empty.
type TitleSource interface {
	Title() string
}

// MouseMover receives pointer motion in client coordinates.
type MouseMover interface {
	MouseMoved(x, y int)
}

// State is a snapshot of the window geometry and presentation flags.
type State struct {
	X      int
	Y      int
	Width  int
	Height int

	// Saved is the windowed geometry restored when leaving fullscreen.
	Saved platform.Rect

	RequestedWidth  int
	RequestedHeight int

	Fullscreen    bool
	Bordered      bool
	OnTop         bool
	ModeSwitching bool

	BoundsInitialized bool
	Depth             int
	Screen            screen.Info
}

// Config wires a Window to its platform and collaborators. Backend, Options
// and Keys are required.
type Config struct {
	Backend  platform.Backend
	Options  *Options
	Keys     keys.Sink
	Aspect   aspect.Provider
	Title    TitleSource
	Mouse    MouseMover
	Registry *Registry
	Logger   *slog.Logger
}

// Window is one video output window context. It is not safe for concurrent
// use; every method must run on the goroutine that polls events.
type Window struct {
	backend    platform.Backend
	opts       *Options
	keys       keys.Sink
	aspect     aspect.Provider
	title      TitleSource
	mouse      MouseMover
	registry   *Registry
	logger     *slog.Logger
	translator *keys.Translator
	modes      *modes.Switcher

	classRegistered bool
	handle          platform.Handle
	adapterDC       platform.DC
	hasAdapterDC    bool

	state     State
	currentFS bool
	flags     EventFlags
}

// New creates an uninitialized window context.
func New(cfg Config) *Window {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	registry := cfg.Registry
	if registry == nil {
		registry = NewRegistry()
	}
	ratio := cfg.Aspect
	if ratio == nil {
		ratio = aspect.NewTracker(0)
	}
	return &Window{
		backend:    cfg.Backend,
		opts:       cfg.Options,
		keys:       cfg.Keys,
		aspect:     ratio,
		title:      cfg.Title,
		mouse:      cfg.Mouse,
		registry:   registry,
		logger:     logger,
		translator: keys.NewTranslator(cfg.Backend),
		modes:      modes.NewSwitcher(cfg.Backend, logger),
	}
}

// Handle returns the native handle, zero before Init.
func (w *Window) Handle() platform.Handle { return w.handle }

// Initialized reports whether Init succeeded and Shutdown has not run.
func (w *Window) Initialized() bool { return w.handle != 0 }

// Embedded reports whether the window lives inside a foreign container.
func (w *Window) Embedded() bool { return w.opts.EmbedWindow >= 0 }

// State returns a snapshot of the current geometry and flags.
func (w *Window) State() State { return w.state }

// Init registers the window class, creates the window and resolves the
// screen. Calling it again on an initialized context is a no-op.
func (w *Window) Init() error {
	if w.handle != 0 {
		return nil
	}

	if err := w.backend.RegisterClass(w.opts.ClassName); err != nil {
		w.logger.Error("unable to register window class", "class", w.opts.ClassName, "error", err)
		return fmt.Errorf("%w: %v", ErrClassRegistration, err)
	}
	w.classRegistered = true

	spec := platform.WindowSpec{
		Class: w.opts.ClassName,
		Title: w.windowTitle(),
	}
	var parentSize platform.Rect
	if w.Embedded() {
		parent := platform.Handle(w.opts.EmbedWindow)
		parentSize, _ = w.backend.ClientRect(parent)
		spec.Parent = parent
		spec.Bounds = platform.Rect{Width: parentSize.Width, Height: parentSize.Height}
	} else {
		spec.Style = platform.Style{Framed: w.opts.Border}
		spec.Bounds = platform.Rect{Width: 100, Height: 100}
	}

	h, err := w.backend.CreateWindow(spec, func(h platform.Handle) {
		w.handle = h
		w.registry.Add(h, w)
	})
	if err != nil {
		if w.handle != 0 {
			w.registry.Remove(w.handle)
			w.handle = 0
		}
		w.backend.UnregisterClass(w.opts.ClassName)
		w.classRegistered = false
		w.logger.Error("unable to create window", "error", err)
		return fmt.Errorf("%w: %v", ErrWindowCreation, err)
	}
	w.handle = h

	if w.Embedded() {
		w.backend.EnableInput(h, false)
		w.state.Width, w.state.Height = parentSize.Width, parentSize.Height
	}

	if w.opts.Adapter >= 0 {
		if dc, ok := w.backend.CreateAdapterDC(w.opts.Adapter); ok {
			w.adapterDC = dc
			w.hasAdapterDC = true
		} else {
			w.logger.Warn("adapter drawing context unavailable, using window", "adapter", w.opts.Adapter)
		}
	}

	w.updateScreenProperties()
	w.logger.Debug("window created", "handle", h, "embedded", w.Embedded())
	return nil
}

// Shutdown restores the display mode and cursor and destroys the window.
// It is a no-op when nothing was initialized.
func (w *Window) Shutdown() {
	if w.handle == 0 && !w.classRegistered {
		return
	}

	if w.state.ModeSwitching {
		w.modes.Restore()
	}
	w.backend.ShowCursor(w.handle, true)

	if w.hasAdapterDC {
		w.backend.DeleteDC(w.adapterDC)
		w.adapterDC = 0
		w.hasAdapterDC = false
	}
	if w.handle != 0 {
		w.registry.Remove(w.handle)
		w.backend.DestroyWindow(w.handle)
		w.handle = 0
	}
	if w.classRegistered {
		w.backend.UnregisterClass(w.opts.ClassName)
		w.classRegistered = false
	}

	w.state = State{}
	w.currentFS = false
	w.flags = 0
	w.logger.Debug("window destroyed")
}

// AcquireDrawingContext returns the adapter context when one was created,
// otherwise a fresh context for the window.
func (w *Window) AcquireDrawingContext() (platform.DC, error) {
	if w.hasAdapterDC {
		return w.adapterDC, nil
	}
	if w.handle == 0 {
		return 0, ErrNotInitialized
	}
	return w.backend.GetDC(w.handle)
}

// ReleaseDrawingContext releases a context from AcquireDrawingContext. The
// adapter context is kept until Shutdown.
func (w *Window) ReleaseDrawingContext(dc platform.DC) {
	if w.hasAdapterDC {
		return
	}
	w.backend.ReleaseDC(w.handle, dc)
}

// QueryScreenInfo re-resolves and returns the presentation screen.
func (w *Window) QueryScreenInfo() screen.Info {
	w.updateScreenProperties()
	return w.state.Screen
}

func (w *Window) windowTitle() string {
	if w.opts.Title != "" {
		return w.opts.Title
	}
	if w.title != nil {
		if t := w.title.Title(); t != "" {
			return t
		}
	}
	return DefaultTitle
}

func (w *Window) updateScreenProperties() {
	mode, err := w.backend.CurrentMode()
	if err != nil {
		w.logger.Error("unable to enumerate display settings", "error", err)
		return
	}

	base := screen.Info{Width: mode.Width, Height: mode.Height, Depth: mode.Depth}
	info := screen.Resolve(w.backend, w.opts.Monitor, w.handle, base)

	w.state.Screen = info
	w.state.Depth = info.Depth
	w.opts.ScreenWidth = info.Width
	w.opts.ScreenHeight = info.Height
	w.aspect.SaveScreenResolution(info.Width, info.Height)
}
