// Package modes selects and applies exclusive display modes for fullscreen
// presentation.
package modes

import (
	"log/slog"

	"github.com/1broseidon/vidwin/internal/platform"
)

// Device is the display-mode facility of the platform.
type Device interface {
	DisplayModes() ([]platform.DisplayMode, error)
	SetDisplayMode(m platform.DisplayMode) error
	RestoreDisplayMode() error
}

// Switcher applies the best covering display mode and restores the desktop
// mode afterwards.
type Switcher struct {
	dev    Device
	logger *slog.Logger

	active   platform.DisplayMode
	switched bool
}

// NewSwitcher creates a switcher for dev.
func NewSwitcher(dev Device, logger *slog.Logger) *Switcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Switcher{dev: dev, logger: logger}
}

// Best picks, among modes with the given depth that are at least
// width x height, the one with the smallest (w-width)*(h-height). Ties go
// to the earliest mode.
func Best(modes []platform.DisplayMode, width, height, depth int) (platform.DisplayMode, bool) {
	var best platform.DisplayMode
	bestScore := -1
	for _, m := range modes {
		if m.Depth != depth || m.Width < width || m.Height < height {
			continue
		}
		score := (m.Width - width) * (m.Height - height)
		if bestScore < 0 || score < bestScore {
			best = m
			bestScore = score
		}
	}
	return best, bestScore >= 0
}

// Apply switches to the best mode covering width x height at depth. It
// reports false, leaving the current mode untouched, when no mode covers
// the request or the switch fails.
func (s *Switcher) Apply(width, height, depth int) bool {
	list, err := s.dev.DisplayModes()
	if err != nil {
		s.logger.Error("failed to enumerate display modes", "error", err)
		return false
	}

	mode, ok := Best(list, width, height, depth)
	if !ok {
		s.logger.Debug("no display mode covers request, keeping desktop mode",
			"width", width, "height", height, "depth", depth)
		return false
	}

	if err := s.dev.SetDisplayMode(mode); err != nil {
		s.logger.Error("failed to switch display mode", "mode", mode.ID, "error", err)
		return false
	}
	s.active = mode
	s.switched = true
	s.logger.Debug("switched display mode", "width", mode.Width, "height", mode.Height, "depth", mode.Depth)
	return true
}

// Restore returns to the desktop mode. It is safe to call when no switch
// happened.
func (s *Switcher) Restore() {
	if err := s.dev.RestoreDisplayMode(); err != nil {
		s.logger.Error("failed to restore display mode", "error", err)
		return
	}
	if s.switched {
		s.logger.Debug("restored desktop display mode")
	}
	s.switched = false
	s.active = platform.DisplayMode{}
}

// Active returns the mode applied by the last successful Apply.
func (s *Switcher) Active() (platform.DisplayMode, bool) {
	return s.active, s.switched
}
