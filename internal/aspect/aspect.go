// Package aspect keeps the aspect-ratio bookkeeping shared with the video
// output: the source ratio the window is locked to and the resolution of
// the screen it is presented on.
package aspect

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
)

// Provider is the aspect-ratio collaborator consumed by the window layer.
type Provider interface {
	Ratio() float64
	SaveScreenResolution(width, height int)
}

// Tracker is a concurrency-safe Provider.
type Tracker struct {
	mu           sync.RWMutex
	ratio        float64
	screenWidth  int
	screenHeight int
}

var _ Provider = (*Tracker)(nil)

// NewTracker returns a tracker locked to ratio.
func NewTracker(ratio float64) *Tracker {
	return &Tracker{ratio: ratio}
}

// Ratio returns the current source aspect ratio (width / height).
func (t *Tracker) Ratio() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.ratio
}

// SetRatio changes the source aspect ratio.
func (t *Tracker) SetRatio(ratio float64) {
	t.mu.Lock()
	t.ratio = ratio
	t.mu.Unlock()
}

// SaveScreenResolution records the resolution of the presentation screen.
func (t *Tracker) SaveScreenResolution(width, height int) {
	t.mu.Lock()
	t.screenWidth = width
	t.screenHeight = height
	t.mu.Unlock()
}

// ScreenResolution returns the last saved screen resolution.
func (t *Tracker) ScreenResolution() (width, height int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.screenWidth, t.screenHeight
}

// Fit returns the largest width x height with the tracked ratio that fits
// inside the saved screen resolution. It returns zeros until a resolution
// has been saved.
func (t *Tracker) Fit() (width, height int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.ratio <= 0 || t.screenWidth <= 0 || t.screenHeight <= 0 {
		return 0, 0
	}
	width = t.screenWidth
	height = int(math.Round(float64(width) / t.ratio))
	if height > t.screenHeight {
		height = t.screenHeight
		width = int(math.Round(float64(height) * t.ratio))
	}
	return width, height
}

// Parse reads a ratio written as "W:H", "W/H" or a decimal number.
func Parse(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("aspect is empty")
	}
	for _, sep := range []string{":", "/"} {
		num, den, ok := strings.Cut(s, sep)
		if !ok {
			continue
		}
		w, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid aspect %q: %w", s, err)
		}
		h, err := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid aspect %q: %w", s, err)
		}
		if w <= 0 || h <= 0 {
			return 0, fmt.Errorf("invalid aspect %q: both terms must be positive", s)
		}
		return w / h, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid aspect %q: %w", s, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("invalid aspect %q: must be positive", s)
	}
	return v, nil
}
