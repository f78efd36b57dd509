package tui

import (
	"fmt"
	"strings"

	"github.com/1broseidon/vidwin/internal/aspect"
	"github.com/1broseidon/vidwin/internal/config"
	"github.com/1broseidon/vidwin/internal/platform"
)

const (
	fallbackScreenWidth  = 1920
	fallbackScreenHeight = 1080
)

// presentation is where the window lands on a screen of the given size.
type presentation struct {
	Screen   platform.Rect
	Windowed platform.Rect
	// Video is the fullscreen picture area; the whole screen unless the
	// aspect is kept.
	Video platform.Rect
}

// computePresentation places the configured window on a screenW x screenH
// screen: centered and clamped when windowed, letterboxed when fullscreen
// with keep_aspect.
func computePresentation(cfg *config.Config, screenW, screenH int) presentation {
	if screenW <= 0 || screenH <= 0 {
		screenW, screenH = fallbackScreenWidth, fallbackScreenHeight
	}
	p := presentation{Screen: platform.Rect{Width: screenW, Height: screenH}}
	if cfg == nil {
		return p
	}

	w, h := min(cfg.Width, screenW), min(cfg.Height, screenH)
	p.Windowed = platform.Rect{X: (screenW - w) / 2, Y: (screenH - h) / 2, Width: w, Height: h}

	p.Video = p.Screen
	if cfg.KeepAspect {
		t := aspect.NewTracker(cfg.AspectRatio())
		t.SaveScreenResolution(screenW, screenH)
		if vw, vh := t.Fit(); vw > 0 && vh > 0 {
			p.Video = platform.Rect{X: (screenW - vw) / 2, Y: (screenH - vh) / 2, Width: vw, Height: vh}
		}
	}
	return p
}

func summarizePresentation(cfg *config.Config, p presentation) string {
	if cfg == nil {
		return ""
	}
	if cfg.Fullscreen {
		return fmt.Sprintf("fullscreen • video %d×%d on %d×%d", p.Video.Width, p.Video.Height, p.Screen.Width, p.Screen.Height)
	}
	return fmt.Sprintf("windowed • %d×%d at %d,%d on %d×%d",
		p.Windowed.Width, p.Windowed.Height, p.Windowed.X, p.Windowed.Y, p.Screen.Width, p.Screen.Height)
}

// renderASCIIPreview draws the screen as a double-line frame with the
// window (or fullscreen video area) inside it.
func renderASCIIPreview(cfg *config.Config, p presentation, width, height int) []string {
	if cfg == nil || width < 5 || height < 3 {
		return emptyCanvas(width, height)
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	inner, label := p.Windowed, "window"
	if cfg.Fullscreen {
		inner, label = p.Video, "video"
	}
	drawRect(canvas, inner, label, p.Screen.Width, p.Screen.Height)
	drawBorder(canvas, width, height)

	lines := make([]string, height)
	for i, row := range canvas {
		lines[i] = string(row)
	}
	return lines
}

func drawRect(canvas [][]rune, r platform.Rect, label string, screenW, screenH int) {
	canvasH := len(canvas)
	canvasW := len(canvas[0])

	x1 := r.X * canvasW / screenW
	y1 := r.Y * canvasH / screenH
	x2 := r.Right() * canvasW / screenW
	y2 := r.Bottom() * canvasH / screenH

	x1, y1 = max(x1, 1), max(y1, 1)
	x2, y2 = min(x2, canvasW-2), min(y2, canvasH-2)
	if x2 <= x1 || y2 <= y1 {
		return
	}

	for x := x1; x <= x2; x++ {
		canvas[y1][x] = '─'
		canvas[y2][x] = '─'
	}
	for y := y1; y <= y2; y++ {
		canvas[y][x1] = '│'
		canvas[y][x2] = '│'
	}
	canvas[y1][x1] = '┌'
	canvas[y1][x2] = '┐'
	canvas[y2][x1] = '└'
	canvas[y2][x2] = '┘'

	centerY := (y1 + y2) / 2
	startX := (x1+x2)/2 - len(label)/2
	if centerY <= y1 || centerY >= y2 {
		return
	}
	for i, ch := range label {
		if x := startX + i; x > x1 && x < x2 {
			canvas[centerY][x] = ch
		}
	}
}

func drawBorder(canvas [][]rune, width, height int) {
	for x := 0; x < width; x++ {
		canvas[0][x] = '═'
		canvas[height-1][x] = '═'
	}
	for y := 0; y < height; y++ {
		canvas[y][0] = '║'
		canvas[y][width-1] = '║'
	}
	canvas[0][0] = '╔'
	canvas[0][width-1] = '╗'
	canvas[height-1][0] = '╚'
	canvas[height-1][width-1] = '╝'
}

func emptyCanvas(width, height int) []string {
	if height < 0 {
		height = 0
	}
	lines := make([]string, height)
	empty := strings.Repeat(" ", max(width, 0))
	for i := range lines {
		lines[i] = empty
	}
	return lines
}
