package resize

import (
	"testing"

	"github.com/1broseidon/vidwin/internal/platform"
)

var frame = platform.Insets{Left: 4, Top: 20, Right: 4, Bottom: 4}

func windowRect(x, y, clientW, clientH int) platform.Rect {
	return frame.Grow(platform.Rect{X: x, Y: y, Width: clientW, Height: clientH})
}

func TestConstrainIdentityWhenAspectAlreadyHolds(t *testing.T) {
	edges := []platform.Edge{
		platform.EdgeLeft, platform.EdgeRight, platform.EdgeTop, platform.EdgeBottom,
		platform.EdgeTopLeft, platform.EdgeTopRight, platform.EdgeBottomLeft, platform.EdgeBottomRight,
	}
	sizes := [][2]int{{1600, 900}, {1280, 720}, {640, 360}, {1920, 1080}, {16, 9}}
	for _, size := range sizes {
		req := windowRect(37, 51, size[0], size[1])
		for _, edge := range edges {
			if got := Constrain(req, edge, 16.0/9.0, frame); got != req {
				t.Errorf("size %v edge %d: Constrain = %+v, want identity %+v", size, edge, got, req)
			}
		}
	}
}

func TestConstrainLeftDragMovesOnlyBottom(t *testing.T) {
	req := windowRect(100, 100, 800, 400)
	got := Constrain(req, platform.EdgeLeft, 16.0/9.0, frame)

	if got.X != req.X || got.Y != req.Y || got.Right() != req.Right() {
		t.Fatalf("left/top/right changed: got %+v from %+v", got, req)
	}
	if got.Bottom() != req.Bottom()+50 {
		t.Fatalf("bottom = %d, want %d", got.Bottom(), req.Bottom()+50)
	}
	client := frame.Shrink(got)
	if client.Width != 800 || client.Height != 450 {
		t.Fatalf("client = %dx%d, want 800x450", client.Width, client.Height)
	}
}

func TestConstrainHandleTable(t *testing.T) {
	req := windowRect(100, 100, 800, 400)
	// dw = 400*16/9 - 800 = -88, dh = 800*9/16 - 400 = 50
	tests := []struct {
		name string
		edge platform.Edge
		want platform.Rect
	}{
		{"left corrects bottom", platform.EdgeLeft, platform.RectFromEdges(req.X, req.Y, req.Right(), req.Bottom()+50)},
		{"right corrects bottom", platform.EdgeRight, platform.RectFromEdges(req.X, req.Y, req.Right(), req.Bottom()+50)},
		{"top corrects right", platform.EdgeTop, platform.RectFromEdges(req.X, req.Y, req.Right()-88, req.Bottom())},
		{"bottom corrects right", platform.EdgeBottom, platform.RectFromEdges(req.X, req.Y, req.Right()-88, req.Bottom())},
		{"top-left corrects top", platform.EdgeTopLeft, platform.RectFromEdges(req.X, req.Y-50, req.Right(), req.Bottom())},
		{"top-right corrects top", platform.EdgeTopRight, platform.RectFromEdges(req.X, req.Y-50, req.Right(), req.Bottom())},
		{"bottom-left corrects bottom", platform.EdgeBottomLeft, platform.RectFromEdges(req.X, req.Y, req.Right(), req.Bottom()+50)},
		{"bottom-right corrects bottom", platform.EdgeBottomRight, platform.RectFromEdges(req.X, req.Y, req.Right(), req.Bottom()+50)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Constrain(req, tt.edge, 16.0/9.0, frame); got != tt.want {
				t.Fatalf("Constrain = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestConstrainPassThrough(t *testing.T) {
	req := windowRect(0, 0, 800, 400)
	if got := Constrain(req, platform.EdgeNone, 16.0/9.0, frame); got != req {
		t.Fatalf("unmapped handle must pass through, got %+v", got)
	}
	if got := Constrain(req, platform.EdgeLeft, 0, frame); got != req {
		t.Fatalf("zero aspect must pass through, got %+v", got)
	}

	degenerate := platform.Rect{X: 0, Y: 0, Width: 8, Height: 24}
	if got := Constrain(degenerate, platform.EdgeLeft, 16.0/9.0, frame); got != degenerate {
		t.Fatalf("empty client area must pass through, got %+v", got)
	}
}

func TestActive(t *testing.T) {
	if !Active(true, false, false) {
		t.Fatalf("expected active for windowed top-level with keep-aspect")
	}
	if Active(true, true, false) || Active(true, false, true) || Active(false, false, false) {
		t.Fatalf("expected inactive when fullscreen, embedded, or aspect unlocked")
	}
}
