// Package resize corrects interactive window resizes to a fixed aspect
// ratio.
package resize

import "github.com/1broseidon/vidwin/internal/platform"

const (
	sideLeft = iota
	sideTop
	sideRight
	sideBottom
)

// correctedSide maps each drag handle to the edge whose coordinate absorbs
// the correction.
var correctedSide = map[platform.Edge]int{
	platform.EdgeLeft:        sideBottom,
	platform.EdgeTop:         sideRight,
	platform.EdgeRight:       sideBottom,
	platform.EdgeBottom:      sideRight,
	platform.EdgeTopLeft:     sideTop,
	platform.EdgeTopRight:    sideTop,
	platform.EdgeBottomLeft:  sideBottom,
	platform.EdgeBottomRight: sideBottom,
}

// Active reports whether aspect-locked resizing applies to a window.
func Active(keepAspect, fullscreen, embedded bool) bool {
	return keepAspect && !fullscreen && !embedded
}

// Constrain adjusts the proposed outer rectangle req so that its client
// area matches aspect. Only the coordinate selected by edge changes.
// Unknown handles, a non-positive aspect, or an empty client area leave
// req unchanged.
func Constrain(req platform.Rect, edge platform.Edge, aspect float64, insets platform.Insets) platform.Rect {
	side, ok := correctedSide[edge]
	if !ok || aspect <= 0 {
		return req
	}

	client := insets.Shrink(req)
	if client.Empty() {
		return req
	}
	cw := float64(client.Width)
	ch := float64(client.Height)

	dw := int(ch*aspect - cw)
	dh := int(cw/aspect - ch)
	delta := [4]int{dw, dh, -dw, -dh}
	edges := [4]int{req.X, req.Y, req.Right(), req.Bottom()}
	edges[side] -= delta[side]

	out := platform.RectFromEdges(edges[sideLeft], edges[sideTop], edges[sideRight], edges[sideBottom])
	if insets.Shrink(out).Empty() {
		return req
	}
	return out
}
