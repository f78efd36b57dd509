// Package screen resolves which screen rectangle a window is presented on.
package screen

import (
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/1broseidon/vidwin/internal/platform"
)

// PolicyKind selects how the presentation screen is chosen.
type PolicyKind int

const (
	// PolicyNearest picks the monitor containing or nearest to the window,
	// falling back to the primary monitor.
	PolicyNearest PolicyKind = iota
	// PolicyVirtual spans the bounding rectangle of all monitors.
	PolicyVirtual
	// PolicyExplicit picks a monitor by enumeration index.
	PolicyExplicit
)

// Policy is a monitor-selection policy.
type Policy struct {
	Kind  PolicyKind
	Index int
}

func Nearest() Policy           { return Policy{Kind: PolicyNearest} }
func Virtual() Policy           { return Policy{Kind: PolicyVirtual} }
func Explicit(index int) Policy { return Policy{Kind: PolicyExplicit, Index: index} }

func (p Policy) String() string {
	switch p.Kind {
	case PolicyVirtual:
		return "virtual"
	case PolicyExplicit:
		return strconv.Itoa(p.Index)
	default:
		return "nearest"
	}
}

// ParsePolicy reads "virtual", "nearest" or a non-negative monitor index.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nearest":
		return Nearest(), nil
	case "virtual":
		return Virtual(), nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return Policy{}, fmt.Errorf("monitor must be virtual, nearest or an index: %q", s)
	}
	if n < 0 {
		return Policy{}, fmt.Errorf("monitor index must be >= 0, got %d", n)
	}
	return Explicit(n), nil
}

// Info is a resolved screen rectangle plus bit depth.
type Info struct {
	X      int
	Y      int
	Width  int
	Height int
	Depth  int
}

// Rect returns the screen rectangle.
func (i Info) Rect() platform.Rect {
	return platform.Rect{X: i.X, Y: i.Y, Width: i.Width, Height: i.Height}
}

// Source is the monitor query surface of the platform.
type Source interface {
	Monitors() iter.Seq[platform.Monitor]
	VirtualScreen() platform.Rect
	MonitorFromWindow(h platform.Handle) (platform.Monitor, bool)
}

// Resolve applies policy on top of base, the current display mode size and
// depth at origin 0,0. Queries that yield nothing keep the base values.
func Resolve(src Source, policy Policy, h platform.Handle, base Info) Info {
	info := Info{Width: base.Width, Height: base.Height, Depth: base.Depth}

	switch policy.Kind {
	case PolicyVirtual:
		v := src.VirtualScreen()
		info.X, info.Y = v.X, v.Y
		if v.Width != 0 {
			info.Width = v.Width
		}
		if v.Height != 0 {
			info.Height = v.Height
		}
	case PolicyNearest:
		if mon, ok := src.MonitorFromWindow(h); ok {
			info = withBounds(info, mon.Bounds)
		}
	case PolicyExplicit:
		target := policy.Index
		mon, ok := Select(src.Monitors(), func(i int, _ platform.Monitor) bool {
			return i >= target
		})
		if ok {
			info = withBounds(info, mon.Bounds)
		}
	}
	return info
}

// Select walks monitors in order until stop returns true and returns the
// monitor it stopped at. When stop never fires the last monitor is
// returned; ok is false only for an empty sequence.
func Select(monitors iter.Seq[platform.Monitor], stop func(i int, m platform.Monitor) bool) (platform.Monitor, bool) {
	var last platform.Monitor
	found := false
	i := 0
	for m := range monitors {
		last = m
		found = true
		if stop(i, m) {
			break
		}
		i++
	}
	return last, found
}

func withBounds(info Info, r platform.Rect) Info {
	info.X, info.Y = r.X, r.Y
	info.Width, info.Height = r.Width, r.Height
	return info
}
