package screen

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/vidwin/internal/platform"
	"github.com/1broseidon/vidwin/internal/platform/platformtest"
)

func twoMonitors() *platformtest.Backend {
	b := platformtest.New()
	b.MonitorList = []platform.Monitor{
		{ID: 0, Name: "DP-1", Bounds: platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}, Primary: true},
		{ID: 1, Name: "HDMI-1", Bounds: platform.Rect{X: 1920, Y: -200, Width: 2560, Height: 1440}},
	}
	b.Virtual = platform.Rect{X: 0, Y: -200, Width: 4480, Height: 1440}
	return b
}

var base = Info{Width: 1920, Height: 1080, Depth: 24}

func TestResolveExplicitIndex(t *testing.T) {
	b := twoMonitors()

	got := Resolve(b, Explicit(1), 0, base)
	want := Info{X: 1920, Y: -200, Width: 2560, Height: 1440, Depth: 24}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Explicit(1) mismatch (-want +got):\n%s", diff)
	}

	first := Resolve(b, Explicit(0), 0, base)
	if first.Rect() != b.MonitorList[0].Bounds {
		t.Fatalf("Explicit(0) = %+v, want first monitor", first)
	}
}

func TestResolveExplicitIndexPastEndUsesLast(t *testing.T) {
	b := twoMonitors()
	last := Resolve(b, Explicit(1), 0, base)
	for _, n := range []int{2, 5, 100} {
		if got := Resolve(b, Explicit(n), 0, base); got != last {
			t.Fatalf("Explicit(%d) = %+v, want last monitor %+v", n, got, last)
		}
	}
}

func TestResolveExplicitStopsEarly(t *testing.T) {
	b := twoMonitors()
	b.MonitorList = append(b.MonitorList, platform.Monitor{ID: 2, Bounds: platform.Rect{X: -1280, Width: 1280, Height: 1024}})

	Resolve(b, Explicit(0), 0, base)
	if b.Yielded != 1 {
		t.Fatalf("expected enumeration to stop after 1 monitor, yielded %d", b.Yielded)
	}

	b.Yielded = 0
	Resolve(b, Explicit(1), 0, base)
	if b.Yielded != 2 {
		t.Fatalf("expected enumeration to stop after 2 monitors, yielded %d", b.Yielded)
	}
}

func TestResolveExplicitNoMonitorsKeepsBase(t *testing.T) {
	b := twoMonitors()
	b.MonitorList = nil
	if got := Resolve(b, Explicit(3), 0, base); got != base {
		t.Fatalf("expected base %+v, got %+v", base, got)
	}
}

func TestResolveVirtual(t *testing.T) {
	b := twoMonitors()
	got := Resolve(b, Virtual(), 0, base)
	want := Info{X: 0, Y: -200, Width: 4480, Height: 1440, Depth: 24}
	if got != want {
		t.Fatalf("Virtual = %+v, want %+v", got, want)
	}

	b.Virtual = platform.Rect{X: 5, Y: 7}
	got = Resolve(b, Virtual(), 0, base)
	want = Info{X: 5, Y: 7, Width: 1920, Height: 1080, Depth: 24}
	if got != want {
		t.Fatalf("Virtual with zero metrics = %+v, want %+v", got, want)
	}
}

func TestResolveNearest(t *testing.T) {
	b := twoMonitors()
	b.Nearest = 1
	got := Resolve(b, Nearest(), 42, base)
	if got.Rect() != b.MonitorList[1].Bounds || got.Depth != 24 {
		t.Fatalf("Nearest = %+v", got)
	}

	b.Nearest = -1
	if got := Resolve(b, Nearest(), 42, base); got != base {
		t.Fatalf("Nearest without monitor = %+v, want base", got)
	}
}

func TestResolveNearestOffScreenUsesPrimary(t *testing.T) {
	b := platformtest.New()
	b.MonitorList = []platform.Monitor{
		{ID: 0, Name: "DP-1", Bounds: platform.Rect{Width: 1920, Height: 1080}, Primary: true},
		{ID: 1, Name: "HDMI-1", Bounds: platform.Rect{X: 1920, Width: 1920, Height: 1080}},
	}
	b.NearestByGeometry = true
	// Center at (-50,500): left of every monitor, overlapping none.
	b.Foreign[7] = &platformtest.Window{Client: platform.Rect{X: -150, Y: 400, Width: 100, Height: 200}}

	got := Resolve(b, Nearest(), 7, base)
	want := Info{Width: 1920, Height: 1080, Depth: 24}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Nearest off-screen mismatch (-want +got):\n%s", diff)
	}

	b.Foreign[7].Client = platform.Rect{X: 2400, Y: 300, Width: 640, Height: 480}
	if got := Resolve(b, Nearest(), 7, base); got.X != 1920 {
		t.Fatalf("Nearest on second monitor = %+v", got)
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"", Nearest(), false},
		{"nearest", Nearest(), false},
		{"Virtual", Virtual(), false},
		{"0", Explicit(0), false},
		{"3", Explicit(3), false},
		{"-1", Policy{}, true},
		{"left", Policy{}, true},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParsePolicy(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePolicy(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePolicy(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
		if round, _ := ParsePolicy(got.String()); round != got {
			t.Errorf("String round trip of %+v = %+v", got, round)
		}
	}
}
