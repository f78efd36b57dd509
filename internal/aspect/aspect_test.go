package aspect

import (
	"math"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"16:9", 16.0 / 9.0, false},
		{"4/3", 4.0 / 3.0, false},
		{" 2.35 ", 2.35, false},
		{"1.0", 1, false},
		{"", 0, true},
		{"16:0", 0, true},
		{"-1", 0, true},
		{"wide", 0, true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Parse(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q): %v", tt.in, err)
			continue
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTrackerFit(t *testing.T) {
	tr := NewTracker(16.0 / 9.0)
	if w, h := tr.Fit(); w != 0 || h != 0 {
		t.Fatalf("Fit before resolution = %dx%d, want 0x0", w, h)
	}

	tr.SaveScreenResolution(1920, 1200)
	if w, h := tr.Fit(); w != 1920 || h != 1080 {
		t.Fatalf("Fit = %dx%d, want 1920x1080", w, h)
	}

	tr.SetRatio(4.0 / 3.0)
	if w, h := tr.Fit(); w != 1600 || h != 1200 {
		t.Fatalf("Fit = %dx%d, want 1600x1200", w, h)
	}
	if w, h := tr.ScreenResolution(); w != 1920 || h != 1200 {
		t.Fatalf("ScreenResolution = %dx%d", w, h)
	}
}
