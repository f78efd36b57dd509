package main

import (
	"flag"
	"fmt"
	"os"
	"slices"

	"github.com/1broseidon/vidwin/internal/modes"
	"github.com/1broseidon/vidwin/internal/platform"
)

type modeJSON struct {
	Width   int     `json:"width"`
	Height  int     `json:"height"`
	Depth   int     `json:"depth"`
	Refresh float64 `json:"refresh,omitempty"`
	Current bool    `json:"current,omitempty"`
	Best    bool    `json:"best,omitempty"`
}

func runModes(args []string) int {
	fs := flag.NewFlagSet("modes", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	display := fs.String("display", "", "X display (default: $DISPLAY)")
	width := fs.Int("width", 0, "Mark the mode a fullscreen switch to this width would pick")
	height := fs.Int("height", 0, "Height for --width")
	depth := fs.Int("depth", 0, "Depth for --width (default: current)")
	asJSON := fs.Bool("json", false, "Print JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: vidwin modes [--display D] [--width W --height H [--depth N]] [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List the display modes of the current output.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	list, current, err := platform.ListDisplayModesStandalone(*display)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	slices.SortFunc(list, func(a, b platform.DisplayMode) int {
		return b.Width*b.Height - a.Width*a.Height
	})

	var best platform.DisplayMode
	haveBest := false
	if *width > 0 && *height > 0 {
		d := *depth
		if d == 0 {
			d = current.Depth
		}
		best, haveBest = modes.Best(list, *width, *height, d)
	}

	out := make([]modeJSON, 0, len(list))
	for _, m := range list {
		out = append(out, modeJSON{
			Width:   m.Width,
			Height:  m.Height,
			Depth:   m.Depth,
			Refresh: m.Refresh,
			Current: m.ID == current.ID,
			Best:    haveBest && m.ID == best.ID,
		})
	}

	if wantJSON(*asJSON) {
		return printJSON(out)
	}
	for _, m := range out {
		mark := " "
		if m.Current {
			mark = "*"
		}
		line := fmt.Sprintf("%s %5dx%-5d %2d bpp", mark, m.Width, m.Height, m.Depth)
		if m.Refresh > 0 {
			line += fmt.Sprintf("  %.2f Hz", m.Refresh)
		}
		if m.Best {
			line += "  <- best fit"
		}
		fmt.Println(line)
	}
	if *width > 0 && *height > 0 && !haveBest {
		fmt.Printf("no mode covers %dx%d\n", *width, *height)
	}
	return 0
}
